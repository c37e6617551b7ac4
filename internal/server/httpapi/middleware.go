package httpapi

import (
	"context"
	"net/http"
	"strings"

	"github.com/avolkov/accountsvc/internal/common"
	"github.com/avolkov/accountsvc/internal/server/auth"
)

type contextKey string

const accountIDKey contextKey = "accountID"

// AccountIDFromContext returns the authenticated account id set by the
// bearer-token middleware.
func AccountIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(accountIDKey).(string)
	return id, ok
}

// RequireAuth validates the Authorization bearer token and injects the
// account id into the request context.
func (h *Handler) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			h.writeError(w, r, common.ErrUnauthorized)
			return
		}

		accountID, err := auth.GetAccountIDFromToken(token, h.jwtSecret)
		if err != nil {
			h.writeError(w, r, err)
			return
		}

		ctx := context.WithValue(r.Context(), accountIDKey, accountID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
