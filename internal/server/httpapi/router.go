package httpapi

import (
	"net/http"

	"github.com/gorilla/mux"
)

// NewRouter wires the /v1/user routes. Profile routes sit behind the
// bearer-token middleware, everything else is public.
func NewRouter(h *Handler) *mux.Router {
	r := mux.NewRouter()

	r.HandleFunc("/health", h.Health).Methods(http.MethodGet)

	u := r.PathPrefix("/v1/user").Subrouter()
	u.HandleFunc("/register", h.Register).Methods(http.MethodPost)
	u.HandleFunc("/verify-otp", h.VerifyOtp).Methods(http.MethodPost)
	u.HandleFunc("/login", h.Login).Methods(http.MethodPost)
	u.HandleFunc("/resend-otp", h.ResendOtp).Methods(http.MethodPost)
	u.HandleFunc("/forgot-password", h.ForgotPassword).Methods(http.MethodPost)
	u.HandleFunc("/reset-password", h.ResetPassword).Methods(http.MethodPost)
	u.HandleFunc("/resend-reset-password-otp", h.ResendResetPasswordOtp).Methods(http.MethodPost)

	p := u.PathPrefix("/profile").Subrouter()
	p.Use(h.RequireAuth)
	p.HandleFunc("", h.GetProfile).Methods(http.MethodGet)
	p.HandleFunc("", h.UpdateProfile).Methods(http.MethodPut)

	return r
}
