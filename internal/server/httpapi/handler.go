// Package httpapi exposes the account flows over REST. Routes live under
// /v1/user and speak JSON, except the profile update which accepts a
// multipart form for the optional avatar file.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/avolkov/accountsvc/internal/common"
	"github.com/avolkov/accountsvc/internal/logging"
	"github.com/avolkov/accountsvc/internal/server/media"
	"github.com/avolkov/accountsvc/internal/server/services"
)

// minPasswordLength is enforced on register and reset-password bodies.
const minPasswordLength = 8

// UserFlows is the service surface the handlers call into.
type UserFlows interface {
	Register(ctx context.Context, email, pass, name string) (string, error)
	VerifyOtp(ctx context.Context, email, code string) (string, error)
	Login(ctx context.Context, email, pass string) (*services.LoginResult, error)
	ResendOtp(ctx context.Context, email string) (string, error)
	ForgotPassword(ctx context.Context, email string) (string, error)
	ResetPassword(ctx context.Context, email, code, newPass string) (string, error)
	ResendResetPasswordOtp(ctx context.Context, email string) (string, error)
	GetProfile(ctx context.Context, accountID string) (*services.AccountProfile, error)
	UpdateProfile(ctx context.Context, accountID, name string, upload *services.Upload) (*services.Profile, error)
}

// Handler holds the route handlers and their dependencies.
type Handler struct {
	svc       UserFlows
	jwtSecret []byte
	logger    logging.Logger
}

func NewHandler(svc UserFlows, jwtSecret []byte, logger logging.Logger) *Handler {
	return &Handler{svc: svc, jwtSecret: jwtSecret, logger: logger}
}

type registerRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type verifyOtpRequest struct {
	Email string `json:"email"`
	Otp   string `json:"otp"`
}

type emailRequest struct {
	Email string `json:"email"`
}

type resetPasswordRequest struct {
	Email       string `json:"email"`
	Otp         string `json:"otp"`
	NewPassword string `json:"newPassword"`
}

type messageResponse struct {
	Message string `json:"message"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if !h.decode(w, r, &req) {
		return
	}
	if err := validEmail(req.Email); err != nil {
		h.writeError(w, r, err)
		return
	}
	if len(req.Password) < minPasswordLength {
		h.badRequest(w, "password must be at least 8 characters")
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		h.badRequest(w, "name is required")
		return
	}

	msg, err := h.svc.Register(r.Context(), req.Email, req.Password, req.Name)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, messageResponse{Message: msg})
}

func (h *Handler) VerifyOtp(w http.ResponseWriter, r *http.Request) {
	var req verifyOtpRequest
	if !h.decode(w, r, &req) {
		return
	}
	if err := validEmail(req.Email); err != nil {
		h.writeError(w, r, err)
		return
	}
	if req.Otp == "" {
		h.badRequest(w, "otp is required")
		return
	}

	msg, err := h.svc.VerifyOtp(r.Context(), req.Email, req.Otp)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, messageResponse{Message: msg})
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !h.decode(w, r, &req) {
		return
	}
	if err := validEmail(req.Email); err != nil {
		h.writeError(w, r, err)
		return
	}

	result, err := h.svc.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, result)
}

func (h *Handler) ResendOtp(w http.ResponseWriter, r *http.Request) {
	h.emailOnly(w, r, h.svc.ResendOtp)
}

func (h *Handler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	h.emailOnly(w, r, h.svc.ForgotPassword)
}

func (h *Handler) ResendResetPasswordOtp(w http.ResponseWriter, r *http.Request) {
	h.emailOnly(w, r, h.svc.ResendResetPasswordOtp)
}

// emailOnly serves the three resend/forgot routes that share a body shape.
func (h *Handler) emailOnly(w http.ResponseWriter, r *http.Request,
	op func(ctx context.Context, email string) (string, error)) {

	var req emailRequest
	if !h.decode(w, r, &req) {
		return
	}
	if err := validEmail(req.Email); err != nil {
		h.writeError(w, r, err)
		return
	}

	msg, err := op(r.Context(), req.Email)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, messageResponse{Message: msg})
}

func (h *Handler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req resetPasswordRequest
	if !h.decode(w, r, &req) {
		return
	}
	if err := validEmail(req.Email); err != nil {
		h.writeError(w, r, err)
		return
	}
	if req.Otp == "" {
		h.badRequest(w, "otp is required")
		return
	}
	if len(req.NewPassword) < minPasswordLength {
		h.badRequest(w, "newPassword must be at least 8 characters")
		return
	}

	msg, err := h.svc.ResetPassword(r.Context(), req.Email, req.Otp, req.NewPassword)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, messageResponse{Message: msg})
}

func (h *Handler) GetProfile(w http.ResponseWriter, r *http.Request) {
	accountID, ok := AccountIDFromContext(r.Context())
	if !ok {
		h.writeError(w, r, common.ErrUnauthorized)
		return
	}

	profile, err := h.svc.GetProfile(r.Context(), accountID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, profile)
}

func (h *Handler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	accountID, ok := AccountIDFromContext(r.Context())
	if !ok {
		h.writeError(w, r, common.ErrUnauthorized)
		return
	}

	// the form may carry an avatar file, cap the body a bit above the
	// validation limit so oversize uploads map to ErrFileTooLarge instead
	// of a generic read failure
	r.Body = http.MaxBytesReader(w, r.Body, media.MaxUploadSize+1024*1024)
	if err := r.ParseMultipartForm(media.MaxUploadSize); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			h.writeError(w, r, common.ErrFileTooLarge)
			return
		}
		h.badRequest(w, "invalid multipart form")
		return
	}

	name := r.FormValue("name")

	var upload *services.Upload
	file, header, err := r.FormFile("avatar")
	switch {
	case err == nil:
		defer file.Close()
		data, readErr := io.ReadAll(file)
		if readErr != nil {
			h.writeError(w, r, readErr)
			return
		}
		u := &media.Upload{
			Data:     data,
			MimeType: header.Header.Get("Content-Type"),
			Size:     header.Size,
		}
		if err := u.Validate(); err != nil {
			h.writeError(w, r, err)
			return
		}
		upload = &services.Upload{Data: u.Data, MimeType: u.MimeType}
	case errors.Is(err, http.ErrMissingFile):
		// avatar is optional
	default:
		h.writeError(w, r, err)
		return
	}

	profile, err := h.svc.UpdateProfile(r.Context(), accountID, name, upload)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, profile)
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		h.badRequest(w, "invalid request body")
		return false
	}
	return true
}

func (h *Handler) badRequest(w http.ResponseWriter, msg string) {
	h.writeJSON(w, http.StatusBadRequest, errorResponse{Error: msg})
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		h.logger.Error(context.Background(), "failed to write response", "error", err)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFromError(err)
	if status == http.StatusInternalServerError {
		h.logger.Error(r.Context(), "request failed", "path", r.URL.Path, "error", err)
		// do not leak internals
		h.writeJSON(w, status, errorResponse{Error: "internal server error"})
		return
	}
	h.writeJSON(w, status, errorResponse{Error: err.Error()})
}

func statusFromError(err error) int {
	switch {
	case errors.Is(err, common.ErrEmailExists),
		errors.Is(err, common.ErrAlreadyVerified),
		errors.Is(err, common.ErrInvalidOrExpiredOTP),
		errors.Is(err, common.ErrInvalidEmail),
		errors.Is(err, common.ErrFileTooLarge),
		errors.Is(err, common.ErrUnsupportedFile):
		return http.StatusBadRequest
	case errors.Is(err, common.ErrUnauthorized),
		errors.Is(err, common.ErrInvalidToken),
		errors.Is(err, common.ErrTokenExpired):
		return http.StatusUnauthorized
	case errors.Is(err, common.ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func validEmail(email string) error {
	email = strings.TrimSpace(email)
	at := strings.Index(email, "@")
	if at < 1 || at == len(email)-1 {
		return common.ErrInvalidEmail
	}
	return nil
}
