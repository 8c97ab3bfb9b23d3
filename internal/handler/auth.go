package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/dukerupert/portfolio/internal/auth"
)

type AuthHandler struct {
	svc     *auth.Service
	devMode bool
	logger  *slog.Logger
}

func NewAuthHandler(svc *auth.Service, devMode bool, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{svc: svc, devMode: devMode, logger: logger}
}

func (h *AuthHandler) fail(w http.ResponseWriter, r *http.Request, op string, err error) {
	status := auth.StatusCode(err)
	if status >= http.StatusInternalServerError {
		h.logger.ErrorContext(r.Context(), op, "error", err)
	}
	writeDetail(w, status, auth.Message(err))
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type otpResponse struct {
	OTPSent bool   `json:"otp_sent"`
	Message string `json:"message"`
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeDetail(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	res, err := h.svc.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		h.fail(w, r, "login", err)
		return
	}

	// The challenge is pending even when delivery failed.
	writeJSON(w, http.StatusOK, otpResponse{OTPSent: res.Delivered, Message: res.Message})
}

type verifyRequest struct {
	Email string `json:"email"`
	OTP   string `json:"otp"`
}

type verifyResponse struct {
	Logged bool   `json:"logged"`
	Email  string `json:"email"`
	Token  string `json:"token"`
}

func (h *AuthHandler) VerifyOTP(w http.ResponseWriter, r *http.Request) {
	var req verifyRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeDetail(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	sess, err := h.svc.VerifyOTP(r.Context(), req.Email, req.OTP)
	if err != nil {
		h.fail(w, r, "verify otp", err)
		return
	}

	// No Expires or MaxAge: validity is governed by the token's own expiry.
	http.SetCookie(w, &http.Cookie{
		Name:     auth.CookieName,
		Value:    sess.Token,
		Path:     "/",
		HttpOnly: true,
		Secure:   r.TLS != nil,
		SameSite: http.SameSiteLaxMode,
	})

	writeJSON(w, http.StatusOK, verifyResponse{Logged: true, Email: sess.Email, Token: sess.Token})
}

type resendRequest struct {
	Email string `json:"email"`
}

func (h *AuthHandler) ResendOTP(w http.ResponseWriter, r *http.Request) {
	var req resendRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeDetail(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	res, err := h.svc.ResendOTP(r.Context(), req.Email)
	if err != nil {
		h.fail(w, r, "resend otp", err)
		return
	}

	writeJSON(w, http.StatusOK, otpResponse{OTPSent: true, Message: res.Message})
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     auth.CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   r.TLS != nil,
		SameSite: http.SameSiteLaxMode,
	})
	writeJSON(w, http.StatusOK, map[string]bool{"logged": false})
}

type statusResponse struct {
	Logged  bool   `json:"logged"`
	Email   string `json:"email,omitempty"`
	IsAdmin bool   `json:"is_admin,omitempty"`
}

func (h *AuthHandler) Status(w http.ResponseWriter, r *http.Request) {
	st := h.svc.Status(r.Context(), r)
	writeJSON(w, http.StatusOK, statusResponse{Logged: st.Logged, Email: st.Email, IsAdmin: st.IsAdmin})
}

type debugOTPResponse struct {
	Found     bool       `json:"found"`
	OTP       string     `json:"otp,omitempty"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
	Attempts  int        `json:"attempts"`
}

// DebugOTP exposes the pending code for local development. It answers 404
// unless dev mode is on.
func (h *AuthHandler) DebugOTP(w http.ResponseWriter, r *http.Request) {
	if !h.devMode {
		http.NotFound(w, r)
		return
	}

	email := r.URL.Query().Get("email")
	if email == "" {
		writeDetail(w, http.StatusBadRequest, "Missing email")
		return
	}

	h.logger.Warn("debug otp inspected", "email", email)

	c, ok := h.svc.Peek(email)
	if !ok {
		writeJSON(w, http.StatusOK, debugOTPResponse{Found: false})
		return
	}
	writeJSON(w, http.StatusOK, debugOTPResponse{
		Found:     true,
		OTP:       c.Code,
		ExpiresAt: &c.ExpiresAt,
		Attempts:  c.Attempts,
	})
}
