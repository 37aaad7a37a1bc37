package adaptor

import (
	"net/http"

	"appmarket/internal/dto/request"
	"appmarket/internal/dto/response"
	"appmarket/internal/usecase"
	"appmarket/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type AuthHandler struct {
	service    usecase.AuthService
	responder  *utils.ErrorResponder
	cookieDays int
	secure     bool
	log        *zap.Logger
}

func NewAuthHandler(service usecase.AuthService, responder *utils.ErrorResponder, config *utils.Config, log *zap.Logger) *AuthHandler {
	return &AuthHandler{
		service:    service,
		responder:  responder,
		cookieDays: config.JWT.CookieExpiryDays,
		secure:     !config.App.IsDevelopment(),
		log:        log.With(zap.String("handler", "auth")),
	}
}

func (h *AuthHandler) sendToken(w http.ResponseWriter, code int, auth *response.AuthResponse) {
	setTokenCookie(w, auth, h.cookieDays, h.secure)
	utils.ResponseToken(w, code, auth.Token, response.UserData{User: auth.User})
}

// SignUp handles POST /api/v1/users/signup
func (h *AuthHandler) SignUp(w http.ResponseWriter, r *http.Request) {
	var req request.SignUpRequest
	if err := utils.DecodeJSON(w, r, &req); err != nil {
		h.responder.Respond(w, err, "sign up")
		return
	}

	auth, err := h.service.SignUp(r.Context(), &req)
	if err != nil {
		h.responder.Respond(w, err, "sign up")
		return
	}

	h.sendToken(w, http.StatusCreated, auth)
}

// Login handles POST /api/v1/users/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req request.LoginRequest
	if err := utils.DecodeJSON(w, r, &req); err != nil {
		h.responder.Respond(w, err, "login")
		return
	}

	auth, err := h.service.Login(r.Context(), &req)
	if err != nil {
		h.responder.Respond(w, err, "login")
		return
	}

	h.sendToken(w, http.StatusOK, auth)
}

// GoogleLogin handles POST /api/v1/users/googlelogin
func (h *AuthHandler) GoogleLogin(w http.ResponseWriter, r *http.Request) {
	var req request.GoogleLoginRequest
	if err := utils.DecodeJSON(w, r, &req); err != nil {
		h.responder.Respond(w, err, "google login")
		return
	}

	auth, err := h.service.GoogleLogin(r.Context(), &req)
	if err != nil {
		h.responder.Respond(w, err, "google login")
		return
	}

	h.sendToken(w, http.StatusOK, auth)
}

// ForgotPassword handles POST /api/v1/users/forgotPassword
func (h *AuthHandler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req request.ForgotPasswordRequest
	if err := utils.DecodeJSON(w, r, &req); err != nil {
		h.responder.Respond(w, err, "forgot password")
		return
	}

	if err := h.service.ForgotPassword(r.Context(), &req); err != nil {
		h.responder.Respond(w, err, "forgot password")
		return
	}

	utils.ResponseMessage(w, "Token sent to email!")
}

// ResetPassword handles PATCH /api/v1/users/resetPassword/{token}
func (h *AuthHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req request.ResetPasswordRequest
	if err := utils.DecodeJSON(w, r, &req); err != nil {
		h.responder.Respond(w, err, "reset password")
		return
	}

	auth, err := h.service.ResetPassword(r.Context(), chi.URLParam(r, "token"), &req)
	if err != nil {
		h.responder.Respond(w, err, "reset password")
		return
	}

	h.sendToken(w, http.StatusOK, auth)
}

// UpdatePassword handles PATCH /api/v1/users/updatePassword
func (h *AuthHandler) UpdatePassword(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	var req request.UpdatePasswordRequest
	if err := utils.DecodeJSON(w, r, &req); err != nil {
		h.responder.Respond(w, err, "update password")
		return
	}

	auth, err := h.service.UpdatePassword(r.Context(), userID, &req)
	if err != nil {
		h.responder.Respond(w, err, "update password")
		return
	}

	h.sendToken(w, http.StatusOK, auth)
}
