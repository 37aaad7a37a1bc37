package wire

import (
	"net/http"

	"appmarket/internal/adaptor"

	"github.com/go-chi/chi/v5"
)

func wireAuth(r chi.Router, authHandler *adaptor.AuthHandler, protect func(http.Handler) http.Handler) {
	// ==================== PUBLIC ROUTES ====================
	r.Post("/users/signup", authHandler.SignUp)
	r.Post("/users/login", authHandler.Login)
	r.Post("/users/googlelogin", authHandler.GoogleLogin)
	r.Post("/users/forgotPassword", authHandler.ForgotPassword)
	r.Patch("/users/resetPassword/{token}", authHandler.ResetPassword)

	// ==================== PROTECTED ROUTES ====================
	r.With(protect).Patch("/users/updatePassword", authHandler.UpdatePassword)
}
