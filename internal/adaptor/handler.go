package adaptor

import (
	"net/http"
	"time"

	"appmarket/internal/dto/response"
	"appmarket/internal/usecase"
	"appmarket/pkg/middleware"
	"appmarket/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type Handler struct {
	Auth    *AuthHandler
	User    *UserHandler
	Catalog *CatalogHandler
	Cart    *CartHandler
}

func NewHandler(service *usecase.Service, config *utils.Config, log *zap.Logger) *Handler {
	responder := utils.NewErrorResponder(log.With(zap.String("handler", "errors")), config.App.IsDevelopment())

	return &Handler{
		Auth:    NewAuthHandler(service.Auth, responder, config, log),
		User:    NewUserHandler(service.User, responder, config.Avatar, log),
		Catalog: NewCatalogHandler(service.Catalog, responder, log),
		Cart:    NewCartHandler(service.Cart, responder, log),
	}
}

// setTokenCookie mirrors the issued token into an http-only cookie.
func setTokenCookie(w http.ResponseWriter, auth *response.AuthResponse, days int, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.TokenCookie,
		Value:    auth.Token,
		Path:     "/",
		Expires:  time.Now().Add(time.Duration(days) * 24 * time.Hour),
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// currentUser reads the principal set by middleware.Protect.
func currentUser(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "You are not logged in! Please log in to get access.")
		return uuid.Nil, false
	}
	return userID, true
}

// uuidParam parses a path id, answering 400 when it is malformed.
func uuidParam(w http.ResponseWriter, raw, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(raw)
	if err != nil {
		utils.ResponseBadRequest(w, "Invalid "+name+": "+raw)
		return uuid.Nil, false
	}
	return id, true
}
