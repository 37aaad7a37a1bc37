package wire

import (
	"net/http"

	"appmarket/internal/adaptor"
	"appmarket/internal/data/entity"
	"appmarket/pkg/middleware"

	"github.com/go-chi/chi/v5"
)

// wireUser configures profile, cart and admin routes under /users
func wireUser(
	r chi.Router,
	userHandler *adaptor.UserHandler,
	cartHandler *adaptor.CartHandler,
	protect func(http.Handler) http.Handler,
) {
	r.Group(func(r chi.Router) {
		r.Use(protect)

		r.Get("/users/me", userHandler.GetMe)
		r.Patch("/users/updateMe", userHandler.UpdateMe)
		r.Get("/users/images/{imageId}", userHandler.GetImage)

		r.With(middleware.OwnerOrAdmin("userId")).Get("/users/{userId}/cart", cartHandler.GetCart)

		// ==================== ADMIN ROUTES ====================
		r.Group(func(r chi.Router) {
			r.Use(middleware.RestrictTo(entity.RoleAdmin))

			// GET /api/v1/users?role=creator&sort=name&page=1&limit=10
			r.Get("/users", userHandler.GetAllUsers)
			r.Get("/users/birthdayData", userHandler.BirthdayData)
		})
	})
}
