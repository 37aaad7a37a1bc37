package wire

import (
	"net/http"

	"appmarket/internal/adaptor"
	"appmarket/internal/data/entity"
	"appmarket/pkg/middleware"

	"github.com/go-chi/chi/v5"
)

func wireCatalog(
	r chi.Router,
	catalogHandler *adaptor.CatalogHandler,
	cartHandler *adaptor.CartHandler,
	protect func(http.Handler) http.Handler,
) {
	r.Route("/applications", func(r chi.Router) {
		// ==================== PUBLIC ROUTES ====================
		// GET /api/v1/applications?price[gte]=10&sort=price&fields=name,price&page=2&limit=10
		r.Get("/", catalogHandler.GetAll)
		r.Get("/{applicationId}", catalogHandler.GetByID)

		// ==================== PROTECTED ROUTES ====================
		r.With(protect, middleware.RestrictTo(entity.RoleCreator, entity.RoleAdmin)).Post("/", catalogHandler.Create)
		r.With(protect).Patch("/{applicationId}/addToCart", cartHandler.AddToCart)
		r.With(protect).Delete("/{applicationId}/deleteFromCart", cartHandler.DeleteFromCart)
	})
}
