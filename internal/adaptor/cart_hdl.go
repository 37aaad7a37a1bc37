package adaptor

import (
	"net/http"

	"appmarket/internal/dto/response"
	"appmarket/internal/usecase"
	"appmarket/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type CartHandler struct {
	service   usecase.CartService
	responder *utils.ErrorResponder
	log       *zap.Logger
}

func NewCartHandler(service usecase.CartService, responder *utils.ErrorResponder, log *zap.Logger) *CartHandler {
	return &CartHandler{
		service:   service,
		responder: responder,
		log:       log.With(zap.String("handler", "cart")),
	}
}

// AddToCart handles PATCH /api/v1/applications/{applicationId}/addToCart
func (h *CartHandler) AddToCart(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	appID, ok := uuidParam(w, chi.URLParam(r, "applicationId"), "applicationId")
	if !ok {
		return
	}

	item, err := h.service.AddToCart(r.Context(), userID, appID)
	if err != nil {
		h.responder.Respond(w, err, "add to cart")
		return
	}

	utils.ResponseSuccess(w, response.CartItemData{Application: *item})
}

// DeleteFromCart handles DELETE /api/v1/applications/{applicationId}/deleteFromCart
func (h *CartHandler) DeleteFromCart(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	appID, ok := uuidParam(w, chi.URLParam(r, "applicationId"), "applicationId")
	if !ok {
		return
	}

	data, err := h.service.RemoveFromCart(r.Context(), userID, appID)
	if err != nil {
		h.responder.Respond(w, err, "remove from cart")
		return
	}

	utils.ResponseList(w, len(data.Cart), data)
}

// GetCart handles GET /api/v1/users/{userId}/cart (owner or admin)
func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	userID, ok := uuidParam(w, chi.URLParam(r, "userId"), "userId")
	if !ok {
		return
	}

	data, err := h.service.ListCart(r.Context(), userID)
	if err != nil {
		h.responder.Respond(w, err, "get cart")
		return
	}

	utils.ResponseList(w, len(data.Cart), data)
}
