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

type CatalogHandler struct {
	service   usecase.CatalogService
	responder *utils.ErrorResponder
	log       *zap.Logger
}

func NewCatalogHandler(service usecase.CatalogService, responder *utils.ErrorResponder, log *zap.Logger) *CatalogHandler {
	return &CatalogHandler{
		service:   service,
		responder: responder,
		log:       log.With(zap.String("handler", "catalog")),
	}
}

// GetAll handles GET /api/v1/applications?price[gte]=10&sort=price&fields=name,price&page=1&limit=10
func (h *CatalogHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	apps, err := h.service.GetAll(r.Context(), r.URL.Query())
	if err != nil {
		h.responder.Respond(w, err, "get applications")
		return
	}

	utils.ResponseList(w, len(apps), response.ApplicationsData{Applications: apps})
}

// GetByID handles GET /api/v1/applications/{applicationId}
func (h *CatalogHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, ok := uuidParam(w, chi.URLParam(r, "applicationId"), "applicationId")
	if !ok {
		return
	}

	app, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		h.responder.Respond(w, err, "get application")
		return
	}

	utils.ResponseSuccess(w, response.ApplicationData{Application: *app})
}

// Create handles POST /api/v1/applications (creator or admin)
func (h *CatalogHandler) Create(w http.ResponseWriter, r *http.Request) {
	creatorID, ok := currentUser(w, r)
	if !ok {
		return
	}

	var req request.CreateApplicationRequest
	if err := utils.DecodeJSON(w, r, &req); err != nil {
		h.responder.Respond(w, err, "create application")
		return
	}

	app, err := h.service.Create(r.Context(), creatorID, &req)
	if err != nil {
		h.responder.Respond(w, err, "create application")
		return
	}

	utils.ResponseCreated(w, response.ApplicationData{Application: *app})
}
