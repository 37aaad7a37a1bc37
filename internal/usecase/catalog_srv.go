package usecase

import (
	"context"
	"net/url"
	"strings"
	"time"

	"appmarket/internal/data/entity"
	"appmarket/internal/data/repository"
	"appmarket/internal/dto/request"
	"appmarket/internal/dto/response"
	"appmarket/pkg/querystring"
	"appmarket/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type CatalogService interface {
	GetAll(ctx context.Context, values url.Values) ([]map[string]any, error)
	GetByID(ctx context.Context, id uuid.UUID) (*response.ApplicationResponse, error)
	Create(ctx context.Context, creatorID uuid.UUID, req *request.CreateApplicationRequest) (*response.ApplicationResponse, error)
}

type catalogService struct {
	appRepo    repository.ApplicationRepository
	translator *querystring.Translator
	log        *zap.Logger
}

func NewCatalogService(appRepo repository.ApplicationRepository, translator *querystring.Translator, log *zap.Logger) CatalogService {
	return &catalogService{
		appRepo:    appRepo,
		translator: translator,
		log:        log.With(zap.String("service", "catalog")),
	}
}

func (cs *catalogService) GetAll(ctx context.Context, values url.Values) ([]map[string]any, error) {
	q, err := cs.translator.Translate(cs.appRepo.BaseQuery(), values)
	if err != nil {
		cs.log.Debug("Rejected catalog query", zap.Error(err), zap.String("query", values.Encode()))
		return nil, err
	}
	return cs.appRepo.FindAll(ctx, q)
}

func (cs *catalogService) GetByID(ctx context.Context, id uuid.UUID) (*response.ApplicationResponse, error) {
	app, err := cs.appRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if app == nil {
		return nil, utils.NotFound("No application found with that ID")
	}

	resp := response.ApplicationToResponse(app)
	return &resp, nil
}

func (cs *catalogService) Create(ctx context.Context, creatorID uuid.UUID, req *request.CreateApplicationRequest) (*response.ApplicationResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		cs.log.Warn("Create application validation failed", zap.Any("errors", errs))
		return nil, utils.Validation(errs)
	}

	now := time.Now()
	app := &entity.Application{
		Base: entity.Base{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		Name:      strings.TrimSpace(req.Name),
		VideoSrc:  req.VideoSrc,
		ImgSrc:    req.ImgSrc,
		Price:     *req.Price,
		Route:     req.Route,
		CreatorID: creatorID,
		Tags:      req.Tags,
		Intro:     req.Intro,
		Features:  req.Features,
	}

	if err := cs.appRepo.Create(ctx, app); err != nil {
		return nil, err
	}

	cs.log.Info("Application created",
		zap.String("application_id", app.ID.String()),
		zap.String("creator_id", creatorID.String()))

	resp := response.ApplicationToResponse(app)
	return &resp, nil
}
