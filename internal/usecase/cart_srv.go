package usecase

import (
	"context"
	"errors"

	"appmarket/internal/data/repository"
	"appmarket/internal/dto/response"
	"appmarket/pkg/metrics"
	"appmarket/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type CartService interface {
	AddToCart(ctx context.Context, userID, applicationID uuid.UUID) (*response.ApplicationSummaryResponse, error)
	RemoveFromCart(ctx context.Context, userID, applicationID uuid.UUID) (*response.CartIDsData, error)
	ListCart(ctx context.Context, userID uuid.UUID) (*response.CartData, error)
}

type cartService struct {
	userRepo repository.UserRepository
	appRepo  repository.ApplicationRepository
	metrics  metrics.Recorder
	log      *zap.Logger
}

func NewCartService(
	userRepo repository.UserRepository,
	appRepo repository.ApplicationRepository,
	rec metrics.Recorder,
	log *zap.Logger,
) CartService {
	if rec == nil {
		rec = metrics.Nop{}
	}
	return &cartService{
		userRepo: userRepo,
		appRepo:  appRepo,
		metrics:  rec,
		log:      log.With(zap.String("service", "cart")),
	}
}

// AddToCart appends the application once. Adding an application that is
// already in the cart is a conflict and leaves the cart unchanged.
func (cs *cartService) AddToCart(ctx context.Context, userID, applicationID uuid.UUID) (*response.ApplicationSummaryResponse, error) {
	summary, err := cs.appRepo.FindSummary(ctx, applicationID)
	if err != nil {
		return nil, err
	}
	if summary == nil {
		cs.metrics.RecordCartMutation("add", "not_found")
		return nil, utils.NotFound("No application found with that ID")
	}

	added, err := cs.userRepo.AddToCart(ctx, userID, applicationID)
	if errors.Is(err, repository.ErrUserNotFound) {
		cs.metrics.RecordCartMutation("add", "not_found")
		return nil, utils.NotFound("User not found")
	}
	if err != nil {
		return nil, err
	}
	if !added {
		cs.metrics.RecordCartMutation("add", "conflict")
		return nil, utils.Conflict("Application is already in the cart")
	}

	cs.metrics.RecordCartMutation("add", "ok")
	cs.log.Info("Added to cart",
		zap.String("user_id", userID.String()),
		zap.String("application_id", applicationID.String()))

	resp := response.SummaryToResponse(*summary)
	return &resp, nil
}

// RemoveFromCart is idempotent: removing an absent application succeeds and
// returns the cart as it is.
func (cs *cartService) RemoveFromCart(ctx context.Context, userID, applicationID uuid.UUID) (*response.CartIDsData, error) {
	cart, err := cs.userRepo.RemoveFromCart(ctx, userID, applicationID)
	if errors.Is(err, repository.ErrUserNotFound) {
		cs.metrics.RecordCartMutation("remove", "not_found")
		return nil, utils.NotFound("User not found")
	}
	if err != nil {
		return nil, err
	}

	cs.metrics.RecordCartMutation("remove", "ok")
	cs.log.Info("Removed from cart",
		zap.String("user_id", userID.String()),
		zap.String("application_id", applicationID.String()))

	data := response.CartIDsToResponse(cart)
	return &data, nil
}

func (cs *cartService) ListCart(ctx context.Context, userID uuid.UUID) (*response.CartData, error) {
	items, err := cs.userRepo.ListCart(ctx, userID)
	if err != nil {
		return nil, err
	}

	data := response.SummariesToResponse(items)
	return &data, nil
}
