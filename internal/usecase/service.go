package usecase

import (
	"appmarket/internal/data/repository"
	"appmarket/pkg/metrics"
	"appmarket/pkg/querystring"
	"appmarket/pkg/storage"
	"appmarket/pkg/utils"

	"go.uber.org/zap"
)

// Infra groups the outside systems the services talk to besides the database.
type Infra struct {
	Store   storage.ObjectStore
	Sweeper AssetSweeper
	Google  IDTokenVerifier
	Metrics metrics.Recorder
}

type Service struct {
	Auth    AuthService
	User    UserService
	Catalog CatalogService
	Cart    CartService
}

func NewService(repo *repository.Repository, config *utils.Config, infra Infra, log *zap.Logger) *Service {
	translator := querystring.NewTranslator(config.Query.DefaultLimit, config.Query.MaxLimit)

	return &Service{
		Auth:    NewAuthService(repo.User, infra.Google, config, log),
		User:    NewUserService(repo.User, infra.Store, infra.Sweeper, translator, config.Avatar, log),
		Catalog: NewCatalogService(repo.Application, translator, log),
		Cart:    NewCartService(repo.User, repo.Application, infra.Metrics, log),
	}
}
