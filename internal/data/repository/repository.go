package repository

import (
	"appmarket/pkg/database"

	"go.uber.org/zap"
)

type Repository struct {
	User        UserRepository
	Application ApplicationRepository
}

func NewRepository(db database.PgxIface, log *zap.Logger) *Repository {
	return &Repository{
		User:        NewUserRepository(db, log),
		Application: NewApplicationRepository(db, log),
	}
}
