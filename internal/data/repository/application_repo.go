package repository

import (
	"context"
	"errors"
	"fmt"

	"appmarket/internal/data/entity"
	"appmarket/pkg/database"
	"appmarket/pkg/querystring"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

var ApplicationSchema = querystring.NewSchema(
	querystring.Field{Name: "id", Kind: querystring.KindUUID},
	querystring.Field{Name: "name", Kind: querystring.KindText},
	querystring.Field{Name: "video_src", Kind: querystring.KindText},
	querystring.Field{Name: "img_src", Kind: querystring.KindText},
	querystring.Field{Name: "price", Kind: querystring.KindNumber},
	querystring.Field{Name: "route", Kind: querystring.KindText},
	querystring.Field{Name: "creator_id", Kind: querystring.KindUUID},
	querystring.Field{Name: "tags", Kind: querystring.KindTextArray},
	querystring.Field{Name: "intro", Kind: querystring.KindText},
	querystring.Field{Name: "features", Kind: querystring.KindTextArray},
	querystring.Field{Name: "version", Kind: querystring.KindNumber, Internal: true},
	querystring.Field{Name: "created_at", Kind: querystring.KindTime},
	querystring.Field{Name: "updated_at", Kind: querystring.KindTime},
)

type ApplicationRepository interface {
	Create(ctx context.Context, app *entity.Application) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Application, error)
	FindSummary(ctx context.Context, id uuid.UUID) (*entity.ApplicationSummary, error)
	FindAll(ctx context.Context, q *querystring.Query) ([]map[string]any, error)
	BaseQuery() *querystring.Query
}

type applicationRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewApplicationRepository(db database.PgxIface, log *zap.Logger) ApplicationRepository {
	return &applicationRepository{
		db:  db,
		log: log,
	}
}

func (ar *applicationRepository) Create(ctx context.Context, app *entity.Application) error {
	query := `
		INSERT INTO applications (id, name, video_src, img_src, price, route,
		                          creator_id, tags, intro, features, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`

	if app.Tags == nil {
		app.Tags = []string{}
	}
	if app.Features == nil {
		app.Features = []string{}
	}

	_, err := ar.db.Exec(ctx, query,
		app.ID,
		app.Name,
		app.VideoSrc,
		app.ImgSrc,
		app.Price,
		app.Route,
		app.CreatorID,
		app.Tags,
		app.Intro,
		app.Features,
		app.CreatedAt,
		app.UpdatedAt,
	)

	if err != nil {
		ar.log.Error("Failed to create application",
			zap.Error(err),
			zap.String("name", app.Name),
		)
		return fmt.Errorf("create application %s: %w", app.Name, err)
	}

	return nil
}

func (ar *applicationRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Application, error) {
	query := `
		SELECT id, name, video_src, img_src, price, route, creator_id, tags,
		       intro, features, version, created_at, updated_at, deleted_at
		FROM applications
		WHERE id = $1 AND deleted_at IS NULL
	`

	var app entity.Application
	err := ar.db.QueryRow(ctx, query, id).Scan(
		&app.ID,
		&app.Name,
		&app.VideoSrc,
		&app.ImgSrc,
		&app.Price,
		&app.Route,
		&app.CreatorID,
		&app.Tags,
		&app.Intro,
		&app.Features,
		&app.Version,
		&app.CreatedAt,
		&app.UpdatedAt,
		&app.DeletedAt,
	)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		ar.log.Error("Failed to find application by ID",
			zap.Error(err),
			zap.String("application_id", id.String()),
		)
		return nil, fmt.Errorf("find application by ID %s: %w", id.String(), err)
	}

	return &app, nil
}

// FindSummary loads only the fields shown in a cart.
func (ar *applicationRepository) FindSummary(ctx context.Context, id uuid.UUID) (*entity.ApplicationSummary, error) {
	query := `
		SELECT id, name, price, route, img_src, creator_id
		FROM applications
		WHERE id = $1 AND deleted_at IS NULL
	`

	var s entity.ApplicationSummary
	err := ar.db.QueryRow(ctx, query, id).Scan(&s.ID, &s.Name, &s.Price, &s.Route, &s.ImgSrc, &s.CreatorID)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		ar.log.Error("Failed to find application summary",
			zap.Error(err),
			zap.String("application_id", id.String()),
		)
		return nil, fmt.Errorf("find application summary %s: %w", id.String(), err)
	}

	return &s, nil
}

func (ar *applicationRepository) BaseQuery() *querystring.Query {
	return querystring.New("applications", ApplicationSchema, "deleted_at IS NULL")
}

func (ar *applicationRepository) FindAll(ctx context.Context, q *querystring.Query) ([]map[string]any, error) {
	apps, err := findProjected(ctx, ar.db, q)
	if err != nil {
		ar.log.Error("Failed to get all applications",
			zap.Error(err),
			zap.Int("limit", q.Limit),
			zap.Int("offset", q.Offset),
		)
		return nil, fmt.Errorf("find all applications: %w", err)
	}
	return apps, nil
}
