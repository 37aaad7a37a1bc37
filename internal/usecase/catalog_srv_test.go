package usecase

import (
	"context"
	"net/http"
	"net/url"
	"testing"

	"appmarket/internal/data/entity"
	"appmarket/internal/dto/request"
	"appmarket/pkg/querystring"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newCatalogFixture() (CatalogService, *AppRepoMock) {
	repo := new(AppRepoMock)
	return NewCatalogService(repo, querystring.NewTranslator(100, 100), zap.NewNop()), repo
}

func TestCatalogGetAll_PriceFilterAndSort(t *testing.T) {
	svc, repo := newCatalogFixture()

	rows := []map[string]any{{"price": 15.0}, {"price": 25.0}}
	repo.On("FindAll", mock.Anything, mock.MatchedBy(func(q *querystring.Query) bool {
		sql, args := q.ToSQL()
		return sql == "SELECT id, name, video_src, img_src, price, route, creator_id, tags, intro, features, created_at, updated_at FROM applications WHERE deleted_at IS NULL AND price >= $1 ORDER BY price ASC LIMIT $2 OFFSET $3" &&
			len(args) == 3 && args[0] == 10.0
	})).Return(rows, nil)

	values, _ := url.ParseQuery("price[gte]=10&sort=price")
	got, err := svc.GetAll(context.Background(), values)
	require.NoError(t, err)
	assert.Equal(t, rows, got)
}

func TestCatalogGetAll_BadQuery(t *testing.T) {
	svc, repo := newCatalogFixture()

	values, _ := url.ParseQuery("price[gte]=cheap")
	_, err := svc.GetAll(context.Background(), values)
	requireAppError(t, err, http.StatusBadRequest)
	repo.AssertNotCalled(t, "FindAll", mock.Anything, mock.Anything)
}

func TestCatalogGetByID(t *testing.T) {
	svc, repo := newCatalogFixture()

	app := &entity.Application{Base: entity.Base{ID: uuid.New()}, Name: "Notes", Price: 15}
	missing := uuid.New()
	repo.On("FindByID", mock.Anything, app.ID).Return(app, nil)
	repo.On("FindByID", mock.Anything, missing).Return(nil, nil)

	got, err := svc.GetByID(context.Background(), app.ID)
	require.NoError(t, err)
	assert.Equal(t, "Notes", got.Name)
	assert.NotNil(t, got.Tags)

	_, err = svc.GetByID(context.Background(), missing)
	requireAppError(t, err, http.StatusNotFound)
}

func TestCatalogCreate(t *testing.T) {
	svc, repo := newCatalogFixture()
	creator := uuid.New()
	price := 9.99

	repo.On("Create", mock.Anything, mock.MatchedBy(func(a *entity.Application) bool {
		return a.CreatorID == creator && a.Price == price && a.Name == "Notes"
	})).Return(nil)

	got, err := svc.Create(context.Background(), creator, &request.CreateApplicationRequest{
		Name:  " Notes ",
		Price: &price,
		Route: "/notes",
		Tags:  []string{"productivity"},
	})
	require.NoError(t, err)
	assert.Equal(t, creator.String(), got.CreatorID)

	_, err = svc.Create(context.Background(), creator, &request.CreateApplicationRequest{Name: "No price", Route: "/x"})
	requireAppError(t, err, http.StatusBadRequest)
}
