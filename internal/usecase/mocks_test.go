package usecase

import (
	"context"
	"sync"
	"time"

	"appmarket/internal/data/entity"
	"appmarket/internal/data/repository"
	"appmarket/pkg/oauth"
	"appmarket/pkg/querystring"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type UserRepoMock struct {
	mock.Mock
}

func (m *UserRepoMock) Create(ctx context.Context, user *entity.User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *UserRepoMock) FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	args := m.Called(ctx, id)
	user, _ := args.Get(0).(*entity.User)
	return user, args.Error(1)
}

func (m *UserRepoMock) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	args := m.Called(ctx, email)
	user, _ := args.Get(0).(*entity.User)
	return user, args.Error(1)
}

func (m *UserRepoMock) FindByGoogleID(ctx context.Context, googleID string) (*entity.User, error) {
	args := m.Called(ctx, googleID)
	user, _ := args.Get(0).(*entity.User)
	return user, args.Error(1)
}

func (m *UserRepoMock) FindByResetToken(ctx context.Context, tokenHash string) (*entity.User, error) {
	args := m.Called(ctx, tokenHash)
	user, _ := args.Get(0).(*entity.User)
	return user, args.Error(1)
}

func (m *UserRepoMock) FindAll(ctx context.Context, q *querystring.Query) ([]map[string]any, error) {
	args := m.Called(ctx, q)
	rows, _ := args.Get(0).([]map[string]any)
	return rows, args.Error(1)
}

func (m *UserRepoMock) BaseQuery() *querystring.Query {
	return querystring.New("users", repository.UserSchema, "deleted_at IS NULL")
}

func (m *UserRepoMock) UpdateProfile(ctx context.Context, id uuid.UUID, update entity.ProfileUpdate) (*entity.User, error) {
	args := m.Called(ctx, id, update)
	user, _ := args.Get(0).(*entity.User)
	return user, args.Error(1)
}

func (m *UserRepoMock) UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string, changedAt time.Time) error {
	return m.Called(ctx, id, passwordHash, changedAt).Error(0)
}

func (m *UserRepoMock) SetResetToken(ctx context.Context, id uuid.UUID, tokenHash *string, expires *time.Time) error {
	return m.Called(ctx, id, tokenHash, expires).Error(0)
}

func (m *UserRepoMock) LinkGoogleID(ctx context.Context, id uuid.UUID, googleID string) error {
	return m.Called(ctx, id, googleID).Error(0)
}

func (m *UserRepoMock) AddToCart(ctx context.Context, userID, applicationID uuid.UUID) (bool, error) {
	args := m.Called(ctx, userID, applicationID)
	return args.Bool(0), args.Error(1)
}

func (m *UserRepoMock) RemoveFromCart(ctx context.Context, userID, applicationID uuid.UUID) ([]uuid.UUID, error) {
	args := m.Called(ctx, userID, applicationID)
	cart, _ := args.Get(0).([]uuid.UUID)
	return cart, args.Error(1)
}

func (m *UserRepoMock) ListCart(ctx context.Context, userID uuid.UUID) ([]entity.ApplicationSummary, error) {
	args := m.Called(ctx, userID)
	items, _ := args.Get(0).([]entity.ApplicationSummary)
	return items, args.Error(1)
}

func (m *UserRepoMock) BirthdayStats(ctx context.Context) ([]entity.BirthdayStat, error) {
	args := m.Called(ctx)
	stats, _ := args.Get(0).([]entity.BirthdayStat)
	return stats, args.Error(1)
}

type AppRepoMock struct {
	mock.Mock
}

func (m *AppRepoMock) Create(ctx context.Context, app *entity.Application) error {
	return m.Called(ctx, app).Error(0)
}

func (m *AppRepoMock) FindByID(ctx context.Context, id uuid.UUID) (*entity.Application, error) {
	args := m.Called(ctx, id)
	app, _ := args.Get(0).(*entity.Application)
	return app, args.Error(1)
}

func (m *AppRepoMock) FindSummary(ctx context.Context, id uuid.UUID) (*entity.ApplicationSummary, error) {
	args := m.Called(ctx, id)
	s, _ := args.Get(0).(*entity.ApplicationSummary)
	return s, args.Error(1)
}

func (m *AppRepoMock) FindAll(ctx context.Context, q *querystring.Query) ([]map[string]any, error) {
	args := m.Called(ctx, q)
	rows, _ := args.Get(0).([]map[string]any)
	return rows, args.Error(1)
}

func (m *AppRepoMock) BaseQuery() *querystring.Query {
	return querystring.New("applications", repository.ApplicationSchema, "deleted_at IS NULL")
}

// memoryCartRepo keeps carts in memory with the same set semantics as the
// SQL statements; everything else goes to the embedded mock.
type memoryCartRepo struct {
	*UserRepoMock
	mu      sync.Mutex
	carts   map[uuid.UUID][]uuid.UUID
	catalog map[uuid.UUID]entity.ApplicationSummary
}

func newMemoryCartRepo(users ...uuid.UUID) *memoryCartRepo {
	r := &memoryCartRepo{
		UserRepoMock: new(UserRepoMock),
		carts:        make(map[uuid.UUID][]uuid.UUID),
		catalog:      make(map[uuid.UUID]entity.ApplicationSummary),
	}
	for _, id := range users {
		r.carts[id] = []uuid.UUID{}
	}
	return r
}

func (r *memoryCartRepo) AddToCart(_ context.Context, userID, applicationID uuid.UUID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	cart, ok := r.carts[userID]
	if !ok {
		return false, repository.ErrUserNotFound
	}
	for _, id := range cart {
		if id == applicationID {
			return false, nil
		}
	}
	r.carts[userID] = append(cart, applicationID)
	return true, nil
}

func (r *memoryCartRepo) RemoveFromCart(_ context.Context, userID, applicationID uuid.UUID) ([]uuid.UUID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	cart, ok := r.carts[userID]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	kept := []uuid.UUID{}
	for _, id := range cart {
		if id != applicationID {
			kept = append(kept, id)
		}
	}
	r.carts[userID] = kept
	return append([]uuid.UUID{}, kept...), nil
}

func (r *memoryCartRepo) ListCart(_ context.Context, userID uuid.UUID) ([]entity.ApplicationSummary, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	items := []entity.ApplicationSummary{}
	for _, id := range r.carts[userID] {
		if s, ok := r.catalog[id]; ok {
			items = append(items, s)
		}
	}
	return items, nil
}

func (r *memoryCartRepo) cart(userID uuid.UUID) []uuid.UUID {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]uuid.UUID(nil), r.carts[userID]...)
}

type sweeperSpy struct {
	mu   sync.Mutex
	keys []string
}

func (s *sweeperSpy) Schedule(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.keys = append(s.keys, key)
	return true
}

func (s *sweeperSpy) scheduled() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.keys...)
}

type verifierStub struct {
	profile *oauth.GoogleProfile
	err     error
}

func (v *verifierStub) Verify(context.Context, string) (*oauth.GoogleProfile, error) {
	return v.profile, v.err
}
