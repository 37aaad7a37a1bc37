package adaptor

import (
	"context"
	"net/url"

	"appmarket/internal/data/entity"
	"appmarket/internal/dto/request"
	"appmarket/internal/dto/response"
	"appmarket/internal/usecase"
	"appmarket/pkg/storage"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type AuthServiceMock struct{ mock.Mock }

func (m *AuthServiceMock) authResult(args mock.Arguments) (*response.AuthResponse, error) {
	res, _ := args.Get(0).(*response.AuthResponse)
	return res, args.Error(1)
}

func (m *AuthServiceMock) SignUp(ctx context.Context, req *request.SignUpRequest) (*response.AuthResponse, error) {
	return m.authResult(m.Called(ctx, req))
}

func (m *AuthServiceMock) Login(ctx context.Context, req *request.LoginRequest) (*response.AuthResponse, error) {
	return m.authResult(m.Called(ctx, req))
}

func (m *AuthServiceMock) GoogleLogin(ctx context.Context, req *request.GoogleLoginRequest) (*response.AuthResponse, error) {
	return m.authResult(m.Called(ctx, req))
}

func (m *AuthServiceMock) ForgotPassword(ctx context.Context, req *request.ForgotPasswordRequest) error {
	return m.Called(ctx, req).Error(0)
}

func (m *AuthServiceMock) ResetPassword(ctx context.Context, token string, req *request.ResetPasswordRequest) (*response.AuthResponse, error) {
	return m.authResult(m.Called(ctx, token, req))
}

func (m *AuthServiceMock) UpdatePassword(ctx context.Context, userID uuid.UUID, req *request.UpdatePasswordRequest) (*response.AuthResponse, error) {
	return m.authResult(m.Called(ctx, userID, req))
}

func (m *AuthServiceMock) Authenticate(ctx context.Context, token string) (*entity.User, error) {
	args := m.Called(ctx, token)
	user, _ := args.Get(0).(*entity.User)
	return user, args.Error(1)
}

type UserServiceMock struct{ mock.Mock }

func (m *UserServiceMock) GetProfile(ctx context.Context, userID uuid.UUID) (*response.UserResponse, error) {
	args := m.Called(ctx, userID)
	user, _ := args.Get(0).(*response.UserResponse)
	return user, args.Error(1)
}

func (m *UserServiceMock) UpdateMe(ctx context.Context, userID uuid.UUID, input usecase.UpdateMeInput) (*response.UserResponse, error) {
	args := m.Called(ctx, userID, input)
	user, _ := args.Get(0).(*response.UserResponse)
	return user, args.Error(1)
}

func (m *UserServiceMock) GetAllUsers(ctx context.Context, values url.Values) ([]map[string]any, error) {
	args := m.Called(ctx, values)
	rows, _ := args.Get(0).([]map[string]any)
	return rows, args.Error(1)
}

func (m *UserServiceMock) BirthdayData(ctx context.Context) (*response.BirthdayData, error) {
	args := m.Called(ctx)
	data, _ := args.Get(0).(*response.BirthdayData)
	return data, args.Error(1)
}

func (m *UserServiceMock) GetAvatar(ctx context.Context, key string) (*storage.Object, error) {
	args := m.Called(ctx, key)
	obj, _ := args.Get(0).(*storage.Object)
	return obj, args.Error(1)
}

type CatalogServiceMock struct{ mock.Mock }

func (m *CatalogServiceMock) GetAll(ctx context.Context, values url.Values) ([]map[string]any, error) {
	args := m.Called(ctx, values)
	rows, _ := args.Get(0).([]map[string]any)
	return rows, args.Error(1)
}

func (m *CatalogServiceMock) GetByID(ctx context.Context, id uuid.UUID) (*response.ApplicationResponse, error) {
	args := m.Called(ctx, id)
	app, _ := args.Get(0).(*response.ApplicationResponse)
	return app, args.Error(1)
}

func (m *CatalogServiceMock) Create(ctx context.Context, creatorID uuid.UUID, req *request.CreateApplicationRequest) (*response.ApplicationResponse, error) {
	args := m.Called(ctx, creatorID, req)
	app, _ := args.Get(0).(*response.ApplicationResponse)
	return app, args.Error(1)
}

type CartServiceMock struct{ mock.Mock }

func (m *CartServiceMock) AddToCart(ctx context.Context, userID, applicationID uuid.UUID) (*response.ApplicationSummaryResponse, error) {
	args := m.Called(ctx, userID, applicationID)
	item, _ := args.Get(0).(*response.ApplicationSummaryResponse)
	return item, args.Error(1)
}

func (m *CartServiceMock) RemoveFromCart(ctx context.Context, userID, applicationID uuid.UUID) (*response.CartIDsData, error) {
	args := m.Called(ctx, userID, applicationID)
	data, _ := args.Get(0).(*response.CartIDsData)
	return data, args.Error(1)
}

func (m *CartServiceMock) ListCart(ctx context.Context, userID uuid.UUID) (*response.CartData, error) {
	args := m.Called(ctx, userID)
	data, _ := args.Get(0).(*response.CartData)
	return data, args.Error(1)
}
