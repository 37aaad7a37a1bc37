package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"appmarket/internal/data/entity"
	"appmarket/internal/data/repository"
	"appmarket/internal/dto/request"
	"appmarket/internal/dto/response"
	"appmarket/pkg/oauth"
	"appmarket/pkg/utils"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type AuthService interface {
	SignUp(ctx context.Context, req *request.SignUpRequest) (*response.AuthResponse, error)
	Login(ctx context.Context, req *request.LoginRequest) (*response.AuthResponse, error)
	GoogleLogin(ctx context.Context, req *request.GoogleLoginRequest) (*response.AuthResponse, error)
	ForgotPassword(ctx context.Context, req *request.ForgotPasswordRequest) error
	ResetPassword(ctx context.Context, token string, req *request.ResetPasswordRequest) (*response.AuthResponse, error)
	UpdatePassword(ctx context.Context, userID uuid.UUID, req *request.UpdatePasswordRequest) (*response.AuthResponse, error)
	Authenticate(ctx context.Context, token string) (*entity.User, error)
}

// IDTokenVerifier resolves a third-party ID token to a profile.
type IDTokenVerifier interface {
	Verify(ctx context.Context, idToken string) (*oauth.GoogleProfile, error)
}

type authService struct {
	userRepo repository.UserRepository
	google   IDTokenVerifier
	config   *utils.Config
	log      *zap.Logger
}

func NewAuthService(
	userRepo repository.UserRepository,
	google IDTokenVerifier,
	config *utils.Config,
	log *zap.Logger,
) AuthService {
	return &authService{
		userRepo: userRepo,
		google:   google,
		config:   config,
		log:      log.With(zap.String("service", "auth")),
	}
}

// normalizeEmail runs before validation so padded input is accepted.
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *authService) SignUp(ctx context.Context, req *request.SignUpRequest) (*response.AuthResponse, error) {
	req.Email = normalizeEmail(req.Email)
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Signup validation failed", zap.Any("errors", errs))
		return nil, utils.Validation(errs)
	}

	birthday, err := time.Parse("2006-01-02", req.Birthday)
	if err != nil {
		return nil, utils.BadRequest("Invalid birthday")
	}

	email := req.Email
	existing, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, utils.Conflict("Email already in use")
	}

	hashedPassword, err := utils.HashPassword(req.Password)
	if err != nil {
		s.log.Error("Failed to hash password", zap.Error(err))
		return nil, fmt.Errorf("hash password: %w", err)
	}

	gender := req.Gender
	now := time.Now()
	user := &entity.User{
		Base: entity.Base{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		Name:         strings.TrimSpace(req.Name),
		Email:        email,
		PasswordHash: hashedPassword,
		Role:         entity.RoleUser,
		Photo:        entity.DefaultPhoto(gender),
		Gender:       &gender,
		Birthday:     &birthday,
		Cart:         []uuid.UUID{},
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, utils.Conflict("Email already in use")
		}
		return nil, err
	}

	s.log.Info("User signed up",
		zap.String("user_id", user.ID.String()),
		zap.String("email", user.Email))

	return s.issue(user)
}

func (s *authService) Login(ctx context.Context, req *request.LoginRequest) (*response.AuthResponse, error) {
	req.Email = normalizeEmail(req.Email)
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, utils.BadRequest("Please provide email and password!")
	}

	user, err := s.userRepo.FindByEmail(ctx, req.Email)
	if err != nil {
		return nil, err
	}

	if user == nil || !utils.CheckPasswordHash(req.Password, user.PasswordHash) {
		s.log.Warn("Invalid login attempt", zap.String("email", req.Email))
		return nil, utils.Unauthorized("Incorrect email or password")
	}

	s.log.Info("User logged in", zap.String("user_id", user.ID.String()))
	return s.issue(user)
}

// GoogleLogin signs in by Google account, linking it to an existing user with
// the same email or creating a new user.
func (s *authService) GoogleLogin(ctx context.Context, req *request.GoogleLoginRequest) (*response.AuthResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, utils.Validation(errs)
	}

	profile, err := s.google.Verify(ctx, req.IDToken)
	if errors.Is(err, oauth.ErrInvalidIDToken) {
		return nil, utils.Unauthorized("Invalid Google token")
	}
	if err != nil {
		return nil, err
	}

	user, err := s.userRepo.FindByGoogleID(ctx, profile.Subject)
	if err != nil {
		return nil, err
	}
	if user != nil {
		return s.issue(user)
	}

	if profile.Email == "" || !profile.EmailVerified {
		return nil, utils.Unauthorized("Google account has no verified email")
	}

	email := normalizeEmail(profile.Email)
	user, err = s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}

	if user != nil {
		if err := s.userRepo.LinkGoogleID(ctx, user.ID, profile.Subject); err != nil {
			return nil, err
		}
		s.log.Info("Google account linked", zap.String("user_id", user.ID.String()))
		return s.issue(user)
	}

	// the random password is never shown; the account signs in through Google
	random, _, err := utils.GenerateResetToken()
	if err != nil {
		return nil, fmt.Errorf("generate password: %w", err)
	}
	hashedPassword, err := utils.HashPassword(random)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	name := profile.Name
	if name == "" {
		name = strings.SplitN(email, "@", 2)[0]
	}

	googleID := profile.Subject
	now := time.Now()
	user = &entity.User{
		Base: entity.Base{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		Name:         name,
		Email:        email,
		PasswordHash: hashedPassword,
		Role:         entity.RoleUser,
		Photo:        entity.PhotoDefault,
		Cart:         []uuid.UUID{},
		GoogleID:     &googleID,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, utils.Conflict("Email already in use")
		}
		return nil, err
	}

	s.log.Info("User signed up with Google", zap.String("user_id", user.ID.String()))
	return s.issue(user)
}

// ForgotPassword stores a hashed reset token and logs the reset URL. Unknown
// emails get a 404.
func (s *authService) ForgotPassword(ctx context.Context, req *request.ForgotPasswordRequest) error {
	req.Email = normalizeEmail(req.Email)
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return utils.Validation(errs)
	}

	user, err := s.userRepo.FindByEmail(ctx, req.Email)
	if err != nil {
		return err
	}
	if user == nil {
		return utils.NotFound("There is no user with that email address.")
	}

	token, hash, err := utils.GenerateResetToken()
	if err != nil {
		return fmt.Errorf("generate reset token: %w", err)
	}

	expires := time.Now().Add(s.config.JWT.ResetExpires)
	if err := s.userRepo.SetResetToken(ctx, user.ID, &hash, &expires); err != nil {
		return err
	}

	// TODO: deliver through a mailer once one is configured
	resetURL := fmt.Sprintf("%s/api/v1/users/resetPassword/%s", strings.TrimRight(s.config.App.BaseURL, "/"), token)
	s.log.Info("Password reset requested",
		zap.String("user_id", user.ID.String()),
		zap.String("reset_url", resetURL),
		zap.Time("expires_at", expires))

	return nil
}

func (s *authService) ResetPassword(ctx context.Context, token string, req *request.ResetPasswordRequest) (*response.AuthResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, utils.Validation(errs)
	}

	user, err := s.userRepo.FindByResetToken(ctx, utils.HashToken(token))
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, utils.BadRequest("Token is invalid or has expired")
	}

	if err := s.setPassword(ctx, user, req.Password); err != nil {
		return nil, err
	}

	s.log.Info("Password reset", zap.String("user_id", user.ID.String()))
	return s.issue(user)
}

func (s *authService) UpdatePassword(ctx context.Context, userID uuid.UUID, req *request.UpdatePasswordRequest) (*response.AuthResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, utils.Validation(errs)
	}

	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, utils.NotFound("User not found")
	}

	if !utils.CheckPasswordHash(req.PasswordCurrent, user.PasswordHash) {
		return nil, utils.Unauthorized("Your current password is wrong.")
	}

	if err := s.setPassword(ctx, user, req.Password); err != nil {
		return nil, err
	}

	s.log.Info("Password updated", zap.String("user_id", user.ID.String()))
	return s.issue(user)
}

// setPassword backdates the change by a second so the token issued right
// after it still passes Authenticate.
func (s *authService) setPassword(ctx context.Context, user *entity.User, password string) error {
	hashedPassword, err := utils.HashPassword(password)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	changedAt := time.Now().Add(-time.Second)
	if err := s.userRepo.UpdatePassword(ctx, user.ID, hashedPassword, changedAt); err != nil {
		return err
	}

	user.PasswordHash = hashedPassword
	user.PasswordChangedAt = &changedAt
	return nil
}

// Authenticate resolves a bearer token to a live user.
func (s *authService) Authenticate(ctx context.Context, token string) (*entity.User, error) {
	claims, err := utils.ParseToken(token, []byte(s.config.JWT.Secret))
	if errors.Is(err, jwt.ErrTokenExpired) {
		return nil, utils.Unauthorized("Your token has expired! Please log in again.")
	}
	if err != nil {
		return nil, utils.Unauthorized("Invalid token. Please log in again!")
	}

	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		return nil, utils.Unauthorized("Invalid token. Please log in again!")
	}

	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil || user.IsDeleted() {
		return nil, utils.Unauthorized("The user belonging to this token does no longer exist.")
	}

	if claims.IssuedAt == nil || user.ChangedPasswordAfter(claims.IssuedAt.Time) {
		return nil, utils.Unauthorized("User recently changed password! Please log in again.")
	}

	return user, nil
}

func (s *authService) issue(user *entity.User) (*response.AuthResponse, error) {
	validity := time.Duration(s.config.JWT.ExpiryHours) * time.Hour

	token, err := utils.GenerateToken(user.ID.String(), []byte(s.config.JWT.Secret), validity)
	if err != nil {
		s.log.Error("Failed to sign token", zap.Error(err), zap.String("user_id", user.ID.String()))
		return nil, fmt.Errorf("sign token: %w", err)
	}

	return &response.AuthResponse{
		Token:     token,
		ExpiresAt: time.Now().Add(validity),
		User:      response.UserToResponse(user),
	}, nil
}
