package usecase

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"time"

	"appmarket/internal/data/entity"
	"appmarket/internal/data/repository"
	"appmarket/internal/dto/request"
	"appmarket/internal/dto/response"
	"appmarket/pkg/querystring"
	"appmarket/pkg/storage"
	"appmarket/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// AssetSweeper removes replaced objects in the background.
type AssetSweeper interface {
	Schedule(key string) bool
}

// UpdateMeInput is a profile change, with the raw upload when a new avatar
// was sent.
type UpdateMeInput struct {
	Fields request.UpdateMeRequest
	Avatar []byte
}

type UserService interface {
	GetProfile(ctx context.Context, userID uuid.UUID) (*response.UserResponse, error)
	UpdateMe(ctx context.Context, userID uuid.UUID, input UpdateMeInput) (*response.UserResponse, error)
	GetAllUsers(ctx context.Context, values url.Values) ([]map[string]any, error)
	BirthdayData(ctx context.Context) (*response.BirthdayData, error)
	GetAvatar(ctx context.Context, key string) (*storage.Object, error)
}

var avatarKeyPattern = regexp.MustCompile(`^[A-Za-z0-9._-]+\.(jpeg|jpg|png)$`)

type userService struct {
	userRepo   repository.UserRepository
	store      storage.ObjectStore
	sweeper    AssetSweeper
	translator *querystring.Translator
	avatar     utils.AvatarConfig
	now        func() time.Time
	log        *zap.Logger
}

func NewUserService(
	userRepo repository.UserRepository,
	store storage.ObjectStore,
	sweeper AssetSweeper,
	translator *querystring.Translator,
	avatar utils.AvatarConfig,
	log *zap.Logger,
) UserService {
	return &userService{
		userRepo:   userRepo,
		store:      store,
		sweeper:    sweeper,
		translator: translator,
		avatar:     avatar,
		now:        time.Now,
		log:        log.With(zap.String("service", "user")),
	}
}

func (us *userService) GetProfile(ctx context.Context, userID uuid.UUID) (*response.UserResponse, error) {
	user, err := us.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, utils.NotFound("User not found")
	}

	resp := response.UserToResponse(user)
	return &resp, nil
}

// UpdateMe changes name, email, birthday and, when an avatar is sent, photo.
// The new avatar is uploaded before the record is touched; the old one is
// handed to the sweeper once the record points at the new key.
func (us *userService) UpdateMe(ctx context.Context, userID uuid.UUID, input UpdateMeInput) (*response.UserResponse, error) {
	if input.Fields.Email != nil {
		email := normalizeEmail(*input.Fields.Email)
		input.Fields.Email = &email
	}
	if errs := utils.ValidateStruct(&input.Fields); len(errs) > 0 {
		us.log.Warn("UpdateMe validation failed", zap.Any("errors", errs))
		return nil, utils.Validation(errs)
	}

	current, err := us.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if current == nil {
		return nil, utils.NotFound("User not found")
	}

	update := entity.ProfileUpdate{Name: input.Fields.Name}
	update.Email = input.Fields.Email
	if input.Fields.Birthday != nil {
		birthday, err := time.Parse("2006-01-02", *input.Fields.Birthday)
		if err != nil {
			return nil, utils.BadRequest("Invalid birthday")
		}
		update.Birthday = &birthday
	}

	var newKey string
	if len(input.Avatar) > 0 {
		newKey, err = us.uploadAvatar(ctx, userID, input.Avatar)
		if err != nil {
			return nil, err
		}
		update.Photo = &newKey
	}

	if update.IsEmpty() {
		resp := response.UserToResponse(current)
		return &resp, nil
	}

	updated, err := us.userRepo.UpdateProfile(ctx, userID, update)
	if err == nil && updated == nil {
		err = utils.NotFound("User not found")
	}
	if err != nil {
		if newKey != "" {
			// the record never pointed at it
			us.sweeper.Schedule(newKey)
		}
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, utils.Conflict("Email already in use")
		}
		return nil, err
	}

	if newKey != "" && current.Photo != newKey {
		us.sweeper.Schedule(current.Photo)
	}

	us.log.Info("Profile updated",
		zap.String("user_id", userID.String()),
		zap.Bool("avatar", newKey != ""))

	resp := response.UserToResponse(updated)
	return &resp, nil
}

func (us *userService) uploadAvatar(ctx context.Context, userID uuid.UUID, raw []byte) (string, error) {
	resized, err := utils.ResizeAvatar(raw, us.avatar.Size, us.avatar.Quality)
	if err != nil {
		us.log.Warn("Failed to process avatar", zap.Error(err), zap.String("user_id", userID.String()))
		return "", utils.BadRequest("Not an image! Please upload only images.")
	}

	key := fmt.Sprintf("user-%s-%d.jpeg", userID.String(), us.now().UnixMilli())
	if err := us.store.Put(ctx, key, resized, "image/jpeg"); err != nil {
		return "", utils.StorageError(err)
	}

	return key, nil
}

func (us *userService) GetAllUsers(ctx context.Context, values url.Values) ([]map[string]any, error) {
	q, err := us.translator.Translate(us.userRepo.BaseQuery(), values)
	if err != nil {
		return nil, err
	}
	return us.userRepo.FindAll(ctx, q)
}

func (us *userService) BirthdayData(ctx context.Context) (*response.BirthdayData, error) {
	stats, err := us.userRepo.BirthdayStats(ctx)
	if err != nil {
		return nil, err
	}

	data := response.BirthdayStatsToResponse(stats)
	return &data, nil
}

// GetAvatar streams a stored avatar. Keys are plain object names.
func (us *userService) GetAvatar(ctx context.Context, key string) (*storage.Object, error) {
	if !avatarKeyPattern.MatchString(key) || strings.Contains(key, "..") {
		return nil, utils.BadRequest("Invalid image id")
	}

	obj, err := us.store.Get(ctx, key)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, utils.NotFound("Image not found")
	}
	if err != nil {
		return nil, utils.StorageError(err)
	}

	return obj, nil
}
