package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"appmarket/internal/data/entity"
	"appmarket/pkg/database"
	"appmarket/pkg/querystring"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

var UserSchema = querystring.NewSchema(
	querystring.Field{Name: "id", Kind: querystring.KindUUID},
	querystring.Field{Name: "name", Kind: querystring.KindText},
	querystring.Field{Name: "email", Kind: querystring.KindText},
	querystring.Field{Name: "role", Kind: querystring.KindText},
	querystring.Field{Name: "photo", Kind: querystring.KindText},
	querystring.Field{Name: "gender", Kind: querystring.KindText},
	querystring.Field{Name: "birthday", Kind: querystring.KindTime},
	querystring.Field{Name: "cart", Kind: querystring.KindUUIDArray},
	querystring.Field{Name: "password", Kind: querystring.KindText, Hidden: true},
	querystring.Field{Name: "google_id", Kind: querystring.KindText, Hidden: true},
	querystring.Field{Name: "password_changed_at", Kind: querystring.KindTime, Hidden: true},
	querystring.Field{Name: "password_reset_token", Kind: querystring.KindText, Hidden: true},
	querystring.Field{Name: "password_reset_expires", Kind: querystring.KindTime, Hidden: true},
	querystring.Field{Name: "version", Kind: querystring.KindNumber, Internal: true},
	querystring.Field{Name: "created_at", Kind: querystring.KindTime},
	querystring.Field{Name: "updated_at", Kind: querystring.KindTime},
)

const userColumns = `id, name, email, password, role, photo, gender, birthday, cart,
	google_id, password_changed_at, password_reset_token, password_reset_expires,
	version, created_at, updated_at, deleted_at`

// ErrUserNotFound is returned by cart mutations when the user row is missing
// or soft-deleted.
var ErrUserNotFound = errors.New("user not found")

type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error)
	FindByEmail(ctx context.Context, email string) (*entity.User, error)
	FindByGoogleID(ctx context.Context, googleID string) (*entity.User, error)
	FindByResetToken(ctx context.Context, tokenHash string) (*entity.User, error)
	FindAll(ctx context.Context, q *querystring.Query) ([]map[string]any, error)
	BaseQuery() *querystring.Query
	UpdateProfile(ctx context.Context, id uuid.UUID, update entity.ProfileUpdate) (*entity.User, error)
	UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string, changedAt time.Time) error
	SetResetToken(ctx context.Context, id uuid.UUID, tokenHash *string, expires *time.Time) error
	LinkGoogleID(ctx context.Context, id uuid.UUID, googleID string) error
	AddToCart(ctx context.Context, userID, applicationID uuid.UUID) (bool, error)
	RemoveFromCart(ctx context.Context, userID, applicationID uuid.UUID) ([]uuid.UUID, error)
	ListCart(ctx context.Context, userID uuid.UUID) ([]entity.ApplicationSummary, error)
	BirthdayStats(ctx context.Context) ([]entity.BirthdayStat, error)
}

type userRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewUserRepository(db database.PgxIface, log *zap.Logger) UserRepository {
	return &userRepository{
		db:  db,
		log: log,
	}
}

func scanUser(row pgx.Row) (*entity.User, error) {
	var user entity.User
	err := row.Scan(
		&user.ID,
		&user.Name,
		&user.Email,
		&user.PasswordHash,
		&user.Role,
		&user.Photo,
		&user.Gender,
		&user.Birthday,
		&user.Cart,
		&user.GoogleID,
		&user.PasswordChangedAt,
		&user.PasswordResetToken,
		&user.PasswordResetExpires,
		&user.Version,
		&user.CreatedAt,
		&user.UpdatedAt,
		&user.DeletedAt,
	)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// Create inserts a new user. A taken email or google id yields ErrDuplicate.
func (ur *userRepository) Create(ctx context.Context, user *entity.User) error {
	query := `
		INSERT INTO users (id, name, email, password, role, photo, gender,
		                   birthday, cart, google_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`

	if user.Cart == nil {
		user.Cart = []uuid.UUID{}
	}

	_, err := ur.db.Exec(ctx, query,
		user.ID,
		user.Name,
		user.Email,
		user.PasswordHash,
		user.Role,
		user.Photo,
		user.Gender,
		user.Birthday,
		user.Cart,
		user.GoogleID,
		user.CreatedAt,
		user.UpdatedAt,
	)

	if isUniqueViolation(err) {
		return fmt.Errorf("create user %s: %w", user.Email, ErrDuplicate)
	}
	if err != nil {
		ur.log.Error("Failed to create user",
			zap.Error(err),
			zap.String("email", user.Email),
		)
		return fmt.Errorf("create user %s: %w", user.Email, err)
	}

	return nil
}

func (ur *userRepository) findOne(ctx context.Context, where string, arg any) (*entity.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE ` + where + ` AND deleted_at IS NULL`

	user, err := scanUser(ur.db.QueryRow(ctx, query, arg))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return user, err
}

func (ur *userRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	user, err := ur.findOne(ctx, "id = $1", id)
	if err != nil {
		ur.log.Error("Failed to find user by ID",
			zap.Error(err),
			zap.String("user_id", id.String()),
		)
		return nil, fmt.Errorf("find user by ID %s: %w", id.String(), err)
	}
	return user, nil
}

func (ur *userRepository) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	user, err := ur.findOne(ctx, "email = $1", email)
	if err != nil {
		ur.log.Error("Failed to find user by email",
			zap.Error(err),
			zap.String("email", email),
		)
		return nil, fmt.Errorf("find user by email %s: %w", email, err)
	}
	return user, nil
}

func (ur *userRepository) FindByGoogleID(ctx context.Context, googleID string) (*entity.User, error) {
	user, err := ur.findOne(ctx, "google_id = $1", googleID)
	if err != nil {
		ur.log.Error("Failed to find user by google id", zap.Error(err))
		return nil, fmt.Errorf("find user by google id: %w", err)
	}
	return user, nil
}

// FindByResetToken only matches tokens that have not expired yet.
func (ur *userRepository) FindByResetToken(ctx context.Context, tokenHash string) (*entity.User, error) {
	user, err := ur.findOne(ctx, "password_reset_token = $1 AND password_reset_expires > NOW()", tokenHash)
	if err != nil {
		ur.log.Error("Failed to find user by reset token", zap.Error(err))
		return nil, fmt.Errorf("find user by reset token: %w", err)
	}
	return user, nil
}

func (ur *userRepository) BaseQuery() *querystring.Query {
	return querystring.New("users", UserSchema, "deleted_at IS NULL")
}

func (ur *userRepository) FindAll(ctx context.Context, q *querystring.Query) ([]map[string]any, error) {
	users, err := findProjected(ctx, ur.db, q)
	if err != nil {
		ur.log.Error("Failed to get all users",
			zap.Error(err),
			zap.Int("limit", q.Limit),
			zap.Int("offset", q.Offset),
		)
		return nil, fmt.Errorf("find all users: %w", err)
	}
	return users, nil
}

// UpdateProfile writes the non-nil fields and returns the updated record,
// or nil when the user does not exist.
func (ur *userRepository) UpdateProfile(ctx context.Context, id uuid.UUID, update entity.ProfileUpdate) (*entity.User, error) {
	query := `
		UPDATE users
		SET name = COALESCE($2, name),
		    email = COALESCE($3, email),
		    birthday = COALESCE($4, birthday),
		    photo = COALESCE($5, photo),
		    version = version + 1,
		    updated_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL
		RETURNING ` + userColumns

	user, err := scanUser(ur.db.QueryRow(ctx, query, id, update.Name, update.Email, update.Birthday, update.Photo))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if isUniqueViolation(err) {
		return nil, fmt.Errorf("update user %s: %w", id.String(), ErrDuplicate)
	}
	if err != nil {
		ur.log.Error("Failed to update user profile",
			zap.Error(err),
			zap.String("user_id", id.String()),
		)
		return nil, fmt.Errorf("update user %s: %w", id.String(), err)
	}

	return user, nil
}

// UpdatePassword stores a new hash and clears any pending reset token.
func (ur *userRepository) UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string, changedAt time.Time) error {
	query := `
		UPDATE users
		SET password = $2,
		    password_changed_at = $3,
		    password_reset_token = NULL,
		    password_reset_expires = NULL,
		    version = version + 1,
		    updated_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL
	`

	result, err := ur.db.Exec(ctx, query, id, passwordHash, changedAt)
	if err != nil {
		ur.log.Error("Failed to update password",
			zap.Error(err),
			zap.String("user_id", id.String()),
		)
		return fmt.Errorf("update password %s: %w", id.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("user %s not found or already deleted", id.String())
	}

	return nil
}

func (ur *userRepository) SetResetToken(ctx context.Context, id uuid.UUID, tokenHash *string, expires *time.Time) error {
	query := `
		UPDATE users
		SET password_reset_token = $2, password_reset_expires = $3, updated_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL
	`

	if _, err := ur.db.Exec(ctx, query, id, tokenHash, expires); err != nil {
		ur.log.Error("Failed to set reset token",
			zap.Error(err),
			zap.String("user_id", id.String()),
		)
		return fmt.Errorf("set reset token %s: %w", id.String(), err)
	}

	return nil
}

func (ur *userRepository) LinkGoogleID(ctx context.Context, id uuid.UUID, googleID string) error {
	query := `UPDATE users SET google_id = $2, updated_at = NOW() WHERE id = $1 AND deleted_at IS NULL`

	_, err := ur.db.Exec(ctx, query, id, googleID)
	if isUniqueViolation(err) {
		return fmt.Errorf("link google id %s: %w", id.String(), ErrDuplicate)
	}
	if err != nil {
		ur.log.Error("Failed to link google id",
			zap.Error(err),
			zap.String("user_id", id.String()),
		)
		return fmt.Errorf("link google id %s: %w", id.String(), err)
	}

	return nil
}

// AddToCart appends the application unless it is already present. The check
// and the write are one statement, so concurrent adds cannot duplicate an
// entry. It reports whether the cart changed, and ErrUserNotFound when there
// is no live user to update.
func (ur *userRepository) AddToCart(ctx context.Context, userID, applicationID uuid.UUID) (bool, error) {
	query := `
		WITH target AS (
			SELECT id FROM users WHERE id = $1 AND deleted_at IS NULL
		), updated AS (
			UPDATE users
			SET cart = array_append(cart, $2), updated_at = NOW()
			WHERE id IN (SELECT id FROM target) AND NOT ($2 = ANY(cart))
			RETURNING id
		)
		SELECT EXISTS (SELECT 1 FROM target), EXISTS (SELECT 1 FROM updated)
	`

	var found, added bool
	err := ur.db.QueryRow(ctx, query, userID, applicationID).Scan(&found, &added)
	if err != nil {
		ur.log.Error("Failed to add to cart",
			zap.Error(err),
			zap.String("user_id", userID.String()),
			zap.String("application_id", applicationID.String()),
		)
		return false, fmt.Errorf("add %s to cart of %s: %w", applicationID.String(), userID.String(), err)
	}
	if !found {
		return false, ErrUserNotFound
	}

	return added, nil
}

// RemoveFromCart drops every occurrence of the application and returns the
// resulting cart, never nil. Removing an absent entry is not an error; a
// missing user is ErrUserNotFound.
func (ur *userRepository) RemoveFromCart(ctx context.Context, userID, applicationID uuid.UUID) ([]uuid.UUID, error) {
	query := `
		UPDATE users
		SET cart = array_remove(cart, $2), updated_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL
		RETURNING cart
	`

	var cart []uuid.UUID
	err := ur.db.QueryRow(ctx, query, userID, applicationID).Scan(&cart)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		ur.log.Error("Failed to remove from cart",
			zap.Error(err),
			zap.String("user_id", userID.String()),
			zap.String("application_id", applicationID.String()),
		)
		return nil, fmt.Errorf("remove %s from cart of %s: %w", applicationID.String(), userID.String(), err)
	}

	if cart == nil {
		cart = []uuid.UUID{}
	}
	return cart, nil
}

// ListCart resolves the cart against the catalog in insertion order. Entries
// whose application no longer exists are skipped.
func (ur *userRepository) ListCart(ctx context.Context, userID uuid.UUID) ([]entity.ApplicationSummary, error) {
	query := `
		SELECT a.id, a.name, a.price, a.route, a.img_src, a.creator_id
		FROM users u
		CROSS JOIN LATERAL unnest(u.cart) WITH ORDINALITY AS c(application_id, position)
		JOIN applications a ON a.id = c.application_id AND a.deleted_at IS NULL
		WHERE u.id = $1 AND u.deleted_at IS NULL
		ORDER BY c.position
	`

	rows, err := ur.db.Query(ctx, query, userID)
	if err != nil {
		ur.log.Error("Failed to list cart",
			zap.Error(err),
			zap.String("user_id", userID.String()),
		)
		return nil, fmt.Errorf("list cart of %s: %w", userID.String(), err)
	}
	defer rows.Close()

	items := []entity.ApplicationSummary{}
	for rows.Next() {
		var item entity.ApplicationSummary
		if err := rows.Scan(&item.ID, &item.Name, &item.Price, &item.Route, &item.ImgSrc, &item.CreatorID); err != nil {
			ur.log.Error("Failed to scan cart row", zap.Error(err))
			return nil, fmt.Errorf("scan cart row: %w", err)
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		ur.log.Error("Rows iteration error", zap.Error(err))
		return nil, fmt.Errorf("iterate cart rows: %w", err)
	}

	return items, nil
}

// BirthdayStats groups users by birth month, ordered by month.
func (ur *userRepository) BirthdayStats(ctx context.Context) ([]entity.BirthdayStat, error) {
	query := `
		SELECT EXTRACT(MONTH FROM birthday)::int AS month,
		       COUNT(*)::int AS total_users,
		       array_agg(name ORDER BY name) AS users
		FROM users
		WHERE deleted_at IS NULL AND birthday IS NOT NULL
		GROUP BY month
		ORDER BY month
	`

	rows, err := ur.db.Query(ctx, query)
	if err != nil {
		ur.log.Error("Failed to aggregate birthdays", zap.Error(err))
		return nil, fmt.Errorf("aggregate birthdays: %w", err)
	}
	defer rows.Close()

	stats := []entity.BirthdayStat{}
	for rows.Next() {
		var stat entity.BirthdayStat
		if err := rows.Scan(&stat.Month, &stat.TotalUsers, &stat.Users); err != nil {
			ur.log.Error("Failed to scan birthday row", zap.Error(err))
			return nil, fmt.Errorf("scan birthday row: %w", err)
		}
		stats = append(stats, stat)
	}

	if err := rows.Err(); err != nil {
		ur.log.Error("Rows iteration error", zap.Error(err))
		return nil, fmt.Errorf("iterate birthday rows: %w", err)
	}

	return stats, nil
}
