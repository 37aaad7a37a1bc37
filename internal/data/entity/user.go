package entity

import (
	"time"

	"github.com/google/uuid"
)

type UserRole string

const (
	RoleUser    UserRole = "user"
	RoleCreator UserRole = "creator"
	RoleAdmin   UserRole = "admin"
)

const (
	GenderMale   = "Male"
	GenderFemale = "Female"
)

// Default avatars shipped with the bucket. They are shared by many users and
// must never be removed.
const (
	PhotoDefault = "default.jpeg"
	PhotoMale    = "male.jpeg"
	PhotoFemale  = "female.jpeg"
)

var ProtectedPhotos = []string{PhotoDefault, PhotoMale, PhotoFemale}

type User struct {
	Base
	Name                 string      `db:"name"`
	Email                string      `db:"email"`
	PasswordHash         string      `db:"password"`
	Role                 UserRole    `db:"role"`
	Photo                string      `db:"photo"`
	Gender               *string     `db:"gender"`
	Birthday             *time.Time  `db:"birthday"`
	Cart                 []uuid.UUID `db:"cart"`
	GoogleID             *string     `db:"google_id"`
	PasswordChangedAt    *time.Time  `db:"password_changed_at"`
	PasswordResetToken   *string     `db:"password_reset_token"`
	PasswordResetExpires *time.Time  `db:"password_reset_expires"`
}

// DefaultPhoto picks the starter avatar for a gender.
func DefaultPhoto(gender string) string {
	switch gender {
	case GenderMale:
		return PhotoMale
	case GenderFemale:
		return PhotoFemale
	default:
		return PhotoDefault
	}
}

// ChangedPasswordAfter reports whether the password was changed after a token
// issued at issuedAt. JWT timestamps have second precision.
func (u *User) ChangedPasswordAfter(issuedAt time.Time) bool {
	if u.PasswordChangedAt == nil {
		return false
	}
	return u.PasswordChangedAt.Truncate(time.Second).After(issuedAt)
}

// ProfileUpdate carries the fields a user may change on their own record.
// Nil fields are left untouched.
type ProfileUpdate struct {
	Name     *string
	Email    *string
	Birthday *time.Time
	Photo    *string
}

func (p ProfileUpdate) IsEmpty() bool {
	return p.Name == nil && p.Email == nil && p.Birthday == nil && p.Photo == nil
}

type BirthdayStat struct {
	Month      int      `db:"month"`
	TotalUsers int      `db:"total_users"`
	Users      []string `db:"users"`
}
