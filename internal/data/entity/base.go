package entity

import (
	"time"

	"github.com/google/uuid"
)

// Base holds the bookkeeping columns shared by users and applications.
// Version is the internal revision; it is never part of a default projection.
type Base struct {
	ID        uuid.UUID  `db:"id"`
	Version   int        `db:"version"`
	CreatedAt time.Time  `db:"created_at"`
	UpdatedAt time.Time  `db:"updated_at"`
	DeletedAt *time.Time `db:"deleted_at"`
}

// IsDeleted reports whether the row was soft deleted.
func (b Base) IsDeleted() bool {
	return b.DeletedAt != nil
}
