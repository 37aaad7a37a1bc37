// Package storage keeps user avatars in an object store and removes replaced
// ones in the background.
package storage

import (
	"context"
	"errors"
	"io"
)

var ErrNotFound = errors.New("object not found")

type Object struct {
	Body          io.ReadCloser
	ContentType   string
	ContentLength int64
}

type ObjectStore interface {
	Put(ctx context.Context, key string, body []byte, contentType string) error
	Get(ctx context.Context, key string) (*Object, error)
	Delete(ctx context.Context, key string) error
}
