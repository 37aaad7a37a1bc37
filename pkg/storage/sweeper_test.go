package storage

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type StoreMock struct {
	mock.Mock
}

func (m *StoreMock) Put(ctx context.Context, key string, body []byte, contentType string) error {
	args := m.Called(ctx, key, body, contentType)
	return args.Error(0)
}

func (m *StoreMock) Get(ctx context.Context, key string) (*Object, error) {
	args := m.Called(ctx, key)
	obj, _ := args.Get(0).(*Object)
	return obj, args.Error(1)
}

func (m *StoreMock) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

type countingRecorder struct {
	mu      sync.Mutex
	deleted int
	failed  int
	skipped int
}

func (r *countingRecorder) RecordRequest(string, string, int, time.Duration) {}
func (r *countingRecorder) RecordCartMutation(string, string)                {}

func (r *countingRecorder) RecordAssetDeleted() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.deleted++
}

func (r *countingRecorder) RecordAssetDeleteFailure() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.failed++
}

func (r *countingRecorder) RecordAssetSkipped() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.skipped++
}

func stopSweeper(t *testing.T, s *Sweeper) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, s.Stop(ctx))
}

func TestSweeper_DeletesScheduledKeys(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	require.NoError(t, store.Put(ctx, "user-1-100.jpeg", []byte("old"), "image/jpeg"))
	require.NoError(t, store.Put(ctx, "user-1-200.jpeg", []byte("new"), "image/jpeg"))

	rec := &countingRecorder{}
	s := NewSweeper(store, rec, zap.NewNop(), 4, "default.jpeg")
	s.Run()

	assert.True(t, s.Schedule("user-1-100.jpeg"))
	stopSweeper(t, s)

	assert.False(t, store.Has("user-1-100.jpeg"))
	assert.True(t, store.Has("user-1-200.jpeg"))
	assert.Equal(t, 1, rec.deleted)
}

func TestSweeper_NeverDeletesProtectedKeys(t *testing.T) {
	store := new(StoreMock)
	rec := &countingRecorder{}
	s := NewSweeper(store, rec, zap.NewNop(), 4, "default.jpeg", "male.jpeg", "female.jpeg")
	s.Run()

	for _, key := range []string{"default.jpeg", "male.jpeg", "female.jpeg"} {
		assert.True(t, s.IsProtected(key))
		assert.False(t, s.Schedule(key))
	}
	stopSweeper(t, s)

	store.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	assert.Equal(t, 3, rec.skipped)
}

func TestSweeper_IgnoresEmptyKey(t *testing.T) {
	store := new(StoreMock)
	s := NewSweeper(store, nil, zap.NewNop(), 1)
	s.Run()

	assert.False(t, s.Schedule(""))
	stopSweeper(t, s)

	store.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestSweeper_PublishesFailures(t *testing.T) {
	boom := errors.New("access denied")
	store := new(StoreMock)
	store.On("Delete", mock.Anything, "user-2-1.jpeg").Return(boom)

	rec := &countingRecorder{}
	s := NewSweeper(store, rec, zap.NewNop(), 4)

	received := make(chan error, 1)
	s.ListenErrors(func(err error) { received <- err })
	s.Run()

	assert.True(t, s.Schedule("user-2-1.jpeg"))

	select {
	case err := <-received:
		assert.ErrorIs(t, err, boom)
	case <-time.After(2 * time.Second):
		t.Fatal("expected deletion error to be published")
	}

	stopSweeper(t, s)
	store.AssertExpectations(t)
	assert.Equal(t, 1, rec.failed)
}

func TestSweeper_ScheduleAfterStop(t *testing.T) {
	s := NewSweeper(NewMemoryStore(), nil, zap.NewNop(), 1)
	s.Run()
	stopSweeper(t, s)

	assert.False(t, s.Schedule("user-3-1.jpeg"))
	// a second stop is a no-op
	stopSweeper(t, s)
}

func TestSweeper_DropsWhenQueueFull(t *testing.T) {
	// not running, so nothing drains the queue
	s := NewSweeper(NewMemoryStore(), nil, zap.NewNop(), 1)

	assert.True(t, s.Schedule("a.jpeg"))
	assert.False(t, s.Schedule("b.jpeg"))
}

func TestMemoryStore_GetMissing(t *testing.T) {
	_, err := NewMemoryStore().Get(context.Background(), "nope.jpeg")
	assert.ErrorIs(t, err, ErrNotFound)
}
