package storage

import (
	"context"
	"sync"
	"time"

	"appmarket/pkg/metrics"

	"go.uber.org/zap"
)

const deleteTimeout = 10 * time.Second

// Sweeper deletes replaced objects off the request path. Failures are logged,
// counted and published on the error channel; they never reach the caller
// that scheduled the deletion. Protected keys are never deleted.
type Sweeper struct {
	store        ObjectStore
	protected    map[string]bool
	queue        chan string
	errorChannel chan error
	metrics      metrics.Recorder
	log          *zap.Logger

	mu      sync.Mutex
	stopped bool
	done    chan struct{}
}

func NewSweeper(store ObjectStore, rec metrics.Recorder, log *zap.Logger, capacity int, protected ...string) *Sweeper {
	if capacity < 1 {
		capacity = 1
	}
	if rec == nil {
		rec = metrics.Nop{}
	}

	keys := make(map[string]bool, len(protected))
	for _, k := range protected {
		keys[k] = true
	}

	return &Sweeper{
		store:        store,
		protected:    keys,
		queue:        make(chan string, capacity),
		errorChannel: make(chan error, capacity),
		metrics:      rec,
		log:          log.With(zap.String("worker", "sweeper")),
		done:         make(chan struct{}),
	}
}

func (s *Sweeper) IsProtected(key string) bool {
	return s.protected[key]
}

// Run starts the worker goroutine.
func (s *Sweeper) Run() {
	go func() {
		defer close(s.done)
		defer close(s.errorChannel)

		for key := range s.queue {
			s.delete(key)
		}
	}()
}

// ListenErrors passes every deletion failure to callback until Stop.
func (s *Sweeper) ListenErrors(callback func(error)) {
	go func() {
		for err := range s.errorChannel {
			callback(err)
		}
	}()
}

// Schedule queues key for deletion without blocking. It reports whether the
// key was accepted; protected keys, empty keys, a full queue and a stopped
// sweeper all return false.
func (s *Sweeper) Schedule(key string) bool {
	if key == "" {
		return false
	}
	if s.IsProtected(key) {
		s.metrics.RecordAssetSkipped()
		s.log.Debug("Skipping protected object", zap.String("key", key))
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stopped {
		s.log.Warn("Sweeper stopped, dropping deletion", zap.String("key", key))
		return false
	}

	select {
	case s.queue <- key:
		return true
	default:
		s.metrics.RecordAssetDeleteFailure()
		s.log.Warn("Sweeper queue full, dropping deletion", zap.String("key", key))
		return false
	}
}

// Stop closes the queue and waits until every queued key is processed or ctx
// expires.
func (s *Sweeper) Stop(ctx context.Context) error {
	s.mu.Lock()
	if !s.stopped {
		s.stopped = true
		close(s.queue)
	}
	s.mu.Unlock()

	select {
	case <-s.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Sweeper) delete(key string) {
	ctx, cancel := context.WithTimeout(context.Background(), deleteTimeout)
	defer cancel()

	if err := s.store.Delete(ctx, key); err != nil {
		s.metrics.RecordAssetDeleteFailure()
		s.log.Error("Failed to delete object", zap.Error(err), zap.String("key", key))

		select {
		case s.errorChannel <- err:
		default:
		}
		return
	}

	s.metrics.RecordAssetDeleted()
	s.log.Info("Object deleted", zap.String("key", key))
}
