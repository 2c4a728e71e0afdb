package blobstore

import (
	"context"
	"errors"
	"log/slog"
	"time"

	retry "github.com/sethvargo/go-retry"
)

// RetryStore retries failed operations of an inner store with Fibonacci
// backoff. Not-found and context errors are returned immediately.
type RetryStore struct {
	inner      BlobStore
	base       time.Duration
	maxRetries uint64
	logger     *slog.Logger
}

// RetryOption configures a RetryStore.
type RetryOption func(*RetryStore)

// WithBackoff sets the initial backoff and the retry budget.
func WithBackoff(base time.Duration, maxRetries uint64) RetryOption {
	return func(s *RetryStore) {
		if base > 0 {
			s.base = base
		}
		s.maxRetries = maxRetries
	}
}

// WithRetryLogger sets the logger used when retries are exhausted.
func WithRetryLogger(l *slog.Logger) RetryOption {
	return func(s *RetryStore) {
		if l != nil {
			s.logger = l
		}
	}
}

// NewRetryStore wraps inner. Defaults to a one second base and five retries.
func NewRetryStore(inner BlobStore, optFns ...RetryOption) *RetryStore {
	s := &RetryStore{
		inner:      inner,
		base:       time.Second,
		maxRetries: 5,
		logger:     slog.New(slog.DiscardHandler),
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(s)
		}
	}
	return s
}

func (s *RetryStore) do(ctx context.Context, op, name string, task func(ctx context.Context) error) error {
	b := retry.WithMaxRetries(s.maxRetries, retry.NewFibonacci(s.base))
	err := retry.Do(ctx, b, func(ctx context.Context) error {
		err := task(ctx)
		if shouldRetry(err) {
			return retry.RetryableError(err)
		}
		return err
	})
	if err != nil && shouldRetry(err) {
		s.logger.WarnContext(ctx, "blob operation gave up", "op", op, "name", name, "error", err)
	}
	return err
}

// shouldRetry reports whether err may be transient.
func shouldRetry(err error) bool {
	if err == nil {
		return false
	}
	return !errors.Is(err, ErrNotFound) &&
		!errors.Is(err, context.Canceled) &&
		!errors.Is(err, context.DeadlineExceeded)
}

// Open opens a blob for reading.
func (s *RetryStore) Open(ctx context.Context, name string) (Blob, error) {
	var blob Blob
	err := s.do(ctx, "open", name, func(ctx context.Context) error {
		var err error
		blob, err = s.inner.Open(ctx, name)
		return err
	})
	return blob, err
}

// Put writes a blob.
func (s *RetryStore) Put(ctx context.Context, name string, data []byte) error {
	return s.do(ctx, "put", name, func(ctx context.Context) error {
		return s.inner.Put(ctx, name, data)
	})
}

// Delete removes a blob.
func (s *RetryStore) Delete(ctx context.Context, name string) error {
	return s.do(ctx, "delete", name, func(ctx context.Context) error {
		return s.inner.Delete(ctx, name)
	})
}

// List lists blobs with prefix.
func (s *RetryStore) List(ctx context.Context, prefix string) ([]string, error) {
	var names []string
	err := s.do(ctx, "list", prefix, func(ctx context.Context) error {
		var err error
		names, err = s.inner.List(ctx, prefix)
		return err
	})
	return names, err
}
