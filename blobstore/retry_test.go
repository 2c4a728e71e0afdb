package blobstore

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errTransient = errors.New("transient")

// flakyStore fails the first failures calls of every operation.
type flakyStore struct {
	*MemoryStore
	failures int32
	calls    atomic.Int32
}

func (f *flakyStore) fail() error {
	if f.calls.Add(1) <= f.failures {
		return errTransient
	}
	return nil
}

func (f *flakyStore) Put(ctx context.Context, name string, data []byte) error {
	if err := f.fail(); err != nil {
		return err
	}
	return f.MemoryStore.Put(ctx, name, data)
}

func (f *flakyStore) Open(ctx context.Context, name string) (Blob, error) {
	if err := f.fail(); err != nil {
		return nil, err
	}
	return f.MemoryStore.Open(ctx, name)
}

func TestRetryStore_RecoversTransientErrors(t *testing.T) {
	inner := &flakyStore{MemoryStore: NewMemoryStore(), failures: 2}
	store := NewRetryStore(inner, WithBackoff(time.Millisecond, 5))

	require.NoError(t, store.Put(context.Background(), "k", []byte("v")))
	assert.Equal(t, int32(3), inner.calls.Load())
}

func TestRetryStore_GivesUp(t *testing.T) {
	inner := &flakyStore{MemoryStore: NewMemoryStore(), failures: 100}
	store := NewRetryStore(inner, WithBackoff(time.Millisecond, 2))

	err := store.Put(context.Background(), "k", []byte("v"))
	assert.ErrorIs(t, err, errTransient)
	assert.Equal(t, int32(3), inner.calls.Load())
}

func TestRetryStore_NotFoundIsPermanent(t *testing.T) {
	inner := &flakyStore{MemoryStore: NewMemoryStore()}
	store := NewRetryStore(inner, WithBackoff(time.Millisecond, 5))

	_, err := store.Open(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, int32(1), inner.calls.Load())
}

func TestRetryStore_Contract(t *testing.T) {
	storeContract(t, NewRetryStore(NewMemoryStore(), WithBackoff(time.Millisecond, 1)))
}
