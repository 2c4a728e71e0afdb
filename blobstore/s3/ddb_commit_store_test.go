package s3

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/hupe1980/weaklabel/blobstore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDDBCommitStore(ddb *mockDDBClient, baseURI string) *DDBCommitStore {
	return NewDDBCommitStore(blobstore.NewMemoryStore(), ddb, "weaklabel-commits", baseURI)
}

func readCurrent(t *testing.T, store blobstore.BlobStore) string {
	t.Helper()
	data, err := blobstore.ReadAll(context.Background(), store, CurrentName)
	require.NoError(t, err)
	return string(data)
}

func TestDDBCommitStore_Commits(t *testing.T) {
	ctx := context.Background()
	store := newTestDDBCommitStore(newMockDDBClient(), "s3://test-bucket/test/")

	_, err := store.Open(ctx, CurrentName)
	require.ErrorIs(t, err, blobstore.ErrNotFound)

	for i := 1; i <= 3; i++ {
		require.NoError(t, store.Put(ctx, CurrentName, []byte(fmt.Sprintf("run-%d", i))))
	}
	assert.Equal(t, "run-3", readCurrent(t, store))

	version, err := store.Version(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint64(3), version)
}

func TestDDBCommitStore_PassesThroughOtherBlobs(t *testing.T) {
	ctx := context.Background()
	store := newTestDDBCommitStore(newMockDDBClient(), "s3://test-bucket/test/")

	require.NoError(t, store.Put(ctx, "runs/1/artifact.bin", []byte("data")))
	data, err := blobstore.ReadAll(ctx, store, "runs/1/artifact.bin")
	require.NoError(t, err)
	assert.Equal(t, "data", string(data))

	names, err := store.List(ctx, "runs/")
	require.NoError(t, err)
	assert.Equal(t, []string{"runs/1/artifact.bin"}, names)

	require.NoError(t, store.Delete(ctx, "runs/1/artifact.bin"))
	_, err = store.Open(ctx, "runs/1/artifact.bin")
	assert.ErrorIs(t, err, blobstore.ErrNotFound)
}

func TestDDBCommitStore_ConcurrentCommits(t *testing.T) {
	ctx := context.Background()
	store := newTestDDBCommitStore(newMockDDBClient(), "s3://test-bucket/test/")
	require.NoError(t, store.Put(ctx, CurrentName, []byte("run-0")))

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
	)
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			err := store.Put(ctx, CurrentName, []byte(fmt.Sprintf("run-%d", id+1)))
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				successes++
			case !errors.Is(err, ErrConcurrentModification):
				t.Errorf("unexpected error: %v", err)
			}
		}(i)
	}
	wg.Wait()

	assert.Positive(t, successes)
	version, err := store.Version(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint64(1+successes), version)
}

func TestDDBCommitStore_IsolatedNamespaces(t *testing.T) {
	ctx := context.Background()
	ddb := newMockDDBClient()
	a := newTestDDBCommitStore(ddb, "s3://bucket-a/path/")
	b := newTestDDBCommitStore(ddb, "s3://bucket-b/path/")

	require.NoError(t, a.Put(ctx, CurrentName, []byte("run-a")))
	require.NoError(t, b.Put(ctx, CurrentName, []byte("run-b")))

	assert.Equal(t, "run-a", readCurrent(t, a))
	assert.Equal(t, "run-b", readCurrent(t, b))
}
