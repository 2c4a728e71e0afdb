package minio

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/hupe1980/weaklabel/blobstore"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestMinioStore_Integration requires a running MinIO instance.
func TestMinioStore_Integration(t *testing.T) {
	const bucket = "test-weaklabel"

	client, err := minio.New("localhost:9000", &minio.Options{
		Creds:  credentials.NewStaticV4("minioadmin", "minioadmin", ""),
		Secure: false,
	})
	if err != nil {
		t.Skipf("MinIO client creation failed: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := client.ListBuckets(ctx); err != nil {
		t.Skipf("MinIO not available: %v", err)
	}

	exists, err := client.BucketExists(ctx, bucket)
	require.NoError(t, err)
	if !exists {
		require.NoError(t, client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{}))
	}

	store := NewStore(client, bucket, fmt.Sprintf("test-%d/", time.Now().UnixNano()))

	data := []byte("hello minio world")
	require.NoError(t, store.Put(ctx, "runs/1/artifact.bin", data))

	got, err := blobstore.ReadAll(ctx, store, "runs/1/artifact.bin")
	require.NoError(t, err)
	assert.Equal(t, data, got)

	blob, err := store.Open(ctx, "runs/1/artifact.bin")
	require.NoError(t, err)
	buf := make([]byte, 32)
	n, err := blob.ReadAt(ctx, buf, 12)
	assert.Equal(t, 5, n)
	assert.Error(t, err)
	assert.Equal(t, "world", string(buf[:n]))

	names, err := store.List(ctx, "runs/")
	require.NoError(t, err)
	assert.Equal(t, []string{"runs/1/artifact.bin"}, names)

	require.NoError(t, store.Delete(ctx, "runs/1/artifact.bin"))
	_, err = store.Open(ctx, "runs/1/artifact.bin")
	assert.ErrorIs(t, err, blobstore.ErrNotFound)
}
