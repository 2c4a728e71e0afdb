package main

import (
	"context"
	"fmt"
	"log/slog"
	"path"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	awss3 "github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/hupe1980/weaklabel/blobstore"
	"github.com/hupe1980/weaklabel/blobstore/minio"
	"github.com/hupe1980/weaklabel/blobstore/s3"
	"github.com/hupe1980/weaklabel/internal/config"
	miniogo "github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// openStore builds the configured backend. Remote backends are wrapped in a
// RetryStore.
func openStore(ctx context.Context, cfg *config.Config, logger *slog.Logger) (blobstore.BlobStore, error) {
	var store blobstore.BlobStore

	switch cfg.Store {
	case config.StoreLocal:
		return blobstore.NewLocalStore(cfg.OutputDir), nil

	case config.StoreS3:
		awsCfg, err := awsconfig.LoadDefaultConfig(ctx)
		if err != nil {
			return nil, fmt.Errorf("load aws config: %w", err)
		}
		store = s3.NewStore(awss3.NewFromConfig(awsCfg), cfg.S3Bucket, cfg.S3Prefix)
		if cfg.DDBTable != "" {
			baseURI := "s3://" + path.Join(cfg.S3Bucket, cfg.S3Prefix)
			store = s3.NewDDBCommitStore(store, dynamodb.NewFromConfig(awsCfg), cfg.DDBTable, baseURI)
		}

	case config.StoreMinIO:
		client, err := miniogo.New(cfg.MinIOEndpoint, &miniogo.Options{
			Creds:  credentials.NewStaticV4(cfg.MinIOAccessKey, cfg.MinIOSecretKey, ""),
			Secure: cfg.MinIOUseSSL,
		})
		if err != nil {
			return nil, fmt.Errorf("create minio client: %w", err)
		}
		store = minio.NewStore(client, cfg.MinIOBucket, cfg.S3Prefix)

	default:
		return nil, fmt.Errorf("unknown store %q", cfg.Store)
	}

	return blobstore.NewRetryStore(store,
		blobstore.WithBackoff(cfg.StoreBackoff, cfg.StoreRetries),
		blobstore.WithRetryLogger(logger),
	), nil
}
