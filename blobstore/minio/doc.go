// Package minio stores training runs in MinIO or any S3-compatible service.
//
//	client, err := minio.New("localhost:9000", &minio.Options{
//	    Creds: credentials.NewStaticV4("minioadmin", "minioadmin", ""),
//	})
//	store := minioblob.NewStore(client, "weaklabel", "runs/")
package minio
