package signer

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// S3Signer mints presigned GET URLs through an S3-compatible client
// (AWS S3, MinIO, or any compatible provider reachable at Endpoint).
type S3Signer struct {
	client *minio.Client
}

func NewS3Signer(endpoint, accessKey, secretKey string, useSSL bool) (*S3Signer, error) {
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("signer: init minio client: %w", err)
	}
	return &S3Signer{client: client}, nil
}

func (s *S3Signer) Sign(ctx context.Context, storageURI, relPath string, ttl time.Duration) (SignedURL, error) {
	bucket, prefix, err := parseS3URI(storageURI)
	if err != nil {
		return SignedURL{}, err
	}
	objectKey := strings.TrimSuffix(prefix, "/") + "/" + strings.TrimPrefix(relPath, "/")
	objectKey = strings.TrimPrefix(objectKey, "/")

	reqParams := url.Values{}
	presigned, err := s.client.PresignedGetObject(ctx, bucket, objectKey, ttl, reqParams)
	if err != nil {
		return SignedURL{}, fmt.Errorf("signer: presign %s/%s: %w", bucket, objectKey, err)
	}

	return SignedURL{
		URL:                  presigned.String(),
		ExpirationTimestampMs: expirationMs(ttl),
	}, nil
}

// parseS3URI splits "s3://bucket/some/prefix" into bucket and key prefix.
func parseS3URI(uri string) (bucket, prefix string, err error) {
	trimmed := strings.TrimPrefix(uri, "s3://")
	parts := strings.SplitN(trimmed, "/", 2)
	if len(parts) == 0 || parts[0] == "" {
		return "", "", fmt.Errorf("signer: invalid s3 uri %q", uri)
	}
	bucket = parts[0]
	if len(parts) == 2 {
		prefix = parts[1]
	}
	return bucket, prefix, nil
}
