// Package signer implements the URL Signer (C6): producing time-bounded
// URLs for data files, backed by either a local server-rooted path signer
// or an S3-compatible presigned-URL signer, selected by storage URI scheme.
package signer

import (
	"context"
	"strings"
	"time"
)

// SignedURL is the result of signing one data file.
type SignedURL struct {
	URL                  string
	ExpirationTimestampMs int64
}

// Signer mints a time-bounded URL for one file within a table's storage
// root. relPath is the file's path as recorded in the Delta log (relative
// to storageURI).
type Signer interface {
	Sign(ctx context.Context, storageURI, relPath string, ttl time.Duration) (SignedURL, error)
}

// Select picks the signer backend for a table's storage URI: "s3://" goes
// to the object-storage signer, everything else (bare path or "file://")
// goes to the local path signer.
func Select(storageURI string, fileSigner, s3Signer Signer) Signer {
	if strings.HasPrefix(storageURI, "s3://") {
		return s3Signer
	}
	return fileSigner
}

func expirationMs(ttl time.Duration) int64 {
	return time.Now().Add(ttl).UnixMilli()
}
