package signer

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// FileSigner signs server-rooted paths for tables stored on local/on-prem
// filesystem storage. The resulting URL is served by an operator-provided
// static file handler under publicPrefix, validated against the HMAC
// signature and expiry by that handler.
type FileSigner struct {
	Secret       string
	PublicPrefix string // e.g. "/files"
}

func NewFileSigner(secret, publicPrefix string) *FileSigner {
	return &FileSigner{Secret: secret, PublicPrefix: publicPrefix}
}

func (s *FileSigner) Sign(ctx context.Context, storageURI, relPath string, ttl time.Duration) (SignedURL, error) {
	exp := expirationMs(ttl)
	tablePath := strings.TrimPrefix(storageURI, "file://")
	fullPath := strings.TrimSuffix(tablePath, "/") + "/" + strings.TrimPrefix(relPath, "/")

	sig := s.sign(fullPath, exp)

	q := url.Values{}
	q.Set("path", fullPath)
	q.Set("exp", strconv.FormatInt(exp, 10))
	q.Set("sig", sig)

	u := fmt.Sprintf("%s?%s", strings.TrimSuffix(s.PublicPrefix, "/")+"/sign", q.Encode())
	return SignedURL{URL: u, ExpirationTimestampMs: exp}, nil
}

func (s *FileSigner) sign(path string, exp int64) string {
	mac := hmac.New(sha256.New, []byte(s.Secret))
	mac.Write([]byte(path))
	mac.Write([]byte(strconv.FormatInt(exp, 10)))
	return hex.EncodeToString(mac.Sum(nil))
}

// Verify checks a signed path/exp/sig triple, used by the static file
// serving handler (not the protocol router itself).
func (s *FileSigner) Verify(path string, exp int64, sig string) bool {
	if time.Now().UnixMilli() > exp {
		return false
	}
	expected := s.sign(path, exp)
	return hmac.Equal([]byte(expected), []byte(sig))
}
