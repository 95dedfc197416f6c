// Package auth implements the Authenticator (C1) and Token Store (C11)
// components: resolving a bearer token from an incoming request into either
// acceptance, carrying the caller's Principal name, or a rejection.
package auth

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/efranceschi/delta-sharing-gateway-sub001/internal/models"
)

// Principal identifies the caller behind an accepted bearer token.
type Principal struct {
	Name string
}

// TokenStore resolves a raw bearer token into a Principal.
type TokenStore interface {
	Lookup(ctx context.Context, token string) (Principal, bool, error)
}

// GormTokenStore backs TokenStore with the BearerPrincipal table.
type GormTokenStore struct {
	db *gorm.DB
}

func NewGormTokenStore(db *gorm.DB) *GormTokenStore {
	return &GormTokenStore{db: db}
}

func lookupDigest(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

func (s *GormTokenStore) Lookup(ctx context.Context, token string) (Principal, bool, error) {
	digest := lookupDigest(token)

	var principal models.BearerPrincipal
	err := s.db.WithContext(ctx).
		Where("lookup_hash = ? AND active = ?", digest, true).
		First(&principal).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return Principal{}, false, nil
		}
		return Principal{}, false, err
	}

	if principal.TokenExpiresAt != nil && principal.TokenExpiresAt.Before(time.Now()) {
		return Principal{}, false, nil
	}

	if bcrypt.CompareHashAndPassword([]byte(principal.TokenHash), []byte(token)) != nil {
		return Principal{}, false, nil
	}

	return Principal{Name: principal.Name}, true, nil
}

// HashToken produces the bcrypt digest stored alongside a principal's
// indexed lookup hash. Used by provisioning tooling, not the request path.
func HashToken(token string) (lookupHash, bcryptHash string, err error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(token), bcrypt.DefaultCost)
	if err != nil {
		return "", "", err
	}
	return lookupDigest(token), string(hashed), nil
}

// constantTimeEqual is kept for callers comparing raw secrets directly
// (the configured static bearer token), where no hashing round-trip applies.
func constantTimeEqual(a, b string) bool {
	if len(a) != len(b) {
		return false
	}
	return hmac.Equal([]byte(a), []byte(b))
}
