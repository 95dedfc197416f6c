package catalog

import (
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

// pageCursor is the claim set signed into an opaque page token. The JWT
// library is reused purely as a tamper-evident codec here — there is no
// authentication meaning attached to this token, only pagination state.
type pageCursor struct {
	LastName   string `json:"lastName"`
	MaxResults int    `json:"maxResults"`
	jwt.RegisteredClaims
}

// encodeCursor signs {lastName, maxResults} into an opaque page token.
func encodeCursor(secret, lastName string, maxResults int) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, pageCursor{
		LastName:   lastName,
		MaxResults: maxResults,
	})
	return token.SignedString([]byte(secret))
}

// decodeCursor verifies and parses an opaque page token produced by
// encodeCursor. An invalid or tampered token is reported as an error so
// the handler can map it to INVALID_PARAMETER_VALUE.
func decodeCursor(secret, pageToken string) (pageCursor, error) {
	var claims pageCursor
	_, err := jwt.ParseWithClaims(pageToken, &claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return pageCursor{}, fmt.Errorf("invalid page token: %w", err)
	}
	return claims, nil
}
