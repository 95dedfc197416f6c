package catalog

import "testing"

func TestCursor_RoundTrip(t *testing.T) {
	token, err := encodeCursor("secret", "beta", 25)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	claims, err := decodeCursor("secret", token)
	if err != nil {
		t.Fatalf("unexpected error decoding: %v", err)
	}
	if claims.LastName != "beta" || claims.MaxResults != 25 {
		t.Fatalf("unexpected claims: %+v", claims)
	}
}

func TestCursor_WrongSecretRejected(t *testing.T) {
	token, err := encodeCursor("secret-a", "beta", 25)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := decodeCursor("secret-b", token); err == nil {
		t.Fatal("expected signature verification to fail with mismatched secret")
	}
}

func TestCursor_MalformedTokenRejected(t *testing.T) {
	if _, err := decodeCursor("secret", "not-a-jwt"); err == nil {
		t.Fatal("expected malformed token to be rejected")
	}
}
