package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
)

type fakeStore struct {
	principal Principal
	found     bool
	err       error
}

func (f fakeStore) Lookup(ctx context.Context, token string) (Principal, bool, error) {
	return f.principal, f.found, f.err
}

func newTestRouter(a *Authenticator) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/protected", a.Middleware(), func(c *gin.Context) {
		p, _ := CurrentPrincipal(c)
		c.JSON(http.StatusOK, gin.H{"principal": p.Name})
	})
	return r
}

func doRequest(r *gin.Engine, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestMiddleware_DisabledAllowsAll(t *testing.T) {
	a := NewAuthenticator("", nil, false)
	r := newTestRouter(a)
	w := doRequest(r, "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 when auth disabled, got %d", w.Code)
	}
}

func TestMiddleware_MissingHeaderRejected(t *testing.T) {
	a := NewAuthenticator("static-token", nil, true)
	r := newTestRouter(a)
	w := doRequest(r, "")
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d: %s", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), `"errorCode":"UNAUTHENTICATED"`) {
		t.Fatalf("expected UNAUTHENTICATED body, got %s", w.Body.String())
	}
	if !strings.Contains(w.Body.String(), "Missing or invalid Authorization header") {
		t.Fatalf("expected exact message, got %s", w.Body.String())
	}
}

func TestMiddleware_StaticTokenAccepted(t *testing.T) {
	a := NewAuthenticator("static-token", nil, true)
	r := newTestRouter(a)
	w := doRequest(r, "Bearer static-token")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
}

func TestMiddleware_StoreLookupAccepted(t *testing.T) {
	a := NewAuthenticator("", fakeStore{principal: Principal{Name: "alice"}, found: true}, true)
	r := newTestRouter(a)
	w := doRequest(r, "Bearer some-token")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), "alice") {
		t.Fatalf("expected principal name alice in response, got %s", w.Body.String())
	}
}

func TestMiddleware_StoreLookupMissRejected(t *testing.T) {
	a := NewAuthenticator("", fakeStore{found: false}, true)
	r := newTestRouter(a)
	w := doRequest(r, "Bearer unknown-token")
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
}

func TestMiddleware_DevModeAcceptsAnyNonEmptyToken(t *testing.T) {
	a := NewAuthenticator("", nil, true)
	r := newTestRouter(a)
	w := doRequest(r, "Bearer anything-goes")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 in dev mode, got %d: %s", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), "delta-sharing-user") {
		t.Fatalf("expected fixed delta-sharing-user principal, got %s", w.Body.String())
	}
}

func TestMiddleware_DevModeRejectsEmptyToken(t *testing.T) {
	a := NewAuthenticator("", nil, true)
	r := newTestRouter(a)
	w := doRequest(r, "Bearer ")
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for empty token even in dev mode, got %d", w.Code)
	}
}

func TestMiddleware_StoreErrorMapsToUnavailable(t *testing.T) {
	a := NewAuthenticator("", fakeStore{err: context.DeadlineExceeded}, true)
	r := newTestRouter(a)
	w := doRequest(r, "Bearer some-token")
	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d: %s", w.Code, w.Body.String())
	}
}
