package auth

import (
	"log"
	"strings"

	"github.com/gin-gonic/gin"

	apperrors "github.com/efranceschi/delta-sharing-gateway-sub001/internal/errors"
)

// Authenticator resolves the Authorization header into an accepted caller
// or rejects the request. Resolution order: the static configured bearer
// token first (single-tenant/dev shortcut), then the token store.
type Authenticator struct {
	ConfiguredBearerToken string
	Store                 TokenStore
	Enabled               bool
}

func NewAuthenticator(configuredBearerToken string, store TokenStore, enabled bool) *Authenticator {
	return &Authenticator{
		ConfiguredBearerToken: configuredBearerToken,
		Store:                 store,
		Enabled:               enabled,
	}
}

const principalContextKey = "sharing_principal"

// Middleware enforces bearer authentication on every route it's attached to.
func (a *Authenticator) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !a.Enabled {
			c.Next()
			return
		}

		token, ok := extractBearerToken(c.GetHeader("Authorization"))
		if !ok {
			apperrors.Unauthenticated("Missing or invalid Authorization header").Response(c)
			c.Abort()
			return
		}

		if a.ConfiguredBearerToken != "" && constantTimeEqual(token, a.ConfiguredBearerToken) {
			c.Set(principalContextKey, Principal{Name: "static"})
			c.Next()
			return
		}

		if a.Store != nil {
			principal, found, err := a.Store.Lookup(c.Request.Context(), token)
			if err != nil {
				apperrors.Unavailable("authentication backend unavailable", err).Response(c)
				c.Abort()
				return
			}
			if found {
				c.Set(principalContextKey, principal)
				c.Next()
				return
			}
		}

		if a.ConfiguredBearerToken == "" && a.Store == nil {
			log.Printf("[auth] WARNING: no bearer token or token store configured, accepting any non-empty token (dev mode)")
			c.Set(principalContextKey, Principal{Name: "delta-sharing-user"})
			c.Next()
			return
		}

		apperrors.Unauthenticated("invalid bearer token").Response(c)
		c.Abort()
	}
}

func extractBearerToken(header string) (string, bool) {
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return "", false
	}
	token := strings.TrimSpace(strings.TrimPrefix(header, prefix))
	if token == "" {
		return "", false
	}
	return token, true
}

// CurrentPrincipal returns the principal resolved for the request, if any.
func CurrentPrincipal(c *gin.Context) (Principal, bool) {
	v, ok := c.Get(principalContextKey)
	if !ok {
		return Principal{}, false
	}
	p, ok := v.(Principal)
	return p, ok
}
