package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"shopapi/internal/apierror"
	"shopapi/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

const (
	IdentityKey = "identity"
)

// Authenticator resolves a bearer key into its owner.
type Authenticator interface {
	Authenticate(ctx context.Context, key string) (*service.Identity, error)
}

// bearerKey extracts the key from "Bearer <key>" or the legacy "Token <key>".
func bearerKey(header string) (string, bool) {
	scheme, key, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok {
		return "", false
	}
	if !strings.EqualFold(scheme, "Bearer") && !strings.EqualFold(scheme, "Token") {
		return "", false
	}
	key = strings.TrimSpace(key)
	return key, key != ""
}

// TokenAuth validates the bearer token on every protected route.
func TokenAuth(auth Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, apierror.New("Authentication credentials were not provided."))
			return
		}
		key, ok := bearerKey(header)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, apierror.New("Invalid token header."))
			return
		}

		id, err := auth.Authenticate(c.Request.Context(), key)
		if err != nil {
			if !errors.Is(err, service.ErrInvalidToken) {
				log.Error().Err(err).Str("request_id", c.GetString(RequestIDKey)).Msg("token lookup failed")
				c.AbortWithStatusJSON(http.StatusInternalServerError, apierror.New("Internal server error"))
				return
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, apierror.New("Invalid token."))
			return
		}

		c.Set(IdentityKey, id)
		c.Next()
	}
}

// RequireStaff rejects authenticated callers without the staff flag.
func RequireStaff() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := GetIdentity(c)
		if id == nil || !id.IsStaff {
			c.AbortWithStatusJSON(http.StatusForbidden, apierror.New("You do not have permission to perform this action."))
			return
		}
		c.Next()
	}
}

// GetIdentity is a helper to retrieve the caller from the Gin context.
// It returns nil on routes not behind TokenAuth.
func GetIdentity(c *gin.Context) *service.Identity {
	id, _ := c.Get(IdentityKey)
	identity, _ := id.(*service.Identity)
	return identity
}
