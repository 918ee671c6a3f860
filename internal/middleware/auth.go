package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"residence-be-svc/internal/models"
	"residence-be-svc/internal/service"
	"residence-be-svc/pkg/logger"
	"residence-be-svc/pkg/utils"
)

const (
	identityKey = "identity"
	tokenKey    = "token"
	bearer      = "bearer "
)

// ExtractToken reads the Authorization header. The "Bearer " prefix is optional
// and matched case-insensitively, so a bare token is accepted too.
func ExtractToken(header string) string {
	header = strings.TrimSpace(header)
	if strings.EqualFold(header, strings.TrimSpace(bearer)) {
		return ""
	}
	if len(header) >= len(bearer) && strings.EqualFold(header[:len(bearer)], bearer) {
		header = header[len(bearer):]
	}
	return strings.TrimSpace(header)
}

// Authenticator resolves the bearer token to an identity and stores it on the context
func Authenticator(auth service.AuthService, log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		// net/http canonicalizes header names, so any casing of Authorization matches
		token := ExtractToken(c.GetHeader("Authorization"))

		identity, err := auth.Authenticate(c.Request.Context(), token)
		if err != nil {
			log.WithError(err).WithFields(map[string]interface{}{
				"path": c.Request.URL.Path,
				"kind": utils.KindOf(err).String(),
			}).Warn("Authentication failed")
			utils.ErrorResponse(c, err)
			c.Abort()
			return
		}

		c.Set(identityKey, identity)
		c.Set(tokenKey, token)
		c.Next()
	}
}

// CurrentIdentity returns the identity stored by Authenticator
func CurrentIdentity(c *gin.Context) (*models.Identity, bool) {
	v, ok := c.Get(identityKey)
	if !ok {
		return nil, false
	}
	identity, ok := v.(*models.Identity)
	return identity, ok && identity != nil
}

// CurrentToken returns the raw token the request was authenticated with
func CurrentToken(c *gin.Context) string {
	return c.GetString(tokenKey)
}
