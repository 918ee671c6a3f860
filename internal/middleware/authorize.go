package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"residence-be-svc/internal/models"
	"residence-be-svc/pkg/logger"
	"residence-be-svc/pkg/utils"
)

// RequireRoles lets the request through only when Authenticator stored an identity
// whose role is in roles. A missing identity is always Forbidden.
func RequireRoles(log *logger.Logger, message string, roles ...models.Role) gin.HandlerFunc {
	allowed := make([]string, len(roles))
	for i, r := range roles {
		allowed[i] = string(r)
	}

	return func(c *gin.Context) {
		identity, ok := CurrentIdentity(c)
		if ok {
			for _, r := range roles {
				if identity.Role == r {
					c.Next()
					return
				}
			}
		}

		fields := map[string]interface{}{
			"path":    c.Request.URL.Path,
			"method":  c.Request.Method,
			"allowed": allowed,
		}
		if ok {
			fields["role"] = string(identity.Role)
			fields["user_id"] = identity.ID
		} else {
			fields["role"] = ""
		}
		log.WithFields(fields).Warn("Role check failed")

		utils.AbortWithFailure(c, http.StatusForbidden, message, nil)
	}
}

func AdminOnly(log *logger.Logger) gin.HandlerFunc {
	return RequireRoles(log, "Access denied. Admin only.", models.RoleAdmin)
}

func ResidentOnly(log *logger.Logger) gin.HandlerFunc {
	return RequireRoles(log, "Access denied. Resident only.", models.RoleResident)
}

func ServiceProviderOnly(log *logger.Logger) gin.HandlerFunc {
	return RequireRoles(log, "Access denied. Service Provider only.", models.RoleServiceProvider)
}

func AdminOrServiceProvider(log *logger.Logger) gin.HandlerFunc {
	return RequireRoles(log, "Access denied. Admin or Service Provider only.", models.RoleAdmin, models.RoleServiceProvider)
}

func AdminOrResident(log *logger.Logger) gin.HandlerFunc {
	return RequireRoles(log, "Access denied. Admin or Resident only.", models.RoleAdmin, models.RoleResident)
}
