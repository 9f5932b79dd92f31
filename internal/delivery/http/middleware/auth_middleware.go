package middleware

import (
	"errors"
	"strings"

	"portfolio-backend/internal/domain"
	"portfolio-backend/pkg/apperror"
	"portfolio-backend/pkg/auth"
	"portfolio-backend/pkg/logger"

	"github.com/gin-gonic/gin"
)

// AdminAuth requires a Bearer admin token signed with secret.
// With an empty secret the admin routes stay open.
func AdminAuth(secret string) gin.HandlerFunc {
	if secret == "" {
		return func(c *gin.Context) { c.Next() }
	}

	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		tokenString, found := strings.CutPrefix(authHeader, "Bearer ")
		if !found || tokenString == "" {
			c.Error(apperror.Unauthorized("Authorization header required"))
			c.Abort()
			return
		}

		claims, err := auth.ParseAdminToken(secret, tokenString)
		if errors.Is(err, auth.ErrNotAdmin) {
			logger.Log.Warnw("Token without admin role", "sub", claims.Subject, "ip", c.ClientIP())
			c.Error(apperror.Forbidden("Admin access required"))
			c.Abort()
			return
		}
		if err != nil {
			logger.Log.Warnw("Admin token rejected", "error", err, "ip", c.ClientIP())
			c.Error(apperror.Unauthorized("Invalid token"))
			c.Abort()
			return
		}

		c.Set(string(domain.KeyAdminSub), claims.Subject)
		c.Next()
	}
}
