package api

import (
	"net/http"
	"strings"

	"github.com/zoj-dev/zoj/internal/auth"
	"github.com/zoj-dev/zoj/internal/config"
	"github.com/zoj-dev/zoj/internal/database"
	"github.com/zoj-dev/zoj/internal/util"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// CORSMiddleware provides a configurable CORS middleware.
func CORSMiddleware(cfg config.CORS) gin.HandlerFunc {
	return func(c *gin.Context) {
		// If no origins are configured, do nothing.
		if len(cfg.AllowedOrigins) == 0 {
			c.Next()
			return
		}

		origin := c.Request.Header.Get("Origin")
		allowOrigin := ""

		for _, o := range cfg.AllowedOrigins {
			if o == "*" {
				allowOrigin = "*"
				break
			}
			if o == origin {
				allowOrigin = origin
				break
			}
		}

		if allowOrigin != "" {
			c.Writer.Header().Set("Access-Control-Allow-Origin", allowOrigin)
			c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
			c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
			c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, PATCH, DELETE")

			if c.Request.Method == "OPTIONS" {
				c.AbortWithStatus(http.StatusNoContent)
				return
			}
		}
		c.Next()
	}
}

func AuthMiddleware(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			util.Error(c, http.StatusUnauthorized, "Authorization header is required")
			c.Abort()
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			util.Error(c, http.StatusUnauthorized, "Authorization header format must be Bearer {token}")
			c.Abort()
			return
		}

		claims, err := auth.ValidateJWT(parts[1], secret)
		if err != nil {
			util.Error(c, http.StatusUnauthorized, err.Error())
			c.Abort()
			return
		}

		c.Set("userID", claims.Subject)
		c.Next()
	}
}

// OptionalAuthMiddleware sets userID when a valid bearer token is present
// but lets anonymous requests through. Visibility-tiered endpoints use it.
func OptionalAuthMiddleware(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		parts := strings.Split(authHeader, " ")
		if len(parts) == 2 && parts[0] == "Bearer" {
			if claims, err := auth.ValidateJWT(parts[1], secret); err == nil {
				c.Set("userID", claims.Subject)
			}
		}
		c.Next()
	}
}

// AdminMiddleware requires an authenticated user of at least the given
// privilege tier. Must run after AuthMiddleware.
func AdminMiddleware(db *gorm.DB, tier int) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetString("userID")
		user, err := database.GetUserByID(db, userID)
		if err != nil {
			util.Error(c, http.StatusUnauthorized, "user not found")
			c.Abort()
			return
		}
		if user.Admin < tier {
			util.Error(c, http.StatusForbidden, "insufficient privileges")
			c.Abort()
			return
		}
		c.Set("adminTier", user.Admin)
		c.Next()
	}
}
