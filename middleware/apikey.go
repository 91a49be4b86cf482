package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/devahmid/27Degres-bis-sub001/models"
	"github.com/gin-gonic/gin"
)

// APIKeyUserID identifies callers authenticated by the admin API key.
const APIKeyUserID = "admin-api-key"

// RequireAdmin lets the request through when the caller's token carries the admin
// role or a valid X-API-KEY header is presented. An empty apiKey disables the header.
func RequireAdmin(apiKey string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if IsAdmin(c) {
			c.Next()
			return
		}

		provided := c.GetHeader("X-API-KEY")
		if apiKey != "" && subtle.ConstantTimeCompare([]byte(provided), []byte(apiKey)) == 1 {
			if c.GetString(ContextUserID) == "" {
				c.Set(ContextUserID, APIKeyUserID)
			}
			c.Set(ContextRole, models.RoleAdmin)
			c.Next()
			return
		}

		if provided == "" && c.GetString(ContextUserID) != "" {
			c.JSON(http.StatusForbidden, gin.H{"error": "Admin access required"})
		} else {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or missing API key"})
		}
		c.Abort()
	}
}
