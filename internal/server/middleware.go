package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// securityHeaders sets the response headers every endpoint should carry.
func securityHeaders() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("X-Frame-Options", "DENY")
		c.Next()
	}
}

// RestrictIPAddresses allows only the given client IPs through. An empty
// list disables the restriction.
func RestrictIPAddresses(ipAddresses []string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if len(ipAddresses) == 0 {
			c.Next()
			return
		}

		clientIP := c.ClientIP()
		for _, address := range ipAddresses {
			if strings.Contains(address, clientIP) {
				c.Next()
				return
			}
		}

		c.JSON(http.StatusUnauthorized, gin.H{"detail": "Unauthorized access"})
		c.Abort()
	}
}
