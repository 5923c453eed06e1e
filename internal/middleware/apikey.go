package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// APIKeyGuard protects the /api group with a static shared secret in the
// x-api-key header. An enabled public_read flag or an empty configured key
// lets every request through.
func APIKeyGuard(key string, publicRead bool) gin.HandlerFunc {
	expected := strings.TrimSpace(key)
	return func(c *gin.Context) {
		if publicRead || expected == "" {
			c.Next()
			return
		}
		got := strings.TrimSpace(c.GetHeader("x-api-key"))
		if subtle.ConstantTimeCompare([]byte(got), []byte(expected)) != 1 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		c.Next()
	}
}
