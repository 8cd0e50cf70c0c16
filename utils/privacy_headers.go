package utils

import (
	"github.com/gin-gonic/gin"
)

// PrivacyHeaders forbids any caching of responses. Everything this API
// returns is either personal or biometric-adjacent data that must not
// end up in shared caches or on kiosk disks.
func PrivacyHeaders(c *gin.Context) {
	c.Header("cache-control", "no-store")
	c.Header("x-content-type-options", "nosniff")
	c.Next()
}
