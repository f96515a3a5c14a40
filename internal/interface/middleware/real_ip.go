package middleware

import (
	"net"
	"strings"

	"github.com/gin-gonic/gin"
)

// RealIP sets the client IP into the Gin context under "real_ip".
// CF-Connecting-IP wins, then the left-most X-Forwarded-For entry, then
// Gin's ClientIP. Used for rate-limit keys, audit rows and email geo lookup.
func RealIP() gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := parseIP(c.GetHeader("CF-Connecting-IP"))
		if ip == "" {
			if xff := c.GetHeader("X-Forwarded-For"); xff != "" {
				ip = parseIP(strings.SplitN(xff, ",", 2)[0])
			}
		}
		if ip == "" {
			ip = c.ClientIP()
		}
		c.Set("real_ip", ip)
		c.Next()
	}
}

func parseIP(s string) string {
	if ip := net.ParseIP(strings.TrimSpace(s)); ip != nil {
		return ip.String()
	}
	return ""
}

// ClientIP returns the address RealIP recorded, or Gin's view of it.
func ClientIP(c *gin.Context) string {
	if ip := c.GetString("real_ip"); ip != "" {
		return ip
	}
	return c.ClientIP()
}
