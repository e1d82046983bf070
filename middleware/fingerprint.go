// middleware/fingerprint.go
package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
)

// ClientFingerprint extracts the caller's IP and user-agent into the request
// context for the supporter ledger. Behind a proxy the real client is the
// first X-Forwarded-For hop; the raw values stay in-memory only — persistence
// happens hashed.
func ClientFingerprint() fiber.Handler {
	return func(c *fiber.Ctx) error {
		ip := c.Get("X-Forwarded-For")
		if ip != "" {
			if idx := strings.Index(ip, ","); idx != -1 {
				ip = ip[:idx]
			}
			ip = strings.TrimSpace(ip)
		}
		if ip == "" {
			ip = c.IP()
		}

		c.Locals("client_ip", ip)
		c.Locals("client_ua", c.Get("User-Agent"))

		return c.Next()
	}
}
