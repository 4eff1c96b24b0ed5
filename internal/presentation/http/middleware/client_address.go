package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
)

// UnknownAddress is used when no address header is present.
const UnknownAddress = "unknown"

// ClientAddress identifies the caller for rate limiting: the trusted proxy
// header first, then the first X-Forwarded-For entry, else "unknown".
func ClientAddress(c *gin.Context, trustedHeader string) string {
	if trustedHeader != "" {
		if addr := strings.TrimSpace(c.GetHeader(trustedHeader)); addr != "" {
			return addr
		}
	}

	if forwarded := c.GetHeader("X-Forwarded-For"); forwarded != "" {
		first, _, _ := strings.Cut(forwarded, ",")
		if addr := strings.TrimSpace(first); addr != "" {
			return addr
		}
	}

	return UnknownAddress
}
