package middleware

import (
	"github.com/gin-gonic/gin"
)

// TerminalIDHeader identifies the point-of-sale terminal issuing a request
const TerminalIDHeader = "X-Terminal-ID"

// ClientID identifies the caller for rate limiting and idempotency:
// the terminal id when the client sends one, otherwise its IP address
func ClientID(c *gin.Context) string {
	if id := c.GetHeader(TerminalIDHeader); id != "" {
		return "terminal:" + id
	}
	return "ip:" + c.ClientIP()
}
