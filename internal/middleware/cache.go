package middleware

import (
	"github.com/gin-gonic/gin"
)

// NoStore keeps auth pages and their responses out of every cache. They
// carry per-user state and one-shot messages.
func NoStore() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Cache-Control", "no-store, max-age=0")
		c.Header("Pragma", "no-cache")
		c.Writer.Header().Add("Vary", "Cookie")
		c.Next()
	}
}
