package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	// ContextActorKey is the gin context key storing the acting user's ID.
	ContextActorKey = "actorID"
	actorHeader     = "X-User-ID"
)

// Actor records the caller identity forwarded by the upstream gateway.
// Requests without the header proceed anonymously.
func Actor() gin.HandlerFunc {
	return func(c *gin.Context) {
		if id := strings.TrimSpace(c.GetHeader(actorHeader)); id != "" {
			c.Set(ContextActorKey, id)
		}
		c.Next()
	}
}

// ActorID returns the actor stored by Actor, or an empty string.
func ActorID(c *gin.Context) string {
	if v, exists := c.Get(ContextActorKey); exists {
		if id, ok := v.(string); ok {
			return id
		}
	}
	return ""
}
