package middleware

import (
	"context"

	"github.com/gin-gonic/gin"
)

// contextKey namespaces values this package stores in a context.
type contextKey string

const (
	actorIDKey   = contextKey("actorID")
	loggerCtxKey = contextKey("logger")
)

// GetActorIDFromContext retrieves the authenticated actor ID.
// The auth middleware stores it in the request context; the Gin map is checked as a fallback.
func GetActorIDFromContext(c *gin.Context) (string, bool) {
	if actorID, ok := ActorIDFromContext(c.Request.Context()); ok {
		return actorID, true
	}
	actorIDVal, exists := c.Get(string(actorIDKey))
	if !exists {
		return "", false
	}
	actorID, ok := actorIDVal.(string)
	return actorID, ok && actorID != ""
}

// WithActorID returns a context carrying the actor ID, used by background jobs
// that act on behalf of the system.
func WithActorID(ctx context.Context, actorID string) context.Context {
	return context.WithValue(ctx, actorIDKey, actorID)
}

// ActorIDFromContext reads the actor ID stored by WithActorID.
func ActorIDFromContext(ctx context.Context) (string, bool) {
	actorID, ok := ctx.Value(actorIDKey).(string)
	return actorID, ok && actorID != ""
}
