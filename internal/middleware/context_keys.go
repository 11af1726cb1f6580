package middleware

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/maxborn/loan_management_app/internal/core/domain"
)

// actorKey is the key used to store the authenticated actor in the request's
// standard context.
const actorKey = contextKey("actor")

// GetActorFromContext retrieves the authenticated actor from the Gin context.
// It returns the actor and a boolean indicating if it was found.
func GetActorFromContext(c *gin.Context) (domain.Actor, bool) {
	actor, ok := c.Request.Context().Value(actorKey).(domain.Actor)
	return actor, ok
}

// WithActor returns a context carrying the actor. Used by the auth
// middleware and by tests that call handlers directly.
func WithActor(ctx context.Context, actor domain.Actor) context.Context {
	return context.WithValue(ctx, actorKey, actor)
}
