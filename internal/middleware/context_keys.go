package middleware

import (
	"context"

	"github.com/gin-gonic/gin"
)

const (
	// userIDKey holds the operator identity: the JWT subject or the API key operator name.
	userIDKey = contextKey("userID")
	// authMethodKey records which middleware authenticated the request.
	authMethodKey = "authMethod"
)

// WithUserID stores the operator identity in ctx.
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// GetUserIDFromContext retrieves the authenticated operator from the request context.
// It returns the user ID and a boolean indicating if it was found.
func GetUserIDFromContext(c *gin.Context) (string, bool) {
	userID, ok := c.Request.Context().Value(userIDKey).(string)
	if !ok || userID == "" {
		return "", false
	}
	return userID, true
}
