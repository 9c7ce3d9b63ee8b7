package middleware

import (
	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
)

// OperatorAPIKeyUser is recorded as the author of changes made with the operator API key.
const OperatorAPIKeyUser = "operator-api-key"

// APIKeyAuthMiddleware authenticates batch jobs (billing runs, closings) that
// present the operator key in the x-api-key header. The key is compared to a
// bcrypt hash. Requests without a key, or with a wrong one, fall through to
// AuthMiddleware.
func APIKeyAuthMiddleware(keyHash string) gin.HandlerFunc {
	return func(c *gin.Context) {
		apiKey := c.GetHeader("x-api-key")
		if keyHash == "" || apiKey == "" {
			c.Next()
			return
		}

		if err := bcrypt.CompareHashAndPassword([]byte(keyHash), []byte(apiKey)); err != nil {
			GetLoggerFromCtx(c.Request.Context()).Warn("Operator API key rejected")
			c.Next()
			return
		}

		authenticate(c, OperatorAPIKeyUser, "api_key")
		c.Next()
	}
}
