package middleware

import (
	"strings"

	"github.com/Freeeeeet/consultation_scheduler/internal/api/response"
	"github.com/Freeeeeet/consultation_scheduler/internal/auth"
	"github.com/gin-gonic/gin"
)

const ActorIDKey = "actor_id"

// TokenParser проверяет access токен
type TokenParser interface {
	ParseToken(token string) (*auth.Claims, error)
}

// JWTAuth извлекает участника из Authorization: Bearer <token>
func JWTAuth(parser TokenParser) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.Unauthorized(c, "missing authorization header")
			c.Abort()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			response.Unauthorized(c, "invalid authorization header")
			c.Abort()
			return
		}

		claims, err := parser.ParseToken(parts[1])
		if err != nil {
			response.Unauthorized(c, "invalid or expired token")
			c.Abort()
			return
		}

		c.Set(ActorIDKey, claims.ActorID())

		c.Next()
	}
}
