package middleware

import (
	"net/http"
	"strings"

	"github.com/onegreenvn/outreach-dispatch-backend/internal/models"

	"github.com/gin-gonic/gin"
)

// TokenValidator validates a bearer token
type TokenValidator interface {
	ValidateToken(tokenString string) (*models.TokenInfo, error)
}

type BearerTokenMiddleware struct {
	validator TokenValidator
}

func NewBearerTokenMiddleware(validator TokenValidator) *BearerTokenMiddleware {
	return &BearerTokenMiddleware{validator: validator}
}

// BearerTokenAuthMiddleware validates the JWT token and sets the caller in context
func (m *BearerTokenMiddleware) BearerTokenAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		tokenString := ""
		if strings.HasPrefix(authHeader, "Bearer ") {
			tokenString = strings.TrimPrefix(authHeader, "Bearer ")
		} else if strings.HasSuffix(c.Request.URL.Path, "/events") {
			// EventSource cannot set headers
			tokenString = c.Query("access_token")
		}

		if tokenString == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid authorization header format"})
			c.Abort()
			return
		}

		tokenInfo, err := m.validator.ValidateToken(tokenString)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			c.Abort()
			return
		}

		c.Set("user_id", tokenInfo.UserID)
		c.Set("organization_id", tokenInfo.OrganizationID)
		c.Set("token_info", tokenInfo)

		c.Next()
	}
}
