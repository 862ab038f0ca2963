package mw

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"maintenance-tracker-backend/internal/auth"
	"maintenance-tracker-backend/internal/model"
)

const claimsContextKey = "auth_claims"

// Authenticate validates the bearer token and stores the claims on the gin
// context. Requests without a valid token are rejected with 401.
func Authenticate(authService *auth.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authorization header required"})
			return
		}

		claims, err := authService.ValidateToken(header)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		c.Set(claimsContextKey, claims)
		c.Next()
	}
}

// ClaimsFromContext returns the authenticated user's claims, if any.
func ClaimsFromContext(c *gin.Context) (*model.Claims, bool) {
	v, ok := c.Get(claimsContextKey)
	if !ok {
		return nil, false
	}
	claims, ok := v.(*model.Claims)
	return claims, ok
}

// UserIDFromContext returns the authenticated user's id, or "" when the
// request is unauthenticated.
func UserIDFromContext(c *gin.Context) string {
	claims, ok := ClaimsFromContext(c)
	if !ok {
		return ""
	}
	return claims.UserID
}
