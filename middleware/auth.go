package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"medshift/utils"
)

// Actor roles carried in the JWT.
const (
	RoleHospital = "hospital"
	RoleDoctor   = "doctor"
)

// JWTAuthMiddleware validates the bearer token and stores the acting identity
// in the request context under "actorID" and "actorRole".
func JWTAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "insufficient authorization"})
			return
		}
		tokenString := strings.TrimPrefix(authHeader, "Bearer ")

		actorID, role, err := utils.ExtractActorFromToken(tokenString)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		c.Set("actorID", actorID)
		c.Set("actorRole", role)
		c.Next()
	}
}

// RequireRole rejects requests whose token carries a different role. It must
// run after JWTAuthMiddleware.
func RequireRole(role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetString("actorRole") != role {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "forbidden for this role"})
			return
		}
		c.Next()
	}
}

// Actor returns the authenticated identity set by JWTAuthMiddleware.
func Actor(c *gin.Context) (id, role string) {
	return c.GetString("actorID"), c.GetString("actorRole")
}
