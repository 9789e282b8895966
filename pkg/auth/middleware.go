package auth

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const claimsKey = "auth.claims"

// Middleware rejects requests without a valid bearer token and stores the claims on the context.
func Middleware(issuer *Issuer) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			abort(c, "Unauthorized: missing token.")
			return
		}

		claims, err := issuer.ValidateJWT(strings.TrimSpace(header[len("Bearer "):]))
		switch err {
		case nil:
		case ErrTokenExpired:
			abort(c, "Session expired. Please log in again.")
			return
		default:
			abort(c, "Invalid token.")
			return
		}

		c.Set(claimsKey, claims)
		c.Next()
	}
}

func abort(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "message": message})
}

func CurrentClaims(c *gin.Context) *Claims {
	v, ok := c.Get(claimsKey)
	if !ok {
		return nil
	}
	claims, _ := v.(*Claims)
	return claims
}
