package middleware

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const (
	// SubjectKey is the context key for the authenticated caller's subject claim.
	SubjectKey = "auth_subject"
)

// Auth creates a middleware that requires a valid HS256 bearer token signed
// with the given secret. Token issuance is owned by an external identity
// service; this middleware only verifies signature and expiry.
func Auth(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			unauthorized(c, "Missing Authorization header")
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
			unauthorized(c, "Authorization header must be 'Bearer <token>'")
			return
		}

		token, err := jwt.ParseWithClaims(parts[1], &jwt.RegisteredClaims{}, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
			}
			return []byte(secret), nil
		})
		if err != nil || !token.Valid {
			unauthorized(c, "Invalid or expired token")
			return
		}

		if claims, ok := token.Claims.(*jwt.RegisteredClaims); ok {
			c.Set(SubjectKey, claims.Subject)
		}

		c.Next()
	}
}

// GetSubject retrieves the authenticated subject from the Gin context.
// Returns an empty string for unauthenticated requests.
func GetSubject(c *gin.Context) string {
	if sub, exists := c.Get(SubjectKey); exists {
		if s, ok := sub.(string); ok {
			return s
		}
	}
	return ""
}

func unauthorized(c *gin.Context, message string) {
	requestID := GetRequestID(c)

	if log := GetLogger(c); log != nil {
		log.Warn("Unauthorized request", map[string]interface{}{
			"message":    message,
			"request_id": requestID,
			"path":       c.Request.URL.Path,
		})
	}

	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"error": gin.H{
			"code":       "UNAUTHORIZED",
			"message":    message,
			"request_id": requestID,
		},
	})
}
