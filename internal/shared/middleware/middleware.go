package middleware

import (
	"net/http"
	"strings"

	"entrantly/internal/shared/config"
	"entrantly/internal/shared/utils/response"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
)

// DeviceAuth creates the device-identity middleware. The token carries an
// opaque stable user id minted at first launch by the identity provider; the
// core never authenticates beyond validating the token and extracting the id.
func DeviceAuth() gin.HandlerFunc {
	return DeviceAuthWithConfig(config.Load())
}

// DeviceAuthWithConfig creates the device-identity middleware with config
func DeviceAuthWithConfig(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.RespondJSON(c, "error", http.StatusUnauthorized, "Authorization header is required", nil, nil)
			c.Abort()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			response.RespondJSON(c, "error", http.StatusUnauthorized, "authorization header format must be Bearer {token}", nil, nil)
			c.Abort()
			return
		}

		tokenString := parts[1]

		token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return []byte(cfg.JWT.Secret), nil
		})

		if err != nil || !token.Valid {
			response.RespondJSON(c, "error", http.StatusUnauthorized, "invalid or expired token", nil, nil)
			c.Abort()
			return
		}

		if claims, ok := token.Claims.(jwt.MapClaims); ok {
			userID, ok := claims["user_id"].(string)
			if !ok || userID == "" {
				response.RespondJSON(c, "error", http.StatusUnauthorized, "token is missing a device identity", nil, nil)
				c.Abort()
				return
			}
			c.Set("user_id", userID)
			c.Set("user_role", claims["role"])
		}

		c.Next()
	}
}

// RequireRoles middleware checks if the caller has one of the required roles
func RequireRoles(requiredRoles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		userRole, exists := c.Get("user_role")
		if !exists {
			response.RespondJSON(c, "error", http.StatusUnauthorized, "user role not found in context", nil, nil)
			c.Abort()
			return
		}

		role, _ := userRole.(string)
		for _, required := range requiredRoles {
			if role == required {
				c.Next()
				return
			}
		}

		response.RespondJSON(c, "error", http.StatusForbidden, "insufficient permissions", nil, nil)
		c.Abort()
	}
}

// RequireAdmin middleware restricts a route to admins
func RequireAdmin() gin.HandlerFunc {
	return RequireRoles("ADMIN")
}

// RequireOrganizer middleware restricts a route to organizers and admins
func RequireOrganizer() gin.HandlerFunc {
	return RequireRoles("ORGANIZER", "ADMIN")
}

// UserID extracts the device identity placed in the context by DeviceAuth.
func UserID(c *gin.Context) (string, bool) {
	v, exists := c.Get("user_id")
	if !exists {
		return "", false
	}
	userID, ok := v.(string)
	return userID, ok && userID != ""
}
