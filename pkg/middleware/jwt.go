package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/Maheswara192/HostelsPGs-Managament-website-sub000/pkg/response"
)

var (
	ErrMissingAuthHeader = errors.New("missing authorization header")
	ErrInvalidAuthFormat = errors.New("invalid authorization header format")
	ErrInvalidToken      = errors.New("invalid token")
)

// Context keys for actor information
const (
	ContextKeyUserID = "user_id"
	ContextKeyEmail  = "email"
	ContextKeyRole   = "role"
	ContextKeyOrgID  = "org_id"
)

// Roles recognized by the API surface
const (
	RoleOwner  = "owner"
	RoleAdmin  = "admin"
	RoleTenant = "tenant"
)

// JWTConfig holds configuration for JWT middleware
type JWTConfig struct {
	// Secret key for validating JWT tokens
	Secret string
	// SkipPaths is a list of paths that should skip JWT validation
	SkipPaths []string
}

// JWTMiddleware creates a new JWT validation middleware
func JWTMiddleware(config *JWTConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		for _, path := range config.SkipPaths {
			if c.Request.URL.Path == path {
				c.Next()
				return
			}
		}

		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, response.Error("MISSING_TOKEN", "Authorization header is required"))
			return
		}

		const bearerPrefix = "Bearer "
		if !strings.HasPrefix(authHeader, bearerPrefix) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, response.Error("INVALID_TOKEN", "Invalid authorization header format"))
			return
		}
		tokenString := authHeader[len(bearerPrefix):]

		if tokenString == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, response.Error("INVALID_TOKEN", "Token is empty"))
			return
		}

		token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, ErrInvalidToken
			}
			return []byte(config.Secret), nil
		})

		if err != nil {
			if errors.Is(err, jwt.ErrTokenExpired) {
				c.AbortWithStatusJSON(http.StatusUnauthorized, response.Error("TOKEN_EXPIRED", "Access token has expired"))
				return
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, response.Error("INVALID_TOKEN", "Invalid access token"))
			return
		}

		if !token.Valid {
			c.AbortWithStatusJSON(http.StatusUnauthorized, response.Error("INVALID_TOKEN", "Invalid access token"))
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, response.Error("INVALID_TOKEN", "Invalid token claims"))
			return
		}

		userID, ok := claims["user_id"].(string)
		if !ok || userID == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, response.Error("INVALID_TOKEN", "Missing user_id in token"))
			return
		}

		email, _ := claims["email"].(string)
		role, _ := claims["role"].(string)
		orgID, _ := claims["org_id"].(string)

		c.Set(ContextKeyUserID, userID)
		c.Set(ContextKeyEmail, email)
		c.Set(ContextKeyRole, role)
		c.Set(ContextKeyOrgID, orgID)

		c.Next()
	}
}

// RequireRole creates a middleware that checks if the actor has a required role
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		userRole, exists := c.Get(ContextKeyRole)
		if !exists {
			c.AbortWithStatusJSON(http.StatusUnauthorized, response.Error("UNAUTHORIZED", "User not authenticated"))
			return
		}

		roleStr, ok := userRole.(string)
		if !ok {
			c.AbortWithStatusJSON(http.StatusInternalServerError, response.InternalError("Invalid role type"))
			return
		}

		for _, r := range roles {
			if roleStr == r {
				c.Next()
				return
			}
		}

		c.AbortWithStatusJSON(http.StatusForbidden, response.Error("FORBIDDEN", "Insufficient permissions"))
	}
}

// GetUserID extracts the acting user ID from gin context
func GetUserID(c *gin.Context) (string, bool) {
	userID, exists := c.Get(ContextKeyUserID)
	if !exists {
		return "", false
	}
	s, ok := userID.(string)
	return s, ok
}

// GetEmail extracts the actor email from gin context
func GetEmail(c *gin.Context) (string, bool) {
	email, exists := c.Get(ContextKeyEmail)
	if !exists {
		return "", false
	}
	s, ok := email.(string)
	return s, ok
}

// GetRole extracts the actor role from gin context
func GetRole(c *gin.Context) (string, bool) {
	role, exists := c.Get(ContextKeyRole)
	if !exists {
		return "", false
	}
	s, ok := role.(string)
	return s, ok
}

// GetOrgID extracts the organization ID from gin context
func GetOrgID(c *gin.Context) (string, bool) {
	orgID, exists := c.Get(ContextKeyOrgID)
	if !exists {
		return "", false
	}
	s, ok := orgID.(string)
	return s, ok
}
