package api

import (
	"coachhub/coaching-app/internal/domain"
	"coachhub/coaching-app/internal/service"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
)

// Context key for the authenticated identity
const ContextIdentityKey = "identity"

// jwtClaims mirrors the payload produced by authService.generateJWT.
type jwtClaims struct {
	UserID string      `json:"uid"`
	Email  string      `json:"email"`
	Role   domain.Role `json:"role"`
	jwt.RegisteredClaims
}

// AuthMiddleware creates a Gin middleware for JWT bearer authentication. On
// success the verified identity is placed in the request context.
func AuthMiddleware(jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			abortWithError(c, http.StatusUnauthorized, "Authorization header is missing")
			return
		}

		// Expecting "Bearer <token>"
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			abortWithError(c, http.StatusUnauthorized, "Authorization header format must be Bearer {token}")
			return
		}
		tokenString := parts[1]

		claims := &jwtClaims{}
		token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return []byte(jwtSecret), nil
		})

		if err != nil {
			if errors.Is(err, jwt.ErrTokenExpired) {
				abortWithError(c, http.StatusUnauthorized, "Token has expired")
			} else {
				abortWithError(c, http.StatusUnauthorized, "Invalid token")
			}
			return
		}

		if !token.Valid || claims.UserID == "" || claims.Role == "" {
			abortWithError(c, http.StatusUnauthorized, "Invalid token or missing claims")
			return
		}

		c.Set(ContextIdentityKey, service.Identity{
			ID:    claims.UserID,
			Email: claims.Email,
			Role:  claims.Role,
		})
		c.Next()
	}
}

// RoleMiddleware restricts a route group to the given roles. Must run AFTER
// AuthMiddleware.
func RoleMiddleware(allowedRoles ...domain.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, err := identityFromContext(c)
		if err != nil {
			abortWithError(c, http.StatusInternalServerError, "Identity not found in context")
			return
		}

		for _, role := range allowedRoles {
			if identity.Role == role {
				c.Next()
				return
			}
		}
		abortWithError(c, http.StatusForbidden, fmt.Sprintf("Access denied: role %q does not have permission", identity.Role))
	}
}

// identityFromContext returns the identity set by AuthMiddleware.
func identityFromContext(c *gin.Context) (service.Identity, error) {
	raw, exists := c.Get(ContextIdentityKey)
	if !exists {
		return service.Identity{}, errors.New("identity not found in context")
	}
	identity, ok := raw.(service.Identity)
	if !ok {
		return service.Identity{}, errors.New("invalid identity type in context")
	}
	return identity, nil
}
