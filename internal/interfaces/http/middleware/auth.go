// Package middleware holds the gin middleware of the HTTP layer.
package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/icepoint/backend/internal/domain/identity"
	"github.com/icepoint/backend/internal/domain/shared"
	"github.com/icepoint/backend/internal/infrastructure/auth"
	"github.com/icepoint/backend/internal/interfaces/http/dto"
)

// Auth context keys
const (
	ClaimsKey     = "auth_claims"
	UserIDKey     = "auth_user_id"
	UserEmailKey  = "auth_user_email"
	UserNameKey   = "auth_user_name"
	UserRoleKey   = "auth_user_role"
	AuthHeaderKey = "Authorization"
)

// RequireAuth rejects requests without a valid bearer token
func RequireAuth(jwtService *auth.JWTService) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, err := authenticate(c, jwtService)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized,
				dto.NewErrorResponse(shared.CodeUnauthorized, err.Error()))
			return
		}
		storeClaims(c, claims)
		c.Next()
	}
}

// OptionalAuth resolves the identity when a token is present but lets
// anonymous requests through. Guest checkout depends on this.
func OptionalAuth(jwtService *auth.JWTService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetHeader(AuthHeaderKey) != "" {
			claims, err := authenticate(c, jwtService)
			if err != nil {
				c.AbortWithStatusJSON(http.StatusUnauthorized,
					dto.NewErrorResponse(shared.CodeUnauthorized, err.Error()))
				return
			}
			storeClaims(c, claims)
		}
		c.Next()
	}
}

// RequireRole rejects authenticated callers whose role is not listed.
// It must run after RequireAuth.
func RequireRole(roles ...identity.Role) gin.HandlerFunc {
	allowed := make(map[identity.Role]struct{}, len(roles))
	for _, role := range roles {
		allowed[role] = struct{}{}
	}
	return func(c *gin.Context) {
		role := GetRole(c)
		if _, ok := allowed[role]; !ok {
			c.AbortWithStatusJSON(http.StatusForbidden,
				dto.NewErrorResponse(shared.CodeForbidden, "Insufficient permissions"))
			return
		}
		c.Next()
	}
}

// RequireStaff is shorthand for staff-or-admin routes
func RequireStaff() gin.HandlerFunc {
	return RequireRole(identity.RoleStaff, identity.RoleAdmin)
}

func authenticate(c *gin.Context, jwtService *auth.JWTService) (*auth.Claims, error) {
	token, err := auth.ExtractBearerToken(c.GetHeader(AuthHeaderKey))
	if err != nil {
		return nil, err
	}
	return jwtService.ValidateToken(token)
}

func storeClaims(c *gin.Context, claims *auth.Claims) {
	c.Set(ClaimsKey, claims)
	c.Set(UserIDKey, claims.UserID)
	c.Set(UserEmailKey, claims.Email)
	c.Set(UserNameKey, claims.Name)
	c.Set(UserRoleKey, claims.Role)
}

// GetUserID returns the authenticated user id, empty for anonymous callers
func GetUserID(c *gin.Context) string {
	return c.GetString(UserIDKey)
}

// GetUserEmail returns the authenticated user email
func GetUserEmail(c *gin.Context) string {
	return c.GetString(UserEmailKey)
}

// GetUserName returns the authenticated user display name
func GetUserName(c *gin.Context) string {
	return c.GetString(UserNameKey)
}

// GetRole returns the authenticated role, defaulting to customer
func GetRole(c *gin.Context) identity.Role {
	if value, ok := c.Get(UserRoleKey); ok {
		if role, ok := value.(identity.Role); ok {
			return role
		}
	}
	return identity.RoleCustomer
}
