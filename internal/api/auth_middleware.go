// internal/api/auth_middleware.go
package api

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Noty-chan/aether-journal/internal/services"
)

const roleContextKey = "actor_role"

// RoleResolver maps a pairing token to the role it was issued for.
type RoleResolver interface {
	GetRole(token string) (services.Role, bool)
}

// bearerToken extracts the token from "Authorization: Bearer <token>".
// WebSocket clients cannot set headers from a browser, so the token query
// parameter is accepted as well.
func bearerToken(c *gin.Context) string {
	if header := c.GetHeader("Authorization"); header != "" {
		token := strings.TrimSpace(strings.TrimPrefix(header, "Bearer"))
		if token != "" {
			return token
		}
	}
	return strings.TrimSpace(c.Query("token"))
}

// authenticate resolves the request token and stores the role. It aborts
// with 401 and reports false when the token is missing or unknown.
func authenticate(c *gin.Context, resolver RoleResolver, helper *ResponseHelper) bool {
	token := bearerToken(c)
	if token == "" {
		helper.Unauthorized(c, "Missing token")
		return false
	}
	role, ok := resolver.GetRole(token)
	if !ok {
		helper.Unauthorized(c, "Invalid token")
		return false
	}
	c.Set(roleContextKey, role)
	return true
}

// RequireToken rejects requests without a live pairing token.
func RequireToken(resolver RoleResolver) gin.HandlerFunc {
	helper := NewResponseHelper()
	return func(c *gin.Context) {
		if authenticate(c, resolver, helper) {
			c.Next()
		}
	}
}

// RequireRole is RequireToken plus a role check. A valid token of the
// other role gets 403.
func RequireRole(resolver RoleResolver, role services.Role) gin.HandlerFunc {
	helper := NewResponseHelper()
	return func(c *gin.Context) {
		if !authenticate(c, resolver, helper) {
			return
		}
		if RoleFromContext(c) != role {
			helper.Forbidden(c, "Invalid role")
			return
		}
		c.Next()
	}
}

// RoleFromContext returns the role set by RequireToken.
func RoleFromContext(c *gin.Context) services.Role {
	value, ok := c.Get(roleContextKey)
	if !ok {
		return ""
	}
	role, _ := value.(services.Role)
	return role
}
