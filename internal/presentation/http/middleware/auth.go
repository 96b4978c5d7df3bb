package middleware

import (
	"net/http"
	"slices"
	"strings"

	"github.com/gin-gonic/gin"
	infraRepo "github.com/sangkips/salon-checkout/internal/infrastructure/repository"
	"github.com/sangkips/salon-checkout/internal/presentation/http/dto/response"
	"github.com/sangkips/salon-checkout/pkg/utils"
)

// AuthMiddleware creates a JWT authentication middleware. The cashier is also placed in
// the request context so repositories scope sessions to it.
func AuthMiddleware(jwtManager *utils.JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.Unauthorized(c, "Authorization header is required")
			c.Abort()
			return
		}

		// Extract token from "Bearer <token>"
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			response.Unauthorized(c, "Invalid authorization header format")
			c.Abort()
			return
		}

		claims, err := jwtManager.ValidateAccessToken(parts[1])
		if err != nil {
			response.Unauthorized(c, "Invalid or expired token")
			c.Abort()
			return
		}

		if !claims.HasRole(utils.RoleCashier) && !claims.HasRole(utils.RoleSupervisor) {
			response.Forbidden(c, "Token does not grant POS access")
			c.Abort()
			return
		}

		c.Set("user_id", claims.UserID)
		c.Set("user_name", claims.Name)
		c.Set("user_roles", claims.Roles)

		ctx := infraRepo.WithCashier(c.Request.Context(), claims.UserID)
		if claims.HasRole(utils.RoleSupervisor) {
			ctx = infraRepo.WithSkipCashierScope(ctx, true)
		}
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

// RequireRole creates a middleware that requires one of the given roles
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		userRoles, exists := c.Get("user_roles")
		if !exists {
			response.Forbidden(c, "Access denied")
			c.Abort()
			return
		}

		userRolesList, ok := userRoles.([]string)
		if !ok {
			response.Forbidden(c, "Access denied")
			c.Abort()
			return
		}

		hasRole := slices.ContainsFunc(userRolesList, func(r string) bool {
			return slices.Contains(roles, r)
		})
		if !hasRole {
			c.JSON(http.StatusForbidden, gin.H{
				"success": false,
				"message": "Insufficient role privileges",
			})
			c.Abort()
			return
		}

		c.Next()
	}
}
