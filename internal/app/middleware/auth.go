package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/propertyease/propertyease/internal/domain/repositories"
	"github.com/propertyease/propertyease/internal/domain/services"
	"github.com/propertyease/propertyease/internal/infrastructure/database/models"
)

// UserContext holds user information extracted from the access token
type UserContext struct {
	UserID   uuid.UUID       `json:"user_id"`
	Email    string          `json:"email"`
	Role     models.UserRole `json:"role"`
	IsActive bool            `json:"is_active"`
}

// AuthMiddleware creates authentication middleware using Supabase
func AuthMiddleware(authService services.TokenValidator, userRepo repositories.UserRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		// Extract token from Authorization header
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error":   "missing_authorization",
				"message": "Authorization header is required",
			})
			c.Abort()
			return
		}

		// Check Bearer token format
		tokenParts := strings.Split(authHeader, " ")
		if len(tokenParts) != 2 || tokenParts[0] != "Bearer" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error":   "invalid_authorization_format",
				"message": "Authorization header must be in format: Bearer <token>",
			})
			c.Abort()
			return
		}

		accessToken := tokenParts[1]

		// Validate token with Supabase
		authUser, err := authService.ValidateToken(c.Request.Context(), accessToken)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error":   "invalid_token",
				"message": "Token validation failed",
				"details": err.Error(),
			})
			c.Abort()
			return
		}

		// Roles live on our users table, not in the token
		user, err := userRepo.GetByID(c.Request.Context(), authUser.ID)
		if err != nil {
			status := http.StatusInternalServerError
			code, message := "user_lookup_failed", "Failed to load user"
			if errors.Is(err, repositories.ErrNotFound) {
				status = http.StatusUnauthorized
				code, message = "user_not_found", "User not found in system"
			}
			c.JSON(status, gin.H{
				"error":   code,
				"message": message,
			})
			c.Abort()
			return
		}

		// Check if user is active
		if !user.IsActive {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error":   "user_inactive",
				"message": "User account is inactive",
			})
			c.Abort()
			return
		}

		userCtx := &UserContext{
			UserID:   user.ID,
			Email:    user.Email,
			Role:     user.Role,
			IsActive: user.IsActive,
		}

		// Store user context in gin context
		c.Set("user", userCtx)
		c.Set("user_id", user.ID)
		c.Set("user_role", user.Role)

		c.Next()
	}
}

// RequireRole lets through only authenticated users holding one of roles.
func RequireRole(roles ...models.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		userCtx := GetUserContext(c)
		if userCtx == nil {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error":   "authentication_required",
				"message": "User must be authenticated",
			})
			c.Abort()
			return
		}

		for _, role := range roles {
			if userCtx.Role == role {
				c.Next()
				return
			}
		}

		c.JSON(http.StatusForbidden, gin.H{
			"error":   "insufficient_role",
			"message": "This resource requires role: " + joinRoles(roles),
		})
		c.Abort()
	}
}

// AdminRequiredMiddleware ensures only admin users can access the endpoint
func AdminRequiredMiddleware() gin.HandlerFunc {
	return RequireRole(models.UserRoleAdmin)
}

func joinRoles(roles []models.UserRole) string {
	names := make([]string, len(roles))
	for i, r := range roles {
		names[i] = string(r)
	}
	return strings.Join(names, " or ")
}

// GetUserContext retrieves user context from gin context
// This is a helper function used by handlers to get current user info
func GetUserContext(c *gin.Context) *UserContext {
	if userCtx, exists := c.Get("user"); exists {
		if user, ok := userCtx.(*UserContext); ok {
			return user
		}
	}
	return nil
}

// GetUserID retrieves user ID from gin context
func GetUserID(c *gin.Context) (uuid.UUID, bool) {
	if userID, exists := c.Get("user_id"); exists {
		if id, ok := userID.(uuid.UUID); ok {
			return id, true
		}
	}
	return uuid.Nil, false
}
