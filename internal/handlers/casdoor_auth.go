package handlers

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/casdoor/casdoor-go-sdk/casdoorsdk"
	"github.com/gin-gonic/gin"

	"github.com/gla-learning/enrollment-service/internal/config"
	"github.com/gla-learning/enrollment-service/internal/models"
	"github.com/gla-learning/enrollment-service/internal/repositories"
)

// CasdoorAuthMiddleware provides authentication using Casdoor SDK
type CasdoorAuthMiddleware struct {
	client   *casdoorsdk.Client
	userRepo repositories.UserRecordRepository
	config   config.CasdoorConfig
}

// NewCasdoorAuthMiddleware creates a new Casdoor authentication middleware
func NewCasdoorAuthMiddleware(cfg config.CasdoorConfig, userRepo repositories.UserRecordRepository) *CasdoorAuthMiddleware {
	client := casdoorsdk.NewClient(
		cfg.Endpoint,
		cfg.ClientID,
		cfg.ClientSecret,
		cfg.Cert,
		cfg.Application,
		cfg.Organization,
	)

	return &CasdoorAuthMiddleware{
		client:   client,
		userRepo: userRepo,
		config:   cfg,
	}
}

// AuthMiddleware returns a Gin middleware function for Casdoor
// authentication. A valid token without a matching profile record is
// rejected: an identity with no profile has no role, and the guard
// fails closed.
func (cam *CasdoorAuthMiddleware) AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error":   "unauthorized",
				"message": "authorization header missing or malformed",
			})
			c.Abort()
			return
		}

		claims, err := cam.client.ParseJwtToken(token)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error":   "unauthorized",
				"message": fmt.Sprintf("invalid token: %v", err),
			})
			c.Abort()
			return
		}

		record, err := cam.lookupRecord(c.Request.Context(), claims)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error":    "unauthorized",
				"message":  "User profile not found",
				"sign_out": true,
			})
			c.Abort()
			return
		}

		c.Set("user_id", record.UID)
		c.Set("user", record)
		c.Set("user_role", record.Role)

		c.Next()
	}
}

// OptionalAuthMiddleware sets user info when a valid token is present
// and continues anonymously otherwise. Used by the session resolver,
// which must answer for signed-out visitors too.
func (cam *CasdoorAuthMiddleware) OptionalAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c)
		if !ok {
			c.Next()
			return
		}

		claims, err := cam.client.ParseJwtToken(token)
		if err != nil {
			c.Next()
			return
		}

		if claims.Id != "" {
			c.Set("user_id", claims.Id)
		}

		c.Next()
	}
}

// RequireRoleMiddleware checks if user has one of the required roles.
// No role is implicitly granted; a role outside the list is denied.
func (cam *CasdoorAuthMiddleware) RequireRoleMiddleware(requiredRoles ...models.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		userRole, exists := c.Get("user_role")
		if !exists {
			c.JSON(http.StatusForbidden, gin.H{
				"error":   "forbidden",
				"message": "user role not found in context",
			})
			c.Abort()
			return
		}

		role, ok := userRole.(models.UserRole)
		if !ok || !role.IsValid() {
			c.JSON(http.StatusForbidden, gin.H{
				"error":   "forbidden",
				"message": "invalid user role format",
			})
			c.Abort()
			return
		}

		hasRequiredRole := false
		for _, requiredRole := range requiredRoles {
			if role == requiredRole {
				hasRequiredRole = true
				break
			}
		}

		if !hasRequiredRole {
			c.JSON(http.StatusForbidden, gin.H{
				"error":   "forbidden",
				"message": fmt.Sprintf("insufficient permissions, required role: %v", requiredRoles),
			})
			c.Abort()
			return
		}

		c.Next()
	}
}

// lookupRecord resolves the JWT claims to a stored profile record and
// stamps the login time.
func (cam *CasdoorAuthMiddleware) lookupRecord(ctx context.Context, claims *casdoorsdk.Claims) (*models.UserRecord, error) {
	uid := claims.Id
	if uid == "" {
		return nil, fmt.Errorf("invalid user ID in token")
	}

	record, err := cam.userRepo.GetByUID(ctx, uid)
	if err != nil {
		return nil, err
	}

	// Login stamping is best-effort; an auth decision never fails on it.
	now := time.Now()
	_ = cam.userRepo.UpdateFields(ctx, uid, models.UserRecordPatch{LastLogin: &now})

	return record, nil
}

func bearerToken(c *gin.Context) (string, bool) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return "", false
	}

	tokenParts := strings.Split(authHeader, " ")
	if len(tokenParts) != 2 || strings.ToLower(tokenParts[0]) != "bearer" {
		return "", false
	}

	return tokenParts[1], true
}
