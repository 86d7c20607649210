package handlers

import (
	"fmt"
	"net/http"
	"slices"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/SAP-F-2025/marktrack-service/internal/auth"
	"github.com/SAP-F-2025/marktrack-service/internal/config"
	"github.com/SAP-F-2025/marktrack-service/internal/models"
)

const (
	// SessionCookieName holds the token when cookie transport is enabled
	SessionCookieName = "access_token"

	contextUserID     = "user_id"
	contextUserRole   = "user_role"
	contextUserStatus = "user_status"
	contextClaims     = "claims"
)

// AuthMiddleware verifies session tokens issued by this service
type AuthMiddleware struct {
	issuer auth.TokenIssuer
	config config.JWTConfig
}

func NewAuthMiddleware(issuer auth.TokenIssuer, cfg config.JWTConfig) *AuthMiddleware {
	return &AuthMiddleware{issuer: issuer, config: cfg}
}

func (am *AuthMiddleware) acceptsBearer() bool {
	return am.config.TokenTransport == config.TransportBearer || am.config.TokenTransport == config.TransportBoth
}

func (am *AuthMiddleware) acceptsCookie() bool {
	return am.config.TokenTransport == config.TransportCookie || am.config.TokenTransport == config.TransportBoth
}

// extractToken reads the bearer header first, then the cookie.
func (am *AuthMiddleware) extractToken(c *gin.Context) (string, error) {
	if am.acceptsBearer() {
		if header := c.GetHeader("Authorization"); header != "" {
			parts := strings.SplitN(header, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || parts[1] == "" {
				return "", fmt.Errorf("invalid authorization header format")
			}
			return parts[1], nil
		}
	}
	if am.acceptsCookie() {
		if token, err := c.Cookie(SessionCookieName); err == nil && token != "" {
			return token, nil
		}
	}
	return "", fmt.Errorf("session token missing")
}

// Authenticate rejects requests without a valid session token
func (am *AuthMiddleware) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := am.extractToken(c)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{Message: err.Error()})
			return
		}

		claims, err := am.issuer.Verify(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{Message: "Invalid or expired token"})
			return
		}

		c.Set(contextUserID, claims.UserID())
		c.Set(contextUserRole, claims.Role)
		c.Set(contextUserStatus, claims.Status)
		c.Set(contextClaims, claims)
		c.Next()
	}
}

// RequireRole allows only the listed roles. Admins get no implicit bypass.
func (am *AuthMiddleware) RequireRole(roles ...models.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, err := GetUserRoleFromContext(c)
		if err != nil || !slices.Contains(roles, role) {
			c.AbortWithStatusJSON(http.StatusForbidden, ErrorResponse{
				Message: "Insufficient permissions",
				Details: map[string]interface{}{"required_roles": roles},
			})
			return
		}
		c.Next()
	}
}

// RequireStatus allows only tokens carrying one of the listed statuses.
func (am *AuthMiddleware) RequireStatus(statuses ...models.UserStatus) gin.HandlerFunc {
	return func(c *gin.Context) {
		v, _ := c.Get(contextUserStatus)
		status, ok := v.(models.UserStatus)
		if !ok || !slices.Contains(statuses, status) {
			c.AbortWithStatusJSON(http.StatusForbidden, ErrorResponse{
				Message: "Profile status does not allow this action",
				Details: map[string]interface{}{"required_status": statuses},
			})
			return
		}
		c.Next()
	}
}

// SetSessionCookie stores a freshly issued token when cookie transport is on.
func (am *AuthMiddleware) SetSessionCookie(c *gin.Context, token string) {
	if !am.acceptsCookie() {
		return
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(SessionCookieName, token, int(am.config.TTL.Seconds()), "/", "", am.config.CookieSecure, true)
}

func (am *AuthMiddleware) ClearSessionCookie(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(SessionCookieName, "", -1, "/", "", am.config.CookieSecure, true)
}

// GetUserIDFromContext extracts user ID from Gin context
func GetUserIDFromContext(c *gin.Context) (string, error) {
	userID, exists := c.Get(contextUserID)
	if !exists {
		return "", fmt.Errorf("user ID not found in context")
	}

	id, ok := userID.(string)
	if !ok || id == "" {
		return "", fmt.Errorf("invalid user ID type in context")
	}
	return id, nil
}

// GetUserRoleFromContext extracts user role from Gin context
func GetUserRoleFromContext(c *gin.Context) (models.UserRole, error) {
	userRole, exists := c.Get(contextUserRole)
	if !exists {
		return "", fmt.Errorf("user role not found in context")
	}

	role, ok := userRole.(models.UserRole)
	if !ok {
		return "", fmt.Errorf("invalid user role type in context")
	}
	return role, nil
}
