package middleware

import (
	"net/http"
	"strings"

	"github.com/svstupireburgh/FeelmeTown-sub000/internal/shared/config"
	"github.com/svstupireburgh/FeelmeTown-sub000/internal/shared/utils/response"
	"github.com/svstupireburgh/FeelmeTown-sub000/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
)

// Roles carried in the access token
const (
	RoleAdmin = "ADMIN"
	RoleStaff = "STAFF"
)

// Identity is the authenticated caller as read from the access token
type Identity struct {
	UserID string
	Email  string
	Role   string
}

// IsOperator reports whether the caller may run the wizard in manual mode
func (i Identity) IsOperator() bool {
	return i.Role == RoleAdmin || i.Role == RoleStaff
}

// JWTAuthWithConfig creates a JWT authentication middleware with config
func JWTAuthWithConfig(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.RespondJSON(c, "error", http.StatusUnauthorized, "Authorization header is required", nil, nil)
			c.Abort()
			return
		}

		claims, err := parseAccessToken(authHeader, cfg.JWT.Secret)
		if err != nil {
			logger.GetDefault().LogAuthFailure(c.Request.Context(), err.Error(), c.ClientIP())
			response.RespondJSON(c, "error", http.StatusUnauthorized, err.Error(), nil, nil)
			c.Abort()
			return
		}

		setIdentity(c, claims)
		c.Next()
	}
}

// RequireRoles middleware checks if user has any of the required roles
func RequireRoles(requiredRoles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		userRole, exists := c.Get("user_role")
		if !exists {
			response.RespondJSON(c, "error", http.StatusUnauthorized, "user role not found in context", nil, nil)
			c.Abort()
			return
		}

		role, _ := userRole.(string)
		hasRole := false
		for _, r := range requiredRoles {
			if role == r {
				hasRole = true
				break
			}
		}

		if !hasRole {
			response.RespondJSON(c, "error", http.StatusForbidden, "Insufficient permissions", nil, nil)
			c.Abort()
			return
		}

		c.Next()
	}
}

// OptionalAuthWithConfig validates JWT token if present but doesn't require it
func OptionalAuthWithConfig(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.Next()
			return
		}

		claims, err := parseAccessToken(authHeader, cfg.JWT.Secret)
		if err != nil {
			c.Next()
			return
		}

		setIdentity(c, claims)
		c.Next()
	}
}

// CurrentIdentity returns the caller set by one of the auth middlewares
func CurrentIdentity(c *gin.Context) (Identity, bool) {
	role, ok := c.Get("user_role")
	if !ok {
		return Identity{}, false
	}
	id := Identity{}
	id.Role, _ = role.(string)
	if v, ok := c.Get("user_id"); ok {
		id.UserID, _ = v.(string)
	}
	if v, ok := c.Get("user_email"); ok {
		id.Email, _ = v.(string)
	}
	return id, true
}

type tokenError string

func (e tokenError) Error() string { return string(e) }

const (
	errBadHeader = tokenError("authorization header format must be Bearer {token}")
	errBadToken  = tokenError("invalid or expired token")
	errBadType   = tokenError("invalid token type")
)

func parseAccessToken(header, secret string) (jwt.MapClaims, error) {
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" {
		return nil, errBadHeader
	}

	token, err := jwt.Parse(parts[1], func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		return nil, errBadToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, errBadToken
	}
	if tokenType, ok := claims["type"]; !ok || tokenType != "access" {
		return nil, errBadType
	}
	return claims, nil
}

func setIdentity(c *gin.Context, claims jwt.MapClaims) {
	c.Set("user_id", claims["user_id"])
	c.Set("user_email", claims["email"])
	c.Set("user_role", claims["role"])
}
