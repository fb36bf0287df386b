package middleware

import (
	"context"
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	domainerrors "github.com/helljxnn/astrostar-backend-sub000/internal/domain/errors"
	"github.com/helljxnn/astrostar-backend-sub000/internal/interfaces/http/response"
	"github.com/helljxnn/astrostar-backend-sub000/pkg/jwt"
	"github.com/helljxnn/astrostar-backend-sub000/pkg/logger"
	"go.uber.org/zap"
)

const (
	// AuthorizationHeader is the header key for authorization
	AuthorizationHeader = "Authorization"
	// BearerPrefix is the prefix for bearer tokens
	BearerPrefix = "Bearer "
	// ClaimsKey is the context key for the validated token claims
	ClaimsKey = "claims"
	// AdminRole bypasses permission checks
	AdminRole = "Administrador"
)

type tokenValidator interface {
	ValidateToken(tokenString string) (*jwt.Claims, error)
}

// AuthMiddleware validates the bearer token and stores its claims.
func AuthMiddleware(validator tokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader(AuthorizationHeader)
		if authHeader == "" {
			response.Error(c, domainerrors.Unauthorized("Authorization header is required"))
			return
		}
		if !strings.HasPrefix(authHeader, BearerPrefix) {
			response.Error(c, domainerrors.Unauthorized("Invalid authorization format. Use: Bearer <token>"))
			return
		}

		claims, err := validator.ValidateToken(strings.TrimPrefix(authHeader, BearerPrefix))
		if err != nil {
			logger.Warn(c.Request.Context(), "token rejected", zap.String("path", c.Request.URL.Path), zap.Error(err))
			if errors.Is(err, jwt.ErrExpiredToken) {
				response.Error(c, domainerrors.Unauthorized("Token has expired"))
				return
			}
			response.Error(c, domainerrors.Unauthorized("Invalid token"))
			return
		}

		c.Set(ClaimsKey, claims)
		ctx := context.WithValue(c.Request.Context(), logger.UserIDKey, claims.UserID)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

// GetClaims gets the token claims from context
func GetClaims(c *gin.Context) (*jwt.Claims, bool) {
	v, exists := c.Get(ClaimsKey)
	if !exists {
		return nil, false
	}
	claims, ok := v.(*jwt.Claims)
	return claims, ok
}

// GetUserID gets the user ID from context
func GetUserID(c *gin.Context) (uint, bool) {
	claims, ok := GetClaims(c)
	if !ok {
		return 0, false
	}
	return claims.UserID, true
}

// RequirePermission allows the request when the caller is an administrator
// or holds action on module.
func RequirePermission(module, action string) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := GetClaims(c)
		if !ok {
			response.Error(c, domainerrors.Unauthorized("User not authenticated"))
			return
		}
		if claims.Role == AdminRole || claims.Can(module, action) {
			c.Next()
			return
		}
		response.Error(c, domainerrors.Forbidden("You do not have permission to "+strings.ToLower(action)+" "+module))
	}
}
