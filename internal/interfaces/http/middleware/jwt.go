package middleware

import (
	"context"
	"errors"
	"net/http"
	"slices"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Patrickscodegit/Beconnect-sub010/internal/domain/shared"
	"github.com/Patrickscodegit/Beconnect-sub010/internal/infrastructure/auth"
	"github.com/Patrickscodegit/Beconnect-sub010/internal/infrastructure/logger"
	"github.com/Patrickscodegit/Beconnect-sub010/internal/interfaces/http/dto"
)

// Keys under which JWTAuth stores the caller identity on the gin context
const (
	JWTClaimsKey         = "jwt_claims"
	JWTUserIDKey         = "user_id"
	JWTEmailKey          = "user_email"
	JWTRoleKey           = "user_role"
	JWTRobawsClientIDKey = "robaws_client_id"
	JWTCustomerTypeKey   = "customer_type"
)

// Authenticator validates an access token, blacklist included
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*auth.Claims, error)
}

// JWTAuth requires a valid bearer token and stores its claims on the context
func JWTAuth(authenticator Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			abort(c, http.StatusUnauthorized, dto.ErrCodeUnauthorized, "Authorization header is required")
			return
		}

		claims, err := authenticator.Authenticate(c.Request.Context(), token)
		if err != nil {
			code, message := dto.ErrCodeTokenInvalid, "Invalid token"
			var domainErr *shared.DomainError
			if errors.As(err, &domainErr) {
				code, _ = dto.StatusForDomainCode(domainErr.Code)
				message = domainErr.Message
			}
			abort(c, http.StatusUnauthorized, code, message)
			return
		}

		c.Set(JWTClaimsKey, claims)
		c.Set(JWTUserIDKey, claims.UserID)
		c.Set(JWTEmailKey, claims.Email)
		c.Set(JWTRoleKey, claims.Role)
		c.Set(JWTRobawsClientIDKey, claims.RobawsClientID)
		c.Set(JWTCustomerTypeKey, claims.CustomerType)
		c.Request = c.Request.WithContext(logger.WithUserID(c.Request.Context(), claims.UserID))
		c.Next()
	}
}

func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

// RequireRoles allows only callers whose role is listed. JWTAuth must run first.
func RequireRoles(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !slices.Contains(roles, GetRole(c)) {
			abort(c, http.StatusForbidden, dto.ErrCodeForbidden, "You do not have access to this resource")
			return
		}
		c.Next()
	}
}

// RequireStaff allows admin and staff accounts
func RequireStaff() gin.HandlerFunc {
	return RequireRoles("admin", "staff")
}

// GetClaims returns the claims stored by JWTAuth, or nil
func GetClaims(c *gin.Context) *auth.Claims {
	if v, ok := c.Get(JWTClaimsKey); ok {
		if claims, ok := v.(*auth.Claims); ok {
			return claims
		}
	}
	return nil
}

// GetUserID returns the caller's user id
func GetUserID(c *gin.Context) string { return c.GetString(JWTUserIDKey) }

// GetRole returns the caller's role
func GetRole(c *gin.Context) string { return c.GetString(JWTRoleKey) }

// IsStaff reports whether the caller is an admin or staff account
func IsStaff(c *gin.Context) bool {
	role := GetRole(c)
	return role == "admin" || role == "staff"
}
