package http

import (
	"log/slog"
	"strings"

	"github.com/gin-gonic/gin"

	authDomain "github.com/teranga/caisse/internal/auth/domain"
	authService "github.com/teranga/caisse/internal/auth/service"
	identityDomain "github.com/teranga/caisse/internal/identity/domain"

	apperrors "github.com/teranga/caisse/internal/errors"
	"github.com/teranga/caisse/internal/httputil"
)

// AuthenticationMiddleware verifies the Bearer access token in the
// Authorization header and stores its claims in the request context.
//
// Verification is purely cryptographic: the claims were snapshotted at
// issuance and no identity lookup happens here, so a role revoked after
// issuance still authorizes until the token expires.
//
// Error handling:
//   - Missing Authorization header → 401 Unauthorized
//   - Malformed Authorization header → 401 Unauthorized
//   - Invalid/expired token → 401 Unauthorized
func AuthenticationMiddleware(tokenSvc authService.TokenService, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			logger.Debug("authentication failed: missing authorization header")
			httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, logger)
			c.Abort()
			return
		}

		// Parse Bearer token (case-insensitive)
		const bearerPrefix = "bearer "
		if len(authHeader) < len(bearerPrefix) ||
			!strings.EqualFold(authHeader[:len(bearerPrefix)], bearerPrefix) {
			logger.Debug("authentication failed: malformed authorization header")
			httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, logger)
			c.Abort()
			return
		}

		plainToken := authHeader[len(bearerPrefix):]
		if plainToken == "" {
			logger.Debug("authentication failed: empty bearer token")
			httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, logger)
			c.Abort()
			return
		}

		claims, err := tokenSvc.Verify(plainToken, authDomain.AccessToken)
		if err != nil {
			logger.Debug("authentication failed", slog.String("error", err.Error()))
			httputil.HandleErrorGin(c, err, logger)
			c.Abort()
			return
		}

		ctx := WithClaims(c.Request.Context(), claims)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

// RequireRoles authorizes the request against the roles snapshotted in the
// token claims. The request passes when the principal role or any active
// grant matches one of the required roles.
//
// This middleware MUST run after AuthenticationMiddleware.
//
// Error handling:
//   - No claims in context → 401 Unauthorized (authentication did not run)
//   - No matching role → 403 Forbidden with kind insufficient_permission
func RequireRoles(logger *slog.Logger, roles ...identityDomain.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := GetClaims(c.Request.Context())
		if !ok || claims == nil {
			logger.Debug("authorization failed: no claims in context")
			httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, logger)
			c.Abort()
			return
		}

		for _, role := range roles {
			if claims.PrincipalRole == role || claims.HasActiveRole(role) {
				c.Next()
				return
			}
		}

		logger.Debug("authorization failed: insufficient permission",
			slog.String("identity_id", claims.Subject),
			slog.String("principal_role", string(claims.PrincipalRole)),
			slog.String("path", c.Request.URL.Path))
		httputil.HandleErrorGin(c, authDomain.ErrInsufficientPermission, logger)
		c.Abort()
	}
}
