package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/finboard/auth-service/internal/api/metrics"
	"github.com/finboard/auth-service/internal/core/domain"
)

// RequirePermission enforces catalog-based access control: the caller's role
// (injected by Auth) must grant every listed permission. Unknown roles carry
// no permissions, so requests without a catalog entry are denied.
func RequirePermission(permissions ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			claims, _ := ClaimsFrom(c)
			for _, p := range permissions {
				if !domain.RoleHasPermission(claims.Role, p) {
					metrics.PermissionChecksTotal.WithLabelValues("denied").Inc()
					return c.JSON(http.StatusForbidden, map[string]string{"error": "forbidden"})
				}
			}
			metrics.PermissionChecksTotal.WithLabelValues("allowed").Inc()
			return next(c)
		}
	}
}
