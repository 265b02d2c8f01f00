package middleware

import (
	"fmt"

	"github.com/labstack/echo/v4"

	"github.com/ppsammartino/usgs-earthquake-monitor/internal/core/domain"
)

// RBAC enforces role-based access control. A request whose token role is not
// in allowedRoles fails with domain.ErrForbidden, which the central error
// handler renders as a 403.
func RBAC(allowedRoles ...string) echo.MiddlewareFunc {
	allowed := make(map[string]struct{}, len(allowedRoles))
	for _, r := range allowedRoles {
		allowed[r] = struct{}{}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role, _ := c.Get("role").(string)
			if _, ok := allowed[role]; !ok {
				return fmt.Errorf("%w: role %q", domain.ErrForbidden, role)
			}
			return next(c)
		}
	}
}
