package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/surgassist/records-api/internal/core/domain"
)

// RBAC enforces role-based access control. The allowed set is declared per
// route as static data; the check at request time is a pure lookup.
// Authorization failure is 403, distinct from the 401 the Auth middleware
// returns for a missing or invalid session.
func RBAC(allowedRoles ...domain.Role) echo.MiddlewareFunc {
	allowed := make(map[domain.Role]struct{}, len(allowedRoles))
	for _, r := range allowedRoles {
		allowed[r] = struct{}{}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role, _ := c.Get("role").(domain.Role)
			if _, ok := allowed[role]; !ok {
				return c.JSON(http.StatusForbidden, map[string]string{"error": "forbidden"})
			}
			return next(c)
		}
	}
}
