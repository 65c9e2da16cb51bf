package middlewares

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

// RequireRole("admin") ou RequireRole("admin","pedagogo") → passa se o papel
// do usuário autenticado bater com pelo menos um.
func RequireRole(tipos ...string) echo.MiddlewareFunc {
	allowed := make(map[string]struct{}, len(tipos))
	for _, t := range tipos {
		allowed[strings.ToLower(strings.TrimSpace(t))] = struct{}{}
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			u := CurrentUser(c)
			if u == nil {
				return echo.NewHTTPError(http.StatusUnauthorized, map[string]any{"error": "UNAUTHENTICATED"})
			}
			if _, ok := allowed[strings.ToLower(u.Tipo)]; !ok {
				return echo.NewHTTPError(http.StatusForbidden, map[string]any{"error": "FORBIDDEN"})
			}
			return next(c)
		}
	}
}
