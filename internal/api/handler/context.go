package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/surgassist/records-api/internal/core/domain"
	"github.com/surgassist/records-api/internal/core/ports"
)

// ctxClaims extracts the claims injected by the Auth middleware. An empty
// username means the middleware did not run on this route; reject rather than
// proceed with an anonymous actor.
func ctxClaims(c echo.Context) (ports.TokenClaims, error) {
	username, _ := c.Get("username").(string)
	if username == "" {
		return ports.TokenClaims{}, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}

	accountID, _ := c.Get("account_id").(string)
	role, _ := c.Get("role").(domain.Role)

	return ports.TokenClaims{
		AccountID: accountID,
		Username:  username,
		Role:      role,
	}, nil
}
