package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/finboard/auth-service/internal/api/middleware"
)

// ctxClaims extracts the claims injected by the Auth middleware, failing
// fast with 401 when it did not run on this request.
func ctxClaims(c echo.Context) (middleware.Claims, error) {
	claims, ok := middleware.ClaimsFrom(c)
	if !ok {
		return middleware.Claims{}, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	return claims, nil
}
