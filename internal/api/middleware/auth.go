package middleware

import (
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

// Claims carries the authenticated caller's identity as injected by Auth.
type Claims struct {
	UserID string
	Email  string
	Role   string
}

const claimsKey = "auth.claims"

// Auth validates the bearer JWT and injects the caller's Claims into the
// request context. Tokens must be HS256-signed and carry non-empty sub and
// role claims.
func Auth(jwtSecret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token := bearerToken(c.Request().Header.Get("Authorization"))
			if token == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing bearer token")
			}

			mc := jwt.MapClaims{}
			_, err := jwt.ParseWithClaims(token, mc, func(*jwt.Token) (interface{}, error) {
				return []byte(jwtSecret), nil
			}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}

			claims := Claims{
				UserID: stringClaim(mc, "sub"),
				Email:  stringClaim(mc, "email"),
				Role:   stringClaim(mc, "role"),
			}
			if claims.UserID == "" || claims.Role == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "incomplete token claims")
			}

			c.Set(claimsKey, claims)
			return next(c)
		}
	}
}

// ClaimsFrom returns the Claims injected by Auth, reporting false when the
// middleware did not run on this request.
func ClaimsFrom(c echo.Context) (Claims, bool) {
	claims, ok := c.Get(claimsKey).(Claims)
	return claims, ok
}

// SetClaims injects claims directly, bypassing token validation. Handler
// tests use it to simulate an authenticated request.
func SetClaims(c echo.Context, claims Claims) {
	c.Set(claimsKey, claims)
}

func bearerToken(header string) string {
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

func stringClaim(mc jwt.MapClaims, name string) string {
	s, _ := mc[name].(string)
	return s
}
