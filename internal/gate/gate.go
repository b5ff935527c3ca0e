// Package gate guards protected route trees behind the session store.
package gate

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/finboard/auth-service/internal/core/ports"
)

const defaultLoginPath = "/login"

// Gate blocks protected handlers until the session resolves, then redirects
// unauthenticated traffic to the login route. The check runs on every
// request, so an authorization lost mid-session (e.g. via the transport's
// 401 handler) takes effect on the next protected hit.
type Gate struct {
	sessions  ports.SessionStore
	loginPath string
}

func New(sessions ports.SessionStore, loginPath string) *Gate {
	if loginPath == "" {
		loginPath = defaultLoginPath
	}
	return &Gate{sessions: sessions, loginPath: loginPath}
}

// Middleware returns the echo middleware protecting a route group.
func (g *Gate) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			g.sessions.Initialize(c.Request().Context())

			snap := g.sessions.Snapshot()
			if snap.IsLoading {
				// The protected handler never runs while unresolved.
				c.Response().Header().Set("Retry-After", "1")
				return c.JSON(http.StatusServiceUnavailable, map[string]string{"status": "loading"})
			}
			if !snap.IsAuthenticated {
				return c.Redirect(http.StatusFound, g.loginPath)
			}
			return next(c)
		}
	}
}

// AuthorizationLost forces a logout. Wire it as the transport's
// OnAuthorizationLost callback.
func (g *Gate) AuthorizationLost() {
	g.sessions.Logout(context.Background())
}
