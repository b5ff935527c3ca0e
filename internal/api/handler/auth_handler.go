package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/finboard/auth-service/internal/api/metrics"
	"github.com/finboard/auth-service/internal/core/domain"
	"github.com/finboard/auth-service/internal/core/ports"
)

type AuthHandler struct {
	authService ports.AuthService
	users       ports.UserRepository
	throttle    ports.LoginThrottle
	log         zerolog.Logger
}

func NewAuthHandler(authService ports.AuthService, users ports.UserRepository, throttle ports.LoginThrottle, log zerolog.Logger) *AuthHandler {
	return &AuthHandler{authService: authService, users: users, throttle: throttle, log: log}
}

type loginRequest struct {
	Identifier string `json:"identifier" validate:"required"`
	Password   string `json:"password" validate:"required"`
}

type loginResponse struct {
	AccessToken string           `json:"access_token"`
	User        *domain.Identity `json:"user"`
}

// Login authenticates a user and returns a bearer token.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  loginResponse
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      429   {object}  map[string]string
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	ctx := c.Request().Context()
	if ok, err := h.throttle.Allow(ctx, req.Identifier); err != nil {
		h.log.Warn().Err(err).Msg("login throttle unavailable; allowing attempt")
	} else if !ok {
		metrics.LoginsTotal.WithLabelValues("throttled").Inc()
		return c.JSON(http.StatusTooManyRequests, map[string]string{"error": domain.ErrTooManyAttempts.Error()})
	}

	token, user, err := h.authService.Login(ctx, req.Identifier, req.Password)
	if err != nil {
		h.recordFailure(c, req.Identifier, err)
		return err
	}

	if err := h.throttle.Reset(ctx, req.Identifier); err != nil {
		h.log.Warn().Err(err).Msg("login throttle reset failed")
	}
	metrics.LoginsTotal.WithLabelValues("success").Inc()

	return c.JSON(http.StatusOK, loginResponse{AccessToken: token, User: user})
}

// recordFailure bumps the throttle counter and the failure metric. The
// central error handler renders the response.
func (h *AuthHandler) recordFailure(c echo.Context, identifier string, cause error) {
	switch {
	case errors.Is(cause, domain.ErrAccountDisabled):
		metrics.LoginsTotal.WithLabelValues("disabled").Inc()
	case errors.Is(cause, domain.ErrUserNotFound):
		metrics.LoginsTotal.WithLabelValues("not_found").Inc()
	default:
		metrics.LoginsTotal.WithLabelValues("invalid_credentials").Inc()
	}

	if err := h.throttle.RecordFailure(c.Request().Context(), identifier); err != nil {
		h.log.Warn().Err(err).Msg("login throttle record failed")
	}
}

// Me returns the authenticated identity.
//
// @Summary      Current user
// @Tags         auth
// @Produce      json
// @Success      200  {object}  domain.Identity
// @Failure      401  {object}  map[string]string
// @Router       /auth/me [get]
func (h *AuthHandler) Me(c echo.Context) error {
	claims, err := ctxClaims(c)
	if err != nil {
		return err
	}

	user, err := h.users.FindByIdentifier(c.Request().Context(), claims.Email)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user)
}

// ListUsers returns all user accounts. Requires the users:view permission.
//
// @Summary      List users
// @Tags         users
// @Produce      json
// @Success      200  {array}   domain.Identity
// @Failure      401  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Router       /users [get]
func (h *AuthHandler) ListUsers(c echo.Context) error {
	if _, err := ctxClaims(c); err != nil {
		return err
	}

	users, err := h.users.List(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, users)
}
