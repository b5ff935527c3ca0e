// dashboardd hosts the dashboard-side session core: it authenticates against
// the user directory, keeps the bearer credential for backend calls, and
// gates the protected routes behind the session state machine.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"

	"github.com/finboard/auth-service/internal/api/metrics"
	"github.com/finboard/auth-service/internal/core/domain"
	"github.com/finboard/auth-service/internal/core/service"
	"github.com/finboard/auth-service/internal/gate"
	"github.com/finboard/auth-service/internal/infrastructure/config"
	mongodb "github.com/finboard/auth-service/internal/infrastructure/db/mongo"
	redisdb "github.com/finboard/auth-service/internal/infrastructure/db/redis"
	"github.com/finboard/auth-service/internal/infrastructure/queue"
	"github.com/finboard/auth-service/internal/transport"
	"github.com/finboard/auth-service/pkg/logger"
)

func main() {
	cfg := config.Load()

	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	mongoClient, db, err := mongodb.Connect(ctx, cfg.Mongo)
	if err != nil {
		log.Fatal().Err(err).Msg("mongodb connection failed")
	}
	defer func() {
		_ = mongoClient.Disconnect(context.Background())
	}()

	rdb, err := redisdb.Connect(ctx, cfg.Redis)
	if err != nil {
		log.Fatal().Err(err).Msg("redis connection failed")
	}
	defer rdb.Close()

	// --- Session core wiring ---
	slots := redisdb.NewSlotStore(rdb)
	writer := queue.NewWriteBehind(log)
	writer.Start(ctx)

	tokens := service.NewTokenHolder(slots, writer, log)
	directory := mongodb.NewUserRepository(db)
	sessions := service.NewSessionStore(directory, slots, tokens, writer, log)

	sessions.Initialize(ctx)
	if sessions.Snapshot().IsAuthenticated {
		metrics.SessionRestoresTotal.WithLabelValues("restored").Inc()
	} else {
		metrics.SessionRestoresTotal.WithLabelValues("empty").Inc()
	}

	authGate := gate.New(sessions, cfg.LoginPath)
	backend := transport.NewClient(cfg.BackendURL, tokens, func() {
		metrics.AuthorizationLostTotal.Inc()
		authGate.AuthorizationLost()
	})

	e := newRouter(cfg, sessions, tokens, backend, authGate)

	go func() {
		log.Info().Str("port", cfg.Port).Msg("dashboardd listening")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("server stopped")
			os.Exit(1)
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}

type loginRequest struct {
	Identifier string `json:"identifier"`
	Password   string `json:"password"`
}

func newRouter(cfg *config.Config, sessions *service.SessionStore, tokens *service.TokenHolder, backend *transport.Client, authGate *gate.Gate) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())

	e.GET(cfg.LoginPath, func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "login required"})
	})

	e.POST(cfg.LoginPath, func(c echo.Context) error {
		var req loginRequest
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid payload"})
		}

		ctx := c.Request().Context()
		res := sessions.Authenticate(ctx, req.Identifier, req.Password)
		if !res.Success {
			return c.JSON(http.StatusUnauthorized, res)
		}

		// Exchange the same credentials for the backend bearer token.
		lr, err := backend.Login(ctx, req.Identifier, req.Password)
		if err != nil {
			return err
		}
		tokens.Set(ctx, lr.AccessToken)

		return c.JSON(http.StatusOK, res)
	})

	e.POST("/logout", func(c echo.Context) error {
		sessions.Logout(c.Request().Context())
		return c.NoContent(http.StatusNoContent)
	})

	protected := e.Group("", authGate.Middleware())

	protected.GET("/dashboard", func(c echo.Context) error {
		if !sessions.CheckPermission(domain.PermDashboardView) {
			return c.JSON(http.StatusForbidden, map[string]string{"error": "forbidden"})
		}
		snap := sessions.Snapshot()
		return c.JSON(http.StatusOK, map[string]any{
			"user":        snap.User,
			"permissions": domain.PermissionsFor(snap.User.Role),
		})
	})

	protected.GET("/me", func(c echo.Context) error {
		me, err := backend.Me(c.Request().Context())
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, me)
	})

	return e
}
