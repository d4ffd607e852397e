package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	redisStore "github.com/gin-contrib/sessions/redis"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/habitkit/habit-tracker-api/internal/constants"
	apierrors "github.com/habitkit/habit-tracker-api/internal/errors"
	"github.com/habitkit/habit-tracker-api/internal/handlers"
	"github.com/habitkit/habit-tracker-api/internal/logger"
	"github.com/habitkit/habit-tracker-api/internal/middleware"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		a, err := bootstrap(ctx)
		if err != nil {
			return err
		}
		defer a.close()

		if err := a.migrate(); err != nil {
			return err
		}
		if err := a.buildServices(); err != nil {
			return err
		}

		r, err := newRouter(a)
		if err != nil {
			return err
		}

		srv := &http.Server{
			Addr:              net.JoinHostPort("", a.cfg.Port),
			Handler:           r,
			ReadHeaderTimeout: 10 * time.Second,
		}

		errCh := make(chan error, 1)
		go func() {
			logger.Info("Server starting", "port", a.cfg.Port, "environment", a.cfg.Environment,
				"local", a.local != nil, "remote", a.remote != nil)
			errCh <- srv.ListenAndServe()
		}()

		select {
		case err := <-errCh:
			if !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		case <-ctx.Done():
		}

		logger.Info("Shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	},
}

func newRouter(a *app) (*gin.Engine, error) {
	gin.SetMode(a.cfg.GinMode)
	apierrors.SetDiagnostics(a.cfg.Diagnostics())

	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLogger())

	r.Use(cors.New(cors.Config{
		AllowOrigins:     a.cfg.AllowedOrigins(),
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", constants.HeaderRequestID},
		ExposeHeaders:    []string{constants.HeaderRequestID},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	store, err := newSessionStore(a)
	if err != nil {
		return nil, err
	}
	r.Use(sessions.Sessions(constants.SessionCookieName, store))

	handlers.RegisterRoutes(r, handlers.Handlers{
		Auth:   handlers.NewAuthHandler(a.authService),
		Habits: handlers.NewHabitHandler(a.habitService, a.suggestionService),
		Sync:   handlers.NewSyncHandler(a.syncService),
		Health: handlers.NewHealthHandler(handlers.HealthOptions{
			Environment:      a.cfg.Environment,
			Local:            a.local,
			Remote:           a.remote,
			RemoteKind:       a.remoteKind,
			RemoteConfigured: a.cfg.RemoteConfigured(),
			JWTConfigured:    a.jwtConfigured,
			PingTimeout:      a.cfg.DBConnectTimeout,
		}),
		Verifier: a.authService,
	})

	return r, nil
}

// newSessionStore uses Redis when REDIS_HOST is set and signed cookies otherwise.
func newSessionStore(a *app) (sessions.Store, error) {
	var store sessions.Store
	if a.cfg.RedisHost != "" {
		redisAddr := net.JoinHostPort(a.cfg.RedisHost, a.cfg.RedisPort)
		rs, err := redisStore.NewStore(
			10,    // Redis pool size
			"tcp", // network type
			redisAddr,
			"", // password (empty = no password)
			[]byte(a.cfg.SessionSecret),
		)
		if err != nil {
			return nil, err
		}
		store = rs
	} else {
		store = cookie.NewStore([]byte(a.cfg.SessionSecret))
	}

	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 7, // 7 days
		HttpOnly: true,
		Secure:   a.cfg.IsProduction(),
		SameSite: http.SameSiteLaxMode,
	})
	return store, nil
}
