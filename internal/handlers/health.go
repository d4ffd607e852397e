package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/habitkit/habit-tracker-api/internal/constants"
	"github.com/habitkit/habit-tracker-api/internal/database"
	"github.com/habitkit/habit-tracker-api/internal/logger"
	"golang.org/x/sync/errgroup"
)

// Store states reported by the health endpoint
const (
	storeAvailable     = "available"
	storeUnavailable   = "unavailable"
	storeDisabled      = "disabled"
	storeNotConfigured = "not configured"
)

// HealthOptions describes what the health endpoint reports.
type HealthOptions struct {
	Environment string
	// Local and Remote may be nil.
	Local  *database.Store
	Remote *database.Store
	// RemoteKind labels the remote store even when it could not be opened.
	RemoteKind       string
	RemoteConfigured bool
	JWTConfigured    bool
	PingTimeout      time.Duration
}

type HealthHandler struct {
	opts HealthOptions
}

func NewHealthHandler(opts HealthOptions) *HealthHandler {
	if opts.PingTimeout <= 0 {
		opts.PingTimeout = 2 * time.Second
	}
	return &HealthHandler{opts: opts}
}

// Health reports liveness and the state of each configured store. It always
// answers 200; a store that fails its ping marks the status as degraded.
func (h *HealthHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), h.opts.PingTimeout)
	defer cancel()

	localState, remoteState := storeDisabled, storeNotConfigured
	if h.opts.RemoteConfigured {
		remoteState = storeUnavailable
	}

	// Pings run concurrently; failures are recorded, not returned.
	g, gctx := errgroup.WithContext(ctx)
	if h.opts.Local != nil {
		g.Go(func() error {
			localState = probe(gctx, h.opts.Local)
			return nil
		})
	}
	if h.opts.Remote != nil {
		g.Go(func() error {
			remoteState = probe(gctx, h.opts.Remote)
			return nil
		})
	}
	_ = g.Wait()

	status := "OK"
	if (h.opts.Local != nil && localState != storeAvailable) ||
		(h.opts.RemoteConfigured && remoteState != storeAvailable) {
		status = "DEGRADED"
	}

	jwtState := "configured"
	if !h.opts.JWTConfigured {
		jwtState = "generated"
	}

	c.JSON(http.StatusOK, gin.H{
		"status":      status,
		"timestamp":   time.Now().UTC(),
		"environment": h.opts.Environment,
		"database": gin.H{
			database.KindSQLite: localState,
			h.opts.RemoteKind:   remoteState,
		},
		"version":    constants.Version,
		"jwt_secret": jwtState,
	})
}

// Root returns the service banner with the endpoint map
func (h *HealthHandler) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message":     "Habit Tracker API",
		"version":     constants.Version,
		"environment": h.opts.Environment,
		"endpoints": gin.H{
			"health": "/api/health",
			"auth":   "/api/auth",
			"habits": "/api/habits",
			"sync":   "/api/sync",
		},
	})
}

func probe(ctx context.Context, store *database.Store) string {
	if err := store.Ping(ctx); err != nil {
		logger.Warn("Store ping failed", "kind", store.Kind, "error", err)
		return storeUnavailable
	}
	return storeAvailable
}
