package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/habitkit/habit-tracker-api/internal/config"
	"github.com/habitkit/habit-tracker-api/internal/database"
	"github.com/habitkit/habit-tracker-api/internal/logger"
	"github.com/habitkit/habit-tracker-api/internal/repository"
	"github.com/habitkit/habit-tracker-api/internal/services"
	"github.com/habitkit/habit-tracker-api/internal/utils"
)

// app holds the opened stores and the services built on them.
type app struct {
	cfg           *config.Config
	local         *database.Store
	remote        *database.Store
	remoteKind    string
	jwtConfigured bool

	authService       *services.AuthService
	habitService      *services.HabitService
	syncService       *services.SyncService
	suggestionService *services.SuggestionService
}

// bootstrap loads configuration, initializes logging and opens the stores.
// In development a remote store that cannot be reached only disables sync.
func bootstrap(ctx context.Context) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	if err := logger.Init(logger.Config{
		Level:   cfg.LogLevel,
		Debug:   cfg.Debug,
		LogFile: cfg.LogFile,
	}); err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	a := &app{cfg: cfg, remoteKind: database.KindPostgreSQL}
	if cfg.RemoteDriver == config.DriverMySQL {
		a.remoteKind = database.KindMySQL
	}

	if cfg.LocalEnabled() {
		a.local, err = database.OpenLocal(cfg.LocalDBPath, cfg.Debug)
		if err != nil {
			return nil, err
		}
	}

	if cfg.RemoteConfigured() {
		a.remote, err = database.OpenRemote(ctx, cfg)
		if err != nil {
			if cfg.IsProduction() {
				a.close()
				return nil, err
			}
			logger.Warn("Remote database unavailable, sync disabled", "error", err)
			a.remote = nil
		}
	}

	if a.local == nil && a.remote == nil {
		return nil, errors.New("no database available: set LOCAL_DB_PATH or configure a remote store")
	}

	return a, nil
}

// migrate applies the schema to every opened store.
func (a *app) migrate() error {
	for _, store := range a.stores() {
		if err := database.Migrate(store.DB); err != nil {
			return fmt.Errorf("%s: %w", store.Kind, err)
		}
	}
	return nil
}

// buildServices wires repositories and services. CRUD goes to the local
// store when there is one and to the remote store otherwise.
func (a *app) buildServices() error {
	primary := a.local
	if primary == nil {
		primary = a.remote
	}

	secret := a.cfg.JWTSecret
	a.jwtConfigured = secret != ""
	if secret == "" {
		generated, err := utils.GenerateSecret(32)
		if err != nil {
			return err
		}
		secret = generated
		logger.Warn("JWT_SECRET is not set, using a per-process secret; tokens will not survive a restart")
	}

	userRepo := repository.NewUserRepository(primary.DB)
	primaryHabits := repository.NewHabitRepository(primary.DB)

	var localHabits, remoteHabits repository.HabitRepository
	if a.local != nil {
		localHabits = primaryHabits
	}
	if a.remote != nil {
		remoteHabits = repository.NewHabitRepository(a.remote.DB)
	}

	a.authService = services.NewAuthService(
		userRepo,
		services.NewBcryptHasher(a.cfg.BcryptCost),
		services.NewJWTIssuer(secret, a.cfg.TokenTTL),
	)
	a.habitService = services.NewHabitService(primaryHabits)
	a.syncService = services.NewSyncService(localHabits, remoteHabits, services.SyncOptions{
		Environment:  a.cfg.Environment,
		RemoteKind:   a.remoteKind,
		StoreTimeout: a.cfg.StoreTimeout,
	})
	a.suggestionService = services.NewSuggestionService(a.cfg.OpenAIAPIKey, "")
	return nil
}

func (a *app) stores() []*database.Store {
	var stores []*database.Store
	if a.local != nil {
		stores = append(stores, a.local)
	}
	if a.remote != nil {
		stores = append(stores, a.remote)
	}
	return stores
}

func (a *app) close() {
	for _, store := range a.stores() {
		if err := store.Close(); err != nil {
			logger.Warn("Failed to close database", "kind", store.Kind, "error", err)
		}
	}
}
