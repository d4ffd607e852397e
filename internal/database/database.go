package database

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/habitkit/habit-tracker-api/internal/config"
	applog "github.com/habitkit/habit-tracker-api/internal/logger"
	"github.com/habitkit/habit-tracker-api/internal/models"
)

// Store kinds, also used as the "database" label in sync and health responses.
const (
	KindSQLite     = "sqlite"
	KindPostgreSQL = "postgresql"
	KindMySQL      = "mysql"
)

// Store is an opened backend. Core logic receives Stores at construction and
// never inspects the environment to pick one.
type Store struct {
	Kind string
	DB   *gorm.DB
}

// PoolOptions bounds the connection pool shared by all requests of the process.
type PoolOptions struct {
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxIdleTime time.Duration
}

// OpenLocal opens the SQLite store at path, creating its directory.
func OpenLocal(path string, debug bool) (*Store, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	// foreign_keys is enabled for parity with the remote engines; cascades are
	// still performed explicitly by the repository.
	dsn := fmt.Sprintf("file:%s?_foreign_keys=on&_busy_timeout=5000&_journal_mode=WAL", path)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         newGormLogger(debug),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open local database: %w", err)
	}

	// SQLite serialises writers; a single connection avoids SQLITE_BUSY churn.
	if err := configurePool(db, PoolOptions{MaxOpenConns: 1, MaxIdleConns: 1}); err != nil {
		return nil, err
	}

	applog.Info("Local database opened", "path", path)
	return &Store{Kind: KindSQLite, DB: db}, nil
}

// OpenRemote opens the remote store described by cfg and verifies it answers
// within the configured connect timeout.
func OpenRemote(ctx context.Context, cfg *config.Config) (*Store, error) {
	var (
		dialector gorm.Dialector
		kind      string
	)
	switch cfg.RemoteDriver {
	case config.DriverMySQL:
		dialector = mysql.Open(cfg.RemoteDSN())
		kind = KindMySQL
	default:
		dialector = postgres.Open(cfg.RemoteDSN())
		kind = KindPostgreSQL
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:               newGormLogger(cfg.Debug),
		DisableAutomaticPing: true,
		TranslateError:       true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to remote database: %w", err)
	}

	if err := configurePool(db, PoolOptions{
		MaxOpenConns:    cfg.DBMaxOpenConns,
		MaxIdleConns:    cfg.DBMaxIdleConns,
		ConnMaxIdleTime: cfg.DBConnMaxIdleTime,
	}); err != nil {
		return nil, err
	}

	store := &Store{Kind: kind, DB: db}
	pingCtx, cancel := context.WithTimeout(ctx, cfg.DBConnectTimeout)
	defer cancel()
	if err := store.Ping(pingCtx); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to connect to remote database: %w", err)
	}

	applog.Info("Remote database connection established", "kind", kind)
	return store, nil
}

// Ping checks the store is reachable.
func (s *Store) Ping(ctx context.Context) error {
	sqlDB, err := s.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// Close releases the underlying pool.
func (s *Store) Close() error {
	sqlDB, err := s.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Migrate creates or updates the five relations and their indexes.
func Migrate(db *gorm.DB) error {
	applog.Info("Running database migrations...")
	err := db.AutoMigrate(
		&models.User{},
		&models.Habit{},
		&models.CompletionEntry{},
		&models.ValueEntry{},
		&models.MoodEntry{},
	)
	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	if err := AddIndexes(db); err != nil {
		return fmt.Errorf("failed to add indexes: %w", err)
	}
	applog.Info("Database migrations completed")
	return nil
}

func configurePool(db *gorm.DB, opts PoolOptions) error {
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to access connection pool: %w", err)
	}
	if opts.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(opts.MaxOpenConns)
	}
	if opts.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(opts.MaxIdleConns)
	}
	if opts.ConnMaxIdleTime > 0 {
		sqlDB.SetConnMaxIdleTime(opts.ConnMaxIdleTime)
	}
	return nil
}

func newGormLogger(debug bool) logger.Interface {
	level := logger.Warn
	if debug {
		level = logger.Info
	}
	return logger.New(applog.Standard(log.DebugLevel), logger.Config{
		SlowThreshold:             500 * time.Millisecond,
		LogLevel:                  level,
		IgnoreRecordNotFoundError: true,
	})
}
