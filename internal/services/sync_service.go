package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/habitkit/habit-tracker-api/internal/logger"
	"github.com/habitkit/habit-tracker-api/internal/models"
	"github.com/habitkit/habit-tracker-api/internal/repository"
)

var ErrRemoteNotConfigured = fmt.Errorf("%w: remote store is not configured", ErrBackendUnavailable)

type SyncStatus string

const (
	StatusSynced    SyncStatus = "synced"
	StatusOutOfSync SyncStatus = "out_of_sync"
)

type SyncDirection string

const (
	DirectionUpload   SyncDirection = "upload"
	DirectionDownload SyncDirection = "download"
)

// DatabaseHybrid labels deployments that reconcile a local and a remote store.
const DatabaseHybrid = "hybrid"

// SyncOptions configures a SyncService.
type SyncOptions struct {
	// Environment is echoed in status reports.
	Environment string
	// RemoteKind labels the remote store in status reports when no local store exists.
	RemoteKind string
	// StoreTimeout bounds every individual store call. Zero disables it.
	StoreTimeout time.Duration
	// Now defaults to time.Now.
	Now func() time.Time
}

// SyncReport is the outcome of a status check.
type SyncReport struct {
	Status      SyncStatus
	LastSync    time.Time
	Database    string
	Environment string
	// Counts are only computed when a local store is present.
	Counted         bool
	LocalCount      int64
	RemoteCount     int64
	RemoteAvailable bool
}

// TransferResult is the outcome of an upload, download or auto run.
type TransferResult struct {
	Direction   SyncDirection
	Transferred int
	// Skipped counts habits whose id is held by another user's habit in the
	// target store. They are left out of Transferred.
	Skipped int
	// NotRequired is set when there is no local store to reconcile.
	NotRequired bool
	// AlreadySynced is set by Auto when the status check found equal counts.
	AlreadySynced bool
}

// SyncService reconciles a user's habits between the local and remote stores.
// Either store may be nil: without a local store every report is trivially
// synced and transfers are no-ops.
//
// Equality is judged by row count only, and concurrent runs for the same user
// are not serialised.
type SyncService struct {
	local  repository.HabitRepository
	remote repository.HabitRepository
	opts   SyncOptions

	mu       sync.Mutex
	lastSync map[uint64]time.Time
}

// NewSyncService creates a new SyncService
func NewSyncService(local, remote repository.HabitRepository, opts SyncOptions) *SyncService {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &SyncService{
		local:    local,
		remote:   remote,
		opts:     opts,
		lastSync: make(map[uint64]time.Time),
	}
}

// Status compares the user's habit counts in both stores. An unreachable
// remote counts as zero and is reported as unavailable.
func (s *SyncService) Status(ctx context.Context, userID uint64) (*SyncReport, error) {
	report := &SyncReport{
		Status:      StatusSynced,
		LastSync:    s.lastSyncFor(userID),
		Environment: s.opts.Environment,
	}

	if s.local == nil {
		report.Database = s.opts.RemoteKind
		return report, nil
	}

	report.Database = DatabaseHybrid
	report.Counted = true

	localCount, err := s.count(ctx, s.local, userID)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to count local habits: %v", ErrBackendUnavailable, err)
	}
	report.LocalCount = localCount

	if s.remote != nil {
		remoteCount, err := s.count(ctx, s.remote, userID)
		if err != nil {
			logger.Warn("Remote store unavailable during sync status", "user_id", userID, "error", err)
		} else {
			report.RemoteCount = remoteCount
			report.RemoteAvailable = true
		}
	}

	if report.LocalCount != report.RemoteCount {
		report.Status = StatusOutOfSync
	}
	return report, nil
}

// Upload pushes every local habit of the user into the remote store.
func (s *SyncService) Upload(ctx context.Context, userID uint64) (*TransferResult, error) {
	if s.local == nil {
		return &TransferResult{Direction: DirectionUpload, NotRequired: true}, nil
	}
	if s.remote == nil {
		return nil, ErrRemoteNotConfigured
	}
	return s.transfer(ctx, userID, DirectionUpload, s.local, s.remote)
}

// Download pulls every remote habit of the user into the local store.
func (s *SyncService) Download(ctx context.Context, userID uint64) (*TransferResult, error) {
	if s.local == nil {
		return &TransferResult{Direction: DirectionDownload, NotRequired: true}, nil
	}
	if s.remote == nil {
		return nil, ErrRemoteNotConfigured
	}
	return s.transfer(ctx, userID, DirectionDownload, s.remote, s.local)
}

// Auto checks the status and, when out of sync, uploads if the local store
// holds more habits and downloads otherwise.
func (s *SyncService) Auto(ctx context.Context, userID uint64) (*TransferResult, error) {
	if s.local == nil {
		return &TransferResult{NotRequired: true}, nil
	}

	report, err := s.Status(ctx, userID)
	if err != nil {
		return nil, err
	}
	if report.Status == StatusSynced {
		return &TransferResult{AlreadySynced: true}, nil
	}

	if report.LocalCount > report.RemoteCount {
		return s.Upload(ctx, userID)
	}
	return s.Download(ctx, userID)
}

// transfer copies rows one at a time. Rows written before a failure stay written.
func (s *SyncService) transfer(ctx context.Context, userID uint64, direction SyncDirection, from, to repository.HabitRepository) (*TransferResult, error) {
	habits, err := s.list(ctx, from, userID)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read habits for %s: %v", ErrBackendUnavailable, direction, err)
	}

	result := &TransferResult{Direction: direction}
	for _, habit := range habits {
		err := s.upsert(ctx, to, habit)
		if errors.Is(err, repository.ErrHabitIDCollision) {
			logger.Warn("Sync skipped habit with a foreign id",
				"user_id", userID, "direction", direction, "habit_id", habit.ID)
			result.Skipped++
			continue
		}
		if err != nil {
			logger.Error("Sync transfer failed",
				"user_id", userID, "direction", direction, "habit_id", habit.ID, "written", result.Transferred, "error", err)
			return nil, fmt.Errorf("%w: failed to write habit %d during %s: %v", ErrBackendUnavailable, habit.ID, direction, err)
		}
		result.Transferred++
	}

	if result.Transferred > 0 {
		if err := s.alignIDs(ctx, to); err != nil {
			logger.Error("Sync failed to advance habit id sequence", "user_id", userID, "direction", direction, "error", err)
			return nil, fmt.Errorf("%w: failed to advance habit ids after %s: %v", ErrBackendUnavailable, direction, err)
		}
	}

	s.mu.Lock()
	s.lastSync[userID] = s.opts.Now()
	s.mu.Unlock()

	logger.Info("Sync transfer completed", "user_id", userID, "direction", direction,
		"rows", result.Transferred, "skipped", result.Skipped)
	return result, nil
}

func (s *SyncService) lastSyncFor(userID uint64) time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	if t, ok := s.lastSync[userID]; ok {
		return t
	}
	return s.opts.Now()
}

func (s *SyncService) count(ctx context.Context, repo repository.HabitRepository, userID uint64) (int64, error) {
	callCtx, cancel := s.callContext(ctx)
	defer cancel()
	return repo.Count(callCtx, userID)
}

func (s *SyncService) list(ctx context.Context, repo repository.HabitRepository, userID uint64) ([]models.Habit, error) {
	callCtx, cancel := s.callContext(ctx)
	defer cancel()
	return repo.List(callCtx, userID)
}

func (s *SyncService) upsert(ctx context.Context, repo repository.HabitRepository, habit models.Habit) error {
	callCtx, cancel := s.callContext(ctx)
	defer cancel()
	n, err := repo.UpsertByID(callCtx, []models.Habit{habit})
	if err != nil {
		return err
	}
	if n != 1 {
		return errors.New("habit was not written")
	}
	return nil
}

func (s *SyncService) alignIDs(ctx context.Context, repo repository.HabitRepository) error {
	callCtx, cancel := s.callContext(ctx)
	defer cancel()
	return repo.AlignIDSequence(callCtx)
}

func (s *SyncService) callContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.opts.StoreTimeout > 0 {
		return context.WithTimeout(ctx, s.opts.StoreTimeout)
	}
	return context.WithCancel(ctx)
}
