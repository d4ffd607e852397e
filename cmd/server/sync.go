package main

import (
	"context"
	"encoding/json"
	"errors"
	"os"

	"github.com/spf13/cobra"

	"github.com/habitkit/habit-tracker-api/internal/dto"
	"github.com/habitkit/habit-tracker-api/internal/services"
)

var syncUserID uint64

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Reconcile a user's habits between the local and remote stores",
	Long: `Run the same reconciliation as the /api/sync endpoints for one user and
print the result as JSON.`,
}

var syncStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Compare local and remote habit counts",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSyncService(cmd, func(ctx context.Context, svc *services.SyncService) (interface{}, error) {
			report, err := svc.Status(ctx, syncUserID)
			if err != nil {
				return nil, err
			}
			return dto.ToSyncStatusResponse(*report), nil
		})
	},
}

var syncUploadCmd = &cobra.Command{
	Use:   "upload",
	Short: "Push local habits to the remote store",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTransfer(cmd, (*services.SyncService).Upload, false)
	},
}

var syncDownloadCmd = &cobra.Command{
	Use:   "download",
	Short: "Pull remote habits into the local store",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTransfer(cmd, (*services.SyncService).Download, false)
	},
}

var syncAutoCmd = &cobra.Command{
	Use:   "auto",
	Short: "Upload or download depending on which store holds more habits",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTransfer(cmd, (*services.SyncService).Auto, true)
	},
}

func init() {
	syncCmd.PersistentFlags().Uint64Var(&syncUserID, "user", 0, "ID of the user to reconcile")
	_ = syncCmd.MarkPersistentFlagRequired("user")
	syncCmd.AddCommand(syncStatusCmd, syncUploadCmd, syncDownloadCmd, syncAutoCmd)
}

type transferMethod func(*services.SyncService, context.Context, uint64) (*services.TransferResult, error)

func runTransfer(cmd *cobra.Command, method transferMethod, auto bool) error {
	return withSyncService(cmd, func(ctx context.Context, svc *services.SyncService) (interface{}, error) {
		result, err := method(svc, ctx, syncUserID)
		if err != nil {
			return nil, err
		}
		return dto.ToSyncResultResponse(*result, auto), nil
	})
}

func withSyncService(cmd *cobra.Command, run func(context.Context, *services.SyncService) (interface{}, error)) error {
	if syncUserID == 0 {
		return errors.New("--user is required")
	}

	a, err := bootstrap(cmd.Context())
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

	out, err := run(cmd.Context(), a.syncService)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
