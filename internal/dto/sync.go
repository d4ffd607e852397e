package dto

import (
	"time"

	"github.com/habitkit/habit-tracker-api/internal/services"
)

// SyncStatusResponse is the body of GET /api/sync/status. Counts are omitted
// when there is no local store.
type SyncStatusResponse struct {
	Status         services.SyncStatus `json:"status"`
	LastSync       time.Time           `json:"lastSync"`
	LocalCount     *int64              `json:"localCount,omitempty"`
	CloudCount     *int64              `json:"cloudCount,omitempty"`
	CloudAvailable *bool               `json:"cloudAvailable,omitempty"`
	Database       string              `json:"database"`
	Environment    string              `json:"environment"`
}

// SyncResultResponse is the body of the upload, download and auto endpoints.
type SyncResultResponse struct {
	Message    string                 `json:"message"`
	Uploaded   *int                   `json:"uploaded,omitempty"`
	Downloaded *int                   `json:"downloaded,omitempty"`
	Direction  services.SyncDirection `json:"direction,omitempty"`
	// Skipped counts habits whose id is taken by another user in the target store.
	Skipped int `json:"skipped,omitempty"`
}

// ToSyncStatusResponse converts a sync report to its response shape
func ToSyncStatusResponse(report services.SyncReport) SyncStatusResponse {
	resp := SyncStatusResponse{
		Status:      report.Status,
		LastSync:    report.LastSync.UTC(),
		Database:    report.Database,
		Environment: report.Environment,
	}
	if report.Counted {
		local, cloud, available := report.LocalCount, report.RemoteCount, report.RemoteAvailable
		resp.LocalCount = &local
		resp.CloudCount = &cloud
		resp.CloudAvailable = &available
	}
	return resp
}

// ToSyncResultResponse converts a transfer result to its response shape.
// Direction is only echoed for auto runs.
func ToSyncResultResponse(result services.TransferResult, auto bool) SyncResultResponse {
	switch {
	case result.NotRequired:
		return SyncResultResponse{Message: "Sync is not required in production"}
	case result.AlreadySynced:
		return SyncResultResponse{Message: "Data is already synced"}
	}

	n := result.Transferred
	resp := SyncResultResponse{Skipped: result.Skipped}
	if result.Direction == services.DirectionUpload {
		resp.Message = "Data uploaded to the cloud"
		resp.Uploaded = &n
	} else {
		resp.Message = "Data downloaded from the cloud"
		resp.Downloaded = &n
	}
	if auto {
		resp.Direction = result.Direction
	}
	return resp
}
