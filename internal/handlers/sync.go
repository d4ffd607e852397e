package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/habitkit/habit-tracker-api/internal/dto"
	apierrors "github.com/habitkit/habit-tracker-api/internal/errors"
	"github.com/habitkit/habit-tracker-api/internal/middleware"
	"github.com/habitkit/habit-tracker-api/internal/services"
)

type SyncHandler struct {
	syncService *services.SyncService
}

func NewSyncHandler(syncService *services.SyncService) *SyncHandler {
	return &SyncHandler{
		syncService: syncService,
	}
}

// Status reports whether the local and remote habit counts match
func (h *SyncHandler) Status(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	report, err := h.syncService.Status(c.Request.Context(), userID)
	if err != nil {
		respondInternalError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToSyncStatusResponse(*report))
}

// Upload pushes local habits to the remote store
func (h *SyncHandler) Upload(c *gin.Context) {
	h.transfer(c, h.syncService.Upload, false)
}

// Download pulls remote habits into the local store
func (h *SyncHandler) Download(c *gin.Context) {
	h.transfer(c, h.syncService.Download, false)
}

// Auto picks the direction from the status check and runs it
func (h *SyncHandler) Auto(c *gin.Context) {
	h.transfer(c, h.syncService.Auto, true)
}

type transferFunc func(ctx context.Context, userID uint64) (*services.TransferResult, error)

func (h *SyncHandler) transfer(c *gin.Context, run transferFunc, auto bool) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	result, err := run(c.Request.Context(), userID)
	if err != nil {
		respondInternalError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToSyncResultResponse(*result, auto))
}
