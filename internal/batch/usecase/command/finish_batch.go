package command

import (
	"github.com/sarar-git/ecomops-mobile-app-backend/internal/batch/domain"
	manifestdomain "github.com/sarar-git/ecomops-mobile-app-backend/internal/manifest/domain"
)

// FinishBatchCommand records a batch's terminal status once ingestion
// has finished (or failed before any item could be attempted).
type FinishBatchCommand struct {
	TenantID       string
	BatchID        string
	ManifestID     string
	ProcessedScans int
	MatchedOrders  int
	Status         domain.BatchStatus
}

// FinishBatchHandler handles batch completion
type FinishBatchHandler struct {
	batches domain.BatchRepository
}

// NewFinishBatchHandler creates a new finish batch handler
func NewFinishBatchHandler(batches domain.BatchRepository) *FinishBatchHandler {
	return &FinishBatchHandler{batches: batches}
}

// Handle executes the finish batch command
func (h *FinishBatchHandler) Handle(cmd FinishBatchCommand) error {
	if cmd.BatchID == "" {
		return manifestdomain.Validationf("batch_id is required")
	}
	if cmd.Status != domain.StatusCompleted && cmd.Status != domain.StatusFailed {
		return manifestdomain.Validationf("status must be terminal, got %q", cmd.Status)
	}
	return h.batches.Finish(cmd.TenantID, cmd.BatchID, cmd.ManifestID, cmd.ProcessedScans, cmd.MatchedOrders, cmd.Status)
}
