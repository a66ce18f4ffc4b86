package command

import (
	"github.com/google/uuid"

	"github.com/sarar-git/ecomops-mobile-app-backend/internal/batch/domain"
	manifestdomain "github.com/sarar-git/ecomops-mobile-app-backend/internal/manifest/domain"
)

// CreateBatchCommand allocates a tracking record before ingestion begins
type CreateBatchCommand struct {
	TenantID   string
	BatchName  *string
	ScanType   manifestdomain.FlowType
	TotalScans int
}

// CreateBatchHandler handles batch record creation
type CreateBatchHandler struct {
	batches domain.BatchRepository
}

// NewCreateBatchHandler creates a new create batch handler
func NewCreateBatchHandler(batches domain.BatchRepository) *CreateBatchHandler {
	return &CreateBatchHandler{batches: batches}
}

// Handle executes the create batch command
func (h *CreateBatchHandler) Handle(cmd CreateBatchCommand) (*domain.BatchSubmission, error) {
	if !cmd.ScanType.Valid() {
		return nil, manifestdomain.Validationf("invalid scan_type %q", cmd.ScanType)
	}
	if cmd.TotalScans <= 0 {
		return nil, manifestdomain.Validationf("total_scans must be positive")
	}

	b := &domain.BatchSubmission{
		ID:         uuid.New().String(),
		TenantID:   cmd.TenantID,
		BatchName:  cmd.BatchName,
		ScanType:   cmd.ScanType,
		TotalScans: cmd.TotalScans,
		Status:     domain.StatusProcessing,
	}

	if err := h.batches.Create(b); err != nil {
		return nil, err
	}
	return b, nil
}
