package query

import (
	"github.com/sarar-git/ecomops-mobile-app-backend/internal/batch/domain"
	manifestdomain "github.com/sarar-git/ecomops-mobile-app-backend/internal/manifest/domain"
)

// GetBatchStatusQuery represents a polling request for batch status
type GetBatchStatusQuery struct {
	TenantID string
	BatchID  string
}

// GetBatchStatusHandler handles batch status polling
type GetBatchStatusHandler struct {
	batches domain.BatchRepository
}

// NewGetBatchStatusHandler creates a new get batch status handler
func NewGetBatchStatusHandler(batches domain.BatchRepository) *GetBatchStatusHandler {
	return &GetBatchStatusHandler{batches: batches}
}

// Handle executes the batch status query
func (h *GetBatchStatusHandler) Handle(q GetBatchStatusQuery) (*domain.BatchSubmission, error) {
	if q.BatchID == "" {
		return nil, manifestdomain.Validationf("batch_id is required")
	}
	return h.batches.FindByID(q.TenantID, q.BatchID)
}
