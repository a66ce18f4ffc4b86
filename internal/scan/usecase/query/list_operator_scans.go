package query

import (
	manifestdomain "github.com/sarar-git/ecomops-mobile-app-backend/internal/manifest/domain"
	"github.com/sarar-git/ecomops-mobile-app-backend/internal/scan/domain"
)

// ListOperatorScansQuery lists an operator's scans across all manifests
type ListOperatorScansQuery struct {
	TenantID   string
	OperatorID string
	Limit      int
	Offset     int
}

// ListOperatorScansHandler handles the operator scan history query
type ListOperatorScansHandler struct {
	scans domain.ScanRepository
}

// NewListOperatorScansHandler creates a new operator scans handler
func NewListOperatorScansHandler(scans domain.ScanRepository) *ListOperatorScansHandler {
	return &ListOperatorScansHandler{scans: scans}
}

// Handle executes the operator scans query
func (h *ListOperatorScansHandler) Handle(q ListOperatorScansQuery) (*ListScansResult, error) {
	if q.OperatorID == "" {
		return nil, manifestdomain.Validationf("operator_id is required")
	}
	if q.Limit <= 0 {
		q.Limit = 50
	}
	if q.Limit > 100 {
		q.Limit = 100
	}

	events, total, err := h.scans.ListByOperator(q.TenantID, q.OperatorID, q.Limit, q.Offset)
	if err != nil {
		return nil, err
	}
	return &ListScansResult{Events: events, Total: total}, nil
}
