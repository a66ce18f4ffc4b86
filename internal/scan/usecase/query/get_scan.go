package query

import (
	manifestdomain "github.com/sarar-git/ecomops-mobile-app-backend/internal/manifest/domain"
	"github.com/sarar-git/ecomops-mobile-app-backend/internal/scan/domain"
)

// GetScanQuery represents the query to get a single scan event
type GetScanQuery struct {
	TenantID    string
	ScanEventID string
}

// GetScanHandler handles get scan event query
type GetScanHandler struct {
	scans domain.ScanRepository
}

// NewGetScanHandler creates a new get scan handler
func NewGetScanHandler(scans domain.ScanRepository) *GetScanHandler {
	return &GetScanHandler{scans: scans}
}

// Handle executes the get scan query
func (h *GetScanHandler) Handle(q GetScanQuery) (*domain.ScanEvent, error) {
	if q.ScanEventID == "" {
		return nil, manifestdomain.Validationf("scan_event_id is required")
	}
	return h.scans.FindByID(q.TenantID, q.ScanEventID)
}
