package query

import (
	manifestdomain "github.com/sarar-git/ecomops-mobile-app-backend/internal/manifest/domain"
	"github.com/sarar-git/ecomops-mobile-app-backend/internal/scan/domain"
)

// ListScansQuery represents the query to list scans of a manifest
type ListScansQuery struct {
	TenantID   string
	ManifestID string
	Limit      int
	Offset     int
}

// ListScansResult carries one page of scan events
type ListScansResult struct {
	Events []domain.ScanEvent
	Total  int64
}

// ListScansHandler handles the list scans query. The manifest is
// re-read under the caller's tenant first, so a foreign manifest id
// yields the same not-found as a nonexistent one.
type ListScansHandler struct {
	scans     domain.ScanRepository
	manifests manifestdomain.ManifestRepository
}

// NewListScansHandler creates a new list scans handler
func NewListScansHandler(scans domain.ScanRepository, manifests manifestdomain.ManifestRepository) *ListScansHandler {
	return &ListScansHandler{scans: scans, manifests: manifests}
}

// Handle executes the list scans query
func (h *ListScansHandler) Handle(q ListScansQuery) (*ListScansResult, error) {
	if q.ManifestID == "" {
		return nil, manifestdomain.Validationf("manifest_id is required")
	}
	if q.Limit <= 0 {
		q.Limit = 100
	}
	if q.Limit > 500 {
		q.Limit = 500
	}

	if _, err := h.manifests.FindByID(q.TenantID, q.ManifestID); err != nil {
		return nil, err
	}

	events, total, err := h.scans.ListByManifest(q.TenantID, q.ManifestID, q.Limit, q.Offset)
	if err != nil {
		return nil, err
	}
	return &ListScansResult{Events: events, Total: total}, nil
}

// ListScansForExport returns every event of a manifest in scan order,
// for the CSV export collaborator.
func (h *ListScansHandler) ListScansForExport(tenantID, manifestID string) (*manifestdomain.Manifest, []domain.ScanEvent, error) {
	manifest, err := h.manifests.FindByID(tenantID, manifestID)
	if err != nil {
		return nil, nil, err
	}
	events, err := h.scans.ListForExport(tenantID, manifestID)
	if err != nil {
		return nil, nil, err
	}
	return manifest, events, nil
}
