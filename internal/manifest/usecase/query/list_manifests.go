package query

import (
	"github.com/sarar-git/ecomops-mobile-app-backend/internal/manifest/domain"
)

// ListManifestsQuery represents the query to list manifests with filters
type ListManifestsQuery struct {
	TenantID string
	Filter   domain.ManifestFilter
}

// ListManifestsResult carries one page of manifests
type ListManifestsResult struct {
	Manifests []domain.Manifest
	Total     int64
}

// ListManifestsHandler handles list manifests query
type ListManifestsHandler struct {
	manifests domain.ManifestRepository
}

// NewListManifestsHandler creates a new list manifests handler
func NewListManifestsHandler(manifests domain.ManifestRepository) *ListManifestsHandler {
	return &ListManifestsHandler{manifests: manifests}
}

// Handle executes the list manifests query
func (h *ListManifestsHandler) Handle(q ListManifestsQuery) (*ListManifestsResult, error) {
	if q.Filter.Limit <= 0 {
		q.Filter.Limit = 20
	}
	if q.Filter.Limit > 100 {
		q.Filter.Limit = 100
	}

	manifests, total, err := h.manifests.List(q.TenantID, q.Filter)
	if err != nil {
		return nil, err
	}
	return &ListManifestsResult{Manifests: manifests, Total: total}, nil
}
