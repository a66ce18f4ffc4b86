package query

import (
	"github.com/sarar-git/ecomops-mobile-app-backend/internal/manifest/domain"
)

// GetManifestQuery represents the query to get a manifest
type GetManifestQuery struct {
	TenantID   string
	ManifestID string
}

// GetManifestHandler handles get manifest query
type GetManifestHandler struct {
	manifests domain.ManifestRepository
}

// NewGetManifestHandler creates a new get manifest handler
func NewGetManifestHandler(manifests domain.ManifestRepository) *GetManifestHandler {
	return &GetManifestHandler{manifests: manifests}
}

// Handle executes the get manifest query
func (h *GetManifestHandler) Handle(q GetManifestQuery) (*domain.Manifest, error) {
	if q.ManifestID == "" {
		return nil, domain.Validationf("manifest_id is required")
	}
	return h.manifests.FindByID(q.TenantID, q.ManifestID)
}
