package command

import (
	"errors"
	"time"

	"github.com/sarar-git/ecomops-mobile-app-backend/internal/manifest/domain"
)

// CloseManifestCommand represents the command to close a manifest
type CloseManifestCommand struct {
	TenantID   string
	ManifestID string
}

// CloseManifestHandler handles the OPEN -> CLOSED transition.
// Re-closing is rejected, not silently accepted, so client logic
// errors surface instead of disappearing.
type CloseManifestHandler struct {
	manifests domain.ManifestRepository
}

// NewCloseManifestHandler creates a new close manifest handler
func NewCloseManifestHandler(manifests domain.ManifestRepository) *CloseManifestHandler {
	return &CloseManifestHandler{manifests: manifests}
}

// Handle executes the close manifest command
func (h *CloseManifestHandler) Handle(cmd CloseManifestCommand) (*domain.Manifest, error) {
	if cmd.ManifestID == "" {
		return nil, domain.Validationf("manifest_id is required")
	}

	rows, err := h.manifests.CloseIfOpen(cmd.TenantID, cmd.ManifestID, time.Now().UTC())
	if err != nil {
		return nil, err
	}

	if rows == 0 {
		// The conditional update matched nothing: either the manifest does
		// not exist for this tenant, or it is already CLOSED.
		m, err := h.manifests.FindByID(cmd.TenantID, cmd.ManifestID)
		if err != nil {
			if errors.Is(err, domain.ErrManifestNotFound) {
				return nil, domain.ErrManifestNotFound
			}
			return nil, err
		}
		if m.Status == domain.StatusClosed {
			return nil, domain.ErrManifestAlreadyClosed
		}
		return nil, domain.ErrManifestNotFound
	}

	return h.manifests.FindByID(cmd.TenantID, cmd.ManifestID)
}
