package command

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/sarar-git/ecomops-mobile-app-backend/internal/manifest/domain"
	whdomain "github.com/sarar-git/ecomops-mobile-app-backend/internal/warehouse/domain"
)

// ResolveManifestCommand carries the routing attributes used by
// auto-mode ingestion to find or create the target manifest.
type ResolveManifestCommand struct {
	TenantID             string
	WarehouseID          string
	FlowType             domain.FlowType
	ManifestDate         time.Time
	Defaults             domain.ManifestDefaults
	CreatedBy            string
	AuthorizedWarehouses []string
}

// ResolveManifestHandler finds the OPEN manifest for a routing tuple or
// creates one. Under contention, N concurrent callers with the same
// tuple converge on exactly one OPEN manifest: losers of the creation
// race re-read and return the winner's row.
type ResolveManifestHandler struct {
	manifests  domain.ManifestRepository
	warehouses whdomain.WarehouseRepository
}

// NewResolveManifestHandler creates a new resolve manifest handler
func NewResolveManifestHandler(manifests domain.ManifestRepository, warehouses whdomain.WarehouseRepository) *ResolveManifestHandler {
	return &ResolveManifestHandler{manifests: manifests, warehouses: warehouses}
}

// Handle executes manifest resolution
func (h *ResolveManifestHandler) Handle(cmd ResolveManifestCommand) (*domain.Manifest, error) {
	if cmd.WarehouseID == "" {
		return nil, domain.Validationf("operator must be assigned to a warehouse to perform scans")
	}
	if !cmd.FlowType.Valid() {
		return nil, domain.Validationf("invalid flow_type %q", cmd.FlowType)
	}
	if err := cmd.Defaults.Validate(); err != nil {
		return nil, err
	}
	if cmd.ManifestDate.IsZero() {
		cmd.ManifestDate = time.Now().UTC()
	}

	if _, err := h.warehouses.FindByID(cmd.TenantID, cmd.WarehouseID); err != nil {
		return nil, err
	}
	if !authorizedFor(cmd.AuthorizedWarehouses, cmd.WarehouseID) {
		return nil, domain.ErrWarehouseNotAuthorized
	}

	key := domain.RoutingKey{
		TenantID:     cmd.TenantID,
		WarehouseID:  cmd.WarehouseID,
		ManifestDate: cmd.ManifestDate,
		Shift:        cmd.Defaults.Shift,
		Marketplace:  cmd.Defaults.Marketplace,
		Carrier:      cmd.Defaults.Carrier,
		FlowType:     cmd.FlowType,
	}

	// Two rounds cover the race: lose the create, find the winner. A
	// second create attempt handles a winner that closed in between.
	for attempt := 0; attempt < 2; attempt++ {
		existing, err := h.manifests.FindOpenByRoutingKey(key)
		if err == nil {
			return existing, nil
		}
		if !errors.Is(err, domain.ErrManifestNotFound) {
			return nil, err
		}

		manifest := &domain.Manifest{
			ID:           uuid.New().String(),
			TenantID:     key.TenantID,
			WarehouseID:  key.WarehouseID,
			ManifestDate: key.ManifestDate,
			Shift:        key.Shift,
			Marketplace:  key.Marketplace,
			Carrier:      key.Carrier,
			FlowType:     key.FlowType,
			Status:       domain.StatusOpen,
			CreatedBy:    cmd.CreatedBy,
		}

		err = h.manifests.CreateOpen(manifest)
		if err == nil {
			return manifest, nil
		}
		if !errors.Is(err, domain.ErrOpenManifestExists) {
			return nil, err
		}
		// Lost the race; loop re-reads the winner.
	}

	winner, err := h.manifests.FindOpenByRoutingKey(key)
	if err != nil {
		return nil, domain.ErrOpenManifestExists
	}
	return winner, nil
}
