package command

import (
	"time"

	"github.com/google/uuid"

	"github.com/sarar-git/ecomops-mobile-app-backend/internal/manifest/domain"
	whdomain "github.com/sarar-git/ecomops-mobile-app-backend/internal/warehouse/domain"
)

// StartManifestCommand represents an explicit manifest start request
type StartManifestCommand struct {
	TenantID             string
	WarehouseID          string
	ManifestDate         time.Time
	Shift                domain.Shift
	Marketplace          domain.Marketplace
	Carrier              domain.Carrier
	FlowType             domain.FlowType
	CreatedBy            string
	AuthorizedWarehouses []string
}

// StartManifestHandler handles explicit manifest creation.
// Unlike auto-mode resolution it never reuses an existing manifest:
// hitting an OPEN routing tuple is a conflict.
type StartManifestHandler struct {
	manifests  domain.ManifestRepository
	warehouses whdomain.WarehouseRepository
}

// NewStartManifestHandler creates a new start manifest handler
func NewStartManifestHandler(manifests domain.ManifestRepository, warehouses whdomain.WarehouseRepository) *StartManifestHandler {
	return &StartManifestHandler{manifests: manifests, warehouses: warehouses}
}

// Handle executes the start manifest command
func (h *StartManifestHandler) Handle(cmd StartManifestCommand) (*domain.Manifest, error) {
	if cmd.WarehouseID == "" {
		return nil, domain.Validationf("warehouse_id is required")
	}
	if cmd.ManifestDate.IsZero() {
		return nil, domain.Validationf("manifest_date is required")
	}
	if !cmd.Shift.Valid() {
		return nil, domain.Validationf("invalid shift %q", cmd.Shift)
	}
	if !cmd.Marketplace.Valid() {
		return nil, domain.Validationf("invalid marketplace %q", cmd.Marketplace)
	}
	if !cmd.Carrier.Valid() {
		return nil, domain.Validationf("invalid carrier %q", cmd.Carrier)
	}
	if !cmd.FlowType.Valid() {
		return nil, domain.Validationf("invalid flow_type %q", cmd.FlowType)
	}

	if _, err := h.warehouses.FindByID(cmd.TenantID, cmd.WarehouseID); err != nil {
		return nil, err
	}
	if !authorizedFor(cmd.AuthorizedWarehouses, cmd.WarehouseID) {
		return nil, domain.ErrWarehouseNotAuthorized
	}

	manifest := &domain.Manifest{
		ID:           uuid.New().String(),
		TenantID:     cmd.TenantID,
		WarehouseID:  cmd.WarehouseID,
		ManifestDate: cmd.ManifestDate,
		Shift:        cmd.Shift,
		Marketplace:  cmd.Marketplace,
		Carrier:      cmd.Carrier,
		FlowType:     cmd.FlowType,
		Status:       domain.StatusOpen,
		CreatedBy:    cmd.CreatedBy,
	}

	if err := h.manifests.CreateOpen(manifest); err != nil {
		return nil, err
	}

	return manifest, nil
}

// authorizedFor mirrors the principal's warehouse restriction: an empty
// list means unrestricted.
func authorizedFor(authorized []string, warehouseID string) bool {
	if len(authorized) == 0 {
		return true
	}
	for _, id := range authorized {
		if id == warehouseID {
			return true
		}
	}
	return false
}
