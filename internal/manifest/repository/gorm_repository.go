package repository

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/sarar-git/ecomops-mobile-app-backend/internal/manifest/domain"
)

// GormManifestRepository implements ManifestRepository using GORM
type GormManifestRepository struct {
	db *gorm.DB
}

// NewGormManifestRepository creates a new GORM manifest repository
func NewGormManifestRepository(db *gorm.DB) *GormManifestRepository {
	return &GormManifestRepository{db: db}
}

// AutoMigrate runs database migrations. The partial unique index cannot
// be expressed with struct tags, so it is created with raw SQL: it is
// what makes concurrent auto-manifest creation safe.
func (r *GormManifestRepository) AutoMigrate() error {
	if err := r.db.AutoMigrate(&domain.Manifest{}); err != nil {
		return err
	}
	return r.db.Exec(`
		CREATE UNIQUE INDEX IF NOT EXISTS ix_manifest_open_unique
		ON manifests (tenant_id, warehouse_id, manifest_date, shift, marketplace, carrier, flow_type)
		WHERE status = 'OPEN'
	`).Error
}

// CreateOpen inserts a new OPEN manifest. A unique violation on the
// partial index means a concurrent creator won the routing tuple.
func (r *GormManifestRepository) CreateOpen(m *domain.Manifest) error {
	m.Status = domain.StatusOpen
	if err := r.db.Create(m).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domain.ErrOpenManifestExists
		}
		return fmt.Errorf("failed to create manifest: %w", err)
	}
	return nil
}

// FindByID retrieves a manifest scoped to the tenant
func (r *GormManifestRepository) FindByID(tenantID, id string) (*domain.Manifest, error) {
	var m domain.Manifest
	err := r.db.Where("id = ? AND tenant_id = ?", id, tenantID).First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrManifestNotFound
		}
		return nil, fmt.Errorf("failed to find manifest: %w", err)
	}
	return &m, nil
}

// FindOpenByRoutingKey retrieves the OPEN manifest for a routing tuple, if any
func (r *GormManifestRepository) FindOpenByRoutingKey(key domain.RoutingKey) (*domain.Manifest, error) {
	var m domain.Manifest
	err := r.db.Where(
		"tenant_id = ? AND warehouse_id = ? AND manifest_date = ? AND shift = ? AND marketplace = ? AND carrier = ? AND flow_type = ? AND status = ?",
		key.TenantID, key.WarehouseID, key.ManifestDate.Format("2006-01-02"),
		key.Shift, key.Marketplace, key.Carrier, key.FlowType, domain.StatusOpen,
	).First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrManifestNotFound
		}
		return nil, fmt.Errorf("failed to find open manifest: %w", err)
	}
	return &m, nil
}

// CloseIfOpen performs the OPEN -> CLOSED transition as one conditional
// update. total_packets is reconciled against the scan store inside the
// same statement, so the closed counter is exact regardless of lost
// in-flight deltas.
func (r *GormManifestRepository) CloseIfOpen(tenantID, id string, closedAt time.Time) (int64, error) {
	res := r.db.Exec(`
		UPDATE manifests
		SET status = ?, closed_at = ?,
		    total_packets = (SELECT COUNT(*) FROM lgs_scan_events WHERE manifest_id = manifests.id)
		WHERE id = ? AND tenant_id = ? AND status = ?`,
		domain.StatusClosed, closedAt, id, tenantID, domain.StatusOpen,
	)
	if res.Error != nil {
		return 0, fmt.Errorf("failed to close manifest: %w", res.Error)
	}
	return res.RowsAffected, nil
}

// AddPackets atomically increments total_packets by delta
func (r *GormManifestRepository) AddPackets(tenantID, id string, delta int) error {
	if delta == 0 {
		return nil
	}
	err := r.db.Model(&domain.Manifest{}).
		Where("id = ? AND tenant_id = ?", id, tenantID).
		Update("total_packets", gorm.Expr("total_packets + ?", delta)).Error
	if err != nil {
		return fmt.Errorf("failed to update packet count: %w", err)
	}
	return nil
}

// List retrieves manifests for a tenant with optional filters and pagination
func (r *GormManifestRepository) List(tenantID string, filter domain.ManifestFilter) ([]domain.Manifest, int64, error) {
	query := r.db.Model(&domain.Manifest{}).Where("tenant_id = ?", tenantID)

	if filter.WarehouseID != "" {
		query = query.Where("warehouse_id = ?", filter.WarehouseID)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.Marketplace != "" {
		query = query.Where("marketplace = ?", filter.Marketplace)
	}
	if filter.Carrier != "" {
		query = query.Where("carrier = ?", filter.Carrier)
	}
	if filter.FlowType != "" {
		query = query.Where("flow_type = ?", filter.FlowType)
	}
	if filter.Shift != "" {
		query = query.Where("shift = ?", filter.Shift)
	}
	if filter.DateFrom != nil {
		query = query.Where("manifest_date >= ?", filter.DateFrom.Format("2006-01-02"))
	}
	if filter.DateTo != nil {
		query = query.Where("manifest_date <= ?", filter.DateTo.Format("2006-01-02"))
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count manifests: %w", err)
	}

	query = query.Order("created_at DESC")
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		query = query.Offset(filter.Offset)
	}

	var manifests []domain.Manifest
	if err := query.Find(&manifests).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list manifests: %w", err)
	}
	return manifests, total, nil
}
