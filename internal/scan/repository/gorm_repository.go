package repository

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/sarar-git/ecomops-mobile-app-backend/internal/scan/domain"
)

// GormScanRepository implements ScanRepository using GORM
type GormScanRepository struct {
	db *gorm.DB
}

// NewGormScanRepository creates a new GORM scan repository
func NewGormScanRepository(db *gorm.DB) *GormScanRepository {
	return &GormScanRepository{db: db}
}

// AutoMigrate runs database migrations
func (r *GormScanRepository) AutoMigrate() error {
	return r.db.AutoMigrate(&domain.ScanEvent{})
}

// insertScanSQL gates the insert on the manifest still being OPEN for
// the caller's tenant and dedupes on (manifest_id, barcode_value), all
// in one statement. The denormalized manifest attributes are taken from
// the manifest row inside the same statement, so they can never drift
// from the manifest the row is attached to.
const insertScanSQL = `
INSERT INTO lgs_scan_events
	(id, tenant_id, warehouse_id, manifest_id, flow_type, marketplace, carrier,
	 barcode_value, barcode_type, ocr_raw_text, extracted_order_id, extracted_awb,
	 scanned_at_utc, scanned_at_local, device_id, operator_id, confidence_score,
	 sync_status, created_at)
SELECT ?, m.tenant_id, m.warehouse_id, m.id, m.flow_type, m.marketplace, m.carrier,
	?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?
FROM manifests m
WHERE m.id = ? AND m.tenant_id = ? AND m.status = 'OPEN'
ON CONFLICT (manifest_id, barcode_value) DO NOTHING`

// InsertIdempotent performs the constraint-enforced conditional insert.
// RowsAffected disambiguation: 1 means inserted; 0 means either the
// barcode already exists for the manifest (duplicate) or the manifest is
// not OPEN, told apart by a follow-up existence probe.
func (r *GormScanRepository) InsertIdempotent(ev *domain.ScanEvent) error {
	res := r.db.Exec(insertScanSQL,
		ev.ID,
		ev.BarcodeValue, ev.BarcodeType, ev.OCRRawText, ev.ExtractedOrderID, ev.ExtractedAWB,
		ev.ScannedAtUTC, ev.ScannedAtLocal, ev.DeviceID, ev.OperatorID, ev.ConfidenceScore,
		ev.SyncStatus, ev.ScannedAtUTC,
		ev.ManifestID, ev.TenantID,
	)
	if res.Error != nil {
		return fmt.Errorf("failed to insert scan event: %w", res.Error)
	}
	if res.RowsAffected == 1 {
		return nil
	}

	var existing domain.ScanEvent
	err := r.db.Select("id").
		Where("manifest_id = ? AND barcode_value = ? AND tenant_id = ?", ev.ManifestID, ev.BarcodeValue, ev.TenantID).
		First(&existing).Error
	if err == nil {
		ev.ID = existing.ID
		return domain.ErrDuplicateScan
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.ErrManifestNotOpen
	}
	return fmt.Errorf("failed to probe scan event: %w", err)
}

// FindByID retrieves a scan event scoped to the tenant
func (r *GormScanRepository) FindByID(tenantID, id string) (*domain.ScanEvent, error) {
	var ev domain.ScanEvent
	err := r.db.Where("id = ? AND tenant_id = ?", id, tenantID).First(&ev).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrScanEventNotFound
		}
		return nil, fmt.Errorf("failed to find scan event: %w", err)
	}
	return &ev, nil
}

// ListByManifest retrieves scan events for a manifest, newest first
func (r *GormScanRepository) ListByManifest(tenantID, manifestID string, limit, offset int) ([]domain.ScanEvent, int64, error) {
	base := r.db.Model(&domain.ScanEvent{}).
		Where("tenant_id = ? AND manifest_id = ?", tenantID, manifestID)

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count scan events: %w", err)
	}

	var events []domain.ScanEvent
	query := base.Order("scanned_at_utc DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}
	if err := query.Find(&events).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list scan events: %w", err)
	}
	return events, total, nil
}

// ListForExport retrieves all scan events of a manifest in scan order
func (r *GormScanRepository) ListForExport(tenantID, manifestID string) ([]domain.ScanEvent, error) {
	var events []domain.ScanEvent
	err := r.db.Where("tenant_id = ? AND manifest_id = ?", tenantID, manifestID).
		Order("scanned_at_utc ASC").
		Find(&events).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list scan events for export: %w", err)
	}
	return events, nil
}

// ListByOperator retrieves an operator's scan events across manifests
func (r *GormScanRepository) ListByOperator(tenantID, operatorID string, limit, offset int) ([]domain.ScanEvent, int64, error) {
	base := r.db.Model(&domain.ScanEvent{}).
		Where("tenant_id = ? AND operator_id = ?", tenantID, operatorID)

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count scan events: %w", err)
	}

	var events []domain.ScanEvent
	query := base.Order("scanned_at_utc DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}
	if err := query.Find(&events).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list scan events: %w", err)
	}
	return events, total, nil
}

// CountByManifest counts scan events for a manifest
func (r *GormScanRepository) CountByManifest(tenantID, manifestID string) (int64, error) {
	var count int64
	err := r.db.Model(&domain.ScanEvent{}).
		Where("tenant_id = ? AND manifest_id = ?", tenantID, manifestID).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count scan events: %w", err)
	}
	return count, nil
}
