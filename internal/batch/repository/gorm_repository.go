package repository

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/sarar-git/ecomops-mobile-app-backend/internal/batch/domain"
)

// GormBatchRepository implements BatchRepository using GORM
type GormBatchRepository struct {
	db *gorm.DB
}

// NewGormBatchRepository creates a new GORM batch repository
func NewGormBatchRepository(db *gorm.DB) *GormBatchRepository {
	return &GormBatchRepository{db: db}
}

// AutoMigrate runs database migrations
func (r *GormBatchRepository) AutoMigrate() error {
	return r.db.AutoMigrate(&domain.BatchSubmission{})
}

// Create inserts a new PROCESSING batch record
func (r *GormBatchRepository) Create(b *domain.BatchSubmission) error {
	if err := r.db.Create(b).Error; err != nil {
		return fmt.Errorf("failed to create batch record: %w", err)
	}
	return nil
}

// Finish records the terminal status of a batch, scoped to the tenant
func (r *GormBatchRepository) Finish(tenantID, id string, manifestID string, processedScans, matchedOrders int, status domain.BatchStatus) error {
	now := time.Now().UTC()
	updates := map[string]interface{}{
		"status":          status,
		"processed_scans": processedScans,
		"matched_orders":  matchedOrders,
		"completed_at":    &now,
	}
	if manifestID != "" {
		updates["manifest_id"] = manifestID
	}
	res := r.db.Model(&domain.BatchSubmission{}).
		Where("id = ? AND tenant_id = ?", id, tenantID).
		Updates(updates)
	if res.Error != nil {
		return fmt.Errorf("failed to finish batch record: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrBatchNotFound
	}
	return nil
}

// FindByID retrieves a batch record scoped to the tenant
func (r *GormBatchRepository) FindByID(tenantID, id string) (*domain.BatchSubmission, error) {
	var b domain.BatchSubmission
	err := r.db.Where("id = ? AND tenant_id = ?", id, tenantID).First(&b).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrBatchNotFound
		}
		return nil, fmt.Errorf("failed to find batch record: %w", err)
	}
	return &b, nil
}
