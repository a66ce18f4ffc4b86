package repository

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	manifestdomain "github.com/sarar-git/ecomops-mobile-app-backend/internal/manifest/domain"
	"github.com/sarar-git/ecomops-mobile-app-backend/internal/warehouse/domain"
)

// GormWarehouseRepository implements WarehouseRepository using GORM
type GormWarehouseRepository struct {
	db *gorm.DB
}

// NewGormWarehouseRepository creates a new GORM warehouse repository
func NewGormWarehouseRepository(db *gorm.DB) *GormWarehouseRepository {
	return &GormWarehouseRepository{db: db}
}

// AutoMigrate runs database migrations
func (r *GormWarehouseRepository) AutoMigrate() error {
	return r.db.AutoMigrate(&domain.Warehouse{})
}

// FindByID retrieves a warehouse scoped to the tenant
func (r *GormWarehouseRepository) FindByID(tenantID, id string) (*domain.Warehouse, error) {
	var w domain.Warehouse
	err := r.db.Where("id = ? AND tenant_id = ?", id, tenantID).First(&w).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, manifestdomain.ErrWarehouseNotFound
		}
		return nil, fmt.Errorf("failed to find warehouse: %w", err)
	}
	return &w, nil
}

// FindAll retrieves all warehouses for a tenant
func (r *GormWarehouseRepository) FindAll(tenantID string) ([]domain.Warehouse, error) {
	var warehouses []domain.Warehouse
	err := r.db.Where("tenant_id = ?", tenantID).Order("name").Find(&warehouses).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list warehouses: %w", err)
	}
	return warehouses, nil
}
