package domain

import "time"

// Warehouse represents a physical location owned by one tenant.
// The scan backend only reads warehouses; they are provisioned elsewhere.
type Warehouse struct {
	ID        string    `json:"id" gorm:"type:varchar(36);primaryKey"`
	TenantID  string    `json:"tenant_id" gorm:"type:varchar(36);not null;index:ix_warehouse_tenant_city"`
	Name      string    `json:"name" gorm:"type:varchar(255);not null"`
	City      string    `json:"city" gorm:"type:varchar(100);not null;index:ix_warehouse_tenant_city"`
	Address   string    `json:"address,omitempty" gorm:"type:varchar(500)"`
	Timezone  string    `json:"timezone" gorm:"type:varchar(50);not null;default:'Asia/Kolkata'"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName specifies the table name
func (Warehouse) TableName() string {
	return "wh_warehouses"
}

// WarehouseRepository defines the contract for warehouse lookups
type WarehouseRepository interface {
	FindByID(tenantID, id string) (*Warehouse, error)
	FindAll(tenantID string) ([]Warehouse, error)
}
