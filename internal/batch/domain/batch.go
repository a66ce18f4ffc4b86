package domain

import (
	"errors"
	"time"

	manifestdomain "github.com/sarar-git/ecomops-mobile-app-backend/internal/manifest/domain"
)

// BatchStatus values exposed to polling clients
type BatchStatus string

const (
	StatusProcessing BatchStatus = "PROCESSING"
	StatusCompleted  BatchStatus = "COMPLETED"
	StatusFailed     BatchStatus = "FAILED"
)

var ErrBatchNotFound = errors.New("batch not found")

// BatchSubmission tracks one batch ingestion call for polling. It is
// durable and tenant-scoped so any service instance can answer a status
// request, not only the instance that processed the batch.
type BatchSubmission struct {
	ID             string                  `json:"id" gorm:"type:varchar(36);primaryKey"`
	TenantID       string                  `json:"tenant_id" gorm:"type:varchar(36);not null;index"`
	BatchName      *string                 `json:"batch_name,omitempty" gorm:"type:varchar(255)"`
	ScanType       manifestdomain.FlowType `json:"scan_type" gorm:"type:varchar(10);not null"`
	ManifestID     *string                 `json:"manifest_id,omitempty" gorm:"type:varchar(36)"`
	TotalScans     int                     `json:"total_scans" gorm:"not null;default:0"`
	ProcessedScans int                     `json:"processed_scans" gorm:"not null;default:0"`
	MatchedOrders  int                     `json:"matched_orders" gorm:"not null;default:0"`
	Status         BatchStatus             `json:"status" gorm:"type:varchar(12);not null;default:'PROCESSING'"`
	CreatedAt      time.Time               `json:"created_at"`
	CompletedAt    *time.Time              `json:"completed_at,omitempty"`
}

// TableName specifies the table name
func (BatchSubmission) TableName() string {
	return "lgs_batch_submissions"
}

// BatchRepository defines the contract for batch submission tracking.
// Reads and writes alike are tenant-scoped.
type BatchRepository interface {
	Create(b *BatchSubmission) error
	// Finish records the terminal status of a batch in one update.
	// Returns ErrBatchNotFound when the batch does not exist for the tenant.
	Finish(tenantID, id string, manifestID string, processedScans, matchedOrders int, status BatchStatus) error
	FindByID(tenantID, id string) (*BatchSubmission, error)
}
