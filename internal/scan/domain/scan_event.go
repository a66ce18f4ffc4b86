package domain

import (
	"errors"
	"time"

	manifestdomain "github.com/sarar-git/ecomops-mobile-app-backend/internal/manifest/domain"
)

// BarcodeType options
type BarcodeType string

const (
	BarcodeQR      BarcodeType = "QR"
	BarcodeCode128 BarcodeType = "CODE128"
	BarcodeCode39  BarcodeType = "CODE39"
	BarcodeEAN13   BarcodeType = "EAN13"
	BarcodeUnknown BarcodeType = "UNKNOWN"
)

func (b BarcodeType) Valid() bool {
	switch b {
	case BarcodeQR, BarcodeCode128, BarcodeCode39, BarcodeEAN13, BarcodeUnknown:
		return true
	}
	return false
}

// SyncStatus for scan events
type SyncStatus string

const (
	SyncPending SyncStatus = "PENDING"
	SyncSynced  SyncStatus = "SYNCED"
	SyncFailed  SyncStatus = "FAILED"
)

var (
	ErrDuplicateScan    = errors.New("barcode already scanned for this manifest")
	ErrManifestNotOpen  = errors.New("manifest is not open for scanning")
	ErrScanEventNotFound = errors.New("scan event not found")
)

// ScanEvent represents a single ingested barcode within a manifest.
// (manifest_id, barcode_value) is unique: resubmitting the same barcode
// is a safe no-op reported as a duplicate, never a second row.
// Manifest attributes are denormalized onto the event at insert time.
type ScanEvent struct {
	ID               string                     `json:"id" gorm:"type:varchar(36);primaryKey"`
	TenantID         string                     `json:"tenant_id" gorm:"type:varchar(36);not null;index:ix_scan_tenant_manifest;index:ix_scan_tenant_scanned"`
	WarehouseID      string                     `json:"warehouse_id" gorm:"type:varchar(36);not null"`
	ManifestID       string                     `json:"manifest_id" gorm:"type:varchar(36);not null;index:ix_scan_tenant_manifest;uniqueIndex:uq_scan_manifest_barcode"`
	FlowType         manifestdomain.FlowType    `json:"flow_type" gorm:"type:varchar(10);not null"`
	Marketplace      manifestdomain.Marketplace `json:"marketplace" gorm:"type:varchar(20);not null"`
	Carrier          manifestdomain.Carrier     `json:"carrier" gorm:"type:varchar(20);not null"`
	BarcodeValue     string                     `json:"barcode_value" gorm:"type:varchar(500);not null;uniqueIndex:uq_scan_manifest_barcode"`
	BarcodeType      BarcodeType                `json:"barcode_type" gorm:"type:varchar(10);not null;default:'UNKNOWN'"`
	OCRRawText       *string                    `json:"ocr_raw_text,omitempty" gorm:"type:text"`
	ExtractedOrderID *string                    `json:"extracted_order_id,omitempty" gorm:"type:varchar(100);index:ix_scan_order_id"`
	ExtractedAWB     *string                    `json:"extracted_awb,omitempty" gorm:"type:varchar(100);index:ix_scan_awb"`
	ScannedAtUTC     time.Time                  `json:"scanned_at_utc" gorm:"not null;index:ix_scan_tenant_scanned"`
	ScannedAtLocal   *time.Time                 `json:"scanned_at_local,omitempty"`
	DeviceID         *string                    `json:"device_id,omitempty" gorm:"type:varchar(100)"`
	OperatorID       string                     `json:"operator_id" gorm:"type:varchar(36);index"`
	ConfidenceScore  *float64                   `json:"confidence_score,omitempty" gorm:"type:numeric(5,4)"`
	SyncStatus       SyncStatus                 `json:"sync_status" gorm:"type:varchar(10);not null;default:'SYNCED'"`
	CreatedAt        time.Time                  `json:"created_at"`
}

// TableName specifies the table name
func (ScanEvent) TableName() string {
	return "lgs_scan_events"
}

// ScanInput is one submitted barcode in a batch request. The client
// timestamp is advisory only; scanned_at_utc is always server-assigned.
type ScanInput struct {
	BarcodeValue     string
	BarcodeType      BarcodeType
	OCRRawText       *string
	ExtractedOrderID *string
	ExtractedAWB     *string
	ScannedAtLocal   *time.Time
	DeviceID         *string
	ConfidenceScore  *float64
}

// ScanOutcome is the deterministic per-item result of an ingestion call
type ScanOutcome string

const (
	OutcomeInserted  ScanOutcome = "inserted"
	OutcomeDuplicate ScanOutcome = "duplicate"
	OutcomeRejected  ScanOutcome = "rejected"
)

// Machine-readable rejection reasons. Raw storage error text never
// reaches the caller.
const (
	ReasonEmptyBarcode         = "EMPTY_BARCODE"
	ReasonInvalidBarcodeType   = "INVALID_BARCODE_TYPE"
	ReasonConfidenceOutOfRange = "CONFIDENCE_OUT_OF_RANGE"
	ReasonManifestClosed       = "MANIFEST_CLOSED"
	ReasonStorageFailure       = "STORAGE_FAILURE"
)

// ItemResult is the outcome for one submitted scan, in submission order
type ItemResult struct {
	BarcodeValue string      `json:"barcode_value"`
	Outcome      ScanOutcome `json:"outcome"`
	ScanEventID  string      `json:"scan_event_id,omitempty"`
	Reason       string      `json:"reason,omitempty"`
}

// BatchResult summarizes one ingestion call
type BatchResult struct {
	ManifestID     string       `json:"manifest_id"`
	TotalSubmitted int          `json:"total_submitted"`
	InsertedCount  int          `json:"inserted_count"`
	DuplicateCount int          `json:"duplicate_count"`
	RejectedCount  int          `json:"rejected_count"`
	Results        []ItemResult `json:"results"`
}

// ScanRepository defines the contract for scan event data access.
// InsertIdempotent must be a single atomic storage operation: it
// re-checks that the manifest is OPEN and detects duplicates inside one
// constraint-enforced insert, never via read-then-write.
type ScanRepository interface {
	// InsertIdempotent returns nil on insert, ErrDuplicateScan when the
	// (manifest_id, barcode_value) row already exists (ev.ID is set to the
	// existing row's id), and ErrManifestNotOpen when the manifest is no
	// longer OPEN for this tenant.
	InsertIdempotent(ev *ScanEvent) error
	FindByID(tenantID, id string) (*ScanEvent, error)
	ListByManifest(tenantID, manifestID string, limit, offset int) ([]ScanEvent, int64, error)
	// ListForExport returns all events of a manifest ordered by scan time.
	ListForExport(tenantID, manifestID string) ([]ScanEvent, error)
	ListByOperator(tenantID, operatorID string, limit, offset int) ([]ScanEvent, int64, error)
	CountByManifest(tenantID, manifestID string) (int64, error)
}
