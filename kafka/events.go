package kafka

import "time"

// BatchCompletedEvent is published after a scan batch commits, replacing
// the synchronous bridge call to the main backend.
type BatchCompletedEvent struct {
	EventID        string    `json:"event_id"`
	EventType      string    `json:"event_type"`
	BatchID        string    `json:"batch_id"`
	TenantID       string    `json:"tenant_id"`
	ManifestID     string    `json:"manifest_id"`
	OperatorID     string    `json:"operator_id"`
	TotalScans     int       `json:"total_scans"`
	InsertedScans  int       `json:"inserted_scans"`
	DuplicateScans int       `json:"duplicate_scans"`
	RejectedScans  int       `json:"rejected_scans"`
	MatchedOrders  int       `json:"matched_orders"`
	Timestamp      time.Time `json:"timestamp"`
}

// ManifestClosedEvent is published when a manifest transitions to CLOSED
type ManifestClosedEvent struct {
	EventID      string    `json:"event_id"`
	EventType    string    `json:"event_type"`
	ManifestID   string    `json:"manifest_id"`
	TenantID     string    `json:"tenant_id"`
	WarehouseID  string    `json:"warehouse_id"`
	FlowType     string    `json:"flow_type"`
	TotalPackets int       `json:"total_packets"`
	ClosedAt     time.Time `json:"closed_at"`
	Timestamp    time.Time `json:"timestamp"`
}

// Event types
const (
	EventTypeBatchCompleted = "scan.batch.completed"
	EventTypeManifestClosed = "manifest.closed"
)

// Kafka topics
const (
	TopicBatchCompleted = "scanhub.batch.completed"
	TopicManifestClosed = "scanhub.manifest.closed"
)
