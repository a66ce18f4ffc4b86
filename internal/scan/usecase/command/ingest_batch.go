package command

import (
	"errors"
	"time"

	"github.com/google/uuid"

	manifestdomain "github.com/sarar-git/ecomops-mobile-app-backend/internal/manifest/domain"
	manifestcommand "github.com/sarar-git/ecomops-mobile-app-backend/internal/manifest/usecase/command"
	"github.com/sarar-git/ecomops-mobile-app-backend/internal/scan/domain"
)

// AutoRoute carries the routing attributes for auto-mode ingestion,
// where the manifest is resolved or created instead of named explicitly.
type AutoRoute struct {
	WarehouseID  string
	FlowType     manifestdomain.FlowType
	ManifestDate time.Time
}

// IngestBatchCommand represents one bulk-scan ingestion request.
// Exactly one of ManifestID (direct mode) or Auto (auto mode) is set.
type IngestBatchCommand struct {
	TenantID             string
	OperatorID           string
	ManifestID           string
	Auto                 *AutoRoute
	Scans                []domain.ScanInput
	AuthorizedWarehouses []string
}

// IngestBatchHandler is the ingestion engine. Each scan is inserted in
// its own atomic storage operation, so one bad item never aborts its
// siblings, and a timed-out call is safely retryable: re-submitted items
// whose inserts already landed come back as duplicates.
type IngestBatchHandler struct {
	scans     domain.ScanRepository
	manifests manifestdomain.ManifestRepository
	resolver  *manifestcommand.ResolveManifestHandler
	defaults  manifestdomain.ManifestDefaults
}

// NewIngestBatchHandler creates a new ingest batch handler
func NewIngestBatchHandler(
	scans domain.ScanRepository,
	manifests manifestdomain.ManifestRepository,
	resolver *manifestcommand.ResolveManifestHandler,
	defaults manifestdomain.ManifestDefaults,
) *IngestBatchHandler {
	return &IngestBatchHandler{
		scans:     scans,
		manifests: manifests,
		resolver:  resolver,
		defaults:  defaults,
	}
}

// Handle executes the batch ingestion. Results preserve submission
// order, one per input. The packet counter is updated once with the net
// number of inserted rows after all items are processed.
func (h *IngestBatchHandler) Handle(cmd IngestBatchCommand) (*domain.BatchResult, error) {
	if len(cmd.Scans) == 0 {
		return nil, manifestdomain.Validationf("scans are required")
	}

	manifest, err := h.resolveManifest(cmd)
	if err != nil {
		return nil, err
	}

	result := &domain.BatchResult{
		ManifestID:     manifest.ID,
		TotalSubmitted: len(cmd.Scans),
		Results:        make([]domain.ItemResult, 0, len(cmd.Scans)),
	}

	// A manifest observed CLOSED up front means no insert can succeed;
	// every item is reported rejected without touching the scan store.
	if !manifest.IsOpen() {
		for _, in := range cmd.Scans {
			result.Results = append(result.Results, domain.ItemResult{
				BarcodeValue: in.BarcodeValue,
				Outcome:      domain.OutcomeRejected,
				Reason:       domain.ReasonManifestClosed,
			})
		}
		result.RejectedCount = len(cmd.Scans)
		return result, nil
	}

	serverTime := time.Now().UTC()

	for _, in := range cmd.Scans {
		result.Results = append(result.Results, h.processItem(manifest, cmd, in, serverTime, result))
	}

	if result.InsertedCount > 0 {
		if err := h.manifests.AddPackets(cmd.TenantID, manifest.ID, result.InsertedCount); err != nil {
			return nil, err
		}
	}

	return result, nil
}

func (h *IngestBatchHandler) processItem(
	manifest *manifestdomain.Manifest,
	cmd IngestBatchCommand,
	in domain.ScanInput,
	serverTime time.Time,
	result *domain.BatchResult,
) domain.ItemResult {
	item := domain.ItemResult{BarcodeValue: in.BarcodeValue}

	if reason := validateInput(in); reason != "" {
		item.Outcome = domain.OutcomeRejected
		item.Reason = reason
		result.RejectedCount++
		return item
	}

	barcodeType := in.BarcodeType
	if barcodeType == "" {
		barcodeType = domain.BarcodeUnknown
	}

	ev := &domain.ScanEvent{
		ID:               uuid.New().String(),
		TenantID:         cmd.TenantID,
		ManifestID:       manifest.ID,
		BarcodeValue:     in.BarcodeValue,
		BarcodeType:      barcodeType,
		OCRRawText:       in.OCRRawText,
		ExtractedOrderID: in.ExtractedOrderID,
		ExtractedAWB:     in.ExtractedAWB,
		ScannedAtUTC:     serverTime,
		ScannedAtLocal:   in.ScannedAtLocal,
		DeviceID:         in.DeviceID,
		OperatorID:       cmd.OperatorID,
		ConfidenceScore:  in.ConfidenceScore,
		SyncStatus:       domain.SyncSynced,
	}

	err := h.scans.InsertIdempotent(ev)
	switch {
	case err == nil:
		item.Outcome = domain.OutcomeInserted
		item.ScanEventID = ev.ID
		result.InsertedCount++
	case errors.Is(err, domain.ErrDuplicateScan):
		item.Outcome = domain.OutcomeDuplicate
		item.ScanEventID = ev.ID
		result.DuplicateCount++
	case errors.Is(err, domain.ErrManifestNotOpen):
		// Manifest closed concurrently mid-batch. Items already inserted
		// stay committed; the rest are rejected deterministically.
		item.Outcome = domain.OutcomeRejected
		item.Reason = domain.ReasonManifestClosed
		result.RejectedCount++
	default:
		item.Outcome = domain.OutcomeRejected
		item.Reason = domain.ReasonStorageFailure
		result.RejectedCount++
	}
	return item
}

func (h *IngestBatchHandler) resolveManifest(cmd IngestBatchCommand) (*manifestdomain.Manifest, error) {
	if cmd.Auto == nil {
		if cmd.ManifestID == "" {
			return nil, manifestdomain.Validationf("manifest_id or routing attributes are required")
		}
		return h.manifests.FindByID(cmd.TenantID, cmd.ManifestID)
	}

	return h.resolver.Handle(manifestcommand.ResolveManifestCommand{
		TenantID:             cmd.TenantID,
		WarehouseID:          cmd.Auto.WarehouseID,
		FlowType:             cmd.Auto.FlowType,
		ManifestDate:         cmd.Auto.ManifestDate,
		Defaults:             h.defaults,
		CreatedBy:            cmd.OperatorID,
		AuthorizedWarehouses: cmd.AuthorizedWarehouses,
	})
}

func validateInput(in domain.ScanInput) string {
	if in.BarcodeValue == "" {
		return domain.ReasonEmptyBarcode
	}
	if in.BarcodeType != "" && !in.BarcodeType.Valid() {
		return domain.ReasonInvalidBarcodeType
	}
	if in.ConfidenceScore != nil && (*in.ConfidenceScore < 0 || *in.ConfidenceScore > 1) {
		return domain.ReasonConfidenceOutOfRange
	}
	return ""
}
