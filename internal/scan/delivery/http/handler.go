package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	batchdomain "github.com/sarar-git/ecomops-mobile-app-backend/internal/batch/domain"
	batchcommand "github.com/sarar-git/ecomops-mobile-app-backend/internal/batch/usecase/command"
	batchquery "github.com/sarar-git/ecomops-mobile-app-backend/internal/batch/usecase/query"
	manifestdomain "github.com/sarar-git/ecomops-mobile-app-backend/internal/manifest/domain"
	"github.com/sarar-git/ecomops-mobile-app-backend/internal/scan/domain"
	"github.com/sarar-git/ecomops-mobile-app-backend/internal/scan/usecase/command"
	"github.com/sarar-git/ecomops-mobile-app-backend/internal/scan/usecase/query"
	"github.com/sarar-git/ecomops-mobile-app-backend/kafka"
	"github.com/sarar-git/ecomops-mobile-app-backend/pkg/auth"
	"github.com/sarar-git/ecomops-mobile-app-backend/pkg/logger"
	"github.com/sarar-git/ecomops-mobile-app-backend/pkg/metrics"
)

// ScanHandler handles HTTP requests for scan ingestion using CQRS pattern
type ScanHandler struct {
	// Command handlers
	ingestHandler *command.IngestBatchHandler
	createBatch   *batchcommand.CreateBatchHandler
	finishBatch   *batchcommand.FinishBatchHandler

	// Query handlers
	getHandler      *query.GetScanHandler
	listHandler     *query.ListScansHandler
	operatorHandler *query.ListOperatorScansHandler
	batchStatus     *batchquery.GetBatchStatusHandler

	publisher *kafka.Publisher
}

// NewScanHandler creates a new scan handler
func NewScanHandler(
	ingestHandler *command.IngestBatchHandler,
	createBatch *batchcommand.CreateBatchHandler,
	finishBatch *batchcommand.FinishBatchHandler,
	getHandler *query.GetScanHandler,
	listHandler *query.ListScansHandler,
	operatorHandler *query.ListOperatorScansHandler,
	batchStatus *batchquery.GetBatchStatusHandler,
	publisher *kafka.Publisher,
) *ScanHandler {
	return &ScanHandler{
		ingestHandler:   ingestHandler,
		createBatch:     createBatch,
		finishBatch:     finishBatch,
		getHandler:      getHandler,
		listHandler:     listHandler,
		operatorHandler: operatorHandler,
		batchStatus:     batchStatus,
		publisher:       publisher,
	}
}

type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

type scanEventRequest struct {
	BarcodeValue     string     `json:"barcode_value"`
	BarcodeType      string     `json:"barcode_type,omitempty"`
	OCRRawText       *string    `json:"ocr_raw_text,omitempty"`
	ExtractedOrderID *string    `json:"extracted_order_id,omitempty"`
	ExtractedAWB     *string    `json:"extracted_awb,omitempty"`
	ScannedAtLocal   *time.Time `json:"scanned_at_local,omitempty"`
	DeviceID         *string    `json:"device_id,omitempty"`
	ConfidenceScore  *float64   `json:"confidence_score,omitempty"`
}

func toScanInputs(events []scanEventRequest) []domain.ScanInput {
	scans := make([]domain.ScanInput, 0, len(events))
	for _, e := range events {
		scans = append(scans, domain.ScanInput{
			BarcodeValue:     e.BarcodeValue,
			BarcodeType:      domain.BarcodeType(e.BarcodeType),
			OCRRawText:       e.OCRRawText,
			ExtractedOrderID: e.ExtractedOrderID,
			ExtractedAWB:     e.ExtractedAWB,
			ScannedAtLocal:   e.ScannedAtLocal,
			DeviceID:         e.DeviceID,
			ConfidenceScore:  e.ConfidenceScore,
		})
	}
	return scans
}

// BulkIngest handles POST /api/scan-events/bulk (direct mode: the
// target manifest is named explicitly)
func (h *ScanHandler) BulkIngest(w http.ResponseWriter, r *http.Request) {
	principal, ok := auth.PrincipalFromContext(r.Context())
	if !ok {
		respondJSON(w, http.StatusUnauthorized, Response{Success: false, Error: "Missing principal"})
		return
	}

	var req struct {
		ManifestID string             `json:"manifest_id"`
		Events     []scanEventRequest `json:"events"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, Response{Success: false, Error: "Invalid request body"})
		return
	}

	result, err := h.ingestHandler.Handle(command.IngestBatchCommand{
		TenantID:             principal.TenantID,
		OperatorID:           principal.UserID,
		ManifestID:           req.ManifestID,
		Scans:                toScanInputs(req.Events),
		AuthorizedWarehouses: principal.WarehouseIDs,
	})
	if err != nil {
		respondError(w, r, err)
		return
	}

	recordOutcomes(result)
	logger.Info(r.Context()).
		Str("manifest_id", result.ManifestID).
		Int("inserted", result.InsertedCount).
		Int("duplicates", result.DuplicateCount).
		Int("rejected", result.RejectedCount).
		Msg("Bulk scan ingestion finished")

	respondJSON(w, http.StatusOK, Response{Success: true, Data: result})
}

// SubmitBatch handles POST /api/scans/batch (auto mode: the manifest is
// resolved from routing attributes, and a durable batch record tracks
// the submission for polling)
func (h *ScanHandler) SubmitBatch(w http.ResponseWriter, r *http.Request) {
	principal, ok := auth.PrincipalFromContext(r.Context())
	if !ok {
		respondJSON(w, http.StatusUnauthorized, Response{Success: false, Error: "Missing principal"})
		return
	}

	var req struct {
		BatchName    *string            `json:"batch_name,omitempty"`
		ScanType     string             `json:"scan_type"`
		WarehouseID  string             `json:"warehouse_id"`
		ManifestDate string             `json:"manifest_date,omitempty"`
		Scans        []scanEventRequest `json:"scans"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, Response{Success: false, Error: "Invalid request body"})
		return
	}

	warehouseID := req.WarehouseID
	if warehouseID == "" && len(principal.WarehouseIDs) == 1 {
		warehouseID = principal.WarehouseIDs[0]
	}

	manifestDate := time.Now().UTC().Truncate(24 * time.Hour)
	if req.ManifestDate != "" {
		t, err := time.Parse("2006-01-02", req.ManifestDate)
		if err != nil {
			respondJSON(w, http.StatusBadRequest, Response{Success: false, Error: "manifest_date must be YYYY-MM-DD"})
			return
		}
		manifestDate = t
	}

	batch, err := h.createBatch.Handle(batchcommand.CreateBatchCommand{
		TenantID:   principal.TenantID,
		BatchName:  req.BatchName,
		ScanType:   manifestdomain.FlowType(req.ScanType),
		TotalScans: len(req.Scans),
	})
	if err != nil {
		respondError(w, r, err)
		return
	}

	result, err := h.ingestHandler.Handle(command.IngestBatchCommand{
		TenantID:   principal.TenantID,
		OperatorID: principal.UserID,
		Auto: &command.AutoRoute{
			WarehouseID:  warehouseID,
			FlowType:     manifestdomain.FlowType(req.ScanType),
			ManifestDate: manifestDate,
		},
		Scans:                toScanInputs(req.Scans),
		AuthorizedWarehouses: principal.WarehouseIDs,
	})
	if err != nil {
		h.failBatch(r, principal.TenantID, batch.ID)
		respondError(w, r, err)
		return
	}

	// Order matching is not performed here; an inserted scan counts as
	// matched until the downstream consumer reports otherwise.
	matched := result.InsertedCount
	if err := h.finishBatch.Handle(batchcommand.FinishBatchCommand{
		TenantID:       principal.TenantID,
		BatchID:        batch.ID,
		ManifestID:     result.ManifestID,
		ProcessedScans: result.InsertedCount + result.DuplicateCount,
		MatchedOrders:  matched,
		Status:         batchdomain.StatusCompleted,
	}); err != nil {
		logger.Error(r.Context()).Err(err).Str("batch_id", batch.ID).Msg("Batch finish failed")
	}

	recordOutcomes(result)
	metrics.BatchesTotal.WithLabelValues(string(batchdomain.StatusCompleted)).Inc()

	if h.publisher != nil {
		if err := h.publisher.PublishBatchCompleted(r.Context(), kafka.BatchCompletedEvent{
			BatchID:        batch.ID,
			TenantID:       principal.TenantID,
			ManifestID:     result.ManifestID,
			OperatorID:     principal.UserID,
			TotalScans:     result.TotalSubmitted,
			InsertedScans:  result.InsertedCount,
			DuplicateScans: result.DuplicateCount,
			RejectedScans:  result.RejectedCount,
			MatchedOrders:  matched,
		}); err != nil {
			logger.Warn(r.Context()).Err(err).Str("batch_id", batch.ID).Msg("Batch completed event not published")
		}
	}

	logger.Info(r.Context()).
		Str("batch_id", batch.ID).
		Str("manifest_id", result.ManifestID).
		Int("inserted", result.InsertedCount).
		Msg("Scan batch processed")

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Message: "Batch processed",
		Data: map[string]interface{}{
			"batch_id": batch.ID,
			"result":   result,
		},
	})
}

func (h *ScanHandler) failBatch(r *http.Request, tenantID, batchID string) {
	metrics.BatchesTotal.WithLabelValues(string(batchdomain.StatusFailed)).Inc()
	if err := h.finishBatch.Handle(batchcommand.FinishBatchCommand{
		TenantID: tenantID,
		BatchID:  batchID,
		Status:   batchdomain.StatusFailed,
	}); err != nil {
		logger.Error(r.Context()).Err(err).Str("batch_id", batchID).Msg("Batch failure not recorded")
	}
}

// GetBatchStatus handles GET /api/scans/batch/{batch_id}
func (h *ScanHandler) GetBatchStatus(w http.ResponseWriter, r *http.Request) {
	principal, ok := auth.PrincipalFromContext(r.Context())
	if !ok {
		respondJSON(w, http.StatusUnauthorized, Response{Success: false, Error: "Missing principal"})
		return
	}

	batch, err := h.batchStatus.Handle(batchquery.GetBatchStatusQuery{
		TenantID: principal.TenantID,
		BatchID:  mux.Vars(r)["batch_id"],
	})
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, Response{Success: true, Data: batch})
}

// ListScans handles GET /api/scan-events?manifest_id=...
func (h *ScanHandler) ListScans(w http.ResponseWriter, r *http.Request) {
	principal, ok := auth.PrincipalFromContext(r.Context())
	if !ok {
		respondJSON(w, http.StatusUnauthorized, Response{Success: false, Error: "Missing principal"})
		return
	}

	limit, offset := pagination(r, 100)
	result, err := h.listHandler.Handle(query.ListScansQuery{
		TenantID:   principal.TenantID,
		ManifestID: r.URL.Query().Get("manifest_id"),
		Limit:      limit,
		Offset:     offset,
	})
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Data: map[string]interface{}{
			"scan_events": result.Events,
			"total":       result.Total,
		},
	})
}

// ListMyScans handles GET /api/scan-events/me
func (h *ScanHandler) ListMyScans(w http.ResponseWriter, r *http.Request) {
	principal, ok := auth.PrincipalFromContext(r.Context())
	if !ok {
		respondJSON(w, http.StatusUnauthorized, Response{Success: false, Error: "Missing principal"})
		return
	}

	limit, offset := pagination(r, 50)
	result, err := h.operatorHandler.Handle(query.ListOperatorScansQuery{
		TenantID:   principal.TenantID,
		OperatorID: principal.UserID,
		Limit:      limit,
		Offset:     offset,
	})
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Data: map[string]interface{}{
			"scan_events": result.Events,
			"total":       result.Total,
		},
	})
}

// GetScan handles GET /api/scan-events/{id}
func (h *ScanHandler) GetScan(w http.ResponseWriter, r *http.Request) {
	principal, ok := auth.PrincipalFromContext(r.Context())
	if !ok {
		respondJSON(w, http.StatusUnauthorized, Response{Success: false, Error: "Missing principal"})
		return
	}

	ev, err := h.getHandler.Handle(query.GetScanQuery{
		TenantID:    principal.TenantID,
		ScanEventID: mux.Vars(r)["id"],
	})
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, Response{Success: true, Data: ev})
}

// RegisterRoutes registers all scan routes
func (h *ScanHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/api/scan-events/bulk", auth.Middleware(h.BulkIngest)).Methods("POST")
	router.HandleFunc("/api/scan-events/me", auth.Middleware(h.ListMyScans)).Methods("GET")
	router.HandleFunc("/api/scan-events/{id}", auth.Middleware(h.GetScan)).Methods("GET")
	router.HandleFunc("/api/scan-events", auth.Middleware(h.ListScans)).Methods("GET")
	router.HandleFunc("/api/scans/batch/{batch_id}", auth.Middleware(h.GetBatchStatus)).Methods("GET")
	router.HandleFunc("/api/scans/batch", auth.Middleware(h.SubmitBatch)).Methods("POST")
}

func recordOutcomes(result *domain.BatchResult) {
	metrics.ScansIngestedTotal.WithLabelValues(string(domain.OutcomeInserted)).Add(float64(result.InsertedCount))
	metrics.ScansIngestedTotal.WithLabelValues(string(domain.OutcomeDuplicate)).Add(float64(result.DuplicateCount))
	metrics.ScansIngestedTotal.WithLabelValues(string(domain.OutcomeRejected)).Add(float64(result.RejectedCount))
}

func pagination(r *http.Request, defaultLimit int) (int, int) {
	q := r.URL.Query()
	limit, _ := strconv.Atoi(q.Get("limit"))
	if limit <= 0 {
		limit = defaultLimit
	}
	offset, _ := strconv.Atoi(q.Get("offset"))
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

func respondError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, manifestdomain.ErrManifestNotFound),
		errors.Is(err, domain.ErrScanEventNotFound),
		errors.Is(err, batchdomain.ErrBatchNotFound):
		respondJSON(w, http.StatusNotFound, Response{Success: false, Error: "Not found"})
	case errors.Is(err, manifestdomain.ErrOpenManifestExists),
		errors.Is(err, manifestdomain.ErrManifestAlreadyClosed):
		respondJSON(w, http.StatusConflict, Response{Success: false, Error: err.Error()})
	case errors.Is(err, manifestdomain.ErrWarehouseNotFound),
		errors.Is(err, manifestdomain.ErrWarehouseNotAuthorized),
		manifestdomain.IsValidation(err):
		respondJSON(w, http.StatusBadRequest, Response{Success: false, Error: err.Error()})
	default:
		logger.Error(r.Context()).Err(err).Msg("Request failed")
		respondJSON(w, http.StatusInternalServerError, Response{Success: false, Error: "Internal error"})
	}
}

// respondJSON sends a JSON response
func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}
