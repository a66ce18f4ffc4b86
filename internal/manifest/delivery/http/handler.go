package http

import (
	"context"
	"database/sql"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/sarar-git/ecomops-mobile-app-backend/internal/manifest/domain"
	"github.com/sarar-git/ecomops-mobile-app-backend/internal/manifest/usecase/command"
	"github.com/sarar-git/ecomops-mobile-app-backend/internal/manifest/usecase/query"
	scanquery "github.com/sarar-git/ecomops-mobile-app-backend/internal/scan/usecase/query"
	whdomain "github.com/sarar-git/ecomops-mobile-app-backend/internal/warehouse/domain"
	"github.com/sarar-git/ecomops-mobile-app-backend/kafka"
	"github.com/sarar-git/ecomops-mobile-app-backend/pkg/auth"
	"github.com/sarar-git/ecomops-mobile-app-backend/pkg/logger"
	"github.com/sarar-git/ecomops-mobile-app-backend/pkg/metrics"
)

// ManifestHandler handles HTTP requests for manifests using CQRS pattern
type ManifestHandler struct {
	// Command handlers
	startHandler *command.StartManifestHandler
	closeHandler *command.CloseManifestHandler

	// Query handlers
	getHandler  *query.GetManifestHandler
	listHandler *query.ListManifestsHandler
	scanLister  *scanquery.ListScansHandler

	warehouses whdomain.WarehouseRepository
	publisher  *kafka.Publisher
}

// NewManifestHandler creates a new manifest handler
func NewManifestHandler(
	startHandler *command.StartManifestHandler,
	closeHandler *command.CloseManifestHandler,
	getHandler *query.GetManifestHandler,
	listHandler *query.ListManifestsHandler,
	scanLister *scanquery.ListScansHandler,
	warehouses whdomain.WarehouseRepository,
	publisher *kafka.Publisher,
) *ManifestHandler {
	return &ManifestHandler{
		startHandler: startHandler,
		closeHandler: closeHandler,
		getHandler:   getHandler,
		listHandler:  listHandler,
		scanLister:   scanLister,
		warehouses:   warehouses,
		publisher:    publisher,
	}
}

type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// StartManifest handles POST /api/manifests/start
func (h *ManifestHandler) StartManifest(w http.ResponseWriter, r *http.Request) {
	principal, ok := auth.PrincipalFromContext(r.Context())
	if !ok {
		respondJSON(w, http.StatusUnauthorized, Response{Success: false, Error: "Missing principal"})
		return
	}

	var req struct {
		WarehouseID  string `json:"warehouse_id"`
		ManifestDate string `json:"manifest_date"`
		Shift        string `json:"shift"`
		Marketplace  string `json:"marketplace"`
		Carrier      string `json:"carrier"`
		FlowType     string `json:"flow_type"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, Response{Success: false, Error: "Invalid request body"})
		return
	}

	manifestDate, err := time.Parse("2006-01-02", req.ManifestDate)
	if err != nil {
		respondJSON(w, http.StatusBadRequest, Response{Success: false, Error: "manifest_date must be YYYY-MM-DD"})
		return
	}

	manifest, err := h.startHandler.Handle(command.StartManifestCommand{
		TenantID:             principal.TenantID,
		WarehouseID:          req.WarehouseID,
		ManifestDate:         manifestDate,
		Shift:                domain.Shift(req.Shift),
		Marketplace:          domain.Marketplace(req.Marketplace),
		Carrier:              domain.Carrier(req.Carrier),
		FlowType:             domain.FlowType(req.FlowType),
		CreatedBy:            principal.UserID,
		AuthorizedWarehouses: principal.WarehouseIDs,
	})
	if err != nil {
		respondError(w, r, err)
		return
	}

	logger.Info(r.Context()).
		Str("manifest_id", manifest.ID).
		Str("tenant_id", principal.TenantID).
		Msg("Manifest started")

	respondJSON(w, http.StatusCreated, Response{
		Success: true,
		Message: "Manifest started",
		Data:    manifest,
	})
}

// CloseManifest handles POST /api/manifests/{id}/close
func (h *ManifestHandler) CloseManifest(w http.ResponseWriter, r *http.Request) {
	principal, ok := auth.PrincipalFromContext(r.Context())
	if !ok {
		respondJSON(w, http.StatusUnauthorized, Response{Success: false, Error: "Missing principal"})
		return
	}

	manifestID := mux.Vars(r)["id"]

	manifest, err := h.closeHandler.Handle(command.CloseManifestCommand{
		TenantID:   principal.TenantID,
		ManifestID: manifestID,
	})
	if err != nil {
		respondError(w, r, err)
		return
	}

	metrics.ManifestsClosedTotal.Inc()

	logger.Info(r.Context()).
		Str("manifest_id", manifest.ID).
		Int("total_packets", manifest.TotalPackets).
		Msg("Manifest closed")

	if h.publisher != nil {
		closedAt := time.Now().UTC()
		if manifest.ClosedAt != nil {
			closedAt = *manifest.ClosedAt
		}
		// Best effort: a failed event never fails the close.
		if err := h.publisher.PublishManifestClosed(r.Context(), kafka.ManifestClosedEvent{
			ManifestID:   manifest.ID,
			TenantID:     manifest.TenantID,
			WarehouseID:  manifest.WarehouseID,
			FlowType:     string(manifest.FlowType),
			TotalPackets: manifest.TotalPackets,
			ClosedAt:     closedAt,
		}); err != nil {
			logger.Warn(r.Context()).Err(err).Str("manifest_id", manifest.ID).Msg("Manifest closed event not published")
		}
	}

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Message: "Manifest closed",
		Data:    manifest,
	})
}

// GetManifest handles GET /api/manifests/{id}
func (h *ManifestHandler) GetManifest(w http.ResponseWriter, r *http.Request) {
	principal, ok := auth.PrincipalFromContext(r.Context())
	if !ok {
		respondJSON(w, http.StatusUnauthorized, Response{Success: false, Error: "Missing principal"})
		return
	}

	manifest, err := h.getHandler.Handle(query.GetManifestQuery{
		TenantID:   principal.TenantID,
		ManifestID: mux.Vars(r)["id"],
	})
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, Response{Success: true, Data: manifest})
}

// ListManifests handles GET /api/manifests
func (h *ManifestHandler) ListManifests(w http.ResponseWriter, r *http.Request) {
	principal, ok := auth.PrincipalFromContext(r.Context())
	if !ok {
		respondJSON(w, http.StatusUnauthorized, Response{Success: false, Error: "Missing principal"})
		return
	}

	q := r.URL.Query()
	page, _ := strconv.Atoi(q.Get("page"))
	if page < 1 {
		page = 1
	}
	pageSize, _ := strconv.Atoi(q.Get("page_size"))
	if pageSize < 1 {
		pageSize = 20
	}

	filter := domain.ManifestFilter{
		WarehouseID: q.Get("warehouse_id"),
		Status:      domain.ManifestStatus(q.Get("status")),
		Marketplace: domain.Marketplace(q.Get("marketplace")),
		Carrier:     domain.Carrier(q.Get("carrier")),
		FlowType:    domain.FlowType(q.Get("flow_type")),
		Shift:       domain.Shift(q.Get("shift")),
		Limit:       pageSize,
		Offset:      (page - 1) * pageSize,
	}
	if from := q.Get("date_from"); from != "" {
		if t, err := time.Parse("2006-01-02", from); err == nil {
			filter.DateFrom = &t
		}
	}
	if to := q.Get("date_to"); to != "" {
		if t, err := time.Parse("2006-01-02", to); err == nil {
			filter.DateTo = &t
		}
	}

	result, err := h.listHandler.Handle(query.ListManifestsQuery{
		TenantID: principal.TenantID,
		Filter:   filter,
	})
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Data: map[string]interface{}{
			"manifests": result.Manifests,
			"total":     result.Total,
			"page":      page,
			"page_size": pageSize,
		},
	})
}

// ExportManifestCSV handles GET /api/manifests/{id}/export.csv
func (h *ManifestHandler) ExportManifestCSV(w http.ResponseWriter, r *http.Request) {
	principal, ok := auth.PrincipalFromContext(r.Context())
	if !ok {
		respondJSON(w, http.StatusUnauthorized, Response{Success: false, Error: "Missing principal"})
		return
	}

	manifestID := mux.Vars(r)["id"]

	manifest, events, err := h.scanLister.ListScansForExport(principal.TenantID, manifestID)
	if err != nil {
		respondError(w, r, err)
		return
	}

	filename := fmt.Sprintf("manifest_%s_%s.csv", manifest.ID, manifest.ManifestDate.Format("2006-01-02"))
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))

	writer := csv.NewWriter(w)
	_ = writer.Write([]string{
		"barcode_value", "barcode_type", "extracted_order_id", "extracted_awb",
		"scanned_at_utc", "scanned_at_local", "device_id", "operator_id",
		"confidence_score", "flow_type", "marketplace", "carrier",
	})

	for _, ev := range events {
		record := []string{
			ev.BarcodeValue,
			string(ev.BarcodeType),
			strOrEmpty(ev.ExtractedOrderID),
			strOrEmpty(ev.ExtractedAWB),
			ev.ScannedAtUTC.Format(time.RFC3339),
			timeOrEmpty(ev.ScannedAtLocal),
			strOrEmpty(ev.DeviceID),
			ev.OperatorID,
			floatOrEmpty(ev.ConfidenceScore),
			string(ev.FlowType),
			string(ev.Marketplace),
			string(ev.Carrier),
		}
		_ = writer.Write(record)
	}
	writer.Flush()
}

// ListWarehouses handles GET /api/warehouses
func (h *ManifestHandler) ListWarehouses(w http.ResponseWriter, r *http.Request) {
	principal, ok := auth.PrincipalFromContext(r.Context())
	if !ok {
		respondJSON(w, http.StatusUnauthorized, Response{Success: false, Error: "Missing principal"})
		return
	}

	warehouses, err := h.warehouses.FindAll(principal.TenantID)
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, Response{Success: true, Data: warehouses})
}

// RegisterRoutes registers all manifest routes
func (h *ManifestHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/api/manifests/start", auth.Middleware(h.StartManifest)).Methods("POST")
	router.HandleFunc("/api/manifests", auth.Middleware(h.ListManifests)).Methods("GET")
	router.HandleFunc("/api/manifests/{id}/close", auth.Middleware(h.CloseManifest)).Methods("POST")
	router.HandleFunc("/api/manifests/{id}/export.csv", auth.Middleware(h.ExportManifestCSV)).Methods("GET")
	router.HandleFunc("/api/manifests/{id}", auth.Middleware(h.GetManifest)).Methods("GET")
	router.HandleFunc("/api/warehouses", auth.Middleware(h.ListWarehouses)).Methods("GET")
}

// RegisterHealthCheck registers health check endpoint
func (h *ManifestHandler) RegisterHealthCheck(router *mux.Router, db *sql.DB) {
	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		if err := db.Ping(); err != nil {
			respondJSON(w, http.StatusServiceUnavailable, Response{
				Success: false,
				Error:   "Database unavailable",
			})
			return
		}
		respondJSON(w, http.StatusOK, Response{
			Success: true,
			Message: "Scan hub is healthy",
		})
	}).Methods("GET")
}

// respondError classifies domain errors into HTTP statuses. Storage
// error details are logged, never echoed.
func respondError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrManifestNotFound):
		respondJSON(w, http.StatusNotFound, Response{Success: false, Error: "Manifest not found"})
	case errors.Is(err, domain.ErrOpenManifestExists):
		respondJSON(w, http.StatusConflict, Response{Success: false, Error: err.Error()})
	case errors.Is(err, domain.ErrManifestAlreadyClosed):
		respondJSON(w, http.StatusConflict, Response{Success: false, Error: err.Error()})
	case errors.Is(err, domain.ErrWarehouseNotFound), errors.Is(err, domain.ErrWarehouseNotAuthorized):
		respondJSON(w, http.StatusBadRequest, Response{Success: false, Error: err.Error()})
	case domain.IsValidation(err):
		respondJSON(w, http.StatusBadRequest, Response{Success: false, Error: err.Error()})
	default:
		logError(r.Context(), err)
		respondJSON(w, http.StatusInternalServerError, Response{Success: false, Error: "Internal error"})
	}
}

func logError(ctx context.Context, err error) {
	logger.Error(ctx).Err(err).Msg("Request failed")
}

// respondJSON sends a JSON response
func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

func strOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func timeOrEmpty(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(time.RFC3339)
}

func floatOrEmpty(f *float64) string {
	if f == nil {
		return ""
	}
	return strconv.FormatFloat(*f, 'f', 4, 64)
}
