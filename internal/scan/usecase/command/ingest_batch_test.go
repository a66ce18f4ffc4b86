package command

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	manifestdomain "github.com/sarar-git/ecomops-mobile-app-backend/internal/manifest/domain"
	manifestcommand "github.com/sarar-git/ecomops-mobile-app-backend/internal/manifest/usecase/command"
	"github.com/sarar-git/ecomops-mobile-app-backend/internal/scan/domain"
	whdomain "github.com/sarar-git/ecomops-mobile-app-backend/internal/warehouse/domain"
)

type memManifestRepo struct {
	mu   sync.Mutex
	rows map[string]*manifestdomain.Manifest
}

func newMemManifestRepo() *memManifestRepo {
	return &memManifestRepo{rows: make(map[string]*manifestdomain.Manifest)}
}

func (r *memManifestRepo) addOpen(id, tenantID, warehouseID string) *manifestdomain.Manifest {
	m := &manifestdomain.Manifest{
		ID:           id,
		TenantID:     tenantID,
		WarehouseID:  warehouseID,
		ManifestDate: time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC),
		Shift:        manifestdomain.ShiftMorning,
		Marketplace:  manifestdomain.MarketplaceAmazon,
		Carrier:      manifestdomain.CarrierDelhivery,
		FlowType:     manifestdomain.FlowDispatch,
		Status:       manifestdomain.StatusOpen,
	}
	r.rows[id] = m
	return m
}

func sameTuple(m *manifestdomain.Manifest, key manifestdomain.RoutingKey) bool {
	return m.TenantID == key.TenantID &&
		m.WarehouseID == key.WarehouseID &&
		m.ManifestDate.Format("2006-01-02") == key.ManifestDate.Format("2006-01-02") &&
		m.Shift == key.Shift &&
		m.Marketplace == key.Marketplace &&
		m.Carrier == key.Carrier &&
		m.FlowType == key.FlowType
}

func (r *memManifestRepo) CreateOpen(m *manifestdomain.Manifest) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := manifestdomain.RoutingKey{
		TenantID: m.TenantID, WarehouseID: m.WarehouseID, ManifestDate: m.ManifestDate,
		Shift: m.Shift, Marketplace: m.Marketplace, Carrier: m.Carrier, FlowType: m.FlowType,
	}
	for _, existing := range r.rows {
		if existing.Status == manifestdomain.StatusOpen && sameTuple(existing, key) {
			return manifestdomain.ErrOpenManifestExists
		}
	}
	cp := *m
	r.rows[m.ID] = &cp
	return nil
}

func (r *memManifestRepo) FindByID(tenantID, id string) (*manifestdomain.Manifest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.rows[id]
	if !ok || m.TenantID != tenantID {
		return nil, manifestdomain.ErrManifestNotFound
	}
	cp := *m
	return &cp, nil
}

func (r *memManifestRepo) FindOpenByRoutingKey(key manifestdomain.RoutingKey) (*manifestdomain.Manifest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, m := range r.rows {
		if m.Status == manifestdomain.StatusOpen && sameTuple(m, key) {
			cp := *m
			return &cp, nil
		}
	}
	return nil, manifestdomain.ErrManifestNotFound
}

func (r *memManifestRepo) CloseIfOpen(tenantID, id string, closedAt time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.rows[id]
	if !ok || m.TenantID != tenantID || m.Status != manifestdomain.StatusOpen {
		return 0, nil
	}
	m.Status = manifestdomain.StatusClosed
	m.ClosedAt = &closedAt
	return 1, nil
}

func (r *memManifestRepo) AddPackets(tenantID, id string, delta int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.rows[id]
	if !ok || m.TenantID != tenantID {
		return manifestdomain.ErrManifestNotFound
	}
	m.TotalPackets += delta
	return nil
}

func (r *memManifestRepo) List(tenantID string, filter manifestdomain.ManifestFilter) ([]manifestdomain.Manifest, int64, error) {
	return nil, 0, nil
}

// memScanRepo mirrors the constraint-enforced insert: status and
// duplicates are both checked inside the one InsertIdempotent call.
type memScanRepo struct {
	mu        sync.Mutex
	manifests *memManifestRepo
	rows      map[string]*domain.ScanEvent

	// closeManifestAfter closes the manifest after N successful inserts,
	// simulating a concurrent close mid-batch.
	closeManifestAfter int
	inserts            int
}

func newMemScanRepo(manifests *memManifestRepo) *memScanRepo {
	return &memScanRepo{
		manifests:          manifests,
		rows:               make(map[string]*domain.ScanEvent),
		closeManifestAfter: -1,
	}
}

func scanKey(manifestID, barcode string) string {
	return manifestID + "|" + barcode
}

func (r *memScanRepo) InsertIdempotent(ev *domain.ScanEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.manifests.mu.Lock()
	m, ok := r.manifests.rows[ev.ManifestID]
	open := ok && m.TenantID == ev.TenantID && m.Status == manifestdomain.StatusOpen
	r.manifests.mu.Unlock()

	if existing, dup := r.rows[scanKey(ev.ManifestID, ev.BarcodeValue)]; dup {
		ev.ID = existing.ID
		return domain.ErrDuplicateScan
	}
	if !open {
		return domain.ErrManifestNotOpen
	}

	ev.WarehouseID = m.WarehouseID
	ev.FlowType = m.FlowType
	ev.Marketplace = m.Marketplace
	ev.Carrier = m.Carrier
	cp := *ev
	r.rows[scanKey(ev.ManifestID, ev.BarcodeValue)] = &cp

	r.inserts++
	if r.closeManifestAfter >= 0 && r.inserts >= r.closeManifestAfter {
		r.manifests.mu.Lock()
		m.Status = manifestdomain.StatusClosed
		r.manifests.mu.Unlock()
	}
	return nil
}

func (r *memScanRepo) FindByID(tenantID, id string) (*domain.ScanEvent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, ev := range r.rows {
		if ev.ID == id && ev.TenantID == tenantID {
			cp := *ev
			return &cp, nil
		}
	}
	return nil, domain.ErrScanEventNotFound
}

func (r *memScanRepo) ListByManifest(tenantID, manifestID string, limit, offset int) ([]domain.ScanEvent, int64, error) {
	events, err := r.ListForExport(tenantID, manifestID)
	return events, int64(len(events)), err
}

func (r *memScanRepo) ListForExport(tenantID, manifestID string) ([]domain.ScanEvent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.ScanEvent
	for _, ev := range r.rows {
		if ev.TenantID == tenantID && ev.ManifestID == manifestID {
			out = append(out, *ev)
		}
	}
	return out, nil
}

func (r *memScanRepo) ListByOperator(tenantID, operatorID string, limit, offset int) ([]domain.ScanEvent, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.ScanEvent
	for _, ev := range r.rows {
		if ev.TenantID == tenantID && ev.OperatorID == operatorID {
			out = append(out, *ev)
		}
	}
	return out, int64(len(out)), nil
}

func (r *memScanRepo) CountByManifest(tenantID, manifestID string) (int64, error) {
	events, err := r.ListForExport(tenantID, manifestID)
	return int64(len(events)), err
}

type memWarehouseRepo struct {
	tenantID string
	ids      map[string]bool
}

func (r *memWarehouseRepo) FindByID(tenantID, id string) (*whdomain.Warehouse, error) {
	if tenantID != r.tenantID || !r.ids[id] {
		return nil, manifestdomain.ErrWarehouseNotFound
	}
	return &whdomain.Warehouse{ID: id, TenantID: tenantID}, nil
}

func (r *memWarehouseRepo) FindAll(tenantID string) ([]whdomain.Warehouse, error) {
	return nil, nil
}

func testDefaults() manifestdomain.ManifestDefaults {
	return manifestdomain.ManifestDefaults{
		Shift:       manifestdomain.ShiftMorning,
		Marketplace: manifestdomain.MarketplaceAmazon,
		Carrier:     manifestdomain.CarrierDelhivery,
	}
}

func newTestHandler(manifests *memManifestRepo, scans *memScanRepo) *IngestBatchHandler {
	warehouses := &memWarehouseRepo{tenantID: "tenant-1", ids: map[string]bool{"wh-1": true}}
	resolver := manifestcommand.NewResolveManifestHandler(manifests, warehouses)
	return NewIngestBatchHandler(scans, manifests, resolver, testDefaults())
}

func scansOf(barcodes ...string) []domain.ScanInput {
	out := make([]domain.ScanInput, 0, len(barcodes))
	for _, b := range barcodes {
		out = append(out, domain.ScanInput{BarcodeValue: b, BarcodeType: domain.BarcodeCode128})
	}
	return out
}

func TestIngestBatchInsertsAndCounts(t *testing.T) {
	manifests := newMemManifestRepo()
	manifests.addOpen("mf-1", "tenant-1", "wh-1")
	scans := newMemScanRepo(manifests)
	handler := newTestHandler(manifests, scans)

	result, err := handler.Handle(IngestBatchCommand{
		TenantID:   "tenant-1",
		OperatorID: "op-1",
		ManifestID: "mf-1",
		Scans:      scansOf("PKT-001", "PKT-002", "PKT-003"),
	})
	require.NoError(t, err)

	assert.Equal(t, "mf-1", result.ManifestID)
	assert.Equal(t, 3, result.TotalSubmitted)
	assert.Equal(t, 3, result.InsertedCount)
	assert.Zero(t, result.DuplicateCount)
	assert.Zero(t, result.RejectedCount)

	require.Len(t, result.Results, 3)
	for i, barcode := range []string{"PKT-001", "PKT-002", "PKT-003"} {
		assert.Equal(t, barcode, result.Results[i].BarcodeValue)
		assert.Equal(t, domain.OutcomeInserted, result.Results[i].Outcome)
		assert.NotEmpty(t, result.Results[i].ScanEventID)
	}

	m, err := manifests.FindByID("tenant-1", "mf-1")
	require.NoError(t, err)
	assert.Equal(t, 3, m.TotalPackets)
}

func TestIngestBatchDuplicateWithinBatch(t *testing.T) {
	manifests := newMemManifestRepo()
	manifests.addOpen("mf-1", "tenant-1", "wh-1")
	scans := newMemScanRepo(manifests)
	handler := newTestHandler(manifests, scans)

	result, err := handler.Handle(IngestBatchCommand{
		TenantID:   "tenant-1",
		OperatorID: "op-1",
		ManifestID: "mf-1",
		Scans:      scansOf("PKT-001", "PKT-001", "PKT-002"),
	})
	require.NoError(t, err)

	assert.Equal(t, 2, result.InsertedCount)
	assert.Equal(t, 1, result.DuplicateCount)
	assert.Equal(t, domain.OutcomeInserted, result.Results[0].Outcome)
	assert.Equal(t, domain.OutcomeDuplicate, result.Results[1].Outcome)
	// The duplicate reports the surviving row's id.
	assert.Equal(t, result.Results[0].ScanEventID, result.Results[1].ScanEventID)

	m, _ := manifests.FindByID("tenant-1", "mf-1")
	assert.Equal(t, 2, m.TotalPackets)
}

func TestIngestBatchRetrySafe(t *testing.T) {
	manifests := newMemManifestRepo()
	manifests.addOpen("mf-1", "tenant-1", "wh-1")
	scans := newMemScanRepo(manifests)
	handler := newTestHandler(manifests, scans)

	cmd := IngestBatchCommand{
		TenantID:   "tenant-1",
		OperatorID: "op-1",
		ManifestID: "mf-1",
		Scans:      scansOf("PKT-001", "PKT-002"),
	}

	first, err := handler.Handle(cmd)
	require.NoError(t, err)
	require.Equal(t, 2, first.InsertedCount)

	// A client retry after a timeout re-submits everything; nothing is
	// double-inserted and the counter does not move again.
	second, err := handler.Handle(cmd)
	require.NoError(t, err)
	assert.Zero(t, second.InsertedCount)
	assert.Equal(t, 2, second.DuplicateCount)

	m, _ := manifests.FindByID("tenant-1", "mf-1")
	assert.Equal(t, 2, m.TotalPackets)
}

func TestIngestBatchPerItemIsolation(t *testing.T) {
	manifests := newMemManifestRepo()
	manifests.addOpen("mf-1", "tenant-1", "wh-1")
	scans := newMemScanRepo(manifests)
	handler := newTestHandler(manifests, scans)

	conf := 1.5
	result, err := handler.Handle(IngestBatchCommand{
		TenantID:   "tenant-1",
		OperatorID: "op-1",
		ManifestID: "mf-1",
		Scans: []domain.ScanInput{
			{BarcodeValue: "PKT-001"},
			{BarcodeValue: ""},
			{BarcodeValue: "PKT-002", BarcodeType: "BARCODE9000"},
			{BarcodeValue: "PKT-003", ConfidenceScore: &conf},
			{BarcodeValue: "PKT-004"},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, 2, result.InsertedCount)
	assert.Equal(t, 3, result.RejectedCount)

	assert.Equal(t, domain.OutcomeInserted, result.Results[0].Outcome)
	assert.Equal(t, domain.ReasonEmptyBarcode, result.Results[1].Reason)
	assert.Equal(t, domain.ReasonInvalidBarcodeType, result.Results[2].Reason)
	assert.Equal(t, domain.ReasonConfidenceOutOfRange, result.Results[3].Reason)
	assert.Equal(t, domain.OutcomeInserted, result.Results[4].Outcome)

	m, _ := manifests.FindByID("tenant-1", "mf-1")
	assert.Equal(t, 2, m.TotalPackets)
}

func TestIngestBatchClosedManifestRejectsAll(t *testing.T) {
	manifests := newMemManifestRepo()
	m := manifests.addOpen("mf-1", "tenant-1", "wh-1")
	m.Status = manifestdomain.StatusClosed
	scans := newMemScanRepo(manifests)
	handler := newTestHandler(manifests, scans)

	result, err := handler.Handle(IngestBatchCommand{
		TenantID:   "tenant-1",
		OperatorID: "op-1",
		ManifestID: "mf-1",
		Scans:      scansOf("PKT-001", "PKT-002"),
	})
	require.NoError(t, err)

	assert.Equal(t, 2, result.RejectedCount)
	assert.Zero(t, result.InsertedCount)
	for _, item := range result.Results {
		assert.Equal(t, domain.OutcomeRejected, item.Outcome)
		assert.Equal(t, domain.ReasonManifestClosed, item.Reason)
	}
	assert.Empty(t, scans.rows)
}

func TestIngestBatchManifestClosedMidBatch(t *testing.T) {
	manifests := newMemManifestRepo()
	manifests.addOpen("mf-1", "tenant-1", "wh-1")
	scans := newMemScanRepo(manifests)
	scans.closeManifestAfter = 1
	handler := newTestHandler(manifests, scans)

	result, err := handler.Handle(IngestBatchCommand{
		TenantID:   "tenant-1",
		OperatorID: "op-1",
		ManifestID: "mf-1",
		Scans:      scansOf("PKT-001", "PKT-002", "PKT-003"),
	})
	require.NoError(t, err)

	// The insert that landed stays committed; later items are rejected.
	assert.Equal(t, 1, result.InsertedCount)
	assert.Equal(t, 2, result.RejectedCount)
	assert.Equal(t, domain.OutcomeInserted, result.Results[0].Outcome)
	assert.Equal(t, domain.ReasonManifestClosed, result.Results[1].Reason)
	assert.Equal(t, domain.ReasonManifestClosed, result.Results[2].Reason)

	m, _ := manifests.FindByID("tenant-1", "mf-1")
	assert.Equal(t, 1, m.TotalPackets)
}

func TestIngestBatchTenantScoping(t *testing.T) {
	manifests := newMemManifestRepo()
	manifests.addOpen("mf-1", "tenant-1", "wh-1")
	scans := newMemScanRepo(manifests)
	handler := newTestHandler(manifests, scans)

	_, err := handler.Handle(IngestBatchCommand{
		TenantID:   "tenant-2",
		OperatorID: "op-1",
		ManifestID: "mf-1",
		Scans:      scansOf("PKT-001"),
	})
	assert.ErrorIs(t, err, manifestdomain.ErrManifestNotFound)
}

func TestIngestBatchEmptyRejected(t *testing.T) {
	manifests := newMemManifestRepo()
	manifests.addOpen("mf-1", "tenant-1", "wh-1")
	handler := newTestHandler(manifests, newMemScanRepo(manifests))

	_, err := handler.Handle(IngestBatchCommand{
		TenantID:   "tenant-1",
		ManifestID: "mf-1",
	})
	assert.True(t, manifestdomain.IsValidation(err))
}

func TestIngestBatchAutoModeResolves(t *testing.T) {
	manifests := newMemManifestRepo()
	scans := newMemScanRepo(manifests)
	handler := newTestHandler(manifests, scans)

	cmd := IngestBatchCommand{
		TenantID:   "tenant-1",
		OperatorID: "op-1",
		Auto: &AutoRoute{
			WarehouseID:  "wh-1",
			FlowType:     manifestdomain.FlowDispatch,
			ManifestDate: time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC),
		},
		Scans: scansOf("PKT-001"),
	}

	first, err := handler.Handle(cmd)
	require.NoError(t, err)
	require.NotEmpty(t, first.ManifestID)

	created, err := manifests.FindByID("tenant-1", first.ManifestID)
	require.NoError(t, err)
	assert.Equal(t, manifestdomain.ShiftMorning, created.Shift)
	assert.Equal(t, manifestdomain.MarketplaceAmazon, created.Marketplace)
	assert.Equal(t, manifestdomain.CarrierDelhivery, created.Carrier)

	// The same route lands in the same manifest, not a new one.
	cmd.Scans = scansOf("PKT-002")
	second, err := handler.Handle(cmd)
	require.NoError(t, err)
	assert.Equal(t, first.ManifestID, second.ManifestID)
}

func TestIngestBatchDenormalizesAndStampsServerTime(t *testing.T) {
	manifests := newMemManifestRepo()
	manifests.addOpen("mf-1", "tenant-1", "wh-1")
	scans := newMemScanRepo(manifests)
	handler := newTestHandler(manifests, scans)

	clientTime := time.Date(2026, 3, 14, 9, 30, 0, 0, time.FixedZone("IST", 5*3600+1800))
	before := time.Now().UTC()
	result, err := handler.Handle(IngestBatchCommand{
		TenantID:   "tenant-1",
		OperatorID: "op-1",
		ManifestID: "mf-1",
		Scans: []domain.ScanInput{{
			BarcodeValue:   "PKT-001",
			ScannedAtLocal: &clientTime,
		}},
	})
	require.NoError(t, err)
	after := time.Now().UTC()

	ev, err := scans.FindByID("tenant-1", result.Results[0].ScanEventID)
	require.NoError(t, err)
	assert.Equal(t, "wh-1", ev.WarehouseID)
	assert.Equal(t, manifestdomain.FlowDispatch, ev.FlowType)
	assert.Equal(t, domain.BarcodeUnknown, ev.BarcodeType)
	require.NotNil(t, ev.ScannedAtLocal)
	assert.True(t, ev.ScannedAtLocal.Equal(clientTime))
	assert.False(t, ev.ScannedAtUTC.Before(before))
	assert.False(t, ev.ScannedAtUTC.After(after))
}
