package query

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	manifestdomain "github.com/sarar-git/ecomops-mobile-app-backend/internal/manifest/domain"
	"github.com/sarar-git/ecomops-mobile-app-backend/internal/scan/domain"
)

type stubManifestRepo struct {
	manifest *manifestdomain.Manifest
}

func (r *stubManifestRepo) CreateOpen(m *manifestdomain.Manifest) error { return nil }

func (r *stubManifestRepo) FindByID(tenantID, id string) (*manifestdomain.Manifest, error) {
	if r.manifest == nil || r.manifest.ID != id || r.manifest.TenantID != tenantID {
		return nil, manifestdomain.ErrManifestNotFound
	}
	return r.manifest, nil
}

func (r *stubManifestRepo) FindOpenByRoutingKey(key manifestdomain.RoutingKey) (*manifestdomain.Manifest, error) {
	return nil, manifestdomain.ErrManifestNotFound
}

func (r *stubManifestRepo) CloseIfOpen(tenantID, id string, closedAt time.Time) (int64, error) {
	return 0, nil
}

func (r *stubManifestRepo) AddPackets(tenantID, id string, delta int) error { return nil }

func (r *stubManifestRepo) List(tenantID string, filter manifestdomain.ManifestFilter) ([]manifestdomain.Manifest, int64, error) {
	return nil, 0, nil
}

type stubScanRepo struct {
	events    []domain.ScanEvent
	gotLimit  int
	gotOffset int
}

func (r *stubScanRepo) InsertIdempotent(ev *domain.ScanEvent) error { return nil }

func (r *stubScanRepo) FindByID(tenantID, id string) (*domain.ScanEvent, error) {
	for i := range r.events {
		if r.events[i].ID == id && r.events[i].TenantID == tenantID {
			return &r.events[i], nil
		}
	}
	return nil, domain.ErrScanEventNotFound
}

func (r *stubScanRepo) ListByManifest(tenantID, manifestID string, limit, offset int) ([]domain.ScanEvent, int64, error) {
	r.gotLimit = limit
	r.gotOffset = offset
	return r.events, int64(len(r.events)), nil
}

func (r *stubScanRepo) ListForExport(tenantID, manifestID string) ([]domain.ScanEvent, error) {
	return r.events, nil
}

func (r *stubScanRepo) ListByOperator(tenantID, operatorID string, limit, offset int) ([]domain.ScanEvent, int64, error) {
	var out []domain.ScanEvent
	for _, ev := range r.events {
		if ev.TenantID == tenantID && ev.OperatorID == operatorID {
			out = append(out, ev)
		}
	}
	return out, int64(len(out)), nil
}

func (r *stubScanRepo) CountByManifest(tenantID, manifestID string) (int64, error) {
	return int64(len(r.events)), nil
}

func openManifest() *manifestdomain.Manifest {
	return &manifestdomain.Manifest{ID: "mf-1", TenantID: "tenant-1", Status: manifestdomain.StatusOpen}
}

func TestListScansRequiresVisibleManifest(t *testing.T) {
	scans := &stubScanRepo{}
	handler := NewListScansHandler(scans, &stubManifestRepo{manifest: openManifest()})

	_, err := handler.Handle(ListScansQuery{TenantID: "tenant-2", ManifestID: "mf-1"})
	assert.ErrorIs(t, err, manifestdomain.ErrManifestNotFound)

	_, err = handler.Handle(ListScansQuery{TenantID: "tenant-1"})
	assert.True(t, manifestdomain.IsValidation(err))

	result, err := handler.Handle(ListScansQuery{TenantID: "tenant-1", ManifestID: "mf-1"})
	require.NoError(t, err)
	assert.Zero(t, result.Total)
}

func TestListScansCapsPageSize(t *testing.T) {
	scans := &stubScanRepo{}
	handler := NewListScansHandler(scans, &stubManifestRepo{manifest: openManifest()})

	_, err := handler.Handle(ListScansQuery{TenantID: "tenant-1", ManifestID: "mf-1", Limit: 9999})
	require.NoError(t, err)
	assert.Equal(t, 500, scans.gotLimit)

	_, err = handler.Handle(ListScansQuery{TenantID: "tenant-1", ManifestID: "mf-1"})
	require.NoError(t, err)
	assert.Equal(t, 100, scans.gotLimit)
}

func TestListOperatorScans(t *testing.T) {
	scans := &stubScanRepo{events: []domain.ScanEvent{
		{ID: "ev-1", TenantID: "tenant-1", OperatorID: "op-1"},
		{ID: "ev-2", TenantID: "tenant-1", OperatorID: "op-2"},
	}}
	handler := NewListOperatorScansHandler(scans)

	result, err := handler.Handle(ListOperatorScansQuery{TenantID: "tenant-1", OperatorID: "op-1"})
	require.NoError(t, err)
	require.Len(t, result.Events, 1)
	assert.Equal(t, "ev-1", result.Events[0].ID)

	_, err = handler.Handle(ListOperatorScansQuery{TenantID: "tenant-1"})
	assert.True(t, manifestdomain.IsValidation(err))
}

func TestGetScanTenantScoped(t *testing.T) {
	scans := &stubScanRepo{events: []domain.ScanEvent{
		{ID: "ev-1", TenantID: "tenant-1", OperatorID: "op-1"},
	}}
	handler := NewGetScanHandler(scans)

	ev, err := handler.Handle(GetScanQuery{TenantID: "tenant-1", ScanEventID: "ev-1"})
	require.NoError(t, err)
	assert.Equal(t, "ev-1", ev.ID)

	_, err = handler.Handle(GetScanQuery{TenantID: "tenant-2", ScanEventID: "ev-1"})
	assert.ErrorIs(t, err, domain.ErrScanEventNotFound)
}
