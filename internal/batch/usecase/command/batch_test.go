package command

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sarar-git/ecomops-mobile-app-backend/internal/batch/domain"
	manifestdomain "github.com/sarar-git/ecomops-mobile-app-backend/internal/manifest/domain"
)

type memBatchRepo struct {
	mu   sync.Mutex
	rows map[string]*domain.BatchSubmission
}

func newMemBatchRepo() *memBatchRepo {
	return &memBatchRepo{rows: make(map[string]*domain.BatchSubmission)}
}

func (r *memBatchRepo) Create(b *domain.BatchSubmission) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	b.CreatedAt = time.Now().UTC()
	cp := *b
	r.rows[b.ID] = &cp
	return nil
}

func (r *memBatchRepo) Finish(tenantID, id string, manifestID string, processedScans, matchedOrders int, status domain.BatchStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.rows[id]
	if !ok || b.TenantID != tenantID {
		return domain.ErrBatchNotFound
	}
	if manifestID != "" {
		b.ManifestID = &manifestID
	}
	b.ProcessedScans = processedScans
	b.MatchedOrders = matchedOrders
	b.Status = status
	now := time.Now().UTC()
	b.CompletedAt = &now
	return nil
}

func (r *memBatchRepo) FindByID(tenantID, id string) (*domain.BatchSubmission, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.rows[id]
	if !ok || b.TenantID != tenantID {
		return nil, domain.ErrBatchNotFound
	}
	cp := *b
	return &cp, nil
}

func TestCreateBatchStartsProcessing(t *testing.T) {
	repo := newMemBatchRepo()
	handler := NewCreateBatchHandler(repo)

	name := "morning run"
	b, err := handler.Handle(CreateBatchCommand{
		TenantID:   "tenant-1",
		BatchName:  &name,
		ScanType:   manifestdomain.FlowDispatch,
		TotalScans: 25,
	})
	require.NoError(t, err)

	assert.NotEmpty(t, b.ID)
	assert.Equal(t, domain.StatusProcessing, b.Status)
	assert.Equal(t, 25, b.TotalScans)
	assert.Zero(t, b.ProcessedScans)
	assert.Nil(t, b.ManifestID)
}

func TestCreateBatchValidation(t *testing.T) {
	handler := NewCreateBatchHandler(newMemBatchRepo())

	_, err := handler.Handle(CreateBatchCommand{
		TenantID:   "tenant-1",
		ScanType:   "SIDEWAYS",
		TotalScans: 1,
	})
	assert.True(t, manifestdomain.IsValidation(err))

	_, err = handler.Handle(CreateBatchCommand{
		TenantID: "tenant-1",
		ScanType: manifestdomain.FlowDispatch,
	})
	assert.True(t, manifestdomain.IsValidation(err))
}

func TestFinishBatchRecordsTerminalState(t *testing.T) {
	repo := newMemBatchRepo()
	create := NewCreateBatchHandler(repo)
	finish := NewFinishBatchHandler(repo)

	b, err := create.Handle(CreateBatchCommand{
		TenantID:   "tenant-1",
		ScanType:   manifestdomain.FlowDispatch,
		TotalScans: 10,
	})
	require.NoError(t, err)

	require.NoError(t, finish.Handle(FinishBatchCommand{
		TenantID:       "tenant-1",
		BatchID:        b.ID,
		ManifestID:     "mf-1",
		ProcessedScans: 8,
		MatchedOrders:  8,
		Status:         domain.StatusCompleted,
	}))

	got, err := repo.FindByID("tenant-1", b.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCompleted, got.Status)
	assert.Equal(t, 8, got.ProcessedScans)
	require.NotNil(t, got.ManifestID)
	assert.Equal(t, "mf-1", *got.ManifestID)
	assert.NotNil(t, got.CompletedAt)
}

func TestFinishBatchScopedToTenant(t *testing.T) {
	repo := newMemBatchRepo()
	create := NewCreateBatchHandler(repo)
	finish := NewFinishBatchHandler(repo)

	b, err := create.Handle(CreateBatchCommand{
		TenantID:   "tenant-1",
		ScanType:   manifestdomain.FlowDispatch,
		TotalScans: 10,
	})
	require.NoError(t, err)

	err = finish.Handle(FinishBatchCommand{
		TenantID:       "tenant-2",
		BatchID:        b.ID,
		ProcessedScans: 10,
		Status:         domain.StatusCompleted,
	})
	assert.ErrorIs(t, err, domain.ErrBatchNotFound)

	got, err := repo.FindByID("tenant-1", b.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusProcessing, got.Status)
	assert.Nil(t, got.CompletedAt)
}

func TestFinishBatchRequiresTerminalStatus(t *testing.T) {
	finish := NewFinishBatchHandler(newMemBatchRepo())

	err := finish.Handle(FinishBatchCommand{
		BatchID: "b-1",
		Status:  domain.StatusProcessing,
	})
	assert.True(t, manifestdomain.IsValidation(err))
}
