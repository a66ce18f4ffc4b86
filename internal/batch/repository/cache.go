package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/sarar-git/ecomops-mobile-app-backend/internal/batch/domain"
	"github.com/sarar-git/ecomops-mobile-app-backend/pkg/logger"
)

// CachedBatchRepository is a read-through cache over a BatchRepository.
// The durable store stays the source of truth: only terminal batches
// are cached, and a cache failure degrades to a direct read.
type CachedBatchRepository struct {
	inner domain.BatchRepository
	rdb   *redis.Client
	ttl   time.Duration
}

// NewCachedBatchRepository wraps a batch repository with a Redis cache
func NewCachedBatchRepository(inner domain.BatchRepository, rdb *redis.Client, ttl time.Duration) *CachedBatchRepository {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &CachedBatchRepository{inner: inner, rdb: rdb, ttl: ttl}
}

func cacheKey(tenantID, id string) string {
	return fmt.Sprintf("batch:%s:%s", tenantID, id)
}

// Create passes through to the durable store
func (r *CachedBatchRepository) Create(b *domain.BatchSubmission) error {
	return r.inner.Create(b)
}

// Finish passes through and invalidates the cached entry
func (r *CachedBatchRepository) Finish(tenantID, id string, manifestID string, processedScans, matchedOrders int, status domain.BatchStatus) error {
	if err := r.inner.Finish(tenantID, id, manifestID, processedScans, matchedOrders, status); err != nil {
		return err
	}
	if r.rdb != nil {
		if err := r.rdb.Del(context.Background(), cacheKey(tenantID, id)).Err(); err != nil {
			logger.Logger.Warn().Err(err).Str("batch_id", id).Msg("Failed to invalidate batch cache entry")
		}
	}
	return nil
}

// FindByID serves polling reads, caching terminal batches
func (r *CachedBatchRepository) FindByID(tenantID, id string) (*domain.BatchSubmission, error) {
	if r.rdb == nil {
		return r.inner.FindByID(tenantID, id)
	}

	ctx := context.Background()
	key := cacheKey(tenantID, id)

	if data, err := r.rdb.Get(ctx, key).Bytes(); err == nil && len(data) > 0 {
		var b domain.BatchSubmission
		if err := json.Unmarshal(data, &b); err == nil {
			return &b, nil
		}
	}

	b, err := r.inner.FindByID(tenantID, id)
	if err != nil {
		return nil, err
	}

	// Only terminal states are immutable enough to cache.
	if b.Status == domain.StatusCompleted || b.Status == domain.StatusFailed {
		if data, err := json.Marshal(b); err == nil {
			if err := r.rdb.Set(ctx, key, data, r.ttl).Err(); err != nil {
				logger.Logger.Warn().Err(err).Str("batch_id", id).Msg("Failed to cache batch status")
			}
		}
	}

	return b, nil
}
