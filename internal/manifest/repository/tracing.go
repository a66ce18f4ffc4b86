package repository

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	"github.com/sarar-git/ecomops-mobile-app-backend/internal/manifest/domain"
)

var tracer = otel.Tracer("manifest-repository")

// GormManifestRepositoryWithTracing wraps GormManifestRepository with tracing
type GormManifestRepositoryWithTracing struct {
	*GormManifestRepository
}

// NewGormManifestRepositoryWithTracing creates a new repository with tracing
func NewGormManifestRepositoryWithTracing(db *gorm.DB) *GormManifestRepositoryWithTracing {
	return &GormManifestRepositoryWithTracing{
		GormManifestRepository: NewGormManifestRepository(db),
	}
}

// CreateOpenWithContext creates an OPEN manifest with tracing
func (r *GormManifestRepositoryWithTracing) CreateOpenWithContext(ctx context.Context, m *domain.Manifest) error {
	_, span := tracer.Start(ctx, "repository.CreateOpen",
		trace.WithAttributes(
			attribute.String("manifest.tenant_id", m.TenantID),
			attribute.String("manifest.warehouse_id", m.WarehouseID),
			attribute.String("manifest.flow_type", string(m.FlowType)),
		),
	)
	defer span.End()

	err := r.GormManifestRepository.CreateOpen(m)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	span.SetAttributes(attribute.String("manifest.id", m.ID))
	return nil
}

// FindByIDWithContext retrieves a manifest with tracing
func (r *GormManifestRepositoryWithTracing) FindByIDWithContext(ctx context.Context, tenantID, id string) (*domain.Manifest, error) {
	_, span := tracer.Start(ctx, "repository.FindByID",
		trace.WithAttributes(
			attribute.String("manifest.id", id),
		),
	)
	defer span.End()

	m, err := r.GormManifestRepository.FindByID(tenantID, id)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetAttributes(
		attribute.String("manifest.status", string(m.Status)),
		attribute.Int("manifest.total_packets", m.TotalPackets),
	)
	return m, nil
}

// CloseIfOpenWithContext performs the conditional close with tracing
func (r *GormManifestRepositoryWithTracing) CloseIfOpenWithContext(ctx context.Context, tenantID, id string, closedAt time.Time) (int64, error) {
	_, span := tracer.Start(ctx, "repository.CloseIfOpen",
		trace.WithAttributes(
			attribute.String("manifest.id", id),
		),
	)
	defer span.End()

	rows, err := r.GormManifestRepository.CloseIfOpen(tenantID, id, closedAt)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return 0, err
	}

	span.SetAttributes(attribute.Int64("manifest.rows_transitioned", rows))
	return rows, nil
}
