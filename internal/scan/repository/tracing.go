package repository

import (
	"context"
	"errors"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	"github.com/sarar-git/ecomops-mobile-app-backend/internal/scan/domain"
)

var tracer = otel.Tracer("scan-repository")

// GormScanRepositoryWithTracing wraps GormScanRepository with tracing
type GormScanRepositoryWithTracing struct {
	*GormScanRepository
}

// NewGormScanRepositoryWithTracing creates a new repository with tracing
func NewGormScanRepositoryWithTracing(db *gorm.DB) *GormScanRepositoryWithTracing {
	return &GormScanRepositoryWithTracing{
		GormScanRepository: NewGormScanRepository(db),
	}
}

// InsertIdempotentWithContext performs the conditional insert with tracing.
// Duplicates are a normal outcome, not a span error.
func (r *GormScanRepositoryWithTracing) InsertIdempotentWithContext(ctx context.Context, ev *domain.ScanEvent) error {
	_, span := tracer.Start(ctx, "repository.InsertIdempotent",
		trace.WithAttributes(
			attribute.String("scan.manifest_id", ev.ManifestID),
			attribute.String("scan.barcode_type", string(ev.BarcodeType)),
		),
	)
	defer span.End()

	err := r.GormScanRepository.InsertIdempotent(ev)
	switch {
	case err == nil:
		span.SetAttributes(attribute.String("scan.outcome", string(domain.OutcomeInserted)))
	case errors.Is(err, domain.ErrDuplicateScan):
		span.SetAttributes(attribute.String("scan.outcome", string(domain.OutcomeDuplicate)))
	default:
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return err
}

// ListByManifestWithContext lists manifest scans with tracing
func (r *GormScanRepositoryWithTracing) ListByManifestWithContext(ctx context.Context, tenantID, manifestID string, limit, offset int) ([]domain.ScanEvent, int64, error) {
	_, span := tracer.Start(ctx, "repository.ListByManifest",
		trace.WithAttributes(
			attribute.String("scan.manifest_id", manifestID),
		),
	)
	defer span.End()

	events, total, err := r.GormScanRepository.ListByManifest(tenantID, manifestID, limit, offset)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, 0, err
	}

	span.SetAttributes(attribute.Int64("scan.total", total))
	return events, total, nil
}
