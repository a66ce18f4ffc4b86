package scan

import (
	"time"

	"github.com/google/wire"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	batchdomain "github.com/sarar-git/ecomops-mobile-app-backend/internal/batch/domain"
	batchrepository "github.com/sarar-git/ecomops-mobile-app-backend/internal/batch/repository"
	batchcommand "github.com/sarar-git/ecomops-mobile-app-backend/internal/batch/usecase/command"
	batchquery "github.com/sarar-git/ecomops-mobile-app-backend/internal/batch/usecase/query"
	manifestdomain "github.com/sarar-git/ecomops-mobile-app-backend/internal/manifest/domain"
	manifestrepository "github.com/sarar-git/ecomops-mobile-app-backend/internal/manifest/repository"
	manifestcommand "github.com/sarar-git/ecomops-mobile-app-backend/internal/manifest/usecase/command"
	"github.com/sarar-git/ecomops-mobile-app-backend/internal/scan/domain"
	"github.com/sarar-git/ecomops-mobile-app-backend/internal/scan/repository"
	"github.com/sarar-git/ecomops-mobile-app-backend/internal/scan/usecase/command"
	"github.com/sarar-git/ecomops-mobile-app-backend/internal/scan/usecase/query"
	whdomain "github.com/sarar-git/ecomops-mobile-app-backend/internal/warehouse/domain"
	whrepository "github.com/sarar-git/ecomops-mobile-app-backend/internal/warehouse/repository"
)

// Terminal batch statuses never change, so a short cache only has to
// absorb polling traffic.
const batchCacheTTL = 10 * time.Minute

// ProvideScanRepository provides the scan repository
func ProvideScanRepository(db *gorm.DB) domain.ScanRepository {
	return repository.NewGormScanRepositoryWithTracing(db)
}

// ProvideManifestRepository provides the manifest repository
func ProvideManifestRepository(db *gorm.DB) manifestdomain.ManifestRepository {
	return manifestrepository.NewGormManifestRepositoryWithTracing(db)
}

// ProvideWarehouseRepository provides the warehouse repository
func ProvideWarehouseRepository(db *gorm.DB) whdomain.WarehouseRepository {
	return whrepository.NewGormWarehouseRepository(db)
}

// ProvideBatchRepository provides the batch repository behind a
// read-through cache. A nil redis client degrades to direct reads.
func ProvideBatchRepository(db *gorm.DB, rdb *redis.Client) batchdomain.BatchRepository {
	return batchrepository.NewCachedBatchRepository(batchrepository.NewGormBatchRepository(db), rdb, batchCacheTTL)
}

// Command Handlers Providers
func ProvideResolveManifestHandler(manifests manifestdomain.ManifestRepository, warehouses whdomain.WarehouseRepository) *manifestcommand.ResolveManifestHandler {
	return manifestcommand.NewResolveManifestHandler(manifests, warehouses)
}

func ProvideIngestBatchHandler(
	scans domain.ScanRepository,
	manifests manifestdomain.ManifestRepository,
	resolver *manifestcommand.ResolveManifestHandler,
	defaults manifestdomain.ManifestDefaults,
) *command.IngestBatchHandler {
	return command.NewIngestBatchHandler(scans, manifests, resolver, defaults)
}

func ProvideCreateBatchHandler(batches batchdomain.BatchRepository) *batchcommand.CreateBatchHandler {
	return batchcommand.NewCreateBatchHandler(batches)
}

func ProvideFinishBatchHandler(batches batchdomain.BatchRepository) *batchcommand.FinishBatchHandler {
	return batchcommand.NewFinishBatchHandler(batches)
}

// Query Handlers Providers
func ProvideGetScanHandler(scans domain.ScanRepository) *query.GetScanHandler {
	return query.NewGetScanHandler(scans)
}

func ProvideListScansHandler(scans domain.ScanRepository, manifests manifestdomain.ManifestRepository) *query.ListScansHandler {
	return query.NewListScansHandler(scans, manifests)
}

func ProvideListOperatorScansHandler(scans domain.ScanRepository) *query.ListOperatorScansHandler {
	return query.NewListOperatorScansHandler(scans)
}

func ProvideGetBatchStatusHandler(batches batchdomain.BatchRepository) *batchquery.GetBatchStatusHandler {
	return batchquery.NewGetBatchStatusHandler(batches)
}

// Wire sets
var RepositorySet = wire.NewSet(
	ProvideScanRepository,
	ProvideManifestRepository,
	ProvideWarehouseRepository,
	ProvideBatchRepository,
)

var CommandSet = wire.NewSet(
	ProvideResolveManifestHandler,
	ProvideIngestBatchHandler,
	ProvideCreateBatchHandler,
	ProvideFinishBatchHandler,
)

var QuerySet = wire.NewSet(
	ProvideGetScanHandler,
	ProvideListScansHandler,
	ProvideListOperatorScansHandler,
	ProvideGetBatchStatusHandler,
)
