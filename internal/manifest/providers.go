package manifest

import (
	"github.com/google/wire"
	"gorm.io/gorm"

	"github.com/sarar-git/ecomops-mobile-app-backend/internal/manifest/domain"
	"github.com/sarar-git/ecomops-mobile-app-backend/internal/manifest/repository"
	"github.com/sarar-git/ecomops-mobile-app-backend/internal/manifest/usecase/command"
	"github.com/sarar-git/ecomops-mobile-app-backend/internal/manifest/usecase/query"
	scandomain "github.com/sarar-git/ecomops-mobile-app-backend/internal/scan/domain"
	scanrepository "github.com/sarar-git/ecomops-mobile-app-backend/internal/scan/repository"
	scanquery "github.com/sarar-git/ecomops-mobile-app-backend/internal/scan/usecase/query"
	whdomain "github.com/sarar-git/ecomops-mobile-app-backend/internal/warehouse/domain"
	whrepository "github.com/sarar-git/ecomops-mobile-app-backend/internal/warehouse/repository"
)

// ProvideManifestRepository provides the manifest repository
func ProvideManifestRepository(db *gorm.DB) domain.ManifestRepository {
	return repository.NewGormManifestRepositoryWithTracing(db)
}

// ProvideWarehouseRepository provides the warehouse repository
func ProvideWarehouseRepository(db *gorm.DB) whdomain.WarehouseRepository {
	return whrepository.NewGormWarehouseRepository(db)
}

// ProvideScanRepository provides the scan repository for CSV export
func ProvideScanRepository(db *gorm.DB) scandomain.ScanRepository {
	return scanrepository.NewGormScanRepositoryWithTracing(db)
}

// Command Handlers Providers
func ProvideStartManifestHandler(repo domain.ManifestRepository, warehouses whdomain.WarehouseRepository) *command.StartManifestHandler {
	return command.NewStartManifestHandler(repo, warehouses)
}

func ProvideCloseManifestHandler(repo domain.ManifestRepository) *command.CloseManifestHandler {
	return command.NewCloseManifestHandler(repo)
}

// Query Handlers Providers
func ProvideGetManifestHandler(repo domain.ManifestRepository) *query.GetManifestHandler {
	return query.NewGetManifestHandler(repo)
}

func ProvideListManifestsHandler(repo domain.ManifestRepository) *query.ListManifestsHandler {
	return query.NewListManifestsHandler(repo)
}

func ProvideListScansHandler(scans scandomain.ScanRepository, repo domain.ManifestRepository) *scanquery.ListScansHandler {
	return scanquery.NewListScansHandler(scans, repo)
}

// Wire sets
var RepositorySet = wire.NewSet(
	ProvideManifestRepository,
	ProvideWarehouseRepository,
	ProvideScanRepository,
)

var CommandSet = wire.NewSet(
	ProvideStartManifestHandler,
	ProvideCloseManifestHandler,
)

var QuerySet = wire.NewSet(
	ProvideGetManifestHandler,
	ProvideListManifestsHandler,
	ProvideListScansHandler,
)
