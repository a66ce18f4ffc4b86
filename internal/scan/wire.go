//go:build wireinject
// +build wireinject

package scan

import (
	"github.com/google/wire"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	manifestdomain "github.com/sarar-git/ecomops-mobile-app-backend/internal/manifest/domain"
	"github.com/sarar-git/ecomops-mobile-app-backend/internal/scan/delivery/http"
	"github.com/sarar-git/ecomops-mobile-app-backend/kafka"
)

// InitializeHTTPHandler initializes HTTP handler with all dependencies
func InitializeHTTPHandler(db *gorm.DB, rdb *redis.Client, defaults manifestdomain.ManifestDefaults, publisher *kafka.Publisher) (*http.ScanHandler, error) {
	wire.Build(
		RepositorySet,
		CommandSet,
		QuerySet,
		http.NewScanHandler,
	)
	return nil, nil
}
