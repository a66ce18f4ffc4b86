//go:build wireinject
// +build wireinject

package manifest

import (
	"github.com/google/wire"
	"gorm.io/gorm"

	"github.com/sarar-git/ecomops-mobile-app-backend/internal/manifest/delivery/http"
	"github.com/sarar-git/ecomops-mobile-app-backend/kafka"
)

// InitializeHTTPHandler initializes HTTP handler with all dependencies
func InitializeHTTPHandler(db *gorm.DB, publisher *kafka.Publisher) (*http.ManifestHandler, error) {
	wire.Build(
		RepositorySet,
		CommandSet,
		QuerySet,
		http.NewManifestHandler,
	)
	return nil, nil
}
