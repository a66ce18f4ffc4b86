package main

// @title Scan Hub Service API
// @version 1.0
// @description Manifest lifecycle and bulk barcode scan ingestion with full observability (logging, tracing, metrics)
// @termsOfService http://swagger.io/terms/

// @contact.name API Support
// @contact.url http://github.com/sarar-git/ecomops-mobile-app-backend
// @contact.email support@example.com

// @license.name MIT
// @license.url https://github.com/sarar-git/ecomops-mobile-app-backend/blob/main/LICENSE

// @host localhost:8085
// @BasePath /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

// @tag.name Manifests
// @tag.description Manifest lifecycle endpoints

// @tag.name Scans
// @tag.description Bulk scan ingestion and lookup endpoints

// @tag.name Health
// @tag.description Health check endpoints
