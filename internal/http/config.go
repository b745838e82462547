package http

import (
	"github.com/mrlokans/dataadapter/internal/backend"
	"github.com/mrlokans/dataadapter/internal/database"
	"github.com/mrlokans/dataadapter/internal/diagnostics"
	"github.com/mrlokans/dataadapter/internal/metrics"
	"github.com/mrlokans/dataadapter/internal/scheduler"
	"github.com/mrlokans/dataadapter/internal/services"
)

// RouterConfig contains all dependencies and configuration needed
// to create the HTTP router.
type RouterConfig struct {
	// Core dependencies
	Catalog  *services.Catalog
	Selector *backend.Selector
	Database *database.Database

	// Diagnostics
	Checker        *diagnostics.Checker
	ProbeScheduler *scheduler.ProbeScheduler // optional

	// Metrics; nil disables /metrics
	Metrics *metrics.Metrics

	// Local bucket serving; empty UploadsDir disables it
	UploadsPath string
	UploadsDir  string

	// Application info
	Version string
}
