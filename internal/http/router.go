package http

import (
	"github.com/gin-gonic/gin"
)

// NewRouter creates and configures the HTTP router with all endpoints.
func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	health := NewHealthController(cfg.Database, cfg.Selector, cfg.Version)
	router.GET("/health", health.Status)

	if cfg.Metrics != nil {
		router.GET("/metrics", gin.WrapH(cfg.Metrics.Handler()))
	}

	if cfg.UploadsDir != "" {
		path := cfg.UploadsPath
		if path == "" {
			path = "/uploads"
		}
		router.Static(path, cfg.UploadsDir)
	}

	api := router.Group("/api")
	api.Use(DataSourceMiddleware())

	backends := NewBackendController(cfg.Selector, cfg.Checker, cfg.ProbeScheduler)
	api.GET("/backend", backends.Get)
	api.PUT("/backend", backends.Set)
	api.POST("/backend/probe", backends.Probe)

	if c := cfg.Catalog; c != nil {
		RegisterEntityRoutes(api.Group("/submissions"), c.Submissions)
		RegisterEntityRoutes(api.Group("/articles"), c.Articles)
		RegisterEntityRoutes(api.Group("/cases"), c.Cases)
		RegisterEntityRoutes(api.Group("/case-configurations"), c.CaseConfigurations)

		if c.Files != nil {
			files := NewFilesController(c.Files)
			api.POST("/files", files.Upload)
			api.DELETE("/files/*id", files.Delete)
		}
	}

	return router
}
