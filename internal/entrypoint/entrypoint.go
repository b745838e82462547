package entrypoint

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/dataadapter/internal/backend"
	"github.com/mrlokans/dataadapter/internal/config"
	"github.com/mrlokans/dataadapter/internal/database"
	"github.com/mrlokans/dataadapter/internal/diagnostics"
	http_controllers "github.com/mrlokans/dataadapter/internal/http"
	"github.com/mrlokans/dataadapter/internal/logging"
	"github.com/mrlokans/dataadapter/internal/lowcode"
	"github.com/mrlokans/dataadapter/internal/metrics"
	"github.com/mrlokans/dataadapter/internal/scheduler"
	"github.com/mrlokans/dataadapter/internal/services"
	"github.com/mrlokans/dataadapter/internal/storage"
	"github.com/mrlokans/dataadapter/internal/storage/providers/local"
	"github.com/mrlokans/dataadapter/internal/storage/providers/s3"
)

// ShutdownFunc is called during graceful shutdown to clean up resources.
type ShutdownFunc func(ctx context.Context)

// App holds every wired component of the adapter.
type App struct {
	Config   *config.Config
	Selector *backend.Selector
	Database *database.Database
	Client   *lowcode.Client
	Bucket   storage.Bucket
	Catalog  *services.Catalog
	Checker  *diagnostics.Checker
	Probes   *scheduler.ProbeScheduler // nil when diagnostics are disabled
	Metrics  *metrics.Metrics
}

// Build wires the adapter from cfg. Close releases what it opened.
func Build(ctx context.Context, cfg *config.Config) (*App, error) {
	if err := logging.SetLevel(cfg.Logging.Level); err != nil {
		return nil, err
	}

	kind, err := backend.ParseKind(cfg.DataSource.Default)
	if err != nil {
		return nil, fmt.Errorf("DATA_SOURCE: %w", err)
	}

	app := &App{
		Config:   cfg,
		Selector: backend.NewSelector(kind),
		Metrics:  metrics.New(),
	}

	app.Database, err = database.NewDatabase(cfg.Database.Path, cfg.Database.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	app.Client = lowcode.NewClient(cfg.LowCode.BaseURL, cfg.LowCode.Token, cfg.LowCode.Timeout)
	app.Client.SetObserver(app.Metrics)
	if err := diagnostics.CheckLowCode(cfg.LowCode.BaseURL, cfg.LowCode.Token); err != nil {
		logging.Warnf("WARNING: %v. The low-code backend will not be usable until it is configured.", err)
	}

	app.Bucket, err = newBucket(ctx, cfg)
	if err != nil {
		app.Close()
		return nil, err
	}

	files := services.NewFileService(app.Selector, app.Bucket, app.Client)
	app.Catalog = services.NewCatalog(app.Selector, app.Database.DB, app.Client, files)
	app.Catalog.SetObserver(app.Metrics)

	sqlDB, err := app.Database.DB.DB()
	if err != nil {
		app.Close()
		return nil, fmt.Errorf("failed to get SQL DB: %w", err)
	}
	app.Checker = diagnostics.NewChecker(app.Selector, cfg.LowCode.BaseURL, cfg.LowCode.Token, app.Client, sqlDB)
	app.Checker.SetObserver(app.Metrics)

	if cfg.Diagnostics.Enabled {
		if err := scheduler.ValidateSchedule(cfg.Diagnostics.Schedule); err != nil {
			app.Close()
			return nil, fmt.Errorf("DIAGNOSTICS_SCHEDULE: %w", err)
		}
		app.Probes = scheduler.NewProbeScheduler(app.Checker, cfg.Diagnostics.Schedule)
	}

	return app, nil
}

func newBucket(ctx context.Context, cfg *config.Config) (storage.Bucket, error) {
	switch cfg.Storage.Provider {
	case config.StorageLocal, "":
		bucket, err := local.NewBucket(cfg.Storage.Dir, cfg.Storage.PublicURL)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize local storage: %w", err)
		}
		logging.Infof("Local storage initialized at %s", cfg.Storage.Dir)
		return bucket, nil
	case config.StorageS3:
		bucket, err := s3.New(ctx, s3.Options{
			Bucket:    cfg.Storage.Bucket,
			Region:    cfg.S3.Region,
			Endpoint:  cfg.S3.Endpoint,
			AccessKey: cfg.S3.AccessKey,
			SecretKey: cfg.S3.SecretKey,
			PublicURL: cfg.Storage.PublicURL,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to initialize s3 storage: %w", err)
		}
		logging.Infof("S3 storage initialized for bucket %s", cfg.Storage.Bucket)
		return bucket, nil
	default:
		return nil, fmt.Errorf("unknown STORAGE_PROVIDER %q (want %q or %q)", cfg.Storage.Provider, config.StorageLocal, config.StorageS3)
	}
}

// Close stops the probe scheduler and closes the database.
func (a *App) Close() error {
	if a.Probes != nil {
		a.Probes.Stop()
	}
	if a.Database != nil {
		return a.Database.Close()
	}
	return nil
}

// Router builds the HTTP surface of the app.
func (a *App) Router(version string) *gin.Engine {
	cfg := http_controllers.RouterConfig{
		Catalog:        a.Catalog,
		Selector:       a.Selector,
		Database:       a.Database,
		Checker:        a.Checker,
		ProbeScheduler: a.Probes,
		Metrics:        a.Metrics,
		Version:        version,
	}
	if a.Config.Storage.Provider != config.StorageS3 && strings.HasPrefix(a.Config.Storage.PublicURL, "/") {
		cfg.UploadsPath = a.Config.Storage.PublicURL
		cfg.UploadsDir = a.Config.Storage.Dir
	}
	return http_controllers.NewRouter(cfg)
}

func Serve(router *gin.Engine, cfg *config.Config, onShutdown ShutdownFunc) error {
	timeout := time.Duration(cfg.Global.ShutdownTimeoutInSeconds) * time.Second

	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port),
		Handler: router,
	}

	errCh := make(chan error, 1)
	go func() {
		logging.Infof("Starting server at %s:%d", cfg.HTTP.Host, cfg.HTTP.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	// kill (no param) sends SIGTERM, kill -2 is SIGINT
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-errCh:
		return fmt.Errorf("listen: %w", err)
	case <-quit:
	}
	logging.Infof("Shutdown Server, waiting %v before killing", timeout)

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if onShutdown != nil {
		onShutdown(ctx)
	}

	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	logging.Infof("Server exiting")
	return nil
}

func Run(cfg *config.Config, version string) error {
	logging.Infof("Starting data adapter v%s", version)

	app, err := Build(context.Background(), cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := app.Close(); err != nil {
			logging.Errorf("Error closing database: %v", err)
		}
	}()
	logging.Infof("Data source: %s", app.Selector.Get().DisplayName())

	var probeCancel context.CancelFunc
	if app.Probes != nil {
		var probeCtx context.Context
		probeCtx, probeCancel = context.WithCancel(context.Background())
		if err := app.Probes.Start(probeCtx); err != nil {
			probeCancel()
			return fmt.Errorf("failed to start probe scheduler: %w", err)
		}
		logging.Infof("Backend probes scheduled: %s", cfg.Diagnostics.Schedule)
	}

	onShutdown := func(ctx context.Context) {
		if probeCancel != nil {
			app.Probes.Stop()
			probeCancel()
		}
	}

	return Serve(app.Router(version), cfg, onShutdown)
}
