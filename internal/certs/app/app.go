package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/usapupgrade/certs/internal/certs/archive"
	httpapi "github.com/usapupgrade/certs/internal/certs/http"
	"github.com/usapupgrade/certs/internal/certs/render"
	"github.com/usapupgrade/certs/internal/certs/service"
	"github.com/usapupgrade/certs/internal/certs/store"
	"github.com/usapupgrade/certs/pkg/certid"
	"github.com/usapupgrade/certs/pkg/jwtx"
	"github.com/usapupgrade/certs/pkg/slogx"
)

// BuildVersion is overridden at build time via -ldflags "-X".
var BuildVersion = "v0.1.0"

// Application encapsulates the certificates service with all its dependencies
type Application struct {
	cfg    Config
	logger *slog.Logger
	clock  clockwork.Clock

	// Core dependencies
	db       store.Store
	hashKey  []byte
	renderer *render.Renderer
	archiver service.CertificateArchiver // nil when archiving is disabled

	// Services
	certificateService       *service.CertificateService
	certificationNameService *service.CertificationNameService
	progressService          *service.ProgressService
	learnerService           *service.LearnerService
	auditService             *service.IntegrityAuditService // nil when AuditInterval is 0

	// HTTP server
	server *http.Server
	router *httpapi.Router
}

// New creates a new Application instance with all dependencies initialized
func New(cfg Config) (*Application, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	app := &Application{
		cfg:   cfg,
		clock: clockwork.NewRealClock(),
		logger: slogx.New(slogx.Config{
			Service: "certs-service",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		}),
	}

	hashKey, err := InitHashKey(cfg, app.logger)
	if err != nil {
		return nil, err
	}
	app.hashKey = hashKey

	db, err := OpenStore(cfg)
	if err != nil {
		return nil, err
	}
	app.db = db
	app.logger.Info("database migrations applied successfully", "driver", cfg.DatabaseDriver)

	app.renderer = render.New(cfg.Render)

	if err := app.initArchive(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}

	app.initServices()

	if err := app.initHTTP(); err != nil {
		_ = db.Close()
		return nil, err
	}

	return app, nil
}

// Handler returns the routed HTTP handler.
func (app *Application) Handler() http.Handler {
	return app.router
}

// Run starts the application and blocks until shutdown is requested
func (app *Application) Run() error {
	if app.auditService != nil {
		if err := app.auditService.Start(); err != nil {
			return fmt.Errorf("failed to start integrity audit: %w", err)
		}
	}

	app.logger.Info("certs service starting", "port", app.cfg.Port, "version", BuildVersion)

	// Start server in a goroutine
	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- app.server.ListenAndServe()
	}()

	// Setup signal handling for graceful shutdown
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	// Block until we receive a shutdown signal or server error
	select {
	case err := <-serverErrors:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			_ = app.Shutdown()
			return fmt.Errorf("server failed: %w", err)
		}
	case sig := <-shutdown:
		app.logger.Info("shutdown signal received", "signal", sig)

		if err := app.Shutdown(); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
	}

	return nil
}

// Shutdown gracefully shuts down the application
func (app *Application) Shutdown() error {
	app.logger.Info("shutting down certs service...")

	// Give outstanding requests a deadline for completion
	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", "error", err)
		if err := app.server.Close(); err != nil {
			app.logger.Error("error closing server", "error", err)
		}
	}

	// Let an in-flight audit sweep finish before the database goes away
	if app.auditService != nil {
		if err := app.auditService.Stop(); err != nil {
			app.logger.Error("error stopping integrity audit", "error", err)
		}
	}

	if err := app.db.Close(); err != nil {
		app.logger.Error("error closing database", "error", err)
		return err
	}

	app.logger.Info("certs service stopped")
	return nil
}

// initArchive wires the PDF archive when a bucket is configured.
func (app *Application) initArchive(ctx context.Context) error {
	if app.cfg.Archive.Bucket == "" {
		app.logger.Info("certificate archive disabled")
		return nil
	}

	objects, err := archive.NewS3Archive(ctx, app.cfg.Archive)
	if err != nil {
		return fmt.Errorf("failed to initialize certificate archive: %w", err)
	}

	app.archiver = &service.PDFArchiver{
		Renderer: app.renderer,
		Objects:  objects,
		Prefix:   service.DefaultArchivePrefix,
	}
	app.logger.Info("certificate archive enabled",
		"bucket", app.cfg.Archive.Bucket,
		"endpoint", app.cfg.Archive.Endpoint,
	)
	return nil
}

// initServices initializes all business logic services
func (app *Application) initServices() {
	app.certificateService = &service.CertificateService{
		Store:          app.db,
		Clock:          app.clock,
		IDs:            certid.NewGenerator(app.clock),
		HashKey:        app.hashKey,
		Archiver:       app.archiver,
		ArchiveTimeout: app.cfg.ArchiveTimeout,
	}
	app.certificationNameService = &service.CertificationNameService{Store: app.db, Clock: app.clock}
	app.progressService = &service.ProgressService{Store: app.db, Clock: app.clock}
	app.learnerService = &service.LearnerService{Store: app.db, Clock: app.clock}

	if app.cfg.AuditInterval > 0 {
		app.auditService = service.NewIntegrityAuditService(
			app.db,
			app.clock,
			app.hashKey,
			app.logger,
			app.cfg.AuditInterval,
		)
	} else {
		app.logger.Info("integrity audit disabled")
	}
}

// initHTTP initializes the HTTP router and server
func (app *Application) initHTTP() error {
	verifier, err := jwtx.NewVerifierHS256([]byte(app.cfg.JWTSecret), jwtx.VerifyOptions{
		Issuer:   app.cfg.JWTIssuer,
		Audience: app.cfg.JWTAudience,
		Leeway:   jwtx.DefaultLeeway,
		Now:      app.clock.Now,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize token verifier: %w", err)
	}

	router := httpapi.NewRouter(
		verifier,
		app.cfg.RateLimits,
		BuildVersion,
		app.db,
		app.logger,
	)

	// Wire services to router
	router.CertificateService = app.certificateService
	router.CertificationNameService = app.certificationNameService
	router.ProgressService = app.progressService
	router.LearnerService = app.learnerService
	router.Renderer = app.renderer
	router.ApplyRoutes()

	app.router = router

	app.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", app.cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 3 * time.Second,
	}
	return nil
}
