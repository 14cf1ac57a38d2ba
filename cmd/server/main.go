// @title InvoiceDesk API
// @version 1.0
// @description Invoice and quotation editing sessions with GST computation and manual overrides.
// @BasePath /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	_ "invoicedesk/docs"
	"invoicedesk/internal/config"
	"invoicedesk/internal/email/noop"
	"invoicedesk/internal/email/ses"
	"invoicedesk/internal/handler"
	"invoicedesk/internal/port"
	"invoicedesk/internal/repository/postgres"
	"invoicedesk/internal/router"
	"invoicedesk/internal/service"
	s3storage "invoicedesk/internal/storage/s3"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	db, err := postgres.NewDB(&cfg.DB)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	// Initialize repositories
	invoiceRepo := postgres.NewInvoiceRepo(db)
	profileRepo := postgres.NewCompanyProfileRepo(db)
	leadRepo := postgres.NewLeadRepo(db)

	// Initialize storage; PDF publishing is off without a bucket
	var storage port.ObjectStorage
	if cfg.S3.Enabled() {
		storage, err = s3storage.NewS3Client(&cfg.S3)
		if err != nil {
			return fmt.Errorf("failed to initialize S3 client: %w", err)
		}
	} else {
		log.Printf("S3 bucket not configured, PDF publishing disabled")
	}

	notifier, err := newNotifier(&cfg.Email)
	if err != nil {
		return fmt.Errorf("failed to initialize email notifier: %w", err)
	}

	// Initialize services
	authSvc := service.NewAuthService(cfg.JWT)
	editorSvc := service.NewEditorService(invoiceRepo, profileRepo, leadRepo, notifier, storage, &cfg.S3, &cfg.Editor)
	invoiceSvc := service.NewInvoiceService(invoiceRepo, storage, &cfg.S3)
	leadSvc := service.NewLeadService(leadRepo)

	// Initialize handlers
	sessionH := handler.NewSessionHandler(editorSvc)
	invoiceH := handler.NewInvoiceHandler(invoiceSvc)
	leadH := handler.NewLeadHandler(leadSvc)
	healthH := handler.NewHealthHandler(db)

	// Setup router
	r := router.Setup(authSvc, cfg.CORS.AllowedOrigins, sessionH, invoiceH, leadH, healthH)

	srv := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.Printf("Server starting on %s (%s)", cfg.Server.Port, cfg.Server.Environment)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Println("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}
	log.Println("Server exited gracefully")
	return nil
}

func newNotifier(cfg *config.EmailConfig) (port.SubmissionNotifier, error) {
	switch cfg.Provider {
	case "ses":
		return ses.NewSESNotifier(cfg.Region, cfg.FromAddress, cfg.FromName)
	case "noop", "":
		return noop.NewNoopNotifier(), nil
	default:
		return nil, fmt.Errorf("unknown email provider %q", cfg.Provider)
	}
}
