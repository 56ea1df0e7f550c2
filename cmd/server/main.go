package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/igodwin/campaign-mailer/api/rest"
	"github.com/igodwin/campaign-mailer/internal/config"
	"github.com/igodwin/campaign-mailer/internal/logging"
	"github.com/igodwin/campaign-mailer/internal/notifier"
	"github.com/igodwin/campaign-mailer/internal/publisher"
	"github.com/igodwin/campaign-mailer/internal/queue"
	"github.com/igodwin/campaign-mailer/internal/service"
)

var (
	// Build information - set via ldflags during build
	// Example: go build -ldflags "-X main.Version=1.0.0 -X main.GitCommit=$(git rev-parse HEAD)"
	Version   = "dev"
	GitCommit = "unknown"
	BuildTime = "unknown"
)

func main() {
	configFile := flag.String("config", "", "path to the configuration file")
	flag.Parse()

	// Print service identifier and build info
	fmt.Printf("====================================\n")
	fmt.Printf("Campaign Mailer Service\n")
	fmt.Printf("Version:    %s\n", Version)
	fmt.Printf("Git Commit: %s\n", GitCommit)
	fmt.Printf("Build Time: %s\n", BuildTime)
	fmt.Printf("====================================\n")

	cfg, err := config.Load(*configFile)
	if err != nil {
		// An invalid configuration must not silently fall back to defaults
		logger, _ := logging.NewFromConfig("info", "stdout")
		logger.Fatalf("Failed to load config: %v", err)
	}

	logger, err := logging.NewFromConfig(cfg.Logging.Level, cfg.Logging.OutputPath)
	if err != nil {
		// Fallback to stdout if log file can't be opened
		logger, _ = logging.NewFromConfig(cfg.Logging.Level, "stdout")
		logger.Warnf("Failed to open log file, using stdout: %v", err)
	}

	if cfg.ConfigFile != "" {
		logger.Infof("Loaded configuration from: %s", cfg.ConfigFile)
	} else {
		logger.Info("No configuration file found, using defaults and environment")
	}

	// Log sanitized config (with sensitive data redacted)
	if sanitized, err := json.MarshalIndent(cfg.Sanitize(), "", "  "); err == nil {
		logger.Infof("Configuration:\n%s", string(sanitized))
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	q, err := queue.NewLocalQueue(cfg.Queue.Local)
	if err != nil {
		logger.Fatalf("Failed to create queue: %v", err)
	}

	registry := publisher.NewRegistry()
	registerPublishers(cfg, registry, logger)

	if registry.Len() == 0 {
		logger.Fatalf("No publisher configured. Please enable report.export.mail")
	}
	logger.Infof("Registered publishers: %v", registry.Names())

	svc := service.NewPublishService(registry, q, cfg.Queue.WorkerCount, logger)
	if err := svc.Start(ctx); err != nil {
		logger.Fatalf("Failed to start service: %v", err)
	}
	logger.Infof("Started %d worker(s)", svc.WorkerCount())

	var wg sync.WaitGroup
	wg.Add(1)
	restServer := startRESTServer(&wg, cfg, svc, logger)

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	logger.Info("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := restServer.Shutdown(shutdownCtx); err != nil {
		logger.Errorf("Error during REST server shutdown: %v", err)
	}
	wg.Wait()

	// In-flight publications complete before the queue closes
	if err := svc.Stop(); err != nil {
		logger.Errorf("Error stopping service: %v", err)
	}

	logger.Info("Server stopped")
}

func registerPublishers(cfg *config.Config, registry *publisher.Registry, logger *logging.Logger) {
	mailConfig := cfg.Report.Export.Mail
	if !mailConfig.Enabled {
		logger.Info("Mail publisher disabled")
		return
	}

	transport, err := notifier.NewTransport(mailConfig, logger)
	if err != nil {
		logger.Fatalf("Failed to create mail transport: %v", err)
	}

	mailPublisher, err := publisher.NewMailPublisher(mailConfig, cfg.Report.Export.JUnit.Folder, transport, logger)
	if err != nil {
		logger.Fatalf("Failed to create mail publisher: %v", err)
	}

	if err := registry.Register(mailPublisher); err != nil {
		logger.Fatalf("Failed to register mail publisher: %v", err)
	}
	logger.Infof("Registered mail publisher using %s transport to %s:%d", mailConfig.TransportKind(), mailConfig.Host, mailConfig.Port)
}

func startRESTServer(wg *sync.WaitGroup, cfg *config.Config, svc *service.PublishService, logger *logging.Logger) *http.Server {
	router := rest.NewRouter(svc, logger)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.RESTPort)
	server := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		defer wg.Done()
		logger.Infof("REST server listening on %s", addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("Failed to start REST server: %v", err)
		}
	}()

	return server
}
