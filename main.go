package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	_ "net/http/pprof"

	"github.com/joho/godotenv"

	"github.com/nutrimed/interactions-api/catalogparser"
	"github.com/nutrimed/interactions-api/config"
	"github.com/nutrimed/interactions-api/data"
	"github.com/nutrimed/interactions-api/handlers"
	"github.com/nutrimed/interactions-api/health"
	"github.com/nutrimed/interactions-api/history"
	"github.com/nutrimed/interactions-api/interactions"
	"github.com/nutrimed/interactions-api/interfaces"
	"github.com/nutrimed/interactions-api/knowledge"
	"github.com/nutrimed/interactions-api/logging"
	"github.com/nutrimed/interactions-api/resolver"
	"github.com/nutrimed/interactions-api/scheduler"
	"github.com/nutrimed/interactions-api/server"
	"github.com/nutrimed/interactions-api/validation"
	"github.com/nutrimed/interactions-api/verification"
)

func main() {
	// Load .env from the working directory, falling back to the executable
	// directory for service deployments.
	if err := godotenv.Load(); err != nil {
		if ex, exErr := os.Executable(); exErr == nil {
			_ = godotenv.Load(filepath.Join(filepath.Dir(ex), ".env"))
		}
	}

	cfg, err := config.Load()
	if err != nil {
		logging.Error("Configuration error", "error", err)
		os.Exit(1)
	}

	logging.InitLoggerWithRetention("logs", cfg.LogRetentionWeeks, cfg.MaxLogFileSize)

	dataContainer := data.NewDataContainer()
	dataContainer.SetServerStartTime(time.Now())

	parser := catalogparser.NewCatalogParser(cfg.DataDir)

	sched := scheduler.NewScheduler(dataContainer, parser)
	if err := sched.Start(); err != nil {
		logging.Error("Failed to start scheduler", "error", err)
		os.Exit(1)
	}
	defer sched.Stop()

	knowledgeBase, err := knowledge.Load(cfg.DataDir)
	if err != nil {
		logging.Error("Failed to load knowledge base", "error", err)
		os.Exit(1)
	}

	// Optional collaborators: verification falls back to the aggregator's
	// default base, history falls back to the local log.
	var verifier interfaces.Verifier
	if cfg.VerifyURL != "" {
		verifier = verification.NewClient(cfg.VerifyURL, cfg.VerifyTimeout)
	}

	var historySink interfaces.HistorySink = history.LogSink{}
	if cfg.HistoryURL != "" {
		historySink = history.NewHTTPSink(cfg.HistoryURL, cfg.VerifyTimeout)
	}

	handler := handlers.NewHTTPHandler(
		dataContainer,
		validation.NewQueryValidator(),
		resolver.New(),
		interactions.NewDetector(),
		knowledgeBase,
		verifier,
		historySink,
		health.NewHealthChecker(dataContainer),
	)

	srv := server.NewServer(cfg, handler)

	// Channel to listen for interrupt signals
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	// Start the server in a goroutine
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Block until a signal is received
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logging.Error("Shutdown error", "error", err)
		os.Exit(1)
	}
}
