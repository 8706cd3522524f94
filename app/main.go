package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"newsdigest/app/api"
	"newsdigest/app/cache"
	"newsdigest/app/cfg"
	"newsdigest/app/database"
	"newsdigest/app/ingest"
	"newsdigest/app/newsapi"
	"newsdigest/app/scheduler"
	"newsdigest/app/summarizer"
)

func main() {
	// Load .env if present (non-fatal if missing)
	_ = godotenv.Load()

	appCfg, err := cfg.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	if appCfg == nil {
		// Help was shown, exit gracefully
		return
	}

	setupLogger(appCfg.Debug)
	slog.Info("Starting News Digest server", "version", appCfg.Version)

	// Database connection
	db, err := database.NewConnection(
		appCfg.DBHost, appCfg.DBPort, appCfg.DBUser,
		appCfg.DBPassword, appCfg.DBName)
	if err != nil {
		slog.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	version, dirty, err := database.RunMigrations(db)
	if err != nil {
		slog.Error("Failed to run migrations", "error", err)
		os.Exit(1)
	}
	slog.Info("Database ready", "migration_version", version, "dirty", dirty)

	// Ingestion sources
	sources, err := ingest.LoadSources(appCfg.SourcesFile)
	if err != nil {
		slog.Error("Failed to load sources file", "path", appCfg.SourcesFile, "error", err)
		os.Exit(1)
	}
	slog.Info("Sources loaded", "country", sources.Country, "categories", len(sources.Categories))

	// Shared clients, constructed once and injected
	articleRepo := database.NewArticleRepository(db)
	newsClient := newsapi.NewClient(appCfg.NewsAPIKey, appCfg.NewsAPIBaseURL, appCfg.UserAgent)
	summaryService := summarizer.New(appCfg.CohereAPIKey, appCfg.CohereModel)

	orchestrator := ingest.NewOrchestrator(newsClient, summaryService,
		articleRepo, sources, appCfg.SummaryWorkers)

	// Optional Redis cache for the pass-through route
	var responseCache *cache.Cache
	if appCfg.RedisAddr != "" {
		responseCache, err = cache.New(appCfg.RedisAddr)
		if err != nil {
			slog.Warn("Redis unavailable, response caching disabled", "error", err)
			responseCache = nil
		} else {
			slog.Info("Connected to Redis", "addr", appCfg.RedisAddr)
		}
	}

	// Background refresh
	ingestScheduler := scheduler.New(func(ctx context.Context) (bool, string) {
		report := orchestrator.Run(ctx)
		return report.Success, report.Message
	}, time.Duration(appCfg.RefreshInterval)*time.Minute)
	ingestScheduler.Start()
	defer ingestScheduler.Stop()

	// HTTP server
	apiHandler := api.NewHandler(orchestrator, newsClient, articleRepo, responseCache, appCfg.AdminSecret)
	server := api.NewServer(apiHandler, appCfg.Version)

	httpServer := &http.Server{
		Addr:         ":" + appCfg.Port,
		Handler:      server,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 5 * time.Minute, // the admin trigger runs a full ingestion pass
		IdleTimeout:  120 * time.Second,
	}

	serverErrChan := make(chan error, 1)
	go func() {
		slog.Info("HTTP server listening", "port", appCfg.Port)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrChan <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		slog.Info("Received signal", "signal", sig.String())
	case err := <-serverErrChan:
		slog.Error("Server error", "error", err)
	}

	slog.Info("Shutting down gracefully")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("HTTP server shutdown error", "error", err)
	}

	slog.Info("Shutdown complete")
}

func setupLogger(debug bool) {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level})))
}
