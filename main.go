package main

import (
	"context"
	"log"
	"net/http"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/healthsignal/health-engine/pkg/config"
	"github.com/healthsignal/health-engine/pkg/llm"
	"github.com/healthsignal/health-engine/pkg/mcp"
	"github.com/healthsignal/health-engine/pkg/mcp/tools"
	"github.com/healthsignal/health-engine/pkg/models"
	"github.com/healthsignal/health-engine/pkg/services"
	"github.com/healthsignal/health-engine/pkg/tabular"
	"github.com/healthsignal/health-engine/pkg/tabular/airtable"
	"github.com/healthsignal/health-engine/pkg/tabular/postgres"
)

const serverName = "customer-health-engine"

// Version is set at build time via ldflags
var Version = "dev"

func main() {
	// .env is optional; environment wins either way
	_ = godotenv.Load()

	cfg, err := config.Load(Version)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := buildLogger(cfg.Env)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("configuration loaded",
		zap.String("env", cfg.Env),
		zap.String("transport", cfg.Transport),
		zap.String("default_source", cfg.DefaultSource),
		zap.Bool("airtable_configured", cfg.Airtable.Configured()),
		zap.Bool("postgres_configured", cfg.Postgres.Configured()),
		zap.Bool("ai_configured", cfg.AI.Configured()))

	registry := tabular.NewRegistry()

	// Airtable stores are opened per request against the base the
	// orchestrator has active, so only the client is built here.
	var airtableClient *airtable.Client
	if cfg.Airtable.Configured() {
		airtableClient = airtable.NewClient(cfg.Airtable.Endpoint, cfg.Airtable.APIKey, logger)
	}
	if cfg.Postgres.Configured() {
		registry.Register(models.SourcePostgres, func(ctx context.Context) (tabular.Store, error) {
			return postgres.New(ctx, cfg.Postgres.ConnectionString(), logger)
		})
	}

	advisor, err := llm.NewAdvisor(cfg.AI, logger)
	if err != nil {
		logger.Fatal("failed to build AI advisor", zap.Error(err))
	}

	orch := services.NewOrchestrator(services.Deps{
		Config:   cfg,
		Registry: registry,
		Static:   services.NewStaticLoader(cfg.StaticDataDir, logger),
		Airtable: airtableClient,
		Advisor:  advisor,
		Logger:   logger,
	})
	defer orch.Close()

	srv := mcp.NewServer(serverName, cfg.Version, logger)
	tools.RegisterSourceTools(srv.MCP(), orch)
	tools.RegisterAnalysisTools(srv.MCP(), orch)
	tools.RegisterDiscoveryTools(srv.MCP(), orch)

	switch cfg.Transport {
	case "http":
		logger.Info("starting http transport",
			zap.String("port", cfg.Port),
			zap.String("version", cfg.Version))
		httpSrv := srv.NewStreamableHTTPServer()
		mux := http.NewServeMux()
		mux.Handle("/mcp", httpSrv)
		if err := http.ListenAndServe(":"+cfg.Port, mux); err != nil {
			logger.Fatal("http server failed", zap.Error(err))
		}
	default:
		logger.Info("starting stdio transport", zap.String("version", cfg.Version))
		if err := srv.ServeStdio(); err != nil {
			logger.Fatal("stdio server failed", zap.Error(err))
		}
	}
}

// buildLogger selects the zap preset by environment. Both presets write to
// stderr, which keeps stdout clean for the stdio transport.
func buildLogger(env string) (*zap.Logger, error) {
	if env == "local" || env == "dev" {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
