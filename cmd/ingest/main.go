// Command ingest builds the canonical dictionary from the raw lexical
// sources (Arramooz, Arabic WordNet, the community glossary and the
// dialect lexicon): it normalizes and resolves every record, merges each
// entry with weighted voting, and writes entries plus their provenance
// to PostgreSQL.
//
// Flags:
//
//	--phase          comma-separated list of phases to run (default: all)
//	--dry-run        parse and merge without writing to DB
//	--ingest-config  path to ingest YAML config file
//
// Exit codes: 0 = success, 1 = error.
package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/mh2des/arabic-dictionary-api/internal/adapter/postgres"
	"github.com/mh2des/arabic-dictionary-api/internal/adapter/postgres/canonical"
	"github.com/mh2des/arabic-dictionary-api/internal/app"
	"github.com/mh2des/arabic-dictionary-api/internal/config"
	"github.com/mh2des/arabic-dictionary-api/internal/ingest"
	"github.com/mh2des/arabic-dictionary-api/internal/ledger"
	"github.com/mh2des/arabic-dictionary-api/internal/merge"
	"github.com/mh2des/arabic-dictionary-api/internal/resolver"
)

// Compile-time interface assertion.
var _ ingest.EntryStore = (*canonical.Repo)(nil)

func main() {
	phaseFlag := flag.String("phase", "", "comma-separated phases to run (default: all)")
	dryRunFlag := flag.Bool("dry-run", false, "parse and merge without writing to DB")
	ingestConfigFlag := flag.String("ingest-config", "", "path to ingest YAML config file")
	flag.Parse()

	// Load app config (for DB connection).
	appCfg, err := config.Load()
	if err != nil {
		log.Fatalf("load app config: %v", err)
	}

	logger := app.NewLogger(appCfg.Log)

	// Load ingest config.
	ingestCfg, err := ingest.LoadConfig(*ingestConfigFlag)
	if err != nil {
		logger.Error("load ingest config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// CLI flags override config.
	if *dryRunFlag {
		ingestCfg.DryRun = true
	}

	priority, err := ingest.LoadPriority(ingestCfg.PriorityPath)
	if err != nil {
		logger.Error("load priority config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Parse phase filter.
	var phases []string
	if *phaseFlag != "" {
		phases = strings.Split(*phaseFlag, ",")
		for i := range phases {
			phases[i] = strings.TrimSpace(phases[i])
		}
	}

	// 30-minute context timeout.
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
	defer cancel()

	// Connect to DB.
	pool, err := postgres.NewPool(ctx, appCfg.Database)
	if err != nil {
		logger.Error("connect to database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer pool.Close()

	txm := postgres.NewTxManager(pool)
	repo := canonical.New(pool, txm)

	res := resolver.New(logger, resolver.Config{
		Shards:            ingestCfg.Shards,
		RelaxedMatchLimit: ingestCfg.RelaxedMatchLimit,
	})
	engine := merge.NewEngine(logger, priority, res)
	led := ledger.New()

	// Run pipeline.
	pipeline := ingest.NewPipeline(logger, *ingestCfg, res, engine, led, repo)
	if err := pipeline.Run(ctx, phases); err != nil {
		logger.Error("pipeline failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if pipeline.HasErrors() {
		logger.Warn("pipeline completed with errors")
		os.Exit(1)
	}

	logger.Info("pipeline completed successfully")
}
