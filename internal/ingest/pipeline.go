// Package ingest orchestrates the offline batch pipeline: parse the
// configured sources, resolve every record into an entry bucket, merge
// the buckets and persist the canonical entries with their provenance.
package ingest

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/mh2des/arabic-dictionary-api/internal/adapter/source/arramooz"
	"github.com/mh2des/arabic-dictionary-api/internal/adapter/source/awn"
	"github.com/mh2des/arabic-dictionary-api/internal/adapter/source/dialect"
	"github.com/mh2des/arabic-dictionary-api/internal/adapter/source/glossary"
	"github.com/mh2des/arabic-dictionary-api/internal/domain"
	"github.com/mh2des/arabic-dictionary-api/internal/ledger"
	"github.com/mh2des/arabic-dictionary-api/internal/merge"
	"github.com/mh2des/arabic-dictionary-api/internal/resolver"
)

// allPhases defines the canonical execution order. Lexicographic sources
// run before the dialect overlay so MSA lemmas exist when variants attach.
var allPhases = []string{"arramooz", "awn", "glossary", "dialect"}

// EntryStore is the persistence contract consumed by the pipeline.
// All methods use only domain types. Implemented by canonical.Repo.
type EntryStore interface {
	UpsertEntry(ctx context.Context, entry domain.CanonicalEntry, provenance []domain.ProvenanceRecord) error
}

// PhaseResult holds the outcome of a single submission phase.
type PhaseResult struct {
	Parsed    int
	Accepted  int
	Rejected  int
	Ambiguous int
	Duration  time.Duration
	Err       error
}

// MergeStats holds the outcome of the merge-and-store step.
type MergeStats struct {
	Merged     int
	Stored     int
	Unresolved int
	Errors     int
	Duration   time.Duration
}

// Pipeline wires the resolver, merge engine, ledger and store into the
// batch ingestion flow.
type Pipeline struct {
	log      *slog.Logger
	cfg      Config
	resolver *resolver.Resolver
	engine   *merge.Engine
	ledger   *ledger.Ledger
	store    EntryStore

	results    map[string]PhaseResult
	mergeStats MergeStats
}

// NewPipeline creates a new Pipeline.
func NewPipeline(log *slog.Logger, cfg Config, res *resolver.Resolver, eng *merge.Engine, led *ledger.Ledger, store EntryStore) *Pipeline {
	return &Pipeline{
		log:      log,
		cfg:      cfg,
		resolver: res,
		engine:   eng,
		ledger:   led,
		store:    store,
		results:  make(map[string]PhaseResult),
	}
}

// Results returns phase results after Run completes.
func (p *Pipeline) Results() map[string]PhaseResult {
	return p.results
}

// MergeStats returns merge step statistics after Run completes.
func (p *Pipeline) MergeStats() MergeStats {
	return p.mergeStats
}

// HasErrors returns true if any phase or the merge step recorded errors.
func (p *Pipeline) HasErrors() bool {
	for _, r := range p.results {
		if r.Err != nil {
			return true
		}
	}
	return p.mergeStats.Errors > 0
}

// Run executes the pipeline. If phases is non-empty, only the listed
// submission phases run; the merge step always follows.
func (p *Pipeline) Run(ctx context.Context, phases []string) error {
	toRun := allPhases
	if len(phases) > 0 {
		filter := make(map[string]bool, len(phases))
		for _, ph := range phases {
			filter[ph] = true
		}
		var filtered []string
		for _, ph := range allPhases {
			if filter[ph] {
				filtered = append(filtered, ph)
			}
		}
		toRun = filtered
	}

	for _, phase := range toRun {
		start := time.Now()
		p.log.Info("starting phase", slog.String("phase", phase))

		var result PhaseResult
		switch phase {
		case "arramooz":
			result = p.runSource(arramooz.SourceID, p.cfg.ArramoozPath, func(path string) ([]domain.SourceRecord, int, error) {
				records, stats, err := arramooz.Parse(path)
				return records, stats.TotalRows, err
			})
		case "awn":
			result = p.runSource(awn.SourceID, p.cfg.AWNPath, func(path string) ([]domain.SourceRecord, int, error) {
				records, stats, err := awn.Parse(path)
				return records, stats.Items, err
			})
		case "glossary":
			result = p.runSource(glossary.SourceID, p.cfg.GlossaryPath, func(path string) ([]domain.SourceRecord, int, error) {
				records, stats, err := glossary.Parse(path)
				return records, stats.Lines, err
			})
		case "dialect":
			result = p.runSource(dialect.SourceID, p.cfg.DialectPath, func(path string) ([]domain.SourceRecord, int, error) {
				records, stats, err := dialect.Parse(path)
				return records, stats.Lines, err
			})
		}
		result.Duration = time.Since(start)
		p.results[phase] = result

		if result.Err != nil {
			p.log.Warn("phase failed",
				slog.String("phase", phase),
				slog.String("error", result.Err.Error()),
				slog.Duration("duration", result.Duration),
			)
			continue
		}
		p.log.Info("phase completed",
			slog.String("phase", phase),
			slog.Int("parsed", result.Parsed),
			slog.Int("accepted", result.Accepted),
			slog.Int("rejected", result.Rejected),
			slog.Int("ambiguous", result.Ambiguous),
			slog.Duration("duration", result.Duration),
		)
	}

	if err := p.mergeAndStore(ctx); err != nil {
		return fmt.Errorf("merge step: %w", err)
	}

	p.log.Info("pipeline completed",
		slog.Int("phases_run", len(toRun)),
		slog.Int("entries_merged", p.mergeStats.Merged),
		slog.Int("entries_stored", p.mergeStats.Stored),
		slog.Int("unresolved_relations", p.mergeStats.Unresolved),
	)
	return nil
}

// runSource parses one source file and submits its records.
func (p *Pipeline) runSource(sourceID, path string, parse func(string) ([]domain.SourceRecord, int, error)) PhaseResult {
	if path == "" {
		return PhaseResult{Err: fmt.Errorf("%s path not configured", sourceID)}
	}

	records, parsed, err := parse(path)
	if err != nil {
		return PhaseResult{Err: fmt.Errorf("parse %s: %w", sourceID, err)}
	}

	result := PhaseResult{Parsed: parsed}
	for _, rec := range records {
		sub, err := p.resolver.Submit(rec)
		switch sub.Status {
		case resolver.StatusAccepted:
			result.Accepted++
		case resolver.StatusAmbiguous:
			result.Ambiguous++
			p.log.Warn("record quarantined",
				slog.String("source", sourceID),
				slog.String("surface", rec.SurfaceForm),
				slog.Int("candidates", len(sub.Candidates)),
			)
		default:
			result.Rejected++
			if err != nil {
				p.log.Debug("record rejected",
					slog.String("source", sourceID),
					slog.String("error", err.Error()),
				)
			}
		}
	}
	return result
}

// mergeAndStore merges every bucket touched by the submission phases and
// persists the results. Merges for distinct entries are independent and
// run on a bounded worker group.
func (p *Pipeline) mergeAndStore(ctx context.Context) error {
	start := time.Now()
	buckets := p.resolver.DirtyBuckets()
	if len(buckets) == 0 {
		p.log.Info("no dirty buckets, nothing to merge")
		return nil
	}

	workers := p.cfg.MergeWorkers
	if workers <= 0 {
		workers = 8
	}

	type outcome struct {
		stored     bool
		unresolved int
		err        error
	}
	outcomes := make([]outcome, len(buckets))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, bucket := range buckets {
		g.Go(func() error {
			res, err := p.engine.Merge(bucket)
			if err != nil {
				outcomes[i] = outcome{err: fmt.Errorf("merge entry %s: %w", bucket.EntryID, err)}
				return nil
			}
			rows := p.ledger.Commit(res.Entry.EntryID, res.Provenance)
			outcomes[i].unresolved = len(res.Unresolved)

			if p.cfg.DryRun {
				return nil
			}
			if err := p.store.UpsertEntry(gctx, res.Entry, rows); err != nil {
				outcomes[i].err = fmt.Errorf("store entry %s: %w", res.Entry.EntryID, err)
				return nil
			}
			outcomes[i].stored = true
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	stats := MergeStats{Merged: len(buckets)}
	for _, o := range outcomes {
		if o.err != nil {
			stats.Errors++
			stats.Merged--
			p.log.Warn("entry failed", slog.String("error", o.err.Error()))
			continue
		}
		stats.Unresolved += o.unresolved
		if o.stored {
			stats.Stored++
		}
	}
	stats.Duration = time.Since(start)
	p.mergeStats = stats
	return nil
}
