// Package merge turns a resolution bucket into one canonical entry plus
// the provenance rows that justify every field of it. Per-field conflict
// policy is deterministic: weighted voting for scalars, fingerprint-dedup
// union for collections.
package merge

import (
	"log/slog"

	"github.com/google/uuid"

	"github.com/mh2des/arabic-dictionary-api/internal/domain"
)

const defaultSourceConfidence = 0.5

// SourceProfile describes one contributing source: its confidence prior
// and its rank in the static tie-break order (lower rank wins).
type SourceProfile struct {
	Confidence float64 `yaml:"confidence"`
	Rank       int     `yaml:"rank"`
}

// PriorityConfig is the versioned source-priority configuration an Engine
// is constructed with. Merges are reproducible given the same config.
type PriorityConfig struct {
	Version string                   `yaml:"version"`
	Sources map[string]SourceProfile `yaml:"sources"`
}

const unrankedSource = 1 << 20

// profile returns the configured profile for a source, falling back to
// the record-level prior and then to a neutral default.
func (c PriorityConfig) profile(sourceID string, recordConfidence float64) SourceProfile {
	if p, ok := c.Sources[sourceID]; ok {
		if p.Confidence < 0 {
			p.Confidence = 0
		}
		if p.Confidence > 1 {
			p.Confidence = 1
		}
		return p
	}
	conf := recordConfidence
	if conf <= 0 || conf > 1 {
		conf = defaultSourceConfidence
	}
	return SourceProfile{Confidence: conf, Rank: unrankedSource}
}

// targetResolver resolves a relation target surface form to an entry ID.
// Implemented by resolver.Resolver.
type targetResolver interface {
	EntryIDBySurface(surface string) (uuid.UUID, bool)
}

// Engine merges buckets. Stateless apart from its configuration; Merge
// calls for different entries may run in parallel.
type Engine struct {
	log     *slog.Logger
	cfg     PriorityConfig
	targets targetResolver
}

// NewEngine creates an Engine bound to a priority configuration and a
// relation target resolver.
func NewEngine(log *slog.Logger, cfg PriorityConfig, targets targetResolver) *Engine {
	return &Engine{log: log, cfg: cfg, targets: targets}
}

// UnresolvedRelation is a relation claim whose target surface form has no
// known entry yet. It is reported, not stored, and retried on re-merge.
type UnresolvedRelation struct {
	SourceID      string
	Kind          domain.RelationKind
	TargetSurface string
}

// Result is the output of one Merge call. Provenance rows carry no
// sequence numbers; the ledger assigns them at commit.
type Result struct {
	Entry      domain.CanonicalEntry
	Provenance []domain.ProvenanceRecord
	Unresolved []UnresolvedRelation
}
