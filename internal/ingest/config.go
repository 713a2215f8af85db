package ingest

import (
	"fmt"
	"os"

	"github.com/ilyakaznacheev/cleanenv"

	"github.com/mh2des/arabic-dictionary-api/internal/merge"
)

// Config holds ingestion pipeline settings.
type Config struct {
	ArramoozPath string `yaml:"arramooz_path" env:"INGEST_ARRAMOOZ_PATH"`
	AWNPath      string `yaml:"awn_path"      env:"INGEST_AWN_PATH"`
	GlossaryPath string `yaml:"glossary_path" env:"INGEST_GLOSSARY_PATH"`
	DialectPath  string `yaml:"dialect_path"  env:"INGEST_DIALECT_PATH"`

	// PriorityPath points at the versioned source-priority YAML consumed
	// by the merge engine.
	PriorityPath string `yaml:"priority_path" env:"INGEST_PRIORITY_PATH"`

	Shards            int  `yaml:"shards"              env:"INGEST_SHARDS"               env-default:"16"`
	RelaxedMatchLimit int  `yaml:"relaxed_match_limit" env:"INGEST_RELAXED_MATCH_LIMIT"  env-default:"1"`
	MergeWorkers      int  `yaml:"merge_workers"       env:"INGEST_MERGE_WORKERS"        env-default:"8"`
	DryRun            bool `yaml:"dry_run"             env:"INGEST_DRY_RUN"`
}

// LoadConfig reads pipeline configuration from a YAML file and environment
// variables. Priority: ENV > YAML > defaults.
func LoadConfig(path string) (*Config, error) {
	var cfg Config

	if path != "" {
		if _, err := os.Stat(path); err != nil {
			return nil, fmt.Errorf("ingest config: file %s not found", path)
		}
		if err := cleanenv.ReadConfig(path, &cfg); err != nil {
			return nil, fmt.Errorf("ingest config: read %s: %w", path, err)
		}
		return &cfg, nil
	}

	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("ingest config: read env: %w", err)
	}
	return &cfg, nil
}

// LoadPriority reads the source-priority file. A missing path yields an
// empty config, which falls back to record-level confidences.
func LoadPriority(path string) (merge.PriorityConfig, error) {
	var pc merge.PriorityConfig
	if path == "" {
		return pc, nil
	}
	if err := cleanenv.ReadConfig(path, &pc); err != nil {
		return pc, fmt.Errorf("priority config: read %s: %w", path, err)
	}
	return pc, nil
}
