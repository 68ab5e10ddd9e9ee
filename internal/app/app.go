// Package app wires configuration into a ready-to-run extraction pipeline.
package app

import (
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/hyperifyio/filingtext/internal/extract"
	"github.com/hyperifyio/filingtext/internal/fetch"
	"github.com/hyperifyio/filingtext/internal/index"
	"github.com/hyperifyio/filingtext/internal/pipeline"
)

// LoadConfig layers defaults, the optional config file at path and the
// environment, in increasing precedence. Callers apply flags on top and then
// call ValidateConfig.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if path != "" {
		fc, err := LoadConfigFile(path)
		if err != nil {
			return cfg, fmt.Errorf("load config %s: %w", path, err)
		}
		if err := ApplyFileConfig(&cfg, fc); err != nil {
			return cfg, err
		}
	}
	if err := ApplyEnvOverrides(&cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// NewPipeline builds a pipeline from cfg.
func NewPipeline(cfg Config) *pipeline.Pipeline {
	ua := cfg.UserAgent
	if ua == "" {
		ua = DefaultUserAgent()
	}
	client := &fetch.Client{
		HTTPClient:   newHTTPClient(),
		UserAgent:    ua,
		MaxAttempts:  cfg.Attempts,
		Timeout:      cfg.Timeout,
		Backoff:      cfg.Backoff,
		MaxBodyBytes: cfg.MaxBodyBytes,
	}
	ex := &extract.Extractor{MaxLines: cfg.MaxLines}
	if cfg.DisablePDF {
		ex.PDF = extract.NoPDF
	}
	log.Debug().
		Dur("timeout", cfg.Timeout).
		Int("attempts", cfg.Attempts).
		Strs("primary_forms", cfg.PrimaryForms).
		Int("max_lines", cfg.MaxLines).
		Bool("pdf", !cfg.DisablePDF).
		Msg("pipeline configured")
	return pipeline.New(client, index.NewResolver(cfg.PrimaryForms...), ex)
}
