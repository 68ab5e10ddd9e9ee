package app

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	yaml "gopkg.in/yaml.v3"
)

// FileConfig represents the single-file configuration schema.
// Durations are Go duration strings such as "30s".
type FileConfig struct {
	Fetch struct {
		Timeout      string `yaml:"timeout" json:"timeout"`
		Attempts     int    `yaml:"attempts" json:"attempts"`
		UserAgent    string `yaml:"userAgent" json:"userAgent"`
		MaxBodyBytes int64  `yaml:"maxBodyBytes" json:"maxBodyBytes"`
		Backoff      struct {
			Multiplier string `yaml:"multiplier" json:"multiplier"`
			Min        string `yaml:"min" json:"min"`
			Max        string `yaml:"max" json:"max"`
		} `yaml:"backoff" json:"backoff"`
	} `yaml:"fetch" json:"fetch"`

	Index struct {
		PrimaryForms []string `yaml:"primaryForms" json:"primaryForms"`
	} `yaml:"index" json:"index"`

	Extract struct {
		MaxLines   int  `yaml:"maxLines" json:"maxLines"`
		DisablePDF bool `yaml:"disablePDF" json:"disablePDF"`
	} `yaml:"extract" json:"extract"`

	Verbose bool `yaml:"verbose" json:"verbose"`
}

// LoadConfigFile reads YAML or JSON into FileConfig.
func LoadConfigFile(path string) (FileConfig, error) {
	var fc FileConfig
	b, err := os.ReadFile(path)
	if err != nil {
		return fc, err
	}
	switch ext := filepath.Ext(path); ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(b, &fc); err != nil {
			return fc, fmt.Errorf("parse yaml: %w", err)
		}
	case ".json":
		if err := json.Unmarshal(b, &fc); err != nil {
			return fc, fmt.Errorf("parse json: %w", err)
		}
	default:
		// Try YAML then JSON
		if err := yaml.Unmarshal(b, &fc); err != nil {
			if jerr := json.Unmarshal(b, &fc); jerr != nil {
				return fc, fmt.Errorf("parse config: %v (yaml) / %v (json)", err, jerr)
			}
		}
	}
	return fc, nil
}

// ApplyFileConfig overlays every value set in fc onto cfg. It runs after
// defaults and before environment and flags.
func ApplyFileConfig(cfg *Config, fc FileConfig) error {
	if cfg == nil {
		return nil
	}
	setDuration := func(dst *time.Duration, key, s string) error {
		if strings.TrimSpace(s) == "" {
			return nil
		}
		d, err := time.ParseDuration(strings.TrimSpace(s))
		if err != nil {
			return fmt.Errorf("config: %s: %w", key, err)
		}
		*dst = d
		return nil
	}
	if err := setDuration(&cfg.Timeout, "fetch.timeout", fc.Fetch.Timeout); err != nil {
		return err
	}
	if err := setDuration(&cfg.Backoff.Multiplier, "fetch.backoff.multiplier", fc.Fetch.Backoff.Multiplier); err != nil {
		return err
	}
	if err := setDuration(&cfg.Backoff.Min, "fetch.backoff.min", fc.Fetch.Backoff.Min); err != nil {
		return err
	}
	if err := setDuration(&cfg.Backoff.Max, "fetch.backoff.max", fc.Fetch.Backoff.Max); err != nil {
		return err
	}
	if fc.Fetch.Attempts != 0 {
		cfg.Attempts = fc.Fetch.Attempts
	}
	if fc.Fetch.UserAgent != "" {
		cfg.UserAgent = fc.Fetch.UserAgent
	}
	if fc.Fetch.MaxBodyBytes != 0 {
		cfg.MaxBodyBytes = fc.Fetch.MaxBodyBytes
	}
	if len(fc.Index.PrimaryForms) > 0 {
		cfg.PrimaryForms = append([]string{}, fc.Index.PrimaryForms...)
	}
	if fc.Extract.MaxLines != 0 {
		cfg.MaxLines = fc.Extract.MaxLines
	}
	if fc.Extract.DisablePDF {
		cfg.DisablePDF = true
	}
	if fc.Verbose {
		cfg.Verbose = true
	}
	return nil
}

// ValidateConfig rejects settings the pipeline cannot run with.
func ValidateConfig(cfg Config) error {
	if cfg.Timeout <= 0 {
		return errors.New("config: fetch timeout must be positive")
	}
	if cfg.Attempts <= 0 {
		return errors.New("config: fetch attempts must be positive")
	}
	if cfg.MaxBodyBytes < 0 || cfg.MaxLines < 0 {
		return errors.New("config: negative limits are not allowed")
	}
	if cfg.Backoff.Min > cfg.Backoff.Max && cfg.Backoff.Max > 0 {
		return errors.New("config: fetch.backoff.min exceeds fetch.backoff.max")
	}
	forms := 0
	for _, f := range cfg.PrimaryForms {
		if strings.TrimSpace(f) != "" {
			forms++
		}
	}
	if forms == 0 {
		return errors.New("config: at least one primary form is required")
	}
	return nil
}
