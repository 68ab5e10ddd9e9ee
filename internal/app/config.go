package app

import (
	"time"

	"github.com/hyperifyio/filingtext/internal/extract"
	"github.com/hyperifyio/filingtext/internal/fetch"
	"github.com/hyperifyio/filingtext/internal/index"
)

// Config holds runtime configuration for the application.
type Config struct {
	// Fetch
	Timeout      time.Duration
	Attempts     int
	UserAgent    string
	MaxBodyBytes int64
	Backoff      fetch.Backoff

	// Index resolution
	PrimaryForms []string

	// Extraction
	MaxLines   int
	DisablePDF bool

	// Behavior
	TextOnly bool
	Verbose  bool
}

// DefaultConfig returns the configuration used when nothing is set.
func DefaultConfig() Config {
	return Config{
		Timeout:      fetch.DefaultTimeout,
		Attempts:     fetch.DefaultMaxAttempts,
		MaxBodyBytes: fetch.DefaultMaxBodyBytes,
		Backoff:      fetch.DefaultBackoff(),
		PrimaryForms: append([]string(nil), index.DefaultPrimaryForms...),
		MaxLines:     extract.MaxLines,
	}
}
