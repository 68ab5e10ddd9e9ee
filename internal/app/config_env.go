package app

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// ApplyEnvOverrides overrides cfg fields with environment variables when the
// corresponding variables are set. Env takes precedence over the config file;
// flags are applied afterwards and win over both. Malformed values are
// reported rather than ignored.
func ApplyEnvOverrides(cfg *Config) error {
	if cfg == nil {
		return nil
	}

	if s := strings.TrimSpace(os.Getenv("FILINGTEXT_TIMEOUT")); s != "" {
		d, err := parseTimeout(s)
		if err != nil {
			return fmt.Errorf("FILINGTEXT_TIMEOUT: %w", err)
		}
		cfg.Timeout = d
	}
	if s := strings.TrimSpace(os.Getenv("FILINGTEXT_ATTEMPTS")); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil {
			return fmt.Errorf("FILINGTEXT_ATTEMPTS: %w", err)
		}
		cfg.Attempts = n
	}
	if v := os.Getenv("FILINGTEXT_USER_AGENT"); v != "" {
		cfg.UserAgent = v
	}
	if v := strings.TrimSpace(os.Getenv("FILINGTEXT_PRIMARY_FORMS")); v != "" {
		cfg.PrimaryForms = SplitForms(v)
	}
	if s := strings.TrimSpace(os.Getenv("FILINGTEXT_MAX_LINES")); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil {
			return fmt.Errorf("FILINGTEXT_MAX_LINES: %w", err)
		}
		cfg.MaxLines = n
	}

	// Booleans override when env present and truthy/falsey
	setBool := func(dst *bool, envKey string) {
		if s := strings.ToLower(strings.TrimSpace(os.Getenv(envKey))); s != "" {
			switch s {
			case "1", "true", "yes", "on":
				*dst = true
			case "0", "false", "no", "off":
				*dst = false
			}
		}
	}
	setBool(&cfg.Verbose, "VERBOSE")
	setBool(&cfg.DisablePDF, "FILINGTEXT_NO_PDF")
	return nil
}

// SplitForms parses a comma separated list of form codes.
func SplitForms(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// parseTimeout accepts a Go duration or a plain number of seconds.
func parseTimeout(s string) (time.Duration, error) {
	if secs, err := strconv.ParseFloat(s, 64); err == nil {
		return time.Duration(secs * float64(time.Second)), nil
	}
	return time.ParseDuration(s)
}
