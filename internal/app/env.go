package app

import (
	"errors"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// DefaultEnvFiles are loaded by the binaries at startup, in order.
var DefaultEnvFiles = []string{".env", ".env.local"}

// LoadEnvFiles loads dotenv files into the process environment. Later files
// override earlier ones and override variables already set. Missing files are
// skipped.
func LoadEnvFiles(paths ...string) error {
	for _, p := range paths {
		if strings.TrimSpace(p) == "" {
			continue
		}
		if err := godotenv.Overload(p); err != nil {
			if errors.Is(err, os.ErrNotExist) {
				continue
			}
			return err
		}
	}
	return nil
}
