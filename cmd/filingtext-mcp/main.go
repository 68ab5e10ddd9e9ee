// Command filingtext-mcp serves the text extraction tool over MCP stdio.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/mark3labs/mcp-go/server"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/hyperifyio/filingtext/internal/app"
	"github.com/hyperifyio/filingtext/internal/mcpserver"
)

func main() {
	// stdout carries the protocol; logs go to stderr.
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	var (
		configPath string
		verbose    bool
		version    bool
	)
	flag.StringVar(&configPath, "config", os.Getenv("FILINGTEXT_CONFIG"), "Path to YAML or JSON config file")
	flag.BoolVar(&verbose, "v", false, "Verbose logging")
	flag.BoolVar(&version, "version", false, "Print version and exit")
	flag.Parse()

	if version {
		fmt.Println(app.VersionString())
		return
	}

	if err := app.LoadEnvFiles(app.DefaultEnvFiles...); err != nil {
		log.Warn().Err(err).Msg("dotenv load failed")
	}
	cfg, err := app.LoadConfig(configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("config")
	}
	if verbose {
		cfg.Verbose = true
	}
	if err := app.ValidateConfig(cfg); err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}
	if cfg.Verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	s := mcpserver.New(app.NewPipeline(cfg), app.BuildVersion)
	log.Info().Str("version", app.BuildVersion).Str("tool", mcpserver.ToolName).Msg("serving MCP over stdio")
	if err := server.ServeStdio(s); err != nil {
		log.Fatal().Err(err).Msg("mcp server")
	}
}
