package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/hyperifyio/filingtext/internal/app"
)

// Exit codes.
const (
	exitOK     = 0
	exitFailed = 1
	exitUsage  = 2
)

func main() {
	// Logging setup
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	if err := app.LoadEnvFiles(app.DefaultEnvFiles...); err != nil {
		log.Warn().Err(err).Msg("dotenv load failed")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("filingtext", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprintf(stderr, "Usage: filingtext [flags] <url>\n\nFetch a document or filing index page and print its text as JSON.\n\nFlags:\n")
		fs.PrintDefaults()
	}

	var (
		configPath string
		timeout    time.Duration
		attempts   int
		userAgent  string
		forms      string
		maxLines   int
		noPDF      bool
		textOnly   bool
		verbose    bool
		version    bool
	)
	fs.StringVar(&configPath, "config", os.Getenv("FILINGTEXT_CONFIG"), "Path to YAML or JSON config file")
	fs.DurationVar(&timeout, "timeout", 0, "Per-attempt fetch timeout (e.g. 30s)")
	fs.IntVar(&attempts, "attempts", 0, "Maximum fetch attempts, including the first")
	fs.StringVar(&userAgent, "ua", "", "User-Agent sent with every request; EDGAR requires a contact address")
	fs.StringVar(&forms, "forms", "", "Comma-separated primary form codes for index resolution (default 10-K,10-Q)")
	fs.IntVar(&maxLines, "max-lines", 0, "Maximum number of output lines")
	fs.BoolVar(&noPDF, "no-pdf", false, "Disable PDF text extraction")
	fs.BoolVar(&textOnly, "text", false, "Print only the extracted text")
	fs.BoolVar(&verbose, "v", false, "Verbose logging")
	fs.BoolVar(&version, "version", false, "Print version and exit")
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return exitOK
		}
		return exitUsage
	}

	if version {
		fmt.Fprintln(stdout, app.VersionString())
		return exitOK
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return exitUsage
	}
	url := fs.Arg(0)

	cfg, err := app.LoadConfig(configPath)
	if err != nil {
		log.Error().Err(err).Msg("config")
		return exitUsage
	}
	// Flags win over env and file; only explicitly set flags apply.
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "timeout":
			cfg.Timeout = timeout
		case "attempts":
			cfg.Attempts = attempts
		case "ua":
			cfg.UserAgent = userAgent
		case "forms":
			cfg.PrimaryForms = app.SplitForms(forms)
		case "max-lines":
			cfg.MaxLines = maxLines
		case "no-pdf":
			cfg.DisablePDF = noPDF
		case "text":
			cfg.TextOnly = textOnly
		case "v":
			cfg.Verbose = verbose
		}
	})
	if err := app.ValidateConfig(cfg); err != nil {
		log.Error().Err(err).Msg("invalid configuration")
		return exitUsage
	}

	if cfg.Verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	res := app.NewPipeline(cfg).Run(ctx, url)

	if cfg.TextOnly {
		if res.OK {
			fmt.Fprintln(stdout, *res.Text)
			return exitOK
		}
		fmt.Fprintln(stderr, res.Message)
		return exitFailed
	}

	enc := json.NewEncoder(stdout)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(res); err != nil {
		log.Error().Err(err).Msg("write result")
		return exitFailed
	}
	if !res.OK {
		return exitFailed
	}
	return exitOK
}
