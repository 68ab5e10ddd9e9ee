// Package pipeline resolves a document reference into extracted text: it
// fetches the URL, classifies the payload, follows a filing index page to its
// primary document at most once, and extracts normalized text.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/hyperifyio/filingtext/internal/classify"
	"github.com/hyperifyio/filingtext/internal/extract"
	"github.com/hyperifyio/filingtext/internal/fetch"
	"github.com/hyperifyio/filingtext/internal/index"
)

// CapabilityMissingMessage is reported when a PDF is found but this build
// cannot read PDFs.
const CapabilityMissingMessage = "PDF parse requires a PDF text extraction capability; rebuild without the nopdf tag to enable PDF extraction."

// Result is the outcome of one Run. OK results always carry Text; failed
// results never do and Message says why.
type Result struct {
	OK          bool    `json:"ok"`
	URL         string  `json:"url"`
	ContentType string  `json:"content_type,omitempty"`
	Text        *string `json:"text,omitempty"`
	Bytes       int     `json:"bytes"`
	Pages       *int    `json:"pages,omitempty"`
	Message     string  `json:"message"`
}

func succeeded(url, contentType string, text extract.Text, n int, msg string) Result {
	body := text.Body
	return Result{OK: true, URL: url, ContentType: contentType, Text: &body, Bytes: n, Pages: text.Pages, Message: msg}
}

func failed(url, contentType string, n int, msg string) Result {
	return Result{OK: false, URL: url, ContentType: contentType, Bytes: n, Message: msg}
}

// Fetcher retrieves a URL. A positive timeout overrides the fetcher's own
// per-attempt timeout.
type Fetcher interface {
	Fetch(ctx context.Context, url string, timeout time.Duration) (*fetch.Outcome, error)
}

// Pipeline holds configuration only and is safe for concurrent use.
type Pipeline struct {
	Fetcher   Fetcher
	Resolver  *index.Resolver
	Extractor *extract.Extractor
}

// New returns a Pipeline. Nil collaborators are replaced by defaults.
func New(f Fetcher, r *index.Resolver, e *extract.Extractor) *Pipeline {
	if f == nil {
		f = &fetch.Client{Backoff: fetch.DefaultBackoff()}
	}
	if r == nil {
		r = index.NewResolver()
	}
	if e == nil {
		e = &extract.Extractor{}
	}
	return &Pipeline{Fetcher: f, Resolver: r, Extractor: e}
}

// Run resolves url using the fetcher's configured timeout.
func (p *Pipeline) Run(ctx context.Context, url string) Result {
	return p.RunWithTimeout(ctx, url, 0)
}

// RunWithTimeout resolves url. A positive timeout overrides the per-attempt
// fetch timeout for both fetch phases. It never panics.
func (p *Pipeline) RunWithTimeout(ctx context.Context, url string, timeout time.Duration) (res Result) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Str("url", url).Interface("panic", r).Msg("pipeline panic")
			res = failed(url, "", 0, fmt.Sprintf("internal error: %v", r))
		}
	}()
	res = p.run(ctx, url, timeout, true)
	if !res.OK {
		log.Warn().Str("url", res.URL).Str("message", res.Message).Msg("extraction failed")
	}
	return res
}

// run performs one fetch-classify-extract pass. When followIndex is set and
// the payload is a filing index page, the primary document is fetched by a
// nested call with followIndex cleared.
func (p *Pipeline) run(ctx context.Context, url string, timeout time.Duration, followIndex bool) Result {
	out, err := p.fetcher().Fetch(ctx, url, timeout)
	if err != nil {
		res := failed(url, "", 0, fmt.Sprintf("fetch failed: %v", err))
		var fe *fetch.Error
		if errors.As(err, &fe) {
			log.Debug().Str("url", url).Int("attempt", fe.Attempts).Int("status", fe.StatusCode).Msg("fetch error")
		}
		return res
	}
	class := classify.Classify(out.URL, out.ContentType)
	log.Debug().Str("url", out.URL).Str("class", class.String()).Int("bytes", out.Bytes).Bool("follow_index", followIndex).Msg("fetched")

	if class == classify.Markup && followIndex && classify.IsIndexPage(out.URL) {
		r := p.resolver()
		if zerolog.GlobalLevel() <= zerolog.DebugLevel {
			for _, entry := range r.Entries(out.Body, out.URL) {
				log.Debug().Str("url", out.URL).Str("link", entry.Link).Str("type", entry.Type).Int("table", entry.Table).Int("row", entry.Row).Msg("index entry")
			}
		}
		if primary, ok := r.ResolvePrimary(out.Body, out.URL); ok && primary != out.URL {
			log.Debug().Str("url", out.URL).Str("primary", primary).Msg("following primary document")
			return p.run(ctx, primary, timeout, false)
		}
		log.Debug().Str("url", out.URL).Msg("no primary document; extracting index page")
	}
	return p.extract(out, class, !followIndex)
}

func (p *Pipeline) extract(out *fetch.Outcome, class classify.Class, primary bool) Result {
	kind, contentType := "HTML", classify.MediaType(out.ContentType)
	if class == classify.Binary {
		kind = "PDF"
	}
	if contentType == "" {
		contentType = "text/html"
		if class == classify.Binary {
			contentType = "application/pdf"
		}
	}
	suffix := ""
	if primary {
		suffix = " (primary)"
	}

	text, err := p.extractor().Extract(class, out.Body, out.ContentType)
	if err != nil {
		if errors.Is(err, extract.ErrCapabilityMissing) {
			return failed(out.URL, contentType, out.Bytes, CapabilityMissingMessage)
		}
		var me *extract.MalformedError
		if errors.As(err, &me) {
			err = me.Err
		}
		return failed(out.URL, contentType, out.Bytes, fmt.Sprintf("%s parse failed%s: %v", kind, suffix, err))
	}
	return succeeded(out.URL, contentType, text, out.Bytes, kind+" parsed"+suffix)
}

func (p *Pipeline) fetcher() Fetcher {
	if p.Fetcher == nil {
		return &fetch.Client{Backoff: fetch.DefaultBackoff()}
	}
	return p.Fetcher
}

func (p *Pipeline) resolver() *index.Resolver {
	if p.Resolver == nil {
		return index.NewResolver()
	}
	return p.Resolver
}

func (p *Pipeline) extractor() *extract.Extractor {
	if p.Extractor == nil {
		return &extract.Extractor{}
	}
	return p.Extractor
}
