package fetch

import (
	"context"
	"crypto/x509"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

const (
	// DefaultUserAgent identifies the client. EDGAR rejects anonymous agents,
	// so a contact address is part of the signature.
	DefaultUserAgent = "filingtext/1.0 (+https://github.com/hyperifyio/filingtext; contact: dev@example.org)"
	// DefaultAccept prefers markup, then XML, then PDF, then anything.
	DefaultAccept         = "text/html,application/xhtml+xml,application/xml,application/pdf;q=0.9,*/*;q=0.8"
	DefaultAcceptLanguage = "en-US,en;q=0.9,zh-CN,zh;q=0.8"

	DefaultTimeout      = 30 * time.Second
	DefaultMaxAttempts  = 3
	DefaultMaxBodyBytes = 64 << 20
	defaultRedirectHops = 10
)

var (
	errTooManyRedirects = errors.New("too many redirects")
	errRedirectScheme   = errors.New("redirect to unsupported scheme")
	errBodyTooLarge     = errors.New("response body exceeds size limit")
)

// Outcome is the result of one successful GET.
type Outcome struct {
	// URL is the final URL after redirects.
	URL         string
	StatusCode  int
	ContentType string
	Body        []byte
	Bytes       int
}

// Client wraps http.Client and provides timeouts and bounded retry on
// transport failures. A Client holds configuration only and is safe for
// concurrent use.
type Client struct {
	HTTPClient *http.Client
	UserAgent  string
	// MaxAttempts includes the initial attempt. Zero means DefaultMaxAttempts.
	MaxAttempts int
	// Timeout bounds each attempt. Zero means DefaultTimeout.
	Timeout time.Duration
	// Backoff spaces attempts. The zero value retries without waiting.
	Backoff Backoff
	// RedirectMaxHops caps redirect following. Zero means 10.
	RedirectMaxHops int
	// MaxBodyBytes caps the payload read per response. Zero means DefaultMaxBodyBytes.
	MaxBodyBytes int64
}

func (c *Client) getHTTPClient() *http.Client {
	if c.HTTPClient != nil {
		// Clone to attach our redirect policy without mutating caller's client
		base := *c.HTTPClient
		base.CheckRedirect = c.checkRedirectFunc()
		return &base
	}
	return &http.Client{CheckRedirect: c.checkRedirectFunc()}
}

// Fetch issues a GET for rawURL. A positive timeout overrides c.Timeout for
// every attempt of this call. Transport failures are retried up to
// MaxAttempts; an HTTP error status fails immediately. Failures are always
// returned as *Error.
func (c *Client) Fetch(ctx context.Context, rawURL string, timeout time.Duration) (*Outcome, error) {
	attempts := c.MaxAttempts
	if attempts <= 0 {
		attempts = DefaultMaxAttempts
	}
	if timeout <= 0 {
		timeout = c.Timeout
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	var lastErr error
	made := 0
	for i := 1; i <= attempts; i++ {
		if err := ctx.Err(); err != nil {
			if lastErr == nil {
				lastErr = err
			}
			break
		}
		made = i
		out, err := c.tryOnce(ctx, rawURL, timeout)
		if err == nil {
			return out, nil
		}
		lastErr = err

		var se *statusError
		if errors.As(err, &se) {
			return nil, &Error{URL: rawURL, Attempts: i, StatusCode: se.code, Err: err}
		}
		if !isTransient(err) || i == attempts {
			break
		}

		wait := c.Backoff.Delay(i)
		log.Warn().Err(err).Str("url", rawURL).Int("attempt", i).Int("max_attempts", attempts).Dur("backoff", wait).Msg("fetch attempt failed; retrying")
		if err := sleep(ctx, wait); err != nil {
			break
		}
	}
	return nil, &Error{URL: rawURL, Attempts: made, Err: lastErr}
}

func (c *Client) tryOnce(ctx context.Context, rawURL string, timeout time.Duration) (*Outcome, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("new request: %w", err)
	}
	// Reject non-HTTP(S) schemes early
	if !isHTTPScheme(req.URL) {
		return nil, fmt.Errorf("unsupported URL scheme: %q", req.URL.Scheme)
	}
	ua := c.UserAgent
	if ua == "" {
		ua = DefaultUserAgent
	}
	req.Header.Set("User-Agent", ua)
	req.Header.Set("Accept", DefaultAccept)
	req.Header.Set("Accept-Language", DefaultAcceptLanguage)
	// One connection per call, released when the call returns.
	req.Close = true

	resp, err := c.getHTTPClient().Do(req)
	if err != nil {
		return nil, &transportError{err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &statusError{code: resp.StatusCode}
	}

	limit := c.MaxBodyBytes
	if limit <= 0 {
		limit = DefaultMaxBodyBytes
	}
	b, err := io.ReadAll(io.LimitReader(resp.Body, limit+1))
	if err != nil {
		return nil, &transportError{err: fmt.Errorf("read body: %w", err)}
	}
	if int64(len(b)) > limit {
		return nil, fmt.Errorf("%w (%d bytes)", errBodyTooLarge, limit)
	}

	final := rawURL
	if resp.Request != nil && resp.Request.URL != nil {
		final = resp.Request.URL.String()
	}
	return &Outcome{
		URL:         final,
		StatusCode:  resp.StatusCode,
		ContentType: resp.Header.Get("Content-Type"),
		Body:        b,
		Bytes:       len(b),
	}, nil
}

// isTransient reports whether err is a transport failure worth another
// attempt: connection errors, timeouts, DNS failures, truncated reads.
// Caller cancellation, redirect policy violations and certificate problems
// are deterministic and are not retried.
func isTransient(err error) bool {
	var te *transportError
	if !errors.As(err, &te) {
		return false
	}
	if errors.Is(err, context.Canceled) {
		return false
	}
	if errors.Is(err, errTooManyRedirects) || errors.Is(err, errRedirectScheme) {
		return false
	}
	var unknownAuth x509.UnknownAuthorityError
	var hostErr x509.HostnameError
	var certErr x509.CertificateInvalidError
	if errors.As(err, &unknownAuth) || errors.As(err, &hostErr) || errors.As(err, &certErr) {
		return false
	}
	return true
}

func (c *Client) checkRedirectFunc() func(req *http.Request, via []*http.Request) error {
	max := c.RedirectMaxHops
	if max <= 0 {
		max = defaultRedirectHops
	}
	return func(req *http.Request, via []*http.Request) error {
		if len(via) >= max {
			return errTooManyRedirects
		}
		// Only allow http/https during redirects
		if !isHTTPScheme(req.URL) {
			return errRedirectScheme
		}
		return nil
	}
}

func isHTTPScheme(u *url.URL) bool {
	if u == nil {
		return false
	}
	scheme := strings.ToLower(u.Scheme)
	return scheme == "http" || scheme == "https"
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
