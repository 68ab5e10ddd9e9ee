// Package classify decides how a fetched payload should be read.
package classify

import (
	"mime"
	"net/url"
	"strings"
)

// Class is the document class of a fetched payload.
type Class int

const (
	// Markup is HTML or XHTML.
	Markup Class = iota
	// Binary is a PDF document.
	Binary
)

func (c Class) String() string {
	if c == Binary {
		return "binary"
	}
	return "markup"
}

// registryHost is the filings registry whose index pages list a filing's
// documents.
const registryHost = "sec.gov"

var indexSuffixes = []string{"-index.htm", "-index.html"}

// Classify returns Binary when contentType mentions pdf or the URL path ends
// in .pdf, and Markup otherwise. The content type is consulted first.
func Classify(rawURL, contentType string) Class {
	if strings.Contains(strings.ToLower(contentType), "pdf") {
		return Binary
	}
	if strings.HasSuffix(lowerPath(rawURL), ".pdf") {
		return Binary
	}
	return Markup
}

// IsIndexPage reports whether rawURL is a filing index page on the registry:
// the host is sec.gov or one of its subdomains and the path ends in
// -index.htm or -index.html.
func IsIndexPage(rawURL string) bool {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return false
	}
	if !IsRegistryHost(u.Hostname()) {
		return false
	}
	return hasIndexSuffix(strings.ToLower(u.Path))
}

// IsRegistryHost reports whether host is sec.gov or a subdomain of it.
func IsRegistryHost(host string) bool {
	host = strings.ToLower(strings.TrimSuffix(host, "."))
	return host == registryHost || strings.HasSuffix(host, "."+registryHost)
}

// HasIndexSuffix reports whether the URL path names an index page,
// regardless of host.
func HasIndexSuffix(rawURL string) bool {
	return hasIndexSuffix(lowerPath(rawURL))
}

// IsMarkupLink reports whether the URL path ends in .htm or .html.
func IsMarkupLink(rawURL string) bool {
	p := lowerPath(rawURL)
	return strings.HasSuffix(p, ".htm") || strings.HasSuffix(p, ".html")
}

// MediaType returns the lower-cased media type of a Content-Type header
// without parameters, or "" when the header is empty.
func MediaType(contentType string) string {
	contentType = strings.TrimSpace(contentType)
	if contentType == "" {
		return ""
	}
	if mt, _, err := mime.ParseMediaType(contentType); err == nil {
		return mt
	}
	mt, _, _ := strings.Cut(contentType, ";")
	return strings.ToLower(strings.TrimSpace(mt))
}

func hasIndexSuffix(p string) bool {
	for _, s := range indexSuffixes {
		if strings.HasSuffix(p, s) {
			return true
		}
	}
	return false
}

// lowerPath returns the lower-cased path of rawURL with query and fragment
// removed. Unparseable input falls back to cutting at '?' and '#'.
func lowerPath(rawURL string) string {
	rawURL = strings.TrimSpace(rawURL)
	if u, err := url.Parse(rawURL); err == nil {
		return strings.ToLower(u.Path)
	}
	if i := strings.IndexAny(rawURL, "?#"); i >= 0 {
		rawURL = rawURL[:i]
	}
	return strings.ToLower(rawURL)
}
