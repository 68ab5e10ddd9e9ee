// Package index locates the primary disclosure document on a filing index
// page.
//
// Resolution runs in two passes. The first scans the page's tables row by
// row and returns the first row whose declared type is a primary form code.
// The declared type of a row is decided by a chain of TypeMatchers; the
// first matcher with an opinion wins. When no row qualifies, the second pass
// returns the first markup link on the page that is not itself an index page.
package index

import (
	"bytes"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/rs/zerolog/log"

	"github.com/hyperifyio/filingtext/internal/classify"
)

// DefaultPrimaryForms are the periodic-report form codes treated as primary
// documents.
var DefaultPrimaryForms = []string{"10-K", "10-Q"}

// Entry is one linked row of an index table.
type Entry struct {
	// Link is absolute, resolved against the page URL.
	Link string
	// Type is the declared type of the row, "" when none was found.
	Type string
	// Table and Row give the row's position in document order.
	Table int
	Row   int
}

// Resolver finds primary documents. The zero value uses DefaultPrimaryForms
// and DefaultMatchers.
type Resolver struct {
	PrimaryForms []string
	Matchers     []TypeMatcher
}

// NewResolver returns a Resolver for the given form codes. With no codes it
// falls back to DefaultPrimaryForms.
func NewResolver(forms ...string) *Resolver {
	return &Resolver{PrimaryForms: forms}
}

// ResolvePrimary returns the absolute URL of the primary document listed on
// the index page, or false when neither pass finds a candidate.
func (r *Resolver) ResolvePrimary(markup []byte, baseURL string) (string, bool) {
	doc, base, ok := parse(markup, baseURL)
	if !ok {
		return "", false
	}
	forms := r.forms()
	for _, e := range r.entries(doc, base, forms) {
		if isPrimaryForm(e.Type, forms) && !classify.HasIndexSuffix(e.Link) {
			log.Debug().Str("link", e.Link).Str("type", e.Type).Int("table", e.Table).Int("row", e.Row).Msg("primary document from index table")
			return e.Link, true
		}
	}
	if link, ok := fallbackLink(doc, base); ok {
		log.Debug().Str("link", link).Msg("primary document from fallback link scan")
		return link, true
	}
	return "", false
}

// Entries lists every linked table row on the page with its declared type.
func (r *Resolver) Entries(markup []byte, baseURL string) []Entry {
	doc, base, ok := parse(markup, baseURL)
	if !ok {
		return nil
	}
	return r.entries(doc, base, r.forms())
}

func (r *Resolver) forms() []string {
	if len(r.PrimaryForms) == 0 {
		return DefaultPrimaryForms
	}
	return r.PrimaryForms
}

func (r *Resolver) matchers(forms []string) []TypeMatcher {
	if len(r.Matchers) > 0 {
		return r.Matchers
	}
	return DefaultMatchers(forms)
}

func (r *Resolver) entries(doc *goquery.Document, base *url.URL, forms []string) []Entry {
	matchers := r.matchers(forms)
	var out []Entry
	doc.Find("table").Each(func(ti int, tbl *goquery.Selection) {
		t := newTable(tbl)
		tbl.Find("tr").Each(func(ri int, tr *goquery.Selection) {
			href, ok := firstHref(tr)
			if !ok {
				return
			}
			link, ok := absolute(base, href)
			if !ok {
				return
			}
			cells := cellTexts(tr)
			out = append(out, Entry{
				Link:  link,
				Type:  declaredType(matchers, t, cells),
				Table: ti,
				Row:   ri,
			})
		})
	})
	return out
}

func fallbackLink(doc *goquery.Document, base *url.URL) (string, bool) {
	var found string
	doc.Find("a[href]").EachWithBreak(func(_ int, a *goquery.Selection) bool {
		href := strings.TrimSpace(a.AttrOr("href", ""))
		if href == "" {
			return true
		}
		link, ok := absolute(base, href)
		if !ok {
			return true
		}
		if classify.IsMarkupLink(link) && !classify.HasIndexSuffix(link) {
			found = link
			return false
		}
		return true
	})
	return found, found != ""
}

func parse(markup []byte, baseURL string) (*goquery.Document, *url.URL, bool) {
	base, err := url.Parse(strings.TrimSpace(baseURL))
	if err != nil {
		return nil, nil, false
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(markup))
	if err != nil {
		log.Debug().Err(err).Str("url", baseURL).Msg("index page parse failed")
		return nil, nil, false
	}
	return doc, base, true
}

func firstHref(tr *goquery.Selection) (string, bool) {
	var href string
	tr.Find("a[href]").EachWithBreak(func(_ int, a *goquery.Selection) bool {
		href = strings.TrimSpace(a.AttrOr("href", ""))
		return href == ""
	})
	return href, href != ""
}

// absolute resolves href against base. Links into the registry's inline
// XBRL viewer (/ix?doc=/Archives/...) are unwrapped to the document itself.
func absolute(base *url.URL, href string) (string, bool) {
	ref, err := url.Parse(href)
	if err != nil {
		return "", false
	}
	u := base.ResolveReference(ref)
	if u.Path == "/ix" && classify.IsRegistryHost(u.Hostname()) {
		if doc := u.Query().Get("doc"); strings.HasPrefix(doc, "/") {
			if inner, err := url.Parse(doc); err == nil {
				u = u.ResolveReference(inner)
			}
		}
	}
	return u.String(), true
}

func cellTexts(tr *goquery.Selection) []string {
	cells := tr.ChildrenFiltered("td, th")
	out := make([]string, 0, cells.Length())
	cells.Each(func(_ int, c *goquery.Selection) {
		out = append(out, cleanText(c.Text()))
	})
	return out
}

func cleanText(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func isPrimaryForm(t string, forms []string) bool {
	if t == "" {
		return false
	}
	for _, f := range forms {
		if strings.EqualFold(t, f) {
			return true
		}
	}
	return false
}
