package index

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Table is what matchers know about the table a row belongs to.
type Table struct {
	// Header holds the normalized header cell texts, nil when the table has
	// no header row.
	Header []string
	// TypeColumn is the index of the type/form header cell, or -1.
	TypeColumn int
}

// TypeMatcher infers the declared type of one table row from its cell
// texts. It returns "" when it has no opinion so the next matcher runs.
type TypeMatcher interface {
	DeclaredType(t Table, cells []string) string
}

// TypeMatcherFunc adapts a function to TypeMatcher.
type TypeMatcherFunc func(t Table, cells []string) string

func (f TypeMatcherFunc) DeclaredType(t Table, cells []string) string { return f(t, cells) }

// DefaultMatchers is the header-keyed lookup followed by the content-token
// fallback for the given form codes.
func DefaultMatchers(forms []string) []TypeMatcher {
	return []TypeMatcher{HeaderColumnMatcher{}, TokenMatcher{Forms: forms}}
}

// HeaderColumnMatcher reads the cell under the table's type header.
type HeaderColumnMatcher struct{}

func (HeaderColumnMatcher) DeclaredType(t Table, cells []string) string {
	if t.TypeColumn < 0 || t.TypeColumn >= len(cells) {
		return ""
	}
	return cells[t.TypeColumn]
}

// TokenMatcher scans a row for a cell that is exactly one of Forms. It only
// applies to tables without a recognized type header.
type TokenMatcher struct {
	Forms []string
}

func (m TokenMatcher) DeclaredType(t Table, cells []string) string {
	if t.TypeColumn >= 0 {
		return ""
	}
	for _, c := range cells {
		for _, f := range m.Forms {
			if strings.EqualFold(c, f) {
				return c
			}
		}
	}
	return ""
}

func declaredType(matchers []TypeMatcher, t Table, cells []string) string {
	for _, m := range matchers {
		if v := m.DeclaredType(t, cells); v != "" {
			return v
		}
	}
	return ""
}

var typeHeaders = map[string]bool{
	"type":      true,
	"form type": true,
	"form":      true,
}

// newTable reads the header of tbl: the cells of <thead> when present,
// otherwise the first row when it is made only of <th> cells.
func newTable(tbl *goquery.Selection) Table {
	t := Table{TypeColumn: -1}
	var header *goquery.Selection
	if thead := tbl.Find("thead").First(); thead.Length() > 0 {
		header = thead.Find("th, td")
	} else if first := tbl.Find("tr").First(); first.Length() > 0 {
		cells := first.ChildrenFiltered("td, th")
		if cells.Length() > 0 && cells.Length() == cells.Filter("th").Length() {
			header = cells
		}
	}
	if header == nil {
		return t
	}
	header.Each(func(i int, c *goquery.Selection) {
		h := strings.ToLower(cleanText(c.Text()))
		t.Header = append(t.Header, h)
		if t.TypeColumn < 0 && typeHeaders[h] {
			t.TypeColumn = i
		}
	})
	return t
}
