package extract

import (
	"bytes"
	"io"
	"strings"
	"unicode/utf8"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
	"golang.org/x/net/html/charset"
	"golang.org/x/text/encoding"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// MaxLines caps the number of lines any extraction returns.
const MaxLines = 20000

// FromHTML converts markup into plain text: script, style and noscript
// elements are dropped, block elements start new lines, table cells are
// separated by spaces, blank lines are removed and the result is capped at
// maxLines lines (MaxLines when maxLines <= 0). contentType is used to pick
// the character set.
func FromHTML(input []byte, contentType string, maxLines int) (string, error) {
	if len(input) == 0 {
		return "", nil
	}
	node, err := html.Parse(decode(input, contentType))
	if err != nil {
		return "", &MalformedError{Format: "html", Err: err}
	}
	var b strings.Builder
	collectText(&b, node)
	return normalizeLines(b.String(), maxLines), nil
}

// decode returns a UTF-8 reader over input. A declared charset (BOM,
// Content-Type, meta tag) wins; otherwise valid UTF-8 is taken as is.
func decode(input []byte, contentType string) io.Reader {
	e, _, certain := charset.DetermineEncoding(input, contentType)
	if e == encoding.Nop || (!certain && utf8.Valid(input)) {
		return bytes.NewReader(input)
	}
	return transform.NewReader(bytes.NewReader(input), e.NewDecoder())
}

var skipElements = map[atom.Atom]bool{
	atom.Script:   true,
	atom.Style:    true,
	atom.Noscript: true,
	atom.Template: true,
}

var blockElements = map[atom.Atom]bool{
	atom.Address: true, atom.Article: true, atom.Aside: true, atom.Blockquote: true,
	atom.Body: true, atom.Br: true, atom.Caption: true, atom.Dd: true, atom.Div: true,
	atom.Dl: true, atom.Dt: true, atom.Fieldset: true, atom.Figcaption: true,
	atom.Figure: true, atom.Footer: true, atom.Form: true, atom.H1: true, atom.H2: true,
	atom.H3: true, atom.H4: true, atom.H5: true, atom.H6: true, atom.Header: true,
	atom.Hr: true, atom.Li: true, atom.Main: true, atom.Nav: true, atom.Ol: true,
	atom.P: true, atom.Pre: true, atom.Section: true, atom.Table: true, atom.Tbody: true,
	atom.Tfoot: true, atom.Thead: true, atom.Title: true, atom.Tr: true, atom.Ul: true,
}

func collectText(b *strings.Builder, n *html.Node) {
	switch n.Type {
	case html.TextNode:
		b.WriteString(n.Data)
		return
	case html.CommentNode, html.DoctypeNode:
		return
	case html.ElementNode:
		if skipElements[n.DataAtom] || isHiddenXBRL(n) {
			return
		}
		if blockElements[n.DataAtom] {
			b.WriteByte('\n')
		}
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collectText(b, c)
	}

	if n.Type == html.ElementNode {
		switch {
		case blockElements[n.DataAtom]:
			b.WriteByte('\n')
		case n.DataAtom == atom.Td || n.DataAtom == atom.Th:
			b.WriteByte(' ')
		}
	}
}

// isHiddenXBRL matches the ix:header block of inline XBRL filings, which
// carries machine-readable context data and no readable text.
func isHiddenXBRL(n *html.Node) bool {
	return n.DataAtom == 0 && strings.EqualFold(n.Data, "ix:header")
}

// normalizeLines trims and NFKC-normalizes every line, collapses internal
// whitespace runs, drops blank lines and keeps at most maxLines lines.
func normalizeLines(s string, maxLines int) string {
	if maxLines <= 0 {
		maxLines = MaxLines
	}
	var b strings.Builder
	kept := 0
	for len(s) > 0 && kept < maxLines {
		line := s
		if i := strings.IndexByte(s, '\n'); i >= 0 {
			line, s = s[:i], s[i+1:]
		} else {
			s = ""
		}
		line = collapseSpaces(norm.NFKC.String(line))
		if line == "" {
			continue
		}
		if kept > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(line)
		kept++
	}
	return b.String()
}

// collapseSpaces trims s and folds every run of Unicode whitespace into a
// single space.
func collapseSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
