package classify

import "testing"

func TestClassify(t *testing.T) {
	cases := []struct {
		name string
		url  string
		ct   string
		want Class
	}{
		{"pdf suffix with html content type", "https://example.com/report.pdf", "text/html", Binary},
		{"pdf suffix no content type", "https://example.com/annual/REPORT.PDF", "", Binary},
		{"pdf suffix generic content type", "https://example.com/r.pdf?download=1", "application/octet-stream", Binary},
		{"pdf content type no extension", "https://example.com/download?id=42", "application/pdf", Binary},
		{"pdf content type mixed case", "https://example.com/file", "Application/PDF; qs=0.9", Binary},
		{"html", "https://example.com/doc.htm", "text/html; charset=utf-8", Markup},
		{"xhtml", "https://example.com/doc.xhtml", "application/xhtml+xml", Markup},
		{"pdf in query only", "https://example.com/view?file=x.pdf", "text/html", Markup},
		{"empty", "", "", Markup},
	}
	for _, tc := range cases {
		if got := Classify(tc.url, tc.ct); got != tc.want {
			t.Fatalf("%s: Classify(%q, %q) = %v, want %v", tc.name, tc.url, tc.ct, got, tc.want)
		}
	}
}

func TestClassify_PDFSuffixAlwaysBinary(t *testing.T) {
	for _, ct := range []string{"", "text/html", "text/plain", "application/xml", "*/*", "garbage;;"} {
		if got := Classify("https://www.example.org/files/q3.pdf", ct); got != Binary {
			t.Fatalf("content type %q: got %v, want binary", ct, got)
		}
	}
}

func TestIsIndexPage(t *testing.T) {
	cases := []struct {
		url  string
		want bool
	}{
		{"https://www.sec.gov/Archives/edgar/data/320193/000032019323000106/0000320193-23-000106-index.htm", true},
		{"https://sec.gov/Archives/edgar/data/1/2/0000000001-24-000001-index.html", true},
		{"https://WWW.SEC.GOV/Archives/X-INDEX.HTM", true},
		{"https://www.sec.gov/Archives/edgar/data/1/2/0000000001-24-000001-index.htm?x=1", true},
		{"https://www.sec.gov/Archives/edgar/data/320193/000032019323000106/aapl-20230930.htm", false},
		{"https://example.com/0000320193-23-000106-index.htm", false},
		{"https://notsec.gov/a-index.htm", false},
		{"https://www.sec.gov.evil.example/a-index.htm", false},
		{"https://www.sec.gov/cgi-bin/browse-edgar", false},
		{"::", false},
	}
	for _, tc := range cases {
		if got := IsIndexPage(tc.url); got != tc.want {
			t.Fatalf("IsIndexPage(%q) = %v, want %v", tc.url, got, tc.want)
		}
	}
}

func TestLinkPredicates(t *testing.T) {
	if !HasIndexSuffix("https://example.com/a/b-index.html") {
		t.Fatalf("expected index suffix regardless of host")
	}
	if HasIndexSuffix("https://example.com/index.htm") {
		t.Fatalf("bare index.htm is not a filing index page")
	}
	if !IsMarkupLink("https://example.com/a/doc.HTM?x=1#top") {
		t.Fatalf("expected markup link")
	}
	if IsMarkupLink("https://example.com/a/doc.xml") {
		t.Fatalf("xml is not a markup link")
	}
}

func TestMediaType(t *testing.T) {
	cases := map[string]string{
		"":                          "",
		"text/html; charset=UTF-8":  "text/html",
		"Application/PDF":           "application/pdf",
		" text/html ;;broken=":      "text/html",
		"application/xhtml+xml":     "application/xhtml+xml",
	}
	for in, want := range cases {
		if got := MediaType(in); got != want {
			t.Fatalf("MediaType(%q) = %q, want %q", in, got, want)
		}
	}
}
