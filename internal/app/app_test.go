package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/hyperifyio/filingtext/internal/pipeline"
)

func TestNewPipeline_UsesBuildUserAgent(t *testing.T) {
	var gotUA string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte("<p>hello</p>"))
	}))
	defer srv.Close()

	res := NewPipeline(DefaultConfig()).Run(context.Background(), srv.URL+"/doc.htm")
	if !res.OK || *res.Text != "hello" {
		t.Fatalf("got %+v", res)
	}
	if !strings.HasPrefix(gotUA, "filingtext/"+BuildVersion+" ") || !strings.Contains(gotUA, "contact:") {
		t.Fatalf("user agent = %q", gotUA)
	}
}

func TestNewPipeline_DisablePDF(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/pdf")
		_, _ = w.Write([]byte("%PDF-1.4\n"))
	}))
	defer srv.Close()

	cfg := DefaultConfig()
	cfg.DisablePDF = true
	res := NewPipeline(cfg).Run(context.Background(), srv.URL+"/a.pdf")
	if res.OK || res.Message != pipeline.CapabilityMissingMessage {
		t.Fatalf("got %+v", res)
	}
}

func TestNewPipeline_MaxLines(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("<p>1</p><p>2</p><p>3</p>"))
	}))
	defer srv.Close()

	cfg := DefaultConfig()
	cfg.MaxLines = 2
	res := NewPipeline(cfg).Run(context.Background(), srv.URL)
	if !res.OK || *res.Text != "1\n2" {
		t.Fatalf("got %+v", res)
	}
}
