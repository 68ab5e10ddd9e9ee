package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/hyperifyio/filingtext/internal/app"
	"github.com/hyperifyio/filingtext/internal/pipeline"
)

func newServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/report.htm":
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			_, _ = w.Write([]byte("<h1>Annual Report</h1><p>1</p><p>2</p><p>3</p>"))
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestRun_PrintsJSON(t *testing.T) {
	srv := newServer(t)
	var stdout, stderr bytes.Buffer
	code := run(context.Background(), []string{srv.URL + "/report.htm"}, &stdout, &stderr)
	if code != exitOK {
		t.Fatalf("exit = %d, stderr = %s", code, stderr.String())
	}
	var res pipeline.Result
	if err := json.Unmarshal(stdout.Bytes(), &res); err != nil {
		t.Fatalf("decode %q: %v", stdout.String(), err)
	}
	if !res.OK || res.Message != "HTML parsed" || res.ContentType != "text/html" {
		t.Fatalf("got %+v", res)
	}
	if *res.Text != "Annual Report\n1\n2\n3" {
		t.Fatalf("text = %q", *res.Text)
	}
}

func TestRun_TextOnlyWithMaxLines(t *testing.T) {
	srv := newServer(t)
	var stdout, stderr bytes.Buffer
	code := run(context.Background(), []string{"-text", "-max-lines", "2", srv.URL + "/report.htm"}, &stdout, &stderr)
	if code != exitOK {
		t.Fatalf("exit = %d", code)
	}
	if stdout.String() != "Annual Report\n1\n" {
		t.Fatalf("stdout = %q", stdout.String())
	}
}

func TestRun_FailureExitsOne(t *testing.T) {
	srv := newServer(t)
	var stdout, stderr bytes.Buffer
	code := run(context.Background(), []string{srv.URL + "/missing.htm"}, &stdout, &stderr)
	if code != exitFailed {
		t.Fatalf("exit = %d, want %d", code, exitFailed)
	}
	if !strings.Contains(stdout.String(), `"ok": false`) || !strings.Contains(stdout.String(), "fetch failed") {
		t.Fatalf("stdout = %s", stdout.String())
	}
	if strings.Contains(stdout.String(), `"text"`) {
		t.Fatalf("failed result must not carry text: %s", stdout.String())
	}
}

func TestRun_UsageErrors(t *testing.T) {
	for _, args := range [][]string{
		{},
		{"a", "b"},
		{"-attempts", "0", "https://example.com"},
		{"-forms", " , ", "https://example.com"},
		{"-no-such-flag", "https://example.com"},
	} {
		var stdout, stderr bytes.Buffer
		if code := run(context.Background(), args, &stdout, &stderr); code != exitUsage {
			t.Fatalf("%q: exit = %d, want %d", args, code, exitUsage)
		}
	}
}

func TestRun_FlagsBeatConfigFile(t *testing.T) {
	srv := newServer(t)
	path := filepath.Join(t.TempDir(), "filingtext.yaml")
	if err := os.WriteFile(path, []byte("extract:\n  maxLines: 1\n"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}

	var stdout, stderr bytes.Buffer
	if code := run(context.Background(), []string{"-config", path, "-text", srv.URL + "/report.htm"}, &stdout, &stderr); code != exitOK {
		t.Fatalf("exit = %d", code)
	}
	if stdout.String() != "Annual Report\n" {
		t.Fatalf("config file cap not applied: %q", stdout.String())
	}

	stdout.Reset()
	if code := run(context.Background(), []string{"-config", path, "-text", "-max-lines", "3", srv.URL + "/report.htm"}, &stdout, &stderr); code != exitOK {
		t.Fatalf("exit = %d", code)
	}
	if stdout.String() != "Annual Report\n1\n2\n" {
		t.Fatalf("flag should override file: %q", stdout.String())
	}
}

func TestRun_BadConfigFile(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code := run(context.Background(), []string{"-config", filepath.Join(t.TempDir(), "missing.yaml"), "https://example.com"}, &stdout, &stderr)
	if code != exitUsage {
		t.Fatalf("exit = %d, want %d", code, exitUsage)
	}
}

func TestRun_Version(t *testing.T) {
	var stdout, stderr bytes.Buffer
	if code := run(context.Background(), []string{"-version"}, &stdout, &stderr); code != exitOK {
		t.Fatalf("exit = %d", code)
	}
	if !strings.Contains(stdout.String(), app.BuildVersion) {
		t.Fatalf("stdout = %q", stdout.String())
	}
}
