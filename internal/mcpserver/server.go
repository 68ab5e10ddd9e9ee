// Package mcpserver exposes the extraction pipeline as an MCP tool.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/rs/zerolog/log"

	"github.com/hyperifyio/filingtext/internal/pipeline"
)

// ToolName is the name clients call.
const ToolName = "extract_text_from_pdf"

// Runner runs one extraction. *pipeline.Pipeline implements it.
type Runner interface {
	RunWithTimeout(ctx context.Context, url string, timeout time.Duration) pipeline.Result
}

// New returns an MCP server with the extraction tool registered.
func New(r Runner, version string) *server.MCPServer {
	s := server.NewMCPServer("filingtext", version,
		server.WithToolCapabilities(false),
		server.WithRecovery(),
	)
	tool := mcp.NewTool(ToolName,
		mcp.WithDescription("Fetch a PDF or HTML document, or an SEC EDGAR filing index page, and return its plain text. Index pages are resolved to the primary 10-K/10-Q document."),
		mcp.WithString("url",
			mcp.Required(),
			mcp.Description("Direct document URL or filing index page URL"),
		),
		mcp.WithNumber("timeout_seconds",
			mcp.Description("Per-attempt fetch timeout in seconds"),
		),
	)
	s.AddTool(tool, handler(r))
	return s
}

func handler(r Runner) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		url, err := req.RequireString("url")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		secs := req.GetFloat("timeout_seconds", 0)
		if secs < 0 {
			return mcp.NewToolResultError("timeout_seconds must not be negative"), nil
		}
		timeout := time.Duration(secs * float64(time.Second))

		start := time.Now()
		res := r.RunWithTimeout(ctx, url, timeout)
		log.Info().Str("url", url).Bool("ok", res.OK).Str("message", res.Message).Dur("elapsed", time.Since(start)).Msg("tool call")

		b, err := json.Marshal(res)
		if err != nil {
			return nil, fmt.Errorf("encode result: %w", err)
		}
		if !res.OK {
			return mcp.NewToolResultError(string(b)), nil
		}
		return mcp.NewToolResultText(string(b)), nil
	}
}
