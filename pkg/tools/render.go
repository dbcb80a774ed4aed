package tools

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/modelrelay/relay/pkg/api"
	"github.com/modelrelay/relay/pkg/debug"
	"github.com/modelrelay/relay/pkg/observability"
)

// jsonResult renders a decoded provider payload as JSON text content.
func jsonResult(tool string, v any) *mcp.CallToolResult {
	observability.ToolExecutionsTotal.WithLabelValues(tool, "ok").Inc()

	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		// The payload came out of json.Decode, so this should not
		// happen; surface it as a tool failure rather than panicking.
		return errResult(tool, fmt.Errorf("encoding result: %w", err))
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: string(data)}},
	}
}

// errResult converts a propagated error into a textual IsError tool
// result. Errors never escape to the protocol layer as failures that
// would take the process down.
func errResult(tool string, err error) *mcp.CallToolResult {
	observability.ToolExecutionsTotal.WithLabelValues(tool, "error").Inc()
	debug.Log("tools", "tool failed", "tool", tool, "error", err)

	return &mcp.CallToolResult{
		IsError: true,
		Content: []mcp.Content{&mcp.TextContent{Text: renderError(err)}},
	}
}

// renderError produces the user-facing failure text for an error from
// the dispatcher.
func renderError(err error) string {
	var pe *api.ProviderError
	if errors.As(err, &pe) {
		if api.IsRateLimited(err) {
			return fmt.Sprintf("OpenAI rate limit exceeded (HTTP 429) and retries are exhausted: %s", providerDetail(pe))
		}
		return fmt.Sprintf("OpenAI API error (HTTP %d): %s", pe.StatusCode, providerDetail(pe))
	}

	var te *api.TransportError
	if errors.As(err, &te) {
		return fmt.Sprintf("network error calling OpenAI (%s): %s", te.Op, te.Err)
	}

	return err.Error()
}

func providerDetail(pe *api.ProviderError) string {
	if pe.Message != "" {
		return pe.Message
	}
	if pe.Body != "" {
		return debug.Truncate(pe.Body, 512)
	}
	return "no error detail provided"
}
