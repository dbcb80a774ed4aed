package tools

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/modelrelay/relay/pkg/api"
	"github.com/modelrelay/relay/pkg/openai"
)

func newHandlers(t *testing.T, handler http.HandlerFunc) *Handlers {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client, err := openai.New("sk-test",
		openai.WithBaseURL(srv.URL), openai.WithMinInterval(0))
	if err != nil {
		t.Fatalf("creating client: %v", err)
	}
	t.Cleanup(func() { client.Close() })
	return NewHandlers(client)
}

func resultText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	if len(result.Content) != 1 {
		t.Fatalf("expected 1 content item, got %d", len(result.Content))
	}
	tc, ok := result.Content[0].(*mcp.TextContent)
	if !ok {
		t.Fatalf("expected text content, got %T", result.Content[0])
	}
	return tc.Text
}

func TestListModels_Success(t *testing.T) {
	h := newHandlers(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"object":"list","data":[{"id":"gpt-4o","object":"model","owned_by":"openai"}]}`))
	})

	result, _, err := h.ListModels(context.Background(), nil, struct{}{})
	if err != nil {
		t.Fatalf("handler returned protocol error: %v", err)
	}
	if result.IsError {
		t.Fatalf("unexpected tool error: %s", resultText(t, result))
	}

	var list openai.ModelList
	if err := json.Unmarshal([]byte(resultText(t, result)), &list); err != nil {
		t.Fatalf("result is not JSON: %v", err)
	}
	if len(list.Data) != 1 || list.Data[0].ID != "gpt-4o" {
		t.Errorf("unexpected payload: %+v", list)
	}
}

func TestChatCompletion_ErrorBecomesTextResult(t *testing.T) {
	h := newHandlers(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error":{"message":"The server had an error","type":"server_error"}}`))
	})

	result, _, err := h.ChatCompletion(context.Background(), nil, ChatCompletionInput{
		Model:    "gpt-4o",
		Messages: []map[string]any{{"role": "user", "content": "hi"}},
	})
	if err != nil {
		t.Fatalf("provider failures must not surface as protocol errors: %v", err)
	}
	if !result.IsError {
		t.Fatal("expected an IsError tool result")
	}

	text := resultText(t, result)
	if !strings.Contains(text, "HTTP 500") || !strings.Contains(text, "The server had an error") {
		t.Errorf("error text = %q", text)
	}
}

func TestTextToSpeech_ReturnsBase64Audio(t *testing.T) {
	h := newHandlers(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "audio/mpeg")
		w.Write([]byte{0x01, 0x02, 0x03})
	})

	result, _, err := h.TextToSpeech(context.Background(), nil, TextToSpeechInput{
		Model: "tts-1", Input: "hi", Voice: "alloy",
	})
	if err != nil {
		t.Fatalf("handler failed: %v", err)
	}
	if result.IsError {
		t.Fatalf("unexpected tool error: %s", resultText(t, result))
	}

	var resp openai.SpeechResponse
	if err := json.Unmarshal([]byte(resultText(t, result)), &resp); err != nil {
		t.Fatalf("result is not JSON: %v", err)
	}
	if resp.AudioBase64 != "AQID" {
		t.Errorf("AudioBase64 = %q, want AQID (base64 of 0x01 0x02 0x03)", resp.AudioBase64)
	}
}

func TestRenderError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want []string
	}{
		{
			"rate limited",
			&api.ProviderError{StatusCode: 429, Message: "Rate limit reached"},
			[]string{"rate limit", "429", "Rate limit reached"},
		},
		{
			"provider error without message",
			&api.ProviderError{StatusCode: 502, Body: "bad gateway"},
			[]string{"HTTP 502", "bad gateway"},
		},
		{
			"transport",
			api.NewTransportError("models.list", errors.New("connection refused")),
			[]string{"network error", "models.list", "connection refused"},
		},
		{
			"other",
			errors.New("something odd"),
			[]string{"something odd"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			text := strings.ToLower(renderError(tt.err))
			for _, want := range tt.want {
				if !strings.Contains(text, strings.ToLower(want)) {
					t.Errorf("renderError() = %q, missing %q", text, want)
				}
			}
		})
	}
}

func TestRegister(t *testing.T) {
	client, err := openai.New("sk-test")
	if err != nil {
		t.Fatal(err)
	}
	server := mcp.NewServer(&mcp.Implementation{Name: "relay-test", Version: "v0.0.1"}, nil)

	// Registration must not panic and must accept every handler
	// signature.
	Register(server, client)
}
