// Command mock-openai runs a deterministic OpenAI-shaped backend for
// exercising the relay dispatcher without a real API key. It serves
// canned responses for the supported endpoints and can inject
// throttling responses to drive the 429 retry path.
//
// Configuration:
//
//	MOCK_PORT           - Listen port (default: 9090)
//	MOCK_THROTTLE_EVERY - Return 429 on every Nth request (0 = never)
//	MOCK_RETRY_AFTER    - Retry-After seconds on injected 429s (default: 1)
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"sync/atomic"
	"syscall"
	"time"
)

var (
	requests      atomic.Int64
	throttleEvery int64
	retryAfter    = "1"
)

func main() {
	port := envOrDefault("MOCK_PORT", "9090")
	if v := os.Getenv("MOCK_THROTTLE_EVERY"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			throttleEvery = n
		}
	}
	if v := os.Getenv("MOCK_RETRY_AFTER"); v != "" {
		retryAfter = v
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /v1/chat/completions", throttled(handleChatCompletions))
	mux.HandleFunc("POST /v1/embeddings", throttled(handleEmbeddings))
	mux.HandleFunc("GET /v1/models", throttled(handleModels))
	mux.HandleFunc("GET /v1/models/{id}", throttled(handleModel))
	mux.HandleFunc("POST /v1/images/generations", throttled(handleImages))
	mux.HandleFunc("POST /v1/audio/speech", throttled(handleSpeech))
	mux.HandleFunc("POST /v1/audio/transcriptions", throttled(handleTranscription))
	mux.HandleFunc("POST /v1/moderations", throttled(handleModerations))
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok\n"))
	})

	srv := &http.Server{Addr: ":" + port, Handler: mux}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		slog.Info("mock openai backend starting", "port", port, "throttle_every", throttleEvery)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("mock backend failed", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	srv.Shutdown(shutdownCtx)
}

// throttled wraps a handler with the 429 injection counter.
func throttled(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		n := requests.Add(1)
		if throttleEvery > 0 && n%throttleEvery == 0 {
			w.Header().Set("Retry-After", retryAfter)
			writeJSON(w, http.StatusTooManyRequests, map[string]any{
				"error": map[string]any{
					"message": "Rate limit reached (mock)",
					"type":    "requests",
					"code":    "rate_limit_exceeded",
				},
			})
			return
		}
		next(w, r)
	}
}

func handleChatCompletions(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Model    string           `json:"model"`
		Messages []map[string]any `json:"messages"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"id":      fmt.Sprintf("chatcmpl-mock-%d", requests.Load()),
		"object":  "chat.completion",
		"created": time.Now().Unix(),
		"model":   req.Model,
		"choices": []map[string]any{{
			"index": 0,
			"message": map[string]any{
				"role":    "assistant",
				"content": fmt.Sprintf("mock reply to %d message(s)", len(req.Messages)),
			},
			"finish_reason": "stop",
		}},
		"usage": map[string]int{"prompt_tokens": 10, "completion_tokens": 5, "total_tokens": 15},
	})
}

func handleEmbeddings(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"object": "list",
		"model":  "text-embedding-3-small",
		"data": []map[string]any{{
			"object":    "embedding",
			"index":     0,
			"embedding": []float64{0.1, -0.2, 0.3},
		}},
		"usage": map[string]int{"prompt_tokens": 3, "total_tokens": 3},
	})
}

func handleModels(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"object": "list",
		"data": []map[string]any{
			{"id": "gpt-4o", "object": "model", "created": 1715367049, "owned_by": "openai"},
			{"id": "tts-1", "object": "model", "created": 1681940951, "owned_by": "openai-internal"},
		},
	})
}

func handleModel(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"id": r.PathValue("id"), "object": "model", "created": 1715367049, "owned_by": "openai",
	})
}

func handleImages(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"created": time.Now().Unix(),
		"data":    []map[string]any{{"url": "https://example.invalid/mock.png"}},
	})
}

func handleSpeech(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "audio/mpeg")
	w.Write([]byte{0x49, 0x44, 0x33, 0x04, 0x00}) // ID3 header bytes
}

func handleTranscription(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"text": "mock transcription"})
}

func handleModerations(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"id":    "modr-mock",
		"model": "omni-moderation-latest",
		"results": []map[string]any{{
			"flagged":         false,
			"categories":      map[string]bool{"violence": false},
			"category_scores": map[string]float64{"violence": 0.001},
		}},
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]any{
		"error": map[string]any{"message": msg, "type": "invalid_request_error"},
	})
}

func envOrDefault(key, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultValue
}
