// Command server runs the relay MCP server, exposing the OpenAI API as
// callable tools behind a paced, retrying dispatcher.
//
// Configuration is layered (defaults, YAML file, environment); see
// pkg/config. The most common settings:
//
//	OPENAI_API_KEY     - API credential (required unless set in config)
//	RELAY_BASE_URL     - API origin (default: https://api.openai.com)
//	RELAY_TRANSPORT    - "stdio" (default) or "http"
//	RELAY_PORT         - listen port for the http transport
//	RELAY_DEBUG        - debug categories (dispatch,tools,config,transport)
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/modelrelay/relay/pkg/config"
	"github.com/modelrelay/relay/pkg/debug"
	"github.com/modelrelay/relay/pkg/observability"
	"github.com/modelrelay/relay/pkg/openai"
	"github.com/modelrelay/relay/pkg/tools"
)

const version = "v0.1.0"

func main() {
	configPath := flag.String("config", "", "path to config file (optional)")
	flag.Parse()

	if err := run(*configPath); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}

func run(configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	debug.Init(cfg.Logging.Debug, cfg.Logging.Level)
	debug.Log("config", "configuration loaded",
		"transport", cfg.Server.Transport, "base_url", cfg.OpenAI.BaseURL)

	// Construct the dispatcher. This is the fatal credential check:
	// without an API key the server must not start.
	client, err := openai.New(cfg.OpenAI.APIKey,
		openai.WithBaseURL(cfg.OpenAI.BaseURL),
		openai.WithHTTPClient(&http.Client{Timeout: cfg.OpenAI.Timeout.Std()}),
		openai.WithMinInterval(cfg.OpenAI.MinInterval.Std()),
		openai.WithMaxRetries(cfg.OpenAI.MaxRetries),
	)
	if err != nil {
		return err
	}
	defer client.Close()

	server := mcp.NewServer(
		&mcp.Implementation{Name: "relay", Version: version},
		nil,
	)
	tools.Register(server, client)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	switch cfg.Server.Transport {
	case "http":
		return serveHTTP(ctx, cfg, server)
	default:
		return serveStdio(ctx, server)
	}
}

// serveStdio runs the MCP server over stdin/stdout until the client
// disconnects or a termination signal arrives.
func serveStdio(ctx context.Context, server *mcp.Server) error {
	slog.Info("relay starting", "transport", "stdio", "version", version)
	if err := server.Run(ctx, &mcp.StdioTransport{}); err != nil && ctx.Err() == nil {
		return fmt.Errorf("stdio transport: %w", err)
	}
	return nil
}

// serveHTTP runs the MCP server over the streamable HTTP transport,
// alongside health and metrics endpoints.
func serveHTTP(ctx context.Context, cfg *config.Config, server *mcp.Server) error {
	handler := mcp.NewStreamableHTTPHandler(func(*http.Request) *mcp.Server {
		return server
	}, nil)

	mux := http.NewServeMux()
	mux.Handle("/mcp", handler)
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok\n"))
	})
	if cfg.Metrics.Enabled {
		mux.Handle("GET "+cfg.Metrics.Path, observability.Handler())
	}

	srv := &http.Server{
		Addr:    ":" + strconv.Itoa(cfg.Server.Port),
		Handler: mux,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("relay starting", "transport", "http", "port", cfg.Server.Port, "version", version)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		slog.Info("shutting down gracefully")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		return err
	}
}
