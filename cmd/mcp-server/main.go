package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/mark3labs/mcp-go/server"

	"github.com/8adimka/Go_Weather_Assistant/internal/cachex"
	"github.com/8adimka/Go_Weather_Assistant/internal/chat"
	"github.com/8adimka/Go_Weather_Assistant/internal/config"
	"github.com/8adimka/Go_Weather_Assistant/internal/logging"
	"github.com/8adimka/Go_Weather_Assistant/internal/mcpserver"
	"github.com/8adimka/Go_Weather_Assistant/internal/redisx"
	"github.com/8adimka/Go_Weather_Assistant/internal/retry"
	"github.com/8adimka/Go_Weather_Assistant/internal/tools"
	"github.com/8adimka/Go_Weather_Assistant/internal/tools/factory"
)

// Stdout carries the protocol, so logs go to stderr.
func main() {
	ctx := context.Background()

	cfg := config.Load()
	slog.SetDefault(logging.New(os.Stderr, logging.ParseLevel(cfg.LogLevel)))

	var store cachex.Store = cachex.NewMemory(cfg.CacheTTL())
	if cfg.RedisAddr != "" {
		client, err := redisx.Connect(ctx, cfg.RedisAddr, retry.ConfigFromAppConfig(cfg))
		if err != nil {
			slog.Warn("Redis unavailable, using in-memory cache", "addr", cfg.RedisAddr, "error", err)
		} else {
			defer client.Close()
			store = redisx.NewCache(client, cfg.CacheTTL())
		}
	}

	dispatcher := tools.NewDispatcher(factory.NewFactory(cfg, store).CreateAllTools(), nil)

	s, err := mcpserver.New(dispatcher, chat.Version)
	if err != nil {
		slog.Error("Failed to create MCP server", "error", err)
		os.Exit(1)
	}

	slog.Info("Serving weather tools over stdio", "tools", len(dispatcher.Catalog()))
	if err := server.ServeStdio(s); err != nil {
		slog.Error("MCP server stopped", "error", err)
		os.Exit(1)
	}
}
