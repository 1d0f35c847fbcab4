package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"

	"mcp-gateway/internal/agent"
	"mcp-gateway/internal/config"
	"mcp-gateway/internal/eventbus"
	"mcp-gateway/internal/llm"
	"mcp-gateway/internal/memory"
	"mcp-gateway/internal/mcptool"
	"mcp-gateway/internal/prompt"
	"mcp-gateway/internal/server"
	"mcp-gateway/internal/service"
)

func main() {
	configPath := flag.String("config", "mcp_config.json", "path to the config file")
	flag.Parse()

	_ = godotenv.Load()

	if lvl, err := log.ParseLevel(os.Getenv("LOG_LEVEL")); err == nil {
		log.SetLevel(lvl)
	}

	cfg, err := config.NewLoader(*configPath).Load()
	if err != nil {
		log.Fatal("failed to load config", "err", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store := memory.NewStore(cfg.Memory.Limit, cfg.Memory.DefaultUserID)
	log.Info("conversation memory initialized", "limit", cfg.Memory.Limit, "default_user", cfg.Memory.DefaultUserID)

	composer := prompt.NewComposer(store, prompt.NewLoader(cfg.PromptsDir))

	var invoker agent.ToolInvoker
	tools, err := mcptool.Connect(ctx, cfg.MCPServers)
	if err != nil {
		log.Warn("MCP tool server unavailable, continuing without tools", "err", err)
	} else if tools != nil {
		invoker = tools
		defer tools.Close()
	}

	bus := eventbus.New()
	bus.Subscribe(eventbus.TopicQueryFailed, func(e eventbus.Event) {
		log.Debug("query failed", "cause", e.Payload)
	})
	bus.Subscribe(eventbus.TopicSessionRebound, func(e eventbus.Event) {
		log.Debug("session rebound", "binding", e.Payload)
	})

	session := service.NewSession(cfg, service.NewRunnerFactory(cfg, invoker), bus)
	orchestrator := service.NewOrchestrator(cfg, store, composer, session, bus)
	registry := llm.NewRegistry(cfg, true)

	srv := server.New(cfg, registry, orchestrator, store, true)
	if err := srv.ListenAndServe(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal("http server failed", "err", err)
	}
	log.Info("shutdown complete")
}
