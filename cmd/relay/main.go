package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/chris/relay/config"
	"github.com/chris/relay/internal/agent"
	"github.com/chris/relay/internal/llm"
	"github.com/chris/relay/internal/scheduler"
	"github.com/chris/relay/internal/server"
	"github.com/chris/relay/internal/session"
	"github.com/chris/relay/internal/tools"
)

func main() {
	cfg := config.Load()

	if errs := cfg.Validate(); len(errs) > 0 {
		log.Println("configuration problems (requests will fail until fixed):")
		for _, e := range errs {
			log.Printf("  - %s", e)
		}
	}

	apiKey := cfg.OpenAIKey
	switch cfg.LLMProvider {
	case "anthropic":
		apiKey = cfg.AnthropicKey
	case "dashscope":
		apiKey = cfg.DashScopeKey
	}
	baseURL := ""
	switch cfg.LLMProvider {
	case "dashscope":
		baseURL = cfg.DashScopeURL
	case "ollama":
		baseURL = cfg.OllamaBaseURL
	}

	client, err := llm.NewClient(llm.ProviderConfig{
		Provider:    cfg.LLMProvider,
		APIKey:      apiKey,
		Model:       cfg.LLMModel,
		BaseURL:     baseURL,
		Temperature: cfg.Temperature,
	})
	if err != nil {
		log.Fatalf("failed to create LLM client: %v", err)
	}

	var store session.Store
	if cfg.SessionsDB != "" {
		store, err = session.OpenSQLite(cfg.SessionsDB)
		if err != nil {
			log.Fatalf("failed to open session database: %v", err)
		}
	} else {
		store = session.NewMemoryStore()
	}
	defer store.Close()

	registry := tools.NewRegistry(
		tools.NewWebSearch(cfg.SerperKey, cfg.SerperGL, cfg.SerperHL, cfg.SerperLocation),
		tools.NewClock(),
	)

	ag := agent.New(client, registry, cfg.MaxToolIterations)

	sweeper := scheduler.NewSweeper(store, time.Duration(cfg.SessionTTLHours)*time.Hour)
	if err := sweeper.Start(cfg.SessionSweepCron); err != nil {
		log.Fatalf("failed to start session sweeper: %v", err)
	}
	defer sweeper.Stop()

	srv := &http.Server{
		Addr:    cfg.ListenAddr,
		Handler: server.New(cfg, ag, store).Handler(),
	}

	go func() {
		log.Printf("listening on %s (provider=%s model=%s)", cfg.ListenAddr, cfg.LLMProvider, cfg.LLMModel)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	log.Println("shutting down.")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("shutdown: %v", err)
	}
}
