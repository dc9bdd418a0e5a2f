// Package server exposes the chat service over HTTP: a health check, a
// one-shot chat endpoint, an SSE streaming endpoint, and a websocket
// streaming variant.
package server

import (
	"context"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/chris/relay/config"
	"github.com/chris/relay/internal/agent"
	"github.com/chris/relay/internal/llm"
	"github.com/chris/relay/internal/session"
)

// Runner is the orchestrator surface the handlers drive.
type Runner interface {
	Run(ctx context.Context, systemPrompt string, history []llm.Message, useTools bool) <-chan agent.Event
}

type Server struct {
	cfg      *config.Config
	agent    Runner
	store    session.Store
	mux      *http.ServeMux
	upgrader websocket.Upgrader
}

func New(cfg *config.Config, runner Runner, store session.Store) *Server {
	s := &Server{
		cfg:   cfg,
		agent: runner,
		store: store,
		mux:   http.NewServeMux(),
	}

	origins := parseOrigins(cfg.CORSOrigins)
	allowAny := len(origins) == 1 && origins[0] == "*"
	allowed := make(map[string]bool, len(origins))
	for _, o := range origins {
		allowed[o] = true
	}
	s.upgrader = websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool {
			return allowAny || allowed[r.Header.Get("Origin")]
		},
	}

	s.mux.HandleFunc("/healthz", s.handleHealthz)
	s.mux.HandleFunc("/api/chat", s.handleChat)
	s.mux.HandleFunc("/api/chat/stream", s.handleChatStream)
	s.mux.HandleFunc("/api/chat/ws", s.handleChatWS)
	return s
}

func (s *Server) Handler() http.Handler {
	return corsMiddleware(parseOrigins(s.cfg.CORSOrigins), s.mux)
}
