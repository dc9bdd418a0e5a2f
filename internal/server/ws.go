package server

import (
	"context"
	"log"
	"net/http"

	"github.com/google/uuid"

	"github.com/chris/relay/internal/agent"
)

// handleChatWS streams one exchange over a websocket: the client sends a
// single ChatRequest, the server answers with the same JSON event objects
// the SSE endpoint frames, one per websocket message, and closes.
func (s *Server) handleChatWS(w http.ResponseWriter, r *http.Request) {
	if errs := s.cfg.Validate(); len(errs) > 0 {
		writeJSON(w, http.StatusBadRequest, map[string]any{"errors": errs})
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("websocket upgrade: %v", err)
		return
	}
	defer conn.Close()

	var req ChatRequest
	if err := conn.ReadJSON(&req); err != nil {
		_ = conn.WriteJSON(map[string]any{"type": "error", "message": "invalid JSON request"})
		return
	}
	if err := validateChatRequest(&req); err != nil {
		_ = conn.WriteJSON(map[string]any{"type": "error", "message": err.Error()})
		return
	}

	history, err := s.resolveHistory(&req)
	if err != nil {
		_ = conn.WriteJSON(map[string]any{"type": "error", "message": err.Error()})
		return
	}

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	requestID := "req_" + uuid.NewString()
	if err := conn.WriteJSON(map[string]any{"type": "meta", "request_id": requestID}); err != nil {
		return
	}

	var reply []byte
	events := s.agent.Run(ctx, s.systemPrompt(&req), history, req.useTools())
	for ev := range events {
		if ev.Type == agent.EventDelta {
			reply = append(reply, ev.Content...)
		}
		if err := conn.WriteJSON(ev); err != nil {
			cancel() // stop the run, then drain what's left
			for range events {
			}
			return
		}
	}

	s.persistAssistant(req.SessionID, string(reply))
}
