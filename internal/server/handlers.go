package server

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/chris/relay/internal/agent"
	"github.com/chris/relay/internal/llm"
)

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

// handleChat runs one exchange and returns the full reply at once.
func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	req, ok := s.decodeChatRequest(w, r)
	if !ok {
		return
	}

	history, err := s.resolveHistory(req)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]any{"error": err.Error()})
		return
	}

	var reply strings.Builder
	var runErr string
	for ev := range s.agent.Run(r.Context(), s.systemPrompt(req), history, req.useTools()) {
		switch ev.Type {
		case agent.EventDelta:
			reply.WriteString(ev.Content)
		case agent.EventError:
			runErr = ev.Message
		}
	}
	if runErr != "" {
		writeJSON(w, http.StatusBadGateway, map[string]any{"error": runErr})
		return
	}

	s.persistAssistant(req.SessionID, reply.String())
	writeJSON(w, http.StatusOK, ChatResponse{Reply: reply.String()})
}

// handleChatStream runs one exchange and streams it as SSE frames. The
// first frame is always a meta frame carrying the request id; the last is
// done or error.
func (s *Server) handleChatStream(w http.ResponseWriter, r *http.Request) {
	req, ok := s.decodeChatRequest(w, r)
	if !ok {
		return
	}

	history, err := s.resolveHistory(req)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]any{"error": err.Error()})
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		writeJSON(w, http.StatusInternalServerError, map[string]any{"error": "streaming unsupported"})
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	requestID := "req_" + uuid.NewString()
	if err := writeSSE(w, map[string]any{"type": "meta", "request_id": requestID}); err != nil {
		return
	}
	flusher.Flush()

	var reply strings.Builder
	for ev := range s.agent.Run(r.Context(), s.systemPrompt(req), history, req.useTools()) {
		if ev.Type == agent.EventDelta {
			reply.WriteString(ev.Content)
		}
		if err := writeSSE(w, ev); err != nil {
			// client went away; the request context cancellation stops the run
			return
		}
		flusher.Flush()
	}

	s.persistAssistant(req.SessionID, reply.String())
}

// decodeChatRequest parses and validates one inbound request. Config
// problems are reported as a batch before any streaming starts.
func (s *Server) decodeChatRequest(w http.ResponseWriter, r *http.Request) (*ChatRequest, bool) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]any{"error": "method not allowed"})
		return nil, false
	}

	if errs := s.cfg.Validate(); len(errs) > 0 {
		writeJSON(w, http.StatusBadRequest, map[string]any{"errors": errs})
		return nil, false
	}

	var req ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "invalid JSON body"})
		return nil, false
	}
	if err := validateChatRequest(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": err.Error()})
		return nil, false
	}
	return &req, true
}

func validateChatRequest(req *ChatRequest) error {
	if req.SessionID != "" && req.Query == "" {
		return errors.New("query is required with session_id")
	}
	if req.SessionID == "" && req.Query == "" && len(req.Messages) == 0 {
		return errors.New("either session_id+query or messages is required")
	}
	return nil
}

// resolveHistory seeds the run's message list: from the session store for
// the session variant (appending the user turn first), or from the request
// body for the stateless variant. Either way the history is capped.
func (s *Server) resolveHistory(req *ChatRequest) ([]llm.Message, error) {
	max := req.MaxHistoryMessages
	if max <= 0 {
		max = s.cfg.MaxHistoryMessages
	}

	if req.SessionID != "" {
		if err := s.store.AppendUser(req.SessionID, req.Query); err != nil {
			return nil, err
		}
		history, err := s.store.Get(req.SessionID)
		if err != nil {
			return nil, err
		}
		return llm.Trim(history, max), nil
	}

	messages := Normalize(req.Messages)
	if req.Query != "" {
		messages = append(messages, llm.Message{Role: "user", Content: req.Query})
	}
	return llm.Trim(messages, max), nil
}

func (s *Server) systemPrompt(req *ChatRequest) string {
	if req.useTools() {
		return llm.WithToolGuidance(req.SystemPrompt)
	}
	if req.SystemPrompt != "" {
		return req.SystemPrompt
	}
	return llm.BasicSystemPrompt
}

func (s *Server) persistAssistant(sessionID, reply string) {
	if sessionID == "" || reply == "" {
		return
	}
	if err := s.store.AppendAssistant(sessionID, reply); err != nil {
		log.Printf("persisting assistant turn for %s: %v", sessionID, err)
	}
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
