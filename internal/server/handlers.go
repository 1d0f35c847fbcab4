package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"

	"mcp-gateway/internal/config"
	"mcp-gateway/internal/llm"
	"mcp-gateway/internal/service"
)

type queryRequest struct {
	Prompt       string   `json:"prompt"`
	UserID       string   `json:"user_id,omitempty"`
	Provider     string   `json:"provider,omitempty"`
	Model        string   `json:"model,omitempty"`
	MaxSteps     int      `json:"max_steps,omitempty"`
	Temperature  *float64 `json:"temperature,omitempty"`
	MaxTokens    *int     `json:"max_tokens,omitempty"`
	SystemPrompt string   `json:"system_prompt,omitempty"`
	PromptFile   string   `json:"prompt_file,omitempty"`
	UseContext   *bool    `json:"use_context,omitempty"`
}

type queryResponse struct {
	Response             string  `json:"response"`
	Provider             string  `json:"provider"`
	Model                string  `json:"model"`
	Steps                int     `json:"steps"`
	Timestamp            string  `json:"timestamp"`
	ExecutionTime        float64 `json:"execution_time"`
	ConversationID       string  `json:"conversation_id"`
	ContextUsed          bool    `json:"context_used"`
	ContextMessagesCount int     `json:"context_messages_count"`
}

type healthResponse struct {
	Status       string             `json:"status"`
	Version      string             `json:"version"`
	MCPAvailable bool               `json:"mcp_available"`
	Providers    []llm.ProviderInfo `json:"providers"`
	Uptime       string             `json:"uptime"`
}

type modelsResponse struct {
	Provider     string   `json:"provider"`
	Models       []string `json:"models"`
	DefaultModel string   `json:"default_model"`
}

type clearMemoryRequest struct {
	UserID string `json:"user_id,omitempty"`
}

type clearMemoryResponse struct {
	Success      bool   `json:"success"`
	Message      string `json:"message"`
	ClearedUser  string `json:"cleared_user,omitempty"`
	UsersCleared int    `json:"users_cleared"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{
		Status:       "healthy",
		Version:      Version,
		MCPAvailable: s.agentAvailable,
		Providers:    s.registry.List(),
		Uptime:       time.Since(s.startTime).String(),
	})
}

func (s *Server) handleTest(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"message":       "MCP gateway is running!",
		"timestamp":     time.Now().Format(time.RFC3339),
		"mcp_available": s.agentAvailable,
	})
}

// handleConfig returns the loaded configuration with credentials redacted.
func (s *Server) handleConfig(w http.ResponseWriter, r *http.Request) {
	redacted := *s.cfg
	redacted.Providers = make(map[string]config.ProviderConfig, len(s.cfg.Providers))
	for name, pc := range s.cfg.Providers {
		if pc.APIKey != "" {
			pc.APIKey = "***"
		}
		redacted.Providers[name] = pc
	}
	writeJSON(w, http.StatusOK, redacted)
}

func (s *Server) handleListProviders(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.registry.List())
}

func (s *Server) handleListModels(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "provider")

	info, err := s.registry.Describe(name)
	if err != nil {
		if errors.Is(err, llm.ErrProviderNotFound) {
			writeError(w, http.StatusNotFound, fmt.Sprintf("provider %s not found", name))
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, modelsResponse{
		Provider:     name,
		Models:       info.Models,
		DefaultModel: info.DefaultModel,
	})
}

func (s *Server) handleQuery(w http.ResponseWriter, r *http.Request) {
	var req queryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.Prompt == "" {
		writeError(w, http.StatusBadRequest, "prompt is required")
		return
	}

	useContext := true
	if req.UseContext != nil {
		useContext = *req.UseContext
	}

	outcome, err := s.orchestrator.Query(r.Context(), service.QueryRequest{
		Prompt:       req.Prompt,
		UserID:       req.UserID,
		Provider:     req.Provider,
		Model:        req.Model,
		MaxSteps:     req.MaxSteps,
		SystemPrompt: req.SystemPrompt,
		PromptFile:   req.PromptFile,
		UseContext:   useContext,
	})
	if err != nil {
		log.Error("query failed", "err", err)
		var cfgErr *service.ConfigurationError
		if errors.As(err, &cfgErr) {
			writeError(w, http.StatusServiceUnavailable, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, queryResponse{
		Response:             outcome.Response,
		Provider:             outcome.Provider,
		Model:                outcome.Model,
		Steps:                outcome.Steps,
		Timestamp:            outcome.Timestamp.Format(time.RFC3339),
		ExecutionTime:        outcome.ExecutionTime.Seconds(),
		ConversationID:       outcome.ConversationID,
		ContextUsed:          outcome.ContextUsed,
		ContextMessagesCount: outcome.ContextMessages,
	})
}

func (s *Server) handleMemoryStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.store.Snapshot())
}

func (s *Server) handleMemoryClear(w http.ResponseWriter, r *http.Request) {
	var req clearMemoryRequest
	if r.Body != nil {
		// An empty body means "clear everything".
		_ = json.NewDecoder(r.Body).Decode(&req)
	}

	if req.UserID != "" {
		existed := s.store.Clear(req.UserID)
		cleared := 0
		msg := fmt.Sprintf("conversation memory cleared for user: %s", req.UserID)
		if existed {
			cleared = 1
		} else {
			msg += " (user had no active conversations)"
		}
		writeJSON(w, http.StatusOK, clearMemoryResponse{
			Success:      true,
			Message:      msg,
			ClearedUser:  req.UserID,
			UsersCleared: cleared,
		})
		return
	}

	n := s.store.ClearAll()
	writeJSON(w, http.StatusOK, clearMemoryResponse{
		Success:      true,
		Message:      fmt.Sprintf("all conversation memory cleared. users affected: %d", n),
		UsersCleared: n,
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
