package server

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/sanketp27/travel-concierge/internal/types"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, map[string]any{
		"error":   code,
		"message": message,
	})
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "request body must be valid JSON")
		return false
	}
	return true
}

// GET /
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		writeError(w, http.StatusNotFound, "not_found", "The requested endpoint does not exist")
		return
	}
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "Method not allowed")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"service": "travel-concierge",
		"status":  "running",
		"endpoints": map[string]string{
			"health":    "/health",
			"readiness": "/readiness",
			"liveness":  "/liveness",
			"session":   "/getSession",
			"chat":      "/chat",
			"clear":     "/clearSession",
		},
	})
}

// GET /health
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "Method not allowed")
		return
	}

	overall := types.HealthStateHealthy
	components := make(map[string]types.HealthStatus, len(s.checks))
	for name, check := range s.checks {
		status := check.Health(r.Context())
		components[name] = status

		switch status.State {
		case types.HealthStateUnhealthy:
			overall = types.HealthStateUnhealthy
		case types.HealthStateDegraded:
			if overall == types.HealthStateHealthy {
				overall = types.HealthStateDegraded
			}
		}
	}

	status := http.StatusOK
	if overall == types.HealthStateUnhealthy {
		status = http.StatusServiceUnavailable
	}

	writeJSON(w, status, map[string]any{
		"status":     overall.String(),
		"timestamp":  time.Now().UTC().Format(time.RFC3339),
		"components": components,
	})
}

// GET /readiness
func (s *Server) handleReadiness(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "Method not allowed")
		return
	}
	if s.runner == nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]any{
			"status":  "not_ready",
			"message": "orchestrator not configured",
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"status": "ready"})
}

// GET /liveness
func (s *Server) handleLiveness(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "Method not allowed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"status": "alive"})
}

// POST /getSession
func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "Method not allowed")
		return
	}

	var req struct {
		UserID string `json:"user_id"`
	}
	// An empty body is fine here; a user ID is optional.
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
	_ = json.NewDecoder(r.Body).Decode(&req)

	if req.UserID == "" {
		req.UserID = uuid.New().String()
	}

	sessionID := types.NewID()
	s.logger.Info("session created",
		"session_id", sessionID.String(),
		"user_id", req.UserID,
	)

	writeJSON(w, http.StatusOK, map[string]any{
		"session_id": sessionID.String(),
		"user_id":    req.UserID,
		"status":     "created",
		"message":    "Session created. It will be initialized on first chat.",
	})
}

// POST /chat
func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "Method not allowed")
		return
	}

	var req struct {
		Query     string `json:"query"`
		SessionID string `json:"session_id"`
		UserID    string `json:"user_id"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	req.Query = strings.TrimSpace(req.Query)
	if req.Query == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "Query cannot be empty")
		return
	}

	sessionID, err := types.ParseID(req.SessionID)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "session_id must be a valid session identifier")
		return
	}

	started := time.Now()
	response, err := s.runner.Run(r.Context(), sessionID, req.Query)
	if err != nil {
		s.logger.Error("chat turn failed",
			"session_id", sessionID.String(),
			"error", err,
		)
		// The runner degrades to an apology; surface it with a 200 so
		// clients render it as a normal reply.
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"status":          "success",
		"session_id":      sessionID.String(),
		"response":        response,
		"processing_time": time.Since(started).Seconds(),
	})
}

// POST /clearSession
func (s *Server) handleClearSession(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "Method not allowed")
		return
	}

	var req struct {
		SessionID string `json:"session_id"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	sessionID, err := types.ParseID(req.SessionID)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "session_id must be a valid session identifier")
		return
	}

	if err := s.sessions.ClearSession(r.Context(), sessionID); err != nil {
		s.logger.Error("failed to clear session",
			"session_id", sessionID.String(),
			"error", err,
		)
		writeError(w, http.StatusInternalServerError, "internal_error", "Failed to clear session")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"status":     "success",
		"session_id": sessionID.String(),
		"message":    "Session cleared",
	})
}
