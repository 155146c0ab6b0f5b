package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"arbiter-hq/arbiter/pkg/decision"
)

// DecideRequest is the body of POST /v1/decide.
type DecideRequest struct {
	// Description is a human-readable summary of the action being decided.
	Description string `json:"description"`

	// Context is the request context the rules are evaluated against.
	Context map[string]any `json:"context"`

	// GroupID names the rule group to evaluate. Empty means no policy
	// applies and the decision is ALLOW.
	GroupID string `json:"group_id"`
}

// ApproveRequest is the body of POST /v1/decisions/{id}/approve.
type ApproveRequest struct {
	Approved bool   `json:"approved"`
	Approver string `json:"approver"`
}

// ApproveResponse reports whether this call resolved the decision.
type ApproveResponse struct {
	RequestID string `json:"request_id"`
	Resolved  bool   `json:"resolved"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleDecide(w http.ResponseWriter, r *http.Request) {
	var req DecideRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	dec, err := s.service.Decide(r.Context(), req.Description, req.Context, req.GroupID)
	if err != nil {
		s.logger.Error("decide failed", "error", err)
		writeError(w, http.StatusInternalServerError, "decision could not be recorded")
		return
	}

	writeJSON(w, http.StatusOK, dec)
}

func (s *Server) handleListPending(w http.ResponseWriter, r *http.Request) {
	pending, err := s.service.ListPending(r.Context())
	if err != nil {
		s.logger.Error("list pending failed", "error", err)
		writeError(w, http.StatusInternalServerError, "pending decisions unavailable")
		return
	}
	if pending == nil {
		pending = []decision.PendingEntry{}
	}
	writeJSON(w, http.StatusOK, pending)
}

func (s *Server) handleApprove(w http.ResponseWriter, r *http.Request) {
	requestID := chi.URLParam(r, "id")

	var req ApproveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	resolved, err := s.service.Resolve(r.Context(), requestID, req.Approved, req.Approver)
	if err != nil {
		if errors.Is(err, decision.ErrNotFound) {
			writeError(w, http.StatusNotFound, "decision not found")
			return
		}
		s.logger.Error("approve failed", "request_id", requestID, "error", err)
		writeError(w, http.StatusInternalServerError, "approval could not be recorded")
		return
	}

	writeJSON(w, http.StatusOK, ApproveResponse{RequestID: requestID, Resolved: resolved})
}

func (s *Server) handleListChains(w http.ResponseWriter, r *http.Request) {
	chains, err := s.service.ListChains(r.Context())
	if err != nil {
		s.logger.Error("list chains failed", "error", err)
		writeError(w, http.StatusInternalServerError, "chains unavailable")
		return
	}
	if chains == nil {
		chains = []*decision.Chain{}
	}
	writeJSON(w, http.StatusOK, chains)
}

func (s *Server) handleGetChain(w http.ResponseWriter, r *http.Request) {
	requestID := chi.URLParam(r, "id")

	ch, err := s.service.GetChain(r.Context(), requestID)
	if err != nil {
		if errors.Is(err, decision.ErrNotFound) {
			writeError(w, http.StatusNotFound, "decision not found")
			return
		}
		s.logger.Error("get chain failed", "request_id", requestID, "error", err)
		writeError(w, http.StatusInternalServerError, "chain unavailable")
		return
	}

	writeJSON(w, http.StatusOK, ch)
}

func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}
