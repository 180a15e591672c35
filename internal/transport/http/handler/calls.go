package handler

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-call-verify/internal/application/call"
	"github.com/go-call-verify/internal/pkg/validate"
	"github.com/go-call-verify/internal/transport/http/middleware"
	"github.com/go-chi/chi/v5"
)

// CallHandler exposes live calls to the telephony worker.
type CallHandler struct {
	svc call.Service
}

func NewCallHandler(svc call.Service) *CallHandler { return &CallHandler{svc: svc} }

// Start opens a call and returns the greeting. The body is optional.
func (h *CallHandler) Start(w http.ResponseWriter, r *http.Request) {
	var req call.StartRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		writeServiceError(w, r, err)
		return
	}
	res, err := h.svc.Start(r.Context(), req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	if claims, ok := middleware.ClaimsFromContext(r.Context()); ok {
		slog.Info("call opened", "call_id", res.Call.CallID, "dispatcher", claims.Subject)
	}
	writeJSON(w, http.StatusCreated, res)
}

// Turn relays one caller utterance and returns the agent's reply.
func (h *CallHandler) Turn(w http.ResponseWriter, r *http.Request) {
	var req call.TurnRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		writeServiceError(w, r, err)
		return
	}
	res, err := h.svc.Turn(r.Context(), chi.URLParam(r, "id"), req.Utterance)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *CallHandler) Get(w http.ResponseWriter, r *http.Request) {
	view, err := h.svc.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// Hangup discards a call the caller has left.
func (h *CallHandler) Hangup(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Hangup(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageEnvelope{Message: "call closed"})
}
