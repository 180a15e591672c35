package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-call-verify/internal/domain"
	"github.com/go-chi/chi/v5"
)

const (
	defaultHistoryLimit = 20
	maxHistoryLimit     = 100
	transcriptLinkTTL   = 15 * time.Minute
)

// OutcomeReader reads recorded call outcomes.
type OutcomeReader interface {
	Get(ctx context.Context, callID string) (*domain.CallOutcome, error)
	ListByReference(ctx context.Context, reference string, limit int32) ([]domain.CallOutcome, error)
}

// TranscriptReader resolves archived transcripts.
type TranscriptReader interface {
	Fetch(ctx context.Context, key string) (*domain.Transcript, error)
	PresignedURL(ctx context.Context, key string, ttl time.Duration) (string, error)
}

// OutcomeHandler serves recorded outcomes to operators.
type OutcomeHandler struct {
	outcomes    OutcomeReader
	transcripts TranscriptReader
}

// NewOutcomeHandler builds the handler. transcripts may be nil.
func NewOutcomeHandler(outcomes OutcomeReader, transcripts TranscriptReader) *OutcomeHandler {
	return &OutcomeHandler{outcomes: outcomes, transcripts: transcripts}
}

func (h *OutcomeHandler) Get(w http.ResponseWriter, r *http.Request) {
	o, err := h.outcomes.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	env := OutcomeEnvelope{Outcome: o}
	if h.transcripts != nil && o.TranscriptKey != "" {
		link, err := h.transcripts.PresignedURL(r.Context(), o.TranscriptKey, transcriptLinkTTL)
		if err != nil {
			slog.Warn("transcript link unavailable", "call_id", o.CallID, "err", err)
		}
		env.TranscriptURL = link
	}
	writeJSON(w, http.StatusOK, env)
}

// Transcript returns the archived transcript of a finished call.
func (h *OutcomeHandler) Transcript(w http.ResponseWriter, r *http.Request) {
	o, err := h.outcomes.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	if h.transcripts == nil || o.TranscriptKey == "" {
		writeError(w, http.StatusNotFound, "no transcript archived for this call")
		return
	}
	t, err := h.transcripts.Fetch(r.Context(), o.TranscriptKey)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

// ListByAccount returns an account's call history, newest first.
func (h *OutcomeHandler) ListByAccount(w http.ResponseWriter, r *http.Request) {
	limit := defaultHistoryLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = min(n, maxHistoryLimit)
	}
	list, err := h.outcomes.ListByReference(r.Context(), domain.CanonicalReference(chi.URLParam(r, "reference")), int32(limit))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	if list == nil {
		list = []domain.CallOutcome{}
	}
	writeJSON(w, http.StatusOK, OutcomeListEnvelope{Data: list, Count: len(list)})
}
