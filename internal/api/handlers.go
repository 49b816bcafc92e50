package api

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"

	"tokenpulse/internal/services/analysis"
	"tokenpulse/internal/services/tokens"
	"tokenpulse/pkg/errors"
	"tokenpulse/pkg/logger"
)

// Handlers holds the request handlers for the public endpoints.
type Handlers struct {
	tokens   *tokens.Service
	analysis *analysis.Service
	log      *logger.Logger
}

// NewHandlers creates the public endpoint handlers.
func NewHandlers(tok *tokens.Service, an *analysis.Service) *Handlers {
	return &Handlers{
		tokens:   tok,
		analysis: an,
		log:      logger.Get().With("component", "api"),
	}
}

// AnalyzeRequest is the /analyze request body.
type AnalyzeRequest struct {
	Symbols []string `json:"symbols"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// HandleTop25 serves the token snapshot.
func (h *Handlers) HandleTop25(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	snapshot, err := h.tokens.Top25(r.Context())
	if err != nil {
		h.log.Errorw("failed to serve token snapshot", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to fetch token list")
		return
	}

	writeJSON(w, http.StatusOK, snapshot)
}

// HandleAnalyze runs the analysis pipeline for the requested symbols.
func (h *Handlers) HandleAnalyze(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req AnalyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if len(req.Symbols) == 0 {
		writeError(w, http.StatusBadRequest, "symbols array is required")
		return
	}
	if len(req.Symbols) > analysis.MaxBatchSymbols {
		writeError(w, http.StatusBadRequest, "maximum 10 symbols per request")
		return
	}

	log := h.log.With("request_id", uuid.NewString(), "symbols", len(req.Symbols))
	log.Info("analysis request accepted")

	results, err := h.analysis.AnalyzeBatch(r.Context(), req.Symbols)
	if err != nil {
		if errors.Is(err, errors.ErrInvalidInput) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		log.Errorw("analysis request failed", "error", err)
		writeError(w, http.StatusInternalServerError, "analysis failed")
		return
	}

	log.Info("analysis request completed")
	writeJSON(w, http.StatusOK, results)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}
