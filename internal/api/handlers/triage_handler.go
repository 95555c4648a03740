package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/zatekoja/emergencyassist/backend/internal/domain/entities"
	"github.com/zatekoja/emergencyassist/backend/internal/infrastructure/observability"
	apperrors "github.com/zatekoja/emergencyassist/backend/pkg/errors"
)

const (
	maxAnalyzeBodyBytes = 64 << 10

	msgAnalysisFailed     = "AI analysis failed."
	msgInvalidRequestBody = "Invalid request body."
	msgNoMessage          = "No message provided."
)

// TriageService is the part of the triage service the handler needs.
type TriageService interface {
	Triage(ctx context.Context, message string) (entities.TriageResult, error)
}

// TriageHandler handles emergency analysis requests
type TriageHandler struct {
	service TriageService
}

// NewTriageHandler creates a new triage handler
func NewTriageHandler(service TriageService) *TriageHandler {
	return &TriageHandler{service: service}
}

type analyzeRequest struct {
	Message string `json:"message"`
}

// Analyze handles POST /analyze and POST /api/analyze
func (h *TriageHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxAnalyzeBodyBytes)

	var req analyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		observability.LoggerFromContext(r.Context()).Warn().Err(err).Msg("Rejected analyze request body")
		respondWithError(w, http.StatusBadRequest, msgInvalidRequestBody)
		return
	}
	if req.Message == "" {
		respondWithError(w, http.StatusBadRequest, msgNoMessage)
		return
	}

	// A client that goes away does not abort the provider call.
	ctx := context.WithoutCancel(r.Context())

	result, err := h.service.Triage(ctx, req.Message)
	if err != nil {
		if !apperrors.IsInvalidInput(err) {
			observability.LoggerFromContext(ctx).Error().Err(err).Msg("Emergency analysis failed")
		}
		respondWithAppError(w, err, msgAnalysisFailed)
		return
	}

	respondWithJSON(w, http.StatusOK, result)
}
