package handlers_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zatekoja/emergencyassist/backend/internal/api/handlers"
	"github.com/zatekoja/emergencyassist/backend/internal/domain/entities"
	apperrors "github.com/zatekoja/emergencyassist/backend/pkg/errors"
)

type stubTriageService struct {
	result   entities.TriageResult
	err      error
	messages []string
	ctxErr   error
}

func (s *stubTriageService) Triage(ctx context.Context, message string) (entities.TriageResult, error) {
	s.messages = append(s.messages, message)
	s.ctxErr = ctx.Err()
	return s.result, s.err
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]string
	require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
	return body["error"]
}

func TestTriageHandler_Analyze_Success(t *testing.T) {
	service := &stubTriageService{result: entities.TriageResult{
		Severity:          entities.SeverityCritical,
		Explanation:       "Possible cardiac event",
		RecommendedAction: "Call emergency services",
	}}
	handler := handlers.NewTriageHandler(service)

	req := httptest.NewRequest(http.MethodPost, "/analyze", strings.NewReader(`{"message":"chest pain"}`))
	w := httptest.NewRecorder()

	handler.Analyze(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	assert.Equal(t, []string{"chest pain"}, service.messages)

	var body map[string]string
	require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
	assert.Equal(t, "CRITICAL", body["severity"])
	assert.Equal(t, "Possible cardiac event", body["explanation"])
	assert.Equal(t, "Call emergency services", body["recommended_action"])
}

func TestTriageHandler_Analyze_DegradedResultIsOK(t *testing.T) {
	service := &stubTriageService{result: entities.DegradedTriageResult("I am not sure")}
	handler := handlers.NewTriageHandler(service)

	req := httptest.NewRequest(http.MethodPost, "/api/analyze", strings.NewReader(`{"message":"help"}`))
	w := httptest.NewRecorder()

	handler.Analyze(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	var body map[string]string
	require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
	assert.Equal(t, "UNKNOWN", body["severity"])
	assert.Equal(t, "I am not sure", body["explanation"])
	assert.Equal(t, entities.FallbackRecommendedAction, body["recommended_action"])
}

func TestTriageHandler_Analyze_BadRequests(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantMsg string
	}{
		{"empty object", `{}`, "No message provided."},
		{"empty message", `{"message":""}`, "No message provided."},
		{"malformed json", `{"message":`, "Invalid request body."},
		{"wrong type", `{"message":42}`, "Invalid request body."},
		{"oversized", `{"message":"` + strings.Repeat("a", 70<<10) + `"}`, "Invalid request body."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service := &stubTriageService{}
			handler := handlers.NewTriageHandler(service)

			req := httptest.NewRequest(http.MethodPost, "/analyze", strings.NewReader(tt.body))
			w := httptest.NewRecorder()

			handler.Analyze(w, req)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Equal(t, tt.wantMsg, decodeError(t, w))
			assert.Empty(t, service.messages, "service must not be called")
		})
	}
}

func TestTriageHandler_Analyze_ServiceInvalidInput(t *testing.T) {
	service := &stubTriageService{err: apperrors.NewInvalidInputError("No message provided.")}
	handler := handlers.NewTriageHandler(service)

	req := httptest.NewRequest(http.MethodPost, "/analyze", strings.NewReader(`{"message":"   "}`))
	w := httptest.NewRecorder()

	handler.Analyze(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "No message provided.", decodeError(t, w))
}

func TestTriageHandler_Analyze_UpstreamFailureIsGeneric(t *testing.T) {
	service := &stubTriageService{
		err: apperrors.NewUpstreamError("openrouter returned status 401: invalid key sk-secret", errors.New("unauthorized")),
	}
	handler := handlers.NewTriageHandler(service)

	req := httptest.NewRequest(http.MethodPost, "/analyze", strings.NewReader(`{"message":"help"}`))
	w := httptest.NewRecorder()

	handler.Analyze(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "AI analysis failed.", decodeError(t, w))
	assert.NotContains(t, w.Body.String(), "sk-secret")
}

func TestTriageHandler_Analyze_IgnoresClientCancellation(t *testing.T) {
	service := &stubTriageService{result: entities.DegradedTriageResult("x")}
	handler := handlers.NewTriageHandler(service)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	req := httptest.NewRequest(http.MethodPost, "/analyze", strings.NewReader(`{"message":"help"}`)).WithContext(ctx)
	w := httptest.NewRecorder()

	handler.Analyze(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.NoError(t, service.ctxErr)
}
