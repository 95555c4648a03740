package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"go.opentelemetry.io/otel/attribute"

	"github.com/zatekoja/emergencyassist/backend/internal/domain/entities"
	"github.com/zatekoja/emergencyassist/backend/internal/domain/providers"
	"github.com/zatekoja/emergencyassist/backend/internal/infrastructure/observability"
	apperrors "github.com/zatekoja/emergencyassist/backend/pkg/errors"
)

const msgNoMessage = "No message provided."

// TriageService classifies a free-text emergency through a chat-completion provider.
type TriageService struct {
	provider providers.ChatCompletionProvider
}

// NewTriageService creates a new triage service.
func NewTriageService(provider providers.ChatCompletionProvider) *TriageService {
	return &TriageService{provider: provider}
}

// Triage sends message as the only user turn. An unparseable reply degrades
// to an UNKNOWN result carrying the raw text; only provider failures error.
func (s *TriageService) Triage(ctx context.Context, message string) (entities.TriageResult, error) {
	ctx, span := observability.StartSpan(ctx, "TriageService.Triage")
	defer span.End()

	if strings.TrimSpace(message) == "" {
		return entities.TriageResult{}, apperrors.NewInvalidInputError(msgNoMessage)
	}

	logger := observability.LoggerFromContext(ctx)
	observability.SetSpanAttributes(span,
		attribute.String("triage.provider", s.provider.Name()),
		attribute.Int("triage.message_length", len(message)),
	)

	reply, err := s.provider.Complete(ctx, []providers.ChatMessage{
		{Role: providers.ChatRoleSystem, Content: triageSystemPrompt},
		{Role: providers.ChatRoleUser, Content: message},
	})
	if err != nil {
		observability.RecordError(span, err)
		logger.Error().
			Err(err).
			Str("provider", s.provider.Name()).
			Int("message_length", len(message)).
			Msg("Triage provider request failed")
		return entities.TriageResult{}, apperrors.NewUpstreamError("triage provider request failed", err)
	}

	reply = strings.TrimSpace(reply)
	result, err := parseTriageReply(reply)
	if err != nil {
		logger.Warn().
			Err(err).
			Str("provider", s.provider.Name()).
			Msg("Triage reply was not valid JSON, returning degraded result")
		observability.SetSpanAttributes(span, attribute.Bool("triage.degraded", true))
		return entities.DegradedTriageResult(reply), nil
	}

	if !result.Severity.IsKnown() {
		logger.Warn().Str("severity", string(result.Severity)).Msg("Triage provider returned an unrecognized severity")
	}
	observability.SetSpanAttributes(span, attribute.String("triage.severity", string(result.Severity)))
	return result, nil
}

var errNotJSONObject = errors.New("reply is not a JSON object")

// parseTriageReply accepts the bare JSON object or one wrapped in a markdown
// code fence. Field names must match exactly and all three must be present.
func parseTriageReply(reply string) (entities.TriageResult, error) {
	cleaned := stripCodeFence(reply)
	if !strings.HasPrefix(cleaned, "{") {
		return entities.TriageResult{}, errNotJSONObject
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal([]byte(cleaned), &fields); err != nil {
		return entities.TriageResult{}, fmt.Errorf("failed to parse triage reply: %w", err)
	}

	var result entities.TriageResult
	if err := decodeTriageField(fields, "severity", &result.Severity); err != nil {
		return entities.TriageResult{}, err
	}
	if err := decodeTriageField(fields, "explanation", &result.Explanation); err != nil {
		return entities.TriageResult{}, err
	}
	if err := decodeTriageField(fields, "recommended_action", &result.RecommendedAction); err != nil {
		return entities.TriageResult{}, err
	}
	return result, nil
}

func decodeTriageField(fields map[string]json.RawMessage, name string, dst interface{}) error {
	raw, ok := fields[name]
	if !ok {
		return fmt.Errorf("triage reply is missing %q", name)
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return fmt.Errorf("invalid %q in triage reply: %w", name, err)
	}
	return nil
}

func stripCodeFence(text string) string {
	cleaned := strings.TrimSpace(text)
	if strings.HasPrefix(cleaned, "```json") {
		cleaned = strings.TrimPrefix(cleaned, "```json")
		cleaned = strings.TrimSuffix(cleaned, "```")
	} else if strings.HasPrefix(cleaned, "```") {
		cleaned = strings.TrimPrefix(cleaned, "```")
		cleaned = strings.TrimSuffix(cleaned, "```")
	}
	return strings.TrimSpace(cleaned)
}
