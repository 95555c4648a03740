package entities

// Severity is the urgency level reported by the triage provider.
type Severity string

const (
	SeverityLow      Severity = "LOW"
	SeverityMedium   Severity = "MEDIUM"
	SeverityCritical Severity = "CRITICAL"
	SeverityUnknown  Severity = "UNKNOWN"
)

// FallbackRecommendedAction is returned when the provider reply cannot be parsed.
const FallbackRecommendedAction = "Seek medical advice immediately."

// IsKnown reports whether s is one of the defined severity levels.
// Provider output is not rejected when this is false; it is passed through.
func (s Severity) IsKnown() bool {
	switch s {
	case SeverityLow, SeverityMedium, SeverityCritical, SeverityUnknown:
		return true
	}
	return false
}

// TriageResult is the structured advisory returned for an emergency message.
type TriageResult struct {
	Severity          Severity `json:"severity"`
	Explanation       string   `json:"explanation"`
	RecommendedAction string   `json:"recommended_action"`
}

// DegradedTriageResult wraps unparseable provider text so that a result is
// always returned.
func DegradedTriageResult(rawText string) TriageResult {
	return TriageResult{
		Severity:          SeverityUnknown,
		Explanation:       rawText,
		RecommendedAction: FallbackRecommendedAction,
	}
}
