package models

// InsightRequest is the payload sent to the generate-insight endpoint.
type InsightRequest struct {
	MoodLevel      int    `json:"mood_level"`
	JournalContent string `json:"journal_content"`
	Language       string `json:"language"`
}

// InsightPayload is the JSON object the model is asked to produce and the
// body of a successful generate-insight response.
type InsightPayload struct {
	Insight         string `json:"insight"`
	Affirmation     string `json:"affirmation"`
	SuggestedAction string `json:"suggested_action"`
	// Analysis is an older field name some payloads carry instead of
	// "insight". When both are present, "insight" wins.
	Analysis string `json:"analysis,omitempty"`
}

// InsightResult is the app-side view of a generated insight, immutable after
// creation. IsMock marks the client-level fallback produced when the gateway
// call itself failed.
type InsightResult struct {
	MoodLevel       int      `json:"mood_level"`
	JournalContent  string   `json:"journal_content"`
	Analysis        string   `json:"analysis"`
	Affirmation     string   `json:"affirmation"`
	SuggestedAction string   `json:"suggested_action,omitempty"`
	ActionableSteps []string `json:"actionable_steps,omitempty"`
	IsMock          bool     `json:"isMock,omitempty"`
}

// ErrorResponse is the flat error body returned by the proxy endpoints.
type ErrorResponse struct {
	Error string `json:"error"`
}
