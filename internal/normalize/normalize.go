// Package normalize turns unreliable model output into well-formed results.
// Every function here is total: no input, including garbage, produces an
// error that could reach the end user.
package normalize

import (
	"encoding/json"
	"strings"

	"lumina-backend/internal/models"
)

// Status tags a normalized result so callers and tests can distinguish real
// model output from degraded output.
type Status int

const (
	StatusOK Status = iota
	StatusFallback
)

// ChatFallback is the fixed reply used whenever the chat gateway call fails.
const ChatFallback = "Maaf, Lumi sedang mengalami gangguan koneksi. Tapi aku di sini mendengarkanmu. Ceritakan lebih lanjut?"

// ExtractInsight pulls the insight JSON object out of raw model text. The
// scan is permissive: markdown fences, preamble and trailing prose around
// the object are tolerated, and the first well-formed top-level {...} block
// wins. When no block parses, the deterministic endpoint fallback is
// returned with StatusFallback and a reason.
func ExtractInsight(raw string) (models.InsightPayload, Status, string) {
	for start := strings.IndexByte(raw, '{'); start >= 0; {
		if end := matchBrace(raw, start); end >= 0 {
			// A block only counts as well-formed when it decodes AND
			// carries displayable content; an empty {} must not shadow
			// the fallback.
			var payload models.InsightPayload
			if err := json.Unmarshal([]byte(raw[start:end+1]), &payload); err == nil {
				if payload.Insight != "" || payload.Analysis != "" {
					return payload, StatusOK, ""
				}
			}
		}

		next := strings.IndexByte(raw[start+1:], '{')
		if next < 0 {
			break
		}
		start += 1 + next
	}

	reason := "no JSON object in model output"
	if strings.TrimSpace(raw) == "" {
		reason = "empty model output"
	}
	return insightFallback(raw), StatusFallback, reason
}

// matchBrace returns the index of the brace closing the object opened at
// start, or -1. String literals and escapes are respected so braces inside
// values do not unbalance the walk.
func matchBrace(s string, start int) int {
	depth := 0
	inString := false
	escaped := false

	for i := start; i < len(s); i++ {
		c := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}

		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

// insightFallback is the endpoint-level deterministic substitute: neutral
// encouragement plus a breathing-exercise suggestion, with whatever text the
// model did produce carried through as the insight.
func insightFallback(raw string) models.InsightPayload {
	insight := raw
	if insight == "" {
		insight = "No content from AI"
	}
	return models.InsightPayload{
		Insight:         insight,
		Affirmation:     "Tetap semangat!",
		SuggestedAction: "Bernapaslah sejenak.",
	}
}

// AnalysisOf resolves the insight/analysis field split: "insight" wins when
// both are present.
func AnalysisOf(p models.InsightPayload) string {
	if p.Insight != "" {
		return p.Insight
	}
	return p.Analysis
}

// MockInsight is the client-level fallback used when the gateway call itself
// fails. Independent of the endpoint fallback: both tiers stay reachable
// through their own failure points.
func MockInsight(moodLevel int, journalContent string) models.InsightResult {
	return models.InsightResult{
		MoodLevel:      moodLevel,
		JournalContent: journalContent,
		Analysis:       "Ini adalah insight simulasi karena layanan AI sedang tidak tersedia. Tetap semangat dan jangan menyerah!",
		Affirmation:    "Saya kuat dan mampu menghadapi tantangan hari ini.",
		ActionableSteps: []string{
			"Tarik napas dalam-dalam",
			"Minum air putih",
			"Istirahat sejenak",
		},
		IsMock: true,
	}
}
