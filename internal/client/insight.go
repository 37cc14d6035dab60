package client

import (
	"context"
	"encoding/json"

	"lumina-backend/internal/models"
	"lumina-backend/internal/normalize"
	"lumina-backend/internal/quota"
)

// InsightService drives the mood-insight flow. Failures never reach the
// caller as errors: a gateway failure yields the mock result so the UI
// always receives a well-formed, displayable insight.
type InsightService struct {
	gateway  *Gateway
	quota    *quota.Tracker
	language string
}

func NewInsightService(gateway *Gateway, tracker *quota.Tracker, language string) *InsightService {
	if language == "" {
		language = "id"
	}
	return &InsightService{gateway: gateway, quota: tracker, language: language}
}

// CheckQuota reports today's insight allowance. Free tier gets one per day;
// premium bypasses counting entirely.
func (s *InsightService) CheckQuota(ctx context.Context, tier quota.Tier) quota.Status {
	return s.quota.Check(ctx, quota.FeatureInsight, tier)
}

// Generate produces an insight for a gated request. Free-tier usage is
// consumed up front, before the remote call resolves; premium is a bypass
// and is never counted.
func (s *InsightService) Generate(ctx context.Context, tier quota.Tier, moodLevel int, journalContent string) models.InsightResult {
	if tier != quota.TierPremium {
		s.quota.Increment(ctx, quota.FeatureInsight)
	}
	return s.generate(ctx, moodLevel, journalContent)
}

// GenerateGranted is the reward-granted path shown on the limit-reached
// screen: same call, no quota check, no increment.
func (s *InsightService) GenerateGranted(ctx context.Context, moodLevel int, journalContent string) models.InsightResult {
	return s.generate(ctx, moodLevel, journalContent)
}

func (s *InsightService) generate(ctx context.Context, moodLevel int, journalContent string) models.InsightResult {
	raw, err := s.gateway.Invoke(ctx, "generate-insight", models.InsightRequest{
		MoodLevel:      moodLevel,
		JournalContent: journalContent,
		Language:       s.language,
	})
	if err != nil {
		return normalize.MockInsight(moodLevel, journalContent)
	}

	var payload models.InsightPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return normalize.MockInsight(moodLevel, journalContent)
	}

	return models.InsightResult{
		MoodLevel:       moodLevel,
		JournalContent:  journalContent,
		Analysis:        normalize.AnalysisOf(payload),
		Affirmation:     payload.Affirmation,
		SuggestedAction: payload.SuggestedAction,
	}
}
