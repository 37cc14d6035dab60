package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"lumina-backend/internal/models"
	"lumina-backend/internal/normalize"
	"lumina-backend/internal/quota"
)

func newTracker() (*quota.Tracker, *quota.MemStore) {
	store := quota.NewMemStore()
	return quota.NewTracker(store), store
}

func today() string {
	return time.Now().Format("2006-01-02")
}

// ─── Chat Flow Tests ───

func TestChatSend_Success(t *testing.T) {
	var gotReq models.ChatRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/functions/v1/chat-assistant" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		json.NewDecoder(r.Body).Decode(&gotReq)
		json.NewEncoder(w).Encode(models.ChatResponse{Reply: "Aku mendengarkanmu."})
	}))
	defer srv.Close()

	tracker, _ := newTracker()
	svc := NewChatService(NewGateway(srv.URL, "anon"), tracker, "")

	history := []models.ChatMessage{
		{ID: "1", Text: "halo", IsUser: true, Timestamp: 1},
		{ID: "2", Text: "hai!", IsUser: false, Timestamp: 2},
	}

	result := svc.Send(context.Background(), "apa kabar", history)

	if result.Status != normalize.StatusOK {
		t.Fatalf("Expected StatusOK, got %v (%s)", result.Status, result.Reason)
	}
	if result.Reply != "Aku mendengarkanmu." {
		t.Errorf("unexpected reply %q", result.Reply)
	}

	// History maps to {role, content}; unspecified language defaults to id.
	if len(gotReq.History) != 2 || gotReq.History[0].Role != "user" || gotReq.History[1].Role != "assistant" {
		t.Errorf("unexpected history mapping: %+v", gotReq.History)
	}
	if gotReq.Language != "id" {
		t.Errorf("Expected default language id, got %q", gotReq.Language)
	}
}

func TestChatSend_FallbackApologyOnGatewayError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(models.ErrorResponse{Error: "provider exploded"})
	}))
	defer srv.Close()

	tracker, _ := newTracker()
	svc := NewChatService(NewGateway(srv.URL, "anon"), tracker, "id")

	result := svc.Send(context.Background(), "hi", nil)

	if result.Reply != normalize.ChatFallback {
		t.Errorf("Expected fixed apology reply, got %q", result.Reply)
	}
	if result.Status != normalize.StatusFallback || result.Reason == "" {
		t.Errorf("Expected tagged fallback with reason, got %+v", result)
	}
}

func TestChatSend_QuotaConsumedBeforeCallResolves(t *testing.T) {
	// The endpoint fails, but the attempt must still count.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	tracker, store := newTracker()
	svc := NewChatService(NewGateway(srv.URL, "anon"), tracker, "id")

	svc.Send(context.Background(), "hi", nil)

	usage, _ := store.Usage(context.Background(), quota.FeatureChat, today())
	if usage != 1 {
		t.Errorf("Expected usage 1 after failed attempt, got %d", usage)
	}
}

func TestChatSend_UnreachableGatewayNeverPanics(t *testing.T) {
	tracker, _ := newTracker()
	svc := NewChatService(NewGateway("http://127.0.0.1:1", "anon"), tracker, "id")

	result := svc.Send(context.Background(), "hi", nil)
	if result.Reply != normalize.ChatFallback {
		t.Errorf("Expected apology fallback, got %q", result.Reply)
	}
}

func TestNewMessages_OrderedTimestamps(t *testing.T) {
	first := NewUserMessage("one")
	second := NewAssistantMessage("two")

	if first.ID == second.ID {
		t.Error("message IDs must be unique")
	}
	if !first.IsUser || second.IsUser {
		t.Error("unexpected IsUser flags")
	}
	if second.Timestamp < first.Timestamp {
		t.Error("timestamps must be non-decreasing in append order")
	}
}

// ─── Insight Flow Tests ───

func TestInsightGenerate_MapsInsightToAnalysis(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/functions/v1/generate-insight" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		json.NewEncoder(w).Encode(models.InsightPayload{
			Insight:         "You are growing",
			Affirmation:     "I am enough",
			SuggestedAction: "Take a short walk",
		})
	}))
	defer srv.Close()

	tracker, store := newTracker()
	svc := NewInsightService(NewGateway(srv.URL, "anon"), tracker, "en")

	result := svc.Generate(context.Background(), quota.TierFree, 4, "wrote a lot")

	if result.IsMock {
		t.Fatal("expected real result, got mock")
	}
	if result.Analysis != "You are growing" {
		t.Errorf("Expected insight mapped to analysis, got %q", result.Analysis)
	}
	if result.MoodLevel != 4 || result.JournalContent != "wrote a lot" {
		t.Errorf("request fields must carry through: %+v", result)
	}

	usage, _ := store.Usage(context.Background(), quota.FeatureInsight, today())
	if usage != 1 {
		t.Errorf("Expected free-tier usage counted, got %d", usage)
	}
}

func TestInsightGenerate_LegacyAnalysisField(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"analysis":"older shape","affirmation":"ok","suggested_action":"rest"}`))
	}))
	defer srv.Close()

	tracker, _ := newTracker()
	svc := NewInsightService(NewGateway(srv.URL, "anon"), tracker, "en")

	result := svc.Generate(context.Background(), quota.TierFree, 3, "")
	if result.Analysis != "older shape" {
		t.Errorf("Expected legacy analysis honored, got %q", result.Analysis)
	}
}

func TestInsightGenerate_MockOnGatewayFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(models.ErrorResponse{Error: "Missing Azure OpenAI configuration"})
	}))
	defer srv.Close()

	tracker, store := newTracker()
	svc := NewInsightService(NewGateway(srv.URL, "anon"), tracker, "id")

	result := svc.Generate(context.Background(), quota.TierFree, 2, "hard day")

	if !result.IsMock {
		t.Fatal("expected mock result on gateway failure")
	}
	if result.Analysis == "" || result.Affirmation == "" || len(result.ActionableSteps) == 0 {
		t.Errorf("mock must be fully displayable: %+v", result)
	}

	// Quota was still consumed: retries get no free second allowance.
	usage, _ := store.Usage(context.Background(), quota.FeatureInsight, today())
	if usage != 1 {
		t.Errorf("Expected usage counted despite failure, got %d", usage)
	}
}

func TestInsightQuota_FreeTierLimitThenGrantedBypass(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(models.InsightPayload{
			Insight: "ok", Affirmation: "ok", SuggestedAction: "ok",
		})
	}))
	defer srv.Close()

	tracker, store := newTracker()
	svc := NewInsightService(NewGateway(srv.URL, "anon"), tracker, "id")
	ctx := context.Background()

	// First use consumes the free allowance.
	svc.Generate(ctx, quota.TierFree, 3, "entry one")

	status := svc.CheckQuota(ctx, quota.TierFree)
	if status.Allowed {
		t.Fatal("Expected free tier exhausted after one insight")
	}

	// The reward-granted path still works and does not count.
	result := svc.GenerateGranted(ctx, 3, "entry two")
	if result.IsMock {
		t.Error("granted path should produce a real result")
	}

	usage, _ := store.Usage(ctx, quota.FeatureInsight, today())
	if usage != 1 {
		t.Errorf("granted path must not increment usage, got %d", usage)
	}
}

func TestInsightQuota_PremiumNeverCounted(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(models.InsightPayload{
			Insight: "ok", Affirmation: "ok", SuggestedAction: "ok",
		})
	}))
	defer srv.Close()

	tracker, store := newTracker()
	svc := NewInsightService(NewGateway(srv.URL, "anon"), tracker, "id")
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		svc.Generate(ctx, quota.TierPremium, 5, "premium entry")
	}

	usage, _ := store.Usage(ctx, quota.FeatureInsight, today())
	if usage != 0 {
		t.Errorf("premium insight is a bypass, expected usage 0, got %d", usage)
	}
	if status := svc.CheckQuota(ctx, quota.TierPremium); !status.Allowed {
		t.Error("premium must always be allowed")
	}
}
