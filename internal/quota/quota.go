// Package quota tracks daily usage of the AI features against tier-based
// limits. Counters live in durable local storage keyed by feature and
// calendar day, so rollover at local midnight is implicit in the key.
package quota

import (
	"context"
	"time"
)

type Feature string

const (
	FeatureChat Feature = "chat"
	// FeatureInsight keeps the historical "ai" storage prefix
	// (ai_usage_<day>) so existing device counters stay valid.
	FeatureInsight Feature = "ai"
)

type Tier int

const (
	TierFree Tier = iota
	TierPremium
)

// Unlimited marks a feature/tier pair with no daily cap. Unlimited usage is
// a bypass: it is never counted.
const Unlimited = -1

// Limit returns the daily allowance for a feature and tier.
func Limit(feature Feature, tier Tier) int {
	switch feature {
	case FeatureChat:
		if tier == TierPremium {
			return 50
		}
		return 3
	case FeatureInsight:
		if tier == TierPremium {
			return Unlimited
		}
		return 1
	}
	return 0
}

// Status is the result of a quota check.
type Status struct {
	Allowed   bool `json:"allowed"`
	Remaining int  `json:"remaining"`
}

// Store persists daily usage counters. Implementations must be safe for
// concurrent use.
type Store interface {
	Usage(ctx context.Context, feature Feature, day string) (int, error)
	SetUsage(ctx context.Context, feature Feature, day string, count int) error
}

// Tracker gates feature usage against the limit table.
type Tracker struct {
	store Store
	now   func() time.Time
}

func NewTracker(store Store) *Tracker {
	return &Tracker{store: store, now: time.Now}
}

func (t *Tracker) today() string {
	return t.now().Format("2006-01-02")
}

// Check reads today's counter for the feature. Store failures fail open: a
// broken local store reads as zero usage and never blocks the user.
func (t *Tracker) Check(ctx context.Context, feature Feature, tier Tier) Status {
	limit := Limit(feature, tier)
	if limit == Unlimited {
		return Status{Allowed: true, Remaining: Unlimited}
	}

	usage, err := t.store.Usage(ctx, feature, t.today())
	if err != nil {
		usage = 0
	}

	remaining := limit - usage
	if remaining < 0 {
		remaining = 0
	}

	return Status{Allowed: usage < limit, Remaining: remaining}
}

// Increment bumps today's counter. Callers invoke this immediately after the
// gate passes and before the remote call resolves, so a failed attempt still
// counts; the reward-granted path covers exactly that case.
func (t *Tracker) Increment(ctx context.Context, feature Feature) error {
	day := t.today()

	usage, err := t.store.Usage(ctx, feature, day)
	if err != nil {
		usage = 0
	}

	return t.store.SetUsage(ctx, feature, day, usage+1)
}
