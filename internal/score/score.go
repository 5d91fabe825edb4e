// Package score merges currently valid per-provider credentials into a total
// score and a per-provider breakdown. All functions are pure, order-independent,
// and idempotent.
package score

import (
	"time"

	"persona/internal/credential/models"
	id "persona/pkg/domain"
)

// ProviderScore is one provider's contribution in a breakdown.
type ProviderScore struct {
	Score      uint64    `json:"score"`
	MaxScore   uint64    `json:"maxScore"`
	VerifiedAt time.Time `json:"verifiedAt"`
}

// Breakdown summarizes the currently valid credentials of one wallet.
type Breakdown struct {
	Providers      map[id.Provider]ProviderScore `json:"breakdown"`
	VerifiedCount  int                           `json:"verifiedCount"`
	TotalProviders int                           `json:"totalProviders"`
}

// TotalScore sums the scores of credentials that are verified and not expired.
// Zero credentials yield zero.
func TotalScore(credentials []models.Credential, now time.Time) uint64 {
	var total uint64
	for _, c := range credentials {
		if c.Valid(now) {
			total += c.Score
		}
	}
	return total
}

// ComputeBreakdown maps each currently valid credential to its provider entry.
// VerifiedCount and TotalProviders both count the distinct providers present in
// the breakdown; expired or disconnected credentials appear in neither.
func ComputeBreakdown(credentials []models.Credential, now time.Time) Breakdown {
	providers := make(map[id.Provider]ProviderScore)
	for _, c := range credentials {
		if !c.Valid(now) {
			continue
		}
		providers[c.Provider] = ProviderScore{
			Score:      c.Score,
			MaxScore:   c.MaxScore,
			VerifiedAt: c.VerifiedAt,
		}
	}
	return Breakdown{
		Providers:      providers,
		VerifiedCount:  len(providers),
		TotalProviders: len(providers),
	}
}
