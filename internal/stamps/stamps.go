// Package stamps selects and pads earned credential units ("stamps") into the
// fixed-size slot arrays consumed by the fixed-arity proof circuit.
package stamps

import (
	"sort"
	"time"
)

// DefaultMaxSlots is the circuit's slot count.
const DefaultMaxSlots = 5

// StampRecord is one earned credential unit held by the external agent.
// Only StampID and Points are interpreted here, and only for local ranking;
// the remaining fields pass through opaquely.
type StampRecord struct {
	OwnerRef string
	StampID  uint64
	Points   uint64
	Issuer   string
	IssuedAt time.Time
}

// zero reports whether the record is a padding/invalid entry.
func (s StampRecord) zero() bool {
	return s.StampID == 0
}

// PrepareForAggregation reduces stamps to exactly maxSlots entries for the
// aggregation transition: invalid entries dropped, the rest sorted ascending by
// stamp ID for deterministic ordering, truncated to maxSlots, and padded with
// zero records. Padding mirrors the first real record's owner so the circuit
// sees a consistent owner across all slots.
func PrepareForAggregation(records []StampRecord, maxSlots int) []StampRecord {
	valid := filterValid(records)
	sort.Slice(valid, func(i, j int) bool {
		return valid[i].StampID < valid[j].StampID
	})
	return pad(valid, maxSlots)
}

// PrepareForProof reduces stamps to exactly maxSlots entries for proving:
// sorted descending by points so the provable score is maximized, stamp ID
// ascending as tiebreak for determinism, truncated and padded like aggregation.
func PrepareForProof(records []StampRecord, maxSlots int) []StampRecord {
	valid := filterValid(records)
	sort.Slice(valid, func(i, j int) bool {
		if valid[i].Points != valid[j].Points {
			return valid[i].Points > valid[j].Points
		}
		return valid[i].StampID < valid[j].StampID
	})
	return pad(valid, maxSlots)
}

// Score computes the ledger scoring formula over the valid stamps:
// min(100, validCount*5 + totalPoints/100). It must stay consistent with the
// scoring logic of the external ledger program.
func Score(records []StampRecord) uint64 {
	valid := filterValid(records)
	var totalPoints uint64
	for _, s := range valid {
		totalPoints += s.Points
	}
	score := uint64(len(valid))*5 + totalPoints/100
	if score > 100 {
		score = 100
	}
	return score
}

// CanMeetScoreRequirement reports whether the stamps reach minScore under the
// ledger scoring formula.
func CanMeetScoreRequirement(records []StampRecord, minScore uint64) bool {
	return Score(records) >= minScore
}

// SlotIDs extracts the stamp IDs of a prepared slot assignment in circuit order.
func SlotIDs(prepared []StampRecord) [DefaultMaxSlots]uint64 {
	var ids [DefaultMaxSlots]uint64
	for i := 0; i < len(prepared) && i < DefaultMaxSlots; i++ {
		ids[i] = prepared[i].StampID
	}
	return ids
}

func filterValid(records []StampRecord) []StampRecord {
	valid := make([]StampRecord, 0, len(records))
	for _, s := range records {
		if !s.zero() {
			valid = append(valid, s)
		}
	}
	return valid
}

func pad(valid []StampRecord, maxSlots int) []StampRecord {
	if maxSlots <= 0 {
		maxSlots = DefaultMaxSlots
	}
	if len(valid) > maxSlots {
		valid = valid[:maxSlots]
	}
	owner := ""
	if len(valid) > 0 {
		owner = valid[0].OwnerRef
	}
	out := make([]StampRecord, maxSlots)
	copy(out, valid)
	for i := len(valid); i < maxSlots; i++ {
		out[i] = StampRecord{OwnerRef: owner}
	}
	return out
}
