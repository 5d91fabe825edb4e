package stamps

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stampsWithIDs(ids ...uint64) []StampRecord {
	out := make([]StampRecord, 0, len(ids))
	for _, id := range ids {
		out = append(out, StampRecord{OwnerRef: "owner-1", StampID: id, Points: 100})
	}
	return out
}

func TestPrepareForAggregation_TruncatesToSlots(t *testing.T) {
	records := stampsWithIDs(7, 3, 9, 1, 5, 8, 2)

	prepared := PrepareForAggregation(records, DefaultMaxSlots)

	require.Len(t, prepared, DefaultMaxSlots)
	// Ascending by stamp ID, excess dropped from the top.
	assert.Equal(t, [DefaultMaxSlots]uint64{1, 2, 3, 5, 7}, SlotIDs(prepared))
}

func TestPrepareForAggregation_PadsShortInput(t *testing.T) {
	records := stampsWithIDs(4, 2, 6)

	prepared := PrepareForAggregation(records, DefaultMaxSlots)

	require.Len(t, prepared, DefaultMaxSlots)
	assert.Equal(t, [DefaultMaxSlots]uint64{2, 4, 6, 0, 0}, SlotIDs(prepared))
	// Padding mirrors the first real record's owner.
	assert.Equal(t, "owner-1", prepared[3].OwnerRef)
	assert.Equal(t, "owner-1", prepared[4].OwnerRef)
}

func TestPrepareForAggregation_DropsInvalid(t *testing.T) {
	records := append(stampsWithIDs(3, 1), StampRecord{OwnerRef: "owner-1", StampID: 0, Points: 500})

	prepared := PrepareForAggregation(records, DefaultMaxSlots)

	assert.Equal(t, [DefaultMaxSlots]uint64{1, 3, 0, 0, 0}, SlotIDs(prepared))
}

func TestPrepareForAggregation_EmptyInput(t *testing.T) {
	prepared := PrepareForAggregation(nil, DefaultMaxSlots)

	require.Len(t, prepared, DefaultMaxSlots)
	assert.Equal(t, [DefaultMaxSlots]uint64{}, SlotIDs(prepared))
	assert.Empty(t, prepared[0].OwnerRef)
}

func TestPrepareForProof_KeepsHighestPoints(t *testing.T) {
	records := []StampRecord{
		{OwnerRef: "o", StampID: 1, Points: 10},
		{OwnerRef: "o", StampID: 2, Points: 50},
		{OwnerRef: "o", StampID: 3, Points: 5},
		{OwnerRef: "o", StampID: 4, Points: 30},
		{OwnerRef: "o", StampID: 5, Points: 1},
		{OwnerRef: "o", StampID: 6, Points: 90},
	}

	prepared := PrepareForProof(records, DefaultMaxSlots)

	// Lowest-point stamp (1 point) is the one dropped.
	assert.Equal(t, [DefaultMaxSlots]uint64{6, 2, 4, 1, 3}, SlotIDs(prepared))
}

func TestPrepareForProof_TiebreakByStampID(t *testing.T) {
	records := []StampRecord{
		{OwnerRef: "o", StampID: 9, Points: 20},
		{OwnerRef: "o", StampID: 4, Points: 20},
		{OwnerRef: "o", StampID: 7, Points: 20},
	}

	prepared := PrepareForProof(records, DefaultMaxSlots)

	assert.Equal(t, [DefaultMaxSlots]uint64{4, 7, 9, 0, 0}, SlotIDs(prepared))
}

func TestScore_Formula(t *testing.T) {
	// 3 valid stamps, 600 total points: 3*5 + 600/100 = 21.
	records := []StampRecord{
		{OwnerRef: "o", StampID: 1, Points: 100},
		{OwnerRef: "o", StampID: 2, Points: 200},
		{OwnerRef: "o", StampID: 3, Points: 300},
	}
	assert.Equal(t, uint64(21), Score(records))
}

func TestScore_CapsAtHundred(t *testing.T) {
	records := []StampRecord{
		{OwnerRef: "o", StampID: 1, Points: 1000000},
	}
	assert.Equal(t, uint64(100), Score(records))
}

func TestScore_IgnoresInvalid(t *testing.T) {
	records := []StampRecord{
		{OwnerRef: "o", StampID: 0, Points: 10000},
	}
	assert.Equal(t, uint64(0), Score(records))
}

func TestCanMeetScoreRequirement(t *testing.T) {
	records := []StampRecord{
		{OwnerRef: "o", StampID: 1, Points: 500},
		{OwnerRef: "o", StampID: 2, Points: 500},
	}
	// 2*5 + 1000/100 = 20.
	assert.True(t, CanMeetScoreRequirement(records, 20))
	assert.False(t, CanMeetScoreRequirement(records, 21))
	assert.True(t, CanMeetScoreRequirement(records, 1))
}
