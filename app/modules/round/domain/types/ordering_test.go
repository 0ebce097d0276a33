package roundtypes

import (
	"sort"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func fixedRounds(jobID uuid.UUID) []JobRound {
	out := make([]JobRound, 0, len(FixedKeys))
	for _, k := range FixedKeys {
		out = append(out, JobRound{ID: uuid.New(), JobID: jobID, IsFixed: true, FixedKey: k, Order: FixedOrder(k), Name: FixedName(k)})
	}
	return out
}

func customRound(jobID uuid.UUID, name string, order int) JobRound {
	return JobRound{ID: uuid.New(), JobID: jobID, Name: name, Kind: KindInterview, Order: order}
}

func customOrders(rounds []JobRound) []int {
	var orders []int
	for _, r := range rounds {
		if !r.IsFixed {
			orders = append(orders, r.Order)
		}
	}
	sort.Ints(orders)
	return orders
}

func TestMinTerminalOrder(t *testing.T) {
	jobID := uuid.New()
	tests := []struct {
		name   string
		rounds []JobRound
		want   int
	}{
		{name: "no rounds", rounds: nil, want: OrderOffer},
		{name: "fixed rounds only", rounds: fixedRounds(jobID), want: OrderOffer},
		{
			name:   "only NEW anchor loaded",
			rounds: []JobRound{{ID: uuid.New(), IsFixed: true, FixedKey: FixedNew, Order: OrderNew}},
			want:   OrderOffer,
		},
		{
			name: "lowest terminal anchor wins",
			rounds: []JobRound{
				{ID: uuid.New(), IsFixed: true, FixedKey: FixedRejected, Order: OrderRejected},
				{ID: uuid.New(), IsFixed: true, FixedKey: FixedHired, Order: OrderHired},
			},
			want: OrderHired,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, MinTerminalOrder(tt.rounds))
		})
	}
}

func TestClampOrder(t *testing.T) {
	tests := []struct {
		name      string
		requested int
		want      int
	}{
		{name: "below band", requested: -4, want: 2},
		{name: "NEW anchor order", requested: 1, want: 2},
		{name: "inside band", requested: 17, want: 17},
		{name: "at terminal anchor", requested: 999, want: 998},
		{name: "far above", requested: 5000, want: 998},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ClampOrder(tt.requested, OrderOffer))
		})
	}
}

func TestPlaceRound(t *testing.T) {
	jobID := uuid.New()
	a := customRound(jobID, "a", 2)
	b := customRound(jobID, "b", 3)
	c := customRound(jobID, "c", 4)
	base := append(fixedRounds(jobID), a, b, c)
	newFirst := customRound(jobID, "new-first", 0)
	newLast := customRound(jobID, "new-last", 0)

	tests := []struct {
		name      string
		moved     JobRound
		requested int
		want      []OrderChange
	}{
		{
			name:      "new round before all custom rounds",
			moved:     newFirst,
			requested: 1,
			want: []OrderChange{
				{RoundID: newFirst.ID, Order: 2},
				{RoundID: a.ID, Order: 3},
				{RoundID: b.ID, Order: 4},
				{RoundID: c.ID, Order: 5},
			},
		},
		{
			name:      "new round appended past the end",
			moved:     newLast,
			requested: 500,
			want:      []OrderChange{{RoundID: newLast.ID, Order: 5}},
		},
		{
			name:      "move last to first",
			moved:     c,
			requested: 2,
			want: []OrderChange{
				{RoundID: c.ID, Order: 2},
				{RoundID: a.ID, Order: 3},
				{RoundID: b.ID, Order: 4},
			},
		},
		{
			name:      "move first to middle",
			moved:     a,
			requested: 3,
			want: []OrderChange{
				{RoundID: b.ID, Order: 2},
				{RoundID: a.ID, Order: 3},
			},
		},
		{
			name:      "move to same position writes nothing",
			moved:     b,
			requested: 3,
			want:      nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := PlaceRound(base, tt.moved, tt.requested)

			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("PlaceRound() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestPlaceRound_NoCustomRounds(t *testing.T) {
	jobID := uuid.New()
	rounds := fixedRounds(jobID)
	moved := customRound(jobID, "first", 0)

	got := PlaceRound(rounds, moved, 42)

	assert.Equal(t, []OrderChange{{RoundID: moved.ID, Order: FirstCustomOrder}}, got)
}

func TestCompactOrders(t *testing.T) {
	jobID := uuid.New()
	a := customRound(jobID, "a", 2)
	c := customRound(jobID, "c", 4)
	d := customRound(jobID, "d", 7)
	rounds := append(fixedRounds(jobID), a, c, d)

	got := CompactOrders(rounds)

	want := []OrderChange{
		{RoundID: c.ID, Order: 3},
		{RoundID: d.ID, Order: 4},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("CompactOrders() mismatch (-want +got):\n%s", diff)
	}
	assert.Empty(t, CompactOrders(ApplyOrderChanges(rounds, got)), "compaction should be idempotent")
}

func TestOrderingSequencesStayDense(t *testing.T) {
	jobID := uuid.New()
	rounds := fixedRounds(jobID)

	// interleave inserts at odd positions with deletes
	requests := []int{5, 1, 999, 3, 2, 1200, -1, 4}
	for i, req := range requests {
		moved := customRound(jobID, "r", 0)
		changes := PlaceRound(rounds, moved, req)
		rounds = append(rounds, moved)
		rounds = ApplyOrderChanges(rounds, changes)

		if i%3 == 2 {
			// delete the second custom round
			for j, r := range rounds {
				if !r.IsFixed && r.Order == 3 {
					rounds = append(rounds[:j:j], rounds[j+1:]...)
					break
				}
			}
			rounds = ApplyOrderChanges(rounds, CompactOrders(rounds))
		}

		orders := customOrders(rounds)
		for k, o := range orders {
			assert.Equal(t, FirstCustomOrder+k, o, "step %d: orders %v are not dense", i, orders)
			assert.Less(t, o, MinTerminalOrder(rounds))
		}
	}

	for _, r := range rounds {
		if r.IsFixed {
			assert.Equal(t, FixedOrder(r.FixedKey), r.Order)
		}
	}
}

func TestAppendOrderAndCapacity(t *testing.T) {
	jobID := uuid.New()
	rounds := append(fixedRounds(jobID), customRound(jobID, "a", 2), customRound(jobID, "b", 3))

	assert.Equal(t, 4, AppendOrder(rounds))
	assert.Equal(t, OrderOffer-FirstCustomOrder, CustomCapacity(rounds))
}
