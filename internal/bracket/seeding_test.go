package bracket

import (
	"testing"

	"github.com/AdamBeresnev/silat-bracket/internal/utils"
	"github.com/stretchr/testify/assert"
)

func TestRoundCount(t *testing.T) {
	testCases := []struct {
		n        int
		expected int
	}{
		{n: 0, expected: 0},
		{n: 1, expected: 0},
		{n: 2, expected: 1},
		{n: 3, expected: 2},
		{n: 4, expected: 2},
		{n: 5, expected: 3},
		{n: 8, expected: 3},
		{n: 9, expected: 4},
		{n: 16, expected: 4},
		{n: 17, expected: 5},
	}

	for _, tc := range testCases {
		assert.Equal(t, tc.expected, RoundCount(tc.n), "n=%d", tc.n)
	}
}

func TestSortBySeed(t *testing.T) {
	input := []Participant{
		{ID: "a", Seed: utils.Ptr(3)},
		{ID: "b"},
		{ID: "c", Seed: utils.Ptr(1)},
		{ID: "d"},
		{ID: "e", Seed: utils.Ptr(2)},
	}

	sorted := SortBySeed(input)

	ids := make([]string, len(sorted))
	for i, p := range sorted {
		ids[i] = p.ID
	}
	assert.Equal(t, []string{"c", "e", "a", "b", "d"}, ids)
	assert.Equal(t, "a", input[0].ID, "input left in place")
}

func TestRound1Pairs(t *testing.T) {
	testCases := []struct {
		name     string
		n        int
		t        Type
		policy   SeedingPolicy
		expected [][2]int
	}{
		{
			name:     "2 entries",
			n:        2,
			t:        SingleElimination,
			expected: [][2]int{{0, 1}},
		},
		{
			name:     "3 entries pairs outer slots",
			n:        3,
			t:        SingleElimination,
			expected: [][2]int{{0, 3}, {1, 2}},
		},
		{
			name:     "4 entries",
			n:        4,
			t:        SingleElimination,
			expected: [][2]int{{0, 3}, {1, 2}},
		},
		{
			name:     "8 entries",
			n:        8,
			t:        SingleElimination,
			expected: [][2]int{{0, 7}, {3, 4}, {2, 5}, {1, 6}},
		},
		{
			name:     "Non-power of 2 (6 entries)",
			n:        6,
			t:        SingleElimination,
			expected: [][2]int{{0, 7}, {3, 4}, {2, 5}, {1, 6}},
		},
		{
			name: "16 entries extends in natural order",
			n:    16,
			t:    SingleElimination,
			expected: [][2]int{
				{0, 7}, {3, 4}, {2, 5}, {1, 6},
				{8, 9}, {10, 11}, {12, 13}, {14, 15},
			},
		},
		{
			name:     "recursive policy, 8 entries",
			n:        8,
			t:        SingleElimination,
			policy:   SeedingRecursive,
			expected: [][2]int{{0, 7}, {3, 4}, {1, 6}, {2, 5}},
		},
		{
			name:     "round robin is sequential",
			n:        4,
			t:        RoundRobin,
			expected: [][2]int{{0, 1}, {2, 3}},
		},
		{
			name:     "too few",
			n:        1,
			t:        SingleElimination,
			expected: [][2]int{},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			policy := tc.policy
			if policy == "" {
				policy = SeedingStandard
			}
			assert.Equal(t, tc.expected, Round1Pairs(tc.n, tc.t, policy))
		})
	}
}

func TestRecursiveOrderKeepsTopSeedsApart(t *testing.T) {
	for _, size := range []int{4, 8, 16, 32} {
		order := recursiveOrder(size)
		assert.Len(t, order, size)

		half := size / 2
		top, second := -1, -1
		for i, seed := range order {
			switch seed {
			case 0:
				top = i
			case 1:
				second = i
			}
		}
		assert.NotEqual(t, top < half, second < half, "size %d: seeds 1 and 2 must be in opposite halves", size)
	}
}
