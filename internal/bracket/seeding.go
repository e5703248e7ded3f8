package bracket

import (
	"math/bits"
	"sort"
)

// SeedingPolicy selects how round 1 is paired in a single elimination bracket.
type SeedingPolicy string

const (
	// SeedingStandard pairs the first eight slots 1v8, 4v5, 3v6, 2v7 and appends
	// any further slots in natural order.
	SeedingStandard SeedingPolicy = "standard"
	// SeedingRecursive builds the full bracket order by recursive halving, so the
	// top two seeds can only meet in the final at any bracket size.
	SeedingRecursive SeedingPolicy = "recursive"
)

var standardPrefix = []int{0, 7, 3, 4, 2, 5, 1, 6}

// RoundCount returns ceil(log2(n)), the number of rounds needed for n entrants.
func RoundCount(n int) int {
	if n < 2 {
		return 0
	}
	return bits.Len(uint(n - 1))
}

// calcBracketSize gets the nearest power of 2 while rounding up, so 5 gives 8.
func calcBracketSize(count int) int {
	if count < 2 {
		return 0
	}
	return 1 << RoundCount(count)
}

// SortBySeed orders seeded participants by ascending seed, followed by the
// unseeded ones in their original order.
func SortBySeed(participants []Participant) []Participant {
	sorted := make([]Participant, len(participants))
	copy(sorted, participants)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i].Seed, sorted[j].Seed
		switch {
		case a != nil && b != nil:
			return *a < *b
		case a != nil:
			return true
		default:
			return false
		}
	})
	return sorted
}

// Round1Pairs returns index pairs into the seed-sorted participant list. An
// index >= n is a bye.
func Round1Pairs(n int, t Type, policy SeedingPolicy) [][2]int {
	bracketSize := calcBracketSize(n)
	if bracketSize == 0 {
		return [][2]int{}
	}

	var order []int
	switch {
	case t != SingleElimination:
		order = sequentialOrder(bracketSize)
	case policy == SeedingRecursive:
		order = recursiveOrder(bracketSize)
	default:
		order = standardOrder(bracketSize)
	}

	pairs := make([][2]int, 0, bracketSize/2)
	for i := 0; i < len(order); i += 2 {
		pairs = append(pairs, [2]int{order[i], order[i+1]})
	}
	return pairs
}

func sequentialOrder(size int) []int {
	order := make([]int, size)
	for i := range order {
		order[i] = i
	}
	return order
}

func standardOrder(size int) []int {
	order := make([]int, 0, size)
	if size >= 8 {
		order = append(order, standardPrefix...)
		for slot := 8; slot < size; slot++ {
			order = append(order, slot)
		}
		return order
	}
	for slot := 0; slot < size/2; slot++ {
		order = append(order, slot, size-1-slot)
	}
	return order
}

func recursiveOrder(size int) []int {
	rounds := []int{0}
	for len(rounds) < size {
		next := make([]int, 0, len(rounds)*2)
		currentCount := len(rounds) * 2
		for _, seed := range rounds {
			next = append(next, seed, (currentCount-1)-seed)
		}
		rounds = next
	}
	return rounds
}
