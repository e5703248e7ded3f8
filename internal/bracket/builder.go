package bracket

import (
	"fmt"

	"github.com/google/uuid"
)

// RoundName labels a round by its distance to the final.
func RoundName(index, roundCount int) string {
	switch index {
	case roundCount - 1:
		return "Final"
	case roundCount - 2:
		return "Semi Final"
	case roundCount - 3:
		return "Perempat Final"
	default:
		return fmt.Sprintf("Babak %d", index+1)
	}
}

// BuildRounds generates the full round tree. Match j of round i feeds match j/2
// of round i+1; later rounds start empty and pending.
func BuildRounds(participants []Participant, t Type, policy SeedingPolicy) ([]Round, error) {
	if len(participants) < 2 {
		return nil, invalid(ErrTooFewParticipants)
	}
	if !t.Valid() {
		return nil, invalidf(ErrUnknownBracketType, "unknown bracket type %q", t)
	}

	sorted := SortBySeed(participants)
	n := len(sorted)
	roundCount := RoundCount(n)
	pairs := Round1Pairs(n, t, policy)

	rounds := make([]Round, 0, roundCount)
	for i := 0; i < roundCount; i++ {
		roundID := uuid.NewString()
		matchCount := 1 << (roundCount - i - 1)
		matches := make([]Match, 0, matchCount)

		for j := 0; j < matchCount; j++ {
			m := Match{
				ID:           uuid.NewString(),
				RoundID:      roundID,
				Participants: []*Participant{},
				Status:       MatchPending,
			}

			if i == 0 {
				pair := pairs[j]
				for _, idx := range pair {
					if idx < n {
						p := sorted[idx].Clone()
						m.Participants = append(m.Participants, &p)
					}
				}
				m.Status = MatchScheduled
			}

			matches = append(matches, m)
		}

		rounds = append(rounds, Round{
			ID:          roundID,
			Name:        RoundName(i, roundCount),
			RoundNumber: i + 1,
			Matches:     matches,
		})
	}

	return rounds, nil
}
