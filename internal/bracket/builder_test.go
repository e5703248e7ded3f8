package bracket

import (
	"fmt"
	"testing"

	"github.com/AdamBeresnev/silat-bracket/internal/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makeParticipants(n int) []Participant {
	ps := make([]Participant, n)
	for i := range ps {
		ps[i] = Participant{
			ID:   fmt.Sprintf("p%d", i+1),
			Name: fmt.Sprintf("Pesilat %d", i+1),
			Seed: utils.Ptr(i + 1),
		}
	}
	return ps
}

func TestRoundName(t *testing.T) {
	assert.Equal(t, "Final", RoundName(0, 1))
	assert.Equal(t, "Semi Final", RoundName(0, 2))
	assert.Equal(t, "Perempat Final", RoundName(0, 3))
	assert.Equal(t, "Babak 1", RoundName(0, 4))
	assert.Equal(t, "Babak 2", RoundName(1, 5))
	assert.Equal(t, "Final", RoundName(4, 5))
}

func TestBuildRoundsShape(t *testing.T) {
	for n := 2; n <= 17; n++ {
		t.Run(fmt.Sprintf("%d participants", n), func(t *testing.T) {
			rounds, err := BuildRounds(makeParticipants(n), SingleElimination, SeedingStandard)
			require.NoError(t, err)

			roundCount := RoundCount(n)
			require.Len(t, rounds, roundCount)
			assert.Equal(t, "Final", rounds[roundCount-1].Name)
			require.Len(t, rounds[roundCount-1].Matches, 1)

			for i, r := range rounds {
				assert.Equal(t, i+1, r.RoundNumber)
				assert.NotEmpty(t, r.ID)
				assert.Len(t, r.Matches, 1<<(roundCount-i-1))
				for _, m := range r.Matches {
					assert.Equal(t, r.ID, m.RoundID)
					if i > 0 {
						assert.Equal(t, MatchPending, m.Status)
						assert.Empty(t, m.Participants)
					}
				}
			}

			seen := make(map[string]int)
			for _, m := range rounds[0].Matches {
				assert.Equal(t, MatchScheduled, m.Status)
				assert.NotContains(t, m.Participants, (*Participant)(nil))
				for _, p := range m.Participants {
					seen[p.ID]++
				}
			}
			assert.Len(t, seen, n)
			for id, count := range seen {
				assert.Equal(t, 1, count, "participant %s placed once", id)
			}
		})
	}
}

func TestBuildRoundsSeedPlacement(t *testing.T) {
	// shuffled input order still lays out by seed
	ps := makeParticipants(5)
	ps[0], ps[4] = ps[4], ps[0]
	ps[1], ps[3] = ps[3], ps[1]

	rounds, err := BuildRounds(ps, SingleElimination, SeedingStandard)
	require.NoError(t, err)

	ids := func(m Match) []string {
		out := []string{}
		for _, p := range m.Participants {
			out = append(out, p.ID)
		}
		return out
	}

	round1 := rounds[0].Matches
	require.Len(t, round1, 4)
	assert.Equal(t, []string{"p1"}, ids(round1[0]))
	assert.Equal(t, []string{"p4", "p5"}, ids(round1[1]))
	assert.Equal(t, []string{"p3"}, ids(round1[2]))
	assert.Equal(t, []string{"p2"}, ids(round1[3]))
}

func TestBuildRoundsUniqueIDs(t *testing.T) {
	rounds, err := BuildRounds(makeParticipants(8), SingleElimination, SeedingStandard)
	require.NoError(t, err)

	seen := make(map[string]bool)
	for _, r := range rounds {
		assert.False(t, seen[r.ID])
		seen[r.ID] = true
		for _, m := range r.Matches {
			assert.False(t, seen[m.ID])
			seen[m.ID] = true
		}
	}
	assert.Len(t, seen, 3+7)
}

func TestBuildRoundsErrors(t *testing.T) {
	_, err := BuildRounds(makeParticipants(1), SingleElimination, SeedingStandard)
	assert.ErrorIs(t, err, ErrTooFewParticipants)

	_, err = BuildRounds(nil, SingleElimination, SeedingStandard)
	assert.ErrorIs(t, err, ErrTooFewParticipants)

	_, err = BuildRounds(makeParticipants(4), Type("swiss"), SeedingStandard)
	assert.ErrorIs(t, err, ErrUnknownBracketType)
}
