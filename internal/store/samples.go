package store

import (
	"time"

	"github.com/AdamBeresnev/silat-bracket/internal/bracket"
	"github.com/AdamBeresnev/silat-bracket/internal/utils"
)

const day = 24 * time.Hour

func sampleParticipants() []bracket.Participant {
	names := []struct{ id, name, avatar string }{
		{"p1", "Ahmad Zulkarnain", "Ahmad"},
		{"p2", "Budi Santoso", "Budi"},
		{"p3", "Citra Dewi", "Citra"},
		{"p4", "Dian Purnama", "Dian"},
		{"p5", "Eko Prasetyo", "Eko"},
		{"p6", "Fitri Handayani", "Fitri"},
		{"p7", "Gunawan Wibowo", "Gunawan"},
		{"p8", "Hadi Nugroho", "Hadi"},
	}

	ps := make([]bracket.Participant, len(names))
	for i, n := range names {
		ps[i] = bracket.Participant{
			ID:     n.id,
			Name:   n.name,
			Seed:   utils.Ptr(i + 1),
			Avatar: utils.Ptr("https://api.dicebear.com/7.x/avataaars/svg?seed=" + n.avatar),
		}
	}
	return ps
}

func sampleMatch(id, roundID string, ps []bracket.Participant, a, b int, score *[2]int) bracket.Match {
	pa, pb := ps[a].Clone(), ps[b].Clone()
	m := bracket.Match{
		ID:           id,
		RoundID:      roundID,
		Participants: []*bracket.Participant{&pa, &pb},
		Status:       bracket.MatchScheduled,
	}
	if score != nil {
		m.Score = score
		m.Status = bracket.MatchCompleted
		if score[0] > score[1] {
			m.WinnerID = utils.Ptr(pa.ID)
		} else {
			m.WinnerID = utils.Ptr(pb.ID)
		}
	}
	return m
}

func sampleBracket(id, name, description string, createdAt time.Time) bracket.Bracket {
	ps := sampleParticipants()
	score := func(a, b int) *[2]int { return &[2]int{a, b} }

	return bracket.Bracket{
		ID:           id,
		Name:         name,
		Description:  description,
		Participants: ps,
		Rounds: []bracket.Round{
			{
				ID:          "r1",
				Name:        "Perempat Final",
				RoundNumber: 1,
				Matches: []bracket.Match{
					sampleMatch("m1", "r1", ps, 0, 7, score(3, 1)),
					sampleMatch("m2", "r1", ps, 3, 4, score(2, 0)),
					sampleMatch("m3", "r1", ps, 2, 5, score(4, 2)),
					sampleMatch("m4", "r1", ps, 1, 6, score(5, 0)),
				},
			},
			{
				ID:          "r2",
				Name:        "Semi Final",
				RoundNumber: 2,
				Matches: []bracket.Match{
					sampleMatch("m5", "r2", ps, 0, 3, score(3, 2)),
					sampleMatch("m6", "r2", ps, 2, 1, score(1, 3)),
				},
			},
			{
				ID:          "r3",
				Name:        "Final",
				RoundNumber: 3,
				Matches: []bracket.Match{
					sampleMatch("m7", "r3", ps, 0, 1, nil),
				},
			},
		},
		CreatedAt: createdAt,
		UpdatedAt: createdAt,
		Status:    bracket.StatusActive,
		Type:      bracket.SingleElimination,
	}
}

// SampleBrackets is the built-in dataset used before anything has been stored.
func SampleBrackets(now time.Time) []bracket.Bracket {
	return []bracket.Bracket{
		sampleBracket("b1", "Kejuaraan Pencak Silat 2023", "Turnamen tahunan pencak silat tingkat nasional", now),
		sampleBracket("b2", "Kejuaraan Pencak Silat Junior 2023", "Turnamen pencak silat untuk atlet junior", now.Add(-day)),
		sampleBracket("b3", "Kejuaraan Daerah 2023", "Turnamen tingkat daerah", now.Add(-2*day)),
	}
}
