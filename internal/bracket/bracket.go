package bracket

import (
	"time"

	"github.com/AdamBeresnev/silat-bracket/internal/utils"
)

type MatchStatus string

const (
	MatchPending    MatchStatus = "pending"
	MatchScheduled  MatchStatus = "scheduled"
	MatchInProgress MatchStatus = "in_progress"
	MatchCompleted  MatchStatus = "completed"
)

type Status string

const (
	StatusDraft     Status = "draft"
	StatusActive    Status = "active"
	StatusCompleted Status = "completed"
)

type Type string

const (
	SingleElimination Type = "single-elimination"
	DoubleElimination Type = "double-elimination"
	RoundRobin        Type = "round-robin"
)

func (t Type) Valid() bool {
	switch t {
	case SingleElimination, DoubleElimination, RoundRobin:
		return true
	}
	return false
}

type Stats struct {
	Wins   int `json:"wins"`
	Losses int `json:"losses"`
	Draws  int `json:"draws"`
}

type Participant struct {
	ID     string  `json:"id"`
	Name   string  `json:"name"`
	Seed   *int    `json:"seed,omitempty"`
	Avatar *string `json:"avatar,omitempty"`
	Team   *string `json:"team,omitempty"`
	Stats  *Stats  `json:"stats,omitempty"`
}

type Match struct {
	ID      string `json:"id"`
	RoundID string `json:"roundId"`

	// A nil slot is a hole: slot 1 can be filled before slot 0
	Participants []*Participant `json:"participants"`

	WinnerID      *string     `json:"winnerId,omitempty"`
	Score         *[2]int     `json:"score,omitempty"`
	Status        MatchStatus `json:"status,omitempty"`
	ScheduledTime *time.Time  `json:"scheduledTime,omitempty"`
	Notes         string      `json:"notes"`
}

type Round struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	RoundNumber int     `json:"roundNumber"`
	Matches     []Match `json:"matches"`
}

type Bracket struct {
	ID           string        `json:"id"`
	Name         string        `json:"name"`
	Description  string        `json:"description,omitempty"`
	Participants []Participant `json:"participants"`
	Rounds       []Round       `json:"rounds"`
	CreatedAt    time.Time     `json:"createdAt"`
	UpdatedAt    time.Time     `json:"updatedAt"`
	Status       Status        `json:"status,omitempty"`
	Type         Type          `json:"type,omitempty"`
	WinnerID     *string       `json:"winnerId,omitempty"`
}

// Slot returns the participant in the given slot, or nil for a hole or a missing slot.
func (m *Match) Slot(i int) *Participant {
	if i < 0 || i >= len(m.Participants) {
		return nil
	}
	return m.Participants[i]
}

// Filled counts the slots holding a real participant.
func (m *Match) Filled() int {
	n := 0
	for _, p := range m.Participants {
		if p != nil {
			n++
		}
	}
	return n
}

func (m *Match) IsWinner(slot int) bool {
	p := m.Slot(slot)
	return m.Status == MatchCompleted && p != nil && m.WinnerID != nil && *m.WinnerID == p.ID
}

func (m *Match) IsLoser(slot int) bool {
	p := m.Slot(slot)
	return m.Status == MatchCompleted && p != nil && m.WinnerID != nil && *m.WinnerID != p.ID
}

// FindParticipant looks a participant up in the bracket's authoritative list.
func (b *Bracket) FindParticipant(id string) (Participant, bool) {
	for _, p := range b.Participants {
		if p.ID == id {
			return p, true
		}
	}
	return Participant{}, false
}

// Locate returns the round and match indexes for the given ids.
func (b *Bracket) Locate(roundID, matchID string) (int, int, bool) {
	for ri := range b.Rounds {
		if b.Rounds[ri].ID != roundID {
			continue
		}
		for mi := range b.Rounds[ri].Matches {
			if b.Rounds[ri].Matches[mi].ID == matchID {
				return ri, mi, true
			}
		}
		return ri, -1, false
	}
	return -1, -1, false
}

// Clone returns a deep copy sharing no memory with p.
func (p Participant) Clone() Participant {
	c := p
	c.Seed = utils.Copy(p.Seed)
	c.Avatar = utils.Copy(p.Avatar)
	c.Team = utils.Copy(p.Team)
	c.Stats = utils.Copy(p.Stats)
	return c
}

func (m Match) Clone() Match {
	c := m
	if m.Participants != nil {
		c.Participants = make([]*Participant, len(m.Participants))
		for i, p := range m.Participants {
			if p != nil {
				pc := p.Clone()
				c.Participants[i] = &pc
			}
		}
	}
	c.WinnerID = utils.Copy(m.WinnerID)
	c.Score = utils.Copy(m.Score)
	c.ScheduledTime = utils.Copy(m.ScheduledTime)
	return c
}

func (r Round) Clone() Round {
	c := r
	if r.Matches != nil {
		c.Matches = make([]Match, len(r.Matches))
		for i, m := range r.Matches {
			c.Matches[i] = m.Clone()
		}
	}
	return c
}

func (b Bracket) Clone() Bracket {
	c := b
	if b.Participants != nil {
		c.Participants = make([]Participant, len(b.Participants))
		for i, p := range b.Participants {
			c.Participants[i] = p.Clone()
		}
	}
	if b.Rounds != nil {
		c.Rounds = make([]Round, len(b.Rounds))
		for i, r := range b.Rounds {
			c.Rounds[i] = r.Clone()
		}
	}
	c.WinnerID = utils.Copy(b.WinnerID)
	return c
}
