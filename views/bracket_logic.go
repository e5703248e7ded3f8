package views

import (
	"fmt"
	"time"

	"github.com/AdamBeresnev/silat-bracket/internal/bracket"
)

const timeLayout = "02 Jan 2006 15:04"

type RoundColumn struct {
	Round   bracket.Round
	IsFinal bool
}

type BracketData struct {
	Bracket     bracket.Bracket
	Columns     []RoundColumn
	WinnerName  string
	NextMatchID *string
}

func PrepareBracketData(b bracket.Bracket, nextMatchID *string) BracketData {
	columns := make([]RoundColumn, 0, len(b.Rounds))
	for i, r := range b.Rounds {
		columns = append(columns, RoundColumn{Round: r, IsFinal: i == len(b.Rounds)-1})
	}

	var winnerName string
	if b.WinnerID != nil {
		if p, ok := b.FindParticipant(*b.WinnerID); ok {
			winnerName = p.Name
		}
	}

	return BracketData{
		Bracket:     b,
		Columns:     columns,
		WinnerName:  winnerName,
		NextMatchID: nextMatchID,
	}
}

// SlotLabel names a match slot for display; empty slots are either a bye in the
// first round or still waiting on a previous match.
func SlotLabel(m bracket.Match, slot int, firstRound bool) string {
	if p := m.Slot(slot); p != nil {
		return p.Name
	}
	if firstRound {
		return "BYE"
	}
	return "TBD"
}

func slotClass(m bracket.Match, slot int) string {
	switch {
	case m.IsWinner(slot):
		return "slot winner"
	case m.IsLoser(slot):
		return "slot loser"
	}
	return "slot"
}

func scoreText(m bracket.Match, slot int) string {
	if m.Score == nil {
		return ""
	}
	return fmt.Sprint(m.Score[slot])
}

func isNext(m bracket.Match, nextMatchID *string) bool {
	return nextMatchID != nil && *nextMatchID == m.ID
}

func formatTime(t time.Time) string {
	return t.Format(timeLayout)
}

func bracketSummary(b bracket.Bracket) string {
	return fmt.Sprintf("%s · %s · %d peserta", b.Status, formatTime(b.UpdatedAt), len(b.Participants))
}
