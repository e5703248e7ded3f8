package bracket

import (
	"strings"
	"time"

	"github.com/AdamBeresnev/silat-bracket/internal/utils"
)

type Result struct {
	MatchID       string     `json:"matchId"`
	RoundID       string     `json:"roundId"`
	WinnerID      string     `json:"winnerId"`
	Score         [2]int     `json:"score"`
	Notes         string     `json:"notes,omitempty"`
	ScheduledTime *time.Time `json:"scheduledTime,omitempty"`
}

func locate(b *Bracket, roundID, matchID string) (int, int, error) {
	ri, mi, ok := b.Locate(roundID, matchID)
	if !ok {
		if ri < 0 {
			return 0, 0, invalidf(ErrNotFound, "round %s not found", roundID)
		}
		return 0, 0, invalidf(ErrNotFound, "match %s not found in round %s", matchID, roundID)
	}
	return ri, mi, nil
}

// RecordResult validates res against the bracket and returns a new version with
// the match completed and its winner moved into the next round. b is not modified.
func RecordResult(b Bracket, res Result, now time.Time) (Bracket, error) {
	if res.Score[0] < 0 || res.Score[1] < 0 {
		return Bracket{}, invalid(ErrNegativeScore)
	}

	ri, mi, err := locate(&b, res.RoundID, res.MatchID)
	if err != nil {
		return Bracket{}, err
	}

	match := &b.Rounds[ri].Matches[mi]
	first, second := match.Slot(0), match.Slot(1)
	if first == nil || second == nil {
		return Bracket{}, invalid(ErrMatchNotPlayable)
	}
	if res.Score[0] == res.Score[1] {
		return Bracket{}, invalid(ErrTiedScore)
	}

	expected := second
	if res.Score[0] > res.Score[1] {
		expected = first
	}
	if expected.ID != res.WinnerID {
		return Bracket{}, invalid(ErrWinnerMismatch)
	}

	next := b.Clone()
	m := &next.Rounds[ri].Matches[mi]
	m.WinnerID = utils.Ptr(res.WinnerID)
	m.Score = utils.Ptr(res.Score)
	m.Status = MatchCompleted
	if res.Notes != "" {
		m.Notes = res.Notes
	}
	if res.ScheduledTime != nil {
		m.ScheduledTime = utils.Ptr(*res.ScheduledTime)
	}

	winner, ok := next.FindParticipant(res.WinnerID)
	if !ok {
		winner = *expected
	}
	advance(&next, ri, mi, winner)
	next.UpdatedAt = now

	return next, nil
}

// AdvanceBye completes a match that holds a single participant and moves that
// participant on. Outside round 1 the empty slot must have no participant left
// to receive. Byes are never advanced implicitly.
func AdvanceBye(b Bracket, matchID, roundID string, now time.Time) (Bracket, error) {
	ri, mi, err := locate(&b, roundID, matchID)
	if err != nil {
		return Bracket{}, err
	}

	match := &b.Rounds[ri].Matches[mi]
	if match.Filled() != 1 {
		return Bracket{}, invalid(ErrNotBye)
	}
	if ri > 0 {
		empty := 0
		if match.Slot(0) != nil {
			empty = 1
		}
		if canReceive(&b, ri, mi, empty) {
			return Bracket{}, invalid(ErrNotBye)
		}
	}

	next := b.Clone()
	m := &next.Rounds[ri].Matches[mi]
	var only Participant
	for _, p := range m.Participants {
		if p != nil {
			only = *p
		}
	}
	m.WinnerID = utils.Ptr(only.ID)
	m.Score = nil
	m.Status = MatchCompleted

	if p, ok := next.FindParticipant(only.ID); ok {
		only = p
	}
	advance(&next, ri, mi, only)
	next.UpdatedAt = now

	return next, nil
}

// canReceive reports whether a participant can still reach the given slot of
// match mi in round ri through the matches feeding it.
func canReceive(b *Bracket, ri, mi, slot int) bool {
	if ri == 0 {
		return false
	}
	fi := mi*2 + slot
	if fi >= len(b.Rounds[ri-1].Matches) {
		return false
	}
	if b.Rounds[ri-1].Matches[fi].Filled() > 0 {
		return true
	}
	return canReceive(b, ri-1, fi, 0) || canReceive(b, ri-1, fi, 1)
}

// advance places the winner of match mi in round ri into the next round, or
// finishes the bracket when ri is the final. Replacing a different participant
// in the target slot voids the results that depended on it.
func advance(b *Bracket, ri, mi int, winner Participant) {
	if ri == len(b.Rounds)-1 {
		b.Status = StatusCompleted
		b.WinnerID = utils.Ptr(winner.ID)
		return
	}

	nextMatches := b.Rounds[ri+1].Matches
	nextIdx := mi / 2
	if nextIdx >= len(nextMatches) {
		return
	}
	nextMatch := &nextMatches[nextIdx]

	slot := mi % 2
	for len(nextMatch.Participants) <= slot {
		nextMatch.Participants = append(nextMatch.Participants, nil)
	}
	if prev := nextMatch.Participants[slot]; prev != nil && prev.ID != winner.ID {
		clearResult(b, ri+1, nextIdx)
	}
	w := winner.Clone()
	nextMatch.Participants[slot] = &w
	nextMatch.Status = MatchScheduled
}

// clearResult drops the result of match mi in round ri and pulls its winner
// back out of every later round, reopening the bracket if the final is hit.
func clearResult(b *Bracket, ri, mi int) {
	m := &b.Rounds[ri].Matches[mi]
	if m.WinnerID == nil {
		return
	}
	m.WinnerID = nil
	m.Score = nil
	m.Status = MatchScheduled

	if ri == len(b.Rounds)-1 {
		b.Status = StatusActive
		b.WinnerID = nil
		return
	}

	nextIdx := mi / 2
	if nextIdx >= len(b.Rounds[ri+1].Matches) {
		return
	}
	clearResult(b, ri+1, nextIdx)

	nm := &b.Rounds[ri+1].Matches[nextIdx]
	if slot := mi % 2; slot < len(nm.Participants) {
		nm.Participants[slot] = nil
	}
	if nm.Filled() == 0 {
		nm.Status = MatchPending
	}
}

// ScheduleMatch sets the scheduled time of a match and marks it scheduled,
// whatever its result state.
func ScheduleMatch(b Bracket, matchID, roundID string, at time.Time, now time.Time) (Bracket, error) {
	ri, mi, err := locate(&b, roundID, matchID)
	if err != nil {
		return Bracket{}, err
	}

	next := b.Clone()
	m := &next.Rounds[ri].Matches[mi]
	m.ScheduledTime = utils.Ptr(at)
	m.Status = MatchScheduled
	next.UpdatedAt = now

	return next, nil
}

func UpdateDetails(b Bracket, name, description string, now time.Time) (Bracket, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Bracket{}, invalid(ErrEmptyName)
	}

	next := b.Clone()
	next.Name = name
	next.Description = strings.TrimSpace(description)
	next.UpdatedAt = now
	return next, nil
}
