package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/AdamBeresnev/silat-bracket/internal/bracket"
	"github.com/AdamBeresnev/silat-bracket/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryKV struct {
	data map[string]string
}

func (m *memoryKV) Get(_ context.Context, key string) (string, bool, error) {
	v, ok := m.data[key]
	return v, ok, nil
}

func (m *memoryKV) Set(_ context.Context, key, value string) error {
	m.data[key] = value
	return nil
}

type fakeAthletes struct {
	records []bracket.AthleteRecord
}

func (f *fakeAthletes) ListAthletes(context.Context) ([]bracket.AthleteRecord, error) {
	return f.records, nil
}

func (f *fakeAthletes) GetAthletesByIDs(_ context.Context, ids []string) ([]bracket.AthleteRecord, error) {
	var out []bracket.AthleteRecord
	for _, id := range ids {
		found := false
		for _, r := range f.records {
			if r.ID == id {
				out = append(out, r)
				found = true
			}
		}
		if !found {
			return nil, &bracket.ValidationError{Msg: fmt.Sprintf("athlete %s not found", id), Err: bracket.ErrNotFound}
		}
	}
	return out, nil
}

func newTestService(t *testing.T) *BracketService {
	t.Helper()

	s, err := store.OpenBracketStore(context.Background(), &memoryKV{data: map[string]string{}},
		store.WithClock(func() time.Time { return time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC) }),
	)
	require.NoError(t, err)

	athletes := &fakeAthletes{records: []bracket.AthleteRecord{
		{ID: "a1", Name: "Ahmad", TeamName: "Tapak Suci"},
		{ID: "a2", Name: "Budi"},
		{ID: "a3", Name: "Citra"},
	}}
	return NewBracketService(s, athletes, nil)
}

func TestCreateFromRegistry(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	reg := bracket.NewRegistry()
	_, err := reg.AddBulk([]string{"Andi", "Budi", "Citra", "Dewi", "Eko"})
	require.NoError(t, err)

	b, err := svc.CreateFromRegistry(ctx, reg, CreateInput{Name: "Kejuaraan Kampus", Seeding: bracket.SeedingRecursive})
	require.NoError(t, err)
	assert.Len(t, b.Participants, 5)
	assert.Len(t, b.Rounds, 3)
	assert.Equal(t, bracket.StatusActive, b.Status)

	stored, err := svc.Store().Get(b.ID)
	require.NoError(t, err)
	assert.Equal(t, b.Name, stored.Name)

	_, err = svc.CreateFromRegistry(ctx, bracket.NewRegistry(), CreateInput{Name: "Kosong"})
	assert.ErrorIs(t, err, bracket.ErrTooFewParticipants)

	single := bracket.NewRegistry()
	_, err = single.Add("Andi", nil)
	require.NoError(t, err)
	_, err = svc.CreateFromRegistry(ctx, single, CreateInput{Name: "Satu"})
	assert.ErrorIs(t, err, bracket.ErrTooFewParticipants)
	assert.Len(t, svc.Store().List(), 4, "nothing stored")
}

func TestAddAthletes(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	reg := bracket.NewRegistry()

	added, err := svc.AddAthletes(ctx, reg, []string{"a1", "a3"})
	require.NoError(t, err)
	require.Len(t, added, 2)
	assert.Equal(t, "a1", added[0].ID)
	require.NotNil(t, added[0].Team)
	assert.Equal(t, "Tapak Suci", *added[0].Team)
	assert.Equal(t, 2, reg.Len())

	_, err = svc.AddAthletes(ctx, reg, nil)
	assert.ErrorIs(t, err, bracket.ErrEmptySelection)

	_, err = svc.AddAthletes(ctx, reg, []string{"a2", "missing"})
	assert.ErrorIs(t, err, bracket.ErrNotFound)

	_, err = svc.AddAthletes(ctx, reg, []string{"a1"})
	assert.ErrorIs(t, err, bracket.ErrDuplicateName)
	assert.Equal(t, 2, reg.Len())

	athletes, err := svc.ListAthletes(ctx)
	require.NoError(t, err)
	assert.Len(t, athletes, 3)
}

func TestGetBracketDataAndRecordResult(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	data, err := svc.GetBracketData("b1")
	require.NoError(t, err)
	require.NotNil(t, data.NextMatchID)
	assert.Equal(t, "m7", *data.NextMatchID)

	b, err := svc.RecordResult(ctx, "b1", bracket.Result{MatchID: "m7", RoundID: "r3", WinnerID: "p2", Score: [2]int{1, 4}})
	require.NoError(t, err)
	assert.Equal(t, bracket.StatusCompleted, b.Status)

	data, err = svc.GetBracketData("b1")
	require.NoError(t, err)
	assert.Nil(t, data.NextMatchID)

	_, err = svc.GetBracketData("missing")
	assert.ErrorIs(t, err, bracket.ErrNotFound)
}

func TestNextPlayableMatch(t *testing.T) {
	p := func(id string) *bracket.Participant { return &bracket.Participant{ID: id, Name: id} }

	b := bracket.Bracket{Rounds: []bracket.Round{
		{ID: "r1", Matches: []bracket.Match{
			{ID: "bye", Participants: []*bracket.Participant{p("a")}, Status: bracket.MatchScheduled},
			{ID: "done", Participants: []*bracket.Participant{p("b"), p("c")}, Status: bracket.MatchCompleted},
			{ID: "live", Participants: []*bracket.Participant{p("d"), p("e")}, Status: bracket.MatchInProgress},
		}},
	}}

	next := NextPlayableMatch(b)
	require.NotNil(t, next)
	assert.Equal(t, "live", *next)

	b.Rounds[0].Matches[2].Status = bracket.MatchCompleted
	assert.Nil(t, NextPlayableMatch(b))
}
