package store

import (
	"context"
	"testing"

	"github.com/AdamBeresnev/silat-bracket/internal/bracket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedAthletes(t *testing.T, s *AthleteStore) {
	t.Helper()
	athletes := []bracket.AthleteRecord{
		{ID: "a1", Name: "Citra Dewi", TeamName: "Tapak Suci"},
		{ID: "a2", Name: "Ahmad Zulkarnain", AvatarURL: "https://example.com/ahmad.png"},
		{ID: "a3", Name: "Budi Santoso", TeamName: "Merpati Putih"},
	}
	for i := range athletes {
		require.NoError(t, s.CreateAthlete(context.Background(), &athletes[i]))
	}
}

func TestListAthletes(t *testing.T) {
	s := NewAthleteStore(setupTestDB(t))

	athletes, err := s.ListAthletes(context.Background())
	require.NoError(t, err)
	assert.Empty(t, athletes)

	seedAthletes(t, s)

	athletes, err = s.ListAthletes(context.Background())
	require.NoError(t, err)
	require.Len(t, athletes, 3)
	assert.Equal(t, "Ahmad Zulkarnain", athletes[0].Name)
	assert.Equal(t, "https://example.com/ahmad.png", athletes[0].AvatarURL)
	assert.Equal(t, "", athletes[0].TeamName)
	assert.Equal(t, "Budi Santoso", athletes[1].Name)
	assert.Equal(t, "Citra Dewi", athletes[2].Name)
}

func TestGetAthletesByIDs(t *testing.T) {
	s := NewAthleteStore(setupTestDB(t))
	seedAthletes(t, s)
	ctx := context.Background()

	athletes, err := s.GetAthletesByIDs(ctx, []string{"a3", "a1"})
	require.NoError(t, err)
	require.Len(t, athletes, 2)
	assert.Equal(t, "a3", athletes[0].ID, "input order kept")
	assert.Equal(t, "Merpati Putih", athletes[0].TeamName)
	assert.Equal(t, "a1", athletes[1].ID)

	athletes, err = s.GetAthletesByIDs(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, athletes)

	_, err = s.GetAthletesByIDs(ctx, []string{"a1", "missing"})
	assert.ErrorIs(t, err, bracket.ErrNotFound)
}

func TestCreateAthleteDuplicateID(t *testing.T) {
	s := NewAthleteStore(setupTestDB(t))
	seedAthletes(t, s)

	err := s.CreateAthlete(context.Background(), &bracket.AthleteRecord{ID: "a1", Name: "Lain"})
	assert.Error(t, err)
}
