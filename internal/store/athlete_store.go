package store

import (
	"context"
	"fmt"

	"github.com/AdamBeresnev/silat-bracket/internal/bracket"
	"github.com/jmoiron/sqlx"
)

// AthleteStore is the read side of the athlete registry that brackets import
// participants from.
type AthleteStore struct {
	db *sqlx.DB
}

const (
	listAthletesQuery  = "SELECT id, name, avatar_url, team_name FROM athletes ORDER BY name ASC"
	getAthletesQuery   = "SELECT id, name, avatar_url, team_name FROM athletes WHERE id IN (?)"
	createAthleteQuery = `
		INSERT INTO athletes (id, name, avatar_url, team_name) VALUES
		(:id, :name, :avatar_url, :team_name)
	`
)

func NewAthleteStore(db *sqlx.DB) *AthleteStore {
	return &AthleteStore{db: db}
}

func (s *AthleteStore) ListAthletes(ctx context.Context) ([]bracket.AthleteRecord, error) {
	var athletes []bracket.AthleteRecord
	err := s.db.SelectContext(ctx, &athletes, listAthletesQuery)
	return athletes, err
}

// GetAthletesByIDs returns the athletes in the order of ids. Unknown ids are an error.
func (s *AthleteStore) GetAthletesByIDs(ctx context.Context, ids []string) ([]bracket.AthleteRecord, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	query, args, err := sqlx.In(getAthletesQuery, ids)
	if err != nil {
		return nil, err
	}

	var found []bracket.AthleteRecord
	if err := s.db.SelectContext(ctx, &found, s.db.Rebind(query), args...); err != nil {
		return nil, err
	}

	byID := make(map[string]bracket.AthleteRecord, len(found))
	for _, a := range found {
		byID[a.ID] = a
	}

	athletes := make([]bracket.AthleteRecord, 0, len(ids))
	for _, id := range ids {
		a, ok := byID[id]
		if !ok {
			return nil, &bracket.ValidationError{Msg: fmt.Sprintf("athlete %s not found", id), Err: bracket.ErrNotFound}
		}
		athletes = append(athletes, a)
	}
	return athletes, nil
}

func (s *AthleteStore) CreateAthlete(ctx context.Context, athlete *bracket.AthleteRecord) error {
	_, err := s.db.NamedExecContext(ctx, createAthleteQuery, athlete)
	return err
}
