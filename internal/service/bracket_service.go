package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/AdamBeresnev/silat-bracket/internal/bracket"
	"github.com/AdamBeresnev/silat-bracket/internal/store"
)

// AthleteSource is the external athlete registry participants can be imported from.
type AthleteSource interface {
	ListAthletes(ctx context.Context) ([]bracket.AthleteRecord, error)
	GetAthletesByIDs(ctx context.Context, ids []string) ([]bracket.AthleteRecord, error)
}

type BracketService struct {
	store    *store.BracketStore
	athletes AthleteSource
	logger   *slog.Logger
}

func NewBracketService(store *store.BracketStore, athletes AthleteSource, logger *slog.Logger) *BracketService {
	if logger == nil {
		logger = slog.Default()
	}
	return &BracketService{store: store, athletes: athletes, logger: logger}
}

type CreateInput struct {
	Name        string                `json:"name"`
	Description string                `json:"description"`
	Type        bracket.Type          `json:"type"`
	Seeding     bracket.SeedingPolicy `json:"seeding"`
}

type BracketData struct {
	Bracket     bracket.Bracket
	NextMatchID *string
}

func (s *BracketService) Store() *store.BracketStore {
	return s.store
}

// CreateFromRegistry builds a bracket from the draft registry's current list.
func (s *BracketService) CreateFromRegistry(ctx context.Context, reg *bracket.Registry, in CreateInput) (bracket.Bracket, error) {
	if reg.Len() < 2 {
		return bracket.Bracket{}, &bracket.ValidationError{Msg: "draft needs at least two participants", Err: bracket.ErrTooFewParticipants}
	}

	b, err := s.store.Create(ctx, store.CreateParams{
		Name:         in.Name,
		Description:  in.Description,
		Participants: reg.Participants(),
		Type:         in.Type,
		Seeding:      in.Seeding,
	})
	if err != nil {
		return bracket.Bracket{}, err
	}
	return b, nil
}

func (s *BracketService) ListAthletes(ctx context.Context) ([]bracket.AthleteRecord, error) {
	return s.athletes.ListAthletes(ctx)
}

// AddAthletes pulls the selected athletes from the athlete source into reg.
func (s *BracketService) AddAthletes(ctx context.Context, reg *bracket.Registry, ids []string) ([]bracket.Participant, error) {
	if len(ids) == 0 {
		return nil, &bracket.ValidationError{Msg: "select at least one athlete", Err: bracket.ErrEmptySelection}
	}

	records, err := s.athletes.GetAthletesByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to load athletes: %w", err)
	}

	added, err := reg.AddFromExternalSource(records)
	if err != nil {
		return nil, err
	}
	s.logger.Info("athletes added to draft", "count", len(added))
	return added, nil
}

func (s *BracketService) GetBracketData(id string) (*BracketData, error) {
	b, err := s.store.Get(id)
	if err != nil {
		return nil, err
	}
	return &BracketData{Bracket: b, NextMatchID: NextPlayableMatch(b)}, nil
}

// NextPlayableMatch finds the first match, in round order, that has both
// participants and no result yet.
func NextPlayableMatch(b bracket.Bracket) *string {
	for _, r := range b.Rounds {
		for _, m := range r.Matches {
			if m.Status != bracket.MatchCompleted && m.Filled() == 2 {
				id := m.ID
				return &id
			}
		}
	}
	return nil
}

func (s *BracketService) RecordResult(ctx context.Context, bracketID string, res bracket.Result) (bracket.Bracket, error) {
	b, err := s.store.ApplyResult(ctx, bracketID, res)
	if err != nil {
		return bracket.Bracket{}, err
	}
	if b.Status == bracket.StatusCompleted && b.WinnerID != nil {
		s.logger.Info("bracket completed", "id", b.ID, "winner", *b.WinnerID)
	}
	return b, nil
}
