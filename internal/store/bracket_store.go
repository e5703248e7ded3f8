package store

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/AdamBeresnev/silat-bracket/internal/bracket"
	"github.com/google/uuid"
	"github.com/tidwall/jsonc"
)

// Namespace is the KV key holding the serialized bracket list.
const Namespace = "silat_brackets"

const copySuffix = " (Copy)"

// BracketStore owns the canonical bracket list. Callers only ever get copies;
// every write persists the full list before it becomes visible.
type BracketStore struct {
	mu       sync.Mutex
	kv       KV
	brackets []bracket.Bracket

	now     func() time.Time
	newID   func() string
	samples func(now time.Time) []bracket.Bracket
	logger  *slog.Logger
}

type Option func(*BracketStore)

func WithClock(now func() time.Time) Option {
	return func(s *BracketStore) { s.now = now }
}

func WithIDGenerator(newID func() string) Option {
	return func(s *BracketStore) { s.newID = newID }
}

func WithLogger(logger *slog.Logger) Option {
	return func(s *BracketStore) { s.logger = logger }
}

// WithSamples replaces the dataset used when the KV store has no entry yet.
func WithSamples(samples func(now time.Time) []bracket.Bracket) Option {
	return func(s *BracketStore) { s.samples = samples }
}

type CreateParams struct {
	Name         string
	Description  string
	Participants []bracket.Participant
	Type         bracket.Type
	Seeding      bracket.SeedingPolicy
}

// OpenBracketStore loads the bracket list from kv, falling back to the sample
// dataset when nothing has been stored yet.
func OpenBracketStore(ctx context.Context, kv KV, opts ...Option) (*BracketStore, error) {
	s := &BracketStore{
		kv:      kv,
		now:     time.Now,
		newID:   uuid.NewString,
		samples: SampleBrackets,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}

	raw, found, err := kv.Get(ctx, Namespace)
	if err != nil {
		return nil, &bracket.StorageError{Op: "read", Err: err}
	}
	if !found {
		s.brackets = s.samples(s.now())
		s.logger.Info("no stored brackets, using sample data", "count", len(s.brackets))
		return s, nil
	}

	var list []bracket.Bracket
	if err := json.Unmarshal([]byte(raw), &list); err != nil {
		return nil, &bracket.FormatError{Msg: "stored bracket list", Err: err}
	}
	for i := range list {
		normalize(&list[i])
	}
	s.brackets = list
	s.logger.Info("brackets loaded", "count", len(list))
	return s, nil
}

// commit persists next and only then makes it the current list.
func (s *BracketStore) commit(ctx context.Context, op string, next []bracket.Bracket) error {
	data, err := json.Marshal(next)
	if err != nil {
		return &bracket.StorageError{Op: op, Err: fmt.Errorf("failed to encode bracket list: %w", err)}
	}
	if err := s.kv.Set(ctx, Namespace, string(data)); err != nil {
		s.logger.Error("failed to persist brackets", "op", op, "error", err)
		return &bracket.StorageError{Op: op, Err: err}
	}
	s.brackets = next
	return nil
}

func (s *BracketStore) indexOf(id string) int {
	for i := range s.brackets {
		if s.brackets[i].ID == id {
			return i
		}
	}
	return -1
}

func notFound(id string) error {
	return &bracket.ValidationError{Msg: fmt.Sprintf("bracket %s not found", id), Err: bracket.ErrNotFound}
}

func (s *BracketStore) List() []bracket.Bracket {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]bracket.Bracket, len(s.brackets))
	for i, b := range s.brackets {
		out[i] = b.Clone()
	}
	return out
}

func (s *BracketStore) Get(id string) (bracket.Bracket, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(id)
	if idx < 0 {
		return bracket.Bracket{}, notFound(id)
	}
	return s.brackets[idx].Clone(), nil
}

// Search matches the query case-insensitively against name and description.
func (s *BracketStore) Search(query string) []bracket.Bracket {
	q := strings.ToLower(strings.TrimSpace(query))

	s.mu.Lock()
	defer s.mu.Unlock()

	out := []bracket.Bracket{}
	for _, b := range s.brackets {
		if q == "" ||
			strings.Contains(strings.ToLower(b.Name), q) ||
			strings.Contains(strings.ToLower(b.Description), q) {
			out = append(out, b.Clone())
		}
	}
	return out
}

func validateParticipants(participants []bracket.Participant) error {
	if len(participants) < 2 {
		return &bracket.ValidationError{Err: bracket.ErrTooFewParticipants}
	}
	ids := make(map[string]bool, len(participants))
	for _, p := range participants {
		if strings.TrimSpace(p.Name) == "" {
			return &bracket.ValidationError{Msg: fmt.Sprintf("participant %s has no name", p.ID), Err: bracket.ErrEmptyName}
		}
		if p.ID == "" || ids[p.ID] {
			return &bracket.ValidationError{Msg: "duplicate participant id", Names: []string{p.ID}, Err: bracket.ErrDuplicateID}
		}
		ids[p.ID] = true
	}
	return nil
}

func (s *BracketStore) Create(ctx context.Context, params CreateParams) (bracket.Bracket, error) {
	name := strings.TrimSpace(params.Name)
	if name == "" {
		return bracket.Bracket{}, &bracket.ValidationError{Msg: "bracket name must not be empty", Err: bracket.ErrEmptyName}
	}
	if err := validateParticipants(params.Participants); err != nil {
		return bracket.Bracket{}, err
	}

	bracketType := params.Type
	if bracketType == "" {
		bracketType = bracket.SingleElimination
	}
	rounds, err := bracket.BuildRounds(params.Participants, bracketType, params.Seeding)
	if err != nil {
		return bracket.Bracket{}, err
	}

	participants := make([]bracket.Participant, len(params.Participants))
	for i, p := range params.Participants {
		participants[i] = p.Clone()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	b := bracket.Bracket{
		ID:           s.newID(),
		Name:         name,
		Description:  strings.TrimSpace(params.Description),
		Participants: participants,
		Rounds:       rounds,
		CreatedAt:    now,
		UpdatedAt:    now,
		Status:       bracket.StatusActive,
		Type:         bracketType,
	}

	next := append(s.snapshot(), b)
	if err := s.commit(ctx, "create", next); err != nil {
		return bracket.Bracket{}, err
	}

	s.logger.Info("bracket created", "id", b.ID, "name", b.Name, "participants", len(participants), "rounds", len(rounds))
	return b.Clone(), nil
}

// Delete removes the bracket with the given id. Unknown ids are a no-op.
func (s *BracketStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(id)
	if idx < 0 {
		return nil
	}

	next := make([]bracket.Bracket, 0, len(s.brackets)-1)
	next = append(next, s.brackets[:idx]...)
	next = append(next, s.brackets[idx+1:]...)
	if err := s.commit(ctx, "delete", next); err != nil {
		return err
	}

	s.logger.Info("bracket deleted", "id", id)
	return nil
}

// Duplicate clones a bracket including its progress under a new identity.
func (s *BracketStore) Duplicate(ctx context.Context, id string) (bracket.Bracket, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(id)
	if idx < 0 {
		return bracket.Bracket{}, notFound(id)
	}

	now := s.now()
	dup := s.brackets[idx].Clone()
	dup.ID = s.newID()
	dup.Name += copySuffix
	dup.CreatedAt = now
	dup.UpdatedAt = now

	next := append(s.snapshot(), dup)
	if err := s.commit(ctx, "duplicate", next); err != nil {
		return bracket.Bracket{}, err
	}

	s.logger.Info("bracket duplicated", "source", id, "id", dup.ID)
	return dup.Clone(), nil
}

// Import adds a serialized bracket. A colliding id is replaced with a fresh one
// and both timestamps are reset to the import time.
func (s *BracketStore) Import(ctx context.Context, text string) (bracket.Bracket, error) {
	b, err := DecodeBracket(text)
	if err != nil {
		return bracket.Bracket{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.indexOf(b.ID) >= 0 {
		old := b.ID
		b.ID = s.newID()
		s.logger.Info("imported bracket id collides, reassigned", "old", old, "id", b.ID)
	}
	now := s.now()
	b.CreatedAt = now
	b.UpdatedAt = now

	next := append(s.snapshot(), b)
	if err := s.commit(ctx, "import", next); err != nil {
		return bracket.Bracket{}, err
	}

	s.logger.Info("bracket imported", "id", b.ID, "name", b.Name)
	return b.Clone(), nil
}

func (s *BracketStore) Export(id string) (string, error) {
	b, err := s.Get(id)
	if err != nil {
		return "", err
	}
	return EncodeBracket(b)
}

// Reset replaces every stored bracket with the sample dataset.
func (s *BracketStore) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.commit(ctx, "reset", s.samples(s.now())); err != nil {
		return err
	}
	s.logger.Info("brackets reset to sample data", "count", len(s.brackets))
	return nil
}

// ApplyResult records a match result and returns the new bracket version.
func (s *BracketStore) ApplyResult(ctx context.Context, bracketID string, res bracket.Result) (bracket.Bracket, error) {
	return s.apply(ctx, "result", bracketID, func(b bracket.Bracket, now time.Time) (bracket.Bracket, error) {
		return bracket.RecordResult(b, res, now)
	})
}

func (s *BracketStore) ApplySchedule(ctx context.Context, bracketID, matchID, roundID string, at time.Time) (bracket.Bracket, error) {
	return s.apply(ctx, "schedule", bracketID, func(b bracket.Bracket, now time.Time) (bracket.Bracket, error) {
		return bracket.ScheduleMatch(b, matchID, roundID, at, now)
	})
}

func (s *BracketStore) ApplyBye(ctx context.Context, bracketID, matchID, roundID string) (bracket.Bracket, error) {
	return s.apply(ctx, "bye", bracketID, func(b bracket.Bracket, now time.Time) (bracket.Bracket, error) {
		return bracket.AdvanceBye(b, matchID, roundID, now)
	})
}

func (s *BracketStore) UpdateDetails(ctx context.Context, bracketID, name, description string) (bracket.Bracket, error) {
	return s.apply(ctx, "details", bracketID, func(b bracket.Bracket, now time.Time) (bracket.Bracket, error) {
		return bracket.UpdateDetails(b, name, description, now)
	})
}

func (s *BracketStore) apply(ctx context.Context, op, id string, fn func(bracket.Bracket, time.Time) (bracket.Bracket, error)) (bracket.Bracket, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(id)
	if idx < 0 {
		return bracket.Bracket{}, notFound(id)
	}

	updated, err := fn(s.brackets[idx], s.now())
	if err != nil {
		return bracket.Bracket{}, err
	}

	next := s.snapshot()
	next[idx] = updated
	if err := s.commit(ctx, op, next); err != nil {
		return bracket.Bracket{}, err
	}

	s.logger.Debug("bracket updated", "op", op, "id", id)
	return updated.Clone(), nil
}

// snapshot copies the list header; brackets themselves are never mutated in place.
func (s *BracketStore) snapshot() []bracket.Bracket {
	next := make([]bracket.Bracket, len(s.brackets), len(s.brackets)+1)
	copy(next, s.brackets)
	return next
}

// EncodeBracket produces the indented, human readable form used for export.
func EncodeBracket(b bracket.Bracket) (string, error) {
	data, err := json.MarshalIndent(b, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode bracket: %w", err)
	}
	return string(data), nil
}

var requiredFields = []string{"id", "name", "rounds", "participants"}

// DecodeBracket parses an exported bracket. Comments and trailing commas are
// tolerated so hand edited exports still import.
func DecodeBracket(text string) (bracket.Bracket, error) {
	data := jsonc.ToJSON([]byte(text))

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return bracket.Bracket{}, &bracket.FormatError{Msg: "not a JSON object", Err: err}
	}
	for _, name := range requiredFields {
		raw, ok := fields[name]
		if !ok || string(raw) == "null" {
			return bracket.Bracket{}, &bracket.FormatError{Msg: name, Err: bracket.ErrMissingField}
		}
	}

	var b bracket.Bracket
	if err := json.Unmarshal(data, &b); err != nil {
		return bracket.Bracket{}, &bracket.FormatError{Err: err}
	}
	if strings.TrimSpace(b.ID) == "" {
		return bracket.Bracket{}, &bracket.FormatError{Msg: "id", Err: bracket.ErrMissingField}
	}
	if strings.TrimSpace(b.Name) == "" {
		return bracket.Bracket{}, &bracket.FormatError{Msg: "name", Err: bracket.ErrMissingField}
	}

	normalize(&b)
	return b, nil
}

func normalize(b *bracket.Bracket) {
	if b.Participants == nil {
		b.Participants = []bracket.Participant{}
	}
	if b.Rounds == nil {
		b.Rounds = []bracket.Round{}
	}
	for ri := range b.Rounds {
		for mi := range b.Rounds[ri].Matches {
			if b.Rounds[ri].Matches[mi].Participants == nil {
				b.Rounds[ri].Matches[mi].Participants = []*bracket.Participant{}
			}
		}
	}
}
