package bracket

import (
	"math/rand/v2"
	"strings"

	"github.com/AdamBeresnev/silat-bracket/internal/utils"
	"github.com/google/uuid"
)

// AthleteRecord is the shape supplied by the athlete registry.
type AthleteRecord struct {
	ID        string `db:"id" json:"id"`
	Name      string `db:"name" json:"name"`
	AvatarURL string `db:"avatar_url" json:"avatarUrl"`
	TeamName  string `db:"team_name" json:"teamName"`
}

type ParticipantPatch struct {
	Name   *string
	Seed   *int
	Avatar *string
}

// Registry holds the seeded entrant list of a bracket under construction.
type Registry struct {
	participants []Participant
	rng          *rand.Rand
}

func NewRegistry(participants ...Participant) *Registry {
	return NewRegistryWithRand(rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())), participants...)
}

func NewRegistryWithRand(rng *rand.Rand, participants ...Participant) *Registry {
	r := &Registry{rng: rng}
	for _, p := range participants {
		r.participants = append(r.participants, p.Clone())
	}
	return r
}

// Participants returns a copy of the current list in registry order.
func (r *Registry) Participants() []Participant {
	out := make([]Participant, len(r.participants))
	for i, p := range r.participants {
		out[i] = p.Clone()
	}
	return out
}

func (r *Registry) Len() int {
	return len(r.participants)
}

func (r *Registry) hasName(name string, exceptID string) bool {
	for _, p := range r.participants {
		if p.ID != exceptID && strings.EqualFold(p.Name, name) {
			return true
		}
	}
	return false
}

func (r *Registry) hasID(id string) bool {
	for _, p := range r.participants {
		if p.ID == id {
			return true
		}
	}
	return false
}

func (r *Registry) Add(name string, seed *int) (Participant, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Participant{}, invalid(ErrEmptyName)
	}
	if r.hasName(name, "") {
		return Participant{}, invalid(ErrDuplicateName, name)
	}
	if seed != nil && *seed < 1 {
		return Participant{}, invalid(ErrInvalidSeed)
	}
	if seed == nil {
		seed = utils.Ptr(len(r.participants) + 1)
	}

	p := Participant{
		ID:   uuid.NewString(),
		Name: name,
		Seed: utils.Ptr(*seed),
	}
	r.participants = append(r.participants, p)
	return p.Clone(), nil
}

// AddBulk adds every name or none of them.
func (r *Registry) AddBulk(names []string) ([]Participant, error) {
	if len(names) == 0 {
		return nil, invalid(ErrEmptySelection)
	}

	cleaned := make([]string, len(names))
	seen := make(map[string]bool, len(names))
	var empty, inputDupes, existing []string
	for i, n := range names {
		n = strings.TrimSpace(n)
		cleaned[i] = n
		if n == "" {
			empty = append(empty, names[i])
			continue
		}
		key := strings.ToLower(n)
		if seen[key] {
			inputDupes = append(inputDupes, n)
			continue
		}
		seen[key] = true
		if r.hasName(n, "") {
			existing = append(existing, n)
		}
	}

	switch {
	case len(empty) > 0:
		return nil, invalidf(ErrEmptyName, "%d empty name(s) in list", len(empty))
	case len(inputDupes) > 0:
		return nil, &ValidationError{Msg: "duplicate names in list", Names: inputDupes, Err: ErrDuplicateName}
	case len(existing) > 0:
		return nil, &ValidationError{Msg: "names already registered", Names: existing, Err: ErrDuplicateName}
	}

	base := len(r.participants)
	added := make([]Participant, 0, len(cleaned))
	for i, n := range cleaned {
		added = append(added, Participant{
			ID:   uuid.NewString(),
			Name: n,
			Seed: utils.Ptr(base + i + 1),
		})
	}
	r.participants = append(r.participants, added...)

	out := make([]Participant, len(added))
	for i, p := range added {
		out[i] = p.Clone()
	}
	return out, nil
}

// ParseBulkNames splits a newline separated list, dropping blank lines.
func ParseBulkNames(text string) []string {
	var names []string
	for _, line := range strings.Split(text, "\n") {
		if n := strings.TrimSpace(line); n != "" {
			names = append(names, n)
		}
	}
	return names
}

// AddFromExternalSource imports athlete records, keeping their ids.
func (r *Registry) AddFromExternalSource(records []AthleteRecord) ([]Participant, error) {
	if len(records) == 0 {
		return nil, invalid(ErrEmptySelection)
	}

	seenNames := make(map[string]bool, len(records))
	seenIDs := make(map[string]bool, len(records))
	var dupes, dupeIDs []string
	for _, rec := range records {
		name := strings.TrimSpace(rec.Name)
		if name == "" {
			return nil, invalidf(ErrEmptyName, "athlete %s has no name", rec.ID)
		}
		key := strings.ToLower(name)
		if seenNames[key] || r.hasName(name, "") {
			dupes = append(dupes, name)
		}
		seenNames[key] = true

		if rec.ID == "" || seenIDs[rec.ID] || r.hasID(rec.ID) {
			dupeIDs = append(dupeIDs, rec.ID)
		}
		seenIDs[rec.ID] = true
	}
	if len(dupes) > 0 {
		return nil, &ValidationError{Msg: "athletes already registered", Names: dupes, Err: ErrDuplicateName}
	}
	if len(dupeIDs) > 0 {
		return nil, &ValidationError{Msg: "duplicate athlete ids", Names: dupeIDs, Err: ErrDuplicateID}
	}

	base := len(r.participants)
	added := make([]Participant, 0, len(records))
	for i, rec := range records {
		added = append(added, Participant{
			ID:     rec.ID,
			Name:   strings.TrimSpace(rec.Name),
			Seed:   utils.Ptr(base + i + 1),
			Avatar: utils.StringOrNil(rec.AvatarURL),
			Team:   utils.StringOrNil(rec.TeamName),
		})
	}
	r.participants = append(r.participants, added...)

	out := make([]Participant, len(added))
	for i, p := range added {
		out[i] = p.Clone()
	}
	return out, nil
}

func (r *Registry) Remove(id string) {
	for i, p := range r.participants {
		if p.ID == id {
			r.participants = append(r.participants[:i], r.participants[i+1:]...)
			return
		}
	}
}

func (r *Registry) Update(id string, patch ParticipantPatch) (Participant, error) {
	idx := -1
	for i, p := range r.participants {
		if p.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return Participant{}, invalidf(ErrNotFound, "participant %s not found", id)
	}

	updated := r.participants[idx].Clone()
	if patch.Name != nil {
		name := strings.TrimSpace(*patch.Name)
		if name == "" {
			return Participant{}, invalid(ErrEmptyName)
		}
		if r.hasName(name, id) {
			return Participant{}, invalid(ErrDuplicateName, name)
		}
		updated.Name = name
	}
	if patch.Seed != nil {
		if *patch.Seed < 1 {
			return Participant{}, invalid(ErrInvalidSeed)
		}
		updated.Seed = utils.Ptr(*patch.Seed)
	}
	if patch.Avatar != nil {
		updated.Avatar = utils.StringOrNil(*patch.Avatar)
	}

	r.participants[idx] = updated
	return updated.Clone(), nil
}

// Randomize shuffles the list uniformly and reseeds it 1..n in the new order.
func (r *Registry) Randomize() error {
	if len(r.participants) < 2 {
		return invalid(ErrTooFewParticipants)
	}

	// Fisher-Yates
	for i := len(r.participants) - 1; i > 0; i-- {
		j := r.rng.IntN(i + 1)
		r.participants[i], r.participants[j] = r.participants[j], r.participants[i]
	}
	for i := range r.participants {
		r.participants[i].Seed = utils.Ptr(i + 1)
	}
	return nil
}
