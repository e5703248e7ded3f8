package middleware

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/AdamBeresnev/silat-bracket/internal/bracket"
	"github.com/alexedwards/scs/v2"
)

type ContextKey string

const ActiveBracketKey ContextKey = "activeBracketID"

const (
	activeBracketSessionKey = "activeBracketID"
	draftSessionKey         = "draftParticipants"
)

// Editor keeps the per-session editor state: the active bracket selection and
// the draft participant list of the bracket being built.
type Editor struct {
	sessions *scs.SessionManager
}

func NewEditor(sessions *scs.SessionManager) *Editor {
	return &Editor{sessions: sessions}
}

// LoadActiveBracket puts the session's active bracket id into the request context.
func (e *Editor) LoadActiveBracket(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if id := e.sessions.GetString(ctx, activeBracketSessionKey); id != "" {
			ctx = context.WithValue(ctx, ActiveBracketKey, id)
		}
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func GetActiveBracketID(ctx context.Context) (string, bool) {
	val := ctx.Value(ActiveBracketKey)
	if val == nil {
		return "", false
	}
	id, ok := val.(string)
	return id, ok
}

func (e *Editor) SetActiveBracket(ctx context.Context, id string) {
	e.sessions.Put(ctx, activeBracketSessionKey, id)
}

// ClearActiveBracket drops the selection if it points at id. The store has no
// notion of an active bracket, so deleting one has to clear it here.
func (e *Editor) ClearActiveBracket(ctx context.Context, id string) {
	if e.sessions.GetString(ctx, activeBracketSessionKey) == id {
		e.sessions.Remove(ctx, activeBracketSessionKey)
	}
}

// Draft restores the session's draft registry.
func (e *Editor) Draft(ctx context.Context) (*bracket.Registry, error) {
	raw := e.sessions.GetString(ctx, draftSessionKey)
	if raw == "" {
		return bracket.NewRegistry(), nil
	}

	var participants []bracket.Participant
	if err := json.Unmarshal([]byte(raw), &participants); err != nil {
		return nil, fmt.Errorf("failed to decode draft participants: %w", err)
	}
	return bracket.NewRegistry(participants...), nil
}

func (e *Editor) SaveDraft(ctx context.Context, reg *bracket.Registry) error {
	data, err := json.Marshal(reg.Participants())
	if err != nil {
		return fmt.Errorf("failed to encode draft participants: %w", err)
	}
	e.sessions.Put(ctx, draftSessionKey, string(data))
	return nil
}

func (e *Editor) ClearDraft(ctx context.Context) {
	e.sessions.Remove(ctx, draftSessionKey)
}
