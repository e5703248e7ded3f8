package main

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/AdamBeresnev/silat-bracket/internal/bracket"
	"github.com/AdamBeresnev/silat-bracket/internal/service"
	"github.com/AdamBeresnev/silat-bracket/internal/store"
	"github.com/alexedwards/scs/v2"
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

type noAthletes struct{}

func (noAthletes) ListAthletes(context.Context) ([]bracket.AthleteRecord, error) {
	return []bracket.AthleteRecord{}, nil
}

func (noAthletes) GetAthletesByIDs(context.Context, []string) ([]bracket.AthleteRecord, error) {
	return nil, &bracket.ValidationError{Msg: "athlete not found", Err: bracket.ErrNotFound}
}

type testClient struct {
	t      *testing.T
	server *httptest.Server
	client *http.Client
}

func newTestServer(t *testing.T) *testClient {
	t.Helper()

	brackets, err := store.OpenBracketStore(context.Background(), &memoryKV{data: map[string]string{}},
		store.WithClock(func() time.Time { return time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC) }),
	)
	require.NoError(t, err)

	svc := service.NewBracketService(brackets, noAthletes{}, nil)
	server := httptest.NewServer(newRouter(scs.New(), svc, []string{"http://localhost:5173"}))
	t.Cleanup(server.Close)

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)

	return &testClient{t: t, server: server, client: &http.Client{Jar: jar}}
}

func (c *testClient) do(method, path, body string) (*http.Response, string) {
	c.t.Helper()

	req, err := http.NewRequest(method, c.server.URL+path, strings.NewReader(body))
	require.NoError(c.t, err)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.client.Do(req)
	require.NoError(c.t, err)
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	require.NoError(c.t, err)
	return resp, string(data)
}

func TestDraftToBracketFlow(t *testing.T) {
	c := newTestServer(t)

	resp, body := c.do(http.MethodPost, "/api/draft/participants/bulk", `{"text": "Andi\nBudi\n\nCitra\nDewi"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode, body)

	var added []bracket.Participant
	require.NoError(t, json.Unmarshal([]byte(body), &added))
	require.Len(t, added, 4)

	resp, _ = c.do(http.MethodPost, "/api/draft/participants", `{"name": "andi"}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, body = c.do(http.MethodPatch, "/api/draft/participants/"+added[3].ID, `{"name": "Dewi Sartika"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode, body)

	resp, body = c.do(http.MethodPost, "/api/draft/randomize", "")
	require.Equal(t, http.StatusOK, resp.StatusCode, body)

	resp, body = c.do(http.MethodPost, "/api/brackets", `{"name": "Kejuaraan Kampus", "description": "antar fakultas"}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode, body)

	var created bracket.Bracket
	require.NoError(t, json.Unmarshal([]byte(body), &created))
	assert.Len(t, created.Participants, 4)
	assert.Len(t, created.Rounds, 2)
	_, ok := created.FindParticipant(added[3].ID)
	assert.True(t, ok)

	resp, body = c.do(http.MethodGet, "/api/draft", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `[]`, body, "draft cleared after create")

	resp, body = c.do(http.MethodGet, "/", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "Kejuaraan Kampus")
	assert.Contains(t, body, `class="active"`)

	resp, body = c.do(http.MethodGet, "/brackets/"+created.ID, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "Semi Final")
	assert.Contains(t, body, "Dewi Sartika")
}

func TestCreateWithEmptyDraft(t *testing.T) {
	c := newTestServer(t)

	resp, _ := c.do(http.MethodPost, "/api/brackets", `{"name": "Kosong"}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestMatchEndpoints(t *testing.T) {
	c := newTestServer(t)

	resp, _ := c.do(http.MethodPost, "/api/brackets/b1/matches/m7/result", `{"roundId": "r3", "winnerId": "p2", "score": [3, 1]}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode, "winner must match score")

	resp, _ = c.do(http.MethodPost, "/api/brackets/b1/matches/m99/result", `{"roundId": "r3", "winnerId": "p1", "score": [3, 1]}`)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, body := c.do(http.MethodPost, "/api/brackets/b1/matches/m7/schedule", `{"roundId": "r3", "scheduledTime": "2025-03-02T14:00:00Z"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode, body)

	resp, body = c.do(http.MethodPost, "/api/brackets/b1/matches/m7/result", `{"roundId": "r3", "winnerId": "p1", "score": [3, 1], "notes": "final ketat"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode, body)

	var b bracket.Bracket
	require.NoError(t, json.Unmarshal([]byte(body), &b))
	assert.Equal(t, bracket.StatusCompleted, b.Status)
	require.NotNil(t, b.WinnerID)
	assert.Equal(t, "p1", *b.WinnerID)

	resp, _ = c.do(http.MethodPost, "/api/brackets/b1/matches/m7/bye", `{"roundId": "r3"}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestBracketCRUDEndpoints(t *testing.T) {
	c := newTestServer(t)

	resp, body := c.do(http.MethodGet, "/api/brackets?q=junior", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var list []bracket.Bracket
	require.NoError(t, json.Unmarshal([]byte(body), &list))
	require.Len(t, list, 1)
	assert.Equal(t, "b2", list[0].ID)

	resp, _ = c.do(http.MethodGet, "/api/brackets/missing", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, body = c.do(http.MethodPatch, "/api/brackets/b3", `{"name": "Kejuaraan Daerah 2024", "description": ""}`)
	require.Equal(t, http.StatusOK, resp.StatusCode, body)
	assert.Contains(t, body, "Kejuaraan Daerah 2024")

	resp, body = c.do(http.MethodPost, "/api/brackets/b1/duplicate", "")
	require.Equal(t, http.StatusCreated, resp.StatusCode, body)
	assert.Contains(t, body, "(Copy)")

	resp, exported := c.do(http.MethodGet, "/api/brackets/b1/export", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "bracket-b1.json")

	resp, body = c.do(http.MethodPost, "/api/brackets/import", exported)
	require.Equal(t, http.StatusCreated, resp.StatusCode, body)
	var imported bracket.Bracket
	require.NoError(t, json.Unmarshal([]byte(body), &imported))
	assert.NotEqual(t, "b1", imported.ID)

	resp, _ = c.do(http.MethodPost, "/api/brackets/import", `{"id": "x"}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = c.do(http.MethodPost, "/api/brackets/b2/activate", "")
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp, _ = c.do(http.MethodDelete, "/api/brackets/b2", "")
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	resp, _ = c.do(http.MethodDelete, "/api/brackets/b2", "")
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp, _ = c.do(http.MethodGet, "/brackets/b2", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestAthleteEndpoints(t *testing.T) {
	c := newTestServer(t)

	resp, body := c.do(http.MethodGet, "/api/athletes", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `[]`, body)

	resp, _ = c.do(http.MethodPost, "/api/draft/athletes", `{"ids": []}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = c.do(http.MethodPost, "/api/draft/athletes", `{"ids": ["nobody"]}`)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestAPICORS(t *testing.T) {
	c := newTestServer(t)

	req, err := http.NewRequest(http.MethodOptions, c.server.URL+"/api/brackets", nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)

	resp, err := c.client.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, "http://localhost:5173", resp.Header.Get("Access-Control-Allow-Origin"))

	req, err = http.NewRequest(http.MethodGet, c.server.URL+"/api/brackets", nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "https://evil.example.com")

	resp, err = c.client.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Empty(t, resp.Header.Get("Access-Control-Allow-Origin"))
}
