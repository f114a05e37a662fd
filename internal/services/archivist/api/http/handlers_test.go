package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Julienne-Malabago/Archivist-of-Moirai/internal/services/archivist/domain/axiom"
	"github.com/Julienne-Malabago/Archivist-of-Moirai/internal/services/archivist/domain/deception"
	"github.com/Julienne-Malabago/Archivist-of-Moirai/internal/services/archivist/domain/player"
	"github.com/Julienne-Malabago/Archivist-of-Moirai/internal/services/archivist/engine"
	"github.com/Julienne-Malabago/Archivist-of-Moirai/internal/services/archivist/storage"
	"github.com/Julienne-Malabago/Archivist-of-Moirai/internal/services/archivist/storage/sessionstore"
	"github.com/Julienne-Malabago/Archivist-of-Moirai/internal/services/archivist/weaver"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type stubProfileStore struct {
	mu       sync.Mutex
	profiles map[string]player.Profile
}

func newStubProfileStore() *stubProfileStore {
	return &stubProfileStore{profiles: make(map[string]player.Profile)}
}

func (s *stubProfileStore) Get(_ context.Context, playerID string) (player.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	profile, exists := s.profiles[playerID]
	if !exists {
		return player.Profile{}, storage.ErrNotFound
	}
	return profile, nil
}

func (s *stubProfileStore) Update(_ context.Context, profile player.Profile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.profiles[profile.PlayerID]; !exists {
		return storage.ErrNotFound
	}
	s.profiles[profile.PlayerID] = profile
	return nil
}

func (s *stubProfileStore) Ensure(_ context.Context, profile player.Profile) (player.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if existing, exists := s.profiles[profile.PlayerID]; exists {
		return existing, nil
	}
	s.profiles[profile.PlayerID] = profile
	return profile, nil
}

type stubGenerator struct{}

func (stubGenerator) Generate(_ context.Context, secret axiom.Axiom, _ int, _ deception.Directive) (weaver.Result, error) {
	return weaver.Result{
		Fragment:       "The letter arrived a day after the decision was made.",
		RevelationText: "The true axiom was " + secret.String() + " all along.",
	}, nil
}

type tierCapturingGenerator struct {
	lastTier int
}

func (g *tierCapturingGenerator) Generate(_ context.Context, secret axiom.Axiom, tier int, _ deception.Directive) (weaver.Result, error) {
	g.lastTier = tier
	return weaver.Result{
		Fragment:       "A ledger entry no hand remembers writing.",
		RevelationText: "The true axiom was " + secret.String() + ".",
	}, nil
}

type fixedSource struct{ value int }

func (s fixedSource) Intn(n int) int { return s.value % n }

func newTestRouter(t *testing.T, profiles *stubProfileStore) *gin.Engine {
	t.Helper()
	sessions, err := sessionstore.New(sessionstore.StoreTypeMemory)
	require.NoError(t, err)

	eng := engine.New(engine.Config{
		Profiles:  profiles,
		Sessions:  sessions,
		Generator: stubGenerator{},
		Random:    fixedSource{value: 0}, // Fate
		Logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	return NewRouter(NewHandlers(eng, slog.New(slog.NewTextHandler(io.Discard, nil))), RouterConfig{})
}

func postJSON(router *gin.Engine, path string, body any) *httptest.ResponseRecorder {
	encoded, _ := json.Marshal(body)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(encoded))
	req.Header.Set("Content-Type", "application/json")
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)
	return recorder
}

func TestGenerateFragment(t *testing.T) {
	router := newTestRouter(t, newStubProfileStore())

	recorder := postJSON(router, "/api/generate_fragment", gin.H{"playerId": "scribe-1"})
	require.Equal(t, http.StatusOK, recorder.Code)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp["fragment"])

	// The secret material must never leak to the client.
	assert.NotContains(t, resp, "trueAxiom")
	assert.NotContains(t, resp, "revelationText")
	assert.NotContains(t, recorder.Body.String(), "all along")
}

func TestGenerateFragmentOmittedDifficultyDefaultsToTierOne(t *testing.T) {
	profiles := newStubProfileStore()
	profiles.profiles["scribe-8"] = player.Profile{PlayerID: "scribe-8", DifficultyTier: 3}

	sessions, err := sessionstore.New(sessionstore.StoreTypeMemory)
	require.NoError(t, err)
	generator := &tierCapturingGenerator{}
	eng := engine.New(engine.Config{
		Profiles:  profiles,
		Sessions:  sessions,
		Generator: generator,
		Random:    fixedSource{value: 0},
		Logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	router := NewRouter(NewHandlers(eng, nil), RouterConfig{})

	recorder := postJSON(router, "/api/generate_fragment", gin.H{"playerId": "scribe-8"})
	require.Equal(t, http.StatusOK, recorder.Code)

	// A request without a difficulty uses tier 1, not the stored profile tier.
	assert.Equal(t, 1, generator.lastTier)

	recorder = postJSON(router, "/api/generate_fragment", gin.H{"playerId": "scribe-8", "difficulty": 3})
	require.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, 3, generator.lastTier)
}

func TestGenerateFragmentMissingPlayerID(t *testing.T) {
	router := newTestRouter(t, newStubProfileStore())

	recorder := postJSON(router, "/api/generate_fragment", gin.H{"difficulty": 2})
	require.Equal(t, http.StatusBadRequest, recorder.Code)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &resp))
	assert.Equal(t, "VALIDATION", resp["code"])
}

func TestClassifyFragment(t *testing.T) {
	profiles := newStubProfileStore()
	profiles.profiles["scribe-2"] = player.Profile{
		PlayerID: "scribe-2", CurrentScore: 0, CurrentStreak: 4, HighestStreak: 4, DifficultyTier: 1,
	}
	router := newTestRouter(t, profiles)

	require.Equal(t, http.StatusOK, postJSON(router, "/api/generate_fragment", gin.H{"playerId": "scribe-2"}).Code)

	recorder := postJSON(router, "/api/classify_fragment", gin.H{"playerId": "scribe-2", "guessedAxiom": "fate"})
	require.Equal(t, http.StatusOK, recorder.Code)

	var resp classifyResponse
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &resp))
	assert.True(t, resp.IsCorrect)
	assert.Equal(t, "Fate", resp.TrueAxiom)
	assert.NotEmpty(t, resp.RevelationText)
	assert.Equal(t, 100, resp.NewScore)
	assert.Equal(t, 5, resp.NewStreak)
	assert.Equal(t, 5, resp.NewHighestStreak)
	assert.Equal(t, 2, resp.NewDifficultyTier)
}

func TestClassifyFragmentUnknownAxiom(t *testing.T) {
	router := newTestRouter(t, newStubProfileStore())

	recorder := postJSON(router, "/api/classify_fragment", gin.H{"playerId": "scribe-3", "guessedAxiom": "Destiny"})
	require.Equal(t, http.StatusBadRequest, recorder.Code)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &resp))
	assert.Equal(t, "AXIOM_UNKNOWN", resp["code"])
}

func TestClassifyFragmentWithoutSession(t *testing.T) {
	profiles := newStubProfileStore()
	profiles.profiles["scribe-4"] = player.Profile{PlayerID: "scribe-4", DifficultyTier: 1}
	router := newTestRouter(t, profiles)

	recorder := postJSON(router, "/api/classify_fragment", gin.H{"playerId": "scribe-4", "guessedAxiom": "Fate"})
	require.Equal(t, http.StatusNotFound, recorder.Code)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &resp))
	assert.Equal(t, "SESSION_NOT_FOUND", resp["code"])
}

func TestClassifyFragmentSecondCallFails(t *testing.T) {
	profiles := newStubProfileStore()
	profiles.profiles["scribe-5"] = player.Profile{PlayerID: "scribe-5", DifficultyTier: 1}
	router := newTestRouter(t, profiles)

	require.Equal(t, http.StatusOK, postJSON(router, "/api/generate_fragment", gin.H{"playerId": "scribe-5"}).Code)

	body := gin.H{"playerId": "scribe-5", "guessedAxiom": "Fate"}
	require.Equal(t, http.StatusOK, postJSON(router, "/api/classify_fragment", body).Code)
	require.Equal(t, http.StatusNotFound, postJSON(router, "/api/classify_fragment", body).Code)
}

func TestClassifyFragmentMissingProfile(t *testing.T) {
	router := newTestRouter(t, newStubProfileStore())

	require.Equal(t, http.StatusOK, postJSON(router, "/api/generate_fragment", gin.H{"playerId": "stranger"}).Code)

	recorder := postJSON(router, "/api/classify_fragment", gin.H{"playerId": "stranger", "guessedAxiom": "Chance"})
	require.Equal(t, http.StatusNotFound, recorder.Code)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &resp))
	assert.Equal(t, "PROFILE_NOT_FOUND", resp["code"])
}

func TestRegisterPlayer(t *testing.T) {
	router := newTestRouter(t, newStubProfileStore())

	recorder := postJSON(router, "/api/register_player", gin.H{"playerId": "scribe-6"})
	require.Equal(t, http.StatusOK, recorder.Code)

	var resp profileResponse
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &resp))
	assert.Equal(t, "scribe-6", resp.PlayerID)
	assert.Equal(t, 1, resp.DifficultyTier)
}

func TestGetProfile(t *testing.T) {
	profiles := newStubProfileStore()
	profiles.profiles["scribe-7"] = player.Profile{
		PlayerID: "scribe-7", CurrentScore: 900, CurrentStreak: 3, HighestStreak: 6, DifficultyTier: 2,
	}
	router := newTestRouter(t, profiles)

	req := httptest.NewRequest(http.MethodGet, "/api/player/scribe-7/profile", nil)
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)

	require.Equal(t, http.StatusOK, recorder.Code)
	var resp profileResponse
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &resp))
	assert.Equal(t, 900, resp.CurrentScore)
	assert.Equal(t, 2, resp.DifficultyTier)
}

func TestGetProfileNotFound(t *testing.T) {
	router := newTestRouter(t, newStubProfileStore())

	req := httptest.NewRequest(http.MethodGet, "/api/player/nobody/profile", nil)
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)

	require.Equal(t, http.StatusNotFound, recorder.Code)
}

func TestHealthz(t *testing.T) {
	router := newTestRouter(t, newStubProfileStore())

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)

	require.Equal(t, http.StatusOK, recorder.Code)
}

func TestCORSPreflight(t *testing.T) {
	router := newTestRouter(t, newStubProfileStore())

	req := httptest.NewRequest(http.MethodOptions, "/api/generate_fragment", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)

	require.Equal(t, http.StatusNoContent, recorder.Code)
	assert.Equal(t, "http://localhost:5173", recorder.Header().Get("Access-Control-Allow-Origin"))
}

func TestCORSRestrictedOrigin(t *testing.T) {
	profiles := newStubProfileStore()
	sessions, err := sessionstore.New(sessionstore.StoreTypeMemory)
	require.NoError(t, err)
	eng := engine.New(engine.Config{
		Profiles:  profiles,
		Sessions:  sessions,
		Generator: stubGenerator{},
		Random:    fixedSource{value: 0},
		Logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	router := NewRouter(NewHandlers(eng, nil), RouterConfig{AllowedOrigins: []string{"https://moirai.example"}})

	req := httptest.NewRequest(http.MethodOptions, "/api/generate_fragment", nil)
	req.Header.Set("Origin", "https://evil.example")
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)

	assert.Empty(t, recorder.Header().Get("Access-Control-Allow-Origin"))
}
