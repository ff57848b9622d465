package config

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vancomm/minesweeper-engine/internal/mines"
)

func TestDevelopment(t *testing.T) {
	for value, want := range map[string]bool{
		"1":     true,
		"true":  true,
		"yes":   true,
		"0":     false,
		"false": false,
	} {
		t.Setenv("DEVELOPMENT", value)
		assert.Equal(t, want, Development(), value)
	}
}

func TestHintsPerGame(t *testing.T) {
	n, err := HintsPerGame()
	require.NoError(t, err)
	assert.Equal(t, mines.DefaultHints, n)

	t.Setenv("HINTS_PER_GAME", "5")
	n, err = HintsPerGame()
	require.NoError(t, err)
	assert.Equal(t, 5, n)

	t.Setenv("HINTS_PER_GAME", "-1")
	_, err = HintsPerGame()
	assert.Error(t, err)
}

func TestNewStore(t *testing.T) {
	cfg, err := NewStore()
	require.NoError(t, err)
	assert.Equal(t, MemoryStore, cfg.Kind)

	t.Setenv("STORE", "SQLite")
	_, err = NewStore()
	assert.Error(t, err, "sqlite needs a path")

	t.Setenv("SQLITE_PATH", "/tmp/saves.db")
	cfg, err = NewStore()
	require.NoError(t, err)
	assert.Equal(t, SQLiteStore, cfg.Kind)
	assert.Equal(t, "/tmp/saves.db", cfg.SQLitePath)

	t.Setenv("STORE", "redis")
	_, err = NewStore()
	assert.Error(t, err)
}

func TestNewLogging(t *testing.T) {
	t.Setenv("LOG_LEVEL", "warning")
	t.Setenv("LOG_FILE", filepath.Join(t.TempDir(), "engine.log"))
	cfg, err := NewLogging()
	require.NoError(t, err)
	assert.Equal(t, logrus.WarnLevel, cfg.Level)

	log := logrus.New()
	require.NoError(t, cfg.Apply(log))
	assert.Equal(t, logrus.WarnLevel, log.GetLevel())
	log.Warn("hello")
	_, err = os.Stat(cfg.File)
	assert.NoError(t, err)

	t.Setenv("LOG_LEVEL", "loud")
	_, err = NewLogging()
	assert.Error(t, err)
}

func TestDbURL(t *testing.T) {
	t.Setenv("POSTGRES_USER", "mines")
	t.Setenv("POSTGRES_PASSWORD", "p@ss word")
	t.Setenv("POSTGRES_HOST", "db")
	url, err := DbURL()
	require.NoError(t, err)
	assert.Equal(t, "postgres://mines:p%40ss%20word@db:5432/mines?sslmode=disable", url)

	t.Setenv("DATABASE_URL", "postgres://other")
	url, err = DbURL()
	require.NoError(t, err)
	assert.Equal(t, "postgres://other", url)
}

func TestPlayerCookie(t *testing.T) {
	j, err := NewJWT([]byte("0123456789abcdef0123456789abcdef"))
	require.NoError(t, err)
	cookies, err := NewCookies(j)
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	require.NoError(t, cookies.Issue(rec, "slot-1"))

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range rec.Result().Cookies() {
		r.AddCookie(c)
	}
	claims, err := cookies.ParsePlayerClaims(r)
	require.NoError(t, err)
	assert.Equal(t, "slot-1", claims.SlotId)

	other, err := NewJWT([]byte("fedcba9876543210fedcba9876543210"))
	require.NoError(t, err)
	forged, err := other.Sign(NewPlayerClaims("slot-2", time.Hour))
	require.NoError(t, err)
	r = httptest.NewRequest(http.MethodGet, "/", nil)
	r.AddCookie(&http.Cookie{Name: playerCookie, Value: forged})
	_, err = cookies.ParsePlayerClaims(r)
	assert.Error(t, err)

	_, err = cookies.ParsePlayerClaims(httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Error(t, err)
}

func TestNewJWTShortSecret(t *testing.T) {
	_, err := NewJWT([]byte("short"))
	assert.Error(t, err)
}

func TestCookiesSameSite(t *testing.T) {
	j, err := NewJWT([]byte("0123456789abcdef"))
	require.NoError(t, err)

	t.Setenv("COOKIES_SAMESITE", "lax")
	cookies, err := NewCookies(j)
	require.NoError(t, err)
	assert.Equal(t, http.SameSiteLaxMode, cookies.SameSite)

	t.Setenv("COOKIES_SAMESITE", "sometimes")
	_, err = NewCookies(j)
	assert.Error(t, err)
}

func TestSessionIdleTimeout(t *testing.T) {
	d, err := SessionIdleTimeout()
	require.NoError(t, err)
	assert.Equal(t, 30*time.Minute, d)

	t.Setenv("SESSION_IDLE_TIMEOUT", "90s")
	d, err = SessionIdleTimeout()
	require.NoError(t, err)
	assert.Equal(t, 90*time.Second, d)

	t.Setenv("SESSION_IDLE_TIMEOUT", "0s")
	_, err = SessionIdleTimeout()
	assert.Error(t, err)
}
