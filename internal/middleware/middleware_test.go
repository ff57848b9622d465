package middleware

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vancomm/minesweeper-engine/internal/config"
)

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newCookies(t *testing.T) *config.Cookies {
	j, err := config.NewJWT([]byte("0123456789abcdef0123456789abcdef"))
	require.NoError(t, err)
	c, err := config.NewCookies(j)
	require.NoError(t, err)
	return c
}

func TestWrapOrder(t *testing.T) {
	var order []string
	tag := func(name string) Middleware {
		return func(h http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				h.ServeHTTP(w, r)
			})
		}
	}
	h := Wrap(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		order = append(order, "handler")
	}), tag("inner"), tag("outer"))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, []string{"outer", "inner", "handler"}, order)
}

func TestPlayerIssuesAndKeepsSlot(t *testing.T) {
	cookies := newCookies(t)
	var seen []string
	h := Player(discard(), cookies)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		slot, ok := PlayerSlot(r.Context())
		require.True(t, ok)
		seen = append(seen, slot)
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	issued := rec.Result().Cookies()
	require.Len(t, issued, 1)

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.AddCookie(issued[0])
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, r)
	assert.Empty(t, rec.Result().Cookies())

	require.Len(t, seen, 2)
	assert.Equal(t, seen[0], seen[1])
}

func TestPlayerReplacesBadCookie(t *testing.T) {
	cookies := newCookies(t)
	h := Player(discard(), cookies)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.AddCookie(&http.Cookie{Name: "player", Value: "garbage"})
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, r)
	assert.Len(t, rec.Result().Cookies(), 1)
}

func TestLoggingDefaultsStatus(t *testing.T) {
	h := Logging(discard())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, "ok")
	}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
}

func TestCorsPreflight(t *testing.T) {
	h := Cors("https://mines.example")(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))

	r := httptest.NewRequest(http.MethodOptions, "/game", nil)
	r.Header.Set("Origin", "https://mines.example")
	r.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, r)
	assert.Equal(t, "https://mines.example", rec.Header().Get("Access-Control-Allow-Origin"))

	r = httptest.NewRequest(http.MethodOptions, "/game", nil)
	r.Header.Set("Origin", "https://evil.example")
	r.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, r)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}
