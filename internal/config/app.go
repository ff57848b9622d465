package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/vancomm/minesweeper-engine/internal/mines"
)

func Addr() string {
	addr, ok := os.LookupEnv("APP_ADDR")
	if !ok {
		return ":8080"
	}
	return addr
}

// HintsPerGame reads HINTS_PER_GAME, defaulting to [mines.DefaultHints].
func HintsPerGame() (int, error) {
	s, ok := os.LookupEnv("HINTS_PER_GAME")
	if !ok {
		return mines.DefaultHints, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("HINTS_PER_GAME must be a non-negative integer, got %q", s)
	}
	return n, nil
}

// AllowedOrigins reads the comma separated CORS_ORIGINS list.
func AllowedOrigins() []string {
	var origins []string
	for _, o := range strings.Split(os.Getenv("CORS_ORIGINS"), ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}

// SessionIdleTimeout reads SESSION_IDLE_TIMEOUT, a duration after which an
// unused game session is dropped from memory. Defaults to 30 minutes.
func SessionIdleTimeout() (time.Duration, error) {
	s, ok := os.LookupEnv("SESSION_IDLE_TIMEOUT")
	if !ok {
		return 30 * time.Minute, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("SESSION_IDLE_TIMEOUT must be a positive duration, got %q", s)
	}
	return d, nil
}
