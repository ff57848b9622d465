package middleware

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/vancomm/minesweeper-engine/internal/config"
)

type CtxKey int

const (
	CtxPlayerSlot CtxKey = iota
)

// Player makes sure every request carries a save slot. A request without a
// valid player cookie gets a new slot and a fresh cookie.
func Player(logger *slog.Logger, cookies *config.Cookies) Middleware {
	return func(h http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var slot string
			claims, err := cookies.ParsePlayerClaims(r)
			if err == nil {
				slot = claims.SlotId
			} else {
				slot = uuid.NewString()
				if err := cookies.Issue(w, slot); err != nil {
					w.WriteHeader(http.StatusInternalServerError)
					logger.Error("unable to issue player cookie", slog.Any("error", err))
					return
				}
				logger.Debug("new player slot", slog.String("slot", slot))
			}
			ctx := context.WithValue(r.Context(), CtxPlayerSlot, slot)
			h.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// PlayerSlot returns the slot stored by [Player].
func PlayerSlot(ctx context.Context) (string, bool) {
	slot, ok := ctx.Value(CtxPlayerSlot).(string)
	return slot, ok && slot != ""
}
