package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/vancomm/minesweeper-engine/internal/config"
	"github.com/vancomm/minesweeper-engine/internal/games"
	"github.com/vancomm/minesweeper-engine/internal/middleware"
	"github.com/vancomm/minesweeper-engine/internal/mines"
)

type GameHandler struct {
	logger *slog.Logger
	games  *games.Registry
	ws     *config.WebSocket
}

func NewGameHandler(
	logger *slog.Logger,
	registry *games.Registry,
	ws *config.WebSocket,
) *GameHandler {
	return &GameHandler{
		logger: logger,
		games:  registry,
		ws:     ws,
	}
}

// session finds the caller's session, writing an error response when it
// cannot.
func (g GameHandler) session(w http.ResponseWriter, r *http.Request) (*mines.Session, bool) {
	slot, ok := middleware.PlayerSlot(r.Context())
	if !ok {
		sendErrorOrLog(w, g.logger, http.StatusUnauthorized, errors.New("no player slot"))
		return nil, false
	}
	s, err := g.games.Session(r.Context(), slot)
	if errors.Is(err, games.ErrClosed) {
		w.WriteHeader(http.StatusServiceUnavailable)
		return nil, false
	}
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		g.logger.Error("unable to open game session", slog.String("slot", slot), slog.Any("error", err))
		return nil, false
	}
	return s, true
}

func (g GameHandler) Difficulties(w http.ResponseWriter, r *http.Request) {
	sendJSONOrLog(w, g.logger, mines.Difficulties())
}

func (g GameHandler) Fetch(w http.ResponseWriter, r *http.Request) {
	s, ok := g.session(w, r)
	if !ok {
		return
	}
	sendJSONOrLog(w, g.logger, s.View())
}

func (g GameHandler) NewGame(w http.ResponseWriter, r *http.Request) {
	s, ok := g.session(w, r)
	if !ok {
		return
	}
	d, err := ParseNewGame(r.URL.Query(), s.Difficulty())
	if err != nil {
		sendErrorOrLog(w, g.logger, http.StatusBadRequest, err)
		return
	}
	if err := s.NewGame(d); err != nil {
		sendErrorOrLog(w, g.logger, http.StatusBadRequest, err)
		return
	}
	sendJSONOrLog(w, g.logger, s.View())
}

// cellAction builds a handler for a move that targets one cell.
func (g GameHandler) cellAction(move func(s *mines.Session, row, col int)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		pos, err := ParsePosition(r.URL.Query())
		if err != nil {
			sendErrorOrLog(w, g.logger, http.StatusBadRequest, err)
			return
		}
		s, ok := g.session(w, r)
		if !ok {
			return
		}
		if err := inBounds(s.Difficulty(), pos.Row, pos.Col); err != nil {
			sendErrorOrLog(w, g.logger, http.StatusBadRequest, err)
			return
		}
		move(s, pos.Row, pos.Col)
		sendJSONOrLog(w, g.logger, s.View())
	}
}

func (g GameHandler) Reveal() http.HandlerFunc {
	return g.cellAction((*mines.Session).Reveal)
}

func (g GameHandler) Chord() http.HandlerFunc {
	return g.cellAction((*mines.Session).ChordReveal)
}

func (g GameHandler) Mark() http.HandlerFunc {
	return g.cellAction((*mines.Session).CycleMark)
}

func (g GameHandler) Undo(w http.ResponseWriter, r *http.Request) {
	s, ok := g.session(w, r)
	if !ok {
		return
	}
	s.UndoLastMove()
	sendJSONOrLog(w, g.logger, s.View())
}

func (g GameHandler) Hint(w http.ResponseWriter, r *http.Request) {
	s, ok := g.session(w, r)
	if !ok {
		return
	}
	s.UseHint()
	sendJSONOrLog(w, g.logger, s.View())
}
