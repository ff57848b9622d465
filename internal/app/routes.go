package app

import (
	"github.com/vancomm/minesweeper-engine/internal/handlers"
)

func (a *App) loadRoutes() {
	game := handlers.NewGameHandler(a.logger, a.games, a.ws)

	a.router.HandleFunc("GET /difficulties", game.Difficulties)
	a.router.HandleFunc("GET /game", game.Fetch)
	a.router.HandleFunc("POST /game", game.NewGame)
	a.router.HandleFunc("POST /game/reveal", game.Reveal())
	a.router.HandleFunc("POST /game/chord", game.Chord())
	a.router.HandleFunc("POST /game/mark", game.Mark())
	a.router.HandleFunc("POST /game/undo", game.Undo)
	a.router.HandleFunc("POST /game/hint", game.Hint)
	a.router.HandleFunc("GET /game/connect", game.Connect)
}
