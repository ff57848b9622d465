package handlers

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	"github.com/vancomm/minesweeper-engine/internal/middleware"
)

const (
	writeWait  = 5 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = pongWait * 9 / 10
	maxMessage = 4096
)

type errorMessage struct {
	Error string `json:"error"`
}

// Connect upgrades to a websocket that sends the game view after every
// change, whatever its source (commands, other tabs, the clock, hint
// expiry). Incoming text messages are newline separated commands.
func (g GameHandler) Connect(w http.ResponseWriter, r *http.Request) {
	s, ok := g.session(w, r)
	if !ok {
		return
	}
	slot, _ := middleware.PlayerSlot(r.Context())

	c, err := g.ws.Upgrader.Upgrade(w, r, nil)
	if err != nil {
		g.logger.Error("unable to upgrade connection", slog.Any("error", err))
		return
	}
	defer c.Close()

	updates, unsubscribe := s.Subscribe()
	defer unsubscribe()

	done := make(chan struct{})
	defer close(done)

	commands := make(chan string)
	readErr := make(chan error, 1)
	go func() {
		defer close(commands)
		c.SetReadLimit(maxMessage)
		c.SetReadDeadline(time.Now().Add(pongWait))
		c.SetPongHandler(func(string) error {
			return c.SetReadDeadline(time.Now().Add(pongWait))
		})
		for {
			mt, message, err := c.ReadMessage()
			if err != nil {
				readErr <- err
				return
			}
			if mt != websocket.TextMessage {
				continue
			}
			select {
			case commands <- string(message):
			case <-done:
				return
			}
		}
	}()

	write := func(v any) bool {
		c.SetWriteDeadline(time.Now().Add(writeWait))
		if err := c.WriteJSON(v); err != nil {
			g.logger.Warn("unable to write to websocket", slog.Any("error", err))
			return false
		}
		return true
	}

	if !write(s.View()) {
		return
	}

	ping := time.NewTicker(pingPeriod)
	defer ping.Stop()

	for {
		select {
		case text, ok := <-commands:
			if !ok {
				err := <-readErr
				if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
					g.logger.Warn("websocket read failed", slog.Any("error", err))
				}
				return
			}
			g.games.Touch(slot)
			for _, line := range strings.Split(strings.TrimSpace(text), "\n") {
				g.logger.Debug("websocket command", slog.String("command", line))
				if err := executeCommand(s, line); err != nil {
					if !write(errorMessage{err.Error()}) {
						return
					}
					break
				}
			}
			// "g" and rejected moves do not notify, so answer every message
			if !write(s.View()) {
				return
			}
		case _, ok := <-updates:
			if !ok {
				c.WriteControl(
					websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseGoingAway, "session closed"),
					time.Now().Add(writeWait),
				)
				return
			}
			// an open socket keeps the session from going idle
			g.games.Touch(slot)
			if !write(s.View()) {
				return
			}
		case <-ping.C:
			if err := c.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				return
			}
		}
	}
}
