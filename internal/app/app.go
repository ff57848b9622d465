package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/vancomm/minesweeper-engine/internal/config"
	"github.com/vancomm/minesweeper-engine/internal/database"
	"github.com/vancomm/minesweeper-engine/internal/games"
	"github.com/vancomm/minesweeper-engine/internal/middleware"
	"github.com/vancomm/minesweeper-engine/internal/mines"
	"github.com/vancomm/minesweeper-engine/internal/store"
)

type App struct {
	logger  *slog.Logger
	router  *http.ServeMux
	games   *games.Registry
	cookies *config.Cookies
	ws      *config.WebSocket
}

func New(logger *slog.Logger) *App {
	return &App{
		logger: logger,
		router: http.NewServeMux(),
	}
}

// openStore picks the save backend named by STORE. The returned func
// releases it.
func (a *App) openStore(ctx context.Context) (store.Store, func(), error) {
	cfg, err := config.NewStore()
	if err != nil {
		return nil, nil, err
	}

	switch cfg.Kind {
	case config.SQLiteStore:
		st, err := store.OpenSQLite(ctx, cfg.SQLitePath, "saved_game")
		if err != nil {
			return nil, nil, err
		}
		return st, func() { st.Close() }, nil
	case config.PostgresStore:
		pool, migrator, err := database.ConnectAndMigrate(ctx)
		if err != nil {
			return nil, nil, fmt.Errorf("unable to connect to db: %w", err)
		}
		if version, dirty, err := migrator.Version(); err == nil {
			a.logger.Info("database migrated", slog.Uint64("version", uint64(version)), slog.Bool("dirty", dirty))
		}
		migrator.Close()
		return store.NewPostgres(pool), pool.Close, nil
	default:
		return store.NewMemory(), func() {}, nil
	}
}

func (a *App) Start(ctx context.Context) error {
	st, closeStore, err := a.openStore(ctx)
	if err != nil {
		return err
	}
	defer closeStore()

	hints, err := config.HintsPerGame()
	if err != nil {
		return err
	}
	idle, err := config.SessionIdleTimeout()
	if err != nil {
		return err
	}
	a.games = games.New(a.logger, st, mines.WithHints(hints))
	defer a.games.Close()

	jwt, err := config.LoadJWT()
	if err != nil {
		return err
	}

	cookies, err := config.NewCookies(jwt)
	if err != nil {
		return err
	}
	a.cookies = cookies

	ws, err := config.NewWebSocket()
	if err != nil {
		return err
	}
	a.ws = ws

	a.loadRoutes()

	addr := config.Addr()
	server := &http.Server{
		Addr: addr,
		Handler: middleware.Wrap(
			a.router,
			middleware.Player(a.logger, cookies),
			middleware.Logging(a.logger),
			middleware.Cors(config.AllowedOrigins()...),
		),
		ReadHeaderTimeout: 10 * time.Second,
	}

	a.logger.Info("server listening", slog.String("addr", addr))

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		err := server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	})
	g.Go(func() error {
		return a.games.Run(gCtx, time.Minute, idle)
	})
	g.Go(func() error {
		<-gCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
