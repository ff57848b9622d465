package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNoTable is returned when the backing table has not been migrated yet.
var ErrNoTable = errors.New("saved_game table does not exist, run the migrator")

// Postgres keeps values in the saved_game table created by the migrations
// in internal/database.
type Postgres struct {
	db *pgxpool.Pool
}

func NewPostgres(db *pgxpool.Pool) *Postgres {
	return &Postgres{db: db}
}

func (p *Postgres) Get(ctx context.Context, key string) (string, error) {
	var value string
	err := p.db.QueryRow(
		ctx,
		"SELECT value FROM saved_game WHERE key = $1",
		key,
	).Scan(&value)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", wrapPgError(err)
	}
	return value, nil
}

func (p *Postgres) Set(ctx context.Context, key, value string) error {
	_, err := p.db.Exec(
		ctx,
		`INSERT INTO saved_game (key, value)
		VALUES (@key, @value)
		ON CONFLICT (key)
		DO UPDATE SET value = excluded.value, updated_at = now();`,
		pgx.NamedArgs{
			"key":   key,
			"value": value,
		},
	)
	return wrapPgError(err)
}

func (p *Postgres) Delete(ctx context.Context, key string) error {
	_, err := p.db.Exec(ctx, "DELETE FROM saved_game WHERE key = $1", key)
	return wrapPgError(err)
}

func wrapPgError(err error) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UndefinedTable {
		return fmt.Errorf("%w: %s", ErrNoTable, pgErr.Message)
	}
	return err
}
