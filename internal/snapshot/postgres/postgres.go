package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"lapakpos/backend/internal/snapshot"
	"lapakpos/backend/internal/state"
)

const defaultStoreKey = "main-store"

// Gate persists the snapshot as one JSONB row per store, upserted whole on
// every save.
type Gate struct {
	db       *sql.DB
	storeKey string
}

func New(ctx context.Context, databaseURL string, storeKey string) (*Gate, error) {
	db, err := sql.Open("pgx", databaseURL)
	if err != nil {
		return nil, err
	}

	db.SetMaxIdleConns(4)
	db.SetMaxOpenConns(10)
	db.SetConnMaxLifetime(30 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 6*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, err
	}

	if storeKey == "" {
		storeKey = defaultStoreKey
	}

	g := &Gate{db: db, storeKey: storeKey}
	if err := g.ensureSchema(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return g, nil
}

func (g *Gate) ensureSchema(ctx context.Context) error {
	_, err := g.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS pos_snapshots (
			store_key  TEXT PRIMARY KEY,
			payload    JSONB NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)
	`)
	return err
}

func (g *Gate) Close() error {
	return g.db.Close()
}

func (g *Gate) Load(ctx context.Context) (*state.State, error) {
	var payload []byte
	err := g.db.QueryRowContext(ctx, `
		SELECT payload FROM pos_snapshots WHERE store_key = $1
	`, g.storeKey).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, snapshot.ErrNoSnapshot
	}
	if err != nil {
		return nil, err
	}
	return snapshot.Decode(payload)
}

func (g *Gate) Save(ctx context.Context, s *state.State) error {
	payload, err := snapshot.Encode(s)
	if err != nil {
		return err
	}

	_, err = g.db.ExecContext(ctx, `
		INSERT INTO pos_snapshots (store_key, payload, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (store_key)
		DO UPDATE SET payload = EXCLUDED.payload, updated_at = now()
	`, g.storeKey, payload)
	return err
}
