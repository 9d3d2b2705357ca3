package settings

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNotFound indicates the store has no settings record yet.
var ErrNotFound = errors.New("settings not found")

// Record is one persisted settings row.
type Record struct {
	StoreID   string
	Payload   []byte
	UpdatedAt time.Time
}

// Store persists raw settings payloads keyed by store identifier. The payload
// is stored opaque; sanitization happens in the discount package at read time.
type Store struct {
	pool *pgxpool.Pool
}

// NewStore constructs a Postgres-backed settings store.
func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// Get loads the settings record for a store.
func (s *Store) Get(ctx context.Context, storeID string) (Record, error) {
	if s == nil || s.pool == nil {
		return Record{}, errors.New("settings store not configured")
	}
	row := s.pool.QueryRow(ctx,
		`SELECT store_id, payload, updated_at FROM store_settings WHERE store_id = $1`,
		storeID,
	)
	var rec Record
	if err := row.Scan(&rec.StoreID, &rec.Payload, &rec.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Record{}, ErrNotFound
		}
		return Record{}, err
	}
	return rec, nil
}

// Upsert writes the raw payload for a store, replacing any previous record.
func (s *Store) Upsert(ctx context.Context, storeID string, payload []byte) error {
	if s == nil || s.pool == nil {
		return errors.New("settings store not configured")
	}
	_, err := s.pool.Exec(ctx,
		`INSERT INTO store_settings (store_id, payload, updated_at)
		 VALUES ($1, $2, now())
		 ON CONFLICT (store_id) DO UPDATE SET payload = EXCLUDED.payload, updated_at = now()`,
		storeID, payload,
	)
	return err
}
