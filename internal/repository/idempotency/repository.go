// Package idempotency stores responses keyed by client-chosen idempotency
// keys so retried payment requests replay the original result instead of
// creating duplicate gateway orders.
package idempotency

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"brassmart/internal/domain"
)

// Record is one reserved key with the response it produced. Fingerprint is a
// hash of the original request body; a retry with a different fingerprint is
// a conflicting reuse of the key, not a replay.
type Record struct {
	Key         string
	Fingerprint string
	Response    []byte
	CreatedAt   time.Time
}

// Postgres persists records in the idempotency_keys table.
type Postgres struct {
	pool *pgxpool.Pool
}

func NewPostgres(pool *pgxpool.Pool) *Postgres {
	return &Postgres{pool: pool}
}

// Get returns the record for key, or domain.ErrNotFound.
func (r *Postgres) Get(ctx context.Context, key string) (*Record, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT key, fingerprint, response, created_at FROM idempotency_keys WHERE key = $1`,
		key,
	)
	var rec Record
	if err := row.Scan(&rec.Key, &rec.Fingerprint, &rec.Response, &rec.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &rec, nil
}

// Put stores a record. A key that already exists reports
// domain.ErrAlreadyExists; the first writer wins.
func (r *Postgres) Put(ctx context.Context, rec Record) error {
	tag, err := r.pool.Exec(ctx,
		`INSERT INTO idempotency_keys (key, fingerprint, response, created_at)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (key) DO NOTHING`,
		rec.Key, rec.Fingerprint, rec.Response, rec.CreatedAt,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrAlreadyExists
	}
	return nil
}

// Memory is an in-process implementation for tests and single-node setups.
type Memory struct {
	mu      sync.Mutex
	records map[string]Record
}

func NewMemory() *Memory {
	return &Memory{records: make(map[string]Record)}
}

func (r *Memory) Get(_ context.Context, key string) (*Record, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok := r.records[key]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &rec, nil
}

func (r *Memory) Put(_ context.Context, rec Record) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.records[rec.Key]; ok {
		return domain.ErrAlreadyExists
	}
	r.records[rec.Key] = rec
	return nil
}
