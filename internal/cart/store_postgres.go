package cart

import (
	"context"
	"database/sql"
)

// PostgresStore keeps cart snapshots in a jsonb column keyed by the
// session-scoped cart key. Used when Redis is not configured.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Get(ctx context.Context, key string) ([]byte, error) {
	var raw sql.NullString
	err := s.db.QueryRowContext(ctx, `SELECT snapshot FROM cart_snapshots WHERE key = $1`, key).Scan(&raw)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if !raw.Valid || raw.String == "" {
		return nil, nil
	}
	return []byte(raw.String), nil
}

func (s *PostgresStore) Set(ctx context.Context, key string, snapshot []byte) error {
	_, err := s.db.ExecContext(ctx, `INSERT INTO cart_snapshots (key, snapshot, updated_at)
        VALUES ($1, $2, now())
        ON CONFLICT (key) DO UPDATE SET snapshot = EXCLUDED.snapshot, updated_at = now()`,
		key, string(snapshot))
	return err
}
