package session

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// PostgresStore keeps sessions in the sessions table. Expired rows read as
// empty sessions and are overwritten on the next save.
type PostgresStore struct {
	db  *sql.DB
	ttl time.Duration
	now func() time.Time
}

func NewPostgresStore(db *sql.DB, ttl time.Duration) *PostgresStore {
	return &PostgresStore{db: db, ttl: ttl, now: time.Now}
}

func (p *PostgresStore) Load(ctx context.Context, id string) (*Session, error) {
	var data []byte
	err := p.db.QueryRowContext(ctx,
		`SELECT data FROM sessions WHERE id = $1 AND expires_at > $2`,
		id, p.now().UTC(),
	).Scan(&data)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return &Session{ID: id}, nil
		}
		return nil, fmt.Errorf("select session: %w", err)
	}
	return decode(id, data)
}

func (p *PostgresStore) Save(ctx context.Context, s *Session) error {
	data, err := encode(s)
	if err != nil {
		return err
	}

	_, err = p.db.ExecContext(ctx, `
		INSERT INTO sessions (id, data, expires_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (id)
		DO UPDATE SET data = EXCLUDED.data, expires_at = EXCLUDED.expires_at
	`, s.ID, string(data), p.now().UTC().Add(p.ttl))
	if err != nil {
		return fmt.Errorf("upsert session: %w", err)
	}
	return nil
}
