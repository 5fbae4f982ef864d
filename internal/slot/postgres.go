package slot

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// Postgres stores the slot as one row of kv_slots.
type Postgres struct {
	db  *sql.DB
	key string
}

func NewPostgres(db *sql.DB, key string) *Postgres {
	return &Postgres{db: db, key: key}
}

func (p *Postgres) Load(ctx context.Context) ([]byte, error) {
	var value []byte
	err := p.db.QueryRowContext(ctx,
		`SELECT value FROM kv_slots WHERE key = $1`,
		p.key,
	).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("select slot %s: %w", p.key, err)
	}
	return value, nil
}

func (p *Postgres) Save(ctx context.Context, data []byte) error {
	_, err := p.db.ExecContext(ctx,
		`INSERT INTO kv_slots (key, value, updated_at)
         VALUES ($1, $2, NOW())
         ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = NOW()`,
		p.key, data,
	)
	if err != nil {
		return fmt.Errorf("upsert slot %s: %w", p.key, err)
	}
	return nil
}
