package session

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
)

// SQLStore keeps session values in the session_values table. updated_at holds the
// unix time of the last write.
type SQLStore struct {
	db  *sqlx.DB
	now func() time.Time
}

func NewSQLStore(db *sqlx.DB) *SQLStore {
	return &SQLStore{db: db, now: time.Now}
}

func (s *SQLStore) Get(ctx context.Context, sid, key string) (string, error) {
	var value string
	err := s.db.GetContext(ctx, &value, `SELECT item_value FROM session_values WHERE session_id = $1 AND item_key = $2`, sid, key)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("get session value: %w", err)
	}
	return value, nil
}

func (s *SQLStore) Set(ctx context.Context, sid, key, value string) error {
	_, err := s.db.ExecContext(ctx, `INSERT INTO session_values (session_id, item_key, item_value, updated_at)
                VALUES ($1, $2, $3, $4)
                ON CONFLICT (session_id, item_key) DO UPDATE SET item_value = excluded.item_value, updated_at = excluded.updated_at`,
		sid, key, value, s.now().Unix())
	if err != nil {
		return fmt.Errorf("set session value: %w", err)
	}
	return nil
}

func (s *SQLStore) Delete(ctx context.Context, sid string, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	query, args, err := sqlx.In(`DELETE FROM session_values WHERE session_id = ? AND item_key IN (?)`, sid, keys)
	if err != nil {
		return fmt.Errorf("prepare session delete: %w", err)
	}
	if _, err := s.db.ExecContext(ctx, s.db.Rebind(query), args...); err != nil {
		return fmt.Errorf("delete session values: %w", err)
	}
	return nil
}

// Sweep deletes values last written before cutoff and reports how many went.
func (s *SQLStore) Sweep(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM session_values WHERE updated_at < $1`, cutoff.Unix())
	if err != nil {
		return 0, fmt.Errorf("sweep session values: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("sweep session values: %w", err)
	}
	return n, nil
}
