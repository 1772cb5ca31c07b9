package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"microblog/internal/models"
)

func (d *Database) CreateSession(
	ctx context.Context,
	id string,
	userID int64,
	expiresAt time.Time,
) error {
	query := `insert into sessions (id, user_id, expires_at, created_at)
		values (?, ?, ?, ?)`

	if _, err := d.db.ExecContext(ctx, query,
		id, userID, expiresAt.UTC(), time.Now().UTC()); err != nil {
		return fmt.Errorf("insert session: %w", err)
	}

	return nil
}

func (d *Database) GetSession(ctx context.Context, id string) (int64, time.Time, error) {
	query := "select user_id, expires_at from sessions where id = ?"

	var userID int64
	var expiresAt time.Time
	err := d.db.QueryRowContext(ctx, query, id).Scan(&userID, &expiresAt)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, time.Time{}, models.ErrNotFound
	}
	if err != nil {
		return 0, time.Time{}, fmt.Errorf("select session: %w", err)
	}

	return userID, expiresAt, nil
}

func (d *Database) DeleteSession(ctx context.Context, id string) error {
	if _, err := d.db.ExecContext(ctx,
		"delete from sessions where id = ?", id); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}

	return nil
}

// DeleteExpiredSessions is run by the scheduler; expired rows are
// already unusable, this just keeps the table from growing forever.
func (d *Database) DeleteExpiredSessions(ctx context.Context, now time.Time) (int64, error) {
	res, err := d.db.ExecContext(ctx,
		"delete from sessions where expires_at < ?", now.UTC())
	if err != nil {
		return 0, fmt.Errorf("delete expired sessions: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected: %w", err)
	}

	return n, nil
}
