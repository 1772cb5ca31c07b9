package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"microblog/internal/models"
)

func (d *Database) CreateUser(
	ctx context.Context,
	username string,
	passwordHash string,
) (int64, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return 0, models.NewValidationError("username", "must not be empty")
	}

	query := `insert into users (username, password_hash, created_at)
		values (?, ?, ?)`

	res, err := d.db.ExecContext(ctx, query, username, passwordHash, time.Now().UTC())
	if isUniqueErr(err, "users.username") {
		return 0, models.NewValidationError("username", "already taken")
	}
	if err != nil {
		return 0, fmt.Errorf("insert user: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("last insert id: %w", err)
	}

	return id, nil
}

func (d *Database) GetAuthorByUsername(ctx context.Context, username string) (models.Author, error) {
	query := "select id, username from users where username = ?"

	var a models.Author
	err := d.db.QueryRowContext(ctx, query, username).Scan(&a.ID, &a.Username)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Author{}, models.ErrNotFound
	}
	if err != nil {
		return models.Author{}, fmt.Errorf("select user: %w", err)
	}

	return a, nil
}

func (d *Database) GetAuthorByID(ctx context.Context, id int64) (models.Author, error) {
	query := "select id, username from users where id = ?"

	var a models.Author
	err := d.db.QueryRowContext(ctx, query, id).Scan(&a.ID, &a.Username)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Author{}, models.ErrNotFound
	}
	if err != nil {
		return models.Author{}, fmt.Errorf("select user: %w", err)
	}

	return a, nil
}

// GetCredentials is only for the auth layer; nothing else ever sees
// the password hash.
func (d *Database) GetCredentials(ctx context.Context, username string) (int64, string, error) {
	query := "select id, password_hash from users where username = ?"

	var id int64
	var hash string
	err := d.db.QueryRowContext(ctx, query, username).Scan(&id, &hash)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, "", models.ErrNotFound
	}
	if err != nil {
		return 0, "", fmt.Errorf("select credentials: %w", err)
	}

	return id, hash, nil
}
