package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"microblog/internal/models"
)

// CreateGroup is an administrative operation; groups are immutable
// once posts reference them so the slug keeps routing stable.
func (d *Database) CreateGroup(
	ctx context.Context,
	slug string,
	title string,
	description string,
) (int64, error) {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return 0, models.NewValidationError("slug", "must not be empty")
	}

	title = strings.TrimSpace(title)
	if title == "" {
		return 0, models.NewValidationError("title", "must not be empty")
	}

	query := `insert into "groups" (slug, title, description) values (?, ?, ?)`

	res, err := d.db.ExecContext(ctx, query, slug, title, description)
	if isUniqueErr(err, "groups.slug") {
		return 0, models.NewValidationError("slug", "already taken")
	}
	if err != nil {
		return 0, fmt.Errorf("insert group: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("last insert id: %w", err)
	}

	return id, nil
}

func (d *Database) GetGroupBySlug(ctx context.Context, slug string) (models.Group, error) {
	query := `select id, slug, title, description from "groups" where slug = ?`

	var g models.Group
	err := d.db.QueryRowContext(ctx, query, slug).Scan(
		&g.ID, &g.Slug, &g.Title, &g.Description)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Group{}, models.ErrNotFound
	}
	if err != nil {
		return models.Group{}, fmt.Errorf("select group: %w", err)
	}

	return g, nil
}

func (d *Database) GetGroupByID(ctx context.Context, id int64) (models.Group, error) {
	query := `select id, slug, title, description from "groups" where id = ?`

	var g models.Group
	err := d.db.QueryRowContext(ctx, query, id).Scan(
		&g.ID, &g.Slug, &g.Title, &g.Description)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Group{}, models.ErrNotFound
	}
	if err != nil {
		return models.Group{}, fmt.Errorf("select group: %w", err)
	}

	return g, nil
}

func (d *Database) ListGroups(ctx context.Context) ([]models.Group, error) {
	query := `select id, slug, title, description from "groups" order by title`

	rows, err := d.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("execute query: %w", err)
	}
	defer d.closeRows(ctx, rows, "ListGroups")

	var groups []models.Group
	for rows.Next() {
		var g models.Group
		if err = rows.Scan(&g.ID, &g.Slug, &g.Title, &g.Description); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}

		groups = append(groups, g)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}

	return groups, nil
}

// SQLite reports constraint violations as
// "UNIQUE constraint failed: table.column".
func isUniqueErr(err error, col string) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint failed") &&
		strings.Contains(msg, strings.ToLower(col))
}
