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

// Every listing query orders newest first with the id as a
// deterministic tie break. Ids are never reused (AUTOINCREMENT), so
// the tie break is stable across deletes.
const postColumns = `p.id, p.author_id, u.username, p.group_id,
	coalesce(g.slug, ''), coalesce(g.title, ''),
	p.text, p.image_path, p.created_at`

const postFrom = `from posts as p
	join users as u on u.id = p.author_id
	left join "groups" as g on g.id = p.group_id`

const postOrder = `order by p.created_at desc, p.id desc`

func (d *Database) CreatePost(
	ctx context.Context,
	authorID int64,
	text string,
	groupID *int64,
	imagePath string,
) (int64, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return 0, models.NewValidationError("text", "must not be empty")
	}

	query := `insert into posts (author_id, text, group_id, image_path, created_at)
		values (?, ?, ?, ?, ?)`

	res, err := d.db.ExecContext(ctx, query,
		authorID, text, groupID, imagePath, time.Now().UTC())
	if err != nil {
		return 0, fmt.Errorf("insert post: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("last insert id: %w", err)
	}

	return id, nil
}

func (d *Database) GetPost(ctx context.Context, id int64) (models.Post, error) {
	query := "select " + postColumns + " " + postFrom + " where p.id = ?"

	var p models.Post
	err := d.db.QueryRowContext(ctx, query, id).Scan(
		&p.ID, &p.AuthorID, &p.Author, &p.GroupID,
		&p.GroupSlug, &p.GroupTitle,
		&p.Text, &p.ImagePath, &p.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Post{}, models.ErrNotFound
	}
	if err != nil {
		return models.Post{}, fmt.Errorf("select post: %w", err)
	}

	return p, nil
}

// UpdatePost is last-writer-wins on the mutable columns; created_at
// is set once and never touched again.
func (d *Database) UpdatePost(
	ctx context.Context,
	id int64,
	text string,
	groupID *int64,
	imagePath string,
) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return models.NewValidationError("text", "must not be empty")
	}

	query := "update posts set text = ?, group_id = ?, image_path = ? where id = ?"

	res, err := d.db.ExecContext(ctx, query, text, groupID, imagePath, id)
	if err != nil {
		return fmt.Errorf("update post: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return models.ErrNotFound
	}

	return nil
}

// DeletePost removes the post and, through the foreign key cascade,
// every comment hanging off it.
func (d *Database) DeletePost(ctx context.Context, id int64) error {
	res, err := d.db.ExecContext(ctx, "delete from posts where id = ?", id)
	if err != nil {
		return fmt.Errorf("delete post: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return models.ErrNotFound
	}

	return nil
}

func (d *Database) ListPosts(ctx context.Context) ([]models.Post, error) {
	query := "select " + postColumns + " " + postFrom + " " + postOrder

	return d.listPosts(ctx, query, "ListPosts")
}

func (d *Database) ListPostsByGroup(ctx context.Context, groupID int64) ([]models.Post, error) {
	query := "select " + postColumns + " " + postFrom +
		" where p.group_id = ? " + postOrder

	return d.listPosts(ctx, query, "ListPostsByGroup", groupID)
}

func (d *Database) ListPostsByAuthor(ctx context.Context, authorID int64) ([]models.Post, error) {
	query := "select " + postColumns + " " + postFrom +
		" where p.author_id = ? " + postOrder

	return d.listPosts(ctx, query, "ListPostsByAuthor", authorID)
}

// ListPostsByAuthors serves the follow feed: the caller resolves the
// followed author set first and this only filters by it. An empty set
// short-circuits to an empty result.
func (d *Database) ListPostsByAuthors(ctx context.Context, authorIDs []int64) ([]models.Post, error) {
	if len(authorIDs) == 0 {
		return nil, nil
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(authorIDs)), ",")
	query := "select " + postColumns + " " + postFrom +
		" where p.author_id in (" + placeholders + ") " + postOrder

	args := make([]any, 0, len(authorIDs))
	for _, id := range authorIDs {
		args = append(args, id)
	}

	return d.listPosts(ctx, query, "ListPostsByAuthors", args...)
}

func (d *Database) CountPostsByAuthor(ctx context.Context, authorID int64) (int, error) {
	var count int
	err := d.db.QueryRowContext(ctx,
		"select count(*) from posts where author_id = ?", authorID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count posts: %w", err)
	}

	return count, nil
}

func (d *Database) listPosts(
	ctx context.Context,
	query string,
	operation string,
	args ...any,
) ([]models.Post, error) {
	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("execute query: %w", err)
	}
	defer d.closeRows(ctx, rows, operation)

	var posts []models.Post
	for rows.Next() {
		var p models.Post
		if err = rows.Scan(
			&p.ID, &p.AuthorID, &p.Author, &p.GroupID,
			&p.GroupSlug, &p.GroupTitle,
			&p.Text, &p.ImagePath, &p.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}

		posts = append(posts, p)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}

	return posts, nil
}
