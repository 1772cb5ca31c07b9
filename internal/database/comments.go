package database

import (
	"context"
	"fmt"
	"strings"
	"time"

	"microblog/internal/models"
)

func (d *Database) CreateComment(
	ctx context.Context,
	postID int64,
	authorID int64,
	text string,
) (int64, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return 0, models.NewValidationError("text", "must not be empty")
	}

	if _, err := d.GetPost(ctx, postID); err != nil {
		return 0, fmt.Errorf("resolve post: %w", err)
	}

	query := `insert into comments (post_id, author_id, text, created_at)
		values (?, ?, ?, ?)`

	res, err := d.db.ExecContext(ctx, query, postID, authorID, text, time.Now().UTC())
	if err != nil {
		return 0, fmt.Errorf("insert comment: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("last insert id: %w", err)
	}

	return id, nil
}

// ListCommentsByPost returns comments oldest first, the reading order
// under a post.
func (d *Database) ListCommentsByPost(ctx context.Context, postID int64) ([]models.Comment, error) {
	query := `select c.id, c.post_id, c.author_id, u.username, c.text, c.created_at
		from comments as c
		join users as u on u.id = c.author_id
		where c.post_id = ?
		order by c.created_at asc, c.id asc`

	rows, err := d.db.QueryContext(ctx, query, postID)
	if err != nil {
		return nil, fmt.Errorf("execute query: %w", err)
	}
	defer d.closeRows(ctx, rows, "ListCommentsByPost")

	var comments []models.Comment
	for rows.Next() {
		var c models.Comment
		if err = rows.Scan(
			&c.ID, &c.PostID, &c.AuthorID, &c.Author, &c.Text, &c.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}

		comments = append(comments, c)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}

	return comments, nil
}
