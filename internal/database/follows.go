package database

import (
	"context"
	"fmt"

	"microblog/internal/models"
)

// Follow records a directed "user follows author" edge. Re-following
// is a no-op; following yourself is rejected before any write.
func (d *Database) Follow(ctx context.Context, userID, authorID int64) error {
	if userID == authorID {
		return models.NewValidationError("author", "cannot follow yourself")
	}

	query := "insert or ignore into follows (user_id, author_id) values (?, ?)"

	if _, err := d.db.ExecContext(ctx, query, userID, authorID); err != nil {
		return fmt.Errorf("insert follow: %w", err)
	}

	return nil
}

// Unfollow is a no-op when the edge does not exist.
func (d *Database) Unfollow(ctx context.Context, userID, authorID int64) error {
	query := "delete from follows where user_id = ? and author_id = ?"

	if _, err := d.db.ExecContext(ctx, query, userID, authorID); err != nil {
		return fmt.Errorf("delete follow: %w", err)
	}

	return nil
}

func (d *Database) IsFollowing(ctx context.Context, userID, authorID int64) (bool, error) {
	query := `select exists (
		select 1 from follows where user_id = ? and author_id = ?)`

	var following bool
	if err := d.db.QueryRowContext(ctx, query, userID, authorID).Scan(&following); err != nil {
		return false, fmt.Errorf("select follow: %w", err)
	}

	return following, nil
}

// FollowedAuthors answers "who does this user follow". No ordering is
// implied; the feed reorders by post recency anyway.
func (d *Database) FollowedAuthors(ctx context.Context, userID int64) ([]int64, error) {
	query := "select author_id from follows where user_id = ?"

	rows, err := d.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("execute query: %w", err)
	}
	defer d.closeRows(ctx, rows, "FollowedAuthors")

	var authorIDs []int64
	for rows.Next() {
		var id int64
		if err = rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}

		authorIDs = append(authorIDs, id)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}

	return authorIDs, nil
}
