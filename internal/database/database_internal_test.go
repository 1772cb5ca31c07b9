package database

import (
	"context"
	"errors"
	"log/slog"
	"path/filepath"
	"testing"

	"microblog/internal/models"
)

func newTestDatabase(t *testing.T) *Database {
	t.Helper()

	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "test.db")

	db, err := New(ctx, dbPath, slog.Default())
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	t.Cleanup(func() {
		if closeErr := db.Close(); closeErr != nil {
			t.Errorf("failed to close test db: %v", closeErr)
		}
	})

	return db
}

func mustCreateUser(t *testing.T, db *Database, username string) int64 {
	t.Helper()

	id, err := db.CreateUser(context.Background(), username, "hash")
	if err != nil {
		t.Fatalf("failed to create user %s: %v", username, err)
	}

	return id
}

func mustCreatePost(t *testing.T, db *Database, authorID int64, text string, groupID *int64) int64 {
	t.Helper()

	id, err := db.CreatePost(context.Background(), authorID, text, groupID, "")
	if err != nil {
		t.Fatalf("failed to create post: %v", err)
	}

	return id
}

func TestCreatePostRejectsEmptyText(t *testing.T) {
	ctx := context.Background()
	db := newTestDatabase(t)
	authorID := mustCreateUser(t, db, "alice")

	for _, text := range []string{"", "   ", "\n\t"} {
		if _, err := db.CreatePost(ctx, authorID, text, nil, ""); !models.IsValidation(err) {
			t.Fatalf("text %q: expected validation error, got %v", text, err)
		}
	}

	posts, err := db.ListPosts(ctx)
	if err != nil {
		t.Fatalf("failed to list posts: %v", err)
	}
	if len(posts) != 0 {
		t.Fatalf("rejected create must not leave a row, found %d", len(posts))
	}
}

func TestListPostsNewestFirst(t *testing.T) {
	ctx := context.Background()
	db := newTestDatabase(t)
	authorID := mustCreateUser(t, db, "alice")

	first := mustCreatePost(t, db, authorID, "first", nil)
	second := mustCreatePost(t, db, authorID, "second", nil)
	third := mustCreatePost(t, db, authorID, "third", nil)

	posts, err := db.ListPosts(ctx)
	if err != nil {
		t.Fatalf("failed to list posts: %v", err)
	}

	want := []int64{third, second, first}
	if len(posts) != len(want) {
		t.Fatalf("got %d posts, want %d", len(posts), len(want))
	}
	for i, id := range want {
		if posts[i].ID != id {
			t.Fatalf("position %d: post %d, want %d", i, posts[i].ID, id)
		}
	}
}

func TestUpdatePostKeepsCreatedAt(t *testing.T) {
	ctx := context.Background()
	db := newTestDatabase(t)
	authorID := mustCreateUser(t, db, "alice")
	postID := mustCreatePost(t, db, authorID, "before", nil)

	created, err := db.GetPost(ctx, postID)
	if err != nil {
		t.Fatalf("failed to fetch post: %v", err)
	}

	if err = db.UpdatePost(ctx, postID, "after", nil, ""); err != nil {
		t.Fatalf("failed to update post: %v", err)
	}

	updated, err := db.GetPost(ctx, postID)
	if err != nil {
		t.Fatalf("failed to fetch post: %v", err)
	}

	if updated.Text != "after" {
		t.Fatalf("text not updated: %q", updated.Text)
	}
	if !updated.CreatedAt.Equal(created.CreatedAt) {
		t.Fatalf("created_at changed on edit: %v -> %v", created.CreatedAt, updated.CreatedAt)
	}
}

func TestUpdatePostRejectsEmptyText(t *testing.T) {
	ctx := context.Background()
	db := newTestDatabase(t)
	authorID := mustCreateUser(t, db, "alice")
	postID := mustCreatePost(t, db, authorID, "before", nil)

	if err := db.UpdatePost(ctx, postID, "  ", nil, ""); !models.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}

	post, err := db.GetPost(ctx, postID)
	if err != nil {
		t.Fatalf("failed to fetch post: %v", err)
	}
	if post.Text != "before" {
		t.Fatalf("rejected edit must not change the row, got %q", post.Text)
	}
}

func TestDeletePostCascadesToComments(t *testing.T) {
	ctx := context.Background()
	db := newTestDatabase(t)
	authorID := mustCreateUser(t, db, "alice")
	readerID := mustCreateUser(t, db, "bob")
	postID := mustCreatePost(t, db, authorID, "a post", nil)

	for _, text := range []string{"one", "two"} {
		if _, err := db.CreateComment(ctx, postID, readerID, text); err != nil {
			t.Fatalf("failed to create comment: %v", err)
		}
	}

	if err := db.DeletePost(ctx, postID); err != nil {
		t.Fatalf("failed to delete post: %v", err)
	}

	if _, err := db.GetPost(ctx, postID); !errors.Is(err, models.ErrNotFound) {
		t.Fatalf("expected not found after delete, got %v", err)
	}

	comments, err := db.ListCommentsByPost(ctx, postID)
	if err != nil {
		t.Fatalf("failed to list comments: %v", err)
	}
	if len(comments) != 0 {
		t.Fatalf("expected cascade to remove comments, found %d", len(comments))
	}
}

// Foreign key enforcement is a connection setting, so it must arrive
// via the DSN; with no idle connections every statement runs on a
// fresh one and the cascade still has to hold.
func TestDeletePostCascadesOnFreshConnections(t *testing.T) {
	ctx := context.Background()
	db := newTestDatabase(t)
	db.db.SetMaxIdleConns(0)

	authorID := mustCreateUser(t, db, "alice")
	readerID := mustCreateUser(t, db, "bob")
	postID := mustCreatePost(t, db, authorID, "a post", nil)

	if _, err := db.CreateComment(ctx, postID, readerID, "orphan me"); err != nil {
		t.Fatalf("failed to create comment: %v", err)
	}

	if err := db.DeletePost(ctx, postID); err != nil {
		t.Fatalf("failed to delete post: %v", err)
	}

	comments, err := db.ListCommentsByPost(ctx, postID)
	if err != nil {
		t.Fatalf("failed to list comments: %v", err)
	}
	if len(comments) != 0 {
		t.Fatalf("expected cascade to remove comments, found %d", len(comments))
	}
}

func TestCommentOnMissingPost(t *testing.T) {
	ctx := context.Background()
	db := newTestDatabase(t)
	readerID := mustCreateUser(t, db, "bob")

	if _, err := db.CreateComment(ctx, 12345, readerID, "hello"); !errors.Is(err, models.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestFollowIsIdempotent(t *testing.T) {
	ctx := context.Background()
	db := newTestDatabase(t)
	userID := mustCreateUser(t, db, "alice")
	authorID := mustCreateUser(t, db, "bob")

	for range 2 {
		if err := db.Follow(ctx, userID, authorID); err != nil {
			t.Fatalf("failed to follow: %v", err)
		}
	}

	authors, err := db.FollowedAuthors(ctx, userID)
	if err != nil {
		t.Fatalf("failed to list followed authors: %v", err)
	}
	if len(authors) != 1 || authors[0] != authorID {
		t.Fatalf("expected exactly one edge, got %v", authors)
	}

	// Unfollowing an edge that is not there is a no-op.
	if err = db.Unfollow(ctx, userID, authorID); err != nil {
		t.Fatalf("failed to unfollow: %v", err)
	}
	if err = db.Unfollow(ctx, userID, authorID); err != nil {
		t.Fatalf("repeated unfollow must not fail: %v", err)
	}
}

func TestSelfFollowIsRejected(t *testing.T) {
	ctx := context.Background()
	db := newTestDatabase(t)
	userID := mustCreateUser(t, db, "alice")

	if err := db.Follow(ctx, userID, userID); !models.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}

	following, err := db.IsFollowing(ctx, userID, userID)
	if err != nil {
		t.Fatalf("failed to check follow: %v", err)
	}
	if following {
		t.Fatalf("self-follow must not create an edge")
	}
}

func TestCreateGroupRejectsDuplicateSlug(t *testing.T) {
	ctx := context.Background()
	db := newTestDatabase(t)

	if _, err := db.CreateGroup(ctx, "go", "Go", "posts about Go"); err != nil {
		t.Fatalf("failed to create group: %v", err)
	}

	if _, err := db.CreateGroup(ctx, "go", "Another Go", ""); !models.IsValidation(err) {
		t.Fatalf("expected validation error for duplicate slug, got %v", err)
	}
}

func TestGetPostNotFound(t *testing.T) {
	db := newTestDatabase(t)

	if _, err := db.GetPost(context.Background(), 987); !errors.Is(err, models.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}
