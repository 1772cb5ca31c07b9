package feed

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"testing"

	"microblog/internal/database"
	"microblog/internal/models"
)

func newTestComposer(t *testing.T) (*Composer, *database.Database) {
	t.Helper()

	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "test.db")

	db, err := database.New(ctx, dbPath, slog.Default())
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	t.Cleanup(func() {
		if closeErr := db.Close(); closeErr != nil {
			t.Errorf("failed to close test db: %v", closeErr)
		}
	})

	return New(db, slog.Default()), db
}

func createUser(t *testing.T, db *database.Database, username string) int64 {
	t.Helper()

	id, err := db.CreateUser(context.Background(), username, "hash")
	if err != nil {
		t.Fatalf("failed to create user %s: %v", username, err)
	}

	return id
}

func createPost(t *testing.T, db *database.Database, authorID int64, text string, groupID *int64) int64 {
	t.Helper()

	id, err := db.CreatePost(context.Background(), authorID, text, groupID, "")
	if err != nil {
		t.Fatalf("failed to create post: %v", err)
	}

	return id
}

func TestGlobalNewestFirst(t *testing.T) {
	ctx := context.Background()
	composer, db := newTestComposer(t)
	authorID := createUser(t, db, "alice")

	createPost(t, db, authorID, "older", nil)
	newest := createPost(t, db, authorID, "newest", nil)

	page, err := composer.Global(ctx, 1)
	if err != nil {
		t.Fatalf("failed to compose global feed: %v", err)
	}

	if len(page.Items) != 2 {
		t.Fatalf("got %d items, want 2", len(page.Items))
	}
	if page.Items[0].ID != newest {
		t.Fatalf("expected the newest post first, got %d", page.Items[0].ID)
	}
}

func TestGroupFeedPagination(t *testing.T) {
	ctx := context.Background()
	composer, db := newTestComposer(t)
	authorID := createUser(t, db, "alice")

	groupID, err := db.CreateGroup(ctx, "go", "Go", "")
	if err != nil {
		t.Fatalf("failed to create group: %v", err)
	}

	for i := range 13 {
		createPost(t, db, authorID, fmt.Sprintf("post %d", i), &groupID)
	}

	first, err := composer.Group(ctx, "go", 1)
	if err != nil {
		t.Fatalf("failed to compose group feed: %v", err)
	}
	if len(first.Page.Items) != 10 {
		t.Fatalf("page 1: got %d items, want 10", len(first.Page.Items))
	}

	second, err := composer.Group(ctx, "go", 2)
	if err != nil {
		t.Fatalf("failed to compose group feed: %v", err)
	}
	if len(second.Page.Items) != 3 {
		t.Fatalf("page 2: got %d items, want 3", len(second.Page.Items))
	}

	// Past the end clamps to the last page, never errors.
	clamped, err := composer.Group(ctx, "go", 3)
	if err != nil {
		t.Fatalf("failed to compose clamped group feed: %v", err)
	}
	if clamped.Page.Number != 2 || len(clamped.Page.Items) != 3 {
		t.Fatalf("page 3: clamped to page %d with %d items",
			clamped.Page.Number, len(clamped.Page.Items))
	}
	for i := range second.Page.Items {
		if clamped.Page.Items[i].ID != second.Page.Items[i].ID {
			t.Fatalf("clamped page differs from last page at %d", i)
		}
	}
}

func TestGroupFeedUnknownSlug(t *testing.T) {
	composer, _ := newTestComposer(t)

	if _, err := composer.Group(context.Background(), "nope", 1); !errors.Is(err, models.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestProfileFollowingFlag(t *testing.T) {
	ctx := context.Background()
	composer, db := newTestComposer(t)
	authorID := createUser(t, db, "alice")
	viewerID := createUser(t, db, "bob")
	createPost(t, db, authorID, "hello", nil)

	anonymous, err := composer.Profile(ctx, "alice", 0, 1)
	if err != nil {
		t.Fatalf("failed to compose profile: %v", err)
	}
	if anonymous.Following {
		t.Fatalf("anonymous viewer must not be following")
	}
	if anonymous.PostCount != 1 {
		t.Fatalf("post count %d, want 1", anonymous.PostCount)
	}

	if err = db.Follow(ctx, viewerID, authorID); err != nil {
		t.Fatalf("failed to follow: %v", err)
	}

	viewed, err := composer.Profile(ctx, "alice", viewerID, 1)
	if err != nil {
		t.Fatalf("failed to compose profile: %v", err)
	}
	if !viewed.Following {
		t.Fatalf("expected the following flag for a follower")
	}
}

func TestFollowingFeedFiltersByFollowGraph(t *testing.T) {
	ctx := context.Background()
	composer, db := newTestComposer(t)
	viewerID := createUser(t, db, "u")
	followedID := createUser(t, db, "b")
	otherID := createUser(t, db, "c")

	followedPost := createPost(t, db, followedID, "from b", nil)
	createPost(t, db, otherID, "from c", nil)

	if err := db.Follow(ctx, viewerID, followedID); err != nil {
		t.Fatalf("failed to follow: %v", err)
	}

	page, err := composer.Following(ctx, viewerID, 1)
	if err != nil {
		t.Fatalf("failed to compose follow feed: %v", err)
	}

	if len(page.Items) != 1 || page.Items[0].ID != followedPost {
		t.Fatalf("expected exactly the followed author's post, got %v", page.Items)
	}
}

func TestFollowingFeedEmptyWithoutEdges(t *testing.T) {
	ctx := context.Background()
	composer, db := newTestComposer(t)
	viewerID := createUser(t, db, "u")
	otherID := createUser(t, db, "c")
	createPost(t, db, otherID, "from c", nil)

	page, err := composer.Following(ctx, viewerID, 1)
	if err != nil {
		t.Fatalf("following nobody must not fail: %v", err)
	}

	if len(page.Items) != 0 {
		t.Fatalf("expected an empty page, got %d items", len(page.Items))
	}
	if page.HasPrev || page.HasNext {
		t.Fatalf("empty page must have no neighbours")
	}
}

func TestPostDetail(t *testing.T) {
	ctx := context.Background()
	composer, db := newTestComposer(t)
	authorID := createUser(t, db, "alice")
	readerID := createUser(t, db, "bob")

	postID := createPost(t, db, authorID,
		"read this: https://go.dev/blog/ and https://go.dev/blog/", nil)
	if _, err := db.CreateComment(ctx, postID, readerID, "nice"); err != nil {
		t.Fatalf("failed to create comment: %v", err)
	}

	view, err := composer.PostDetail(ctx, postID)
	if err != nil {
		t.Fatalf("failed to compose post detail: %v", err)
	}

	if view.Post.ID != postID {
		t.Fatalf("unexpected post %d", view.Post.ID)
	}
	if len(view.Comments) != 1 || view.Comments[0].Text != "nice" {
		t.Fatalf("unexpected comments %v", view.Comments)
	}
	if view.PostCount != 1 {
		t.Fatalf("post count %d, want 1", view.PostCount)
	}
	if len(view.Links) != 1 || view.Links[0] != "https://go.dev/blog/" {
		t.Fatalf("unexpected links %v", view.Links)
	}
}

func TestLinks(t *testing.T) {
	if links := Links("no links here"); links != nil {
		t.Fatalf("expected no links, got %v", links)
	}

	links := Links("see https://example.com/a then http://example.com/b")
	if len(links) != 2 {
		t.Fatalf("expected two links, got %v", links)
	}
}
