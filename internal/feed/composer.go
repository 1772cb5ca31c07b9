// Package feed builds the ordered, paginated listing views. It is a
// stateless pipeline: resolve the filter, query the store, paginate.
// Caching happens at the render boundary, not here, because cache
// entries are rendered payloads.
package feed

import (
	"context"
	"fmt"
	"log/slog"

	"microblog/internal/database"
	"microblog/internal/models"
	"microblog/internal/paginate"
)

type Composer struct {
	db  *database.Database
	log *slog.Logger
}

func New(db *database.Database, log *slog.Logger) *Composer {
	return &Composer{db: db, log: log}
}

// GroupView carries the group header next to its page of posts.
type GroupView struct {
	Group models.Group
	Page  paginate.Page[models.Post]
}

// ProfileView carries the author header, their post count and whether
// the viewer already follows them (always false for anonymous).
type ProfileView struct {
	Author    models.Author
	Page      paginate.Page[models.Post]
	PostCount int
	Following bool
}

// PostView is the single-post detail: the post, its comments, the
// author's total post count and any links found in the text.
type PostView struct {
	Post      models.Post
	Comments  []models.Comment
	PostCount int
	Links     []string
}

// Global is every post, newest first.
func (c *Composer) Global(ctx context.Context, page int) (paginate.Page[models.Post], error) {
	posts, err := c.db.ListPosts(ctx)
	if err != nil {
		return paginate.Page[models.Post]{}, fmt.Errorf("list posts: %w", err)
	}

	return paginate.Paginate(posts, paginate.DefaultPageSize, page), nil
}

// Group is the posts of one group; an unknown slug is ErrNotFound.
func (c *Composer) Group(ctx context.Context, slug string, page int) (GroupView, error) {
	group, err := c.db.GetGroupBySlug(ctx, slug)
	if err != nil {
		return GroupView{}, fmt.Errorf("resolve group: %w", err)
	}

	posts, err := c.db.ListPostsByGroup(ctx, group.ID)
	if err != nil {
		return GroupView{}, fmt.Errorf("list group posts: %w", err)
	}

	return GroupView{
		Group: group,
		Page:  paginate.Paginate(posts, paginate.DefaultPageSize, page),
	}, nil
}

// Profile is the posts of one author, with the viewer's following
// flag for the follow button. viewerID 0 means anonymous.
func (c *Composer) Profile(
	ctx context.Context,
	username string,
	viewerID int64,
	page int,
) (ProfileView, error) {
	author, err := c.db.GetAuthorByUsername(ctx, username)
	if err != nil {
		return ProfileView{}, fmt.Errorf("resolve author: %w", err)
	}

	posts, err := c.db.ListPostsByAuthor(ctx, author.ID)
	if err != nil {
		return ProfileView{}, fmt.Errorf("list author posts: %w", err)
	}

	var following bool
	if viewerID != 0 {
		following, err = c.db.IsFollowing(ctx, viewerID, author.ID)
		if err != nil {
			return ProfileView{}, fmt.Errorf("check following: %w", err)
		}
	}

	return ProfileView{
		Author:    author,
		Page:      paginate.Paginate(posts, paginate.DefaultPageSize, page),
		PostCount: len(posts),
		Following: following,
	}, nil
}

// Following is the posts of every author the viewer follows. The
// filter is resolved as an explicit author-id set first, so the post
// query stays a plain IN filter. Following nobody is an empty page,
// not an error.
func (c *Composer) Following(
	ctx context.Context,
	viewerID int64,
	page int,
) (paginate.Page[models.Post], error) {
	authorIDs, err := c.db.FollowedAuthors(ctx, viewerID)
	if err != nil {
		return paginate.Page[models.Post]{}, fmt.Errorf("resolve followed authors: %w", err)
	}

	posts, err := c.db.ListPostsByAuthors(ctx, authorIDs)
	if err != nil {
		return paginate.Page[models.Post]{}, fmt.Errorf("list followed posts: %w", err)
	}

	return paginate.Paginate(posts, paginate.DefaultPageSize, page), nil
}

// PostDetail resolves one post with its comments.
func (c *Composer) PostDetail(ctx context.Context, postID int64) (PostView, error) {
	post, err := c.db.GetPost(ctx, postID)
	if err != nil {
		return PostView{}, fmt.Errorf("resolve post: %w", err)
	}

	comments, err := c.db.ListCommentsByPost(ctx, postID)
	if err != nil {
		return PostView{}, fmt.Errorf("list comments: %w", err)
	}

	count, err := c.db.CountPostsByAuthor(ctx, post.AuthorID)
	if err != nil {
		return PostView{}, fmt.Errorf("count author posts: %w", err)
	}

	return PostView{
		Post:      post,
		Comments:  comments,
		PostCount: count,
		Links:     Links(post.Text),
	}, nil
}
