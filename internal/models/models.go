package models

import "time"

// Author is the identity reference owned by the auth subsystem.
// Listing code only ever needs the id and the display name.
type Author struct {
	ID       int64
	Username string
}

type Group struct {
	ID          int64
	Slug        string
	Title       string
	Description string
}

type Post struct {
	ID         int64
	AuthorID   int64
	Author     string
	GroupID    *int64
	GroupSlug  string
	GroupTitle string
	Text       string
	ImagePath  string
	CreatedAt  time.Time
}

type Comment struct {
	ID        int64
	PostID    int64
	AuthorID  int64
	Author    string
	Text      string
	CreatedAt time.Time
}
