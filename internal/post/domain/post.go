package domain

import (
	"context"
	"time"
)

// Media holds the attachment URLs of a post, split by kind.
type Media struct {
	Images []string
	Videos []string
}

// Post is a feed entry. PostID is the public uuid identifier; the numeric ID
// never leaves the database layer.
type Post struct {
	ID        int64
	PostID    string
	AuthorID  int64
	Type      string
	Content   string
	Media     Media
	CreatedAt time.Time
	UpdatedAt time.Time
}

type PostRepository interface {
	// Create persists a new post and fills in the generated id and timestamps.
	Create(ctx context.Context, post *Post) error

	// GetByPostID returns (nil, nil) when no post matches.
	GetByPostID(ctx context.Context, postID string) (*Post, error)

	// List returns every post, newest first.
	List(ctx context.Context) ([]*Post, error)

	// Update rewrites type and content of the author's own post and returns
	// the updated row, or (nil, nil) when the post does not exist or belongs
	// to someone else.
	Update(ctx context.Context, postID string, authorID int64, postType, content string) (*Post, error)

	// Delete removes the author's own post. Deleting an absent or foreign
	// post is not an error.
	Delete(ctx context.Context, postID string, authorID int64) error
}
