package model

import (
	"context"
	"slices"
	"time"
)

// Repository defines the remote operations against the post backend.
// Mutating operations return the canonical post representation, which
// is the only state the client ever applies locally.
type Repository interface {
	List(ctx context.Context) ([]Post, error)
	Create(ctx context.Context, params CreatePostParams) (Post, error)
	Update(ctx context.Context, params UpdatePostParams) (Post, error)
	Delete(ctx context.Context, postID string) error
	ToggleLike(ctx context.Context, postID string, userID string) (Post, error)
	AddComment(ctx context.Context, postID string, text string) (Post, error)
}

// Post represents a feed post as returned by the backend.
type Post struct {
	ID        string
	Author    User
	Content   string
	Image     string
	CreatedAt time.Time
	Likes     []string
	Comments  []Comment
}

// LikedBy reports whether the user id is a member of the post's like set.
func (p Post) LikedBy(userID string) bool {
	return slices.Contains(p.Likes, userID)
}

// Comment represents a post comment. Comments carry no id; their
// identity is their position in the post's comment sequence.
type Comment struct {
	Author    User
	Text      string
	CreatedAt time.Time
}

// CreatePostParams contains parameters to create a post.
type CreatePostParams struct {
	Content string
	Image   string
}

// UpdatePostParams contains parameters to update a post's content.
type UpdatePostParams struct {
	PostID  string
	Content string
	Image   string
}
