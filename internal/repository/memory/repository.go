// Package memory implements the post repository contract in process.
// It stands in for the backend in local development and in tests that
// need authoritative toggle and ownership semantics.
package memory

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/feedapp/feedsync-client/internal/model"
	"github.com/google/uuid"
)

// state is the backend data, shared between all session views.
type state struct {
	mu    sync.Mutex
	posts []model.Post
	now   func() time.Time
}

// Repository is an in-memory backend acting on behalf of one session's
// user. Like the real backend it assigns ids, decides like toggles from
// current membership, and enforces ownership on update and delete.
type Repository struct {
	session model.Session
	state   *state
}

// NewRepository creates an empty in-memory backend acting on behalf of
// the session's user.
func NewRepository(session model.Session) *Repository {
	return &Repository{
		session: session,
		state:   &state{now: time.Now},
	}
}

// As returns a view over the same backend data acting as another
// session, the way a second device of the same or another user would.
func (r *Repository) As(session model.Session) *Repository {
	return &Repository{session: session, state: r.state}
}

func (r *Repository) actingUser() (model.User, error) {
	user, ok := r.session.CurrentUser()
	if !ok {
		return model.User{}, fmt.Errorf("%w: no authenticated user", model.ErrForbidden)
	}
	return user, nil
}

func (s *state) find(postID string) (int, error) {
	for i := range s.posts {
		if s.posts[i].ID == postID {
			return i, nil
		}
	}
	return 0, fmt.Errorf("%w: %s", model.ErrNotFound, postID)
}

// clone deep-copies a post so callers never alias repository state.
func clone(p model.Post) model.Post {
	out := p
	out.Likes = slices.Clone(p.Likes)
	out.Comments = slices.Clone(p.Comments)
	return out
}

// List returns all posts, most recent first.
func (r *Repository) List(ctx context.Context) ([]model.Post, error) {
	r.state.mu.Lock()
	defer r.state.mu.Unlock()

	posts := make([]model.Post, 0, len(r.state.posts))
	for i := len(r.state.posts) - 1; i >= 0; i-- {
		posts = append(posts, clone(r.state.posts[i]))
	}
	return posts, nil
}

// Create stores a new post with a fresh id, the acting user as author,
// and empty likes and comments.
func (r *Repository) Create(ctx context.Context, params model.CreatePostParams) (model.Post, error) {
	user, err := r.actingUser()
	if err != nil {
		return model.Post{}, err
	}
	if strings.TrimSpace(params.Content) == "" {
		return model.Post{}, fmt.Errorf("%w: post content cannot be empty", model.ErrValidation)
	}

	r.state.mu.Lock()
	defer r.state.mu.Unlock()

	post := model.Post{
		ID:        uuid.NewString(),
		Author:    user,
		Content:   params.Content,
		Image:     params.Image,
		CreatedAt: r.state.now(),
		Likes:     []string{},
		Comments:  []model.Comment{},
	}
	r.state.posts = append(r.state.posts, post)
	return clone(post), nil
}

// Update merges new content into an existing post owned by the acting
// user.
func (r *Repository) Update(ctx context.Context, params model.UpdatePostParams) (model.Post, error) {
	user, err := r.actingUser()
	if err != nil {
		return model.Post{}, err
	}
	if strings.TrimSpace(params.Content) == "" {
		return model.Post{}, fmt.Errorf("%w: post content cannot be empty", model.ErrValidation)
	}

	r.state.mu.Lock()
	defer r.state.mu.Unlock()

	i, err := r.state.find(params.PostID)
	if err != nil {
		return model.Post{}, err
	}
	if r.state.posts[i].Author.ID != user.ID {
		return model.Post{}, fmt.Errorf("%w: user %s is not the author of post %s", model.ErrForbidden, user.ID, params.PostID)
	}

	r.state.posts[i].Content = params.Content
	r.state.posts[i].Image = params.Image
	return clone(r.state.posts[i]), nil
}

// Delete destroys a post owned by the acting user.
func (r *Repository) Delete(ctx context.Context, postID string) error {
	user, err := r.actingUser()
	if err != nil {
		return err
	}

	r.state.mu.Lock()
	defer r.state.mu.Unlock()

	i, err := r.state.find(postID)
	if err != nil {
		return err
	}
	if r.state.posts[i].Author.ID != user.ID {
		return fmt.Errorf("%w: user %s is not the author of post %s", model.ErrForbidden, user.ID, postID)
	}

	r.state.posts = append(r.state.posts[:i], r.state.posts[i+1:]...)
	return nil
}

// ToggleLike flips the user's membership in the like set based on
// current membership.
func (r *Repository) ToggleLike(ctx context.Context, postID string, userID string) (model.Post, error) {
	r.state.mu.Lock()
	defer r.state.mu.Unlock()

	i, err := r.state.find(postID)
	if err != nil {
		return model.Post{}, err
	}

	likes := r.state.posts[i].Likes
	if j := slices.Index(likes, userID); j >= 0 {
		r.state.posts[i].Likes = append(likes[:j], likes[j+1:]...)
	} else {
		r.state.posts[i].Likes = append(likes, userID)
	}
	return clone(r.state.posts[i]), nil
}

// AddComment appends a comment by the acting user.
func (r *Repository) AddComment(ctx context.Context, postID string, text string) (model.Post, error) {
	user, err := r.actingUser()
	if err != nil {
		return model.Post{}, err
	}
	if strings.TrimSpace(text) == "" {
		return model.Post{}, fmt.Errorf("%w: comment text cannot be empty", model.ErrValidation)
	}

	r.state.mu.Lock()
	defer r.state.mu.Unlock()

	i, err := r.state.find(postID)
	if err != nil {
		return model.Post{}, err
	}

	r.state.posts[i].Comments = append(r.state.posts[i].Comments, model.Comment{
		Author:    user,
		Text:      text,
		CreatedAt: r.state.now(),
	})
	return clone(r.state.posts[i]), nil
}
