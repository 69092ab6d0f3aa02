package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/feedapp/feedsync-client/internal/feed"
	"github.com/feedapp/feedsync-client/internal/logger"
	"github.com/feedapp/feedsync-client/internal/model"
)

// ErrNotEditing signals an edit-mode operation on a post that is not in
// edit mode.
var ErrNotEditing = errors.New("post is not in edit mode")

type draft struct {
	content string
	image   string
}

// Interaction governs per-post user actions: edit-mode entry and exit,
// like toggling, commenting, creation and deletion. It validates and
// authorizes locally, dispatches to the repository, and applies only the
// canonical server-confirmed result to the feed store. No local state is
// mutated before a remote call resolves.
type Interaction struct {
	repo    model.Repository
	store   *feed.Store
	session model.Session
	logger  *logger.Logger

	mu            sync.Mutex
	locks         map[string]*sync.Mutex
	drafts        map[string]*draft
	compose       draft
	commentDrafts map[string]string
}

// NewInteraction creates an interaction controller bound to one session.
func NewInteraction(
	repo model.Repository,
	store *feed.Store,
	session model.Session,
	logger *logger.Logger,
) *Interaction {
	return &Interaction{
		repo:          repo,
		store:         store,
		session:       session,
		logger:        logger,
		locks:         make(map[string]*sync.Mutex),
		drafts:        make(map[string]*draft),
		commentDrafts: make(map[string]string),
	}
}

// lockFor returns the mutex serializing remote mutations for one post id.
// Two in-flight mutations on the same post must not interleave their
// remote call and store application.
func (s *Interaction) lockFor(postID string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()

	l, ok := s.locks[postID]
	if !ok {
		l = &sync.Mutex{}
		s.locks[postID] = l
	}
	return l
}

func (s *Interaction) currentUser() (model.User, error) {
	user, ok := s.session.CurrentUser()
	if !ok {
		return model.User{}, fmt.Errorf("%w: no authenticated user", model.ErrForbidden)
	}
	return user, nil
}

// Load fetches the feed from the repository and replaces the store's
// collection, preserving the server-returned order.
func (s *Interaction) Load(ctx context.Context) error {
	if _, err := s.currentUser(); err != nil {
		return err
	}

	posts, err := s.repo.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to list posts: %w", err)
	}

	s.store.Load(posts)
	return nil
}

// BeginEdit enters edit mode for a post, capturing a working copy of its
// content and image so cancellation never touches the stored post. Only
// the post's author may edit. Re-entering edit mode keeps the existing
// working copy.
func (s *Interaction) BeginEdit(postID string) error {
	user, err := s.currentUser()
	if err != nil {
		return err
	}

	post, ok := s.store.Get(postID)
	if !ok {
		return fmt.Errorf("%w: %s", model.ErrNotFound, postID)
	}
	if post.Author.ID != user.ID {
		return fmt.Errorf("%w: user %s is not the author of post %s", model.ErrForbidden, user.ID, postID)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, editing := s.drafts[postID]; !editing {
		s.drafts[postID] = &draft{content: post.Content, image: post.Image}
	}
	return nil
}

// CancelEdit discards the working copy and exits edit mode. No network
// call, no store mutation.
func (s *Interaction) CancelEdit(postID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.drafts, postID)
}

// IsEditing reports whether the post is in edit mode.
func (s *Interaction) IsEditing(postID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.drafts[postID]
	return ok
}

// SetDraft updates the working copy of a post in edit mode.
func (s *Interaction) SetDraft(postID, content, image string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	d, ok := s.drafts[postID]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotEditing, postID)
	}
	d.content = content
	d.image = image
	return nil
}

// Draft returns the working copy of a post in edit mode.
func (s *Interaction) Draft(postID string) (content, image string, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	d, found := s.drafts[postID]
	if !found {
		return "", "", false
	}
	return d.content, d.image, true
}

// SaveEdit submits the working copy. Empty content fails validation and
// the post stays in edit mode, as does any repository failure; neither
// the working copy nor the stored post is touched until the update is
// confirmed. On confirmation the canonical post replaces the stored one
// and edit mode ends. If the post was deleted concurrently the draft is
// discarded and the save resolves as a no-op.
func (s *Interaction) SaveEdit(ctx context.Context, postID string) error {
	if _, err := s.currentUser(); err != nil {
		return err
	}

	s.mu.Lock()
	d, ok := s.drafts[postID]
	if !ok {
		s.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrNotEditing, postID)
	}
	content, image := d.content, d.image
	s.mu.Unlock()

	if strings.TrimSpace(content) == "" {
		return fmt.Errorf("%w: post content cannot be empty", model.ErrValidation)
	}

	lock := s.lockFor(postID)
	lock.Lock()
	defer lock.Unlock()

	post, err := s.repo.Update(ctx, model.UpdatePostParams{
		PostID:  postID,
		Content: content,
		Image:   image,
	})
	if err != nil {
		return fmt.Errorf("failed to update post: %w", err)
	}

	if err := s.store.Replace(post); err != nil {
		if errors.Is(err, model.ErrNotFound) {
			s.logger.Warn("Post deleted during edit, discarding save", "post_id", postID)
		} else {
			return fmt.Errorf("failed to apply updated post: %w", err)
		}
	}

	s.mu.Lock()
	delete(s.drafts, postID)
	s.mu.Unlock()
	return nil
}

// ToggleLike asks the backend to flip the acting user's membership in
// the post's like set. The toggle decision is made authoritatively
// server-side from current membership; the client never flips a local
// boolean. The canonical post replaces the stored one; a miss from a
// concurrent delete is absorbed.
func (s *Interaction) ToggleLike(ctx context.Context, postID string) error {
	user, err := s.currentUser()
	if err != nil {
		return err
	}

	lock := s.lockFor(postID)
	lock.Lock()
	defer lock.Unlock()

	post, err := s.repo.ToggleLike(ctx, postID, user.ID)
	if err != nil {
		return fmt.Errorf("failed to toggle like: %w", err)
	}

	if err := s.store.Replace(post); err != nil {
		if errors.Is(err, model.ErrNotFound) {
			s.logger.Warn("Post deleted during like toggle, dropping result", "post_id", postID)
			return nil
		}
		return fmt.Errorf("failed to apply liked post: %w", err)
	}
	return nil
}

// SetCommentDraft stores the comment input buffer for a post.
func (s *Interaction) SetCommentDraft(postID, text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.commentDrafts[postID] = text
}

// CommentDraft returns the comment input buffer for a post.
func (s *Interaction) CommentDraft(postID string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.commentDrafts[postID]
}

// AddComment submits a comment. Text empty after trimming fails
// validation before any remote call. On confirmation the canonical post
// (new comment appended) replaces the stored one and the post's comment
// buffer is cleared; on failure the buffer is preserved for retry.
func (s *Interaction) AddComment(ctx context.Context, postID, text string) error {
	if _, err := s.currentUser(); err != nil {
		return err
	}

	if strings.TrimSpace(text) == "" {
		return fmt.Errorf("%w: comment text cannot be empty", model.ErrValidation)
	}

	lock := s.lockFor(postID)
	lock.Lock()
	defer lock.Unlock()

	post, err := s.repo.AddComment(ctx, postID, text)
	if err != nil {
		return fmt.Errorf("failed to add comment: %w", err)
	}

	if err := s.store.Replace(post); err != nil {
		if errors.Is(err, model.ErrNotFound) {
			s.logger.Warn("Post deleted during comment, dropping result", "post_id", postID)
		} else {
			return fmt.Errorf("failed to apply commented post: %w", err)
		}
	}

	s.mu.Lock()
	delete(s.commentDrafts, postID)
	s.mu.Unlock()
	return nil
}

// SetCompose stores the compose buffer for a new post.
func (s *Interaction) SetCompose(content, image string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.compose = draft{content: content, image: image}
}

// Compose returns the compose buffer.
func (s *Interaction) Compose() (content, image string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.compose.content, s.compose.image
}

// CreatePost submits a new post. Content empty after trimming fails
// validation before any remote call. On confirmation the canonical
// created post is inserted at the head of the feed and the compose
// buffer is cleared; failures leave the draft intact.
func (s *Interaction) CreatePost(ctx context.Context, content, image string) (model.Post, error) {
	if _, err := s.currentUser(); err != nil {
		return model.Post{}, err
	}

	if strings.TrimSpace(content) == "" {
		return model.Post{}, fmt.Errorf("%w: post content cannot be empty", model.ErrValidation)
	}

	post, err := s.repo.Create(ctx, model.CreatePostParams{
		Content: content,
		Image:   image,
	})
	if err != nil {
		return model.Post{}, fmt.Errorf("failed to create post: %w", err)
	}

	if err := s.store.InsertAtHead(post); err != nil {
		return model.Post{}, fmt.Errorf("failed to insert created post: %w", err)
	}

	s.mu.Lock()
	s.compose = draft{}
	s.mu.Unlock()
	return post, nil
}

// DeletePost removes a post. Only the author may delete; the ownership
// check rejects locally without a network call. On confirmation the
// local copy is dropped along with any drafts for the post. A post that
// already vanished server-side counts as deleted.
func (s *Interaction) DeletePost(ctx context.Context, postID string) error {
	user, err := s.currentUser()
	if err != nil {
		return err
	}

	post, ok := s.store.Get(postID)
	if !ok {
		return fmt.Errorf("%w: %s", model.ErrNotFound, postID)
	}
	if post.Author.ID != user.ID {
		return fmt.Errorf("%w: user %s is not the author of post %s", model.ErrForbidden, user.ID, postID)
	}

	lock := s.lockFor(postID)
	lock.Lock()
	defer lock.Unlock()

	if err := s.repo.Delete(ctx, postID); err != nil {
		if !errors.Is(err, model.ErrNotFound) {
			return fmt.Errorf("failed to delete post: %w", err)
		}
		s.logger.Warn("Post already deleted server-side", "post_id", postID)
	}

	s.store.Remove(postID)

	s.mu.Lock()
	delete(s.drafts, postID)
	delete(s.commentDrafts, postID)
	s.mu.Unlock()
	return nil
}
