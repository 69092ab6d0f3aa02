// Package feed owns the ordered post collection for the current session.
// All mutation goes through server-confirmed canonical posts; the store
// never guesses state locally.
package feed

import (
	"fmt"
	"sync"

	"github.com/feedapp/feedsync-client/internal/model"
)

// Store holds the ordered post collection. New posts are inserted at the
// head; the initial load order is preserved as given. Post ids are unique
// within the store at all times.
type Store struct {
	mu    sync.RWMutex
	posts []model.Post
	ids   map[string]struct{}
}

// NewStore creates an empty feed store.
func NewStore() *Store {
	return &Store{
		ids: make(map[string]struct{}),
	}
}

// Load replaces the entire collection with the given posts, preserving
// their order. Used once per session mount.
func (s *Store) Load(posts []model.Post) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.posts = make([]model.Post, len(posts))
	copy(s.posts, posts)
	s.ids = make(map[string]struct{}, len(posts))
	for _, p := range posts {
		s.ids[p.ID] = struct{}{}
	}
}

// InsertAtHead prepends a confirmed created post. Fails with
// ErrDuplicateID if the id is already present, which indicates a
// repository contract violation.
func (s *Store) InsertAtHead(post model.Post) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.ids[post.ID]; ok {
		return fmt.Errorf("%w: %s", model.ErrDuplicateID, post.ID)
	}

	s.posts = append([]model.Post{post}, s.posts...)
	s.ids[post.ID] = struct{}{}
	return nil
}

// Replace overwrites the stored post with the same id wholesale with the
// server-returned value. Fails with ErrNotFound, leaving the collection
// unchanged, when the id is absent (a stale operation racing a
// concurrent delete).
func (s *Store) Replace(post model.Post) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.posts {
		if s.posts[i].ID == post.ID {
			s.posts[i] = post
			return nil
		}
	}

	return fmt.Errorf("%w: %s", model.ErrNotFound, post.ID)
}

// Remove drops the post with the given id. Removing an absent id is a
// no-op so a duplicate delete confirmation cannot fail.
func (s *Store) Remove(postID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.ids[postID]; !ok {
		return
	}

	for i := range s.posts {
		if s.posts[i].ID == postID {
			s.posts = append(s.posts[:i], s.posts[i+1:]...)
			break
		}
	}
	delete(s.ids, postID)
}

// All returns a snapshot of the collection in feed order.
func (s *Store) All() []model.Post {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snapshot := make([]model.Post, len(s.posts))
	copy(snapshot, s.posts)
	return snapshot
}

// Get returns the stored post with the given id.
func (s *Store) Get(postID string) (model.Post, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for i := range s.posts {
		if s.posts[i].ID == postID {
			return s.posts[i], true
		}
	}

	return model.Post{}, false
}

// Len returns the number of posts in the feed.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.posts)
}
