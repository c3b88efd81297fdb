// Package memory is an in-process entity store with the same constraints as
// the Postgres schema: unique email, unique category name, unique post slug,
// and a post/category join that cascades from both sides.
package memory

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/artem13815/blog/pkg/auth"
	"github.com/artem13815/blog/pkg/category"
	"github.com/artem13815/blog/pkg/post"
)

type Store struct {
	mu         sync.RWMutex
	users      map[int64]auth.User
	posts      map[int64]post.Post
	categories map[int64]category.Category
	// post id -> set of category ids
	links map[int64]map[int64]struct{}

	nextUser, nextPost, nextCategory int64
	now                              func() time.Time
	last                             time.Time
	closed                           bool
}

var errClosed = errors.New("memory store closed")

func New() *Store {
	return &Store{
		users:      make(map[int64]auth.User),
		posts:      make(map[int64]post.Post),
		categories: make(map[int64]category.Category),
		links:      make(map[int64]map[int64]struct{}),
		now:        func() time.Time { return time.Now().UTC() },
	}
}

func (s *Store) Users() *UserRepository          { return &UserRepository{s: s} }
func (s *Store) Posts() *PostRepository          { return &PostRepository{s: s} }
func (s *Store) Categories() *CategoryRepository { return &CategoryRepository{s: s} }

// stamp returns a strictly increasing timestamp so ordering by time is stable.
// Callers hold the write lock.
func (s *Store) stamp() time.Time {
	t := s.now()
	if !t.After(s.last) {
		t = s.last.Add(time.Microsecond)
	}
	s.last = t
	return t
}

// Ping reports whether the store is usable; it fails only after Close.
func (s *Store) Ping(context.Context) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return errClosed
	}
	return nil
}

// Close releases the store. Data is dropped.
func (s *Store) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	clear(s.users)
	clear(s.posts)
	clear(s.categories)
	clear(s.links)
}
