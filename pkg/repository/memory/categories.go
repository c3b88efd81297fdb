package memory

import (
	"cmp"
	"context"
	"slices"
	"strings"

	"github.com/artem13815/blog/pkg/category"
)

// CategoryRepository implements category.Repository.
type CategoryRepository struct{ s *Store }

func (r *CategoryRepository) Create(_ context.Context, d category.Draft) (category.Category, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.nameTaken(d.Name, 0) {
		return category.Category{}, category.ErrDuplicateName
	}
	r.s.nextCategory++
	now := r.s.stamp()
	c := category.Category{
		ID:          r.s.nextCategory,
		Name:        d.Name,
		Description: d.Description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	r.s.categories[c.ID] = c
	return r.hydrate(c), nil
}

func (r *CategoryRepository) GetByID(_ context.Context, id int64) (category.Category, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	c, ok := r.s.categories[id]
	if !ok {
		return category.Category{}, category.ErrNotFound
	}
	return r.hydrate(c), nil
}

func (r *CategoryRepository) List(_ context.Context) ([]category.Category, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]category.Category, 0, len(r.s.categories))
	for _, c := range r.s.categories {
		out = append(out, r.hydrate(c))
	}
	slices.SortFunc(out, func(a, b category.Category) int { return strings.Compare(a.Name, b.Name) })
	return out, nil
}

func (r *CategoryRepository) Update(_ context.Context, id int64, p category.Patch) (category.Category, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.categories[id]
	if !ok {
		return category.Category{}, category.ErrNotFound
	}
	if p.Name != nil {
		if r.nameTaken(*p.Name, id) {
			return category.Category{}, category.ErrDuplicateName
		}
		c.Name = *p.Name
	}
	if p.Description != nil {
		c.Description = *p.Description
	}
	c.UpdatedAt = r.s.stamp()
	r.s.categories[id] = c
	return r.hydrate(c), nil
}

func (r *CategoryRepository) Delete(_ context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.categories[id]; !ok {
		return category.ErrNotFound
	}
	delete(r.s.categories, id)
	for _, set := range r.s.links {
		delete(set, id)
	}
	return nil
}

func (r *CategoryRepository) nameTaken(name string, except int64) bool {
	for id, c := range r.s.categories {
		if id != except && c.Name == name {
			return true
		}
	}
	return false
}

func (r *CategoryRepository) hydrate(c category.Category) category.Category {
	c.Posts = []category.PostRef{}
	for pid, set := range r.s.links {
		if _, ok := set[c.ID]; !ok {
			continue
		}
		if p, ok := r.s.posts[pid]; ok {
			c.Posts = append(c.Posts, category.PostRef{ID: p.ID, Title: p.Title, Slug: p.Slug, Published: p.Published})
		}
	}
	slices.SortFunc(c.Posts, func(a, b category.PostRef) int { return cmp.Compare(a.ID, b.ID) })
	return c
}
