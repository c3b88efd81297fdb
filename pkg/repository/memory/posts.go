package memory

import (
	"cmp"
	"context"
	"slices"
	"strings"

	"github.com/artem13815/blog/pkg/post"
)

// PostRepository implements post.Repository.
type PostRepository struct{ s *Store }

func (r *PostRepository) Create(_ context.Context, d post.Draft) (post.Post, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.users[d.AuthorID]; !ok {
		return post.Post{}, post.ErrAuthorNotFound
	}
	if r.slugTaken(d.Slug, 0) {
		return post.Post{}, post.ErrDuplicateSlug
	}
	if err := r.checkCategories(d.CategoryIDs); err != nil {
		return post.Post{}, err
	}
	r.s.nextPost++
	now := r.s.stamp()
	p := post.Post{
		ID:            r.s.nextPost,
		Title:         d.Title,
		Content:       d.Content,
		Excerpt:       d.Excerpt,
		Slug:          d.Slug,
		FeaturedImage: d.FeaturedImage,
		Published:     d.Published,
		AuthorID:      d.AuthorID,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	r.s.posts[p.ID] = p
	r.link(p.ID, d.CategoryIDs)
	return r.hydrate(p), nil
}

func (r *PostRepository) GetByID(_ context.Context, id int64) (post.Post, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	p, ok := r.s.posts[id]
	if !ok {
		return post.Post{}, post.ErrNotFound
	}
	return r.hydrate(p), nil
}

func (r *PostRepository) GetBySlug(_ context.Context, slug string) (post.Post, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, p := range r.s.posts {
		if p.Slug == slug {
			return r.hydrate(p), nil
		}
	}
	return post.Post{}, post.ErrNotFound
}

func (r *PostRepository) SlugExists(_ context.Context, slug string) (bool, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.slugTaken(slug, 0), nil
}

func (r *PostRepository) List(_ context.Context, q post.Query) ([]post.Post, int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	search := strings.ToLower(q.Search)
	matched := make([]post.Post, 0, len(r.s.posts))
	for _, p := range r.s.posts {
		if q.Published != nil && p.Published != *q.Published {
			continue
		}
		if q.AuthorID != nil && p.AuthorID != *q.AuthorID {
			continue
		}
		if q.Category != "" && !r.inCategory(p.ID, q.Category) {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(p.Title), search) &&
			!strings.Contains(strings.ToLower(p.Content), search) {
			continue
		}
		matched = append(matched, p)
	}

	slices.SortFunc(matched, func(a, b post.Post) int {
		c := compareBy(q.SortBy, a, b)
		if c == 0 {
			c = cmp.Compare(a.ID, b.ID)
		}
		if q.SortOrder == post.SortAsc {
			return c
		}
		return -c
	})

	total := len(matched)
	start := min(q.Offset(), total)
	end := total
	if q.Limit > 0 {
		end = min(start+q.Limit, total)
	}
	out := make([]post.Post, 0, end-start)
	for _, p := range matched[start:end] {
		out = append(out, r.hydrate(p))
	}
	return out, total, nil
}

func compareBy(f post.SortField, a, b post.Post) int {
	switch f {
	case post.SortUpdatedAt:
		return a.UpdatedAt.Compare(b.UpdatedAt)
	case post.SortTitle:
		// case-insensitive, ties in byte order
		if c := strings.Compare(strings.ToLower(a.Title), strings.ToLower(b.Title)); c != 0 {
			return c
		}
		return strings.Compare(a.Title, b.Title)
	case post.SortViewCount:
		return cmp.Compare(a.ViewCount, b.ViewCount)
	default:
		return a.CreatedAt.Compare(b.CreatedAt)
	}
}

func (r *PostRepository) Update(_ context.Context, id int64, patch post.Patch) (post.Post, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.posts[id]
	if !ok {
		return post.Post{}, post.ErrNotFound
	}
	if patch.Slug != nil && r.slugTaken(*patch.Slug, id) {
		return post.Post{}, post.ErrDuplicateSlug
	}
	if patch.CategoryIDs != nil {
		if err := r.checkCategories(*patch.CategoryIDs); err != nil {
			return post.Post{}, err
		}
	}
	if patch.Title != nil {
		p.Title = *patch.Title
	}
	if patch.Content != nil {
		p.Content = *patch.Content
	}
	if patch.Excerpt != nil {
		p.Excerpt = *patch.Excerpt
	}
	if patch.Slug != nil {
		p.Slug = *patch.Slug
	}
	if patch.FeaturedImage != nil {
		p.FeaturedImage = *patch.FeaturedImage
	}
	if patch.Published != nil {
		p.Published = *patch.Published
	}
	if patch.CategoryIDs != nil {
		delete(r.s.links, id)
		r.link(id, *patch.CategoryIDs)
	}
	p.UpdatedAt = r.s.stamp()
	r.s.posts[id] = p
	return r.hydrate(p), nil
}

func (r *PostRepository) SetPublished(ctx context.Context, id int64, published bool) (post.Post, error) {
	return r.Update(ctx, id, post.Patch{Published: &published})
}

func (r *PostRepository) Delete(_ context.Context, id int64) (post.Post, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.posts[id]
	if !ok {
		return post.Post{}, post.ErrNotFound
	}
	out := r.hydrate(p)
	delete(r.s.posts, id)
	delete(r.s.links, id)
	return out, nil
}

// helpers below expect the caller to hold the lock

func (r *PostRepository) slugTaken(slug string, except int64) bool {
	for id, p := range r.s.posts {
		if id != except && p.Slug == slug {
			return true
		}
	}
	return false
}

func (r *PostRepository) checkCategories(ids []int64) error {
	for _, id := range ids {
		if _, ok := r.s.categories[id]; !ok {
			return post.ErrCategoryNotFound
		}
	}
	return nil
}

func (r *PostRepository) link(postID int64, ids []int64) {
	if len(ids) == 0 {
		return
	}
	set := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	r.s.links[postID] = set
}

func (r *PostRepository) inCategory(postID int64, name string) bool {
	for cid := range r.s.links[postID] {
		if c, ok := r.s.categories[cid]; ok && c.Name == name {
			return true
		}
	}
	return false
}

func (r *PostRepository) hydrate(p post.Post) post.Post {
	if u, ok := r.s.users[p.AuthorID]; ok {
		p.Author = &post.Author{ID: u.ID, Name: u.Name, Email: u.Email}
	}
	p.Categories = make([]post.CategoryRef, 0, len(r.s.links[p.ID]))
	for cid := range r.s.links[p.ID] {
		c, ok := r.s.categories[cid]
		if !ok {
			continue
		}
		p.Categories = append(p.Categories, post.CategoryRef{ID: c.ID, Name: c.Name, Description: c.Description})
	}
	slices.SortFunc(p.Categories, func(a, b post.CategoryRef) int { return strings.Compare(a.Name, b.Name) })
	return p
}
