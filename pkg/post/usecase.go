package post

import (
	"context"
	"strings"

	"github.com/artem13815/blog/pkg/validate"
)

// UseCase covers listing, lookup and admin mutations of posts.
type UseCase interface {
	List(ctx context.Context, q Query) (Page, error)
	Get(ctx context.Context, id int64) (Post, error)
	GetBySlug(ctx context.Context, slug string) (Post, error)
	Create(ctx context.Context, authorID int64, d Draft) (Post, error)
	Update(ctx context.Context, id int64, p Patch) (Post, error)
	Delete(ctx context.Context, id int64) (Post, error)
	SetPublished(ctx context.Context, id int64, published bool) (Post, error)
}

type service struct {
	repo   Repository
	limits Limits
}

func NewService(repo Repository, limits Limits) UseCase {
	return &service{repo: repo, limits: limits}
}

func (s *service) List(ctx context.Context, q Query) (Page, error) {
	q = q.Normalize(s.limits)
	items, total, err := s.repo.List(ctx, q)
	if err != nil {
		return Page{}, err
	}
	return NewPage(items, total, q.Page, q.Limit), nil
}

func (s *service) Get(ctx context.Context, id int64) (Post, error) {
	if id < 1 {
		return Post{}, ErrNotFound
	}
	return s.repo.GetByID(ctx, id)
}

func (s *service) GetBySlug(ctx context.Context, slug string) (Post, error) {
	slug = strings.ToLower(strings.TrimSpace(slug))
	if slug == "" {
		return Post{}, ErrNotFound
	}
	return s.repo.GetBySlug(ctx, slug)
}

func (s *service) Create(ctx context.Context, authorID int64, d Draft) (Post, error) {
	d.Title = strings.TrimSpace(d.Title)
	d.Content = strings.TrimSpace(d.Content)
	d.Excerpt = strings.TrimSpace(d.Excerpt)
	d.FeaturedImage = strings.TrimSpace(d.FeaturedImage)
	if err := validateFields(&d.Title, &d.Content, &d.Excerpt, &d.FeaturedImage); err != nil {
		return Post{}, err
	}
	if err := validate.PositiveIDs("category ID", d.CategoryIDs); err != nil {
		return Post{}, err
	}
	if d.Excerpt == "" {
		d.Excerpt = Excerpt(d.Content, excerptLength)
	}
	base := d.Slug
	if strings.TrimSpace(base) == "" {
		base = d.Title
	}
	sl, err := uniqueSlug(ctx, Slugify(base), s.repo.SlugExists)
	if err != nil {
		return Post{}, err
	}
	d.Slug = sl
	d.AuthorID = authorID
	d.CategoryIDs = dedupe(d.CategoryIDs)
	return s.repo.Create(ctx, d)
}

func (s *service) Update(ctx context.Context, id int64, p Patch) (Post, error) {
	if id < 1 {
		return Post{}, ErrNotFound
	}
	trim(p.Title)
	trim(p.Content)
	trim(p.Excerpt)
	trim(p.FeaturedImage)
	if err := validateFields(p.Title, p.Content, p.Excerpt, p.FeaturedImage); err != nil {
		return Post{}, err
	}
	if p.Slug != nil {
		sl := Slugify(*p.Slug)
		p.Slug = &sl
	}
	if p.CategoryIDs != nil {
		if err := validate.PositiveIDs("category ID", *p.CategoryIDs); err != nil {
			return Post{}, err
		}
		ids := dedupe(*p.CategoryIDs)
		p.CategoryIDs = &ids
	}
	return s.repo.Update(ctx, id, p)
}

func (s *service) Delete(ctx context.Context, id int64) (Post, error) {
	if id < 1 {
		return Post{}, ErrNotFound
	}
	return s.repo.Delete(ctx, id)
}

func (s *service) SetPublished(ctx context.Context, id int64, published bool) (Post, error) {
	if id < 1 {
		return Post{}, ErrNotFound
	}
	return s.repo.SetPublished(ctx, id, published)
}

// validateFields checks the optional-shaped fields shared by create and update.
func validateFields(title, content, excerpt, image *string) error {
	if title != nil {
		if err := validate.Length("Title", *title, 1, 200); err != nil {
			return err
		}
	}
	if content != nil && *content == "" {
		return validate.Length("Content", "", 1, 0)
	}
	if excerpt != nil {
		if err := validate.Length("Excerpt", *excerpt, 0, 500); err != nil {
			return err
		}
	}
	if image != nil && *image != "" {
		if err := validate.URL("Featured image", *image); err != nil {
			return err
		}
	}
	return nil
}

func trim(s *string) {
	if s != nil {
		*s = strings.TrimSpace(*s)
	}
}

func dedupe(ids []int64) []int64 {
	out := make([]int64, 0, len(ids))
	seen := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
