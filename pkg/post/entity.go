package post

import (
	"context"
	"time"

	"github.com/artem13815/blog/pkg/apperr"
)

// Post is a blog entry together with its author summary and categories.
type Post struct {
	ID            int64         `json:"id"`
	Title         string        `json:"title"`
	Content       string        `json:"content"`
	Excerpt       string        `json:"excerpt"`
	Slug          string        `json:"slug"`
	FeaturedImage string        `json:"featuredImage,omitempty"`
	Published     bool          `json:"published"`
	ViewCount     int64         `json:"viewCount"`
	AuthorID      int64         `json:"authorId"`
	Author        *Author       `json:"author,omitempty"`
	Categories    []CategoryRef `json:"categories"`
	CreatedAt     time.Time     `json:"createdAt"`
	UpdatedAt     time.Time     `json:"updatedAt"`
}

// Author is the public projection of a post's user.
type Author struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// CategoryRef is a category as embedded in a post.
type CategoryRef struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// Draft is the input for a new post. Slug is final when it reaches the store.
type Draft struct {
	Title         string
	Content       string
	Excerpt       string
	Slug          string
	FeaturedImage string
	Published     bool
	AuthorID      int64
	CategoryIDs   []int64
}

// Patch holds optional changes; nil fields are left untouched.
// A non-nil CategoryIDs replaces the whole association set.
type Patch struct {
	Title         *string
	Content       *string
	Excerpt       *string
	Slug          *string
	FeaturedImage *string
	Published     *bool
	CategoryIDs   *[]int64
}

var (
	ErrNotFound         = apperr.New(apperr.KindNotFound, "Post not found")
	ErrCategoryNotFound = apperr.New(apperr.KindNotFound, "Category not found")
	ErrAuthorNotFound   = apperr.New(apperr.KindNotFound, "Author not found")
	ErrDuplicateSlug    = apperr.New(apperr.KindConflict, "Slug already exists")
)

// Repository is the post side of the entity store.
// Implementations translate missing rows and constraint violations into the
// errors above.
type Repository interface {
	Create(ctx context.Context, d Draft) (Post, error)
	GetByID(ctx context.Context, id int64) (Post, error)
	GetBySlug(ctx context.Context, slug string) (Post, error)
	SlugExists(ctx context.Context, slug string) (bool, error)
	List(ctx context.Context, q Query) ([]Post, int, error)
	Update(ctx context.Context, id int64, p Patch) (Post, error)
	SetPublished(ctx context.Context, id int64, published bool) (Post, error)
	// Delete returns the post as it was before removal.
	Delete(ctx context.Context, id int64) (Post, error)
}
