package category

import (
	"context"
	"time"

	"github.com/artem13815/blog/pkg/apperr"
)

// Category groups posts; the relation is many-to-many.
type Category struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Posts       []PostRef `json:"posts"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// PostRef is a post as listed under a category.
type PostRef struct {
	ID        int64  `json:"id"`
	Title     string `json:"title"`
	Slug      string `json:"slug"`
	Published bool   `json:"published"`
}

type Draft struct {
	Name        string
	Description string
}

// Patch holds optional changes; nil fields are left untouched.
type Patch struct {
	Name        *string
	Description *string
}

var (
	ErrNotFound      = apperr.New(apperr.KindNotFound, "Category not found")
	ErrDuplicateName = apperr.New(apperr.KindConflict, "Category name already exists")
)

// Repository is the category side of the entity store.
// Name uniqueness is a store constraint reported as ErrDuplicateName; Delete
// removes join rows but never the posts behind them.
type Repository interface {
	Create(ctx context.Context, d Draft) (Category, error)
	GetByID(ctx context.Context, id int64) (Category, error)
	List(ctx context.Context) ([]Category, error)
	Update(ctx context.Context, id int64, p Patch) (Category, error)
	Delete(ctx context.Context, id int64) error
}
