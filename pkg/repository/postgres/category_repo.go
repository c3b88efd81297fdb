package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/artem13815/blog/pkg/category"
)

// CategoryRepository implements category.Repository.
type CategoryRepository struct {
	pool *pgxpool.Pool
}

func NewCategoryRepository(pool *pgxpool.Pool) *CategoryRepository {
	return &CategoryRepository{pool: pool}
}

const categorySelect = `
SELECT c.id, c.name, c.description, c.created_at, c.updated_at,
	COALESCE((
		SELECT json_agg(json_build_object('id', p.id, 'title', p.title, 'slug', p.slug, 'published', p.published) ORDER BY p.id)
		FROM post_categories pc
		JOIN posts p ON p.id = pc.post_id
		WHERE pc.category_id = c.id
	), '[]') AS posts
FROM categories c`

func scanCategory(row pgx.Row) (category.Category, error) {
	var c category.Category
	var posts []byte
	if err := row.Scan(&c.ID, &c.Name, &c.Description, &c.CreatedAt, &c.UpdatedAt, &posts); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return category.Category{}, category.ErrNotFound
		}
		return category.Category{}, err
	}
	c.CreatedAt = c.CreatedAt.UTC()
	c.UpdatedAt = c.UpdatedAt.UTC()
	c.Posts = []category.PostRef{}
	if err := json.Unmarshal(posts, &c.Posts); err != nil {
		return category.Category{}, fmt.Errorf("decode posts of category %d: %w", c.ID, err)
	}
	return c, nil
}

func translateCategoryErr(err error) error {
	if _, ok := violation(err, codeUniqueViolation); ok {
		return category.ErrDuplicateName
	}
	return err
}

func (r *CategoryRepository) Create(ctx context.Context, d category.Draft) (category.Category, error) {
	var id int64
	err := r.pool.QueryRow(ctx, `
INSERT INTO categories (name, description) VALUES ($1, $2) RETURNING id
`, d.Name, d.Description).Scan(&id)
	if err != nil {
		return category.Category{}, translateCategoryErr(err)
	}
	return r.GetByID(ctx, id)
}

func (r *CategoryRepository) GetByID(ctx context.Context, id int64) (category.Category, error) {
	return scanCategory(r.pool.QueryRow(ctx, categorySelect+` WHERE c.id = $1`, id))
}

func (r *CategoryRepository) List(ctx context.Context) ([]category.Category, error) {
	rows, err := r.pool.Query(ctx, categorySelect+` ORDER BY c.name`)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()
	res := []category.Category{}
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, err
		}
		res = append(res, c)
	}
	return res, rows.Err()
}

func (r *CategoryRepository) Update(ctx context.Context, id int64, p category.Patch) (category.Category, error) {
	tag, err := r.pool.Exec(ctx, `
UPDATE categories SET
	name = COALESCE($2, name),
	description = COALESCE($3, description),
	updated_at = now()
WHERE id = $1
`, id, p.Name, p.Description)
	if err != nil {
		return category.Category{}, translateCategoryErr(err)
	}
	if tag.RowsAffected() == 0 {
		return category.Category{}, category.ErrNotFound
	}
	return r.GetByID(ctx, id)
}

// Delete relies on ON DELETE CASCADE to drop join rows; posts are untouched.
func (r *CategoryRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return category.ErrNotFound
	}
	return nil
}
