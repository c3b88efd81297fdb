package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/artem13815/blog/pkg/post"
)

// PostRepository implements post.Repository. Categories are aggregated with
// json_agg so a listing stays one round trip.
type PostRepository struct {
	pool *pgxpool.Pool
}

func NewPostRepository(pool *pgxpool.Pool) *PostRepository {
	return &PostRepository{pool: pool}
}

const postSelect = `
SELECT p.id, p.title, p.content, p.excerpt, p.slug, p.featured_image, p.published, p.view_count,
	p.author_id, u.name, u.email, p.created_at, p.updated_at,
	COALESCE((
		SELECT json_agg(json_build_object('id', c.id, 'name', c.name, 'description', c.description) ORDER BY c.name)
		FROM post_categories pc
		JOIN categories c ON c.id = pc.category_id
		WHERE pc.post_id = p.id
	), '[]') AS categories
FROM posts p
JOIN users u ON u.id = p.author_id`

var sortColumns = map[post.SortField]string{
	post.SortCreatedAt: "p.created_at",
	post.SortUpdatedAt: "p.updated_at",
	post.SortTitle:     "p.title",
	post.SortViewCount: "p.view_count",
}

func scanPost(row pgx.Row) (post.Post, error) {
	var p post.Post
	var a post.Author
	var cats []byte
	err := row.Scan(&p.ID, &p.Title, &p.Content, &p.Excerpt, &p.Slug, &p.FeaturedImage, &p.Published, &p.ViewCount,
		&p.AuthorID, &a.Name, &a.Email, &p.CreatedAt, &p.UpdatedAt, &cats)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return post.Post{}, post.ErrNotFound
		}
		return post.Post{}, err
	}
	a.ID = p.AuthorID
	p.Author = &a
	p.CreatedAt = p.CreatedAt.UTC()
	p.UpdatedAt = p.UpdatedAt.UTC()
	p.Categories = []post.CategoryRef{}
	if err := json.Unmarshal(cats, &p.Categories); err != nil {
		return post.Post{}, fmt.Errorf("decode categories of post %d: %w", p.ID, err)
	}
	return p, nil
}

// buildPostFilter turns the listing filters into a WHERE clause with
// positional arguments starting at $1. All filters are conjunctive.
func buildPostFilter(q post.Query) (string, []any) {
	var conds []string
	var args []any
	next := func(v any) string {
		args = append(args, v)
		return "$" + strconv.Itoa(len(args))
	}
	if q.Published != nil {
		conds = append(conds, "p.published = "+next(*q.Published))
	}
	if q.AuthorID != nil {
		conds = append(conds, "p.author_id = "+next(*q.AuthorID))
	}
	if q.Category != "" {
		conds = append(conds, `EXISTS (SELECT 1 FROM post_categories pc JOIN categories c ON c.id = pc.category_id WHERE pc.post_id = p.id AND c.name = `+next(q.Category)+`)`)
	}
	if q.Search != "" {
		ph := next("%" + escapeLike(q.Search) + "%")
		conds = append(conds, `(p.title ILIKE `+ph+` ESCAPE '\' OR p.content ILIKE `+ph+` ESCAPE '\')`)
	}
	if len(conds) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

// orderClause breaks ties by id in the same direction so pages never overlap.
func orderClause(q post.Query) string {
	col, ok := sortColumns[q.SortBy]
	if !ok {
		col = sortColumns[post.SortCreatedAt]
	}
	dir := "DESC"
	if q.SortOrder == post.SortAsc {
		dir = "ASC"
	}
	return " ORDER BY " + col + " " + dir + ", p.id " + dir
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string { return likeEscaper.Replace(s) }

func translatePostErr(err error) error {
	if name, ok := violation(err, codeUniqueViolation); ok && name == "posts_slug_key" {
		return post.ErrDuplicateSlug
	}
	if name, ok := violation(err, codeForeignKeyViolation); ok {
		switch name {
		case "posts_author_id_fkey":
			return post.ErrAuthorNotFound
		case "post_categories_category_id_fkey":
			return post.ErrCategoryNotFound
		}
	}
	return err
}

func (r *PostRepository) List(ctx context.Context, q post.Query) ([]post.Post, int, error) {
	where, args := buildPostFilter(q)

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT count(*) FROM posts p`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count posts: %w", err)
	}

	sql := postSelect + where + orderClause(q) +
		fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
	rows, err := r.pool.Query(ctx, sql, append(args, q.Limit, q.Offset())...)
	if err != nil {
		return nil, 0, fmt.Errorf("list posts: %w", err)
	}
	defer rows.Close()

	res := make([]post.Post, 0, q.Limit)
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, 0, err
		}
		res = append(res, p)
	}
	return res, total, rows.Err()
}

func (r *PostRepository) GetByID(ctx context.Context, id int64) (post.Post, error) {
	return getPost(ctx, r.pool, id)
}

func getPost(ctx context.Context, q querier, id int64) (post.Post, error) {
	return scanPost(q.QueryRow(ctx, postSelect+` WHERE p.id = $1`, id))
}

func (r *PostRepository) GetBySlug(ctx context.Context, slug string) (post.Post, error) {
	return scanPost(r.pool.QueryRow(ctx, postSelect+` WHERE p.slug = $1`, slug))
}

func (r *PostRepository) SlugExists(ctx context.Context, slug string) (bool, error) {
	var ok bool
	err := r.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM posts WHERE slug = $1)`, slug).Scan(&ok)
	return ok, err
}

func (r *PostRepository) Create(ctx context.Context, d post.Draft) (post.Post, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return post.Post{}, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var id int64
	err = tx.QueryRow(ctx, `
INSERT INTO posts (title, content, excerpt, slug, featured_image, published, author_id)
VALUES ($1, $2, $3, $4, $5, $6, $7)
RETURNING id
`, d.Title, d.Content, d.Excerpt, d.Slug, d.FeaturedImage, d.Published, d.AuthorID).Scan(&id)
	if err != nil {
		return post.Post{}, translatePostErr(err)
	}
	if err := linkCategories(ctx, tx, id, d.CategoryIDs); err != nil {
		return post.Post{}, err
	}
	p, err := getPost(ctx, tx, id)
	if err != nil {
		return post.Post{}, err
	}
	return p, tx.Commit(ctx)
}

func linkCategories(ctx context.Context, tx pgx.Tx, postID int64, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}
	_, err := tx.Exec(ctx, `
INSERT INTO post_categories (post_id, category_id)
SELECT $1, unnest($2::bigint[])
ON CONFLICT DO NOTHING
`, postID, ids)
	return translatePostErr(err)
}

func (r *PostRepository) Update(ctx context.Context, id int64, patch post.Patch) (post.Post, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return post.Post{}, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	tag, err := tx.Exec(ctx, `
UPDATE posts SET
	title = COALESCE($2, title),
	content = COALESCE($3, content),
	excerpt = COALESCE($4, excerpt),
	slug = COALESCE($5, slug),
	featured_image = COALESCE($6, featured_image),
	published = COALESCE($7, published),
	updated_at = now()
WHERE id = $1
`, id, patch.Title, patch.Content, patch.Excerpt, patch.Slug, patch.FeaturedImage, patch.Published)
	if err != nil {
		return post.Post{}, translatePostErr(err)
	}
	if tag.RowsAffected() == 0 {
		return post.Post{}, post.ErrNotFound
	}
	if patch.CategoryIDs != nil {
		if _, err := tx.Exec(ctx, `DELETE FROM post_categories WHERE post_id = $1`, id); err != nil {
			return post.Post{}, err
		}
		if err := linkCategories(ctx, tx, id, *patch.CategoryIDs); err != nil {
			return post.Post{}, err
		}
	}
	p, err := getPost(ctx, tx, id)
	if err != nil {
		return post.Post{}, err
	}
	return p, tx.Commit(ctx)
}

func (r *PostRepository) SetPublished(ctx context.Context, id int64, published bool) (post.Post, error) {
	return r.Update(ctx, id, post.Patch{Published: &published})
}

func (r *PostRepository) Delete(ctx context.Context, id int64) (post.Post, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return post.Post{}, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	p, err := getPost(ctx, tx, id)
	if err != nil {
		return post.Post{}, err
	}
	if _, err := tx.Exec(ctx, `DELETE FROM posts WHERE id = $1`, id); err != nil {
		return post.Post{}, err
	}
	return p, tx.Commit(ctx)
}
