package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/artem13815/blog/pkg/auth"
	"github.com/artem13815/blog/pkg/category"
	"github.com/artem13815/blog/pkg/post"
)

func seed(t *testing.T) (*Store, auth.User, category.Category, category.Category) {
	t.Helper()
	ctx := context.Background()
	s := New()
	u, err := s.Users().Create(ctx, auth.User{Email: "Admin@Example.com", Name: "Admin", Role: auth.RoleAdmin})
	require.NoError(t, err)
	tech, err := s.Categories().Create(ctx, category.Draft{Name: "Tech"})
	require.NoError(t, err)
	life, err := s.Categories().Create(ctx, category.Draft{Name: "Life", Description: "Everyday"})
	require.NoError(t, err)
	return s, u, tech, life
}

func TestUsers_UniqueEmail(t *testing.T) {
	ctx := context.Background()
	s, u, _, _ := seed(t)
	assert.Equal(t, "admin@example.com", u.Email)

	_, err := s.Users().Create(ctx, auth.User{Email: "ADMIN@example.com"})
	require.ErrorIs(t, err, auth.ErrUserAlreadyExists)

	got, err := s.Users().GetByEmail(ctx, "admin@EXAMPLE.com")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)

	_, err = s.Users().GetByID(ctx, 42)
	require.ErrorIs(t, err, auth.ErrNotFound)
}

func TestUsers_UpdateProfileBumpsUpdatedAt(t *testing.T) {
	ctx := context.Background()
	s, u, _, _ := seed(t)
	bio := "hello"
	got, err := s.Users().UpdateProfile(ctx, u.ID, auth.ProfileUpdate{Bio: &bio})
	require.NoError(t, err)
	assert.Equal(t, "hello", got.Bio)
	assert.Equal(t, "Admin", got.Name)
	assert.True(t, got.UpdatedAt.After(u.UpdatedAt))

	require.NoError(t, s.Users().UpdatePasswordHash(ctx, u.ID, "digest"))
	got, err = s.Users().GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "digest", got.PasswordHash)
}

func TestPosts_CreateHydratesAuthorAndCategories(t *testing.T) {
	ctx := context.Background()
	s, u, tech, life := seed(t)

	p, err := s.Posts().Create(ctx, post.Draft{
		Title: "Hello", Content: "Body", Slug: "hello", AuthorID: u.ID,
		CategoryIDs: []int64{tech.ID, life.ID},
	})
	require.NoError(t, err)
	require.NotNil(t, p.Author)
	assert.Equal(t, "Admin", p.Author.Name)
	require.Len(t, p.Categories, 2)
	assert.Equal(t, "Life", p.Categories[0].Name)
	assert.Equal(t, "Tech", p.Categories[1].Name)

	_, err = s.Posts().Create(ctx, post.Draft{Title: "Again", Content: "x", Slug: "hello", AuthorID: u.ID})
	require.ErrorIs(t, err, post.ErrDuplicateSlug)

	_, err = s.Posts().Create(ctx, post.Draft{Title: "Other", Content: "x", Slug: "other", AuthorID: 99})
	require.ErrorIs(t, err, post.ErrAuthorNotFound)

	_, err = s.Posts().Create(ctx, post.Draft{Title: "Other", Content: "x", Slug: "other", AuthorID: u.ID, CategoryIDs: []int64{77}})
	require.ErrorIs(t, err, post.ErrCategoryNotFound)

	ok, err := s.Posts().SlugExists(ctx, "other")
	require.NoError(t, err)
	assert.False(t, ok, "failed create must not leave a row behind")
}

func TestPosts_ListFiltersAndPaging(t *testing.T) {
	ctx := context.Background()
	s, u, tech, _ := seed(t)
	repo := s.Posts()

	titles := []string{"Go generics", "Rust traits", "Go channels", "Cooking", "Travel"}
	for i, title := range titles {
		d := post.Draft{Title: title, Content: "content " + title, Slug: post.Slugify(title), AuthorID: u.ID, Published: i%2 == 0}
		if i < 3 {
			d.CategoryIDs = []int64{tech.ID}
		}
		_, err := repo.Create(ctx, d)
		require.NoError(t, err)
	}

	q := post.Query{}.Normalize(post.DefaultLimits)
	items, total, err := repo.List(ctx, q)
	require.NoError(t, err)
	assert.Equal(t, 5, total)
	require.Len(t, items, 5)
	assert.Equal(t, "Travel", items[0].Title, "newest first by default")

	q.Category = "Tech"
	items, total, err = repo.List(ctx, q)
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	assert.Len(t, items, 3)

	q = post.Query{Search: "GO", SortBy: post.SortTitle, SortOrder: post.SortAsc}.Normalize(post.DefaultLimits)
	items, total, err = repo.List(ctx, q)
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	assert.Equal(t, "Go channels", items[0].Title)

	published := true
	q = post.Query{Published: &published}.Normalize(post.DefaultLimits)
	_, total, err = repo.List(ctx, q)
	require.NoError(t, err)
	assert.Equal(t, 3, total)

	q = post.Query{Page: 999, Limit: 10}.Normalize(post.DefaultLimits)
	items, total, err = repo.List(ctx, q)
	require.NoError(t, err)
	assert.Equal(t, 5, total)
	assert.NotNil(t, items)
	assert.Empty(t, items)

	q = post.Query{Page: 2, Limit: 2}.Normalize(post.DefaultLimits)
	items, _, err = repo.List(ctx, q)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "Go channels", items[0].Title)
}

func TestPosts_UpdateReplacesCategories(t *testing.T) {
	ctx := context.Background()
	s, u, tech, life := seed(t)
	p, err := s.Posts().Create(ctx, post.Draft{Title: "A", Content: "x", Slug: "a", AuthorID: u.ID, CategoryIDs: []int64{tech.ID}})
	require.NoError(t, err)

	ids := []int64{life.ID}
	title := "B"
	got, err := s.Posts().Update(ctx, p.ID, post.Patch{Title: &title, CategoryIDs: &ids})
	require.NoError(t, err)
	assert.Equal(t, "B", got.Title)
	require.Len(t, got.Categories, 1)
	assert.Equal(t, life.ID, got.Categories[0].ID)

	empty := []int64{}
	got, err = s.Posts().Update(ctx, p.ID, post.Patch{CategoryIDs: &empty})
	require.NoError(t, err)
	assert.NotNil(t, got.Categories)
	assert.Empty(t, got.Categories)

	got, err = s.Posts().SetPublished(ctx, p.ID, true)
	require.NoError(t, err)
	assert.True(t, got.Published)

	_, err = s.Posts().Update(ctx, 404, post.Patch{Title: &title})
	require.ErrorIs(t, err, post.ErrNotFound)
}

func TestPosts_DeleteReturnsPriorState(t *testing.T) {
	ctx := context.Background()
	s, u, tech, _ := seed(t)
	p, err := s.Posts().Create(ctx, post.Draft{Title: "A", Content: "x", Slug: "a", AuthorID: u.ID, CategoryIDs: []int64{tech.ID}})
	require.NoError(t, err)

	gone, err := s.Posts().Delete(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "A", gone.Title)
	assert.Len(t, gone.Categories, 1)

	_, err = s.Posts().GetByID(ctx, p.ID)
	require.ErrorIs(t, err, post.ErrNotFound)

	c, err := s.Categories().GetByID(ctx, tech.ID)
	require.NoError(t, err)
	assert.Empty(t, c.Posts)
}

func TestCategories_UniqueNameAndOrdering(t *testing.T) {
	ctx := context.Background()
	s, _, tech, _ := seed(t)

	_, err := s.Categories().Create(ctx, category.Draft{Name: "Tech"})
	require.ErrorIs(t, err, category.ErrDuplicateName)

	name := "Life"
	_, err = s.Categories().Update(ctx, tech.ID, category.Patch{Name: &name})
	require.ErrorIs(t, err, category.ErrDuplicateName)

	list, err := s.Categories().List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Life", list[0].Name)
	assert.Equal(t, "Tech", list[1].Name)
}

func TestCategories_DeleteKeepsPosts(t *testing.T) {
	ctx := context.Background()
	s, u, tech, _ := seed(t)
	p, err := s.Posts().Create(ctx, post.Draft{Title: "A", Content: "x", Slug: "a", AuthorID: u.ID, CategoryIDs: []int64{tech.ID}})
	require.NoError(t, err)

	c, err := s.Categories().GetByID(ctx, tech.ID)
	require.NoError(t, err)
	require.Len(t, c.Posts, 1)
	assert.Equal(t, "a", c.Posts[0].Slug)

	require.NoError(t, s.Categories().Delete(ctx, tech.ID))
	require.ErrorIs(t, s.Categories().Delete(ctx, tech.ID), category.ErrNotFound)

	got, err := s.Posts().GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Empty(t, got.Categories)
}

func TestPosts_TitleSortIgnoresCase(t *testing.T) {
	ctx := context.Background()
	s, u, _, _ := seed(t)
	for _, title := range []string{"banana", "Cherry", "apple", "Apple"} {
		_, err := s.Posts().Create(ctx, post.Draft{Title: title, Content: "x", Slug: post.Slugify(title) + "-" + title, AuthorID: u.ID})
		require.NoError(t, err)
	}

	q := post.Query{SortBy: post.SortTitle, SortOrder: post.SortAsc}.Normalize(post.DefaultLimits)
	items, _, err := s.Posts().List(ctx, q)
	require.NoError(t, err)
	got := make([]string, 0, len(items))
	for _, p := range items {
		got = append(got, p.Title)
	}
	assert.Equal(t, []string{"Apple", "apple", "banana", "Cherry"}, got)
}
