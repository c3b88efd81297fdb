package post

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlugify(t *testing.T) {
	assert.Equal(t, "hello-world", Slugify("Hello, World!"))
	assert.Equal(t, "go-1-25-release-notes", Slugify("  Go 1.25 release notes "))
	assert.Equal(t, "post", Slugify("!!!"))
}

func TestUniqueSlug(t *testing.T) {
	taken := map[string]bool{"hello": true, "hello-1": true}
	exists := func(_ context.Context, s string) (bool, error) { return taken[s], nil }

	got, err := uniqueSlug(context.Background(), "hello", exists)
	require.NoError(t, err)
	assert.Equal(t, "hello-2", got)

	got, err = uniqueSlug(context.Background(), "fresh", exists)
	require.NoError(t, err)
	assert.Equal(t, "fresh", got)

	always := func(context.Context, string) (bool, error) { return true, nil }
	_, err = uniqueSlug(context.Background(), "x", always)
	require.ErrorIs(t, err, ErrDuplicateSlug)

	boom := errors.New("store down")
	_, err = uniqueSlug(context.Background(), "x", func(context.Context, string) (bool, error) { return false, boom })
	require.ErrorIs(t, err, boom)
}

func TestExcerpt(t *testing.T) {
	assert.Equal(t, "Title and bold text", Excerpt("# Title\n\nand **bold** text", 0))

	long := strings.Repeat("word ", 50)
	got := Excerpt(long, 22)
	assert.Equal(t, "word word word word...", got)

	assert.Equal(t, "abcdef...", Excerpt("abcdefghij", 6))
}
