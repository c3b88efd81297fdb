package validate

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/artem13815/blog/pkg/apperr"
)

func TestLength(t *testing.T) {
	tests := []struct {
		name    string
		s       string
		min     int
		max     int
		wantErr string
	}{
		{"within range", "Hello", 1, 200, ""},
		{"blank is required", "   ", 1, 0, "Title is required"},
		{"empty is required even with a max", "", 1, 200, "Title is required"},
		{"range violation", "abcdef", 2, 5, "Title must be between 2 and 5 characters"},
		{"too short", "ab", 6, 0, "Title must be at least 6 characters long"},
		{"too long", "abcdef", 0, 5, "Title must not exceed 5 characters"},
		{"runes not bytes", "привет", 1, 6, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Length("Title", tt.s, tt.min, tt.max)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.EqualError(t, err, tt.wantErr)
			assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
		})
	}
}

func TestURL(t *testing.T) {
	assert.NoError(t, URL("Avatar", "https://example.com/a.png"))
	assert.NoError(t, URL("Avatar", "http://localhost:5173/x"))
	assert.Error(t, URL("Avatar", "ftp://example.com/a.png"))
	assert.Error(t, URL("Avatar", "not a url"))
	assert.Error(t, URL("Avatar", "/relative/path"))
}

func TestEmail(t *testing.T) {
	assert.NoError(t, Email("admin@example.com"))
	assert.Error(t, Email("admin"))
	assert.Error(t, Email("Admin <admin@example.com>"))
}

func TestPositiveIDs(t *testing.T) {
	assert.NoError(t, PositiveIDs("category ID", []int64{1, 2}))
	assert.NoError(t, PositiveIDs("category ID", nil))
	assert.EqualError(t, PositiveIDs("category ID", []int64{1, 0}), "Each category ID must be a positive integer")
}
