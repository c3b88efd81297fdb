package post

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/gosimple/slug"
)

const (
	fallbackSlug  = "post"
	maxSlugTries  = 100
	excerptLength = 160
)

// Slugify returns the URL form of s, or "post" when nothing survives.
func Slugify(s string) string {
	out := slug.Make(s)
	if out == "" {
		return fallbackSlug
	}
	return out
}

// uniqueSlug appends -1, -2, ... to base until exists reports it is free.
func uniqueSlug(ctx context.Context, base string, exists func(context.Context, string) (bool, error)) (string, error) {
	candidate := base
	for i := 1; i <= maxSlugTries; i++ {
		taken, err := exists(ctx, candidate)
		if err != nil {
			return "", err
		}
		if !taken {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s-%d", base, i)
	}
	return "", ErrDuplicateSlug
}

var (
	markdownMarks = regexp.MustCompile("[#*`_~\\[\\]]")
	newlines      = regexp.MustCompile(`\n+`)
)

// Excerpt strips markdown markers and truncates to about max runes on a word boundary.
func Excerpt(content string, max int) string {
	if max <= 0 {
		max = excerptLength
	}
	plain := markdownMarks.ReplaceAllString(content, "")
	plain = strings.TrimSpace(newlines.ReplaceAllString(plain, " "))
	if utf8.RuneCountInString(plain) <= max {
		return plain
	}
	truncated := string([]rune(plain)[:max])
	if i := strings.LastIndex(truncated, " "); i > 0 {
		return truncated[:i] + "..."
	}
	return truncated + "..."
}
