package handlers

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/artem13815/blog/pkg/apperr"
	"github.com/artem13815/blog/pkg/post"
)

var errInvalidJSON = apperr.Invalid("Invalid JSON payload")

// parsePostQuery reads listing parameters. Unparseable page and limit fall
// back to their defaults; the filters and sort keys are strict.
func parsePostQuery(c *fiber.Ctx) (post.Query, error) {
	q := post.Query{
		Page:     lenientInt(c.Query("page")),
		Limit:    lenientInt(c.Query("limit")),
		Search:   c.Query("search"),
		Category: c.Query("category"),
	}
	if v := strings.TrimSpace(c.Query("published")); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return post.Query{}, apperr.Invalid("published must be true or false")
		}
		q.Published = &b
	}
	if v := strings.TrimSpace(c.Query("authorId")); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil || n < 1 {
			return post.Query{}, apperr.Invalid("authorId must be a positive integer")
		}
		q.AuthorID = &n
	}
	var err error
	if q.SortBy, err = post.ParseSortField(c.Query("sortBy")); err != nil {
		return post.Query{}, err
	}
	if q.SortOrder, err = post.ParseSortOrder(c.Query("sortOrder")); err != nil {
		return post.Query{}, err
	}
	return q, nil
}

func lenientInt(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0
	}
	return n
}

// pathID reads a numeric route parameter; routes constrain it with <int>.
func pathID(c *fiber.Ctx, notFound error) (int64, error) {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || id < 1 {
		return 0, notFound
	}
	return id, nil
}
