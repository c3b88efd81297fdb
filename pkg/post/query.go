package post

import (
	"math"
	"strings"

	"github.com/artem13815/blog/pkg/apperr"
)

type SortField string

const (
	SortCreatedAt SortField = "createdAt"
	SortUpdatedAt SortField = "updatedAt"
	SortTitle     SortField = "title"
	SortViewCount SortField = "viewCount"
)

func ParseSortField(s string) (SortField, error) {
	switch f := SortField(strings.TrimSpace(s)); f {
	case "":
		return SortCreatedAt, nil
	case SortCreatedAt, SortUpdatedAt, SortTitle, SortViewCount:
		return f, nil
	default:
		return "", apperr.Invalid("sortBy must be one of createdAt, updatedAt, title, viewCount")
	}
}

type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

func ParseSortOrder(s string) (SortOrder, error) {
	switch o := SortOrder(strings.ToLower(strings.TrimSpace(s))); o {
	case "":
		return SortDesc, nil
	case SortAsc, SortDesc:
		return o, nil
	default:
		return "", apperr.Invalid("sortOrder must be asc or desc")
	}
}

// Query drives post listing. Zero values mean "not supplied".
type Query struct {
	Page      int
	Limit     int
	Search    string
	Category  string
	Published *bool
	AuthorID  *int64
	SortBy    SortField
	SortOrder SortOrder
}

// Limits bound the page size.
type Limits struct {
	Default int
	Max     int
}

var DefaultLimits = Limits{Default: 10, Max: 100}

// Normalize clamps page to >= 1 and limit to [1, Max], filling in defaults.
func (q Query) Normalize(l Limits) Query {
	if l.Max < 1 {
		l.Max = DefaultLimits.Max
	}
	if l.Default < 1 || l.Default > l.Max {
		l.Default = min(DefaultLimits.Default, l.Max)
	}
	switch {
	case q.Limit == 0:
		q.Limit = l.Default
	case q.Limit < 1:
		q.Limit = 1
	case q.Limit > l.Max:
		q.Limit = l.Max
	}
	if q.Page < 1 {
		q.Page = 1
	}
	if q.SortBy == "" {
		q.SortBy = SortCreatedAt
	}
	if q.SortOrder == "" {
		q.SortOrder = SortDesc
	}
	q.Search = strings.TrimSpace(q.Search)
	q.Category = strings.TrimSpace(q.Category)
	return q
}

// Offset is the number of rows skipped before the current page. It saturates
// at math.MaxInt so far-out pages stay past the end instead of wrapping.
func (q Query) Offset() int {
	if q.Page < 1 || q.Limit < 1 {
		return 0
	}
	if q.Page-1 > math.MaxInt/q.Limit {
		return math.MaxInt
	}
	return (q.Page - 1) * q.Limit
}

// Page is one slice of a listing together with its metadata.
type Page struct {
	Items      []Post
	Total      int
	Page       int
	Limit      int
	TotalPages int
	HasNext    bool
	HasPrev    bool
}

func NewPage(items []Post, total, page, limit int) Page {
	if items == nil {
		items = []Post{}
	}
	totalPages := 0
	if limit > 0 {
		totalPages = (total + limit - 1) / limit
	}
	return Page{
		Items:      items,
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: totalPages,
		HasNext:    page < totalPages,
		HasPrev:    page > 1,
	}
}
