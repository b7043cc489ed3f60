// Package validate turns untrusted request input into typed, whitelisted
// parameters. Everything downstream of this package only sees its structs.
package validate

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/marshallshelly/pebble-news/pkg/apperr"
)

// Defaults applied when a list query omits a parameter.
const (
	DefaultSortBy = "created_at"
	DefaultOrder  = "DESC"
	DefaultLimit  = 10
	DefaultPage   = 1
)

// SortColumns lists the article fields a listing may be sorted by.
var SortColumns = []string{
	"article_id",
	"title",
	"topic",
	"author",
	"created_at",
	"votes",
	"article_img_url",
	"comment_count",
}

var (
	validate = validator.New()

	sortByRule = "oneof=" + strings.Join(SortColumns, " ")
	orderRule  = "oneof=asc desc"
)

// Pagination is a validated page window.
type Pagination struct {
	Limit int
	Page  int
}

// Offset returns the number of rows skipped before the page starts.
func (p Pagination) Offset() int {
	return p.Limit * (p.Page - 1)
}

// ArticleListParams are the validated parameters of an article listing.
type ArticleListParams struct {
	Pagination

	// SortBy is one of SortColumns.
	SortBy string
	// Order is "ASC" or "DESC".
	Order string
	// Topic filters by exact topic slug when non-empty.
	Topic string
	// Search matches title, body, topic or author when non-empty.
	Search string
}

// ParseArticleListQuery validates the query parameters of an article listing.
// get returns the raw value of a parameter, or "" when it is absent.
func ParseArticleListQuery(get func(string) string) (ArticleListParams, error) {
	params := ArticleListParams{
		SortBy: DefaultSortBy,
		Order:  DefaultOrder,
		Topic:  get("topic"),
		Search: get("search"),
	}

	if sortBy := get("sort_by"); sortBy != "" {
		if err := validate.Var(sortBy, sortByRule); err != nil {
			return ArticleListParams{}, &apperr.Error{Kind: apperr.InvalidColumn, Field: "sort_by", Err: err}
		}
		params.SortBy = sortBy
	}

	if order := get("order"); order != "" {
		order = strings.ToLower(order)
		if err := validate.Var(order, orderRule); err != nil {
			return ArticleListParams{}, &apperr.Error{Kind: apperr.InvalidOrder, Field: "order", Err: err}
		}
		params.Order = strings.ToUpper(order)
	}

	page, err := ParsePagination(get)
	if err != nil {
		return ArticleListParams{}, err
	}
	params.Pagination = page

	return params, nil
}

// maxOffset is the largest row offset a page window may reach.
const maxOffset = math.MaxInt32

// ParsePagination validates the limit and page parameters. Both must be
// positive base-10 integers when present, and the window they describe must
// start within maxOffset rows.
func ParsePagination(get func(string) string) (Pagination, error) {
	limit, err := positiveInt(get, "limit", DefaultLimit)
	if err != nil {
		return Pagination{}, err
	}
	page, err := positiveInt(get, "page", DefaultPage)
	if err != nil {
		return Pagination{}, err
	}
	if page > 1 && limit > maxOffset/(page-1) {
		return Pagination{}, apperr.Format("page", fmt.Errorf("offset of page %d with limit %d exceeds %d", page, limit, maxOffset))
	}
	return Pagination{Limit: limit, Page: page}, nil
}

func positiveInt(get func(string) string, name string, def int) (int, error) {
	raw := get(name)
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, apperr.Format(name, err)
	}
	if err := validate.Var(n, "gt=0,lte=2147483647"); err != nil {
		return 0, apperr.Format(name, err)
	}
	return n, nil
}

// ParseID validates a numeric path key. Keys must fit the store's INT column.
func ParseID(raw string) (int, error) {
	id, err := strconv.ParseInt(raw, 10, 32)
	if err != nil {
		return 0, &apperr.Error{Kind: apperr.MalformedIdentifier, Err: err}
	}
	return int(id), nil
}

// ParseUsername validates a username path segment.
func ParseUsername(raw string) (string, error) {
	if err := validate.Var(raw, "required"); err != nil {
		return "", &apperr.Error{Kind: apperr.MalformedIdentifier, Field: "username", Err: err}
	}
	return raw, nil
}
