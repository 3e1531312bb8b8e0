package resource

import (
	"net/url"
	"strconv"
)

// Pagination defaults applied when the query omits page or limit.
const (
	DefaultPage  = 1
	DefaultLimit = 20
)

// PageMeta describes a windowed view of a collection's items.
type PageMeta struct {
	TotalItems  int `json:"total_items"`
	PerPage     int `json:"per_page"`
	CurrentPage int `json:"current_page"`
	TotalPages  int `json:"total_pages"`
}

// Page is the response envelope for paginated listings.
type Page struct {
	Data []map[string]any `json:"data"`
	Meta PageMeta         `json:"meta"`
}

// Paginate slices items into the requested page window.
//
// total_pages is ceil(total/limit), 0 for an empty input. Out-of-range
// pages (page < 1 or start beyond the end) yield an empty page rather
// than an error. A limit <= 0 is clamped to 1 so the page arithmetic
// stays defined; textual validation of page/limit happens earlier in
// ParsePageQuery.
func Paginate(items []Item, page, limit int) ([]Item, PageMeta) {
	if limit <= 0 {
		limit = 1
	}

	total := len(items)
	totalPages := 0
	if total > 0 {
		totalPages = (total + limit - 1) / limit
	}

	meta := PageMeta{
		TotalItems:  total,
		PerPage:     limit,
		CurrentPage: page,
		TotalPages:  totalPages,
	}

	start := (page - 1) * limit
	if start < 0 || start >= total {
		return []Item{}, meta
	}

	end := start + limit
	if end > total {
		end = total
	}
	return items[start:end], meta
}

// ParsePageQuery extracts page and limit from query parameters,
// substituting defaults for absent values. Returns a ValidationError
// when either value is present but not an integer; this happens before
// any slicing or store access.
func ParsePageQuery(q url.Values) (page, limit int, err error) {
	page, limit = DefaultPage, DefaultLimit

	if raw := q.Get("page"); raw != "" {
		page, err = strconv.Atoi(raw)
		if err != nil {
			return 0, 0, &ValidationError{Message: "invalid page parameter: must be an integer"}
		}
	}

	if raw := q.Get("limit"); raw != "" {
		limit, err = strconv.Atoi(raw)
		if err != nil {
			return 0, 0, &ValidationError{Message: "invalid limit parameter: must be an integer"}
		}
	}

	return page, limit, nil
}

// NewPage assembles the response envelope for a page of items.
func NewPage(items []Item, meta PageMeta) *Page {
	data := make([]map[string]any, len(items))
	for i, it := range items {
		data[i] = it.Merged()
	}
	return &Page{Data: data, Meta: meta}
}
