package web

import (
	"net/http"
	"strconv"
)

const (
	DefaultPage  = 1
	DefaultLimit = 9
)

// Page is a pagination window over a list endpoint.
type Page[T any] struct {
	Docs       []T   `json:"docs"`
	TotalDocs  int64 `json:"totalDocs"`
	Page       int32 `json:"page"`
	Limit      int32 `json:"limit"`
	TotalPages int32 `json:"totalPages"`
}

// NewPage assembles a Page from a slice of documents and the total count.
func NewPage[T any](docs []T, total int64, page, limit int32) Page[T] {
	if docs == nil {
		docs = []T{}
	}
	totalPages := int32(total / int64(limit))
	if total%int64(limit) != 0 {
		totalPages++
	}
	return Page[T]{
		Docs:       docs,
		TotalDocs:  total,
		Page:       page,
		Limit:      limit,
		TotalPages: totalPages,
	}
}

// ParsePageParams reads the `page` and `limit` query parameters.
// Absent or non-numeric values fall back to the defaults (page=1, limit=9).
func ParsePageParams(r *http.Request) (page, limit int32) {
	page = queryInt(r, "page", DefaultPage)
	limit = queryInt(r, "limit", DefaultLimit)
	return page, limit
}

func queryInt(r *http.Request, key string, fallback int32) int32 {
	value := r.URL.Query().Get(key)
	parsed, err := strconv.ParseInt(value, 10, 32)
	if err != nil || parsed < 1 {
		return fallback
	}
	return int32(parsed)
}

// Offset converts a 1-based page number and limit into a row offset.
func Offset(page, limit int32) int32 {
	return (page - 1) * limit
}
