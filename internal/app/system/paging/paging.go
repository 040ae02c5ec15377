// internal/app/system/paging/paging.go
package paging

import (
	"net/http"
	"strconv"

	"github.com/dalemusser/waffle/pantry/query"
)

// PageSize is the default number of rows in a paged list.
const PageSize = 50

// MaxPageSize caps the "limit" query parameter.
const MaxPageSize = 200

// Page is a 1-based page of Size rows.
type Page struct {
	Number int
	Size   int
}

// Parse reads the "page" and "limit" query parameters. Missing or invalid
// values fall back to page 1 and PageSize; limit is capped at MaxPageSize.
func Parse(r *http.Request) Page {
	p := Page{Number: 1, Size: PageSize}
	if n, err := strconv.Atoi(query.Get(r, "page")); err == nil && n > 0 {
		p.Number = n
	}
	if n, err := strconv.Atoi(query.Get(r, "limit")); err == nil && n > 0 {
		p.Size = min(n, MaxPageSize)
	}
	return p
}

// Offset is the number of rows before this page.
func (p Page) Offset() int64 { return int64(p.Number-1) * int64(p.Size) }

// LimitPlusOne returns Size+1 for look-ahead pagination (fetch one extra
// row to detect a next page).
func (p Page) LimitPlusOne() int64 { return int64(p.Size + 1) }

// TrimPage drops the look-ahead row, if present, and reports whether a
// next page exists.
func TrimPage[T any](rows *[]T, p Page) (hasNext bool) {
	if len(*rows) > p.Size {
		*rows = (*rows)[:p.Size]
		return true
	}
	return false
}
