// internal/app/system/paging/paging.go
package paging

import (
	"net/http"
	"strconv"

	"github.com/dalemusser/waffle/pantry/query"
)

// PageSize is the default number of rows shown in paged lists.
const PageSize = 50

// Page is a 1-based page of Size rows.
type Page struct {
	Number int
	Size   int
}

// Parse reads the "page" query parameter. Missing or invalid values give
// page 1.
func Parse(r *http.Request, size int) Page {
	if size <= 0 {
		size = PageSize
	}
	n, err := strconv.Atoi(query.Get(r, "page"))
	if err != nil || n < 1 {
		n = 1
	}
	return Page{Number: n, Size: size}
}

// Offset is the number of rows to skip.
func (p Page) Offset() int64 { return int64((p.Number - 1) * p.Size) }

// Limit is Size as int64 for Find().SetLimit().
func (p Page) Limit() int64 { return int64(p.Size) }

// TotalPages returns how many pages total rows fill. Never less than 1.
func (p Page) TotalPages(total int64) int {
	if total <= 0 || p.Size <= 0 {
		return 1
	}
	return int((total + int64(p.Size) - 1) / int64(p.Size))
}
