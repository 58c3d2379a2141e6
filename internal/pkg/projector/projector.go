// Package projector searches, filters, sorts and paginates materialized rows.
package projector

import (
	"cmp"
	"fmt"
	"slices"
	"strings"
)

// PageSize is the number of rows per page.
const PageSize = 10

const (
	SortAsc  = "asc"
	SortDesc = "desc"
)

// SortKey extracts a comparable value from a row. Exactly one of Text or
// Number is set.
type SortKey[T any] struct {
	Text   func(T) string
	Number func(T) float64
}

func TextKey[T any](f func(T) string) SortKey[T] {
	return SortKey[T]{Text: f}
}

func NumberKey[T any](f func(T) float64) SortKey[T] {
	return SortKey[T]{Number: f}
}

func (k SortKey[T]) compare(a, b T) int {
	if k.Number != nil {
		return cmp.Compare(k.Number(a), k.Number(b))
	}
	if k.Text != nil {
		return strings.Compare(k.Text(a), k.Text(b))
	}
	return 0
}

// Schema describes which fields of T can be searched, filtered and sorted.
type Schema[T any] struct {
	Search     []func(T) string
	Categories map[string]func(T) string
	SortKeys   map[string]SortKey[T]
}

type Query struct {
	Search string
	// Filters maps category names to exact values; "" and "all" are inactive
	Filters   map[string]string
	SortBy    string
	SortOrder string
	Page      int
}

type Page[T any] struct {
	Items      []T
	Page       int
	PageSize   int
	TotalItems int
	TotalPages int
}

// Showing renders the visible range, e.g. "11-20 of 35 results".
func (p Page[T]) Showing() string {
	if p.TotalItems == 0 {
		return "0-0 of 0 results"
	}
	start := (p.Page-1)*p.PageSize + 1
	end := start + len(p.Items) - 1
	return fmt.Sprintf("%d-%d of %d results", start, end, p.TotalItems)
}

// Project applies search, then categorical filters, then a stable sort, then
// pagination. Unknown filter names and sort keys are ignored. The input slice
// is not modified.
func Project[T any](rows []T, schema Schema[T], q Query) Page[T] {
	filtered := make([]T, 0, len(rows))
	needle := strings.ToLower(strings.TrimSpace(q.Search))
	for _, row := range rows {
		if needle != "" && !matchesSearch(row, schema.Search, needle) {
			continue
		}
		if !matchesFilters(row, schema.Categories, q.Filters) {
			continue
		}
		filtered = append(filtered, row)
	}

	if key, ok := schema.SortKeys[q.SortBy]; ok {
		desc := strings.EqualFold(q.SortOrder, SortDesc)
		slices.SortStableFunc(filtered, func(a, b T) int {
			if desc {
				return key.compare(b, a)
			}
			return key.compare(a, b)
		})
	}

	total := len(filtered)
	totalPages := (total + PageSize - 1) / PageSize
	page := q.Page
	if page > totalPages {
		page = totalPages
	}
	if page < 1 {
		page = 1
	}

	start := (page - 1) * PageSize
	end := min(start+PageSize, total)
	items := make([]T, 0, end-start)
	if start < end {
		items = append(items, filtered[start:end]...)
	}

	return Page[T]{
		Items:      items,
		Page:       page,
		PageSize:   PageSize,
		TotalItems: total,
		TotalPages: totalPages,
	}
}

func matchesSearch[T any](row T, fields []func(T) string, needle string) bool {
	for _, field := range fields {
		if strings.Contains(strings.ToLower(field(row)), needle) {
			return true
		}
	}
	return false
}

func matchesFilters[T any](row T, categories map[string]func(T) string, filters map[string]string) bool {
	for name, want := range filters {
		if want == "" || want == "all" {
			continue
		}
		field, ok := categories[name]
		if !ok {
			continue
		}
		if field(row) != want {
			return false
		}
	}
	return true
}
