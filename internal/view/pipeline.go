// Package view derives what the table shows from the stores: rows filtered by
// the search text, sorted by one column, then cut into fixed-size pages.
package view

import (
	"slices"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/jxwalker/tablemgr/internal/table"
)

// PageSize is the number of rows per page.
const PageSize = 10

// SortDir is the sort direction.
type SortDir int

const (
	Asc SortDir = iota
	Desc
)

func (d SortDir) String() string {
	if d == Desc {
		return "desc"
	}
	return "asc"
}

// Arrow is the header indicator for d.
func (d SortDir) Arrow() string {
	if d == Desc {
		return "↓"
	}
	return "↑"
}

// Input is everything the derivation depends on.
type Input struct {
	Rows    []table.Row
	Search  string
	SortKey string
	SortDir SortDir
	Page    int // 1-based
}

// Result is one computed page.
type Result struct {
	Rows       []table.Row // rows of the requested page
	Filtered   int         // rows matching the search
	TotalPages int
}

// Pipeline holds the collator used for text comparison. A collator is not
// safe for concurrent use, so neither is a Pipeline.
type Pipeline struct {
	col *collate.Collator
}

// New returns a pipeline that orders text by the rules of locale.
func New(locale language.Tag) *Pipeline {
	return &Pipeline{col: collate.New(locale)}
}

// Compute filters, sorts and paginates in. The requested page is not
// clamped; an out-of-range page yields no rows.
func (p *Pipeline) Compute(in Input) Result {
	rows := Filter(in.Rows, in.Search)
	p.Sort(rows, in.SortKey, in.SortDir)
	return Result{
		Rows:       Paginate(rows, in.Page, PageSize),
		Filtered:   len(rows),
		TotalPages: TotalPages(len(rows), PageSize),
	}
}

// Filter returns the rows with at least one field whose text contains search,
// ignoring case. The result is a fresh slice; an empty search keeps all rows.
func Filter(rows []table.Row, search string) []table.Row {
	if search == "" {
		return slices.Clone(rows)
	}
	needle := strings.ToLower(search)
	out := make([]table.Row, 0, len(rows))
	for _, r := range rows {
		if Matches(r, needle) {
			out = append(out, r)
		}
	}
	return out
}

// Matches reports whether any field of r contains the lower-cased needle.
func Matches(r table.Row, needle string) bool {
	hit := false
	r.Each(func(_ string, v table.Value) bool {
		hit = strings.Contains(strings.ToLower(v.String()), needle)
		return !hit
	})
	return hit
}

// Sort orders rows in place by key. The sort is stable, so rows whose keys
// do not compare (mixed kinds, absent values) keep their relative order.
func (p *Pipeline) Sort(rows []table.Row, key string, dir SortDir) {
	if key == "" {
		return
	}
	slices.SortStableFunc(rows, func(a, b table.Row) int {
		c := p.Compare(a.Get(key), b.Get(key))
		if dir == Desc {
			return -c
		}
		return c
	})
}

// Compare orders two values: text by locale collation, numbers numerically,
// and anything else as equal.
func (p *Pipeline) Compare(a, b table.Value) int {
	if as, ok := a.AsText(); ok {
		if bs, ok := b.AsText(); ok {
			return p.col.CompareString(as, bs)
		}
		return 0
	}
	if an, ok := a.AsNumber(); ok {
		if bn, ok := b.AsNumber(); ok {
			switch {
			case an < bn:
				return -1
			case an > bn:
				return 1
			}
		}
	}
	return 0
}

// Paginate returns the page-th slice of size rows (1-based). Pages outside
// the range give an empty slice.
func Paginate(rows []table.Row, page, size int) []table.Row {
	if page < 1 || size < 1 {
		return nil
	}
	start := (page - 1) * size
	if start >= len(rows) {
		return nil
	}
	end := min(start+size, len(rows))
	return rows[start:end]
}

// TotalPages is ceil(n/size), and never less than 1.
func TotalPages(n, size int) int {
	if n <= 0 || size <= 0 {
		return 1
	}
	return (n + size - 1) / size
}

// ClampPage forces page into [1, total].
func ClampPage(page, total int) int {
	if total < 1 {
		total = 1
	}
	return max(1, min(page, total))
}

// NextSort is the header-click rule: the active column flips direction, a
// new column starts ascending.
func NextSort(curKey string, curDir SortDir, clicked string) (string, SortDir) {
	if clicked == curKey {
		if curDir == Asc {
			return clicked, Desc
		}
		return clicked, Asc
	}
	return clicked, Asc
}
