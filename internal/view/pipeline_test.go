package view

import (
	"fmt"
	"math/rand"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"

	"github.com/jxwalker/tablemgr/internal/table"
)

func names(rows []table.Row) []string {
	out := make([]string, len(rows))
	for i, r := range rows {
		out[i] = r.Get("name").String()
	}
	return out
}

func bobAmy() []table.Row {
	return []table.Row{
		table.NewRow("1").With("name", table.Text("Bob")).With("age", table.Number(30)),
		table.NewRow("2").With("name", table.Text("Amy")).With("age", table.Number(25)),
	}
}

// randomRows builds n rows with a text "name", a numeric "age" and a mixed
// "code" column.
func randomRows(n int, seed int64) []table.Row {
	rng := rand.New(rand.NewSource(seed))
	first := []string{"amy", "Bob", "émile", "Zoë", "carl", "Dana", "ravi", "Saba", "ölaf", "bob"}
	rows := make([]table.Row, n)
	for i := range rows {
		r := table.NewRow(fmt.Sprint(i)).
			With("name", table.Text(first[rng.Intn(len(first))])).
			With("age", table.Number(float64(rng.Intn(60))))
		if rng.Intn(2) == 0 {
			r = r.With("code", table.Text(fmt.Sprintf("c%d", rng.Intn(5))))
		} else {
			r = r.With("code", table.Number(float64(rng.Intn(5))))
		}
		rows[i] = r
	}
	return rows
}

func TestBobAmyExample(t *testing.T) {
	p := New(language.English)

	res := p.Compute(Input{Rows: bobAmy(), SortKey: "name", SortDir: Asc, Page: 1})
	assert.Equal(t, []string{"Amy", "Bob"}, names(res.Rows))

	res = p.Compute(Input{Rows: bobAmy(), SortKey: "age", SortDir: Desc, Page: 1})
	assert.Equal(t, []string{"Bob", "Amy"}, names(res.Rows))
}

func TestComputeDoesNotReorderInput(t *testing.T) {
	p := New(language.English)
	rows := bobAmy()
	p.Compute(Input{Rows: rows, SortKey: "name", Page: 1})
	assert.Equal(t, []string{"Bob", "Amy"}, names(rows))
}

func TestFilterContainsSearch(t *testing.T) {
	rows := randomRows(200, 1)
	for _, s := range []string{"b", "BOB", "ë", "1", "c3", "zzz"} {
		got := Filter(rows, s)
		for _, r := range got {
			assert.True(t, Matches(r, strings.ToLower(s)), "row %s should contain %q", r.ID, s)
		}
		want := 0
		for _, r := range rows {
			if Matches(r, strings.ToLower(s)) {
				want++
			}
		}
		assert.Len(t, got, want, "search %q", s)
	}
	assert.Len(t, Filter(rows, ""), len(rows))
}

func TestFilterMatchesNumbersAsText(t *testing.T) {
	rows := bobAmy()
	assert.Equal(t, []string{"Amy"}, names(Filter(rows, "25")))
}

func TestSortNumericMonotonic(t *testing.T) {
	p := New(language.English)
	rows := randomRows(150, 2)

	p.Sort(rows, "age", Asc)
	for i := 1; i < len(rows); i++ {
		a, _ := rows[i-1].Get("age").AsNumber()
		b, _ := rows[i].Get("age").AsNumber()
		require.LessOrEqual(t, a, b)
	}

	p.Sort(rows, "age", Desc)
	for i := 1; i < len(rows); i++ {
		a, _ := rows[i-1].Get("age").AsNumber()
		b, _ := rows[i].Get("age").AsNumber()
		require.GreaterOrEqual(t, a, b)
	}
}

func TestSortTextFollowsCollation(t *testing.T) {
	p := New(language.English)
	rows := randomRows(150, 3)
	p.Sort(rows, "name", Asc)
	for i := 1; i < len(rows); i++ {
		require.LessOrEqual(t, p.Compare(rows[i-1].Get("name"), rows[i].Get("name")), 0)
	}
	// Collation puts accented and mixed-case names next to their base letter.
	got := names(Filter(rows, ""))
	idxE := indexOf(got, "émile")
	idxZ := indexOf(got, "Zoë")
	if idxE >= 0 && idxZ >= 0 {
		assert.Less(t, idxE, idxZ)
	}
}

func indexOf(s []string, v string) int {
	for i, x := range s {
		if x == v {
			return i
		}
	}
	return -1
}

func TestSortIdempotent(t *testing.T) {
	p := New(language.English)
	for _, key := range []string{"name", "age", "code"} {
		for _, dir := range []SortDir{Asc, Desc} {
			rows := randomRows(80, 4)
			p.Sort(rows, key, dir)
			once := append([]table.Row(nil), rows...)
			p.Sort(rows, key, dir)
			for i := range rows {
				require.Equal(t, once[i].ID, rows[i].ID, "key=%s dir=%s", key, dir)
			}
		}
	}
}

func TestSortMixedKindsKeepOrder(t *testing.T) {
	p := New(language.English)
	rows := []table.Row{
		table.NewRow("a").With("v", table.Text("x")),
		table.NewRow("b").With("v", table.Number(1)),
		table.NewRow("c"),
	}
	p.Sort(rows, "v", Asc)
	assert.Equal(t, "a", rows[0].ID)
	assert.Equal(t, "b", rows[1].ID)
	assert.Equal(t, "c", rows[2].ID)
}

func TestTotalPages(t *testing.T) {
	cases := map[int]int{0: 1, 1: 1, 9: 1, 10: 1, 11: 2, 20: 2, 21: 3, 100: 10}
	for n, want := range cases {
		assert.Equal(t, want, TotalPages(n, PageSize), "F=%d", n)
	}
}

func TestPagesConcatenateToWhole(t *testing.T) {
	p := New(language.English)
	for _, n := range []int{0, 1, 10, 11, 37} {
		rows := randomRows(n, int64(n))
		first := p.Compute(Input{Rows: rows, SortKey: "name", Page: 1})

		sorted := Filter(rows, "")
		p.Sort(sorted, "name", Asc)

		var all []table.Row
		for page := 1; page <= first.TotalPages; page++ {
			res := p.Compute(Input{Rows: rows, SortKey: "name", Page: page})
			assert.LessOrEqual(t, len(res.Rows), PageSize)
			all = append(all, res.Rows...)
		}
		require.Len(t, all, n)
		for i := range all {
			assert.Equal(t, sorted[i].ID, all[i].ID)
		}
	}
}

func TestPaginateOutOfRange(t *testing.T) {
	rows := randomRows(5, 5)
	assert.Empty(t, Paginate(rows, 2, PageSize))
	assert.Empty(t, Paginate(rows, 0, PageSize))
	assert.Len(t, Paginate(rows, 1, PageSize), 5)
}

func TestClampPage(t *testing.T) {
	assert.Equal(t, 1, ClampPage(0, 3))
	assert.Equal(t, 3, ClampPage(7, 3))
	assert.Equal(t, 2, ClampPage(2, 3))
	assert.Equal(t, 1, ClampPage(4, 0))
}

func TestNextSort(t *testing.T) {
	k, d := NextSort("name", Asc, "name")
	assert.Equal(t, "name", k)
	assert.Equal(t, Desc, d)

	k, d = NextSort("name", Desc, "name")
	assert.Equal(t, Asc, d)

	k, d = NextSort("name", Desc, "age")
	assert.Equal(t, "age", k)
	assert.Equal(t, Asc, d)
}
