package main

import (
	"encoding/json"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/jxwalker/tablemgr/internal/csvcodec"
	tbl "github.com/jxwalker/tablemgr/internal/table"
	"github.com/jxwalker/tablemgr/internal/view"
)

type printOptions struct {
	search  string
	sortKey string
	desc    bool
	page    int
	all     bool
	columns []string
	format  string
}

func newPrintCmd(g *globalFlags) *cobra.Command {
	o := &printOptions{}
	cmd := &cobra.Command{
		Use:   "print FILE.csv",
		Short: "Search, sort and print a page of a CSV file",
		Long: `Runs the same search, sort and paging the table view uses and prints the
result. Columns default to the file's header order.`,
		Example: `  tablemgr print people.csv --search dev --sort age --desc
  tablemgr print people.csv --columns name,email --all --format csv`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := g.load()
			if err != nil {
				return err
			}
			locale, err := c.LocaleTag()
			if err != nil {
				return err
			}
			recs, _, err := csvcodec.DecodeFile(cmd.Context(), args[0], c.Import.MaxFileBytes)
			if err != nil {
				return err
			}
			rows := csvcodec.ToRows(recs, csvcodec.Options{InferNumbers: c.Import.InferNumbers})
			keys := o.columns
			if len(keys) == 0 && len(recs) > 0 {
				for _, f := range recs[0] {
					keys = append(keys, f.Key)
				}
			}
			return o.run(cmd.OutOrStdout(), view.New(locale), rows, keys)
		},
	}
	fs := cmd.Flags()
	fs.StringVarP(&o.search, "search", "s", "", "Case-insensitive substring to filter rows by")
	fs.StringVar(&o.sortKey, "sort", "", "Column key to sort by")
	fs.BoolVar(&o.desc, "desc", false, "Sort descending")
	fs.IntVarP(&o.page, "page", "p", 1, "Page to print (10 rows per page)")
	fs.BoolVar(&o.all, "all", false, "Print every page")
	fs.StringSliceVarP(&o.columns, "columns", "c", nil, "Comma-separated column keys to print, in order")
	fs.StringVarP(&o.format, "format", "f", "table", "Output format: table|csv|json")
	_ = cmd.RegisterFlagCompletionFunc("format", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{"table", "csv", "json"}, cobra.ShellCompDirectiveNoFileComp
	})
	return cmd
}

func (o *printOptions) run(w io.Writer, pipe *view.Pipeline, rows []tbl.Row, keys []string) error {
	if o.sortKey != "" && !slices.Contains(keys, o.sortKey) {
		return fmt.Errorf("unknown sort column %q (have: %s)", o.sortKey, strings.Join(keys, ", "))
	}
	dir := view.Asc
	if o.desc {
		dir = view.Desc
	}
	in := view.Input{Rows: rows, Search: o.search, SortKey: o.sortKey, SortDir: dir, Page: o.page}

	var res view.Result
	if o.all {
		filtered := view.Filter(rows, o.search)
		pipe.Sort(filtered, o.sortKey, dir)
		res = view.Result{Rows: filtered, Filtered: len(filtered), TotalPages: view.TotalPages(len(filtered), view.PageSize)}
	} else {
		res = pipe.Compute(in)
		if o.page < 1 || o.page > res.TotalPages {
			return fmt.Errorf("page %d out of range (1-%d)", o.page, res.TotalPages)
		}
	}

	switch o.format {
	case "csv":
		return csvcodec.Encode(w, res.Rows, keys)
	case "json":
		return renderJSON(w, res.Rows, keys)
	case "table", "":
		renderTable(w, res, keys, o.page, o.all)
		return nil
	default:
		return fmt.Errorf("unknown format %q (want table, csv or json)", o.format)
	}
}

func renderTable(w io.Writer, res view.Result, keys []string, page int, all bool) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)

	header := make(table.Row, len(keys))
	for i, k := range keys {
		header[i] = k
	}
	t.AppendHeader(header)

	for _, r := range res.Rows {
		row := make(table.Row, len(keys))
		for i, k := range keys {
			row[i] = r.Get(k).Display()
		}
		t.AppendRow(row)
	}

	t.Render()
	if all {
		_, _ = fmt.Fprintf(w, "(%s rows)\n", humanize.Comma(int64(res.Filtered)))
		return
	}
	_, _ = fmt.Fprintf(w, "Page %d of %d (%s rows)\n", page, res.TotalPages, humanize.Comma(int64(res.Filtered)))
}

// renderJSON writes one object per row holding the requested keys that the
// row has. Numbers stay numbers.
func renderJSON(w io.Writer, rows []tbl.Row, keys []string) error {
	out := make([]map[string]tbl.Value, 0, len(rows))
	for _, r := range rows {
		obj := make(map[string]tbl.Value, len(keys))
		for _, k := range keys {
			if v := r.Get(k); !v.IsAbsent() {
				obj[k] = v
			}
		}
		out = append(out, obj)
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
