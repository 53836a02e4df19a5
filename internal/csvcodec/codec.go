// Package csvcodec converts between CSV text and table rows. The first line
// of a file is the header naming the field keys; every further non-blank
// line is one record.
package csvcodec

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"

	"github.com/jxwalker/tablemgr/internal/table"
)

// ExportFileName is the name given to exported files.
const ExportFileName = "table-data.csv"

const bom = "\ufeff"

// Decode reads CSV from r. Blank lines are skipped. Short lines leave their
// trailing keys out of the record and extra cells are dropped. Parse and read
// failures are returned as is; callers wrap them for display.
func Decode(ctx context.Context, r io.Reader) ([]table.Record, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	keys := headerKeys(header)

	var out []table.Record
	for {
		if len(out)%256 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		line, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		rec := make(table.Record, 0, len(keys))
		for i, cell := range line {
			if i >= len(keys) {
				break
			}
			rec = append(rec, table.Field{Key: keys[i], Value: cell})
		}
		out = append(out, rec)
	}
	return out, nil
}

// headerKeys cleans the header: a leading byte order mark is stripped, empty
// names become field_N and repeated names get a _1, _2 suffix.
func headerKeys(header []string) []string {
	keys := make([]string, len(header))
	seen := make(map[string]bool, len(header))
	for i, h := range header {
		if i == 0 {
			h = strings.TrimPrefix(h, bom)
		}
		if h == "" {
			h = fmt.Sprintf("field_%d", i+1)
		}
		k := h
		for n := 1; seen[k]; n++ {
			k = fmt.Sprintf("%s_%d", h, n)
		}
		seen[k] = true
		keys[i] = k
	}
	return keys
}

// Options controls how records become rows.
type Options struct {
	InferNumbers bool
	// NewID generates identifiers for records without a usable id cell.
	// Defaults to random UUIDs.
	NewID func() string
}

// ToRows turns decoded records into rows. A record's "id" cell becomes the
// row ID when it is non-empty and unique within the file; otherwise a fresh
// ID is assigned. The id cell is also kept as an ordinary field.
func ToRows(recs []table.Record, opt Options) []table.Row {
	newID := opt.NewID
	if newID == nil {
		newID = uuid.NewString
	}
	counts := make(map[string]int, len(recs))
	for _, rec := range recs {
		if id, ok := rec.Get("id"); ok && id != "" {
			counts[id]++
		}
	}

	rows := make([]table.Row, 0, len(recs))
	for _, rec := range recs {
		id, _ := rec.Get("id")
		if id == "" || counts[id] > 1 {
			id = newID()
		}
		row := table.NewRow(id)
		for _, f := range rec {
			row = row.With(f.Key, table.ParseValue(f.Value, opt.InferNumbers))
		}
		rows = append(rows, row)
	}
	return rows
}

// Encode writes rows projected onto keys, in that order, with a header line.
// Missing fields are written as empty cells. The header is written even when
// there are no rows.
func Encode(w io.Writer, rows []table.Row, keys []string) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(keys); err != nil {
		return err
	}
	line := make([]string, len(keys))
	for _, r := range rows {
		for i, k := range keys {
			line[i] = r.Get(k).String()
		}
		if err := cw.Write(line); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
