package csvcodec

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ferrors "github.com/jxwalker/tablemgr/internal/errors"
	"github.com/jxwalker/tablemgr/internal/table"
	"github.com/jxwalker/tablemgr/internal/testutil"
)

func seqIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("gen-%d", n)
	}
}

func TestDecodeHeaderAndBlankLines(t *testing.T) {
	in := "\ufeffname,age\n\nBob,30\n\nAmy,25\n"
	recs, err := Decode(context.Background(), strings.NewReader(in))
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, table.Record{{Key: "name", Value: "Bob"}, {Key: "age", Value: "30"}}, recs[0])
}

func TestDecodeRaggedLines(t *testing.T) {
	in := "a,b,c\n1\n1,2,3,4\n"
	recs, err := Decode(context.Background(), strings.NewReader(in))
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, table.Record{{Key: "a", Value: "1"}}, recs[0])
	assert.Len(t, recs[1], 3)
}

func TestDecodeEmptyAndHeaderOnly(t *testing.T) {
	recs, err := Decode(context.Background(), strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, recs)

	recs, err = Decode(context.Background(), strings.NewReader("name,age\n"))
	require.NoError(t, err)
	assert.Empty(t, recs)
}

func TestHeaderKeys(t *testing.T) {
	assert.Equal(t, []string{"a", "a_1", "field_3", "a_2"}, headerKeys([]string{"a", "a", "", "a"}))
}

func TestDecodeMalformedQuote(t *testing.T) {
	in := "name,note\nBob,\"unterminated\nAmy,x\n"
	_, err := Decode(context.Background(), strings.NewReader(in))
	require.Error(t, err)

	fe := ferrors.ImportParseError(err)
	assert.True(t, errors.Is(fe, ferrors.ErrImportParse))
	assert.Contains(t, fe.Message, "malformed quoting")
}

func TestDecodeCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Decode(ctx, strings.NewReader("a\n1\n"))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestToRowsIDs(t *testing.T) {
	recs := []table.Record{
		{{Key: "id", Value: "7"}, {Key: "name", Value: "Bob"}},
		{{Key: "id", Value: ""}, {Key: "name", Value: "Amy"}},
		{{Key: "id", Value: "9"}, {Key: "name", Value: "Cat"}},
		{{Key: "id", Value: "9"}, {Key: "name", Value: "Dan"}},
		{{Key: "name", Value: "Eve"}},
	}
	rows := ToRows(recs, Options{NewID: seqIDs()})
	got := make([]string, len(rows))
	for i, r := range rows {
		got[i] = r.ID
	}
	assert.Equal(t, []string{"7", "gen-1", "gen-2", "gen-3", "gen-4"}, got)
	assert.Equal(t, "7", rows[0].Get("id").String())
}

func TestToRowsInferNumbers(t *testing.T) {
	recs := []table.Record{{{Key: "age", Value: "30"}, {Key: "zip", Value: "02134"}}}

	rows := ToRows(recs, Options{InferNumbers: true})
	assert.True(t, rows[0].Get("age").IsNumber())
	assert.True(t, rows[0].Get("zip").IsText())
	assert.NotEmpty(t, rows[0].ID)

	rows = ToRows(recs, Options{})
	assert.True(t, rows[0].Get("age").IsText())
}

func TestEncodeProjects(t *testing.T) {
	rows := []table.Row{
		table.NewRow("1").With("name", table.Text("Bob")).With("age", table.Number(30)).With("role", table.Text("x")),
		table.NewRow("2").With("name", table.Text("Lee, \"Jr\"")),
	}
	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, rows, []string{"age", "name"}))
	assert.Equal(t, "age,name\n30,Bob\n,\"Lee, \"\"Jr\"\"\"\n", buf.String())
}

func TestEncodeHeaderOnly(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, nil, []string{"name", "email"}))
	assert.Equal(t, "name,email\n", buf.String())
}

func TestExportImportRoundTrip(t *testing.T) {
	rows := testutil.People(23)
	keys := []string{"name", "email", "age", "role"}
	dir := testutil.TempDir(t)

	path, err := WriteFile(dir, rows, keys)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, ExportFileName), path)

	recs, size, err := DecodeFile(context.Background(), path, 0)
	require.NoError(t, err)
	assert.Positive(t, size)
	back := ToRows(recs, Options{InferNumbers: true})

	require.Len(t, back, len(rows))
	for i := range rows {
		assert.True(t, rows[i].SameFields(back[i]), "row %d: %v vs %v", i, rows[i], back[i])
	}
}

func TestRoundTripQuotedFixture(t *testing.T) {
	path := testutil.TempFile(t, "people.csv", testutil.PeopleCSV)
	recs, _, err := DecodeFile(context.Background(), path, 0)
	require.NoError(t, err)
	rows := ToRows(recs, Options{InferNumbers: true})
	require.Len(t, rows, 3)
	assert.Equal(t, "Lee, Jr.", rows[2].Get("name").String())
	assert.Equal(t, `Says "hi"`, rows[2].Get("role").String())

	keys := []string{"id", "name", "email", "age", "role"}
	out, err := WriteFile(filepath.Dir(path), rows, keys)
	require.NoError(t, err)
	assert.Equal(t, testutil.PeopleCSV, testutil.ReadFile(t, out))
}

func TestDecodeFileRejects(t *testing.T) {
	dir := testutil.TempDir(t)

	txt := filepath.Join(dir, "notes.txt")
	require.NoError(t, os.WriteFile(txt, []byte("a\n1\n"), 0o644))
	_, _, err := DecodeFile(context.Background(), txt, 0)
	assert.ErrorIs(t, err, ferrors.ErrImportParse)

	_, _, err = DecodeFile(context.Background(), filepath.Join(dir, "missing.csv"), 0)
	assert.ErrorIs(t, err, ferrors.ErrImportParse)
	assert.ErrorIs(t, err, os.ErrNotExist)

	big := filepath.Join(dir, "big.csv")
	require.NoError(t, os.WriteFile(big, []byte(strings.Repeat("a\n", 100)), 0o644))
	_, size, err := DecodeFile(context.Background(), big, 10)
	assert.ErrorIs(t, err, ferrors.ErrImportParse)
	assert.EqualValues(t, 200, size)
}

func TestWriteFileLeavesNoTempFiles(t *testing.T) {
	dir := testutil.TempDir(t)
	_, err := WriteFile(dir, testutil.People(3), []string{"name"})
	require.NoError(t, err)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, ExportFileName, entries[0].Name())
}
