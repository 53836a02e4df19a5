package errors

import (
	"encoding/csv"
	stderrors "errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestImportParseErrorQuoting(t *testing.T) {
	_, err := csv.NewReader(strings.NewReader("a,b\n1,\"x\"y\n")).ReadAll()
	require.Error(t, err)

	fe := ImportParseError(fmt.Errorf("people.csv: %w", err))
	assert.True(t, stderrors.Is(fe, ErrImportParse))
	assert.Contains(t, fe.Message, "malformed quoting on line 2")

	var pe *csv.ParseError
	assert.True(t, stderrors.As(fe, &pe), "cause stays reachable")
}

func TestImportParseErrorMissingFile(t *testing.T) {
	fe := ImportParseError(stderrors.New("open x.csv: no such file or directory"))
	assert.Equal(t, "Error importing CSV: file not found", fe.Message)
}

func TestKindsMatchWithErrorsIs(t *testing.T) {
	cases := []struct {
		err  error
		kind error
	}{
		{UnsupportedFileError("a.txt"), ErrImportParse},
		{FileTooLargeError("a.csv", 2048, 1024), ErrImportParse},
		{DuplicateColumnKey("name"), ErrDuplicateColumnKey},
		{EmptyColumnLabel(), ErrEmptyColumnLabel},
		{ExportError("/tmp/out", stderrors.New("boom")), ErrExport},
		{SnapshotError(nil), ErrSnapshot},
		{ConfigError("ui.theme", "bad"), ErrConfig},
	}
	for _, tc := range cases {
		assert.True(t, stderrors.Is(tc.err, tc.kind), "%v should be %v", tc.err, tc.kind)
	}
	assert.False(t, stderrors.Is(DuplicateColumnKey("x"), ErrImportParse))
}

func TestFileTooLargeMessage(t *testing.T) {
	fe := FileTooLargeError("big.csv", 2<<20, 1<<20)
	assert.Equal(t, "Error importing CSV: big.csv is 2.0 MiB, the limit is 1.0 MiB", fe.Message)
}

func TestErrorText(t *testing.T) {
	fe := NewFriendlyError("Something broke", "Try again").WithDocs("https://example.com/docs")
	assert.Equal(t, "Something broke\n\nHow to fix:\nTry again\n\nDocumentation: https://example.com/docs", fe.Error())
}

func TestPathErrorVariants(t *testing.T) {
	assert.Equal(t, "Permission denied: /out", PathError("/out", stderrors.New("open /out: permission denied")).Message)
	assert.Equal(t, "Directory does not exist: /out", PathError("/out", stderrors.New("no such file or directory")).Message)
	assert.Equal(t, "Export failed: Path error: /out", ExportError("/out", stderrors.New("disk full")).Message)
}

func TestSummary(t *testing.T) {
	title, body := Summary(DuplicateColumnKey("full_name"))
	assert.Equal(t, "Column already exists! (full_name)", title)
	assert.Equal(t, "Pick a label that normalizes to a different key", body)

	title, body = Summary(SnapshotError(stderrors.New("database is locked")))
	assert.Equal(t, "Snapshot database is locked by another process", title)
	assert.True(t, strings.HasSuffix(body, "\n\ndatabase is locked"))

	title, body = Summary(stderrors.New("plain"))
	assert.Equal(t, "plain", title)
	assert.Empty(t, body)

	title, body = Summary(nil)
	assert.Empty(t, title)
	assert.Empty(t, body)
}
