package csvcodec

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	ferrors "github.com/jxwalker/tablemgr/internal/errors"
	"github.com/jxwalker/tablemgr/internal/table"
)

// DecodeFile decodes the .csv file at path. maxBytes > 0 rejects larger
// files before reading. It returns the records and the file size. Every
// failure is an ImportParseError.
func DecodeFile(ctx context.Context, path string, maxBytes int64) ([]table.Record, int64, error) {
	if !strings.EqualFold(filepath.Ext(path), ".csv") {
		return nil, 0, ferrors.UnsupportedFileError(path)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, ferrors.ImportParseError(err)
	}
	defer func() { _ = f.Close() }()

	fi, err := f.Stat()
	if err != nil {
		return nil, 0, ferrors.ImportParseError(err)
	}
	if fi.IsDir() {
		return nil, 0, ferrors.UnsupportedFileError(path)
	}
	if maxBytes > 0 && fi.Size() > maxBytes {
		return nil, fi.Size(), ferrors.FileTooLargeError(path, fi.Size(), maxBytes)
	}
	recs, err := Decode(ctx, bufio.NewReader(f))
	if err != nil {
		return nil, fi.Size(), ferrors.ImportParseError(fmt.Errorf("%s: %w", filepath.Base(path), err))
	}
	return recs, fi.Size(), nil
}

// WriteFile exports rows projected onto keys to dir/table-data.csv. The file
// is written to a temp name, synced and renamed into place, so a reader never
// sees a partial export. It returns the final path.
func WriteFile(dir string, rows []table.Row, keys []string) (string, error) {
	if dir == "" {
		dir = "."
	}
	final := filepath.Join(dir, ExportFileName)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", ferrors.ExportError(dir, err)
	}
	tmp, err := os.CreateTemp(dir, "."+ExportFileName+".*.part")
	if err != nil {
		return "", ferrors.ExportError(dir, err)
	}
	cleanup := func() {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
	}

	w := bufio.NewWriter(tmp)
	if err := Encode(w, rows, keys); err != nil {
		cleanup()
		return "", ferrors.ExportError(final, err)
	}
	if err := w.Flush(); err != nil {
		cleanup()
		return "", ferrors.ExportError(final, err)
	}
	if err := tmp.Sync(); err != nil {
		cleanup()
		return "", ferrors.ExportError(final, err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return "", ferrors.ExportError(final, err)
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		_ = os.Remove(tmp.Name())
		return "", ferrors.ExportError(final, err)
	}
	if err := os.Rename(tmp.Name(), final); err != nil {
		_ = os.Remove(tmp.Name())
		return "", ferrors.ExportError(final, err)
	}
	_ = fsyncDir(dir)
	return final, nil
}

func fsyncDir(dir string) error {
	df, err := os.Open(dir)
	if err != nil {
		return err
	}
	defer func() { _ = df.Close() }()
	return df.Sync()
}
