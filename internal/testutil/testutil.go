// Package testutil holds fixtures shared by package tests.
package testutil

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jxwalker/tablemgr/internal/state"
	"github.com/jxwalker/tablemgr/internal/table"
)

// PeopleCSV is a small file in the default column layout.
const PeopleCSV = `id,name,email,age,role
1,Bob,bob@example.com,30,Backend Developer
2,Amy,amy@example.com,25,Designer
3,"Lee, Jr.",lee@example.com,41,"Says ""hi"""
`

// TempDir creates a temporary directory for testing
func TempDir(t *testing.T) string {
	t.Helper()

	dir, err := os.MkdirTemp("", "tablemgr-test-*")
	if err != nil {
		t.Fatalf("failed to create temp dir: %v", err)
	}

	t.Cleanup(func() {
		_ = os.RemoveAll(dir)
	})

	return dir
}

// TempFile creates a temporary file with content
func TempFile(t *testing.T, name, content string) string {
	t.Helper()

	path := filepath.Join(TempDir(t), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write temp file: %v", err)
	}
	return path
}

// People returns n rows with name, email, age and role set. Names cycle
// through a fixed list so searches have predictable hits.
func People(n int) []table.Row {
	first := []string{"Amy", "Bob", "Cara", "Dev", "Eli", "Fay", "Gus"}
	roles := []string{"Designer", "Backend Developer", "Frontend Developer"}
	rows := make([]table.Row, n)
	for i := range rows {
		name := fmt.Sprintf("%s %02d", first[i%len(first)], i)
		rows[i] = table.NewRow(fmt.Sprint(i+1)).
			With("name", table.Text(name)).
			With("email", table.Text(strings.ToLower(strings.ReplaceAll(name, " ", "."))+"@example.com")).
			With("age", table.Number(float64(20+i%40))).
			With("role", table.Text(roles[i%len(roles)]))
	}
	return rows
}

// Stores returns fresh stores holding rows and the default UI state.
func Stores(rows []table.Row) (*state.RowStore, *state.UIStore) {
	return state.NewRowStore(rows), state.NewUIStore(state.DefaultUIState())
}

// ReadFile returns the content of path or fails the test.
func ReadFile(t *testing.T, path string) string {
	t.Helper()
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	return string(b)
}
