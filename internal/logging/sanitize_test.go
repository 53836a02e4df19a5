package logging

import (
	"path/filepath"
	"testing"
)

func TestSanitizePath(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	cases := []struct {
		in   string
		want string
	}{
		{home, "~"},
		{filepath.Join(home, "data", "people.csv"), filepath.Join("~", "data", "people.csv")},
		{home + "other/x.csv", home + "other/x.csv"},
		{"/srv/table.csv", "/srv/table.csv"},
		{"  ", ""},
	}
	for _, c := range cases {
		got := SanitizePath(c.in)
		if got != c.want {
			t.Errorf("SanitizePath(%q)=%q want %q", c.in, got, c.want)
		}
	}
}
