package logging

import (
	"os"
	"path/filepath"
	"strings"
)

// SanitizePath replaces the home directory prefix with ~ so log lines do not
// carry user names.
func SanitizePath(p string) string {
	s := strings.TrimSpace(p)
	if s == "" {
		return s
	}
	h, err := os.UserHomeDir()
	if err != nil || h == "" {
		return s
	}
	if s == h {
		return "~"
	}
	if rest, ok := strings.CutPrefix(s, h+string(filepath.Separator)); ok {
		return filepath.Join("~", rest)
	}
	return s
}
