package logging

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(&buf, "warn", false)
	l.now = func() time.Time { return time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC) }

	l.Infof("hidden %d", 1)
	l.Warnf("import %s failed", "a.csv")

	assert.Equal(t, "03:04:05\tWARN\timport a.csv failed\n", buf.String())
}

func TestJSONOutput(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(&buf, "debug", true)
	l.Debugf("rows=%d", 3)

	var got map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, "debug", got["level"])
	assert.Equal(t, "rows=3", got["msg"])
	assert.NotEmpty(t, got["ts"])
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, Debug, ParseLevel(" DEBUG "))
	assert.Equal(t, Info, ParseLevel("bogus"))
	assert.Equal(t, Error, ParseLevel("error"))
}

func TestOpenFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "tablemgr.log")
	l, c, err := OpenFile(FileOptions{Enabled: true, Path: path, Level: "info"})
	require.NoError(t, err)
	l.Infof("hello")
	require.NoError(t, c.Close())

	l2, c2, err := OpenFile(FileOptions{Enabled: false, Path: path})
	require.NoError(t, err)
	l2.Errorf("dropped")
	require.NoError(t, c2.Close())

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(string(b), "INFO\thello\n"))
	assert.NotContains(t, string(b), "dropped")
}

func TestNilLoggerIsSilent(t *testing.T) {
	var l *Logger
	assert.NotPanics(t, func() { l.Infof("x") })
}
