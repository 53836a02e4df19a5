package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"

	friendlyerrors "github.com/jxwalker/tablemgr/internal/errors"
	"github.com/jxwalker/tablemgr/internal/table"
)

func TestLoadSampleConfig(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	c, err := Load("../../assets/sample-config/config.example.yml")
	require.NoError(t, err)
	assert.Equal(t, 1, c.Version)
	assert.Equal(t, filepath.Join(os.Getenv("HOME"), ".local/share/tablemgr"), c.General.DataRoot)
	assert.Equal(t, filepath.Join(os.Getenv("HOME"), "Downloads"), c.General.ExportDir)
	assert.Equal(t, table.DefaultColumns(), c.Table.Columns)
	assert.Empty(t, c.ValidateDetailed())
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadKeepsDefaultsForMissingKeys(t *testing.T) {
	path := writeConfig(t, "version: 1\nui:\n  theme: dark\n")
	c, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "dark", c.UI.Theme)
	assert.True(t, c.Import.InferNumbers)
	assert.True(t, c.Table.SeedRows)
	assert.Equal(t, "name", c.Table.DefaultSort)
	assert.Len(t, c.Table.Columns, 4)
}

func TestLoadExpandsEnv(t *testing.T) {
	t.Setenv("TABLEMGR_TEST_EXPORT", "/tmp/exports")
	path := writeConfig(t, "version: 1\ngeneral:\n  data_root: /tmp/tm\n  export_dir: ${TABLEMGR_TEST_EXPORT}\n")
	c, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/tmp/exports", c.General.ExportDir)
}

func TestLoadRejectsBadValues(t *testing.T) {
	cases := map[string]string{
		"version":   "version: 2\n",
		"level":     "version: 1\nlogging:\n  level: loud\n",
		"theme":     "version: 1\nui:\n  theme: sepia\n",
		"locale":    "version: 1\ntable:\n  locale: \"not a tag!\"\n",
		"duplicate": "version: 1\ntable:\n  columns:\n    - {key: a}\n    - {key: a}\n",
		"maxbytes":  "version: 1\nimport:\n  max_file_bytes: -1\n",
	}
	for name, body := range cases {
		_, err := Load(writeConfig(t, body))
		assert.Error(t, err, name)
	}
}

func TestLoadOrDefaultMissingFile(t *testing.T) {
	c, err := LoadOrDefault(filepath.Join(t.TempDir(), "nope.yml"))
	require.NoError(t, err)
	assert.Equal(t, Default().Table, c.Table)
}

func TestSaveThenLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yml")
	c := Default()
	c.UI.Theme = "light"
	c.Table.Columns = append(c.Table.Columns, table.Column{Key: "team", Label: "Team"})
	require.NoError(t, Save(path, c))

	back, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, c, back)
}

func TestValidateDetailed(t *testing.T) {
	c := Default()
	c.Table.Columns = []table.Column{{Key: "Full Name"}, {Key: ""}, {Key: "age"}, {Key: "age"}}
	c.Table.DefaultSort = "missing"
	c.UI.Theme = "neon"

	fields := map[string]bool{}
	for _, e := range c.ValidateDetailed() {
		fields[e.Field] = true
	}
	assert.True(t, fields["table.columns[0].key"])
	assert.True(t, fields["table.columns[1].key"])
	assert.True(t, fields["table.columns[3].key"])
	assert.False(t, fields["table.columns[2].key"])
	assert.True(t, fields["table.default_sort"])
	assert.True(t, fields["ui.theme"])

	err := c.ValidateWithFriendlyErrors()
	require.Error(t, err)
	assert.True(t, errors.Is(err, friendlyerrors.ErrConfig))
	assert.Contains(t, err.Error(), "Use one of: auto, light, dark")
}

func TestLocaleTag(t *testing.T) {
	c := Default()
	c.Table.Locale = ""
	tag, err := c.LocaleTag()
	require.NoError(t, err)
	assert.Equal(t, language.English, tag)

	c.Table.Locale = "sv"
	tag, err = c.LocaleTag()
	require.NoError(t, err)
	assert.Equal(t, language.Swedish, tag)
}

func TestDefaultPathFromEnv(t *testing.T) {
	t.Setenv(EnvConfigPath, "/etc/tablemgr.yml")
	assert.Equal(t, "/etc/tablemgr.yml", DefaultPath())
}

func TestColumnsFillLabels(t *testing.T) {
	c := Default()
	c.Table.Columns = []table.Column{{Key: "team", Visible: true}}
	assert.Equal(t, "team", c.Columns()[0].Label)
	assert.Equal(t, "", c.Table.Columns[0].Label)
}
