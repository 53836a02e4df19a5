package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"

	"github.com/jxwalker/tablemgr/internal/table"
)

// EnvConfigPath overrides the default config location.
const EnvConfigPath = "TABLEMGR_CONFIG"

// Config mirrors the YAML schema. A missing file means Default().
type Config struct {
	Version int       `yaml:"version"`
	General General   `yaml:"general"`
	Table   TableConf `yaml:"table"`
	Import  Import    `yaml:"import"`
	UI      UIOptions `yaml:"ui"`
	Logging Logging   `yaml:"logging"`
}

type General struct {
	DataRoot  string `yaml:"data_root"`
	ExportDir string `yaml:"export_dir"` // where table-data.csv is written; defaults to the working directory
	StateDB   string `yaml:"state_db"`   // snapshot database; empty disables snapshots
}

type TableConf struct {
	// Locale is a BCP 47 tag used for text collation when sorting.
	Locale      string         `yaml:"locale"`
	DefaultSort string         `yaml:"default_sort"`
	SeedRows    bool           `yaml:"seed_rows"`
	Columns     []table.Column `yaml:"columns"`
}

type Import struct {
	InferNumbers bool  `yaml:"infer_numbers"`
	MaxFileBytes int64 `yaml:"max_file_bytes"` // 0 means unlimited
}

type UIOptions struct {
	Theme string `yaml:"theme"` // auto | light | dark
	// Watch re-imports the opened CSV file whenever it changes on disk.
	Watch bool `yaml:"watch"`
}

type Logging struct {
	Level  string  `yaml:"level"`  // debug|info|warn|error
	Format string  `yaml:"format"` // human|json
	File   LogFile `yaml:"file"`
}

type LogFile struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

// DefaultPath is $TABLEMGR_CONFIG or ~/.config/tablemgr/config.yml.
func DefaultPath() string {
	if p := os.Getenv(EnvConfigPath); p != "" {
		return p
	}
	h, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".tablemgr", "config.yml")
	}
	return filepath.Join(h, ".config", "tablemgr", "config.yml")
}

// Default returns the built-in configuration.
func Default() *Config {
	dataRoot := "~/.local/share/tablemgr"
	if x := os.Getenv("XDG_DATA_HOME"); x != "" {
		dataRoot = filepath.Join(x, "tablemgr")
	}
	c := &Config{
		Version: 1,
		General: General{
			DataRoot:  dataRoot,
			ExportDir: ".",
		},
		Table: TableConf{
			Locale:      "en",
			DefaultSort: "name",
			SeedRows:    true,
			Columns:     table.DefaultColumns(),
		},
		Import:  Import{InferNumbers: true, MaxFileBytes: 64 << 20},
		UI:      UIOptions{Theme: "auto"},
		Logging: Logging{Level: "info", Format: "human"},
	}
	_ = c.expandPaths()
	return c
}

// Load reads, parses, expands, and validates a YAML config file. Keys the
// file leaves out keep their Default() values.
func Load(path string) (*Config, error) {
	c, err := Parse(path)
	if err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Parse is Load without validation.
func Parse(path string) (*Config, error) {
	if path == "" {
		return nil, errors.New("config path is empty")
	}
	expanded, err := expandTilde(path)
	if err != nil {
		return nil, err
	}
	b, err := os.ReadFile(expanded)
	if err != nil {
		return nil, err
	}
	// Expand ${ENV} placeholders before unmarshalling
	b = []byte(os.ExpandEnv(string(b)))
	c := Default()
	c.Table.Columns = nil
	if err := yaml.Unmarshal(b, c); err != nil {
		return nil, fmt.Errorf("%s: %w", expanded, err)
	}
	if c.Table.Columns == nil {
		c.Table.Columns = table.DefaultColumns()
	}
	if err := c.expandPaths(); err != nil {
		return nil, err
	}
	return c, nil
}

// LoadOrDefault is Load, except that a missing file yields Default().
func LoadOrDefault(path string) (*Config, error) {
	c, err := Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Default(), nil
	}
	return c, err
}

// Save writes c as YAML, creating parent directories.
func Save(path string, c *Config) error {
	expanded, err := expandTilde(path)
	if err != nil {
		return err
	}
	if err := EnsureDir(filepath.Dir(expanded), 0o755); err != nil {
		return err
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(expanded, b, 0o644)
}

func (c *Config) expandPaths() error {
	var err error
	if c.General.DataRoot, err = expandTilde(c.General.DataRoot); err != nil {
		return err
	}
	if c.General.ExportDir, err = expandTilde(c.General.ExportDir); err != nil {
		return err
	}
	if c.General.StateDB, err = expandTilde(c.General.StateDB); err != nil {
		return err
	}
	if c.Logging.File.Path, err = expandTilde(c.Logging.File.Path); err != nil {
		return err
	}
	return nil
}

// Validate is the quick check run by Load; ValidateDetailed explains every
// problem at once.
func (c *Config) Validate() error {
	if c.Version != 1 {
		return fmt.Errorf("unsupported config version: %d", c.Version)
	}
	if c.General.DataRoot == "" {
		return errors.New("general.data_root is required")
	}
	switch strings.ToLower(c.Logging.Level) {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level invalid: %s", c.Logging.Level)
	}
	switch strings.ToLower(c.Logging.Format) {
	case "", "human", "json":
	default:
		return fmt.Errorf("logging.format invalid: %s", c.Logging.Format)
	}
	switch strings.ToLower(c.UI.Theme) {
	case "", "auto", "light", "dark":
	default:
		return fmt.Errorf("ui.theme invalid: %s", c.UI.Theme)
	}
	if _, err := c.LocaleTag(); err != nil {
		return fmt.Errorf("table.locale: %w", err)
	}
	seen := make(map[string]bool, len(c.Table.Columns))
	for i, col := range c.Table.Columns {
		if col.Key == "" {
			return fmt.Errorf("table.columns[%d]: key required", i)
		}
		if seen[col.Key] {
			return fmt.Errorf("table.columns[%d]: duplicate key %q", i, col.Key)
		}
		seen[col.Key] = true
	}
	if c.Import.MaxFileBytes < 0 {
		return errors.New("import.max_file_bytes must be >= 0")
	}
	return nil
}

// LocaleTag parses table.locale, treating empty as English.
func (c *Config) LocaleTag() (language.Tag, error) {
	if strings.TrimSpace(c.Table.Locale) == "" {
		return language.English, nil
	}
	return language.Parse(c.Table.Locale)
}

// Columns returns the configured columns with labels filled in from keys.
func (c *Config) Columns() []table.Column {
	out := make([]table.Column, len(c.Table.Columns))
	for i, col := range c.Table.Columns {
		if col.Label == "" {
			col.Label = col.Key
		}
		out[i] = col
	}
	return out
}

// LogPath is the log file used in TUI mode.
func (c *Config) LogPath() string {
	if c.Logging.File.Path != "" {
		return c.Logging.File.Path
	}
	return filepath.Join(c.General.DataRoot, "tablemgr.log")
}

func expandTilde(p string) (string, error) {
	if p == "" {
		return "", nil
	}
	if p[0] != '~' {
		return p, nil
	}
	h, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	if p == "~" {
		return h, nil
	}
	return filepath.Join(h, p[2:]), nil
}

// EnsureDir creates path if it is set.
func EnsureDir(path string, perm fs.FileMode) error {
	if path == "" {
		return nil
	}
	return os.MkdirAll(path, perm)
}
