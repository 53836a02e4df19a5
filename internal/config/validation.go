package config

import (
	"fmt"
	"strings"

	friendlyerrors "github.com/jxwalker/tablemgr/internal/errors"
	"github.com/jxwalker/tablemgr/internal/table"
)

// ValidationError represents a detailed config validation error
type ValidationError struct {
	Field      string
	Value      interface{}
	Message    string
	Suggestion string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("Config validation error in '%s': %s", e.Field, e.Message)
}

func oneOf(v string, valid ...string) bool {
	v = strings.ToLower(v)
	for _, s := range valid {
		if v == s {
			return true
		}
	}
	return false
}

// ValidateDetailed performs comprehensive validation with friendly error messages
func (c *Config) ValidateDetailed() []ValidationError {
	var errs []ValidationError

	if c.Version != 1 {
		errs = append(errs, ValidationError{
			Field:      "version",
			Value:      c.Version,
			Message:    fmt.Sprintf("Unsupported version: %d", c.Version),
			Suggestion: "Use version: 1",
		})
	}

	if c.General.DataRoot == "" {
		errs = append(errs, ValidationError{
			Field:      "general.data_root",
			Message:    "Required field missing",
			Suggestion: "Set to a directory for tablemgr data:\n  data_root: ~/.local/share/tablemgr",
		})
	}

	if c.General.StateDB != "" && !strings.HasSuffix(c.General.StateDB, ".db") {
		errs = append(errs, ValidationError{
			Field:      "general.state_db",
			Value:      c.General.StateDB,
			Message:    "Snapshot database should be a .db file",
			Suggestion: "For example:\n  state_db: ~/.local/share/tablemgr/state.db",
		})
	}

	if _, err := c.LocaleTag(); err != nil {
		errs = append(errs, ValidationError{
			Field:      "table.locale",
			Value:      c.Table.Locale,
			Message:    "Not a valid BCP 47 language tag",
			Suggestion: "Use a tag such as en, de, sv or fr-CA",
		})
	}

	seen := make(map[string]bool, len(c.Table.Columns))
	for i, col := range c.Table.Columns {
		field := fmt.Sprintf("table.columns[%d].key", i)
		switch {
		case col.Key == "":
			errs = append(errs, ValidationError{
				Field:      field,
				Message:    "Required field missing",
				Suggestion: "Give every column a key, e.g. key: full_name",
			})
		case seen[col.Key]:
			errs = append(errs, ValidationError{
				Field:      field,
				Value:      col.Key,
				Message:    "Duplicate column key",
				Suggestion: "Column keys must be unique",
			})
		case col.Key != table.DeriveKey(col.Key):
			errs = append(errs, ValidationError{
				Field:      field,
				Value:      col.Key,
				Message:    "Key is not normalized",
				Suggestion: fmt.Sprintf("Use %q", table.DeriveKey(col.Key)),
			})
		}
		seen[col.Key] = true
	}

	if c.Table.DefaultSort != "" && len(c.Table.Columns) > 0 && !seen[c.Table.DefaultSort] {
		errs = append(errs, ValidationError{
			Field:      "table.default_sort",
			Value:      c.Table.DefaultSort,
			Message:    "Not one of the configured column keys",
			Suggestion: "Pick a key listed under table.columns",
		})
	}

	if c.Import.MaxFileBytes < 0 {
		errs = append(errs, ValidationError{
			Field:      "import.max_file_bytes",
			Value:      c.Import.MaxFileBytes,
			Message:    "Must be >= 0",
			Suggestion: "Use 0 for no limit",
		})
	}

	if !oneOf(c.UI.Theme, "", "auto", "light", "dark") {
		errs = append(errs, ValidationError{
			Field:      "ui.theme",
			Value:      c.UI.Theme,
			Message:    "Invalid theme",
			Suggestion: "Use one of: auto, light, dark",
		})
	}

	if !oneOf(c.Logging.Level, "", "debug", "info", "warn", "error") {
		errs = append(errs, ValidationError{
			Field:      "logging.level",
			Value:      c.Logging.Level,
			Message:    "Invalid log level",
			Suggestion: "Use one of: debug, info, warn, error",
		})
	}

	if !oneOf(c.Logging.Format, "", "human", "json") {
		errs = append(errs, ValidationError{
			Field:      "logging.format",
			Value:      c.Logging.Format,
			Message:    "Invalid log format",
			Suggestion: "Use one of: human, json",
		})
	}

	return errs
}

// ValidateWithFriendlyErrors returns a user-friendly validation error
func (c *Config) ValidateWithFriendlyErrors() error {
	errs := c.ValidateDetailed()
	if len(errs) == 0 {
		return nil
	}

	var msg strings.Builder
	msg.WriteString("Configuration validation failed:\n\n")

	for i, err := range errs {
		msg.WriteString(fmt.Sprintf("%d. %s\n", i+1, err.Error()))
		if err.Value != nil {
			msg.WriteString(fmt.Sprintf("   Current value: %v\n", err.Value))
		}
		if err.Suggestion != "" {
			for _, line := range strings.Split(err.Suggestion, "\n") {
				msg.WriteString(fmt.Sprintf("   → %s\n", line))
			}
		}
		msg.WriteString("\n")
	}

	return friendlyerrors.NewFriendlyError(
		"Config validation failed",
		msg.String(),
	).WithKind(friendlyerrors.ErrConfig).WithDocs("https://github.com/jxwalker/tablemgr#configuration")
}
