package errors

import (
	"encoding/csv"
	stderrors "errors"
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
)

// Kinds of user-facing failure. Match them with errors.Is.
var (
	ErrImportParse        = stderrors.New("import failed")
	ErrDuplicateColumnKey = stderrors.New("duplicate column key")
	ErrEmptyColumnLabel   = stderrors.New("empty column label")
	ErrExport             = stderrors.New("export failed")
	ErrSnapshot           = stderrors.New("snapshot failed")
	ErrConfig             = stderrors.New("invalid configuration")
)

// UserFriendlyError provides actionable error messages for end users
type UserFriendlyError struct {
	Kind       error  // One of the Err* sentinels; may be nil
	Message    string // User-facing message explaining what went wrong
	Suggestion string // Actionable steps to fix the issue
	DocsLink   string // Optional link to documentation
	Details    error  // Original error for debugging/logs
}

func (e *UserFriendlyError) Error() string {
	var sb strings.Builder
	sb.WriteString(e.Message)

	if e.Suggestion != "" {
		sb.WriteString("\n\n")
		sb.WriteString("How to fix:\n")
		sb.WriteString(e.Suggestion)
	}

	if e.DocsLink != "" {
		sb.WriteString("\n\n")
		sb.WriteString("Documentation: ")
		sb.WriteString(e.DocsLink)
	}

	return sb.String()
}

// Unwrap exposes both the kind and the underlying cause.
func (e *UserFriendlyError) Unwrap() []error {
	var out []error
	if e.Kind != nil {
		out = append(out, e.Kind)
	}
	if e.Details != nil {
		out = append(out, e.Details)
	}
	return out
}

// NewFriendlyError creates a user-friendly error
func NewFriendlyError(message, suggestion string) *UserFriendlyError {
	return &UserFriendlyError{
		Message:    message,
		Suggestion: suggestion,
	}
}

// WithDetails adds the underlying error details
func (e *UserFriendlyError) WithDetails(err error) *UserFriendlyError {
	e.Details = err
	return e
}

// WithDocs adds a documentation link
func (e *UserFriendlyError) WithDocs(link string) *UserFriendlyError {
	e.DocsLink = link
	return e
}

// WithKind tags the error with one of the Err* sentinels
func (e *UserFriendlyError) WithKind(kind error) *UserFriendlyError {
	e.Kind = kind
	return e
}

// ImportParseError wraps a CSV decode or file read failure.
func ImportParseError(err error) *UserFriendlyError {
	msg := "Error importing CSV"
	suggestion := "Check that the file is valid CSV with a header line, then import it again"

	var pe *csv.ParseError
	switch {
	case err == nil:
	case stderrors.As(err, &pe) && (stderrors.Is(pe.Err, csv.ErrBareQuote) || stderrors.Is(pe.Err, csv.ErrQuote)):
		msg = fmt.Sprintf("Error importing CSV: malformed quoting on line %d", pe.Line)
		suggestion = "A field contains an unbalanced double quote.\n" +
			"Quote the whole field and double any quotes inside it: \"say \"\"hi\"\"\""
	case stderrors.As(err, &pe):
		msg = fmt.Sprintf("Error importing CSV: line %d", pe.Line)
	case strings.Contains(err.Error(), "no such file or directory"):
		msg = "Error importing CSV: file not found"
		suggestion = "Check the path and try again"
	case strings.Contains(err.Error(), "permission denied"):
		msg = "Error importing CSV: permission denied"
		suggestion = "Make sure the file is readable"
	}

	return &UserFriendlyError{
		Kind:       ErrImportParse,
		Message:    msg,
		Suggestion: suggestion,
		Details:    err,
	}
}

// UnsupportedFileError rejects import paths that are not .csv files.
func UnsupportedFileError(path string) *UserFriendlyError {
	return &UserFriendlyError{
		Kind:       ErrImportParse,
		Message:    fmt.Sprintf("Error importing CSV: %s is not a .csv file", path),
		Suggestion: "Choose a file with a .csv extension",
	}
}

// FileTooLargeError rejects imports above the configured size limit.
func FileTooLargeError(path string, size, max int64) *UserFriendlyError {
	return &UserFriendlyError{
		Kind: ErrImportParse,
		Message: fmt.Sprintf("Error importing CSV: %s is %s, the limit is %s",
			path, humanize.IBytes(uint64(size)), humanize.IBytes(uint64(max))),
		Suggestion: "Raise import.max_file_bytes in the config or split the file",
	}
}

// DuplicateColumnKey reports an add-column request whose derived key is taken.
func DuplicateColumnKey(key string) *UserFriendlyError {
	return &UserFriendlyError{
		Kind:       ErrDuplicateColumnKey,
		Message:    fmt.Sprintf("Column already exists! (%s)", key),
		Suggestion: "Pick a label that normalizes to a different key",
	}
}

// EmptyColumnLabel reports an add-column request with a blank label.
func EmptyColumnLabel() *UserFriendlyError {
	return &UserFriendlyError{
		Kind:    ErrEmptyColumnLabel,
		Message: "Column name is empty",
	}
}

// ExportError wraps a failure writing the export file.
func ExportError(path string, err error) *UserFriendlyError {
	e := PathError(path, err)
	e.Kind = ErrExport
	e.Message = "Export failed: " + e.Message
	return e
}

// SnapshotError wraps a failure saving or loading the session snapshot.
func SnapshotError(err error) *UserFriendlyError {
	e := DatabaseError(err)
	e.Kind = ErrSnapshot
	return e
}

// ConfigError returns configuration-related errors
func ConfigError(field, issue string) *UserFriendlyError {
	return &UserFriendlyError{
		Kind:       ErrConfig,
		Message:    fmt.Sprintf("Configuration error in field '%s': %s", field, issue),
		Suggestion: "Run 'tablemgr config validate' to check your configuration\nOr run 'tablemgr config init' to create a new configuration interactively",
		DocsLink:   "https://github.com/jxwalker/tablemgr#configuration",
	}
}

// DatabaseError returns database-related errors with recovery suggestions
func DatabaseError(err error) *UserFriendlyError {
	msg := "Snapshot database error"
	suggestion := "Check general.state_db in your config"

	if err != nil {
		errStr := err.Error()

		if strings.Contains(errStr, "already running") || strings.Contains(errStr, "locked") {
			msg = "Snapshot database is locked by another process"
			suggestion = "Close other tablemgr instances and try again"
		}

		if strings.Contains(errStr, "corrupt") || strings.Contains(errStr, "malformed") {
			msg = "Snapshot database is corrupted"
			suggestion = "Move the file aside and start a new snapshot:\n" +
				"  mv state.db state.db.backup"
		}
	}

	return &UserFriendlyError{
		Message:    msg,
		Suggestion: suggestion,
		Details:    err,
	}
}

// PathError returns file/directory path related errors
func PathError(path string, err error) *UserFriendlyError {
	msg := fmt.Sprintf("Path error: %s", path)
	suggestion := "Check that the path exists and you have permission to access it"

	if err != nil {
		errStr := err.Error()

		if strings.Contains(errStr, "permission denied") {
			msg = fmt.Sprintf("Permission denied: %s", path)
			suggestion = fmt.Sprintf("Ensure you have write permission:\n  chmod u+w %s", path)
		}

		if strings.Contains(errStr, "no such file or directory") {
			msg = fmt.Sprintf("Directory does not exist: %s", path)
			suggestion = fmt.Sprintf("Create the directory:\n  mkdir -p %s", path)
		}

		if strings.Contains(errStr, "not a directory") {
			msg = fmt.Sprintf("Path exists but is not a directory: %s", path)
			suggestion = "Remove the file or choose a different path"
		}
	}

	return &UserFriendlyError{
		Message:    msg,
		Suggestion: suggestion,
		Details:    err,
	}
}

// Summary splits an error into the title and body shown in an alert.
func Summary(err error) (title, body string) {
	if err == nil {
		return "", ""
	}
	var fe *UserFriendlyError
	if stderrors.As(err, &fe) {
		body = fe.Suggestion
		if fe.Details != nil {
			if body != "" {
				body += "\n\n"
			}
			body += fe.Details.Error()
		}
		return fe.Message, body
	}
	return err.Error(), ""
}
