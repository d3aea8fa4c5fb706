package errors

import (
	"errors"
	"fmt"
)

// MenuError is a failure to load settings, build a menu, or write or watch
// one of the package's files. The code decides its category and severity;
// the CLI prints Message, Cause and Suggestion, the log gets all of it.
type MenuError struct {
	Code     string // e.g. ERR_202_FILE_WRITE
	Message  string
	Category Category
	Severity Severity

	// Details names the files and keys involved, e.g. "path", "key".
	Details map[string]string

	Cause error

	// Suggestion tells the user what to change, e.g. a flag or setting.
	Suggestion string
}

func (e *MenuError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *MenuError) Unwrap() error {
	return e.Cause
}

// Is matches another MenuError with the same code.
func (e *MenuError) Is(target error) bool {
	if t, ok := target.(*MenuError); ok {
		return e.Code == t.Code
	}
	return false
}

// WithDetail records a detail and returns e.
func (e *MenuError) WithDetail(key, value string) *MenuError {
	if e.Details == nil {
		e.Details = make(map[string]string)
	}
	e.Details[key] = value
	return e
}

// WithSuggestion sets the hint shown under the error and returns e.
func (e *MenuError) WithSuggestion(suggestion string) *MenuError {
	e.Suggestion = suggestion
	return e
}

// New builds a MenuError; the code's digit groups pick category and severity.
func New(code string, message string, cause error) *MenuError {
	return &MenuError{
		Code:     code,
		Message:  message,
		Category: categoryFromCode(code),
		Severity: severityFromCode(code),
		Cause:    cause,
	}
}

// Wrap tags err with code, reusing its text as the message. Nil stays nil.
func Wrap(code string, err error) *MenuError {
	if err == nil {
		return nil
	}
	return New(code, err.Error(), err)
}

// ConfigError reports a config file or flag value that cannot be used.
func ConfigError(message string, cause error) *MenuError {
	return New(ErrCodeConfigInvalid, message, cause)
}

// WriteError creates an error for a failed menu file write.
func WriteError(path string, cause error) *MenuError {
	return New(ErrCodeFileWrite, "failed to write "+path, cause).WithDetail("path", path)
}

// ValidationError reports a malformed command entry or argument.
func ValidationError(message string, cause error) *MenuError {
	return New(ErrCodeInvalidInput, message, cause)
}

// IsFatal reports whether err is a MenuError the CLI cannot recover from.
func IsFatal(err error) bool {
	var me *MenuError
	if errors.As(err, &me) {
		return me.Severity == SeverityFatal
	}
	return false
}

// GetCode returns the code of the first MenuError in err's chain, or "".
func GetCode(err error) string {
	var me *MenuError
	if errors.As(err, &me) {
		return me.Code
	}
	return ""
}

// GetCategory returns the category of the first MenuError in err's chain.
func GetCategory(err error) Category {
	var me *MenuError
	if errors.As(err, &me) {
		return me.Category
	}
	return ""
}
