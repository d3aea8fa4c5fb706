package errors

import (
	"errors"
	"fmt"
	"strings"
)

// FormatForCLI renders err as the Error/Cause/Hint/Code block mavenmenu
// prints on stderr. Errors without a code are shown as ERR_501.
func FormatForCLI(err error) string {
	if err == nil {
		return ""
	}

	var me *MenuError
	if !errors.As(err, &me) {
		me = Wrap(ErrCodeInternal, err)
	}

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Error: %s\n", me.Message))
	if me.Cause != nil && me.Cause.Error() != me.Message {
		sb.WriteString(fmt.Sprintf("  Cause: %s\n", me.Cause))
	}
	if me.Suggestion != "" {
		sb.WriteString(fmt.Sprintf("  Hint: %s\n", me.Suggestion))
	}
	sb.WriteString(fmt.Sprintf("  Code: %s\n", me.Code))

	return sb.String()
}

// FormatForLog flattens err into fields for slog.Any, details prefixed
// with "detail_". A plain error yields only "error".
func FormatForLog(err error) map[string]any {
	if err == nil {
		return nil
	}

	var me *MenuError
	if !errors.As(err, &me) {
		return map[string]any{
			"error": err.Error(),
		}
	}

	result := map[string]any{
		"error_code": me.Code,
		"message":    me.Message,
		"category":   string(me.Category),
		"severity":   string(me.Severity),
	}

	if me.Cause != nil {
		result["cause"] = me.Cause.Error()
	}
	if me.Suggestion != "" {
		result["suggestion"] = me.Suggestion
	}
	for k, v := range me.Details {
		result["detail_"+k] = v
	}

	return result
}
