package state

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Accepted time input layouts. Bare dates are normalized to midnight.
const (
	TimeLayout = "2006-01-02 15:04:05"
	DateLayout = "2006-01-02"
)

// ErrStartNotBeforeEnd is the user-visible ordering rejection.
var ErrStartNotBeforeEnd = errors.New("Start time must be before end time")

// FormatError reports a malformed, non-empty time input. The message embeds
// the offending text and the accepted formats; it is shown to the user
// verbatim.
type FormatError struct {
	Input string
}

// Error implements the error interface
func (e *FormatError) Error() string {
	return fmt.Sprintf("Invalid format: '%s'. Use YYYY-MM-DD or YYYY-MM-DD HH:MM:SS", e.Input)
}

// ParseTimeInput parses a free-text time input. Empty or whitespace-only text
// falls back to the caller-supplied default. A full timestamp is returned
// unchanged; a bare date is normalized by appending 00:00:00. Anything else
// is a FormatError.
func ParseTimeInput(input, fallback string) (string, error) {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return fallback, nil
	}

	if _, err := time.Parse(TimeLayout, trimmed); err == nil {
		return trimmed, nil
	}
	if _, err := time.Parse(DateLayout, trimmed); err == nil {
		return trimmed + " 00:00:00", nil
	}

	return "", &FormatError{Input: trimmed}
}

// TruncateZoomBound reduces a zoom-derived axis bound to timestamp precision
// so it can flow through the same validation path as manual text entry.
// Plotly relayout events carry bounds like "2024-01-15 14:30:12.5312" or
// "2024-01-15T14:30:12".
func TruncateZoomBound(bound string) string {
	trimmed := strings.TrimSpace(bound)
	trimmed = strings.Replace(trimmed, "T", " ", 1)
	if idx := strings.IndexByte(trimmed, '.'); idx >= 0 {
		trimmed = trimmed[:idx]
	}
	return trimmed
}
