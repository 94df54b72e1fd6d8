package store

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for store construction and querying
var (
	// ErrNoRankColumn indicates a ranking table with no usable metric column
	ErrNoRankColumn = errors.New("ranking table has no metric column")

	// ErrNegativeLimit indicates a page request with a negative limit
	ErrNegativeLimit = errors.New("page limit must not be negative")
)

// MissingColumnsError reports every configured column that is absent from a
// dataframe, together with the columns that are available, so the caller sees
// the complete picture in one round trip.
type MissingColumnsError struct {
	Missing   []string
	Available []string
}

// Error implements the error interface
func (e *MissingColumnsError) Error() string {
	return fmt.Sprintf("Missing columns in dataframe: %s. Available columns: %s",
		strings.Join(e.Missing, ", "), strings.Join(e.Available, ", "))
}
