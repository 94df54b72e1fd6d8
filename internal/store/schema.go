// Package store wraps the in-memory gota dataframes behind the read-only
// query surface the dashboard needs: schema validation, cached series-id
// enumeration, key-set and time-bound filtering, and exception aggregation.
package store

// ColumnSchema is an immutable record of role-to-column-name bindings for the
// series table. Timestamp, SeriesID, Actual, and Forecast are required;
// Extrema and Features are optional.
type ColumnSchema struct {
	Timestamp string
	SeriesID  string
	Actual    string
	Forecast  string
	Extrema   string
	Features  []string
}

// HasExtrema reports whether an extrema column is bound
func (s ColumnSchema) HasExtrema() bool {
	return s.Extrema != ""
}

// HasFeatures reports whether any feature columns are bound
func (s ColumnSchema) HasFeatures() bool {
	return len(s.Features) > 0
}

// WithoutFeatures returns a copy of the schema with the feature bindings
// dropped. Used when the feature subplot is toggled off.
func (s ColumnSchema) WithoutFeatures() ColumnSchema {
	out := s
	out.Features = nil
	return out
}

// Validate checks that every bound column name exists in the given column
// set. All missing names are collected into a single MissingColumnsError
// rather than failing on the first. Runs once per session, before any data
// access.
func (s ColumnSchema) Validate(available []string) error {
	present := make(map[string]bool, len(available))
	for _, col := range available {
		present[col] = true
	}

	bound := []string{s.Timestamp, s.SeriesID, s.Actual, s.Forecast}
	if s.Extrema != "" {
		bound = append(bound, s.Extrema)
	}
	bound = append(bound, s.Features...)

	var missing []string
	for _, col := range bound {
		if !present[col] {
			missing = append(missing, col)
		}
	}

	if len(missing) > 0 {
		return &MissingColumnsError{Missing: missing, Available: available}
	}
	return nil
}
