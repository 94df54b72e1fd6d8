package store

import (
	"sort"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
)

// SeriesStore owns the source series table and answers the read-only queries
// the dashboard issues against it. It is immutable after construction; the
// sorted series-id enumeration is computed once and cached for the lifetime
// of the store.
type SeriesStore struct {
	df     dataframe.DataFrame
	schema ColumnSchema
	ids    []string // cached by AllIDs, never mutated afterwards
}

// NewSeriesStore validates the schema against the table and wraps it.
// Timestamps are expected in canonical "YYYY-MM-DD HH:MM:SS" form, which
// makes time comparisons plain string comparisons.
func NewSeriesStore(df dataframe.DataFrame, schema ColumnSchema) (*SeriesStore, error) {
	if df.Err != nil {
		return nil, df.Err
	}
	if err := schema.Validate(df.Names()); err != nil {
		return nil, err
	}
	return &SeriesStore{df: df, schema: schema}, nil
}

// Schema returns the role bindings of the store
func (s *SeriesStore) Schema() ColumnSchema {
	return s.schema
}

// AllIDs returns the distinct series identifiers, lexicographically sorted.
// The slice is computed on first call and the identical slice is returned on
// every subsequent call; callers must not modify it.
func (s *SeriesStore) AllIDs() []string {
	if s.ids != nil {
		return s.ids
	}

	records := s.df.Col(s.schema.SeriesID).Records()
	seen := make(map[string]bool, len(records))
	ids := make([]string, 0, len(records))
	for _, id := range records {
		if !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)

	s.ids = ids
	return s.ids
}

// Count returns the number of distinct series identifiers
func (s *SeriesStore) Count() int {
	return len(s.AllIDs())
}

// Page returns up to limit identifiers starting at offset from AllIDs.
// Negative offsets are clamped to 0; offsets at or past the end return an
// empty sequence, which callers interpret as "wrap to offset 0". A negative
// limit is a caller bug and is rejected outright.
func (s *SeriesStore) Page(offset, limit int) ([]string, error) {
	if limit < 0 {
		return nil, ErrNegativeLimit
	}

	ids := s.AllIDs()
	if offset < 0 {
		offset = 0
	}
	if offset >= len(ids) {
		return []string{}, nil
	}

	end := offset + limit
	if end > len(ids) {
		end = len(ids)
	}
	return ids[offset:end], nil
}

// RowsFor returns all rows whose series id is in ids, preserving the full
// column set and the original row order within each series. An empty id set
// yields a zero-row table with the schema intact, not an error.
func (s *SeriesStore) RowsFor(ids []string) dataframe.DataFrame {
	if len(ids) == 0 {
		return s.df.Subset([]int{})
	}

	return s.df.Filter(dataframe.F{
		Colname:    s.schema.SeriesID,
		Comparator: series.In,
		Comparando: ids,
	})
}

// RowsForRange applies the same key-set filter as RowsFor plus an optional
// closed time interval; an empty bound leaves that side open.
func (s *SeriesStore) RowsForRange(ids []string, start, end string) dataframe.DataFrame {
	out := s.RowsFor(ids)
	if start != "" {
		out = out.Filter(dataframe.F{
			Colname:    s.schema.Timestamp,
			Comparator: series.GreaterEq,
			Comparando: start,
		})
	}
	if end != "" {
		out = out.Filter(dataframe.F{
			Colname:    s.schema.Timestamp,
			Comparator: series.LessEq,
			Comparando: end,
		})
	}
	return out
}

// TimeBounds returns the minimum and maximum timestamps observed in the
// table, used as defaults for empty time-range inputs. Empty strings are
// returned for an empty table.
func (s *SeriesStore) TimeBounds() (string, string) {
	records := s.df.Col(s.schema.Timestamp).Records()
	if len(records) == 0 {
		return "", ""
	}

	min, max := records[0], records[0]
	for _, ts := range records[1:] {
		if ts < min {
			min = ts
		}
		if ts > max {
			max = ts
		}
	}
	return min, max
}
