package store

import (
	"fmt"
	"testing"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
)

func testSchema() ColumnSchema {
	return ColumnSchema{
		Timestamp: "timestamp",
		SeriesID:  "ts_id",
		Actual:    "actual_value",
		Forecast:  "forecasted_value",
	}
}

// testSeriesFrame builds a frame with the given series ids, rowsPerSeries
// rows each, one row per day starting 2024-01-01.
func testSeriesFrame(t *testing.T, ids []string, rowsPerSeries int) dataframe.DataFrame {
	t.Helper()

	var timestamps, seriesIDs []string
	var actuals, forecasts []float64
	for _, id := range ids {
		for day := 0; day < rowsPerSeries; day++ {
			timestamps = append(timestamps, fmt.Sprintf("2024-01-%02d 00:00:00", day+1))
			seriesIDs = append(seriesIDs, id)
			actuals = append(actuals, float64(day))
			forecasts = append(forecasts, float64(day)+0.5)
		}
	}

	return dataframe.New(
		series.New(timestamps, series.String, "timestamp"),
		series.New(seriesIDs, series.String, "ts_id"),
		series.New(actuals, series.Float, "actual_value"),
		series.New(forecasts, series.Float, "forecasted_value"),
	)
}

func newTestStore(t *testing.T, ids []string, rowsPerSeries int) *SeriesStore {
	t.Helper()

	s, err := NewSeriesStore(testSeriesFrame(t, ids, rowsPerSeries), testSchema())
	if err != nil {
		t.Fatalf("NewSeriesStore returned error: %v", err)
	}
	return s
}

func TestNewSeriesStoreRejectsMissingColumns(t *testing.T) {
	df := dataframe.New(
		series.New([]string{"ts_1"}, series.String, "ts_id"),
		series.New([]float64{1}, series.Float, "actual_value"),
	)

	_, err := NewSeriesStore(df, testSchema())
	if err == nil {
		t.Fatalf("expected schema validation error")
	}
	if _, ok := err.(*MissingColumnsError); !ok {
		t.Fatalf("expected *MissingColumnsError, got %T", err)
	}
}

func TestAllIDsSortedAndCached(t *testing.T) {
	// Deliberately unsorted input order.
	s := newTestStore(t, []string{"ts_3", "ts_1", "ts_2"}, 2)

	first := s.AllIDs()
	if len(first) != 3 {
		t.Fatalf("expected 3 ids, got %v", first)
	}
	for i, want := range []string{"ts_1", "ts_2", "ts_3"} {
		if first[i] != want {
			t.Fatalf("expected ids sorted, got %v", first)
		}
	}

	// Repeated calls must return the identical cached slice, not a copy.
	second := s.AllIDs()
	if &first[0] != &second[0] || len(first) != len(second) {
		t.Fatalf("expected AllIDs to return the same cached slice")
	}
}

func TestPageClampingAndExhaustion(t *testing.T) {
	s := newTestStore(t, []string{"ts_1", "ts_2", "ts_3"}, 1)

	tests := []struct {
		name   string
		offset int
		limit  int
		want   []string
	}{
		{"first page", 0, 2, []string{"ts_1", "ts_2"}},
		{"partial last page", 2, 2, []string{"ts_3"}},
		{"offset at length", 3, 2, []string{}},
		{"offset past length", 10, 2, []string{}},
		{"negative offset clamped", -5, 2, []string{"ts_1", "ts_2"}},
		{"zero limit", 0, 0, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := s.Page(tt.offset, tt.limit)
			if err != nil {
				t.Fatalf("Page returned error: %v", err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, got)
			}
			for i := range tt.want {
				if got[i] != tt.want[i] {
					t.Fatalf("expected %v, got %v", tt.want, got)
				}
			}
		})
	}
}

func TestPageRejectsNegativeLimit(t *testing.T) {
	s := newTestStore(t, []string{"ts_1"}, 1)
	if _, err := s.Page(0, -1); err != ErrNegativeLimit {
		t.Fatalf("expected ErrNegativeLimit, got %v", err)
	}
}

func TestPaginationIsCyclic(t *testing.T) {
	s := newTestStore(t, []string{"ts_1", "ts_2", "ts_3", "ts_4", "ts_5"}, 1)
	displayCount := 2

	firstPage, err := s.Page(0, displayCount)
	if err != nil {
		t.Fatalf("Page returned error: %v", err)
	}

	// Advance by displayCount until exhausted, then wrap: after
	// ceil(5/2) = 3 advances we must be back at the first page.
	offset := 0
	for advance := 0; advance < 3; advance++ {
		offset += displayCount
		page, err := s.Page(offset, displayCount)
		if err != nil {
			t.Fatalf("Page returned error: %v", err)
		}
		if len(page) == 0 {
			offset = 0
			page, err = s.Page(offset, displayCount)
			if err != nil {
				t.Fatalf("Page returned error: %v", err)
			}
		}
		if advance == 2 {
			if len(page) != len(firstPage) {
				t.Fatalf("expected to revisit first page, got %v", page)
			}
			for i := range firstPage {
				if page[i] != firstPage[i] {
					t.Fatalf("expected first page %v after wrap, got %v", firstPage, page)
				}
			}
		}
	}
}

func TestRowsForMaterializesSelectedSeries(t *testing.T) {
	s := newTestStore(t, []string{"ts_1", "ts_2", "ts_3"}, 10)

	rows := s.RowsFor([]string{"ts_1", "ts_2"})
	if rows.Err != nil {
		t.Fatalf("RowsFor returned error: %v", rows.Err)
	}
	if rows.Nrow() != 20 {
		t.Fatalf("expected 20 rows for 2 series of 10 rows, got %d", rows.Nrow())
	}

	for _, id := range rows.Col("ts_id").Records() {
		if id != "ts_1" && id != "ts_2" {
			t.Fatalf("unexpected series id in filtered rows: %s", id)
		}
	}
}

func TestRowsForEmptySelection(t *testing.T) {
	s := newTestStore(t, []string{"ts_1", "ts_2"}, 3)

	rows := s.RowsFor(nil)
	if rows.Err != nil {
		t.Fatalf("RowsFor returned error: %v", rows.Err)
	}
	if rows.Nrow() != 0 {
		t.Fatalf("expected zero rows, got %d", rows.Nrow())
	}

	// The schema's full column set must survive.
	names := rows.Names()
	if len(names) != 4 {
		t.Fatalf("expected 4 columns on empty result, got %v", names)
	}
}

func TestRowsForRangeBoundsAreClosed(t *testing.T) {
	s := newTestStore(t, []string{"ts_1"}, 10)

	rows := s.RowsForRange([]string{"ts_1"}, "2024-01-03 00:00:00", "2024-01-05 00:00:00")
	if rows.Nrow() != 3 {
		t.Fatalf("expected 3 rows in closed interval, got %d", rows.Nrow())
	}

	// Open start bound.
	rows = s.RowsForRange([]string{"ts_1"}, "", "2024-01-02 00:00:00")
	if rows.Nrow() != 2 {
		t.Fatalf("expected 2 rows with open start, got %d", rows.Nrow())
	}
}

func TestTimeBounds(t *testing.T) {
	s := newTestStore(t, []string{"ts_1", "ts_2"}, 5)

	min, max := s.TimeBounds()
	if min != "2024-01-01 00:00:00" {
		t.Fatalf("expected min 2024-01-01 00:00:00, got %s", min)
	}
	if max != "2024-01-05 00:00:00" {
		t.Fatalf("expected max 2024-01-05 00:00:00, got %s", max)
	}
}
