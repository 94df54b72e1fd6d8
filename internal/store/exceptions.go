package store

import (
	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
)

// SumColumn is the name of the aggregated count column produced by Aggregate.
const SumColumn = "exception_sum"

// ExceptionStore wraps the optional exception table: one row per (series id,
// timestamp) with an exception count. Present only when exception analysis is
// enabled.
type ExceptionStore struct {
	df           dataframe.DataFrame
	seriesIDCol  string
	timestampCol string
	countCol     string
}

// NewExceptionStore validates the required columns and wraps the table
func NewExceptionStore(df dataframe.DataFrame, seriesIDCol, timestampCol, countCol string) (*ExceptionStore, error) {
	if df.Err != nil {
		return nil, df.Err
	}

	present := make(map[string]bool)
	for _, col := range df.Names() {
		present[col] = true
	}

	var missing []string
	for _, col := range []string{seriesIDCol, timestampCol, countCol} {
		if !present[col] {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, &MissingColumnsError{Missing: missing, Available: df.Names()}
	}

	return &ExceptionStore{
		df:           df,
		seriesIDCol:  seriesIDCol,
		timestampCol: timestampCol,
		countCol:     countCol,
	}, nil
}

// Aggregate filters rows to the closed interval [start, end] (open on an
// empty bound), groups by series id, and sums the count column. The result
// has one row per series id present in the filtered set, sorted by id;
// series with no matching rows are absent, not zero.
func (e *ExceptionStore) Aggregate(start, end string) dataframe.DataFrame {
	filtered := e.filterByRange(e.df, start, end)
	if filtered.Nrow() == 0 {
		return dataframe.New(
			series.New([]string{}, series.String, e.seriesIDCol),
			series.New([]float64{}, series.Float, SumColumn),
		)
	}

	aggregated := filtered.
		GroupBy(e.seriesIDCol).
		Aggregation(
			[]dataframe.AggregationType{dataframe.Aggregation_SUM},
			[]string{e.countCol},
		)

	return aggregated.
		Rename(SumColumn, e.countCol+"_SUM").
		Arrange(dataframe.Sort(e.seriesIDCol))
}

// RowsFor returns the raw exception rows for the given series ids within the
// optional closed time interval. An empty id set yields a zero-row table.
func (e *ExceptionStore) RowsFor(ids []string, start, end string) dataframe.DataFrame {
	if len(ids) == 0 {
		return e.df.Subset([]int{})
	}

	filtered := e.df.Filter(dataframe.F{
		Colname:    e.seriesIDCol,
		Comparator: series.In,
		Comparando: ids,
	})
	return e.filterByRange(filtered, start, end)
}

// Columns returns the id, timestamp, and count column names of the table
func (e *ExceptionStore) Columns() (id, timestamp, count string) {
	return e.seriesIDCol, e.timestampCol, e.countCol
}

// TimeBounds returns the minimum and maximum exception timestamps
func (e *ExceptionStore) TimeBounds() (string, string) {
	records := e.df.Col(e.timestampCol).Records()
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

func (e *ExceptionStore) filterByRange(df dataframe.DataFrame, start, end string) dataframe.DataFrame {
	out := df
	if start != "" {
		out = out.Filter(dataframe.F{
			Colname:    e.timestampCol,
			Comparator: series.GreaterEq,
			Comparando: start,
		})
	}
	if end != "" {
		out = out.Filter(dataframe.F{
			Colname:    e.timestampCol,
			Comparator: series.LessEq,
			Comparando: end,
		})
	}
	return out
}
