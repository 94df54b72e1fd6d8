package chart

import (
	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"github.com/1broseidon/seriesboard/internal/store"
)

// BuildExceptionOverview renders the aggregated exception counts as one bar
// per series. Series absent from the aggregation were zero-filled by the
// caller before this point.
func BuildExceptionOverview(aggregated dataframe.DataFrame, idCol string) Figure {
	if aggregated.Nrow() == 0 {
		return Figure{
			Data: []Trace{},
			Layout: Layout{
				Title: "No exceptions in window",
				XAxis: &Axis{Title: "Series"},
				YAxis: &Axis{Title: "Exception count"},
			},
		}
	}

	return Figure{
		Data: []Trace{{
			Type: "bar",
			X:    aggregated.Col(idCol).Records(),
			Y:    aggregated.Col(store.SumColumn).Float(),
			Name: "exceptions",
		}},
		Layout: Layout{
			Title:   "Exceptions per Series",
			XAxis:   &Axis{Title: "Series"},
			YAxis:   &Axis{Title: "Exception count"},
			BarMode: "group",
		},
	}
}

// BuildExceptionDetail renders the raw exception counts over time for the
// selected series, one line trace per series.
func BuildExceptionDetail(rows dataframe.DataFrame, idCol, timestampCol, countCol string) Figure {
	if rows.Nrow() == 0 {
		return Figure{
			Data: []Trace{},
			Layout: Layout{
				Title: "No exception data selected",
				XAxis: &Axis{Title: "Time"},
				YAxis: &Axis{Title: "Exception count"},
			},
		}
	}

	var traces []Trace
	for _, id := range sortedUniqueIDs(rows, idCol) {
		perSeries := rows.
			Filter(dataframe.F{Colname: idCol, Comparator: series.Eq, Comparando: id}).
			Arrange(dataframe.Sort(timestampCol))

		traces = append(traces, Trace{
			Type: "scatter",
			X:    perSeries.Col(timestampCol).Records(),
			Y:    perSeries.Col(countCol).Float(),
			Mode: "lines",
			Name: id + " (exceptions)",
			Line: &Line{Width: 2},
		})
	}

	return Figure{
		Data: traces,
		Layout: Layout{
			Title:     "Exception Timeline",
			HoverMode: "x unified",
			XAxis:     &Axis{Title: "Timestamp"},
			YAxis:     &Axis{Title: "Exception count"},
		},
	}
}
