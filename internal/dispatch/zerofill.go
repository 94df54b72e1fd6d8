package dispatch

import (
	"sort"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"github.com/1broseidon/seriesboard/internal/store"
)

// zeroFillAggregate left-joins the aggregated exception sums onto the full
// series universe: every id appears exactly once, sorted, with sum 0 for ids
// absent from the aggregation. This keeps the overview bar chart stable as
// the time window moves.
func zeroFillAggregate(aggregated dataframe.DataFrame, universe []string, idCol string) dataframe.DataFrame {
	sums := make(map[string]float64, aggregated.Nrow())
	if aggregated.Nrow() > 0 {
		ids := aggregated.Col(idCol).Records()
		values := aggregated.Col(store.SumColumn).Float()
		for i, id := range ids {
			sums[id] = values[i]
		}
	}

	sorted := append([]string(nil), universe...)
	sort.Strings(sorted)

	filled := make([]float64, len(sorted))
	for i, id := range sorted {
		filled[i] = sums[id]
	}

	return dataframe.New(
		series.New(sorted, series.String, idCol),
		series.New(filled, series.Float, store.SumColumn),
	)
}
