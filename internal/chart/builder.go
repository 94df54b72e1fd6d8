package chart

import (
	"math"
	"sort"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"github.com/1broseidon/seriesboard/internal/store"
)

// featureColors is the distinct palette for feature traces (20 colors).
var featureColors = []string{
	"#1f77b4", "#ff7f0e", "#2ca02c", "#d62728", "#9467bd",
	"#8c564b", "#e377c2", "#7f7f7f", "#bcbd22", "#17becf",
	"#aec7e8", "#ffbb78", "#98df8a", "#ff9896", "#c5b0d5",
	"#c49c94", "#f7b6d2", "#c7c7c7", "#dbdb8d", "#9edae5",
}

// visibleFeatureLimit caps how many feature traces start visible; the rest
// stay in the legend until toggled.
const visibleFeatureLimit = 5

// Build maps a materialized row-set onto a renderable figure: per series one
// solid line for actual values and one dotted line for forecast values, plus
// an optional marker overlay for non-null extrema rows. When the schema
// binds feature columns, a secondary panel below the main plot carries the
// min-max scaled features, aggregated by mean across the selected series.
func Build(rows dataframe.DataFrame, schema store.ColumnSchema) Figure {
	if rows.Nrow() == 0 {
		return Figure{
			Data: []Trace{},
			Layout: Layout{
				Title: "No data selected",
				XAxis: &Axis{Title: "Time"},
				YAxis: &Axis{Title: "Value"},
			},
		}
	}

	hasFeatures := schema.HasFeatures()

	var traces []Trace
	for _, id := range sortedUniqueIDs(rows, schema.SeriesID) {
		perSeries := rows.
			Filter(dataframe.F{Colname: schema.SeriesID, Comparator: series.Eq, Comparando: id}).
			Arrange(dataframe.Sort(schema.Timestamp))

		timestamps := perSeries.Col(schema.Timestamp).Records()

		traces = append(traces, Trace{
			Type: "scatter",
			X:    timestamps,
			Y:    perSeries.Col(schema.Actual).Float(),
			Mode: "lines",
			Name: id + " (actual)",
			Line: &Line{Width: 2},
		})

		traces = append(traces, Trace{
			Type: "scatter",
			X:    timestamps,
			Y:    perSeries.Col(schema.Forecast).Float(),
			Mode: "lines",
			Name: id + " (forecast)",
			Line: &Line{Width: 2, Dash: "dot"},
		})

		if schema.HasExtrema() {
			if trace, ok := extremaTrace(perSeries, schema, id, timestamps); ok {
				traces = append(traces, trace)
			}
		}
	}

	if hasFeatures {
		traces = append(traces, featureTraces(rows, schema)...)
	}

	yMin, yMax := valueBounds(rows, schema)
	yMargin := (yMax - yMin) * 0.1
	if yMargin == 0 {
		// Degenerate range: a zero-width margin would collapse the axis.
		yMargin = 1.0
	}

	xMin, xMax := timestampBounds(rows, schema.Timestamp)

	layout := Layout{
		Title:     "Timeseries Visualization",
		HoverMode: "x unified",
		Legend: &Legend{
			Orientation: "v",
			YAnchor:     "top",
			Y:           1,
			XAnchor:     "left",
			X:           1.01,
		},
		XAxis: &Axis{
			Title: "Timestamp",
			Range: []interface{}{xMin, xMax},
		},
		YAxis: &Axis{
			Title: "Value",
			Range: []interface{}{yMin - yMargin, yMax + yMargin},
		},
	}

	if hasFeatures {
		// Two stacked panels sharing the x-axis: main plot on top,
		// scaled features below.
		layout.YAxis.Domain = []float64{0.4, 1.0}
		layout.YAxis2 = &Axis{
			Title:  "Scaled Value",
			Range:  []interface{}{-0.05, 1.05},
			Domain: []float64{0.0, 0.32},
		}
	}

	return Figure{Data: traces, Layout: layout}
}

// extremaTrace builds the marker-only trace over the non-null extrema rows
// of one series. Returns false when the series has no extrema values.
func extremaTrace(perSeries dataframe.DataFrame, schema store.ColumnSchema, id string, timestamps []string) (Trace, bool) {
	values := perSeries.Col(schema.Extrema).Float()

	var x []string
	var y []float64
	for i, v := range values {
		if math.IsNaN(v) {
			continue
		}
		x = append(x, timestamps[i])
		y = append(y, v)
	}

	if len(x) == 0 {
		return Trace{}, false
	}

	return Trace{
		Type:   "scatter",
		X:      x,
		Y:      y,
		Mode:   "markers",
		Name:   id + " (extrema)",
		Marker: &Marker{Size: 8, Symbol: "circle"},
	}, true
}

// featureTraces scales each feature column to [0, 1] over the full input,
// aggregates by mean across all selected series per timestamp, and emits one
// line trace per feature into the secondary panel. The first five features
// start visible; the rest default to legend-only.
func featureTraces(rows dataframe.DataFrame, schema store.ColumnSchema) []Trace {
	timestamps := rows.Col(schema.Timestamp).Records()

	axis := sortedUnique(timestamps)

	traces := make([]Trace, 0, len(schema.Features))
	for idx, feature := range schema.Features {
		scaled := MinMaxScale(rows.Col(feature).Float())

		// Mean of the scaled values per timestamp, NaNs excluded.
		sums := make(map[string]float64, len(axis))
		counts := make(map[string]int, len(axis))
		for i, ts := range timestamps {
			if math.IsNaN(scaled[i]) {
				continue
			}
			sums[ts] += scaled[i]
			counts[ts]++
		}

		y := make([]float64, len(axis))
		for i, ts := range axis {
			if counts[ts] == 0 {
				y[i] = math.NaN()
				continue
			}
			y[i] = sums[ts] / float64(counts[ts])
		}

		visible := ""
		if idx >= visibleFeatureLimit {
			visible = "legendonly"
		}

		traces = append(traces, Trace{
			Type:        "scatter",
			X:           axis,
			Y:           y,
			Mode:        "lines",
			Name:        feature,
			Line:        &Line{Width: 2, Color: featureColors[idx%len(featureColors)]},
			Visible:     visible,
			YAxis:       "y2",
			LegendGroup: "features",
		})
	}

	return traces
}

// valueBounds returns the min and max over the actual and forecast columns,
// including non-null extrema values when bound.
func valueBounds(rows dataframe.DataFrame, schema store.ColumnSchema) (float64, float64) {
	min := math.Inf(1)
	max := math.Inf(-1)

	scan := func(values []float64) {
		for _, v := range values {
			if math.IsNaN(v) {
				continue
			}
			if v < min {
				min = v
			}
			if v > max {
				max = v
			}
		}
	}

	scan(rows.Col(schema.Actual).Float())
	scan(rows.Col(schema.Forecast).Float())
	if schema.HasExtrema() {
		scan(rows.Col(schema.Extrema).Float())
	}

	if min > max {
		return 0, 0
	}
	return min, max
}

func timestampBounds(rows dataframe.DataFrame, timestampCol string) (string, string) {
	records := rows.Col(timestampCol).Records()
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

func sortedUniqueIDs(rows dataframe.DataFrame, idCol string) []string {
	return sortedUnique(rows.Col(idCol).Records())
}

func sortedUnique(values []string) []string {
	seen := make(map[string]bool, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		if !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	sort.Strings(out)
	return out
}
