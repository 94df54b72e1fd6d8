// Package dataset loads the CSV tables backing the dashboard and normalizes
// them into the canonical shapes the stores expect.
package dataset

import (
	"fmt"
	"os"
	"time"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"github.com/1broseidon/seriesboard/internal/config"
	"github.com/1broseidon/seriesboard/internal/logging"
	"github.com/1broseidon/seriesboard/internal/store"
)

// timestampLayouts are the accepted on-disk timestamp formats, tried in
// order. Everything is normalized to "2006-01-02 15:04:05" so downstream
// time comparisons are plain string comparisons.
var timestampLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	time.RFC3339,
	"2006-01-02 15:04:05.999999999",
	"2006-01-02",
}

// LoadSeries reads the series table, normalizes its timestamp column, and
// wraps it in a schema-validated store.
func LoadSeries(path string, schema store.ColumnSchema, logger *logging.Logger) (*store.SeriesStore, error) {
	df, err := readCSV(path, []string{schema.Timestamp, schema.SeriesID})
	if err != nil {
		return nil, fmt.Errorf("loading series table %s: %w", path, err)
	}

	df, err = normalizeTimestamps(df, schema.Timestamp)
	if err != nil {
		return nil, fmt.Errorf("loading series table %s: %w", path, err)
	}

	seriesStore, err := store.NewSeriesStore(df, schema)
	if err != nil {
		return nil, fmt.Errorf("loading series table %s: %w", path, err)
	}

	logger.WithComponent(logging.ComponentDataset).
		WithFields(map[string]interface{}{
			"path":   path,
			"rows":   df.Nrow(),
			"series": seriesStore.Count(),
		}).
		Info("Series table loaded")

	return seriesStore, nil
}

// LoadRanking reads the per-series metric table.
func LoadRanking(path, idCol string, opts store.RankingOptions, logger *logging.Logger) (*store.RankingTable, error) {
	df, err := readCSV(path, []string{idCol})
	if err != nil {
		return nil, fmt.Errorf("loading ranking table %s: %w", path, err)
	}

	ranking, err := store.NewRankingTable(df, idCol, opts)
	if err != nil {
		return nil, fmt.Errorf("loading ranking table %s: %w", path, err)
	}

	logger.WithComponent(logging.ComponentDataset).
		WithFields(map[string]interface{}{
			"path":        path,
			"rows":        df.Nrow(),
			"rank_column": ranking.ActiveColumn(),
			"geo":         ranking.HasGeo(),
		}).
		Info("Ranking table loaded")

	return ranking, nil
}

// LoadExceptions reads the exception count table and normalizes its
// timestamp column.
func LoadExceptions(path, idCol, timestampCol, countCol string, logger *logging.Logger) (*store.ExceptionStore, error) {
	df, err := readCSV(path, []string{timestampCol, idCol})
	if err != nil {
		return nil, fmt.Errorf("loading exceptions table %s: %w", path, err)
	}

	df, err = normalizeTimestamps(df, timestampCol)
	if err != nil {
		return nil, fmt.Errorf("loading exceptions table %s: %w", path, err)
	}

	exceptions, err := store.NewExceptionStore(df, idCol, timestampCol, countCol)
	if err != nil {
		return nil, fmt.Errorf("loading exceptions table %s: %w", path, err)
	}

	logger.WithComponent(logging.ComponentDataset).
		WithFields(map[string]interface{}{
			"path": path,
			"rows": df.Nrow(),
		}).
		Info("Exceptions table loaded")

	return exceptions, nil
}

// SchemaFromConfig maps the column bindings of the configuration onto a
// store schema.
func SchemaFromConfig(cols config.ColumnsConfig) store.ColumnSchema {
	return store.ColumnSchema{
		Timestamp: cols.Timestamp,
		SeriesID:  cols.SeriesID,
		Actual:    cols.Actual,
		Forecast:  cols.Forecast,
		Extrema:   cols.Extrema,
		Features:  append([]string(nil), cols.Features...),
	}
}

// readCSV parses one CSV file with a header row. The named columns are
// forced to string type so identifiers and timestamps never get inferred as
// numbers.
func readCSV(path string, stringCols []string) (dataframe.DataFrame, error) {
	f, err := os.Open(path)
	if err != nil {
		return dataframe.DataFrame{}, err
	}
	defer f.Close()

	types := make(map[string]series.Type, len(stringCols))
	for _, col := range stringCols {
		types[col] = series.String
	}

	df := dataframe.ReadCSV(f,
		dataframe.HasHeader(true),
		dataframe.WithTypes(types),
	)
	if df.Err != nil {
		return dataframe.DataFrame{}, df.Err
	}
	return df, nil
}

// normalizeTimestamps rewrites the named column into canonical form. A value
// that matches none of the accepted layouts fails the whole load; partial
// datasets are worse than loud startup errors.
func normalizeTimestamps(df dataframe.DataFrame, col string) (dataframe.DataFrame, error) {
	records := df.Col(col).Records()
	normalized := make([]string, len(records))
	for i, record := range records {
		value, err := normalizeTimestamp(record)
		if err != nil {
			return df, fmt.Errorf("column %s row %d: %w", col, i, err)
		}
		normalized[i] = value
	}

	out := df.Mutate(series.New(normalized, series.String, col))
	if out.Err != nil {
		return df, out.Err
	}
	return out, nil
}

func normalizeTimestamp(value string) (string, error) {
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t.Format("2006-01-02 15:04:05"), nil
		}
	}
	return "", fmt.Errorf("unrecognized timestamp %q", value)
}
