package store

import (
	"github.com/go-gota/gota/dataframe"

	"github.com/1broseidon/seriesboard/pkg/models"
)

// RankingOptions configures how a ranking table is interpreted.
type RankingOptions struct {
	// RankColumn names the metric driving the sort toggle. When empty, the
	// first column that is neither the id nor a geo column is used.
	RankColumn string

	// LatitudeColumn and LongitudeColumn enable the map when both are
	// present in the table.
	LatitudeColumn  string
	LongitudeColumn string

	// ColorColumn optionally drives the map's continuous color scale.
	ColorColumn string
}

// RankingTable wraps an externally computed per-series metric table. It is
// read-only; Sorted issues a pure re-sort of the display rows without
// touching the underlying frame.
type RankingTable struct {
	df       dataframe.DataFrame
	idCol    string
	rankCol  string
	latCol   string
	lonCol   string
	colorCol string
	hasGeo   bool
}

// NewRankingTable validates the id column, resolves the active rank column,
// and detects the optional geographic columns.
func NewRankingTable(df dataframe.DataFrame, idCol string, opts RankingOptions) (*RankingTable, error) {
	if df.Err != nil {
		return nil, df.Err
	}

	present := make(map[string]bool)
	for _, col := range df.Names() {
		present[col] = true
	}

	if !present[idCol] {
		return nil, &MissingColumnsError{Missing: []string{idCol}, Available: df.Names()}
	}

	hasGeo := opts.LatitudeColumn != "" && opts.LongitudeColumn != "" &&
		present[opts.LatitudeColumn] && present[opts.LongitudeColumn]

	rankCol := opts.RankColumn
	if rankCol != "" && !present[rankCol] {
		return nil, &MissingColumnsError{Missing: []string{rankCol}, Available: df.Names()}
	}
	if rankCol == "" {
		for _, col := range df.Names() {
			if col == idCol || col == opts.LatitudeColumn || col == opts.LongitudeColumn || col == opts.ColorColumn {
				continue
			}
			rankCol = col
			break
		}
	}
	if rankCol == "" {
		return nil, ErrNoRankColumn
	}

	colorCol := opts.ColorColumn
	if colorCol != "" && !present[colorCol] {
		return nil, &MissingColumnsError{Missing: []string{colorCol}, Available: df.Names()}
	}

	return &RankingTable{
		df:       df,
		idCol:    idCol,
		rankCol:  rankCol,
		latCol:   opts.LatitudeColumn,
		lonCol:   opts.LongitudeColumn,
		colorCol: colorCol,
		hasGeo:   hasGeo,
	}, nil
}

// ActiveColumn returns the metric column driving the sort toggle
func (r *RankingTable) ActiveColumn() string {
	return r.rankCol
}

// IDColumn returns the series-id column name
func (r *RankingTable) IDColumn() string {
	return r.idCol
}

// HasGeo reports whether the table carries a latitude/longitude pair
func (r *RankingTable) HasGeo() bool {
	return r.hasGeo
}

// GeoColumns returns the latitude, longitude, and optional color column names
func (r *RankingTable) GeoColumns() (lat, lon, color string) {
	return r.latCol, r.lonCol, r.colorCol
}

// Frame returns the underlying table in its original order
func (r *RankingTable) Frame() dataframe.DataFrame {
	return r.df
}

// Sorted returns the table re-sorted by the active rank column in the given
// order. The underlying frame is left untouched.
func (r *RankingTable) Sorted(order models.SortOrder) dataframe.DataFrame {
	if order == models.SortDescending {
		return r.df.Arrange(dataframe.RevSort(r.rankCol))
	}
	return r.df.Arrange(dataframe.Sort(r.rankCol))
}

// Rows returns the display rows in the given order as JSON-ready maps
func (r *RankingTable) Rows(order models.SortOrder) []map[string]interface{} {
	return r.Sorted(order).Maps()
}

// IDs returns the series ids of the table in original row order
func (r *RankingTable) IDs() []string {
	return r.df.Col(r.idCol).Records()
}
