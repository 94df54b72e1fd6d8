package chart

import (
	"github.com/go-gota/gota/dataframe"
)

// Marker sizes for map points.
const (
	selectedMarkerSize   = 14.0
	unselectedMarkerSize = 8.0
)

// defaultMarkerColor is used when no color column is configured.
const defaultMarkerColor = "#1f77b4"

// GeoOptions names the columns of the geo-enabled ranking table.
type GeoOptions struct {
	IDColumn    string
	Latitude    string
	Longitude   string
	ColorColumn string // optional continuous color encoding
}

// BuildMap renders one point per geo row. Points whose id is in selected get
// the larger marker size. When a color column is configured the markers are
// colored on a continuous scale with a colorbar; otherwise they share one
// default color. View bounds and center derive from the lat/lon extent, with
// a fixed fallback margin for a degenerate single-point extent.
func BuildMap(geoRows dataframe.DataFrame, selected map[string]bool, opts GeoOptions) Figure {
	if geoRows.Nrow() == 0 {
		return Figure{
			Data:   []Trace{},
			Layout: Layout{Title: "No locations"},
		}
	}

	ids := geoRows.Col(opts.IDColumn).Records()
	lats := geoRows.Col(opts.Latitude).Float()
	lons := geoRows.Col(opts.Longitude).Float()

	sizes := make([]float64, len(ids))
	for i, id := range ids {
		if selected[id] {
			sizes[i] = selectedMarkerSize
		} else {
			sizes[i] = unselectedMarkerSize
		}
	}

	marker := &Marker{Size: sizes, Color: defaultMarkerColor}
	if opts.ColorColumn != "" {
		marker.Color = geoRows.Col(opts.ColorColumn).Float()
		marker.Colorscale = "Viridis"
		marker.ShowScale = true
		marker.ColorBar = &ColorBar{Title: opts.ColorColumn}
	}

	trace := Trace{
		Type:       "scattergeo",
		Lat:        lats,
		Lon:        lons,
		Mode:       "markers",
		Text:       ids,
		CustomData: ids,
		Marker:     marker,
	}

	latMin, latMax := floatBounds(lats)
	lonMin, lonMax := floatBounds(lons)

	latMargin := (latMax - latMin) * 0.1
	lonMargin := (lonMax - lonMin) * 0.1
	if latMargin == 0 {
		latMargin = 1.0
	}
	if lonMargin == 0 {
		lonMargin = 1.0
	}

	return Figure{
		Data: []Trace{trace},
		Layout: Layout{
			Title: "Series Locations",
			Geo: &Geo{
				Center: &GeoPoint{
					Lat: (latMin + latMax) / 2,
					Lon: (lonMin + lonMax) / 2,
				},
				LatAxis: &GeoAxis{Range: []float64{latMin - latMargin, latMax + latMargin}},
				LonAxis: &GeoAxis{Range: []float64{lonMin - lonMargin, lonMax + lonMargin}},
			},
		},
	}
}

func floatBounds(values []float64) (float64, float64) {
	min, max := values[0], values[0]
	for _, v := range values[1:] {
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}
	return min, max
}
