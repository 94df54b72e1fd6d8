// Package chart builds renderable chart descriptions from materialized
// row-sets. Figures are plotly-schema-shaped JSON documents; the embedded
// dashboard hands them to plotly.js unchanged.
package chart

// Figure is a complete renderable chart description.
type Figure struct {
	Data   []Trace `json:"data"`
	Layout Layout  `json:"layout"`
}

// Trace is a single plotted series: a line, a marker overlay, a bar series,
// or a set of geographic points.
type Trace struct {
	Type        string    `json:"type"`
	X           []string  `json:"x,omitempty"`
	Y           []float64 `json:"y,omitempty"`
	Lat         []float64 `json:"lat,omitempty"`
	Lon         []float64 `json:"lon,omitempty"`
	Mode        string    `json:"mode,omitempty"`
	Name        string    `json:"name,omitempty"`
	Text        []string  `json:"text,omitempty"`
	CustomData  []string  `json:"customdata,omitempty"`
	Line        *Line     `json:"line,omitempty"`
	Marker      *Marker   `json:"marker,omitempty"`
	Visible     string    `json:"visible,omitempty"` // "" (visible) or "legendonly"
	YAxis       string    `json:"yaxis,omitempty"`   // "y2" targets the secondary panel
	LegendGroup string    `json:"legendgroup,omitempty"`
}

// Line styles a line trace.
type Line struct {
	Width float64 `json:"width,omitempty"`
	Dash  string  `json:"dash,omitempty"`
	Color string  `json:"color,omitempty"`
}

// Marker styles a marker trace. Size and Color take either a scalar or a
// per-point array, matching the plotly schema.
type Marker struct {
	Size       interface{} `json:"size,omitempty"`
	Color      interface{} `json:"color,omitempty"`
	Symbol     string      `json:"symbol,omitempty"`
	Colorscale string      `json:"colorscale,omitempty"`
	ShowScale  bool        `json:"showscale,omitempty"`
	ColorBar   *ColorBar   `json:"colorbar,omitempty"`
}

// ColorBar labels a continuous color scale.
type ColorBar struct {
	Title string `json:"title,omitempty"`
}

// Layout describes titles, axes, and legend placement.
type Layout struct {
	Title     string  `json:"title,omitempty"`
	XAxis     *Axis   `json:"xaxis,omitempty"`
	YAxis     *Axis   `json:"yaxis,omitempty"`
	YAxis2    *Axis   `json:"yaxis2,omitempty"`
	Legend    *Legend `json:"legend,omitempty"`
	HoverMode string  `json:"hovermode,omitempty"`
	Geo       *Geo    `json:"geo,omitempty"`
	BarMode   string  `json:"barmode,omitempty"`
}

// Axis describes one axis. Range entries are timestamps (strings) on the
// time axis and floats on value axes.
type Axis struct {
	Title     string        `json:"title,omitempty"`
	Range     []interface{} `json:"range,omitempty"`
	AutoRange bool          `json:"autorange,omitempty"`
	Domain    []float64     `json:"domain,omitempty"`
}

// Legend describes legend placement.
type Legend struct {
	Orientation string  `json:"orientation,omitempty"`
	YAnchor     string  `json:"yanchor,omitempty"`
	Y           float64 `json:"y,omitempty"`
	XAnchor     string  `json:"xanchor,omitempty"`
	X           float64 `json:"x,omitempty"`
}

// Geo describes map view bounds and center.
type Geo struct {
	Center  *GeoPoint `json:"center,omitempty"`
	LatAxis *GeoAxis  `json:"lataxis,omitempty"`
	LonAxis *GeoAxis  `json:"lonaxis,omitempty"`
}

// GeoPoint is a latitude/longitude pair.
type GeoPoint struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// GeoAxis bounds one geographic axis.
type GeoAxis struct {
	Range []float64 `json:"range"`
}

// SetXRange overrides the figure's x-axis bounds without refiltering the
// already-materialized rows; rendered data outside the range is clipped
// visually. Empty bounds on both sides revert to an auto-scaled axis.
func (f *Figure) SetXRange(start, end string) {
	if f.Layout.XAxis == nil {
		f.Layout.XAxis = &Axis{}
	}

	switch {
	case start == "" && end == "":
		f.Layout.XAxis.Range = nil
		f.Layout.XAxis.AutoRange = true
	case start == "":
		f.Layout.XAxis.Range = []interface{}{nil, end}
		f.Layout.XAxis.AutoRange = false
	case end == "":
		f.Layout.XAxis.Range = []interface{}{start, nil}
		f.Layout.XAxis.AutoRange = false
	default:
		f.Layout.XAxis.Range = []interface{}{start, end}
		f.Layout.XAxis.AutoRange = false
	}
}
