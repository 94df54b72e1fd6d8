// Package models defines the event, state, and render types shared between
// the dispatch core and the HTTP layer.
package models

// Route identifies which logical page of the dashboard is rendered.
type Route string

const (
	RouteMain       Route = "main"
	RouteExceptions Route = "exceptions"
)

// SortOrder controls the display order of the ranking table.
type SortOrder string

const (
	SortAscending  SortOrder = "asc"
	SortDescending SortOrder = "desc"
)

// Toggled returns the opposite sort order.
func (s SortOrder) Toggled() SortOrder {
	if s == SortAscending {
		return SortDescending
	}
	return SortAscending
}

// TimeRange bounds the chart x-axis and, on the exceptions route, the
// aggregation window. Either side may be empty, meaning unbounded. Bounds are
// canonical "YYYY-MM-DD HH:MM:SS" strings, which compare correctly as plain
// strings.
type TimeRange struct {
	Start string `json:"start,omitempty"`
	End   string `json:"end,omitempty"`
}

// Trigger identifies the UI control that originated an event.
type Trigger string

const (
	TriggerSelector    Trigger = "ts-selector"
	TriggerNextButton  Trigger = "next-button"
	TriggerTimeApply   Trigger = "time-range-apply"
	TriggerTimeReset   Trigger = "time-reset-button"
	TriggerSortOrder   Trigger = "ranking-sort-order"
	TriggerRankingRow  Trigger = "ranking-table"
	TriggerMapPoint    Trigger = "map-graph"
	TriggerRoute       Trigger = "route"
	TriggerGraphZoom   Trigger = "exception-graph-zoom"
	TriggerFeatureShow Trigger = "features-toggle"
)

// EventKind classifies the interaction carried by an event.
type EventKind string

const (
	KindClick  EventKind = "click"
	KindChange EventKind = "change"
	KindZoom   EventKind = "zoom"
)

// Event is a single browser-originated interaction entering dispatch.
type Event struct {
	Trigger Trigger      `json:"trigger"`
	Kind    EventKind    `json:"kind"`
	Payload EventPayload `json:"payload"`
}

// EventPayload carries the trigger-specific data of an event. Only the fields
// relevant to the trigger are populated.
type EventPayload struct {
	SelectedIDs []string `json:"selected_ids,omitempty"` // selector change
	SeriesID    string   `json:"series_id,omitempty"`    // ranking row / map point click
	Start       string   `json:"start,omitempty"`        // time-range apply / zoom
	End         string   `json:"end,omitempty"`          // time-range apply / zoom
	SortOrder   string   `json:"sort_order,omitempty"`   // sort toggle
	Route       string   `json:"route,omitempty"`        // route change
	Autorange   bool     `json:"autorange,omitempty"`    // zoom reset
	ShowFeature bool     `json:"show_features,omitempty"`
}

// Output identifies a renderable surface that an event may refresh.
type Output string

const (
	OutputChart      Output = "chart"
	OutputMap        Output = "map"
	OutputRanking    Output = "ranking"
	OutputExceptions Output = "exceptions"
	OutputSelection  Output = "selection"
	OutputTimeInputs Output = "time-inputs"
	OutputError      Output = "error"
)

// RenderUpdate is the response to a dispatched event: the surfaces to refresh
// plus their new content. Absent fields mean "unchanged". Error carries an
// inline validation message; when set, no state was modified.
type RenderUpdate struct {
	Outputs     []Output                 `json:"outputs"`
	Chart       interface{}              `json:"chart,omitempty"`
	Map         interface{}              `json:"map,omitempty"`
	Exceptions  interface{}              `json:"exceptions,omitempty"`
	Ranking     []map[string]interface{} `json:"ranking,omitempty"`
	SelectedIDs []string                 `json:"selected_ids,omitempty"`
	TimeRange   *TimeRange               `json:"time_range,omitempty"`
	Route       Route                    `json:"route,omitempty"`
	Error       string                   `json:"error,omitempty"`
}
