// Package state holds the reactive view state of a visualization session and
// the pure transition functions that derive the next state from an event.
// Transitions never mutate their input; a rejected transition returns the
// prior state unchanged alongside the validation error.
package state

import (
	"github.com/1broseidon/seriesboard/pkg/models"
)

// ViewState is the mutable session state. It is exclusively owned by the
// single active session and only replaced between events, never concurrently.
type ViewState struct {
	// SelectedIDs is the ordered set of currently displayed series. Click
	// paths may set a single id regardless of the configured display
	// count; the set is always a subset of the series-id universe.
	SelectedIDs []string `json:"selected_ids"`

	// PageOffset is the pagination cursor into the sorted id list. It is
	// a valid index or equal to the list length, which the next advance
	// normalizes to 0.
	PageOffset int `json:"page_offset"`

	// SortOrder applies only to the ranking table's display order.
	SortOrder models.SortOrder `json:"sort_order"`

	// TimeRange bounds the chart x-axis and the exception aggregation
	// window. Nil means no bound.
	TimeRange *models.TimeRange `json:"time_range,omitempty"`

	// Route is the logical page currently rendered.
	Route models.Route `json:"route"`

	// ShowFeatures toggles the normalized-feature subplot.
	ShowFeatures bool `json:"show_features"`
}

// NewViewState returns the initial session state: the first page selected,
// offset 0, descending ranking order, no time bound, main route.
func NewViewState(initialIDs []string, showFeatures bool) ViewState {
	selected := make([]string, len(initialIDs))
	copy(selected, initialIDs)

	return ViewState{
		SelectedIDs:  selected,
		PageOffset:   0,
		SortOrder:    models.SortDescending,
		Route:        models.RouteMain,
		ShowFeatures: showFeatures,
	}
}

// EffectiveRange returns the active time bounds, or empty strings when no
// bound is set.
func (v ViewState) EffectiveRange() (start, end string) {
	if v.TimeRange == nil {
		return "", ""
	}
	return v.TimeRange.Start, v.TimeRange.End
}
