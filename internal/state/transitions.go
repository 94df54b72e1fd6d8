package state

import (
	"github.com/1broseidon/seriesboard/pkg/models"
)

// Pager supplies pages of sorted series identifiers. *store.SeriesStore
// satisfies it.
type Pager interface {
	Page(offset, limit int) ([]string, error)
}

// AdvancePage moves the pagination cursor forward by displayCount and
// replaces the selection with the resulting page. When the cursor runs past
// the end of the id universe it wraps to offset 0, making pagination cyclic.
// The second return reports whether a wrap happened.
func AdvancePage(v ViewState, pager Pager, displayCount int) (ViewState, bool, error) {
	newOffset := v.PageOffset + displayCount

	ids, err := pager.Page(newOffset, displayCount)
	if err != nil {
		return v, false, err
	}

	wrapped := false
	if len(ids) == 0 {
		newOffset = 0
		wrapped = true
		ids, err = pager.Page(newOffset, displayCount)
		if err != nil {
			return v, false, err
		}
	}

	next := v
	next.PageOffset = newOffset
	next.SelectedIDs = ids
	return next, wrapped, nil
}

// ApplyTimeRange parses and validates a start/end input pair and replaces the
// time range wholesale. Empty inputs fall back to the supplied defaults
// (the dataset's observed bounds). Any parse or ordering failure aborts the
// whole transition: the prior state is returned unchanged with the error.
func ApplyTimeRange(v ViewState, startInput, endInput string, defaults models.TimeRange) (ViewState, error) {
	start, err := ParseTimeInput(startInput, defaults.Start)
	if err != nil {
		return v, err
	}
	end, err := ParseTimeInput(endInput, defaults.End)
	if err != nil {
		return v, err
	}

	if start != "" && end != "" && start >= end {
		return v, ErrStartNotBeforeEnd
	}

	next := v
	next.TimeRange = &models.TimeRange{Start: start, End: end}
	return next, nil
}

// ApplyZoomRange feeds zoom-derived axis bounds through the same validation
// path as manual entry, truncating them to timestamp precision first. An
// autorange reset clears the range instead.
func ApplyZoomRange(v ViewState, startBound, endBound string, autorange bool) (ViewState, error) {
	if autorange {
		return ResetTimeRange(v), nil
	}
	return ApplyTimeRange(v, TruncateZoomBound(startBound), TruncateZoomBound(endBound), models.TimeRange{})
}

// ResetTimeRange unconditionally clears the time bound; the chart reverts to
// an auto-scaled axis.
func ResetTimeRange(v ViewState) ViewState {
	next := v
	next.TimeRange = nil
	return next
}

// SetSortOrder replaces the ranking table's display order. Selection and
// pagination are untouched.
func SetSortOrder(v ViewState, order models.SortOrder) ViewState {
	next := v
	next.SortOrder = order
	return next
}

// ToggleSortOrder flips the ranking table's display order.
func ToggleSortOrder(v ViewState) ViewState {
	return SetSortOrder(v, v.SortOrder.Toggled())
}

// SetSelection replaces the selection with the given ids, dropping any id
// that is not part of the universe. Invalid ids are never persisted into
// state.
func SetSelection(v ViewState, ids []string, universe map[string]bool) ViewState {
	selected := make([]string, 0, len(ids))
	for _, id := range ids {
		if universe[id] {
			selected = append(selected, id)
		}
	}

	next := v
	next.SelectedIDs = selected
	return next
}

// SelectSingle replaces the selection with the single clicked id, as the
// ranking table and map click paths do. A click without a resolvable id, or
// with an id outside the universe, is a no-op; the second return reports
// whether the selection changed.
func SelectSingle(v ViewState, id string, universe map[string]bool) (ViewState, bool) {
	if id == "" || !universe[id] {
		return v, false
	}

	next := v
	next.SelectedIDs = []string{id}
	return next, true
}

// SetRoute swaps the rendered page. No data recomputation happens here; the
// destination page's own renders trigger on the next event.
func SetRoute(v ViewState, route models.Route) ViewState {
	next := v
	next.Route = route
	return next
}

// SetShowFeatures toggles the feature subplot.
func SetShowFeatures(v ViewState, show bool) ViewState {
	next := v
	next.ShowFeatures = show
	return next
}
