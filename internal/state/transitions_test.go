package state

import (
	"testing"

	"github.com/1broseidon/seriesboard/pkg/models"
)

// slicePager pages over a fixed id list the way SeriesStore does.
type slicePager struct {
	ids []string
}

func (p slicePager) Page(offset, limit int) ([]string, error) {
	if offset < 0 {
		offset = 0
	}
	if offset >= len(p.ids) {
		return []string{}, nil
	}
	end := offset + limit
	if end > len(p.ids) {
		end = len(p.ids)
	}
	return p.ids[offset:end], nil
}

func universeOf(ids ...string) map[string]bool {
	m := make(map[string]bool, len(ids))
	for _, id := range ids {
		m[id] = true
	}
	return m
}

func TestAdvancePageReplacesSelection(t *testing.T) {
	pager := slicePager{ids: []string{"ts_1", "ts_2", "ts_3", "ts_4", "ts_5"}}
	v := NewViewState([]string{"ts_1", "ts_2"}, false)

	next, wrapped, err := AdvancePage(v, pager, 2)
	if err != nil {
		t.Fatalf("AdvancePage returned error: %v", err)
	}
	if wrapped {
		t.Fatalf("did not expect a wrap on the first advance")
	}
	if next.PageOffset != 2 {
		t.Fatalf("expected offset 2, got %d", next.PageOffset)
	}
	if len(next.SelectedIDs) != 2 || next.SelectedIDs[0] != "ts_3" || next.SelectedIDs[1] != "ts_4" {
		t.Fatalf("expected selection replaced with next page, got %v", next.SelectedIDs)
	}
}

func TestAdvancePagePartialLastPageThenWrap(t *testing.T) {
	pager := slicePager{ids: []string{"ts_1", "ts_2", "ts_3"}}
	v := NewViewState([]string{"ts_1", "ts_2"}, false)

	// Page 2 of a 3-id universe with display count 2 holds only the one
	// remaining id.
	next, wrapped, err := AdvancePage(v, pager, 2)
	if err != nil {
		t.Fatalf("AdvancePage returned error: %v", err)
	}
	if wrapped {
		t.Fatalf("partial page is not a wrap")
	}
	if len(next.SelectedIDs) != 1 || next.SelectedIDs[0] != "ts_3" {
		t.Fatalf("expected [ts_3], got %v", next.SelectedIDs)
	}

	// The next advance runs past the end and wraps to the first page.
	next, wrapped, err = AdvancePage(next, pager, 2)
	if err != nil {
		t.Fatalf("AdvancePage returned error: %v", err)
	}
	if !wrapped {
		t.Fatalf("expected a wrap past the end")
	}
	if next.PageOffset != 0 {
		t.Fatalf("expected offset reset to 0, got %d", next.PageOffset)
	}
	if len(next.SelectedIDs) != 2 || next.SelectedIDs[0] != "ts_1" || next.SelectedIDs[1] != "ts_2" {
		t.Fatalf("expected first page after wrap, got %v", next.SelectedIDs)
	}
}

func TestAdvancePageCyclesThroughWholeUniverse(t *testing.T) {
	pager := slicePager{ids: []string{"a", "b", "c", "d", "e"}}
	v := NewViewState([]string{"a", "b"}, false)

	// ceil(5/2) = 3 advances returns to offset 0's page.
	var err error
	for i := 0; i < 3; i++ {
		v, _, err = AdvancePage(v, pager, 2)
		if err != nil {
			t.Fatalf("AdvancePage returned error: %v", err)
		}
	}
	if v.PageOffset != 0 {
		t.Fatalf("expected to be back at offset 0, got %d", v.PageOffset)
	}
	if len(v.SelectedIDs) != 2 || v.SelectedIDs[0] != "a" || v.SelectedIDs[1] != "b" {
		t.Fatalf("expected first page selection, got %v", v.SelectedIDs)
	}
}

func TestApplyTimeRangeSuccess(t *testing.T) {
	v := NewViewState(nil, false)
	defaults := models.TimeRange{Start: "2024-01-01 00:00:00", End: "2024-12-31 00:00:00"}

	next, err := ApplyTimeRange(v, "2024-02-01", "2024-03-01 12:00:00", defaults)
	if err != nil {
		t.Fatalf("ApplyTimeRange returned error: %v", err)
	}
	if next.TimeRange == nil {
		t.Fatalf("expected time range to be set")
	}
	if next.TimeRange.Start != "2024-02-01 00:00:00" {
		t.Fatalf("expected normalized start, got %s", next.TimeRange.Start)
	}
	if next.TimeRange.End != "2024-03-01 12:00:00" {
		t.Fatalf("expected end unchanged, got %s", next.TimeRange.End)
	}
}

func TestApplyTimeRangeEmptyInputsUseDefaults(t *testing.T) {
	v := NewViewState(nil, false)
	defaults := models.TimeRange{Start: "2024-01-01 00:00:00", End: "2024-12-31 00:00:00"}

	next, err := ApplyTimeRange(v, "", "", defaults)
	if err != nil {
		t.Fatalf("ApplyTimeRange returned error: %v", err)
	}
	if next.TimeRange.Start != defaults.Start || next.TimeRange.End != defaults.End {
		t.Fatalf("expected defaults, got %+v", next.TimeRange)
	}
}

func TestApplyTimeRangeRejectsBadFormatWithoutPartialUpdate(t *testing.T) {
	v := NewViewState(nil, false)
	prior := &models.TimeRange{Start: "2024-01-01 00:00:00", End: "2024-06-01 00:00:00"}
	v.TimeRange = prior

	next, err := ApplyTimeRange(v, "2024/01/15", "2024-03-01", models.TimeRange{})
	if err == nil {
		t.Fatalf("expected format error")
	}
	if _, ok := err.(*FormatError); !ok {
		t.Fatalf("expected *FormatError, got %T", err)
	}
	if next.TimeRange != prior {
		t.Fatalf("expected prior range retained on rejection")
	}
}

func TestApplyTimeRangeRejectsInvertedOrder(t *testing.T) {
	v := NewViewState(nil, false)
	prior := &models.TimeRange{Start: "2024-01-01 00:00:00", End: "2024-06-01 00:00:00"}
	v.TimeRange = prior

	next, err := ApplyTimeRange(v, "2024-01-20 00:00:00", "2024-01-10 00:00:00", models.TimeRange{})
	if err != ErrStartNotBeforeEnd {
		t.Fatalf("expected ErrStartNotBeforeEnd, got %v", err)
	}
	if next.TimeRange != prior {
		t.Fatalf("expected prior range retained on rejection")
	}

	// Equal bounds are rejected too.
	if _, err := ApplyTimeRange(v, "2024-01-10", "2024-01-10", models.TimeRange{}); err != ErrStartNotBeforeEnd {
		t.Fatalf("expected ErrStartNotBeforeEnd for equal bounds, got %v", err)
	}
}

func TestResetTimeRange(t *testing.T) {
	v := NewViewState(nil, false)
	v.TimeRange = &models.TimeRange{Start: "2024-01-01 00:00:00", End: "2024-06-01 00:00:00"}

	next := ResetTimeRange(v)
	if next.TimeRange != nil {
		t.Fatalf("expected time range cleared")
	}
}

func TestApplyZoomRange(t *testing.T) {
	v := NewViewState(nil, false)

	next, err := ApplyZoomRange(v, "2024-01-10 08:15:30.25", "2024-01-20T16:45:00", false)
	if err != nil {
		t.Fatalf("ApplyZoomRange returned error: %v", err)
	}
	if next.TimeRange.Start != "2024-01-10 08:15:30" || next.TimeRange.End != "2024-01-20 16:45:00" {
		t.Fatalf("unexpected zoom range: %+v", next.TimeRange)
	}

	// Autorange clears instead.
	next, err = ApplyZoomRange(next, "", "", true)
	if err != nil {
		t.Fatalf("ApplyZoomRange returned error: %v", err)
	}
	if next.TimeRange != nil {
		t.Fatalf("expected autorange to clear the time range")
	}
}

func TestSortOrderTransitionsLeaveSelectionAlone(t *testing.T) {
	v := NewViewState([]string{"ts_1", "ts_2"}, false)
	v.PageOffset = 4

	next := ToggleSortOrder(v)
	if next.SortOrder != models.SortAscending {
		t.Fatalf("expected toggle to ascending, got %s", next.SortOrder)
	}
	if next.PageOffset != 4 || len(next.SelectedIDs) != 2 {
		t.Fatalf("sort toggle must not touch selection or pagination")
	}

	next = SetSortOrder(next, models.SortDescending)
	if next.SortOrder != models.SortDescending {
		t.Fatalf("expected descending, got %s", next.SortOrder)
	}
}

func TestSetSelectionDropsUnknownIDs(t *testing.T) {
	v := NewViewState(nil, false)
	universe := universeOf("ts_1", "ts_2", "ts_3")

	next := SetSelection(v, []string{"ts_2", "ghost", "ts_1"}, universe)
	if len(next.SelectedIDs) != 2 || next.SelectedIDs[0] != "ts_2" || next.SelectedIDs[1] != "ts_1" {
		t.Fatalf("expected unknown ids dropped and order preserved, got %v", next.SelectedIDs)
	}
}

func TestSelectSingleReplaceSemantics(t *testing.T) {
	v := NewViewState([]string{"ts_1", "ts_2", "ts_3"}, false)
	universe := universeOf("ts_1", "ts_2", "ts_3")

	next, changed := SelectSingle(v, "ts_2", universe)
	if !changed {
		t.Fatalf("expected selection change")
	}
	if len(next.SelectedIDs) != 1 || next.SelectedIDs[0] != "ts_2" {
		t.Fatalf("expected selection replaced with [ts_2], got %v", next.SelectedIDs)
	}
}

func TestSelectSingleUnresolvableIsNoOp(t *testing.T) {
	v := NewViewState([]string{"ts_1"}, false)
	universe := universeOf("ts_1")

	if _, changed := SelectSingle(v, "", universe); changed {
		t.Fatalf("empty id must be a no-op")
	}
	if _, changed := SelectSingle(v, "ghost", universe); changed {
		t.Fatalf("unknown id must be a no-op")
	}
}

func TestSetRouteIsPureStateSwap(t *testing.T) {
	v := NewViewState([]string{"ts_1"}, false)
	v.TimeRange = &models.TimeRange{Start: "2024-01-01 00:00:00", End: "2024-02-01 00:00:00"}

	next := SetRoute(v, models.RouteExceptions)
	if next.Route != models.RouteExceptions {
		t.Fatalf("expected exceptions route, got %s", next.Route)
	}
	if next.TimeRange != v.TimeRange || len(next.SelectedIDs) != 1 {
		t.Fatalf("route change must not touch other state")
	}
}

func TestNewViewStateCopiesInitialSelection(t *testing.T) {
	initial := []string{"ts_1", "ts_2"}
	v := NewViewState(initial, true)

	initial[0] = "mutated"
	if v.SelectedIDs[0] != "ts_1" {
		t.Fatalf("expected initial selection to be copied")
	}
	if !v.ShowFeatures {
		t.Fatalf("expected feature subplot enabled")
	}
	if v.SortOrder != models.SortDescending {
		t.Fatalf("expected default descending sort, got %s", v.SortOrder)
	}
}
