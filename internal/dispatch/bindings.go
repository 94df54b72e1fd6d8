package dispatch

import (
	"fmt"

	"github.com/1broseidon/seriesboard/internal/logging"
	"github.com/1broseidon/seriesboard/internal/state"
	"github.com/1broseidon/seriesboard/pkg/models"
)

// binding keys the dispatch table: which control fired, and how.
type binding struct {
	Trigger models.Trigger
	Kind    models.EventKind
}

// handlerFunc runs one transition against the current state and names the
// surfaces to re-render on success. Returning an error rejects the event
// without committing anything.
type handlerFunc func(s *Session, ev models.Event) (state.ViewState, []models.Output, error)

// bindings is the complete event wiring of the dashboard. Every supported
// (trigger, kind) pair maps to exactly one transition; anything else is
// rejected at dispatch.
var bindings = map[binding]handlerFunc{
	{models.TriggerSelector, models.KindChange}:    handleSelectorChange,
	{models.TriggerNextButton, models.KindClick}:   handleNextClick,
	{models.TriggerTimeApply, models.KindClick}:    handleTimeApply,
	{models.TriggerTimeReset, models.KindClick}:    handleTimeReset,
	{models.TriggerSortOrder, models.KindChange}:   handleSortChange,
	{models.TriggerRankingRow, models.KindClick}:   handleRowClick,
	{models.TriggerMapPoint, models.KindClick}:     handleRowClick,
	{models.TriggerRoute, models.KindChange}:       handleRouteChange,
	{models.TriggerGraphZoom, models.KindZoom}:     handleGraphZoom,
	{models.TriggerFeatureShow, models.KindChange}: handleFeatureToggle,
}

// dataOutputs are the surfaces that follow the selection on the active route.
func dataOutputs(route models.Route) []models.Output {
	if route == models.RouteExceptions {
		return []models.Output{models.OutputExceptions, models.OutputMap, models.OutputSelection}
	}
	return []models.Output{models.OutputChart, models.OutputMap, models.OutputSelection}
}

func handleSelectorChange(s *Session, ev models.Event) (state.ViewState, []models.Output, error) {
	next := state.SetSelection(s.view, ev.Payload.SelectedIDs, s.universe)
	return next, dataOutputs(next.Route), nil
}

func handleNextClick(s *Session, ev models.Event) (state.ViewState, []models.Output, error) {
	next, wrapped, err := state.AdvancePage(s.view, s.series, s.displayCount)
	if err != nil {
		return s.view, nil, err
	}

	if s.metrics != nil {
		s.metrics.RecordPageAdvance(wrapped)
	}
	s.logger.WithEvent(logging.EventPageAdvance).
		WithFields(map[string]interface{}{
			"offset":  next.PageOffset,
			"wrapped": wrapped,
		}).
		Debug("Page advanced")

	return next, dataOutputs(next.Route), nil
}

func handleTimeApply(s *Session, ev models.Event) (state.ViewState, []models.Output, error) {
	next, err := state.ApplyTimeRange(s.view, ev.Payload.Start, ev.Payload.End, s.defaults)
	if err != nil {
		return s.view, nil, err
	}

	s.logger.WithEvent(logging.EventRangeApplied).
		WithFields(map[string]interface{}{
			"start": next.TimeRange.Start,
			"end":   next.TimeRange.End,
		}).
		Debug("Time range applied")

	return next, rangeOutputs(next.Route), nil
}

func handleTimeReset(s *Session, ev models.Event) (state.ViewState, []models.Output, error) {
	next := state.ResetTimeRange(s.view)
	s.logger.WithEvent(logging.EventRangeCleared).Debug("Time range cleared")
	return next, rangeOutputs(next.Route), nil
}

// rangeOutputs are the surfaces that depend on the active time window.
func rangeOutputs(route models.Route) []models.Output {
	if route == models.RouteExceptions {
		return []models.Output{models.OutputExceptions, models.OutputTimeInputs}
	}
	return []models.Output{models.OutputChart, models.OutputTimeInputs}
}

func handleSortChange(s *Session, ev models.Event) (state.ViewState, []models.Output, error) {
	var next state.ViewState
	switch models.SortOrder(ev.Payload.SortOrder) {
	case models.SortAscending, models.SortDescending:
		next = state.SetSortOrder(s.view, models.SortOrder(ev.Payload.SortOrder))
	case "":
		next = state.ToggleSortOrder(s.view)
	default:
		return s.view, nil, fmt.Errorf("invalid sort order: %q", ev.Payload.SortOrder)
	}
	return next, []models.Output{models.OutputRanking}, nil
}

func handleRowClick(s *Session, ev models.Event) (state.ViewState, []models.Output, error) {
	next, changed := state.SelectSingle(s.view, ev.Payload.SeriesID, s.universe)
	if !changed {
		// A click without a resolvable id refreshes nothing.
		return s.view, []models.Output{}, nil
	}
	return next, dataOutputs(next.Route), nil
}

func handleRouteChange(s *Session, ev models.Event) (state.ViewState, []models.Output, error) {
	route := models.Route(ev.Payload.Route)
	switch route {
	case models.RouteMain, models.RouteExceptions:
	default:
		return s.view, nil, fmt.Errorf("unknown route: %q", ev.Payload.Route)
	}
	if route == models.RouteExceptions && s.exceptions == nil {
		return s.view, nil, fmt.Errorf("exceptions route is not enabled")
	}

	next := state.SetRoute(s.view, route)
	s.logger.WithEvent(logging.EventRouteChange).
		WithFields(map[string]interface{}{"route": string(route)}).
		Debug("Route changed")

	if route == models.RouteExceptions {
		return next, []models.Output{models.OutputExceptions, models.OutputSelection, models.OutputTimeInputs}, nil
	}
	return next, []models.Output{
		models.OutputChart, models.OutputMap, models.OutputRanking,
		models.OutputSelection, models.OutputTimeInputs,
	}, nil
}

func handleGraphZoom(s *Session, ev models.Event) (state.ViewState, []models.Output, error) {
	next, err := state.ApplyZoomRange(s.view, ev.Payload.Start, ev.Payload.End, ev.Payload.Autorange)
	if err != nil {
		return s.view, nil, err
	}
	return next, rangeOutputs(next.Route), nil
}

func handleFeatureToggle(s *Session, ev models.Event) (state.ViewState, []models.Output, error) {
	next := state.SetShowFeatures(s.view, ev.Payload.ShowFeature && s.series.Schema().HasFeatures())
	return next, []models.Output{models.OutputChart}, nil
}
