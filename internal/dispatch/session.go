// Package dispatch owns the reactive core of the dashboard: a Session holds
// the current view state, and HandleEvent maps browser events through the
// binding table onto state transitions and re-rendered surfaces.
package dispatch

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/1broseidon/seriesboard/internal/chart"
	"github.com/1broseidon/seriesboard/internal/logging"
	"github.com/1broseidon/seriesboard/internal/metrics"
	"github.com/1broseidon/seriesboard/internal/state"
	"github.com/1broseidon/seriesboard/internal/store"
	"github.com/1broseidon/seriesboard/pkg/models"
)

// Options configures a Session.
type Options struct {
	// DisplayCount is the page size of the selection cycler.
	DisplayCount int

	// ShowFeatures sets the initial feature-subplot toggle. Ignored when the
	// schema binds no feature columns.
	ShowFeatures bool

	// Defaults supplies the fallback time bounds for empty range inputs.
	// Zero values derive them from the series table.
	Defaults models.TimeRange

	Logger  *logging.Logger
	Metrics *metrics.Metrics
}

// Session is the reactive core of one dashboard instance: the data stores,
// the current view state, and the dispatch machinery. Events are serialized
// through an internal mutex; the stores themselves are immutable.
type Session struct {
	mu sync.Mutex

	series     *store.SeriesStore
	ranking    *store.RankingTable
	exceptions *store.ExceptionStore

	view         state.ViewState
	universe     map[string]bool
	defaults     models.TimeRange
	displayCount int

	logger  *logging.Logger
	metrics *metrics.Metrics
}

// ExceptionsView bundles the two figures of the exceptions route.
type ExceptionsView struct {
	Overview chart.Figure `json:"overview"`
	Detail   chart.Figure `json:"detail"`
}

// NewSession builds a session over the given stores. The ranking table and
// the exception store are optional; passing nil disables their surfaces. The
// initial selection is the first page of sorted series identifiers.
func NewSession(seriesStore *store.SeriesStore, ranking *store.RankingTable, exceptions *store.ExceptionStore, opts Options) (*Session, error) {
	if seriesStore == nil {
		return nil, fmt.Errorf("series store is required")
	}
	if opts.DisplayCount < 1 {
		return nil, fmt.Errorf("display count must be at least 1, got %d", opts.DisplayCount)
	}
	if exceptions != nil && (ranking == nil || !ranking.HasGeo()) {
		return nil, fmt.Errorf("exception analysis requires a geo-enabled ranking table")
	}

	logger := opts.Logger
	if logger == nil {
		logger = logging.GetGlobalLogger()
	}

	ids := seriesStore.AllIDs()
	universe := make(map[string]bool, len(ids))
	for _, id := range ids {
		universe[id] = true
	}

	initial, err := seriesStore.Page(0, opts.DisplayCount)
	if err != nil {
		return nil, err
	}

	defaults := opts.Defaults
	if defaults.Start == "" && defaults.End == "" {
		defaults.Start, defaults.End = seriesStore.TimeBounds()
	}

	showFeatures := opts.ShowFeatures && seriesStore.Schema().HasFeatures()

	s := &Session{
		series:       seriesStore,
		ranking:      ranking,
		exceptions:   exceptions,
		view:         state.NewViewState(initial, showFeatures),
		universe:     universe,
		defaults:     defaults,
		displayCount: opts.DisplayCount,
		logger:       logger.WithComponent(logging.ComponentDispatch),
		metrics:      opts.Metrics,
	}

	if s.metrics != nil {
		s.metrics.SeriesConfigured.Set(float64(len(ids)))
		s.metrics.SetSelectionSize(len(initial))
		s.metrics.SetActiveRoute(string(s.view.Route))
	}

	s.logger.WithEvent(logging.EventSessionStart).
		WithFields(map[string]interface{}{
			"series_count":  len(ids),
			"display_count": opts.DisplayCount,
			"selected":      len(initial),
		}).
		Info("Session initialized")

	return s, nil
}

// HandleEvent dispatches one browser event: it resolves the binding for the
// event's trigger and kind, runs the transition, and on success commits the
// next state and renders the bound output surfaces. A rejected transition
// leaves the state untouched and returns the validation message inline.
func (s *Session) HandleEvent(ev models.Event) models.RenderUpdate {
	s.mu.Lock()
	defer s.mu.Unlock()

	start := time.Now()
	evLogger := s.logger.WithTrigger(string(ev.Trigger), string(ev.Kind))
	evLogger.WithEvent(logging.EventEventReceived).Debug("Event received")

	handler, ok := bindings[binding{ev.Trigger, ev.Kind}]
	if !ok {
		err := fmt.Errorf("unsupported event: trigger %q kind %q", ev.Trigger, ev.Kind)
		return s.reject(evLogger, ev, err)
	}

	next, outputs, err := handler(s, ev)
	if err != nil {
		return s.reject(evLogger, ev, err)
	}

	s.view = next
	if s.metrics != nil {
		s.metrics.SetSelectionSize(len(s.view.SelectedIDs))
		s.metrics.SetActiveRoute(string(s.view.Route))
	}

	update := s.render(outputs)

	duration := time.Since(start)
	if s.metrics != nil {
		s.metrics.RecordEvent(string(ev.Trigger), string(ev.Kind), duration)
	}
	evLogger.WithEvent(logging.EventEventDispatched).
		WithFields(map[string]interface{}{
			"outputs":     len(outputs),
			"duration_ms": float64(duration.Microseconds()) / 1000.0,
		}).
		Debug("Event dispatched")

	return update
}

func (s *Session) reject(evLogger *logging.Logger, ev models.Event, err error) models.RenderUpdate {
	if s.metrics != nil {
		s.metrics.RecordRejection(string(ev.Trigger), rejectionReason(err))
	}
	evLogger.WithEvent(logging.EventTransitionRejected).
		WithError(err).
		Warn("Transition rejected")

	return models.RenderUpdate{
		Outputs: []models.Output{models.OutputError},
		Error:   err.Error(),
	}
}

// rejectionReason collapses validation errors into a low-cardinality label.
func rejectionReason(err error) string {
	var formatErr *state.FormatError
	switch {
	case errors.As(err, &formatErr):
		return "format"
	case errors.Is(err, state.ErrStartNotBeforeEnd):
		return "ordering"
	default:
		return "other"
	}
}

// render materializes the named surfaces from the committed state.
func (s *Session) render(outputs []models.Output) models.RenderUpdate {
	update := models.RenderUpdate{Outputs: outputs}

	for _, output := range outputs {
		switch output {
		case models.OutputChart:
			fig := s.buildChart()
			update.Chart = &fig
		case models.OutputMap:
			if fig, ok := s.buildMap(); ok {
				update.Map = &fig
			}
		case models.OutputRanking:
			if s.ranking != nil {
				update.Ranking = s.ranking.Rows(s.view.SortOrder)
			}
		case models.OutputExceptions:
			if view, ok := s.buildExceptions(); ok {
				update.Exceptions = &view
			}
		case models.OutputSelection:
			update.SelectedIDs = append([]string(nil), s.view.SelectedIDs...)
		case models.OutputTimeInputs:
			start, end := s.view.EffectiveRange()
			update.TimeRange = &models.TimeRange{Start: start, End: end}
		}
	}

	return update
}

func (s *Session) buildChart() chart.Figure {
	start := time.Now()

	schema := s.series.Schema()
	if !s.view.ShowFeatures {
		schema = schema.WithoutFeatures()
	}

	// The time range clips the x-axis visually; the full materialized slice
	// stays in the figure. Only the exceptions path restricts the row-set.
	rows := s.series.RowsFor(s.view.SelectedIDs)

	fig := chart.Build(rows, schema)
	rangeStart, rangeEnd := s.view.EffectiveRange()
	fig.SetXRange(rangeStart, rangeEnd)

	if s.metrics != nil {
		s.metrics.RecordChartBuild("chart", len(fig.Data), time.Since(start))
	}
	return fig
}

func (s *Session) buildMap() (chart.Figure, bool) {
	if s.ranking == nil || !s.ranking.HasGeo() {
		return chart.Figure{}, false
	}

	start := time.Now()

	selected := make(map[string]bool, len(s.view.SelectedIDs))
	for _, id := range s.view.SelectedIDs {
		selected[id] = true
	}

	lat, lon, color := s.ranking.GeoColumns()
	fig := chart.BuildMap(s.ranking.Frame(), selected, chart.GeoOptions{
		IDColumn:    s.ranking.IDColumn(),
		Latitude:    lat,
		Longitude:   lon,
		ColorColumn: color,
	})

	if s.metrics != nil {
		s.metrics.RecordChartBuild("map", len(fig.Data), time.Since(start))
	}
	return fig, true
}

func (s *Session) buildExceptions() (ExceptionsView, bool) {
	if s.exceptions == nil {
		return ExceptionsView{}, false
	}

	start := time.Now()

	rangeStart, rangeEnd := s.view.EffectiveRange()
	idCol, tsCol, countCol := s.exceptions.Columns()

	aggregated := zeroFillAggregate(
		s.exceptions.Aggregate(rangeStart, rangeEnd),
		s.rankedIDs(),
		idCol,
	)
	overview := chart.BuildExceptionOverview(aggregated, idCol)

	detailRows := s.exceptions.RowsFor(s.view.SelectedIDs, rangeStart, rangeEnd)
	detail := chart.BuildExceptionDetail(detailRows, idCol, tsCol, countCol)

	if s.metrics != nil {
		s.metrics.RecordChartBuild("exceptions", len(overview.Data)+len(detail.Data), time.Since(start))
	}
	return ExceptionsView{Overview: overview, Detail: detail}, true
}

// rankedIDs is the id universe the exception overview is zero-filled against:
// the ranking table's ids when present, otherwise every series in the dataset.
func (s *Session) rankedIDs() []string {
	if s.ranking != nil {
		return s.ranking.IDs()
	}
	return s.series.AllIDs()
}

// View returns a snapshot of the current view state.
func (s *Session) View() state.ViewState {
	s.mu.Lock()
	defer s.mu.Unlock()
	snapshot := s.view
	snapshot.SelectedIDs = append([]string(nil), s.view.SelectedIDs...)
	return snapshot
}

// SeriesIDs returns the sorted series-id universe.
func (s *Session) SeriesIDs() []string {
	return s.series.AllIDs()
}

// DisplayCount returns the configured page size.
func (s *Session) DisplayCount() int {
	return s.displayCount
}

// Defaults returns the fallback time bounds used for empty range inputs.
func (s *Session) Defaults() models.TimeRange {
	return s.defaults
}

// Chart renders the main chart from the current state.
func (s *Session) Chart() chart.Figure {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.buildChart()
}

// Map renders the geographic map; ok is false when no geo columns are bound.
func (s *Session) Map() (chart.Figure, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.buildMap()
}

// Ranking returns the ranking rows in the current sort order; ok is false
// when no ranking table is configured.
func (s *Session) Ranking() ([]map[string]interface{}, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ranking == nil {
		return nil, false
	}
	return s.ranking.Rows(s.view.SortOrder), true
}

// Exceptions renders the exceptions route figures; ok is false when exception
// analysis is not enabled.
func (s *Session) Exceptions() (ExceptionsView, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.buildExceptions()
}

// HasExceptions reports whether exception analysis is enabled.
func (s *Session) HasExceptions() bool {
	return s.exceptions != nil
}
