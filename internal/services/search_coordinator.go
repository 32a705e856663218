package services

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"route-planning-service/internal/domain"
	"route-planning-service/internal/platform/metrics"
	"route-planning-service/internal/platform/obs"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// SearchCoordinator runs find-route cycles: resolve every address, redraw
// markers, then plan both preferences and apply each result as it lands.
//
// It is the single writer of waypoint slots and route results. All of that
// state, and every call into the map synchronizer, is serialized through mu.
// Each cycle carries a generation number; results from a cycle that has
// since been superseded are dropped instead of applied.
type SearchCoordinator struct {
	resolver *CoordinateResolver
	planner  *RoutePlanner
	mapSync  *MapSynchronizer

	mu         sync.Mutex
	generation uint64
	state      domain.SearchState
	slots      domain.WaypointSlots
	results    map[domain.RoutePreference]domain.RouteResult
	current    domain.SearchInput
}

// Snapshot is a consistent copy of the coordinator's state.
type Snapshot struct {
	Generation uint64
	State      domain.SearchState
	Input      domain.SearchInput
	Waypoints  []string
	Routes     map[domain.RoutePreference]domain.RouteResult
}

func NewSearchCoordinator(resolver *CoordinateResolver, planner *RoutePlanner, mapSync *MapSynchronizer) *SearchCoordinator {
	return &SearchCoordinator{
		resolver: resolver,
		planner:  planner,
		mapSync:  mapSync,
		state:    domain.StateIdle,
		results:  make(map[domain.RoutePreference]domain.RouteResult, 2),
	}
}

// AddWaypoint appends an empty slot and returns its index.
func (c *SearchCoordinator) AddWaypoint() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.slots.Add()
}

func (c *SearchCoordinator) SetWaypoint(index int, address string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.slots.Set(index, address)
}

// ReplaceWaypoints drops every slot and refills them from addresses.
func (c *SearchCoordinator) ReplaceWaypoints(addresses []string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.replaceWaypoints(addresses)
}

// Caller holds mu.
func (c *SearchCoordinator) replaceWaypoints(addresses []string) {
	c.slots.Reset()
	for _, a := range addresses {
		i := c.slots.Add()
		_ = c.slots.Set(i, a)
	}
}

func (c *SearchCoordinator) Waypoints() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.slots.Addresses()
}

func (c *SearchCoordinator) State() domain.SearchState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Results returns a copy of the current route results, keyed by preference.
func (c *SearchCoordinator) Results() map[domain.RoutePreference]domain.RouteResult {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.copyResults()
}

func (c *SearchCoordinator) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	return Snapshot{
		Generation: c.generation,
		State:      c.state,
		Input:      c.current,
		Waypoints:  c.slots.Addresses(),
		Routes:     c.copyResults(),
	}
}

// Reset abandons any in-flight search and clears slots, results and the map.
func (c *SearchCoordinator) Reset() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.generation++
	c.state = domain.StateIdle
	c.slots.Reset()
	c.results = make(map[domain.RoutePreference]domain.RouteResult, 2)
	c.current = domain.SearchInput{}

	if err := c.mapSync.ClearSearchArtifacts(); err != nil {
		return fmt.Errorf("reset search: %w", err)
	}
	return nil
}

// NavigationURL builds the turn-by-turn link for the current shortest route.
func (c *SearchCoordinator) NavigationURL() (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	r, ok := c.results[domain.Shortest]
	if !ok {
		return "", fmt.Errorf("navigation url: %w", domain.ErrRouteNotReady)
	}
	return BuildNavigationURL(c.current.Start, c.current.Stop, r.Waypoints), nil
}

type resolvedInput struct {
	start     domain.Coordinates
	stop      domain.Coordinates
	waypoints []domain.Coordinates
}

// FindRoute runs one search cycle to completion.
//
// A missing start or stop returns ErrMissingInput before anything else
// happens, slots included. A failed address aborts the cycle with a *domain.ResolutionError
// and leaves the map untouched. Planning failures never fail the call: they
// become notices in the report while the other preference is still applied.
// Report.Superseded is set when a newer search or a reset overtook this one.
func (c *SearchCoordinator) FindRoute(ctx context.Context, in domain.SearchInput) (_ *domain.SearchReport, err error) {
	defer obs.Time(ctx, "coordinator.FindRoute")(&err)

	start := strings.TrimSpace(in.Start)
	stop := strings.TrimSpace(in.Stop)
	switch {
	case start == "" && stop == "":
		return nil, fmt.Errorf("find route: start and stop: %w", domain.ErrMissingInput)
	case start == "":
		return nil, fmt.Errorf("find route: start: %w", domain.ErrMissingInput)
	case stop == "":
		return nil, fmt.Errorf("find route: stop: %w", domain.ErrMissingInput)
	}

	began := time.Now()
	logger := zerolog.Ctx(ctx)

	c.mu.Lock()
	if in.Waypoints != nil {
		c.replaceWaypoints(*in.Waypoints)
	}
	c.generation++
	gen := c.generation
	c.state = domain.StateResolvingAddresses
	waypoints := c.slots.Filled()
	c.mu.Unlock()

	report := domain.NewSearchReport(gen)

	logger.Info().
		Uint64("generation", gen).
		Str("start", start).
		Str("stop", stop).
		Int("waypoints", len(waypoints)).
		Msg("search started")

	resolved, err := c.resolveAll(ctx, start, stop, waypoints)
	if err != nil {
		c.mu.Lock()
		if c.generation == gen {
			c.state = domain.StateIdle
		}
		c.mu.Unlock()

		metrics.SearchDuration.WithLabelValues("resolution_failed").Observe(time.Since(began).Seconds())
		return nil, fmt.Errorf("find route: %w", err)
	}

	if !c.beginPlanning(ctx, gen, domain.SearchInput{Start: start, Stop: stop}, resolved, report) {
		report.Superseded = true
		metrics.SearchDuration.WithLabelValues("superseded").Observe(time.Since(began).Seconds())
		return report, nil
	}

	var wg sync.WaitGroup
	for _, pref := range domain.RoutePreferences() {
		wg.Go(func() {
			planned, err := c.planner.Plan(ctx, resolved.start, resolved.stop, resolved.waypoints, pref)
			c.applyPlan(ctx, gen, pref, planned, err, report)
		})
	}
	wg.Wait()

	c.mu.Lock()
	if c.generation == gen {
		// Done settles straight back to Idle.
		c.state = domain.StateIdle
	} else {
		report.Superseded = true
	}
	c.mu.Unlock()

	outcome := "ok"
	switch {
	case report.Superseded:
		outcome = "superseded"
	case len(report.Notices) > 0:
		outcome = "partial"
	}
	metrics.SearchDuration.WithLabelValues(outcome).Observe(time.Since(began).Seconds())

	logger.Info().
		Uint64("generation", gen).
		Int("routes", len(report.Routes)).
		Int("notices", len(report.Notices)).
		Bool("superseded", report.Superseded).
		Msg("search finished")

	return report, nil
}

// resolveAll resolves start, stop and every waypoint concurrently and waits
// for all of them. The first failure is returned as a *domain.ResolutionError
// naming the waypoint's slot index.
func (c *SearchCoordinator) resolveAll(ctx context.Context, start, stop string, waypoints []domain.WaypointEntry) (resolvedInput, error) {
	out := resolvedInput{waypoints: make([]domain.Coordinates, len(waypoints))}

	g, gctx := errgroup.WithContext(ctx)

	resolveInto := func(dst *domain.Coordinates, role domain.MarkerRole, index int, address string) {
		g.Go(func() error {
			coord, err := c.resolver.Resolve(gctx, address)
			if err != nil {
				return &domain.ResolutionError{Role: role, Index: index, Address: address, Err: err}
			}
			*dst = coord
			return nil
		})
	}

	resolveInto(&out.start, domain.RoleStart, 0, start)
	resolveInto(&out.stop, domain.RoleStop, 0, stop)
	for i, wp := range waypoints {
		resolveInto(&out.waypoints[i], domain.RoleWaypoint, wp.Slot, wp.Address)
	}

	if err := g.Wait(); err != nil {
		return resolvedInput{}, err
	}
	return out, nil
}

// beginPlanning moves a still-current search into PlanningRoutes: it clears
// both results and the previous artifacts, then places the new markers.
// It reports false when the search was superseded while resolving.
func (c *SearchCoordinator) beginPlanning(
	ctx context.Context,
	gen uint64,
	in domain.SearchInput,
	resolved resolvedInput,
	report *domain.SearchReport,
) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.generation != gen {
		c.discardStale(ctx, gen, "resolve")
		return false
	}

	c.state = domain.StatePlanningRoutes
	c.results = make(map[domain.RoutePreference]domain.RouteResult, 2)
	c.current = in

	if err := c.mapSync.ClearSearchArtifacts(); err != nil {
		report.AddNotice(domain.Notice{Stage: domain.StageRender, Err: err})
	}

	place := func(at domain.Coordinates, role domain.MarkerRole) {
		if err := c.mapSync.PlaceMarker(at, role); err != nil {
			report.AddNotice(domain.Notice{Stage: domain.StageRender, Err: err})
		}
	}
	place(resolved.start, domain.RoleStart)
	place(resolved.stop, domain.RoleStop)
	for _, w := range resolved.waypoints {
		place(w, domain.RoleWaypoint)
	}

	return true
}

// applyPlan records one preference's outcome if its search is still current.
// A render failure is reported but does not drop the route result.
func (c *SearchCoordinator) applyPlan(
	ctx context.Context,
	gen uint64,
	pref domain.RoutePreference,
	planned *domain.PlannedRoute,
	planErr error,
	report *domain.SearchReport,
) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.generation != gen {
		c.discardStale(ctx, gen, "route")
		return
	}

	if planErr != nil {
		if isCanceled(planErr) {
			zerolog.Ctx(ctx).Debug().Str("preference", string(pref)).Msg("plan canceled")
		}
		report.AddNotice(domain.Notice{Stage: domain.StageRoute, Preference: pref, Err: planErr})
		return
	}

	c.results[pref] = planned.Result
	report.Routes[pref] = planned.Result

	if err := c.mapSync.UpsertRouteLayer(planned.LayerID, planned.Geometry, pref.Color()); err != nil {
		report.AddNotice(domain.Notice{Stage: domain.StageRender, Preference: pref, Err: err})
	}
}

// Caller holds mu.
func (c *SearchCoordinator) discardStale(ctx context.Context, gen uint64, stage string) {
	metrics.StaleResultsDiscarded.WithLabelValues(stage).Inc()
	zerolog.Ctx(ctx).Info().
		Uint64("generation", gen).
		Uint64("current", c.generation).
		Str("stage", stage).
		Msg("discarding stale search result")
}

// Caller holds mu.
func (c *SearchCoordinator) copyResults() map[domain.RoutePreference]domain.RouteResult {
	out := make(map[domain.RoutePreference]domain.RouteResult, len(c.results))
	for k, v := range c.results {
		out[k] = v
	}
	return out
}
