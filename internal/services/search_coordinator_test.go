package services

import (
	"context"
	"errors"
	"net/url"
	"testing"

	"route-planning-service/internal/adapters/mapsurface"
	"route-planning-service/internal/adapters/mock"
	"route-planning-service/internal/domain"
	"route-planning-service/internal/ports"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	geocoder *mock.Geocoder
	routing  *mock.RoutingProvider
	surface  *mapsurface.MemorySurface
	coord    *SearchCoordinator
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	f := &fixture{
		geocoder: mock.NewGeocoder().
			Add("A", mock.Match("A", pointA.Lon, pointA.Lat)).
			Add("B", mock.Match("B", pointB.Lon, pointB.Lat)).
			Add("W", mock.Match("W", pointW.Lon, pointW.Lat)).
			Add("X", mock.Match("X", pointX.Lon, pointX.Lat)),
		routing: mock.NewRoutingProvider().
			Respond(domain.Fastest, mock.Route(12300, 14*60)).
			Respond(domain.Shortest, mock.Route(10100, 18*60)),
		surface: mapsurface.NewMemorySurface(),
	}
	f.surface.Init()
	f.coord = NewSearchCoordinator(
		NewCoordinateResolver(f.geocoder, nil),
		NewRoutePlanner(f.routing),
		NewMapSynchronizer(f.surface),
	)
	return f
}

func (f *fixture) layerIDs(t *testing.T) []string {
	t.Helper()
	ids, err := f.surface.LayerIDs()
	require.NoError(t, err)
	return ids
}

func TestSearchCoordinator_BothRoutesSucceed(t *testing.T) {
	f := newFixture(t)

	report, err := f.coord.FindRoute(context.Background(), domain.SearchInput{Start: "A", Stop: "B"})
	require.NoError(t, err)

	assert.False(t, report.Superseded)
	assert.Empty(t, report.Notices)
	require.Len(t, report.Routes, 2)

	fastest := report.Routes[domain.Fastest]
	assert.InDelta(t, 12.3, fastest.DistanceKm, 1e-9)
	assert.Equal(t, 14, fastest.TravelTimeMinutes)

	shortest := report.Routes[domain.Shortest]
	assert.InDelta(t, 10.1, shortest.DistanceKm, 1e-9)
	assert.Equal(t, 18, shortest.TravelTimeMinutes)

	assert.ElementsMatch(t, []string{"fastest-route", "shortest-route"}, f.layerIDs(t))
	assert.Len(t, f.surface.Markers(), 2)
	assert.Equal(t, domain.StateIdle, f.coord.State())
	assert.Equal(t, report.Routes, f.coord.Results())
}

func TestSearchCoordinator_ResolutionFailureAborts(t *testing.T) {
	f := newFixture(t)

	_, err := f.coord.FindRoute(context.Background(), domain.SearchInput{Start: "A", Stop: "Nowhere"})
	require.ErrorIs(t, err, domain.ErrResolutionFailed)
	require.ErrorIs(t, err, domain.ErrNotFound)

	var re *domain.ResolutionError
	require.True(t, errors.As(err, &re))
	assert.Equal(t, domain.RoleStop, re.Role)
	assert.Equal(t, "Nowhere", re.Address)

	assert.Empty(t, f.surface.Markers())
	assert.Empty(t, f.layerIDs(t))
	assert.Empty(t, f.routing.Requests())
	assert.Empty(t, f.coord.Results())
	assert.Equal(t, domain.StateIdle, f.coord.State())
}

func TestSearchCoordinator_ResolutionFailureKeepsPreviousMap(t *testing.T) {
	f := newFixture(t)

	_, err := f.coord.FindRoute(context.Background(), domain.SearchInput{Start: "A", Stop: "B"})
	require.NoError(t, err)

	_, err = f.coord.FindRoute(context.Background(), domain.SearchInput{Start: "Nowhere", Stop: "B"})
	require.ErrorIs(t, err, domain.ErrResolutionFailed)

	assert.Len(t, f.surface.Markers(), 2)
	assert.Len(t, f.layerIDs(t), 2)
}

func TestSearchCoordinator_OnePreferenceFails(t *testing.T) {
	f := newFixture(t)
	f.routing.Respond(domain.Fastest)

	report, err := f.coord.FindRoute(context.Background(), domain.SearchInput{Start: "A", Stop: "B"})
	require.NoError(t, err)

	require.Len(t, report.Routes, 1)
	_, ok := report.Routes[domain.Shortest]
	assert.True(t, ok)

	require.Len(t, report.Notices, 1)
	n := report.Notices[0]
	assert.Equal(t, domain.StageRoute, n.Stage)
	assert.Equal(t, domain.Fastest, n.Preference)
	assert.ErrorIs(t, n.Err, domain.ErrNoRouteFound)
	assert.NotEmpty(t, n.Message)

	assert.Equal(t, []string{"shortest-route"}, f.layerIDs(t))
	_, ok = f.coord.Results()[domain.Fastest]
	assert.False(t, ok)
}

func TestSearchCoordinator_BlankWaypointSkipped(t *testing.T) {
	f := newFixture(t)

	f.coord.AddWaypoint()
	second := f.coord.AddWaypoint()
	require.NoError(t, f.coord.SetWaypoint(second, "W"))

	report, err := f.coord.FindRoute(context.Background(), domain.SearchInput{Start: "A", Stop: "B"})
	require.NoError(t, err)

	assert.ElementsMatch(t, []string{"A", "B", "W"}, f.geocoder.Calls())

	for _, req := range f.routing.Requests() {
		assert.Equal(t, []domain.Coordinates{pointA, pointW, pointB}, req.Locations)
	}
	assert.Equal(t, []domain.Coordinates{pointW}, report.Routes[domain.Shortest].Waypoints)
	assert.Len(t, f.surface.Markers(), 3)

	// slots survive the search untouched
	assert.Equal(t, []string{"", "W"}, f.coord.Waypoints())
}

func TestSearchCoordinator_MissingInput(t *testing.T) {
	f := newFixture(t)

	for _, in := range []domain.SearchInput{{Start: "A"}, {Stop: "B"}, {Start: "  ", Stop: "B"}, {}} {
		_, err := f.coord.FindRoute(context.Background(), in)
		require.ErrorIs(t, err, domain.ErrMissingInput)
	}

	assert.Empty(t, f.geocoder.Calls())
	assert.Equal(t, domain.StateIdle, f.coord.State())
	assert.Zero(t, f.coord.Snapshot().Generation)
}

func TestSearchCoordinator_MissingInputKeepsSlots(t *testing.T) {
	f := newFixture(t)
	f.coord.ReplaceWaypoints([]string{"W"})

	empty := []string{}
	_, err := f.coord.FindRoute(context.Background(), domain.SearchInput{Stop: "B", Waypoints: &empty})
	require.ErrorIs(t, err, domain.ErrMissingInput)

	assert.Equal(t, []string{"W"}, f.coord.Waypoints())
}

func TestSearchCoordinator_InputWaypointsReplaceSlots(t *testing.T) {
	f := newFixture(t)
	f.coord.ReplaceWaypoints([]string{"X"})

	wps := []string{"W"}
	report, err := f.coord.FindRoute(context.Background(), domain.SearchInput{Start: "A", Stop: "B", Waypoints: &wps})
	require.NoError(t, err)

	assert.Equal(t, []string{"W"}, f.coord.Waypoints())
	assert.Equal(t, []domain.Coordinates{pointW}, report.Routes[domain.Fastest].Waypoints)
}

func TestSearchCoordinator_WaypointFailureNamesSlot(t *testing.T) {
	f := newFixture(t)
	f.coord.ReplaceWaypoints([]string{"", "W", "  ", "Atlantis"})

	_, err := f.coord.FindRoute(context.Background(), domain.SearchInput{Start: "A", Stop: "B"})

	var re *domain.ResolutionError
	require.ErrorAs(t, err, &re)
	assert.Equal(t, domain.RoleWaypoint, re.Role)
	assert.Equal(t, 3, re.Index)
	assert.Equal(t, "Atlantis", re.Address)
}

func TestSearchCoordinator_NewSearchReplacesPrevious(t *testing.T) {
	f := newFixture(t)

	f.coord.ReplaceWaypoints([]string{"W", "X"})
	_, err := f.coord.FindRoute(context.Background(), domain.SearchInput{Start: "A", Stop: "B"})
	require.NoError(t, err)
	assert.Len(t, f.surface.Markers(), 4)

	f.coord.ReplaceWaypoints(nil)
	f.routing.Fail(domain.Fastest, errors.New("boom"))

	report, err := f.coord.FindRoute(context.Background(), domain.SearchInput{Start: "B", Stop: "A"})
	require.NoError(t, err)

	assert.Len(t, f.surface.Markers(), 2)
	assert.Equal(t, []string{"shortest-route"}, f.layerIDs(t))

	results := f.coord.Results()
	require.Len(t, results, 1)
	assert.Equal(t, pointB, results[domain.Shortest].Start)
	assert.Empty(t, results[domain.Shortest].Waypoints)
	require.Len(t, report.Notices, 1)
	assert.ErrorIs(t, report.Notices[0].Err, domain.ErrServiceUnavailable)
}

func TestSearchCoordinator_RenderFailureKeepsResults(t *testing.T) {
	f := newFixture(t)
	f.coord = NewSearchCoordinator(
		NewCoordinateResolver(f.geocoder, nil),
		NewRoutePlanner(f.routing),
		NewMapSynchronizer(mapsurface.NewMemorySurface()),
	)

	report, err := f.coord.FindRoute(context.Background(), domain.SearchInput{Start: "A", Stop: "B"})
	require.NoError(t, err)

	assert.Len(t, report.Routes, 2)
	assert.Len(t, f.coord.Results(), 2)
	require.NotEmpty(t, report.Notices)
	for _, n := range report.Notices {
		assert.Equal(t, domain.StageRender, n.Stage)
		assert.ErrorIs(t, n.Err, domain.ErrSurfaceNotReady)
	}
}

func TestSearchCoordinator_SupersededSearchIsDiscarded(t *testing.T) {
	f := newFixture(t)
	f.geocoder.Add("Slow", mock.Match("Slow", pointX.Lon, pointX.Lat))
	entered, release := f.geocoder.Hold("Slow")

	type outcome struct {
		report *domain.SearchReport
		err    error
	}
	done := make(chan outcome, 1)
	go func() {
		r, err := f.coord.FindRoute(context.Background(), domain.SearchInput{Start: "Slow", Stop: "B"})
		done <- outcome{r, err}
	}()

	<-entered

	latest, err := f.coord.FindRoute(context.Background(), domain.SearchInput{Start: "A", Stop: "B"})
	require.NoError(t, err)
	assert.False(t, latest.Superseded)

	release()
	stale := <-done
	require.NoError(t, stale.err)
	assert.True(t, stale.report.Superseded)
	assert.Empty(t, stale.report.Routes)
	assert.Less(t, stale.report.Generation, latest.Generation)

	// only the newer search reached the routing provider
	for _, req := range f.routing.Requests() {
		assert.Equal(t, pointA, req.Locations[0])
	}
	assert.Len(t, f.routing.Requests(), 2)
	assert.Len(t, f.surface.Markers(), 2)
	assert.Equal(t, pointA, f.coord.Results()[domain.Fastest].Start)
}

func TestSearchCoordinator_StalePlanDoesNotOverwriteNewerSearch(t *testing.T) {
	f := newFixture(t)
	entered, release := f.routing.Hold(domain.Fastest, pointX)

	type outcome struct {
		report *domain.SearchReport
		err    error
	}
	done := make(chan outcome, 1)
	go func() {
		r, err := f.coord.FindRoute(context.Background(), domain.SearchInput{Start: "X", Stop: "B"})
		done <- outcome{r, err}
	}()

	// older search is planning: its fastest request is parked
	<-entered

	latest, err := f.coord.FindRoute(context.Background(), domain.SearchInput{Start: "A", Stop: "B"})
	require.NoError(t, err)
	assert.False(t, latest.Superseded)
	require.Len(t, latest.Routes, 2)

	release()
	stale := <-done
	require.NoError(t, stale.err)
	assert.True(t, stale.report.Superseded)
	assert.NotContains(t, stale.report.Routes, domain.Fastest)
	assert.Less(t, stale.report.Generation, latest.Generation)

	fastest := f.coord.Results()[domain.Fastest]
	assert.Equal(t, pointA, fastest.Start)
	assert.InDelta(t, 12.3, fastest.DistanceKm, 1e-9)
	assert.Equal(t, pointA, f.coord.Results()[domain.Shortest].Start)

	assert.Len(t, f.surface.Markers(), 2)
	assert.ElementsMatch(t, []string{"fastest-route", "shortest-route"}, f.layerIDs(t))
	assert.Equal(t, domain.StateIdle, f.coord.State())
}

func TestSearchCoordinator_ResetClearsEverything(t *testing.T) {
	f := newFixture(t)
	f.coord.ReplaceWaypoints([]string{"W"})

	_, err := f.coord.FindRoute(context.Background(), domain.SearchInput{Start: "A", Stop: "B"})
	require.NoError(t, err)

	require.NoError(t, f.coord.Reset())

	snap := f.coord.Snapshot()
	assert.Empty(t, snap.Waypoints)
	assert.Empty(t, snap.Routes)
	assert.Equal(t, domain.SearchInput{}, snap.Input)
	assert.Empty(t, f.surface.Markers())
	assert.Empty(t, f.layerIDs(t))

	_, err = f.coord.NavigationURL()
	require.ErrorIs(t, err, domain.ErrRouteNotReady)
}

func TestSearchCoordinator_NavigationURL(t *testing.T) {
	f := newFixture(t)

	_, err := f.coord.NavigationURL()
	require.ErrorIs(t, err, domain.ErrRouteNotReady)

	f.coord.ReplaceWaypoints([]string{"W", "X"})
	_, err = f.coord.FindRoute(context.Background(), domain.SearchInput{Start: "A", Stop: "B"})
	require.NoError(t, err)

	raw, err := f.coord.NavigationURL()
	require.NoError(t, err)

	u, err := url.Parse(raw)
	require.NoError(t, err)
	q := u.Query()
	assert.Equal(t, "1", q.Get("api"))
	assert.Equal(t, "A", q.Get("origin"))
	assert.Equal(t, "B", q.Get("destination"))
	assert.Equal(t, pointW.LatLng()+"|"+pointX.LatLng(), q.Get("waypoints"))
	assert.Equal(t, "navigate", q.Get("dir_action"))
}

func TestSearchCoordinator_NavigationNeedsShortest(t *testing.T) {
	f := newFixture(t)
	f.routing.Fail(domain.Shortest, ports.ErrTransient)

	_, err := f.coord.FindRoute(context.Background(), domain.SearchInput{Start: "A", Stop: "B"})
	require.NoError(t, err)

	_, err = f.coord.NavigationURL()
	require.ErrorIs(t, err, domain.ErrRouteNotReady)
}
