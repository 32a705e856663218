package mock

import (
	"context"
	"sync"

	"route-planning-service/internal/domain"
	"route-planning-service/internal/ports"

	"github.com/paulmach/orb"
)

// Route builds a candidate with a straight line through locs.
func Route(meters, seconds float64, locs ...domain.Coordinates) ports.CandidateRoute {
	line := make(orb.LineString, 0, len(locs))
	for _, c := range locs {
		line = append(line, c.Point())
	}
	return ports.CandidateRoute{
		Summary:  ports.RouteSummary{LengthInMeters: meters, TravelTimeInSeconds: seconds},
		Geometry: line,
	}
}

// RoutingProvider answers each route type from a fixed response.
// A route type without a response yields zero candidates.
type RoutingProvider struct {
	mu        sync.Mutex
	responses map[domain.RoutePreference][]ports.CandidateRoute
	errs      map[domain.RoutePreference]error
	holds     map[routeHoldKey]*hold
	requests  []ports.RouteRequest
}

type routeHoldKey struct {
	pref   domain.RoutePreference
	origin domain.Coordinates
}

func NewRoutingProvider() *RoutingProvider {
	return &RoutingProvider{
		responses: make(map[domain.RoutePreference][]ports.CandidateRoute),
		errs:      make(map[domain.RoutePreference]error),
		holds:     make(map[routeHoldKey]*hold),
	}
}

func (p *RoutingProvider) Respond(pref domain.RoutePreference, candidates ...ports.CandidateRoute) *RoutingProvider {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.responses[pref] = candidates
	return p
}

func (p *RoutingProvider) Fail(pref domain.RoutePreference, err error) *RoutingProvider {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.errs[pref] = err
	return p
}

// Hold blocks pref requests starting at origin until release is called.
// entered is closed once the first such request is in flight.
func (p *RoutingProvider) Hold(pref domain.RoutePreference, origin domain.Coordinates) (entered <-chan struct{}, release func()) {
	h := &hold{entered: make(chan struct{}), release: make(chan struct{})}

	p.mu.Lock()
	p.holds[routeHoldKey{pref: pref, origin: origin}] = h
	p.mu.Unlock()

	return h.entered, func() { close(h.release) }
}

func (p *RoutingProvider) CalculateRoute(ctx context.Context, req ports.RouteRequest) ([]ports.CandidateRoute, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var h *hold
	if len(req.Locations) > 0 {
		p.mu.Lock()
		h = p.holds[routeHoldKey{pref: req.RouteType, origin: req.Locations[0]}]
		p.mu.Unlock()
	}
	if h != nil {
		h.once.Do(func() { close(h.entered) })
		select {
		case <-h.release:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	locs := make([]domain.Coordinates, len(req.Locations))
	copy(locs, req.Locations)
	req.Locations = locs
	p.requests = append(p.requests, req)

	if err, ok := p.errs[req.RouteType]; ok {
		return nil, err
	}
	return p.responses[req.RouteType], nil
}

// Requests returns every request received, in arrival order.
func (p *RoutingProvider) Requests() []ports.RouteRequest {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]ports.RouteRequest, len(p.requests))
	copy(out, p.requests)
	return out
}
