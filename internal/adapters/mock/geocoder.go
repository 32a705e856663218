package mock

import (
	"context"
	"sync"

	"route-planning-service/internal/ports"
)

// Match builds a geocode match at lon/lat.
func Match(label string, lon, lat float64) ports.GeocodeMatch {
	return ports.GeocodeMatch{Label: label, Lon: &lon, Lat: &lat}
}

// Geocoder answers from fixed tables. Unknown queries return zero matches.
type Geocoder struct {
	mu      sync.Mutex
	matches map[string][]ports.GeocodeMatch
	errs    map[string]error
	holds   map[string]*hold
	calls   []string
}

type hold struct {
	entered chan struct{}
	release chan struct{}
	once    sync.Once
}

func NewGeocoder() *Geocoder {
	return &Geocoder{
		matches: make(map[string][]ports.GeocodeMatch),
		errs:    make(map[string]error),
		holds:   make(map[string]*hold),
	}
}

func (g *Geocoder) Add(query string, matches ...ports.GeocodeMatch) *Geocoder {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.matches[query] = matches
	return g
}

func (g *Geocoder) Fail(query string, err error) *Geocoder {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.errs[query] = err
	return g
}

// Hold blocks lookups of query until release is called. entered is closed
// once the first such lookup is in flight.
func (g *Geocoder) Hold(query string) (entered <-chan struct{}, release func()) {
	h := &hold{entered: make(chan struct{}), release: make(chan struct{})}

	g.mu.Lock()
	g.holds[query] = h
	g.mu.Unlock()

	return h.entered, func() { close(h.release) }
}

func (g *Geocoder) Geocode(ctx context.Context, query string) ([]ports.GeocodeMatch, error) {
	g.mu.Lock()
	g.calls = append(g.calls, query)
	h := g.holds[query]
	g.mu.Unlock()

	if h != nil {
		h.once.Do(func() { close(h.entered) })
		select {
		case <-h.release:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	if err, ok := g.errs[query]; ok {
		return nil, err
	}
	return g.matches[query], nil
}

// Calls returns every query received, in arrival order.
func (g *Geocoder) Calls() []string {
	g.mu.Lock()
	defer g.mu.Unlock()
	out := make([]string, len(g.calls))
	copy(out, g.calls)
	return out
}
