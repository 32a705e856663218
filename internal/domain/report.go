package domain

// Stage names the pipeline step a notice came from.
type Stage string

const (
	StageInput    Stage = "input"
	StageGeocode  Stage = "geocode"
	StageRoute    Stage = "route"
	StageRender   Stage = "render"
	StageNavigate Stage = "navigate"
)

// Notice is one user-visible failure report. Preference is set for
// route and render notices, Address for geocode notices.
type Notice struct {
	Stage      Stage
	Preference RoutePreference
	Address    string
	Message    string
	Err        error
}

// SearchReport is what a find-route cycle hands back to its caller.
// Routes holds only the preferences that were planned and applied.
type SearchReport struct {
	Generation uint64
	Superseded bool
	Routes     map[RoutePreference]RouteResult
	Notices    []Notice
}

func NewSearchReport(generation uint64) *SearchReport {
	return &SearchReport{
		Generation: generation,
		Routes:     make(map[RoutePreference]RouteResult, 2),
	}
}

func (r *SearchReport) AddNotice(n Notice) {
	if n.Message == "" && n.Err != nil {
		n.Message = n.Err.Error()
	}
	r.Notices = append(r.Notices, n)
}
