package tzindex

import "github.com/ringsaturn/tzf"

// tzfFinder uses the boundary data bundled with tzf.
type tzfFinder struct {
	f tzf.F
}

func newTZFFinder() (*tzfFinder, error) {
	f, err := tzf.NewDefaultFinder()
	if err != nil {
		return nil, err
	}
	return &tzfFinder{f: f}, nil
}

func (t *tzfFinder) Find(lat, lon float64) string {
	return t.f.GetTimezoneName(lon, lat)
}

func (t *tzfFinder) Zones() []string {
	return t.f.TimezoneNames()
}
