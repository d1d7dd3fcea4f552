// Package tzindex implements the spatial timezone index on top of pluggable
// point-in-polygon backends.
package tzindex

import (
	"fmt"
	"math"
	"sort"
	"time"
	_ "time/tzdata"

	"github.com/samirrijal/geotz/internal/core/domain"
	"github.com/samirrijal/geotz/internal/pkg/metrics"
)

// Supported backends.
const (
	BackendTZF     = "tzf"
	BackendLatLong = "latlong"
	BackendTZCache = "tzcache"
	BackendGeoJSON = "geojson"
)

// Finder is a raw point-in-polygon backend. Find returns "" for uncovered points.
type Finder interface {
	Find(lat, lon float64) string
	// Zones lists every name Find can return, or nil when the backend cannot enumerate them.
	Zones() []string
}

// Options selects and configures a backend.
type Options struct {
	Backend string
	// Path is the dataset file for the tzcache and geojson backends.
	Path string
	// CoastalRadiusMeters bounds the nearest-region fallback of the geojson backend.
	CoastalRadiusMeters float64
}

// Index implements ports.TimezoneIndex. It is immutable once built.
type Index struct {
	backend string
	finder  Finder
}

// Open builds the index for opts. It is meant to run once at startup; errors are fatal.
func Open(opts Options) (*Index, error) {
	start := time.Now()

	var (
		f   Finder
		err error
	)
	switch opts.Backend {
	case "", BackendTZF:
		opts.Backend = BackendTZF
		f, err = newTZFFinder()
	case BackendLatLong:
		f = latLongFinder{}
	case BackendTZCache:
		f, err = openCacheFinder(opts.Path)
	case BackendGeoJSON:
		f, err = loadPolygonFinder(opts.Path, opts.CoastalRadiusMeters)
	default:
		err = fmt.Errorf("unknown backend %q", opts.Backend)
	}
	if err != nil {
		return nil, fmt.Errorf("build %s index: %w", opts.Backend, err)
	}

	metrics.IndexBuildSeconds.WithLabelValues(opts.Backend).Set(time.Since(start).Seconds())
	return New(opts.Backend, f), nil
}

// New wraps an already built finder.
func New(backend string, f Finder) *Index {
	return &Index{backend: backend, finder: f}
}

// Backend names the backend answering lookups.
func (x *Index) Backend() string { return x.backend }

// Lookup returns the zone containing c, or the nautical zone for c.Lon when no
// region covers the point (open ocean, polar caps, gaps in the dataset).
func (x *Index) Lookup(c domain.Coordinate) string {
	if name := x.finder.Find(c.Lat, c.Lon); name != "" {
		return name
	}
	metrics.FallbackZones.Inc()
	return NauticalZone(c.Lon)
}

// Zones lists the names the backend can report, sorted. It is nil for
// backends that cannot enumerate their zones.
func (x *Index) Zones() []string {
	names := x.finder.Zones()
	if names == nil {
		return nil
	}
	out := append([]string(nil), names...)
	sort.Strings(out)
	return out
}

// Verify returns the backend zone names the tz database cannot load.
func (x *Index) Verify() []string {
	var bad []string
	for _, name := range x.finder.Zones() {
		if _, err := time.LoadLocation(name); err != nil {
			bad = append(bad, name)
		}
	}
	return bad
}

// NauticalZone returns the Etc/GMT zone of the 15° nautical band centred on a
// multiple of 15° longitude. Etc signs are POSIX-inverted: lon -75 is "Etc/GMT+5".
func NauticalZone(lon float64) string {
	n := int(math.Round(lon / 15))
	switch {
	case n == 0:
		return "Etc/GMT"
	case n > 0:
		return fmt.Sprintf("Etc/GMT-%d", n)
	default:
		return fmt.Sprintf("Etc/GMT+%d", -n)
	}
}
