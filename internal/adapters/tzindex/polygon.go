package tzindex

import (
	"fmt"
	"math"
	"os"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/paulmach/orb/planar"
	"github.com/tidwall/rtree"

	"github.com/samirrijal/geotz/internal/pkg/geospatial"
)

// zoneShape is one timezone region. Position in polygonFinder.zones is the build
// order used to break ties between overlapping regions.
type zoneShape struct {
	name string
	geom orb.Geometry // orb.Polygon or orb.MultiPolygon
}

func (z zoneShape) contains(p orb.Point) bool {
	switch g := z.geom.(type) {
	case orb.Polygon:
		return planar.PolygonContains(g, p)
	case orb.MultiPolygon:
		return planar.MultiPolygonContains(g, p)
	}
	return false
}

// distance is the great-circle distance in meters to the nearest point on the
// region boundary. Segments are treated as straight in a local equirectangular
// projection around the query point, which is accurate at coastal distances.
func (z zoneShape) distance(lat, lon float64) float64 {
	best := math.Inf(1)
	visit := func(ring orb.Ring) {
		for i := 1; i < len(ring); i++ {
			if d := segmentDistance(lat, lon, ring[i-1], ring[i]); d < best {
				best = d
			}
		}
	}

	switch g := z.geom.(type) {
	case orb.Polygon:
		for _, r := range g {
			visit(r)
		}
	case orb.MultiPolygon:
		for _, poly := range g {
			for _, r := range poly {
				visit(r)
			}
		}
	}
	return best
}

func segmentDistance(lat, lon float64, a, b orb.Point) float64 {
	k := math.Cos(lat * math.Pi / 180)
	ax, ay := (a[0]-lon)*k, a[1]-lat
	dx, dy := (b[0]-a[0])*k, b[1]-a[1]

	t := 0.0
	if l2 := dx*dx + dy*dy; l2 > 0 {
		t = math.Max(0, math.Min(1, -(ax*dx+ay*dy)/l2))
	}
	return geospatial.Haversine(lat, lon, a[1]+t*(b[1]-a[1]), a[0]+t*(b[0]-a[0]))
}

// polygonFinder answers lookups from timezone-boundary-builder style GeoJSON:
// a FeatureCollection of Polygon/MultiPolygon features with a "tzid" property.
type polygonFinder struct {
	zones   []zoneShape
	tree    rtree.RTreeG[int]
	coastal float64
}

func loadPolygonFinder(path string, coastalMeters float64) (*polygonFinder, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read geojson: %w", err)
	}
	return newPolygonFinder(data, coastalMeters)
}

func newPolygonFinder(data []byte, coastalMeters float64) (*polygonFinder, error) {
	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return nil, fmt.Errorf("parse geojson: %w", err)
	}

	p := &polygonFinder{coastal: coastalMeters}
	for i, f := range fc.Features {
		name := f.Properties.MustString("tzid", "")
		if name == "" {
			name = f.Properties.MustString("TZID", "")
		}
		if name == "" {
			return nil, fmt.Errorf("feature %d: missing tzid property", i)
		}

		switch f.Geometry.(type) {
		case orb.Polygon, orb.MultiPolygon:
		case nil:
			return nil, fmt.Errorf("feature %d (%s): missing geometry", i, name)
		default:
			return nil, fmt.Errorf("feature %d (%s): unsupported geometry %s", i, name, f.Geometry.GeoJSONType())
		}

		b := f.Geometry.Bound()
		p.tree.Insert([2]float64(b.Min), [2]float64(b.Max), len(p.zones))
		p.zones = append(p.zones, zoneShape{name: name, geom: f.Geometry})
	}

	if len(p.zones) == 0 {
		return nil, fmt.Errorf("no timezone polygons in dataset")
	}
	return p, nil
}

func (p *polygonFinder) Find(lat, lon float64) string {
	pt := orb.Point{lon, lat}

	best := -1
	p.tree.Search([2]float64(pt), [2]float64(pt), func(_, _ [2]float64, idx int) bool {
		if (best < 0 || idx < best) && p.zones[idx].contains(pt) {
			best = idx
		}
		return true
	})
	if best >= 0 {
		return p.zones[best].name
	}
	return p.nearest(lat, lon)
}

// nearest resolves offshore points to the closest region within the coastal radius.
func (p *polygonFinder) nearest(lat, lon float64) string {
	if p.coastal <= 0 {
		return ""
	}

	minLat, minLon, maxLat, maxLon := geospatial.BoundingBox(lat, lon, p.coastal)
	best, bestDist := -1, math.Inf(1)
	p.tree.Search([2]float64{minLon, minLat}, [2]float64{maxLon, maxLat}, func(_, _ [2]float64, idx int) bool {
		d := p.zones[idx].distance(lat, lon)
		if d < bestDist || (d == bestDist && idx < best) {
			best, bestDist = idx, d
		}
		return true
	})

	if best >= 0 && bestDist <= p.coastal {
		return p.zones[best].name
	}
	return ""
}

func (p *polygonFinder) Zones() []string {
	seen := make(map[string]bool, len(p.zones))
	var names []string
	for _, z := range p.zones {
		if !seen[z.name] {
			seen[z.name] = true
			names = append(names, z.name)
		}
	}
	return names
}
