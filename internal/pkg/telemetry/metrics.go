package telemetry

// Span names.
const (
	SpanResolvePlace = "place.resolve"
	SpanGeocode      = "geocoder.search"
	SpanCacheLookup  = "geocoder.cache_lookup"
)

// Span attribute keys.
const (
	AttrQuery       = "geotz.query"
	AttrTimezone    = "geotz.time_zone"
	AttrResultCount = "geotz.result_count"
	AttrCacheHit    = "geotz.cache_hit"
	AttrHTTPStatus  = "http.status_code"
)

// TracerName is the instrumentation scope for spans emitted by this module.
const TracerName = "github.com/samirrijal/geotz"
