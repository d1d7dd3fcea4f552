package domain

import "time"

// Place is a geocoding result. Lat, Lon and BoundingBox keep the provider's
// textual form; they only become numbers after passing through ParseCoordinate.
// Bounds is the parsed box, nil when BoundingBox is not four valid values.
type Place struct {
	PlaceID     int64             `json:"place_id"`
	Licence     string            `json:"licence,omitempty"`
	OSMType     string            `json:"osm_type,omitempty"`
	OSMID       int64             `json:"osm_id,omitempty"`
	Lat         string            `json:"lat"`
	Lon         string            `json:"lon"`
	Category    string            `json:"category,omitempty"`
	Type        string            `json:"type,omitempty"`
	PlaceRank   int               `json:"place_rank,omitempty"`
	Importance  float64           `json:"importance,omitempty"`
	AddressType string            `json:"addresstype,omitempty"`
	Name        string            `json:"name,omitempty"`
	DisplayName string            `json:"display_name"`
	Address     map[string]string `json:"address,omitempty"`
	BoundingBox []string          `json:"boundingbox,omitempty"`
	Bounds      *Bounds           `json:"bounds,omitempty"`
}

// PlaceAndTime is a geocoded place with its timezone and the current local time there.
type PlaceAndTime struct {
	Place    Place     `json:"place"`
	TimeNow  time.Time `json:"time_now"`
	TimeZone string    `json:"time_zone"`
}

// PlaceSearch is the record kept for each successful place resolution.
type PlaceSearch struct {
	ID          int64      `json:"id,omitempty"`
	Query       string     `json:"query"`
	PlaceID     int64      `json:"place_id"`
	DisplayName string     `json:"display_name"`
	TimeZone    string     `json:"time_zone"`
	Location    Coordinate `json:"location"`
	SearchedAt  time.Time  `json:"searched_at"`
}
