package http

import (
	"time"

	"github.com/nats-io/nats.go"

	natsadapter "github.com/samirrijal/geotz/internal/adapters/nats"
	"github.com/samirrijal/geotz/internal/adapters/postgres"
	"github.com/samirrijal/geotz/internal/adapters/tzindex"
	"github.com/samirrijal/geotz/internal/adapters/valkey"
	"github.com/samirrijal/geotz/internal/core/usecases"
)

// Dependencies holds all services needed by HTTP handlers.
// Optional backends (NATS, DB, Cache) are nil when disabled.
type Dependencies struct {
	Timezones *usecases.TimezoneService
	Places    *usecases.PlaceService
	Searches  *usecases.SearchHistoryService
	Index     *tzindex.Index
	Events    *natsadapter.Subscriber
	NATS      *nats.Conn
	DB        *postgres.DB
	Cache     *valkey.Cache

	// RequestTimeout bounds each API request; zero means 15s.
	RequestTimeout time.Duration
	// RateLimit is requests per minute per IP; zero disables limiting.
	RateLimit int
}
