package natsadapter

import (
	"encoding/json"
	"log/slog"

	"github.com/nats-io/nats.go"

	"github.com/samirrijal/geotz/internal/core/domain"
)

// Subscriber fans out place.resolved events to in-process listeners.
// It uses a core subscription, so it sees live events only and never
// consumes from the stream.
type Subscriber struct {
	conn *nats.Conn
}

// NewSubscriber wraps an existing connection.
func NewSubscriber(conn *nats.Conn) *Subscriber {
	return &Subscriber{conn: conn}
}

// SubscribePlaceResolved calls handler for every event until the returned
// function is called. Undecodable messages are dropped.
func (s *Subscriber) SubscribePlaceResolved(handler func(*domain.PlaceSearch)) (func(), error) {
	sub, err := s.conn.Subscribe(SubjectPlaceResolved, func(msg *nats.Msg) {
		var search domain.PlaceSearch
		if err := json.Unmarshal(msg.Data, &search); err != nil {
			slog.Warn("dropping undecodable place event", "error", err)
			return
		}
		handler(&search)
	})
	if err != nil {
		return nil, err
	}
	return func() { _ = sub.Unsubscribe() }, nil
}
