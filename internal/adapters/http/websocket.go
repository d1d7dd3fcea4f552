package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"

	natsadapter "github.com/samirrijal/geotz/internal/adapters/nats"
	"github.com/samirrijal/geotz/internal/core/domain"
	"github.com/samirrijal/geotz/internal/pkg/metrics"
)

const (
	clockInterval = time.Second
	pingInterval  = 30 * time.Second
)

// clockMessage is sent from client to switch the streamed zone.
// Either time_zone or lat+lon must be set.
type clockMessage struct {
	TimeZone string `json:"time_zone"`
	Lat      string `json:"lat"`
	Lon      string `json:"lon"`
}

// clockTick is one frame of the clock stream.
type clockTick struct {
	TimeZone string `json:"time_zone"`
	TimeNow  string `json:"time_now"`
}

var errWSClosed = errors.New("websocket closed")

// messageWriter is the write side of *websocket.Conn.
type messageWriter interface {
	WriteMessage(messageType int, data []byte) error
}

// wsConn serialises writes from the ticker, reader and NATS goroutines.
// Once closed it drops every write, since the handler has handed the
// underlying conn back to the pool.
type wsConn struct {
	mu     sync.Mutex
	c      messageWriter
	closed bool
}

func (w *wsConn) write(messageType int, data []byte) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return errWSClosed
	}
	return w.c.WriteMessage(messageType, data)
}

func (w *wsConn) writeJSON(v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return w.write(websocket.TextMessage, data)
}

func (w *wsConn) ping() error {
	return w.write(websocket.PingMessage, nil)
}

// close waits out any write in progress and makes later writes no-ops.
func (w *wsConn) close() {
	w.mu.Lock()
	w.closed = true
	w.mu.Unlock()
}

// RequireUpgrade rejects plain HTTP requests on WebSocket routes.
func RequireUpgrade() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	}
}

// ClockHandler streams the current local time of a zone once per second.
// The zone comes from ?tz= or ?lat=&lon= and can be switched by sending
// {"time_zone":"Asia/Tokyo"} or {"lat":"35.68","lon":"139.69"}.
func ClockHandler(deps *Dependencies) func(*websocket.Conn) {
	return func(c *websocket.Conn) {
		defer c.Close()
		metrics.ActiveWebSockets.Inc()
		defer metrics.ActiveWebSockets.Dec()

		w := &wsConn{c: c}

		var locMu sync.Mutex
		loc, err := resolveClockZone(deps, clockMessage{
			TimeZone: c.Query("tz"),
			Lat:      c.Query("lat"),
			Lon:      c.Query("lon"),
		})
		if err != nil {
			_ = w.writeJSON(map[string]string{"error": err.Error()})
			return
		}

		var wg sync.WaitGroup
		done := make(chan struct{})
		defer func() {
			close(done)
			wg.Wait()
			w.close()
		}()

		wg.Add(1)
		go func() {
			defer wg.Done()
			ticker := time.NewTicker(clockInterval)
			defer ticker.Stop()
			for {
				locMu.Lock()
				current := loc
				locMu.Unlock()
				tick := clockTick{TimeZone: current.String(), TimeNow: time.Now().In(current).Format(time.RFC3339)}
				if err := w.writeJSON(tick); err != nil {
					return
				}
				select {
				case <-ticker.C:
				case <-done:
					return
				}
			}
		}()

		for {
			_, msg, err := c.ReadMessage()
			if err != nil {
				return
			}
			var m clockMessage
			if err := json.Unmarshal(msg, &m); err != nil {
				_ = w.writeJSON(map[string]string{"error": "invalid JSON"})
				continue
			}
			next, err := resolveClockZone(deps, m)
			if err != nil {
				_ = w.writeJSON(map[string]string{"error": err.Error()})
				continue
			}
			locMu.Lock()
			loc = next
			locMu.Unlock()
		}
	}
}

func resolveClockZone(deps *Dependencies, m clockMessage) (*time.Location, error) {
	name := m.TimeZone
	if name == "" {
		if m.Lat == "" && m.Lon == "" {
			name = "UTC"
		} else {
			tz, err := deps.Timezones.Resolve(m.Lat, m.Lon)
			if err != nil {
				return nil, err
			}
			name = tz
		}
	}
	return time.LoadLocation(name)
}

// SearchFeedHandler relays geotz.place.resolved events to the client as JSON.
func SearchFeedHandler(sub *natsadapter.Subscriber) func(*websocket.Conn) {
	return func(c *websocket.Conn) {
		defer c.Close()
		metrics.ActiveWebSockets.Inc()
		defer metrics.ActiveWebSockets.Dec()

		remoteAddr := c.RemoteAddr().String()
		slog.Info("ws search feed connected", "remote", remoteAddr)

		w := &wsConn{c: c}
		defer w.close()

		unsubscribe, err := sub.SubscribePlaceResolved(func(s *domain.PlaceSearch) {
			_ = w.writeJSON(s)
		})
		if err != nil {
			slog.Error("ws search feed subscribe failed", "error", err)
			_ = w.writeJSON(map[string]string{"error": "subscribe failed"})
			return
		}
		defer unsubscribe()

		// Keep-alive ping
		var wg sync.WaitGroup
		done := make(chan struct{})
		defer func() {
			close(done)
			wg.Wait()
		}()

		wg.Add(1)
		go func() {
			defer wg.Done()
			ticker := time.NewTicker(pingInterval)
			defer ticker.Stop()
			for {
				select {
				case <-ticker.C:
					if err := w.ping(); err != nil {
						return
					}
				case <-done:
					return
				}
			}
		}()

		// The feed is one-way; reading only detects the close.
		for {
			if _, _, err := c.ReadMessage(); err != nil {
				break
			}
		}
		slog.Info("ws search feed disconnected", "remote", remoteAddr)
	}
}
