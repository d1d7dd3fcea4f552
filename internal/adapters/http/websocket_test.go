package http

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/websocket/v2"
)

type recordingWriter struct {
	mu      sync.Mutex
	frames  [][]byte
	entered chan struct{}
	release chan struct{}
}

func (r *recordingWriter) WriteMessage(_ int, data []byte) error {
	if r.entered != nil {
		r.entered <- struct{}{}
		<-r.release
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.frames = append(r.frames, data)
	return nil
}

func (r *recordingWriter) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.frames)
}

func TestWSConn_DropsWritesAfterClose(t *testing.T) {
	rw := &recordingWriter{}
	w := &wsConn{c: rw}

	if err := w.writeJSON(map[string]string{"time_zone": "Europe/Paris"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	w.close()

	if err := w.writeJSON(map[string]string{"time_zone": "Asia/Tokyo"}); !errors.Is(err, errWSClosed) {
		t.Errorf("expected errWSClosed, got %v", err)
	}
	if err := w.ping(); !errors.Is(err, errWSClosed) {
		t.Errorf("expected errWSClosed from ping, got %v", err)
	}
	if rw.count() != 1 {
		t.Errorf("expected 1 frame on the wire, got %d", rw.count())
	}
}

func TestWSConn_CloseWaitsForInflightWrite(t *testing.T) {
	rw := &recordingWriter{entered: make(chan struct{}), release: make(chan struct{})}
	w := &wsConn{c: rw}

	writeDone := make(chan error, 1)
	go func() { writeDone <- w.write(websocket.TextMessage, []byte("tick")) }()
	<-rw.entered

	closed := make(chan struct{})
	go func() {
		w.close()
		close(closed)
	}()

	select {
	case <-closed:
		t.Fatal("close returned while a write was still in progress")
	case <-time.After(50 * time.Millisecond):
	}

	close(rw.release)
	if err := <-writeDone; err != nil {
		t.Errorf("in-flight write failed: %v", err)
	}
	select {
	case <-closed:
	case <-time.After(time.Second):
		t.Fatal("close did not return after the write finished")
	}
	if err := w.write(websocket.TextMessage, []byte("late")); !errors.Is(err, errWSClosed) {
		t.Errorf("expected errWSClosed, got %v", err)
	}
}

func TestWSConn_ConcurrentWritersAndClose(t *testing.T) {
	rw := &recordingWriter{}
	w := &wsConn{c: rw}

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				_ = w.writeJSON(j)
			}
		}()
	}
	w.close()
	n := rw.count()
	wg.Wait()

	if rw.count() != n {
		t.Errorf("frames written after close: before=%d after=%d", n, rw.count())
	}
}
