package main

import (
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"
)

// Event names understood by the preview script.
const (
	eventUpdate = "update"
	eventLine   = "line"
)

// clientBuffer is the number of events queued per stream before new
// events are dropped for that stream.
const clientBuffer = 16

// keepAliveInterval spaces comment frames on idle streams.
const keepAliveInterval = 15 * time.Second

// sseEvent is one server-sent event.
type sseEvent struct {
	name string
	data string
}

// write formats e as an event-stream frame.
func (e sseEvent) write(w http.ResponseWriter) error {
	var b strings.Builder
	b.WriteString("event: " + e.name + "\n")
	for _, line := range strings.Split(e.data, "\n") {
		b.WriteString("data: " + line + "\n")
	}
	b.WriteString("\n")
	_, err := fmt.Fprint(w, b.String())
	return err
}

// eventHub fans events out to the streams open for a preview resource.
type eventHub struct {
	mu      sync.Mutex
	streams map[string]map[chan sseEvent]struct{}
	closed  bool
}

func newEventHub() *eventHub {
	return &eventHub{streams: make(map[string]map[chan sseEvent]struct{})}
}

// subscribe opens a stream for key. The returned function closes it; the
// channel is also closed when the hub shuts down.
func (h *eventHub) subscribe(key string) (<-chan sseEvent, func()) {
	ch := make(chan sseEvent, clientBuffer)

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		close(ch)
		return ch, func() {}
	}
	if h.streams[key] == nil {
		h.streams[key] = make(map[chan sseEvent]struct{})
	}
	h.streams[key][ch] = struct{}{}

	return ch, func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		if _, ok := h.streams[key][ch]; !ok {
			return
		}
		delete(h.streams[key], ch)
		if len(h.streams[key]) == 0 {
			delete(h.streams, key)
		}
		close(ch)
	}
}

// publish queues e on every stream for key and returns how many received
// it. Full streams miss the event.
func (h *eventHub) publish(key string, e sseEvent) int {
	h.mu.Lock()
	defer h.mu.Unlock()

	n := 0
	for ch := range h.streams[key] {
		select {
		case ch <- e:
			n++
		default:
		}
	}
	return n
}

// count returns the number of open streams for key.
func (h *eventHub) count(key string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.streams[key])
}

// close ends every stream. Later subscriptions are closed immediately.
func (h *eventHub) close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closed = true
	for key, set := range h.streams {
		for ch := range set {
			close(ch)
		}
		delete(h.streams, key)
	}
}

// serveEvents streams the events of the preview named by the uri query
// parameter until the client goes away or the hub closes.
func (h *eventHub) serveEvents(w http.ResponseWriter, r *http.Request) {
	key := r.URL.Query().Get("uri")
	if key == "" {
		http.Error(w, "missing uri", http.StatusBadRequest)
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")

	events, cancel := h.subscribe(key)
	defer cancel()

	fmt.Fprint(w, ": connected\n\n")
	flusher.Flush()

	ticker := time.NewTicker(keepAliveInterval)
	defer ticker.Stop()

	for {
		select {
		case e, ok := <-events:
			if !ok {
				return
			}
			if err := e.write(w); err != nil {
				return
			}
			flusher.Flush()
		case <-ticker.C:
			if _, err := fmt.Fprint(w, ": keepalive\n\n"); err != nil {
				return
			}
			flusher.Flush()
		case <-r.Context().Done():
			return
		}
	}
}
