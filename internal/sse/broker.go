// Package sse implements the Server-Sent Events broker backing the content
// store's listen endpoint.
package sse

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync/atomic"

	"github.com/starford/larder/internal/models"
)

// Event represents an SSE event to broadcast.
type Event struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

// Broker manages SSE client connections and broadcasts events.
//
// Concurrency model: a single internal event loop (goroutine) owns the
// client set. Public methods communicate with this loop through channels, so
// no mutexes are required.
type Broker struct {
	subscribeCh   chan chan []byte
	unsubscribeCh chan chan []byte
	publishCh     chan Event
	countReqCh    chan chan int

	stopCh  chan struct{}
	stopped chan struct{}
	closed  atomic.Bool
}

// NewBroker creates a new SSE broker and starts its event loop.
func NewBroker() *Broker {
	b := &Broker{
		subscribeCh:   make(chan chan []byte),
		unsubscribeCh: make(chan chan []byte),
		publishCh:     make(chan Event, 256),
		countReqCh:    make(chan chan int),
		stopCh:        make(chan struct{}),
		stopped:       make(chan struct{}),
	}
	go b.run()
	return b
}

func (b *Broker) run() {
	defer close(b.stopped)

	clients := make(map[chan []byte]struct{})

	broadcast := func(event Event) {
		payload, err := json.Marshal(event.Data)
		if err != nil {
			return
		}
		raw := []byte(fmt.Sprintf("event: %s\ndata: %s\n\n", event.Type, payload))
		for ch := range clients {
			select {
			case ch <- raw:
			default:
				// Client buffer full; skip to avoid blocking the loop.
			}
		}
	}

	for {
		select {
		case <-b.stopCh:
			for ch := range clients {
				close(ch)
			}
			return

		case ch := <-b.subscribeCh:
			clients[ch] = struct{}{}

		case ch := <-b.unsubscribeCh:
			if _, ok := clients[ch]; ok {
				delete(clients, ch)
				close(ch)
			}

		case ev := <-b.publishCh:
			broadcast(ev)

		case reply := <-b.countReqCh:
			reply <- len(clients)
		}
	}
}

// Publish broadcasts an event to all connected clients.
func (b *Broker) Publish(ev Event) {
	if b.closed.Load() {
		return
	}
	select {
	case b.publishCh <- ev:
	case <-b.stopCh:
	}
}

// PublishDocumentEvent broadcasts a corpus document change.
// kind is one of "created", "updated", "deleted".
func (b *Broker) PublishDocumentEvent(kind, path string) {
	b.Publish(Event{Type: "document", Data: map[string]string{
		"kind": kind,
		"path": path,
	}})
}

// PublishMutation broadcasts a visibility mutation committed through the
// store's write surface.
func (b *Broker) PublishMutation(id, transactionID string, vis models.Visibility) {
	b.Publish(Event{Type: "mutation", Data: map[string]any{
		"id":            id,
		"transactionId": transactionID,
		"visibility":    vis,
	}})
}

// ClientCount returns the number of connected clients.
func (b *Broker) ClientCount() int {
	if b.closed.Load() {
		return 0
	}
	reply := make(chan int, 1)
	select {
	case b.countReqCh <- reply:
		return <-reply
	case <-b.stopCh:
		return 0
	}
}

// Stop shuts the broker down and disconnects every client.
func (b *Broker) Stop() {
	if b.closed.CompareAndSwap(false, true) {
		close(b.stopCh)
		<-b.stopped
	}
}

// ServeHTTP streams events to one client until it disconnects or the broker
// stops.
func (b *Broker) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}
	if b.closed.Load() {
		http.Error(w, "shutting down", http.StatusServiceUnavailable)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ch := make(chan []byte, 16)
	select {
	case b.subscribeCh <- ch:
	case <-b.stopCh:
		http.Error(w, "shutting down", http.StatusServiceUnavailable)
		return
	}
	defer func() {
		select {
		case b.unsubscribeCh <- ch:
		case <-b.stopCh:
		}
	}()

	// Initial comment so clients know the stream is live.
	fmt.Fprint(w, ": connected\n\n")
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			if _, err := w.Write(msg); err != nil {
				return
			}
			flusher.Flush()
		}
	}
}
