package ui

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/commitfit/internal/render"
)

const clientBuffer = 64

// RegionEvent is pushed to browsers whenever a region changes.
type RegionEvent struct {
	ID   string `json:"id"`
	HTML string `json:"html"`
}

// Subscriber is one connected event stream
type Subscriber struct {
	messages chan string
}

// Hub fans region changes out to every connected event stream.
type Hub struct {
	mu      sync.RWMutex
	clients map[*Subscriber]struct{}
}

// NewHub creates a hub with no clients.
func NewHub() *Hub {
	return &Hub{clients: make(map[*Subscriber]struct{})}
}

// Subscribe registers a new client.
func (h *Hub) Subscribe() *Subscriber {
	c := &Subscriber{messages: make(chan string, clientBuffer)}
	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()
	return c
}

// Unsubscribe removes a client and closes its channel. Safe to call twice.
func (h *Hub) Unsubscribe(c *Subscriber) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.messages)
	}
}

// Clients returns the number of connected clients.
func (h *Hub) Clients() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Publish renders f and sends it to every client. It never blocks: a client
// whose buffer is full is dropped and must reconnect.
func (h *Hub) Publish(id string, f render.Fragment) {
	msg, err := regionMessage(id, f)
	if err != nil {
		log.Error().Err(err).Str("region", id).Msg("Failed to render region event")
		return
	}

	h.mu.RLock()
	var stalled []*Subscriber
	for c := range h.clients {
		select {
		case c.messages <- msg:
		default:
			stalled = append(stalled, c)
		}
	}
	h.mu.RUnlock()

	for _, c := range stalled {
		log.Warn().Str("region", id).Msg("Dropping stalled event stream client")
		h.Unsubscribe(c)
	}
}

func regionMessage(id string, f render.Fragment) (string, error) {
	html, err := render.HTML(f)
	if err != nil {
		return "", err
	}

	data, err := json.Marshal(RegionEvent{ID: id, HTML: string(html)})
	if err != nil {
		return "", err
	}

	return fmt.Sprintf("event: region\ndata: %s\n\n", data), nil
}
