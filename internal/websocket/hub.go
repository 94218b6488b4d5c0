package websocket

import (
	"log"
	"sync"
)

// Hub fans server events out to every connection subscribed to a room
// channel. Delivery is best-effort at-most-once: a slow or disconnected
// subscriber misses events, nothing is replayed.
type Hub struct {
	channels map[string]map[*Client]bool
	clients  map[*Client]bool
	mu       sync.RWMutex
	closed   bool
}

func NewHub() *Hub {
	return &Hub{
		channels: make(map[string]map[*Client]bool),
		clients:  make(map[*Client]bool),
	}
}

func (h *Hub) Register(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		client.Close()
		return
	}
	h.clients[client] = true
}

func (h *Hub) Unregister(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[client]; !ok {
		return
	}
	delete(h.clients, client)
	for channel, subs := range h.channels {
		if subs[client] {
			delete(subs, client)
			if len(subs) == 0 {
				delete(h.channels, channel)
			}
		}
	}
	client.Close()
}

func (h *Hub) Subscribe(client *Client, channel string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed || !h.clients[client] {
		return
	}
	subs, ok := h.channels[channel]
	if !ok {
		subs = make(map[*Client]bool)
		h.channels[channel] = subs
	}
	subs[client] = true
}

func (h *Hub) Unsubscribe(client *Client, channel string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	subs, ok := h.channels[channel]
	if !ok {
		return
	}
	delete(subs, client)
	if len(subs) == 0 {
		delete(h.channels, channel)
	}
}

// Publish sends an event to every subscriber of the channel. It never
// blocks: subscribers with a full send buffer are skipped.
func (h *Hub) Publish(channel string, msgType MessageType, payload interface{}) {
	msg, err := NewMessage(msgType, payload)
	if err != nil {
		log.Printf("ERROR [websocket.Hub] failed to build %s message: %v", msgType, err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for client := range h.channels[channel] {
		client.TrySend(msg)
	}
}

// SubscriberCount reports how many connections are on a channel.
func (h *Hub) SubscriberCount(channel string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.channels[channel])
}

// Close shuts the hub down and closes every connected client.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}
	h.closed = true
	for client := range h.clients {
		client.Close()
	}
	h.clients = make(map[*Client]bool)
	h.channels = make(map[string]map[*Client]bool)
}
