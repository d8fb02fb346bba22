package hub

import (
	"sync"

	"github.com/gorilla/websocket"
)

const clientBufferSize = 32

type envelope struct {
	topic string
	data  []byte
}

// Client is one websocket subscriber. An empty topic set means every topic.
type Client struct {
	conn   *websocket.Conn
	topics map[string]struct{}
	send   chan []byte
	done   chan struct{}
	once   sync.Once
}

func (c *Client) wants(topic string) bool {
	if len(c.topics) == 0 {
		return true
	}
	_, ok := c.topics[topic]
	return ok
}

func (c *Client) close() {
	c.once.Do(func() {
		close(c.done)
		_ = c.conn.Close()
	})
}

// Hub fans published events out to connected displays. Slow clients lose
// messages instead of stalling the hub.
type Hub struct {
	mu         sync.RWMutex
	clients    map[*Client]struct{}
	broadcast  chan envelope
	register   chan *Client
	unregister chan *Client
	done       chan struct{}
	stopOnce   sync.Once
}

func New() *Hub {
	return &Hub{
		clients:    make(map[*Client]struct{}),
		broadcast:  make(chan envelope, 256),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
	}
}

func (h *Hub) Run() {
	for {
		select {
		case c := <-h.register:
			h.mu.Lock()
			h.clients[c] = struct{}{}
			h.mu.Unlock()

		case c := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[c]; ok {
				delete(h.clients, c)
				c.close()
			}
			h.mu.Unlock()

		case ev := <-h.broadcast:
			h.mu.RLock()
			for c := range h.clients {
				if !c.wants(ev.topic) {
					continue
				}
				select {
				case c.send <- ev.data:
				default:
				}
			}
			h.mu.RUnlock()

		case <-h.done:
			h.mu.Lock()
			for c := range h.clients {
				c.close()
			}
			h.clients = make(map[*Client]struct{})
			h.mu.Unlock()
			return
		}
	}
}

// Broadcast never blocks; when the hub is saturated the event is dropped.
func (h *Hub) Broadcast(topic string, data []byte) {
	select {
	case h.broadcast <- envelope{topic: topic, data: data}:
	default:
	}
}

func (h *Hub) Register(conn *websocket.Conn, topics []string) *Client {
	c := &Client{
		conn:   conn,
		topics: make(map[string]struct{}, len(topics)),
		send:   make(chan []byte, clientBufferSize),
		done:   make(chan struct{}),
	}
	for _, t := range topics {
		if t != "" {
			c.topics[t] = struct{}{}
		}
	}
	select {
	case h.register <- c:
	case <-h.done:
		c.close()
	}
	return c
}

func (h *Hub) Unregister(c *Client) {
	select {
	case h.unregister <- c:
	case <-h.done:
	}
}

func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

func (h *Hub) Stop() {
	h.stopOnce.Do(func() { close(h.done) })
}
