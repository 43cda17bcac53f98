// Package hub owns the set of connected chart clients and fans samples out
// to them. The simulation thread only ever enqueues through Broadcast; all
// connection state is mutated on the hub's side of the fence.
package hub

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/san-kum/mdwatch/internal/sample"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512

	// Outbound queue per client. A client that falls this far behind is
	// dropped rather than allowed to stall the stream.
	sendBuffer = 64
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// The reporter serves a local tool, not a public site.
	CheckOrigin: func(*http.Request) bool { return true },
}

type client struct {
	conn *websocket.Conn
	send chan []byte
}

// Hub broadcasts serialized samples to every connected client. Delivery is
// fire-and-forget: no client, no retry, no catch-up for late joiners.
type Hub struct {
	mu      sync.Mutex
	clients map[*client]struct{}
	hello   []byte
}

func New() *Hub {
	return &Hub{clients: make(map[*client]struct{})}
}

// SetHello sets the series message every client receives first on connect,
// mapping canonical observable names to display labels. Call before serving.
func (h *Hub) SetHello(labels map[string]string) {
	data, err := json.Marshal(sample.Hello{Series: labels})
	if err != nil {
		log.Printf("hub: marshal hello: %v", err)
		return
	}
	h.mu.Lock()
	h.hello = data
	h.mu.Unlock()
}

// ClientCount returns the number of currently connected clients.
func (h *Hub) ClientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Broadcast serializes the sample once and enqueues it to every connected
// client in production order. With zero clients it is a no-op. It never
// blocks the caller: a client whose queue is full is dropped.
func (h *Hub) Broadcast(s sample.Sample) {
	h.mu.Lock()
	if len(h.clients) == 0 {
		h.mu.Unlock()
		return
	}
	h.mu.Unlock()

	data, err := json.Marshal(s)
	if err != nil {
		log.Printf("hub: marshal sample at step %d: %v", s.Step, err)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		select {
		case c.send <- data:
		default:
			log.Printf("hub: dropping slow client %s", c.conn.RemoteAddr())
			h.removeLocked(c)
		}
	}
}

// ServeWS upgrades the request to a websocket connection and registers it
// with the hub.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("hub: upgrade: %v", err)
		return
	}

	c := &client{conn: conn, send: make(chan []byte, sendBuffer)}

	h.mu.Lock()
	if h.hello != nil {
		// Enqueued before registration so it precedes any broadcast.
		c.send <- h.hello
	}
	h.clients[c] = struct{}{}
	h.mu.Unlock()

	log.Printf("hub: client connected from %s", conn.RemoteAddr())

	go c.writePump()
	go h.readPump(c)
}

// Close disconnects every client.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		h.removeLocked(c)
	}
}

func (h *Hub) remove(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.removeLocked(c)
}

func (h *Hub) removeLocked(c *client) {
	if _, ok := h.clients[c]; !ok {
		return
	}
	delete(h.clients, c)
	close(c.send)
	c.conn.Close()
}

// readPump discards inbound frames; its job is detecting connection close
// and keeping the pong deadline fresh.
func (h *Hub) readPump(c *client) {
	defer h.remove(c)

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("hub: client %s: %v", c.conn.RemoteAddr(), err)
			}
			return
		}
	}
}

// writePump drains the send queue in FIFO order and keeps the connection
// alive with pings.
func (c *client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case data, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
