// Package ws streams conversation messages to websocket clients.
package ws

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/atomic"
	"go.uber.org/zap"

	"github.com/C-1995-O1-HALE-POPP/ris-system/domain/core/entities"
)

const (
	sendBuffer   = 256
	pingInterval = 30 * time.Second
	pongWait     = 60 * time.Second
	writeWait    = 10 * time.Second
	maxReadSize  = 512
)

// Gauge receives the connected client count
type Gauge interface {
	SetWSClients(n int)
}

// Source is a message stream the hub can follow
type Source interface {
	Subscribe(fn func(entities.Message)) func()
}

// Event is the frame written to clients
type Event struct {
	Type string      `json:"type"`
	Data interface{} `json:"data,omitempty"`
	Time int64       `json:"time"`
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Client is one websocket connection
type Client struct {
	ID   string
	conn *websocket.Conn
	send chan []byte
	hub  *Hub

	mu     sync.Mutex
	closed bool
}

// Hub fans conversation messages out to every connected client
type Hub struct {
	clients    map[string]*Client
	register   chan *Client
	unregister chan *Client
	broadcast  chan Event
	done       chan struct{}
	count      atomic.Int64
	gauge      Gauge
	logger     *zap.Logger
	wg         sync.WaitGroup
}

// NewHub creates a hub. gauge may be nil.
func NewHub(gauge Gauge, logger *zap.Logger) *Hub {
	return &Hub{
		clients:    make(map[string]*Client),
		register:   make(chan *Client),
		unregister: make(chan *Client, 16),
		broadcast:  make(chan Event, 1000),
		done:       make(chan struct{}),
		gauge:      gauge,
		logger:     logger,
	}
}

// Follow forwards every message appended to src. The returned func stops it.
func (h *Hub) Follow(src Source) func() {
	return src.Subscribe(func(msg entities.Message) {
		h.Broadcast(Event{Type: "message", Data: msg})
	})
}

// Run processes registrations and broadcasts until ctx is done, then
// disconnects every client and waits for their pumps to exit.
func (h *Hub) Run(ctx context.Context) {
	defer func() {
		close(h.done)
		for id, c := range h.clients {
			delete(h.clients, id)
			close(c.send)
		}
		h.setCount(0)
		h.wg.Wait()
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case c := <-h.register:
			h.clients[c.ID] = c
			h.setCount(len(h.clients))
			h.wg.Add(2)
			go c.writePump()
			go c.readPump()
			h.logger.Debug("Websocket client connected", zap.String("client_id", c.ID), zap.Int("total", len(h.clients)))
		case c := <-h.unregister:
			if _, ok := h.clients[c.ID]; ok {
				delete(h.clients, c.ID)
				close(c.send)
				h.setCount(len(h.clients))
				h.logger.Debug("Websocket client disconnected", zap.String("client_id", c.ID), zap.Int("total", len(h.clients)))
			}
		case ev := <-h.broadcast:
			h.fanOut(ev)
		}
	}
}

func (h *Hub) setCount(n int) {
	h.count.Store(int64(n))
	if h.gauge != nil {
		h.gauge.SetWSClients(n)
	}
}

func (h *Hub) fanOut(ev Event) {
	data, err := json.Marshal(ev)
	if err != nil {
		h.logger.Error("Failed to marshal websocket event", zap.Error(err))
		return
	}
	for _, c := range h.clients {
		select {
		case c.send <- data:
		default:
			h.logger.Warn("Websocket client buffer full, dropping event", zap.String("client_id", c.ID))
		}
	}
}

// Broadcast queues ev for every client. Dropped when the queue is full.
func (h *Hub) Broadcast(ev Event) {
	if ev.Time == 0 {
		ev.Time = time.Now().Unix()
	}
	select {
	case h.broadcast <- ev:
	default:
		h.logger.Warn("Websocket broadcast queue full, dropping event", zap.String("type", ev.Type))
	}
}

// ClientCount returns the number of connected clients
func (h *Hub) ClientCount() int {
	return int(h.count.Load())
}

// ServeHTTP upgrades the request and attaches the connection to the hub
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("Websocket upgrade failed", zap.Error(err))
		return
	}

	c := &Client{
		ID:   uuid.NewString(),
		conn: conn,
		send: make(chan []byte, sendBuffer),
		hub:  h,
	}
	hello, _ := json.Marshal(Event{Type: "connected", Data: map[string]string{"id": c.ID}, Time: time.Now().Unix()})
	c.send <- hello

	select {
	case h.register <- c:
	case <-h.done:
		conn.Close()
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingInterval)
	defer func() {
		ticker.Stop()
		c.Close()
		c.hub.wg.Done()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				c.hub.logger.Debug("Websocket write failed", zap.String("client_id", c.ID), zap.Error(err))
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// readPump drains client frames so pongs and close frames are seen
func (c *Client) readPump() {
	defer func() {
		select {
		case c.hub.unregister <- c:
		case <-c.hub.done:
		}
		c.Close()
		c.hub.wg.Done()
	}()

	c.conn.SetReadLimit(maxReadSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.hub.logger.Debug("Websocket closed unexpectedly", zap.String("client_id", c.ID), zap.Error(err))
			}
			return
		}
	}
}

// Close closes the underlying connection once
func (c *Client) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	c.conn.Close()
}
