/*
Package api
File: hub.go
Description:
    The WebSocket Hub is the push side of the local API.

    It keeps a registry of connected clients and fans out every message
    published to it. The game server publishes the new log lines after each
    command, so a client only needs the socket to follow the story and
    can use the REST endpoints for commands and full snapshots.

    Architecture:
    - Hub: owns the client registry; only Run touches it.
    - Client: one browser/terminal connection with a buffered send queue.
    - ServeWs: upgrades a GET request to a WebSocket.
*/

package api

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
)

// Message defines the standard JSON envelope for all real-time communication.
type Message struct {
	Type    string `json:"type"`    // Event type: "log", "restart"
	Payload any    `json:"payload"` // The actual data
	Sender  string `json:"sender"`  // Run id of the game that produced it
}

// LogPayload carries log lines starting at index From.
type LogPayload struct {
	From  int      `json:"from"`
	Lines []string `json:"lines"`
}

const (
	writeWait      = 10 * time.Second
	sendBufferSize = 256
)

// Client represents a single connected viewer.
type Client struct {
	hub  *Hub
	conn *websocket.Conn
	send chan []byte // Buffered channel for outbound messages
}

// Hub maintains the set of active clients and broadcasts messages to them.
type Hub struct {
	clients    map[*Client]bool
	broadcast  chan []byte
	register   chan *Client
	unregister chan *Client
	done       chan struct{} // Closed when Run returns
	logger     *slog.Logger
}

// NewHub creates a Hub. It does nothing until Run is started.
func NewHub(logger *slog.Logger) *Hub {
	if logger == nil {
		logger = slog.Default()
	}
	return &Hub{
		clients:    make(map[*Client]bool),
		broadcast:  make(chan []byte, sendBufferSize),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
		logger:     logger,
	}
}

// Run is the event loop of the Hub. It blocks until ctx is cancelled,
// then disconnects every client.
func (h *Hub) Run(ctx context.Context) error {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			for client := range h.clients {
				h.drop(client)
			}
			return nil

		case client := <-h.register:
			h.clients[client] = true
			h.logger.Debug("ws client connected", slog.Int("clients", len(h.clients)))

		case client := <-h.unregister:
			if h.clients[client] {
				h.drop(client)
			}

		case message := <-h.broadcast:
			for client := range h.clients {
				select {
				case client.send <- message:
				default:
					// Send buffer full: the client is stuck or gone.
					h.drop(client)
				}
			}
		}
	}
}

func (h *Hub) drop(c *Client) {
	delete(h.clients, c)
	close(c.send)
}

// Publish wraps payload in a Message and queues it for every client.
// It never blocks the caller: once the hub is stopped, or when the queue is
// full, the message is discarded.
func (h *Hub) Publish(msgType string, payload any, sender string) {
	data, err := json.Marshal(Message{Type: msgType, Payload: payload, Sender: sender})
	if err != nil {
		h.logger.Error("ws marshal", slog.String("type", msgType), slog.Any("error", err))
		return
	}
	select {
	case h.broadcast <- data:
	case <-h.done:
	default:
		h.logger.Warn("ws broadcast queue full, message dropped", slog.String("type", msgType))
	}
}

// upgrader configures the WebSocket handshake.
// CheckOrigin allows any host; the server is meant for local clients.
var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// ServeWs upgrades the request and attaches the connection to the Hub.
func (h *Hub) ServeWs(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("ws upgrade", slog.Any("error", err))
		return
	}

	client := &Client{hub: h, conn: conn, send: make(chan []byte, sendBufferSize)}
	select {
	case h.register <- client:
	case <-h.done:
		conn.Close()
		return
	}

	go client.writePump()
	go client.readPump()
}

// readPump only watches for the connection closing. Commands go through
// the REST endpoints, so inbound frames are discarded.
func (c *Client) readPump() {
	defer func() {
		select {
		case c.hub.unregister <- c:
		case <-c.hub.done:
		}
		c.conn.Close()
	}()
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.hub.logger.Debug("ws read", slog.Any("error", err))
			}
			return
		}
	}
}

// writePump drains the send queue into the socket. It exits when the
// queue is closed by the Hub.
func (c *Client) writePump() {
	defer c.conn.Close()

	for message := range c.send {
		c.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
			return
		}
	}
	c.conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(writeWait))
}
