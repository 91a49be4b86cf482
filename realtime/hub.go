// Package realtime streams order events to connected admin websockets.
package realtime

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/devahmid/27Degres-bis-sub001/events"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

var ErrHubClosed = errors.New("realtime hub is closed")

// Hub owns the subscriber set. Only the Run goroutine touches it; everything else
// talks to the hub through channels.
type Hub struct {
	register   chan *Client
	unregister chan *Client
	broadcast  chan []byte
	count      chan chan int
	done       chan struct{}
	logger     *zap.Logger
}

func NewHub(logger *zap.Logger) *Hub {
	return &Hub{
		register:   make(chan *Client),
		unregister: make(chan *Client, 64),
		broadcast:  make(chan []byte),
		count:      make(chan chan int),
		done:       make(chan struct{}),
		logger:     logger,
	}
}

// Run serves hub messages until ctx is cancelled, then disconnects every client.
func (h *Hub) Run(ctx context.Context) {
	clients := make(map[*Client]struct{})
	defer func() {
		for c := range clients {
			close(c.send)
		}
		close(h.done)
	}()

	drop := func(c *Client) {
		if _, ok := clients[c]; ok {
			delete(clients, c)
			close(c.send)
		}
	}

	for {
		select {
		case c := <-h.register:
			clients[c] = struct{}{}
			h.logger.Debug("Order feed subscriber joined", zap.Int("subscribers", len(clients)))

		case c := <-h.unregister:
			drop(c)

		case msg := <-h.broadcast:
			for c := range clients {
				select {
				case c.send <- msg:
				default:
					h.logger.Warn("Dropping slow order feed subscriber")
					drop(c)
				}
			}

		case reply := <-h.count:
			reply <- len(clients)

		case <-ctx.Done():
			return
		}
	}
}

// Publish implements events.Publisher by broadcasting the event as JSON. It returns
// ErrHubClosed once Run has returned. broadcast is unbuffered, so a send only
// succeeds while Run is receiving.
func (h *Hub) Publish(ctx context.Context, event events.OrderEvent) error {
	select {
	case <-h.done:
		return ErrHubClosed
	default:
	}

	data, err := json.Marshal(event)
	if err != nil {
		return err
	}
	select {
	case h.broadcast <- data:
		return nil
	case <-h.done:
		return ErrHubClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Count returns the number of connected subscribers, or 0 once the hub stopped.
func (h *Hub) Count() int {
	reply := make(chan int, 1)
	select {
	case h.count <- reply:
		return <-reply
	case <-h.done:
		return 0
	}
}

// Serve attaches an upgraded connection to the hub and blocks until it disconnects.
func (h *Hub) Serve(conn *websocket.Conn) {
	c := &Client{hub: h, conn: conn, send: make(chan []byte, 32)}
	select {
	case h.register <- c:
	case <-h.done:
		_ = conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "shutting down"))
		conn.Close()
		return
	}

	go c.writePump()
	c.readPump()
}

func (h *Hub) leave(c *Client) {
	select {
	case h.unregister <- c:
	case <-h.done:
	}
}
