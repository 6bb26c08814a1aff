package ws

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
	sendBuffer     = 16
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// Client is a single live websocket connection for one user.
type Client struct {
	hub    *Hub
	conn   *websocket.Conn
	userID uint
	send   chan Event

	closeOnce sync.Once
}

// inboundFrame is what clients may push over the socket: chat subscription
// changes and ephemeral typing/seen signals.
type inboundFrame struct {
	Event  string `json:"event"`
	ChatID string `json:"chat_id"`
	Data   any    `json:"data,omitempty"`
}

// ServeWS upgrades the request and runs the client pumps until disconnect.
// The caller has already resolved the user identity.
func ServeWS(hub *Hub, w http.ResponseWriter, r *http.Request, userID uint) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Error("websocket upgrade failed", "error", err)
		return
	}

	client := &Client{
		hub:    hub,
		conn:   conn,
		userID: userID,
		send:   make(chan Event, sendBuffer),
	}
	hub.Register(client)

	go client.writePump()
	client.readPump()
}

func (c *Client) closeSend() {
	c.closeOnce.Do(func() { close(c.send) })
}

// trySend queues the event without blocking. Returns false when the buffer is
// full, which marks the client as dead for the caller to prune.
func (c *Client) trySend(event Event) bool {
	select {
	case c.send <- event:
		return true
	default:
		c.closeSend()
		return false
	}
}

func (c *Client) readPump() {
	defer func() {
		c.hub.Unregister(c)
		c.conn.Close()
	}()
	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			return
		}
		var frame inboundFrame
		if err := json.Unmarshal(data, &frame); err != nil {
			continue
		}
		c.route(frame)
	}
}

func (c *Client) route(frame inboundFrame) {
	switch frame.Event {
	case "join":
		if frame.ChatID != "" {
			c.hub.JoinChat(c.userID, frame.ChatID)
		}
	case "leave":
		if frame.ChatID != "" {
			c.hub.LeaveChat(c.userID, frame.ChatID)
		}
	case EventTyping, EventSeen:
		if frame.ChatID != "" {
			c.hub.BroadcastToChatExcept(frame.ChatID, c.userID, Event{
				Event:  frame.Event,
				ChatID: frame.ChatID,
				Data:   map[string]any{"user_id": c.userID},
			})
		}
	default:
		slog.Debug("unhandled websocket frame", "event", frame.Event, "user_id", c.userID)
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case event, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteJSON(event); err != nil {
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
