package ws

import (
	"log/slog"
	"sync"
)

// Event is the envelope carried over the live channel.
type Event struct {
	Event  string `json:"event"`
	ChatID string `json:"chat_id,omitempty"`
	Data   any    `json:"data,omitempty"`
}

// Event kinds emitted by the server.
const (
	EventNewMessage      = "new_message"
	EventMessageEdited   = "message_edited"
	EventMessageDeleted  = "message_deleted"
	EventMessageUnsent   = "message_unsent"
	EventReaction        = "reaction"
	EventReactionRemoved = "reaction_removed"
	EventTyping          = "typing"
	EventSeen            = "seen"
	EventNotification    = "notification"
	EventNewChat         = "new_chat"
)

// Hub is the in-process connection registry: one live connection per user
// (a newer connection silently replaces an older one) and a subscriber set
// per chat. It is a volatile presence cache, not a delivery guarantee;
// clients re-sync from the message listings after reconnect.
type Hub struct {
	mu sync.Mutex

	conns    map[uint]*Client
	chatSubs map[string]map[uint]bool
}

func NewHub() *Hub {
	return &Hub{
		conns:    make(map[uint]*Client),
		chatSubs: make(map[string]map[uint]bool),
	}
}

// Register installs the client as the user's live connection, displacing any
// previous one.
func (h *Hub) Register(client *Client) {
	h.mu.Lock()
	old := h.conns[client.userID]
	h.conns[client.userID] = client
	h.mu.Unlock()

	if old != nil {
		old.closeSend()
		slog.Debug("replaced live connection", "user_id", client.userID)
	}
}

// Unregister removes the client if it is still the user's current connection.
// Subscriber sets are left alone; stale entries are skipped on the next
// broadcast because the live connection is gone.
func (h *Hub) Unregister(client *Client) {
	h.mu.Lock()
	if h.conns[client.userID] == client {
		delete(h.conns, client.userID)
	}
	h.mu.Unlock()
	client.closeSend()
}

func (h *Hub) JoinChat(userID uint, chatID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.chatSubs[chatID] == nil {
		h.chatSubs[chatID] = make(map[uint]bool)
	}
	h.chatSubs[chatID][userID] = true
}

func (h *Hub) LeaveChat(userID uint, chatID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if subs, ok := h.chatSubs[chatID]; ok {
		delete(subs, userID)
		if len(subs) == 0 {
			delete(h.chatSubs, chatID)
		}
	}
}

// BroadcastToChat delivers the event to every subscriber with a live
// connection. Best-effort, at-most-once: offline subscribers are skipped and
// a full send buffer drops the client rather than stalling the caller.
func (h *Hub) BroadcastToChat(chatID string, event Event) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for userID := range h.chatSubs[chatID] {
		client, ok := h.conns[userID]
		if !ok {
			continue
		}
		if !client.trySend(event) {
			delete(h.conns, userID)
		}
	}
}

// BroadcastToChatExcept behaves like BroadcastToChat but skips one user,
// typically the originator of a typing or seen event.
func (h *Hub) BroadcastToChatExcept(chatID string, except uint, event Event) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for userID := range h.chatSubs[chatID] {
		if userID == except {
			continue
		}
		client, ok := h.conns[userID]
		if !ok {
			continue
		}
		if !client.trySend(event) {
			delete(h.conns, userID)
		}
	}
}

// SendToUser delivers directly to the user's live connection; a no-op when
// there is none.
func (h *Hub) SendToUser(userID uint, event Event) {
	h.mu.Lock()
	defer h.mu.Unlock()
	client, ok := h.conns[userID]
	if !ok {
		return
	}
	if !client.trySend(event) {
		delete(h.conns, userID)
	}
}

// IsOnline reports whether the user currently has a live connection.
func (h *Hub) IsOnline(userID uint) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	_, ok := h.conns[userID]
	return ok
}
