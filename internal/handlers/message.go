package handlers

import (
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/UmbrellaLGBTQ/umbrella-backend/internal/apperr"
	"github.com/UmbrellaLGBTQ/umbrella-backend/internal/middleware"
	"github.com/UmbrellaLGBTQ/umbrella-backend/internal/models"
	"github.com/UmbrellaLGBTQ/umbrella-backend/internal/store"
	"github.com/UmbrellaLGBTQ/umbrella-backend/internal/ws"
)

type MessageHandler struct {
	Store store.Store
	Hub   *ws.Hub
}

// SendMessage POST /api/messages requires exactly one of chat_id and group_id.
func (h *MessageHandler) SendMessage(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ChatID      *uuid.UUID         `json:"chat_id,omitempty"`
		GroupID     *uuid.UUID         `json:"group_id,omitempty"`
		Content     *string            `json:"content,omitempty"`
		MediaURL    *string            `json:"media_url,omitempty"`
		MessageType models.MessageType `json:"message_type,omitempty"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	msg, err := h.Store.SendMessage(store.SendMessageParams{
		ChatID:      req.ChatID,
		GroupID:     req.GroupID,
		SenderID:    middleware.UserID(r),
		Content:     req.Content,
		MediaURL:    req.MediaURL,
		MessageType: req.MessageType,
	})
	if err != nil {
		writeErr(w, err)
		return
	}

	h.broadcast(msg, ws.EventNewMessage, msg)
	h.notifyRecipients(msg)
	writeJSON(w, http.StatusCreated, msg)
}

// GetMessages GET /api/messages?chat_id=|group_id=&search=&type=
func (h *MessageHandler) GetMessages(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := store.MessageFilter{
		SearchText: q.Get("search"),
		Type:       models.MessageType(q.Get("type")),
	}
	viewer := middleware.UserID(r)

	chatParam, groupParam := q.Get("chat_id"), q.Get("group_id")
	if (chatParam == "") == (groupParam == "") {
		writeErr(w, apperr.ErrBadMessageTarget)
		return
	}

	var (
		msgs []models.Message
		err  error
	)
	if chatParam != "" {
		chatID, parseErr := uuid.Parse(chatParam)
		if parseErr != nil {
			writeErr(w, apperr.InvalidArg("invalid chat id"))
			return
		}
		msgs, err = h.Store.GetChatMessages(chatID, viewer, filter)
	} else {
		groupID, parseErr := uuid.Parse(groupParam)
		if parseErr != nil {
			writeErr(w, apperr.InvalidArg("invalid group id"))
			return
		}
		msgs, err = h.Store.GetGroupMessages(groupID, viewer, filter)
	}
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, msgs)
}

// EditMessage PUT /api/messages/{id}
func (h *MessageHandler) EditMessage(w http.ResponseWriter, r *http.Request) {
	msgID, ok := messageID(w, r)
	if !ok {
		return
	}
	var req struct {
		Content string `json:"content"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	msg, err := h.Store.EditMessage(msgID, middleware.UserID(r), req.Content)
	if err != nil {
		writeErr(w, err)
		return
	}
	h.broadcast(msg, ws.EventMessageEdited, msg)
	writeJSON(w, http.StatusOK, msg)
}

// DeleteMessage DELETE /api/messages/{id}?for_everyone=true|false
func (h *MessageHandler) DeleteMessage(w http.ResponseWriter, r *http.Request) {
	msgID, ok := messageID(w, r)
	if !ok {
		return
	}
	actor := middleware.UserID(r)

	if r.URL.Query().Get("for_everyone") == "true" {
		msg, err := h.Store.DeleteMessageForAll(msgID, actor)
		if err != nil {
			writeErr(w, err)
			return
		}
		h.broadcast(msg, ws.EventMessageDeleted, map[string]any{"message_id": msgID})
		w.WriteHeader(http.StatusNoContent)
		return
	}

	if err := h.Store.DeleteMessageForUser(msgID, actor); err != nil {
		writeErr(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// UnsendMessage POST /api/messages/{id}/unsend
func (h *MessageHandler) UnsendMessage(w http.ResponseWriter, r *http.Request) {
	msgID, ok := messageID(w, r)
	if !ok {
		return
	}
	msg, err := h.Store.UnsendMessage(msgID, middleware.UserID(r))
	if err != nil {
		writeErr(w, err)
		return
	}
	h.broadcast(msg, ws.EventMessageUnsent, map[string]any{"message_id": msgID})
	writeJSON(w, http.StatusOK, msg)
}

// React POST /api/messages/{id}/react
func (h *MessageHandler) React(w http.ResponseWriter, r *http.Request) {
	msgID, ok := messageID(w, r)
	if !ok {
		return
	}
	var req struct {
		Emoji string `json:"emoji"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Emoji == "" {
		writeErr(w, apperr.InvalidArg("emoji is required"))
		return
	}

	reaction, err := h.Store.ReactToMessage(msgID, middleware.UserID(r), req.Emoji)
	if err != nil {
		writeErr(w, err)
		return
	}
	if msg, getErr := h.Store.GetMessage(msgID); getErr == nil {
		h.broadcast(msg, ws.EventReaction, reaction)
	}
	writeJSON(w, http.StatusOK, reaction)
}

// RemoveReaction DELETE /api/messages/{id}/react
func (h *MessageHandler) RemoveReaction(w http.ResponseWriter, r *http.Request) {
	msgID, ok := messageID(w, r)
	if !ok {
		return
	}
	actor := middleware.UserID(r)
	if err := h.Store.RemoveReaction(msgID, actor); err != nil {
		writeErr(w, err)
		return
	}
	if msg, getErr := h.Store.GetMessage(msgID); getErr == nil {
		h.broadcast(msg, ws.EventReactionRemoved, map[string]any{"message_id": msgID, "user_id": actor})
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListReactions GET /api/messages/{id}/reactions
func (h *MessageHandler) ListReactions(w http.ResponseWriter, r *http.Request) {
	msgID, ok := messageID(w, r)
	if !ok {
		return
	}
	reactions, err := h.Store.GetReactions(msgID)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, reactions)
}

// Forward POST /api/messages/{id}/forward
func (h *MessageHandler) Forward(w http.ResponseWriter, r *http.Request) {
	msgID, ok := messageID(w, r)
	if !ok {
		return
	}
	var req struct {
		ChatID  *uuid.UUID `json:"chat_id,omitempty"`
		GroupID *uuid.UUID `json:"group_id,omitempty"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	msg, err := h.Store.ForwardMessage(msgID, middleware.UserID(r), req.ChatID, req.GroupID)
	if err != nil {
		writeErr(w, err)
		return
	}
	h.broadcast(msg, ws.EventNewMessage, msg)
	h.notifyRecipients(msg)
	writeJSON(w, http.StatusCreated, msg)
}

// notifyRecipients pushes a per-user notification event to each counterpart
// of a freshly written message. The chat-room broadcast only reaches sockets
// that joined the room; this reaches every online recipient.
func (h *MessageHandler) notifyRecipients(msg *models.Message) {
	recipients, err := h.Store.MessageRecipients(msg)
	if err != nil {
		slog.Error("resolve message recipients", "message_id", msg.ID, "error", err)
		return
	}
	var chatID string
	if msg.ChatID != nil {
		chatID = msg.ChatID.String()
	} else if msg.GroupID != nil {
		chatID = msg.GroupID.String()
	}
	for _, uid := range recipients {
		h.Hub.SendToUser(uid, ws.Event{Event: ws.EventNotification, ChatID: chatID, Data: msg})
	}
}

// broadcast fans the event out to the message's chat or group subscribers.
// Delivery failures stay in the realtime layer and never surface here.
func (h *MessageHandler) broadcast(msg *models.Message, kind string, data any) {
	var target string
	switch {
	case msg.ChatID != nil:
		target = msg.ChatID.String()
	case msg.GroupID != nil:
		target = msg.GroupID.String()
	default:
		return
	}
	h.Hub.BroadcastToChat(target, ws.Event{Event: kind, ChatID: target, Data: data})
}

func messageID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		writeErr(w, apperr.InvalidArg("invalid message id"))
		return uuid.Nil, false
	}
	return id, true
}
