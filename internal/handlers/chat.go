package handlers

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/UmbrellaLGBTQ/umbrella-backend/internal/apperr"
	"github.com/UmbrellaLGBTQ/umbrella-backend/internal/middleware"
	"github.com/UmbrellaLGBTQ/umbrella-backend/internal/store"
	"github.com/UmbrellaLGBTQ/umbrella-backend/internal/ws"
)

type ChatHandler struct {
	Store store.Store
	Hub   *ws.Hub
}

// CreateChat POST /api/chats creates or returns the direct chat with a peer.
func (h *ChatHandler) CreateChat(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserID(r)

	var req struct {
		PeerID uint `json:"peer_id"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	if _, err := h.Store.GetUserByID(req.PeerID); err != nil {
		writeErr(w, err)
		return
	}

	chat, err := h.Store.CreateOrGetChat(userID, req.PeerID)
	if err != nil {
		writeErr(w, err)
		return
	}

	h.Hub.SendToUser(req.PeerID, ws.Event{
		Event:  ws.EventNewChat,
		ChatID: chat.ID.String(),
	})
	writeJSON(w, http.StatusCreated, chat)
}

// GetChats GET /api/chats
func (h *ChatHandler) GetChats(w http.ResponseWriter, r *http.Request) {
	chats, err := h.Store.GetUserChats(middleware.UserID(r))
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, chats)
}

// ChatAction POST /api/chats/{id}/action handles accept, decline and block.
func (h *ChatHandler) ChatAction(w http.ResponseWriter, r *http.Request) {
	chatID, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		writeErr(w, apperr.InvalidArg("invalid chat id"))
		return
	}

	var req struct {
		Action string `json:"action"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	chat, err := h.Store.HandleChatAction(chatID, middleware.UserID(r), req.Action)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, chat)
}

// CreateGroup POST /api/groups
func (h *ChatHandler) CreateGroup(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name      string `json:"name"`
		MemberIDs []uint `json:"member_ids"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Name == "" {
		writeErr(w, apperr.InvalidArg("group name is required"))
		return
	}

	group, err := h.Store.CreateGroup(req.Name, middleware.UserID(r), req.MemberIDs)
	if err != nil {
		writeErr(w, err)
		return
	}
	for _, uid := range req.MemberIDs {
		h.Hub.SendToUser(uid, ws.Event{Event: ws.EventNewChat, ChatID: group.ID.String()})
	}
	writeJSON(w, http.StatusCreated, group)
}

// GetGroup GET /api/groups/{id}, members only.
func (h *ChatHandler) GetGroup(w http.ResponseWriter, r *http.Request) {
	groupID, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		writeErr(w, apperr.InvalidArg("invalid group id"))
		return
	}
	member, err := h.Store.IsGroupMember(groupID, middleware.UserID(r))
	if err != nil {
		writeErr(w, err)
		return
	}
	if !member {
		writeErr(w, apperr.Forbidden("not a group member"))
		return
	}
	group, err := h.Store.GetGroup(groupID)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, group)
}

// GetGroups GET /api/groups
func (h *ChatHandler) GetGroups(w http.ResponseWriter, r *http.Request) {
	groups, err := h.Store.GetUserGroups(middleware.UserID(r))
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, groups)
}
