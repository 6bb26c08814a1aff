package handlers

import (
	"net/http"

	"github.com/UmbrellaLGBTQ/umbrella-backend/internal/middleware"
	"github.com/UmbrellaLGBTQ/umbrella-backend/internal/store"
)

type BlockHandler struct {
	Store store.Store
}

// Block POST /api/blocks
func (h *BlockHandler) Block(w http.ResponseWriter, r *http.Request) {
	var req struct {
		BlockedUsername string `json:"blocked_username"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	blocked, err := h.Store.GetUserByUsername(req.BlockedUsername)
	if err != nil {
		writeErr(w, err)
		return
	}
	if _, err := h.Store.BlockUser(middleware.UserID(r), blocked.ID); err != nil {
		writeErr(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Unblock DELETE /api/blocks
func (h *BlockHandler) Unblock(w http.ResponseWriter, r *http.Request) {
	var req struct {
		BlockedUsername string `json:"blocked_username"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	blocked, err := h.Store.GetUserByUsername(req.BlockedUsername)
	if err != nil {
		writeErr(w, err)
		return
	}
	if err := h.Store.UnblockUser(middleware.UserID(r), blocked.ID); err != nil {
		writeErr(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListBlocked GET /api/blocks
func (h *BlockHandler) ListBlocked(w http.ResponseWriter, r *http.Request) {
	users, err := h.Store.GetBlockedUsers(middleware.UserID(r))
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, users)
}
