package handlers

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/UmbrellaLGBTQ/umbrella-backend/internal/apperr"
	"github.com/UmbrellaLGBTQ/umbrella-backend/internal/auth"
	"github.com/UmbrellaLGBTQ/umbrella-backend/internal/ws"
)

// WSHandler upgrades GET /ws?token=... into a live event connection.
// The token travels as a query parameter because browser WebSocket clients
// cannot set an Authorization header.
type WSHandler struct {
	Hub    *ws.Hub
	Tokens *auth.TokenService
}

func (h *WSHandler) Serve(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		token = auth.ExtractToken(r.Header.Get("Authorization"))
	}
	userID, err := h.Tokens.CurrentUser(token)
	if err != nil {
		writeErr(w, apperr.Unauthorized("invalid or missing token"))
		return
	}
	ws.ServeWS(h.Hub, w, r, userID)
}

// Presence GET /api/users/{id}/online
func (h *WSHandler) Presence(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseUint(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		writeErr(w, apperr.InvalidArg("invalid user id"))
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"online": h.Hub.IsOnline(uint(id))})
}
