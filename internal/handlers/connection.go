package handlers

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/UmbrellaLGBTQ/umbrella-backend/internal/apperr"
	"github.com/UmbrellaLGBTQ/umbrella-backend/internal/middleware"
	"github.com/UmbrellaLGBTQ/umbrella-backend/internal/models"
	"github.com/UmbrellaLGBTQ/umbrella-backend/internal/store"
	"github.com/UmbrellaLGBTQ/umbrella-backend/internal/ws"
)

type ConnectionHandler struct {
	Store store.Store
	Hub   *ws.Hub
}

// CreateRequest POST /api/connections/requests
func (h *ConnectionHandler) CreateRequest(w http.ResponseWriter, r *http.Request) {
	var req struct {
		RequesteeID uint `json:"requestee_id"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	userID := middleware.UserID(r)
	request, err := h.Store.CreateConnectionRequest(userID, req.RequesteeID)
	if err != nil {
		writeErr(w, err)
		return
	}

	ref := strconv.FormatUint(uint64(request.ID), 10)
	if err := h.Store.CreateNotification(&models.Notification{
		UserID:      req.RequesteeID,
		Type:        "connection_request",
		Title:       "New connection request",
		ReferenceID: &ref,
	}); err != nil {
		writeErr(w, err)
		return
	}

	h.Hub.SendToUser(req.RequesteeID, ws.Event{
		Event: ws.EventNotification,
		Data:  map[string]any{"type": "connection_request", "requester_id": userID},
	})
	writeJSON(w, http.StatusCreated, request)
}

// ReceivedRequests GET /api/connections/requests/received
func (h *ConnectionHandler) ReceivedRequests(w http.ResponseWriter, r *http.Request) {
	reqs, err := h.Store.GetReceivedConnectionRequests(middleware.UserID(r))
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, reqs)
}

// SentRequests GET /api/connections/requests/sent
func (h *ConnectionHandler) SentRequests(w http.ResponseWriter, r *http.Request) {
	reqs, err := h.Store.GetSentConnectionRequests(middleware.UserID(r))
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, reqs)
}

// AnswerRequest PUT /api/connections/requests/{id}
func (h *ConnectionHandler) AnswerRequest(w http.ResponseWriter, r *http.Request) {
	requestID, err := strconv.ParseUint(mux.Vars(r)["id"], 10, 32)
	if err != nil {
		writeErr(w, apperr.InvalidArg("invalid request id"))
		return
	}
	var req struct {
		Status models.ConnectionStatus `json:"status"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	request, err := h.Store.UpdateConnectionRequest(uint(requestID), middleware.UserID(r), req.Status)
	if err != nil {
		writeErr(w, err)
		return
	}
	if request.Status == models.ConnectionAccepted {
		ref := strconv.FormatUint(uint64(request.ID), 10)
		if err := h.Store.CreateNotification(&models.Notification{
			UserID:      request.RequesterID,
			Type:        "connection_accepted",
			Title:       "Connection request accepted",
			ReferenceID: &ref,
		}); err != nil {
			writeErr(w, err)
			return
		}
		h.Hub.SendToUser(request.RequesterID, ws.Event{
			Event: ws.EventNotification,
			Data:  map[string]any{"type": "connection_accepted", "requestee_id": request.RequesteeID},
		})
	}
	writeJSON(w, http.StatusOK, request)
}

// ListConnections GET /api/connections
func (h *ConnectionHandler) ListConnections(w http.ResponseWriter, r *http.Request) {
	conns, err := h.Store.GetUserConnections(middleware.UserID(r))
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, conns)
}

// CheckConnection GET /api/connections/check/{userID}
func (h *ConnectionHandler) CheckConnection(w http.ResponseWriter, r *http.Request) {
	otherID, err := strconv.ParseUint(mux.Vars(r)["userID"], 10, 32)
	if err != nil {
		writeErr(w, apperr.InvalidArg("invalid user id"))
		return
	}
	connected, err := h.Store.AreConnected(middleware.UserID(r), uint(otherID))
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"connected": connected})
}
