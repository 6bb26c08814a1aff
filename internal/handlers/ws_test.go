package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/UmbrellaLGBTQ/umbrella-backend/internal/ws"
)

func TestWSHandlerRejectsBadToken(t *testing.T) {
	e := newTestEnv(t)
	h := &WSHandler{Hub: ws.NewHub(), Tokens: e.tokens}

	req := httptest.NewRequest("GET", "/ws", nil)
	rr := httptest.NewRecorder()
	h.Serve(rr, req)
	if rr.Code != http.StatusUnauthorized {
		t.Errorf("missing token returned %d, want %d", rr.Code, http.StatusUnauthorized)
	}

	req = httptest.NewRequest("GET", "/ws?token=not-a-jwt", nil)
	rr = httptest.NewRecorder()
	h.Serve(rr, req)
	if rr.Code != http.StatusUnauthorized {
		t.Errorf("garbage token returned %d, want %d", rr.Code, http.StatusUnauthorized)
	}
}

// A connected recipient gets a per-user notification event for a new message
// even without having joined the chat room.
func TestSendDeliversNotificationToOnlineRecipient(t *testing.T) {
	e := newTestEnv(t)
	hub := ws.NewHub()
	wsh := &WSHandler{Hub: hub, Tokens: e.tokens}
	mh := &MessageHandler{Store: e.store, Hub: hub}

	alice := e.seedUser(t, "alice")
	bob := e.seedUser(t, "bob")
	chat, err := e.store.CreateOrGetChat(alice.ID, bob.ID)
	if err != nil {
		t.Fatalf("create chat: %v", err)
	}

	srv := httptest.NewServer(http.HandlerFunc(wsh.Serve))
	defer srv.Close()

	token, err := e.tokens.IssueAccessToken(bob.ID)
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}
	conn, _, err := websocket.DefaultDialer.Dial(
		"ws"+strings.TrimPrefix(srv.URL, "http")+"?token="+token, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	deadline := time.Now().Add(2 * time.Second)
	for !hub.IsOnline(bob.ID) {
		if time.Now().After(deadline) {
			t.Fatal("bob never came online")
		}
		time.Sleep(5 * time.Millisecond)
	}

	rr := e.do(t, mh.SendMessage, alice.ID, "POST", "/api/messages",
		map[string]any{"chat_id": chat.ID, "content": "hi"})
	if rr.Code != http.StatusCreated {
		t.Fatalf("send returned %d: %s", rr.Code, rr.Body.String())
	}

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var event ws.Event
	if err := conn.ReadJSON(&event); err != nil {
		t.Fatalf("recipient received no event: %v", err)
	}
	if event.Event != ws.EventNotification {
		t.Errorf("expected %q event, got %q", ws.EventNotification, event.Event)
	}
	if event.ChatID != chat.ID.String() {
		t.Errorf("expected chat id %s, got %s", chat.ID, event.ChatID)
	}
}

func TestPresenceHandler(t *testing.T) {
	e := newTestEnv(t)
	hub := ws.NewHub()
	h := &WSHandler{Hub: hub, Tokens: e.tokens}
	alice := e.seedUser(t, "alice")

	rr := e.doVars(t, h.Presence, alice.ID, "GET", "/api/users/2/online", nil,
		map[string]string{"id": "2"})
	if rr.Code != http.StatusOK {
		t.Fatalf("presence returned %d", rr.Code)
	}
	if body := rr.Body.String(); body != "{\"online\":false}\n" {
		t.Errorf("unexpected presence body %q", body)
	}

	rr = e.doVars(t, h.Presence, alice.ID, "GET", "/api/users/x/online", nil,
		map[string]string{"id": "x"})
	if rr.Code != http.StatusBadRequest {
		t.Errorf("bad user id returned %d, want %d", rr.Code, http.StatusBadRequest)
	}
}
