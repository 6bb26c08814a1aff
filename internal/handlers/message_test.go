package handlers

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/google/uuid"

	"github.com/UmbrellaLGBTQ/umbrella-backend/internal/models"
	"github.com/UmbrellaLGBTQ/umbrella-backend/internal/store"
	"github.com/UmbrellaLGBTQ/umbrella-backend/internal/ws"
)

func seedChatMessage(t *testing.T, e *testEnv, chatID uuid.UUID, sender uint, text string) *models.Message {
	t.Helper()
	msg, err := e.store.SendMessage(store.SendMessageParams{ChatID: &chatID, SenderID: sender, Content: &text})
	if err != nil {
		t.Fatalf("seed message: %v", err)
	}
	return msg
}

func TestSendMessageHandler(t *testing.T) {
	e := newTestEnv(t)
	h := &MessageHandler{Store: e.store, Hub: ws.NewHub()}
	alice := e.seedUser(t, "alice")
	bob := e.seedUser(t, "bob")
	chat, _ := e.store.CreateOrGetChat(alice.ID, bob.ID)

	rr := e.do(t, h.SendMessage, alice.ID, "POST", "/api/messages",
		map[string]any{"chat_id": chat.ID, "content": "hello"})
	if rr.Code != http.StatusCreated {
		t.Fatalf("send message returned %d: %s", rr.Code, rr.Body.String())
	}
	var msg models.Message
	json.NewDecoder(rr.Body).Decode(&msg)
	if *msg.Content != "hello" {
		t.Errorf("expected content hello, got %q", *msg.Content)
	}

	// No target at all.
	rr = e.do(t, h.SendMessage, alice.ID, "POST", "/api/messages", map[string]any{"content": "lost"})
	if rr.Code != http.StatusBadRequest {
		t.Errorf("targetless message returned %d, want %d", rr.Code, http.StatusBadRequest)
	}

	// A stranger cannot send into the chat.
	mallory := e.seedUser(t, "mallory")
	rr = e.do(t, h.SendMessage, mallory.ID, "POST", "/api/messages",
		map[string]any{"chat_id": chat.ID, "content": "intrusion"})
	if rr.Code != http.StatusForbidden {
		t.Errorf("stranger message returned %d, want %d", rr.Code, http.StatusForbidden)
	}
}

func TestGetMessagesHandler(t *testing.T) {
	e := newTestEnv(t)
	h := &MessageHandler{Store: e.store, Hub: ws.NewHub()}
	alice := e.seedUser(t, "alice")
	bob := e.seedUser(t, "bob")
	chat, _ := e.store.CreateOrGetChat(alice.ID, bob.ID)
	seedChatMessage(t, e, chat.ID, alice.ID, "first")
	seedChatMessage(t, e, chat.ID, bob.ID, "second")

	rr := e.do(t, h.GetMessages, alice.ID, "GET", "/api/messages?chat_id="+chat.ID.String(), nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("get messages returned %d: %s", rr.Code, rr.Body.String())
	}
	var msgs []models.Message
	json.NewDecoder(rr.Body).Decode(&msgs)
	if len(msgs) != 2 {
		t.Errorf("expected 2 messages, got %d", len(msgs))
	}

	// Exactly one of chat_id / group_id is required.
	rr = e.do(t, h.GetMessages, alice.ID, "GET", "/api/messages", nil)
	if rr.Code != http.StatusBadRequest {
		t.Errorf("no target returned %d, want %d", rr.Code, http.StatusBadRequest)
	}

	rr = e.do(t, h.GetMessages, alice.ID, "GET", "/api/messages?chat_id="+chat.ID.String()+"&search=FIRST", nil)
	json.NewDecoder(rr.Body).Decode(&msgs)
	if len(msgs) != 1 {
		t.Errorf("expected 1 search hit, got %d", len(msgs))
	}
}

func TestDeleteMessageHandler(t *testing.T) {
	e := newTestEnv(t)
	h := &MessageHandler{Store: e.store, Hub: ws.NewHub()}
	alice := e.seedUser(t, "alice")
	bob := e.seedUser(t, "bob")
	chat, _ := e.store.CreateOrGetChat(alice.ID, bob.ID)
	msg := seedChatMessage(t, e, chat.ID, alice.ID, "disposable")
	vars := map[string]string{"id": msg.ID.String()}

	// Receiver hides for themselves.
	rr := e.doVars(t, h.DeleteMessage, bob.ID, "DELETE", "/api/messages/"+msg.ID.String(), nil, vars)
	if rr.Code != http.StatusNoContent {
		t.Fatalf("delete for me returned %d: %s", rr.Code, rr.Body.String())
	}

	// Only the sender can delete for everyone.
	rr = e.doVars(t, h.DeleteMessage, bob.ID, "DELETE", "/api/messages/"+msg.ID.String()+"?for_everyone=true", nil, vars)
	if rr.Code != http.StatusForbidden {
		t.Errorf("receiver delete-for-all returned %d, want %d", rr.Code, http.StatusForbidden)
	}
	rr = e.doVars(t, h.DeleteMessage, alice.ID, "DELETE", "/api/messages/"+msg.ID.String()+"?for_everyone=true", nil, vars)
	if rr.Code != http.StatusNoContent {
		t.Errorf("sender delete-for-all returned %d, want %d", rr.Code, http.StatusNoContent)
	}

	// Edits after the tombstone conflict.
	rr = e.doVars(t, h.EditMessage, alice.ID, "PUT", "/api/messages/"+msg.ID.String(),
		map[string]string{"content": "resurrect"}, vars)
	if rr.Code != http.StatusConflict {
		t.Errorf("edit after tombstone returned %d, want %d", rr.Code, http.StatusConflict)
	}
}

func TestReactHandler(t *testing.T) {
	e := newTestEnv(t)
	h := &MessageHandler{Store: e.store, Hub: ws.NewHub()}
	alice := e.seedUser(t, "alice")
	bob := e.seedUser(t, "bob")
	chat, _ := e.store.CreateOrGetChat(alice.ID, bob.ID)
	msg := seedChatMessage(t, e, chat.ID, alice.ID, "react here")
	vars := map[string]string{"id": msg.ID.String()}
	path := "/api/messages/" + msg.ID.String()

	rr := e.doVars(t, h.React, bob.ID, "POST", path+"/react", map[string]string{"emoji": "🔥"}, vars)
	if rr.Code != http.StatusOK {
		t.Fatalf("react returned %d: %s", rr.Code, rr.Body.String())
	}
	rr = e.doVars(t, h.React, bob.ID, "POST", path+"/react", map[string]string{"emoji": "💧"}, vars)
	if rr.Code != http.StatusOK {
		t.Fatalf("re-react returned %d", rr.Code)
	}

	rr = e.doVars(t, h.ListReactions, alice.ID, "GET", path+"/reactions", nil, vars)
	var reactions []models.Reaction
	json.NewDecoder(rr.Body).Decode(&reactions)
	if len(reactions) != 1 || reactions[0].Emoji != "💧" {
		t.Errorf("expected one upserted reaction 💧, got %+v", reactions)
	}

	rr = e.doVars(t, h.React, bob.ID, "POST", path+"/react", map[string]string{}, vars)
	if rr.Code != http.StatusBadRequest {
		t.Errorf("empty emoji returned %d, want %d", rr.Code, http.StatusBadRequest)
	}

	rr = e.doVars(t, h.RemoveReaction, bob.ID, "DELETE", path+"/react", nil, vars)
	if rr.Code != http.StatusNoContent {
		t.Errorf("remove reaction returned %d, want %d", rr.Code, http.StatusNoContent)
	}
}

func TestForwardHandler(t *testing.T) {
	e := newTestEnv(t)
	h := &MessageHandler{Store: e.store, Hub: ws.NewHub()}
	alice := e.seedUser(t, "alice")
	bob := e.seedUser(t, "bob")
	carol := e.seedUser(t, "carol")
	chat, _ := e.store.CreateOrGetChat(alice.ID, bob.ID)
	other, _ := e.store.CreateOrGetChat(bob.ID, carol.ID)
	msg := seedChatMessage(t, e, chat.ID, alice.ID, "pass along")
	vars := map[string]string{"id": msg.ID.String()}

	rr := e.doVars(t, h.Forward, bob.ID, "POST", "/api/messages/"+msg.ID.String()+"/forward",
		map[string]any{"chat_id": other.ID}, vars)
	if rr.Code != http.StatusCreated {
		t.Fatalf("forward returned %d: %s", rr.Code, rr.Body.String())
	}
	var copied models.Message
	json.NewDecoder(rr.Body).Decode(&copied)
	if copied.ID == msg.ID || *copied.Content != "pass along" {
		t.Error("expected a fresh copy with the same content")
	}
}
