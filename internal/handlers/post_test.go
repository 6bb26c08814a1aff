package handlers

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/UmbrellaLGBTQ/umbrella-backend/internal/models"
)

func TestPostHandlerFlow(t *testing.T) {
	e := newTestEnv(t)
	h := &PostHandler{Store: e.store}
	alice := e.seedUser(t, "alice")
	bob := e.seedUser(t, "bob")

	rr := e.do(t, h.CreatePost, alice.ID, "POST", "/api/posts",
		map[string]string{"caption": "sunset", "media_url": "a.jpg"})
	if rr.Code != http.StatusCreated {
		t.Fatalf("create post returned %d: %s", rr.Code, rr.Body.String())
	}
	var post models.Post
	json.NewDecoder(rr.Body).Decode(&post)
	if post.Type != models.PostTypePost {
		t.Errorf("expected default type post, got %q", post.Type)
	}

	rr = e.do(t, h.CreatePost, alice.ID, "POST", "/api/posts", map[string]string{"caption": "no media"})
	if rr.Code != http.StatusBadRequest {
		t.Errorf("post without media returned %d, want %d", rr.Code, http.StatusBadRequest)
	}

	// Public account: anyone can list.
	rr = e.doVars(t, h.GetUserPosts, bob.ID, "GET", "/api/posts/user/alice", nil,
		map[string]string{"username": "alice"})
	if rr.Code != http.StatusOK {
		t.Fatalf("list posts returned %d", rr.Code)
	}

	// Private account: strangers are refused, the owner is not.
	if err := e.store.UpdateAccountType(alice.ID, models.AccountPrivate); err != nil {
		t.Fatal(err)
	}
	rr = e.doVars(t, h.GetUserPosts, bob.ID, "GET", "/api/posts/user/alice", nil,
		map[string]string{"username": "alice"})
	if rr.Code != http.StatusForbidden {
		t.Errorf("stranger listing private posts returned %d, want %d", rr.Code, http.StatusForbidden)
	}
	rr = e.doVars(t, h.GetUserPosts, alice.ID, "GET", "/api/posts/user/alice", nil,
		map[string]string{"username": "alice"})
	if rr.Code != http.StatusOK {
		t.Errorf("owner listing own private posts returned %d, want %d", rr.Code, http.StatusOK)
	}
}
