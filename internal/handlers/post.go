package handlers

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/UmbrellaLGBTQ/umbrella-backend/internal/apperr"
	"github.com/UmbrellaLGBTQ/umbrella-backend/internal/middleware"
	"github.com/UmbrellaLGBTQ/umbrella-backend/internal/models"
	"github.com/UmbrellaLGBTQ/umbrella-backend/internal/store"
)

type PostHandler struct {
	Store store.Store
}

// CreatePost POST /api/posts
func (h *PostHandler) CreatePost(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Caption  *string         `json:"caption,omitempty"`
		MediaURL string          `json:"media_url"`
		Type     models.PostType `json:"type"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	if req.MediaURL == "" {
		writeErr(w, apperr.InvalidArg("media_url is required"))
		return
	}
	if req.Type == "" {
		req.Type = models.PostTypePost
	}

	post := &models.Post{
		UserID:   middleware.UserID(r),
		Caption:  req.Caption,
		MediaURL: req.MediaURL,
		Type:     req.Type,
	}
	if err := h.Store.CreatePost(post); err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, post)
}

// GetUserPosts GET /api/posts/user/{username}?type=clip. A private account's
// posts are visible only to the owner and connected users.
func (h *PostHandler) GetUserPosts(w http.ResponseWriter, r *http.Request) {
	user, err := h.Store.GetUserByUsername(mux.Vars(r)["username"])
	if err != nil {
		writeErr(w, err)
		return
	}

	viewer := middleware.UserID(r)
	if user.AccountType == models.AccountPrivate && viewer != user.ID {
		connected, err := h.Store.AreConnected(viewer, user.ID)
		if err != nil {
			writeErr(w, err)
			return
		}
		if !connected {
			writeErr(w, apperr.Forbidden("this account is private"))
			return
		}
	}

	posts, err := h.Store.GetUserPosts(user.ID, models.PostType(r.URL.Query().Get("type")))
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, posts)
}
