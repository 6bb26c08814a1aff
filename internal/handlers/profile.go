package handlers

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/UmbrellaLGBTQ/umbrella-backend/internal/apperr"
	"github.com/UmbrellaLGBTQ/umbrella-backend/internal/middleware"
	"github.com/UmbrellaLGBTQ/umbrella-backend/internal/models"
	"github.com/UmbrellaLGBTQ/umbrella-backend/internal/store"
)

type ProfileHandler struct {
	Store store.Store
}

// GetOwnProfile GET /api/profile
func (h *ProfileHandler) GetOwnProfile(w http.ResponseWriter, r *http.Request) {
	profile, err := h.Store.GetProfile(middleware.UserID(r))
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, profile)
}

// PatchProfile PATCH /api/profile updates only the fields present in the body.
func (h *ProfileHandler) PatchProfile(w http.ResponseWriter, r *http.Request) {
	var req struct {
		DisplayName     *string `json:"display_name,omitempty"`
		Bio             *string `json:"bio,omitempty"`
		Location        *string `json:"location,omitempty"`
		ProfileImageURL *string `json:"profile_image_url,omitempty"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	profile, err := h.Store.PatchProfile(middleware.UserID(r), store.ProfilePatch{
		DisplayName:     req.DisplayName,
		Bio:             req.Bio,
		Location:        req.Location,
		ProfileImageURL: req.ProfileImageURL,
	})
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, profile)
}

// UpdateAccountType PATCH /api/profile/account-type
func (h *ProfileHandler) UpdateAccountType(w http.ResponseWriter, r *http.Request) {
	var req struct {
		AccountType models.AccountType `json:"account_type"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	switch req.AccountType {
	case models.AccountPublic, models.AccountPrivate, models.AccountAnonymous:
	default:
		writeErr(w, apperr.InvalidArg("account_type must be public, private or anonymous"))
		return
	}
	if err := h.Store.UpdateAccountType(middleware.UserID(r), req.AccountType); err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]models.AccountType{"account_type": req.AccountType})
}

type publicProfile struct {
	Username  string              `json:"username"`
	Profile   *models.UserProfile `json:"profile,omitempty"`
	PostCount int64               `json:"post_count"`
	Message   string              `json:"message,omitempty"`
}

// GetProfileByUsername GET /api/profile/{username}. Private accounts reveal
// their profile only to the owner and connected users.
func (h *ProfileHandler) GetProfileByUsername(w http.ResponseWriter, r *http.Request) {
	username := mux.Vars(r)["username"]
	user, err := h.Store.GetUserByUsername(username)
	if err != nil {
		writeErr(w, err)
		return
	}

	viewer := middleware.UserID(r)
	isOwner := viewer == user.ID
	connected, err := h.Store.AreConnected(viewer, user.ID)
	if err != nil {
		writeErr(w, err)
		return
	}

	if user.AccountType == models.AccountPrivate && !isOwner && !connected {
		writeJSON(w, http.StatusOK, publicProfile{
			Username: user.Username,
			Message:  "This account is private. Connect to see its profile.",
		})
		return
	}

	profile, err := h.Store.GetProfile(user.ID)
	if err != nil {
		writeErr(w, err)
		return
	}
	count, err := h.Store.CountUserPosts(user.ID)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, publicProfile{Username: user.Username, Profile: profile, PostCount: count})
}
