package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/UmbrellaLGBTQ/umbrella-backend/internal/apperr"
	"github.com/UmbrellaLGBTQ/umbrella-backend/internal/auth"
	"github.com/UmbrellaLGBTQ/umbrella-backend/internal/models"
	"github.com/UmbrellaLGBTQ/umbrella-backend/internal/otp"
	"github.com/UmbrellaLGBTQ/umbrella-backend/internal/store"
)

const (
	purposeSignup = "signup"
)

type AuthHandler struct {
	Store  store.Store
	Tokens *auth.TokenService
	OTP    *otp.Service
}

type tokenPair struct {
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
	TokenType    string       `json:"token_type"`
	User         *models.User `json:"user,omitempty"`
}

// RequestOTP POST /api/auth/otp/request
func (h *AuthHandler) RequestOTP(w http.ResponseWriter, r *http.Request) {
	var req struct {
		CountryCode string `json:"country_code"`
		PhoneNumber string `json:"phone_number"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	if req.CountryCode == "" || req.PhoneNumber == "" {
		writeErr(w, apperr.InvalidArg("country_code and phone_number are required"))
		return
	}
	req.PhoneNumber = strings.ReplaceAll(req.PhoneNumber, " ", "")

	if err := h.OTP.Issue(req.CountryCode, req.PhoneNumber, purposeSignup); err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusAccepted, map[string]string{"status": "sent"})
}

// VerifyOTP POST /api/auth/otp/verify
func (h *AuthHandler) VerifyOTP(w http.ResponseWriter, r *http.Request) {
	var req struct {
		CountryCode string `json:"country_code"`
		PhoneNumber string `json:"phone_number"`
		Code        string `json:"code"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	req.PhoneNumber = strings.ReplaceAll(req.PhoneNumber, " ", "")

	if err := h.OTP.Verify(req.CountryCode, req.PhoneNumber, req.Code, purposeSignup); err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "verified"})
}

// Signup POST /api/auth/signup completes account creation after OTP verification.
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username    string  `json:"username"`
		FirstName   string  `json:"first_name"`
		LastName    string  `json:"last_name"`
		CountryCode string  `json:"country_code"`
		PhoneNumber string  `json:"phone_number"`
		Password    string  `json:"password"`
		DateOfBirth *string `json:"date_of_birth,omitempty"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Username == "" || req.Password == "" || req.CountryCode == "" || req.PhoneNumber == "" {
		writeErr(w, apperr.InvalidArg("username, password, country_code and phone_number are required"))
		return
	}

	hashed, err := auth.HashPassword(req.Password)
	if err != nil {
		writeErr(w, apperr.Internal("could not hash password"))
		return
	}

	user := models.User{
		Username:     req.Username,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		CountryCode:  req.CountryCode,
		PhoneNumber:  strings.ReplaceAll(req.PhoneNumber, " ", ""),
		PasswordHash: hashed,
		AccountType:  models.AccountPublic,
		IsActive:     true,
	}
	if req.DateOfBirth != nil {
		if dob, err := time.Parse("2006-01-02", *req.DateOfBirth); err == nil {
			user.DateOfBirth = &dob
		}
	}

	if err := h.Store.CreateUser(&user); err != nil {
		writeErr(w, err)
		return
	}
	profile := models.UserProfile{
		UserID:      user.ID,
		DisplayName: strings.TrimSpace(req.FirstName + " " + req.LastName),
	}
	if profile.DisplayName == "" {
		profile.DisplayName = user.Username
	}
	if err := h.Store.CreateProfile(&profile); err != nil {
		writeErr(w, err)
		return
	}

	pair, err := h.issueTokens(&user)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, pair)
}

// Login POST /api/auth/login accepts username or phone number as login id.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		LoginID     string `json:"login_id"`
		CountryCode string `json:"country_code,omitempty"`
		Password    string `json:"password"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	user, err := h.Store.GetUserByUsername(req.LoginID)
	if err != nil && req.CountryCode != "" {
		user, err = h.Store.GetUserByPhone(req.CountryCode, req.LoginID)
	}
	if err != nil {
		writeErr(w, apperr.ErrInvalidCredentials)
		return
	}
	if !user.IsActive || !auth.CheckPassword(user.PasswordHash, req.Password) {
		writeErr(w, apperr.ErrInvalidCredentials)
		return
	}

	now := time.Now().UTC()
	if err := h.Store.TouchLastLogin(user.ID, now); err != nil {
		writeErr(w, err)
		return
	}

	pair, err := h.issueTokens(user)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, pair)
}

// Refresh POST /api/auth/refresh rotates the refresh token.
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	var req struct {
		RefreshToken string `json:"refresh_token"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	userID, err := h.Tokens.ValidateRefreshToken(req.RefreshToken)
	if err != nil {
		writeErr(w, err)
		return
	}
	stored, err := h.Store.GetRefreshToken(req.RefreshToken)
	if err != nil || stored.UserID != userID {
		writeErr(w, apperr.ErrInvalidToken)
		return
	}
	if err := h.Store.RevokeRefreshToken(req.RefreshToken); err != nil {
		writeErr(w, err)
		return
	}

	user, err := h.Store.GetUserByID(userID)
	if err != nil {
		writeErr(w, err)
		return
	}
	pair, err := h.issueTokens(user)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, pair)
}

// Logout POST /api/auth/logout revokes the presented refresh token.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	var req struct {
		RefreshToken string `json:"refresh_token"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	if err := h.Store.RevokeRefreshToken(req.RefreshToken); err != nil {
		writeErr(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// SearchUsers GET /api/users/search?q=
func (h *AuthHandler) SearchUsers(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	if query == "" {
		writeJSON(w, http.StatusOK, []models.User{})
		return
	}
	users, err := h.Store.SearchUsers(query, 20)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, users)
}

func (h *AuthHandler) issueTokens(user *models.User) (*tokenPair, error) {
	access, err := h.Tokens.IssueAccessToken(user.ID)
	if err != nil {
		return nil, apperr.Wrap(apperr.CodeInternal, "could not issue access token", err)
	}
	refresh, err := h.Tokens.IssueRefreshToken(user.ID)
	if err != nil {
		return nil, apperr.Wrap(apperr.CodeInternal, "could not issue refresh token", err)
	}
	record := models.RefreshToken{
		UserID:    user.ID,
		Token:     refresh,
		IsValid:   true,
		ExpiresAt: time.Now().UTC().Add(h.Tokens.RefreshTTL()),
	}
	if err := h.Store.CreateRefreshToken(&record); err != nil {
		return nil, err
	}
	return &tokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		TokenType:    "bearer",
		User:         user,
	}, nil
}
