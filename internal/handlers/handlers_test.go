package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"

	"github.com/UmbrellaLGBTQ/umbrella-backend/internal/auth"
	"github.com/UmbrellaLGBTQ/umbrella-backend/internal/middleware"
	"github.com/UmbrellaLGBTQ/umbrella-backend/internal/models"
	"github.com/UmbrellaLGBTQ/umbrella-backend/internal/store/gormstore"
)

type testEnv struct {
	store  *gormstore.Store
	tokens *auth.TokenService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	s, err := gormstore.New("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}
	return &testEnv{
		store:  s,
		tokens: auth.NewTokenService("test-secret", time.Hour, 24*time.Hour),
	}
}

var userSeq int

func (e *testEnv) seedUser(t *testing.T, username string) *models.User {
	t.Helper()
	userSeq++
	hash, _ := auth.HashPassword("pass")
	user := &models.User{
		Username:     username,
		CountryCode:  "+1",
		PhoneNumber:  fmt.Sprintf("555100%04d", userSeq),
		PasswordHash: hash,
		IsActive:     true,
	}
	if err := e.store.CreateUser(user); err != nil {
		t.Fatalf("seed user %s: %v", username, err)
	}
	return user
}

// do runs the handler behind the auth middleware, the way the router does.
func (e *testEnv) do(t *testing.T, handler http.HandlerFunc, userID uint, method, target string, body any) *httptest.ResponseRecorder {
	t.Helper()
	return e.doVars(t, handler, userID, method, target, body, nil)
}

func (e *testEnv) doVars(t *testing.T, handler http.HandlerFunc, userID uint, method, target string, body any, vars map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode request body: %v", err)
		}
	}
	req := httptest.NewRequest(method, target, &buf)
	if vars != nil {
		req = mux.SetURLVars(req, vars)
	}
	token, err := e.tokens.IssueAccessToken(userID)
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)

	rr := httptest.NewRecorder()
	middleware.Auth(e.tokens)(handler).ServeHTTP(rr, req)
	return rr
}
