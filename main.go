package main

import (
	"flag"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/gorilla/mux"

	"github.com/UmbrellaLGBTQ/umbrella-backend/internal/auth"
	"github.com/UmbrellaLGBTQ/umbrella-backend/internal/config"
	"github.com/UmbrellaLGBTQ/umbrella-backend/internal/handlers"
	"github.com/UmbrellaLGBTQ/umbrella-backend/internal/middleware"
	"github.com/UmbrellaLGBTQ/umbrella-backend/internal/otp"
	"github.com/UmbrellaLGBTQ/umbrella-backend/internal/store/gormstore"
	"github.com/UmbrellaLGBTQ/umbrella-backend/internal/ws"
)

var configPath = flag.String("config", "config.yaml", "path to config file")

func main() {
	flag.Parse()
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("load config", "err", err)
		os.Exit(1)
	}

	db, err := gormstore.New(cfg.Database.Driver, cfg.Database.DSN)
	if err != nil {
		slog.Error("open database", "driver", cfg.Database.Driver, "err", err)
		os.Exit(1)
	}
	db.HideTombstones = cfg.Chat.HideTombstonesInListing

	hub := ws.NewHub()
	tokens := auth.NewTokenService(cfg.JWT.Secret, cfg.JWT.AccessTTL, cfg.JWT.RefreshTTL)
	otpService := otp.NewService(db, &otp.LogSender{})

	authHandler := &handlers.AuthHandler{Store: db, Tokens: tokens, OTP: otpService}
	profileHandler := &handlers.ProfileHandler{Store: db}
	chatHandler := &handlers.ChatHandler{Store: db, Hub: hub}
	messageHandler := &handlers.MessageHandler{Store: db, Hub: hub}
	blockHandler := &handlers.BlockHandler{Store: db}
	connectionHandler := &handlers.ConnectionHandler{Store: db, Hub: hub}
	postHandler := &handlers.PostHandler{Store: db}
	notificationHandler := &handlers.NotificationHandler{Store: db}
	wsHandler := &handlers.WSHandler{Hub: hub, Tokens: tokens}

	r := mux.NewRouter()
	r.Use(loggingMiddleware)

	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}).Methods("GET")

	// Public endpoints
	r.HandleFunc("/api/auth/otp/request", authHandler.RequestOTP).Methods("POST")
	r.HandleFunc("/api/auth/otp/verify", authHandler.VerifyOTP).Methods("POST")
	r.HandleFunc("/api/auth/signup", authHandler.Signup).Methods("POST")
	r.HandleFunc("/api/auth/login", authHandler.Login).Methods("POST")
	r.HandleFunc("/api/auth/refresh", authHandler.Refresh).Methods("POST")

	// WebSocket endpoint authenticates via query token inside the handler.
	r.HandleFunc("/ws", wsHandler.Serve).Methods("GET")

	// Authenticated endpoints
	api := r.PathPrefix("/api").Subrouter()
	api.Use(middleware.Auth(tokens))

	api.HandleFunc("/auth/logout", authHandler.Logout).Methods("POST")
	api.HandleFunc("/users/search", authHandler.SearchUsers).Methods("GET")
	api.HandleFunc("/users/{id}/online", wsHandler.Presence).Methods("GET")

	api.HandleFunc("/profile", profileHandler.GetOwnProfile).Methods("GET")
	api.HandleFunc("/profile", profileHandler.PatchProfile).Methods("PATCH")
	api.HandleFunc("/profile/account-type", profileHandler.UpdateAccountType).Methods("PATCH")
	api.HandleFunc("/profile/{username}", profileHandler.GetProfileByUsername).Methods("GET")

	api.HandleFunc("/chats", chatHandler.CreateChat).Methods("POST")
	api.HandleFunc("/chats", chatHandler.GetChats).Methods("GET")
	api.HandleFunc("/chats/{id}/action", chatHandler.ChatAction).Methods("POST")
	api.HandleFunc("/groups", chatHandler.CreateGroup).Methods("POST")
	api.HandleFunc("/groups", chatHandler.GetGroups).Methods("GET")
	api.HandleFunc("/groups/{id}", chatHandler.GetGroup).Methods("GET")

	api.HandleFunc("/messages", messageHandler.SendMessage).Methods("POST")
	api.HandleFunc("/messages", messageHandler.GetMessages).Methods("GET")
	api.HandleFunc("/messages/{id}", messageHandler.EditMessage).Methods("PUT")
	api.HandleFunc("/messages/{id}", messageHandler.DeleteMessage).Methods("DELETE")
	api.HandleFunc("/messages/{id}/unsend", messageHandler.UnsendMessage).Methods("POST")
	api.HandleFunc("/messages/{id}/react", messageHandler.React).Methods("POST")
	api.HandleFunc("/messages/{id}/react", messageHandler.RemoveReaction).Methods("DELETE")
	api.HandleFunc("/messages/{id}/reactions", messageHandler.ListReactions).Methods("GET")
	api.HandleFunc("/messages/{id}/forward", messageHandler.Forward).Methods("POST")

	api.HandleFunc("/blocks", blockHandler.Block).Methods("POST")
	api.HandleFunc("/blocks", blockHandler.Unblock).Methods("DELETE")
	api.HandleFunc("/blocks", blockHandler.ListBlocked).Methods("GET")

	api.HandleFunc("/connections/requests", connectionHandler.CreateRequest).Methods("POST")
	api.HandleFunc("/connections/requests/received", connectionHandler.ReceivedRequests).Methods("GET")
	api.HandleFunc("/connections/requests/sent", connectionHandler.SentRequests).Methods("GET")
	api.HandleFunc("/connections/requests/{id}", connectionHandler.AnswerRequest).Methods("PUT")
	api.HandleFunc("/connections", connectionHandler.ListConnections).Methods("GET")
	api.HandleFunc("/connections/check/{userID}", connectionHandler.CheckConnection).Methods("GET")

	api.HandleFunc("/posts", postHandler.CreatePost).Methods("POST")
	api.HandleFunc("/posts/user/{username}", postHandler.GetUserPosts).Methods("GET")

	api.HandleFunc("/notifications", notificationHandler.List).Methods("GET")
	api.HandleFunc("/notifications/mark-all-read", notificationHandler.MarkAllRead).Methods("PATCH")
	api.HandleFunc("/notifications/{id}/read", notificationHandler.MarkRead).Methods("PATCH")
	api.HandleFunc("/notifications/{id}", notificationHandler.Delete).Methods("DELETE")

	slog.Info("starting server", "addr", cfg.Server.Addr)
	if err := http.ListenAndServe(cfg.Server.Addr, r); err != nil {
		slog.Error("server stopped", "err", err)
		os.Exit(1)
	}
}

func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		slog.Info("request", "method", r.Method, "path", r.URL.Path, "duration", time.Since(start))
	})
}
