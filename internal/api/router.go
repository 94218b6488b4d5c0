package api

import (
	"net/http"

	"github.com/jmin/block-battle/internal/api/handlers"
	"github.com/jmin/block-battle/internal/api/middleware"
	"github.com/jmin/block-battle/internal/ratelimit"
	"github.com/jmin/block-battle/internal/service"
	"github.com/jmin/block-battle/internal/websocket"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"
)

func NewRouter(services *service.Services, hub *websocket.Hub, limiter *ratelimit.SlidingWindow) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.RequestID)
	r.Use(cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: false,
	}).Handler)

	r.Use(middleware.RateLimit(limiter))

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(services.Auth)
	roomHandler := handlers.NewRoomHandler(services.Room, services.Game, services.Auth)
	gameHandler := handlers.NewGameHandler(services.Game, services.Ranking)
	rankingHandler := handlers.NewRankingHandler(services.Ranking)
	wsHandler := handlers.NewWebSocketHandler(hub, services.Auth)

	r.Route("/api", func(r chi.Router) {
		// Public auth routes
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", authHandler.Register)
			r.Post("/login", authHandler.Login)
			r.Post("/refresh", authHandler.Refresh)

			// Protected auth routes
			r.Group(func(r chi.Router) {
				r.Use(middleware.Auth(services.Auth))
				r.Get("/me", authHandler.Me)
				r.Post("/logout", authHandler.Logout)
			})
		})

		// Room routes
		r.Route("/rooms", func(r chi.Router) {
			r.Get("/", roomHandler.ListWaiting)

			r.Group(func(r chi.Router) {
				r.Use(middleware.Auth(services.Auth))
				r.Post("/", roomHandler.Create)
				r.Post("/join", roomHandler.Join)
				r.Get("/{roomID}", roomHandler.Get)
				r.Post("/{roomID}/leave", roomHandler.Leave)
				r.Delete("/{roomID}", roomHandler.Delete)
			})
		})

		// Game routes
		r.Route("/game", func(r chi.Router) {
			r.Use(middleware.Auth(services.Auth))
			r.Post("/solo/start", gameHandler.SoloStart)
			r.Post("/solo/end", gameHandler.SoloEnd)
			r.Post("/versus/end", gameHandler.VersusEnd)
			r.Get("/history", gameHandler.History)
		})

		// Ranking routes (public)
		r.Route("/ranking", func(r chi.Router) {
			r.Get("/score", rankingHandler.Score)
			r.Get("/wins", rankingHandler.Wins)
			r.Get("/recent-games", rankingHandler.RecentGames)
		})
	})

	// WebSocket endpoint
	r.Get("/ws", wsHandler.Handle)

	return r
}
