package routes

import (
	"log/slog"
	"net/http"
	"time"

	_ "github.com/Dosada05/billiards-bracket/docs" // swagger spec
	"github.com/Dosada05/billiards-bracket/handlers"
	"github.com/Dosada05/billiards-bracket/middleware"
	"github.com/Dosada05/billiards-bracket/models"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger"
)

type Options struct {
	JWTSecret      string
	AllowedOrigins []string
	Logger         *slog.Logger
}

func SetupRoutes(
	router chi.Router,
	opts Options,
	bracketHandler *handlers.BracketHandler,
	matchHandler *handlers.MatchHandler,
	webSocketHandler *handlers.WebSocketHandler,
) {
	origins := opts.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	router.Use(chiMiddleware.RequestID)
	router.Use(chiMiddleware.RealIP)
	router.Use(chiMiddleware.Logger)
	router.Use(chiMiddleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PATCH", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	router.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))

	// websocket без таймаута: соединение живёт долго
	router.Get("/ws/tournaments/{tournamentID}", webSocketHandler.ServeWs)

	authenticate := middleware.Authenticate(opts.JWTSecret, opts.Logger)
	managers := middleware.RequireRole(models.RoleAdmin, models.RoleClubOwner)

	router.Route("/api", func(r chi.Router) {
		r.Use(chiMiddleware.Timeout(30 * time.Second))

		r.Route("/tournaments/{tournamentID}/bracket", func(r chi.Router) {
			r.Get("/", bracketHandler.GetBracket)
			r.With(authenticate, managers).Post("/", bracketHandler.GenerateBracket)
		})

		r.Route("/matches/{matchID}", func(r chi.Router) {
			r.Get("/", matchHandler.GetMatch)
			r.Group(func(r chi.Router) {
				r.Use(authenticate)
				r.Use(managers)
				r.Post("/score", matchHandler.SubmitScore)
				r.Patch("/score", matchHandler.CorrectScore)
			})
		})
	})
}
