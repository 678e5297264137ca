package routes

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger"

	_ "github.com/Dosada05/cricket-league/docs"
	"github.com/Dosada05/cricket-league/handlers"
	"github.com/Dosada05/cricket-league/middleware"
	"github.com/Dosada05/cricket-league/models"
)

type Deps struct {
	TournamentHandler *handlers.TournamentHandler
	MatchHandler      *handlers.MatchHandler
	AuthHandler       *handlers.AuthHandler
	WebSocketHandler  *handlers.WebSocketHandler
	Metrics           http.Handler

	JWTSecret      []byte
	AllowedOrigins []string
}

func SetupRoutes(router chi.Router, d Deps) {
	router.Use(chiMiddleware.RequestID)
	router.Use(chiMiddleware.RealIP)
	router.Use(chiMiddleware.Logger)
	router.Use(chiMiddleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   d.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	router.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))
	if d.Metrics != nil {
		router.Method(http.MethodGet, "/metrics", d.Metrics)
	}

	// Websocket connections are long-lived, so they stay outside the timeout middleware.
	router.Get("/ws/tournaments/{tournamentID}", d.WebSocketHandler.ServeWs)

	router.Group(func(r chi.Router) {
		r.Use(chiMiddleware.Timeout(15 * time.Second))

		r.Post("/auth/scorer", d.AuthHandler.ScorerLogin)

		r.Route("/tournaments/{tournamentID}", func(r chi.Router) {
			r.Get("/", d.TournamentHandler.GetByIDHandler)
			r.Get("/standings", d.TournamentHandler.StandingsHandler)
			r.Get("/teams/{teamID}", d.TournamentHandler.TeamHandler)
			r.Get("/teams/{teamID}/stats", d.TournamentHandler.TeamStatsHandler)
			r.Get("/matches/upcoming", d.TournamentHandler.UpcomingMatchesHandler)
			r.Get("/matches/results", d.TournamentHandler.ResultsHandler)

			// Защищенные маршруты только для счётчика
			r.Group(func(r chi.Router) {
				r.Use(middleware.Authenticate(d.JWTSecret))
				r.Use(middleware.Authorize(string(models.RoleScorer)))

				r.Post("/matches/{matchID}/result", d.MatchHandler.SubmitResultHandler)
			})
		})
	})
}
