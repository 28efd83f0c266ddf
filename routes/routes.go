package routes

import (
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/asopadel/padel-system/handlers"
	"github.com/asopadel/padel-system/middleware"
	"github.com/asopadel/padel-system/models"
	"github.com/asopadel/padel-system/services"
)

func SetupRoutes(
	router *chi.Mux,
	authService services.AuthService,
	authHandler *handlers.AuthHandler,
	userHandler *handlers.UserHandler,
	tournamentHandler *handlers.TournamentHandler,
	matchHandler *handlers.MatchHandler,
	reservationHandler *handlers.ReservationHandler,
	courtHandler *handlers.CourtHandler,
	rankingHandler *handlers.RankingHandler,
	newsHandler *handlers.NewsHandler,
	dashboardHandler *handlers.DashboardHandler,
	wsHandler *handlers.WebSocketHandler,
) {
	router.Use(chiMiddleware.RequestID)
	router.Use(chiMiddleware.RealIP)
	router.Use(chiMiddleware.Logger)
	router.Use(chiMiddleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	authenticate := middleware.Authenticate(authService)
	adminOnly := middleware.RequireRole(models.RoleAdmin)
	staffOnly := middleware.RequireRole(models.RoleAdmin, models.RoleReferee)

	router.Post("/auth/register", authHandler.Register)
	router.Post("/auth/login", authHandler.Login)

	router.Get("/dashboard", dashboardHandler.Summary)
	router.Get("/rankings", rankingHandler.Leaderboard)
	router.Get("/players/{id}/stats", rankingHandler.PlayerStats)

	router.Route("/users", func(r chi.Router) {
		r.Use(authenticate)
		r.Get("/me", userHandler.Me)
		r.Post("/me/password", userHandler.ChangePassword)
		r.Get("/{id}", userHandler.Get)
		r.Put("/{id}", userHandler.Update)
		r.Post("/{id}/photo", userHandler.UploadPhoto)

		r.Group(func(r chi.Router) {
			r.Use(adminOnly)
			r.Get("/", userHandler.List)
			r.Delete("/{id}", userHandler.Delete)
		})
	})

	router.Route("/tournaments", func(r chi.Router) {
		r.Get("/", tournamentHandler.List)
		r.Get("/{id}", tournamentHandler.Get)
		r.Get("/{id}/matches", matchHandler.ListByTournament)

		r.Group(func(r chi.Router) {
			r.Use(authenticate, adminOnly)
			r.Post("/", tournamentHandler.Create)
			r.Put("/{id}", tournamentHandler.Update)
			r.Delete("/{id}", tournamentHandler.Delete)
			r.Post("/{id}/players", tournamentHandler.EnrollPlayer)
			r.Post("/{id}/schedule", matchHandler.GenerateSchedule)
			r.Delete("/{id}/players/{playerID}", tournamentHandler.RemovePlayer)
		})
	})

	router.Route("/categories", func(r chi.Router) {
		r.Get("/", tournamentHandler.ListCategories)
		r.With(authenticate, adminOnly).Post("/", tournamentHandler.CreateCategory)
	})

	router.Route("/matches", func(r chi.Router) {
		r.Get("/{id}", matchHandler.Get)
		r.Get("/player/{id}", matchHandler.ListByPlayer)

		r.Group(func(r chi.Router) {
			r.Use(authenticate, staffOnly)
			r.Post("/", matchHandler.Create)
			r.Post("/{id}/finalize", matchHandler.Finalize)
			r.Patch("/{id}/result", matchHandler.EditResult)
			r.Post("/{id}/cancel", matchHandler.Cancel)
		})
		r.With(authenticate, adminOnly).Post("/recalculate", matchHandler.Recalculate)
	})

	router.Route("/reservations", func(r chi.Router) {
		r.Use(authenticate)
		r.Post("/", reservationHandler.Create)
		r.Get("/mine", reservationHandler.ListMine)
		r.Get("/{id}", reservationHandler.Get)
		r.Post("/{id}/cancel", reservationHandler.Cancel)
		r.With(staffOnly).Post("/{id}/confirm", reservationHandler.Confirm)
	})

	router.Route("/courts", func(r chi.Router) {
		r.Get("/", courtHandler.List)
		r.Get("/status", courtHandler.Statuses)
		r.Get("/{id}", courtHandler.Get)
		r.Get("/{id}/status", courtHandler.Status)

		r.Group(func(r chi.Router) {
			r.Use(authenticate, adminOnly)
			r.Post("/", courtHandler.Create)
			r.Put("/{id}", courtHandler.Update)
			r.Patch("/{id}/state", courtHandler.SetState)
			r.Post("/{id}/image", courtHandler.UploadImage)
			r.Delete("/{id}", courtHandler.Delete)
		})
	})

	router.Route("/news", func(r chi.Router) {
		r.Get("/", newsHandler.List)
		r.Get("/{id}", newsHandler.Get)

		r.Group(func(r chi.Router) {
			r.Use(authenticate, adminOnly)
			r.Post("/", newsHandler.Create)
			r.Put("/{id}", newsHandler.Update)
			r.Post("/{id}/image", newsHandler.UploadImage)
			r.Delete("/{id}", newsHandler.Delete)
		})
	})

	router.Route("/heroes", func(r chi.Router) {
		r.Get("/active", newsHandler.ActiveHero)
		r.Group(func(r chi.Router) {
			r.Use(authenticate, adminOnly)
			r.Post("/", newsHandler.CreateHero)
			r.Post("/{id}/activate", newsHandler.ActivateHero)
		})
	})

	router.Get("/ws/tournaments/{id}", wsHandler.SubscribeTournament)
	router.Get("/ws/courts", wsHandler.SubscribeCourts)
	router.Get("/ws/courts/{id}", wsHandler.SubscribeCourt)
}
