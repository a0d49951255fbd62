package routes

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/Dosada05/arena/handlers"
	"github.com/Dosada05/arena/middleware"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	httpSwagger "github.com/swaggo/http-swagger"

	_ "github.com/Dosada05/arena/docs"
)

type Options struct {
	AllowedOrigins []string
	AuthRateLimit  int
	Logger         *slog.Logger
}

type Handlers struct {
	Auth          *handlers.AuthHandler
	User          *handlers.UserHandler
	Game          *handlers.GameHandler
	Tournament    *handlers.TournamentHandler
	Team          *handlers.TeamHandler
	Wallet        *handlers.WalletHandler
	Leaderboard   *handlers.LeaderboardHandler
	Notification  *handlers.NotificationHandler
	Admin         *handlers.AdminHandler
	WebSocket     *handlers.WebSocketHandler
	Health        *handlers.HealthHandler
	Authenticator *middleware.Authenticator
}

func SetupRoutes(router chi.Router, opts Options, h Handlers) {
	if opts.AuthRateLimit <= 0 {
		opts.AuthRateLimit = 20
	}
	auth := h.Authenticator

	router.Use(chimiddleware.RequestID)
	router.Use(chimiddleware.RealIP)
	router.Use(middleware.RequestLogger(opts.Logger))
	router.Use(chimiddleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "Idempotency-Key"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	router.Get("/healthz", h.Health.Healthz)
	router.Get("/swagger/*", httpSwagger.WrapHandler)

	router.Route("/ws", func(r chi.Router) {
		r.Use(auth.Authenticate)
		r.With(auth.RequireAuth).Get("/users/{userID}", h.WebSocket.ServeUserWs)
		r.Get("/tournaments/{tournamentID}", h.WebSocket.ServeTournamentWs)
	})

	router.Route("/api", func(r chi.Router) {
		r.Use(auth.Authenticate)

		r.Route("/auth", func(r chi.Router) {
			r.Use(httprate.LimitByIP(opts.AuthRateLimit, time.Minute))
			r.Post("/register", h.Auth.Register)
			r.Post("/login", h.Auth.Login)
		})

		r.Route("/games", func(r chi.Router) {
			r.Get("/", h.Game.ListGames)
			r.Get("/{gameID}", h.Game.GetGameByID)

			r.Group(func(r chi.Router) {
				r.Use(auth.RequireAdmin)
				r.Post("/", h.Game.CreateGame)
				r.Put("/{gameID}", h.Game.UpdateGame)
				r.Delete("/{gameID}", h.Game.DeleteGame)
			})
		})

		r.Route("/tournaments", func(r chi.Router) {
			r.Get("/", h.Tournament.ListHandler)
			r.Get("/{tournamentID}", h.Tournament.GetByIDHandler)
			r.Get("/{tournamentID}/participants", h.Tournament.ListParticipantsHandler)
			r.Get("/{tournamentID}/results", h.Tournament.ListResultsHandler)

			r.With(auth.RequireAuth).Post("/{tournamentID}/join", h.Tournament.JoinHandler)

			r.Group(func(r chi.Router) {
				r.Use(auth.RequireAdmin)
				r.Post("/", h.Tournament.CreateHandler)
				r.Put("/{tournamentID}", h.Tournament.UpdateHandler)
				r.Delete("/{tournamentID}", h.Tournament.DeleteHandler)
				r.Put("/{tournamentID}/banner", h.Tournament.UploadBannerHandler)
				r.Post("/{tournamentID}/results", h.Tournament.SubmitResultsHandler)
			})
		})

		r.Route("/teams", func(r chi.Router) {
			r.Get("/", h.Team.ListTeams)
			r.Get("/{teamID}", h.Team.GetTeamByID)
			r.Get("/{teamID}/members", h.Team.ListMembers)

			r.Group(func(r chi.Router) {
				r.Use(auth.RequireAuth)
				r.Post("/", h.Team.CreateTeam)
				r.Post("/join-by-code", h.Team.JoinByCode)
				r.Put("/{teamID}", h.Team.UpdateTeam)
				r.Delete("/{teamID}", h.Team.DeleteTeam)
				r.Post("/{teamID}/join", h.Team.JoinTeam)
			})
		})

		r.Route("/users", func(r chi.Router) {
			r.With(auth.RequireAdmin).Get("/", h.User.ListUsers)
			r.Get("/{userID}", h.User.GetUserByID)
			r.Get("/{userID}/tournaments", h.User.ListTournaments)
			r.Get("/{userID}/teams", h.User.ListTeams)

			r.Group(func(r chi.Router) {
				r.Use(auth.RequireAuth)
				r.Put("/{userID}", h.User.UpdateUserByID)
				r.Put("/{userID}/avatar", h.User.UploadUserAvatar)
				r.Get("/{userID}/transactions", h.User.ListTransactions)
				r.Get("/{userID}/notifications", h.User.ListNotifications)
				r.Put("/{userID}/notifications/read-all", h.User.MarkAllNotificationsRead)
				r.Get("/{userID}/referrals", h.User.ListReferrals)
			})
		})

		r.Get("/leaderboard", h.Leaderboard.Get)

		r.Route("/wallet", func(r chi.Router) {
			r.Use(auth.RequireAuth)
			r.Post("/add-money", h.Wallet.AddMoney)
			r.Post("/withdraw", h.Wallet.Withdraw)
		})

		r.Route("/transactions", func(r chi.Router) {
			r.Use(auth.RequireAdmin)
			r.Get("/", h.Admin.ListTransactions)
			r.Post("/", h.Admin.CreateTransaction)
		})

		r.With(auth.RequireAuth).Put("/notifications/{notificationID}/read", h.Notification.MarkRead)

		r.Route("/admin", func(r chi.Router) {
			r.Use(auth.RequireAdmin)
			r.Post("/notifications", h.Admin.SendNotification)
			r.Get("/stats", h.Admin.Stats)
		})
	})

	router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"message":"the requested resource could not be found"}` + "\n"))
	})
}
