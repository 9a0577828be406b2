package routes

import (
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/cuearena/tournament-engine/handlers"
	"github.com/cuearena/tournament-engine/middleware"
	"github.com/cuearena/tournament-engine/models"
)

type Handlers struct {
	Tournament  *handlers.TournamentHandler
	Participant *handlers.ParticipantHandler
	Match       *handlers.MatchHandler
	Payout      *handlers.PayoutHandler
	Wallet      *handlers.WalletHandler
	Evidence    *handlers.EvidenceHandler
	Webhook     *handlers.WebhookHandler
}

func InitRoutes(h Handlers, jwtSecret string) *chi.Mux {
	router := chi.NewRouter()

	router.Use(chiMiddleware.RequestID)
	router.Use(chiMiddleware.RealIP)
	router.Use(chiMiddleware.Logger)
	router.Use(chiMiddleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		MaxAge:         300,
	}))

	authenticate := middleware.Authenticate(jwtSecret)

	// Provider callbacks authenticate with an HMAC signature, not a JWT.
	router.Post("/webhooks/payments", h.Webhook.PaymentWebhookHandler)

	router.Route("/tournaments", func(r chi.Router) {
		r.Get("/", h.Tournament.ListHandler)
		r.Get("/{tournamentID}", h.Tournament.GetByIDHandler)
		r.Get("/{tournamentID}/bracket", h.Tournament.BracketHandler)
		r.Get("/{tournamentID}/participants", h.Participant.ListHandler)

		r.Group(func(r chi.Router) {
			r.Use(authenticate)

			r.Post("/{tournamentID}/participants", h.Participant.RegisterHandler)
			r.Delete("/{tournamentID}/participants/me", h.Participant.WithdrawHandler)

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireRole(models.RoleOrganizer, models.RoleAdmin))

				r.Post("/", h.Tournament.CreateHandler)
				r.Post("/{tournamentID}/open-registration", h.Tournament.OpenRegistrationHandler)
				r.Post("/{tournamentID}/start", h.Tournament.StartHandler)
				r.Post("/{tournamentID}/cancel", h.Tournament.CancelHandler)
				r.Delete("/{tournamentID}/participants/{participantID}", h.Participant.RemoveHandler)
				r.Put("/{tournamentID}/participants/{participantID}/seed", h.Participant.AssignSeedHandler)
			})

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireRole(models.RoleSupport, models.RoleAdmin))

				r.Post("/{tournamentID}/approve", h.Tournament.ApproveReviewHandler)
				r.Post("/{tournamentID}/reject", h.Tournament.RejectReviewHandler)
			})

			r.With(middleware.RequireRole(models.RoleAdmin)).
				Post("/{tournamentID}/complete", h.Tournament.AdminCompleteHandler)
		})
	})

	router.Route("/matches", func(r chi.Router) {
		r.Get("/{matchID}", h.Match.GetByIDHandler)
		r.Get("/{matchID}/evidence", h.Evidence.ListHandler)

		r.Group(func(r chi.Router) {
			r.Use(authenticate)

			r.Post("/{matchID}/result", h.Match.SubmitResultHandler)
			r.Post("/{matchID}/confirm", h.Match.ConfirmResultHandler)
			r.Post("/{matchID}/dispute", h.Match.DisputeResultHandler)
			r.Post("/{matchID}/no-show", h.Match.ReportNoShowHandler)
			r.Post("/{matchID}/evidence", h.Evidence.UploadHandler)

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireRole(models.RoleOrganizer, models.RoleSupport, models.RoleAdmin))

				r.Post("/{matchID}/resolve", h.Match.ResolveDisputeHandler)
				r.Post("/{matchID}/walkover", h.Match.AwardWalkoverHandler)
			})
		})
	})

	router.Get("/players/{playerID}/matches", h.Match.PlayerHistoryHandler)

	router.With(middleware.Authenticate(jwtSecret)).
		Delete("/evidence/{evidenceID}", h.Evidence.DeleteHandler)

	router.Group(func(r chi.Router) {
		r.Use(authenticate)
		r.Use(middleware.RequireRole(models.RoleOrganizer, models.RoleAdmin))

		r.Get("/wallet", h.Wallet.GetHandler)
		r.Get("/wallet/transactions", h.Wallet.ListTransactionsHandler)

		r.Post("/payouts", h.Payout.RequestHandler)
		r.Get("/payouts", h.Payout.ListMineHandler)
		r.Get("/payouts/{payoutID}", h.Payout.GetByIDHandler)

		r.Post("/payout-methods", h.Payout.AddMethodHandler)
		r.Get("/payout-methods", h.Payout.ListMethodsHandler)
	})

	router.Route("/admin/payouts", func(r chi.Router) {
		r.Use(authenticate)

		r.With(middleware.RequireRole(models.RoleSupport, models.RoleAdmin)).
			Get("/", h.Payout.ListByStatusHandler)
		r.With(middleware.RequireRole(models.RoleSupport, models.RoleAdmin)).
			Post("/{payoutID}/support-confirm", h.Payout.SupportConfirmHandler)
		r.With(middleware.RequireRole(models.RoleSupport, models.RoleAdmin)).
			Post("/{payoutID}/reject", h.Payout.RejectHandler)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireRole(models.RoleAdmin))

			r.Post("/{payoutID}/approve", h.Payout.AdminApproveHandler)
			r.Post("/{payoutID}/retry", h.Payout.RetryHandler)
		})
	})

	return router
}
