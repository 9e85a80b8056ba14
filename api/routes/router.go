package routes

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/sharehub-app/sharehub-backend/api/controllers"
	"github.com/sharehub-app/sharehub-backend/api/middleware"
	"github.com/sharehub-app/sharehub-backend/internal/admin"
	"github.com/sharehub-app/sharehub-backend/internal/auth"
	"github.com/sharehub-app/sharehub-backend/internal/favorites"
	item "github.com/sharehub-app/sharehub-backend/internal/items"
	"github.com/sharehub-app/sharehub-backend/internal/messages"
	"github.com/sharehub-app/sharehub-backend/internal/ngos"
	"github.com/sharehub-app/sharehub-backend/internal/notifications"
	"github.com/sharehub-app/sharehub-backend/internal/users"
	"github.com/sharehub-app/sharehub-backend/pkg/auth/session"
	"github.com/sharehub-app/sharehub-backend/pkg/config"
	"github.com/sharehub-app/sharehub-backend/pkg/enums"
	"github.com/sharehub-app/sharehub-backend/pkg/logger"
	"github.com/sharehub-app/sharehub-backend/pkg/metrics"
	pkgredis "github.com/sharehub-app/sharehub-backend/pkg/redis"
)

type pinger interface {
	Ping(ctx context.Context) error
}

// redisStore covers the Redis surface the router's middleware needs.
type redisStore interface {
	pkgredis.IdempotencyStore
	FixedWindowAllow(ctx context.Context, scope string, limit int64, window time.Duration) (bool, int64, error)
	Ping(ctx context.Context) error
}

// Params carries everything the router wires together.
type Params struct {
	Config         *config.Config
	Logger         *logger.Logger
	DB             pinger
	Redis          redisStore
	SessionManager session.AccessSessionChecker
	Metrics        *metrics.HTTPMetrics

	AuthService          auth.Service
	UsersService         users.Service
	ItemsService         item.Service
	FavoritesService     favorites.Service
	MessagesService      messages.Service
	NotificationsService notifications.Service
	NGOService           ngos.Service
	AdminService         admin.Service
}

func NewRouter(p Params) http.Handler {
	cfg := p.Config
	logg := p.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(p.Metrics),
		middleware.CORS(),
	)

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginEmailLimit,
	)
	registerPolicy := middleware.NewAuthRateLimitPolicy(
		"register",
		cfg.AuthRateLimit.RegisterWindow,
		cfg.AuthRateLimit.RegisterIPLimit,
		cfg.AuthRateLimit.RegisterEmailLimit,
	)

	authed := func(r chi.Router) chi.Router {
		return r.With(
			middleware.Auth(cfg.JWT, p.SessionManager, logg),
			middleware.Idempotency(p.Redis, logg),
		)
	}

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, p.DB, p.Redis, logg))
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.With(middleware.AuthRateLimit(registerPolicy, p.Redis, logg), middleware.Idempotency(p.Redis, logg)).
				Post("/register", controllers.Register(p.AuthService, logg))
			r.With(middleware.AuthRateLimit(loginPolicy, p.Redis, logg)).
				Post("/login", controllers.Login(p.AuthService, logg))
			r.Post("/refresh", controllers.Refresh(p.AuthService, logg))
			r.Post("/logout", controllers.Logout(p.AuthService, cfg.JWT, logg))
		})

		r.Route("/items", func(r chi.Router) {
			r.Get("/", controllers.ListItems(p.ItemsService, logg))
			r.Get("/search", controllers.SearchItems(p.ItemsService, logg))
			r.Get("/nearby", controllers.NearbyItems(p.ItemsService, logg))
			authed(r).Post("/", controllers.CreateItem(p.ItemsService, logg))
			r.Route("/{itemID}", func(r chi.Router) {
				r.Get("/", controllers.GetItem(p.ItemsService, logg))
				r.Group(func(r chi.Router) {
					r.Use(
						middleware.Auth(cfg.JWT, p.SessionManager, logg),
						middleware.Idempotency(p.Redis, logg),
					)
					r.Patch("/", controllers.UpdateItem(p.ItemsService, logg))
					r.Delete("/", controllers.DeleteItem(p.ItemsService, logg))
					r.Post("/status", controllers.SetItemStatus(p.ItemsService, logg))
					r.Post("/favorite", controllers.AddFavorite(p.FavoritesService, logg))
					r.Delete("/favorite", controllers.RemoveFavorite(p.FavoritesService, logg))
					r.With(middleware.RequireRole(string(enums.UserRoleNGO), logg)).
						Post("/donation-request", controllers.RequestDonation(p.NGOService, logg))
				})
			})
		})

		r.Route("/ngos", func(r chi.Router) {
			r.Get("/", controllers.ListNGOs(p.NGOService, logg))
			authed(r).Get("/me", controllers.GetOwnNGO(p.NGOService, logg))
			authed(r).With(middleware.RequireRole(string(enums.UserRoleNGO), logg)).
				Post("/", controllers.RegisterNGO(p.NGOService, logg))
			r.Get("/{ngoID}", controllers.GetNGO(p.NGOService, logg))
			authed(r).Patch("/{ngoID}", controllers.UpdateNGO(p.NGOService, logg))
		})

		r.Group(func(r chi.Router) {
			r.Use(
				middleware.Auth(cfg.JWT, p.SessionManager, logg),
				middleware.Idempotency(p.Redis, logg),
			)

			r.Route("/users/me", func(r chi.Router) {
				r.Get("/", controllers.GetProfile(p.UsersService, logg))
				r.Patch("/", controllers.UpdateProfile(p.UsersService, logg))
				r.Get("/items", controllers.ListOwnItems(p.ItemsService, logg))
			})

			r.Route("/favorites", func(r chi.Router) {
				r.Get("/", controllers.ListFavorites(p.FavoritesService, logg))
				r.Get("/ids", controllers.ListFavoriteIDs(p.FavoritesService, logg))
			})

			r.Route("/conversations", func(r chi.Router) {
				r.Get("/", controllers.ListConversations(p.MessagesService, logg))
				r.Post("/", controllers.StartConversation(p.MessagesService, logg))
				r.Route("/{conversationID}", func(r chi.Router) {
					r.Get("/messages", controllers.ListMessages(p.MessagesService, logg))
					r.Post("/messages", controllers.SendMessage(p.MessagesService, logg))
				})
			})
			r.Get("/messages/unread-count", controllers.UnreadMessageCount(p.MessagesService, logg))

			r.Route("/notifications", func(r chi.Router) {
				r.Get("/", controllers.ListNotifications(p.NotificationsService, logg))
				r.Get("/unread-count", controllers.UnreadNotificationCount(p.NotificationsService, logg))
				r.Post("/{notificationID}/read", controllers.MarkNotificationRead(p.NotificationsService, logg))
				r.Post("/read-all", controllers.MarkAllNotificationsRead(p.NotificationsService, logg))
			})

			r.Route("/admin", func(r chi.Router) {
				r.Use(middleware.RequireRole(string(enums.UserRoleAdmin), logg))
				r.Get("/dashboard", controllers.AdminDashboard(p.AdminService, logg))
				r.Get("/users", controllers.AdminListUsers(p.AdminService, logg))
				r.Post("/users/{userID}/active", controllers.AdminSetUserActive(p.AdminService, logg))
				r.Post("/ngos/{ngoID}/verify", controllers.VerifyNGO(p.NGOService, logg))
			})
		})
	})

	return r
}
