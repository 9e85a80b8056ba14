package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/sharehub-app/sharehub-backend/api/routes"
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
	"github.com/sharehub-app/sharehub-backend/pkg/db"
	"github.com/sharehub-app/sharehub-backend/pkg/logger"
	"github.com/sharehub-app/sharehub-backend/pkg/metrics"
	"github.com/sharehub-app/sharehub-backend/pkg/migrate"
	"github.com/sharehub-app/sharehub-backend/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	sessionManager, err := session.NewManager(redisClient, cfg.JWT)
	if err != nil {
		logg.Error(context.Background(), "failed to create session manager", err)
		os.Exit(1)
	}

	userRepo := users.NewRepository(dbClient.DB())
	itemRepo := item.NewRepository(dbClient.DB())
	favoritesRepo := favorites.NewRepository(dbClient.DB())
	messagesRepo := messages.NewRepository(dbClient.DB())
	notificationsRepo := notifications.NewRepository(dbClient.DB())
	ngoRepo := ngos.NewRepository(dbClient.DB())

	emitter, err := notifications.NewEmitter(notificationsRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create notification emitter", err)
		os.Exit(1)
	}

	authService, err := auth.NewService(auth.ServiceParams{
		UserRepo:       userRepo,
		SessionManager: sessionManager,
		JWTConfig:      cfg.JWT,
		PasswordConfig: cfg.Password,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create auth service", err)
		os.Exit(1)
	}

	usersService, err := users.NewService(userRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create users service", err)
		os.Exit(1)
	}

	viewCounter := item.NewViewCounter(redisClient, cfg.Listing.ViewFlushWindow)
	itemsService, err := item.NewService(itemRepo, viewCounter,
		item.WithStatusNotifier(emitter, favoritesRepo))
	if err != nil {
		logg.Error(context.Background(), "failed to create items service", err)
		os.Exit(1)
	}

	favoritesService, err := favorites.NewService(favorites.ServiceParams{
		FavoritesRepo: favoritesRepo,
		ItemRepo:      itemRepo,
		Notifier:      emitter,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create favorites service", err)
		os.Exit(1)
	}

	messagesService, err := messages.NewService(messages.ServiceParams{
		Repo:     messagesRepo,
		DB:       dbClient,
		ItemRepo: itemRepo,
		Notifier: emitter,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create messages service", err)
		os.Exit(1)
	}

	notificationsService, err := notifications.NewService(notificationsRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create notifications service", err)
		os.Exit(1)
	}

	ngoService, err := ngos.NewService(ngos.ServiceParams{
		Repo:     ngoRepo,
		ItemRepo: itemRepo,
		UserRepo: userRepo,
		Notifier: emitter,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create ngo service", err)
		os.Exit(1)
	}

	adminService, err := admin.NewService(admin.ServiceParams{
		Users: userRepo,
		Items: itemRepo,
		NGOs:  ngoRepo,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create admin service", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(routes.Params{
			Config:         cfg,
			Logger:         logg,
			DB:             dbClient,
			Redis:          redisClient,
			SessionManager: sessionManager,
			Metrics:        metrics.NewHTTPMetrics(prometheus.DefaultRegisterer),

			AuthService:          authService,
			UsersService:         usersService,
			ItemsService:         itemsService,
			FavoritesService:     favoritesService,
			MessagesService:      messagesService,
			NotificationsService: notificationsService,
			NGOService:           ngoService,
			AdminService:         adminService,
		}),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
