package main

import (
	"context"

	"github.com/gin-contrib/sessions"
	redisStore "github.com/gin-contrib/sessions/redis"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/Entelsac/ENTEL-SAC/internal/config"
	"github.com/Entelsac/ENTEL-SAC/internal/constants"
	"github.com/Entelsac/ENTEL-SAC/internal/database"
	"github.com/Entelsac/ENTEL-SAC/internal/handlers"
	"github.com/Entelsac/ENTEL-SAC/internal/middleware"
	"github.com/Entelsac/ENTEL-SAC/internal/models"
	"github.com/Entelsac/ENTEL-SAC/internal/notifier"
	"github.com/Entelsac/ENTEL-SAC/internal/repository"
	"github.com/Entelsac/ENTEL-SAC/internal/services"
	"github.com/Entelsac/ENTEL-SAC/internal/storage"
	"github.com/Entelsac/ENTEL-SAC/pkg/logger"
)

func main() {
	ctx := context.Background()

	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg, err := config.Load(ctx)
	if err != nil {
		panic(err)
	}

	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.GinMode != "release",
	})

	gin.SetMode(cfg.GinMode)

	if err := database.Connect(cfg); err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	if err := database.Migrate(); err != nil {
		log.Fatal().Err(err).Msg("failed to run migrations")
	}
	if cfg.DBDriver == "postgres" {
		if err := database.AddIndexes(database.GetDB()); err != nil {
			log.Fatal().Err(err).Msg("failed to add indexes")
		}
	}
	if err := database.EnsureBootstrapUsers(database.GetDB(), cfg); err != nil {
		log.Fatal().Err(err).Msg("failed to seed bootstrap users")
	}

	store, err := storage.NewLocalStore(cfg.UploadDir)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to prepare upload directory")
	}

	// Notifications are best-effort: a missing token just disables them.
	var notify notifier.Notifier = notifier.Nop{}
	if cfg.TelegramToken != "" {
		tg, err := notifier.NewTelegram(cfg.TelegramToken, cfg.TelegramChatID, log)
		if err != nil {
			log.Warn().Err(err).Msg("telegram notifier disabled")
		} else {
			tg.Start(ctx)
			notify = tg
		}
	}

	userRepo := repository.NewUserRepository(database.GetDB())
	orderRepo := repository.NewOrderRepository(database.GetDB())

	authService := services.NewAuthService(userRepo)
	orderService := services.NewOrderService(orderRepo, userRepo, store, notify, cfg.OrderCreditCost)
	userService := services.NewUserService(userRepo, notify)

	authHandler := handlers.NewAuthHandler(authService)
	orderHandler := handlers.NewOrderHandler(orderService)
	adminHandler := handlers.NewAdminHandler(userService)
	pagesHandler := handlers.NewPagesHandler(cfg.SupportContact)

	r := gin.Default()

	redisAddr := cfg.RedisHost + ":" + cfg.RedisPort
	sessionStore, err := redisStore.NewStore(
		10,
		"tcp",
		redisAddr,
		"",
		"",
		[]byte(cfg.SessionSecret),
	)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create session store")
	}
	isProduction := cfg.GinMode == "release"
	sessionStore.Options(sessions.Options{
		Path:     "/",
		MaxAge:   constants.SessionMaxAgeSecond,
		HttpOnly: true,
		Secure:   isProduction,
		SameSite: 2, // SameSite=Lax
	})
	r.Use(sessions.Sessions(constants.SessionCookieName, sessionStore))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status": "ok",
		})
	})

	api := r.Group("/api")
	{
		auth := api.Group("/auth")
		{
			auth.POST("/login", authHandler.Login)
			auth.POST("/logout", authHandler.Logout)
			auth.GET("/me", middleware.RequireAuth(), authHandler.GetCurrentUser)
		}

		authed := api.Group("")
		authed.Use(middleware.RequireAuth())
		{
			authed.GET("/dashboard", orderHandler.Dashboard)
			authed.GET("/pages/plans", pagesHandler.Plans)
			authed.GET("/pages/support", pagesHandler.Support)

			authed.POST("/orders", orderHandler.CreateOrder)
			authed.GET("/orders", orderHandler.ListOrders)
			authed.GET("/orders/:id", orderHandler.GetOrder)
			authed.POST("/orders/:id/claim", orderHandler.ClaimOrder)
			authed.POST("/orders/:id/pdf", orderHandler.UploadPDF)
			authed.GET("/pdfs/:id", orderHandler.DownloadPDF)
		}

		admin := api.Group("/admin")
		admin.Use(middleware.RequireAuth(), middleware.RequireRole(models.RoleAdmin, models.RoleSuperadmin))
		{
			admin.GET("/users", adminHandler.ListUsers)
			admin.POST("/users", adminHandler.CreateUser)
			admin.POST("/users/:id/credits", adminHandler.AddCredits)
			admin.DELETE("/users/:id", adminHandler.DeleteUser)
		}
	}

	log.Info().Str("port", cfg.Port).Msg("server starting")
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatal().Err(err).Msg("failed to start server")
	}
}
