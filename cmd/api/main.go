package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go-fleet-ws/internal/document"
	"go-fleet-ws/internal/handler"
	"go-fleet-ws/internal/middleware"
	"go-fleet-ws/internal/model"
	"go-fleet-ws/internal/notify"
	"go-fleet-ws/internal/repository"
	"go-fleet-ws/internal/service"
	"go-fleet-ws/internal/storage"
	"go-fleet-ws/internal/ws"
	"go-fleet-ws/pkg/config"
	"go-fleet-ws/pkg/database"
	"go-fleet-ws/pkg/jwt"

	"github.com/apex/log"
	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

func main() {
	// 1. Config
	cfg := config.Load()
	jwt.SetSecret(cfg.JWTSecret)

	// 2. Database
	db := database.MustConnect(cfg.DBDriver, cfg.DatabaseURL)
	if err := repository.Migrate(db); err != nil {
		log.WithError(err).Fatal("migrate")
	}

	// 3. Repositories and seed data
	userRepo := repository.NewUserRepo(db)
	privilegeRepo := repository.NewPrivilegeRepo(db)
	roleRepo := repository.NewRoleRepo(db)
	transferRepo := repository.NewTransferRepo(db)
	machineRepo := repository.NewMachineRepo(db)
	siteRepo := repository.NewSiteRepo(db)

	seedService := service.NewSeedService(privilegeRepo, roleRepo, userRepo)
	if err := seedService.SeedAccessControl(); err != nil {
		log.WithError(err).Fatal("seed access control")
	}
	if _, err := seedService.EnsureAdmin(cfg.AdminEmail, cfg.AdminPassword, "Master Administrator"); err != nil {
		log.WithError(err).Warn("failed to create admin user")
	}

	// 4. WebSocket hub and notifiers
	wsHub := ws.NewHub()
	go wsHub.Run()

	notifiers := notify.Multi{wsHub}
	if cfg.WebhookURL != "" {
		notifiers = append(notifiers, notify.NewWebhookNotifier(cfg.WebhookURL, 10*time.Second))
	}

	// 5. Object store and challan renderer
	store, err := storage.Open(context.Background(), cfg)
	if err != nil {
		log.WithError(err).Fatal("open object store")
	}
	renderer := document.NewChromeRenderer(cfg.ChallanTimeout)

	// 6. Services
	transferService := service.NewTransferService(db, transferRepo, machineRepo, siteRepo, notifiers)
	receiptService := service.NewReceiptService(transferService, transferRepo)
	challanService := service.NewChallanService(transferRepo, userRepo, renderer, store)
	attachmentService := service.NewAttachmentService(transferRepo, store)
	fleetService := service.NewFleetService(machineRepo, siteRepo)
	dashService := service.NewDashboardService(transferRepo)
	authService := service.NewAuthService(userRepo)
	userService := service.NewUserService(userRepo, roleRepo)

	transferHandler := handler.NewTransferHandler(transferService, receiptService, challanService, attachmentService)
	fleetHandler := handler.NewFleetHandler(fleetService)
	dashHandler := handler.NewDashboardHandler(dashService)
	authHandler := handler.NewAuthHandler(authService)
	userHandler := handler.NewUserHandler(userService)
	roleHandler := handler.NewRoleHandler(roleRepo, privilegeRepo)

	// 7. Fiber
	app := fiber.New(fiber.Config{
		AppName:   "Fleet Transfer API v1.0",
		BodyLimit: service.MaxAttachmentSize + 1<<20,
	})

	app.Use(logger.New())
	app.Use(recover.New())
	app.Use(cors.New())

	api := app.Group("/api/v1")

	// ============ PUBLIC ROUTES ============
	auth := api.Group("/auth")
	auth.Post("/login", authHandler.Login)
	auth.Post("/reset-password", authHandler.ChangePassword)
	auth.Post("/validate-token", authHandler.ValidateToken)

	// ============ PROTECTED ROUTES ============
	protected := api.Group("", middleware.RequireAuth(userRepo))

	protected.Get("/dashboard/stats", middleware.RequirePrivilege(model.PrivDashboardView), dashHandler.GetDashboardStats)

	handler.RegisterTransferRoutes(protected.Group("/transfers"), transferHandler, middleware.RequirePrivilege)
	handler.RegisterFleetRoutes(protected, fleetHandler, middleware.RequirePrivilege)

	protected.Get("/users", middleware.RequirePrivilege(model.PrivUserCreate), userHandler.GetUsers)
	protected.Post("/users", middleware.RequirePrivilege(model.PrivUserCreate), userHandler.CreateUser)
	protected.Get("/roles", roleHandler.GetRoles)
	protected.Get("/privileges", roleHandler.GetPrivileges)

	// WebSocket Route
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return c.SendStatus(fiber.StatusUpgradeRequired)
	})
	app.Get("/ws", websocket.New(func(c *websocket.Conn) {
		wsHub.Register <- c
		defer func() { wsHub.Unregister <- c }()

		for {
			if _, _, err := c.ReadMessage(); err != nil {
				break
			}
		}
	}))

	// 8. Graceful Shutdown
	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.WithError(err).Fatal("listen")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")
	if err := app.Shutdown(); err != nil {
		log.WithError(err).Fatal("Server forced to shutdown")
	}
	log.Info("Server exited")
}
