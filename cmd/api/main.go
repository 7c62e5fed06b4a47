package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"go-maquis-pos/internal/handler"
	"go-maquis-pos/internal/ledger"
	"go-maquis-pos/internal/middleware"
	"go-maquis-pos/internal/model"
	"go-maquis-pos/internal/service"
	"go-maquis-pos/internal/store"
	"go-maquis-pos/internal/ws"
	"go-maquis-pos/pkg/database"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
)

func main() {
	// 1. Load Env
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}

	// 2. Setup Database & Record Store
	db := database.ConnectDB()
	if err := store.Migrate(db); err != nil {
		log.Fatal("Failed to migrate records table: ", err)
	}
	recordStore := store.NewGorm(db)

	// 3. Ledger Engine + one-time seed
	engine := ledger.New(recordStore)
	if err := engine.Seed(); err != nil {
		log.Fatal("Failed to seed store: ", err)
	}

	// 4. Setup WebSocket Hub
	wsHub := ws.NewHub()
	go wsHub.Run()

	// 5. Dependency Injection (Wiring Layers)
	authService := service.NewAuthService(engine)

	ledgerHandler := handler.NewLedgerHandler(engine, wsHub)
	dashHandler := handler.NewDashboardHandler(engine)
	authHandler := handler.NewAuthHandler(authService)
	userHandler := handler.NewUserHandler(engine)

	// 6. Setup Fiber
	app := fiber.New(fiber.Config{
		AppName: "MaquisPay POS v1.0",
	})

	// Middleware
	app.Use(logger.New())  // Logging request
	app.Use(recover.New()) // Panic recovery
	app.Use(cors.New())    // CORS

	// 7. Routes
	api := app.Group("/api/v1")

	// ============ PUBLIC ROUTES ============
	auth := api.Group("/auth")
	auth.Post("/login", authHandler.Login)
	auth.Post("/validate-token", authHandler.ValidateToken)

	// ============ PROTECTED ROUTES ============
	protected := api.Group("", middleware.RequireAuth(engine))

	// Sales floor (any authenticated operator)
	protected.Get("/products", ledgerHandler.GetProducts)
	protected.Get("/products/active", ledgerHandler.GetActiveProducts)
	protected.Get("/sales", ledgerHandler.GetSales)
	protected.Post("/sales", ledgerHandler.CreateSale)

	// Manager-only ledger actions
	manager := protected.Group("", middleware.RequireRole(model.RoleManager))
	manager.Post("/products/:id/stock", ledgerHandler.AdjustStock)
	manager.Patch("/products/:id/active", ledgerHandler.ToggleProductActive)
	manager.Post("/sales/:id/cancel", ledgerHandler.CancelSale)
	manager.Get("/movements", ledgerHandler.GetMovements)
	manager.Get("/dashboard/stats", dashHandler.GetStats)
	manager.Get("/dashboard/stock-movement", dashHandler.GetStockMovement)
	manager.Get("/users", userHandler.GetUsers)

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
			// Keep alive loop
			if _, _, err := c.ReadMessage(); err != nil {
				break
			}
		}
	}))

	// 8. Graceful Shutdown
	go func() {
		port := os.Getenv("PORT")
		if port == "" {
			port = "3000"
		}
		if err := app.Listen(":" + port); err != nil {
			log.Panic(err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	if err := app.Shutdown(); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exited")
}
