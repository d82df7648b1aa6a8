package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"

	"support-bot/config"
	"support-bot/handlers"
	"support-bot/middleware"
	"support-bot/services"
	"support-bot/webhooks"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		slog.Info("No .env file found")
	}

	// Initialize structured logger
	logHandler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})
	slog.SetDefault(slog.New(logHandler))

	// Load configuration
	cfg := config.LoadConfig()

	// Load the keyword lexicon and response templates, with optional
	// YAML overrides
	lex, err := config.LoadLexicon(cfg.LexiconFile)
	if err != nil {
		slog.Error("Failed to load lexicon", "error", err)
		os.Exit(1)
	}
	tmpl, err := config.LoadTemplates(cfg.TemplatesFile)
	if err != nil {
		slog.Error("Failed to load templates", "error", err)
		os.Exit(1)
	}
	if cfg.DefaultLanguage != "" {
		lex.DefaultLanguage = config.Language(cfg.DefaultLanguage)
		tmpl.DefaultLanguage = config.Language(cfg.DefaultLanguage)
	}

	// Initialize MongoDB
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	db, err := services.InitMongoDB(ctx, cfg.MongoURI)
	if err != nil {
		slog.Error("Failed to connect to MongoDB", "error", err)
		os.Exit(1)
	}
	defer db.Disconnect(ctx)

	// Initialize services
	services.InitServices(db, cfg.DatabaseName)

	// Seed the default admin operator account
	if err := services.EnsureDefaultAdmin(ctx, cfg.AdminUsername, cfg.AdminPassword); err != nil {
		slog.Error("Failed to ensure default admin", "error", err)
	}

	// Background cleanup for operator sessions and idle chat sessions
	cleanupCtx, cancelCleanup := context.WithCancel(context.Background())
	defer cancelCleanup()
	services.StartSessionCleanup(cleanupCtx)

	chatSessions := services.NewSessionManager(cfg.SessionTTL)
	chatSessions.StartCleanup(cleanupCtx)

	// Wire the message pipeline
	bot := services.NewBotClient(cfg.BotAPIBase, cfg.BotToken, cfg.OperatorChatID)
	pipeline := services.NewPipeline(
		services.MongoStore{},
		bot,
		chatSessions,
		lex,
		tmpl,
		cfg.TypingDelay,
		cfg.MaxTypingDelay,
	)
	handlers.Configure(pipeline, bot)

	// Create Fiber app
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			slog.Error("Request error", "error", err, "status", code)
			return c.Status(code).JSON(fiber.Map{
				"error": err.Error(),
			})
		},
	})

	// Middleware
	app.Use(recover.New())

	app.Use(cors.New(cors.Config{
		AllowOrigins:     "http://localhost:5173, http://localhost:3000",
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS,PATCH",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, X-Requested-With",
		AllowCredentials: true,
		MaxAge:           86400,
	}))

	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${status} - ${method} ${path}\n",
	}))

	// Register webhook routes
	webhooks.RegisterRoutes(app, cfg)

	// Direct chat endpoint (no auth: this is the customer-facing surface)
	app.Post("/api/chat", handlers.HandleChat)

	auth := app.Group("/auth")
	auth.Post("/login", handlers.Login)
	auth.Post("/logout", handlers.Logout)
	auth.Get("/me", handlers.GetCurrentOperator)
	auth.Get("/check", handlers.CheckSession)

	// Dashboard API endpoints (protected)
	dashboard := app.Group("/api/dashboard", middleware.RequireAuth)

	dashboard.Get("/conversations", handlers.GetConversations)
	dashboard.Get("/messages/:userID", handlers.GetUserMessages)

	// Customer endpoints
	dashboard.Get("/customers", handlers.GetCustomersList)
	dashboard.Get("/customers/:userID", handlers.GetCustomerDetails)
	dashboard.Post("/customers/:userID/message", handlers.SendMessageToCustomer)
	dashboard.Post("/customers/:userID/media", handlers.SendMediaToCustomer)

	// Deposit problem queue
	dashboard.Get("/problems", handlers.GetDepositProblems)
	dashboard.Post("/problems/:userID/resolve", handlers.ResolveDepositProblem)

	// Transaction ledger
	dashboard.Get("/transactions/:orderNumber", handlers.LookupTransaction)
	dashboard.Post("/import/:ledger", handlers.UploadLedgerFile)
	dashboard.Get("/imports", handlers.GetImportBatches)

	// WebSocket endpoint (requires authentication)
	dashboard.Get("/ws", handlers.WebSocketUpgrade, websocket.New(handlers.HandleWebSocket))

	// Health check
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":      "ok",
			"service":     "support-bot",
			"connections": services.GetWebSocketManager().GetConnectionCount(),
		})
	})

	// Start server
	slog.Info("Server starting", "port", cfg.Port)
	if err := app.Listen(":" + cfg.Port); err != nil {
		slog.Error("Server failed to start", "error", err)
		os.Exit(1)
	}
}
