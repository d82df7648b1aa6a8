package webhooks

import (
	"log/slog"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"support-bot/config"
	"support-bot/handlers"
)

func RegisterRoutes(app *fiber.App, cfg *config.Config) {
	webhook := app.Group("/webhook")

	// Webhook verification endpoint
	webhook.Get("/", verifyWebhook(cfg))

	// Webhook update handler
	webhook.Post("/", handleWebhookUpdate(cfg))
}

// verifyWebhook confirms the webhook subscription with the bot platform
func verifyWebhook(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		mode := c.Query("hub.mode")
		token := c.Query("hub.verify_token")
		challenge := c.Query("hub.challenge")

		if mode == "subscribe" && token == cfg.VerifyToken {
			slog.Info("Webhook verified successfully")
			return c.SendString(challenge)
		}

		slog.Warn("Webhook verification failed", "mode", mode, "token", token)
		return c.SendStatus(fiber.StatusForbidden)
	}
}

// handleWebhookUpdate processes incoming updates
func handleWebhookUpdate(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		secret := c.Get("X-Bot-Api-Secret-Token")
		if cfg.VerifyToken != "" && secret != cfg.VerifyToken {
			slog.Warn("Webhook update with invalid secret token")
			return c.SendStatus(fiber.StatusForbidden)
		}

		var update Update
		if err := c.BodyParser(&update); err != nil {
			slog.Error("Failed to parse webhook body", "error", err)
			return c.SendStatus(fiber.StatusBadRequest)
		}

		// Process asynchronously, ack the platform immediately
		go processUpdate(update)

		return c.SendString("EVENT_RECEIVED")
	}
}

// processUpdate handles a single update in a separate goroutine
func processUpdate(update Update) {
	msg := update.Message
	if msg == nil || msg.Chat == nil {
		return
	}
	if msg.From != nil && msg.From.IsBot {
		return
	}
	if msg.Text == "" {
		slog.Info("Skipping non-text message", "updateID", update.UpdateID, "chatID", msg.Chat.ID)
		return
	}

	userID := strconv.FormatInt(msg.Chat.ID, 10)
	if msg.From != nil {
		userID = strconv.FormatInt(msg.From.ID, 10)
	}
	chatID := strconv.FormatInt(msg.Chat.ID, 10)

	slog.Info("Processing webhook update", "updateID", update.UpdateID, "userID", userID)

	handlers.HandleIncoming(userID, chatID, msg.Text)
}
