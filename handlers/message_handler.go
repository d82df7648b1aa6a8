package handlers

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"

	"support-bot/models"
	"support-bot/services"
)

var (
	pipeline *services.Pipeline
	bot      *services.BotClient
)

// Configure wires the chat pipeline and platform client into the handler
// layer. Called once from main before routes are registered.
func Configure(p *services.Pipeline, b *services.BotClient) {
	pipeline = p
	bot = b
}

// ChatRequest is the direct chat API payload.
type ChatRequest struct {
	UserID  string `json:"user_id"`
	Message string `json:"message"`
}

// OrderInfo reports the reconciliation short-circuit outcome: which ledger
// the reference belongs to and the matched record when one was found.
type OrderInfo struct {
	Ledger models.Ledger             `json:"ledger"`
	Number string                    `json:"number"`
	Record *models.TransactionRecord `json:"record,omitempty"`
}

// ChatResponse is the chat API reply body.
type ChatResponse struct {
	*services.ChatResult
	Order *OrderInfo `json:"order,omitempty"`
}

// HandleChat processes POST /api/chat for web-widget clients.
func HandleChat(c *fiber.Ctx) error {
	var req ChatRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	result, err := pipeline.HandleMessage(c.Context(), req.UserID, req.Message)
	if err != nil {
		if errors.Is(err, services.ErrInvalidInput) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": err.Error(),
			})
		}
		slog.Error("Chat pipeline failed", "userID", req.UserID, "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to process message",
		})
	}

	broadcastChatEvents(req.UserID, req.Message, result)

	return c.JSON(buildChatResponse(result))
}

// HandleIncoming processes a message that arrived through the platform
// webhook: run the pipeline and send the reply back through the bot API.
// Runs inside the webhook's processing goroutine.
func HandleIncoming(userID, chatID, text string) {
	ctx, cancel := context.WithTimeout(context.Background(), 90*time.Second)
	defer cancel()

	slog.Info("Handling message", "userID", userID, "chatID", chatID, "message", text)

	result, err := pipeline.HandleMessage(ctx, userID, text)
	if err != nil {
		slog.Error("Chat pipeline failed", "userID", userID, "error", err)
		return
	}

	if err := bot.SendMessage(ctx, chatID, result.Response); err != nil {
		slog.Error("Failed to send reply", "userID", userID, "chatID", chatID, "error", err)
	}

	broadcastChatEvents(userID, text, result)
}

func buildChatResponse(result *services.ChatResult) ChatResponse {
	response := ChatResponse{ChatResult: result}
	if result.OrderRef != nil {
		response.Order = &OrderInfo{
			Ledger: result.OrderRef.Ledger,
			Number: result.OrderRef.Number,
			Record: result.Record,
		}
	}
	return response
}

// broadcastChatEvents pushes dashboard events for this turn.
func broadcastChatEvents(userID, text string, result *services.ChatResult) {
	ws := services.GetWebSocketManager()

	ws.Broadcast(services.EventNewMessage, fiber.Map{
		"user_id":   userID,
		"message":   text,
		"response":  result.Response,
		"language":  result.Language,
		"category":  result.Category,
		"escalated": result.Escalated,
	})

	if result.Escalated {
		ws.Broadcast(services.EventEscalation, fiber.Map{
			"user_id":  userID,
			"message":  text,
			"category": result.Category,
			"language": result.Language,
		})
	}

	if result.ProblemReported {
		ws.Broadcast(services.EventDepositProblem, fiber.Map{
			"user_id":      userID,
			"order_number": result.ProblemOrderNumber,
			"description":  text,
		})
	}
}
