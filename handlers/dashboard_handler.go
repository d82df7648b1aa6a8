package handlers

import (
	"io"
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"

	"support-bot/models"
	"support-bot/services"
)

// GetConversations handles GET /api/dashboard/conversations: customers
// ordered by most recent activity, which is the conversation list.
func GetConversations(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 50)
	skip := c.QueryInt("skip", 0)

	customers, total, err := services.GetCustomers(c.Context(), limit, skip)
	if err != nil {
		slog.Error("Failed to load conversations", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to load conversations",
		})
	}

	return c.JSON(fiber.Map{
		"conversations": customers,
		"total":         total,
		"limit":         limit,
		"skip":          skip,
	})
}

// GetCustomersList handles GET /api/dashboard/customers.
func GetCustomersList(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 50)
	skip := c.QueryInt("skip", 0)

	customers, total, err := services.GetCustomers(c.Context(), limit, skip)
	if err != nil {
		slog.Error("Failed to load customers", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to load customers",
		})
	}

	return c.JSON(fiber.Map{
		"customers": customers,
		"total":     total,
		"limit":     limit,
		"skip":      skip,
	})
}

// GetUserMessages handles GET /api/dashboard/messages/:userID.
func GetUserMessages(c *fiber.Ctx) error {
	userID := c.Params("userID")
	if userID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "userID is required",
		})
	}

	messages, err := services.GetConversationHistory(c.Context(), userID, c.QueryInt("limit", 100))
	if err != nil {
		slog.Error("Failed to load messages", "userID", userID, "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to load messages",
		})
	}

	return c.JSON(fiber.Map{
		"user_id":  userID,
		"messages": messages,
	})
}

// GetCustomerDetails handles GET /api/dashboard/customers/:userID.
func GetCustomerDetails(c *fiber.Ctx) error {
	customer, err := services.GetCustomer(c.Context(), c.Params("userID"))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to load customer",
		})
	}
	if customer == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Customer not found",
		})
	}
	return c.JSON(customer)
}

// GetDepositProblems handles GET /api/dashboard/problems.
func GetDepositProblems(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 50)
	skip := c.QueryInt("skip", 0)

	problems, total, err := services.GetOpenDepositProblems(c.Context(), limit, skip)
	if err != nil {
		slog.Error("Failed to load deposit problems", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to load deposit problems",
		})
	}

	return c.JSON(fiber.Map{
		"problems": problems,
		"total":    total,
		"limit":    limit,
		"skip":     skip,
	})
}

// ResolveDepositProblem handles POST /api/dashboard/problems/:userID/resolve.
// This is the administrative open→resolved transition.
func ResolveDepositProblem(c *fiber.Ctx) error {
	userID := c.Params("userID")
	if err := services.ResolveDepositProblem(c.Context(), userID); err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "No open problem for this user",
		})
	}

	slog.Info("Deposit problem resolved", "userID", userID, "resolvedBy", localString(c, "username"))
	return c.JSON(fiber.Map{"status": "resolved", "user_id": userID})
}

// LookupTransaction handles GET /api/dashboard/transactions/:orderNumber,
// checking both ledgers.
func LookupTransaction(c *fiber.Ctx) error {
	orderNumber := c.Params("orderNumber")

	for _, ledger := range []models.Ledger{models.LedgerDeposit, models.LedgerWithdrawal} {
		rec, err := services.FindTransactionByOrderNumber(c.Context(), ledger, orderNumber)
		if err != nil {
			slog.Error("Transaction lookup failed", "orderNumber", orderNumber, "ledger", ledger, "error", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Lookup failed",
			})
		}
		if rec != nil {
			return c.JSON(fiber.Map{
				"ledger": ledger,
				"record": rec,
			})
		}
	}

	return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
		"error": "Order number not found in either ledger",
	})
}

// SendMessageToCustomer handles POST /api/dashboard/customers/:userID/message.
// The operator's text goes out through the bot API and is recorded as an
// assistant turn.
func SendMessageToCustomer(c *fiber.Ctx) error {
	userID := c.Params("userID")

	var req struct {
		Message string `json:"message"`
	}
	if err := c.BodyParser(&req); err != nil || req.Message == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "message is required",
		})
	}

	if err := bot.SendMessage(c.Context(), userID, req.Message); err != nil {
		slog.Error("Failed to send operator message", "userID", userID, "error", err)
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"error": "Failed to deliver message",
		})
	}

	turn := &models.Message{
		UserID:    userID,
		Role:      models.RoleAssistant,
		Text:      req.Message,
		Timestamp: time.Now(),
	}
	if err := services.SaveTurn(c.Context(), turn); err != nil {
		slog.Error("Failed to persist operator message", "userID", userID, "error", err)
	}
	pipeline.RecordOperatorTurn(userID, req.Message)

	return c.JSON(fiber.Map{"status": "sent"})
}

// SendMediaToCustomer handles POST /api/dashboard/customers/:userID/media
// with a multipart file, an optional kind ("photo" or "document") and an
// optional caption.
func SendMediaToCustomer(c *fiber.Ctx) error {
	userID := c.Params("userID")

	file, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "No file uploaded",
		})
	}

	src, err := file.Open()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Failed to open file",
		})
	}
	defer src.Close()

	data, err := io.ReadAll(src)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Failed to read file",
		})
	}

	kind := c.FormValue("kind", "document")
	caption := c.FormValue("caption")

	if err := bot.SendMedia(c.Context(), userID, kind, data, caption); err != nil {
		slog.Error("Failed to send media", "userID", userID, "kind", kind, "error", err)
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"error": "Failed to deliver media",
		})
	}

	return c.JSON(fiber.Map{"status": "sent", "kind": kind, "filename": file.Filename})
}
