package handlers

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"support-bot/models"
	"support-bot/services"
)

// UploadLedgerFile handles POST /api/dashboard/import/:ledger. The uploaded
// spreadsheet is parsed, valid rows are committed to the ledger, and rows
// that failed parsing or insertion are reported back per-row. Duplicate
// order numbers are skipped, so re-uploading a file is safe.
func UploadLedgerFile(c *fiber.Ctx) error {
	ledger, err := ledgerParam(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	file, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "No file uploaded",
		})
	}

	// Validate file size (max 10MB)
	if file.Size > 10*1024*1024 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "File size exceeds 10MB limit",
		})
	}

	src, err := file.Open()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": fmt.Sprintf("Failed to open file: %v", err),
		})
	}
	defer src.Close()

	rows, parseErrors, err := services.ParseLedgerFile(file.Filename, src)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	result, err := services.BulkImportTransactions(c.Context(), ledger, rows)
	if err != nil {
		slog.Error("Bulk import failed", "ledger", ledger, "filename", file.Filename, "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to import transactions",
		})
	}

	// Parse-stage rejects join the per-row error list.
	result.Errors += len(parseErrors)
	result.RowErrors = append(parseErrors, result.RowErrors...)

	batch := &models.ImportBatch{
		BatchID:    uuid.New().String(),
		Ledger:     ledger,
		Filename:   file.Filename,
		UploadedBy: localString(c, "username"),
		Result:     *result,
		CreatedAt:  time.Now(),
	}
	if err := services.SaveImportBatch(c.Context(), batch); err != nil {
		slog.Error("Failed to save import batch report", "batchID", batch.BatchID, "error", err)
		// The import itself committed; the report is best-effort.
	}

	slog.Info("Ledger file imported",
		"batchID", batch.BatchID,
		"ledger", ledger,
		"filename", file.Filename,
		"inserted", result.Inserted,
		"duplicates", result.Duplicates,
		"errors", result.Errors,
	)

	services.GetWebSocketManager().Broadcast(services.EventImportFinished, fiber.Map{
		"batch_id":   batch.BatchID,
		"ledger":     ledger,
		"filename":   file.Filename,
		"inserted":   result.Inserted,
		"duplicates": result.Duplicates,
		"errors":     result.Errors,
	})

	return c.JSON(batch)
}

// GetImportBatches handles GET /api/dashboard/imports.
func GetImportBatches(c *fiber.Ctx) error {
	batches, err := services.GetImportBatches(c.Context(), c.QueryInt("limit", 20))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to load import batches",
		})
	}
	return c.JSON(fiber.Map{"batches": batches})
}

func ledgerParam(c *fiber.Ctx) (models.Ledger, error) {
	switch c.Params("ledger") {
	case "deposit", "deposits":
		return models.LedgerDeposit, nil
	case "withdrawal", "withdrawals":
		return models.LedgerWithdrawal, nil
	}
	return "", fmt.Errorf("unknown ledger %q, expected deposit or withdrawal", c.Params("ledger"))
}

func localString(c *fiber.Ctx, key string) string {
	if v, ok := c.Locals(key).(string); ok {
		return v
	}
	return ""
}
