package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"support-bot/models"
)

func ledgerCollection(ledger models.Ledger) string {
	if ledger == models.LedgerWithdrawal {
		return collWithdrawals
	}
	return collDeposits
}

// normalizeOrderNumber lowercases and trims an order number so lookups and
// imports agree on the stored form.
func normalizeOrderNumber(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// FindTransactionByOrderNumber looks up one ledger record. Returns nil when
// the order number is unknown.
func FindTransactionByOrderNumber(ctx context.Context, ledger models.Ledger, orderNumber string) (*models.TransactionRecord, error) {
	orderNumber = normalizeOrderNumber(orderNumber)
	if orderNumber == "" {
		return nil, nil
	}

	var rec models.TransactionRecord
	err := database.Collection(ledgerCollection(ledger)).FindOne(ctx, bson.M{"order_number": orderNumber}).Decode(&rec)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &rec, nil
}

// BulkImportTransactions writes a batch of rows into a ledger. Rows that
// fail validation are collected per-row without aborting the batch, and a
// duplicate order number means the row is skipped, not overwritten, so
// re-submitting the same file is harmless.
func BulkImportTransactions(ctx context.Context, ledger models.Ledger, rows []models.TransactionRow) (*models.ImportResult, error) {
	result := &models.ImportResult{}

	now := time.Now()
	var docs []interface{}
	var docRows []int // 1-based sheet row per document
	for i, row := range rows {
		// Rows from the spreadsheet parser carry their sheet position;
		// programmatically built rows without one fall back to slice order.
		rowNum := row.SheetRow
		if rowNum == 0 {
			rowNum = i + 1
		}

		orderNumber := normalizeOrderNumber(row.OrderNumber)
		if orderNumber == "" {
			result.Errors++
			result.RowErrors = append(result.RowErrors, models.RowError{Row: rowNum, Message: "missing order number"})
			continue
		}
		if row.Amount < 0 {
			result.Errors++
			result.RowErrors = append(result.RowErrors, models.RowError{Row: rowNum, Message: "negative amount"})
			continue
		}

		docs = append(docs, models.TransactionRecord{
			OrderNumber:   orderNumber,
			DeliveryType:  strings.TrimSpace(row.DeliveryType),
			Amount:        row.Amount,
			PaymentStatus: strings.TrimSpace(row.PaymentStatus),
			ImportDate:    row.ImportDate,
			CreatedAt:     now,
			UpdatedAt:     now,
		})
		docRows = append(docRows, rowNum)
	}

	if len(docs) == 0 {
		return result, nil
	}

	// Unordered insert: one duplicate must not stop the rest of the batch.
	opts := options.InsertMany().SetOrdered(false)
	_, err := database.Collection(ledgerCollection(ledger)).InsertMany(ctx, docs, opts)
	writeErrors := 0
	if err != nil {
		var bwe mongo.BulkWriteException
		if !errors.As(err, &bwe) {
			return result, err
		}
		for _, we := range bwe.WriteErrors {
			if we.Code == 11000 { // duplicate key: first write wins
				result.Duplicates++
				continue
			}
			writeErrors++
			result.Errors++
			result.RowErrors = append(result.RowErrors, models.RowError{Row: docRows[we.Index], Message: we.Message})
		}
	}
	result.Inserted = len(docs) - result.Duplicates - writeErrors

	return result, nil
}

// SaveImportBatch stores the report of one spreadsheet upload.
func SaveImportBatch(ctx context.Context, batch *models.ImportBatch) error {
	_, err := database.Collection(collImportBatches).InsertOne(ctx, batch)
	return err
}

// GetImportBatches lists recent upload reports, newest first.
func GetImportBatches(ctx context.Context, limit int) ([]models.ImportBatch, error) {
	if limit <= 0 {
		limit = 20
	}
	findOptions := options.Find().SetSort(bson.M{"created_at": -1}).SetLimit(int64(limit))
	cursor, err := database.Collection(collImportBatches).Find(ctx, bson.M{}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var batches []models.ImportBatch
	if err := cursor.All(ctx, &batches); err != nil {
		return nil, err
	}
	return batches, nil
}
