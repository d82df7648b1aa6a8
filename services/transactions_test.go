package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"support-bot/models"
)

func TestBulkImportTransactions_RowErrorsUseSheetPositions(t *testing.T) {
	// Parsed rows carry their sheet position, so validation errors from the
	// import stage point at the same physical rows as parse-stage errors.
	rows := []models.TransactionRow{
		{OrderNumber: "", Amount: 100, SheetRow: 5},
		{OrderNumber: "s052602010000079447000", Amount: -50, SheetRow: 7},
	}

	result, err := BulkImportTransactions(context.Background(), models.LedgerDeposit, rows)
	require.NoError(t, err)

	assert.Equal(t, 0, result.Inserted)
	assert.Equal(t, 2, result.Errors)
	require.Len(t, result.RowErrors, 2)
	assert.Equal(t, 5, result.RowErrors[0].Row)
	assert.Contains(t, result.RowErrors[0].Message, "missing order number")
	assert.Equal(t, 7, result.RowErrors[1].Row)
	assert.Contains(t, result.RowErrors[1].Message, "negative amount")
}

func TestBulkImportTransactions_FallsBackToSliceOrder(t *testing.T) {
	// Rows built in code without a sheet position number from 1.
	rows := []models.TransactionRow{
		{OrderNumber: ""},
		{OrderNumber: "w051234567890123456789", Amount: -1},
	}

	result, err := BulkImportTransactions(context.Background(), models.LedgerWithdrawal, rows)
	require.NoError(t, err)

	require.Len(t, result.RowErrors, 2)
	assert.Equal(t, 1, result.RowErrors[0].Row)
	assert.Equal(t, 2, result.RowErrors[1].Row)
}

func TestBulkImportTransactions_EmptyBatch(t *testing.T) {
	result, err := BulkImportTransactions(context.Background(), models.LedgerDeposit, nil)
	require.NoError(t, err)
	assert.Equal(t, 0, result.Inserted)
	assert.Equal(t, 0, result.Duplicates)
	assert.Empty(t, result.RowErrors)
}
