package services

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestParseLedgerFile_CSV(t *testing.T) {
	data := strings.Join([]string{
		"Order Number,Delivery Type,Amount,Payment Status,Import Date",
		"s052602010000079447000,UPI,500.00,success,2026-02-01",
		"s052602010000079447001,Card,\"1,250.50\",pending,01/02/2026",
		"",
		"s052602010000079447002,,,,",
	}, "\n")

	rows, rowErrors, err := ParseLedgerFile("deposits.csv", strings.NewReader(data))
	require.NoError(t, err)
	assert.Empty(t, rowErrors)
	require.Len(t, rows, 3)

	assert.Equal(t, "s052602010000079447000", rows[0].OrderNumber)
	// Sheet positions are 1-based with the header counted, matching the
	// numbering of parse-stage row errors.
	assert.Equal(t, 2, rows[0].SheetRow)
	assert.Equal(t, "UPI", rows[0].DeliveryType)
	assert.Equal(t, 500.0, rows[0].Amount)
	assert.Equal(t, "success", rows[0].PaymentStatus)
	require.NotNil(t, rows[0].ImportDate)
	assert.Equal(t, time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC), *rows[0].ImportDate)

	// Thousands separators are stripped.
	assert.Equal(t, 1250.50, rows[1].Amount)

	// A row with only an order number is still valid.
	assert.Equal(t, "s052602010000079447002", rows[2].OrderNumber)
	assert.Zero(t, rows[2].Amount)
	assert.Nil(t, rows[2].ImportDate)
}

func TestParseLedgerFile_CSVCollectsRowErrors(t *testing.T) {
	data := strings.Join([]string{
		"order_number,delivery_type,amount,payment_status,import_date",
		",UPI,100,success,2026-02-01",
		"s052602010000079447000,UPI,abc,success,2026-02-01",
		"s052602010000079447001,UPI,100,success,31-31-2026",
		"s052602010000079447002,UPI,100,success,2026-02-01",
	}, "\n")

	rows, rowErrors, err := ParseLedgerFile("deposits.csv", strings.NewReader(data))
	require.NoError(t, err)

	require.Len(t, rows, 1)
	assert.Equal(t, "s052602010000079447002", rows[0].OrderNumber)

	require.Len(t, rowErrors, 3)
	// Row numbers are 1-based sheet positions, header included.
	assert.Equal(t, 2, rowErrors[0].Row)
	assert.Contains(t, rowErrors[0].Message, "missing order number")
	assert.Equal(t, 3, rowErrors[1].Row)
	assert.Contains(t, rowErrors[1].Message, "invalid amount")
	assert.Equal(t, 4, rowErrors[2].Row)
	assert.Contains(t, rowErrors[2].Message, "invalid date")
}

func TestParseLedgerFile_CSVRupeeAmount(t *testing.T) {
	data := "s052602010000079447000,UPI,₹750.25,success,2026-02-01\n"

	rows, rowErrors, err := ParseLedgerFile("deposits.csv", strings.NewReader(data))
	require.NoError(t, err)
	assert.Empty(t, rowErrors)
	require.Len(t, rows, 1)
	assert.Equal(t, 750.25, rows[0].Amount)
}

func TestParseLedgerFile_XLSX(t *testing.T) {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	require.NoError(t, f.SetSheetRow(sheet, "A1", &[]interface{}{"order_number", "delivery_type", "amount", "payment_status", "import_date"}))
	require.NoError(t, f.SetSheetRow(sheet, "A2", &[]interface{}{"w051234567890123456789", "Bank Transfer", "2000", "paid", "02 Jan 2026"}))
	require.NoError(t, f.SetSheetRow(sheet, "A3", &[]interface{}{"w051234567890123456790", "UPI", "-5", "paid", "02 Jan 2026"}))

	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))

	rows, rowErrors, err := ParseLedgerFile("withdrawals.xlsx", &buf)
	require.NoError(t, err)

	require.Len(t, rows, 1)
	assert.Equal(t, "w051234567890123456789", rows[0].OrderNumber)
	assert.Equal(t, 2, rows[0].SheetRow)
	assert.Equal(t, 2000.0, rows[0].Amount)

	require.Len(t, rowErrors, 1)
	assert.Equal(t, 3, rowErrors[0].Row)
	assert.Contains(t, rowErrors[0].Message, "negative amount")
}

func TestParseLedgerFile_UnsupportedExtension(t *testing.T) {
	_, _, err := ParseLedgerFile("ledger.pdf", strings.NewReader("x"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported file type")
}
