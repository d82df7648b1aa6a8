package services

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"support-bot/models"
)

// Ledger files carry five fixed columns in this order. Column mapping beyond
// that is out of scope; finance exports already match it.
// order_number | delivery_type | amount | payment_status | import_date

var importDateFormats = []string{
	"2006-01-02",
	"2006/01/02",
	"02/01/2006",
	"02-01-2006",
	"02 Jan 2006",
}

// ParseLedgerFile extracts transaction rows from an uploaded spreadsheet.
// Malformed rows are collected per-row and do not abort the parse; the
// returned row errors are numbered by sheet position.
func ParseLedgerFile(filename string, r io.Reader) ([]models.TransactionRow, []models.RowError, error) {
	name := strings.ToLower(filename)
	switch {
	case strings.HasSuffix(name, ".xlsx"):
		return parseXLSX(r)
	case strings.HasSuffix(name, ".csv"):
		return parseCSV(r)
	}
	return nil, nil, fmt.Errorf("unsupported file type. Supported types: .xlsx, .csv")
}

func parseXLSX(r io.Reader) ([]models.TransactionRow, []models.RowError, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	if sheet == "" {
		return nil, nil, fmt.Errorf("workbook has no sheets")
	}

	cells, err := f.GetRows(sheet)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read sheet %q: %w", sheet, err)
	}

	return rowsFromCells(cells)
}

func parseCSV(r io.Reader) ([]models.TransactionRow, []models.RowError, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1 // rows may omit trailing columns

	records, err := reader.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read csv: %w", err)
	}

	return rowsFromCells(records)
}

func rowsFromCells(cells [][]string) ([]models.TransactionRow, []models.RowError, error) {
	var rows []models.TransactionRow
	var rowErrors []models.RowError

	for i, record := range cells {
		if i == 0 && isHeaderRow(record) {
			continue
		}
		if isBlankRow(record) {
			continue
		}

		row, err := rowFromCells(record)
		if err != nil {
			rowErrors = append(rowErrors, models.RowError{Row: i + 1, Message: err.Error()})
			continue
		}
		row.SheetRow = i + 1
		rows = append(rows, row)
	}

	return rows, rowErrors, nil
}

func rowFromCells(record []string) (models.TransactionRow, error) {
	row := models.TransactionRow{}

	if len(record) == 0 || strings.TrimSpace(record[0]) == "" {
		return row, fmt.Errorf("missing order number")
	}
	row.OrderNumber = strings.TrimSpace(record[0])

	if len(record) > 1 {
		row.DeliveryType = strings.TrimSpace(record[1])
	}
	if len(record) > 2 && strings.TrimSpace(record[2]) != "" {
		amount, err := parseAmount(record[2])
		if err != nil {
			return row, fmt.Errorf("invalid amount %q", record[2])
		}
		if amount < 0 {
			return row, fmt.Errorf("negative amount %q", record[2])
		}
		row.Amount = amount
	}
	if len(record) > 3 {
		row.PaymentStatus = strings.TrimSpace(record[3])
	}
	if len(record) > 4 && strings.TrimSpace(record[4]) != "" {
		date, err := parseImportDate(record[4])
		if err != nil {
			return row, fmt.Errorf("invalid date %q", record[4])
		}
		row.ImportDate = &date
	}

	return row, nil
}

func parseAmount(cell string) (float64, error) {
	cleaned := strings.TrimSpace(cell)
	cleaned = strings.TrimPrefix(cleaned, "₹")
	cleaned = strings.ReplaceAll(cleaned, ",", "")
	return strconv.ParseFloat(strings.TrimSpace(cleaned), 64)
}

func parseImportDate(cell string) (time.Time, error) {
	cleaned := strings.TrimSpace(cell)
	for _, format := range importDateFormats {
		if t, err := time.Parse(format, cleaned); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date format")
}

func isHeaderRow(record []string) bool {
	if len(record) == 0 {
		return false
	}
	first := strings.ToLower(strings.TrimSpace(record[0]))
	return strings.Contains(first, "order") || strings.Contains(first, "number")
}

func isBlankRow(record []string) bool {
	for _, cell := range record {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
