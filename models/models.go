package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Ledger identifies one of the two parallel transaction tables.
type Ledger string

const (
	LedgerDeposit    Ledger = "deposit"
	LedgerWithdrawal Ledger = "withdrawal"
)

// Conversation turn roles.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message represents one conversation turn. Turns are append-only and are
// never mutated after insertion.
type Message struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID    string             `bson:"user_id" json:"user_id"`
	Role      string             `bson:"role" json:"role"` // "user" or "assistant"
	Text      string             `bson:"text" json:"text"`
	Language  string             `bson:"language,omitempty" json:"language,omitempty"`
	Category  string             `bson:"category,omitempty" json:"category,omitempty"`
	Escalated bool               `bson:"escalated,omitempty" json:"escalated,omitempty"`
	Timestamp time.Time          `bson:"timestamp" json:"timestamp"`
}

// TransactionRecord is a row in one of the two ledgers. order_number is
// unique per ledger; duplicate imports are skipped, the first write wins.
type TransactionRecord struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	OrderNumber   string             `bson:"order_number" json:"order_number"`
	DeliveryType  string             `bson:"delivery_type,omitempty" json:"delivery_type,omitempty"`
	Amount        float64            `bson:"amount,omitempty" json:"amount,omitempty"`
	PaymentStatus string             `bson:"payment_status,omitempty" json:"payment_status,omitempty"`
	ImportDate    *time.Time         `bson:"import_date,omitempty" json:"import_date,omitempty"`
	CreatedAt     time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt     time.Time          `bson:"updated_at" json:"updated_at"`
}

// TransactionRow is one parsed spreadsheet row before it is written to a
// ledger. SheetRow is the 1-based position in the uploaded sheet, header
// included, so row errors from parsing and from the import stage point at
// the same physical row.
type TransactionRow struct {
	OrderNumber   string     `json:"order_number"`
	DeliveryType  string     `json:"delivery_type,omitempty"`
	Amount        float64    `json:"amount,omitempty"`
	PaymentStatus string     `json:"payment_status,omitempty"`
	ImportDate    *time.Time `json:"import_date,omitempty"`
	SheetRow      int        `json:"-"`
}

// RowError reports a single rejected row from a bulk import. Row numbers are
// 1-based positions in the submitted row set.
type RowError struct {
	Row     int    `bson:"row" json:"row"`
	Message string `bson:"message" json:"message"`
}

// ImportResult summarizes a bulk ledger import. Duplicates are tolerated,
// not treated as errors, so re-submitting the same file is idempotent.
type ImportResult struct {
	Inserted   int        `bson:"inserted" json:"inserted"`
	Duplicates int        `bson:"duplicates" json:"duplicates"`
	Errors     int        `bson:"errors" json:"errors"`
	RowErrors  []RowError `bson:"row_errors,omitempty" json:"row_errors,omitempty"`
}

// ImportBatch is the stored report of one spreadsheet upload.
type ImportBatch struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	BatchID    string             `bson:"batch_id" json:"batch_id"`
	Ledger     Ledger             `bson:"ledger" json:"ledger"`
	Filename   string             `bson:"filename" json:"filename"`
	UploadedBy string             `bson:"uploaded_by,omitempty" json:"uploaded_by,omitempty"`
	Result     ImportResult       `bson:"result" json:"result"`
	CreatedAt  time.Time          `bson:"created_at" json:"created_at"`
}

// Deposit problem statuses.
const (
	ProblemStatusOpen     = "open"
	ProblemStatusResolved = "resolved"
)

// DepositProblem is an unresolved deposit complaint that could not be
// matched against the deposit ledger. There is at most one open problem per
// user; a new report overwrites the previous one.
type DepositProblem struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID      string             `bson:"user_id" json:"user_id"`
	OrderNumber string             `bson:"order_number,omitempty" json:"order_number,omitempty"`
	Description string             `bson:"description" json:"description"`
	Status      string             `bson:"status" json:"status"`
	Notified    bool               `bson:"notified" json:"notified"`
	CreatedAt   time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt   time.Time          `bson:"updated_at" json:"updated_at"`
}
