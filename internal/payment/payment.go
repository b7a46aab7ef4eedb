package payment

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Status represents the lifecycle state of a payment transaction.
type Status string

const (
	StatusPending Status = "pending"
	StatusPaid    Status = "paid"
)

// Sentinel errors returned by the service and its stores.
var (
	ErrNotFound         = errors.New("transaction not found")
	ErrValidation       = errors.New("invalid payment request")
	ErrInvalidAmount    = errors.New("amount must be greater than zero")
	ErrDuplicateID      = errors.New("duplicate identifier")
	ErrDocumentNotFound = errors.New("invoice document not found")
)

// Transaction is one payment request and its lifecycle record.
type Transaction struct {
	ID            uuid.UUID
	InvoiceID     string
	CustomerName  string
	CustomerEmail string
	CustomerPhone string
	ProductName   string
	ProductID     *int64
	BaseAmount    decimal.Decimal
	TaxRate       decimal.Decimal
	TaxAmount     decimal.Decimal
	TotalAmount   decimal.Decimal
	MerchantUPI   string
	MerchantName  string
	Status        Status
	PaymentRef    string // bank UTR, set on confirmation
	PaymentMethod string
	Notes         string
	CreatedAt     time.Time
	PaidAt        *time.Time
	InvoiceSent   bool
	InvoiceSentAt *time.Time
}
