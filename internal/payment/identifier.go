package payment

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// NewTransactionID returns a fresh random transaction identifier.
// uuid.New draws from crypto/rand, so uniqueness is probabilistic and the
// store's unique constraint is the actual enforcement point.
func NewTransactionID() uuid.UUID {
	return uuid.New()
}

// InvoiceID derives the human-readable invoice number for a transaction,
// e.g. "INV-20260115-9F8A3C21". Deterministic given its inputs.
func InvoiceID(txID uuid.UUID, date time.Time) string {
	short := strings.ToUpper(txID.String()[:8])
	return fmt.Sprintf("INV-%s-%s", date.Format("20060102"), short)
}
