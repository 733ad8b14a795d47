package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Payment is money received against a loan. Principal and Interest are
// fixed when the payment is recorded and always sum to Amount.
type Payment struct {
	ID        string          `json:"id"`
	LoanID    string          `json:"loan_id"`
	Date      time.Time       `json:"date"`
	Amount    decimal.Decimal `json:"amount"`
	Principal decimal.Decimal `json:"principal"`
	Interest  decimal.Decimal `json:"interest"`
	Notes     string          `json:"notes,omitempty"`
}

type CreatePaymentRequest struct {
	LoanID string          `json:"loan_id" validate:"required"`
	Date   time.Time       `json:"date"`
	Amount decimal.Decimal `json:"amount" validate:"gt=0"`
	Notes  string          `json:"notes,omitempty" validate:"max=2000"`
}

// UpdatePaymentRequest replaces a payment. When Principal and Interest are
// both omitted the split is allocated again for the new amount and date.
type UpdatePaymentRequest struct {
	ID        string           `json:"-"`
	LoanID    string           `json:"loan_id" validate:"required"`
	Date      time.Time        `json:"date" validate:"required"`
	Amount    decimal.Decimal  `json:"amount" validate:"gt=0"`
	Principal *decimal.Decimal `json:"principal,omitempty" validate:"omitempty,gte=0"`
	Interest  *decimal.Decimal `json:"interest,omitempty" validate:"omitempty,gte=0"`
	Notes     string           `json:"notes,omitempty" validate:"max=2000"`
}

// Allocation is the split of a payment between interest and principal.
type Allocation struct {
	Principal decimal.Decimal `json:"principal"`
	Interest  decimal.Decimal `json:"interest"`
}
