package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Frequency is the informational payment cadence of a loan.
type Frequency string

const (
	FrequencyWeekly    Frequency = "weekly"
	FrequencyBiweekly  Frequency = "biweekly"
	FrequencyMonthly   Frequency = "monthly"
	FrequencyQuarterly Frequency = "quarterly"
	FrequencyYearly    Frequency = "yearly"
	FrequencyCustom    Frequency = "custom"
)

func (f Frequency) IsValid() bool {
	switch f {
	case FrequencyWeekly, FrequencyBiweekly, FrequencyMonthly, FrequencyQuarterly, FrequencyYearly, FrequencyCustom:
		return true
	}
	return false
}

// PaymentSchedule is cadence metadata stored with a loan. It is never
// checked against accrual. An empty frequency or zero installments take the
// configured defaults when the loan is stored.
type PaymentSchedule struct {
	Frequency         Frequency       `json:"frequency" validate:"omitempty,oneof=weekly biweekly monthly quarterly yearly custom"`
	NextPaymentDate   time.Time       `json:"next_payment_date"`
	Installments      int             `json:"installments" validate:"gte=0"`
	InstallmentAmount decimal.Decimal `json:"installment_amount" validate:"gte=0"`
}
