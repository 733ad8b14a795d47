package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// LoanStatus is the lifecycle state of a loan.
type LoanStatus string

const (
	LoanStatusActive    LoanStatus = "active"
	LoanStatusPaid      LoanStatus = "paid"
	LoanStatusOverdue   LoanStatus = "overdue"
	LoanStatusDefaulted LoanStatus = "defaulted"
)

// IsValid reports whether s is one of the known statuses.
func (s LoanStatus) IsValid() bool {
	switch s {
	case LoanStatusActive, LoanStatusPaid, LoanStatusOverdue, LoanStatusDefaulted:
		return true
	}
	return false
}

// IsDelinquent reports whether the loan is past due, overdue or defaulted.
func (s LoanStatus) IsDelinquent() bool {
	return s == LoanStatusOverdue || s == LoanStatusDefaulted
}

// Loan represents a loan entity.
// InterestRate is a monthly simple-interest percentage (2.5 means 2.5% per month).
type Loan struct {
	ID              string           `json:"id"`
	BorrowerID      string           `json:"borrower_id"`
	BorrowerName    string           `json:"borrower_name"`
	Principal       decimal.Decimal  `json:"principal"`
	InterestRate    decimal.Decimal  `json:"interest_rate"`
	IssueDate       time.Time        `json:"issue_date"`
	DueDate         time.Time        `json:"due_date"`
	Status          LoanStatus       `json:"status"`
	PaymentSchedule *PaymentSchedule `json:"payment_schedule,omitempty"`
	Notes           string           `json:"notes,omitempty"`
}

// Clone returns a deep copy so callers never share the stored schedule pointer.
func (l *Loan) Clone() *Loan {
	if l == nil {
		return nil
	}
	c := *l
	if l.PaymentSchedule != nil {
		s := *l.PaymentSchedule
		c.PaymentSchedule = &s
	}
	return &c
}

// DTOs for requests and responses

type CreateLoanRequest struct {
	BorrowerID      string           `json:"borrower_id" validate:"required"`
	Principal       decimal.Decimal  `json:"principal" validate:"gt=0"`
	InterestRate    *decimal.Decimal `json:"interest_rate,omitempty" validate:"omitempty,gte=0"`
	IssueDate       *time.Time       `json:"issue_date,omitempty"`
	DueDate         *time.Time       `json:"due_date,omitempty"`
	PaymentSchedule *PaymentSchedule `json:"payment_schedule,omitempty" validate:"omitempty"`
	Notes           string           `json:"notes,omitempty" validate:"max=2000"`
}

// UpdateLoanRequest replaces a loan record. Status is taken as given.
type UpdateLoanRequest struct {
	ID              string           `json:"-"`
	BorrowerID      string           `json:"borrower_id" validate:"required"`
	Principal       decimal.Decimal  `json:"principal" validate:"gt=0"`
	InterestRate    decimal.Decimal  `json:"interest_rate" validate:"gte=0"`
	IssueDate       time.Time        `json:"issue_date" validate:"required"`
	DueDate         time.Time        `json:"due_date" validate:"required"`
	Status          LoanStatus       `json:"status" validate:"required,oneof=active paid overdue defaulted"`
	PaymentSchedule *PaymentSchedule `json:"payment_schedule,omitempty" validate:"omitempty"`
	Notes           string           `json:"notes,omitempty" validate:"max=2000"`
}

// DeleteLoanResult tells the caller whether the deletion happened or needs
// an explicit confirmation because payments would be removed with it.
type DeleteLoanResult struct {
	Deleted              bool `json:"deleted"`
	RequiresConfirmation bool `json:"requires_confirmation"`
	PaymentCount         int  `json:"payment_count"`
	PaymentsDeleted      int  `json:"payments_deleted"`
}

// LoanBalance is the display-time position of a single loan.
type LoanBalance struct {
	LoanID          string          `json:"loan_id"`
	Principal       decimal.Decimal `json:"principal"`
	AccruedInterest decimal.Decimal `json:"accrued_interest"`
	TotalDue        decimal.Decimal `json:"total_due"`
	TotalPaid       decimal.Decimal `json:"total_paid"`
	Remaining       decimal.Decimal `json:"remaining"`
	IsOverdue       bool            `json:"is_overdue"`
	DaysOverdue     int             `json:"days_overdue"`
	StoredStatus    LoanStatus      `json:"stored_status"`
	DerivedStatus   LoanStatus      `json:"derived_status"`
	AsOf            time.Time       `json:"as_of"`
}
