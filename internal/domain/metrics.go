package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// DashboardMetrics aggregates the portfolio position at a point in time.
type DashboardMetrics struct {
	// Remaining balance summed over loans not marked paid.
	TotalOutstanding decimal.Decimal `json:"total_outstanding"`
	// Interest already collected on loans not marked paid.
	TotalInterestPaid decimal.Decimal `json:"total_interest_paid"`
	// Remaining balance of overdue and defaulted loans.
	TotalOverdue decimal.Decimal `json:"total_overdue"`
	// Payments dated in the calendar month of AsOf.
	MonthlyIncome decimal.Decimal `json:"monthly_income"`
	AsOf          time.Time       `json:"as_of"`
}

// PortfolioSummary backs the reports page.
type PortfolioSummary struct {
	TotalLoans           int                `json:"total_loans"`
	LoansByStatus        map[LoanStatus]int `json:"loans_by_status"`
	TotalBorrowers       int                `json:"total_borrowers"`
	TotalPrincipalIssued decimal.Decimal    `json:"total_principal_issued"`
	TotalReceived        decimal.Decimal    `json:"total_received"`
	PaymentCount         int                `json:"payment_count"`
}
