// Package accounting computes what a loan owes over time. Every function is
// pure: callers pass the reference date and nothing is read from the clock.
//
// Interest is simple and monthly: InterestRate is a percentage per 30-day
// month, accrued from the issue date up to the earlier of the reference date
// and the due date.
package accounting

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/segyhp/loan-ledger/internal/domain"
	"github.com/segyhp/loan-ledger/pkg/utils"
)

const (
	// MoneyPlaces is the rounding precision for amounts.
	MoneyPlaces = 2

	// DefaultThresholdDays is how long a loan may stay overdue before it
	// counts as defaulted.
	DefaultThresholdDays = 90

	daysPerMonth = 30
)

var (
	hundred      = decimal.NewFromInt(100)
	monthInDays  = decimal.NewFromInt(daysPerMonth)
	monthsInYear = decimal.NewFromInt(12)
)

// ElapsedMonths returns the fractional months of accrual as of asOf. The
// window is clamped to [issueDate, dueDate].
func ElapsedMonths(loan *domain.Loan, asOf time.Time) decimal.Decimal {
	end := utils.MinTime(asOf, loan.DueDate)
	days := utils.DaysBetween(loan.IssueDate, end)
	if days <= 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(int64(days)).Div(monthInDays)
}

// AccruedInterest is principal * rate% * elapsed months, rounded to cents.
// A paid loan accrues nothing.
func AccruedInterest(loan *domain.Loan, asOf time.Time) decimal.Decimal {
	if loan.Status == domain.LoanStatusPaid {
		return decimal.Zero
	}
	return loan.Principal.
		Mul(loan.InterestRate.Div(hundred)).
		Mul(ElapsedMonths(loan, asOf)).
		Round(MoneyPlaces)
}

// TotalDue returns principal plus accrued interest as of asOf, or zero when
// the loan is marked paid.
func TotalDue(loan *domain.Loan, asOf time.Time) decimal.Decimal {
	if loan.Status == domain.LoanStatusPaid {
		return decimal.Zero
	}
	return loan.Principal.Add(AccruedInterest(loan, asOf))
}

// TotalPaid sums the payments that belong to loan. Payments for other loans
// are ignored, so an unfiltered list is fine.
func TotalPaid(loan *domain.Loan, payments []*domain.Payment) decimal.Decimal {
	total := decimal.Zero
	for _, p := range payments {
		if p != nil && p.LoanID == loan.ID {
			total = total.Add(p.Amount)
		}
	}
	return total
}

// RemainingBalance is TotalDue minus the loan's payments, floored at zero.
func RemainingBalance(loan *domain.Loan, payments []*domain.Payment, asOf time.Time) decimal.Decimal {
	remaining := TotalDue(loan, asOf).Sub(TotalPaid(loan, payments))
	if remaining.IsNegative() {
		return decimal.Zero
	}
	return remaining
}

// IsOverdue reports whether asOf is strictly after the due date of an unpaid loan.
func IsOverdue(loan *domain.Loan, asOf time.Time) bool {
	if loan.Status == domain.LoanStatusPaid {
		return false
	}
	return asOf.After(loan.DueDate)
}

// DaysOverdue returns whole days past the due date, or 0 when not overdue.
func DaysOverdue(loan *domain.Loan, asOf time.Time) int {
	if !IsOverdue(loan, asOf) {
		return 0
	}
	return utils.DaysBetween(loan.DueDate, asOf)
}

// AllocatePayment splits amount between accrued interest and principal,
// interest first. The parts always add up to amount exactly. amount must be
// positive; validation belongs to the caller.
func AllocatePayment(loan *domain.Loan, amount decimal.Decimal, paymentDate time.Time) domain.Allocation {
	accrued := TotalDue(loan, paymentDate).Sub(loan.Principal)
	if accrued.IsNegative() {
		accrued = decimal.Zero
	}

	if amount.LessThanOrEqual(accrued) {
		return domain.Allocation{Principal: decimal.Zero, Interest: amount}
	}

	return domain.Allocation{
		Interest:  accrued,
		Principal: amount.Sub(accrued),
	}
}

// DetermineStatus derives the status of loan from its balance and due date.
// A zero balance wins over the date check, so a repaid loan is paid even
// after its due date.
func DetermineStatus(loan *domain.Loan, payments []*domain.Payment, asOf time.Time) domain.LoanStatus {
	if !RemainingBalance(loan, payments, asOf).IsPositive() {
		return domain.LoanStatusPaid
	}

	if asOf.After(loan.DueDate) {
		if DaysOverdue(loan, asOf) > DefaultThresholdDays {
			return domain.LoanStatusDefaulted
		}
		return domain.LoanStatusOverdue
	}

	return domain.LoanStatusActive
}

// SuggestInstallmentAmount proposes an installment for a schedule:
// principal/installments plus one twelfth of a month's interest, rounded to cents.
func SuggestInstallmentAmount(principal, monthlyRate decimal.Decimal, installments int) decimal.Decimal {
	if installments <= 0 || !principal.IsPositive() {
		return decimal.Zero
	}
	base := principal.Div(decimal.NewFromInt(int64(installments)))
	interest := principal.Mul(monthlyRate.Div(hundred)).Div(monthsInYear)
	return base.Add(interest).Round(MoneyPlaces)
}
