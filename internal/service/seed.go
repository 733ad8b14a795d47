package service

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/segyhp/loan-ledger/internal/domain"
	"github.com/segyhp/loan-ledger/pkg/utils"
)

// SeedDemo loads a small demo portfolio dated relative to now. It does
// nothing when loans already exist and reports whether it seeded.
func (s *LoanService) SeedDemo(ctx context.Context) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, err := s.LoanRepo.List(ctx)
	if err != nil {
		return false, err
	}
	if len(existing) > 0 {
		return false, nil
	}

	today := utils.StartOfDay(s.now())
	borrowers, loans, payments := demoPortfolio(today)

	for _, b := range borrowers {
		if err := s.BorrowerRepo.Upsert(ctx, b); err != nil {
			return false, err
		}
	}
	for _, l := range loans {
		if err := s.LoanRepo.Upsert(ctx, l); err != nil {
			return false, err
		}
	}
	for _, p := range payments {
		if err := s.PaymentRepo.Create(ctx, p); err != nil {
			return false, err
		}
	}

	s.logger.InfoContext(ctx, "demo data seeded",
		"borrowers", len(borrowers),
		"loans", len(loans),
		"payments", len(payments),
	)
	s.invalidateMetrics(ctx)
	return true, nil
}

func demoPortfolio(today time.Time) ([]*domain.Borrower, []*domain.Loan, []*domain.Payment) {
	days := func(n int) time.Time { return today.AddDate(0, 0, n) }
	months := func(n int) time.Time { return today.AddDate(0, n, 0) }
	amount := func(v string) decimal.Decimal { return decimal.RequireFromString(v) }

	borrowers := []*domain.Borrower{
		{ID: "1", Name: "João Silva", Email: "joao.silva@email.com", Phone: "(11) 98765-4321"},
		{ID: "2", Name: "Maria Souza", Email: "maria.souza@email.com", Phone: "(11) 91234-5678"},
		{ID: "3", Name: "Carlos Oliveira", Email: "carlos.oliveira@email.com", Phone: "(21) 98765-4321"},
		{ID: "4", Name: "Ana Santos", Email: "ana.santos@email.com", Phone: "(21) 91234-5678"},
		{ID: "5", Name: "Pedro Costa", Email: "pedro.costa@email.com", Phone: "(31) 98765-4321"},
	}

	monthly := func(next time.Time, installments int, installment string) *domain.PaymentSchedule {
		return &domain.PaymentSchedule{
			Frequency:         domain.FrequencyMonthly,
			NextPaymentDate:   next,
			Installments:      installments,
			InstallmentAmount: amount(installment),
		}
	}

	loans := []*domain.Loan{
		{
			ID: "1", BorrowerID: "1", BorrowerName: "João Silva",
			Principal: amount("5000"), InterestRate: amount("12"),
			IssueDate: months(-2), DueDate: months(10),
			Status:          domain.LoanStatusActive,
			PaymentSchedule: monthly(days(10), 12, "441.67"),
		},
		{
			ID: "2", BorrowerID: "2", BorrowerName: "Maria Souza",
			Principal: amount("3000"), InterestRate: amount("10"),
			IssueDate: months(-3), DueDate: days(-15),
			Status:          domain.LoanStatusOverdue,
			PaymentSchedule: monthly(days(-15), 6, "525"),
		},
		{
			ID: "3", BorrowerID: "3", BorrowerName: "Carlos Oliveira",
			Principal: amount("10000"), InterestRate: amount("15"),
			IssueDate: months(-6), DueDate: months(6),
			Status:          domain.LoanStatusActive,
			PaymentSchedule: monthly(days(5), 12, "898.33"),
		},
		{
			ID: "4", BorrowerID: "4", BorrowerName: "Ana Santos",
			Principal: amount("2000"), InterestRate: amount("8"),
			IssueDate: months(-1), DueDate: months(2),
			Status:          domain.LoanStatusActive,
			PaymentSchedule: monthly(days(15), 3, "680"),
		},
		{
			ID: "5", BorrowerID: "5", BorrowerName: "Pedro Costa",
			Principal: amount("7500"), InterestRate: amount("14"),
			IssueDate: months(-4), DueDate: days(-45),
			Status:          domain.LoanStatusDefaulted,
			PaymentSchedule: monthly(days(-45), 8, "1003.13"),
		},
	}

	payment := func(id, loanID string, date time.Time, total, principal, interest string) *domain.Payment {
		return &domain.Payment{
			ID: id, LoanID: loanID, Date: date,
			Amount: amount(total), Principal: amount(principal), Interest: amount(interest),
		}
	}

	payments := []*domain.Payment{
		payment("1", "1", days(-20), "441.67", "391.67", "50"),
		payment("2", "1", days(-50), "441.67", "391.67", "50"),
		payment("3", "2", days(-45), "525", "475", "50"),
		payment("4", "3", days(-5), "898.33", "773.33", "125"),
		payment("5", "3", days(-35), "898.33", "773.33", "125"),
		payment("6", "3", days(-65), "898.33", "773.33", "125"),
		payment("7", "4", days(-15), "680", "653.33", "26.67"),
	}

	return borrowers, loans, payments
}
