package service

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/segyhp/loan-ledger/internal/accounting"
	"github.com/segyhp/loan-ledger/internal/domain"
	customError "github.com/segyhp/loan-ledger/pkg/errors"
	"github.com/segyhp/loan-ledger/pkg/utils"
)

// GetLoanBalance computes the position of one loan as of now.
func (s *LoanService) GetLoanBalance(ctx context.Context, loanID string) (*domain.LoanBalance, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()

	loan, err := s.getLoan(ctx, loanID)
	if err != nil {
		return nil, err
	}
	payments, err := s.PaymentRepo.GetByLoanID(ctx, loanID)
	if err != nil {
		return nil, err
	}

	return &domain.LoanBalance{
		LoanID:          loan.ID,
		Principal:       loan.Principal,
		AccruedInterest: accounting.AccruedInterest(loan, now),
		TotalDue:        accounting.TotalDue(loan, now),
		TotalPaid:       accounting.TotalPaid(loan, payments),
		Remaining:       accounting.RemainingBalance(loan, payments, now),
		IsOverdue:       accounting.IsOverdue(loan, now),
		DaysOverdue:     accounting.DaysOverdue(loan, now),
		StoredStatus:    loan.Status,
		DerivedStatus:   accounting.DetermineStatus(loan, payments, now),
		AsOf:            now,
	}, nil
}

// DashboardMetrics aggregates the portfolio as of now. A cached result from
// the same day is served when available.
func (s *LoanService) DashboardMetrics(ctx context.Context) (*domain.DashboardMetrics, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()

	cached, ok, err := s.metrics.Get(ctx, now)
	if err != nil {
		s.logger.WarnContext(ctx, "failed to read metrics cache", "error", err)
	} else if ok {
		return cached, nil
	}

	loans, err := s.LoanRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	payments, err := s.PaymentRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	metrics := computeMetrics(loans, payments, now)

	if err := s.metrics.Set(ctx, metrics); err != nil {
		s.logger.WarnContext(ctx, "failed to write metrics cache", "error", err)
	}
	return metrics, nil
}

func computeMetrics(loans []*domain.Loan, payments []*domain.Payment, now time.Time) *domain.DashboardMetrics {
	byLoan := make(map[string][]*domain.Payment, len(loans))
	for _, p := range payments {
		byLoan[p.LoanID] = append(byLoan[p.LoanID], p)
	}

	metrics := &domain.DashboardMetrics{
		TotalOutstanding:  decimal.Zero,
		TotalInterestPaid: decimal.Zero,
		TotalOverdue:      decimal.Zero,
		MonthlyIncome:     decimal.Zero,
		AsOf:              now,
	}

	for _, loan := range loans {
		if loan.Status == domain.LoanStatusPaid {
			continue
		}
		loanPayments := byLoan[loan.ID]
		remaining := accounting.RemainingBalance(loan, loanPayments, now)

		metrics.TotalOutstanding = metrics.TotalOutstanding.Add(remaining)
		metrics.TotalInterestPaid = metrics.TotalInterestPaid.Add(
			sumAmounts(loanPayments, func(p *domain.Payment) decimal.Decimal { return p.Interest }),
		)
		if loan.Status.IsDelinquent() {
			metrics.TotalOverdue = metrics.TotalOverdue.Add(remaining)
		}
	}

	for _, p := range payments {
		if utils.SameMonth(p.Date, now) {
			metrics.MonthlyIncome = metrics.MonthlyIncome.Add(p.Amount)
		}
	}
	return metrics
}

// ListOverdueLoans returns loans whose stored status is overdue or defaulted.
func (s *LoanService) ListOverdueLoans(ctx context.Context) ([]*domain.Loan, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	loans, err := s.LoanRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	overdue := make([]*domain.Loan, 0)
	for _, loan := range loans {
		if loan.Status.IsDelinquent() {
			overdue = append(overdue, loan)
		}
	}
	return overdue, nil
}

// ListUpcomingDue returns unpaid loans due from the start of today through
// now plus days. Due dates are midnights, so the window opens at the start of
// today rather than at now to keep loans due today.
func (s *LoanService) ListUpcomingDue(ctx context.Context, days int) ([]*domain.Loan, error) {
	if days < 0 {
		return nil, customError.WrapValidation("days must not be negative, got %d", days)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	from := utils.StartOfDay(now)
	until := now.AddDate(0, 0, days)

	loans, err := s.LoanRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	upcoming := make([]*domain.Loan, 0)
	for _, loan := range loans {
		if loan.Status == domain.LoanStatusPaid {
			continue
		}
		if !loan.DueDate.Before(from) && !loan.DueDate.After(until) {
			upcoming = append(upcoming, loan)
		}
	}
	return upcoming, nil
}

// PortfolioSummary counts loans per status and totals what was lent and received.
func (s *LoanService) PortfolioSummary(ctx context.Context) (*domain.PortfolioSummary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	borrowers, err := s.BorrowerRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	loans, err := s.LoanRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	payments, err := s.PaymentRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	summary := &domain.PortfolioSummary{
		TotalLoans:           len(loans),
		LoansByStatus:        make(map[domain.LoanStatus]int),
		TotalBorrowers:       len(borrowers),
		TotalPrincipalIssued: decimal.Zero,
		TotalReceived:        sumAmounts(payments, func(p *domain.Payment) decimal.Decimal { return p.Amount }),
		PaymentCount:         len(payments),
	}
	for _, loan := range loans {
		summary.LoansByStatus[loan.Status]++
		summary.TotalPrincipalIssued = summary.TotalPrincipalIssued.Add(loan.Principal)
	}
	return summary, nil
}
