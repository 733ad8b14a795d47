package service

import (
	"context"
	"errors"
	"time"

	"github.com/segyhp/loan-ledger/internal/accounting"
	"github.com/segyhp/loan-ledger/internal/domain"
	"github.com/segyhp/loan-ledger/internal/repository"
	customError "github.com/segyhp/loan-ledger/pkg/errors"
	"github.com/segyhp/loan-ledger/pkg/utils"
)

// AddLoan issues a new loan. The status is always active; missing rate and
// dates fall back to the configured defaults.
func (s *LoanService) AddLoan(ctx context.Context, request *domain.CreateLoanRequest) (*domain.Loan, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()

	borrower, err := s.getBorrower(ctx, request.BorrowerID)
	if err != nil {
		return nil, err
	}

	rate := s.config.GetDefaultInterestRate()
	if request.InterestRate != nil {
		rate = *request.InterestRate
	}

	issueDate := utils.StartOfDay(now)
	if request.IssueDate != nil {
		issueDate = *request.IssueDate
	}
	dueDate := issueDate.AddDate(0, s.config.Business.DefaultTermMonths, 0)
	if request.DueDate != nil {
		dueDate = *request.DueDate
	}

	loan := &domain.Loan{
		BorrowerID:      borrower.ID,
		BorrowerName:    borrower.Name,
		Principal:       request.Principal,
		InterestRate:    rate,
		IssueDate:       issueDate,
		DueDate:         dueDate,
		Status:          domain.LoanStatusActive,
		PaymentSchedule: s.scheduleWithDefaults(request.PaymentSchedule),
		Notes:           request.Notes,
	}
	calendarDates(loan, now.Location())
	if err := validateLoan(loan); err != nil {
		return nil, err
	}
	fillInstallment(loan)

	if err := s.LoanRepo.Create(ctx, loan); err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "loan issued",
		"loan_id", loan.ID,
		"borrower_id", loan.BorrowerID,
		"principal", loan.Principal.String(),
	)
	s.invalidateMetrics(ctx)
	return loan, nil
}

// UpdateLoan replaces a loan record, status included. Past payment
// allocations are left as they were.
func (s *LoanService) UpdateLoan(ctx context.Context, request *domain.UpdateLoanRequest) (*domain.Loan, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()

	if _, err := s.getLoan(ctx, request.ID); err != nil {
		return nil, err
	}

	borrower, err := s.getBorrower(ctx, request.BorrowerID)
	if err != nil {
		return nil, err
	}

	if !request.Status.IsValid() {
		return nil, customError.WrapValidation("unknown loan status %q", request.Status)
	}

	loan := &domain.Loan{
		ID:              request.ID,
		BorrowerID:      borrower.ID,
		BorrowerName:    borrower.Name,
		Principal:       request.Principal,
		InterestRate:    request.InterestRate,
		IssueDate:       request.IssueDate,
		DueDate:         request.DueDate,
		Status:          request.Status,
		PaymentSchedule: s.scheduleWithDefaults(request.PaymentSchedule),
		Notes:           request.Notes,
	}
	calendarDates(loan, now.Location())
	if err := validateLoan(loan); err != nil {
		return nil, err
	}
	fillInstallment(loan)

	if err := s.LoanRepo.Update(ctx, loan); err != nil {
		return nil, err
	}

	s.logger.DebugContext(ctx, "loan updated", "loan_id", loan.ID, "status", loan.Status)
	s.invalidateMetrics(ctx)
	return loan, nil
}

// DeleteLoan removes a loan. When it still has payments nothing is deleted
// unless confirm is true; the result then asks for confirmation instead.
func (s *LoanService) DeleteLoan(ctx context.Context, id string, confirm bool) (*domain.DeleteLoanResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.getLoan(ctx, id); err != nil {
		return nil, err
	}

	payments, err := s.PaymentRepo.GetByLoanID(ctx, id)
	if err != nil {
		return nil, err
	}
	if len(payments) > 0 && !confirm {
		return &domain.DeleteLoanResult{RequiresConfirmation: true, PaymentCount: len(payments)}, nil
	}

	deleted, err := s.PaymentRepo.DeleteByLoanID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.LoanRepo.Delete(ctx, id); err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "loan deleted", "loan_id", id, "payments_deleted", deleted)
	s.invalidateMetrics(ctx)
	return &domain.DeleteLoanResult{Deleted: true, PaymentCount: deleted, PaymentsDeleted: deleted}, nil
}

// GetLoan looks a loan up by ID.
func (s *LoanService) GetLoan(ctx context.Context, id string) (*domain.Loan, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.getLoan(ctx, id)
}

// ListLoans returns loans in insertion order, optionally only one status.
func (s *LoanService) ListLoans(ctx context.Context, status domain.LoanStatus) ([]*domain.Loan, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if status != "" && !status.IsValid() {
		return nil, customError.WrapValidation("unknown loan status %q", status)
	}

	loans, err := s.LoanRepo.List(ctx)
	if err != nil || status == "" {
		return loans, err
	}

	filtered := make([]*domain.Loan, 0, len(loans))
	for _, loan := range loans {
		if loan.Status == status {
			filtered = append(filtered, loan)
		}
	}
	return filtered, nil
}

// ListLoansByBorrower returns the loans issued to one borrower.
func (s *LoanService) ListLoansByBorrower(ctx context.Context, borrowerID string) ([]*domain.Loan, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.LoanRepo.ListByBorrowerID(ctx, borrowerID)
}

func (s *LoanService) getLoan(ctx context.Context, id string) (*domain.Loan, error) {
	loan, err := s.LoanRepo.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, customError.WrapLoanNotFound(id)
	}
	return loan, err
}

// calendarDates stores issue and due dates as midnight in loc, the service
// clock's zone, so accrual and overdue days change at the same instant as the
// calendar day.
func calendarDates(loan *domain.Loan, loc *time.Location) {
	if !loan.IssueDate.IsZero() {
		loan.IssueDate = utils.DateIn(loan.IssueDate, loc)
	}
	if !loan.DueDate.IsZero() {
		loan.DueDate = utils.DateIn(loan.DueDate, loc)
	}
}

func validateLoan(loan *domain.Loan) error {
	if !loan.Principal.IsPositive() {
		return customError.WrapValidation("principal must be greater than zero, got %s", loan.Principal)
	}
	if loan.InterestRate.IsNegative() {
		return customError.WrapValidation("interest rate must not be negative, got %s", loan.InterestRate)
	}
	if loan.IssueDate.IsZero() || loan.DueDate.IsZero() {
		return customError.WrapValidation("issue date and due date are required")
	}
	if loan.DueDate.Before(loan.IssueDate) {
		return customError.WrapValidation("due date %s is before issue date %s",
			utils.FormatDate(loan.DueDate), utils.FormatDate(loan.IssueDate))
	}
	if sched := loan.PaymentSchedule; sched != nil {
		if !sched.Frequency.IsValid() {
			return customError.WrapValidation("unknown payment frequency %q", sched.Frequency)
		}
		if sched.Installments <= 0 {
			return customError.WrapValidation("installments must be greater than zero")
		}
		if sched.InstallmentAmount.IsNegative() {
			return customError.WrapValidation("installment amount must not be negative")
		}
	}
	return nil
}

// fillInstallment suggests an installment amount and first payment date for
// a schedule that left them empty.
func fillInstallment(loan *domain.Loan) {
	sched := loan.PaymentSchedule
	if sched == nil {
		return
	}
	if sched.InstallmentAmount.IsZero() {
		sched.InstallmentAmount = accounting.SuggestInstallmentAmount(loan.Principal, loan.InterestRate, sched.Installments)
	}
	if sched.NextPaymentDate.IsZero() {
		sched.NextPaymentDate = nextPaymentDate(loan.IssueDate, sched.Frequency)
	}
}

func nextPaymentDate(from time.Time, frequency domain.Frequency) time.Time {
	switch frequency {
	case domain.FrequencyWeekly:
		return from.AddDate(0, 0, 7)
	case domain.FrequencyBiweekly:
		return from.AddDate(0, 0, 14)
	case domain.FrequencyQuarterly:
		return from.AddDate(0, 3, 0)
	case domain.FrequencyYearly:
		return from.AddDate(1, 0, 0)
	default:
		return from.AddDate(0, 1, 0)
	}
}

// scheduleWithDefaults copies sched, filling frequency and installment count
// from config when they were left empty.
func (s *LoanService) scheduleWithDefaults(sched *domain.PaymentSchedule) *domain.PaymentSchedule {
	if sched == nil {
		return nil
	}
	c := *sched
	if c.Frequency == "" {
		c.Frequency = s.config.GetDefaultFrequency()
	}
	if c.Installments == 0 {
		c.Installments = s.config.Business.DefaultInstallments
	}
	return &c
}

