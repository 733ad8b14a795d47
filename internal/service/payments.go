package service

import (
	"context"
	"errors"

	"github.com/segyhp/loan-ledger/internal/accounting"
	"github.com/segyhp/loan-ledger/internal/domain"
	"github.com/segyhp/loan-ledger/internal/repository"
	customError "github.com/segyhp/loan-ledger/pkg/errors"
)

// AddPayment records a payment, splits it between interest and principal as
// of the payment date and re-derives the loan status.
func (s *LoanService) AddPayment(ctx context.Context, request *domain.CreatePaymentRequest) (*domain.Payment, error) {
	if !request.Amount.IsPositive() {
		return nil, customError.WrapValidation("payment amount must be greater than zero, got %s", request.Amount)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()

	loan, err := s.getLoan(ctx, request.LoanID)
	if err != nil {
		return nil, err
	}

	date := request.Date
	if date.IsZero() {
		date = now
	}

	split := accounting.AllocatePayment(loan, request.Amount, date)
	payment := &domain.Payment{
		LoanID:    loan.ID,
		Date:      date,
		Amount:    request.Amount,
		Principal: split.Principal,
		Interest:  split.Interest,
		Notes:     request.Notes,
	}
	if err := s.PaymentRepo.Create(ctx, payment); err != nil {
		return nil, err
	}

	s.logger.DebugContext(ctx, "payment recorded",
		"payment_id", payment.ID,
		"loan_id", payment.LoanID,
		"amount", payment.Amount.String(),
		"interest", payment.Interest.String(),
	)

	if err := s.refreshStatus(ctx, loan.ID, now); err != nil {
		return nil, err
	}
	s.invalidateMetrics(ctx)
	return payment, nil
}

// UpdatePayment replaces a payment. A given split must add up to the amount;
// a missing one is allocated again. Both the old and the new loan get their
// status re-derived.
func (s *LoanService) UpdatePayment(ctx context.Context, request *domain.UpdatePaymentRequest) (*domain.Payment, error) {
	if !request.Amount.IsPositive() {
		return nil, customError.WrapValidation("payment amount must be greater than zero, got %s", request.Amount)
	}
	if request.Date.IsZero() {
		return nil, customError.WrapValidation("payment date is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()

	existing, err := s.getPayment(ctx, request.ID)
	if err != nil {
		return nil, err
	}

	loan, err := s.getLoan(ctx, request.LoanID)
	if err != nil {
		return nil, err
	}

	payment := &domain.Payment{
		ID:     request.ID,
		LoanID: loan.ID,
		Date:   request.Date,
		Amount: request.Amount,
		Notes:  request.Notes,
	}

	switch {
	case request.Principal == nil && request.Interest == nil:
		split := accounting.AllocatePayment(loan, request.Amount, request.Date)
		payment.Principal, payment.Interest = split.Principal, split.Interest
	case request.Principal == nil:
		payment.Interest = *request.Interest
		payment.Principal = request.Amount.Sub(payment.Interest)
	case request.Interest == nil:
		payment.Principal = *request.Principal
		payment.Interest = request.Amount.Sub(payment.Principal)
	default:
		payment.Principal, payment.Interest = *request.Principal, *request.Interest
	}

	if payment.Principal.IsNegative() || payment.Interest.IsNegative() {
		return nil, customError.WrapValidation("principal and interest must not be negative")
	}
	if !payment.Principal.Add(payment.Interest).Equal(payment.Amount) {
		return nil, customError.WrapValidation("principal %s plus interest %s must equal amount %s",
			payment.Principal, payment.Interest, payment.Amount)
	}

	if err := s.PaymentRepo.Update(ctx, payment); err != nil {
		return nil, err
	}
	s.logger.DebugContext(ctx, "payment updated", "payment_id", payment.ID, "loan_id", payment.LoanID)

	if existing.LoanID != payment.LoanID {
		if err := s.refreshStatus(ctx, existing.LoanID, now); err != nil {
			return nil, err
		}
	}
	if err := s.refreshStatus(ctx, payment.LoanID, now); err != nil {
		return nil, err
	}
	s.invalidateMetrics(ctx)
	return payment, nil
}

// DeletePayment removes a payment and re-derives its loan's status.
func (s *LoanService) DeletePayment(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()

	payment, err := s.getPayment(ctx, id)
	if err != nil {
		return err
	}
	if err := s.PaymentRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.DebugContext(ctx, "payment deleted", "payment_id", id, "loan_id", payment.LoanID)

	if err := s.refreshStatus(ctx, payment.LoanID, now); err != nil {
		return err
	}
	s.invalidateMetrics(ctx)
	return nil
}

// GetPayment looks a payment up by ID.
func (s *LoanService) GetPayment(ctx context.Context, id string) (*domain.Payment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.getPayment(ctx, id)
}

// ListPayments returns every payment in the order it was recorded.
func (s *LoanService) ListPayments(ctx context.Context) ([]*domain.Payment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.PaymentRepo.List(ctx)
}

// ListPaymentsByLoan returns the payments of one loan.
func (s *LoanService) ListPaymentsByLoan(ctx context.Context, loanID string) ([]*domain.Payment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.PaymentRepo.GetByLoanID(ctx, loanID)
}

func (s *LoanService) getPayment(ctx context.Context, id string) (*domain.Payment, error) {
	payment, err := s.PaymentRepo.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, customError.WrapPaymentNotFound(id)
	}
	return payment, err
}
