package repository

import (
	"context"

	"github.com/segyhp/loan-ledger/internal/domain"
)

type paymentRepository struct {
	payments *collection[*domain.Payment]
}

// NewPaymentRepository returns an in-memory payment repository.
func NewPaymentRepository() PaymentRepository {
	return &paymentRepository{
		payments: newCollection(func(p *domain.Payment) *domain.Payment {
			c := *p
			return &c
		}),
	}
}

func (r *paymentRepository) Create(ctx context.Context, payment *domain.Payment) error {
	if payment.ID == "" {
		payment.ID = newID()
	}
	return r.payments.insert(payment.ID, payment)
}

func (r *paymentRepository) GetByID(ctx context.Context, id string) (*domain.Payment, error) {
	return r.payments.get(id)
}

func (r *paymentRepository) Update(ctx context.Context, payment *domain.Payment) error {
	return r.payments.replace(payment.ID, payment)
}

func (r *paymentRepository) Delete(ctx context.Context, id string) error {
	return r.payments.remove(id)
}

func (r *paymentRepository) List(ctx context.Context) ([]*domain.Payment, error) {
	return r.payments.list(nil), nil
}

func (r *paymentRepository) GetByLoanID(ctx context.Context, loanID string) ([]*domain.Payment, error) {
	return r.payments.list(func(p *domain.Payment) bool {
		return p.LoanID == loanID
	}), nil
}

func (r *paymentRepository) DeleteByLoanID(ctx context.Context, loanID string) (int, error) {
	doomed := r.payments.list(func(p *domain.Payment) bool {
		return p.LoanID == loanID
	})
	for _, p := range doomed {
		if err := r.payments.remove(p.ID); err != nil {
			return 0, err
		}
	}
	return len(doomed), nil
}
