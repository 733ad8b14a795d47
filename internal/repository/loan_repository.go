package repository

import (
	"context"

	"github.com/segyhp/loan-ledger/internal/domain"
)

type loanRepository struct {
	loans *collection[*domain.Loan]
}

// NewLoanRepository returns an in-memory loan repository.
func NewLoanRepository() LoanRepository {
	return &loanRepository{
		loans: newCollection((*domain.Loan).Clone),
	}
}

func (r *loanRepository) Create(ctx context.Context, loan *domain.Loan) error {
	if loan.ID == "" {
		loan.ID = newID()
	}
	return r.loans.insert(loan.ID, loan)
}

func (r *loanRepository) GetByID(ctx context.Context, id string) (*domain.Loan, error) {
	return r.loans.get(id)
}

func (r *loanRepository) Update(ctx context.Context, loan *domain.Loan) error {
	return r.loans.replace(loan.ID, loan)
}

func (r *loanRepository) Upsert(ctx context.Context, loan *domain.Loan) error {
	if loan.ID == "" {
		loan.ID = newID()
	}
	r.loans.upsert(loan.ID, loan)
	return nil
}

func (r *loanRepository) Delete(ctx context.Context, id string) error {
	return r.loans.remove(id)
}

func (r *loanRepository) List(ctx context.Context) ([]*domain.Loan, error) {
	return r.loans.list(nil), nil
}

func (r *loanRepository) ListByBorrowerID(ctx context.Context, borrowerID string) ([]*domain.Loan, error) {
	return r.loans.list(func(l *domain.Loan) bool {
		return l.BorrowerID == borrowerID
	}), nil
}
