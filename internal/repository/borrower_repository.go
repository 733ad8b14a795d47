package repository

import (
	"context"

	"github.com/segyhp/loan-ledger/internal/domain"
)

type borrowerRepository struct {
	borrowers *collection[*domain.Borrower]
}

// NewBorrowerRepository returns an in-memory borrower repository.
func NewBorrowerRepository() BorrowerRepository {
	return &borrowerRepository{
		borrowers: newCollection(func(b *domain.Borrower) *domain.Borrower {
			c := *b
			return &c
		}),
	}
}

func (r *borrowerRepository) Create(ctx context.Context, borrower *domain.Borrower) error {
	if borrower.ID == "" {
		borrower.ID = newID()
	}
	return r.borrowers.insert(borrower.ID, borrower)
}

func (r *borrowerRepository) GetByID(ctx context.Context, id string) (*domain.Borrower, error) {
	return r.borrowers.get(id)
}

func (r *borrowerRepository) Update(ctx context.Context, borrower *domain.Borrower) error {
	return r.borrowers.replace(borrower.ID, borrower)
}

func (r *borrowerRepository) Upsert(ctx context.Context, borrower *domain.Borrower) error {
	if borrower.ID == "" {
		borrower.ID = newID()
	}
	r.borrowers.upsert(borrower.ID, borrower)
	return nil
}

func (r *borrowerRepository) Delete(ctx context.Context, id string) error {
	return r.borrowers.remove(id)
}

func (r *borrowerRepository) List(ctx context.Context) ([]*domain.Borrower, error) {
	return r.borrowers.list(nil), nil
}
