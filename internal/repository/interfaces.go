package repository

import (
	"context"
	"errors"

	"github.com/segyhp/loan-ledger/internal/domain"
)

var (
	// ErrNotFound is returned when no record has the requested ID.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicateID is returned by Create when the ID is already taken.
	ErrDuplicateID = errors.New("duplicate id")
)

// BorrowerRepository defines the interface for borrower data operations
type BorrowerRepository interface {
	// Create stores a new borrower, generating its ID when empty
	Create(ctx context.Context, borrower *domain.Borrower) error

	// GetByID retrieves a borrower by ID
	GetByID(ctx context.Context, id string) (*domain.Borrower, error)

	// Update replaces an existing borrower
	Update(ctx context.Context, borrower *domain.Borrower) error

	// Upsert inserts the borrower or replaces the one with the same ID
	Upsert(ctx context.Context, borrower *domain.Borrower) error

	// Delete removes a borrower
	Delete(ctx context.Context, id string) error

	// List returns borrowers in insertion order
	List(ctx context.Context) ([]*domain.Borrower, error)
}

// LoanRepository defines the interface for loan data operations
type LoanRepository interface {
	// Create stores a new loan, generating its ID when empty
	Create(ctx context.Context, loan *domain.Loan) error

	// GetByID retrieves a loan by ID
	GetByID(ctx context.Context, id string) (*domain.Loan, error)

	// Update replaces an existing loan
	Update(ctx context.Context, loan *domain.Loan) error

	// Upsert inserts the loan or replaces the one with the same ID
	Upsert(ctx context.Context, loan *domain.Loan) error

	// Delete removes a loan
	Delete(ctx context.Context, id string) error

	// List returns loans in insertion order
	List(ctx context.Context) ([]*domain.Loan, error)

	// ListByBorrowerID returns the loans of one borrower
	ListByBorrowerID(ctx context.Context, borrowerID string) ([]*domain.Loan, error)
}

// PaymentRepository defines the interface for payment data operations
type PaymentRepository interface {
	// Create stores a new payment, generating its ID when empty
	Create(ctx context.Context, payment *domain.Payment) error

	// GetByID retrieves a payment by ID
	GetByID(ctx context.Context, id string) (*domain.Payment, error)

	// Update replaces an existing payment
	Update(ctx context.Context, payment *domain.Payment) error

	// Delete removes a payment
	Delete(ctx context.Context, id string) error

	// List returns payments in insertion order
	List(ctx context.Context) ([]*domain.Payment, error)

	// GetByLoanID retrieves all payments for a loan
	GetByLoanID(ctx context.Context, loanID string) ([]*domain.Payment, error)

	// DeleteByLoanID removes every payment of a loan and returns how many went
	DeleteByLoanID(ctx context.Context, loanID string) (int, error)
}
