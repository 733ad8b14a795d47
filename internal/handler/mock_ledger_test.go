package handler

import (
	"context"
	"io"

	"github.com/stretchr/testify/mock"

	"github.com/segyhp/loan-ledger/internal/domain"
)

type MockLoanLedger struct {
	mock.Mock
}

func NewMockLoanLedger() *MockLoanLedger {
	return &MockLoanLedger{}
}

func (m *MockLoanLedger) AddBorrower(ctx context.Context, request *domain.CreateBorrowerRequest) (*domain.Borrower, error) {
	args := m.Called(ctx, request)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Borrower), args.Error(1)
}

func (m *MockLoanLedger) UpdateBorrower(ctx context.Context, request *domain.UpdateBorrowerRequest) (*domain.Borrower, error) {
	args := m.Called(ctx, request)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Borrower), args.Error(1)
}

func (m *MockLoanLedger) DeleteBorrower(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockLoanLedger) GetBorrower(ctx context.Context, id string) (*domain.Borrower, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Borrower), args.Error(1)
}

func (m *MockLoanLedger) ListBorrowers(ctx context.Context) ([]*domain.Borrower, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Borrower), args.Error(1)
}

func (m *MockLoanLedger) AddLoan(ctx context.Context, request *domain.CreateLoanRequest) (*domain.Loan, error) {
	args := m.Called(ctx, request)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Loan), args.Error(1)
}

func (m *MockLoanLedger) UpdateLoan(ctx context.Context, request *domain.UpdateLoanRequest) (*domain.Loan, error) {
	args := m.Called(ctx, request)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Loan), args.Error(1)
}

func (m *MockLoanLedger) DeleteLoan(ctx context.Context, id string, confirm bool) (*domain.DeleteLoanResult, error) {
	args := m.Called(ctx, id, confirm)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DeleteLoanResult), args.Error(1)
}

func (m *MockLoanLedger) GetLoan(ctx context.Context, id string) (*domain.Loan, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Loan), args.Error(1)
}

func (m *MockLoanLedger) ListLoans(ctx context.Context, status domain.LoanStatus) ([]*domain.Loan, error) {
	args := m.Called(ctx, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Loan), args.Error(1)
}

func (m *MockLoanLedger) ListLoansByBorrower(ctx context.Context, borrowerID string) ([]*domain.Loan, error) {
	args := m.Called(ctx, borrowerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Loan), args.Error(1)
}

func (m *MockLoanLedger) AddPayment(ctx context.Context, request *domain.CreatePaymentRequest) (*domain.Payment, error) {
	args := m.Called(ctx, request)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Payment), args.Error(1)
}

func (m *MockLoanLedger) UpdatePayment(ctx context.Context, request *domain.UpdatePaymentRequest) (*domain.Payment, error) {
	args := m.Called(ctx, request)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Payment), args.Error(1)
}

func (m *MockLoanLedger) DeletePayment(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockLoanLedger) GetPayment(ctx context.Context, id string) (*domain.Payment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Payment), args.Error(1)
}

func (m *MockLoanLedger) ListPayments(ctx context.Context) ([]*domain.Payment, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Payment), args.Error(1)
}

func (m *MockLoanLedger) ListPaymentsByLoan(ctx context.Context, loanID string) ([]*domain.Payment, error) {
	args := m.Called(ctx, loanID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Payment), args.Error(1)
}

func (m *MockLoanLedger) GetLoanBalance(ctx context.Context, loanID string) (*domain.LoanBalance, error) {
	args := m.Called(ctx, loanID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.LoanBalance), args.Error(1)
}

func (m *MockLoanLedger) DashboardMetrics(ctx context.Context) (*domain.DashboardMetrics, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DashboardMetrics), args.Error(1)
}

func (m *MockLoanLedger) ListOverdueLoans(ctx context.Context) ([]*domain.Loan, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Loan), args.Error(1)
}

func (m *MockLoanLedger) ListUpcomingDue(ctx context.Context, days int) ([]*domain.Loan, error) {
	args := m.Called(ctx, days)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Loan), args.Error(1)
}

func (m *MockLoanLedger) PortfolioSummary(ctx context.Context) (*domain.PortfolioSummary, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PortfolioSummary), args.Error(1)
}

func (m *MockLoanLedger) ImportCSV(ctx context.Context, r io.Reader) *domain.ImportResult {
	return m.Called(ctx, r).Get(0).(*domain.ImportResult)
}

func (m *MockLoanLedger) ExportCSV(ctx context.Context, w io.Writer) error {
	return m.Called(ctx, w).Error(0)
}
