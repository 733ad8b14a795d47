package service

import (
	"context"
	"io"

	"github.com/segyhp/loan-ledger/internal/domain"
	"github.com/segyhp/loan-ledger/internal/transfer"
)

// ExportRows returns every loan with its borrower contact and payment count.
func (s *LoanService) ExportRows(ctx context.Context) ([]domain.ExportRow, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.exportRows(ctx)
}

// ExportCSV writes the loan report to w.
func (s *LoanService) ExportCSV(ctx context.Context, w io.Writer) error {
	s.mu.Lock()
	rows, err := s.exportRows(ctx)
	s.mu.Unlock()
	if err != nil {
		return err
	}
	return transfer.WriteLoanReport(w, rows)
}

func (s *LoanService) exportRows(ctx context.Context) ([]domain.ExportRow, error) {
	loans, err := s.LoanRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	borrowers, err := s.BorrowerRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	payments, err := s.PaymentRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	contacts := make(map[string]*domain.Borrower, len(borrowers))
	for _, b := range borrowers {
		contacts[b.ID] = b
	}
	counts := make(map[string]int, len(loans))
	for _, p := range payments {
		counts[p.LoanID]++
	}

	rows := make([]domain.ExportRow, 0, len(loans))
	for _, loan := range loans {
		row := domain.ExportRow{Loan: loan, PaymentCount: counts[loan.ID]}
		if b, ok := contacts[loan.BorrowerID]; ok {
			row.BorrowerEmail = b.Email
			row.BorrowerPhone = b.Phone
		}
		rows = append(rows, row)
	}
	return rows, nil
}
