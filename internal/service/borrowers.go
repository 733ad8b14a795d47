package service

import (
	"context"
	"errors"
	"strings"

	"github.com/segyhp/loan-ledger/internal/domain"
	"github.com/segyhp/loan-ledger/internal/repository"
	customError "github.com/segyhp/loan-ledger/pkg/errors"
)

// AddBorrower registers a new borrower.
func (s *LoanService) AddBorrower(ctx context.Context, request *domain.CreateBorrowerRequest) (*domain.Borrower, error) {
	name := strings.TrimSpace(request.Name)
	if name == "" {
		return nil, customError.WrapValidation("borrower name is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	borrower := &domain.Borrower{
		Name:  name,
		Email: strings.TrimSpace(request.Email),
		Phone: strings.TrimSpace(request.Phone),
	}
	if err := s.BorrowerRepo.Create(ctx, borrower); err != nil {
		return nil, err
	}

	s.logger.DebugContext(ctx, "borrower added", "borrower_id", borrower.ID)
	return borrower, nil
}

// UpdateBorrower replaces a borrower's details and copies a new name onto
// every loan that references it.
func (s *LoanService) UpdateBorrower(ctx context.Context, request *domain.UpdateBorrowerRequest) (*domain.Borrower, error) {
	name := strings.TrimSpace(request.Name)
	if name == "" {
		return nil, customError.WrapValidation("borrower name is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.getBorrower(ctx, request.ID); err != nil {
		return nil, err
	}

	loans, err := s.LoanRepo.ListByBorrowerID(ctx, request.ID)
	if err != nil {
		return nil, err
	}

	borrower := &domain.Borrower{
		ID:    request.ID,
		Name:  name,
		Email: strings.TrimSpace(request.Email),
		Phone: strings.TrimSpace(request.Phone),
	}
	if err := s.BorrowerRepo.Update(ctx, borrower); err != nil {
		return nil, err
	}

	renamed := 0
	for _, loan := range loans {
		if loan.BorrowerName == name {
			continue
		}
		loan.BorrowerName = name
		if err := s.LoanRepo.Update(ctx, loan); err != nil {
			return nil, err
		}
		renamed++
	}

	s.logger.DebugContext(ctx, "borrower updated", "borrower_id", borrower.ID, "loans_renamed", renamed)
	if renamed > 0 {
		s.invalidateMetrics(ctx)
	}
	return borrower, nil
}

// DeleteBorrower removes a borrower. It refuses while any loan references it.
func (s *LoanService) DeleteBorrower(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.getBorrower(ctx, id); err != nil {
		return err
	}

	loans, err := s.LoanRepo.ListByBorrowerID(ctx, id)
	if err != nil {
		return err
	}
	if len(loans) > 0 {
		s.logger.WarnContext(ctx, "refused to delete borrower with loans", "borrower_id", id, "loans", len(loans))
		return customError.WrapBorrowerHasLoans(id, len(loans))
	}

	if err := s.BorrowerRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.DebugContext(ctx, "borrower deleted", "borrower_id", id)
	return nil
}

// GetBorrower looks a borrower up by ID.
func (s *LoanService) GetBorrower(ctx context.Context, id string) (*domain.Borrower, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.getBorrower(ctx, id)
}

// ListBorrowers returns all borrowers in the order they were added.
func (s *LoanService) ListBorrowers(ctx context.Context) ([]*domain.Borrower, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.BorrowerRepo.List(ctx)
}

func (s *LoanService) getBorrower(ctx context.Context, id string) (*domain.Borrower, error) {
	borrower, err := s.BorrowerRepo.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, customError.WrapBorrowerNotFound(id)
	}
	return borrower, err
}
