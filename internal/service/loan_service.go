package service

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/segyhp/loan-ledger/internal/accounting"
	"github.com/segyhp/loan-ledger/internal/cache"
	"github.com/segyhp/loan-ledger/internal/config"
	"github.com/segyhp/loan-ledger/internal/domain"
	"github.com/segyhp/loan-ledger/internal/logger"
	"github.com/segyhp/loan-ledger/internal/repository"
)

// LoanService is the session store for borrowers, loans and payments. Every
// command runs to completion under one lock and reads the clock once, so a
// single operation sees one consistent "now".
type LoanService struct {
	BorrowerRepo repository.BorrowerRepository
	LoanRepo     repository.LoanRepository
	PaymentRepo  repository.PaymentRepository

	mu      sync.Mutex
	metrics cache.MetricsCache
	config  *config.Config
	logger  *slog.Logger
	now     func() time.Time
}

// Option customises a LoanService.
type Option func(*LoanService)

// WithClock replaces time.Now, mostly for tests.
func WithClock(now func() time.Time) Option {
	return func(s *LoanService) { s.now = now }
}

// WithMetricsCache sets the dashboard metrics cache.
func WithMetricsCache(c cache.MetricsCache) Option {
	return func(s *LoanService) { s.metrics = c }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *LoanService) { s.logger = l }
}

func NewLoanService(
	borrowerRepo repository.BorrowerRepository,
	loanRepo repository.LoanRepository,
	paymentRepo repository.PaymentRepository,
	cfg *config.Config,
	opts ...Option,
) *LoanService {
	if cfg == nil {
		cfg = config.Default()
	}
	s := &LoanService{
		BorrowerRepo: borrowerRepo,
		LoanRepo:     loanRepo,
		PaymentRepo:  paymentRepo,
		metrics:      cache.NopMetricsCache{},
		config:       cfg,
		logger:       slog.Default(),
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.With("component", logger.ComponentService)
	return s
}

// refreshStatus re-derives the status of loanID from its payments and
// stores it when it changed. A missing loan is a no-op.
func (s *LoanService) refreshStatus(ctx context.Context, loanID string, now time.Time) error {
	loan, err := s.LoanRepo.GetByID(ctx, loanID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil
		}
		return err
	}

	payments, err := s.PaymentRepo.GetByLoanID(ctx, loanID)
	if err != nil {
		return err
	}

	status := accounting.DetermineStatus(loan, payments, now)
	if status == loan.Status {
		return nil
	}

	s.logger.InfoContext(ctx, "loan status changed",
		"loan_id", loan.ID,
		"from", loan.Status,
		"to", status,
	)
	loan.Status = status
	return s.LoanRepo.Update(ctx, loan)
}

// invalidateMetrics drops cached dashboard metrics after a mutation.
// Cache trouble never fails the command.
func (s *LoanService) invalidateMetrics(ctx context.Context) {
	if err := s.metrics.Invalidate(ctx); err != nil {
		s.logger.WarnContext(ctx, "failed to invalidate metrics cache", "error", err)
	}
}

func sumAmounts(payments []*domain.Payment, pick func(*domain.Payment) decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, p := range payments {
		total = total.Add(pick(p))
	}
	return total
}
