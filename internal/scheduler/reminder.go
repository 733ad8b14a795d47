// Package scheduler runs the periodic due-date reminder. It only reads the
// ledger; loan status changes only on payment commands.
package scheduler

import (
	"context"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/segyhp/loan-ledger/internal/config"
	"github.com/segyhp/loan-ledger/internal/domain"
	"github.com/segyhp/loan-ledger/internal/logger"
	"github.com/segyhp/loan-ledger/pkg/utils"
)

// LoanSource is what the reminder reads from the ledger.
type LoanSource interface {
	ListUpcomingDue(ctx context.Context, days int) ([]*domain.Loan, error)
	ListOverdueLoans(ctx context.Context) ([]*domain.Loan, error)
}

// Summary is the outcome of one reminder run.
type Summary struct {
	Upcoming int
	Overdue  int
}

type Reminder struct {
	source     LoanSource
	cron       *cron.Cron
	spec       string
	windowDays int
	timeout    time.Duration
	logger     *slog.Logger
}

func NewReminder(source LoanSource, cfg config.SchedulerConfig, location *time.Location, log *slog.Logger) *Reminder {
	if log == nil {
		log = slog.Default()
	}
	if location == nil {
		location = time.UTC
	}
	return &Reminder{
		source:     source,
		cron:       cron.New(cron.WithSeconds(), cron.WithLocation(location)),
		spec:       cfg.Spec,
		windowDays: cfg.ReminderWindowDays,
		timeout:    time.Minute,
		logger:     log.With("component", logger.ComponentScheduler),
	}
}

// Start schedules the job and starts the cron loop in the background.
func (r *Reminder) Start() error {
	_, err := r.cron.AddFunc(r.spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
		defer cancel()

		if _, err := r.RunOnce(ctx); err != nil {
			r.logger.Error("reminder run failed", "error", err)
		}
	})
	if err != nil {
		return err
	}

	r.cron.Start()
	r.logger.Info("reminder scheduled", "spec", r.spec, "window_days", r.windowDays)
	return nil
}

// Stop halts scheduling and waits for a running job until ctx is done.
func (r *Reminder) Stop(ctx context.Context) {
	done := r.cron.Stop()
	select {
	case <-done.Done():
	case <-ctx.Done():
		r.logger.Warn("reminder still running at shutdown")
	}
}

// RunOnce logs one line per loan due within the window and per overdue loan.
func (r *Reminder) RunOnce(ctx context.Context) (Summary, error) {
	upcoming, err := r.source.ListUpcomingDue(ctx, r.windowDays)
	if err != nil {
		return Summary{}, err
	}
	for _, loan := range upcoming {
		r.logger.InfoContext(ctx, "loan due soon",
			"loan_id", loan.ID,
			"borrower", loan.BorrowerName,
			"due_date", utils.FormatDate(loan.DueDate),
		)
	}

	overdue, err := r.source.ListOverdueLoans(ctx)
	if err != nil {
		return Summary{}, err
	}
	for _, loan := range overdue {
		r.logger.WarnContext(ctx, "loan past due",
			"loan_id", loan.ID,
			"borrower", loan.BorrowerName,
			"status", loan.Status,
			"due_date", utils.FormatDate(loan.DueDate),
		)
	}

	summary := Summary{Upcoming: len(upcoming), Overdue: len(overdue)}
	r.logger.InfoContext(ctx, "reminder run finished", "upcoming", summary.Upcoming, "overdue", summary.Overdue)
	return summary, nil
}
