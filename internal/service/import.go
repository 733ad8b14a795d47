package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/segyhp/loan-ledger/internal/domain"
	"github.com/segyhp/loan-ledger/internal/repository"
	"github.com/segyhp/loan-ledger/internal/transfer"
	customError "github.com/segyhp/loan-ledger/pkg/errors"
	"github.com/segyhp/loan-ledger/pkg/utils"
)

// stagedImport holds the writes of one batch until every record was parsed.
type stagedImport struct {
	borrowers []*domain.Borrower
	loans     []*domain.Loan
	known     map[string]string // borrower ID to name
}

// ImportCSV reads loan records from r and imports them as one batch.
func (s *LoanService) ImportCSV(ctx context.Context, r io.Reader) *domain.ImportResult {
	records, err := transfer.ReadImportRecords(r)
	if err != nil {
		s.logger.WarnContext(ctx, "import rejected", "error", err)
		return importFailure(customError.WrapImportFailed(err))
	}
	return s.ImportLoans(ctx, records)
}

// ImportLoans upserts a loan per record, adding the borrower first when the
// record names one that is not yet known. Loans always carry the name of the
// stored or newly added borrower. Records without a loan ID, borrower ID,
// principal or interest rate, or with unparseable fields, are skipped and
// reported. Payments are never touched. Nothing is written when the batch
// fails as a whole.
func (s *LoanService) ImportLoans(ctx context.Context, records []domain.ImportRecord) *domain.ImportResult {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()

	staged := &stagedImport{known: make(map[string]string)}
	results := make([]domain.ImportRecordResult, 0, len(records))

	for _, record := range records {
		result := domain.ImportRecordResult{Line: record.Line, LoanID: strings.TrimSpace(record.LoanID)}

		loan, borrower, err := s.parseImportRecord(ctx, record, staged, now)
		if err != nil {
			result.Outcome = domain.ImportOutcomeSkipped
			result.Reason = err.Error()
			results = append(results, result)
			continue
		}

		if borrower != nil {
			staged.borrowers = append(staged.borrowers, borrower)
			staged.known[borrower.ID] = borrower.Name
		}
		staged.loans = append(staged.loans, loan)
		result.Outcome = domain.ImportOutcomeImported
		results = append(results, result)
	}

	if err := s.commitImport(ctx, staged); err != nil {
		s.logger.ErrorContext(ctx, "import failed", "error", err)
		return importFailure(customError.WrapImportFailed(err))
	}

	imported := len(staged.loans)
	skipped := len(records) - imported

	s.logger.InfoContext(ctx, "import finished", "imported", imported, "skipped", skipped)
	if imported > 0 {
		s.invalidateMetrics(ctx)
	}

	message := fmt.Sprintf("%d loans imported", imported)
	if skipped > 0 {
		message = fmt.Sprintf("%s, %d records skipped", message, skipped)
	}
	return &domain.ImportResult{
		Success:  true,
		Imported: imported,
		Skipped:  skipped,
		Message:  message,
		Records:  results,
	}
}

func importFailure(err error) *domain.ImportResult {
	return &domain.ImportResult{
		Success: false,
		Message: err.Error(),
	}
}

func (s *LoanService) commitImport(ctx context.Context, staged *stagedImport) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	for _, borrower := range staged.borrowers {
		if err := s.BorrowerRepo.Upsert(ctx, borrower); err != nil {
			return fmt.Errorf("store borrower %s: %w", borrower.ID, err)
		}
	}
	for _, loan := range staged.loans {
		if err := s.LoanRepo.Upsert(ctx, loan); err != nil {
			return fmt.Errorf("store loan %s: %w", loan.ID, err)
		}
	}
	return nil
}

// parseImportRecord builds the loan of one record and, when needed, the new
// borrower it refers to.
func (s *LoanService) parseImportRecord(
	ctx context.Context,
	record domain.ImportRecord,
	staged *stagedImport,
	now time.Time,
) (*domain.Loan, *domain.Borrower, error) {
	loanID := strings.TrimSpace(record.LoanID)
	principalText := strings.TrimSpace(record.Principal)
	rateText := strings.TrimSpace(record.InterestRate)
	borrowerID := strings.TrimSpace(record.BorrowerID)

	switch {
	case loanID == "":
		return nil, nil, fmt.Errorf("missing %s", transfer.ColLoanID)
	case borrowerID == "":
		return nil, nil, fmt.Errorf("missing %s", transfer.ColBorrowerID)
	case principalText == "":
		return nil, nil, fmt.Errorf("missing %s", transfer.ColPrincipal)
	case rateText == "":
		return nil, nil, fmt.Errorf("missing %s", transfer.ColInterestRate)
	}

	principal, err := utils.DecimalFromString(principalText)
	if err != nil || !principal.IsPositive() {
		return nil, nil, fmt.Errorf("invalid %s %q", transfer.ColPrincipal, principalText)
	}
	rate, err := utils.DecimalFromString(rateText)
	if err != nil || rate.IsNegative() {
		return nil, nil, fmt.Errorf("invalid %s %q", transfer.ColInterestRate, rateText)
	}

	issueDate := utils.StartOfDay(now)
	if text := strings.TrimSpace(record.IssueDate); text != "" {
		if issueDate, err = utils.ParseDate(text); err != nil {
			return nil, nil, fmt.Errorf("invalid %s %q", transfer.ColIssueDate, text)
		}
	}
	dueDate := issueDate.AddDate(0, s.config.Business.DefaultTermMonths, 0)
	if text := strings.TrimSpace(record.DueDate); text != "" {
		if dueDate, err = utils.ParseDate(text); err != nil {
			return nil, nil, fmt.Errorf("invalid %s %q", transfer.ColDueDate, text)
		}
	}

	status := domain.LoanStatusActive
	if text := strings.ToLower(strings.TrimSpace(record.Status)); text != "" {
		status = domain.LoanStatus(text)
		if !status.IsValid() {
			return nil, nil, fmt.Errorf("invalid %s %q", transfer.ColStatus, record.Status)
		}
	}

	schedule, err := parseImportSchedule(record)
	if err != nil {
		return nil, nil, err
	}
	schedule = s.scheduleWithDefaults(schedule)

	borrowerName := strings.TrimSpace(record.BorrowerName)

	var borrower *domain.Borrower
	if name, ok := staged.known[borrowerID]; ok {
		borrowerName = name
	} else {
		existing, err := s.BorrowerRepo.GetByID(ctx, borrowerID)
		switch {
		case err == nil:
			staged.known[borrowerID] = existing.Name
			borrowerName = existing.Name
		case !errors.Is(err, repository.ErrNotFound):
			return nil, nil, err
		case borrowerName == "":
			return nil, nil, fmt.Errorf("missing %s for new borrower %s", transfer.ColBorrowerName, borrowerID)
		default:
			borrower = &domain.Borrower{
				ID:    borrowerID,
				Name:  borrowerName,
				Email: strings.TrimSpace(record.BorrowerEmail),
				Phone: strings.TrimSpace(record.BorrowerPhone),
			}
		}
	}

	loan := &domain.Loan{
		ID:              loanID,
		BorrowerID:      borrowerID,
		BorrowerName:    borrowerName,
		Principal:       principal,
		InterestRate:    rate,
		IssueDate:       issueDate,
		DueDate:         dueDate,
		Status:          status,
		PaymentSchedule: schedule,
		Notes:           strings.TrimSpace(record.Notes),
	}
	calendarDates(loan, now.Location())
	if err := validateLoan(loan); err != nil {
		return nil, nil, err
	}
	fillInstallment(loan)
	return loan, borrower, nil
}

func parseImportSchedule(record domain.ImportRecord) (*domain.PaymentSchedule, error) {
	frequencyText := strings.ToLower(strings.TrimSpace(record.Frequency))
	if frequencyText == "" {
		return nil, nil
	}

	schedule := &domain.PaymentSchedule{Frequency: domain.Frequency(frequencyText)}
	if !schedule.Frequency.IsValid() {
		return nil, fmt.Errorf("invalid %s %q", transfer.ColFrequency, record.Frequency)
	}

	var err error
	if text := strings.TrimSpace(record.Installments); text != "" {
		if schedule.Installments, err = strconv.Atoi(text); err != nil {
			return nil, fmt.Errorf("invalid %s %q", transfer.ColInstallments, text)
		}
	}

	if text := strings.TrimSpace(record.InstallmentAmount); text != "" {
		if schedule.InstallmentAmount, err = utils.DecimalFromString(text); err != nil {
			return nil, fmt.Errorf("invalid %s %q", transfer.ColInstallmentAmount, text)
		}
	}
	if text := strings.TrimSpace(record.NextPaymentDate); text != "" {
		if schedule.NextPaymentDate, err = utils.ParseDate(text); err != nil {
			return nil, fmt.Errorf("invalid %s %q", transfer.ColNextPaymentDate, text)
		}
	}
	return schedule, nil
}
