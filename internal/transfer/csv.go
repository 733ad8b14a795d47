// Package transfer reads the loan import file and writes the loan export file.
// Both are header-keyed CSV; the export uses the import column names so an
// exported file can be imported back.
package transfer

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/segyhp/loan-ledger/internal/domain"
	"github.com/segyhp/loan-ledger/pkg/utils"
)

// Column names.
const (
	ColLoanID            = "Loan Id"
	ColBorrowerID        = "Borrower Id"
	ColBorrowerName      = "Borrower Name"
	ColBorrowerEmail     = "Borrower Email"
	ColBorrowerPhone     = "Borrower Phone"
	ColPrincipal         = "Principal Amount"
	ColInterestRate      = "Interest Rate"
	ColIssueDate         = "Issue Date"
	ColDueDate           = "Due Date"
	ColStatus            = "Status"
	ColNotes             = "Notes"
	ColFrequency         = "Payment Frequency"
	ColInstallments      = "Installments"
	ColInstallmentAmount = "Installment Amount"
	ColNextPaymentDate   = "Next Payment Date"
	ColPaymentCount      = "Payment Count"
)

// RequiredColumns must all be present in an import header.
var RequiredColumns = []string{ColLoanID, ColBorrowerID, ColBorrowerName, ColPrincipal, ColInterestRate}

// ExportColumns is the header written by WriteLoanReport.
var ExportColumns = []string{
	ColLoanID, ColBorrowerID, ColBorrowerName, ColBorrowerEmail, ColBorrowerPhone,
	ColPrincipal, ColInterestRate, ColIssueDate, ColDueDate, ColStatus, ColNotes,
	ColFrequency, ColInstallments, ColInstallmentAmount, ColNextPaymentDate, ColPaymentCount,
}

var (
	ErrEmptyInput     = errors.New("input has no header row")
	ErrNoRecords      = errors.New("input has no data rows")
	ErrMissingColumns = errors.New("missing required columns")
)

func normalizeHeader(h string) string {
	h = strings.TrimPrefix(h, "\ufeff")
	return strings.ToLower(strings.Join(strings.Fields(h), " "))
}

// ReadImportRecords parses an import file. It fails on unreadable CSV, a
// header without the required columns, or a file without data rows. Field
// content is not interpreted here.
func ReadImportRecords(r io.Reader) ([]domain.ImportRecord, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, ErrEmptyInput
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	index := make(map[string]int, len(header))
	for i, h := range header {
		index[normalizeHeader(h)] = i
	}

	var missing []string
	for _, col := range RequiredColumns {
		if _, ok := index[normalizeHeader(col)]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrMissingColumns, strings.Join(missing, ", "))
	}

	var records []domain.ImportRecord
	for line := 2; ; line++ {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read line %d: %w", line, err)
		}
		if blank(row) {
			continue
		}

		field := func(col string) string {
			i, ok := index[normalizeHeader(col)]
			if !ok || i >= len(row) {
				return ""
			}
			return strings.TrimSpace(row[i])
		}

		records = append(records, domain.ImportRecord{
			Line:              line,
			LoanID:            field(ColLoanID),
			BorrowerID:        field(ColBorrowerID),
			BorrowerName:      field(ColBorrowerName),
			BorrowerEmail:     field(ColBorrowerEmail),
			BorrowerPhone:     field(ColBorrowerPhone),
			Principal:         field(ColPrincipal),
			InterestRate:      field(ColInterestRate),
			IssueDate:         field(ColIssueDate),
			DueDate:           field(ColDueDate),
			Status:            field(ColStatus),
			Notes:             field(ColNotes),
			Frequency:         field(ColFrequency),
			Installments:      field(ColInstallments),
			InstallmentAmount: field(ColInstallmentAmount),
			NextPaymentDate:   field(ColNextPaymentDate),
		})
	}

	if len(records) == 0 {
		return nil, ErrNoRecords
	}
	return records, nil
}

func blank(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

// WriteLoanReport writes one row per loan under ExportColumns.
func WriteLoanReport(w io.Writer, rows []domain.ExportRow) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(ExportColumns); err != nil {
		return err
	}

	for _, row := range rows {
		loan := row.Loan
		record := []string{
			loan.ID,
			loan.BorrowerID,
			loan.BorrowerName,
			row.BorrowerEmail,
			row.BorrowerPhone,
			loan.Principal.String(),
			loan.InterestRate.String(),
			utils.FormatDate(loan.IssueDate),
			utils.FormatDate(loan.DueDate),
			string(loan.Status),
			loan.Notes,
			"", "", "", "",
			strconv.Itoa(row.PaymentCount),
		}
		if s := loan.PaymentSchedule; s != nil {
			record[11] = string(s.Frequency)
			record[12] = strconv.Itoa(s.Installments)
			record[13] = s.InstallmentAmount.String()
			record[14] = utils.FormatDate(s.NextPaymentDate)
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}
