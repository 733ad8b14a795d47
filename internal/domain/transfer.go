package domain

// ImportRecord is one row of the loan import format, kept as raw text so each
// record can be validated on its own.
type ImportRecord struct {
	Line              int
	LoanID            string
	BorrowerID        string
	BorrowerName      string
	BorrowerEmail     string
	BorrowerPhone     string
	Principal         string
	InterestRate      string
	IssueDate         string
	DueDate           string
	Status            string
	Notes             string
	Frequency         string
	Installments      string
	InstallmentAmount string
	NextPaymentDate   string
}

type ImportOutcome string

const (
	ImportOutcomeImported ImportOutcome = "imported"
	ImportOutcomeSkipped  ImportOutcome = "skipped"
)

type ImportRecordResult struct {
	Line    int           `json:"line"`
	LoanID  string        `json:"loan_id,omitempty"`
	Outcome ImportOutcome `json:"outcome"`
	Reason  string        `json:"reason,omitempty"`
}

type ImportResult struct {
	Success  bool                 `json:"success"`
	Imported int                  `json:"imported"`
	Skipped  int                  `json:"skipped"`
	Message  string               `json:"message"`
	Records  []ImportRecordResult `json:"records,omitempty"`
}

// ExportRow is one loan in the export format with denormalized borrower contact.
type ExportRow struct {
	Loan          *Loan
	BorrowerEmail string
	BorrowerPhone string
	PaymentCount  int
}
