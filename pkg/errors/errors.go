package errors

import (
	"errors"
	"fmt"
)

// Domain errors
var (
	ErrBorrowerNotFound     = errors.New("borrower not found")
	ErrLoanNotFound         = errors.New("loan not found")
	ErrPaymentNotFound      = errors.New("payment not found")
	ErrValidation           = errors.New("validation failed")
	ErrBorrowerHasLoans     = errors.New("borrower has loans")
	ErrConfirmationRequired = errors.New("confirmation required")
	ErrImportFailed         = errors.New("import failed")
)

// BusinessError represents a business logic error
type BusinessError struct {
	Code    string
	Message string
	Err     error
}

func (e *BusinessError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *BusinessError) Unwrap() error {
	return e.Err
}

// NewBusinessError creates a new business error
func NewBusinessError(code, message string, err error) *BusinessError {
	return &BusinessError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Error codes
const (
	ErrCodeBorrowerNotFound     = "BORROWER_NOT_FOUND"
	ErrCodeLoanNotFound         = "LOAN_NOT_FOUND"
	ErrCodePaymentNotFound      = "PAYMENT_NOT_FOUND"
	ErrCodeValidation           = "VALIDATION_FAILED"
	ErrCodeBorrowerHasLoans     = "BORROWER_HAS_LOANS"
	ErrCodeConfirmationRequired = "CONFIRMATION_REQUIRED"
	ErrCodeImportFailed         = "IMPORT_FAILED"
	ErrCodeCacheError           = "CACHE_ERROR"
)

// CodeOf returns the code of the first BusinessError in err's chain, or "".
func CodeOf(err error) string {
	var be *BusinessError
	if errors.As(err, &be) {
		return be.Code
	}
	return ""
}

// Wrap common errors with business context
func WrapBorrowerNotFound(borrowerID string) *BusinessError {
	return NewBusinessError(
		ErrCodeBorrowerNotFound,
		fmt.Sprintf("Borrower with ID %s not found", borrowerID),
		ErrBorrowerNotFound,
	)
}

func WrapLoanNotFound(loanID string) *BusinessError {
	return NewBusinessError(
		ErrCodeLoanNotFound,
		fmt.Sprintf("Loan with ID %s not found", loanID),
		ErrLoanNotFound,
	)
}

func WrapPaymentNotFound(paymentID string) *BusinessError {
	return NewBusinessError(
		ErrCodePaymentNotFound,
		fmt.Sprintf("Payment with ID %s not found", paymentID),
		ErrPaymentNotFound,
	)
}

// WrapValidation reports input rejected before any state change.
func WrapValidation(format string, args ...any) *BusinessError {
	return NewBusinessError(
		ErrCodeValidation,
		fmt.Sprintf(format, args...),
		ErrValidation,
	)
}

func WrapBorrowerHasLoans(borrowerID string, loans int) *BusinessError {
	return NewBusinessError(
		ErrCodeBorrowerHasLoans,
		fmt.Sprintf("Borrower with ID %s still has %d loan(s) and cannot be deleted", borrowerID, loans),
		ErrBorrowerHasLoans,
	)
}

func WrapConfirmationRequired(loanID string, payments int) *BusinessError {
	return NewBusinessError(
		ErrCodeConfirmationRequired,
		fmt.Sprintf("Loan with ID %s has %d payment(s); confirm to delete them with the loan", loanID, payments),
		ErrConfirmationRequired,
	)
}

func WrapImportFailed(err error) *BusinessError {
	return NewBusinessError(
		ErrCodeImportFailed,
		"Import could not be processed",
		errors.Join(ErrImportFailed, err),
	)
}

func WrapCacheError(err error) *BusinessError {
	return NewBusinessError(
		ErrCodeCacheError,
		"Cache operation failed",
		err,
	)
}
