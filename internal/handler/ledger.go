package handler

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"reflect"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"

	"github.com/segyhp/loan-ledger/internal/domain"
	"github.com/segyhp/loan-ledger/internal/logger"
	"github.com/segyhp/loan-ledger/pkg/response"
)

// LoanLedger is the command and query surface the HTTP layer drives.
type LoanLedger interface {
	AddBorrower(ctx context.Context, request *domain.CreateBorrowerRequest) (*domain.Borrower, error)
	UpdateBorrower(ctx context.Context, request *domain.UpdateBorrowerRequest) (*domain.Borrower, error)
	DeleteBorrower(ctx context.Context, id string) error
	GetBorrower(ctx context.Context, id string) (*domain.Borrower, error)
	ListBorrowers(ctx context.Context) ([]*domain.Borrower, error)

	AddLoan(ctx context.Context, request *domain.CreateLoanRequest) (*domain.Loan, error)
	UpdateLoan(ctx context.Context, request *domain.UpdateLoanRequest) (*domain.Loan, error)
	DeleteLoan(ctx context.Context, id string, confirm bool) (*domain.DeleteLoanResult, error)
	GetLoan(ctx context.Context, id string) (*domain.Loan, error)
	ListLoans(ctx context.Context, status domain.LoanStatus) ([]*domain.Loan, error)
	ListLoansByBorrower(ctx context.Context, borrowerID string) ([]*domain.Loan, error)

	AddPayment(ctx context.Context, request *domain.CreatePaymentRequest) (*domain.Payment, error)
	UpdatePayment(ctx context.Context, request *domain.UpdatePaymentRequest) (*domain.Payment, error)
	DeletePayment(ctx context.Context, id string) error
	GetPayment(ctx context.Context, id string) (*domain.Payment, error)
	ListPayments(ctx context.Context) ([]*domain.Payment, error)
	ListPaymentsByLoan(ctx context.Context, loanID string) ([]*domain.Payment, error)

	GetLoanBalance(ctx context.Context, loanID string) (*domain.LoanBalance, error)
	DashboardMetrics(ctx context.Context) (*domain.DashboardMetrics, error)
	ListOverdueLoans(ctx context.Context) ([]*domain.Loan, error)
	ListUpcomingDue(ctx context.Context, days int) ([]*domain.Loan, error)
	PortfolioSummary(ctx context.Context) (*domain.PortfolioSummary, error)

	ImportCSV(ctx context.Context, r io.Reader) *domain.ImportResult
	ExportCSV(ctx context.Context, w io.Writer) error
}

type LedgerHandler struct {
	service   LoanLedger
	validator *validator.Validate
	logger    *slog.Logger
}

func NewLedgerHandler(service LoanLedger, log *slog.Logger) *LedgerHandler {
	if log == nil {
		log = slog.Default()
	}
	return &LedgerHandler{
		service:   service,
		validator: newValidator(),
		logger:    log.With("component", logger.ComponentHTTP),
	}
}

// newValidator lets numeric tags such as gt=0 apply to decimal amounts.
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := d.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})
	return v
}

// RegisterRoutes mounts the /api/v1 surface on router.
func (h *LedgerHandler) RegisterRoutes(router *mux.Router) {
	api := router.PathPrefix("/api/v1").Subrouter()

	api.HandleFunc("/borrowers", h.ListBorrowers).Methods(http.MethodGet)
	api.HandleFunc("/borrowers", h.CreateBorrower).Methods(http.MethodPost)
	api.HandleFunc("/borrowers/{id}", h.GetBorrower).Methods(http.MethodGet)
	api.HandleFunc("/borrowers/{id}", h.UpdateBorrower).Methods(http.MethodPut)
	api.HandleFunc("/borrowers/{id}", h.DeleteBorrower).Methods(http.MethodDelete)
	api.HandleFunc("/borrowers/{id}/loans", h.ListBorrowerLoans).Methods(http.MethodGet)

	// Fixed paths first so they are not taken for a loan ID.
	api.HandleFunc("/loans/overdue", h.ListOverdueLoans).Methods(http.MethodGet)
	api.HandleFunc("/loans/upcoming", h.ListUpcomingDue).Methods(http.MethodGet)
	api.HandleFunc("/loans", h.ListLoans).Methods(http.MethodGet)
	api.HandleFunc("/loans", h.CreateLoan).Methods(http.MethodPost)
	api.HandleFunc("/loans/{id}", h.GetLoan).Methods(http.MethodGet)
	api.HandleFunc("/loans/{id}", h.UpdateLoan).Methods(http.MethodPut)
	api.HandleFunc("/loans/{id}", h.DeleteLoan).Methods(http.MethodDelete)
	api.HandleFunc("/loans/{id}/balance", h.GetLoanBalance).Methods(http.MethodGet)
	api.HandleFunc("/loans/{id}/payments", h.ListLoanPayments).Methods(http.MethodGet)

	api.HandleFunc("/payments", h.ListPayments).Methods(http.MethodGet)
	api.HandleFunc("/payments", h.CreatePayment).Methods(http.MethodPost)
	api.HandleFunc("/payments/{id}", h.GetPayment).Methods(http.MethodGet)
	api.HandleFunc("/payments/{id}", h.UpdatePayment).Methods(http.MethodPut)
	api.HandleFunc("/payments/{id}", h.DeletePayment).Methods(http.MethodDelete)

	api.HandleFunc("/dashboard/metrics", h.DashboardMetrics).Methods(http.MethodGet)
	api.HandleFunc("/reports/summary", h.PortfolioSummary).Methods(http.MethodGet)
	api.HandleFunc("/reports/loans.csv", h.ExportLoans).Methods(http.MethodGet)
	api.HandleFunc("/import", h.ImportLoans).Methods(http.MethodPost)
}

// decode reads a JSON body into dst and validates it. It writes the 400
// itself and returns false when the request is unusable.
func (h *LedgerHandler) decode(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		response.BadRequest(w, "Invalid JSON payload", err)
		return false
	}
	if err := h.validator.Struct(dst); err != nil {
		response.BadRequest(w, "Validation failed", err)
		return false
	}
	return true
}

func (h *LedgerHandler) fail(w http.ResponseWriter, r *http.Request, err error) {
	h.logger.DebugContext(r.Context(), "request rejected", "path", r.URL.Path, "error", err)
	response.FromError(w, err)
}
