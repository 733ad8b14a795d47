package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/segyhp/loan-ledger/internal/domain"
	"github.com/segyhp/loan-ledger/internal/logger"
	customError "github.com/segyhp/loan-ledger/pkg/errors"
)

func newTestRouter(service LoanLedger) *mux.Router {
	router := mux.NewRouter()
	NewLedgerHandler(service, logger.Discard()).RegisterRoutes(router)
	return router
}

func doRequest(router http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	switch b := body.(type) {
	case nil:
	case string:
		buf.WriteString(b)
	default:
		_ = json.NewEncoder(&buf).Encode(b)
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestLedgerHandler_CreateLoan(t *testing.T) {
	tests := []struct {
		name           string
		requestBody    interface{}
		setupMock      func(*MockLoanLedger)
		expectedStatus int
		expectedBody   string
	}{
		{
			name: "successful loan creation",
			requestBody: map[string]interface{}{
				"borrower_id":   "b1",
				"principal":     "5000",
				"interest_rate": "2.5",
			},
			setupMock: func(m *MockLoanLedger) {
				m.On("AddLoan", mock.Anything, mock.MatchedBy(func(req *domain.CreateLoanRequest) bool {
					return req.BorrowerID == "b1" &&
						req.Principal.Equal(decimal.NewFromInt(5000)) &&
						req.InterestRate != nil && req.InterestRate.Equal(decimal.RequireFromString("2.5"))
				})).Return(&domain.Loan{ID: "l1", BorrowerID: "b1", Status: domain.LoanStatusActive}, nil).Once()
			},
			expectedStatus: http.StatusCreated,
			expectedBody:   `"id":"l1"`,
		},
		{
			name:           "invalid JSON payload",
			requestBody:    "invalid json",
			setupMock:      func(m *MockLoanLedger) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   "Invalid JSON payload",
		},
		{
			name:           "validation error - missing borrower",
			requestBody:    map[string]interface{}{"principal": "100"},
			setupMock:      func(m *MockLoanLedger) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   "Validation failed",
		},
		{
			name:           "validation error - zero principal",
			requestBody:    map[string]interface{}{"borrower_id": "b1", "principal": "0"},
			setupMock:      func(m *MockLoanLedger) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   "Validation failed",
		},
		{
			name:           "validation error - negative interest rate",
			requestBody:    map[string]interface{}{"borrower_id": "b1", "principal": "100", "interest_rate": "-1"},
			setupMock:      func(m *MockLoanLedger) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   "Validation failed",
		},
		{
			name: "validation error - unknown schedule frequency",
			requestBody: map[string]interface{}{
				"borrower_id":      "b1",
				"principal":        "100",
				"payment_schedule": map[string]interface{}{"frequency": "daily", "installments": 3},
			},
			setupMock:      func(m *MockLoanLedger) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   "Validation failed",
		},
		{
			name:        "unknown borrower",
			requestBody: map[string]interface{}{"borrower_id": "ghost", "principal": "100"},
			setupMock: func(m *MockLoanLedger) {
				m.On("AddLoan", mock.Anything, mock.Anything).Return(nil, customError.WrapBorrowerNotFound("ghost")).Once()
			},
			expectedStatus: http.StatusNotFound,
			expectedBody:   customError.ErrCodeBorrowerNotFound,
		},
		{
			name:        "service error",
			requestBody: map[string]interface{}{"borrower_id": "b1", "principal": "100"},
			setupMock: func(m *MockLoanLedger) {
				m.On("AddLoan", mock.Anything, mock.Anything).Return(nil, assert.AnError).Once()
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   "Internal server error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := NewMockLoanLedger()
			tt.setupMock(mockService)

			w := doRequest(newTestRouter(mockService), http.MethodPost, "/api/v1/loans", tt.requestBody)

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectedBody != "" {
				assert.Contains(t, w.Body.String(), tt.expectedBody)
			}
			mockService.AssertExpectations(t)
		})
	}
}

func TestLedgerHandler_DeleteLoan(t *testing.T) {
	t.Run("requires confirmation", func(t *testing.T) {
		m := NewMockLoanLedger()
		m.On("DeleteLoan", mock.Anything, "l1", false).
			Return(&domain.DeleteLoanResult{RequiresConfirmation: true, PaymentCount: 3}, nil).Once()

		w := doRequest(newTestRouter(m), http.MethodDelete, "/api/v1/loans/l1", nil)

		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Contains(t, w.Body.String(), `"requires_confirmation":true`)
		assert.Contains(t, w.Body.String(), customError.ErrCodeConfirmationRequired)
		m.AssertExpectations(t)
	})

	t.Run("confirmed", func(t *testing.T) {
		m := NewMockLoanLedger()
		m.On("DeleteLoan", mock.Anything, "l1", true).
			Return(&domain.DeleteLoanResult{Deleted: true, PaymentCount: 3, PaymentsDeleted: 3}, nil).Once()

		w := doRequest(newTestRouter(m), http.MethodDelete, "/api/v1/loans/l1?confirm=true", nil)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"payments_deleted":3`)
		m.AssertExpectations(t)
	})
}

func TestLedgerHandler_DeleteBorrower(t *testing.T) {
	m := NewMockLoanLedger()
	m.On("DeleteBorrower", mock.Anything, "b1").Return(customError.WrapBorrowerHasLoans("b1", 1)).Once()
	m.On("DeleteBorrower", mock.Anything, "b2").Return(nil).Once()
	router := newTestRouter(m)

	w := doRequest(router, http.MethodDelete, "/api/v1/borrowers/b1", nil)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = doRequest(router, http.MethodDelete, "/api/v1/borrowers/b2", nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	m.AssertExpectations(t)
}

func TestLedgerHandler_UpdateBorrowerUsesPathID(t *testing.T) {
	m := NewMockLoanLedger()
	m.On("UpdateBorrower", mock.Anything, mock.MatchedBy(func(req *domain.UpdateBorrowerRequest) bool {
		return req.ID == "b7" && req.Name == "Rita"
	})).Return(&domain.Borrower{ID: "b7", Name: "Rita"}, nil).Once()

	w := doRequest(newTestRouter(m), http.MethodPut, "/api/v1/borrowers/b7", map[string]string{"name": "Rita", "email": "rita@example.com"})

	assert.Equal(t, http.StatusOK, w.Code)
	m.AssertExpectations(t)

	w = doRequest(newTestRouter(m), http.MethodPut, "/api/v1/borrowers/b7", map[string]string{"name": "Rita", "email": "not-an-email"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLedgerHandler_CreatePayment(t *testing.T) {
	m := NewMockLoanLedger()
	m.On("AddPayment", mock.Anything, mock.MatchedBy(func(req *domain.CreatePaymentRequest) bool {
		return req.LoanID == "l1" && req.Amount.Equal(decimal.NewFromInt(500))
	})).Return(&domain.Payment{ID: "p1", LoanID: "l1"}, nil).Once()
	router := newTestRouter(m)

	w := doRequest(router, http.MethodPost, "/api/v1/payments", map[string]string{"loan_id": "l1", "amount": "500"})
	assert.Equal(t, http.StatusCreated, w.Code)

	w = doRequest(router, http.MethodPost, "/api/v1/payments", map[string]string{"loan_id": "l1", "amount": "-5"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	m.AssertExpectations(t)
}

func TestLedgerHandler_ListUpcomingDue(t *testing.T) {
	m := NewMockLoanLedger()
	m.On("ListUpcomingDue", mock.Anything, defaultUpcomingDays).Return([]*domain.Loan{}, nil).Once()
	m.On("ListUpcomingDue", mock.Anything, 7).Return([]*domain.Loan{{ID: "l1"}}, nil).Once()
	router := newTestRouter(m)

	w := doRequest(router, http.MethodGet, "/api/v1/loans/upcoming", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = doRequest(router, http.MethodGet, "/api/v1/loans/upcoming?days=7", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"id":"l1"`)

	w = doRequest(router, http.MethodGet, "/api/v1/loans/upcoming?days=soon", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	m.AssertExpectations(t)
}

func TestLedgerHandler_ListLoansByStatus(t *testing.T) {
	m := NewMockLoanLedger()
	m.On("ListLoans", mock.Anything, domain.LoanStatusOverdue).Return([]*domain.Loan{}, nil).Once()
	m.On("ListOverdueLoans", mock.Anything).Return([]*domain.Loan{}, nil).Once()
	router := newTestRouter(m)

	assert.Equal(t, http.StatusOK, doRequest(router, http.MethodGet, "/api/v1/loans?status=overdue", nil).Code)
	assert.Equal(t, http.StatusOK, doRequest(router, http.MethodGet, "/api/v1/loans/overdue", nil).Code)
	m.AssertExpectations(t)
}

func TestLedgerHandler_Reports(t *testing.T) {
	m := NewMockLoanLedger()
	m.On("DashboardMetrics", mock.Anything).Return(&domain.DashboardMetrics{
		TotalOutstanding: decimal.NewFromInt(2150),
		AsOf:             time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC),
	}, nil).Once()
	m.On("ExportCSV", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		_, _ = args.Get(1).(*bytes.Buffer).WriteString("Loan Id\nl1\n")
	}).Return(nil).Once()
	m.On("PortfolioSummary", mock.Anything).Return(nil, errors.New("boom")).Once()
	router := newTestRouter(m)

	w := doRequest(router, http.MethodGet, "/api/v1/dashboard/metrics", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"total_outstanding":"2150"`)

	w = doRequest(router, http.MethodGet, "/api/v1/reports/loans.csv", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/csv; charset=utf-8", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "attachment")
	assert.Equal(t, "Loan Id\nl1\n", w.Body.String())

	w = doRequest(router, http.MethodGet, "/api/v1/reports/summary", nil)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	m.AssertExpectations(t)
}

func TestLedgerHandler_Import(t *testing.T) {
	m := NewMockLoanLedger()
	m.On("ImportCSV", mock.Anything, mock.Anything).Return(&domain.ImportResult{Success: true, Imported: 2, Skipped: 1}).Once()
	m.On("ImportCSV", mock.Anything, mock.Anything).Return(&domain.ImportResult{Success: false, Message: "IMPORT_FAILED"}).Once()
	router := newTestRouter(m)

	w := doRequest(router, http.MethodPost, "/api/v1/import", "Loan Id\n")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"imported":2`)

	w = doRequest(router, http.MethodPost, "/api/v1/import", "garbage")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	m.AssertExpectations(t)
}
