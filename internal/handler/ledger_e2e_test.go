package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/segyhp/loan-ledger/internal/domain"
	"github.com/segyhp/loan-ledger/internal/logger"
	"github.com/segyhp/loan-ledger/internal/repository"
	"github.com/segyhp/loan-ledger/internal/service"
)

type envelope[T any] struct {
	Success bool `json:"success"`
	Data    T    `json:"data"`
}

func decodeData[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var body envelope[T]
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body), w.Body.String())
	return body.Data
}

func newLedgerServer(now time.Time) http.Handler {
	svc := service.NewLoanService(
		repository.NewBorrowerRepository(),
		repository.NewLoanRepository(),
		repository.NewPaymentRepository(),
		nil,
		service.WithClock(func() time.Time { return now }),
		service.WithLogger(logger.Discard()),
	)
	router := mux.NewRouter()
	NewLedgerHandler(svc, logger.Discard()).RegisterRoutes(router)
	return router
}

func TestLedgerFlow(t *testing.T) {
	now := time.Date(2024, time.June, 15, 12, 0, 0, 0, time.UTC)
	router := newLedgerServer(now)

	w := doRequest(router, http.MethodPost, "/api/v1/borrowers", map[string]string{"name": "João Silva", "email": "joao@example.com"})
	require.Equal(t, http.StatusCreated, w.Code)
	borrower := decodeData[domain.Borrower](t, w)

	issue := now.AddDate(0, 0, -60)
	due := now.AddDate(0, 0, 240)
	w = doRequest(router, http.MethodPost, "/api/v1/loans", map[string]interface{}{
		"borrower_id":   borrower.ID,
		"principal":     "5000",
		"interest_rate": "12",
		"issue_date":    issue,
		"due_date":      due,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	loan := decodeData[domain.Loan](t, w)
	assert.Equal(t, "João Silva", loan.BorrowerName)

	w = doRequest(router, http.MethodGet, "/api/v1/loans/"+loan.ID+"/balance", nil)
	require.Equal(t, http.StatusOK, w.Code)
	balance := decodeData[domain.LoanBalance](t, w)
	assert.True(t, decimal.NewFromInt(6200).Equal(balance.TotalDue), balance.TotalDue.String())

	w = doRequest(router, http.MethodPost, "/api/v1/payments", map[string]interface{}{
		"loan_id": loan.ID,
		"amount":  "500",
		"date":    now,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	payment := decodeData[domain.Payment](t, w)
	assert.True(t, decimal.NewFromInt(500).Equal(payment.Interest))
	assert.True(t, payment.Principal.IsZero())

	w = doRequest(router, http.MethodDelete, "/api/v1/borrowers/"+borrower.ID, nil)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = doRequest(router, http.MethodDelete, "/api/v1/loans/"+loan.ID, nil)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = doRequest(router, http.MethodGet, "/api/v1/loans/"+loan.ID+"/payments", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decodeData[[]domain.Payment](t, w), 1)

	w = doRequest(router, http.MethodDelete, "/api/v1/loans/"+loan.ID+"?confirm=true", nil)
	require.Equal(t, http.StatusOK, w.Code)
	result := decodeData[domain.DeleteLoanResult](t, w)
	assert.True(t, result.Deleted)
	assert.Equal(t, 1, result.PaymentsDeleted)

	w = doRequest(router, http.MethodDelete, "/api/v1/borrowers/"+borrower.ID, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = doRequest(router, http.MethodGet, "/api/v1/loans/"+loan.ID, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestLedgerImportExport(t *testing.T) {
	now := time.Date(2024, time.June, 15, 12, 0, 0, 0, time.UTC)
	router := newLedgerServer(now)

	csv := strings.Join([]string{
		"Loan Id,Borrower Id,Borrower Name,Principal Amount,Interest Rate,Due Date",
		"L1,B1,Rita,1000,2,2024-12-01",
		"L2,B1,Rita,,2,2024-12-01",
		"L3,B2,Bruno,300,0,2024-06-20",
	}, "\n")

	w := doRequest(router, http.MethodPost, "/api/v1/import", csv)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	result := decodeData[domain.ImportResult](t, w)
	assert.Equal(t, 2, result.Imported)
	assert.Equal(t, 1, result.Skipped)

	w = doRequest(router, http.MethodGet, "/api/v1/loans/upcoming?days=7", nil)
	require.Equal(t, http.StatusOK, w.Code)
	upcoming := decodeData[[]domain.Loan](t, w)
	require.Len(t, upcoming, 1)
	assert.Equal(t, "L3", upcoming[0].ID)

	w = doRequest(router, http.MethodGet, "/api/v1/reports/loans.csv", nil)
	require.Equal(t, http.StatusOK, w.Code)
	lines := strings.Split(strings.TrimSpace(w.Body.String()), "\n")
	assert.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[1], "L1,B1,Rita,"))

	w = doRequest(router, http.MethodPost, "/api/v1/import", "Loan Id\nL9\n")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
