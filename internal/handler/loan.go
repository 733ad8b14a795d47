package handler

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/segyhp/loan-ledger/internal/domain"
	customError "github.com/segyhp/loan-ledger/pkg/errors"
	"github.com/segyhp/loan-ledger/pkg/response"
)

const defaultUpcomingDays = 30

func (h *LedgerHandler) ListLoans(w http.ResponseWriter, r *http.Request) {
	status := domain.LoanStatus(r.URL.Query().Get("status"))

	loans, err := h.service.ListLoans(r.Context(), status)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	response.Success(w, loans)
}

func (h *LedgerHandler) CreateLoan(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateLoanRequest
	if !h.decode(w, r, &req) {
		return
	}

	loan, err := h.service.AddLoan(r.Context(), &req)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	response.Created(w, loan)
}

func (h *LedgerHandler) GetLoan(w http.ResponseWriter, r *http.Request) {
	loan, err := h.service.GetLoan(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		h.fail(w, r, err)
		return
	}
	response.Success(w, loan)
}

func (h *LedgerHandler) UpdateLoan(w http.ResponseWriter, r *http.Request) {
	var req domain.UpdateLoanRequest
	if !h.decode(w, r, &req) {
		return
	}
	req.ID = mux.Vars(r)["id"]

	loan, err := h.service.UpdateLoan(r.Context(), &req)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	response.Success(w, loan)
}

// DeleteLoan answers 409 with the payment count when the loan still has
// payments and the request did not carry confirm=true.
func (h *LedgerHandler) DeleteLoan(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	confirm, _ := strconv.ParseBool(r.URL.Query().Get("confirm"))

	result, err := h.service.DeleteLoan(r.Context(), id, confirm)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if result.RequiresConfirmation {
		response.FromErrorWithData(w, customError.WrapConfirmationRequired(id, result.PaymentCount), result)
		return
	}
	response.Success(w, result)
}

func (h *LedgerHandler) GetLoanBalance(w http.ResponseWriter, r *http.Request) {
	balance, err := h.service.GetLoanBalance(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		h.fail(w, r, err)
		return
	}
	response.Success(w, balance)
}

func (h *LedgerHandler) ListLoanPayments(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if _, err := h.service.GetLoan(r.Context(), id); err != nil {
		h.fail(w, r, err)
		return
	}

	payments, err := h.service.ListPaymentsByLoan(r.Context(), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	response.Success(w, payments)
}

func (h *LedgerHandler) ListOverdueLoans(w http.ResponseWriter, r *http.Request) {
	loans, err := h.service.ListOverdueLoans(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	response.Success(w, loans)
}

func (h *LedgerHandler) ListUpcomingDue(w http.ResponseWriter, r *http.Request) {
	days := defaultUpcomingDays
	if raw := r.URL.Query().Get("days"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			response.BadRequest(w, "Invalid days parameter", err)
			return
		}
		days = parsed
	}

	loans, err := h.service.ListUpcomingDue(r.Context(), days)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	response.Success(w, loans)
}
