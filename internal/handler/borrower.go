package handler

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/segyhp/loan-ledger/internal/domain"
	"github.com/segyhp/loan-ledger/pkg/response"
)

func (h *LedgerHandler) ListBorrowers(w http.ResponseWriter, r *http.Request) {
	borrowers, err := h.service.ListBorrowers(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	response.Success(w, borrowers)
}

func (h *LedgerHandler) CreateBorrower(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateBorrowerRequest
	if !h.decode(w, r, &req) {
		return
	}

	borrower, err := h.service.AddBorrower(r.Context(), &req)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	response.Created(w, borrower)
}

func (h *LedgerHandler) GetBorrower(w http.ResponseWriter, r *http.Request) {
	borrower, err := h.service.GetBorrower(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		h.fail(w, r, err)
		return
	}
	response.Success(w, borrower)
}

func (h *LedgerHandler) UpdateBorrower(w http.ResponseWriter, r *http.Request) {
	var req domain.UpdateBorrowerRequest
	if !h.decode(w, r, &req) {
		return
	}
	req.ID = mux.Vars(r)["id"]

	borrower, err := h.service.UpdateBorrower(r.Context(), &req)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	response.Success(w, borrower)
}

func (h *LedgerHandler) DeleteBorrower(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteBorrower(r.Context(), mux.Vars(r)["id"]); err != nil {
		h.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *LedgerHandler) ListBorrowerLoans(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if _, err := h.service.GetBorrower(r.Context(), id); err != nil {
		h.fail(w, r, err)
		return
	}

	loans, err := h.service.ListLoansByBorrower(r.Context(), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	response.Success(w, loans)
}
