package handler

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/segyhp/loan-ledger/internal/domain"
	"github.com/segyhp/loan-ledger/pkg/response"
)

func (h *LedgerHandler) ListPayments(w http.ResponseWriter, r *http.Request) {
	payments, err := h.service.ListPayments(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	response.Success(w, payments)
}

func (h *LedgerHandler) CreatePayment(w http.ResponseWriter, r *http.Request) {
	var req domain.CreatePaymentRequest
	if !h.decode(w, r, &req) {
		return
	}

	payment, err := h.service.AddPayment(r.Context(), &req)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	response.Created(w, payment)
}

func (h *LedgerHandler) GetPayment(w http.ResponseWriter, r *http.Request) {
	payment, err := h.service.GetPayment(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		h.fail(w, r, err)
		return
	}
	response.Success(w, payment)
}

func (h *LedgerHandler) UpdatePayment(w http.ResponseWriter, r *http.Request) {
	var req domain.UpdatePaymentRequest
	if !h.decode(w, r, &req) {
		return
	}
	req.ID = mux.Vars(r)["id"]

	payment, err := h.service.UpdatePayment(r.Context(), &req)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	response.Success(w, payment)
}

func (h *LedgerHandler) DeletePayment(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeletePayment(r.Context(), mux.Vars(r)["id"]); err != nil {
		h.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
