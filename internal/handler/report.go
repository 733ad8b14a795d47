package handler

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"github.com/segyhp/loan-ledger/pkg/response"
	"github.com/segyhp/loan-ledger/pkg/utils"
)

const maxImportBytes = 10 << 20

func (h *LedgerHandler) DashboardMetrics(w http.ResponseWriter, r *http.Request) {
	metrics, err := h.service.DashboardMetrics(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	response.Success(w, metrics)
}

func (h *LedgerHandler) PortfolioSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.service.PortfolioSummary(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	response.Success(w, summary)
}

// ExportLoans streams the loan report as a CSV attachment.
func (h *LedgerHandler) ExportLoans(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	if err := h.service.ExportCSV(r.Context(), &buf); err != nil {
		h.fail(w, r, err)
		return
	}

	filename := fmt.Sprintf("loans_%s.csv", utils.FormatDate(time.Now()))
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(buf.Bytes()); err != nil {
		h.logger.WarnContext(r.Context(), "failed to write export", "error", err)
	}
}

// ImportLoans takes a CSV body. A batch that could not be processed at all
// is a 400; skipped records still make a 200.
func (h *LedgerHandler) ImportLoans(w http.ResponseWriter, r *http.Request) {
	body := http.MaxBytesReader(w, r.Body, maxImportBytes)

	result := h.service.ImportCSV(r.Context(), body)
	if !result.Success {
		response.JSON(w, http.StatusBadRequest, result)
		return
	}
	response.Success(w, result)
}
