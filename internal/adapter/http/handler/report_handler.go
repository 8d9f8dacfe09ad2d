package handler

import (
	"net/http"
	"time"

	"github.com/iho/cashbook/internal/adapter/http/dto"
	"github.com/iho/cashbook/internal/usecase"
)

// ReportHandler handles profit and cash summary endpoints.
type ReportHandler struct {
	profitUC *usecase.ProfitUseCase
}

// NewReportHandler creates a new ReportHandler.
func NewReportHandler(profitUC *usecase.ProfitUseCase) *ReportHandler {
	return &ReportHandler{profitUC: profitUC}
}

// Profit handles GET /api/v1/reports/profit.
func (h *ReportHandler) Profit(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerID(w, r)
	if !ok {
		return
	}

	from, err := parseDateQuery(r, "from")
	if err != nil {
		writeDomainError(w, err)
		return
	}

	to, err := parseDateQuery(r, "to")
	if err != nil {
		writeDomainError(w, err)
		return
	}

	metrics, err := h.profitUC.GetProfitMetrics(r.Context(), usecase.GetProfitMetricsInput{
		OwnerID: owner,
		From:    from,
		To:      to,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ProfitFromDomain(metrics))
}

// MonthlySummary handles GET /api/v1/reports/summary. The month defaults
// to the current one and can be overridden with ?month=YYYY-MM.
func (h *ReportHandler) MonthlySummary(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerID(w, r)
	if !ok {
		return
	}

	at := time.Now().UTC()

	if month := r.URL.Query().Get("month"); month != "" {
		parsed, err := time.Parse("2006-01", month)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid month", "expected YYYY-MM")
			return
		}

		at = parsed
	}

	summary, err := h.profitUC.GetMonthlyCashSummary(r.Context(), owner, at)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.CashSummaryResponse{
		Month:    at.Format("2006-01"),
		TotalIn:  summary.TotalIn,
		TotalOut: summary.TotalOut,
		Net:      summary.Net,
	})
}
