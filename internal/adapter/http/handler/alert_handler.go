package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/iho/cashbook/internal/adapter/http/dto"
	"github.com/iho/cashbook/internal/usecase"
)

// AlertHandler handles threshold alert endpoints.
type AlertHandler struct {
	alertUC *usecase.AlertUseCase
}

// NewAlertHandler creates a new AlertHandler.
func NewAlertHandler(alertUC *usecase.AlertUseCase) *AlertHandler {
	return &AlertHandler{alertUC: alertUC}
}

// List handles GET /api/v1/alerts.
func (h *AlertHandler) List(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerID(w, r)
	if !ok {
		return
	}

	limit := parseIntQuery(r, "limit", usecase.DefaultPageSize)
	offset := parseIntQuery(r, "offset", 0)

	alerts, err := h.alertUC.ListAlerts(r.Context(), usecase.ListAlertsInput{
		OwnerID:          owner,
		IncludeDismissed: r.URL.Query().Get("include_dismissed") == "true",
		Limit:            limit,
		Offset:           offset,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ListResponse[*dto.AlertResponse]{
		Items:  dto.AlertsFromDomain(alerts),
		Limit:  limit,
		Offset: offset,
	})
}

// Dismiss handles POST /api/v1/alerts/{id}/dismiss.
func (h *AlertHandler) Dismiss(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerID(w, r)
	if !ok {
		return
	}

	if err := h.alertUC.DismissAlert(r.Context(), chi.URLParam(r, "id"), owner); err != nil {
		writeDomainError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
