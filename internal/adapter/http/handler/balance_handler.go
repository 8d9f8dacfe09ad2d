package handler

import (
	"net/http"

	"github.com/iho/cashbook/internal/adapter/http/dto"
	"github.com/iho/cashbook/internal/usecase"
)

// BalanceHandler handles cash balance endpoints.
type BalanceHandler struct {
	balanceUC *usecase.BalanceUseCase
}

// NewBalanceHandler creates a new BalanceHandler.
func NewBalanceHandler(balanceUC *usecase.BalanceUseCase) *BalanceHandler {
	return &BalanceHandler{balanceUC: balanceUC}
}

// Get handles GET /api/v1/balance.
func (h *BalanceHandler) Get(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerID(w, r)
	if !ok {
		return
	}

	balance, err := h.balanceUC.GetBalance(r.Context(), owner)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.BalanceFromDomain(balance))
}

// Recalculate handles POST /api/v1/balance/recalculate.
func (h *BalanceHandler) Recalculate(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerID(w, r)
	if !ok {
		return
	}

	total, err := h.balanceUC.Recalculate(r.Context(), owner)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.RecalculateResponse{
		OwnerID: owner,
		Balance: total,
	})
}
