package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/iho/cashbook/internal/adapter/http/dto"
	"github.com/iho/cashbook/internal/usecase"
)

// EntryHandler handles ledger entry endpoints.
type EntryHandler struct {
	entryUC  *usecase.EntryUseCase
	settleUC *usecase.SettlementUseCase
}

// NewEntryHandler creates a new EntryHandler.
func NewEntryHandler(entryUC *usecase.EntryUseCase, settleUC *usecase.SettlementUseCase) *EntryHandler {
	return &EntryHandler{
		entryUC:  entryUC,
		settleUC: settleUC,
	}
}

// Create handles POST /api/v1/entries.
func (h *EntryHandler) Create(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerID(w, r)
	if !ok {
		return
	}

	var req dto.CreateEntryRequest
	if err := decodeStrict(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	input, err := req.ToUseCaseInput(owner)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	result, err := h.entryUC.CreateEntry(r.Context(), input)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.MutationResponse{
		Entry:      dto.EntryFromDomain(result.Entry),
		NewBalance: result.NewBalance,
	})
}

// Get handles GET /api/v1/entries/{id}.
func (h *EntryHandler) Get(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerID(w, r)
	if !ok {
		return
	}

	entry, err := h.entryUC.GetEntry(r.Context(), chi.URLParam(r, "id"), owner)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.EntryFromDomain(entry))
}

// List handles GET /api/v1/entries.
func (h *EntryHandler) List(w http.ResponseWriter, r *http.Request) {
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

	limit := parseIntQuery(r, "limit", usecase.DefaultPageSize)
	offset := parseIntQuery(r, "offset", 0)

	entries, err := h.entryUC.ListEntries(r.Context(), usecase.ListEntriesInput{
		OwnerID: owner,
		From:    from,
		To:      to,
		Limit:   limit,
		Offset:  offset,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ListResponse[*dto.EntryResponse]{
		Items:  dto.EntriesFromDomain(entries),
		Limit:  limit,
		Offset: offset,
	})
}

// Update handles PATCH /api/v1/entries/{id}.
func (h *EntryHandler) Update(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerID(w, r)
	if !ok {
		return
	}

	var req dto.UpdateEntryRequest
	if err := decodeStrict(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	input, err := req.ToUseCaseInput()
	if err != nil {
		writeDomainError(w, err)
		return
	}

	result, err := h.entryUC.UpdateEntry(r.Context(), chi.URLParam(r, "id"), owner, input)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.MutationResponse{
		Entry:      dto.EntryFromDomain(result.Entry),
		NewBalance: result.NewBalance,
	})
}

// Delete handles DELETE /api/v1/entries/{id}.
func (h *EntryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerID(w, r)
	if !ok {
		return
	}

	result, err := h.entryUC.DeleteEntry(r.Context(), chi.URLParam(r, "id"), owner)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"new_balance": result.ReversedBalance,
	})
}

// Settle handles POST /api/v1/entries/{id}/settle.
func (h *EntryHandler) Settle(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerID(w, r)
	if !ok {
		return
	}

	var req dto.SettleRequest
	if err := decodeStrict(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	input, err := req.ToUseCaseInput(owner, chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}

	result, err := h.settleUC.Settle(r.Context(), input)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.SettleFromResult(result))
}
