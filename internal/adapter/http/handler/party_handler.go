package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/iho/cashbook/internal/adapter/http/dto"
	"github.com/iho/cashbook/internal/usecase"
)

// PartyHandler handles counterparty endpoints.
type PartyHandler struct {
	partyUC *usecase.PartyUseCase
}

// NewPartyHandler creates a new PartyHandler.
func NewPartyHandler(partyUC *usecase.PartyUseCase) *PartyHandler {
	return &PartyHandler{partyUC: partyUC}
}

// Create handles POST /api/v1/parties.
func (h *PartyHandler) Create(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerID(w, r)
	if !ok {
		return
	}

	var req dto.CreatePartyRequest
	if err := decodeStrict(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	party, err := h.partyUC.CreateParty(r.Context(), req.ToUseCaseInput(owner))
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.PartyFromDomain(party))
}

// Get handles GET /api/v1/parties/{id}.
func (h *PartyHandler) Get(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerID(w, r)
	if !ok {
		return
	}

	party, err := h.partyUC.GetParty(r.Context(), chi.URLParam(r, "id"), owner)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.PartyFromDomain(party))
}

// List handles GET /api/v1/parties.
func (h *PartyHandler) List(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerID(w, r)
	if !ok {
		return
	}

	limit := parseIntQuery(r, "limit", usecase.DefaultPageSize)
	offset := parseIntQuery(r, "offset", 0)

	parties, err := h.partyUC.ListParties(r.Context(), owner, limit, offset)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ListResponse[*dto.PartyResponse]{
		Items:  dto.PartiesFromDomain(parties),
		Limit:  limit,
		Offset: offset,
	})
}

// Delete handles DELETE /api/v1/parties/{id}. Entries keep their history;
// only the party reference is cleared.
func (h *PartyHandler) Delete(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerID(w, r)
	if !ok {
		return
	}

	if err := h.partyUC.DeleteParty(r.Context(), chi.URLParam(r, "id"), owner); err != nil {
		writeDomainError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
