package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/iho/cashbook/internal/adapter/http/dto"
	"github.com/iho/cashbook/internal/adapter/http/middleware"
	"github.com/iho/cashbook/internal/domain"
)

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// writeError writes an error response.
func writeError(w http.ResponseWriter, status int, message, details string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(dto.ErrorResponse{
		Error:   message,
		Message: details,
	})
}

// writeDomainError maps a domain error to its status and writes it.
func writeDomainError(w http.ResponseWriter, err error) {
	writeError(w, mapDomainError(err), err.Error(), "")
}

// decodeStrict decodes a JSON body rejecting unknown fields, so a typoed
// field name fails loudly instead of silently leaving data unchanged.
func decodeStrict(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	return dec.Decode(dst)
}

// ownerID resolves the authenticated owner, or writes 401 and returns
// false.
func ownerID(w http.ResponseWriter, r *http.Request) (string, bool) {
	id, ok := middleware.OwnerFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "owner not resolved", "")
		return "", false
	}

	return id, true
}

// mapDomainError maps domain errors to HTTP status codes.
func mapDomainError(err error) int {
	switch {
	case errors.Is(err, domain.ErrEntryNotFound),
		errors.Is(err, domain.ErrPartyNotFound),
		errors.Is(err, domain.ErrAlertNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrAlreadySettled),
		errors.Is(err, domain.ErrEntryHasSettlements),
		errors.Is(err, domain.ErrSettlementImmutable):
		return http.StatusConflict
	case errors.Is(err, domain.ErrInvalidAmount),
		errors.Is(err, domain.ErrInvalidEntryType),
		errors.Is(err, domain.ErrInvalidCategory),
		errors.Is(err, domain.ErrInvalidPaymentMethod),
		errors.Is(err, domain.ErrInvalidEntryDate),
		errors.Is(err, domain.ErrOwnerRequired),
		errors.Is(err, domain.ErrNotSettleable),
		errors.Is(err, domain.ErrSettleExceedsRemaining),
		errors.Is(err, domain.ErrInvalidParty):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// parseIntQuery parses an integer query parameter with a default value.
func parseIntQuery(r *http.Request, key string, defaultValue int) int {
	val := r.URL.Query().Get(key)
	if val == "" {
		return defaultValue
	}

	i, err := strconv.Atoi(val)
	if err != nil {
		return defaultValue
	}

	return i
}

// parseDateQuery parses an optional YYYY-MM-DD query parameter.
func parseDateQuery(r *http.Request, key string) (*time.Time, error) {
	val := r.URL.Query().Get(key)
	if val == "" {
		return nil, nil
	}

	t, err := time.Parse("2006-01-02", val)
	if err != nil {
		return nil, domain.ErrInvalidEntryDate
	}

	return &t, nil
}
