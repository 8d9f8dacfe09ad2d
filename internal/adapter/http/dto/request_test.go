package dto_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iho/cashbook/internal/adapter/http/dto"
	"github.com/iho/cashbook/internal/domain"
)

func TestCreateEntryRequest_ToUseCaseInput(t *testing.T) {
	req := dto.CreateEntryRequest{
		EntryDate:     "2025-03-10",
		Type:          "CASH_IN",
		Category:      "SALES",
		Amount:        decimal.NewFromInt(1000),
		PaymentMethod: "CASH",
		Notes:         "march invoice",
	}

	input, err := req.ToUseCaseInput("owner-1")
	require.NoError(t, err)

	assert.Equal(t, "owner-1", input.OwnerID)
	assert.Equal(t, domain.EntryCashIn, input.Type)
	assert.Equal(t, domain.CategorySales, input.Category)
	assert.Equal(t, domain.PaymentCash, input.PaymentMethod)
	assert.Equal(t, 2025, input.EntryDate.Year())
	assert.Equal(t, "march invoice", input.Notes)
}

func TestCreateEntryRequest_RejectsBadDate(t *testing.T) {
	for _, date := range []string{"", "10/03/2025", "2025-03-10T00:00:00Z", "not-a-date"} {
		req := dto.CreateEntryRequest{
			EntryDate: date,
			Type:      "CASH_IN",
			Category:  "SALES",
			Amount:    decimal.NewFromInt(100),
		}

		_, err := req.ToUseCaseInput("owner-1")
		assert.ErrorIs(t, err, domain.ErrInvalidEntryDate, "date %q", date)
	}
}

func TestUpdateEntryRequest_PartialFields(t *testing.T) {
	amount := decimal.NewFromInt(250)
	category := "OPEX"

	req := dto.UpdateEntryRequest{
		Amount:   &amount,
		Category: &category,
	}

	input, err := req.ToUseCaseInput()
	require.NoError(t, err)

	require.NotNil(t, input.Amount)
	assert.True(t, input.Amount.Equal(amount))
	require.NotNil(t, input.Category)
	assert.Equal(t, domain.CategoryOpex, *input.Category)

	assert.Nil(t, input.EntryDate)
	assert.Nil(t, input.Type)
	assert.Nil(t, input.PaymentMethod)
	assert.Nil(t, input.Notes)
}

func TestUpdateEntryRequest_RejectsBadDate(t *testing.T) {
	date := "March 10"
	req := dto.UpdateEntryRequest{EntryDate: &date}

	_, err := req.ToUseCaseInput()
	assert.ErrorIs(t, err, domain.ErrInvalidEntryDate)
}

func TestSettleRequest_ToUseCaseInput(t *testing.T) {
	req := dto.SettleRequest{
		Amount:         decimal.NewFromInt(300),
		SettlementDate: "2025-04-01",
		PaymentMethod:  "BANK",
	}

	input, err := req.ToUseCaseInput("owner-1", "entry-9")
	require.NoError(t, err)

	assert.Equal(t, "owner-1", input.OwnerID)
	assert.Equal(t, "entry-9", input.ObligationID)
	assert.Equal(t, domain.PaymentBank, input.PaymentMethod)
	assert.True(t, input.Amount.Equal(decimal.NewFromInt(300)))
}
