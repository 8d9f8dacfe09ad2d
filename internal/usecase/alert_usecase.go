package usecase

import (
	"context"
	"time"

	"github.com/iho/cashbook/internal/domain"
)

// AlertUseCase reads and dismisses persisted threshold alerts. Alerts are
// created by the entry mutation path, never here.
type AlertUseCase struct {
	alertRepo AlertRepository
}

// NewAlertUseCase creates a new AlertUseCase.
func NewAlertUseCase(alertRepo AlertRepository) *AlertUseCase {
	return &AlertUseCase{alertRepo: alertRepo}
}

// ListAlertsInput represents input for listing alerts.
type ListAlertsInput struct {
	OwnerID          string
	IncludeDismissed bool
	Limit            int
	Offset           int
}

// ListAlerts lists an owner's alerts, newest first.
func (uc *AlertUseCase) ListAlerts(ctx context.Context, input ListAlertsInput) ([]*domain.Alert, error) {
	limit, offset := clampPage(input.Limit, input.Offset)

	return uc.alertRepo.List(ctx, input.OwnerID, input.IncludeDismissed, limit, offset)
}

// DismissAlert marks one alert as dismissed.
func (uc *AlertUseCase) DismissAlert(ctx context.Context, id, ownerID string) error {
	return uc.alertRepo.Dismiss(ctx, id, ownerID, time.Now().UTC())
}
