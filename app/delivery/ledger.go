package delivery

import (
	"context"
	"fmt"
	"time"

	"feedrelay/app/database"
)

// Ledger is the append-only record of delivery outcomes. One row is persisted
// per reported state, in input order; nothing is deduplicated or merged with
// prior records.
type Ledger struct {
	deliveryRepo database.DeliveryRepository
}

func NewLedger(deliveryRepo database.DeliveryRepository) *Ledger {
	return &Ledger{deliveryRepo: deliveryRepo}
}

// Store persists one record per state in the order given.
func (l *Ledger) Store(ctx context.Context, feedID string, states []State) error {
	for _, state := range states {
		record := database.DeliveryRecord{
			ID:              state.ID,
			FeedID:          feedID,
			MediumID:        state.MediumID,
			Status:          string(state.Status),
			ErrorCode:       string(state.ErrorCode),
			InternalMessage: state.InternalMessage,
		}
		if err := l.deliveryRepo.Insert(ctx, record); err != nil {
			return fmt.Errorf("failed to store delivery state: %w", err)
		}
	}
	return nil
}

// CountDeliveriesInPastTimeframe counts sent and rejected attempts for the
// feed inside the trailing window. Failed and filtered-out attempts are
// excluded because they never consumed the destination's quota.
func (l *Ledger) CountDeliveriesInPastTimeframe(ctx context.Context, feedID string, windowSeconds int) (int, error) {
	since := time.Now().UTC().Add(-time.Duration(windowSeconds) * time.Second)
	count, err := l.deliveryRepo.CountSentAndRejectedSince(ctx, feedID, since)
	if err != nil {
		return 0, fmt.Errorf("failed to count deliveries in window: %w", err)
	}
	return count, nil
}
