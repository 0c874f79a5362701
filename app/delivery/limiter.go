package delivery

import (
	"context"
	"fmt"
)

// RateLimiter answers admission-control questions from the ledger's trailing
// window count. It only produces the count and the remaining budget; whether
// and how to throttle stays with the caller.
type RateLimiter struct {
	ledger *Ledger
}

func NewRateLimiter(ledger *Ledger) *RateLimiter {
	return &RateLimiter{ledger: ledger}
}

// Remaining returns how many further deliveries fit in the window. A limit of
// zero disables rate accounting and reports an unlimited budget.
func (r *RateLimiter) Remaining(ctx context.Context, feedID string, limit, windowSeconds int) (int, error) {
	if limit <= 0 {
		return -1, nil
	}

	count, err := r.ledger.CountDeliveriesInPastTimeframe(ctx, feedID, windowSeconds)
	if err != nil {
		return 0, fmt.Errorf("failed to get delivery count: %w", err)
	}

	remaining := limit - count
	if remaining < 0 {
		remaining = 0
	}
	return remaining, nil
}
