// Package split computes per-member allocations for group expenses.
package split

import (
	"fmt"

	"github.com/google/uuid"
)

// Share is one member's allocated portion of an expense.
type Share struct {
	UserID      uuid.UUID
	AmountCents int64
}

// Even divides amountCents evenly across members. Amounts are integer
// cents; the remainder is handed out one cent at a time to the first
// members in order, so the shares always sum exactly to amountCents.
func Even(amountCents int64, members []uuid.UUID) ([]Share, error) {
	if amountCents <= 0 {
		return nil, fmt.Errorf("amount must be positive, got %d", amountCents)
	}
	if len(members) == 0 {
		return nil, fmt.Errorf("must have at least one member to split between")
	}

	n := int64(len(members))
	base := amountCents / n
	remainder := amountCents - base*n

	shares := make([]Share, len(members))
	for i, m := range members {
		amount := base
		if int64(i) < remainder {
			amount++
		}
		shares[i] = Share{UserID: m, AmountCents: amount}
	}
	return shares, nil
}

// Total sums the allocated amounts of the given shares.
func Total(shares []Share) int64 {
	var total int64
	for _, s := range shares {
		total += s.AmountCents
	}
	return total
}
