// Package ledger holds the pure balance arithmetic of SplitRight: turning
// an expense and a split policy into signed per-participant shares, and
// turning net balances into human-facing directions and suggested
// settling payments. Nothing in this package touches storage.
package ledger

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// SplitPolicy selects how an expense total is divided among participants.
type SplitPolicy string

const (
	SplitEqual  SplitPolicy = "equal"
	SplitCustom SplitPolicy = "custom"
)

// mismatchTolerance is how far custom contributions may drift from the
// expense total before the split is rejected (one cent).
var mismatchTolerance = decimal.NewFromFloat(0.01)

// ComputeSplits turns an expense total into signed per-participant shares
// rounded to 2 decimal places. Positive = owed money, negative = owes
// money; the returned shares always sum to exactly zero.
//
// For the equal policy every non-payer owes total/n rounded to the cent,
// and the payer is owed the exact negated sum of those rounded entries, so
// any rounding residue lands in the payer's share instead of breaking the
// zero-sum invariant.
//
// For the custom policy contributions maps each participant to the raw
// amount they are responsible for (non-negative, not yet signed). The
// payer's own contribution may be included or omitted (omitted means 0).
// The contributions must sum to the total within a cent, otherwise a
// *SplitMismatchError is returned.
func ComputeSplits(total decimal.Decimal, payerID int, participants []int, policy SplitPolicy, contributions map[int]decimal.Decimal) (map[int]decimal.Decimal, error) {
	if total.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("%w: amount must be greater than 0", ErrInvalidSplit)
	}
	if len(participants) == 0 {
		return nil, fmt.Errorf("%w: no participants", ErrInvalidSplit)
	}

	payerIncluded := false
	seen := make(map[int]bool, len(participants))
	for _, id := range participants {
		if seen[id] {
			return nil, fmt.Errorf("%w: duplicate participant %d", ErrInvalidSplit, id)
		}
		seen[id] = true
		if id == payerID {
			payerIncluded = true
		}
	}
	if !payerIncluded {
		return nil, fmt.Errorf("%w: payer %d is not a participant", ErrInvalidSplit, payerID)
	}

	switch policy {
	case SplitEqual:
		return equalSplits(total, payerID, participants), nil
	case SplitCustom:
		return customSplits(total, payerID, participants, contributions)
	default:
		return nil, fmt.Errorf("%w: unknown split type %q", ErrInvalidSplit, policy)
	}
}

func equalSplits(total decimal.Decimal, payerID int, participants []int) map[int]decimal.Decimal {
	share := total.Div(decimal.NewFromInt(int64(len(participants)))).Round(2)

	splits := make(map[int]decimal.Decimal, len(participants))
	owedToPayer := decimal.Zero
	for _, id := range participants {
		if id == payerID {
			continue
		}
		splits[id] = share.Neg()
		owedToPayer = owedToPayer.Add(share)
	}
	// The payer absorbs the rounding residue: their share is the exact
	// negation of everyone else's, never total minus an unrounded share.
	splits[payerID] = owedToPayer
	return splits
}

func customSplits(total decimal.Decimal, payerID int, participants []int, contributions map[int]decimal.Decimal) (map[int]decimal.Decimal, error) {
	isParticipant := make(map[int]bool, len(participants))
	for _, id := range participants {
		isParticipant[id] = true
	}

	sum := decimal.Zero
	for id, amount := range contributions {
		if !isParticipant[id] {
			return nil, fmt.Errorf("%w: contribution for non-participant %d", ErrInvalidSplit, id)
		}
		if amount.IsNegative() {
			return nil, fmt.Errorf("%w: negative contribution for participant %d", ErrInvalidSplit, id)
		}
		sum = sum.Add(amount)
	}

	if sum.Sub(total).Abs().GreaterThan(mismatchTolerance) {
		return nil, &SplitMismatchError{Expected: total, Actual: sum}
	}

	splits := make(map[int]decimal.Decimal, len(participants))
	othersOwe := decimal.Zero
	for _, id := range participants {
		if id == payerID {
			continue
		}
		contribution := contributions[id].Round(2)
		splits[id] = contribution.Neg()
		othersOwe = othersOwe.Add(contribution)
	}
	// The payer fronted the total and is responsible for their own
	// contribution, so they are owed what everyone else consumed.
	splits[payerID] = othersOwe
	return splits, nil
}
