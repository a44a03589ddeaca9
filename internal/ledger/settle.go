package ledger

import (
	"sort"

	"github.com/shopspring/decimal"
)

// Balance direction labels as shown to users.
const (
	DirectionOwed    = "owed"
	DirectionOwe     = "owe"
	DirectionSettled = "settled"
)

// BalanceDirection maps a signed net balance to its label: positive means
// the user is owed money, negative means the user owes money.
func BalanceDirection(net decimal.Decimal) string {
	switch {
	case net.IsPositive():
		return DirectionOwed
	case net.IsNegative():
		return DirectionOwe
	default:
		return DirectionSettled
	}
}

// SuggestedSettlement is one proposed payment that moves a group towards
// all-zero balances.
type SuggestedSettlement struct {
	FromUser int             `json:"from_user"`
	ToUser   int             `json:"to_user"`
	Amount   decimal.Decimal `json:"amount"`
}

// SuggestSettlements proposes payments that clear a group's net balances
// with a greedy debtor-to-creditor matching. Balances smaller than a cent
// are treated as settled. The input must sum to (approximately) zero;
// output order is deterministic for a given input.
func SuggestSettlements(balances map[int]decimal.Decimal) []SuggestedSettlement {
	type entry struct {
		userID int
		amount decimal.Decimal
	}

	var debtors, creditors []entry
	for userID, net := range balances {
		switch {
		case net.GreaterThan(mismatchTolerance):
			creditors = append(creditors, entry{userID, net})
		case net.Neg().GreaterThan(mismatchTolerance):
			debtors = append(debtors, entry{userID, net.Neg()})
		}
	}

	// Largest first so big debts collapse into few payments; user ID
	// breaks ties to keep the output stable.
	byAmountDesc := func(entries []entry) {
		sort.Slice(entries, func(i, j int) bool {
			if !entries[i].amount.Equal(entries[j].amount) {
				return entries[i].amount.GreaterThan(entries[j].amount)
			}
			return entries[i].userID < entries[j].userID
		})
	}
	byAmountDesc(debtors)
	byAmountDesc(creditors)

	var suggestions []SuggestedSettlement
	i, j := 0, 0
	for i < len(debtors) && j < len(creditors) {
		amount := debtors[i].amount
		if creditors[j].amount.LessThan(amount) {
			amount = creditors[j].amount
		}

		if amount.GreaterThan(mismatchTolerance) {
			suggestions = append(suggestions, SuggestedSettlement{
				FromUser: debtors[i].userID,
				ToUser:   creditors[j].userID,
				Amount:   amount,
			})
		}

		debtors[i].amount = debtors[i].amount.Sub(amount)
		creditors[j].amount = creditors[j].amount.Sub(amount)

		if debtors[i].amount.LessThanOrEqual(mismatchTolerance) {
			i++
		}
		if creditors[j].amount.LessThanOrEqual(mismatchTolerance) {
			j++
		}
	}

	return suggestions
}
