package ledger

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestBalanceDirection(t *testing.T) {
	tests := []struct {
		name string
		net  string
		want string
	}{
		{"positive is owed", "50", DirectionOwed},
		{"negative owes", "-50", DirectionOwe},
		{"zero is settled", "0", DirectionSettled},
		{"small positive is owed", "0.01", DirectionOwed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := BalanceDirection(dec(tt.net)); got != tt.want {
				t.Errorf("BalanceDirection(%s) = %q, want %q", tt.net, got, tt.want)
			}
		})
	}
}

func TestSuggestSettlements(t *testing.T) {
	tests := []struct {
		name     string
		balances map[int]decimal.Decimal
		want     []SuggestedSettlement
	}{
		{
			name: "two party group",
			balances: map[int]decimal.Decimal{
				1: dec("50"),
				2: dec("-50"),
			},
			want: []SuggestedSettlement{
				{FromUser: 2, ToUser: 1, Amount: dec("50")},
			},
		},
		{
			name: "three party group settles into two payments",
			balances: map[int]decimal.Decimal{
				1: dec("100"),
				2: dec("-50"),
				3: dec("-50"),
			},
			want: []SuggestedSettlement{
				{FromUser: 2, ToUser: 1, Amount: dec("50")},
				{FromUser: 3, ToUser: 1, Amount: dec("50")},
			},
		},
		{
			name: "largest debtor pays first",
			balances: map[int]decimal.Decimal{
				1: dec("30"),
				2: dec("40"),
				3: dec("-70"),
			},
			want: []SuggestedSettlement{
				{FromUser: 3, ToUser: 2, Amount: dec("40")},
				{FromUser: 3, ToUser: 1, Amount: dec("30")},
			},
		},
		{
			name: "all settled",
			balances: map[int]decimal.Decimal{
				1: dec("0"),
				2: dec("0"),
			},
			want: nil,
		},
		{
			name: "sub-cent noise ignored",
			balances: map[int]decimal.Decimal{
				1: dec("0.01"),
				2: dec("-0.01"),
			},
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SuggestSettlements(tt.balances)
			if len(got) != len(tt.want) {
				t.Fatalf("got %d suggestions, want %d: %+v", len(got), len(tt.want), got)
			}
			for i := range got {
				if got[i].FromUser != tt.want[i].FromUser || got[i].ToUser != tt.want[i].ToUser {
					t.Errorf("suggestion %d = %d->%d, want %d->%d",
						i, got[i].FromUser, got[i].ToUser, tt.want[i].FromUser, tt.want[i].ToUser)
				}
				if !got[i].Amount.Equal(tt.want[i].Amount) {
					t.Errorf("suggestion %d amount = %s, want %s", i, got[i].Amount, tt.want[i].Amount)
				}
			}
		})
	}
}
