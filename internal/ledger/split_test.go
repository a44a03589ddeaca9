package ledger

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestComputeSplits(t *testing.T) {
	tests := []struct {
		name          string
		total         decimal.Decimal
		payerID       int
		participants  []int
		policy        SplitPolicy
		contributions map[int]decimal.Decimal
		wantErr       bool
		want          map[int]string
	}{
		{
			name:         "equal split three ways",
			total:        dec("150"),
			payerID:      1,
			participants: []int{1, 2, 3},
			policy:       SplitEqual,
			want:         map[int]string{1: "100", 2: "-50", 3: "-50"},
		},
		{
			name:         "equal split with rounding absorbed by payer",
			total:        dec("100"),
			payerID:      1,
			participants: []int{1, 2, 3},
			policy:       SplitEqual,
			want:         map[int]string{1: "66.66", 2: "-33.33", 3: "-33.33"},
		},
		{
			name:         "equal split payer alone",
			total:        dec("42.50"),
			payerID:      7,
			participants: []int{7},
			policy:       SplitEqual,
			want:         map[int]string{7: "0"},
		},
		{
			name:         "custom split with payer contribution",
			total:        dec("200"),
			payerID:      1,
			participants: []int{1, 2, 3},
			policy:       SplitCustom,
			contributions: map[int]decimal.Decimal{
				1: dec("50"), 2: dec("70"), 3: dec("80"),
			},
			want: map[int]string{1: "150", 2: "-70", 3: "-80"},
		},
		{
			name:         "custom split where payer consumes nothing",
			total:        dec("200"),
			payerID:      1,
			participants: []int{1, 2, 3},
			policy:       SplitCustom,
			contributions: map[int]decimal.Decimal{
				2: dec("80"), 3: dec("120"),
			},
			want: map[int]string{1: "200", 2: "-80", 3: "-120"},
		},
		{
			name:         "custom split sum mismatch",
			total:        dec("200"),
			payerID:      1,
			participants: []int{1, 2, 3},
			policy:       SplitCustom,
			contributions: map[int]decimal.Decimal{
				2: dec("80"), 3: dec("130"),
			},
			wantErr: true,
		},
		{
			name:         "custom split within tolerance",
			total:        dec("100"),
			payerID:      1,
			participants: []int{1, 2},
			policy:       SplitCustom,
			contributions: map[int]decimal.Decimal{
				1: dec("50"), 2: dec("49.99"),
			},
			want: map[int]string{1: "49.99", 2: "-49.99"},
		},
		{
			name:         "custom split negative contribution",
			total:        dec("100"),
			payerID:      1,
			participants: []int{1, 2},
			policy:       SplitCustom,
			contributions: map[int]decimal.Decimal{
				1: dec("150"), 2: dec("-50"),
			},
			wantErr: true,
		},
		{
			name:         "custom split contribution for non-participant",
			total:        dec("100"),
			payerID:      1,
			participants: []int{1, 2},
			policy:       SplitCustom,
			contributions: map[int]decimal.Decimal{
				1: dec("50"), 9: dec("50"),
			},
			wantErr: true,
		},
		{
			name:         "no participants",
			total:        dec("100"),
			payerID:      1,
			participants: []int{},
			policy:       SplitEqual,
			wantErr:      true,
		},
		{
			name:         "payer not a participant",
			total:        dec("100"),
			payerID:      9,
			participants: []int{1, 2},
			policy:       SplitEqual,
			wantErr:      true,
		},
		{
			name:         "non-positive amount",
			total:        dec("0"),
			payerID:      1,
			participants: []int{1, 2},
			policy:       SplitEqual,
			wantErr:      true,
		},
		{
			name:         "unknown split type",
			total:        dec("100"),
			payerID:      1,
			participants: []int{1, 2},
			policy:       SplitPolicy("percentage"),
			wantErr:      true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			splits, err := ComputeSplits(tt.total, tt.payerID, tt.participants, tt.policy, tt.contributions)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ComputeSplits() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}

			if len(splits) != len(tt.want) {
				t.Fatalf("got %d splits, want %d", len(splits), len(tt.want))
			}
			sum := decimal.Zero
			for userID, amount := range splits {
				want, ok := tt.want[userID]
				if !ok {
					t.Errorf("unexpected split for user %d", userID)
					continue
				}
				if !amount.Equal(dec(want)) {
					t.Errorf("user %d split = %s, want %s", userID, amount, want)
				}
				sum = sum.Add(amount)
			}
			if !sum.IsZero() {
				t.Errorf("splits sum to %s, want exactly 0", sum)
			}
		})
	}
}

func TestComputeSplitsZeroSumProperty(t *testing.T) {
	// Awkward divisions must still sum to exactly zero.
	amounts := []string{"0.01", "0.10", "1", "99.99", "100", "1000.01", "12345.67"}
	groupSizes := []int{1, 2, 3, 6, 7, 11}

	for _, raw := range amounts {
		for _, n := range groupSizes {
			participants := make([]int, n)
			for i := range participants {
				participants[i] = i + 1
			}

			splits, err := ComputeSplits(dec(raw), 1, participants, SplitEqual, nil)
			if err != nil {
				t.Fatalf("ComputeSplits(%s, n=%d) error: %v", raw, n, err)
			}

			sum := decimal.Zero
			for _, amount := range splits {
				sum = sum.Add(amount)
			}
			if !sum.IsZero() {
				t.Errorf("amount=%s n=%d: splits sum to %s, want 0", raw, n, sum)
			}
		}
	}
}

func TestComputeSplitsMismatchDetails(t *testing.T) {
	_, err := ComputeSplits(dec("200"), 1, []int{1, 2, 3}, SplitCustom, map[int]decimal.Decimal{
		2: dec("80"), 3: dec("130"),
	})

	var mismatch *SplitMismatchError
	if !errors.As(err, &mismatch) {
		t.Fatalf("expected *SplitMismatchError, got %v", err)
	}
	if !mismatch.Expected.Equal(dec("200")) {
		t.Errorf("Expected = %s, want 200", mismatch.Expected)
	}
	if !mismatch.Actual.Equal(dec("210")) {
		t.Errorf("Actual = %s, want 210", mismatch.Actual)
	}
}

func TestComputeSplitsInvalidSentinel(t *testing.T) {
	_, err := ComputeSplits(dec("100"), 1, nil, SplitEqual, nil)
	if !errors.Is(err, ErrInvalidSplit) {
		t.Fatalf("expected ErrInvalidSplit, got %v", err)
	}
}
