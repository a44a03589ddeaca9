package ledger

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

var (
	// ErrInvalidSplit covers structurally invalid split requests: empty
	// participant set, payer missing from it, non-positive total.
	ErrInvalidSplit = errors.New("invalid split request")

	// ErrNotFound is returned when a referenced group, expense or user
	// does not exist.
	ErrNotFound = errors.New("not found")
)

// SplitMismatchError is returned when custom contributions do not add up
// to the expense total. It carries both sums so the caller can report them.
type SplitMismatchError struct {
	Expected decimal.Decimal
	Actual   decimal.Decimal
}

func (e *SplitMismatchError) Error() string {
	return fmt.Sprintf("custom split amounts (%s) must equal the expense total (%s)",
		e.Actual.StringFixed(2), e.Expected.StringFixed(2))
}

// PersistenceError wraps a storage failure. The operation it wraps was
// rolled back: no partial expense or split rows survive it.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}
