package domain

import "github.com/shopspring/decimal"

// BalanceDiff carries the deltas a settlement or transaction calculation
// produced for an account's balance and interest accumulator.
type BalanceDiff struct {
	Balance     decimal.Decimal
	Accumulator decimal.Decimal
}
