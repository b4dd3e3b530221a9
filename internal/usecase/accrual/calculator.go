// Package accrual holds the pure balance-diff math behind every account
// mutation: transaction deltas, end-of-day interest and end-of-month
// settlement. Functions here never touch shared state; callers apply the
// returned diffs themselves.
package accrual

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/Romkashka/bank/internal/domain"
)

// minorUnitPlaces is the scale daily interest is rounded to.
const minorUnitPlaces = 2

// ForTransaction computes the balance delta for applying the signed amount
// to the given balance under the snapshot's rules. The negative-balance tax
// is added only when the balance is already negative and the amount worsens
// it. Fails with ErrBelowMinimumBalance if the resulting balance would fall
// below the snapshot's minimum; the caller must not apply the diff then.
func ForTransaction(snap domain.TariffSnapshot, balance, amount decimal.Decimal) (domain.BalanceDiff, error) {
	delta := amount
	if balance.IsNegative() && amount.IsNegative() {
		delta = delta.Add(snap.NegativeBalanceTax)
	}
	if balance.Add(delta).LessThan(snap.MinimumBalance) {
		return domain.BalanceDiff{}, fmt.Errorf("%w: %s after applying %s would be below %s",
			domain.ErrBelowMinimumBalance, balance, amount, snap.MinimumBalance)
	}
	return domain.BalanceDiff{Balance: delta, Accumulator: decimal.Zero}, nil
}

// ForDailyUpdate computes one day of interest on the balance: the annual
// rate divided by the actual day count of the current year (365 or 366),
// rounded half-up to the currency's minor unit. The interest lands in the
// accumulator; the balance itself does not move.
func ForDailyUpdate(snap domain.TariffSnapshot, balance decimal.Decimal, daysInYear int) domain.BalanceDiff {
	interest := balance.Mul(snap.BalanceInterest).DivRound(decimal.NewFromInt(int64(daysInYear)), minorUnitPlaces)
	return domain.BalanceDiff{Balance: decimal.Zero, Accumulator: interest}
}

// ForMonthlyUpdate computes the end-of-month settlement of the accumulator
// into the balance.
//
// The settlement currently yields zero deltas for both: accrued interest is
// computed daily but never folded into the balance. This mirrors the product
// definition, which leaves monthly settlement (and tier-aware deposit rates)
// unresolved; the behavior is pinned by tests so changing it is a deliberate
// act.
func ForMonthlyUpdate(snap domain.TariffSnapshot, balance, accumulator decimal.Decimal) domain.BalanceDiff {
	return domain.BalanceDiff{Balance: decimal.Zero, Accumulator: decimal.Zero}
}
