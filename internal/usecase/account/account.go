// Package account implements the per-account state machine: balance and
// interest accumulator, the open transaction legs, and the day-stepping
// settlement algorithm that both real catch-up and what-if prediction run.
package account

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Romkashka/bank/internal/domain"
	"github.com/Romkashka/bank/internal/usecase/accrual"
)

// Account owns a balance, an accrued-interest accumulator and the set of
// open transaction legs. Rate math always reads the governing tariff's
// current snapshot, so a tariff change affects future accrual immediately.
//
// Account is a domain.ClockSubscriber: the clock's forward notification
// drives CatchUpTime.
type Account struct {
	id               domain.AccountID
	createdAt        time.Time
	monthlyUpdateDay int
	balance          decimal.Decimal
	accumulator      decimal.Decimal
	lastSettled      time.Time
	openLegs         map[domain.LegID]struct{}
	tariff           *domain.Tariff
	clock            domain.Clock
}

// New opens an account under the given tariff at the clock's current time.
// The monthly settlement day is captured from the tariff's snapshot at
// creation; balance and accumulator start at zero.
func New(id domain.AccountID, tariff *domain.Tariff, clk domain.Clock) (*Account, error) {
	day := tariff.Snapshot().MonthlyUpdateDay
	if day < 1 || day > 31 {
		return nil, fmt.Errorf("%w: monthly update day %d is outside [1, 31]", domain.ErrInvalidTariff, day)
	}
	now := clk.Now()
	return &Account{
		id:               id,
		createdAt:        now,
		monthlyUpdateDay: day,
		balance:          decimal.Zero,
		accumulator:      decimal.Zero,
		lastSettled:      now,
		openLegs:         make(map[domain.LegID]struct{}),
		tariff:           tariff,
		clock:            clk,
	}, nil
}

// ID returns the account's identifier.
func (a *Account) ID() domain.AccountID { return a.id }

// Balance returns the current balance.
func (a *Account) Balance() decimal.Decimal { return a.balance }

// Accumulator returns the accrued-but-unsettled interest.
func (a *Account) Accumulator() decimal.Decimal { return a.accumulator }

// CreatedAt returns the simulated instant the account was opened.
func (a *Account) CreatedAt() time.Time { return a.createdAt }

// MonthlyUpdateDay returns the day of month the monthly settlement fires on.
func (a *Account) MonthlyUpdateDay() int { return a.monthlyUpdateDay }

// Tariff returns the governing tariff.
func (a *Account) Tariff() *domain.Tariff { return a.tariff }

// Apply commits a signed transaction amount. On success the balance and
// accumulator move per the tariff's rules and a fresh open leg is returned;
// on failure nothing changes.
//
// Withdrawals are refused with ErrWithdrawalLocked while the account is
// inside its tariff's add-only period.
func (a *Account) Apply(amount decimal.Decimal) (domain.LegID, error) {
	snap := a.tariff.Snapshot()
	if amount.IsNegative() && a.clock.Now().Before(a.createdAt.Add(snap.AddOnlyPeriod)) {
		return domain.LegID{}, fmt.Errorf("%w: until %s", domain.ErrWithdrawalLocked,
			a.createdAt.Add(snap.AddOnlyPeriod).Format(time.RFC3339))
	}

	diff, err := accrual.ForTransaction(snap, a.balance, amount)
	if err != nil {
		return domain.LegID{}, err
	}

	a.balance = a.balance.Add(diff.Balance)
	a.accumulator = a.accumulator.Add(diff.Accumulator)

	legID := domain.NewLegID()
	a.openLegs[legID] = struct{}{}
	return legID, nil
}

// HoldsLeg reports whether the leg was committed and not yet cancelled.
func (a *Account) HoldsLeg(id domain.LegID) bool {
	_, ok := a.openLegs[id]
	return ok
}

// CancelLeg reverses a committed leg: the amount is subtracted from the
// balance and the leg leaves the open set. The accumulator is untouched;
// interest accrued since the leg was applied stays where settlement put it.
// Fails with ErrUnknownLeg if the leg is not open.
func (a *Account) CancelLeg(id domain.LegID, amount decimal.Decimal) error {
	if !a.HoldsLeg(id) {
		return fmt.Errorf("%w: %s on account %s", domain.ErrUnknownLeg, id, a.id)
	}
	a.balance = a.balance.Sub(amount)
	delete(a.openLegs, id)
	return nil
}

// CatchUpTime applies every settlement event between the last settled
// instant and now, then advances the settlement marker by the full elapsed
// duration. Sub-day remainders are dropped from future accrual windows.
// Invoked synchronously by the clock's forward notification.
func (a *Account) CatchUpTime(now time.Time) {
	elapsed := now.Sub(a.lastSettled)
	diff, err := a.step(elapsed)
	if err != nil {
		// A forward-only clock never hands out an instant before the
		// last settlement, so a negative elapsed span cannot occur.
		return
	}
	a.balance = a.balance.Add(diff.Balance)
	a.accumulator = a.accumulator.Add(diff.Accumulator)
	a.lastSettled = now
}

// Predict runs the settlement algorithm over a copy of the current state
// and returns the balance the account would hold after the given duration,
// assuming no further transactions. The account itself is not mutated.
// Fails with ErrNegativeDuration if d is negative.
func (a *Account) Predict(d time.Duration) (decimal.Decimal, error) {
	diff, err := a.step(d)
	if err != nil {
		return decimal.Decimal{}, err
	}
	return a.balance.Add(diff.Balance), nil
}

// step is the day-stepping settlement algorithm shared by catch-up and
// prediction. For every whole simulated day crossed since the last settled
// instant it fires the monthly settlement when the date hits the account's
// monthly update day or leaves the starting month, and accrues daily
// interest whenever the date's day-of-year differs from the start's. The
// returned diff is the running state minus the current state.
func (a *Account) step(elapsed time.Duration) (domain.BalanceDiff, error) {
	if elapsed < 0 {
		return domain.BalanceDiff{}, fmt.Errorf("%w: got %s", domain.ErrNegativeDuration, elapsed)
	}

	snap := a.tariff.Snapshot()
	daysInYear := a.clock.DaysInYear()
	wholeDays := int(elapsed / (24 * time.Hour))

	runBalance := a.balance
	runAccumulator := a.accumulator

	for k := 0; k < wholeDays; k++ {
		date := a.lastSettled.AddDate(0, 0, k)

		// The OR deliberately over-fires when the monthly day recurs
		// across a real month change; the settlement outcome defines
		// the money, so the trigger is kept bit-for-bit.
		if date.Day() == a.monthlyUpdateDay || date.Month() != a.lastSettled.Month() {
			diff := accrual.ForMonthlyUpdate(snap, runBalance, runAccumulator)
			runBalance = runBalance.Add(diff.Balance).Add(diff.Accumulator)
			runAccumulator = decimal.Zero
		}

		if date.YearDay() != a.lastSettled.YearDay() {
			diff := accrual.ForDailyUpdate(snap, runBalance, daysInYear)
			runBalance = runBalance.Add(diff.Balance)
			runAccumulator = runAccumulator.Add(diff.Accumulator)
		}
	}

	return domain.BalanceDiff{
		Balance:     runBalance.Sub(a.balance),
		Accumulator: runAccumulator.Sub(a.accumulator),
	}, nil
}
