package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// BalanceInterval is one tier of a deposit tariff: an annual interest rate
// applied while the balance lies within [Lower, Upper).
//
// The tiers are data only: accrual still uses the flat BalanceInterest rate.
// Tier-aware accrual is a known gap carried over from the product definition.
type BalanceInterval struct {
	Lower decimal.Decimal
	Upper decimal.Decimal
	Rate  decimal.Decimal
}

// NewBalanceInterval builds a tier, requiring Lower < Upper.
func NewBalanceInterval(lower, upper, rate decimal.Decimal) (BalanceInterval, error) {
	if lower.GreaterThanOrEqual(upper) {
		return BalanceInterval{}, fmt.Errorf("%w: lower bound %s is not below upper bound %s",
			ErrInvalidInterval, lower, upper)
	}
	return BalanceInterval{Lower: lower, Upper: upper, Rate: rate}, nil
}

// Intersects reports whether the two intervals overlap.
func (bi BalanceInterval) Intersects(other BalanceInterval) bool {
	return !(bi.Lower.GreaterThan(other.Upper) || bi.Upper.LessThan(other.Lower))
}

// TariffSnapshot is an immutable set of named parameters driving accrual and
// tax math. A Tariff replaces its snapshot wholesale, never field by field.
type TariffSnapshot struct {
	ID          TariffID
	Name        string
	AccountType string

	// BalanceInterest is the annual interest rate on the balance, as a
	// fraction (0.0365 means 3.65% per year).
	BalanceInterest decimal.Decimal

	// NegativeBalanceTax is charged on operations that decrease an already
	// negative balance.
	NegativeBalanceTax decimal.Decimal

	// MinimumBalance is the lower bound a committed transaction may leave
	// the balance at. May be negative for credit-style tariffs.
	MinimumBalance decimal.Decimal

	// AddOnlyPeriod is the span after account creation during which the
	// balance may only increase.
	AddOnlyPeriod time.Duration

	// MonthlyUpdateDay is the day of month (1..31) on which the monthly
	// settlement event fires for accounts opened under this snapshot.
	MonthlyUpdateDay int

	// DepositTiers are optional non-overlapping balance tiers. Data only,
	// see BalanceInterval.
	DepositTiers []BalanceInterval
}

// Validate checks every snapshot parameter, returning the first violation.
func (s TariffSnapshot) Validate() error {
	if s.Name == "" {
		return fmt.Errorf("%w: name must not be empty", ErrInvalidTariff)
	}
	if s.BalanceInterest.IsNegative() {
		return fmt.Errorf("%w: balance interest %s is negative", ErrInvalidTariff, s.BalanceInterest)
	}
	if s.NegativeBalanceTax.IsNegative() {
		return fmt.Errorf("%w: negative-balance tax %s is negative", ErrInvalidTariff, s.NegativeBalanceTax)
	}
	if s.AddOnlyPeriod < 0 {
		return fmt.Errorf("%w: add-only period %s is negative", ErrInvalidTariff, s.AddOnlyPeriod)
	}
	if s.MonthlyUpdateDay < 1 || s.MonthlyUpdateDay > 31 {
		return fmt.Errorf("%w: monthly update day %d is outside [1, 31]", ErrInvalidTariff, s.MonthlyUpdateDay)
	}
	for i, tier := range s.DepositTiers {
		if tier.Lower.GreaterThanOrEqual(tier.Upper) {
			return fmt.Errorf("%w: tier %d lower bound %s is not below upper bound %s",
				ErrInvalidTariff, i, tier.Lower, tier.Upper)
		}
		for _, other := range s.DepositTiers[i+1:] {
			if tier.Intersects(other) {
				return fmt.Errorf("%w: overlapping deposit tiers [%s, %s) and [%s, %s)",
					ErrInvalidTariff, tier.Lower, tier.Upper, other.Lower, other.Upper)
			}
		}
	}
	return nil
}

// Message is a notification delivered to tariff subscribers.
type Message struct {
	Text   string
	SentAt time.Time
}

// TariffSubscriber receives a message whenever the tariff's snapshot changes.
type TariffSubscriber interface {
	Receive(m Message)
}

// Tariff wraps a current snapshot and a mailbox-style subscriber list. Every
// account opened against the tariff reads the current snapshot for its rate
// math, so replacing the snapshot affects all of them at once.
type Tariff struct {
	clock       Clock
	snapshot    TariffSnapshot
	subscribers []TariffSubscriber
}

// NewTariff builds a tariff carrying the given validated snapshot.
func NewTariff(clock Clock, snapshot TariffSnapshot) (*Tariff, error) {
	if err := snapshot.Validate(); err != nil {
		return nil, err
	}
	return &Tariff{clock: clock, snapshot: snapshot}, nil
}

// Snapshot returns the current parameter set.
func (t *Tariff) Snapshot() TariffSnapshot {
	return t.snapshot
}

// Replace swaps the snapshot wholesale and notifies every subscriber.
func (t *Tariff) Replace(snapshot TariffSnapshot) error {
	if err := snapshot.Validate(); err != nil {
		return err
	}
	t.snapshot = snapshot
	msg := Message{
		Text: fmt.Sprintf("Tariff %q was changed. Actual terms: interest %s, negative-balance tax %s, minimum balance %s, add-only period %s.",
			snapshot.Name, snapshot.BalanceInterest, snapshot.NegativeBalanceTax, snapshot.MinimumBalance, snapshot.AddOnlyPeriod),
		SentAt: t.clock.Now(),
	}
	for _, s := range t.subscribers {
		s.Receive(msg)
	}
	return nil
}

// Subscribe registers s for change notifications. Fails with
// ErrAlreadySubscribed if s is already registered.
func (t *Tariff) Subscribe(s TariffSubscriber) error {
	for _, existing := range t.subscribers {
		if existing == s {
			return ErrAlreadySubscribed
		}
	}
	t.subscribers = append(t.subscribers, s)
	return nil
}

// Unsubscribe removes s and reports whether it was registered.
func (t *Tariff) Unsubscribe(s TariffSubscriber) bool {
	for i, existing := range t.subscribers {
		if existing == s {
			t.subscribers = append(t.subscribers[:i], t.subscribers[i+1:]...)
			return true
		}
	}
	return false
}
