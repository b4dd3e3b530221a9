package account

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Romkashka/bank/internal/clock"
	"github.com/Romkashka/bank/internal/domain"
)

// Jan 1st of a leap year: 366-day denominator, monthly day 1 fires on the
// very first stepped day.
var testStart = time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)

func newTestAccount(t *testing.T, mutate func(*domain.TariffSnapshot)) (*Account, *clock.Manual, *domain.Tariff) {
	t.Helper()

	snap := domain.TariffSnapshot{
		ID:                 domain.NewTariffID(),
		Name:               "debit",
		BalanceInterest:    decimal.RequireFromString("0.0365"),
		NegativeBalanceTax: decimal.NewFromInt(30),
		MinimumBalance:     decimal.Zero,
		MonthlyUpdateDay:   1,
	}
	if mutate != nil {
		mutate(&snap)
	}

	clk := clock.NewManual(testStart)
	tariff, err := domain.NewTariff(clk, snap)
	require.NoError(t, err)

	acc, err := New(domain.AccountID{Bank: domain.NewBankID(), ID: uuid.New()}, tariff, clk)
	require.NoError(t, err)
	require.NoError(t, clk.Subscribe(acc))
	return acc, clk, tariff
}

func forwardDays(t *testing.T, clk *clock.Manual, days int) {
	t.Helper()
	require.NoError(t, clk.Forward(time.Duration(days)*24*time.Hour))
}

func TestApply_CreatesOpenLegAndMovesBalance(t *testing.T) {
	acc, _, _ := newTestAccount(t, nil)

	leg, err := acc.Apply(decimal.NewFromInt(1000))
	require.NoError(t, err)
	assert.True(t, acc.Balance().Equal(decimal.NewFromInt(1000)))
	assert.True(t, acc.HoldsLeg(leg))
	assert.True(t, acc.Accumulator().IsZero())
}

func TestApply_BelowMinimumLeavesStateUntouched(t *testing.T) {
	acc, _, _ := newTestAccount(t, nil)

	_, err := acc.Apply(decimal.NewFromInt(-1))
	require.ErrorIs(t, err, domain.ErrBelowMinimumBalance)
	assert.True(t, acc.Balance().IsZero())
	assert.True(t, acc.Accumulator().IsZero())
}

func TestCancelLeg_RestoresBalanceExactly(t *testing.T) {
	acc, _, _ := newTestAccount(t, nil)

	_, err := acc.Apply(decimal.RequireFromString("123.45"))
	require.NoError(t, err)
	before := acc.Balance()

	leg, err := acc.Apply(decimal.RequireFromString("0.55"))
	require.NoError(t, err)

	require.NoError(t, acc.CancelLeg(leg, decimal.RequireFromString("0.55")))
	assert.True(t, acc.Balance().Equal(before), "cancellation must restore the balance bit-for-bit")
	assert.False(t, acc.HoldsLeg(leg))

	// A cancelled leg cannot be cancelled again.
	assert.ErrorIs(t, acc.CancelLeg(leg, decimal.RequireFromString("0.55")), domain.ErrUnknownLeg)
}

func TestCancelLeg_UnknownLegFails(t *testing.T) {
	acc, _, _ := newTestAccount(t, nil)

	err := acc.CancelLeg(domain.NewLegID(), decimal.NewFromInt(10))
	assert.ErrorIs(t, err, domain.ErrUnknownLeg)
	assert.True(t, acc.Balance().IsZero())
}

func TestCatchUpTime_AccruesDailyInterestPerBoundaryCrossed(t *testing.T) {
	acc, clk, _ := newTestAccount(t, nil)

	_, err := acc.Apply(decimal.NewFromInt(36600))
	require.NoError(t, err)

	// 10 days forward: the starting day itself accrues nothing, the 9
	// following boundaries each add 36600 * 0.0365 / 366 = 3.65.
	forwardDays(t, clk, 10)
	assert.True(t, acc.Balance().Equal(decimal.NewFromInt(36600)), "daily accrual never touches the balance")
	assert.True(t, acc.Accumulator().Equal(decimal.RequireFromString("32.85")),
		"accumulator %s, want 32.85", acc.Accumulator())
}

func TestCatchUpTime_MonthBoundaryResetsAccumulator(t *testing.T) {
	acc, clk, _ := newTestAccount(t, nil)

	_, err := acc.Apply(decimal.NewFromInt(36600))
	require.NoError(t, err)

	// 40 days from Jan 1st: every stepped February date triggers the
	// monthly settlement (month differs from the starting month), so the
	// accumulator is wiped daily through February and holds exactly one
	// day of interest at the end. The settlement itself contributes
	// nothing to the balance while monthly settlement stays stubbed.
	forwardDays(t, clk, 40)
	assert.True(t, acc.Balance().Equal(decimal.NewFromInt(36600)))
	assert.True(t, acc.Accumulator().Equal(decimal.RequireFromString("3.65")),
		"accumulator %s, want 3.65", acc.Accumulator())
}

func TestCatchUpTime_ZeroElapsedIsIdempotent(t *testing.T) {
	acc, clk, _ := newTestAccount(t, nil)

	_, err := acc.Apply(decimal.NewFromInt(36600))
	require.NoError(t, err)
	forwardDays(t, clk, 5)

	balance, accumulator := acc.Balance(), acc.Accumulator()
	acc.CatchUpTime(clk.Now())
	assert.True(t, acc.Balance().Equal(balance))
	assert.True(t, acc.Accumulator().Equal(accumulator))
}

func TestPredict_IsPure(t *testing.T) {
	acc, clk, _ := newTestAccount(t, nil)

	_, err := acc.Apply(decimal.NewFromInt(36600))
	require.NoError(t, err)

	first, err := acc.Predict(10 * 24 * time.Hour)
	require.NoError(t, err)
	second, err := acc.Predict(10 * 24 * time.Hour)
	require.NoError(t, err)
	assert.True(t, first.Equal(second))
	assert.True(t, acc.Balance().Equal(decimal.NewFromInt(36600)))
	assert.True(t, acc.Accumulator().IsZero())

	// Prediction must not advance the settlement marker: a real catch-up
	// afterwards still accrues the full window.
	forwardDays(t, clk, 10)
	assert.True(t, acc.Accumulator().Equal(decimal.RequireFromString("32.85")),
		"accumulator %s, want 32.85", acc.Accumulator())
}

func TestPredict_RejectsNegativeDuration(t *testing.T) {
	acc, _, _ := newTestAccount(t, nil)

	_, err := acc.Predict(-time.Hour)
	assert.ErrorIs(t, err, domain.ErrNegativeDuration)
}

func TestAccrual_UsesTariffsCurrentSnapshot(t *testing.T) {
	acc, clk, tariff := newTestAccount(t, nil)

	_, err := acc.Apply(decimal.NewFromInt(36600))
	require.NoError(t, err)
	forwardDays(t, clk, 10)
	require.True(t, acc.Accumulator().Equal(decimal.RequireFromString("32.85")))

	// Doubling the rate affects all future accrual of the already-open
	// account: the snapshot captured at creation is not consulted.
	next := tariff.Snapshot()
	next.BalanceInterest = decimal.RequireFromString("0.073")
	require.NoError(t, tariff.Replace(next))

	// Two more days cross one boundary at the doubled daily 7.30.
	forwardDays(t, clk, 2)
	assert.True(t, acc.Accumulator().Equal(decimal.RequireFromString("40.15")),
		"accumulator %s, want 40.15", acc.Accumulator())
}

func TestApply_AddOnlyPeriodLocksWithdrawals(t *testing.T) {
	acc, clk, _ := newTestAccount(t, func(s *domain.TariffSnapshot) {
		s.AddOnlyPeriod = 7 * 24 * time.Hour
	})

	_, err := acc.Apply(decimal.NewFromInt(100))
	require.NoError(t, err)

	_, err = acc.Apply(decimal.NewFromInt(-10))
	assert.ErrorIs(t, err, domain.ErrWithdrawalLocked)
	assert.True(t, acc.Balance().Equal(decimal.NewFromInt(100)))

	forwardDays(t, clk, 8)
	_, err = acc.Apply(decimal.NewFromInt(-10))
	assert.NoError(t, err)
	assert.True(t, acc.Balance().Equal(decimal.NewFromInt(90)))
}
