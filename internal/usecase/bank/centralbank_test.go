package bank

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Romkashka/bank/internal/domain"
)

func TestCentralBank_DepositWithdrawTransferScenario(t *testing.T) {
	f := newFixture(t)

	_, err := f.central.Deposit(f.accA.ID(), decimal.NewFromInt(1000))
	require.NoError(t, err)
	assert.True(t, f.accA.Balance().Equal(decimal.NewFromInt(1000)))

	_, err = f.central.Deposit(f.accA.ID(), decimal.NewFromInt(100000))
	require.NoError(t, err)
	assert.True(t, f.accA.Balance().Equal(decimal.NewFromInt(101000)))

	_, err = f.central.Withdraw(f.accA.ID(), decimal.NewFromInt(50000))
	require.NoError(t, err)
	assert.True(t, f.accA.Balance().Equal(decimal.NewFromInt(51000)))

	_, err = f.central.Deposit(f.accB.ID(), decimal.NewFromInt(1000))
	require.NoError(t, err)

	txID, err := f.central.Transfer(f.accA.ID(), f.accB.ID(), decimal.NewFromInt(10000))
	require.NoError(t, err)
	assert.True(t, f.accA.Balance().Equal(decimal.NewFromInt(41000)))
	assert.True(t, f.accB.Balance().Equal(decimal.NewFromInt(11000)))

	// Cancelling the transfer restores both sides exactly.
	require.NoError(t, f.central.CancelTransaction(txID))
	assert.True(t, f.accA.Balance().Equal(decimal.NewFromInt(51000)))
	assert.True(t, f.accB.Balance().Equal(decimal.NewFromInt(1000)))
}

func TestCentralBank_CancelOneLegTransaction(t *testing.T) {
	f := newFixture(t)

	txID, err := f.central.Deposit(f.accA.ID(), decimal.NewFromInt(100000))
	require.NoError(t, err)

	require.NoError(t, f.central.CancelTransaction(txID))
	assert.True(t, f.accA.Balance().IsZero())

	assert.ErrorIs(t, f.central.CancelTransaction(txID), domain.ErrInvalidCancellation)
}

func TestCentralBank_CancelUnknownTransaction(t *testing.T) {
	f := newFixture(t)

	err := f.central.CancelTransaction(domain.NewTransactionID())
	assert.ErrorIs(t, err, domain.ErrNoSuchTransaction)
}

func TestCentralBank_RejectsNonPositiveSums(t *testing.T) {
	f := newFixture(t)

	_, err := f.central.Deposit(f.accA.ID(), decimal.Zero)
	assert.ErrorIs(t, err, domain.ErrNonPositiveAmount)

	_, err = f.central.Withdraw(f.accA.ID(), decimal.NewFromInt(-5))
	assert.ErrorIs(t, err, domain.ErrNonPositiveAmount)

	_, err = f.central.Transfer(f.accA.ID(), f.accB.ID(), decimal.Zero)
	assert.ErrorIs(t, err, domain.ErrNonPositiveAmount)
}

func TestCentralBank_WithdrawBelowMinimumFails(t *testing.T) {
	f := newFixture(t)

	before := len(f.central.Transactions())
	_, err := f.central.Withdraw(f.accA.ID(), decimal.NewFromInt(1000))
	assert.ErrorIs(t, err, domain.ErrBelowMinimumBalance)
	assert.True(t, f.accA.Balance().IsZero())
	assert.Len(t, f.central.Transactions(), before, "a failed withdrawal must not be recorded")
}

func TestCentralBank_TransferToUnknownDestination(t *testing.T) {
	f := newFixture(t)

	_, err := f.central.Deposit(f.accA.ID(), decimal.NewFromInt(5000))
	require.NoError(t, err)

	// The destination is resolved before the source is touched.
	_, err = f.central.Transfer(f.accA.ID(), domain.NewAccountID(f.bank2.ID()), decimal.NewFromInt(1000))
	assert.ErrorIs(t, err, domain.ErrNoSuchAccount)
	assert.True(t, f.accA.Balance().Equal(decimal.NewFromInt(5000)))

	// Same for a destination under a bank the central bank never created.
	_, err = f.central.Transfer(f.accA.ID(), domain.NewAccountID(domain.NewBankID()), decimal.NewFromInt(1000))
	assert.ErrorIs(t, err, domain.ErrNoSuchAccount)
	assert.True(t, f.accA.Balance().Equal(decimal.NewFromInt(5000)))
}

func TestCentralBank_TransferCompensatesFailedCreditLeg(t *testing.T) {
	f := newFixture(t)

	_, err := f.central.Deposit(f.accA.ID(), decimal.NewFromInt(60000))
	require.NoError(t, err)
	recorded := len(f.central.Transactions())

	// The credit leg trips bank2's doubtful-client limit after the debit
	// has already been applied; the debit must be rolled back.
	_, err = f.central.Transfer(f.accA.ID(), f.accB.ID(), decimal.NewFromInt(50000))
	assert.ErrorIs(t, err, domain.ErrDoubtfulClientLimit)
	assert.True(t, f.accA.Balance().Equal(decimal.NewFromInt(60000)),
		"source balance %s, want 60000 after compensation", f.accA.Balance())
	assert.True(t, f.accB.Balance().IsZero())
	assert.Len(t, f.central.Transactions(), recorded, "a failed transfer must not be recorded")
}

func TestCentralBank_CreateBankRejectsNegativeLimit(t *testing.T) {
	f := newFixture(t)

	_, err := f.central.CreateBank(decimal.NewFromInt(-1))
	assert.ErrorIs(t, err, domain.ErrNegativeLimit)
}

func TestCentralBank_BankByID(t *testing.T) {
	f := newFixture(t)

	b, err := f.central.BankByID(f.bank1.ID())
	require.NoError(t, err)
	assert.Equal(t, f.bank1, b)

	_, err = f.central.BankByID(domain.NewBankID())
	assert.ErrorIs(t, err, domain.ErrNoSuchBank)
}

func TestCentralBank_TransactionsAreRecordedInOrder(t *testing.T) {
	f := newFixture(t)

	first, err := f.central.Deposit(f.accA.ID(), decimal.NewFromInt(100))
	require.NoError(t, err)
	second, err := f.central.Deposit(f.accA.ID(), decimal.NewFromInt(200))
	require.NoError(t, err)

	all := f.central.Transactions()
	require.Len(t, all, 2)
	assert.Equal(t, first, all[0].ID)
	assert.Equal(t, second, all[1].ID)
}
