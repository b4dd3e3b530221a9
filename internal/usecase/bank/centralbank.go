package bank

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/Romkashka/bank/internal/domain"
	"github.com/Romkashka/bank/internal/usecase/account"
	"github.com/Romkashka/bank/internal/usecase/ledger"
)

// CentralBank routes transactions to the owning banks and drives the
// ledger: it resolves account identifiers, composes one- and two-leg
// transfers, and cancels recorded transactions.
type CentralBank struct {
	clock  domain.Clock
	banks  []*Bank
	ledger *ledger.Ledger
}

// NewCentralBank creates a central bank with no member banks.
func NewCentralBank(clk domain.Clock) *CentralBank {
	return &CentralBank{clock: clk, ledger: ledger.New()}
}

// CreateBank registers a new bank with the given doubtful-client limit.
func (cb *CentralBank) CreateBank(doubtfulLimit decimal.Decimal) (*Bank, error) {
	b, err := NewBank(cb.clock, domain.NewBankID(), doubtfulLimit)
	if err != nil {
		return nil, err
	}
	cb.banks = append(cb.banks, b)
	return b, nil
}

// BankByID returns the member bank with the given identifier.
func (cb *CentralBank) BankByID(id domain.BankID) (*Bank, error) {
	for _, b := range cb.banks {
		if b.ID() == id {
			return b, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", domain.ErrNoSuchBank, id)
}

// Banks returns every member bank, in creation order.
func (cb *CentralBank) Banks() []*Bank {
	out := make([]*Bank, len(cb.banks))
	copy(out, cb.banks)
	return out
}

// Deposit adds a positive sum to the account and records the one-leg
// transaction.
func (cb *CentralBank) Deposit(id domain.AccountID, sum decimal.Decimal) (domain.TransactionID, error) {
	if err := validateSum(sum); err != nil {
		return domain.TransactionID{}, err
	}
	return cb.oneLeg(id, sum)
}

// Withdraw removes a positive sum from the account and records the one-leg
// transaction.
func (cb *CentralBank) Withdraw(id domain.AccountID, sum decimal.Decimal) (domain.TransactionID, error) {
	if err := validateSum(sum); err != nil {
		return domain.TransactionID{}, err
	}
	return cb.oneLeg(id, sum.Neg())
}

// Transfer moves a positive sum between two accounts, possibly across
// banks, and records both legs as one transaction. The destination is
// resolved before any mutation, so an unknown destination leaves the source
// untouched. If the credit leg fails after the debit leg has been applied,
// the debit is reversed before the error is returned, so a failed transfer
// never leaves the source debited.
func (cb *CentralBank) Transfer(fromID, toID domain.AccountID, sum decimal.Decimal) (domain.TransactionID, error) {
	if err := validateSum(sum); err != nil {
		return domain.TransactionID{}, err
	}
	if _, err := cb.findAccount(toID); err != nil {
		return domain.TransactionID{}, err
	}

	fromBank, err := cb.BankByID(fromID.Bank)
	if err != nil {
		return domain.TransactionID{}, err
	}
	debit, err := fromBank.Apply(fromID, sum.Neg())
	if err != nil {
		return domain.TransactionID{}, err
	}

	toBank, err := cb.BankByID(toID.Bank)
	if err == nil {
		var credit ledger.Leg
		credit, err = toBank.Apply(toID, sum)
		if err == nil {
			return cb.ledger.Record(debit, credit), nil
		}
	}

	// Compensate the already-applied debit leg so the failed transfer
	// leaves no trace on the source account.
	if cancelErr := debit.Account.CancelLeg(debit.ID, debit.Amount); cancelErr != nil {
		return domain.TransactionID{}, fmt.Errorf("credit leg failed (%w) and debit reversal failed: %v", err, cancelErr)
	}
	return domain.TransactionID{}, err
}

// CancelTransaction reverses every leg of a recorded transaction.
func (cb *CentralBank) CancelTransaction(id domain.TransactionID) error {
	return cb.ledger.Cancel(id)
}

// Transactions returns every recorded transaction, in recording order.
func (cb *CentralBank) Transactions() []*ledger.Transaction {
	return cb.ledger.All()
}

// FindAccount resolves an account identifier across all member banks.
func (cb *CentralBank) FindAccount(id domain.AccountID) (*account.Account, error) {
	return cb.findAccount(id)
}

func (cb *CentralBank) oneLeg(id domain.AccountID, signed decimal.Decimal) (domain.TransactionID, error) {
	b, err := cb.BankByID(id.Bank)
	if err != nil {
		return domain.TransactionID{}, err
	}
	leg, err := b.Apply(id, signed)
	if err != nil {
		return domain.TransactionID{}, err
	}
	return cb.ledger.Record(leg), nil
}

func (cb *CentralBank) findAccount(id domain.AccountID) (*account.Account, error) {
	b, err := cb.BankByID(id.Bank)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrNoSuchAccount, id)
	}
	return b.FindAccount(id)
}

func validateSum(sum decimal.Decimal) error {
	if !sum.IsPositive() {
		return fmt.Errorf("%w: got %s", domain.ErrNonPositiveAmount, sum)
	}
	return nil
}
