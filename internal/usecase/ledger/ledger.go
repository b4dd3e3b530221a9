// Package ledger keeps the central record of committed transactions and
// implements their atomic-looking cancellation. The ledger never mutates an
// account on its own: legs handed to Record must already reflect applied
// account mutations, and cancellation delegates each reversal to the leg's
// account.
package ledger

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/Romkashka/bank/internal/domain"
	"github.com/Romkashka/bank/internal/usecase/account"
)

// Leg is one signed balance change belonging to a transaction. The account
// is referenced, never owned.
type Leg struct {
	Account *account.Account
	Amount  decimal.Decimal
	ID      domain.LegID
}

// Transaction is an ordered list of legs recorded under one identifier.
type Transaction struct {
	ID   domain.TransactionID
	Legs []Leg
}

// Ledger stores every recorded transaction, in recording order.
type Ledger struct {
	transactions []*Transaction
	byID         map[domain.TransactionID]*Transaction
}

// New creates an empty ledger.
func New() *Ledger {
	return &Ledger{byID: make(map[domain.TransactionID]*Transaction)}
}

// Record stores the legs as one transaction under a fresh identifier.
func (l *Ledger) Record(legs ...Leg) domain.TransactionID {
	tx := &Transaction{ID: domain.NewTransactionID(), Legs: legs}
	l.transactions = append(l.transactions, tx)
	l.byID[tx.ID] = tx
	return tx.ID
}

// Get returns the transaction with the given identifier, if recorded.
func (l *Ledger) Get(id domain.TransactionID) (*Transaction, bool) {
	tx, ok := l.byID[id]
	return tx, ok
}

// All returns every recorded transaction in recording order.
func (l *Ledger) All() []*Transaction {
	out := make([]*Transaction, len(l.transactions))
	copy(out, l.transactions)
	return out
}

// Cancel reverses every leg of the transaction, in leg order. Before any
// reversal it checks that each leg's account still lists the leg as open;
// if any does not, the whole cancellation is refused and nothing changes.
// Fails with ErrNoSuchTransaction for an unknown identifier.
func (l *Ledger) Cancel(id domain.TransactionID) error {
	tx, ok := l.byID[id]
	if !ok {
		return fmt.Errorf("%w: %s", domain.ErrNoSuchTransaction, id)
	}

	for _, leg := range tx.Legs {
		if !leg.Account.HoldsLeg(leg.ID) {
			return fmt.Errorf("%w: leg %s is no longer open on account %s",
				domain.ErrInvalidCancellation, leg.ID, leg.Account.ID())
		}
	}

	for _, leg := range tx.Legs {
		if err := leg.Account.CancelLeg(leg.ID, leg.Amount); err != nil {
			// Unreachable: every leg was just verified open and nothing
			// runs between verification and reversal.
			return err
		}
	}
	return nil
}
