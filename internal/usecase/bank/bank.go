// Package bank implements the bank and central-bank services: client and
// tariff registries, account opening, the doubtful-client transaction
// ceiling, and the router that composes single- and two-leg transfers into
// ledger transactions.
package bank

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Romkashka/bank/internal/domain"
	"github.com/Romkashka/bank/internal/usecase/account"
	"github.com/Romkashka/bank/internal/usecase/ledger"
)

// Bank holds the tariffs, clients and accounts of one bank, plus the
// per-transaction ceiling applied to clients lacking verified identity.
type Bank struct {
	id            domain.BankID
	clock         domain.Clock
	doubtfulLimit decimal.Decimal
	tariffs       []*domain.Tariff
	clients       []*domain.Client
	accounts      []*account.Account
}

// NewBank creates an empty bank. The doubtful-client limit must not be
// negative.
func NewBank(clk domain.Clock, id domain.BankID, doubtfulLimit decimal.Decimal) (*Bank, error) {
	if doubtfulLimit.IsNegative() {
		return nil, fmt.Errorf("%w: got %s", domain.ErrNegativeLimit, doubtfulLimit)
	}
	return &Bank{id: id, clock: clk, doubtfulLimit: doubtfulLimit}, nil
}

// ID returns the bank's identifier.
func (b *Bank) ID() domain.BankID { return b.id }

// DoubtfulLimit returns the current ceiling for doubtful clients.
func (b *Bank) DoubtfulLimit() decimal.Decimal { return b.doubtfulLimit }

// SetDoubtfulLimit replaces the ceiling for doubtful clients.
func (b *Bank) SetDoubtfulLimit(limit decimal.Decimal) error {
	if limit.IsNegative() {
		return fmt.Errorf("%w: got %s", domain.ErrNegativeLimit, limit)
	}
	b.doubtfulLimit = limit
	return nil
}

// AddTariff registers a new tariff built from the snapshot.
func (b *Bank) AddTariff(snapshot domain.TariffSnapshot) (*domain.Tariff, error) {
	tariff, err := domain.NewTariff(b.clock, snapshot)
	if err != nil {
		return nil, err
	}
	b.tariffs = append(b.tariffs, tariff)
	return tariff, nil
}

// ChangeTariff replaces the snapshot of the tariff currently carrying the
// given identifier, notifying its subscribers.
func (b *Bank) ChangeTariff(id domain.TariffID, snapshot domain.TariffSnapshot) error {
	tariff, err := b.TariffByID(id)
	if err != nil {
		return err
	}
	return tariff.Replace(snapshot)
}

// TariffByID returns the tariff whose current snapshot carries the given
// identifier.
func (b *Bank) TariffByID(id domain.TariffID) (*domain.Tariff, error) {
	for _, t := range b.tariffs {
		if t.Snapshot().ID == id {
			return t, nil
		}
	}
	return nil, fmt.Errorf("%w: %s in bank %s", domain.ErrNoSuchTariff, id, b.id)
}

// Tariffs returns the current snapshot of every registered tariff, in
// registration order.
func (b *Bank) Tariffs() []domain.TariffSnapshot {
	out := make([]domain.TariffSnapshot, 0, len(b.tariffs))
	for _, t := range b.tariffs {
		out = append(out, t.Snapshot())
	}
	return out
}

// AddClient registers a new client with the given identity.
func (b *Bank) AddClient(info domain.ClientInfo) (domain.ClientID, error) {
	if err := info.Validate(); err != nil {
		return domain.ClientID{}, err
	}
	client := &domain.Client{ID: domain.NewClientID(), Info: info}
	b.clients = append(b.clients, client)
	return client.ID, nil
}

// ClientByID returns the client with the given identifier.
func (b *Bank) ClientByID(id domain.ClientID) (*domain.Client, error) {
	for _, c := range b.clients {
		if c.ID == id {
			return c, nil
		}
	}
	return nil, fmt.Errorf("%w: %s in bank %s", domain.ErrNoSuchClient, id, b.id)
}

// Clients returns every registered client, in registration order.
func (b *Bank) Clients() []*domain.Client {
	out := make([]*domain.Client, len(b.clients))
	copy(out, b.clients)
	return out
}

// ChangeClientInfo replaces a client's identity. If the email changes, the
// mailbox subscriptions on the tariffs of the client's accounts move from
// the old address to the new one.
func (b *Bank) ChangeClientInfo(id domain.ClientID, info domain.ClientInfo) error {
	if err := info.Validate(); err != nil {
		return err
	}
	client, err := b.ClientByID(id)
	if err != nil {
		return err
	}

	if client.Info.Email != info.Email {
		for _, accID := range client.Accounts {
			acc, err := b.FindAccount(accID)
			if err != nil {
				return err
			}
			tariff := acc.Tariff()
			if client.Info.Email != nil {
				tariff.Unsubscribe(client.Info.Email)
			}
			if info.Email != nil {
				if err := tariff.Subscribe(info.Email); err != nil && !errors.Is(err, domain.ErrAlreadySubscribed) {
					return err
				}
			}
		}
	}

	client.Info = info
	return nil
}

// OpenAccount opens a new account for the client under the tariff,
// capturing the clock's current time as the creation moment. The account
// subscribes to the clock for settlement notifications, and the client's
// mailbox (if any) subscribes to the tariff.
func (b *Bank) OpenAccount(clientID domain.ClientID, tariffID domain.TariffID) (*account.Account, error) {
	tariff, err := b.TariffByID(tariffID)
	if err != nil {
		return nil, err
	}
	client, err := b.ClientByID(clientID)
	if err != nil {
		return nil, err
	}

	acc, err := account.New(domain.AccountID{Bank: b.id, ID: uuid.New()}, tariff, b.clock)
	if err != nil {
		return nil, err
	}
	if err := b.clock.Subscribe(acc); err != nil {
		return nil, err
	}

	b.accounts = append(b.accounts, acc)
	client.AddAccount(acc.ID())

	if client.Info.Email != nil {
		if err := tariff.Subscribe(client.Info.Email); err != nil && !errors.Is(err, domain.ErrAlreadySubscribed) {
			return nil, err
		}
	}
	return acc, nil
}

// FindAccount returns the account with the given identifier.
func (b *Bank) FindAccount(id domain.AccountID) (*account.Account, error) {
	for _, acc := range b.accounts {
		if acc.ID() == id {
			return acc, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", domain.ErrNoSuchAccount, id)
}

// Apply commits a signed amount on the account after the doubtful-client
// gate: if the owning client lacks an address or passport, the absolute
// amount must be strictly below the bank's limit. Returns the applied leg.
func (b *Bank) Apply(id domain.AccountID, amount decimal.Decimal) (ledger.Leg, error) {
	acc, err := b.FindAccount(id)
	if err != nil {
		return ledger.Leg{}, err
	}
	owner, err := b.ownerOf(id)
	if err != nil {
		return ledger.Leg{}, err
	}

	if owner.Info.Doubtful() && amount.Abs().GreaterThanOrEqual(b.doubtfulLimit) {
		return ledger.Leg{}, fmt.Errorf("%w: amount %s, limit %s",
			domain.ErrDoubtfulClientLimit, amount, b.doubtfulLimit)
	}

	legID, err := acc.Apply(amount)
	if err != nil {
		return ledger.Leg{}, err
	}
	return ledger.Leg{Account: acc, Amount: amount, ID: legID}, nil
}

// Accounts returns every open account, in opening order.
func (b *Bank) Accounts() []*account.Account {
	out := make([]*account.Account, len(b.accounts))
	copy(out, b.accounts)
	return out
}

func (b *Bank) ownerOf(id domain.AccountID) (*domain.Client, error) {
	for _, c := range b.clients {
		if c.Owns(id) {
			return c, nil
		}
	}
	return nil, fmt.Errorf("%w: %s has no owner", domain.ErrNoSuchAccount, id)
}
