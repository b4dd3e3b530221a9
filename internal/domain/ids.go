package domain

import "github.com/google/uuid"

// BankID uniquely identifies a bank within the central bank's registry.
type BankID uuid.UUID

// NewBankID generates a fresh random bank identifier.
func NewBankID() BankID {
	return BankID(uuid.New())
}

func (id BankID) String() string {
	return uuid.UUID(id).String()
}

// AccountID is the only external handle to an account: the owning bank
// plus an identifier unique within that bank.
type AccountID struct {
	Bank BankID
	ID   uuid.UUID
}

// NewAccountID generates a fresh account identifier under the given bank.
func NewAccountID(bank BankID) AccountID {
	return AccountID{Bank: bank, ID: uuid.New()}
}

func (id AccountID) String() string {
	return id.Bank.String() + "/" + id.ID.String()
}

// ClientID uniquely identifies a client within its bank.
type ClientID uuid.UUID

// NewClientID generates a fresh random client identifier.
func NewClientID() ClientID {
	return ClientID(uuid.New())
}

func (id ClientID) String() string {
	return uuid.UUID(id).String()
}

// TariffID identifies a tariff snapshot. A tariff entity keeps the ID of
// whatever snapshot it currently carries.
type TariffID uuid.UUID

// NewTariffID generates a fresh random tariff identifier.
func NewTariffID() TariffID {
	return TariffID(uuid.New())
}

func (id TariffID) String() string {
	return uuid.UUID(id).String()
}

// TransactionID identifies one recorded transaction in the ledger.
type TransactionID uuid.UUID

// NewTransactionID generates a fresh random transaction identifier.
func NewTransactionID() TransactionID {
	return TransactionID(uuid.New())
}

func (id TransactionID) String() string {
	return uuid.UUID(id).String()
}

// LegID identifies one signed balance change belonging to a transaction.
type LegID uuid.UUID

// NewLegID generates a fresh random leg identifier.
func NewLegID() LegID {
	return LegID(uuid.New())
}

func (id LegID) String() string {
	return uuid.UUID(id).String()
}
