// Package domain defines the value objects, entities and interfaces shared by
// the banking engine: identifiers, tariffs, clients, the simulated clock and
// the error taxonomy. It has no dependencies on the engine's services.
package domain

import "errors"

// Business-rule failures. Rejected operations leave state unchanged.
var (
	// ErrBelowMinimumBalance means a transaction would push the balance
	// below the tariff's minimum balance.
	ErrBelowMinimumBalance = errors.New("balance below tariff minimum")

	// ErrWithdrawalLocked means the account is still inside its tariff's
	// add-only period and the amount is negative.
	ErrWithdrawalLocked = errors.New("account is in add-only period")

	// ErrDoubtfulClientLimit means a client without a recorded address or
	// passport attempted a transaction at or above the bank's limit.
	ErrDoubtfulClientLimit = errors.New("doubtful client transaction limit exceeded")

	// ErrUnknownLeg means the account does not list the leg as open, either
	// because it never existed or because it was already cancelled.
	ErrUnknownLeg = errors.New("unknown or already cancelled transaction leg")

	// ErrInvalidCancellation means at least one leg of the transaction is no
	// longer open on its account, so the whole cancellation is refused.
	ErrInvalidCancellation = errors.New("transaction cannot be cancelled")

	// ErrAlreadySubscribed means the subscriber is already registered.
	ErrAlreadySubscribed = errors.New("already subscribed")
)

// Validation failures. Rejected before any mutation; the caller may retry
// with corrected input.
var (
	ErrNonPositiveAmount   = errors.New("transaction amount must be positive")
	ErrNonPositiveDuration = errors.New("duration must be positive")
	ErrNegativeDuration    = errors.New("duration must not be negative")
	ErrInvalidTariff       = errors.New("invalid tariff parameters")
	ErrInvalidInterval     = errors.New("invalid balance interval")
	ErrInvalidAddress      = errors.New("invalid address")
	ErrInvalidPassport     = errors.New("invalid passport")
	ErrInvalidEmail        = errors.New("invalid email address")
	ErrInvalidClient       = errors.New("invalid client information")
	ErrNegativeLimit       = errors.New("transaction limit must not be negative")
)

// Not-found failures.
var (
	ErrNoSuchBank        = errors.New("bank not found")
	ErrNoSuchAccount     = errors.New("account not found")
	ErrNoSuchClient      = errors.New("client not found")
	ErrNoSuchTariff      = errors.New("tariff not found")
	ErrNoSuchTransaction = errors.New("transaction not found")
)
