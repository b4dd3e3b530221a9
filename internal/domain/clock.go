package domain

import "time"

// Clock is the process-wide simulated time source. Time only moves forward,
// by explicit jumps; every jump synchronously notifies subscribers in
// registration order.
type Clock interface {
	// Now returns the current simulated date and time.
	Now() time.Time

	// DaysInYear returns the number of days (365 or 366) in the current
	// simulated year. Used as the denominator for daily interest.
	DaysInYear() int

	// Forward advances the clock by d and notifies every subscriber before
	// returning. Fails with ErrNonPositiveDuration if d <= 0.
	Forward(d time.Duration) error

	// Subscribe registers s for forward notifications. Fails with
	// ErrAlreadySubscribed if s is already registered.
	Subscribe(s ClockSubscriber) error

	// Unsubscribe removes s and reports whether it was registered.
	Unsubscribe(s ClockSubscriber) bool
}

// ClockSubscriber is notified after every forward jump of the clock it is
// subscribed to.
type ClockSubscriber interface {
	// CatchUpTime brings the subscriber's state up to the given instant.
	CatchUpTime(now time.Time)
}
