// Package clock provides the manually driven simulated time source the
// engine runs on. There is no wall-clock time anywhere: time advances only
// when someone calls Forward.
package clock

import (
	"fmt"
	"time"

	"github.com/Romkashka/bank/internal/domain"
)

// Manual is a forward-only simulated clock. Subscribers are notified
// synchronously, in registration order, on every jump; by the time Forward
// returns, every subscriber has caught up.
type Manual struct {
	now         time.Time
	subscribers []domain.ClockSubscriber
}

// NewManual creates a clock set to the given start instant.
func NewManual(start time.Time) *Manual {
	return &Manual{now: start}
}

// Now returns the current simulated date and time.
func (c *Manual) Now() time.Time {
	return c.now
}

// DaysInYear returns 365 or 366 for the current simulated year.
func (c *Manual) DaysInYear() int {
	return time.Date(c.now.Year(), time.December, 31, 0, 0, 0, 0, c.now.Location()).YearDay()
}

// Forward advances the clock by d and notifies every subscriber before
// returning. Fails with ErrNonPositiveDuration if d <= 0.
func (c *Manual) Forward(d time.Duration) error {
	if d <= 0 {
		return fmt.Errorf("%w: got %s", domain.ErrNonPositiveDuration, d)
	}
	c.now = c.now.Add(d)
	for _, s := range c.subscribers {
		s.CatchUpTime(c.now)
	}
	return nil
}

// Subscribe registers s for forward notifications. Fails with
// ErrAlreadySubscribed if s is already registered.
func (c *Manual) Subscribe(s domain.ClockSubscriber) error {
	for _, existing := range c.subscribers {
		if existing == s {
			return domain.ErrAlreadySubscribed
		}
	}
	c.subscribers = append(c.subscribers, s)
	return nil
}

// Unsubscribe removes s and reports whether it was registered.
func (c *Manual) Unsubscribe(s domain.ClockSubscriber) bool {
	for i, existing := range c.subscribers {
		if existing == s {
			c.subscribers = append(c.subscribers[:i], c.subscribers[i+1:]...)
			return true
		}
	}
	return false
}
