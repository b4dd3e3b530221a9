package domain

import (
	"fmt"
	"regexp"
	"unicode"
)

// Address is a validated street name and building number.
type Address struct {
	Street   string
	Building int
}

// NewAddress validates that the street consists of letters only and the
// building number is at least 1.
func NewAddress(street string, building int) (*Address, error) {
	if street == "" {
		return nil, fmt.Errorf("%w: street must not be empty", ErrInvalidAddress)
	}
	for _, r := range street {
		if !unicode.IsLetter(r) {
			return nil, fmt.Errorf("%w: street %q contains non-letter characters", ErrInvalidAddress, street)
		}
	}
	if building < 1 {
		return nil, fmt.Errorf("%w: building number %d is below 1", ErrInvalidAddress, building)
	}
	return &Address{Street: street, Building: building}, nil
}

func (a Address) String() string {
	return fmt.Sprintf("%s %d", a.Street, a.Building)
}

// Passport series and number lengths.
const (
	PassportSeriesLength = 4
	PassportNumberLength = 6
)

// Passport is a validated passport series and number.
type Passport struct {
	Series string
	Number string
}

// NewPassport validates that the series is 4 decimal digits and the number
// is 6 decimal digits.
func NewPassport(series, number string) (*Passport, error) {
	if !allDigits(series) || len(series) != PassportSeriesLength {
		return nil, fmt.Errorf("%w: series %q must be %d decimal digits", ErrInvalidPassport, series, PassportSeriesLength)
	}
	if !allDigits(number) || len(number) != PassportNumberLength {
		return nil, fmt.Errorf("%w: number %q must be %d decimal digits", ErrInvalidPassport, number, PassportNumberLength)
	}
	return &Passport{Series: series, Number: number}, nil
}

func (p Passport) String() string {
	return p.Series + " " + p.Number
}

func allDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

var emailPattern = regexp.MustCompile(`^(.+)@(\S+)$`)

// Email is a client mailbox: a validated address plus the tariff change
// notifications it has received. It implements TariffSubscriber.
type Email struct {
	Address  string
	messages []Message
}

// NewEmail validates the address format.
func NewEmail(address string) (*Email, error) {
	if !emailPattern.MatchString(address) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidEmail, address)
	}
	return &Email{Address: address}, nil
}

// Receive stores a notification in the mailbox.
func (e *Email) Receive(m Message) {
	e.messages = append(e.messages, m)
}

// Messages returns every received notification, oldest first.
func (e *Email) Messages() []Message {
	out := make([]Message, len(e.messages))
	copy(out, e.messages)
	return out
}

func (e *Email) String() string {
	return e.Address
}

// ClientInfo is the identity a client registered with. Name and surname are
// required; address, passport and email may be absent.
type ClientInfo struct {
	Name     string
	Surname  string
	Address  *Address
	Passport *Passport
	Email    *Email
}

// Validate requires name and surname.
func (ci ClientInfo) Validate() error {
	if ci.Name == "" {
		return fmt.Errorf("%w: name must not be empty", ErrInvalidClient)
	}
	if ci.Surname == "" {
		return fmt.Errorf("%w: surname must not be empty", ErrInvalidClient)
	}
	return nil
}

// Doubtful reports whether the client lacks a recorded address or passport
// and is therefore subject to the bank's per-transaction ceiling.
func (ci ClientInfo) Doubtful() bool {
	return ci.Address == nil || ci.Passport == nil
}

// Client is a bank customer: identity information plus the accounts opened
// in their name.
type Client struct {
	ID       ClientID
	Info     ClientInfo
	Accounts []AccountID
}

// AddAccount records ownership of a newly opened account.
func (c *Client) AddAccount(id AccountID) {
	c.Accounts = append(c.Accounts, id)
}

// Owns reports whether the client owns the given account.
func (c *Client) Owns(id AccountID) bool {
	for _, owned := range c.Accounts {
		if owned == id {
			return true
		}
	}
	return false
}
