package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Account represents a group-owned account holding a balance in one currency.
type Account struct {
	ID             AccountID
	OwnedBy        GroupID
	Name           string
	Currency       Currency
	Balance        Money
	OpeningBalance decimal.Decimal
	Version        int64
	Deleted        bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
	DeletedAt      *time.Time
}

// ValidateDebit checks if account can be debited by amount. Overdrafts are never allowed.
func (a *Account) ValidateDebit(amount Money) error {
	newBalance, err := a.Balance.Sub(amount)
	if err != nil {
		return err
	}
	if newBalance.IsNegative() {
		return withDetail(ErrInsufficientFunds, "account %s holds %s, debit of %s requested", a.ID, a.Balance, amount)
	}
	return nil
}

// ValidateCredit checks if account can be credited by amount.
func (a *Account) ValidateCredit(amount Money) error {
	if amount.Currency != a.Currency {
		return withDetail(ErrCurrencyMismatch, "account %s holds %s, credit in %s requested", a.ID, a.Currency, amount.Currency)
	}
	return nil
}

// Debit subtracts amount from the balance.
func (a *Account) Debit(amount Money, at time.Time) error {
	if err := a.ValidateDebit(amount); err != nil {
		return err
	}
	a.Balance, _ = a.Balance.Sub(amount)
	a.touch(at)
	return nil
}

// Credit adds amount to the balance.
func (a *Account) Credit(amount Money, at time.Time) error {
	if err := a.ValidateCredit(amount); err != nil {
		return err
	}
	a.Balance, _ = a.Balance.Add(amount)
	a.touch(at)
	return nil
}

// SoftDelete marks the account inactive, freezing its balance.
func (a *Account) SoftDelete(at time.Time) {
	a.Deleted = true
	a.DeletedAt = &at
	a.touch(at)
}

// Clone returns a copy safe to mutate independently.
func (a *Account) Clone() *Account {
	c := *a
	if a.DeletedAt != nil {
		t := *a.DeletedAt
		c.DeletedAt = &t
	}
	return &c
}

func (a *Account) touch(at time.Time) {
	a.Version++
	a.UpdatedAt = at
}
