package models

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// DateLayout is the calendar date format used by transaction dates.
const DateLayout = "2006-01-02"

// Kind selects which collection a transaction belongs to.
type Kind string

const (
	KindIncome   Kind = "income"
	KindSpending Kind = "spending"
)

// Label is the human-readable name used in response messages.
func (k Kind) Label() string {
	switch k {
	case KindIncome:
		return "Income"
	case KindSpending:
		return "Spending"
	}
	return string(k)
}

// Valid reports whether k is a known kind.
func (k Kind) Valid() bool {
	return k == KindIncome || k == KindSpending
}

// Category is an optional label attached to a transaction.
type Category struct {
	UserUUID string `json:"user_uuid"`
	Name     string `json:"name"`
}

// Transaction is a single income or spending record.
type Transaction struct {
	ID        string    `json:"id,omitempty"`
	UserUUID  string    `json:"user_uuid"`
	Amount    float64   `json:"amount"`
	Currency  string    `json:"currency"`
	Date      string    `json:"date"`
	Category  *Category `json:"categories"`
	CreatedAt time.Time `json:"createdAt"`
}

// ParsedDate returns the transaction date as a time.Time in UTC.
func (t Transaction) ParsedDate() (time.Time, error) {
	return time.Parse(DateLayout, t.Date)
}

// Validate checks the shape of a transaction coming from a client.
func (t Transaction) Validate() error {
	if _, err := t.ParsedDate(); err != nil {
		return fmt.Errorf("incorrect date format %q, should be YYYY-MM-DD", t.Date)
	}
	if math.IsNaN(t.Amount) || math.IsInf(t.Amount, 0) {
		return fmt.Errorf("amount must be a finite number")
	}
	if strings.TrimSpace(t.Currency) == "" {
		return fmt.Errorf("currency is required")
	}
	if t.Category != nil && t.Category.Name == "" {
		return fmt.Errorf("category name must not be empty")
	}
	return nil
}

// TransactionInput is a transaction as sent by a client. Amount is a pointer so
// a missing amount can be told apart from zero.
type TransactionInput struct {
	UserUUID string    `json:"user_uuid"`
	Amount   *float64  `json:"amount"`
	Currency string    `json:"currency"`
	Date     string    `json:"date"`
	Category *Category `json:"categories"`
}

// Transaction checks the required fields and returns the validated record.
func (in TransactionInput) Transaction() (Transaction, error) {
	if in.Amount == nil {
		return Transaction{}, fmt.Errorf("amount is required")
	}
	tx := Transaction{
		UserUUID: in.UserUUID,
		Amount:   *in.Amount,
		Currency: in.Currency,
		Date:     in.Date,
		Category: in.Category,
	}
	if err := tx.Validate(); err != nil {
		return Transaction{}, err
	}
	return tx, nil
}
