package model

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/cashbook-dev/cashbook/internal/id"
)

// Mode is the account bucket a transaction affects.
type Mode string

const (
	ModeCash   Mode = "Cash"
	ModeOnline Mode = "Online"
)

// ParseMode accepts "cash" or "online" in any case.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "cash":
		return ModeCash, nil
	case "online":
		return ModeOnline, nil
	}
	return "", fmt.Errorf("unknown mode %q (want Cash or Online)", s)
}

// Valid reports whether m is one of the known modes.
func (m Mode) Valid() bool {
	return m == ModeCash || m == ModeOnline
}

// Type tells whether money left (DEBIT) or entered (CREDIT) the ledger.
type Type string

const (
	TypeDebit  Type = "DEBIT"
	TypeCredit Type = "CREDIT"
)

// ParseType accepts "debit" or "credit" in any case.
func ParseType(s string) (Type, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "DEBIT":
		return TypeDebit, nil
	case "CREDIT":
		return TypeCredit, nil
	}
	return "", fmt.Errorf("unknown type %q (want DEBIT or CREDIT)", s)
}

// Valid reports whether t is one of the known types.
func (t Type) Valid() bool {
	return t == TypeDebit || t == TypeCredit
}

// Transaction is one recorded debit or credit. Transactions are never edited
// once created.
type Transaction struct {
	ID     id.ID           `json:"id"`
	Title  string          `json:"title"`
	Amount decimal.Decimal `json:"amount"` // always positive
	Mode   Mode            `json:"mode"`
	Type   Type            `json:"type"`
	Date   string          `json:"date"`
	Time   string          `json:"time"`
}

// Signed returns the amount with the sign of its effect on the balance:
// negative for a debit, positive for a credit.
func (t Transaction) Signed() decimal.Decimal {
	if t.Type == TypeDebit {
		return t.Amount.Neg()
	}
	return t.Amount
}
