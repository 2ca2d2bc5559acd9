// Package statement turns a ledger into a printable statement and exports
// it as csv, markdown or xlsx.
package statement

import (
	"time"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"

	"github.com/cashbook-dev/cashbook/internal/ledger"
	"github.com/cashbook-dev/cashbook/internal/model"
)

// Statement is a read-only snapshot of a ledger ready for export.
type Statement struct {
	Owner       string
	Currency    string
	GeneratedAt time.Time
	Opening     *model.OpeningBalance
	Balances    model.Balances
	// Entries are newest first, as the ledger projects them.
	Entries []model.RunningEntry
}

// Row is one exported line. Amount is signed: negative for a debit.
type Row struct {
	Date    string
	Time    string
	Title   string
	Mode    model.Mode
	Type    model.Type
	Amount  decimal.Decimal
	Balance decimal.Decimal
}

// New snapshots l.
func New(l ledger.Ledger, currency string, now time.Time) Statement {
	s := Statement{
		Currency:    currency,
		GeneratedAt: now,
		Balances:    l.Balances(),
		Entries:     l.Running(),
	}
	if l.Opening != nil {
		ob := *l.Opening
		s.Opening = &ob
	}
	return s
}

// OpeningTotal returns the opening total, or zero when none is set.
func (s Statement) OpeningTotal() decimal.Decimal {
	if s.Opening == nil {
		return decimal.Zero
	}
	return s.Opening.Total()
}

// Rows returns the entries as export rows, in entry order.
func (s Statement) Rows() []Row {
	rows := make([]Row, 0, len(s.Entries))
	for _, e := range s.Entries {
		rows = append(rows, Row{
			Date:    e.Date,
			Time:    e.Time,
			Title:   e.Title,
			Mode:    e.Mode,
			Type:    e.Type,
			Amount:  e.Signed(),
			Balance: e.Balance,
		})
	}
	return rows
}

// Money formats d in the statement's currency.
func (s Statement) Money(d decimal.Decimal) string {
	return FormatMoney(d, s.Currency)
}

// FormatMoney formats d as a display amount in the given ISO 4217 currency,
// e.g. "₹1,450.00". Unknown currencies fall back to a plain two-place number.
func FormatMoney(d decimal.Decimal, currency string) string {
	cur := money.GetCurrency(currency)
	if cur == nil {
		return d.StringFixed(2)
	}
	minor := d.Shift(int32(cur.Fraction)).Round(0).IntPart()
	return money.New(minor, cur.Code).Display()
}
