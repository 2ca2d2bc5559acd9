// Package ledger holds the balance engine: the opening balance, the
// append-only transaction list, and the views derived from them.
package ledger

import (
	"slices"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/cashbook-dev/cashbook/internal/model"
)

// State is the lifecycle position of a ledger.
type State string

const (
	StateNoBalance  State = "no-balance"
	StateBalanceSet State = "balance-set"
)

// Ledger is the whole mutable state: an optional opening balance and the
// transactions in the order they were recorded.
type Ledger struct {
	Opening      *model.OpeningBalance
	Transactions []model.Transaction
}

// State reports whether an opening balance has been set.
func (l Ledger) State() State {
	if l.Opening == nil {
		return StateNoBalance
	}
	return StateBalanceSet
}

// Balances derives the current cash, online and total balances.
func (l Ledger) Balances() model.Balances {
	return ComputeBalances(l.Opening, l.Transactions)
}

// Running derives the running-balance projection, most recent first.
func (l Ledger) Running() []model.RunningEntry {
	return ComputeRunningBalances(l.Transactions, l.Balances().Total)
}

// Clone returns a deep copy that shares nothing with l.
func (l Ledger) Clone() Ledger {
	var c Ledger
	if l.Opening != nil {
		ob := *l.Opening
		c.Opening = &ob
	}
	c.Transactions = slices.Clone(l.Transactions)
	return c
}

// ComputeBalances applies every transaction to the opening balance of its mode.
//
//	cash   = opening.cash   + credits(cash)   - debits(cash)
//	online = opening.online + credits(online) - debits(online)
//	total  = cash + online
//
// A nil opening balance yields all zeros.
func ComputeBalances(opening *model.OpeningBalance, txns []model.Transaction) model.Balances {
	if opening == nil {
		return model.Balances{Cash: decimal.Zero, Online: decimal.Zero, Total: decimal.Zero}
	}

	cash := opening.Cash
	online := opening.Online
	for _, t := range txns {
		switch t.Mode {
		case model.ModeCash:
			cash = cash.Add(t.Signed())
		case model.ModeOnline:
			online = online.Add(t.Signed())
		}
	}
	return model.Balances{Cash: cash, Online: online, Total: cash.Add(online)}
}

// ComputeRunningBalances orders transactions by ID descending and attaches a
// balance to each one by unwinding from total: an entry gets the accumulator
// as it stands when the entry is reached, then the entry's effect is reversed
// (a debit is added back, a credit taken out) before moving to the next older
// entry. The input slice is not modified.
func ComputeRunningBalances(txns []model.Transaction, total decimal.Decimal) []model.RunningEntry {
	if len(txns) == 0 {
		return []model.RunningEntry{}
	}

	sorted := sortedDesc(txns)
	entries := make([]model.RunningEntry, 0, len(sorted))
	acc := total
	for _, t := range sorted {
		entries = append(entries, model.RunningEntry{Transaction: t, Balance: acc})
		acc = unwind(acc, t)
	}
	return entries
}

// unwind reverses the effect of t on a balance.
func unwind(balance decimal.Decimal, t model.Transaction) decimal.Decimal {
	if t.Type == model.TypeDebit {
		return balance.Add(t.Amount)
	}
	return balance.Sub(t.Amount)
}

func sortedDesc(txns []model.Transaction) []model.Transaction {
	sorted := slices.Clone(txns)
	slices.SortStableFunc(sorted, func(a, b model.Transaction) int {
		switch {
		case a.ID > b.ID:
			return -1
		case a.ID < b.ID:
			return 1
		}
		return 0
	})
	return sorted
}

// ParseAmount parses a user-entered amount. Surrounding spaces are ignored.
func ParseAmount(s string) (decimal.Decimal, error) {
	return decimal.NewFromString(strings.TrimSpace(s))
}

// parseLenient parses a user-entered amount, falling back to zero when the
// field is blank or not a number.
func parseLenient(s string) decimal.Decimal {
	d, err := ParseAmount(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}
