package model

import "github.com/shopspring/decimal"

// OpeningBalance is the starting amount in each bucket before any transaction.
type OpeningBalance struct {
	Cash   decimal.Decimal `json:"cash"`
	Online decimal.Decimal `json:"online"`
}

// Total returns Cash + Online.
func (b OpeningBalance) Total() decimal.Decimal {
	return b.Cash.Add(b.Online)
}

// Balances is the current position derived from the opening balance and the
// transactions.
type Balances struct {
	Cash   decimal.Decimal
	Online decimal.Decimal
	Total  decimal.Decimal
}

// RunningEntry pairs a transaction with the running balance shown next to it.
type RunningEntry struct {
	Transaction
	Balance decimal.Decimal
}
