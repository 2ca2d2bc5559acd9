package ledger

import (
	"fmt"
	"strings"

	"github.com/cashbook-dev/cashbook/internal/model"
)

// Violation describes a single invariant broken by stored ledger data.
type Violation struct {
	Invariant     int
	TransactionID string
	Description   string
}

func (v Violation) Error() string {
	return fmt.Sprintf("invariant %d [%s]: %s", v.Invariant, v.TransactionID, v.Description)
}

// ValidateTransactions checks the per-transaction invariants of a stored list:
//
//  1. amount > 0
//  2. ids unique and strictly increasing in storage order
//  3. mode and type are known values
//  4. title is non-empty after trimming
func ValidateTransactions(txns []model.Transaction) []Violation {
	var errs []Violation

	for i, t := range txns {
		txID := t.ID.String()

		// Invariant 1: positive amounts.
		if !t.Amount.IsPositive() {
			errs = append(errs, Violation{
				Invariant:     1,
				TransactionID: txID,
				Description:   fmt.Sprintf("amount %s is not positive", t.Amount),
			})
		}

		// Invariant 2: strictly increasing ids.
		if i > 0 && t.ID <= txns[i-1].ID {
			errs = append(errs, Violation{
				Invariant:     2,
				TransactionID: txID,
				Description:   fmt.Sprintf("id does not follow previous id %s", txns[i-1].ID),
			})
		}

		// Invariant 3: known enums.
		if !t.Mode.Valid() {
			errs = append(errs, Violation{
				Invariant:     3,
				TransactionID: txID,
				Description:   fmt.Sprintf("unknown mode %q", t.Mode),
			})
		}
		if !t.Type.Valid() {
			errs = append(errs, Violation{
				Invariant:     3,
				TransactionID: txID,
				Description:   fmt.Sprintf("unknown type %q", t.Type),
			})
		}

		// Invariant 4: titled.
		if strings.TrimSpace(t.Title) == "" {
			errs = append(errs, Violation{
				Invariant:     4,
				TransactionID: txID,
				Description:   "empty title",
			})
		}
	}

	return errs
}

// Reconcile runs ValidateTransactions and then checks invariant 5: unwinding
// the running-balance projection from the current total must land exactly on
// the opening total, and the most recent entry must carry the current total.
func Reconcile(l Ledger) []Violation {
	errs := ValidateTransactions(l.Transactions)

	if l.Opening == nil {
		if len(l.Transactions) > 0 {
			errs = append(errs, Violation{
				Invariant:     5,
				TransactionID: "-",
				Description:   fmt.Sprintf("%d transactions recorded without an opening balance", len(l.Transactions)),
			})
		}
		return errs
	}

	total := l.Balances().Total
	running := ComputeRunningBalances(l.Transactions, total)
	if len(running) == 0 {
		return errs
	}

	if !running[0].Balance.Equal(total) {
		errs = append(errs, Violation{
			Invariant:     5,
			TransactionID: running[0].ID.String(),
			Description:   fmt.Sprintf("most recent balance %s != total %s", running[0].Balance, total),
		})
	}

	acc := total
	for _, e := range running {
		acc = unwind(acc, e.Transaction)
	}
	if !acc.Equal(l.Opening.Total()) {
		errs = append(errs, Violation{
			Invariant:     5,
			TransactionID: running[len(running)-1].ID.String(),
			Description:   fmt.Sprintf("unwound balance %s != opening total %s", acc, l.Opening.Total()),
		})
	}

	return errs
}
