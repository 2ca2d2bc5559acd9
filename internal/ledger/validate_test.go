package ledger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cashbook-dev/cashbook/internal/model"
)

func TestValidate_Clean(t *testing.T) {
	txns := []model.Transaction{
		txn(1, "Lunch", "100", model.ModeCash, model.TypeDebit),
		txn(2, "Refund", "50", model.ModeOnline, model.TypeCredit),
	}
	assert.Empty(t, ValidateTransactions(txns))
}

func TestValidate_Invariant1_NonPositiveAmount(t *testing.T) {
	txns := []model.Transaction{
		txn(1, "Zero", "0", model.ModeCash, model.TypeDebit),
		txn(2, "Negative", "-5", model.ModeCash, model.TypeDebit),
	}
	errs := ValidateTransactions(txns)
	require.Len(t, errs, 2)
	for _, e := range errs {
		assert.Equal(t, 1, e.Invariant)
	}
	assert.Equal(t, "1", errs[0].TransactionID)
}

func TestValidate_Invariant2_IDOrder(t *testing.T) {
	txns := []model.Transaction{
		txn(5, "a", "1", model.ModeCash, model.TypeDebit),
		txn(5, "dup", "1", model.ModeCash, model.TypeDebit),
		txn(3, "older", "1", model.ModeCash, model.TypeDebit),
	}
	errs := ValidateTransactions(txns)
	require.Len(t, errs, 2)
	assert.Equal(t, 2, errs[0].Invariant)
	assert.Equal(t, 2, errs[1].Invariant)
	assert.Contains(t, errs[1].Error(), "invariant 2 [3]")
}

func TestValidate_Invariant3_UnknownEnums(t *testing.T) {
	txns := []model.Transaction{
		txn(1, "a", "1", model.Mode("Card"), model.Type("REFUND")),
	}
	errs := ValidateTransactions(txns)
	require.Len(t, errs, 2)
	assert.Equal(t, 3, errs[0].Invariant)
	assert.Contains(t, errs[0].Description, "Card")
	assert.Contains(t, errs[1].Description, "REFUND")
}

func TestValidate_Invariant4_EmptyTitle(t *testing.T) {
	errs := ValidateTransactions([]model.Transaction{txn(1, "   ", "1", model.ModeCash, model.TypeDebit)})
	require.Len(t, errs, 1)
	assert.Equal(t, 4, errs[0].Invariant)
}

func TestReconcile_Balanced(t *testing.T) {
	l := Ledger{
		Opening: opening("1000", "500"),
		Transactions: []model.Transaction{
			txn(1, "Lunch", "100", model.ModeCash, model.TypeDebit),
			txn(2, "Refund", "50", model.ModeOnline, model.TypeCredit),
		},
	}
	assert.Empty(t, Reconcile(l))
}

func TestReconcile_Empty(t *testing.T) {
	assert.Empty(t, Reconcile(Ledger{}))
	assert.Empty(t, Reconcile(Ledger{Opening: opening("1", "0")}))
}

func TestReconcile_TransactionsWithoutOpening(t *testing.T) {
	l := Ledger{Transactions: []model.Transaction{txn(1, "a", "1", model.ModeCash, model.TypeDebit)}}
	errs := Reconcile(l)
	require.Len(t, errs, 1)
	assert.Equal(t, 5, errs[0].Invariant)
}

func TestReconcile_UnknownModeBreaksBalance(t *testing.T) {
	// A transaction in an unknown bucket is skipped by ComputeBalances but
	// still unwound by the projection, so the walk no longer closes.
	l := Ledger{
		Opening:      opening("100", "0"),
		Transactions: []model.Transaction{txn(1, "a", "10", model.Mode("Card"), model.TypeDebit)},
	}
	errs := Reconcile(l)
	var invariants []int
	for _, e := range errs {
		invariants = append(invariants, e.Invariant)
	}
	assert.Contains(t, invariants, 3)
	assert.Contains(t, invariants, 5)
}
