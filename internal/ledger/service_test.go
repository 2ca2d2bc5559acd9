package ledger

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cashbook-dev/cashbook/internal/id"
	"github.com/cashbook-dev/cashbook/internal/model"
)

// memGateway is an in-memory Gateway that records calls and can fail writes.
type memGateway struct {
	opening *model.OpeningBalance
	txns    []model.Transaction
	calls   []string
	failAll error
}

func (g *memGateway) SaveOpeningBalance(_ context.Context, ob model.OpeningBalance) error {
	g.calls = append(g.calls, "SaveOpeningBalance")
	if g.failAll != nil {
		return g.failAll
	}
	g.opening = &ob
	return nil
}

func (g *memGateway) LoadOpeningBalance(context.Context) *model.OpeningBalance {
	g.calls = append(g.calls, "LoadOpeningBalance")
	if g.opening == nil {
		return nil
	}
	ob := *g.opening
	return &ob
}

func (g *memGateway) SaveTransactions(_ context.Context, txns []model.Transaction) error {
	g.calls = append(g.calls, "SaveTransactions")
	if g.failAll != nil {
		return g.failAll
	}
	g.txns = append([]model.Transaction(nil), txns...)
	return nil
}

func (g *memGateway) LoadTransactions(context.Context) []model.Transaction {
	g.calls = append(g.calls, "LoadTransactions")
	return append([]model.Transaction{}, g.txns...)
}

func (g *memGateway) ClearOpeningBalance(context.Context) error {
	g.calls = append(g.calls, "ClearOpeningBalance")
	if g.failAll != nil {
		return g.failAll
	}
	g.opening = nil
	return nil
}

func (g *memGateway) ClearTransactions(context.Context) error {
	g.calls = append(g.calls, "ClearTransactions")
	if g.failAll != nil {
		return g.failAll
	}
	g.txns = nil
	return nil
}

var clockStart = time.Date(2025, 3, 1, 9, 30, 15, 0, time.UTC)

// stepClock advances one second per reading.
func stepClock() func() time.Time {
	now := clockStart
	return func() time.Time {
		t := now
		now = now.Add(time.Second)
		return t
	}
}

func newTestService(gw *memGateway) *Service {
	return Open(context.Background(), gw, Options{Now: stepClock()})
}

func withBalance(t *testing.T, gw *memGateway, cash, online string) *Service {
	t.Helper()
	svc := newTestService(gw)
	_, err := svc.SetOpeningBalance(context.Background(), cash, online)
	require.NoError(t, err)
	gw.calls = nil
	return svc
}

func TestSetOpeningBalance(t *testing.T) {
	tests := []struct {
		cash, online         string
		wantCash, wantOnline string
	}{
		{"1000", "500", "1000", "500"},
		{"", "250", "0", "250"},
		{"75.5", "abc", "75.5", "0"},
		{" 10 ", "  ", "10", "0"},
		{"-50", "100", "-50", "100"},
		{"50", "-1", "50", "-1"},
	}
	for _, tt := range tests {
		gw := &memGateway{}
		svc := newTestService(gw)
		ob, err := svc.SetOpeningBalance(context.Background(), tt.cash, tt.online)
		require.NoError(t, err, "cash=%q online=%q", tt.cash, tt.online)
		assertDec(t, tt.wantCash, ob.Cash)
		assertDec(t, tt.wantOnline, ob.Online)

		assert.Equal(t, StateBalanceSet, svc.State())
		require.NotNil(t, gw.opening, "opening balance must be persisted")
		assert.True(t, gw.opening.Cash.Equal(ob.Cash))

		b := svc.Balances()
		assert.True(t, b.Cash.Equal(ob.Cash))
		assert.True(t, b.Online.Equal(ob.Online))
		assert.True(t, b.Total.Equal(ob.Total()))
	}
}

func TestSetOpeningBalance_Rejected(t *testing.T) {
	tests := []struct {
		cash, online string
		wantErr      error
	}{
		{"", "", ErrOpeningBalanceRequired},
		{"0", "0", ErrOpeningBalanceRequired},
		{"abc", "xyz", ErrOpeningBalanceRequired},
		{"-10", "0", ErrOpeningBalanceRequired},
		{"-5", "-5", ErrOpeningBalanceRequired},
	}
	for _, tt := range tests {
		gw := &memGateway{}
		svc := newTestService(gw)
		gw.calls = nil

		_, err := svc.SetOpeningBalance(context.Background(), tt.cash, tt.online)
		require.Error(t, err, "cash=%q online=%q", tt.cash, tt.online)
		assert.ErrorIs(t, err, tt.wantErr)

		var verr *ValidationError
		assert.ErrorAs(t, err, &verr)
		assert.Equal(t, StateNoBalance, svc.State())
		assert.Empty(t, gw.calls, "no persistence call on validation failure")
	}
}

func TestSetOpeningBalance_AlreadySet(t *testing.T) {
	gw := &memGateway{}
	svc := withBalance(t, gw, "100", "0")

	_, err := svc.SetOpeningBalance(context.Background(), "5", "5")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrBalanceSet)
	var perr *PreconditionError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, StateBalanceSet, perr.State)

	ob, ok := svc.Opening()
	require.True(t, ok)
	assertDec(t, "100", ob.Cash)
	assert.Empty(t, gw.calls)
}

func TestAddTransaction(t *testing.T) {
	gw := &memGateway{}
	svc := withBalance(t, gw, "1000", "500")

	txn, err := svc.AddTransaction(context.Background(), "  Lunch  ", "100", "Cash", "DEBIT")
	require.NoError(t, err)
	assert.Equal(t, "Lunch", txn.Title)
	assertDec(t, "100", txn.Amount)
	assert.Equal(t, model.ModeCash, txn.Mode)
	assert.Equal(t, model.TypeDebit, txn.Type)
	assert.Equal(t, id.ID(clockStart.UnixMilli()), txn.ID)
	assert.Equal(t, "01/03/2025", txn.Date)
	assert.Equal(t, "09:30:15", txn.Time)

	assert.Equal(t, []string{"SaveTransactions"}, gw.calls)
	require.Len(t, gw.txns, 1)
	assert.Equal(t, txn, gw.txns[0])
	assert.True(t, svc.Durable())
}

func TestAddTransaction_DefaultsToCash(t *testing.T) {
	gw := &memGateway{}
	svc := withBalance(t, gw, "100", "100")

	online, err := svc.AddTransaction(context.Background(), "Card", "10", "online", "debit")
	require.NoError(t, err)
	assert.Equal(t, model.ModeOnline, online.Mode)

	next, err := svc.AddTransaction(context.Background(), "Tea", "2", "", "DEBIT")
	require.NoError(t, err)
	assert.Equal(t, model.ModeCash, next.Mode, "mode reverts to Cash for every new entry")
}

func TestAddTransaction_ValidationOrder(t *testing.T) {
	tests := []struct {
		name                        string
		title, amount, mode, txType string
		wantErr                     error
		wantField                   string
	}{
		{"empty title", "", "10", "Cash", "DEBIT", ErrMissingTitle, "title"},
		{"blank title beats blank amount", "   ", "", "Cash", "DEBIT", ErrMissingTitle, "title"},
		{"empty amount", "Food", "", "Cash", "DEBIT", ErrMissingAmount, "amount"},
		{"blank amount", "Food", "   ", "Cash", "DEBIT", ErrMissingAmount, "amount"},
		{"zero amount", "Food", "0", "Cash", "DEBIT", ErrInvalidAmount, "amount"},
		{"negative amount", "Food", "-5", "Cash", "DEBIT", ErrInvalidAmount, "amount"},
		{"not a number", "Food", "ten", "Cash", "DEBIT", ErrInvalidAmount, "amount"},
		{"unknown mode", "Food", "5", "Card", "DEBIT", ErrInvalidMode, "mode"},
		{"unknown type", "Food", "5", "Cash", "REFUND", ErrInvalidType, "type"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gw := &memGateway{}
			svc := withBalance(t, gw, "100", "0")

			_, err := svc.AddTransaction(context.Background(), tt.title, tt.amount, tt.mode, tt.txType)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)

			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.wantField, verr.Field)

			assert.Empty(t, svc.Ledger().Transactions)
			assert.Empty(t, gw.calls, "no persistence call on validation failure")
		})
	}
}

func TestAddTransaction_NoBalance(t *testing.T) {
	gw := &memGateway{}
	svc := newTestService(gw)
	gw.calls = nil

	_, err := svc.AddTransaction(context.Background(), "Lunch", "10", "Cash", "DEBIT")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNoBalance)
	var perr *PreconditionError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, StateNoBalance, perr.State)
	assert.Empty(t, gw.calls)
}

func TestAddTransaction_IDsStrictlyIncreaseOnFrozenClock(t *testing.T) {
	gw := &memGateway{}
	frozen := func() time.Time { return clockStart }
	svc := Open(context.Background(), gw, Options{Now: frozen})
	_, err := svc.SetOpeningBalance(context.Background(), "100", "0")
	require.NoError(t, err)

	var prev id.ID
	for i := 0; i < 10; i++ {
		txn, err := svc.AddTransaction(context.Background(), "tick", "1", "", "DEBIT")
		require.NoError(t, err)
		assert.Greater(t, txn.ID, prev)
		prev = txn.ID
	}
	assert.Empty(t, ValidateTransactions(svc.Ledger().Transactions))
}

func TestOpen_IDsContinueAfterStored(t *testing.T) {
	future := id.ID(clockStart.Add(time.Hour).UnixMilli())
	gw := &memGateway{
		opening: opening("100", "0"),
		txns:    []model.Transaction{txn(int64(future), "from the future", "1", model.ModeCash, model.TypeDebit)},
	}
	svc := newTestService(gw)

	next, err := svc.AddTransaction(context.Background(), "now", "1", "", "CREDIT")
	require.NoError(t, err)
	assert.Equal(t, future+1, next.ID)
}

func TestEndToEnd(t *testing.T) {
	gw := &memGateway{}
	svc := newTestService(gw)
	ctx := context.Background()

	_, err := svc.SetOpeningBalance(ctx, "1000", "500")
	require.NoError(t, err)
	_, err = svc.AddTransaction(ctx, "Lunch", "100", "Cash", "DEBIT")
	require.NoError(t, err)
	_, err = svc.AddTransaction(ctx, "Refund", "50", "Online", "CREDIT")
	require.NoError(t, err)

	b := svc.Balances()
	assertDec(t, "900", b.Cash)
	assertDec(t, "550", b.Online)
	assertDec(t, "1450", b.Total)

	running := svc.Running()
	require.Len(t, running, 2)
	assert.Equal(t, "Refund", running[0].Title)
	assertDec(t, "1450", running[0].Balance)
	assert.Equal(t, "Lunch", running[1].Title)
	assertDec(t, "1400", running[1].Balance)

	// Reload from the gateway and get the same views.
	reopened := newTestService(gw)
	assert.Equal(t, b, reopened.Balances())
	assert.Equal(t, running, reopened.Running())
}

func TestPersistenceFailure_KeepsMemoryState(t *testing.T) {
	gw := &memGateway{}
	svc := withBalance(t, gw, "100", "0")
	gw.failAll = errors.New("disk full")

	// The write fails but the engine still reports success: memory is the
	// truth for the rest of the session and storage is now behind.
	txn, err := svc.AddTransaction(context.Background(), "Lunch", "10", "", "DEBIT")
	require.NoError(t, err)
	assert.False(t, svc.Durable())
	require.Len(t, svc.Ledger().Transactions, 1)
	assert.Equal(t, txn.ID, svc.Ledger().Transactions[0].ID)
	assert.Empty(t, gw.txns, "storage did not receive the transaction")
	assertDec(t, "90", svc.Balances().Total)

	// The next successful save carries the whole list.
	gw.failAll = nil
	_, err = svc.AddTransaction(context.Background(), "Tea", "5", "", "DEBIT")
	require.NoError(t, err)
	assert.True(t, svc.Durable())
	assert.Len(t, gw.txns, 2)
}

func TestReset_TwoStep(t *testing.T) {
	gw := &memGateway{}
	svc := withBalance(t, gw, "100", "20")
	ctx := context.Background()
	_, err := svc.AddTransaction(ctx, "Lunch", "10", "", "DEBIT")
	require.NoError(t, err)
	gw.calls = nil

	plan := svc.BeginReset()
	require.NotNil(t, plan.Snapshot.Opening)
	assert.Len(t, plan.Snapshot.Transactions, 1)
	assert.Empty(t, gw.calls, "beginning a reset clears nothing")
	assert.Equal(t, StateBalanceSet, svc.State())

	require.NoError(t, plan.Confirm(ctx))
	assert.Equal(t, StateNoBalance, svc.State())
	assert.Empty(t, svc.Ledger().Transactions)
	assert.ElementsMatch(t, []string{"ClearTransactions", "ClearOpeningBalance"}, gw.calls)

	assert.Nil(t, gw.LoadOpeningBalance(ctx))
	assert.Empty(t, gw.LoadTransactions(ctx))

	// Snapshot survives the reset for export.
	assert.Len(t, plan.Snapshot.Transactions, 1)

	// Confirming twice is rejected.
	err = plan.Confirm(ctx)
	assert.ErrorIs(t, err, ErrStaleReset)
}

func TestReset_StalePlan(t *testing.T) {
	gw := &memGateway{}
	svc := withBalance(t, gw, "100", "0")
	ctx := context.Background()

	plan := svc.BeginReset()
	_, err := svc.AddTransaction(ctx, "Lunch", "10", "", "DEBIT")
	require.NoError(t, err)

	err = plan.Confirm(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrStaleReset)
	assert.Equal(t, StateBalanceSet, svc.State())
	assert.Len(t, gw.txns, 1)
}

func TestReset_ThenStartOver(t *testing.T) {
	gw := &memGateway{}
	svc := withBalance(t, gw, "100", "0")
	ctx := context.Background()
	require.NoError(t, svc.Reset(ctx))

	_, err := svc.AddTransaction(ctx, "Lunch", "10", "", "DEBIT")
	assert.ErrorIs(t, err, ErrNoBalance)

	_, err = svc.SetOpeningBalance(ctx, "", "300")
	require.NoError(t, err)
	assertDec(t, "300", svc.Balances().Total)
}

func TestReset_PersistenceFailure(t *testing.T) {
	gw := &memGateway{}
	svc := withBalance(t, gw, "100", "0")
	gw.failAll = errors.New("read-only")

	require.NoError(t, svc.Reset(context.Background()))
	assert.Equal(t, StateNoBalance, svc.State())
	assert.False(t, svc.Durable())
	assert.NotNil(t, gw.opening, "storage still holds the old balance")
}

func TestRestore(t *testing.T) {
	gw := &memGateway{}
	svc := newTestService(gw)
	ctx := context.Background()

	backup := Ledger{
		Opening: opening("1000", "500"),
		Transactions: []model.Transaction{
			txn(1000, "Lunch", "100", model.ModeCash, model.TypeDebit),
			txn(2000, "Refund", "50", model.ModeOnline, model.TypeCredit),
		},
	}
	require.NoError(t, svc.Restore(ctx, backup))
	assertDec(t, "1450", svc.Balances().Total)
	require.NotNil(t, gw.opening)
	assert.Len(t, gw.txns, 2)

	next, err := svc.AddTransaction(ctx, "Tea", "1", "", "DEBIT")
	require.NoError(t, err)
	assert.Greater(t, next.ID, id.ID(2000))
}

func TestRestore_NegativeComponent(t *testing.T) {
	svc := newTestService(&memGateway{})
	require.NoError(t, svc.Restore(context.Background(), Ledger{Opening: opening("-50", "100")}))
	assertDec(t, "50", svc.Balances().Total)
}

func TestRestore_Rejected(t *testing.T) {
	ctx := context.Background()

	gw := &memGateway{}
	svc := withBalance(t, gw, "10", "0")
	err := svc.Restore(ctx, Ledger{Opening: opening("1", "0")})
	assert.ErrorIs(t, err, ErrBalanceSet)

	empty := newTestService(&memGateway{})
	err = empty.Restore(ctx, Ledger{})
	assert.ErrorIs(t, err, ErrOpeningBalanceRequired)
	err = empty.Restore(ctx, Ledger{Opening: opening("0", "-3")})
	assert.ErrorIs(t, err, ErrOpeningBalanceRequired)

	bad := Ledger{
		Opening:      opening("10", "0"),
		Transactions: []model.Transaction{txn(1, "bad", "0", model.ModeCash, model.TypeDebit)},
	}
	err = empty.Restore(ctx, bad)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, err.Error(), "invariant 1")
	assert.Equal(t, StateNoBalance, empty.State())
}
