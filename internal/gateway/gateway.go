// Package gateway persists the opening balance and the transaction list
// through a store.Store. It is the boundary where storage failures stop:
// they are logged and reported as *PersistenceError, and loads degrade to
// "nothing stored".
package gateway

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/cashbook-dev/cashbook/internal/model"
	"github.com/cashbook-dev/cashbook/internal/schema"
	"github.com/cashbook-dev/cashbook/internal/store"
)

// Record keys. They match the keys older versions of the app wrote, so
// existing data is picked up as is.
const (
	OpeningBalanceKey = "INITIAL_BALANCE"
	TransactionsKey   = "EXPENSES"
)

// PersistenceError reports a failed storage read or write. It is never fatal.
type PersistenceError struct {
	Op  string
	Key string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Key, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// Gateway reads and writes the two ledger records.
type Gateway struct {
	store store.Store
	log   *zap.Logger
}

// New returns a Gateway over s. A nil logger discards output.
func New(s store.Store, log *zap.Logger) *Gateway {
	if log == nil {
		log = zap.NewNop()
	}
	return &Gateway{store: s, log: log}
}

// SaveOpeningBalance overwrites the opening balance record.
func (g *Gateway) SaveOpeningBalance(ctx context.Context, ob model.OpeningBalance) error {
	data, err := schema.EncodeOpeningBalance(ob)
	if err != nil {
		return g.fail("save", OpeningBalanceKey, err)
	}
	if err := g.store.Put(ctx, OpeningBalanceKey, data); err != nil {
		return g.fail("save", OpeningBalanceKey, err)
	}
	return nil
}

// LoadOpeningBalance returns the stored opening balance, migrating older
// record shapes. It returns nil when nothing is stored or the record cannot
// be read; the stored bytes are left untouched until the next save.
func (g *Gateway) LoadOpeningBalance(ctx context.Context) *model.OpeningBalance {
	raw, ok := g.get(ctx, OpeningBalanceKey)
	if !ok {
		return nil
	}
	ob, err := schema.DecodeOpeningBalance(raw)
	if err != nil {
		g.fail("decode", OpeningBalanceKey, err)
		return nil
	}
	return ob
}

// SaveTransactions overwrites the whole transaction list.
func (g *Gateway) SaveTransactions(ctx context.Context, txns []model.Transaction) error {
	data, err := schema.EncodeTransactions(txns)
	if err != nil {
		return g.fail("save", TransactionsKey, err)
	}
	if err := g.store.Put(ctx, TransactionsKey, data); err != nil {
		return g.fail("save", TransactionsKey, err)
	}
	return nil
}

// LoadTransactions returns the stored list in storage order. It returns an
// empty slice, never nil, when nothing is stored or the record cannot be read.
func (g *Gateway) LoadTransactions(ctx context.Context) []model.Transaction {
	raw, ok := g.get(ctx, TransactionsKey)
	if !ok {
		return []model.Transaction{}
	}
	txns, err := schema.DecodeTransactions(raw)
	if err != nil {
		g.fail("decode", TransactionsKey, err)
		return []model.Transaction{}
	}
	return txns
}

// ClearOpeningBalance deletes the opening balance record.
func (g *Gateway) ClearOpeningBalance(ctx context.Context) error {
	if err := g.store.Delete(ctx, OpeningBalanceKey); err != nil {
		return g.fail("clear", OpeningBalanceKey, err)
	}
	return nil
}

// ClearTransactions deletes the transaction list record.
func (g *Gateway) ClearTransactions(ctx context.Context) error {
	if err := g.store.Delete(ctx, TransactionsKey); err != nil {
		return g.fail("clear", TransactionsKey, err)
	}
	return nil
}

// get reads key, logging anything other than a missing record.
func (g *Gateway) get(ctx context.Context, key string) ([]byte, bool) {
	raw, err := g.store.Get(ctx, key)
	if errors.Is(err, store.ErrNotFound) {
		g.log.Debug("no record stored", zap.String("key", key))
		return nil, false
	}
	if err != nil {
		g.fail("load", key, err)
		return nil, false
	}
	return raw, true
}

func (g *Gateway) fail(op, key string, err error) *PersistenceError {
	perr := &PersistenceError{Op: op, Key: key, Err: err}
	g.log.Warn("storage operation failed",
		zap.String("op", op),
		zap.String("key", key),
		zap.Error(err))
	return perr
}
