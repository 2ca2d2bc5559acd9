package schema

import (
	"encoding/json"
	"fmt"

	"github.com/cashbook-dev/cashbook/internal/model"
)

// Transaction list record versions.
//
//	1: a JSON array of transactions; ids may be strings or numbers and
//	   amounts may be numbers or strings
const (
	TransactionsV1     = 1
	TransactionsLatest = TransactionsV1
)

// No upgrades yet; new versions register here.
var transactionMigrations = chain{}

// EncodeTransactions returns the current on-disk form of the list, in the
// order given.
func EncodeTransactions(txns []model.Transaction) ([]byte, error) {
	if txns == nil {
		txns = []model.Transaction{}
	}
	return seal(TransactionsLatest, txns)
}

// DecodeTransactions reads any supported transaction list record. The
// stored order is preserved.
func DecodeTransactions(raw []byte) ([]model.Transaction, error) {
	version, data, err := unseal(raw, classifyTransactions)
	if err != nil {
		return nil, err
	}
	data, err = transactionMigrations.upgrade(version, TransactionsLatest, data)
	if err != nil {
		return nil, err
	}

	var txns []model.Transaction
	if err := json.Unmarshal(data, &txns); err != nil {
		return nil, fmt.Errorf("decoding transactions: %w", err)
	}
	if txns == nil {
		txns = []model.Transaction{}
	}
	return txns, nil
}

func classifyTransactions(raw json.RawMessage) (int, error) {
	if raw[0] == '[' {
		return TransactionsV1, nil
	}
	return 0, fmt.Errorf("unrecognised transaction list %s", truncate(raw))
}
