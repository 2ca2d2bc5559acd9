package schema

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/cashbook-dev/cashbook/internal/model"
)

// BackupFormat tags backup documents written by this package.
const BackupFormat = "cashbook-backup"

// Backup is a full copy of a ledger in one document. Records holds the
// opening balance and transaction list records under their storage keys, in
// the same encoding the store uses.
type Backup struct {
	Format  string                     `json:"format"`
	Created time.Time                  `json:"created"`
	Records map[string]json.RawMessage `json:"records"`
}

// WriteBackup writes opening and txns as a backup document. A nil opening
// is left out.
func WriteBackup(w io.Writer, openingKey, txnsKey string, opening *model.OpeningBalance, txns []model.Transaction, created time.Time) error {
	b := Backup{
		Format:  BackupFormat,
		Created: created.UTC(),
		Records: make(map[string]json.RawMessage, 2),
	}
	if opening != nil {
		raw, err := EncodeOpeningBalance(*opening)
		if err != nil {
			return err
		}
		b.Records[openingKey] = raw
	}
	raw, err := EncodeTransactions(txns)
	if err != nil {
		return err
	}
	b.Records[txnsKey] = raw

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(&b); err != nil {
		return fmt.Errorf("writing backup: %w", err)
	}
	return nil
}

// ReadBackup reads a backup document. It also accepts a flat key-value dump
// of the two records, where each value may be the record itself or the
// record serialised into a JSON string.
func ReadBackup(r io.Reader, openingKey, txnsKey string) (*model.OpeningBalance, []model.Transaction, error) {
	var top map[string]json.RawMessage
	if err := json.NewDecoder(r).Decode(&top); err != nil {
		return nil, nil, fmt.Errorf("reading backup: %w", err)
	}

	records := top
	if format, ok := top["format"]; ok {
		var b Backup
		if err := json.Unmarshal(format, &b.Format); err != nil || b.Format != BackupFormat {
			return nil, nil, fmt.Errorf("reading backup: unknown format %s", format)
		}
		if err := json.Unmarshal(top["records"], &b.Records); err != nil {
			return nil, nil, fmt.Errorf("reading backup records: %w", err)
		}
		records = b.Records
	}

	rawOpening, ok := records[openingKey]
	if !ok {
		return nil, nil, fmt.Errorf("backup has no %s record", openingKey)
	}
	opening, err := DecodeOpeningBalance(unquoteRecord(rawOpening))
	if err != nil {
		return nil, nil, fmt.Errorf("backup %s: %w", openingKey, err)
	}

	txns := []model.Transaction{}
	if rawTxns, ok := records[txnsKey]; ok {
		txns, err = DecodeTransactions(unquoteRecord(rawTxns))
		if err != nil {
			return nil, nil, fmt.Errorf("backup %s: %w", txnsKey, err)
		}
	}
	return opening, txns, nil
}

// unquoteRecord unwraps a record stored as a JSON string.
func unquoteRecord(raw json.RawMessage) []byte {
	var s string
	if len(raw) > 0 && raw[0] == '"' && json.Unmarshal(raw, &s) == nil {
		return []byte(s)
	}
	return raw
}
