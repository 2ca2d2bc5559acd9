package schema

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/cashbook-dev/cashbook/internal/model"
)

// Opening balance record versions.
//
//	1: a bare number, the cash amount (online was not tracked yet)
//	2: {"cash": ..., "online": ...}
const (
	OpeningV1     = 1
	OpeningV2     = 2
	OpeningLatest = OpeningV2
)

var openingMigrations = chain{
	OpeningV1: openingV1ToV2,
}

// openingRecord is the schema 2 data shape. Fields stay raw so a single bad
// field degrades to zero instead of failing the record.
type openingRecord struct {
	Cash   json.RawMessage `json:"cash"`
	Online json.RawMessage `json:"online"`
}

// EncodeOpeningBalance returns the current on-disk form of ob.
func EncodeOpeningBalance(ob model.OpeningBalance) ([]byte, error) {
	return seal(OpeningLatest, ob)
}

// DecodeOpeningBalance reads any supported opening balance record.
func DecodeOpeningBalance(raw []byte) (*model.OpeningBalance, error) {
	version, data, err := unseal(raw, classifyOpening)
	if err != nil {
		return nil, err
	}
	data, err = openingMigrations.upgrade(version, OpeningLatest, data)
	if err != nil {
		return nil, err
	}

	var rec openingRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("decoding opening balance: %w", err)
	}
	return &model.OpeningBalance{
		Cash:   numberOrZero(rec.Cash),
		Online: numberOrZero(rec.Online),
	}, nil
}

// MigrateOpeningBalance reads any supported opening balance record and never
// fails: missing or unreadable input yields nil, meaning no balance is set.
func MigrateOpeningBalance(raw []byte) *model.OpeningBalance {
	ob, err := DecodeOpeningBalance(raw)
	if err != nil {
		return nil
	}
	return ob
}

func classifyOpening(raw json.RawMessage) (int, error) {
	switch {
	case bytes.Equal(raw, []byte("null")):
		return 0, fmt.Errorf("opening balance is null")
	case raw[0] == '{':
		return OpeningV2, nil
	case raw[0] == '"':
		// Some stores hand back a JSON-encoded string of the record.
		return 0, fmt.Errorf("opening balance is a quoted string")
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err != nil {
		return 0, fmt.Errorf("unrecognised opening balance %s", truncate(raw))
	}
	return OpeningV1, nil
}

func openingV1ToV2(data json.RawMessage) (json.RawMessage, error) {
	var cash decimal.Decimal
	if err := json.Unmarshal(data, &cash); err != nil {
		return nil, fmt.Errorf("decoding schema 1 opening balance: %w", err)
	}
	return json.Marshal(model.OpeningBalance{Cash: cash, Online: decimal.Zero})
}

// numberOrZero accepts a JSON number or numeric string and maps anything
// else (missing, null, garbage) to zero.
func numberOrZero(raw json.RawMessage) decimal.Decimal {
	if len(raw) == 0 {
		return decimal.Zero
	}
	var d decimal.Decimal
	if err := json.Unmarshal(raw, &d); err != nil {
		return decimal.Zero
	}
	return d
}

func truncate(raw []byte) string {
	const limit = 32
	if len(raw) > limit {
		return string(raw[:limit]) + "..."
	}
	return string(raw)
}
