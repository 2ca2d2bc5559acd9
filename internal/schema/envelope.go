// Package schema encodes the persisted ledger records and migrates older
// record shapes to the current one.
//
// Every record is written inside a versioned envelope:
//
//	{"schema": 2, "data": {"cash": "1000", "online": "500"}}
//
// Records written before envelopes existed are recognised by their shape and
// assigned a schema version, then run through the migration chain.
package schema

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// ErrEmpty is returned when a record holds no data at all.
var ErrEmpty = errors.New("empty record")

// envelope is the on-disk wrapper for every record.
type envelope struct {
	Schema int             `json:"schema"`
	Data   json.RawMessage `json:"data"`
}

// migration upgrades record data from one schema version to the next.
type migration func(json.RawMessage) (json.RawMessage, error)

// chain maps a version to the migration that upgrades it to version+1.
type chain map[int]migration

// seal wraps v in an envelope tagged with schema.
func seal(schema int, v any) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encoding schema %d record: %w", schema, err)
	}
	out, err := json.Marshal(envelope{Schema: schema, Data: data})
	if err != nil {
		return nil, fmt.Errorf("encoding envelope: %w", err)
	}
	return out, nil
}

// unseal returns the schema version and data of raw. Records without an
// envelope are passed to legacy, which must name their version.
func unseal(raw []byte, legacy func(json.RawMessage) (int, error)) (int, json.RawMessage, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return 0, nil, ErrEmpty
	}

	if raw[0] == '{' {
		var fields map[string]json.RawMessage
		if err := json.Unmarshal(raw, &fields); err != nil {
			return 0, nil, fmt.Errorf("decoding record: %w", err)
		}
		_, hasSchema := fields["schema"]
		_, hasData := fields["data"]
		if hasSchema && hasData {
			var env envelope
			if err := json.Unmarshal(raw, &env); err != nil {
				return 0, nil, fmt.Errorf("decoding envelope: %w", err)
			}
			if env.Schema <= 0 {
				return 0, nil, fmt.Errorf("invalid schema version %d", env.Schema)
			}
			return env.Schema, env.Data, nil
		}
	}

	v, err := legacy(json.RawMessage(raw))
	if err != nil {
		return 0, nil, err
	}
	return v, json.RawMessage(raw), nil
}

// upgrade runs data from version from up to version to.
func (c chain) upgrade(from, to int, data json.RawMessage) (json.RawMessage, error) {
	if from > to {
		return nil, fmt.Errorf("schema %d is newer than supported schema %d", from, to)
	}
	for v := from; v < to; v++ {
		m, ok := c[v]
		if !ok {
			return nil, fmt.Errorf("no migration from schema %d", v)
		}
		next, err := m(data)
		if err != nil {
			return nil, fmt.Errorf("migrating schema %d to %d: %w", v, v+1, err)
		}
		data = next
	}
	return data, nil
}
