package id

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ID identifies a transaction. It is the creation time in Unix milliseconds,
// bumped when needed so that IDs handed out by a Generator strictly increase.
// IDs also serve as the chronological sort key.
type ID int64

// String returns the decimal form, e.g. "1735689600000".
func (i ID) String() string {
	return strconv.FormatInt(int64(i), 10)
}

// Time returns the instant the ID was derived from.
func (i ID) Time() time.Time {
	return time.UnixMilli(int64(i))
}

// MarshalJSON encodes the ID as a JSON string, the shape older records use.
func (i ID) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Quote(i.String())), nil
}

// UnmarshalJSON accepts both "1735689600000" and 1735689600000.
func (i *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	s := string(data)
	if len(data) > 0 && data[0] == '"' {
		unq, err := strconv.Unquote(s)
		if err != nil {
			return fmt.Errorf("invalid id %s: %w", s, err)
		}
		s = unq
	}
	parsed, err := Parse(s)
	if err != nil {
		return err
	}
	*i = parsed
	return nil
}

// Parse parses a decimal ID like "1735689600000".
func Parse(s string) (ID, error) {
	s = strings.TrimSpace(s)
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid id %q: %w", s, err)
	}
	if n <= 0 {
		return 0, fmt.Errorf("invalid id %q: must be positive", s)
	}
	return ID(n), nil
}

// Generator hands out strictly increasing IDs derived from a clock.
// It is not safe for concurrent use; a ledger has a single writer.
type Generator struct {
	now  func() time.Time
	last ID
}

// NewGenerator returns a Generator reading the given clock.
// A nil clock means time.Now.
func NewGenerator(now func() time.Time) *Generator {
	if now == nil {
		now = time.Now
	}
	return &Generator{now: now}
}

// Observe raises the floor so that later IDs are greater than every id given.
func (g *Generator) Observe(ids ...ID) {
	for _, i := range ids {
		if i > g.last {
			g.last = i
		}
	}
}

// Next returns a fresh ID and the clock reading it was derived from.
// If the clock has not advanced past the previous ID (same tick, or the clock
// went backwards) the ID is bumped to previous+1.
func (g *Generator) Next() (ID, time.Time) {
	t := g.now()
	next := ID(t.UnixMilli())
	if next <= g.last {
		next = g.last + 1
	}
	g.last = next
	return next, t
}

// Last returns the most recent ID handed out or observed, 0 if none.
func (g *Generator) Last() ID {
	return g.last
}
