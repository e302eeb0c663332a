package catalog

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ID identifies an entity. Zero means "no reference".
type ID int64

// Quantity is a whole unit count.
type Quantity int64

// ParseID parses a decimal identity; blank input yields zero.
func ParseID(s string) (ID, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("catalog: invalid id %q", s)
	}
	return ID(n), nil
}

// String renders the identity for URLs and form values.
func (id ID) String() string {
	return strconv.FormatInt(int64(id), 10)
}

// UnmarshalJSON accepts numbers, numeric strings and null.
func (id *ID) UnmarshalJSON(data []byte) error {
	n, err := decodeInt(data)
	if err != nil {
		return fmt.Errorf("catalog: id: %w", err)
	}
	*id = ID(n)
	return nil
}

// UnmarshalJSON accepts numbers, numeric strings and null.
func (q *Quantity) UnmarshalJSON(data []byte) error {
	n, err := decodeInt(data)
	if err != nil {
		return fmt.Errorf("catalog: quantity: %w", err)
	}
	*q = Quantity(n)
	return nil
}

var (
	errFraction   = errors.New("not a whole number")
	errOutOfRange = errors.New("out of range")
)

// The backend echoes form values back as strings, so both encodings appear.
// Exponent forms such as 5e2 are accepted only when they name a whole int64.
func decodeInt(data []byte) (int64, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return 0, nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return 0, err
		}
		s = strings.TrimSpace(s)
		if s == "" {
			return 0, nil
		}
		data = []byte(s)
	}
	if n, err := strconv.ParseInt(string(data), 10, 64); err == nil {
		return n, nil
	}
	f, err := strconv.ParseFloat(string(data), 64)
	if err != nil {
		return 0, err
	}
	switch {
	case math.IsNaN(f) || math.IsInf(f, 0) || f >= math.MaxInt64 || f < math.MinInt64:
		return 0, fmt.Errorf("%s: %w", data, errOutOfRange)
	case f != math.Trunc(f):
		return 0, fmt.Errorf("%s: %w", data, errFraction)
	}
	return int64(f), nil
}
