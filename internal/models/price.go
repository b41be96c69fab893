package models

import (
	"bytes"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Price is a fixed-point amount with two decimal places, stored as cents.
type Price int64

var ErrInvalidPrice = errors.New("invalid price")

// ParsePrice parses a decimal string such as "9.99", "10" or "-0.5". More
// than two fractional digits are rejected rather than rounded.
func ParsePrice(s string) (Price, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("%w: empty value", ErrInvalidPrice)
	}

	neg := false
	switch s[0] {
	case '-':
		neg = true
		s = s[1:]
	case '+':
		s = s[1:]
	}

	whole, frac, hasDot := strings.Cut(s, ".")
	if whole == "" && (!hasDot || frac == "") {
		return 0, fmt.Errorf("%w: %q", ErrInvalidPrice, s)
	}
	if len(frac) > 2 {
		return 0, fmt.Errorf("%w: more than two decimal places", ErrInvalidPrice)
	}

	var units int64
	if whole != "" {
		if !isDigits(whole) {
			return 0, fmt.Errorf("%w: %q", ErrInvalidPrice, s)
		}
		n, err := strconv.ParseInt(whole, 10, 64)
		if err != nil || n > (1<<62)/100 {
			return 0, fmt.Errorf("%w: out of range", ErrInvalidPrice)
		}
		units = n
	}

	var cents int64
	if frac != "" {
		if !isDigits(frac) {
			return 0, fmt.Errorf("%w: %q", ErrInvalidPrice, s)
		}
		for len(frac) < 2 {
			frac += "0"
		}
		cents, _ = strconv.ParseInt(frac, 10, 64)
	}

	total := units*100 + cents
	if neg {
		total = -total
	}
	return Price(total), nil
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func (p Price) Cents() int64 {
	return int64(p)
}

func (p Price) String() string {
	v := int64(p)
	sign := ""
	if v < 0 {
		sign = "-"
		v = -v
	}
	return fmt.Sprintf("%s%d.%02d", sign, v/100, v%100)
}

func (p Price) MarshalJSON() ([]byte, error) {
	return []byte(p.String()), nil
}

// UnmarshalJSON accepts both a JSON number and a quoted decimal string.
func (p *Price) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 1 && data[0] == '"' {
		unquoted, err := strconv.Unquote(string(data))
		if err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidPrice, err)
		}
		data = []byte(unquoted)
	}

	parsed, err := ParsePrice(string(data))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}
