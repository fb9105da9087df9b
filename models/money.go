package models

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Naira is an amount in major currency units, as entered by donors.
type Naira int64

// Kobo is an amount in the gateway's minor unit (1/100 NGN).
type Kobo int64

var ErrInvalidAmount = errors.New("amount must be a positive whole number")

func (n Naira) Kobo() Kobo {
	return Kobo(n * 100)
}

func (n Naira) String() string {
	return strconv.FormatInt(int64(n), 10)
}

// Naira truncates any fractional part.
func (k Kobo) Naira() Naira {
	return Naira(k / 100)
}

func (k Kobo) String() string {
	return strconv.FormatInt(int64(k), 10)
}

// ParseNaira parses a donor-supplied amount. Only positive base-10 integers are accepted.
func ParseNaira(raw string) (Naira, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, fmt.Errorf("%w: amount is required", ErrInvalidAmount)
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidAmount, raw)
	}
	if v <= 0 {
		return 0, fmt.Errorf("%w: %d", ErrInvalidAmount, v)
	}
	// keep Kobo conversion from overflowing
	if v > (1<<63-1)/100 {
		return 0, fmt.Errorf("%w: %d is too large", ErrInvalidAmount, v)
	}
	return Naira(v), nil
}
