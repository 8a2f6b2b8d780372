package domain

import (
	"math"
	"strconv"
	"strings"

	dErrors "together/pkg/domain-errors"
)

// GweiPerEther is the number of Amount units in one ether.
const GweiPerEther = 1_000_000_000

const etherDecimals = 9

// Amount is a non-negative value in gwei. It is rendered and parsed as a
// decimal ether string, e.g. "0.01".
type Amount uint64

// ParseEther parses a decimal ether string with at most nine fractional digits.
func ParseEther(s string) (Amount, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, dErrors.New(dErrors.CodeInvalidInput, "amount is required")
	}
	whole, frac, _ := strings.Cut(s, ".")
	if whole == "" {
		whole = "0"
	}
	if !isDigits(whole) || (frac != "" && !isDigits(frac)) {
		return 0, dErrors.New(dErrors.CodeInvalidInput, "amount must be a non-negative decimal")
	}
	if len(frac) > etherDecimals {
		return 0, dErrors.New(dErrors.CodeInvalidInput, "amount has more than 9 decimal places")
	}

	w, err := strconv.ParseUint(whole, 10, 64)
	if err != nil || w > math.MaxUint64/GweiPerEther {
		return 0, dErrors.New(dErrors.CodeInvalidInput, "amount out of range")
	}
	var f uint64
	if frac != "" {
		f, _ = strconv.ParseUint(frac+strings.Repeat("0", etherDecimals-len(frac)), 10, 64)
	}
	total := w * GweiPerEther
	if total > math.MaxUint64-f {
		return 0, dErrors.New(dErrors.CodeInvalidInput, "amount out of range")
	}
	return Amount(total + f), nil
}

// MustEther parses s and panics on failure. Intended for defaults and tests.
func MustEther(s string) Amount {
	a, err := ParseEther(s)
	if err != nil {
		panic(err)
	}
	return a
}

// String renders the amount in ether without trailing zeros.
func (a Amount) String() string {
	whole := uint64(a) / GweiPerEther
	frac := uint64(a) % GweiPerEther
	if frac == 0 {
		return strconv.FormatUint(whole, 10)
	}
	fs := strconv.FormatUint(frac, 10)
	fs = strings.Repeat("0", etherDecimals-len(fs)) + fs
	return strconv.FormatUint(whole, 10) + "." + strings.TrimRight(fs, "0")
}

// Add returns a+b, failing on overflow.
func (a Amount) Add(b Amount) (Amount, error) {
	if uint64(a) > math.MaxUint64-uint64(b) {
		return 0, dErrors.New(dErrors.CodeInvariantViolation, "amount overflow")
	}
	return a + b, nil
}

func (a Amount) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

func (a *Amount) UnmarshalText(text []byte) error {
	parsed, err := ParseEther(string(text))
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}

func isDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return s != ""
}
