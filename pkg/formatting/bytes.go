// Package formatting converts byte sizes between counts and the
// human-readable strings used in config files and logs.
package formatting

import (
	"errors"
	"fmt"
	"math"
	"math/bits"
	"strconv"
	"strings"
	"unicode"
)

// ErrInvalidSize is returned for byte size strings that cannot be parsed
// or do not fit in an int64.
var ErrInvalidSize = errors.New("invalid byte size")

// Base-1024 units up to exabytes, the largest that fits an int64.
var units = [...]string{"B", "KB", "MB", "GB", "TB", "PB", "EB"}

// FormatBytes renders n with the largest unit that keeps the value at or
// above one, e.g. 1536 with precision 1 is "1.5 KB". Negative precision is
// treated as zero.
func FormatBytes(n int64, precision int) string {
	precision = max(precision, 0)

	sign := ""
	u := uint64(n)
	if n < 0 {
		sign = "-"
		u = uint64(-n)
	}

	exp := 0
	if u > 0 {
		exp = min((bits.Len64(u)-1)/10, len(units)-1)
	}
	if exp == 0 {
		return sign + strconv.FormatUint(u, 10) + " B"
	}

	value := float64(u) / float64(uint64(1)<<(10*exp))
	return sign + strconv.FormatFloat(value, 'f', precision, 64) + " " + units[exp]
}

// ParseBytes reads sizes like "50MB", "1.5 kb", "512" or "10MiB". A bare
// number is bytes. Units are base-1024 and case-insensitive, and the IEC
// spelling (KiB, MiB, ...) is accepted as an alias.
func ParseBytes(s string) (int64, error) {
	s = strings.TrimSpace(s)
	split := strings.IndexFunc(s, func(r rune) bool {
		return !unicode.IsDigit(r) && r != '.'
	})
	number, unit := s, ""
	if split >= 0 {
		number, unit = s[:split], strings.TrimSpace(s[split:])
	}
	if number == "" {
		return 0, fmt.Errorf("%w: %q", ErrInvalidSize, s)
	}

	value, err := strconv.ParseFloat(number, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidSize, s)
	}

	exp, ok := unitExponent(unit)
	if !ok {
		return 0, fmt.Errorf("%w: unknown unit %q", ErrInvalidSize, unit)
	}

	size := value * math.Pow(1024, float64(exp))
	if size >= math.MaxInt64 {
		return 0, fmt.Errorf("%w: %q overflows", ErrInvalidSize, s)
	}
	return int64(size), nil
}

func unitExponent(unit string) (int, bool) {
	unit = strings.ToUpper(unit)
	if unit == "" {
		return 0, true
	}
	if len(unit) == 3 && unit[1] == 'I' && unit[2] == 'B' {
		unit = unit[:1] + "B"
	}
	for i, u := range units {
		if u == unit {
			return i, true
		}
	}
	return 0, false
}
