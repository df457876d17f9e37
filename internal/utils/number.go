package utils

import (
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

var spaceStripper = strings.NewReplacer(" ", "", "\u00A0", "", "\u202F", "", "\u2009", "", "\t", "")

// cleanNumber drops grouping spaces and settles the decimal separator:
// "1 234,50" -> "1234.50", "1,234.50" -> "1234.50". Without a dot, a comma
// is a decimal mark only when one or two digits follow it; "12,500" could
// be twelve thousand or twelve and a half and is rejected.
func cleanNumber(s string) (string, bool) {
	s = spaceStripper.Replace(strings.TrimSpace(s))
	if s == "" {
		return "", false
	}
	if strings.Contains(s, ".") {
		return strings.ReplaceAll(s, ",", ""), true
	}
	i := strings.IndexByte(s, ',')
	if i < 0 {
		return s, true
	}
	frac := s[i+1:]
	if strings.Contains(frac, ",") || len(frac) == 0 || len(frac) > 2 {
		return "", false
	}
	return s[:i] + "." + frac, true
}

// ParseFloat parses spreadsheet numbers such as "1 234,50" or "240.0".
// Anything that is not a finite number after cleanup is rejected.
func ParseFloat(s string) (float64, bool) {
	s, ok := cleanNumber(s)
	if !ok {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// ParseInt accepts integral values, including "4.0" from spreadsheet exports.
func ParseInt(s string) (int, bool) {
	f, ok := ParseFloat(s)
	if !ok || f != float64(int(f)) {
		return 0, false
	}
	return int(f), true
}

// ParseDecimal parses a money or quantity value exactly.
func ParseDecimal(s string) (decimal.Decimal, bool) {
	s, ok := cleanNumber(s)
	if !ok {
		return decimal.Zero, false
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}

// ParseFlag reads Yes/No style cells.
func ParseFlag(s string) (value, ok bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "true", "yes", "y", "on", "certified":
		return true, true
	case "0", "false", "no", "n", "off", "not certified":
		return false, true
	default:
		return false, false
	}
}
