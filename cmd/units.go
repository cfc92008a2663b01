package cmd

import (
	"fmt"
	"math/big"
	"strings"
)

var rawAmounts bool

// parseUnits converts a decimal string like "1.5" to base units.
func parseUnits(s string, decimals uint8) (*big.Int, error) {
	s = strings.TrimSpace(s)
	if s == "" || strings.HasPrefix(s, "-") || strings.HasPrefix(s, "+") {
		return nil, fmt.Errorf("invalid amount %q", s)
	}
	whole, frac, hasDot := strings.Cut(s, ".")
	if hasDot && frac == "" && whole == "" {
		return nil, fmt.Errorf("invalid amount %q", s)
	}
	if len(frac) > int(decimals) {
		// Extra precision is only allowed when it is all zeros.
		if strings.Trim(frac[decimals:], "0") != "" {
			return nil, fmt.Errorf("amount %q has more than %d decimals", s, decimals)
		}
		frac = frac[:decimals]
	}
	digits := whole + frac + strings.Repeat("0", int(decimals)-len(frac))
	if digits == "" {
		digits = "0"
	}
	v, ok := new(big.Int).SetString(digits, 10)
	if !ok {
		return nil, fmt.Errorf("invalid amount %q", s)
	}
	return v, nil
}

// formatUnits renders base units as a decimal string without trailing zeros.
func formatUnits(v *big.Int, decimals uint8) string {
	if v == nil {
		return "0"
	}
	neg := v.Sign() < 0
	digits := new(big.Int).Abs(v).String()
	if decimals > 0 {
		if len(digits) <= int(decimals) {
			digits = strings.Repeat("0", int(decimals)-len(digits)+1) + digits
		}
		cut := len(digits) - int(decimals)
		whole, frac := digits[:cut], strings.TrimRight(digits[cut:], "0")
		digits = whole
		if frac != "" {
			digits += "." + frac
		}
	}
	if neg {
		return "-" + digits
	}
	return digits
}

// parseAmount honours --raw: raw amounts are base units.
func parseAmount(s string, decimals uint8) (*big.Int, error) {
	if rawAmounts {
		return parseUnits(s, 0)
	}
	return parseUnits(s, decimals)
}
