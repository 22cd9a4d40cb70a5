package utils

import (
	"math/big"
	"strings"
)

// FormatUnits converts a raw integer amount to a decimal display string using
// the given number of fractional digits.
// Example: amount=1234500000000000000, decimals=18 => "1.2345"
// The fractional part is computed with integer division and modulo, zero-padded
// to the full decimal width and then stripped of trailing zeros. The result
// never ends with a dangling decimal point.
func FormatUnits(amount *big.Int, decimals uint8) string {
	if amount == nil || amount.Sign() == 0 {
		return "0"
	}
	if decimals == 0 {
		return amount.String()
	}

	abs := new(big.Int).Abs(amount)
	base := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(decimals)), nil)
	whole, frac := new(big.Int).QuoRem(abs, base, new(big.Int))

	out := whole.String()
	if amount.Sign() < 0 {
		out = "-" + out
	}

	fracStr := frac.String()
	if pad := int(decimals) - len(fracStr); pad > 0 {
		fracStr = strings.Repeat("0", pad) + fracStr
	}
	fracStr = strings.TrimRight(fracStr, "0")
	if fracStr == "" {
		return out
	}
	return out + "." + fracStr
}
