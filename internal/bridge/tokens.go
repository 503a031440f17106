package bridge

import (
	"errors"
	"fmt"
	"math/big"
	"regexp"
	"strings"
)

// Token is the metadata needed to convert a display amount.
type Token struct {
	Symbol   string
	Name     string
	Decimals int
}

// Tokens lists the bridgeable assets by symbol.
var Tokens = map[string]Token{
	"ETH":  {Symbol: "ETH", Name: "Ethereum", Decimals: 18},
	"USDC": {Symbol: "USDC", Name: "USD Coin", Decimals: 6},
	"USDT": {Symbol: "USDT", Name: "Tether USD", Decimals: 6},
}

var (
	// ErrInvalidAmount indicates an amount that is not a positive decimal.
	ErrInvalidAmount = errors.New("invalid amount")
	// ErrTooPrecise indicates more fractional digits than the token supports.
	ErrTooPrecise = errors.New("amount has more decimal places than the token supports")
	// ErrUnsupportedToken indicates a symbol missing from Tokens.
	ErrUnsupportedToken = errors.New("token not supported")
)

var decimalPattern = regexp.MustCompile(`^\d*\.?\d+$`)

// LookupToken returns the metadata for symbol.
func LookupToken(symbol string) (Token, error) {
	tok, ok := Tokens[strings.ToUpper(strings.TrimSpace(symbol))]
	if !ok {
		return Token{}, &UnsupportedTokenError{Symbol: symbol}
	}
	return tok, nil
}

// UnsupportedTokenError names the symbol LookupToken could not resolve. It
// matches ErrUnsupportedToken with errors.Is.
type UnsupportedTokenError struct {
	Symbol string
}

func (e *UnsupportedTokenError) Error() string {
	return fmt.Sprintf("Token %s not supported", e.Symbol)
}

func (e *UnsupportedTokenError) Is(target error) bool {
	return target == ErrUnsupportedToken
}

// ValidAmount reports whether s is a positive decimal number.
func ValidAmount(s string) bool {
	s = strings.TrimSpace(s)
	if !decimalPattern.MatchString(s) {
		return false
	}
	return strings.Trim(s, "0.") != ""
}

// ParseAmount converts a decimal display amount into base units.
func ParseAmount(s string, decimals int) (*big.Int, error) {
	s = strings.TrimSpace(s)
	if !ValidAmount(s) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}
	whole, frac, _ := strings.Cut(s, ".")
	if len(frac) > decimals {
		return nil, fmt.Errorf("%w: %q allows %d", ErrTooPrecise, s, decimals)
	}
	digits := whole + frac + strings.Repeat("0", decimals-len(frac))
	v, ok := new(big.Int).SetString(digits, 10)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}
	return v, nil
}

// FormatAmount renders base units as a decimal string without trailing zeros.
func FormatAmount(v *big.Int, decimals int) string {
	if v == nil {
		return "0"
	}
	digits := new(big.Int).Abs(v).String()
	if decimals > 0 {
		if len(digits) <= decimals {
			digits = strings.Repeat("0", decimals-len(digits)+1) + digits
		}
		cut := len(digits) - decimals
		whole, frac := digits[:cut], strings.TrimRight(digits[cut:], "0")
		digits = whole
		if frac != "" {
			digits += "." + frac
		}
	}
	if v.Sign() < 0 {
		return "-" + digits
	}
	return digits
}
