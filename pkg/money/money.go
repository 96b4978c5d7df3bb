// Package money handles integer minor-unit amounts: locale formatting for display and
// lenient parsing of what cashiers type into amount fields.
//
// Amounts are always whole minor units. Parsing never rounds: every rune that is not a
// decimal digit is discarded, so "$ 50.000", "50,000" and "50000" all read as 50000 and a
// leading minus sign is ignored.
package money

import (
	"errors"
	"strconv"
	"strings"
	"unicode"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// DefaultLocale is used when a caller passes an empty or unparseable locale.
var DefaultLocale = language.MustParse("es-CO")

// ErrOverflow is returned by Parse when the digits do not fit in an int64.
var ErrOverflow = errors.New("money: amount out of range")

// MaxAmount is the largest amount accepted as input. Any few thousand of them still sum
// without overflowing an int64.
const MaxAmount int64 = 1_000_000_000_000_000

// Format renders amount with the thousands separator of the given locale.
func Format(amount int64, tag language.Tag) string {
	return message.NewPrinter(tag).Sprintf("%d", amount)
}

// FormatLocale is Format with a BCP 47 locale string, e.g. "es-CO" or "en-US".
func FormatLocale(amount int64, locale string) string {
	return Format(amount, ParseLocale(locale))
}

// ParseLocale parses a BCP 47 tag, falling back to DefaultLocale.
func ParseLocale(locale string) language.Tag {
	if locale == "" {
		return DefaultLocale
	}
	tag, err := language.Parse(locale)
	if err != nil {
		return DefaultLocale
	}
	return tag
}

// Parse reads an amount typed with any thousands formatting. Non-digit runes are stripped
// and the remaining digits are read as a whole number of minor units. An input without
// digits parses as zero.
func Parse(s string) (int64, error) {
	var b strings.Builder
	for _, r := range s {
		if r < unicode.MaxASCII && unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	digits := b.String()
	if digits == "" {
		return 0, nil
	}
	n, err := strconv.ParseInt(digits, 10, 64)
	if err != nil {
		return 0, ErrOverflow
	}
	return n, nil
}

// ApplyRate returns amount × rate rounded half away from zero to a whole unit.
func ApplyRate(amount int64, rate decimal.Decimal) int64 {
	return decimal.NewFromInt(amount).Mul(rate).Round(0).IntPart()
}

// Percent returns pct percent of amount, rounded like ApplyRate.
func Percent(amount int64, pct decimal.Decimal) int64 {
	return ApplyRate(amount, pct.Div(decimal.NewFromInt(100)))
}

// ClampZero floors negative amounts at zero.
func ClampZero(amount int64) int64 {
	if amount < 0 {
		return 0
	}
	return amount
}

// Add returns a+b, or false when the sum does not fit in an int64.
func Add(a, b int64) (int64, bool) {
	sum := a + b
	if (b > 0 && sum < a) || (b < 0 && sum > a) {
		return 0, false
	}
	return sum, true
}

// Min returns the smaller of two amounts.
func Min(a, b int64) int64 {
	if a < b {
		return a
	}
	return b
}
