// Package locale formats money and dates for the single locale the invoice
// is rendered in (Indonesian, IDR).
package locale

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// CurrencySymbol is the narrow symbol of IDR.
const CurrencySymbol = "Rp"

// DateLayout is the layout of date field values.
const DateLayout = "2006-01-02"

var (
	printer = message.NewPrinter(language.Indonesian)

	maxInt64 = decimal.NewFromInt(math.MaxInt64)

	months = [...]string{
		"Januari", "Februari", "Maret", "April", "Mei", "Juni",
		"Juli", "Agustus", "September", "Oktober", "November", "Desember",
	}
)

// FormatCurrency renders amount as "Rp100.000": grouped thousands, no
// fraction digits, rounded half away from zero.
func FormatCurrency(amount decimal.Decimal) string {
	rounded := amount.Round(0)
	sign := ""
	if rounded.IsNegative() {
		sign = "-"
		rounded = rounded.Neg()
	}
	return sign + CurrencySymbol + groupDigits(rounded)
}

// groupDigits formats a non-negative integral amount with "." thousands
// separators. Amounts past int64 are grouped from their decimal string.
func groupDigits(whole decimal.Decimal) string {
	if whole.LessThanOrEqual(maxInt64) {
		return printer.Sprintf("%d", whole.IntPart())
	}
	digits := whole.String()
	var b strings.Builder
	for i, r := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(r)
	}
	return b.String()
}

// FormatNumber renders a plain quantity without trailing zeros.
func FormatNumber(n decimal.Decimal) string {
	return n.String()
}

// FormatDate renders a YYYY-MM-DD value as "15 Oktober 2026". Empty input
// yields "", anything unparseable is returned unchanged.
func FormatDate(value string) string {
	if value == "" {
		return ""
	}
	t, err := time.Parse(DateLayout, value)
	if err != nil {
		return value
	}
	return fmt.Sprintf("%d %s %d", t.Day(), months[t.Month()-1], t.Year())
}

// Today returns now as a date field value.
func Today(now time.Time) string {
	return now.Format(DateLayout)
}
