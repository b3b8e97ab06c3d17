package domain

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// Totals holds the derived amounts of an invoice. They are always recomputed
// from the current item list and tax rate, never stored.
type Totals struct {
	Subtotal decimal.Decimal
	TaxRate  decimal.Decimal
	Tax      decimal.Decimal
	Total    decimal.Decimal
}

// Subtotal sums the line totals of items.
func Subtotal(items []*LineItem) decimal.Decimal {
	sum := decimal.Zero
	for _, item := range items {
		sum = sum.Add(item.Total())
	}
	return sum
}

// Tax applies a percentage rate to subtotal.
func Tax(subtotal, ratePercent decimal.Decimal) decimal.Decimal {
	return subtotal.Mul(ratePercent).Div(hundred)
}

// GrandTotal returns subtotal plus tax.
func GrandTotal(subtotal, tax decimal.Decimal) decimal.Decimal {
	return subtotal.Add(tax)
}

// CalculateTotals derives every amount from items and ratePercent.
func CalculateTotals(items []*LineItem, ratePercent decimal.Decimal) Totals {
	subtotal := Subtotal(items)
	tax := Tax(subtotal, ratePercent)
	return Totals{
		Subtotal: subtotal,
		TaxRate:  ratePercent,
		Tax:      tax,
		Total:    GrandTotal(subtotal, tax),
	}
}

// NumberGenerator produces invoice numbers of the form PREFIX-YYYYMM-NNNN.
// The suffix is random, so numbers are only unique enough for a single
// local session.
type NumberGenerator struct {
	Prefix string
	Now    func() time.Time
	Rand   func(n int) int
}

// NewNumberGenerator returns a generator using the wall clock and a
// process-local random source.
func NewNumberGenerator(prefix string) *NumberGenerator {
	return &NumberGenerator{
		Prefix: prefix,
		Now:    time.Now,
		Rand:   rand.Intn,
	}
}

// Next returns a fresh invoice number.
func (g *NumberGenerator) Next() string {
	prefix := g.Prefix
	if prefix == "" {
		prefix = "INV"
	}
	now := g.Now()
	return fmt.Sprintf("%s-%04d%02d-%04d", prefix, now.Year(), int(now.Month()), g.Rand(10000))
}

// NextDistinct returns a number that differs from previous. It gives up
// after a bounded number of draws so a degenerate random source cannot hang
// the caller.
func (g *NumberGenerator) NextDistinct(previous string) string {
	n := g.Next()
	for i := 0; i < 32 && n == previous; i++ {
		n = g.Next()
	}
	return n
}
