package domain

import (
	"errors"
	"regexp"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
)

// ItemField names an editable column of a line item.
type ItemField string

const (
	ItemDescription ItemField = "description"
	ItemQuantity    ItemField = "quantity"
	ItemPrice       ItemField = "price"
)

var ErrUnknownItemField = errors.New("unknown line item field")

// ParseItemField maps a column name to an ItemField.
func ParseItemField(s string) (ItemField, error) {
	switch f := ItemField(strings.ToLower(strings.TrimSpace(s))); f {
	case ItemDescription, ItemQuantity, ItemPrice:
		return f, nil
	}
	return "", ErrUnknownItemField
}

// LineItem is one billable row of the invoice.
type LineItem struct {
	ID          snowflake.ID
	Description string
	Quantity    decimal.Decimal
	UnitPrice   decimal.Decimal
}

// NewLineItem returns an item with the defaults used by "add item":
// quantity 1, price 0, no description.
func NewLineItem(id snowflake.ID) *LineItem {
	return &LineItem{
		ID:        id,
		Quantity:  decimal.NewFromInt(1),
		UnitPrice: decimal.Zero,
	}
}

// Total is quantity times unit price. Negative inputs are not rejected.
func (li *LineItem) Total() decimal.Decimal {
	return li.Quantity.Mul(li.UnitPrice)
}

// Set stores value into field. Numeric fields go through ParseNumber and
// never fail; description is stored verbatim.
func (li *LineItem) Set(field ItemField, value string) error {
	switch field {
	case ItemDescription:
		li.Description = value
	case ItemQuantity:
		li.Quantity = ParseNumber(value)
	case ItemPrice:
		li.UnitPrice = ParseNumber(value)
	default:
		return ErrUnknownItemField
	}
	return nil
}

// Clone returns a copy that shares nothing with li.
func (li *LineItem) Clone() *LineItem {
	c := *li
	return &c
}

var numberPrefix = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?`)

// MaxExponent bounds the decimal exponent ParseNumber accepts. Values
// outside 1e-MaxExponent..1e+MaxExponent in scale parse as zero.
const MaxExponent = 30

// ParseNumber reads the longest numeric prefix of s, ignoring leading
// whitespace. Input without a numeric prefix, or with an exponent beyond
// MaxExponent, yields zero.
func ParseNumber(s string) decimal.Decimal {
	m := numberPrefix.FindString(strings.TrimLeft(s, " \t\r\n"))
	if m == "" {
		return decimal.Zero
	}
	sign := ""
	switch m[0] {
	case '-':
		sign, m = "-", m[1:]
	case '+':
		m = m[1:]
	}
	if strings.HasPrefix(m, ".") {
		m = "0" + m
	}
	m = strings.Replace(m, ".e", "e", 1)
	m = strings.Replace(m, ".E", "E", 1)
	d, err := decimal.NewFromString(sign + strings.TrimSuffix(m, "."))
	if err != nil {
		return decimal.Zero
	}
	if exp := d.Exponent(); exp > MaxExponent || exp < -MaxExponent {
		return decimal.Zero
	}
	return d
}
