package domain

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func item(qty, price string) *LineItem {
	return &LineItem{
		Quantity:  decimal.RequireFromString(qty),
		UnitPrice: decimal.RequireFromString(price),
	}
}

func TestSubtotal(t *testing.T) {
	tests := []struct {
		name  string
		items []*LineItem
		want  string
	}{
		{"empty", nil, "0"},
		{"single", []*LineItem{item("2", "50000")}, "100000"},
		{"multi", []*LineItem{item("2", "50000"), item("1.5", "1000"), item("3", "0")}, "101500"},
		{"negative price", []*LineItem{item("1", "5000"), item("1", "-7000")}, "-2000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Subtotal(tt.items)
			if !got.Equal(decimal.RequireFromString(tt.want)) {
				t.Fatalf("expected subtotal %s, got %s", tt.want, got)
			}
		})
	}
}

func TestTax(t *testing.T) {
	sub := decimal.NewFromInt(100000)
	tests := []struct {
		rate string
		want string
	}{
		{"0", "0"},
		{"11", "11000"},
		{"100", "100000"},
		{"2.5", "2500"},
	}
	for _, tt := range tests {
		got := Tax(sub, decimal.RequireFromString(tt.rate))
		if !got.Equal(decimal.RequireFromString(tt.want)) {
			t.Fatalf("rate %s: expected tax %s, got %s", tt.rate, tt.want, got)
		}
	}
}

func TestCalculateTotals_WidgetExample(t *testing.T) {
	items := []*LineItem{item("2", "50000")}
	totals := CalculateTotals(items, decimal.NewFromInt(11))

	if !totals.Subtotal.Equal(decimal.NewFromInt(100000)) {
		t.Fatalf("expected subtotal 100000, got %s", totals.Subtotal)
	}
	if !totals.Tax.Equal(decimal.NewFromInt(11000)) {
		t.Fatalf("expected tax 11000, got %s", totals.Tax)
	}
	if !totals.Total.Equal(decimal.NewFromInt(111000)) {
		t.Fatalf("expected total 111000, got %s", totals.Total)
	}
}

func TestCalculateTotals_EmptyIsZero(t *testing.T) {
	totals := CalculateTotals(nil, decimal.NewFromInt(11))
	if !totals.Total.IsZero() || !totals.Tax.IsZero() || !totals.Subtotal.IsZero() {
		t.Fatalf("expected all zero totals, got %+v", totals)
	}
}

func TestNumberGenerator(t *testing.T) {
	draws := []int{42, 42, 7}
	g := &NumberGenerator{
		Prefix: "INV",
		Now:    func() time.Time { return time.Date(2026, time.March, 5, 0, 0, 0, 0, time.UTC) },
		Rand: func(n int) int {
			v := draws[0]
			draws = draws[1:]
			return v
		},
	}

	first := g.Next()
	if first != "INV-202603-0042" {
		t.Fatalf("unexpected number %q", first)
	}

	// The second draw repeats 42 and must be skipped.
	second := g.NextDistinct(first)
	if second != "INV-202603-0007" {
		t.Fatalf("expected distinct number, got %q", second)
	}
}

func TestNumberGenerator_DefaultPrefix(t *testing.T) {
	g := NewNumberGenerator("")
	g.Now = func() time.Time { return time.Date(2026, time.December, 1, 0, 0, 0, 0, time.UTC) }
	g.Rand = func(int) int { return 1 }

	if got := g.Next(); got != "INV-202612-0001" {
		t.Fatalf("unexpected number %q", got)
	}
}
