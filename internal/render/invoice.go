// Package render turns builder state into the invoice preview: a view model
// of preformatted strings and the HTML document used for display and export.
package render

import (
	"github.com/andy/faktur/internal/domain"
	"github.com/andy/faktur/internal/locale"
)

// Party is the company or client block of the invoice.
type Party struct {
	Name    string
	Address string
	Phone   string
	Email   string
}

// Row is one line of the items table.
type Row struct {
	Description string
	Quantity    string
	UnitPrice   string
	Total       string
}

// Invoice is the fully formatted preview. Every string is ready for display.
type Invoice struct {
	Empty       bool
	Number      string
	InvoiceDate string
	DueDate     string
	Company     Party
	Client      Party
	Rows        []Row
	Subtotal    string
	TaxRate     string
	Tax         string
	Total       string
	Notes       string
}

// Payment instructions are fixed text.
const (
	PaymentHeading = "Detail Pembayaran:"
	PaymentLine    = "Transfer ke rekening:"
	PaymentBank    = "Bank XXX"
)

// Placeholder texts.
const (
	EmptyPreviewTitle = "Preview Faktur"
	EmptyPreviewBody  = "Tambahkan item untuk melihat preview faktur"
	ThankYou          = "Terima kasih atas kepercayaan Anda!"
)

// Build formats the preview for the given state.
func Build(number string, header domain.Header, items []*domain.LineItem, totals domain.Totals) Invoice {
	inv := Invoice{
		Empty:       len(items) == 0,
		Number:      number,
		InvoiceDate: locale.FormatDate(header.InvoiceDate),
		DueDate:     locale.FormatDate(header.DueDate),
		Company: Party{
			Name:    header.CompanyName,
			Address: header.CompanyAddress,
			Phone:   header.CompanyPhone,
			Email:   header.CompanyEmail,
		},
		Client: Party{
			Name:    header.ClientName,
			Address: header.ClientAddress,
			Phone:   header.ClientPhone,
			Email:   header.ClientEmail,
		},
		Subtotal: locale.FormatCurrency(totals.Subtotal),
		TaxRate:  locale.FormatNumber(totals.TaxRate),
		Tax:      locale.FormatCurrency(totals.Tax),
		Total:    locale.FormatCurrency(totals.Total),
		Notes:    header.Notes,
	}

	inv.Rows = make([]Row, 0, len(items))
	for _, item := range items {
		desc := item.Description
		if desc == "" {
			desc = "-"
		}
		inv.Rows = append(inv.Rows, Row{
			Description: desc,
			Quantity:    locale.FormatNumber(item.Quantity),
			UnitPrice:   locale.FormatCurrency(item.UnitPrice),
			Total:       locale.FormatCurrency(item.Total()),
		})
	}

	return inv
}
