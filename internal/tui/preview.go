package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/andy/faktur/internal/render"
)

// renderInvoice draws the preview as terminal text at the given width.
func renderInvoice(inv render.Invoice, width int) string {
	if width < 40 {
		width = 40
	}
	if inv.Empty {
		box := lipgloss.NewStyle().Width(width).Align(lipgloss.Center).Padding(2, 0)
		return box.Render(previewTitleStyle.Render(render.EmptyPreviewTitle) + "\n\n" +
			subtitleStyle.Render(render.EmptyPreviewBody))
	}

	half := width / 2

	company := []string{previewTitleStyle.Render(inv.Company.Name)}
	company = append(company, partyLines(inv.Company)...)

	meta := []string{invoiceTitleStyle.Render("FAKTUR"), "No: " + inv.Number}
	if inv.InvoiceDate != "" {
		meta = append(meta, "Tanggal: "+inv.InvoiceDate)
	}
	if inv.DueDate != "" {
		meta = append(meta, "Jatuh Tempo: "+inv.DueDate)
	}
	header := lipgloss.JoinHorizontal(lipgloss.Top,
		lipgloss.NewStyle().Width(half).Render(strings.Join(company, "\n")),
		lipgloss.NewStyle().Width(width-half).Align(lipgloss.Right).Render(strings.Join(meta, "\n")),
	)

	client := []string{labelStyle.Render("Tagihan Kepada:"), inv.Client.Name}
	client = append(client, partyLines(inv.Client)...)
	payment := []string{
		labelStyle.Render(render.PaymentHeading),
		render.PaymentLine,
		labelStyle.Render(render.PaymentBank),
		"A.n. " + inv.Company.Name,
	}
	parties := lipgloss.JoinHorizontal(lipgloss.Top,
		lipgloss.NewStyle().Width(half).Render(strings.Join(client, "\n")),
		lipgloss.NewStyle().Width(width-half).Render(strings.Join(payment, "\n")),
	)

	items := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(borderColor)).
		Headers("Deskripsi", "Jumlah", "Harga Satuan", "Total").
		Width(width).
		StyleFunc(func(row, col int) lipgloss.Style {
			s := lipgloss.NewStyle().Padding(0, 1)
			if row == table.HeaderRow {
				s = s.Bold(true)
			}
			if col > 0 {
				s = s.Align(lipgloss.Right)
			}
			return s
		})
	for _, r := range inv.Rows {
		items.Row(r.Description, r.Quantity, r.UnitPrice, r.Total)
	}

	summaryW := min(width, 40)
	line := func(label, value string, style lipgloss.Style) string {
		gap := max(summaryW-lipgloss.Width(label)-lipgloss.Width(value), 1)
		return style.Render(label + strings.Repeat(" ", gap) + value)
	}
	summary := strings.Join([]string{
		line("Subtotal:", inv.Subtotal, lipgloss.NewStyle()),
		line("Pajak ("+inv.TaxRate+"%):", inv.Tax, lipgloss.NewStyle()),
		line("Total:", inv.Total, totalStyle),
	}, "\n")
	summary = lipgloss.NewStyle().Width(width).Align(lipgloss.Right).Render(summary)

	sections := []string{header, divider(width), parties, items.Render(), summary}
	if inv.Notes != "" {
		sections = append(sections, labelStyle.Render("Catatan:")+"\n"+
			lipgloss.NewStyle().Width(width).Render(inv.Notes))
	}
	sections = append(sections, subtitleStyle.Render(render.ThankYou))
	return strings.Join(sections, "\n\n")
}

func partyLines(p render.Party) []string {
	var lines []string
	if p.Address != "" {
		lines = append(lines, strings.Split(p.Address, "\n")...)
	}
	if p.Phone != "" {
		lines = append(lines, "Telp: "+p.Phone)
	}
	if p.Email != "" {
		lines = append(lines, "Email: "+p.Email)
	}
	return lines
}

func divider(width int) string {
	return lipgloss.NewStyle().Foreground(borderColor).Render(strings.Repeat("─", width))
}
