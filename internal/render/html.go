package render

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
)

//go:embed templates/invoice.html.tmpl
var templateFS embed.FS

var invoiceTemplate = template.Must(template.ParseFS(templateFS, "templates/invoice.html.tmpl"))

// HTMLOptions tweaks the document for the context it is served in.
type HTMLOptions struct {
	// RefreshSeconds adds a meta refresh when positive.
	RefreshSeconds int
	// AutoPrint opens the browser print dialog once loaded.
	AutoPrint bool
}

type htmlData struct {
	Invoice        Invoice
	RefreshSeconds int
	AutoPrint      bool
	EmptyTitle     string
	EmptyBody      string
	PaymentHeading string
	PaymentLine    string
	PaymentBank    string
	ThankYou       string
}

// HTML renders inv as a standalone HTML document. Output is deterministic
// for a given inv and opts.
func HTML(inv Invoice, opts HTMLOptions) (string, error) {
	var buf bytes.Buffer
	err := invoiceTemplate.Execute(&buf, htmlData{
		Invoice:        inv,
		RefreshSeconds: opts.RefreshSeconds,
		AutoPrint:      opts.AutoPrint,
		EmptyTitle:     EmptyPreviewTitle,
		EmptyBody:      EmptyPreviewBody,
		PaymentHeading: PaymentHeading,
		PaymentLine:    PaymentLine,
		PaymentBank:    PaymentBank,
		ThankYou:       ThankYou,
	})
	if err != nil {
		return "", fmt.Errorf("render invoice html: %w", err)
	}
	return buf.String(), nil
}
