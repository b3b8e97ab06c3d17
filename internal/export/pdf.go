package export

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/draw"
	"image/jpeg"
	_ "image/png"
	"strings"

	"github.com/andy/faktur/internal/render"
	"github.com/jung-kurt/gofpdf"
)

func newPDF(opts Options) *gofpdf.Fpdf {
	unit := opts.Unit
	if unit == "" {
		unit = "mm"
	}
	format := opts.Format
	if format == "" {
		format = "A4"
	}
	pdf := gofpdf.New(opts.orientationCode(), unit, format, "")
	pdf.SetMargins(opts.Margin, opts.Margin, opts.Margin)
	return pdf
}

func output(pdf *gofpdf.Fpdf) ([]byte, error) {
	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("write pdf: %w", err)
	}
	return buf.Bytes(), nil
}

// layoutRaster places a captured page image on as many PDF pages as needed,
// slicing it at page boundaries inside the margins.
func layoutRaster(raw []byte, opts Options) ([]byte, error) {
	src, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("decode capture: %w", err)
	}

	pdf := newPDF(opts)
	pdf.SetAutoPageBreak(false, 0)
	pageW, pageH := pdf.GetPageSize()
	contentW := pageW - 2*opts.Margin
	contentH := pageH - 2*opts.Margin
	if contentW <= 0 || contentH <= 0 {
		return nil, fmt.Errorf("margin %.1f leaves no printable area", opts.Margin)
	}

	bounds := src.Bounds()
	pxPerUnit := float64(bounds.Dx()) / contentW
	slicePx := int(contentH * pxPerUnit)
	if slicePx < 1 {
		slicePx = 1
	}

	quality := opts.jpegQuality()
	for page, top := 0, bounds.Min.Y; top < bounds.Max.Y; page, top = page+1, top+slicePx {
		bottom := top + slicePx
		if bottom > bounds.Max.Y {
			bottom = bounds.Max.Y
		}
		slice := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bottom-top))
		draw.Draw(slice, slice.Bounds(), src, image.Pt(bounds.Min.X, top), draw.Src)

		var enc bytes.Buffer
		if err := jpeg.Encode(&enc, slice, &jpeg.Options{Quality: quality}); err != nil {
			return nil, fmt.Errorf("encode page %d: %w", page+1, err)
		}

		name := fmt.Sprintf("page-%d", page)
		imgOpts := gofpdf.ImageOptions{ImageType: "JPG"}
		pdf.RegisterImageOptionsReader(name, imgOpts, &enc)
		pdf.AddPage()
		pdf.ImageOptions(name, opts.Margin, opts.Margin, contentW, float64(bottom-top)/pxPerUnit, false, imgOpts, 0, "")
	}

	return output(pdf)
}

// NativeRenderer draws the invoice with PDF primitives. It needs no browser
// and ignores the raster settings.
type NativeRenderer struct{}

func (NativeRenderer) Render(ctx context.Context, doc Document, opts Options) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if doc.Invoice.Empty {
		return nil, ErrEmptyDocument
	}

	inv := doc.Invoice
	pdf := newPDF(opts)
	pdf.SetAutoPageBreak(true, opts.Margin)
	pdf.SetTitle("Faktur "+inv.Number, true)
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()

	pageW, _ := pdf.GetPageSize()
	contentW := pageW - 2*opts.Margin
	half := contentW / 2

	// Header: company on the left, invoice meta on the right.
	top := pdf.GetY()
	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(half, 8, tr(inv.Company.Name), "", 2, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	writeParty(pdf, tr, half, inv.Company)
	leftBottom := pdf.GetY()

	pdf.SetXY(opts.Margin+half, top)
	pdf.SetFont("Helvetica", "B", 20)
	pdf.CellFormat(half, 10, "FAKTUR", "", 2, "R", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(half, 5, tr("No: "+inv.Number), "", 2, "R", false, 0, "")
	if inv.InvoiceDate != "" {
		pdf.CellFormat(half, 5, tr("Tanggal: "+inv.InvoiceDate), "", 2, "R", false, 0, "")
	}
	if inv.DueDate != "" {
		pdf.CellFormat(half, 5, tr("Jatuh Tempo: "+inv.DueDate), "", 2, "R", false, 0, "")
	}
	pdf.SetXY(opts.Margin, max(leftBottom, pdf.GetY())+4)
	pdf.Line(opts.Margin, pdf.GetY(), opts.Margin+contentW, pdf.GetY())
	pdf.Ln(6)

	// Client and payment blocks.
	top = pdf.GetY()
	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(half, 6, "Tagihan Kepada:", "", 2, "L", false, 0, "")
	pdf.CellFormat(half, 5, tr(inv.Client.Name), "", 2, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	writeParty(pdf, tr, half, inv.Client)
	leftBottom = pdf.GetY()

	pdf.SetXY(opts.Margin+half, top)
	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(half, 6, tr(render.PaymentHeading), "", 2, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(half, 5, tr(render.PaymentLine), "", 2, "L", false, 0, "")
	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(half, 5, tr(render.PaymentBank), "", 2, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(half, 5, tr("A.n. "+inv.Company.Name), "", 2, "L", false, 0, "")
	pdf.SetXY(opts.Margin, max(leftBottom, pdf.GetY())+6)

	// Items table.
	cols := []float64{contentW * 0.43, contentW * 0.12, contentW * 0.22, contentW * 0.23}
	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetFillColor(243, 244, 246)
	for i, h := range []string{"Deskripsi", "Jumlah", "Harga Satuan", "Total"} {
		align := "R"
		if i == 0 {
			align = "L"
		}
		pdf.CellFormat(cols[i], 8, h, "B", 0, align, true, 0, "")
	}
	pdf.Ln(-1)
	pdf.SetFont("Helvetica", "", 10)
	for _, row := range inv.Rows {
		pdf.CellFormat(cols[0], 7, tr(row.Description), "B", 0, "L", false, 0, "")
		pdf.CellFormat(cols[1], 7, row.Quantity, "B", 0, "R", false, 0, "")
		pdf.CellFormat(cols[2], 7, row.UnitPrice, "B", 0, "R", false, 0, "")
		pdf.CellFormat(cols[3], 7, row.Total, "B", 1, "R", false, 0, "")
	}
	pdf.Ln(4)

	// Summary, right aligned.
	labelW, valueW := contentW*0.25, contentW*0.23
	summaryX := opts.Margin + contentW - labelW - valueW
	summary := [][2]string{
		{"Subtotal:", inv.Subtotal},
		{"Pajak (" + inv.TaxRate + "%):", inv.Tax},
		{"Total:", inv.Total},
	}
	for i, line := range summary {
		border := ""
		if i == len(summary)-1 {
			pdf.SetFont("Helvetica", "B", 11)
			border = "T"
		}
		pdf.SetX(summaryX)
		pdf.CellFormat(labelW, 7, tr(line[0]), border, 0, "L", false, 0, "")
		pdf.CellFormat(valueW, 7, line[1], border, 1, "R", false, 0, "")
	}

	pdf.SetFont("Helvetica", "", 10)
	if inv.Notes != "" {
		pdf.Ln(10)
		pdf.SetFont("Helvetica", "B", 10)
		pdf.CellFormat(contentW, 6, "Catatan:", "", 1, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 10)
		pdf.MultiCell(contentW, 5, tr(inv.Notes), "", "L", false)
		pdf.Ln(4)
	} else {
		pdf.Ln(14)
	}
	pdf.CellFormat(contentW, 6, tr(render.ThankYou), "", 1, "L", false, 0, "")

	if err := pdf.Error(); err != nil {
		return nil, fmt.Errorf("layout pdf: %w", err)
	}
	return output(pdf)
}

func writeParty(pdf *gofpdf.Fpdf, tr func(string) string, w float64, p render.Party) {
	x := pdf.GetX()
	if p.Address != "" {
		for _, line := range strings.Split(p.Address, "\n") {
			pdf.SetX(x)
			pdf.CellFormat(w, 5, tr(line), "", 2, "L", false, 0, "")
		}
	}
	if p.Phone != "" {
		pdf.SetX(x)
		pdf.CellFormat(w, 5, tr("Telp: "+p.Phone), "", 2, "L", false, 0, "")
	}
	if p.Email != "" {
		pdf.SetX(x)
		pdf.CellFormat(w, 5, tr("Email: "+p.Email), "", 2, "L", false, 0, "")
	}
}
