// Package builder holds the invoice builder's state and the operations the
// user triggers from the form: item editing, preview refresh, export, print
// and reset.
package builder

import (
	"errors"
	"slices"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/andy/faktur/internal/domain"
	"github.com/andy/faktur/internal/export"
	"github.com/andy/faktur/internal/locale"
	"github.com/andy/faktur/internal/render"
)

var ErrNoItems = errors.New("invoice has no line items")

// Config wires a Controller to its host and services.
type Config struct {
	Form     Form
	View     View
	Notifier Notifier

	// Publisher is optional.
	Publisher Publisher

	Renderer  export.Renderer
	Printer   export.Printer
	Options   export.Options
	OutputDir string

	Numbers *domain.NumberGenerator
	IDs     *snowflake.Node
	Logger  *zap.Logger
	Now     func() time.Time
}

// Controller owns the line items and the current invoice number. Every
// method must be called from the host's event goroutine; long running work
// is split into Prepare/Run/Finish so only Run leaves that goroutine.
type Controller struct {
	cfg    Config
	items  []*domain.LineItem
	number string
	busy   bool
}

// New returns a controller with an empty item list and a fresh invoice
// number. Call Init once the host form exists.
func New(cfg Config) (*Controller, error) {
	if cfg.Form == nil || cfg.View == nil || cfg.Notifier == nil {
		return nil, errors.New("builder: form, view and notifier are required")
	}
	if cfg.IDs == nil {
		node, err := snowflake.NewNode(1)
		if err != nil {
			return nil, err
		}
		cfg.IDs = node
	}
	if cfg.Numbers == nil {
		cfg.Numbers = domain.NewNumberGenerator("")
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.Renderer == nil {
		cfg.Renderer = export.NativeRenderer{}
	}
	if cfg.Printer == nil {
		cfg.Printer = export.NewSpoolPrinter(nil)
	}
	if cfg.Options == (export.Options{}) {
		cfg.Options = export.DefaultOptions()
	}

	return &Controller{
		cfg:    cfg,
		number: cfg.Numbers.Next(),
	}, nil
}

// Init fills the invoice date with today and renders both targets.
func (c *Controller) Init() {
	c.setDefaultDate()
	c.renderItems()
	c.RefreshPreview()
}

func (c *Controller) setDefaultDate() {
	c.cfg.Form.SetValue(domain.FieldInvoiceDate, locale.Today(c.cfg.Now()))
}

// InvoiceNumber returns the number shown on the form and the preview.
func (c *Controller) InvoiceNumber() string {
	return c.number
}

// Items returns copies of the current line items in display order.
func (c *Controller) Items() []*domain.LineItem {
	out := make([]*domain.LineItem, len(c.items))
	for i, item := range c.items {
		out[i] = item.Clone()
	}
	return out
}

// AddItem appends a blank line item and re-renders the editor and preview.
func (c *Controller) AddItem() snowflake.ID {
	item := domain.NewLineItem(c.cfg.IDs.Generate())
	c.items = append(c.items, item)
	c.renderItems()
	c.RefreshPreview()
	return item.ID
}

// RemoveItem drops the item with id, if any, and re-renders.
func (c *Controller) RemoveItem(id snowflake.ID) {
	c.items = slices.DeleteFunc(c.items, func(item *domain.LineItem) bool {
		return item.ID == id
	})
	c.renderItems()
	c.RefreshPreview()
}

// UpdateItem sets one field of the item with id. Quantity and price are
// coerced to numbers; an unknown id or field is ignored. Only the preview is
// re-rendered so the editor keeps its focus.
func (c *Controller) UpdateItem(id snowflake.ID, field domain.ItemField, value string) {
	i := slices.IndexFunc(c.items, func(item *domain.LineItem) bool {
		return item.ID == id
	})
	if i < 0 {
		return
	}
	if err := c.items[i].Set(field, value); err != nil {
		c.cfg.Logger.Debug("ignoring item update", zap.String("field", string(field)), zap.Error(err))
		return
	}
	c.RefreshPreview()
}

// ItemTotal returns quantity times unit price for item.
func (c *Controller) ItemTotal(item *domain.LineItem) decimal.Decimal {
	return item.Total()
}

// Subtotal sums the totals of all items.
func (c *Controller) Subtotal() decimal.Decimal {
	return domain.Subtotal(c.items)
}

// TaxRate reads the tax rate control. Missing or invalid input counts as 0.
func (c *Controller) TaxRate() decimal.Decimal {
	v, _ := c.cfg.Form.Value(domain.FieldTaxRate)
	return domain.ParseNumber(v)
}

// Tax applies the current tax rate to subtotal.
func (c *Controller) Tax(subtotal decimal.Decimal) decimal.Decimal {
	return domain.Tax(subtotal, c.TaxRate())
}

// Total adds subtotal and tax.
func (c *Controller) Total(subtotal, tax decimal.Decimal) decimal.Decimal {
	return domain.GrandTotal(subtotal, tax)
}

// Document snapshots the current invoice. The result shares nothing with
// the controller.
func (c *Controller) Document() (export.Document, error) {
	header := domain.ResolveHeader(c.cfg.Form.Value)
	totals := domain.CalculateTotals(c.items, c.TaxRate())
	inv := render.Build(c.number, header, c.items, totals)
	html, err := render.HTML(inv, render.HTMLOptions{})
	if err != nil {
		return export.Document{}, err
	}
	return export.Document{Number: c.number, HTML: html, Invoice: inv}, nil
}

// RefreshPreview regenerates the preview from the current state.
func (c *Controller) RefreshPreview() {
	doc, err := c.Document()
	if err != nil {
		c.cfg.Logger.Error("render preview", zap.Error(err))
		return
	}
	c.cfg.View.RenderPreview(doc)
	if c.cfg.Publisher != nil {
		c.cfg.Publisher.Publish(doc)
	}
}

func (c *Controller) renderItems() {
	rows := make([]ItemRow, len(c.items))
	for i, item := range c.items {
		rows[i] = ItemRow{
			ID:          int64(item.ID),
			Description: item.Description,
			Quantity:    locale.FormatNumber(item.Quantity),
			Price:       locale.FormatNumber(item.UnitPrice),
			Total:       locale.FormatCurrency(item.Total()),
		}
	}
	c.cfg.View.RenderItems(rows)
}

// ResetForm clears the form and the item list and draws a new invoice
// number. It does nothing unless confirmed is true, and reports whether the
// reset happened. Date fields keep their values, except the invoice date,
// which is set back to today.
func (c *Controller) ResetForm(confirmed bool) bool {
	if !confirmed {
		return false
	}
	for _, spec := range domain.HeaderFields {
		if spec.Kind == domain.KindDate {
			continue
		}
		c.cfg.Form.SetValue(spec.ID, "")
	}
	c.items = nil
	c.number = c.cfg.Numbers.NextDistinct(c.number)
	c.setDefaultDate()
	c.renderItems()
	c.RefreshPreview()
	c.cfg.Logger.Info("form reset", zap.String("invoice_number", c.number))
	return true
}
