package tui

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/andy/faktur/internal/app"
	"github.com/andy/faktur/internal/builder"
	"github.com/andy/faktur/internal/config"
	"github.com/andy/faktur/internal/domain"
)

func newTestModel(t *testing.T) *Model {
	t.Helper()
	dir := t.TempDir()
	cfg := config.DefaultConfig()
	cfg.Invoice.OutputDir = filepath.Join(dir, "out")
	cfg.Log.Path = ""
	cfg.PDF.Engine = "native"
	cfg.Company.Name = "PT. Maju"

	a, err := app.NewWithConfig(cfg)
	if err != nil {
		t.Fatalf("new app: %v", err)
	}
	m, err := New(context.Background(), a)
	if err != nil {
		t.Fatalf("new model: %v", err)
	}
	m.Update(tea.WindowSizeMsg{Width: 160, Height: 50})
	return m
}

func keyMsg(k tea.KeyType) tea.KeyMsg {
	return tea.KeyMsg{Type: k}
}

func typeText(m *Model, s string) {
	for _, r := range s {
		m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
}

// drain runs cmd and any batched commands, returning the produced messages.
func drain(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, drain(c)...)
		}
		return out
	}
	return []tea.Msg{msg}
}

func TestNew_PrefillsFromConfig(t *testing.T) {
	m := newTestModel(t)

	if v, _ := m.form.Value(domain.FieldCompanyName); v != "PT. Maju" {
		t.Fatalf("expected company prefill, got %q", v)
	}
	if v, _ := m.form.Value(domain.FieldTaxRate); v != "11" {
		t.Fatalf("expected default tax rate, got %q", v)
	}
	if v, _ := m.form.Value(domain.FieldInvoiceDate); v == "" {
		t.Fatal("invoice date should default to today")
	}
	if !strings.Contains(m.View(), "faktur - INV-") {
		t.Fatal("header should show the invoice number")
	}
	if !strings.Contains(m.formView.View(), builder.EmptyItemsText) {
		t.Fatal("empty item placeholder should be shown")
	}
}

func TestAddEditRemoveItem(t *testing.T) {
	m := newTestModel(t)

	m.Update(keyMsg(tea.KeyCtrlN))
	if len(m.rows) != 1 {
		t.Fatalf("expected one row, got %d", len(m.rows))
	}
	if r, c, ok := m.focusedCell(); !ok || r != 0 || c != 0 {
		t.Fatal("new row description should be focused")
	}

	typeText(m, "Widget")
	m.Update(keyMsg(tea.KeyTab))
	m.rows[0].inputs[1].SetValue("")
	typeText(m, "2")
	m.Update(keyMsg(tea.KeyTab))
	typeText(m, "50000")

	items := m.ctrl.Items()
	if items[0].Description != "Widget" || items[0].Total().IntPart() != 100000 {
		t.Fatalf("unexpected item %+v", items[0])
	}
	if m.rows[0].total != "Rp100.000" {
		t.Fatalf("row total should follow edits, got %q", m.rows[0].total)
	}
	if m.lastDoc.Invoice.Total != "Rp111.000" {
		t.Fatalf("preview total should include 11%% tax, got %q", m.lastDoc.Invoice.Total)
	}

	m.Update(keyMsg(tea.KeyCtrlD))
	if len(m.rows) != 0 || len(m.ctrl.Items()) != 0 {
		t.Fatal("ctrl+d should remove the focused item")
	}
}

func TestHeaderEditRefreshesPreview(t *testing.T) {
	m := newTestModel(t)
	m.Update(keyMsg(tea.KeyCtrlN))

	// Client name is the fifth header field.
	m.setFocus(4)
	typeText(m, "ACME")
	if m.lastDoc.Invoice.Client.Name != "ACME" {
		t.Fatalf("preview should follow header edits, got %q", m.lastDoc.Invoice.Client.Name)
	}
	if !strings.Contains(m.preview.View(), "ACME") {
		t.Fatal("terminal preview should show the client")
	}
}

func TestDownloadWithoutItemsShowsNotice(t *testing.T) {
	m := newTestModel(t)

	_, cmd := m.Update(keyMsg(tea.KeyCtrlS))
	if cmd != nil {
		t.Fatal("no export should start")
	}
	if len(m.notices) != 1 || m.notices[0] != builder.NoticeEmptyPDF {
		t.Fatalf("expected exactly one notice, got %v", m.notices)
	}
	if !strings.Contains(m.View(), builder.NoticeEmptyPDF) {
		t.Fatal("notice should be shown as a modal")
	}

	m.Update(keyMsg(tea.KeyEnter))
	if len(m.notices) != 0 {
		t.Fatal("enter should dismiss the notice")
	}

	m.Update(keyMsg(tea.KeyCtrlP))
	if len(m.notices) != 1 || m.notices[0] != builder.NoticeEmptyPrint {
		t.Fatalf("expected print notice, got %v", m.notices)
	}
}

func TestDownloadPDF(t *testing.T) {
	m := newTestModel(t)
	m.Update(keyMsg(tea.KeyCtrlN))
	typeText(m, "Jasa desain")

	_, cmd := m.Update(keyMsg(tea.KeyCtrlS))
	if !m.busy {
		t.Fatal("download should be marked busy")
	}

	// A second press while busy is ignored.
	if _, again := m.Update(keyMsg(tea.KeyCtrlS)); again != nil {
		t.Fatal("download must be disabled while in flight")
	}

	var done *pdfDoneMsg
	for _, msg := range drain(cmd) {
		if d, ok := msg.(pdfDoneMsg); ok {
			done = &d
		}
	}
	if done == nil {
		t.Fatal("expected a pdfDoneMsg")
	}
	m.Update(*done)

	if m.busy {
		t.Fatal("busy flag should be cleared")
	}
	if done.err != nil {
		t.Fatalf("unexpected export error: %v", done.err)
	}
	data, err := os.ReadFile(done.path)
	if err != nil || !strings.HasPrefix(string(data), "%PDF-") {
		t.Fatalf("expected a pdf at %s (%v)", done.path, err)
	}
	if !strings.Contains(filepath.Base(done.path), "Faktur-"+m.ctrl.InvoiceNumber()) {
		t.Fatalf("unexpected filename %s", done.path)
	}
	if !strings.Contains(m.status, "PDF tersimpan") {
		t.Fatalf("unexpected status %q", m.status)
	}
}

func TestReset(t *testing.T) {
	m := newTestModel(t)
	m.Update(keyMsg(tea.KeyCtrlN))
	m.form.SetValue(domain.FieldDueDate, "2026-11-15")
	before := m.ctrl.InvoiceNumber()

	m.Update(keyMsg(tea.KeyCtrlR))
	if !m.confirming || !strings.Contains(m.View(), builder.ResetPrompt) {
		t.Fatal("reset should ask for confirmation")
	}
	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("n")})
	if m.confirming || len(m.rows) != 1 {
		t.Fatal("declining must keep the form")
	}

	m.Update(keyMsg(tea.KeyCtrlR))
	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("y")})
	if len(m.rows) != 0 || len(m.ctrl.Items()) != 0 {
		t.Fatal("items should be cleared")
	}
	if v, _ := m.form.Value(domain.FieldCompanyName); v != "" {
		t.Fatalf("company should be blank after reset, got %q", v)
	}
	if v, _ := m.form.Value(domain.FieldInvoiceDate); v == "" {
		t.Fatal("invoice date should be restored")
	}
	if v, _ := m.form.Value(domain.FieldDueDate); v != "2026-11-15" {
		t.Fatalf("due date should be kept, got %q", v)
	}
	if m.ctrl.InvoiceNumber() == before {
		t.Fatal("a new invoice number should be drawn")
	}
	if m.focus != 0 {
		t.Fatal("focus should return to the first field")
	}
}

func TestFocusWraps(t *testing.T) {
	m := newTestModel(t)
	m.Update(keyMsg(tea.KeyShiftTab))
	if m.focus != len(m.form.fields)-1 {
		t.Fatalf("shift+tab from the first field should wrap, got %d", m.focus)
	}
	m.Update(keyMsg(tea.KeyTab))
	if m.focus != 0 {
		t.Fatalf("tab from the last field should wrap, got %d", m.focus)
	}
}

func TestRenderInvoiceEmpty(t *testing.T) {
	m := newTestModel(t)
	if !strings.Contains(m.preview.View(), "Preview Faktur") {
		t.Fatal("empty preview placeholder expected")
	}
}
