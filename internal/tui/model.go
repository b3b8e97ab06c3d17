package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/andy/faktur/internal/app"
	"github.com/andy/faktur/internal/builder"
	"github.com/andy/faktur/internal/domain"
	"github.com/andy/faktur/internal/export"
	"github.com/andy/faktur/internal/locale"
)

// sectionTitles marks the first field of each form section.
var sectionTitles = map[domain.Field]string{
	domain.FieldCompanyName: "Informasi Perusahaan",
	domain.FieldClientName:  "Informasi Klien",
	domain.FieldInvoiceDate: "Detail Faktur",
}

// Model is the root Bubble Tea model. It is the builder's form, view and
// notifier, so it is always used through a pointer.
type Model struct {
	app    *app.App
	ctrl   *builder.Controller
	ctx    context.Context
	width  int
	height int

	form  *headerForm
	rows  []itemRow
	focus int // header fields first, then three cells per item row

	formView viewport.Model
	preview  viewport.Model
	lastDoc  export.Document

	spinner    spinner.Model
	busy       bool
	notices    []string
	confirming bool
	status     string
}

// New creates the root model and its builder controller.
func New(ctx context.Context, a *app.App) (*Model, error) {
	m := &Model{
		app:      a,
		ctx:      ctx,
		form:     newHeaderForm(40),
		formView: viewport.New(60, 20),
		preview:  viewport.New(60, 20),
		spinner:  spinner.New(spinner.WithSpinner(spinner.Dot)),
	}

	company := a.Config.Company
	m.form.SetValue(domain.FieldCompanyName, company.Name)
	m.form.SetValue(domain.FieldCompanyAddress, company.Address)
	m.form.SetValue(domain.FieldCompanyPhone, company.Phone)
	m.form.SetValue(domain.FieldCompanyEmail, company.Email)
	m.form.SetValue(domain.FieldTaxRate, formatRate(a.Config.Invoice.DefaultTaxRate))

	ctrl, err := builder.New(builder.Config{
		Form:      m.form,
		View:      m,
		Notifier:  m,
		Publisher: a.Previews,
		Renderer:  a.Renderer,
		Printer:   a.Printer,
		Options:   a.Options,
		OutputDir: a.Config.Invoice.OutputDir,
		Numbers:   a.Numbers,
		IDs:       a.IDs,
		Logger:    a.Logger,
	})
	if err != nil {
		return nil, err
	}
	m.ctrl = ctrl
	ctrl.Init()
	m.setFocus(0)
	m.syncForm()
	return m, nil
}

// RenderItems implements builder.View. The rows are rebuilt from scratch;
// focus stays on the same item and cell when it still exists.
func (m *Model) RenderItems(rows []builder.ItemRow) {
	var (
		keepID  int64
		keepCol int
		onRow   bool
	)
	if r, c, ok := m.focusedCell(); ok {
		keepID, keepCol, onRow = int64(m.rows[r].id), c, true
	}

	m.rows = m.rows[:0]
	for _, r := range rows {
		m.rows = append(m.rows, newItemRow(r, m.itemWidth()))
	}

	target := m.focus
	if onRow {
		if i := indexOfRaw(rows, keepID); i >= 0 {
			target = len(m.form.fields) + i*len(itemColumns) + keepCol
		}
	}
	m.setFocus(min(target, m.focusCount()-1))
}

func indexOfRaw(rows []builder.ItemRow, id int64) int {
	for i, r := range rows {
		if r.ID == id {
			return i
		}
	}
	return -1
}

// RenderPreview implements builder.View.
func (m *Model) RenderPreview(doc export.Document) {
	m.lastDoc = doc
	m.preview.SetContent(renderInvoice(doc.Invoice, m.preview.Width-2))
}

// SetDownloadBusy implements builder.BusyIndicator.
func (m *Model) SetDownloadBusy(busy bool) {
	m.busy = busy
}

// Notify implements builder.Notifier. Notices queue up and are shown one at
// a time.
func (m *Model) Notify(message string) {
	m.notices = append(m.notices, message)
}

// Init implements tea.Model
func (m *Model) Init() tea.Cmd {
	return m.setFocus(m.focus)
}

func (m *Model) focusCount() int {
	return len(m.form.fields) + len(m.rows)*len(itemColumns)
}

// focusedCell reports the item row and column under focus.
func (m *Model) focusedCell() (row, col int, ok bool) {
	i := m.focus - len(m.form.fields)
	if i < 0 || i >= len(m.rows)*len(itemColumns) {
		return 0, 0, false
	}
	return i / len(itemColumns), i % len(itemColumns), true
}

func (m *Model) setFocus(i int) tea.Cmd {
	if n := m.focusCount(); i >= n {
		i = n - 1
	}
	if i < 0 {
		i = 0
	}
	for _, f := range m.form.fields {
		f.blur()
	}
	for r := range m.rows {
		for c := range m.rows[r].inputs {
			m.rows[r].inputs[c].Blur()
		}
	}

	m.focus = i
	if i < len(m.form.fields) {
		return m.form.fields[i].focus()
	}
	r, c, _ := m.focusedCell()
	return m.rows[r].inputs[c].Focus()
}

func (m *Model) moveFocus(delta int) tea.Cmd {
	n := m.focusCount()
	return m.setFocus(((m.focus+delta)%n + n) % n)
}

// Update implements tea.Model
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)

	case spinner.TickMsg:
		if m.busy {
			m.spinner, cmd = m.spinner.Update(msg)
		}

	case pdfDoneMsg:
		m.ctrl.FinishPDF(msg.job, msg.path, msg.err)
		if msg.err == nil {
			m.status = "PDF tersimpan: " + msg.path
		}

	case printDoneMsg:
		m.ctrl.FinishPrint(msg.job, msg.err)
		if msg.err == nil {
			m.status = "Faktur dikirim ke printer"
		}

	case tea.KeyMsg:
		cmd = m.handleKey(msg)

	default:
		cmd = m.updateFocused(msg)
	}

	m.syncForm()
	return m, cmd
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	if key.Matches(msg, DefaultKeyMap.Quit) {
		return tea.Quit
	}

	// Modals swallow every other key.
	if len(m.notices) > 0 {
		if key.Matches(msg, DefaultKeyMap.Confirm, DefaultKeyMap.Cancel) {
			m.notices = m.notices[1:]
		}
		return nil
	}
	if m.confirming {
		switch {
		case key.Matches(msg, DefaultKeyMap.Confirm):
			m.confirming = false
			if m.ctrl.ResetForm(true) {
				m.status = "Formulir telah diatur ulang"
				return m.setFocus(0)
			}
		case key.Matches(msg, DefaultKeyMap.Cancel):
			m.confirming = false
			m.ctrl.ResetForm(false)
		}
		return nil
	}

	switch {
	case key.Matches(msg, DefaultKeyMap.AddItem):
		id := m.ctrl.AddItem()
		if i := indexOf(m.rows, id); i >= 0 {
			return m.setFocus(len(m.form.fields) + i*len(itemColumns))
		}
		return nil

	case key.Matches(msg, DefaultKeyMap.RemoveItem):
		if r, _, ok := m.focusedCell(); ok {
			m.ctrl.RemoveItem(m.rows[r].id)
		}
		return nil

	case key.Matches(msg, DefaultKeyMap.Generate):
		m.ctrl.RefreshPreview()
		return nil

	case key.Matches(msg, DefaultKeyMap.Download):
		if m.busy {
			return nil
		}
		job, err := m.ctrl.PreparePDF()
		if err != nil {
			return nil
		}
		m.status = ""
		return tea.Batch(m.spinner.Tick, runPDF(m.ctx, job))

	case key.Matches(msg, DefaultKeyMap.Print):
		if m.busy {
			return nil
		}
		job, err := m.ctrl.PreparePrint()
		if err != nil {
			return nil
		}
		m.status = ""
		return tea.Batch(m.spinner.Tick, runPrint(m.ctx, job))

	case key.Matches(msg, DefaultKeyMap.Reset):
		m.confirming = true
		return nil

	case key.Matches(msg, DefaultKeyMap.Next):
		return m.moveFocus(1)

	case key.Matches(msg, DefaultKeyMap.Prev):
		return m.moveFocus(-1)

	case key.Matches(msg, DefaultKeyMap.PreviewUp):
		m.preview.SetYOffset(m.preview.YOffset - m.preview.Height/2)
		return nil

	case key.Matches(msg, DefaultKeyMap.PreviewDown):
		m.preview.SetYOffset(m.preview.YOffset + m.preview.Height/2)
		return nil

	case key.Matches(msg, DefaultKeyMap.Submit) && !m.focusedIsArea():
		return m.moveFocus(1)
	}

	return m.updateFocused(msg)
}

func (m *Model) focusedIsArea() bool {
	return m.focus < len(m.form.fields) && m.form.fields[m.focus].isArea()
}

// updateFocused forwards msg to the focused control and pushes any value
// change into the builder.
func (m *Model) updateFocused(msg tea.Msg) tea.Cmd {
	if m.focus < len(m.form.fields) {
		f := m.form.fields[m.focus]
		before := f.value()
		cmd := f.update(msg)
		if f.value() != before {
			m.ctrl.RefreshPreview()
		}
		return cmd
	}

	r, c, ok := m.focusedCell()
	if !ok {
		return nil
	}
	row := &m.rows[r]
	before := row.inputs[c].Value()
	var cmd tea.Cmd
	row.inputs[c], cmd = row.inputs[c].Update(msg)
	if after := row.inputs[c].Value(); after != before {
		m.ctrl.UpdateItem(row.id, itemColumns[c], after)
		for _, item := range m.ctrl.Items() {
			if item.ID == row.id {
				row.total = locale.FormatCurrency(item.Total())
			}
		}
	}
	return cmd
}

func (m *Model) resize(width, height int) {
	m.width, m.height = width, height
	leftW, rightW := m.columns()
	bodyH := max(height-6, 5)

	m.formView.Width, m.formView.Height = leftW, bodyH
	m.preview.Width, m.preview.Height = rightW, bodyH
	m.form.setWidth(max(leftW-4, 10))
	for r := range m.rows {
		m.rows[r].inputs[0].Width = m.itemWidth()
	}
	m.RenderPreview(m.lastDoc)
}

// columns splits the terminal between the form and the preview.
func (m *Model) columns() (left, right int) {
	inner := max(m.width-4, 40)
	left = inner * 45 / 100
	return left, inner - left - 4
}

func (m *Model) itemWidth() int {
	left, _ := m.columns()
	return max(left-8, 10)
}

// syncForm lays out the form and scrolls it so the focused control stays
// visible.
func (m *Model) syncForm() {
	var (
		b         strings.Builder
		focusLine int
	)
	line := func() int { return strings.Count(b.String(), "\n") }

	for i, f := range m.form.fields {
		if title, ok := sectionTitles[f.spec.ID]; ok {
			if i > 0 {
				b.WriteString("\n")
			}
			b.WriteString(titleStyle.Render(title) + "\n")
			if f.spec.ID == domain.FieldInvoiceDate {
				b.WriteString(labelStyle.Render("No. Faktur") + "\n")
				b.WriteString(subtitleStyle.Render("  "+m.ctrl.InvoiceNumber()) + "\n")
			}
		}
		label := labelStyle
		if i == m.focus {
			label = focusedLabelStyle
			focusLine = line()
		}
		b.WriteString(label.Render(f.spec.Label) + "\n")
		b.WriteString(f.view() + "\n")
	}

	b.WriteString("\n" + titleStyle.Render("Item Faktur") + "\n")
	if len(m.rows) == 0 {
		b.WriteString(subtitleStyle.Render(builder.EmptyItemsText) + "\n")
	}
	for r, row := range m.rows {
		label := labelStyle
		if fr, _, ok := m.focusedCell(); ok && fr == r {
			label = focusedLabelStyle
			focusLine = line()
		}
		b.WriteString(label.Render(fmt.Sprintf("Item %d", r+1)) + "\n")
		b.WriteString(row.inputs[0].View() + "\n")
		b.WriteString(row.inputs[1].View() + "  " + row.inputs[2].View() + "\n")
		b.WriteString(rowTotalStyle.Render("Total: "+row.total) + "\n")
	}

	m.formView.SetContent(b.String())
	switch {
	case focusLine < m.formView.YOffset:
		m.formView.SetYOffset(focusLine)
	case focusLine+4 > m.formView.YOffset+m.formView.Height:
		m.formView.SetYOffset(focusLine + 4 - m.formView.Height)
	}
}

// View implements tea.Model
func (m *Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	if len(m.notices) > 0 {
		return m.modal(alertStyle, m.notices[0], "[enter] OK")
	}
	if m.confirming {
		return m.modal(confirmStyle, builder.ResetPrompt, "[y] Ya   [n] Batal")
	}

	header := headerStyle.Render("faktur - " + m.ctrl.InvoiceNumber())
	if m.busy {
		header += "  " + m.spinner.View() + " " + subtitleStyle.Render("Memproses PDF...")
	} else if m.status != "" {
		header += "  " + statusStyle.Render(truncateStr(m.status, max(m.width-30, 10)))
	}

	leftW, rightW := m.columns()
	body := lipgloss.JoinHorizontal(lipgloss.Top,
		boxStyle.Width(leftW).Render(m.formView.View()),
		boxStyle.Width(rightW).Render(m.preview.View()),
	)

	download := "[ctrl+s] Unduh PDF"
	if m.busy {
		download = subtitleStyle.Render(download)
	}
	footer := footerStyle.Render("[ctrl+n] Tambah Item  [ctrl+d] Hapus Item  [ctrl+g] Perbarui  ") +
		footerStyle.Render(download) +
		footerStyle.Render("  [ctrl+p] Cetak  [ctrl+r] Reset  [ctrl+q] Keluar")
	help := helpStyle.Render("tab/shift+tab pindah kolom  pgup/pgdn gulir preview")

	return appBorderStyle.Width(max(m.width-2, 40)).Render(
		fmt.Sprintf("%s\n%s\n%s\n%s", header, body, footer, help),
	)
}

func (m *Model) modal(style lipgloss.Style, message, hint string) string {
	box := style.Width(min(60, max(m.width-4, 20))).Render(message + "\n\n" + helpStyle.Render(hint))
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
}

// Run starts the TUI
func Run(ctx context.Context, a *app.App) error {
	m, err := New(ctx, a)
	if err != nil {
		return err
	}
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	_, err = p.Run()
	return err
}
