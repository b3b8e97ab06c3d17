package tui

import (
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/andy/faktur/internal/domain"
)

// formField is one header control: a single-line input or, for addresses
// and notes, a textarea.
type formField struct {
	spec  domain.FieldSpec
	input textinput.Model
	area  textarea.Model
}

func newFormField(spec domain.FieldSpec, width int) *formField {
	f := &formField{spec: spec}
	if spec.Kind == domain.KindTextArea {
		f.area = textarea.New()
		f.area.Placeholder = spec.Placeholder
		f.area.ShowLineNumbers = false
		f.area.SetHeight(3)
		f.area.SetWidth(width)
		f.area.CharLimit = 500
		return f
	}

	f.input = textinput.New()
	f.input.Placeholder = spec.Placeholder
	f.input.Width = width
	switch spec.Kind {
	case domain.KindDate:
		f.input.CharLimit = 10
	case domain.KindNumber:
		f.input.CharLimit = 12
	default:
		f.input.CharLimit = 120
	}
	return f
}

func (f *formField) isArea() bool {
	return f.spec.Kind == domain.KindTextArea
}

func (f *formField) value() string {
	if f.isArea() {
		return f.area.Value()
	}
	return f.input.Value()
}

func (f *formField) setValue(v string) {
	if f.isArea() {
		f.area.SetValue(v)
		return
	}
	f.input.SetValue(v)
}

func (f *formField) focus() tea.Cmd {
	if f.isArea() {
		return f.area.Focus()
	}
	return f.input.Focus()
}

func (f *formField) blur() {
	if f.isArea() {
		f.area.Blur()
		return
	}
	f.input.Blur()
}

func (f *formField) setWidth(w int) {
	if f.isArea() {
		f.area.SetWidth(w)
		return
	}
	f.input.Width = w
}

func (f *formField) update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	if f.isArea() {
		f.area, cmd = f.area.Update(msg)
	} else {
		f.input, cmd = f.input.Update(msg)
	}
	return cmd
}

func (f *formField) view() string {
	if f.isArea() {
		return f.area.View()
	}
	return f.input.View()
}

// headerForm holds the header controls in form order. It is the live form
// the builder reads on every render.
type headerForm struct {
	fields []*formField
	byID   map[domain.Field]*formField
}

func newHeaderForm(width int) *headerForm {
	hf := &headerForm{byID: make(map[domain.Field]*formField)}
	for _, spec := range domain.HeaderFields {
		f := newFormField(spec, width)
		hf.fields = append(hf.fields, f)
		hf.byID[spec.ID] = f
	}
	return hf
}

// Value implements builder.Form.
func (hf *headerForm) Value(id domain.Field) (string, bool) {
	f, ok := hf.byID[id]
	if !ok {
		return "", false
	}
	return f.value(), true
}

// SetValue implements builder.Form.
func (hf *headerForm) SetValue(id domain.Field, value string) bool {
	f, ok := hf.byID[id]
	if !ok {
		return false
	}
	f.setValue(value)
	return true
}

func (hf *headerForm) setWidth(w int) {
	for _, f := range hf.fields {
		f.setWidth(w)
	}
}
