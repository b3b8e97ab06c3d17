package builder

import (
	"github.com/andy/faktur/internal/domain"
	"github.com/andy/faktur/internal/export"
)

// Form is the live header form. Values are read on every use; the
// controller keeps no copy.
type Form interface {
	// Value reports the current value of id, or false when the host has
	// no such control.
	Value(id domain.Field) (string, bool)
	// SetValue writes id and reports whether the control exists.
	SetValue(id domain.Field, value string) bool
}

// ItemRow is one editable row of the item editor.
type ItemRow struct {
	ID          int64
	Description string
	Quantity    string
	Price       string
	Total       string
}

// View receives fully regenerated render targets.
type View interface {
	RenderItems(rows []ItemRow)
	RenderPreview(doc export.Document)
}

// BusyIndicator is implemented by views that show export progress.
type BusyIndicator interface {
	SetDownloadBusy(busy bool)
}

// Notifier shows a blocking notice to the user.
type Notifier interface {
	Notify(message string)
}

// Publisher receives every rendered preview, e.g. for the browser preview.
type Publisher interface {
	Publish(doc export.Document)
}

// User-facing notices.
const (
	NoticeEmptyPDF   = "Tambahkan item terlebih dahulu untuk mengunduh PDF"
	NoticeEmptyPrint = "Tambahkan item terlebih dahulu untuk mencetak"
	NoticePDFFailed  = "Terjadi kesalahan saat mengunduh PDF"
	NoticePrintFail  = "Terjadi kesalahan saat mencetak"
	ResetPrompt      = "Apakah Anda yakin ingin mengatur ulang formulir? Semua data akan hilang."
	EmptyItemsText   = "Belum ada item. Tekan ctrl+n untuk menambah item."
)
