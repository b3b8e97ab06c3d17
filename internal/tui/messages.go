package tui

import "github.com/andy/faktur/internal/builder"

// pdfDoneMsg reports the end of a background PDF download.
type pdfDoneMsg struct {
	job  builder.PDFJob
	path string
	err  error
}

// printDoneMsg reports the end of a background print.
type printDoneMsg struct {
	job builder.PrintJob
	err error
}
