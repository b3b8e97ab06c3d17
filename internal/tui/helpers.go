package tui

import (
	"context"
	"strconv"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/andy/faktur/internal/builder"
)

// runPDF runs job off the update loop.
func runPDF(ctx context.Context, job builder.PDFJob) tea.Cmd {
	return func() tea.Msg {
		path, err := job.Run(ctx)
		return pdfDoneMsg{job: job, path: path, err: err}
	}
}

// runPrint runs job off the update loop.
func runPrint(ctx context.Context, job builder.PrintJob) tea.Cmd {
	return func() tea.Msg {
		return printDoneMsg{job: job, err: job.Run(ctx)}
	}
}

// formatRate renders a configured tax rate the way a user would type it.
func formatRate(rate float64) string {
	return strconv.FormatFloat(rate, 'f', -1, 64)
}

// truncateStr truncates a string to the specified length with ellipsis
func truncateStr(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return string(r[:maxLen])
	}
	return string(r[:maxLen-3]) + "..."
}
