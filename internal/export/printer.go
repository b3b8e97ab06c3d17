package export

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// Printer hands a rendered PDF to the platform print flow.
type Printer interface {
	Print(ctx context.Context, pdf []byte, title string) error
}

var ErrNoPrintCommand = errors.New("no print command configured")

// SpoolPrinter pipes the PDF to a spooler command such as lp or lpr.
type SpoolPrinter struct {
	Command []string
}

// NewSpoolPrinter returns a printer for command, falling back to "lp".
func NewSpoolPrinter(command []string) SpoolPrinter {
	if len(command) == 0 {
		command = []string{"lp"}
	}
	return SpoolPrinter{Command: command}
}

func (p SpoolPrinter) Print(ctx context.Context, pdf []byte, title string) error {
	if len(p.Command) == 0 || p.Command[0] == "" {
		return ErrNoPrintCommand
	}

	args := append([]string{}, p.Command[1:]...)
	if p.Command[0] == "lp" && title != "" {
		args = append(args, "-t", title)
	}

	cmd := exec.CommandContext(ctx, p.Command[0], args...)
	cmd.Stdin = bytes.NewReader(pdf)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg != "" {
			return fmt.Errorf("%s: %w: %s", p.Command[0], err, msg)
		}
		return fmt.Errorf("%s: %w", p.Command[0], err)
	}
	return nil
}

// PrintDocument renders doc and sends it to p.
func PrintDocument(ctx context.Context, r Renderer, p Printer, doc Document, opts Options) error {
	if doc.Invoice.Empty {
		return ErrEmptyDocument
	}
	data, err := r.Render(ctx, doc, opts)
	if err != nil {
		return fmt.Errorf("render pdf: %w", err)
	}
	if err := p.Print(ctx, data, doc.Filename()); err != nil {
		return fmt.Errorf("print: %w", err)
	}
	return nil
}
