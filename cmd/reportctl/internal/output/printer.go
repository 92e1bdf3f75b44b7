// Package output renders reportctl results for the terminal.
package output

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
)

// Printer writes colored or plain messages. Colors are dropped when
// NO_COLOR is set or TERM is dumb.
type Printer struct {
	out       io.Writer
	err       io.Writer
	useColors bool
}

func NewPrinter(out, errOut io.Writer, colors bool) *Printer {
	return &Printer{out: out, err: errOut, useColors: resolveColors(colors)}
}

func resolveColors(configured bool) bool {
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return false
	}
	if os.Getenv("TERM") == "dumb" {
		return false
	}
	return configured
}

func (p *Printer) Out() io.Writer { return p.out }

func (p *Printer) Info(format string, args ...any) {
	p.printf(p.out, color.FgCyan, "", format, args...)
}

func (p *Printer) Success(format string, args ...any) {
	p.printf(p.out, color.FgGreen, "[OK] ", format, args...)
}

func (p *Printer) Warning(format string, args ...any) {
	p.printf(p.err, color.FgYellow, "[WARN] ", format, args...)
}

func (p *Printer) Error(format string, args ...any) {
	p.printf(p.err, color.FgRed, "[ERROR] ", format, args...)
}

func (p *Printer) printf(w io.Writer, attr color.Attribute, prefix, format string, args ...any) {
	if p.useColors {
		color.New(attr).Fprintf(w, prefix+format+"\n", args...)
		return
	}
	fmt.Fprintf(w, prefix+format+"\n", args...)
}

// Header prints a title underlined to its width.
func (p *Printer) Header(title string) {
	underline := strings.Repeat("-", len(title))
	if p.useColors {
		color.New(color.Bold).Fprintf(p.out, "\n%s\n", title)
		fmt.Fprintf(p.out, "%s\n", underline)
		return
	}
	fmt.Fprintf(p.out, "\n%s\n%s\n", title, underline)
}

// StatusBadge renders a report status.
func (p *Printer) StatusBadge(status string) string {
	if !p.useColors {
		return fmt.Sprintf("[%s]", status)
	}
	switch status {
	case "ready":
		return color.GreenString(status)
	case "error":
		return color.RedString(status)
	case "nothing_to_show", "loading":
		return color.YellowString(status)
	default:
		return status
	}
}
