// Package render turns repository data into terminal, JSON or YAML output.
package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/thiagokokada/gitrev/internal/git"
)

// Printer writes styled output to a single destination. With color disabled
// every method writes plain text.
type Printer struct {
	w       io.Writer
	color   bool
	palette Palette
	term    *termenv.Output
	lg      *lipgloss.Renderer
}

func NewPrinter(w io.Writer, color bool, palette Palette) *Printer {
	profile := termenv.Ascii
	if color {
		profile = termenv.NewOutput(w).EnvColorProfile()
		if profile == termenv.Ascii {
			profile = termenv.ANSI256
		}
	}
	lg := lipgloss.NewRenderer(w, termenv.WithProfile(profile))
	lg.SetColorProfile(profile)
	lg.SetHasDarkBackground(palette.IsDark())
	return &Printer{
		w:       w,
		color:   color,
		palette: palette,
		term:    termenv.NewOutput(w, termenv.WithProfile(profile)),
		lg:      lg,
	}
}

func (p *Printer) style(hex string) lipgloss.Style {
	return p.lg.NewStyle().
		Foreground(lipgloss.Color(hex)).
		TabWidth(lipgloss.NoTabConversion)
}

func (p *Printer) paint(hex, text string) string {
	if !p.color || text == "" {
		return text
	}
	return p.style(hex).Render(text)
}

// Line prints text followed by a newline.
func (p *Printer) Line(text string) error {
	_, err := fmt.Fprintln(p.w, text)
	return err
}

// Status prints "clean" or "dirty".
func (p *Printer) Status(clean bool) error {
	if clean {
		return p.Line(p.paint(p.palette.DiffAdd, "clean"))
	}
	return p.Line(p.paint(p.palette.DiffDel, "dirty"))
}

// Commits prints commits in the layout of git's medium format, with the
// message folded onto a single indented line.
func (p *Printer) Commits(commits []git.Commit) error {
	var b strings.Builder
	for i, c := range commits {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(p.paint(p.palette.Hash, "commit "+c.Hash))
		b.WriteString("\n")
		if c.Author != "" {
			fmt.Fprintf(&b, "%s %s\n", p.paint(p.palette.Meta, "Author:"), c.Author)
		}
		if c.HasDate() {
			fmt.Fprintf(&b, "%s   %s\n", p.paint(p.palette.Meta, "Date:"), c.Date.Format(git.DateLayout))
		}
		if c.Message != "" {
			fmt.Fprintf(&b, "\n    %s\n", c.Message)
		}
	}
	_, err := io.WriteString(p.w, b.String())
	return err
}

// Diff prints a unified diff, highlighted when color is enabled.
func (p *Printer) Diff(diff string) error {
	if diff == "" {
		return nil
	}
	out := diff
	if p.color {
		out = p.highlightDiff(diff)
	}
	_, err := fmt.Fprintln(p.w, out)
	return err
}
