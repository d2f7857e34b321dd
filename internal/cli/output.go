// Package cli provides terminal output, error formatting and input helpers
// for the storefront commands.
package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/jacksmith/storefront/internal/model"
	"golang.org/x/term"
)

// ANSI color codes
const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorGray   = "\033[90m"
)

// colorEnabled is set from terminal detection and can be overridden.
var colorEnabled = true

func init() {
	colorEnabled = IsTerminal(os.Stdout)
}

// SetColorEnabled overrides terminal detection.
func SetColorEnabled(enabled bool) {
	colorEnabled = enabled
}

// ColorEnabled returns whether color output is currently enabled.
func ColorEnabled() bool {
	return colorEnabled
}

// IsTerminal returns true if w is a terminal.
func IsTerminal(w io.Writer) bool {
	if f, ok := w.(*os.File); ok {
		return term.IsTerminal(int(f.Fd()))
	}
	return false
}

func paint(code, s string) string {
	if !colorEnabled {
		return s
	}
	return code + s + colorReset
}

// Green returns s in green when colors are enabled.
func Green(s string) string { return paint(colorGreen, s) }

// Red returns s in red when colors are enabled.
func Red(s string) string { return paint(colorRed, s) }

// Yellow returns s in yellow when colors are enabled.
func Yellow(s string) string { return paint(colorYellow, s) }

// Gray returns s in gray when colors are enabled.
func Gray(s string) string { return paint(colorGray, s) }

// DefaultMaxNameWidth caps name columns in list output.
const DefaultMaxNameWidth = 40

// OrphanMarker tags products whose category no longer exists.
const OrphanMarker = "[orphan]"

// StateLabel renders a product state for list output. Linked products get
// no label.
func StateLabel(state model.ProductState) string {
	if state == model.ProductStateOrphaned {
		return Yellow(OrphanMarker)
	}
	return ""
}

// ImageLabel renders an image URI, or a gray dash when there is none.
func ImageLabel(image *string) string {
	if image == nil || *image == "" {
		return Gray("-")
	}
	return *image
}

// Price renders a price right-aligned to width.
func Price(p *model.Product, width int) string {
	s := p.DisplayPrice()
	if pad := width - len(s); pad > 0 {
		s = strings.Repeat(" ", pad) + s
	}
	return s
}

// Table formats columnar output. Column widths follow the widest visible
// cell, ignoring ANSI codes.
type Table struct {
	header    []string
	rows      [][]string
	widths    []int
	maxWidths map[int]int
}

// NewTable creates a table with an optional header row.
func NewTable(header ...string) *Table {
	t := &Table{maxWidths: make(map[int]int)}
	if len(header) > 0 {
		t.header = header
		t.measure(header)
	}
	return t
}

// SetMaxWidth caps a column's visible width; longer cells are truncated
// with "...".
func (t *Table) SetMaxWidth(col, maxWidth int) {
	t.maxWidths[col] = maxWidth
	if col < len(t.widths) && t.widths[col] > maxWidth {
		t.widths[col] = maxWidth
	}
}

// AddRow adds a row to the table.
func (t *Table) AddRow(cols ...string) {
	t.measure(cols)
	t.rows = append(t.rows, cols)
}

// Len returns the number of data rows.
func (t *Table) Len() int {
	return len(t.rows)
}

func (t *Table) measure(cols []string) {
	for len(t.widths) < len(cols) {
		t.widths = append(t.widths, 0)
	}
	for i, col := range cols {
		w := visibleWidth(col)
		if maxW, ok := t.maxWidths[i]; ok && w > maxW {
			w = maxW
		}
		if w > t.widths[i] {
			t.widths[i] = w
		}
	}
}

// Render writes the table to w with columns separated by two spaces.
// Trailing empty cells are dropped so lines carry no trailing spaces.
func (t *Table) Render(w io.Writer) {
	if t.header != nil {
		t.renderRow(w, t.header, Gray)
	}
	for _, row := range t.rows {
		t.renderRow(w, row, nil)
	}
}

func (t *Table) renderRow(w io.Writer, row []string, style func(string) string) {
	last := len(row) - 1
	for last >= 0 && row[last] == "" {
		last--
	}
	var b strings.Builder
	for i := 0; i <= last; i++ {
		col := row[i]
		if maxW, ok := t.maxWidths[i]; ok {
			col = Truncate(col, maxW)
		}
		if style != nil {
			col = style(col)
		}
		b.WriteString(col)
		if i < last {
			b.WriteString(strings.Repeat(" ", t.widths[i]-visibleWidth(col)+2))
		}
	}
	fmt.Fprintln(w, b.String())
}

// Truncate cuts s to maxWidth visible characters, ending in "..." when
// there is room for it. ANSI codes before the cut are kept and a reset is
// appended if any were seen.
func Truncate(s string, maxWidth int) string {
	if maxWidth <= 0 {
		return ""
	}
	if visibleWidth(s) <= maxWidth {
		return s
	}

	const ellipsis = "..."
	limit, tail := maxWidth, ""
	if maxWidth > len(ellipsis) {
		limit, tail = maxWidth-len(ellipsis), ellipsis
	}

	var b strings.Builder
	visible, inEscape, hasANSI := 0, false, false
	for _, r := range s {
		switch {
		case r == '\033':
			inEscape, hasANSI = true, true
			b.WriteRune(r)
		case inEscape:
			b.WriteRune(r)
			if r == 'm' {
				inEscape = false
			}
		case visible < limit:
			b.WriteRune(r)
			visible++
		}
		if visible >= limit && !inEscape && r != '\033' {
			break
		}
	}
	b.WriteString(tail)
	if hasANSI {
		b.WriteString(colorReset)
	}
	return b.String()
}

// visibleWidth returns the visible width of s, excluding ANSI escape codes.
func visibleWidth(s string) int {
	width := 0
	inEscape := false
	for _, r := range s {
		switch {
		case r == '\033':
			inEscape = true
		case inEscape:
			if r == 'm' {
				inEscape = false
			}
		default:
			width++
		}
	}
	return width
}
