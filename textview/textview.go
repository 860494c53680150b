// Copyright 2025 Florian Zenker (flo@znkr.io)
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package textview renders linearized rows as plain or colored text with an old and a new line
// number gutter.
package textview

import (
	"bytes"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
	"github.com/muesli/termenv"
	"znkr.io/apiview/codepanel"
	"znkr.io/apiview/token"
)

const (
	prefixMatch  = " "
	prefixDelete = "-"
	prefixInsert = "+"
)

// Styles are the styles of the parts of a row.
type Styles struct {
	Gutter        lipgloss.Style
	Removed       lipgloss.Style
	Added         lipgloss.Style
	Highlight     lipgloss.Style // Tokens that differ from the paired line
	Documentation lipgloss.Style
	Diagnostic    lipgloss.Style
	Comment       lipgloss.Style
}

// DefaultStyles returns the default styles for r.
func DefaultStyles(r *lipgloss.Renderer) Styles {
	return Styles{
		Gutter:        r.NewStyle().Faint(true),
		Removed:       r.NewStyle().Foreground(lipgloss.Color("1")),
		Added:         r.NewStyle().Foreground(lipgloss.Color("2")),
		Highlight:     r.NewStyle().Bold(true).Underline(true),
		Documentation: r.NewStyle().Foreground(lipgloss.Color("8")),
		Diagnostic:    r.NewStyle().Foreground(lipgloss.Color("3")),
		Comment:       r.NewStyle().Foreground(lipgloss.Color("6")),
	}
}

type settings struct {
	color     *bool // nil: detect from the writer
	width     int
	indent    int
	newStyles func(*lipgloss.Renderer) Styles
}

// An Option configures the output of [Write] and [String].
type Option func(*settings)

// Color forces colored output on or off. By default, output is colored if the writer is a
// terminal that supports colors.
func Color(on bool) Option {
	return func(s *settings) {
		s.color = &on
	}
}

// Width truncates rows to n terminal cells. Zero means no limit.
func Width(n int) Option {
	return func(s *settings) {
		s.width = max(0, n)
	}
}

// IndentWidth sets the number of spaces per indentation level. The default is 4.
func IndentWidth(n int) Option {
	return func(s *settings) {
		s.indent = max(0, n)
	}
}

// WithStyles replaces the default styles.
func WithStyles(fn func(*lipgloss.Renderer) Styles) Option {
	return func(s *settings) {
		s.newStyles = fn
	}
}

// String renders rows without colors unless [Color] says otherwise.
func String(rows []codepanel.Row, opts ...Option) string {
	var buf bytes.Buffer
	_ = Write(&buf, rows, opts...) // writing to a bytes.Buffer never fails
	return buf.String()
}

// Write renders rows to w, one line per row and one line per comment of a comment thread.
func Write(w io.Writer, rows []codepanel.Row, opts ...Option) error {
	s := settings{indent: 4, newStyles: DefaultStyles}
	for _, opt := range opts {
		opt(&s)
	}
	r := lipgloss.NewRenderer(w)
	if s.color != nil {
		if *s.color {
			r.SetColorProfile(termenv.ANSI)
		} else {
			r.SetColorProfile(termenv.Ascii)
		}
	}
	p := printer{
		settings: s,
		styles:   s.newStyles(r),
		plain:    r.NewStyle(),
		color:    r.ColorProfile() != termenv.Ascii,
	}
	for _, row := range rows {
		p.oldWidth = max(p.oldWidth, len(strconv.Itoa(row.OldLineNumber)))
		p.newWidth = max(p.newWidth, len(strconv.Itoa(row.NewLineNumber)))
	}

	var b strings.Builder
	for _, row := range rows {
		p.row(&b, row)
	}
	_, err := io.WriteString(w, b.String())
	return err
}

type printer struct {
	settings

	styles   Styles
	plain    lipgloss.Style
	color    bool
	oldWidth int
	newWidth int
}

func (p *printer) paint(style lipgloss.Style, s string) string {
	if !p.color || s == "" {
		return s
	}
	return style.Render(s)
}

func (p *printer) gutter(row codepanel.Row) string {
	num := func(n, width int) string {
		if n == 0 {
			return strings.Repeat(" ", width)
		}
		return fmt.Sprintf("%*d", width, n)
	}
	return p.paint(p.styles.Gutter, num(row.OldLineNumber, p.oldWidth)+" "+num(row.NewLineNumber, p.newWidth))
}

func (p *printer) row(b *strings.Builder, row codepanel.Row) {
	sign, style := prefixMatch, p.plain
	styled := false
	switch row.DiffKind {
	case codepanel.Removed:
		sign, style, styled = prefixDelete, p.styles.Removed, true
	case codepanel.Added:
		sign, style, styled = prefixInsert, p.styles.Added, true
	case codepanel.NoneDiff, codepanel.Unchanged:
	default:
		panic("never reached")
	}
	indent := strings.Repeat(" ", row.Indent*p.indent)
	// Cells left for the content after gutter, sign and indentation.
	avail := -1
	if p.width > 0 {
		avail = max(0, p.width-(p.oldWidth+1+p.newWidth+1+len(sign)+1)-len(indent))
	}

	var lines []string
	switch row.Kind {
	case codepanel.CodeLine, codepanel.Documentation:
		if row.Kind == codepanel.Documentation && !styled {
			style, styled = p.styles.Documentation, true
		}
		lines = append(lines, p.tokens(row.Tokens, style, styled, avail))
	case codepanel.Diagnostic:
		text := "! "
		if d := row.Diagnostic; d != nil {
			text += "[" + string(d.Level) + "] " + d.Text
		}
		lines = append(lines, p.paint(p.styles.Diagnostic, truncate(text, avail)))
	case codepanel.CommentThread:
		for _, c := range row.Comments {
			text := "# " + c.Text
			if c.CreatedBy != "" {
				text = "# " + c.CreatedBy + ": " + c.Text
			}
			lines = append(lines, p.paint(p.styles.Comment, truncate(text, avail)))
		}
	default:
		panic("never reached")
	}

	for _, l := range lines {
		b.WriteString(p.gutter(row))
		b.WriteString(" ")
		if styled {
			b.WriteString(p.paint(style, sign))
		} else {
			b.WriteString(sign)
		}
		b.WriteString(" ")
		b.WriteString(indent)
		b.WriteString(strings.TrimRight(l, " "))
		b.WriteString("\n")
	}
}

// tokens renders tokens within avail cells (negative: no limit).
func (p *printer) tokens(tokens []token.Token, style lipgloss.Style, styled bool, avail int) string {
	var b strings.Builder
	used := 0
	for _, t := range tokens {
		v := t.Value
		if t.Kind == token.NonBreakingSpace && v == "" {
			v = " "
		}
		if avail >= 0 {
			w := runewidth.StringWidth(v)
			if used+w > avail {
				b.WriteString(p.paint(style, runewidth.Truncate(v, avail-used, "…")))
				break
			}
			used += w
		}
		switch {
		case slices.Contains(t.RenderClasses, token.RenderClassDiffChange):
			b.WriteString(p.paint(style.Inherit(p.styles.Highlight), v))
		case styled:
			b.WriteString(p.paint(style, v))
		default:
			b.WriteString(v)
		}
	}
	return b.String()
}

func truncate(s string, avail int) string {
	if avail < 0 {
		return s
	}
	return runewidth.Truncate(s, avail, "…")
}
