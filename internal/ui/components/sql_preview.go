package components

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
	"github.com/rebeliceyang/lazyseg/internal/ui/theme"
)

// SQLPreview renders the WHERE clause of the current segment
type SQLPreview struct {
	Width int
	Theme theme.Theme

	lexer     chroma.Lexer
	style     *chroma.Style
	formatter chroma.Formatter

	// last rendered input/output
	cacheKey string
	cacheOut string
}

// NewSQLPreview creates a preview line highlighted with the theme's chroma style
func NewSQLPreview(th theme.Theme) *SQLPreview {
	p := &SQLPreview{Width: 80, Theme: th}

	p.lexer = lexers.Get("postgresql")
	if p.lexer == nil {
		p.lexer = lexers.Get("sql")
	}
	if p.lexer != nil {
		p.lexer = chroma.Coalesce(p.lexer)
	}

	p.style = styles.Get(th.ChromaStyle)
	if p.style == nil {
		p.style = styles.Get("monokai")
	}
	if p.style == nil {
		p.style = styles.Fallback
	}

	p.formatter = formatters.Get("terminal256")
	if p.formatter == nil {
		p.formatter = formatters.Fallback
	}
	return p
}

// Highlight returns sql with ANSI syntax colors, or plain sql when highlighting fails
func (p *SQLPreview) Highlight(sql string) string {
	if sql == "" || p.lexer == nil {
		return sql
	}

	iterator, err := p.lexer.Tokenise(nil, sql)
	if err != nil {
		return sql
	}

	var buf bytes.Buffer
	if err := p.formatter.Format(&buf, p.style, iterator); err != nil {
		return sql
	}
	return strings.TrimRight(buf.String(), "\n")
}

// View renders the preview for a WHERE clause and its arguments.
// A non-nil err is shown instead of the clause.
func (p *SQLPreview) View(where string, args []interface{}, err error) string {
	label := lipgloss.NewStyle().Foreground(p.Theme.Muted).Render("SQL ")

	if err != nil {
		msg := lipgloss.NewStyle().Foreground(p.Theme.Warning).Italic(true).
			Render(runewidth.Truncate(err.Error(), max(p.Width-4, 10), "..."))
		return label + msg
	}
	if where == "" {
		return label + lipgloss.NewStyle().Foreground(p.Theme.Muted).Italic(true).Render("(no filters)")
	}

	key := where + "\x00" + formatArgs(args)
	if key != p.cacheKey {
		p.cacheKey = key
		p.cacheOut = p.Highlight(where)
		if len(args) > 0 {
			p.cacheOut += lipgloss.NewStyle().Foreground(p.Theme.Muted).Render("  -- " + formatArgs(args))
		}
	}
	return label + p.cacheOut
}

func formatArgs(args []interface{}) string {
	parts := make([]string, len(args))
	for i, a := range args {
		switch v := a.(type) {
		case string:
			parts[i] = fmt.Sprintf("$%d=%q", i+1, v)
		default:
			parts[i] = fmt.Sprintf("$%d=%v", i+1, v)
		}
	}
	return strings.Join(parts, " ")
}
