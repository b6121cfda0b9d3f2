package adapter

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"github.com/open-cli-collective/codemovie/pkg/codemovie"
)

// Terminal defaults.
const (
	DefaultTerminalFormatter = "terminal256"
	DefaultTerminalStyle     = "dracula"
)

type terminalConfig struct {
	formatter chroma.Formatter
	style     *chroma.Style
}

// TerminalOption configures the terminal adapter.
type TerminalOption func(*terminalConfig)

// WithFormatter selects a chroma formatter by name, e.g. "terminal16m".
// Unknown names fall back to chroma's no-op formatter.
func WithFormatter(name string) TerminalOption {
	return func(c *terminalConfig) {
		c.formatter = formatters.Get(name)
	}
}

// WithStyle selects a chroma style by name.
func WithStyle(name string) TerminalOption {
	return func(c *terminalConfig) {
		c.style = styles.Get(name)
	}
}

var (
	gutterColor    = color.New(color.FgRed)
	highlightColor = color.New(color.FgYellow, color.Bold)
	markColor      = color.New(color.FgRed, color.Bold)
	headerColor    = color.New(color.Bold)
)

// Terminal returns an adapter for previewing blocks in a terminal. Each line
// is prefixed with its GUTTER texts and a bar when a LINE decoration applies;
// TEXT decorations are underlined with carets on the following line.
func Terminal(opts ...TerminalOption) codemovie.Adapter {
	cfg := &terminalConfig{
		formatter: formatters.Get(DefaultTerminalFormatter),
		style:     styles.Get(DefaultTerminalStyle),
	}
	for _, opt := range opts {
		opt(cfg)
	}

	return func(content codemovie.Content, lang codemovie.Language, tok codemovie.Token) (string, error) {
		lexer, err := lexerFor(lang)
		if err != nil {
			return "", err
		}

		var sb strings.Builder
		switch c := content.(type) {
		case codemovie.Frame:
			if err := cfg.writeFrame(&sb, lexer, c); err != nil {
				return "", err
			}
		case codemovie.Frames:
			for i, frame := range c {
				sb.WriteString(headerColor.Sprintf("frame %d/%d", i+1, len(c)))
				sb.WriteByte('\n')
				if err := cfg.writeFrame(&sb, lexer, frame); err != nil {
					return "", fmt.Errorf("frame %d: %w", i, err)
				}
			}
		default:
			return "", fmt.Errorf("unsupported content %T", content)
		}
		return sb.String(), nil
	}
}

func (c *terminalConfig) writeFrame(sb *strings.Builder, lexer chroma.Lexer, frame codemovie.Frame) error {
	l, err := newLayout(lexer, frame)
	if err != nil {
		return err
	}

	gutters := make([]string, len(l.lines))
	width := 0
	for i := range l.lines {
		var texts []string
		for _, o := range l.overlays(i+1, codemovie.DecorationGutter) {
			texts = append(texts, o.Text())
		}
		gutters[i] = strings.Join(texts, "")
		width = max(width, runewidth.StringWidth(gutters[i]))
	}

	for i, ln := range l.lines {
		sb.WriteString(gutterColor.Sprint(runewidth.FillRight(gutters[i], width)))
		if len(l.overlays(i+1, codemovie.DecorationLine)) > 0 {
			sb.WriteString(highlightColor.Sprint("▌"))
		} else {
			sb.WriteByte(' ')
		}
		sb.WriteByte(' ')

		tokens := make([]chroma.Token, len(ln))
		for j, s := range ln {
			tokens[j] = chroma.Token{Type: s.typ, Value: s.text}
		}
		var buf bytes.Buffer
		if err := c.formatter.Format(&buf, c.style, chroma.Literator(tokens...)); err != nil {
			return err
		}
		sb.Write(buf.Bytes())
		sb.WriteByte('\n')

		writeCarets(sb, l, ln, width+2)
	}
	return nil
}

// writeCarets writes one caret line per TEXT decoration touching ln.
func writeCarets(sb *strings.Builder, l *layout, ln line, indent int) {
	if len(ln) == 0 {
		return
	}
	lineStart := ln[0].start

	var text strings.Builder
	for _, s := range ln {
		text.WriteString(s.text)
	}
	runes := []rune(text.String())
	lineEnd := lineStart + len(runes)

	for _, o := range l.text {
		from, _ := o.From()
		to, _ := o.To()
		from, to = max(from, lineStart), min(to, lineEnd)
		if from >= to {
			continue
		}
		col := runewidth.StringWidth(string(runes[:from-lineStart]))
		span := runewidth.StringWidth(string(runes[from-lineStart : to-lineStart]))
		sb.WriteString(strings.Repeat(" ", indent+col))
		sb.WriteString(markColor.Sprint(strings.Repeat("^", max(span, 1))))
		sb.WriteByte('\n')
	}
}
