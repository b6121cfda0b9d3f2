package adapter

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/yuin/goldmark/util"

	"github.com/open-cli-collective/codemovie/pkg/codemovie"
)

// DefaultHTMLClass is the class of the <pre> element emitted per frame.
const DefaultHTMLClass = "code-movie"

type htmlConfig struct {
	class string
}

// HTMLOption configures the HTML adapter.
type HTMLOption func(*htmlConfig)

// WithHTMLClass sets the class of the <pre> element. Default: "code-movie".
func WithHTMLClass(class string) HTMLOption {
	return func(c *htmlConfig) {
		c.class = class
	}
}

// HTML returns an adapter rendering each frame as
//
//	<pre class="code-movie" data-lang="JSON"><code>...</code></pre>
//
// with one <span class="line"> per line and chroma CSS classes on tokens.
// LINE decorations add the "highlight" class to their line, GUTTER
// decorations prepend <span class="gutter">text</span>, and TEXT decorations
// wrap their character range in <mark class="text">. Annotations render the
// same way with an additional "annotation" class. A decoration's data.class
// is added to the element's classes and other data entries become data-*
// attributes. Animations emit one <pre> per frame carrying data-frame="i".
func HTML(opts ...HTMLOption) codemovie.Adapter {
	cfg := &htmlConfig{class: DefaultHTMLClass}
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
			if err := cfg.writeFrame(&sb, lexer, langName(lang), c, -1); err != nil {
				return "", err
			}
		case codemovie.Frames:
			for i, frame := range c {
				if err := cfg.writeFrame(&sb, lexer, langName(lang), frame, i); err != nil {
					return "", fmt.Errorf("frame %d: %w", i, err)
				}
			}
		default:
			return "", fmt.Errorf("unsupported content %T", content)
		}
		return sb.String(), nil
	}
}

func (c *htmlConfig) writeFrame(sb *strings.Builder, lexer chroma.Lexer, lang string, frame codemovie.Frame, index int) error {
	l, err := newLayout(lexer, frame)
	if err != nil {
		return err
	}

	sb.WriteString(`<pre class="`)
	sb.WriteString(escape(c.class))
	sb.WriteString(`" data-lang="`)
	sb.WriteString(escape(lang))
	sb.WriteString(`"`)
	if index >= 0 {
		sb.WriteString(` data-frame="`)
		sb.WriteString(strconv.Itoa(index))
		sb.WriteString(`"`)
	}
	sb.WriteString(`><code>`)

	for i, ln := range l.lines {
		if i > 0 {
			sb.WriteByte('\n')
		}
		writeLine(sb, l, i+1, ln)
	}

	sb.WriteString(`</code></pre>`)
	return nil
}

func writeLine(sb *strings.Builder, l *layout, n int, ln line) {
	a := newAttrs("line")
	highlights := l.overlays(n, codemovie.DecorationLine)
	if len(highlights) > 0 {
		a.classes = append(a.classes, "highlight")
	}
	for _, o := range highlights {
		a.merge(o)
	}
	writeOpen(sb, "span", a)

	for _, o := range l.overlays(n, codemovie.DecorationGutter) {
		g := newAttrs("gutter")
		g.merge(o)
		writeOpen(sb, "span", g)
		sb.WriteString(escape(o.Text()))
		sb.WriteString(`</span>`)
	}

	for _, s := range ln {
		marks := l.marks(s)
		for _, o := range marks {
			m := newAttrs("text")
			m.merge(o)
			writeOpen(sb, "mark", m)
		}
		writeToken(sb, s)
		for range marks {
			sb.WriteString(`</mark>`)
		}
	}

	sb.WriteString(`</span>`)
}

func writeToken(sb *strings.Builder, s segment) {
	cls := tokenClass(s.typ)
	if cls == "" {
		sb.WriteString(escape(s.text))
		return
	}
	sb.WriteString(`<span class="`)
	sb.WriteString(cls)
	sb.WriteString(`">`)
	sb.WriteString(escape(s.text))
	sb.WriteString(`</span>`)
}

func writeOpen(sb *strings.Builder, tag string, a *attrs) {
	sb.WriteByte('<')
	sb.WriteString(tag)
	sb.WriteString(` class="`)
	sb.WriteString(escape(strings.Join(a.classes, " ")))
	sb.WriteByte('"')
	for _, k := range a.sortedData() {
		sb.WriteString(` data-`)
		sb.WriteString(k)
		sb.WriteString(`="`)
		sb.WriteString(escape(a.data[k]))
		sb.WriteByte('"')
	}
	sb.WriteByte('>')
}

func escape(s string) string {
	return string(util.EscapeHTML([]byte(s)))
}
