package adapter

import (
	"encoding/json"
	"sort"
	"strings"

	"github.com/alecthomas/chroma/v2"

	"github.com/open-cli-collective/codemovie/pkg/codemovie"
)

// segment is a run of text of one token type on one line. Segments never
// cross a TEXT decoration boundary.
type segment struct {
	typ   chroma.TokenType
	text  string
	start int // rune offset into the frame's code
}

type line []segment

// layout holds a tokenized frame and its decorations indexed for rendering.
type layout struct {
	lines  []line
	byLine map[int][]overlay // LINE and GUTTER, keyed by 1-based line
	text   []overlay         // TEXT
}

// overlay is a decoration together with the list it came from.
type overlay struct {
	codemovie.Decoration
	annotation bool
}

func newLayout(lexer chroma.Lexer, frame codemovie.Frame) (*layout, error) {
	l := &layout{byLine: map[int][]overlay{}}

	var cuts []int
	add := func(d codemovie.Decoration, annotation bool) {
		o := overlay{Decoration: d, annotation: annotation}
		switch d.Kind {
		case codemovie.DecorationText:
			from, okFrom := d.From()
			to, okTo := d.To()
			if okFrom && okTo && from < to {
				l.text = append(l.text, o)
				cuts = append(cuts, from, to)
			}
		default:
			if n, ok := d.Line(); ok {
				l.byLine[n] = append(l.byLine[n], o)
			}
		}
	}
	for _, d := range frame.Decorations {
		add(d, false)
	}
	for _, d := range frame.Annotations {
		add(d, true)
	}

	lines, err := splitLines(lexer, frame.Code, cuts)
	if err != nil {
		return nil, err
	}
	l.lines = lines
	return l, nil
}

// marks returns the TEXT overlays covering the segment, in declaration order.
func (l *layout) marks(s segment) []overlay {
	var out []overlay
	for _, o := range l.text {
		from, _ := o.From()
		to, _ := o.To()
		if from <= s.start && s.start < to {
			out = append(out, o)
		}
	}
	return out
}

// overlays returns the LINE or GUTTER overlays of the 1-based line n.
func (l *layout) overlays(n int, kind codemovie.DecorationKind) []overlay {
	var out []overlay
	for _, o := range l.byLine[n] {
		if o.Kind == kind {
			out = append(out, o)
		}
	}
	return out
}

// splitLines tokenizes code and cuts the tokens at line breaks and at the
// given rune offsets. The result has exactly one entry per line of code.
func splitLines(lexer chroma.Lexer, code string, cuts []int) ([]line, error) {
	it, err := lexer.Tokenise(nil, code)
	if err != nil {
		return nil, err
	}

	cutAt := make(map[int]bool, len(cuts))
	for _, c := range cuts {
		cutAt[c] = true
	}

	n := strings.Count(code, "\n") + 1
	lines := make([]line, 1, n)
	pos := 0

	for _, tok := range it.Tokens() {
		var sb strings.Builder
		start := pos
		flush := func() {
			if sb.Len() > 0 {
				lines[len(lines)-1] = append(lines[len(lines)-1], segment{typ: tok.Type, text: sb.String(), start: start})
				sb.Reset()
			}
		}

		for _, r := range tok.Value {
			if cutAt[pos] {
				flush()
				start = pos
			}
			pos++
			if r == '\n' {
				flush()
				start = pos
				lines = append(lines, nil)
				continue
			}
			sb.WriteRune(r)
		}
		flush()
	}

	// lexers configured with EnsureNL add a final line break
	if len(lines) > n {
		lines = lines[:n]
	}
	return lines, nil
}

// attrs collects the class list and data-* attributes of an element.
type attrs struct {
	classes []string
	data    map[string]string
}

func newAttrs(classes ...string) *attrs {
	return &attrs{classes: classes, data: map[string]string{}}
}

// merge adds the decoration's data. A "class" entry extends the class list;
// every other entry becomes a data-* attribute.
func (a *attrs) merge(o overlay) {
	if o.annotation {
		a.classes = append(a.classes, "annotation")
	}
	for k, v := range o.Data {
		if k == "class" {
			if s, ok := v.(string); ok && s != "" {
				a.classes = append(a.classes, strings.Fields(s)...)
			}
			continue
		}
		if name := attrName(k); name != "" {
			a.data[name] = attrValue(v)
		}
	}
}

// sortedData returns the data-* attribute names in sorted order.
func (a *attrs) sortedData() []string {
	keys := make([]string, 0, len(a.data))
	for k := range a.data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// attrName turns a data key into a valid attribute name suffix, or "" if it
// cannot be one.
func attrName(key string) string {
	key = strings.ToLower(key)
	for _, r := range key {
		if !(r >= 'a' && r <= 'z' || r >= '0' && r <= '9' || r == '-' || r == '_') {
			return ""
		}
	}
	return key
}

func attrValue(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	out, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return string(out)
}

// tokenClass returns the chroma CSS class of a token type, walking up to its
// sub-category and category.
func tokenClass(t chroma.TokenType) string {
	for _, candidate := range []chroma.TokenType{t, t.SubCategory(), t.Category()} {
		if cls, ok := chroma.StandardTypes[candidate]; ok {
			return cls
		}
	}
	return ""
}
