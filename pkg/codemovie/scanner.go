// scanner.go implements the line-oriented scanner for highlight and animation blocks.
package codemovie

import (
	"bytes"
	"strings"
	"unicode"
)

// BlockKind distinguishes the two block forms.
type BlockKind int

const (
	BlockHighlight BlockKind = iota // ```lang(args) ... ```
	BlockAnimation                  // !!!lang(args) ... !!!
)

func (k BlockKind) String() string {
	if k == BlockAnimation {
		return "animation"
	}
	return "highlight"
}

// fenceChar returns the delimiter character of the block kind.
func (k BlockKind) fenceChar() byte {
	if k == BlockAnimation {
		return '!'
	}
	return '`'
}

const (
	minFenceLength = 3
	maxFenceIndent = 3
)

// Block is a scanned block before its arguments are interpreted.
type Block struct {
	Kind    BlockKind
	Fence   int    // length of the delimiter run; the end marker has the same length
	Lang    string // language identifier, possibly empty
	Args    string // argument list without the enclosing parens
	HasArgs bool
	Content string // verbatim text between the argument list and the end marker
	Raw     string // consumed source, both fences included, without the final line break
	Lines   int    // number of source lines consumed, both fences included
}

// scanState is the state of the block scanner.
type scanState int

const (
	stateStart scanState = iota // opening fence line
	stateArgs                   // argument list spanning lines
	stateBody                   // content, looking for the end marker
	stateDone
)

// Scan recognizes a block of the given kind at the start of src, which must
// begin at a line start. It returns false when src does not start with a
// block of that kind, when the argument list is never closed, or when no end
// marker follows. None of these are errors: the caller falls back to the
// host engine's own grammar.
func Scan(src []byte, kind BlockKind) (*Block, bool) {
	lines := &lineReader{src: src}
	blk, ok := scan(lines.next, kind)
	if !ok {
		return nil, false
	}
	blk.Raw = string(src[:lines.lastEnd])
	return blk, true
}

// scan feeds lines to a blockScanner until the end marker. Raw is left to
// the caller.
func scan(next func() (sourceLine, bool), kind BlockKind) (*Block, bool) {
	s := newBlockScanner(kind)
	for !s.done() {
		line, ok := next()
		if !ok {
			// unclosed argument list or missing end marker
			return nil, false
		}
		if !s.feed(line.text, line.eol) {
			return nil, false
		}
	}
	return s.block(), true
}

// blockScanner is the incremental form of Scan: it is fed one line at a
// time, so the lines may come from the host engine after container markers
// such as "> " have been stripped.
type blockScanner struct {
	blk     Block
	state   scanState
	args    strings.Builder
	content strings.Builder
	eol     string // line break of the last content line, written lazily
	body    bool
}

func newBlockScanner(kind BlockKind) *blockScanner {
	return &blockScanner{blk: Block{Kind: kind}}
}

// feed consumes the next line, given without its line break. It returns
// false only when the first line does not open a block.
func (s *blockScanner) feed(text, eol string) bool {
	switch s.state {
	case stateStart:
		fence, lang, rest, hasArgs, matched := matchStart(text, s.blk.Kind)
		if !matched {
			return false
		}
		s.blk.Fence, s.blk.Lang, s.blk.HasArgs = fence, lang, hasArgs
		s.state = stateBody
		if hasArgs {
			s.args.WriteString(rest)
			if !argsClosed(s.args.String()) {
				s.state = stateArgs
			}
		}

	case stateArgs:
		s.args.WriteByte('\n')
		s.args.WriteString(text)
		if argsClosed(s.args.String()) {
			s.state = stateBody
		}

	case stateBody:
		if isEndMarker(text, s.blk.Kind.fenceChar(), s.blk.Fence) {
			s.state = stateDone
			break
		}
		if s.body {
			s.content.WriteString(s.eol)
		}
		s.content.WriteString(text)
		s.eol = eol
		s.body = true

	case stateDone:
		return true
	}

	s.blk.Lines++
	return true
}

// done reports whether the end marker has been consumed.
func (s *blockScanner) done() bool {
	return s.state == stateDone
}

// block returns what has been scanned so far.
func (s *blockScanner) block() *Block {
	blk := s.blk
	if blk.HasArgs {
		a := strings.TrimRightFunc(s.args.String(), unicode.IsSpace)
		blk.Args = strings.TrimSuffix(a, ")")
	}
	blk.Content = s.content.String()
	return &blk
}

// matchStart parses an opening fence line: up to three spaces of indentation,
// a delimiter run of at least three characters, an optional language and an
// optional "(" opening the argument list. Highlight blocks require the
// argument list; without it the line is an ordinary fenced code block.
func matchStart(line string, kind BlockKind) (fence int, lang, rest string, hasArgs, ok bool) {
	pos := 0
	for pos < len(line) && pos < maxFenceIndent && line[pos] == ' ' {
		pos++
	}

	fenceStart := pos
	for pos < len(line) && line[pos] == kind.fenceChar() {
		pos++
	}
	fence = pos - fenceStart
	if fence < minFenceLength {
		return 0, "", "", false, false
	}

	langStart := pos
	for pos < len(line) && isLangChar(line[pos]) {
		pos++
	}
	lang = line[langStart:pos]

	for pos < len(line) && (line[pos] == ' ' || line[pos] == '\t') {
		pos++
	}

	if pos < len(line) && line[pos] == '(' {
		return fence, lang, line[pos+1:], true, true
	}
	if kind == BlockAnimation && strings.TrimSpace(line[pos:]) == "" {
		return fence, lang, "", false, true
	}
	return 0, "", "", false, false
}

// argsClosed reports whether the collected argument text ends the list.
func argsClosed(args string) bool {
	return strings.HasSuffix(strings.TrimRightFunc(args, unicode.IsSpace), ")")
}

// isEndMarker reports whether line consists solely of exactly n fence characters.
func isEndMarker(line string, c byte, n int) bool {
	trimmed := strings.TrimSpace(line)
	if len(trimmed) != n {
		return false
	}
	for i := 0; i < len(trimmed); i++ {
		if trimmed[i] != c {
			return false
		}
	}
	return true
}

// isLangChar returns true if c is valid in a language identifier.
func isLangChar(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9') ||
		c == '-' || c == '_' || c == '+' || c == '.' || c == '#'
}

// sourceLine is one physical line split from its line break.
type sourceLine struct {
	text string
	eol  string // "\n", "\r\n" or "" on the last line
}

// newSourceLine splits a line as returned by the host engine's reader.
func newSourceLine(line []byte) sourceLine {
	text := string(line)
	for _, eol := range []string{"\r\n", "\n"} {
		if strings.HasSuffix(text, eol) {
			return sourceLine{text: strings.TrimSuffix(text, eol), eol: eol}
		}
	}
	return sourceLine{text: text}
}

// lineReader splits source into lines, accepting both LF and CRLF breaks.
type lineReader struct {
	src     []byte
	pos     int
	lastEnd int
}

func (r *lineReader) next() (sourceLine, bool) {
	if r.pos >= len(r.src) {
		return sourceLine{}, false
	}

	start := r.pos
	end := len(r.src)
	if i := bytes.IndexByte(r.src[start:], '\n'); i >= 0 {
		end = start + i + 1
	}
	r.pos = end

	line := newSourceLine(r.src[start:end])
	r.lastEnd = end - len(line.eol)
	return line, true
}
