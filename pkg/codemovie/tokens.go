// tokens.go defines the AST nodes produced for highlight and animation blocks.
package codemovie

import (
	"strconv"

	"github.com/yuin/goldmark/ast"
)

var (
	// KindHighlight is the NodeKind of *Highlight.
	KindHighlight = ast.NewNodeKind("CodeMovieHighlight")
	// KindAnimation is the NodeKind of *Animation.
	KindAnimation = ast.NewNodeKind("CodeMovieAnimation")
)

// Span locates a block in the parsed source.
type Span struct {
	Raw    string // exact source text consumed by the block
	Line   int    // 1-based line of the opening fence
	Offset int    // byte offset of the opening fence
}

// Token is a block recognized by this extension: *Highlight or *Animation.
type Token interface {
	ast.Node
	// Language returns the language identifier declared on the opening fence.
	Language() string
	// Source returns the location of the block in the parsed document.
	Source() Span
	// Err returns the argument syntax error found while parsing the block.
	Err() error

	pending() *openBlock
}

// openBlock is the scanner state of a block goldmark is still feeding lines
// to. It is released when the block closes.
type openBlock struct {
	scanner *blockScanner
	rawEnd  int // end of the last consumed line, line break excluded
}

func (o *openBlock) pending() *openBlock {
	return o
}

// finish completes the scanned block. Raw spans from the opening fence to
// the last consumed line and keeps any container markers in between.
func (o *openBlock) finish(source []byte, span *Span) *Block {
	blk := o.scanner.block()
	blk.Raw = string(source[span.Offset:o.rawEnd])
	span.Raw = blk.Raw
	o.scanner = nil
	return blk
}

// Highlight is a single annotated code frame: ```lang(args) ... ```.
type Highlight struct {
	ast.BaseBlock
	openBlock
	Span
	Lang  string
	Frame Frame
	err   error
}

// Kind implements ast.Node.
func (n *Highlight) Kind() ast.NodeKind {
	return KindHighlight
}

// IsRaw keeps goldmark from running inline parsers over the block.
func (n *Highlight) IsRaw() bool {
	return true
}

// Dump implements ast.Node.
func (n *Highlight) Dump(source []byte, level int) {
	ast.DumpHelper(n, source, level, map[string]string{
		"Lang":        n.Lang,
		"Line":        strconv.Itoa(n.Line),
		"Decorations": strconv.Itoa(len(n.Frame.Decorations)),
		"Annotations": strconv.Itoa(len(n.Frame.Annotations)),
	}, nil)
}

// Language implements Token.
func (n *Highlight) Language() string {
	return n.Lang
}

// Source implements Token.
func (n *Highlight) Source() Span {
	return n.Span
}

// Err implements Token.
func (n *Highlight) Err() error {
	return n.err
}

// Animation is an ordered sequence of frames sharing one language:
// !!!lang(args) ... !!!.
type Animation struct {
	ast.BaseBlock
	openBlock
	Span
	Lang   string
	Meta   Meta
	Frames Frames
	err    error
}

// Kind implements ast.Node.
func (n *Animation) Kind() ast.NodeKind {
	return KindAnimation
}

// IsRaw keeps goldmark from running inline parsers over the block.
func (n *Animation) IsRaw() bool {
	return true
}

// Dump implements ast.Node.
func (n *Animation) Dump(source []byte, level int) {
	ast.DumpHelper(n, source, level, map[string]string{
		"Lang":   n.Lang,
		"Line":   strconv.Itoa(n.Line),
		"Frames": strconv.Itoa(len(n.Frames)),
	}, nil)
}

// Language implements Token.
func (n *Animation) Language() string {
	return n.Lang
}

// Source implements Token.
func (n *Animation) Source() Span {
	return n.Span
}

// Err implements Token.
func (n *Animation) Err() error {
	return n.err
}
