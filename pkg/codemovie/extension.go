// extension.go wires the block scanner into goldmark as block parsers and a node renderer.
package codemovie

import (
	"bytes"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

// startBlock opens a block at the reader's current line. Container markers
// such as "> " have already been consumed by goldmark; the following lines
// are checked up front with the same markers stripped, so that a block
// without an end marker is left to the host grammar.
func startBlock(reader text.Reader, pc parser.Context, kind BlockKind) (openBlock, Span, bool) {
	if pc.BlockOffset() < 0 {
		return openBlock{}, Span{}, false
	}

	line, segment := reader.PeekLine()
	source := reader.Source()
	if !lookahead(source, segment.Start, kind) {
		return openBlock{}, Span{}, false
	}

	first := newSourceLine(line)
	scanner := newBlockScanner(kind)
	if !scanner.feed(first.text, first.eol) {
		return openBlock{}, Span{}, false
	}

	span := Span{
		Line:   bytes.Count(source[:segment.Start], []byte{'\n'}) + 1,
		Offset: segment.Start,
	}
	return openBlock{scanner: scanner, rawEnd: segment.Stop - len(first.eol)}, span, true
}

// lookahead reports whether a complete block of the given kind starts at
// offset, reading continuation lines through the container markers found in
// front of the opening fence.
func lookahead(source []byte, offset int, kind BlockKind) bool {
	lineStart := bytes.LastIndexByte(source[:offset], '\n') + 1
	prefix := parseContainerPrefix(string(source[lineStart:offset]))

	lines := &lineReader{src: source, pos: offset}
	first := true
	_, ok := scan(func() (sourceLine, bool) {
		line, ok := lines.next()
		if !ok || first {
			first = false
			return line, ok
		}
		line.text, ok = prefix.strip(line.text)
		return line, ok
	}, kind)
	return ok
}

// continueBlock feeds one container-stripped line to an open block. The end
// marker line is consumed up to its line break so goldmark does not try to
// open another block on it.
func continueBlock(tok Token, reader text.Reader) parser.State {
	open := tok.pending()
	line, segment := reader.PeekLine()
	l := newSourceLine(line)
	open.scanner.feed(l.text, l.eol)
	open.rawEnd = segment.Stop - len(l.eol)

	if !open.scanner.done() {
		return parser.Continue | parser.NoChildren
	}

	newline := 0
	if len(line) > 0 && line[len(line)-1] == '\n' {
		newline = 1
	}
	reader.Advance(segment.Stop - segment.Start - newline + segment.Padding)
	return parser.Close
}

type highlightParser struct {
	cfg *config
}

func (p *highlightParser) Trigger() []byte {
	return []byte{'`'}
}

func (p *highlightParser) Open(parent ast.Node, reader text.Reader, pc parser.Context) (ast.Node, parser.State) {
	open, span, ok := startBlock(reader, pc, BlockHighlight)
	if !ok {
		return nil, parser.NoChildren
	}
	return &Highlight{openBlock: open, Span: span}, parser.NoChildren
}

func (p *highlightParser) Continue(node ast.Node, reader text.Reader, pc parser.Context) parser.State {
	return continueBlock(node.(Token), reader)
}

func (p *highlightParser) Close(node ast.Node, reader text.Reader, pc parser.Context) {
	n := node.(*Highlight)
	p.cfg.assembleHighlight(n, n.finish(reader.Source(), &n.Span))
}

func (p *highlightParser) CanInterruptParagraph() bool {
	return true
}

func (p *highlightParser) CanAcceptIndentedLine() bool {
	return false
}

type animationParser struct {
	cfg   *config
	depth int
}

func (p *animationParser) Trigger() []byte {
	return []byte{'!'}
}

func (p *animationParser) Open(parent ast.Node, reader text.Reader, pc parser.Context) (ast.Node, parser.State) {
	if p.depth >= p.cfg.maxDepth {
		p.cfg.log.Debug().Int("depth", p.depth).Msg("animation nesting limit reached")
		return nil, parser.NoChildren
	}

	open, span, ok := startBlock(reader, pc, BlockAnimation)
	if !ok {
		return nil, parser.NoChildren
	}
	return &Animation{openBlock: open, Span: span}, parser.NoChildren
}

func (p *animationParser) Continue(node ast.Node, reader text.Reader, pc parser.Context) parser.State {
	return continueBlock(node.(Token), reader)
}

func (p *animationParser) Close(node ast.Node, reader text.Reader, pc parser.Context) {
	n := node.(*Animation)
	p.cfg.assembleAnimation(n, n.finish(reader.Source(), &n.Span), p.depth)
}

func (p *animationParser) CanInterruptParagraph() bool {
	return true
}

func (p *animationParser) CanAcceptIndentedLine() bool {
	return false
}

// nodeRenderer writes the bridge output for highlight and animation nodes.
type nodeRenderer struct {
	bridge *Bridge
}

func (r *nodeRenderer) RegisterFuncs(reg renderer.NodeRendererFuncRegisterer) {
	reg.Register(KindHighlight, r.renderToken)
	reg.Register(KindAnimation, r.renderToken)
}

func (r *nodeRenderer) renderToken(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		return ast.WalkContinue, nil
	}

	out, err := r.bridge.Render(node.(Token))
	if err != nil {
		return ast.WalkStop, err
	}
	if _, err := w.WriteString(out); err != nil {
		return ast.WalkStop, err
	}
	return ast.WalkSkipChildren, nil
}

// Extension recognizes highlight and animation blocks in Markdown and renders
// them through an adapter.
type Extension struct {
	cfg      *config
	bridge   *Bridge
	markdown goldmark.Markdown
}

// New returns an Extension rendering blocks with adapter and resolving their
// languages against languages.
func New(adapter Adapter, languages LanguageTable, opts ...Option) (*Extension, error) {
	if adapter == nil {
		return nil, ErrNoAdapter
	}
	if languages == nil {
		return nil, ErrNoLanguages
	}

	cfg := defaultConfig()
	cfg.adapter = adapter
	cfg.languages = languages
	for _, opt := range opts {
		opt(cfg)
	}

	resolver := NewResolver(languages, cfg.fallback)
	resolver.log = cfg.log

	e := &Extension{
		cfg:    cfg,
		bridge: NewBridge(adapter, resolver, cfg.runtime),
	}
	e.markdown = newMarkdown(e)
	return e, nil
}

// Extend implements goldmark.Extender. Animation bodies are re-parsed with
// goldmark's default block grammar plus this extension, not with m's parser,
// so block parsers other extensions add to m do not apply inside animations.
func (e *Extension) Extend(m goldmark.Markdown) {
	m.Parser().AddOptions(parser.WithBlockParsers(e.cfg.blockParsers(0)...))
	m.Renderer().AddOptions(renderer.WithNodeRenderers(
		util.Prioritized(&nodeRenderer{bridge: e.bridge}, 100),
	))
}
