// assemble.go turns scanned blocks into Highlight and Animation nodes.
package codemovie

import (
	"strings"

	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

// assembleHighlight builds the single frame of a highlight block. An argument
// error is recorded on the node and surfaces when the node is rendered or
// returned by Parse.
func (c *config) assembleHighlight(node *Highlight, blk *Block) {
	node.Lang = blk.Lang

	args, err := c.parseArgs(blk.Args, blk.Raw)
	if err != nil {
		node.err = err
		args = Arguments{Meta: Meta{}, Decorations: []Decoration{}, Annotations: []Decoration{}}
	}

	node.Frame = Frame{
		Code:        blk.Content,
		Decorations: args.Decorations,
		Annotations: args.Annotations,
		Meta:        args.Meta,
	}
}

// assembleAnimation parses the animation's own arguments and re-tokenizes its
// content one nesting level deeper to collect the frames.
func (c *config) assembleAnimation(node *Animation, blk *Block, depth int) {
	node.Lang, node.Meta, node.Frames = blk.Lang, Meta{}, Frames{}

	args, err := c.parseArgs(blk.Args, blk.Raw)
	if err != nil {
		node.err = err
		return
	}
	node.Meta = args.Meta

	if strings.TrimSpace(blk.Content) == "" {
		return
	}

	source := []byte(blk.Content)
	doc := c.newParser(depth + 1).Parse(text.NewReader(source))
	frames, err := collectFrames(doc, source)
	if err != nil {
		node.err = err
		return
	}
	node.Frames = frames
}

// collectFrames keeps, in document order, highlight blocks and plain fenced
// code blocks at any container depth. Every other node contributes nothing.
func collectFrames(doc ast.Node, source []byte) (Frames, error) {
	frames := Frames{}

	err := ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}

		switch node := n.(type) {
		case *Highlight:
			if node.err != nil {
				return ast.WalkStop, node.err
			}
			frames = append(frames, node.Frame)
		case *Animation:
			return ast.WalkSkipChildren, nil
		case *ast.FencedCodeBlock:
			code := string(node.Lines().Value(source))
			frames = append(frames, plainFrame(strings.TrimSuffix(code, "\n")))
		}
		return ast.WalkContinue, nil
	})

	return frames, err
}

// newParser returns a goldmark parser with the default block grammar and this
// extension's block parsers at the given nesting depth.
func (c *config) newParser(depth int) parser.Parser {
	blockParsers := append(parser.DefaultBlockParsers(), c.blockParsers(depth)...)
	return parser.NewParser(
		parser.WithBlockParsers(blockParsers...),
		parser.WithInlineParsers(parser.DefaultInlineParsers()...),
		parser.WithParagraphTransformers(parser.DefaultParagraphTransformers()...),
	)
}

// blockParserPriority places the block parsers ahead of goldmark's fenced
// code block parser (700).
const blockParserPriority = 650

func (c *config) blockParsers(depth int) []util.PrioritizedValue {
	return []util.PrioritizedValue{
		util.Prioritized(&highlightParser{cfg: c}, blockParserPriority),
		util.Prioritized(&animationParser{cfg: c, depth: depth}, blockParserPriority),
	}
}
