// Package codemovie extends Markdown with highlight blocks (```lang(args) ... ```)
// and animation blocks (!!!lang(args) ... !!!) rendered through a caller-supplied
// adapter. Ordinary fenced code blocks and all other Markdown are left to the
// host engine.
package codemovie

import (
	"bytes"
	"io"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/text"
)

// newMarkdown returns a GFM goldmark instance extended with e.
func newMarkdown(e *Extension) goldmark.Markdown {
	return goldmark.New(
		goldmark.WithExtensions(extension.GFM, e),
	)
}

// Markdown returns the goldmark instance used by Convert.
func (e *Extension) Markdown() goldmark.Markdown {
	return e.markdown
}

// Convert renders the Markdown source to w. The first argument, language or
// adapter error aborts the conversion.
func (e *Extension) Convert(source []byte, w io.Writer) error {
	return e.markdown.Convert(source, w)
}

// ConvertString is Convert for in-memory use.
func (e *Extension) ConvertString(source string) (string, error) {
	var buf bytes.Buffer
	if err := e.Convert([]byte(source), &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// Parse returns the highlight and animation blocks of source in document
// order, including those nested in block quotes and list items, without
// rendering them. The first argument error found is returned alongside the
// tokens.
func (e *Extension) Parse(source []byte) ([]Token, error) {
	doc := e.markdown.Parser().Parse(text.NewReader(source))

	var (
		tokens   []Token
		firstErr error
	)
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		tok, ok := n.(Token)
		if !entering || !ok {
			return ast.WalkContinue, nil
		}
		tokens = append(tokens, tok)
		if firstErr == nil {
			firstErr = tok.Err()
		}
		return ast.WalkSkipChildren, nil
	})
	return tokens, firstErr
}

// Render renders a single token, as returned by Parse.
func (e *Extension) Render(tok Token) (string, error) {
	return e.bridge.Render(tok)
}
