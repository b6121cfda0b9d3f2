// render.go bridges tokens to the caller's adapter and wraps animations for the player runtime.
package codemovie

import (
	"fmt"
	"strconv"
	"strings"
)

// Adapter renders a frame (highlight blocks) or frames (animations) to
// markup. lang is the resolved descriptor and tok the block being rendered.
type Adapter func(content Content, lang Language, tok Token) (string, error)

// Runtime configures the <code-movie-runtime> wrapper emitted around animations.
type Runtime struct {
	Controls bool // adds controls="controls"
}

// Bridge renders tokens with an adapter.
type Bridge struct {
	adapter  Adapter
	resolver *Resolver
	runtime  *Runtime
}

// NewBridge returns a Bridge. runtime may be nil to disable the wrapper.
func NewBridge(adapter Adapter, resolver *Resolver, runtime *Runtime) *Bridge {
	return &Bridge{adapter: adapter, resolver: resolver, runtime: runtime}
}

// Render produces the markup for tok. Argument errors recorded while parsing
// the block and language resolution errors are returned before the adapter
// is called.
func (b *Bridge) Render(tok Token) (string, error) {
	if err := tok.Err(); err != nil {
		return "", err
	}

	lang, err := b.resolver.Resolve(tok.Language(), tok)
	if err != nil {
		return "", err
	}

	switch t := tok.(type) {
	case *Highlight:
		frame := Frame{
			Code:        t.Frame.Code,
			Decorations: t.Frame.Decorations,
			Annotations: t.Frame.Annotations,
		}
		out, err := b.adapter(frame, lang, t)
		if err != nil {
			return "", fmt.Errorf("rendering highlight block at line %d: %w", t.Line, err)
		}
		return out, nil

	case *Animation:
		out, err := b.adapter(t.Frames, lang, t)
		if err != nil {
			return "", fmt.Errorf("rendering animation block at line %d: %w", t.Line, err)
		}
		return WrapRuntime(out, len(t.Frames), b.runtime), nil
	}

	return "", fmt.Errorf("unsupported token %T", tok)
}

// WrapRuntime wraps the markup of an animation with n frames in a
// <code-movie-runtime> element listing the keyframe indices. A nil runtime
// returns markup unchanged.
func WrapRuntime(markup string, n int, runtime *Runtime) string {
	if runtime == nil {
		return markup
	}

	keyframes := make([]string, n)
	for i := range keyframes {
		keyframes[i] = strconv.Itoa(i)
	}

	var sb strings.Builder
	sb.WriteString(`<code-movie-runtime keyframes="`)
	sb.WriteString(strings.Join(keyframes, " "))
	sb.WriteString(`"`)
	if runtime.Controls {
		sb.WriteString(` controls="controls"`)
	}
	sb.WriteString(`>`)
	sb.WriteString(markup)
	sb.WriteString(`</code-movie-runtime>`)
	return sb.String()
}
