// options.go holds the extension configuration and its functional options.
package codemovie

import "github.com/rs/zerolog"

// DefaultMaxDepth limits how deeply animation blocks are recognized inside
// other animation blocks.
const DefaultMaxDepth = 8

// config is threaded through every parser and renderer of one Extension.
// It is never modified after New returns.
type config struct {
	adapter   Adapter
	languages LanguageTable
	fallback  FallbackFunc
	runtime   *Runtime
	lenient   bool
	decoder   ValueDecoder
	maxDepth  int
	log       zerolog.Logger
}

func defaultConfig() *config {
	return &config{
		decoder:  JSON5,
		maxDepth: DefaultMaxDepth,
		log:      zerolog.Nop(),
	}
}

// Option configures an Extension.
type Option func(*config)

// WithMissingLanguage sets the fallback used for languages missing from the
// table. Without it, such blocks fail with a *LanguageError.
func WithMissingLanguage(f FallbackFunc) Option {
	return func(c *config) {
		c.fallback = f
	}
}

// WithRuntime wraps animation output in a <code-movie-runtime> element.
func WithRuntime(controls bool) Option {
	return func(c *config) {
		c.runtime = &Runtime{Controls: controls}
	}
}

// WithLenientArguments replaces malformed meta, decorations and annotations
// values with empty defaults instead of failing with a *SyntaxError.
func WithLenientArguments() Option {
	return func(c *config) {
		c.lenient = true
	}
}

// WithValueDecoder sets the grammar used for argument values. Default: JSON5.
func WithValueDecoder(d ValueDecoder) Option {
	return func(c *config) {
		if d != nil {
			c.decoder = d
		}
	}
}

// WithMaxDepth sets how many levels of nested animation blocks are
// recognized. Values below 1 are ignored.
func WithMaxDepth(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.maxDepth = n
		}
	}
}

// WithLogger sets the logger for diagnostics. Default: zerolog.Nop().
func WithLogger(l zerolog.Logger) Option {
	return func(c *config) {
		c.log = l
	}
}
