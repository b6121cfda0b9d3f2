// args.go parses the named-argument list of a block: meta=, decorations= and annotations=.
package codemovie

import (
	"fmt"
	"regexp"
	"strings"
)

// Argument names recognized inside a block's parenthesized argument list.
const (
	ArgMeta        = "meta"
	ArgDecorations = "decorations"
	ArgAnnotations = "annotations"
)

// reArgKey finds a recognized key at the start of the list or after an '@'
// or '|' separator, either optionally surrounded by whitespace. Keys inside
// a value, such as "meta=" in a string, are not separators.
var reArgKey = regexp.MustCompile(`(?:^\s*|[@|]\s*)(` + ArgMeta + `|` + ArgDecorations + `|` + ArgAnnotations + `)=`)

// Arguments is the interpreted argument list of a block.
type Arguments struct {
	Meta        Meta
	Decorations []Decoration
	Annotations []Decoration
}

// ParseArgs interprets a raw argument list (without the enclosing parens).
// source is the full text of the block and is attached to syntax errors.
// Text that is not part of a recognized key=value segment is ignored.
func ParseArgs(args, source string, opts ...Option) (Arguments, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg.parseArgs(args, source)
}

func (c *config) parseArgs(args, source string) (Arguments, error) {
	result := Arguments{
		Meta:        Meta{},
		Decorations: []Decoration{},
		Annotations: []Decoration{},
	}

	values := splitArgs(args)

	if value, ok := values[ArgMeta]; ok {
		meta, err := c.parseMeta(value, source)
		if err != nil {
			return Arguments{}, err
		}
		result.Meta = meta
	}

	for _, arg := range []string{ArgDecorations, ArgAnnotations} {
		value, ok := values[arg]
		if !ok {
			continue
		}
		decorations, err := c.parseDecorations(arg, value, source)
		if err != nil {
			return Arguments{}, err
		}
		if arg == ArgDecorations {
			result.Decorations = decorations
		} else {
			result.Annotations = decorations
		}
	}

	return result, nil
}

// splitArgs maps each recognized key to its raw value. A value runs up to the
// next recognized key or the end of the list; the first occurrence of a key wins.
func splitArgs(args string) map[string]string {
	values := make(map[string]string, 3)
	matches := reArgKey.FindAllStringSubmatchIndex(args, -1)

	for i, m := range matches {
		key := args[m[2]:m[3]]
		end := len(args)
		if i+1 < len(matches) {
			end = matches[i+1][0]
		}
		if _, seen := values[key]; !seen {
			values[key] = strings.TrimSpace(args[m[1]:end])
		}
	}

	return values
}

func (c *config) parseMeta(value, source string) (Meta, error) {
	decoded, err := c.decoder.Decode(value)
	if err != nil {
		return Meta{}, c.degrade(&SyntaxError{Arg: ArgMeta, Value: value, Source: source, Err: err})
	}

	obj, ok := decoded.(map[string]any)
	if !ok {
		return Meta{}, c.degrade(&SyntaxError{
			Arg:    ArgMeta,
			Value:  value,
			Source: source,
			Reason: "expected an object, got " + typeName(decoded),
		})
	}

	return Meta(obj), nil
}

func (c *config) parseDecorations(arg, value, source string) ([]Decoration, error) {
	decoded, err := c.decoder.Decode(value)
	if err != nil {
		return []Decoration{}, c.degrade(&SyntaxError{Arg: arg, Value: value, Source: source, Err: err})
	}

	var items []any
	switch v := decoded.(type) {
	case []any:
		items = v
	case map[string]any:
		items = []any{v}
	default:
		return []Decoration{}, c.degrade(&SyntaxError{
			Arg:    arg,
			Value:  value,
			Source: source,
			Reason: "expected an object or an array, got " + typeName(decoded),
		})
	}

	decorations := NormalizeDecorations(items)
	if dropped := len(items) - len(decorations); dropped > 0 {
		c.log.Debug().
			Str("arg", arg).
			Int("dropped", dropped).
			Msg("dropped decorations with unknown kind")
	}
	return decorations, nil
}

// degrade returns err unchanged in strict mode. In lenient mode the error is
// logged and swallowed so that the caller falls back to the default value.
func (c *config) degrade(err *SyntaxError) error {
	if !c.lenient {
		return err
	}
	c.log.Warn().
		Err(err).
		Str("arg", err.Arg).
		Str("value", err.Value).
		Msg("ignoring malformed block argument")
	return nil
}

// typeName names the JSON type of a decoded value for error messages.
func typeName(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case map[string]any:
		return "object"
	case []any:
		return "array"
	case string:
		return "string"
	case bool:
		return "boolean"
	case float64, int, int64, uint64:
		return "number"
	default:
		return fmt.Sprintf("%T", v)
	}
}
