// decoder.go provides the relaxed JSON grammars used to decode argument values.
package codemovie

import (
	"fmt"

	"github.com/titanous/json5"
	"gopkg.in/yaml.v3"
)

// ValueDecoder decodes one argument value into plain Go values: objects as
// map[string]any, arrays as []any, and numbers, strings, booleans or nil.
type ValueDecoder interface {
	Decode(value string) (any, error)
}

// ValueDecoderFunc adapts a function to the ValueDecoder interface.
type ValueDecoderFunc func(value string) (any, error)

// Decode calls f(value).
func (f ValueDecoderFunc) Decode(value string) (any, error) {
	return f(value)
}

var (
	// JSON5 accepts JSON5: unquoted keys, single quotes, trailing commas and comments.
	JSON5 ValueDecoder = ValueDecoderFunc(decodeJSON5)

	// YAMLFlow accepts YAML flow collections, e.g. {kind: GUTTER, line: 1}.
	YAMLFlow ValueDecoder = ValueDecoderFunc(decodeYAML)
)

func decodeJSON5(value string) (any, error) {
	var v any
	if err := json5.Unmarshal([]byte(value), &v); err != nil {
		return nil, err
	}
	return v, nil
}

func decodeYAML(value string) (any, error) {
	var v any
	if err := yaml.Unmarshal([]byte(value), &v); err != nil {
		return nil, err
	}
	return stringKeys(v), nil
}

// stringKeys rewrites map[any]any produced for non-string YAML keys so that
// every object is a map[string]any.
func stringKeys(v any) any {
	switch t := v.(type) {
	case map[string]any:
		for k, item := range t {
			t[k] = stringKeys(item)
		}
		return t
	case map[any]any:
		out := make(map[string]any, len(t))
		for k, item := range t {
			out[fmt.Sprint(k)] = stringKeys(item)
		}
		return out
	case []any:
		for i, item := range t {
			t[i] = stringKeys(item)
		}
		return t
	default:
		return v
	}
}
