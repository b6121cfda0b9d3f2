// frame.go defines the frame and decoration data model handed to adapters.
package codemovie

import (
	"encoding/json"
	"math"
)

// Meta holds free-form metadata attached to a frame or an animation.
// Tokens always carry an object, never nil.
type Meta map[string]any

// DecorationKind names the overlay a Decoration describes.
type DecorationKind string

const (
	DecorationGutter DecorationKind = "GUTTER" // marker in the gutter of a line
	DecorationLine   DecorationKind = "LINE"   // highlight of a whole line
	DecorationText   DecorationKind = "TEXT"   // highlight of a character range
)

// decorationKinds is the closed set of kinds that survive normalization.
var decorationKinds = map[DecorationKind]bool{
	DecorationGutter: true,
	DecorationLine:   true,
	DecorationText:   true,
}

// Decoration is a renderer instruction overlaying a visual marker on a frame.
// Kind-specific fields are kept in Props exactly as the author wrote them.
type Decoration struct {
	Kind  DecorationKind
	Props map[string]any // line, text, from, to, ... (unvalidated)
	Data  map[string]any // defaults to an empty object; nil if data is not an object (kept in Props)
}

// Line returns the 1-based line number of GUTTER and LINE decorations.
func (d Decoration) Line() (int, bool) {
	return intProp(d.Props, "line")
}

// Text returns the gutter text of a GUTTER decoration.
func (d Decoration) Text() string {
	s, _ := d.Props["text"].(string)
	return s
}

// From returns the start character offset of a TEXT decoration.
func (d Decoration) From() (int, bool) {
	return intProp(d.Props, "from")
}

// To returns the end character offset (exclusive) of a TEXT decoration.
func (d Decoration) To() (int, bool) {
	return intProp(d.Props, "to")
}

// MarshalJSON flattens Props next to kind and data. A data value that is
// not an object is emitted as written.
func (d Decoration) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(d.Props)+2)
	for k, v := range d.Props {
		out[k] = v
	}
	out["kind"] = d.Kind
	if d.Data != nil {
		out["data"] = d.Data
	} else if _, ok := out["data"]; !ok {
		out["data"] = map[string]any{}
	}
	return json.Marshal(out)
}

// intProp reads an integral number regardless of which decoder produced it.
func intProp(props map[string]any, key string) (int, bool) {
	switch v := props[key].(type) {
	case int:
		return v, true
	case int64:
		return int(v), true
	case uint64:
		return int(v), true
	case float64:
		if v == math.Trunc(v) {
			return int(v), true
		}
	}
	return 0, false
}

// Content is what an adapter receives: a single Frame for highlight blocks
// or Frames for animations.
type Content interface {
	content()
}

// Frame is one code snippet with its decorations, annotations and metadata.
type Frame struct {
	Code        string
	Decorations []Decoration
	Annotations []Decoration
	Meta        Meta // nil for the frame of a highlight block passed to an adapter
}

func (Frame) content() {}

// MarshalJSON always emits decoration lists as arrays and omits a nil Meta.
func (f Frame) MarshalJSON() ([]byte, error) {
	out := struct {
		Code        string       `json:"code"`
		Decorations []Decoration `json:"decorations"`
		Annotations []Decoration `json:"annotations"`
		Meta        *Meta        `json:"meta,omitempty"`
	}{
		Code:        f.Code,
		Decorations: f.Decorations,
		Annotations: f.Annotations,
	}
	if out.Decorations == nil {
		out.Decorations = []Decoration{}
	}
	if out.Annotations == nil {
		out.Annotations = []Decoration{}
	}
	if f.Meta != nil {
		out.Meta = &f.Meta
	}
	return json.Marshal(out)
}

// Frames is the ordered frame sequence of an animation.
type Frames []Frame

func (Frames) content() {}

// plainFrame builds a frame without decorations or metadata.
func plainFrame(code string) Frame {
	return Frame{
		Code:        code,
		Decorations: []Decoration{},
		Annotations: []Decoration{},
		Meta:        Meta{},
	}
}
