// decoration.go normalizes decoded decoration values into typed overlays.
package codemovie

// NormalizeDecorations converts decoded decoration objects into Decorations,
// preserving their order. Elements that are not objects, or whose kind is not
// GUTTER, LINE or TEXT, are dropped without error so that documents written
// for newer renderers keep working.
func NormalizeDecorations(raw []any) []Decoration {
	decorations := make([]Decoration, 0, len(raw))
	for _, item := range raw {
		if d, ok := normalizeDecoration(item); ok {
			decorations = append(decorations, d)
		}
	}
	return decorations
}

func normalizeDecoration(item any) (Decoration, bool) {
	obj, ok := item.(map[string]any)
	if !ok {
		return Decoration{}, false
	}

	name, _ := obj["kind"].(string)
	kind := DecorationKind(name)
	if !decorationKinds[kind] {
		return Decoration{}, false
	}

	d := Decoration{
		Kind:  kind,
		Props: make(map[string]any, len(obj)),
		Data:  map[string]any{},
	}
	for k, v := range obj {
		switch k {
		case "kind":
		case "data":
			if data, ok := v.(map[string]any); ok {
				d.Data = data
			} else if v != nil {
				// passed through for the renderer to interpret
				d.Data = nil
				d.Props[k] = v
			}
		default:
			d.Props[k] = v
		}
	}
	return d, true
}
