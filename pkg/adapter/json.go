package adapter

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/open-cli-collective/codemovie/pkg/codemovie"
)

// JSON returns a debugging adapter that emits the adapter input as
//
//	{"frame": {...}, "lang": "JSON", "meta": {...}}
//
// for highlight blocks, or with "frames" for animations. meta is the block's
// own metadata (the frame's for highlight blocks).
func JSON() codemovie.Adapter {
	return func(content codemovie.Content, lang codemovie.Language, tok codemovie.Token) (string, error) {
		out := map[string]any{"lang": langName(lang)}

		switch c := content.(type) {
		case codemovie.Frame:
			out["frame"] = c
		case codemovie.Frames:
			out["frames"] = c
		default:
			return "", fmt.Errorf("unsupported content %T", content)
		}

		switch t := tok.(type) {
		case *codemovie.Highlight:
			out["meta"] = t.Frame.Meta
		case *codemovie.Animation:
			out["meta"] = t.Meta
		}

		var buf bytes.Buffer
		enc := json.NewEncoder(&buf)
		enc.SetEscapeHTML(false)
		if err := enc.Encode(out); err != nil {
			return "", err
		}
		return string(bytes.TrimSuffix(buf.Bytes(), []byte("\n"))), nil
	}
}
