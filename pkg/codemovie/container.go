// container.go strips the container markers (block quotes, list item
// indentation) that precede the lines of a block nested in a container.
package codemovie

import "strings"

// containerPart is one level of nesting: a block quote marker, or the
// content indentation of a list item.
type containerPart struct {
	quote  bool
	indent int
}

// containerPrefix is the nesting of a block's opening line, outermost first.
type containerPrefix []containerPart

// parseContainerPrefix derives the continuation prefix from the text that
// precedes an opening fence on its line, e.g. "> " or "1. ". List markers
// turn into indentation of the same width.
func parseContainerPrefix(prefix string) containerPrefix {
	var (
		parts  containerPrefix
		width  int
		marker bool
	)
	flush := func() {
		if width > 0 && marker {
			parts = append(parts, containerPart{indent: width})
		}
		width, marker = 0, false
	}

	for i := 0; i < len(prefix); i++ {
		switch c := prefix[i]; {
		case c == '>':
			// up to three spaces may precede a quote marker
			if marker || width > 3 {
				flush()
			}
			width, marker = 0, false
			parts = append(parts, containerPart{quote: true})
			if i+1 < len(prefix) && (prefix[i+1] == ' ' || prefix[i+1] == '\t') {
				i++
			}
		case c == ' ' || c == '\t':
			width++
		default:
			width++
			marker = true
		}
	}
	if width > 0 {
		marker = true
	}
	flush()
	return parts
}

// strip removes the prefix from a continuation line. It returns false when
// the line does not continue every container.
func (p containerPrefix) strip(line string) (string, bool) {
	for _, part := range p {
		if strings.TrimSpace(line) == "" && !part.quote {
			return "", true
		}
		if part.quote {
			rest := strings.TrimLeft(line, " ")
			if len(line)-len(rest) > 3 || !strings.HasPrefix(rest, ">") {
				return "", false
			}
			line = rest[1:]
			if strings.HasPrefix(line, " ") || strings.HasPrefix(line, "\t") {
				line = line[1:]
			}
			continue
		}
		if len(line) < part.indent || strings.TrimLeft(line[:part.indent], " ") != "" {
			return "", false
		}
		line = line[part.indent:]
	}
	return line, true
}
