// errors.go defines the closed set of errors surfaced by parsing and rendering.
package codemovie

import (
	"errors"
	"fmt"
)

var (
	// ErrSyntax matches every *SyntaxError via errors.Is.
	ErrSyntax = errors.New("invalid block arguments")
	// ErrUnavailableLanguage matches every *LanguageError via errors.Is.
	ErrUnavailableLanguage = errors.New("language not available")

	ErrNoAdapter   = errors.New("codemovie: adapter is required")
	ErrNoLanguages = errors.New("codemovie: languages table is required")
)

// SyntaxError reports a meta, decorations or annotations value that could not
// be decoded or did not have the expected shape.
type SyntaxError struct {
	Arg    string // "meta", "decorations" or "annotations"
	Value  string // the offending value text
	Source string // the full source span of the block
	Reason string // shape violation, set when Err is nil
	Err    error  // decoder failure
}

func (e *SyntaxError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("unable to parse value of argument '%s': %v", e.Arg, e.Err)
	}
	return fmt.Sprintf("invalid value of argument '%s': %s", e.Arg, e.Reason)
}

func (e *SyntaxError) Unwrap() error {
	return e.Err
}

func (e *SyntaxError) Is(target error) bool {
	return target == ErrSyntax
}

// LanguageError reports a block whose language is missing from the language
// table while no fallback is configured.
type LanguageError struct {
	Lang  string
	Token Token
}

func (e *LanguageError) Error() string {
	if e.Token != nil {
		return fmt.Sprintf("language '%s' not available (line %d)", e.Lang, e.Token.Source().Line)
	}
	return fmt.Sprintf("language '%s' not available", e.Lang)
}

func (e *LanguageError) Is(target error) bool {
	return target == ErrUnavailableLanguage
}
