// Package adapter provides reference adapters and a language table backed by
// chroma lexers.
package adapter

import (
	"fmt"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/lexers"

	"github.com/open-cli-collective/codemovie/pkg/codemovie"
)

// Plaintext is the table key of the lexer used when no highlighting applies.
const Plaintext = "plaintext"

// Languages returns a table mapping every chroma lexer name and alias to its
// chroma.Lexer. It always contains Plaintext.
func Languages() codemovie.LanguageTable {
	names := lexers.Names(true)
	table := make(codemovie.LanguageTable, len(names)+1)
	for _, name := range names {
		if lexer := lexers.Get(name); lexer != nil {
			table[name] = lexer
		}
	}
	if _, ok := table[Plaintext]; !ok {
		table[Plaintext] = lexers.Fallback
	}
	return table
}

// MissingLanguage is a fallback that guesses a lexer from the language name
// (e.g. a file extension) and otherwise uses Plaintext.
func MissingLanguage(lang string, languages codemovie.LanguageTable, tok codemovie.Token) (codemovie.Language, error) {
	if lang != "" {
		if lexer := lexers.Get(lang); lexer != nil {
			return lexer, nil
		}
	}
	if desc, ok := languages[Plaintext]; ok {
		return desc, nil
	}
	return lexers.Fallback, nil
}

// lexerFor asserts that a resolved descriptor is a chroma lexer.
func lexerFor(lang codemovie.Language) (chroma.Lexer, error) {
	lexer, ok := lang.(chroma.Lexer)
	if !ok {
		return nil, fmt.Errorf("unsupported language descriptor %T", lang)
	}
	return chroma.Coalesce(lexer), nil
}

// langName returns the lexer name used in data-lang attributes and JSON output.
func langName(lang codemovie.Language) string {
	if lexer, ok := lang.(chroma.Lexer); ok {
		return lexer.Config().Name
	}
	return fmt.Sprint(lang)
}
