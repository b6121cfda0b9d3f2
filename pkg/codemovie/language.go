// language.go resolves language identifiers against the caller's language table.
package codemovie

import "github.com/rs/zerolog"

// Language is an opaque, caller-owned language descriptor handed to adapters.
type Language any

// LanguageTable maps language identifiers to descriptors. The extension never
// mutates it.
type LanguageTable map[string]Language

// FallbackFunc produces a descriptor for a language missing from the table.
// Its result is used as is.
type FallbackFunc func(lang string, languages LanguageTable, tok Token) (Language, error)

// FallbackTo returns a FallbackFunc that substitutes the descriptor registered
// under name, e.g. "plaintext".
func FallbackTo(name string) FallbackFunc {
	return func(lang string, languages LanguageTable, tok Token) (Language, error) {
		if desc, ok := languages[name]; ok {
			return desc, nil
		}
		return nil, &LanguageError{Lang: lang, Token: tok}
	}
}

// Resolver maps the language of a block to its descriptor.
type Resolver struct {
	languages LanguageTable
	fallback  FallbackFunc
	log       zerolog.Logger
}

// NewResolver returns a Resolver over languages. fallback may be nil, in
// which case unknown languages fail with a *LanguageError.
func NewResolver(languages LanguageTable, fallback FallbackFunc) *Resolver {
	return &Resolver{languages: languages, fallback: fallback, log: zerolog.Nop()}
}

// Resolve returns the descriptor for lang. tok is the block being rendered
// and is passed to the fallback and attached to errors.
func (r *Resolver) Resolve(lang string, tok Token) (Language, error) {
	if desc, ok := r.languages[lang]; ok {
		return desc, nil
	}

	if r.fallback == nil {
		return nil, &LanguageError{Lang: lang, Token: tok}
	}

	r.log.Debug().Str("lang", lang).Msg("language not in table, using fallback")
	return r.fallback(lang, r.languages, tok)
}
