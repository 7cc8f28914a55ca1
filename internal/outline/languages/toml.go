package languages

import (
	"codebrief/internal/outline"

	"github.com/smacker/go-tree-sitter/toml"
)

// RegisterTOML outlines manifests by their [table] headers.
func RegisterTOML(r *outline.Registry) {
	r.Register("toml", &outline.LanguageSpec{
		Language: toml.GetLanguage(),
		Query: `
			(table (bare_key) @name) @def
			(table (dotted_key) @name) @def
			(table_array_element (bare_key) @name) @def
		`,
		Extensions: []string{"toml"},
	})
}
