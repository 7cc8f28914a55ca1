package languages

import (
	"codebrief/internal/outline"

	"github.com/smacker/go-tree-sitter/golang"
)

func RegisterGo(r *outline.Registry) {
	r.Register("go", &outline.LanguageSpec{
		Language: golang.GetLanguage(),
		Query: `
			(function_declaration name: (identifier) @name) @def
			(method_declaration name: (field_identifier) @name) @def
			(type_declaration (type_spec name: (type_identifier) @name)) @def
		`,
		Extensions: []string{"go"},
	})
}

