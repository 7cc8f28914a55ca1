package languages

import (
	"codebrief/internal/outline"

	"github.com/smacker/go-tree-sitter/rust"
)

func RegisterRust(r *outline.Registry) {
	r.Register("rust", &outline.LanguageSpec{
		Language: rust.GetLanguage(),
		Query: `
			(function_item name: (identifier) @name) @def
			(struct_item name: (type_identifier) @name) @def
			(enum_item name: (type_identifier) @name) @def
			(trait_item name: (type_identifier) @name) @def
			(impl_item type: (type_identifier) @name) @def
			(impl_item type: (generic_type type: (type_identifier) @name)) @def
			(mod_item name: (identifier) @name) @def
			(macro_definition name: (identifier) @name) @def
		`,
		Extensions: []string{"rs"},
	})
}
