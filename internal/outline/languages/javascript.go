package languages

import (
	"codebrief/internal/outline"

	"github.com/smacker/go-tree-sitter/javascript"
)

func RegisterJavaScript(r *outline.Registry) {
	r.Register("javascript", &outline.LanguageSpec{
		Language: javascript.GetLanguage(),
		Query: `
			(function_declaration name: (identifier) @name) @def
			(class_declaration name: (identifier) @name) @def
			(method_definition name: (property_identifier) @name) @def
			(export_statement (function_declaration name: (identifier) @name)) @def
			(export_statement (class_declaration name: (identifier) @name)) @def
			(lexical_declaration (variable_declarator name: (identifier) @name value: (arrow_function))) @def
		`,
		Extensions: []string{"js", "jsx", "mjs", "cjs"},
	})
}
