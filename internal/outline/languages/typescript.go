package languages

import (
	"codebrief/internal/outline"

	"github.com/smacker/go-tree-sitter/typescript/typescript"
)

func RegisterTypeScript(r *outline.Registry) {
	r.Register("typescript", &outline.LanguageSpec{
		Language: typescript.GetLanguage(),
		Query: `
			(function_declaration name: (identifier) @name) @def
			(class_declaration name: (type_identifier) @name) @def
			(method_definition name: (property_identifier) @name) @def
			(export_statement (function_declaration name: (identifier) @name)) @def
			(export_statement (class_declaration name: (type_identifier) @name)) @def
			(lexical_declaration (variable_declarator name: (identifier) @name value: (arrow_function))) @def
			(interface_declaration name: (type_identifier) @name) @def
			(type_alias_declaration name: (type_identifier) @name) @def
		`,
		Extensions: []string{"ts", "tsx"},
	})
}
