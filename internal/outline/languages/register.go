package languages

import "codebrief/internal/outline"

// NewRegistry returns a registry with every bundled grammar registered.
func NewRegistry() *outline.Registry {
	r := outline.NewRegistry()
	RegisterGo(r)
	RegisterJavaScript(r)
	RegisterTypeScript(r)
	RegisterPython(r)
	RegisterRust(r)
	RegisterTOML(r)
	return r
}
