// Package outline extracts the top-level definitions of a source file with
// tree-sitter so prompts can name what a file declares.
package outline

import (
	"context"
	"fmt"
	"sort"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
)

// maxSymbols caps how many definitions are reported for one file.
const maxSymbols = 40

// Symbol is one top-level definition.
type Symbol struct {
	Name      string
	Kind      string
	StartLine int
	EndLine   int
}

// Extractor parses source files and lists their definitions.
type Extractor struct {
	registry *Registry
}

// NewExtractor creates an extractor backed by the given registry.
func NewExtractor(r *Registry) *Extractor {
	return &Extractor{registry: r}
}

// Language returns the registered language name for path, or "".
func (e *Extractor) Language(path string) string {
	return e.registry.LanguageName(path)
}

// Outline returns the definitions in src, in source order. If no grammar is
// registered for the file, it returns nil.
func (e *Extractor) Outline(ctx context.Context, path string, src []byte) ([]Symbol, error) {
	spec := e.registry.Lookup(path)
	if spec == nil {
		return nil, nil
	}

	parser := sitter.NewParser()
	defer parser.Close()
	parser.SetLanguage(spec.Language)
	tree, err := parser.ParseCtx(ctx, nil, src)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	defer tree.Close()

	q, err := sitter.NewQuery([]byte(spec.Query), spec.Language)
	if err != nil {
		return nil, fmt.Errorf("compile query for %s: %w", spec.Name, err)
	}
	defer q.Close()

	qc := sitter.NewQueryCursor()
	defer qc.Close()
	qc.Exec(q, tree.RootNode())

	var captures []capture
	for {
		m, ok := qc.NextMatch()
		if !ok {
			break
		}
		var defNode *sitter.Node
		var nameStr string
		for _, cap := range m.Captures {
			switch q.CaptureNameForId(cap.Index) {
			case "def":
				defNode = cap.Node
			case "name":
				nameStr = cap.Node.Content(src)
			}
		}
		if defNode == nil {
			continue
		}
		captures = append(captures, capture{
			name:      nameStr,
			kind:      defNode.Type(),
			startLine: int(defNode.StartPoint().Row) + 1,
			endLine:   int(defNode.EndPoint().Row) + 1,
			startByte: defNode.StartByte(),
			endByte:   defNode.EndByte(),
		})
	}

	// Nested matches (methods inside classes) collapse into their outer node.
	captures = dedup(captures)

	symbols := make([]Symbol, 0, len(captures))
	for _, c := range captures {
		symbols = append(symbols, Symbol{
			Name:      c.name,
			Kind:      c.kind,
			StartLine: c.startLine,
			EndLine:   c.endLine,
		})
		if len(symbols) == maxSymbols {
			break
		}
	}
	return symbols, nil
}

// Format renders symbols one per line as "- kind name (lines a-b)".
func Format(symbols []Symbol) string {
	var b strings.Builder
	for _, s := range symbols {
		name := s.Name
		if name == "" {
			name = "(anonymous)"
		}
		fmt.Fprintf(&b, "- %s %s (lines %d-%d)\n", s.Kind, name, s.StartLine, s.EndLine)
	}
	return b.String()
}

// dedup removes captures that are fully contained within a larger capture.
func dedup(caps []capture) []capture {
	if len(caps) <= 1 {
		return caps
	}
	// Sort by start byte ascending, then by size descending (larger first).
	sort.Slice(caps, func(i, j int) bool {
		if caps[i].startByte != caps[j].startByte {
			return caps[i].startByte < caps[j].startByte
		}
		return (caps[i].endByte - caps[i].startByte) > (caps[j].endByte - caps[j].startByte)
	})

	var result []capture
	var lastEnd uint32
	for _, c := range caps {
		if len(result) == 0 || c.startByte >= lastEnd {
			result = append(result, c)
			lastEnd = c.endByte
		}
	}
	return result
}

type capture struct {
	name      string
	kind      string
	startLine int
	endLine   int
	startByte uint32
	endByte   uint32
}
