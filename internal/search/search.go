// Package search answers keyword queries over a built index.
package search

import (
	"fmt"
	"io"
	"strings"

	"codebrief/internal/index"
)

// Search returns every record whose summary contains at least one of the
// query's whitespace-separated tokens, compared case-insensitively as plain
// substrings. A query with no tokens matches nothing. Results are ordered by
// path.
func Search(idx *index.Index, query string) []index.Record {
	tokens := strings.Fields(strings.ToLower(query))
	if len(tokens) == 0 {
		return nil
	}

	var out []index.Record
	for _, r := range idx.Records() {
		if matchesAny(strings.ToLower(r.Summary), tokens) {
			out = append(out, r)
		}
	}
	return out
}

func matchesAny(summary string, tokens []string) bool {
	for _, tok := range tokens {
		if strings.Contains(summary, tok) {
			return true
		}
	}
	return false
}

// Format writes records in the interactive listing format.
func Format(w io.Writer, records []index.Record) {
	for _, r := range records {
		fmt.Fprintf(w, "File: %s\nSummary: %s\n\n", r.Path, r.Summary)
	}
}
