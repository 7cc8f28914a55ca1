package search

import (
	"bytes"
	"testing"

	"codebrief/internal/index"

	"github.com/stretchr/testify/assert"
)

func sampleIndex() *index.Index {
	idx := index.New()
	idx.Put(index.Record{Path: "a.rs", Summary: "Handles network retries"})
	idx.Put(index.Record{Path: "b.md", Summary: "Explains setup"})
	return idx
}

func paths(records []index.Record) []string {
	var out []string
	for _, r := range records {
		out = append(out, r.Path)
	}
	return out
}

func TestSearch(t *testing.T) {
	idx := sampleIndex()

	tests := []struct {
		name  string
		query string
		want  []string
	}{
		{"any token matches", "retries setup", []string{"a.rs", "b.md"}},
		{"empty query", "", nil},
		{"whitespace query", " \t\n ", nil},
		{"token longer than word", "RETRY", nil},
		{"substring prefix", "retr", []string{"a.rs"}},
		{"case insensitive", "SETUP", []string{"b.md"}},
		{"inside a word", "work", []string{"a.rs"}},
		{"no match", "database", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, paths(Search(idx, tt.query)))
		})
	}
}

func TestSearch_ContainmentNotWordBoundary(t *testing.T) {
	idx := index.New()
	idx.Put(index.Record{Path: "x.rs", Summary: "A rapid prototype"})
	assert.Equal(t, []string{"x.rs"}, paths(Search(idx, "api")))
}

func TestSearch_EmptyIndex(t *testing.T) {
	assert.Empty(t, Search(index.New(), "anything"))
}

func TestFormat(t *testing.T) {
	var buf bytes.Buffer
	Format(&buf, sampleIndex().Records())
	assert.Equal(t, "File: a.rs\nSummary: Handles network retries\n\nFile: b.md\nSummary: Explains setup\n\n", buf.String())
}
