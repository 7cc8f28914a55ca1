// Package index builds and holds the in-memory map from file path to summary.
package index

import (
	"sort"
	"sync"
)

// Record is the summary of one file. Degraded records carry the local
// fallback text instead of a generated summary; Err holds the cause.
type Record struct {
	Path     string
	Summary  string
	Degraded bool
	Err      string
}

// Index maps a file path to its Record. It is safe for concurrent use.
type Index struct {
	mu      sync.RWMutex
	records map[string]Record
}

// New returns an empty Index.
func New() *Index {
	return &Index{records: make(map[string]Record)}
}

// Put stores r under r.Path, replacing any earlier record for that path.
func (i *Index) Put(r Record) {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.records[r.Path] = r
}

// Get returns the record for path.
func (i *Index) Get(path string) (Record, bool) {
	i.mu.RLock()
	defer i.mu.RUnlock()
	r, ok := i.records[path]
	return r, ok
}

// Len returns the number of indexed files.
func (i *Index) Len() int {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return len(i.records)
}

// Records returns every record sorted by path.
func (i *Index) Records() []Record {
	i.mu.RLock()
	out := make([]Record, 0, len(i.records))
	for _, r := range i.records {
		out = append(out, r)
	}
	i.mu.RUnlock()

	sort.Slice(out, func(a, b int) bool { return out[a].Path < out[b].Path })
	return out
}

// merge copies every record of src into i.
func (i *Index) merge(src *Index) {
	for _, r := range src.Records() {
		i.Put(r)
	}
}
