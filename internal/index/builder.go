package index

import (
	"context"
	"fmt"
	"io"
	"log"
	"sync"
	"sync/atomic"
	"time"
	"unicode/utf8"

	"codebrief/internal/summarizer"
	"codebrief/internal/walker"

	"golang.org/x/sync/errgroup"
)

// FallbackPrefix starts every degraded summary.
const FallbackPrefix = "Failed to summarize. File content preview: "

// previewLen is how many bytes of content a fallback summary keeps.
const previewLen = 100

// Stats reports indexing results.
type Stats struct {
	FilesTotal int
	Summarized int
	Degraded   int
	Duration   time.Duration
}

// ProgressFunc is called after each file is indexed.
type ProgressFunc func(processed, total int, path string)

// Config holds the builder configuration.
type Config struct {
	// Extensions is the scanner allow-list, see walker.Extensions.
	Extensions map[string]bool
	// Workers bounds concurrent summarization. Values below 2 index one
	// file at a time.
	Workers    int
	OnProgress ProgressFunc
	// Logger receives debug tracing; nil discards it.
	Logger *log.Logger
}

// Builder runs scan → read → summarize for every file under a root.
type Builder struct {
	summarizer summarizer.Summarizer
	config     Config
	log        *log.Logger
}

// NewBuilder creates a Builder that summarizes with s.
func NewBuilder(s summarizer.Summarizer, cfg Config) *Builder {
	logger := cfg.Logger
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	if cfg.Workers < 1 {
		cfg.Workers = 1
	}
	return &Builder{summarizer: s, config: cfg, log: logger}
}

// Fallback returns the degraded summary for content: FallbackPrefix plus at
// most the first 100 bytes, cut back to a rune boundary.
func Fallback(content string) string {
	n := min(len(content), previewLen)
	for n > 0 && n < len(content) && !utf8.RuneStart(content[n]) {
		n--
	}
	return FallbackPrefix + content[:n]
}

// Build indexes root into a new Index. A file that cannot be read fails the
// whole build and no Index is returned; summarization failures only degrade
// the affected record.
func (b *Builder) Build(ctx context.Context, root string) (*Index, *Stats, error) {
	idx := New()
	stats, err := b.run(ctx, idx, root)
	if err != nil {
		return nil, stats, err
	}
	return idx, stats, nil
}

// BuildInto indexes root and, only if that succeeds, merges the records
// into idx. Paths already present are overwritten.
func (b *Builder) BuildInto(ctx context.Context, idx *Index, root string) (*Stats, error) {
	staged, stats, err := b.Build(ctx, root)
	if err != nil {
		return stats, err
	}
	idx.merge(staged)
	return stats, nil
}

func (b *Builder) run(ctx context.Context, idx *Index, root string) (*Stats, error) {
	start := time.Now()
	b.log.Printf("indexing codebase in directory: %s", root)

	files, err := walker.Scan(root, b.config.Extensions)
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", root, err)
	}
	b.log.Printf("found %d files to index", len(files))

	stats := &Stats{FilesTotal: len(files)}
	var statsMu sync.Mutex
	var processed atomic.Int64

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(b.config.Workers)

	for i, fi := range files {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			b.log.Printf("processing file %d/%d: %s", i+1, len(files), fi.RelPath)

			content, err := walker.ReadText(fi.Path)
			if err != nil {
				return err
			}
			b.log.Printf("file content length: %d bytes", len(content))

			rec := b.summarize(gctx, fi, content)
			idx.Put(rec)

			statsMu.Lock()
			if rec.Degraded {
				stats.Degraded++
			} else {
				stats.Summarized++
			}
			statsMu.Unlock()

			n := int(processed.Add(1))
			if b.config.OnProgress != nil {
				b.config.OnProgress(n, len(files), fi.RelPath)
			}
			return nil
		})
	}

	err = g.Wait()
	stats.Duration = time.Since(start)
	if err != nil {
		return stats, err
	}
	if err := ctx.Err(); err != nil {
		return stats, err
	}

	b.log.Printf("indexing complete: %d files in %s", idx.Len(), stats.Duration.Round(time.Millisecond))
	return stats, nil
}

func (b *Builder) summarize(ctx context.Context, fi walker.FileInfo, content string) Record {
	start := time.Now()
	summary, err := b.summarizer.Summarize(ctx, summarizer.Document{Path: fi.RelPath, Content: content})
	b.log.Printf("summarization of %s took %s", fi.RelPath, time.Since(start).Round(time.Millisecond))
	if err != nil {
		b.log.Printf("error summarizing file %s: %v", fi.RelPath, err)
		return Record{
			Path:     fi.RelPath,
			Summary:  Fallback(content),
			Degraded: true,
			Err:      err.Error(),
		}
	}
	return Record{Path: fi.RelPath, Summary: summary}
}
