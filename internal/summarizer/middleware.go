package summarizer

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
)

// Middleware wraps a Summarizer with extra behavior.
type Middleware func(next Summarizer) Summarizer

// Chain applies mws so that the first middleware is the outermost.
func Chain(s Summarizer, mws ...Middleware) Summarizer {
	for i := len(mws) - 1; i >= 0; i-- {
		s = mws[i](s)
	}
	return s
}

// WithLogging logs request size, latency and errors. Provide a custom logger
// or nil to use log.Default().
func WithLogging(logger *log.Logger) Middleware {
	if logger == nil {
		logger = log.Default()
	}
	return func(next Summarizer) Summarizer {
		return &logging{next: next, log: logger}
	}
}

type logging struct {
	next Summarizer
	log  *log.Logger
}

func (l *logging) Summarize(ctx context.Context, doc Document) (string, error) {
	l.log.Printf("summarize %s: %d bytes", doc.Path, len(doc.Content))
	start := time.Now()
	summary, err := l.next.Summarize(ctx, doc)
	if err != nil {
		l.log.Printf("summarize %s failed after %s: %v", doc.Path, time.Since(start).Round(time.Millisecond), err)
		return "", err
	}
	l.log.Printf("summarize %s took %s", doc.Path, time.Since(start).Round(time.Millisecond))
	return summary, nil
}

// Cached memoizes successful summaries by path and content hash.
// size <= 0 disables caching.
func Cached(size int) (Middleware, error) {
	if size <= 0 {
		return func(next Summarizer) Summarizer { return next }, nil
	}
	cache, err := lru.New[string, string](size)
	if err != nil {
		return nil, fmt.Errorf("create summary cache: %w", err)
	}
	return func(next Summarizer) Summarizer {
		return &cached{next: next, cache: cache}
	}, nil
}

type cached struct {
	next  Summarizer
	cache *lru.Cache[string, string]
}

func (c *cached) Summarize(ctx context.Context, doc Document) (string, error) {
	h := sha256.Sum256([]byte(doc.Content))
	key := doc.Path + "\x00" + hex.EncodeToString(h[:])
	if s, ok := c.cache.Get(key); ok {
		return s, nil
	}
	s, err := c.next.Summarize(ctx, doc)
	if err != nil {
		return "", err
	}
	c.cache.Add(key, s)
	return s, nil
}
