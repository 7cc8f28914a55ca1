package cmd

import (
	"context"
	"fmt"
	"io"
	"log"
	"strings"
	"time"

	"codebrief/internal/config"
	"codebrief/internal/index"
	"codebrief/internal/llm"
	"codebrief/internal/outline"
	"codebrief/internal/outline/languages"
	"codebrief/internal/summarizer"
	"codebrief/internal/walker"
)

// newLogger returns the debug logger: stderr with --verbose, discarded otherwise.
func newLogger(w io.Writer) *log.Logger {
	if flagVerbose {
		return log.New(w, "[debug] ", log.Ltime|log.Lmicroseconds)
	}
	return log.New(io.Discard, "", 0)
}

// loadConfig resolves the config for root and applies flag overrides.
func loadConfig(root string) (*config.Config, error) {
	cfg, err := config.LoadForRoot(root, flagConfig)
	if err != nil {
		return nil, err
	}
	if len(flagExts) > 0 {
		cfg.Scan.Extensions = flagExts
	}
	if flagWorkers > 0 {
		cfg.Index.Workers = flagWorkers
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// newBuilder wires config, credential, client and summarizer decorators into
// an index.Builder. Debug output goes to logOut.
func newBuilder(root string, onProgress index.ProgressFunc, logOut io.Writer) (*index.Builder, *config.Config, error) {
	cfg, err := loadConfig(root)
	if err != nil {
		return nil, nil, err
	}
	logger := newLogger(logOut)

	if err := config.LoadEnv(root); err != nil {
		return nil, nil, err
	}
	apiKey, err := config.LoadCredential(cfg.Credential)
	if err != nil {
		return nil, nil, err
	}
	logger.Printf("API key retrieved successfully")

	client := llm.NewClient(llm.Options{
		Endpoint:  cfg.Summarizer.Endpoint,
		APIKey:    apiKey,
		Model:     cfg.Summarizer.Model,
		MaxTokens: cfg.Summarizer.MaxTokens,
		Timeout:   cfg.Timeout(),
	})
	logger.Printf("summarizing with %s at %s", client.Model(), cfg.Summarizer.Endpoint)

	cache, err := summarizer.Cached(cfg.Summarizer.CacheSize)
	if err != nil {
		return nil, nil, err
	}
	s := summarizer.Chain(
		summarizer.New(client, outline.NewExtractor(languages.NewRegistry())),
		cache,
		summarizer.WithLogging(logger),
	)

	b := index.NewBuilder(s, index.Config{
		Extensions: walker.Extensions(cfg.Scan.Extensions...),
		Workers:    cfg.Index.Workers,
		OnProgress: onProgress,
		Logger:     logger,
	})
	return b, cfg, nil
}

// buildIndex indexes root, reporting progress on out and debug tracing on errOut.
func buildIndex(ctx context.Context, root string, out, errOut io.Writer) (*index.Index, error) {
	b, cfg, err := newBuilder(root, nil, errOut)
	if err != nil {
		return nil, err
	}

	fmt.Fprintf(out, "Indexing %s (%s, model %s)...\n", root, joinExts(cfg.Scan.Extensions), cfg.Summarizer.Model)
	idx, stats, err := b.Build(ctx, root)
	if err != nil {
		return nil, fmt.Errorf("index %s: %w", root, err)
	}

	fmt.Fprintf(out, "Done in %s\n", stats.Duration.Round(time.Millisecond))
	fmt.Fprintf(out, "  Files: %d total, %d summarized, %d fallback\n",
		stats.FilesTotal, stats.Summarized, stats.Degraded)
	return idx, nil
}

func joinExts(exts []string) string {
	dotted := make([]string, len(exts))
	for i, e := range exts {
		dotted[i] = "." + strings.TrimPrefix(e, ".")
	}
	return strings.Join(dotted, ",")
}
