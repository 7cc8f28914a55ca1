// Package summarizer turns file content into a short natural-language
// summary with one Messages API call.
//
// The Client never retries and never substitutes text of its own: every
// failure is returned so the caller can decide on a fallback. Decorators
// (Cached, WithLogging) wrap any Summarizer without changing that contract.
package summarizer

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"codebrief/internal/llm"
	"codebrief/internal/outline"
)

// ErrEmptySummary is returned when the service answers with only whitespace.
var ErrEmptySummary = errors.New("empty summary received")

// Document is the input to a summarization.
type Document struct {
	Path    string
	Content string
}

// Summarizer produces a summary for one document.
type Summarizer interface {
	Summarize(ctx context.Context, doc Document) (string, error)
}

// Func adapts a plain function to the Summarizer interface.
type Func func(ctx context.Context, doc Document) (string, error)

func (f Func) Summarize(ctx context.Context, doc Document) (string, error) {
	return f(ctx, doc)
}

// Generator is the completion call the Client depends on; *llm.Client
// satisfies it.
type Generator interface {
	Generate(ctx context.Context, messages []llm.Message) (string, error)
}

const summaryPrompt = `Summarize the following file in 2-3 sentences. Say what it defines and what role it plays in the project. Be specific about the types, functions, settings or topics it covers. Do not speculate about things not shown in the file.

File: %s
`

// Client summarizes documents through a Generator.
type Client struct {
	gen     Generator
	outline *outline.Extractor
}

// New creates a Client. ex may be nil, in which case prompts carry no
// definition outline.
func New(gen Generator, ex *outline.Extractor) *Client {
	return &Client{gen: gen, outline: ex}
}

// Summarize sends a single user turn and returns the trimmed reply.
func (c *Client) Summarize(ctx context.Context, doc Document) (string, error) {
	msgs := []llm.Message{
		{Role: "user", Content: c.prompt(ctx, doc)},
	}

	text, err := c.gen.Generate(ctx, msgs)
	if err != nil {
		return "", fmt.Errorf("summarize %s: %w", doc.Path, err)
	}

	summary := strings.TrimSpace(text)
	if summary == "" {
		return "", fmt.Errorf("summarize %s: %w", doc.Path, ErrEmptySummary)
	}
	return summary, nil
}

func (c *Client) prompt(ctx context.Context, doc Document) string {
	var b strings.Builder
	name := doc.Path
	if c.outline != nil {
		if lang := c.outline.Language(doc.Path); lang != "" {
			name += " (" + lang + ")"
		}
	}
	fmt.Fprintf(&b, summaryPrompt, name)

	if c.outline != nil {
		// Outline failures only cost the prompt its hint.
		if symbols, err := c.outline.Outline(ctx, doc.Path, []byte(doc.Content)); err == nil && len(symbols) > 0 {
			b.WriteString("Top-level definitions:\n")
			b.WriteString(outline.Format(symbols))
		}
	}

	b.WriteString("\n```\n")
	b.WriteString(doc.Content)
	b.WriteString("\n```")
	return b.String()
}
