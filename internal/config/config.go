// Package config loads codebrief settings and the API credential.
//
// Settings come from an optional TOML file (--config, or .codebrief.toml in
// the indexed root) layered over built-in defaults:
//
//	[scan]
//	extensions = ["rs", "toml", "md"]
//
//	[summarizer]
//	endpoint = "https://api.anthropic.com/v1/messages"
//	model = "claude-3-sonnet-20240229"
//	max_tokens = 1000
//	timeout_secs = 120
//	cache_size = 256
//
//	[index]
//	workers = 1
//
//	[credential]
//	profile = ".zshrc"
//	variable = "ANTHROPIC_API_KEY"
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"codebrief/internal/llm"

	"github.com/BurntSushi/toml"
)

// FileName is the per-project config file looked up in the indexed root.
const FileName = ".codebrief.toml"

// Config represents the complete codebrief configuration.
type Config struct {
	Scan       ScanConfig       `toml:"scan"`
	Summarizer SummarizerConfig `toml:"summarizer"`
	Index      IndexConfig      `toml:"index"`
	Credential CredentialConfig `toml:"credential"`
}

// ScanConfig controls which files are indexed.
type ScanConfig struct {
	// Extensions without the leading dot, matched case-insensitively.
	Extensions []string `toml:"extensions"`
}

// SummarizerConfig controls the remote summarization call.
type SummarizerConfig struct {
	Endpoint    string `toml:"endpoint"`
	Model       string `toml:"model"`
	MaxTokens   int    `toml:"max_tokens"`
	TimeoutSecs int    `toml:"timeout_secs"`
	// CacheSize is the number of summaries memoized by content hash; 0 disables.
	CacheSize int `toml:"cache_size"`
}

// IndexConfig controls index construction.
type IndexConfig struct {
	// Workers is the number of files summarized concurrently; 1 is sequential.
	Workers int `toml:"workers"`
}

// CredentialConfig says where the API key is read from.
type CredentialConfig struct {
	// Profile is the shell init file, relative to $HOME.
	Profile string `toml:"profile"`
	// Variable is both the environment variable and the exported name
	// searched for in Profile.
	Variable string `toml:"variable"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Scan: ScanConfig{
			Extensions: []string{"rs", "toml", "md"},
		},
		Summarizer: SummarizerConfig{
			Endpoint:    llm.DefaultEndpoint,
			Model:       llm.DefaultModel,
			MaxTokens:   llm.DefaultMaxTokens,
			TimeoutSecs: int(llm.DefaultTimeout / time.Second),
			CacheSize:   256,
		},
		Index: IndexConfig{
			Workers: 1,
		},
		Credential: CredentialConfig{
			Profile:  ".zshrc",
			Variable: "ANTHROPIC_API_KEY",
		},
	}
}

// Load decodes the TOML file at path over the defaults and validates the result.
func Load(path string) (*Config, error) {
	cfg := Default()
	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, k := range undecoded {
			keys = append(keys, k.String())
		}
		return nil, fmt.Errorf("decode %s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// LoadForRoot loads explicit if set, else root/.codebrief.toml if present,
// else the defaults.
func LoadForRoot(root, explicit string) (*Config, error) {
	if explicit != "" {
		return Load(explicit)
	}
	path := filepath.Join(root, FileName)
	if _, err := os.Stat(path); err == nil {
		return Load(path)
	} else if !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}
	return Default(), nil
}

// Timeout returns the per-request timeout.
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.Summarizer.TimeoutSecs) * time.Second
}

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateErrors is a collection of validation errors.
type ValidateErrors []ValidationError

func (e ValidateErrors) Error() string {
	msgs := make([]string, 0, len(e))
	for _, err := range e {
		msgs = append(msgs, err.Error())
	}
	return strings.Join(msgs, "; ")
}

// Validate validates the configuration and returns any errors.
func (c *Config) Validate() error {
	var errs ValidateErrors

	if len(c.Scan.Extensions) == 0 {
		errs = append(errs, ValidationError{Field: "scan.extensions", Message: "at least one extension is required"})
	}
	for _, ext := range c.Scan.Extensions {
		if strings.TrimPrefix(strings.TrimSpace(ext), ".") == "" {
			errs = append(errs, ValidationError{Field: "scan.extensions", Message: "empty extension"})
			break
		}
	}

	if u, err := url.Parse(c.Summarizer.Endpoint); err != nil || u.Scheme == "" || u.Host == "" {
		errs = append(errs, ValidationError{
			Field:   "summarizer.endpoint",
			Message: fmt.Sprintf("invalid URL %q", c.Summarizer.Endpoint),
		})
	}
	if strings.TrimSpace(c.Summarizer.Model) == "" {
		errs = append(errs, ValidationError{Field: "summarizer.model", Message: "model is required"})
	}
	if c.Summarizer.MaxTokens <= 0 {
		errs = append(errs, ValidationError{Field: "summarizer.max_tokens", Message: "must be positive"})
	}
	if c.Summarizer.TimeoutSecs <= 0 {
		errs = append(errs, ValidationError{Field: "summarizer.timeout_secs", Message: "must be positive"})
	}
	if c.Summarizer.CacheSize < 0 {
		errs = append(errs, ValidationError{Field: "summarizer.cache_size", Message: "cannot be negative"})
	}

	if c.Index.Workers < 1 {
		errs = append(errs, ValidationError{Field: "index.workers", Message: "must be at least 1"})
	}

	if c.Credential.Variable == "" {
		errs = append(errs, ValidationError{Field: "credential.variable", Message: "variable name is required"})
	}
	if c.Credential.Profile == "" {
		errs = append(errs, ValidationError{Field: "credential.profile", Message: "profile file is required"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}
