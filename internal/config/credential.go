package config

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
)

// Credential lookup failures. All are returned wrapped in a *CredentialError.
var (
	ErrNoHome            = errors.New("HOME is not set")
	ErrProfileMissing    = errors.New("shell profile could not be opened")
	ErrProfileUnreadable = errors.New("shell profile read failed")
	ErrKeyNotFound       = errors.New("no export line for the variable")
	ErrMalformedKey      = errors.New("malformed export line")
)

// CredentialError explains why no API key could be loaded.
type CredentialError struct {
	Source string
	Err    error
	Cause  error
}

func (e *CredentialError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("credential %s: %v: %v", e.Source, e.Err, e.Cause)
	}
	return fmt.Sprintf("credential %s: %v", e.Source, e.Err)
}

func (e *CredentialError) Unwrap() []error {
	if e.Cause != nil {
		return []error{e.Err, e.Cause}
	}
	return []error{e.Err}
}

// LoadEnv loads dir/.env into the process environment without overriding
// variables that are already set. A missing file is not an error.
func LoadEnv(dir string) error {
	path := filepath.Join(dir, ".env")
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

// LoadCredential returns the API key: the environment variable named by
// cc.Variable when set, otherwise the value exported in $HOME/cc.Profile.
func LoadCredential(cc CredentialConfig) (string, error) {
	if v := strings.TrimSpace(os.Getenv(cc.Variable)); v != "" {
		return v, nil
	}
	home := os.Getenv("HOME")
	if home == "" {
		return "", &CredentialError{Source: "$HOME", Err: ErrNoHome}
	}
	return ReadProfile(filepath.Join(home, cc.Profile), cc.Variable)
}

// ReadProfile scans a shell init file for `export VARIABLE="value"` and
// returns the unquoted value of the first such line.
func ReadProfile(path, variable string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", &CredentialError{Source: path, Err: ErrProfileMissing, Cause: err}
	}
	defer f.Close()

	prefix := "export " + variable + "="
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if !strings.HasPrefix(line, prefix) {
			continue
		}
		value, ok := unquote(strings.TrimPrefix(line, prefix))
		if !ok {
			return "", &CredentialError{Source: path, Err: ErrMalformedKey, Cause: fmt.Errorf("export %s", variable)}
		}
		return value, nil
	}
	if err := scanner.Err(); err != nil {
		return "", &CredentialError{Source: path, Err: ErrProfileUnreadable, Cause: err}
	}
	return "", &CredentialError{Source: path, Err: ErrKeyNotFound, Cause: fmt.Errorf("export %s", variable)}
}

// unquote strips one pair of matching single or double quotes. It reports
// false for an empty value or unbalanced quotes.
func unquote(raw string) (string, bool) {
	v := strings.TrimSpace(raw)
	if v == "" {
		return "", false
	}
	first, last := v[0], v[len(v)-1]
	isQuote := func(c byte) bool { return c == '"' || c == '\'' }
	switch {
	case isQuote(first):
		if len(v) < 2 || last != first {
			return "", false
		}
		v = v[1 : len(v)-1]
	case isQuote(last):
		return "", false
	}
	if strings.TrimSpace(v) == "" || strings.ContainsAny(v, `"'`) {
		return "", false
	}
	return v, true
}
