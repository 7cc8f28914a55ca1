package walker

import (
	"errors"
	"fmt"
	"os"
	"unicode/utf8"
)

// ErrNotText is the cause recorded when a file is not valid UTF-8.
var ErrNotText = errors.New("content is not valid UTF-8 text")

// ReadError identifies the file that could not be read and why.
type ReadError struct {
	Path string
	Err  error
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("read %s: %v", e.Path, e.Err)
}

func (e *ReadError) Unwrap() error { return e.Err }

// ReadText returns the full content of path as a string.
func ReadText(path string) (string, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return "", &ReadError{Path: path, Err: err}
	}
	if !utf8.Valid(src) {
		return "", &ReadError{Path: path, Err: ErrNotText}
	}
	return string(src), nil
}
