package cmd

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"codebrief/internal/index"
	"codebrief/internal/search"
)

const replPrompt = "Enter your query ('print index' to see all entries, or 'quit' to exit):"

// runREPL answers queries against idx until "quit" or end of input.
func runREPL(idx *index.Index, in io.Reader, out io.Writer) error {
	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for {
		fmt.Fprintln(out, replPrompt)
		if !scanner.Scan() {
			break
		}
		query := strings.TrimSpace(scanner.Text())
		if query == "" {
			continue
		}

		switch strings.ToLower(query) {
		case "quit":
			return nil
		case "print index":
			fmt.Fprintln(out, "Full index:")
			search.Format(out, idx.Records())
			continue
		}

		results := search.Search(idx, query)
		if len(results) == 0 {
			fmt.Fprintln(out, "No results found for your query.")
			continue
		}
		fmt.Fprintln(out, "Search results:")
		search.Format(out, results)
	}

	return scanner.Err()
}
