package walker

import (
	"bufio"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// FileInfo holds metadata about a discovered source file.
type FileInfo struct {
	Path    string
	RelPath string
	Ext     string
	Size    int64
}

// IgnoreFile is the optional per-project list of directories and files to skip.
const IgnoreFile = ".codebriefignore"

// Extensions builds the allow-list used by Walk from a list of extensions.
// Leading dots are stripped and matching is case-insensitive.
func Extensions(exts ...string) map[string]bool {
	set := make(map[string]bool, len(exts))
	for _, e := range exts {
		e = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(e), "."))
		if e != "" {
			set[e] = true
		}
	}
	return set
}

// Walk traverses the directory tree rooted at root and sends discovered
// regular files on the returned channel. It only emits files whose extension
// is in allowedExts, and skips directories and files matching
// .codebriefignore patterns.
// Entries that fail to stat are skipped; only a bad root is reported.
func Walk(root string, allowedExts map[string]bool) (<-chan FileInfo, <-chan error) {
	files := make(chan FileInfo, 64)
	errs := make(chan error, 1)

	go func() {
		defer close(files)
		defer close(errs)

		absRoot, err := filepath.Abs(root)
		if err != nil {
			errs <- err
			return
		}
		if info, err := os.Stat(absRoot); err != nil {
			errs <- fmt.Errorf("stat root: %w", err)
			return
		} else if !info.IsDir() {
			errs <- fmt.Errorf("root %s is not a directory", absRoot)
			return
		}

		ignores := loadIgnorePatterns(absRoot)

		err = filepath.WalkDir(absRoot, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return nil // skip errors, keep walking
			}

			if d.IsDir() {
				if path == absRoot {
					return nil
				}
				rel, _ := filepath.Rel(absRoot, path)
				if matchesIgnore(d.Name(), filepath.ToSlash(rel), ignores) {
					return filepath.SkipDir
				}
				return nil
			}

			// Symlinks, sockets, devices and pipes are all excluded.
			if !d.Type().IsRegular() {
				return nil
			}

			ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
			if !allowedExts[ext] {
				return nil
			}

			relPath, _ := filepath.Rel(absRoot, path)
			relPath = filepath.ToSlash(relPath)
			if matchesIgnore(d.Name(), relPath, ignores) {
				return nil
			}

			info, err := d.Info()
			if err != nil {
				return nil
			}

			files <- FileInfo{
				Path:    path,
				RelPath: relPath,
				Ext:     ext,
				Size:    info.Size(),
			}
			return nil
		})
		if err != nil {
			errs <- err
		}
	}()

	return files, errs
}

// Scan drains Walk into a slice. The order is the lexical order of
// filepath.WalkDir, so repeated scans of an unchanged tree are identical.
func Scan(root string, allowedExts map[string]bool) ([]FileInfo, error) {
	fileCh, errCh := Walk(root, allowedExts)
	var out []FileInfo
	for fi := range fileCh {
		out = append(out, fi)
	}
	if err := <-errCh; err != nil {
		return nil, err
	}
	return out, nil
}

// loadIgnorePatterns reads .codebriefignore from the project root.
// A missing file means nothing is pruned.
func loadIgnorePatterns(root string) []string {
	f, err := os.Open(filepath.Join(root, IgnoreFile))
	if err != nil {
		return nil
	}
	defer f.Close()

	var patterns []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		patterns = append(patterns, strings.TrimSuffix(line, "/"))
	}
	return patterns
}

// matchesIgnore checks if a file or directory name, or its relative path,
// matches any ignore pattern.
func matchesIgnore(name, relPath string, patterns []string) bool {
	for _, p := range patterns {
		// Exact directory name match (e.g. "target", ".git").
		if name == p {
			return true
		}
		// Path prefix match (e.g. "third_party/vendor").
		if relPath == p || strings.HasPrefix(relPath, p+"/") {
			return true
		}
		if matched, _ := filepath.Match(p, relPath); matched {
			return true
		}
		if matched, _ := filepath.Match(p, name); matched {
			return true
		}
	}
	return false
}
