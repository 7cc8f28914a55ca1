package walker

import (
	"errors"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func write(t *testing.T, root, rel, content string) string {
	t.Helper()
	p := filepath.Join(root, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	return p
}

func relPaths(files []FileInfo) []string {
	out := make([]string, 0, len(files))
	for _, f := range files {
		out = append(out, f.RelPath)
	}
	sort.Strings(out)
	return out
}

func TestScan_FiltersByExtensionRecursively(t *testing.T) {
	root := t.TempDir()
	write(t, root, "Cargo.toml", "[package]")
	write(t, root, "README.md", "# readme")
	write(t, root, "src/main.rs", "fn main() {}")
	write(t, root, "src/net/retry.rs", "fn retry() {}")
	write(t, root, "src/notes.txt", "skip me")
	write(t, root, "Makefile", "all:")
	write(t, root, "docs/deep/er/GUIDE.MD", "upper-case extension")

	files, err := Scan(root, Extensions("rs", "toml", "md"))
	require.NoError(t, err)

	assert.Equal(t, []string{
		"Cargo.toml",
		"README.md",
		"docs/deep/er/GUIDE.MD",
		"src/main.rs",
		"src/net/retry.rs",
	}, relPaths(files))

	for _, f := range files {
		assert.True(t, filepath.IsAbs(f.Path), f.Path)
	}
}

func TestScan_IncludesEmptyFiles(t *testing.T) {
	root := t.TempDir()
	write(t, root, "empty.md", "")

	files, err := Scan(root, Extensions("md"))
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, int64(0), files[0].Size)
}

func TestScan_SkipsSymlinks(t *testing.T) {
	root := t.TempDir()
	target := write(t, root, "real/lib.rs", "pub fn f() {}")
	if err := os.Symlink(target, filepath.Join(root, "link.rs")); err != nil {
		t.Skipf("symlinks unsupported: %v", err)
	}
	require.NoError(t, os.Symlink(filepath.Join(root, "real"), filepath.Join(root, "linkdir")))
	require.NoError(t, os.Symlink(filepath.Join(root, "missing.rs"), filepath.Join(root, "broken.rs")))

	files, err := Scan(root, Extensions("rs"))
	require.NoError(t, err)
	assert.Equal(t, []string{"real/lib.rs"}, relPaths(files))
}

func TestScan_IsDeterministic(t *testing.T) {
	root := t.TempDir()
	for _, p := range []string{"b.rs", "a.rs", "z/y.md", "c/d/e.toml"} {
		write(t, root, p, p)
	}
	exts := Extensions("rs", "md", "toml")

	first, err := Scan(root, exts)
	require.NoError(t, err)
	second, err := Scan(root, exts)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestScan_IgnoreFile(t *testing.T) {
	root := t.TempDir()
	write(t, root, IgnoreFile, "# build output\ntarget/\nthird_party/vendored\n")
	write(t, root, "src/lib.rs", "")
	write(t, root, "target/debug/build.rs", "")
	write(t, root, "third_party/vendored/x.rs", "")
	write(t, root, "third_party/kept.rs", "")

	files, err := Scan(root, Extensions("rs"))
	require.NoError(t, err)
	assert.Equal(t, []string{"src/lib.rs", "third_party/kept.rs"}, relPaths(files))
}

func TestScan_IgnoreFileMatchesFiles(t *testing.T) {
	root := t.TempDir()
	write(t, root, IgnoreFile, "*.md\nsrc/generated.rs\n")
	write(t, root, "README.md", "")
	write(t, root, "docs/guide.md", "")
	write(t, root, "src/lib.rs", "")
	write(t, root, "src/generated.rs", "")
	write(t, root, "Cargo.toml", "")

	files, err := Scan(root, Extensions("rs", "md", "toml"))
	require.NoError(t, err)
	assert.Equal(t, []string{"Cargo.toml", "src/lib.rs"}, relPaths(files))
}

func TestScan_SkipsUnreadableDir(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("permissions are not enforced for root")
	}
	root := t.TempDir()
	write(t, root, "src/lib.rs", "")
	write(t, root, "locked/hidden.rs", "")
	locked := filepath.Join(root, "locked")
	require.NoError(t, os.Chmod(locked, 0o000))
	t.Cleanup(func() { os.Chmod(locked, 0o755) })

	files, err := Scan(root, Extensions("rs"))
	require.NoError(t, err)
	assert.Equal(t, []string{"src/lib.rs"}, relPaths(files))
}

func TestScan_BadRoot(t *testing.T) {
	_, err := Scan(filepath.Join(t.TempDir(), "nope"), Extensions("rs"))
	require.Error(t, err)

	file := write(t, t.TempDir(), "f.rs", "")
	_, err = Scan(file, Extensions("rs"))
	require.Error(t, err)
}

func TestExtensions_Normalizes(t *testing.T) {
	got := Extensions(".RS", " toml ", "", "md")
	assert.Equal(t, map[string]bool{"rs": true, "toml": true, "md": true}, got)
}

func TestReadText(t *testing.T) {
	root := t.TempDir()
	p := write(t, root, "ok.md", "hello")

	got, err := ReadText(p)
	require.NoError(t, err)
	assert.Equal(t, "hello", got)

	_, err = ReadText(filepath.Join(root, "missing.md"))
	var rerr *ReadError
	require.ErrorAs(t, err, &rerr)
	assert.Equal(t, filepath.Join(root, "missing.md"), rerr.Path)
	assert.True(t, errors.Is(err, os.ErrNotExist))

	bin := write(t, root, "bin.rs", string([]byte{0xff, 0xfe, 0x00}))
	_, err = ReadText(bin)
	require.ErrorAs(t, err, &rerr)
	assert.ErrorIs(t, err, ErrNotText)
	assert.Contains(t, err.Error(), bin)
}
