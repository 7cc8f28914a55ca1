package config

import (
	"bufio"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}

func TestConfig_Default(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, []string{"rs", "toml", "md"}, cfg.Scan.Extensions)
	assert.Equal(t, 1000, cfg.Summarizer.MaxTokens)
	assert.Equal(t, 1, cfg.Index.Workers)
	assert.Equal(t, 2*time.Minute, cfg.Timeout())
	assert.Equal(t, "ANTHROPIC_API_KEY", cfg.Credential.Variable)
}

func TestLoad_OverlaysDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "c.toml")
	writeFile(t, path, `
[scan]
extensions = ["go", "md"]

[summarizer]
max_tokens = 300

[index]
workers = 4
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"go", "md"}, cfg.Scan.Extensions)
	assert.Equal(t, 300, cfg.Summarizer.MaxTokens)
	assert.Equal(t, 4, cfg.Index.Workers)
	assert.Equal(t, Default().Summarizer.Model, cfg.Summarizer.Model)
}

func TestLoad_RejectsUnknownKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "c.toml")
	writeFile(t, path, "[scan]\nextension = [\"rs\"]\n")
	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "scan.extension")
}

func TestLoad_Invalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "c.toml")
	writeFile(t, path, "[summarizer]\nmax_tokens = 0\nendpoint = \"not a url\"\n[index]\nworkers = 0\n")
	_, err := Load(path)

	var verrs ValidateErrors
	require.ErrorAs(t, err, &verrs)
	fields := map[string]bool{}
	for _, v := range verrs {
		fields[v.Field] = true
	}
	assert.True(t, fields["summarizer.max_tokens"])
	assert.True(t, fields["summarizer.endpoint"])
	assert.True(t, fields["index.workers"])
}

func TestLoadForRoot(t *testing.T) {
	root := t.TempDir()

	cfg, err := LoadForRoot(root, "")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)

	writeFile(t, filepath.Join(root, FileName), "[index]\nworkers = 3\n")
	cfg, err = LoadForRoot(root, "")
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.Index.Workers)

	explicit := filepath.Join(t.TempDir(), "other.toml")
	writeFile(t, explicit, "[index]\nworkers = 7\n")
	cfg, err = LoadForRoot(root, explicit)
	require.NoError(t, err)
	assert.Equal(t, 7, cfg.Index.Workers)

	_, err = LoadForRoot(root, filepath.Join(root, "missing.toml"))
	require.Error(t, err)
}

func TestReadProfile(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		name    string
		content string
		want    string
		wantErr error
	}{
		{"double quoted", "alias ll='ls -l'\nexport ANTHROPIC_API_KEY=\"sk-ant-123\"\n", "sk-ant-123", nil},
		{"single quoted", "export ANTHROPIC_API_KEY='sk-ant-456'\n", "sk-ant-456", nil},
		{"bare", "  export ANTHROPIC_API_KEY=sk-ant-789  \n", "sk-ant-789", nil},
		{"value with equals", "export ANTHROPIC_API_KEY=\"abc==\"\n", "abc==", nil},
		{"first line wins", "export ANTHROPIC_API_KEY=\"one\"\nexport ANTHROPIC_API_KEY=\"two\"\n", "one", nil},
		{"missing", "export OTHER_KEY=\"x\"\n# export ANTHROPIC_API_KEY=\"commented\"\n", "", ErrKeyNotFound},
		{"similar name", "export ANTHROPIC_API_KEY_OLD=\"x\"\n", "", ErrKeyNotFound},
		{"empty value", "export ANTHROPIC_API_KEY=\n", "", ErrMalformedKey},
		{"empty quotes", "export ANTHROPIC_API_KEY=\"\"\n", "", ErrMalformedKey},
		{"unbalanced", "export ANTHROPIC_API_KEY=\"sk-ant\n", "", ErrMalformedKey},
		{"mismatched", "export ANTHROPIC_API_KEY=\"sk-ant'\n", "", ErrMalformedKey},
	}
	for i, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(dir, ".zshrc"+string(rune('a'+i)))
			writeFile(t, path, tt.content)

			got, err := ReadProfile(path, "ANTHROPIC_API_KEY")
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				var cerr *CredentialError
				require.ErrorAs(t, err, &cerr)
				assert.Equal(t, path, cerr.Source)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestReadProfile_MissingFile(t *testing.T) {
	_, err := ReadProfile(filepath.Join(t.TempDir(), ".zshrc"), "ANTHROPIC_API_KEY")
	require.ErrorIs(t, err, ErrProfileMissing)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestReadProfile_ReadFailure(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".zshrc")
	long := strings.Repeat("x", 70*1024)
	writeFile(t, path, "# "+long+"\nexport ANTHROPIC_API_KEY=\"sk-ant\"\n")

	_, err := ReadProfile(path, "ANTHROPIC_API_KEY")
	require.ErrorIs(t, err, ErrProfileUnreadable)
	assert.ErrorIs(t, err, bufio.ErrTooLong)
	assert.False(t, errors.Is(err, ErrProfileMissing))
}

func TestLoadCredential(t *testing.T) {
	home := t.TempDir()
	writeFile(t, filepath.Join(home, ".zshrc"), "export ANTHROPIC_API_KEY=\"from-profile\"\n")
	cc := Default().Credential

	t.Setenv("HOME", home)
	t.Setenv("ANTHROPIC_API_KEY", "")
	got, err := LoadCredential(cc)
	require.NoError(t, err)
	assert.Equal(t, "from-profile", got)

	t.Setenv("ANTHROPIC_API_KEY", "from-env")
	got, err = LoadCredential(cc)
	require.NoError(t, err)
	assert.Equal(t, "from-env", got)

	t.Setenv("ANTHROPIC_API_KEY", "")
	t.Setenv("HOME", "")
	_, err = LoadCredential(cc)
	require.ErrorIs(t, err, ErrNoHome)
}

func TestLoadEnv(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, LoadEnv(dir))

	writeFile(t, filepath.Join(dir, ".env"), "CODEBRIEF_TEST_KEY=dotenv-value\n")
	t.Setenv("CODEBRIEF_TEST_KEY", "")
	os.Unsetenv("CODEBRIEF_TEST_KEY")
	require.NoError(t, LoadEnv(dir))
	assert.Equal(t, "dotenv-value", os.Getenv("CODEBRIEF_TEST_KEY"))
}
