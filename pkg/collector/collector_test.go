package collector

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/sonemaro/promptpack/internal/config"
	"github.com/sonemaro/promptpack/pkg/ignore"
	"github.com/sonemaro/promptpack/pkg/logger"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockLogger implements logger.Logger interface for testing
type mockLogger struct {
	mu   sync.Mutex
	logs []string
}

func (m *mockLogger) add(s string) {
	m.mu.Lock()
	m.logs = append(m.logs, s)
	m.mu.Unlock()
}

func (m *mockLogger) Info(msg string)                               { m.add("INFO: " + msg) }
func (m *mockLogger) Debug(msg string)                              { m.add("DEBUG: " + msg) }
func (m *mockLogger) Error(msg string)                              { m.add("ERROR: " + msg) }
func (m *mockLogger) Warn(msg string)                               { m.add("WARN: " + msg) }
func (m *mockLogger) Trace(msg string)                              { m.add("TRACE: " + msg) }
func (m *mockLogger) WithFields(fields logger.Fields) logger.Logger { return m }

func setupTestFS(t *testing.T, files map[string]string) afero.Fs {
	t.Helper()

	fs := afero.NewMemMapFs()
	require.NoError(t, fs.MkdirAll("/proj", 0755))

	for path, content := range files {
		full := filepath.Join("/proj", path)
		require.NoError(t, fs.MkdirAll(filepath.Dir(full), 0755))
		require.NoError(t, afero.WriteFile(fs, full, []byte(content), 0644))
	}

	return fs
}

func testConfig() Config {
	return Config{
		Workers:          4,
		MaxSize:          config.DefaultMaxSize,
		BinaryExtensions: config.BinaryExtensions(),
	}
}

func filePaths(files []File) []string {
	out := make([]string, len(files))
	for i, f := range files {
		out[i] = f.Path
	}
	return out
}

func skipReasons(skips []Skip) map[string]SkipReason {
	out := make(map[string]SkipReason, len(skips))
	for _, s := range skips {
		out[s.Path] = s.Reason
	}
	return out
}

func TestCollect(t *testing.T) {
	tests := []struct {
		name     string
		files    map[string]string
		patterns []string
		mutate   func(*Config)
		want     []string
		skipped  map[string]SkipReason
	}{
		{
			name: "binary and ignored files are skipped",
			files: map[string]string{
				"a.py":       "print('x')",
				"b.png":      "\x89PNG\r\n\x1a\n\x00\x00",
				"secret.log": "token=abc",
			},
			patterns: []string{"*.log"},
			want:     []string{"a.py"},
			skipped: map[string]SkipReason{
				"b.png":      SkipBinary,
				"secret.log": SkipIgnored,
			},
		},
		{
			name: "files over max size are skipped",
			files: map[string]string{
				"small.txt": "0123456789",
				"big.txt":   "01234567890123456789",
			},
			mutate: func(c *Config) { c.MaxSize = 10 },
			want:   []string{"small.txt"},
			skipped: map[string]SkipReason{
				"big.txt": SkipTooLarge,
			},
		},
		{
			name: "nul byte marks content as binary",
			files: map[string]string{
				"data.txt":  "abc\x00def",
				"late.txt":  strings.Repeat("a", sniffLen) + "\x00",
				"plain.txt": "hello",
			},
			want: []string{"late.txt", "plain.txt"},
			skipped: map[string]SkipReason{
				"data.txt": SkipBinary,
			},
		},
		{
			name: "binary extension match is case insensitive",
			files: map[string]string{
				"LOGO.PNG": "not really an image",
				"main.go":  "package main",
			},
			want: []string{"main.go"},
			skipped: map[string]SkipReason{
				"LOGO.PNG": SkipBinary,
			},
		},
		{
			name: "extension allow-list",
			files: map[string]string{
				"main.go":   "package main",
				"README.md": "# readme",
				"tool.py":   "pass",
				"Makefile":  "all:",
			},
			mutate: func(c *Config) { c.Extensions = []string{"go", ".MD"} },
			want:   []string{"README.md", "main.go"},
			skipped: map[string]SkipReason{
				"tool.py":  SkipExtension,
				"Makefile": SkipExtension,
			},
		},
		{
			name: "output artifact is never collected",
			files: map[string]string{
				"prompt.txt": "previous run",
				"main.go":    "package main",
			},
			mutate: func(c *Config) { c.OutputPath = "/proj/prompt.txt" },
			want:   []string{"main.go"},
			skipped: map[string]SkipReason{
				"prompt.txt": SkipOutputFile,
			},
		},
		{
			name: "ignored directory is pruned before negation can apply",
			files: map[string]string{
				"build/x.txt":    "x",
				"build/keep.txt": "keep",
				"src/main.go":    "package main",
			},
			patterns: []string{"build/", "!build/keep.txt"},
			want:     []string{"src/main.go"},
			skipped: map[string]SkipReason{
				"build": SkipIgnored,
			},
		},
		{
			name: "negation re-includes a file",
			files: map[string]string{
				"logs/a.log":    "a",
				"logs/keep.log": "keep",
			},
			patterns: []string{"*.log", "!keep.log"},
			want:     []string{"logs/keep.log"},
			skipped: map[string]SkipReason{
				"logs/a.log": SkipIgnored,
			},
		},
		{
			name: "empty directory",
			want: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs := setupTestFS(t, tt.files)

			cfg := testConfig()
			if tt.mutate != nil {
				tt.mutate(&cfg)
			}

			c := New(cfg, ignore.NewRuleSet(tt.patterns), fs, &mockLogger{})
			result, err := c.Collect(context.Background(), "/proj")
			require.NoError(t, err)

			assert.Equal(t, "/proj", result.Root)
			assert.Equal(t, tt.want, filePaths(result.Files))
			if tt.skipped != nil {
				assert.Equal(t, tt.skipped, skipReasons(result.Skipped))
			}
		})
	}
}

func TestCollectWithDefaultsAndGitignore(t *testing.T) {
	fs := setupTestFS(t, map[string]string{
		"a.py":                    "print('x')",
		"b.png":                   "\x89PNG\x00",
		"secret.log":              "token",
		".gitignore":              "*.log\n",
		"node_modules/x/index.js": "module.exports = 1",
		".git/HEAD":               "ref: refs/heads/main",
	})

	lines, err := ignore.ReadGitignore(fs, "/proj")
	require.NoError(t, err)

	rules := ignore.Sources{
		Defaults:  config.DefaultPatterns(),
		Gitignore: lines,
	}.RuleSet()

	result, err := New(testConfig(), rules, fs, &mockLogger{}).Collect(context.Background(), "/proj")
	require.NoError(t, err)

	assert.Equal(t, []string{".gitignore", "a.py"}, filePaths(result.Files))

	skipped := skipReasons(result.Skipped)
	assert.Equal(t, SkipBinary, skipped["b.png"])
	assert.Equal(t, SkipIgnored, skipped["secret.log"])
	assert.Equal(t, SkipIgnored, skipped["node_modules"])
	assert.Equal(t, SkipIgnored, skipped[".git"])
	assert.NotContains(t, skipped, "node_modules/x")
}

// openRecordingFs records every path opened through it.
type openRecordingFs struct {
	afero.Fs
	mu     sync.Mutex
	opened []string
}

func (f *openRecordingFs) Open(name string) (afero.File, error) {
	f.mu.Lock()
	f.opened = append(f.opened, name)
	f.mu.Unlock()
	return f.Fs.Open(name)
}

func TestCollectPrunesTransitively(t *testing.T) {
	base := setupTestFS(t, map[string]string{
		"vendor/a/b/c/deep.go": "package c",
		"vendor/top.go":        "package vendor",
		"main.go":              "package main",
	})
	fs := &openRecordingFs{Fs: base}

	rules := ignore.NewRuleSet([]string{"vendor/", "!vendor/top.go", "!deep.go"})

	result, err := New(testConfig(), rules, fs, &mockLogger{}).Collect(context.Background(), "/proj")
	require.NoError(t, err)

	assert.Equal(t, []string{"main.go"}, filePaths(result.Files))
	for _, name := range fs.opened {
		assert.False(t, strings.HasPrefix(name, "/proj/vendor"), "descended into %s", name)
	}
}

func TestCollectSortedAndIdempotent(t *testing.T) {
	files := make(map[string]string)
	for i := 0; i < 40; i++ {
		files[fmt.Sprintf("dir%02d/sub/file%02d.txt", i%7, i)] = fmt.Sprintf("content %d", i)
		files[fmt.Sprintf("file%02d.txt", i)] = fmt.Sprintf("top %d", i)
	}
	fs := setupTestFS(t, files)

	cfg := testConfig()
	cfg.Workers = 8

	first, err := New(cfg, nil, fs, &mockLogger{}).Collect(context.Background(), "/proj")
	require.NoError(t, err)
	second, err := New(cfg, nil, fs, &mockLogger{}).Collect(context.Background(), "/proj")
	require.NoError(t, err)

	require.Len(t, first.Files, 80)
	assert.Equal(t, first.Files, second.Files)
	assert.True(t, sortedByPath(first.Files))
}

func sortedByPath(files []File) bool {
	for i := 1; i < len(files); i++ {
		if files[i-1].Path >= files[i].Path {
			return false
		}
	}
	return true
}

// failingReadFs lets the first open of a path through and fails every
// later one, so the binary probe succeeds and the content read fails.
type failingReadFs struct {
	afero.Fs
	target string
	mu     sync.Mutex
	opens  int
}

func (f *failingReadFs) Open(name string) (afero.File, error) {
	if name == f.target {
		f.mu.Lock()
		f.opens++
		n := f.opens
		f.mu.Unlock()
		if n > 1 {
			return nil, &os.PathError{Op: "open", Path: name, Err: os.ErrPermission}
		}
	}
	return f.Fs.Open(name)
}

func TestCollectReadErrorBecomesPlaceholder(t *testing.T) {
	base := setupTestFS(t, map[string]string{
		"locked.txt": "secret",
		"ok.txt":     "fine",
	})
	fs := &failingReadFs{Fs: base, target: "/proj/locked.txt"}

	result, err := New(testConfig(), nil, fs, &mockLogger{}).Collect(context.Background(), "/proj")
	require.NoError(t, err)

	require.Len(t, result.Files, 2)
	locked := result.Files[0]
	assert.Equal(t, "locked.txt", locked.Path)
	assert.Equal(t, "Error reading file: permission denied", locked.Content)
	assert.ErrorIs(t, locked.Err, os.ErrPermission)

	assert.Equal(t, "fine", result.Files[1].Content)
	assert.NoError(t, result.Files[1].Err)
	assert.Equal(t, 1, result.Stats.ReadErrors)
}

func TestCollectDropsInvalidUTF8(t *testing.T) {
	fs := setupTestFS(t, map[string]string{
		"mixed.txt": "ok\xffok",
	})

	result, err := New(testConfig(), nil, fs, &mockLogger{}).Collect(context.Background(), "/proj")
	require.NoError(t, err)

	require.Len(t, result.Files, 1)
	assert.Equal(t, "okok", result.Files[0].Content)
}

func TestCollectDirectoryNotFound(t *testing.T) {
	fs := setupTestFS(t, map[string]string{"file.txt": "x"})

	tests := []struct {
		name string
		root string
	}{
		{name: "missing", root: "/does/not/exist"},
		{name: "regular file", root: "/proj/file.txt"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(testConfig(), nil, fs, &mockLogger{}).Collect(context.Background(), tt.root)

			var notFound *DirectoryNotFoundError
			require.ErrorAs(t, err, &notFound)
			assert.Equal(t, tt.root, notFound.Path)
			assert.Contains(t, err.Error(), "directory not found")
		})
	}
}

func TestCollectCancelled(t *testing.T) {
	fs := setupTestFS(t, map[string]string{"a.txt": "a", "b.txt": "b"})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New(testConfig(), nil, fs, &mockLogger{}).Collect(ctx, "/proj")
	assert.True(t, errors.Is(err, context.Canceled), "got %v", err)
}

func TestCollectInvalidWorkers(t *testing.T) {
	cfg := testConfig()
	cfg.Workers = 0

	_, err := New(cfg, nil, afero.NewMemMapFs(), &mockLogger{}).Collect(context.Background(), "/")
	assert.Error(t, err)
}

func TestCollectProgress(t *testing.T) {
	fs := setupTestFS(t, map[string]string{
		"a.txt": "aaaa",
		"b.txt": "bb",
		"c.png": "img",
	})

	c := New(testConfig(), nil, fs, &mockLogger{})
	_, err := c.Collect(context.Background(), "/proj")
	require.NoError(t, err)

	p := c.Progress()
	assert.Equal(t, int64(2), p.FilesFound)
	assert.Equal(t, int64(2), p.FilesRead)
	assert.Equal(t, int64(1), p.Skipped)
	assert.Equal(t, int64(6), p.BytesRead)
	assert.False(t, p.StartTime.IsZero())
}

func TestCollectSymlinks(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "real"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "real", "inner.txt"), []byte("inner"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "target.txt"), []byte("target"), 0644))

	if err := os.Symlink(filepath.Join(root, "real"), filepath.Join(root, "dirlink")); err != nil {
		t.Skipf("symlinks not supported: %v", err)
	}
	require.NoError(t, os.Symlink(filepath.Join(root, "target.txt"), filepath.Join(root, "filelink.txt")))
	require.NoError(t, os.Symlink(filepath.Join(root, "missing.txt"), filepath.Join(root, "broken.txt")))

	result, err := New(testConfig(), nil, afero.NewOsFs(), &mockLogger{}).Collect(context.Background(), root)
	require.NoError(t, err)

	assert.Equal(t, []string{"filelink.txt", "real/inner.txt", "target.txt"}, filePaths(result.Files))
	assert.Equal(t, "target", result.Files[0].Content)

	skipped := skipReasons(result.Skipped)
	assert.Equal(t, SkipSymlinkDir, skipped["dirlink"])
	assert.Equal(t, SkipBinary, skipped["broken.txt"])
}

func TestNormalizeExtension(t *testing.T) {
	tests := map[string]string{
		"go":   ".go",
		".GO":  ".go",
		" md ": ".md",
		"":     "",
		".tar": ".tar",
	}

	for in, want := range tests {
		assert.Equal(t, want, NormalizeExtension(in), in)
	}
}
