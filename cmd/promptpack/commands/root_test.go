package commands

import (
	"bytes"
	"strings"
	"sync"
	"testing"

	"github.com/sonemaro/promptpack/cmd/promptpack/app"
	"github.com/sonemaro/promptpack/internal/version"
	"github.com/sonemaro/promptpack/pkg/delivery"
	"github.com/sonemaro/promptpack/pkg/logger"
	"github.com/sonemaro/promptpack/pkg/output"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockLogger struct {
	mu   sync.Mutex
	logs []string
}

func (m *mockLogger) add(s string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.logs = append(m.logs, s)
}

func (m *mockLogger) Info(msg string)                               { m.add("INFO: " + msg) }
func (m *mockLogger) Debug(msg string)                              { m.add("DEBUG: " + msg) }
func (m *mockLogger) Error(msg string)                              { m.add("ERROR: " + msg) }
func (m *mockLogger) Warn(msg string)                               { m.add("WARN: " + msg) }
func (m *mockLogger) Trace(msg string)                              { m.add("TRACE: " + msg) }
func (m *mockLogger) WithFields(fields logger.Fields) logger.Logger { return m }

type nullClipboard struct{}

func (nullClipboard) WriteAll(string) error { return delivery.ErrClipboardUnavailable }

func execute(t *testing.T, fs afero.Fs, args ...string) (string, string, error) {
	t.Helper()

	cmd := newRootCommand(app.Env{
		Fs:        fs,
		Clipboard: nullClipboard{},
		Logger:    &mockLogger{},
	})

	stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	cmd.SetArgs(args)

	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func testFs(t *testing.T) afero.Fs {
	t.Helper()

	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/proj/a.py", []byte("print('x')"), 0o644))
	require.NoError(t, afero.WriteFile(fs, "/proj/src/main.go", []byte("package main\n"), 0o644))
	require.NoError(t, fs.MkdirAll("/out", 0o755))
	return fs
}

func TestRootCommand(t *testing.T) {
	fs := testFs(t)

	_, stderr, err := execute(t, fs, "/proj", "-o", "/out/prompt.txt", "-w", "2", "-e", "*.py", "--no-progress")
	require.NoError(t, err)

	data, err := afero.ReadFile(fs, "/out/prompt.txt")
	require.NoError(t, err)
	doc := string(data)

	assert.True(t, strings.HasPrefix(doc, "Directory Structure:\n\n└── proj/\n└── src\n    └── main.go\n"))
	assert.Contains(t, doc, output.FileHeader("src/main.go"))
	assert.NotContains(t, doc, output.FileHeader("a.py"))

	assert.Contains(t, stderr, "Collected 1 files.\n")
	assert.Contains(t, stderr, "Successfully generated '/out/prompt.txt'.")
}

func TestRootCommandEnvironment(t *testing.T) {
	t.Setenv("PROMPTPACK_FORMAT", "yaml")
	t.Setenv("PROMPTPACK_OUTPUT", "/out/env.yaml")

	fs := testFs(t)
	_, _, err := execute(t, fs, "/proj", "--no-progress")
	require.NoError(t, err)

	data, err := afero.ReadFile(fs, "/out/env.yaml")
	require.NoError(t, err)
	assert.Contains(t, string(data), "project: proj\n")
}

func TestRootCommandClipboardFallback(t *testing.T) {
	fs := testFs(t)

	_, stderr, err := execute(t, fs, "/proj", "-c", "-o", "/out/prompt.txt")
	require.NoError(t, err)
	assert.Contains(t, stderr, "Writing to file instead.\n")

	exists, err := afero.Exists(fs, "/out/prompt.txt")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestRootCommandErrors(t *testing.T) {
	tests := []struct {
		name         string
		args         []string
		wantReported bool
		wantErr      string
	}{
		{
			name:         "missing directory",
			args:         []string{"/missing", "-o", "/out/prompt.txt"},
			wantReported: true,
			wantErr:      "directory not found at '/missing'",
		},
		{
			name:    "invalid format",
			args:    []string{"/proj", "-f", "xml"},
			wantErr: "invalid configuration",
		},
		{
			name:    "invalid max size",
			args:    []string{"/proj", "--max-size", "0"},
			wantErr: "max size must be positive",
		},
		{
			name:    "too many arguments",
			args:    []string{"/proj", "/other"},
			wantErr: "accepts at most 1 arg(s)",
		},
		{
			name:    "unknown flag",
			args:    []string{"/proj", "--depth", "2"},
			wantErr: "unknown flag: --depth",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := execute(t, testFs(t), tt.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
			assert.Equal(t, tt.wantReported, app.IsReported(err))
		})
	}
}

func TestVersionCommand(t *testing.T) {
	stdout, _, err := execute(t, afero.NewMemMapFs(), "version")
	require.NoError(t, err)
	assert.Equal(t, version.Short()+"\n", stdout)

	stdout, _, err = execute(t, afero.NewMemMapFs(), "version", "-f")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(stdout, "promptpack "+version.Version+"\n"))
	assert.Contains(t, stdout, "Go Build Information:")
}
