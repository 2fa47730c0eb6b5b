package collector

import (
	"bytes"
	"errors"
	"io"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
)

// sniffLen is how many leading bytes are checked for a NUL byte.
const sniffLen = 1024

type classifier struct {
	fs      afero.Fs
	allow   map[string]struct{}
	binary  map[string]struct{}
	maxSize int64
}

func newClassifier(cfg Config, fs afero.Fs) *classifier {
	return &classifier{
		fs:      fs,
		allow:   extensionSet(cfg.Extensions),
		binary:  extensionSet(cfg.BinaryExtensions),
		maxSize: cfg.MaxSize,
	}
}

// NormalizeExtension lower-cases ext and adds a leading dot. An empty input
// stays empty.
func NormalizeExtension(ext string) string {
	ext = strings.ToLower(strings.TrimSpace(ext))
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return ext
}

func extensionSet(exts []string) map[string]struct{} {
	set := make(map[string]struct{}, len(exts))
	for _, e := range exts {
		if n := NormalizeExtension(e); n != "" {
			set[n] = struct{}{}
		}
	}
	return set
}

// allowed applies the extension allow-list. An empty list allows everything.
func (c *classifier) allowed(name string) bool {
	if len(c.allow) == 0 {
		return true
	}
	_, ok := c.allow[strings.ToLower(filepath.Ext(name))]
	return ok
}

// tooLarge reports whether size exceeds the configured limit.
func (c *classifier) tooLarge(size int64) bool {
	return c.maxSize > 0 && size > c.maxSize
}

// binaryExtension reports whether name carries a known binary extension.
func (c *classifier) binaryExtension(name string) bool {
	_, ok := c.binary[strings.ToLower(filepath.Ext(name))]
	return ok
}

// isBinary reports whether the file at path should be treated as binary: a
// known binary extension, a NUL byte in the first sniffLen bytes, or a probe
// that cannot read the file at all.
func (c *classifier) isBinary(path string) bool {
	if c.binaryExtension(path) {
		return true
	}

	f, err := c.fs.Open(path)
	if err != nil {
		return true
	}
	defer f.Close()

	buf := make([]byte, sniffLen)
	n, err := io.ReadFull(f, buf)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
		return true
	}

	return bytes.IndexByte(buf[:n], 0) >= 0
}
