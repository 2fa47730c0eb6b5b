/*
Package delivery hands a finished document to the user, either through the
system clipboard or as a file on disk.

Clipboard delivery never loses the document: when the clipboard cannot be
written, the document goes to the output file instead and the clipboard
error is reported in the Outcome.

	d := delivery.New(afero.NewOsFs(), delivery.SystemClipboard{}, log)

	outcome, err := d.Deliver(doc, delivery.Options{
		Clipboard:  true,
		OutputPath: "prompt.txt",
	})
*/
package delivery

import (
	"errors"
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/sonemaro/promptpack/pkg/logger"
	"github.com/spf13/afero"
)

// ErrClipboardUnavailable is returned when the system has no usable
// clipboard mechanism.
var ErrClipboardUnavailable = errors.New("clipboard is not available on this system")

// Clipboard is the write side of a clipboard.
type Clipboard interface {
	WriteAll(text string) error
}

// SystemClipboard writes to the operating system clipboard.
type SystemClipboard struct{}

func (SystemClipboard) WriteAll(text string) error {
	if clipboard.Unsupported {
		return ErrClipboardUnavailable
	}
	if err := clipboard.WriteAll(text); err != nil {
		return fmt.Errorf("failed to write clipboard: %w", err)
	}
	return nil
}

// Options selects the delivery target.
type Options struct {
	Clipboard  bool
	OutputPath string
}

// Outcome describes where the document ended up.
type Outcome struct {
	// Clipboard is true when the document was copied to the clipboard.
	Clipboard bool

	// Path is the file the document was written to, empty when it went to
	// the clipboard.
	Path string

	// FallbackErr is the clipboard error that caused a fallback to Path.
	FallbackErr error
}

// Deliverer delivers documents.
type Deliverer interface {
	Deliver(doc string, opts Options) (Outcome, error)
}

type deliverer struct {
	fs   afero.Fs
	clip Clipboard
	log  logger.Logger
}

// New creates a Deliverer. A nil clip behaves like an unavailable clipboard.
func New(fs afero.Fs, clip Clipboard, log logger.Logger) Deliverer {
	return &deliverer{
		fs:   fs,
		clip: clip,
		log:  log,
	}
}

func (d *deliverer) Deliver(doc string, opts Options) (Outcome, error) {
	var outcome Outcome

	if opts.Clipboard {
		err := d.copy(doc)
		if err == nil {
			d.log.WithFields(logger.Fields{
				"bytes": len(doc),
			}).Info("Document copied to clipboard")
			outcome.Clipboard = true
			return outcome, nil
		}

		d.log.WithFields(logger.Fields{
			"error": err,
			"path":  opts.OutputPath,
		}).Warn("Clipboard unavailable, writing file instead")
		outcome.FallbackErr = err
	}

	if err := d.write(opts.OutputPath, doc); err != nil {
		return outcome, err
	}
	outcome.Path = opts.OutputPath

	return outcome, nil
}

func (d *deliverer) copy(doc string) error {
	if d.clip == nil {
		return ErrClipboardUnavailable
	}
	return d.clip.WriteAll(doc)
}

// write stores doc at path, dropping any bytes that are not valid UTF-8.
func (d *deliverer) write(path, doc string) error {
	if path == "" {
		return fmt.Errorf("no output path")
	}

	data := []byte(strings.ToValidUTF8(doc, ""))
	if err := afero.WriteFile(d.fs, path, data, 0o644); err != nil {
		d.log.WithFields(logger.Fields{
			"error": err,
			"path":  path,
		}).Error("Failed to write output file")
		return fmt.Errorf("failed to write output file: %w", err)
	}

	d.log.WithFields(logger.Fields{
		"path":  path,
		"bytes": len(data),
	}).Info("Document written")

	return nil
}
