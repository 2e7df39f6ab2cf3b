// Package clipboard wraps the system clipboard for text and image transfer.
package clipboard

import (
	"bytes"
	"fmt"
	"sync"

	"github.com/atotto/clipboard"
	xclipboard "golang.design/x/clipboard"

	"nextart/internal/imaging"
)

// Clipboard is the boundary the UI talks to. Images cross it as decoded
// RGBA buffers; the PNG translation happens on this side.
type Clipboard interface {
	WriteText(text string) error
	ReadImage() (*imaging.Buffer, error)
	WriteImage(buf *imaging.Buffer) error
}

// System is the real OS clipboard. The image side needs a one-time display
// connection, initialized lazily so headless commands never pay for it.
type System struct {
	once    sync.Once
	initErr error
}

// NewSystem returns an uninitialized system clipboard.
func NewSystem() *System {
	return &System{}
}

func (s *System) init() error {
	s.once.Do(func() {
		s.initErr = xclipboard.Init()
	})
	if s.initErr != nil {
		return fmt.Errorf("failed to access clipboard: %w", s.initErr)
	}
	return nil
}

// WriteText places plain UTF-8 text on the clipboard.
func (s *System) WriteText(text string) error {
	if err := clipboard.WriteAll(text); err != nil {
		return fmt.Errorf("failed to copy to clipboard: %w", err)
	}
	return nil
}

// ReadImage returns the clipboard image as an RGBA buffer. A missing or
// undecodable clipboard image is an error, not a no-op.
func (s *System) ReadImage() (*imaging.Buffer, error) {
	if err := s.init(); err != nil {
		return nil, err
	}

	data := xclipboard.Read(xclipboard.FmtImage)
	if len(data) == 0 {
		return nil, fmt.Errorf("no image found on the clipboard")
	}

	buf, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode clipboard image: %w", err)
	}
	return buf, nil
}

// WriteImage places an RGBA buffer on the clipboard.
func (s *System) WriteImage(buf *imaging.Buffer) error {
	if err := s.init(); err != nil {
		return err
	}

	var data bytes.Buffer
	if err := buf.EncodePNG(&data); err != nil {
		return fmt.Errorf("failed to copy image to clipboard: %w", err)
	}
	xclipboard.Write(xclipboard.FmtImage, data.Bytes())
	return nil
}
