// Package imaging converts between PNG files and raw RGBA pixel buffers.
// All errors carry the offending path so they can be surfaced to the user
// as-is.
package imaging

import (
	"fmt"
	"image"
	"image/draw"
	"image/png"
	"io"
	"os"

	xdraw "golang.org/x/image/draw"
)

// Buffer is a decoded image: width, height and interleaved RGBA bytes in
// row-major order.
type Buffer struct {
	Width  int
	Height int
	Pix    []byte
}

// NewBuffer wraps raw RGBA bytes, validating that the byte count matches
// the dimensions.
func NewBuffer(width, height int, pix []byte) (*Buffer, error) {
	if width <= 0 || height <= 0 || len(pix) != width*height*4 {
		return nil, fmt.Errorf("invalid pixel buffer: %d bytes for %dx%d", len(pix), width, height)
	}
	return &Buffer{Width: width, Height: height, Pix: pix}, nil
}

// FromImage converts any decoded image to an RGBA buffer.
func FromImage(img image.Image) *Buffer {
	bounds := img.Bounds()
	rgba := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	draw.Draw(rgba, rgba.Bounds(), img, bounds.Min, draw.Src)
	return &Buffer{Width: bounds.Dx(), Height: bounds.Dy(), Pix: rgba.Pix}
}

// RGBAAt returns the pixel at (x, y).
func (b *Buffer) RGBAAt(x, y int) (r, g, bl, a byte) {
	i := (y*b.Width + x) * 4
	return b.Pix[i], b.Pix[i+1], b.Pix[i+2], b.Pix[i+3]
}

func (b *Buffer) toRGBA() *image.RGBA {
	return &image.RGBA{
		Pix:    b.Pix,
		Stride: b.Width * 4,
		Rect:   image.Rect(0, 0, b.Width, b.Height),
	}
}

// Decode reads a PNG (or any registered format) into an RGBA buffer.
func Decode(r io.Reader) (*Buffer, error) {
	img, _, err := image.Decode(r)
	if err != nil {
		return nil, err
	}
	return FromImage(img), nil
}

// DecodeFile decodes the image at path.
func DecodeFile(path string) (*Buffer, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image file '%s': %w", path, err)
	}
	defer f.Close()

	buf, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image '%s': %w", path, err)
	}
	return buf, nil
}

// EncodePNG writes the buffer as PNG.
func (b *Buffer) EncodePNG(w io.Writer) error {
	return png.Encode(w, b.toRGBA())
}

// WriteFile encodes buf as PNG at path and returns the resulting on-disk
// byte size. The size comes from a stat after the write, never from the
// in-memory encoding.
func WriteFile(buf *Buffer, path string) (uint64, error) {
	f, err := os.Create(path)
	if err != nil {
		return 0, fmt.Errorf("failed to save image '%s': %w", path, err)
	}
	if err := buf.EncodePNG(f); err != nil {
		f.Close()
		return 0, fmt.Errorf("failed to save image '%s': %w", path, err)
	}
	if err := f.Close(); err != nil {
		return 0, fmt.Errorf("failed to save image '%s': %w", path, err)
	}

	info, err := os.Stat(path)
	if err != nil {
		return 0, fmt.Errorf("failed to get metadata for saved image '%s': %w", path, err)
	}
	return uint64(info.Size()), nil
}

// Scale returns buf resized to fit within maxW x maxH while preserving the
// aspect ratio. Buffers already small enough are returned unchanged.
func Scale(buf *Buffer, maxW, maxH int) *Buffer {
	if maxW <= 0 || maxH <= 0 {
		return buf
	}
	if buf.Width <= maxW && buf.Height <= maxH {
		return buf
	}

	w := maxW
	h := buf.Height * maxW / buf.Width
	if h > maxH {
		h = maxH
		w = buf.Width * maxH / buf.Height
	}
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	xdraw.ApproxBiLinear.Scale(dst, dst.Bounds(), buf.toRGBA(), buf.toRGBA().Bounds(), xdraw.Over, nil)
	return &Buffer{Width: w, Height: h, Pix: dst.Pix}
}
