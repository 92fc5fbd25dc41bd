package output

import (
	"errors"
	"fmt"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
)

// ErrUnknownFormat is returned for output paths whose extension has no encoder
var ErrUnknownFormat = errors.New("output: unknown image format")

// Format names an output encoding
type Format string

const (
	FormatPNG      Format = "png"
	FormatTIFF     Format = "tiff"
	FormatBMP      Format = "bmp"
	FormatRadiance Format = "rad.zst"
)

// Options control tone mapping of 8-bit formats. The radiance dump ignores them.
type Options struct {
	Exposure float64
	Gamma    float64
}

// DefaultOptions are unit exposure and display gamma 2.2
func DefaultOptions() Options {
	return Options{Exposure: 1.0, Gamma: 2.2}
}

// FormatFromPath picks the encoding from a file name
func FormatFromPath(path string) (Format, error) {
	lower := strings.ToLower(path)
	if strings.HasSuffix(lower, ".rad.zst") {
		return FormatRadiance, nil
	}
	switch filepath.Ext(lower) {
	case ".png":
		return FormatPNG, nil
	case ".tif", ".tiff":
		return FormatTIFF, nil
	case ".bmp":
		return FormatBMP, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, filepath.Base(path))
}

// Encode writes the frame in the given format
func Encode(w io.Writer, fb *FrameBuffer, format Format, opts Options) error {
	switch format {
	case FormatRadiance:
		return WriteRadiance(fb, w)
	case FormatPNG:
		return png.Encode(w, fb.ToRGBA(opts.Exposure, opts.Gamma))
	case FormatTIFF:
		return tiff.Encode(w, fb.ToRGBA(opts.Exposure, opts.Gamma), &tiff.Options{Compression: tiff.Deflate, Predictor: true})
	case FormatBMP:
		return bmp.Encode(w, fb.ToRGBA(opts.Exposure, opts.Gamma))
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, string(format))
	}
}

// WriteFile creates path (and its directory) and encodes the frame by extension
func WriteFile(path string, fb *FrameBuffer, opts Options) error {
	format, err := FormatFromPath(path)
	if err != nil {
		return err
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("while creating output directory: %w", err)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("while creating output file: %w", err)
	}

	if err := Encode(f, fb, format, opts); err != nil {
		f.Close()
		return fmt.Errorf("while encoding %s: %w", format, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("while closing output file: %w", err)
	}
	return nil
}
