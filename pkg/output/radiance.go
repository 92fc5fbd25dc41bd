package output

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/klauspost/compress/zstd"
)

// ErrBadRadianceFile is returned when a radiance dump has a bad header
var ErrBadRadianceFile = errors.New("output: not a radiance file")

var radianceMagic = [4]byte{'R', 'A', 'D', 'Z'}

const radianceVersion = 1

type radianceHeader struct {
	Magic   [4]byte
	Version uint32
	Width   uint32
	Height  uint32
}

// WriteRadiance writes a fixed little-endian header followed by the zstd-compressed
// float32 RGB payload, row 0 first
func WriteRadiance(fb *FrameBuffer, w io.Writer) error {
	hdr := radianceHeader{
		Magic:   radianceMagic,
		Version: radianceVersion,
		Width:   uint32(fb.Width),
		Height:  uint32(fb.Height),
	}
	if err := binary.Write(w, binary.LittleEndian, &hdr); err != nil {
		return fmt.Errorf("while writing radiance header: %w", err)
	}

	enc, err := zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.SpeedBetterCompression))
	if err != nil {
		return fmt.Errorf("while creating zstd encoder: %w", err)
	}
	if err := binary.Write(enc, binary.LittleEndian, fb.pixels); err != nil {
		enc.Close()
		return fmt.Errorf("while writing radiance payload: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("while closing zstd encoder: %w", err)
	}
	return nil
}

// ReadRadiance reads a dump written by WriteRadiance. Every pixel of the returned
// buffer counts as written once.
func ReadRadiance(r io.Reader) (*FrameBuffer, error) {
	var hdr radianceHeader
	if err := binary.Read(r, binary.LittleEndian, &hdr); err != nil {
		return nil, fmt.Errorf("while reading radiance header: %w", err)
	}
	if hdr.Magic != radianceMagic {
		return nil, fmt.Errorf("%w: magic %q", ErrBadRadianceFile, hdr.Magic[:])
	}
	if hdr.Version != radianceVersion {
		return nil, fmt.Errorf("%w: unsupported version %d", ErrBadRadianceFile, hdr.Version)
	}
	if hdr.Width == 0 || hdr.Height == 0 || uint64(hdr.Width)*uint64(hdr.Height) > 1<<28 {
		return nil, fmt.Errorf("%w: bad size %dx%d", ErrBadRadianceFile, hdr.Width, hdr.Height)
	}

	dec, err := zstd.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("while creating zstd decoder: %w", err)
	}
	defer dec.Close()

	fb := NewFrameBuffer(int(hdr.Width), int(hdr.Height))
	if err := binary.Read(dec, binary.LittleEndian, fb.pixels); err != nil {
		return nil, fmt.Errorf("while reading radiance payload: %w", err)
	}
	for i := range fb.writes {
		fb.writes[i] = 1
	}
	return fb, nil
}

// ReadRadianceFile opens and reads a radiance dump
func ReadRadianceFile(name string) (*FrameBuffer, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, fmt.Errorf("while opening radiance file: %w", err)
	}
	defer f.Close()

	return ReadRadiance(f)
}
