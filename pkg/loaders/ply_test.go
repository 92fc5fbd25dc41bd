package loaders

import (
	"bytes"
	"encoding/binary"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/df07/go-ibl-pathtracer/pkg/core"
)

const asciiQuad = `ply
format ascii 1.0
comment unit square split by fan triangulation
element vertex 4
property float x
property float y
property float z
property uchar red
element face 1
property list uchar int vertex_indices
end_header
0 0 0 255
1 0 0 255
1 1 0 255
0 1 0 255
4 0 1 2 3
`

func TestReadPLY_ASCII(t *testing.T) {
	data, err := ReadPLY(strings.NewReader(asciiQuad))
	if err != nil {
		t.Fatalf("ReadPLY failed: %v", err)
	}

	wantVertices := []core.Vec3{
		core.NewVec3(0, 0, 0), core.NewVec3(1, 0, 0),
		core.NewVec3(1, 1, 0), core.NewVec3(0, 1, 0),
	}
	if diff := cmp.Diff(wantVertices, data.Vertices); diff != "" {
		t.Errorf("Vertices mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]int{0, 1, 2, 0, 2, 3}, data.Faces); diff != "" {
		t.Errorf("Faces mismatch (-want +got):\n%s", diff)
	}
}

func binaryTriangle(order binary.ByteOrder, format string) []byte {
	var buf bytes.Buffer
	buf.WriteString("ply\nformat " + format + " 1.0\n")
	buf.WriteString("element vertex 3\nproperty float x\nproperty float y\nproperty float z\nproperty float nx\n")
	buf.WriteString("element face 1\nproperty list uchar int vertex_indices\n")
	buf.WriteString("end_header\n")

	vertices := [][4]float32{{0, 0, 0, 9}, {2, 0, 0, 9}, {0, 2, -1, 9}}
	for _, v := range vertices {
		binary.Write(&buf, order, v)
	}
	buf.WriteByte(3)
	binary.Write(&buf, order, []int32{0, 1, 2})
	return buf.Bytes()
}

func TestReadPLY_Binary(t *testing.T) {
	tests := []struct {
		format string
		order  binary.ByteOrder
	}{
		{"binary_little_endian", binary.LittleEndian},
		{"binary_big_endian", binary.BigEndian},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			data, err := ReadPLY(bytes.NewReader(binaryTriangle(tt.order, tt.format)))
			if err != nil {
				t.Fatalf("ReadPLY failed: %v", err)
			}
			if len(data.Vertices) != 3 || len(data.Faces) != 3 {
				t.Fatalf("Expected 3 vertices and 1 triangle, got %d and %d", len(data.Vertices), len(data.Faces)/3)
			}
			if data.Vertices[2] != core.NewVec3(0, 2, -1) {
				t.Errorf("Unexpected third vertex %v", data.Vertices[2])
			}
		})
	}
}

func TestReadPLY_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"no magic", "format ascii 1.0\nend_header\n"},
		{"unknown format", "ply\nformat utf9 1.0\nend_header\n"},
		{"truncated header", "ply\nformat ascii 1.0\nelement vertex 1\n"},
		{"property before element", "ply\nformat ascii 1.0\nproperty float x\nend_header\n"},
		{"truncated data", "ply\nformat ascii 1.0\nelement vertex 2\nproperty float x\nend_header\n1\n"},
		{"index out of range", "ply\nformat ascii 1.0\nelement vertex 1\nproperty float x\nelement face 1\nproperty list uchar int vertex_indices\nend_header\n0\n3 0 1 2\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ReadPLY(strings.NewReader(tt.input)); err == nil {
				t.Error("Expected error, got nil")
			}
		})
	}

	_, err := ReadPLY(strings.NewReader("ply\nformat utf9 1.0\nend_header\n"))
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("Expected ErrUnsupportedFormat for unknown format, got %v", err)
	}
}

func TestLoadPLY_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "quad.ply")
	if err := os.WriteFile(path, []byte(asciiQuad), 0644); err != nil {
		t.Fatal(err)
	}

	data, err := LoadPLY(path)
	if err != nil {
		t.Fatalf("LoadPLY failed: %v", err)
	}
	if len(data.Faces) != 6 {
		t.Errorf("Expected 2 triangles, got %d", len(data.Faces)/3)
	}

	if _, err := LoadPLY(filepath.Join(t.TempDir(), "missing.ply")); err == nil {
		t.Error("Expected error for missing file")
	}
}
