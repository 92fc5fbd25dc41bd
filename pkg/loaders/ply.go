package loaders

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/df07/go-ibl-pathtracer/pkg/core"
)

// PLYHeader represents the parsed header information from a PLY file
type PLYHeader struct {
	Format   string // "binary_little_endian", "binary_big_endian", or "ascii"
	Version  string
	Elements []PLYElement
}

// PLYElement is one "element" block of the header with its properties
type PLYElement struct {
	Name       string
	Count      int
	Properties []PLYProperty
}

// PLYProperty represents a property definition in the PLY header
type PLYProperty struct {
	Name     string
	Type     string
	IsList   bool
	ListType string // For list properties, the type of the count
}

// PLYData contains the geometry loaded from a PLY file. Polygons are fan-triangulated.
type PLYData struct {
	Vertices []core.Vec3
	Faces    []int // Triangle indices (3 per triangle)
}

// LoadPLY loads a PLY file and returns its vertices and triangles
func LoadPLY(filename string) (*PLYData, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open PLY file: %w", err)
	}
	defer file.Close()

	data, err := ReadPLY(file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	return data, nil
}

// ReadPLY decodes PLY data in ascii or binary form
func ReadPLY(r io.Reader) (*PLYData, error) {
	br := bufio.NewReader(r)

	header, err := parsePLYHeader(br)
	if err != nil {
		return nil, fmt.Errorf("failed to parse PLY header: %w", err)
	}

	var next plyValueReader
	switch header.Format {
	case "ascii":
		next = newASCIIValueReader(br)
	case "binary_little_endian":
		next = newBinaryValueReader(br, binary.LittleEndian)
	case "binary_big_endian":
		next = newBinaryValueReader(br, binary.BigEndian)
	default:
		return nil, fmt.Errorf("%w: PLY format %q", ErrUnsupportedFormat, header.Format)
	}

	data := &PLYData{}
	for _, element := range header.Elements {
		switch element.Name {
		case "vertex":
			if err := readVertices(next, element, data); err != nil {
				return nil, err
			}
		case "face":
			if err := readFaces(next, element, data); err != nil {
				return nil, err
			}
		default:
			if err := skipElement(next, element); err != nil {
				return nil, err
			}
		}
	}

	for i, idx := range data.Faces {
		if idx < 0 || idx >= len(data.Vertices) {
			return nil, fmt.Errorf("face index %d at position %d out of range [0,%d)", idx, i, len(data.Vertices))
		}
	}
	return data, nil
}

// parsePLYHeader reads header lines up to and including end_header
func parsePLYHeader(br *bufio.Reader) (*PLYHeader, error) {
	header := &PLYHeader{}

	magic, err := br.ReadString('\n')
	if err != nil || strings.TrimSpace(magic) != "ply" {
		return nil, fmt.Errorf("%w: missing ply magic", ErrUnsupportedFormat)
	}

	for {
		line, err := br.ReadString('\n')
		if err != nil {
			return nil, fmt.Errorf("header ended before end_header: %w", err)
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}

		switch parts[0] {
		case "end_header":
			if header.Format == "" {
				return nil, fmt.Errorf("header has no format line")
			}
			return header, nil
		case "format":
			if len(parts) < 3 {
				return nil, fmt.Errorf("invalid format line %q", strings.TrimSpace(line))
			}
			header.Format = parts[1]
			header.Version = parts[2]
		case "comment", "obj_info":
		case "element":
			if len(parts) < 3 {
				return nil, fmt.Errorf("invalid element line %q", strings.TrimSpace(line))
			}
			count, err := strconv.Atoi(parts[2])
			if err != nil || count < 0 {
				return nil, fmt.Errorf("invalid element count: %s", parts[2])
			}
			header.Elements = append(header.Elements, PLYElement{Name: parts[1], Count: count})
		case "property":
			if len(header.Elements) == 0 {
				return nil, fmt.Errorf("property before any element")
			}
			prop, err := parsePLYProperty(parts[1:])
			if err != nil {
				return nil, err
			}
			last := &header.Elements[len(header.Elements)-1]
			last.Properties = append(last.Properties, prop)
		default:
			return nil, fmt.Errorf("unknown header keyword %q", parts[0])
		}
	}
}

// parsePLYProperty parses a property line from the PLY header
func parsePLYProperty(parts []string) (PLYProperty, error) {
	if len(parts) >= 4 && parts[0] == "list" {
		return PLYProperty{IsList: true, ListType: parts[1], Type: parts[2], Name: parts[3]}, nil
	}
	if len(parts) == 2 && parts[0] != "list" {
		return PLYProperty{Type: parts[0], Name: parts[1]}, nil
	}
	return PLYProperty{}, fmt.Errorf("invalid property definition %q", strings.Join(parts, " "))
}

func readVertices(next plyValueReader, element PLYElement, data *PLYData) error {
	axis := map[string]int{"x": 0, "y": 1, "z": 2}
	data.Vertices = make([]core.Vec3, 0, element.Count)

	for i := 0; i < element.Count; i++ {
		var xyz [3]float64
		for _, prop := range element.Properties {
			values, err := readProperty(next, prop)
			if err != nil {
				return fmt.Errorf("vertex %d: %w", i, err)
			}
			if a, ok := axis[prop.Name]; ok && !prop.IsList {
				xyz[a] = values[0]
			}
		}
		data.Vertices = append(data.Vertices, core.NewVec3(xyz[0], xyz[1], xyz[2]))
	}
	return nil
}

func readFaces(next plyValueReader, element PLYElement, data *PLYData) error {
	for i := 0; i < element.Count; i++ {
		for _, prop := range element.Properties {
			values, err := readProperty(next, prop)
			if err != nil {
				return fmt.Errorf("face %d: %w", i, err)
			}
			if !prop.IsList || (prop.Name != "vertex_indices" && prop.Name != "vertex_index") {
				continue
			}
			if len(values) < 3 {
				return fmt.Errorf("face %d has %d vertices", i, len(values))
			}
			for k := 1; k+1 < len(values); k++ {
				data.Faces = append(data.Faces, int(values[0]), int(values[k]), int(values[k+1]))
			}
		}
	}
	return nil
}

func skipElement(next plyValueReader, element PLYElement) error {
	for i := 0; i < element.Count; i++ {
		for _, prop := range element.Properties {
			if _, err := readProperty(next, prop); err != nil {
				return fmt.Errorf("%s %d: %w", element.Name, i, err)
			}
		}
	}
	return nil
}

func readProperty(next plyValueReader, prop PLYProperty) ([]float64, error) {
	if !prop.IsList {
		v, err := next(prop.Type)
		if err != nil {
			return nil, err
		}
		return []float64{v}, nil
	}

	n, err := next(prop.ListType)
	if err != nil {
		return nil, err
	}
	if n < 0 || n > 1<<16 {
		return nil, fmt.Errorf("list length %v out of range", n)
	}
	values := make([]float64, int(n))
	for i := range values {
		if values[i], err = next(prop.Type); err != nil {
			return nil, err
		}
	}
	return values, nil
}

// plyValueReader returns the next scalar of the given PLY type as float64
type plyValueReader func(plyType string) (float64, error)

func newASCIIValueReader(br *bufio.Reader) plyValueReader {
	var tokens []string
	return func(plyType string) (float64, error) {
		for len(tokens) == 0 {
			line, err := br.ReadString('\n')
			if err != nil && line == "" {
				return 0, fmt.Errorf("unexpected end of ascii data: %w", err)
			}
			tokens = strings.Fields(line)
		}
		tok := tokens[0]
		tokens = tokens[1:]
		v, err := strconv.ParseFloat(tok, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid %s value %q", plyType, tok)
		}
		return v, nil
	}
}

func newBinaryValueReader(r io.Reader, order binary.ByteOrder) plyValueReader {
	var buf [8]byte
	return func(plyType string) (float64, error) {
		size := plyTypeSize(plyType)
		if size == 0 {
			return 0, fmt.Errorf("%w: PLY property type %q", ErrUnsupportedFormat, plyType)
		}
		if _, err := io.ReadFull(r, buf[:size]); err != nil {
			return 0, fmt.Errorf("unexpected end of binary data: %w", err)
		}
		b := buf[:size]
		switch plyType {
		case "char", "int8":
			return float64(int8(b[0])), nil
		case "uchar", "uint8":
			return float64(b[0]), nil
		case "short", "int16":
			return float64(int16(order.Uint16(b))), nil
		case "ushort", "uint16":
			return float64(order.Uint16(b)), nil
		case "int", "int32":
			return float64(int32(order.Uint32(b))), nil
		case "uint", "uint32":
			return float64(order.Uint32(b)), nil
		case "float", "float32":
			return float64(math.Float32frombits(order.Uint32(b))), nil
		default:
			return math.Float64frombits(order.Uint64(b)), nil
		}
	}
}

func plyTypeSize(plyType string) int {
	switch plyType {
	case "char", "int8", "uchar", "uint8":
		return 1
	case "short", "int16", "ushort", "uint16":
		return 2
	case "int", "int32", "uint", "uint32", "float", "float32":
		return 4
	case "double", "float64":
		return 8
	}
	return 0
}
