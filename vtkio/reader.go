// Package vtkio reads and writes legacy VTK files, the interchange format
// phase-field simulation output arrives in. Reading keeps only what tip
// tracking needs: point coordinates and single-component point-data
// scalar arrays. Cell connectivity is parsed past and dropped.
package vtkio

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/pfmech/cracktip/mesh"
	"gonum.org/v1/gonum/spatial/r3"
)

// ReadFile reads a legacy VTK dataset from disk.
func ReadFile(path string) (*mesh.PointSet, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	ps, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return ps, nil
}

// Read parses a legacy VTK dataset (ASCII or big-endian BINARY) holding
// an UNSTRUCTURED_GRID or POLYDATA and returns its points and
// point-data scalars.
func Read(r io.Reader) (*mesh.PointSet, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	p := &parser{data: data}

	// Two header lines: version magic, then a free-form title.
	if line := p.line(); !strings.HasPrefix(line, "# vtk DataFile") {
		return nil, fmt.Errorf("not a legacy VTK file: %q", line)
	}
	p.line()

	switch format := p.line(); format {
	case "ASCII":
	case "BINARY":
		p.binary = true
	default:
		return nil, fmt.Errorf("unknown data format %q", format)
	}

	ps := mesh.NewPointSet(nil)
	numCells := 0
	inPointData := true
	for {
		fields := strings.Fields(p.line())
		if len(fields) == 0 {
			if p.eof() {
				break
			}
			continue
		}
		keyword := fields[0]
		if len(fields) < keywordFields[keyword] {
			return nil, fmt.Errorf("truncated %s line", keyword)
		}
		switch keyword {
		case "DATASET":
			if kind := fields[1]; kind != "UNSTRUCTURED_GRID" && kind != "POLYDATA" {
				return nil, fmt.Errorf("unsupported dataset type %s", kind)
			}
		case "POINTS":
			n, err := strconv.Atoi(fields[1])
			if err != nil {
				return nil, fmt.Errorf("POINTS count: %w", err)
			}
			coords, err := p.values(3*n, fields[2])
			if err != nil {
				return nil, fmt.Errorf("POINTS: %w", err)
			}
			points := make([]r3.Vec, n)
			for i := range points {
				points[i] = r3.Vec{X: coords[3*i], Y: coords[3*i+1], Z: coords[3*i+2]}
			}
			ps = mesh.NewPointSet(points)
		case "CELLS", "VERTICES", "LINES", "POLYGONS", "TRIANGLE_STRIPS":
			size, err := strconv.Atoi(fields[2])
			if err != nil {
				return nil, fmt.Errorf("%s size: %w", keyword, err)
			}
			if _, err := p.values(size, "int"); err != nil {
				return nil, fmt.Errorf("%s: %w", keyword, err)
			}
		case "CELL_TYPES":
			n, err := strconv.Atoi(fields[1])
			if err != nil {
				return nil, fmt.Errorf("CELL_TYPES count: %w", err)
			}
			if _, err := p.values(n, "int"); err != nil {
				return nil, fmt.Errorf("CELL_TYPES: %w", err)
			}
		case "POINT_DATA":
			inPointData = true
		case "CELL_DATA":
			n, err := strconv.Atoi(fields[1])
			if err != nil {
				return nil, fmt.Errorf("CELL_DATA count: %w", err)
			}
			numCells = n
			inPointData = false
		case "SCALARS":
			name, typ := fields[1], fields[2]
			comps := 1
			if len(fields) > 3 {
				if comps, err = strconv.Atoi(fields[3]); err != nil {
					return nil, fmt.Errorf("SCALARS %s components: %w", name, err)
				}
			}
			// The lookup-table line belongs to the scalars section.
			if lt := strings.Fields(p.line()); len(lt) == 0 || lt[0] != "LOOKUP_TABLE" {
				return nil, fmt.Errorf("SCALARS %s: missing LOOKUP_TABLE line", name)
			}
			count := ps.NumPoints()
			if !inPointData {
				count = numCells
			}
			values, err := p.values(count*comps, typ)
			if err != nil {
				return nil, fmt.Errorf("SCALARS %s: %w", name, err)
			}
			if inPointData && comps == 1 {
				if err := ps.AddScalar(name, values); err != nil {
					return nil, err
				}
			}
		case "VECTORS", "NORMALS":
			count := ps.NumPoints()
			if !inPointData {
				count = numCells
			}
			if _, err := p.values(3*count, fields[2]); err != nil {
				return nil, fmt.Errorf("%s %s: %w", keyword, fields[1], err)
			}
		case "FIELD":
			numArrays, err := strconv.Atoi(fields[2])
			if err != nil {
				return nil, fmt.Errorf("FIELD count: %w", err)
			}
			for i := 0; i < numArrays; i++ {
				af := strings.Fields(p.line())
				if len(af) < 4 {
					return nil, fmt.Errorf("FIELD array header %q", strings.Join(af, " "))
				}
				comps, err1 := strconv.Atoi(af[1])
				tuples, err2 := strconv.Atoi(af[2])
				if err1 != nil || err2 != nil {
					return nil, fmt.Errorf("FIELD array %s dimensions", af[0])
				}
				values, err := p.values(comps*tuples, af[3])
				if err != nil {
					return nil, fmt.Errorf("FIELD array %s: %w", af[0], err)
				}
				if inPointData && comps == 1 && tuples == ps.NumPoints() {
					if err := ps.AddScalar(af[0], values); err != nil {
						return nil, err
					}
				}
			}
		case "LOOKUP_TABLE":
			size, err := strconv.Atoi(fields[2])
			if err != nil {
				return nil, fmt.Errorf("LOOKUP_TABLE size: %w", err)
			}
			if _, err := p.values(4*size, "float"); err != nil {
				return nil, fmt.Errorf("LOOKUP_TABLE: %w", err)
			}
		case "METADATA":
			// ParaView appends metadata blocks; skip until a blank line.
			for {
				if l := p.line(); l == "" {
					break
				}
				if p.eof() {
					break
				}
			}
		default:
			return nil, fmt.Errorf("unsupported section %q", keyword)
		}
		if p.eof() {
			break
		}
	}
	return ps, nil
}

// parser walks the raw bytes. Keyword lines are always ASCII; data blocks
// are either whitespace-separated ASCII tokens or big-endian binary runs,
// per the file's declared format.
type parser struct {
	data   []byte
	pos    int
	binary bool
}

func (p *parser) eof() bool { return p.pos >= len(p.data) }

// line consumes up to the next newline and returns the trimmed text.
func (p *parser) line() string {
	start := p.pos
	for p.pos < len(p.data) && p.data[p.pos] != '\n' {
		p.pos++
	}
	line := string(p.data[start:p.pos])
	if p.pos < len(p.data) {
		p.pos++
	}
	return strings.TrimSpace(line)
}

// token consumes the next whitespace-separated ASCII token.
func (p *parser) token() (string, error) {
	for p.pos < len(p.data) && isSpace(p.data[p.pos]) {
		p.pos++
	}
	if p.eof() {
		return "", io.ErrUnexpectedEOF
	}
	start := p.pos
	for p.pos < len(p.data) && !isSpace(p.data[p.pos]) {
		p.pos++
	}
	return string(p.data[start:p.pos]), nil
}

func isSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r'
}

// values reads n values of the named VTK type as float64s.
func (p *parser) values(n int, typ string) ([]float64, error) {
	if p.binary {
		return p.binaryValues(n, typ)
	}
	out := make([]float64, n)
	for i := range out {
		tok, err := p.token()
		if err != nil {
			return nil, fmt.Errorf("value %d of %d: %w", i, n, err)
		}
		if out[i], err = strconv.ParseFloat(tok, 64); err != nil {
			return nil, fmt.Errorf("value %d of %d: %w", i, n, err)
		}
	}
	// Consume the trailing newline so the next keyword starts a line.
	p.line()
	return out, nil
}

func (p *parser) binaryValues(n int, typ string) ([]float64, error) {
	size, ok := typeSizes[typ]
	if !ok {
		return nil, fmt.Errorf("unsupported binary type %q", typ)
	}
	need := n * size
	if p.pos+need > len(p.data) {
		return nil, io.ErrUnexpectedEOF
	}
	out := make([]float64, n)
	for i := range out {
		chunk := p.data[p.pos : p.pos+size]
		p.pos += size
		switch typ {
		case "float":
			out[i] = float64(math.Float32frombits(binary.BigEndian.Uint32(chunk)))
		case "double":
			out[i] = math.Float64frombits(binary.BigEndian.Uint64(chunk))
		case "char", "unsigned_char":
			out[i] = float64(chunk[0])
		case "short", "unsigned_short":
			out[i] = float64(int16(binary.BigEndian.Uint16(chunk)))
		case "int", "unsigned_int":
			out[i] = float64(int32(binary.BigEndian.Uint32(chunk)))
		case "long", "unsigned_long", "vtkIdType":
			out[i] = float64(int64(binary.BigEndian.Uint64(chunk)))
		}
	}
	p.line()
	return out, nil
}

// Minimum field counts for section header lines.
var keywordFields = map[string]int{
	"DATASET": 2, "POINTS": 3, "CELLS": 3, "VERTICES": 3, "LINES": 3,
	"POLYGONS": 3, "TRIANGLE_STRIPS": 3, "CELL_TYPES": 2, "POINT_DATA": 2,
	"CELL_DATA": 2, "SCALARS": 3, "VECTORS": 3, "NORMALS": 3, "FIELD": 3,
	"LOOKUP_TABLE": 3,
}

var typeSizes = map[string]int{
	"char": 1, "unsigned_char": 1,
	"short": 2, "unsigned_short": 2,
	"int": 4, "unsigned_int": 4,
	"long": 8, "unsigned_long": 8, "vtkIdType": 8,
	"float": 4, "double": 8,
}
