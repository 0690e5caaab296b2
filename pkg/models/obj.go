package models

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/taigrr/onebit/pkg/math3d"
)

// OBJLoader loads line-oriented OBJ mesh descriptions into Mesh format.
type OBJLoader struct {
	// CalculateNormals synthesizes flat normals with CalculateNormals(false)
	// when the file contains no vn records.
	CalculateNormals bool

	// ExtendLatePositions appends positions that appear after the first
	// face line to the vertex buffer. When false, the vertex buffer is
	// fixed at the first face line and faces referencing later positions
	// fail with ErrIndexRange.
	ExtendLatePositions bool
}

// NewOBJLoader creates a new OBJ loader with default options.
func NewOBJLoader() *OBJLoader {
	return &OBJLoader{
		CalculateNormals: true,
	}
}

// LoadOBJ loads an OBJ file with the default loader.
func LoadOBJ(path string) (*Mesh, error) {
	return NewOBJLoader().Load(path)
}

// ParseOBJ parses OBJ records from r with the default loader.
func ParseOBJ(r io.Reader) (*Mesh, error) {
	return NewOBJLoader().Parse(r, "")
}

// Load opens path and parses it. The file is closed before Load returns.
func (l *OBJLoader) Load(path string) (*Mesh, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open obj: %w", err)
	}
	defer f.Close()

	mesh, err := l.Parse(f, path)
	if err != nil {
		return nil, err
	}
	mesh.Name = filepath.Base(path)
	return mesh, nil
}

// objState accumulates the attribute lists while parsing.
type objState struct {
	path      string
	positions []math3d.Vec4
	texcoords []math3d.Vec3
	normals   []math3d.Vec3
	vertices  []Vertex // nil until the first face line
	indices   []uint32
}

// Parse reads OBJ records from r. path is used only in error messages.
func (l *OBJLoader) Parse(r io.Reader, path string) (*Mesh, error) {
	st := &objState{path: path}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()

		if strings.HasPrefix(line, "#") {
			continue
		}

		tokens := strings.Fields(line)
		if len(tokens) < 2 {
			continue
		}

		if err := l.parseRecord(st, tokens); err != nil {
			return nil, &ParseError{Path: path, Line: lineNo, Text: line, Err: err}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read obj: %w", err)
	}

	mesh := NewMesh("")
	mesh.Vertices = st.vertices
	if mesh.Vertices == nil {
		mesh.Vertices = make([]Vertex, 0)
	}
	mesh.Indices = st.indices
	if mesh.Indices == nil {
		mesh.Indices = make([]uint32, 0)
	}

	if err := mesh.Validate(); err != nil {
		return nil, err
	}

	if l.CalculateNormals && len(st.normals) == 0 {
		mesh.CalculateNormals(false)
	}

	Logger().Debug("loaded obj",
		"path", path,
		"positions", len(st.positions),
		"texcoords", len(st.texcoords),
		"normals", len(st.normals),
		"triangles", mesh.TriangleCount())

	return mesh, nil
}

func (l *OBJLoader) parseRecord(st *objState, tokens []string) error {
	switch tokens[0] {
	case "v":
		vals, err := parseFloats(tokens[1:], 3)
		if err != nil {
			return err
		}
		w := 1.0
		if len(vals) == 4 {
			w = vals[3]
		}
		st.positions = append(st.positions, math3d.V4(vals[0], vals[1], vals[2], w))

	case "vt":
		vals, err := parseFloats(tokens[1:], 1)
		if err != nil {
			return err
		}
		var uv math3d.Vec3
		uv.X = vals[0]
		if len(vals) > 1 {
			uv.Y = vals[1]
		}
		if len(vals) > 2 {
			uv.Z = vals[2]
		}
		st.texcoords = append(st.texcoords, uv)

	case "vn":
		vals, err := parseFloats(tokens[1:], 3)
		if err != nil {
			return err
		}
		st.normals = append(st.normals, math3d.V3(vals[0], vals[1], vals[2]))

	case "vp":
		Logger().Warn("parameter space vertices not supported", "path", st.path)

	case "f":
		return l.parseFace(st, tokens[1:])
	}
	return nil
}

// parseFloats parses at least minCount numbers from tokens. Tokens beyond the
// fourth are ignored, so trailing vertex colors leave w intact.
func parseFloats(tokens []string, minCount int) ([]float64, error) {
	if len(tokens) < minCount {
		return nil, fmt.Errorf("%w: want %d components, got %d", ErrMalformed, minCount, len(tokens))
	}
	if len(tokens) > 4 {
		tokens = tokens[:4]
	}

	vals := make([]float64, len(tokens))
	for i, tok := range tokens {
		v, err := strconv.ParseFloat(tok, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: %q is not a number", ErrMalformed, tok)
		}
		vals[i] = v
	}
	return vals, nil
}

// faceRef is one parsed i[/t[/n]] reference, converted to zero-based list
// positions. uv and normal are -1 when absent.
type faceRef struct {
	vertex int
	uv     int
	normal int
}

func parseFaceRef(tok string, np, nt, nn int) (faceRef, error) {
	ref := faceRef{uv: -1, normal: -1}
	parts := strings.Split(tok, "/")
	if len(parts) > 3 {
		return ref, fmt.Errorf("%w: face reference %q", ErrMalformed, tok)
	}

	v, err := strconv.Atoi(parts[0])
	if err != nil {
		return ref, fmt.Errorf("%w: face reference %q", ErrMalformed, tok)
	}
	ref.vertex = resolveIndex(v, np)

	// The UV slot may be empty ("1//3") or garbage; either way it is ignored.
	if len(parts) >= 2 {
		if t, err := strconv.Atoi(parts[1]); err == nil {
			ref.uv = resolveIndex(t, nt)
		}
	}

	if len(parts) == 3 {
		n, err := strconv.Atoi(parts[2])
		if err != nil {
			return ref, fmt.Errorf("%w: face normal in %q", ErrMalformed, tok)
		}
		ref.normal = resolveIndex(n, nn)
	}

	return ref, nil
}

// resolveIndex converts a 1-based OBJ index to zero-based. Negative indices
// count back from the end of the list collected so far. Zero resolves to -1.
func resolveIndex(i, n int) int {
	if i < 0 {
		return n + i
	}
	return i - 1
}

func (l *OBJLoader) parseFace(st *objState, tokens []string) error {
	if st.vertices == nil {
		st.vertices = make([]Vertex, 0, len(st.positions))
		for _, p := range st.positions {
			st.vertices = append(st.vertices, Vertex{Position: p})
		}
	} else if l.ExtendLatePositions {
		for _, p := range st.positions[len(st.vertices):] {
			st.vertices = append(st.vertices, Vertex{Position: p})
		}
	}

	if len(tokens) < 3 {
		return fmt.Errorf("%w: face needs 3 references, got %d", ErrMalformed, len(tokens))
	}

	face := make([]uint32, 0, len(tokens))
	for _, tok := range tokens {
		ref, err := parseFaceRef(tok, len(st.positions), len(st.texcoords), len(st.normals))
		if err != nil {
			return err
		}
		if ref.vertex < 0 || ref.vertex >= len(st.vertices) {
			return fmt.Errorf("%w: vertex %s, have %d vertices", ErrIndexRange, tok, len(st.vertices))
		}

		// Last writer wins for shared vertices.
		v := &st.vertices[ref.vertex]
		if ref.uv >= 0 && ref.uv < len(st.texcoords) {
			v.UV = st.texcoords[ref.uv]
		}
		if ref.normal >= 0 && ref.normal < len(st.normals) {
			v.Normal = st.normals[ref.normal]
		}

		face = append(face, uint32(ref.vertex))
	}

	st.indices = append(st.indices, triangulate(face)...)
	return nil
}

// triangulate splits a polygon into 3*(n-2) indices: (f0,f1,f2) followed by
// (f[i-3], f[i-1], f[i]) for every further vertex. This is not a center fan;
// for n >= 5 it can reuse vertices non-adjacently.
func triangulate(face []uint32) []uint32 {
	if len(face) < 3 {
		return nil
	}

	out := make([]uint32, 0, 3*(len(face)-2))
	out = append(out, face[0], face[1], face[2])
	for i := 3; i < len(face); i++ {
		out = append(out, face[i-3], face[i-1], face[i])
	}
	return out
}
