package models

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/taigrr/onebit/pkg/math3d"
)

func parse(t *testing.T, src string) *Mesh {
	t.Helper()
	mesh, err := ParseOBJ(strings.NewReader(src))
	if err != nil {
		t.Fatalf("ParseOBJ: %v", err)
	}
	return mesh
}

func TestTriangulateCounts(t *testing.T) {
	for n := 3; n <= 8; n++ {
		face := make([]uint32, n)
		for i := range face {
			face[i] = uint32(i)
		}
		if got, want := len(triangulate(face)), 3*(n-2); got != want {
			t.Errorf("n=%d: %d indices, want %d", n, got, want)
		}
	}
}

func TestTriangulateOrder(t *testing.T) {
	tests := []struct {
		name string
		face []uint32
		want []uint32
	}{
		{"triangle", []uint32{0, 1, 2}, []uint32{0, 1, 2}},
		{"quad", []uint32{10, 11, 12, 13}, []uint32{10, 11, 12, 10, 12, 13}},
		// The fifth vertex pairs with f[1], not f[0].
		{"pentagon", []uint32{0, 1, 2, 3, 4}, []uint32{0, 1, 2, 0, 2, 3, 1, 3, 4}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := triangulate(tc.face); !reflect.DeepEqual(got, tc.want) {
				t.Errorf("triangulate(%v) = %v, want %v", tc.face, got, tc.want)
			}
		})
	}
}

func TestParseQuadFace(t *testing.T) {
	mesh := parse(t, `
v 0 0 0
v 1 0 0
v 1 1 0
v 0 1 0
f 1 2 3 4
`)
	want := []uint32{0, 1, 2, 0, 2, 3}
	if !reflect.DeepEqual(mesh.Indices, want) {
		t.Errorf("indices = %v, want %v", mesh.Indices, want)
	}
	if mesh.TriangleCount() != 2 {
		t.Errorf("TriangleCount = %d, want 2", mesh.TriangleCount())
	}
}

func TestParseTriangleWithNormals(t *testing.T) {
	mesh := parse(t, `# one triangle
v 0 0 0
v 1 0 0
v 0 1 0
vt 0 0
vt 1 0
vt 0 1
vn 0.0 0.0 -1.0
f 1/1/1 2/2/1 3/3/1
`)

	if len(mesh.Vertices) != 3 || len(mesh.Indices) != 3 {
		t.Fatalf("got %d vertices and %d indices, want 3 and 3", len(mesh.Vertices), len(mesh.Indices))
	}
	for i, v := range mesh.Vertices {
		if v.Normal != math3d.V3(0, 0, -1) {
			t.Errorf("vertex %d normal = %v, want explicit vn (0,0,-1)", i, v.Normal)
		}
		if v.Position.W != 1 {
			t.Errorf("vertex %d w = %v, want default 1", i, v.Position.W)
		}
	}
	if mesh.Vertices[1].UV != math3d.V3(1, 0, 0) {
		t.Errorf("vertex 1 uv = %v, want (1,0,0)", mesh.Vertices[1].UV)
	}
}

func TestParseOptionalComponents(t *testing.T) {
	mesh := parse(t, `
v 0 0 0 2
v 1 0 0
v 0 1 0 0.5 0.9 0.1 0.3
vt 0.5 0.25 0.75
vn 0 0 1
f 1/1 2//1 3/x/1
`)

	if mesh.Vertices[0].Position.W != 2 {
		t.Errorf("explicit w = %v, want 2", mesh.Vertices[0].Position.W)
	}
	// Trailing vertex colors follow w and do not displace it.
	if got := mesh.Vertices[2].Position; got != math3d.V4(0, 1, 0, 0.5) {
		t.Errorf("position with colors = %v, want (0,1,0,0.5)", got)
	}
	if mesh.Vertices[0].UV != math3d.V3(0.5, 0.25, 0.75) {
		t.Errorf("uv = %v, want (0.5,0.25,0.75)", mesh.Vertices[0].UV)
	}
	// "2//1" and "3/x/1" carry no usable UV.
	if mesh.Vertices[1].UV != (math3d.Vec3{}) || mesh.Vertices[2].UV != (math3d.Vec3{}) {
		t.Errorf("absent uv should not be assigned: %v %v", mesh.Vertices[1].UV, mesh.Vertices[2].UV)
	}
	// "1/1" has no normal slot; the file has a vn so nothing is synthesized.
	if mesh.Vertices[0].Normal != (math3d.Vec3{}) {
		t.Errorf("vertex 0 normal = %v, want zero", mesh.Vertices[0].Normal)
	}
	if mesh.Vertices[1].Normal != math3d.V3(0, 0, 1) {
		t.Errorf("vertex 1 normal = %v, want (0,0,1)", mesh.Vertices[1].Normal)
	}
}

func TestParseSharedVertexLastWriterWins(t *testing.T) {
	mesh := parse(t, `
v 0 0 0
v 1 0 0
v 0 1 0
v 1 1 0
vn 1 0 0
vn 0 1 0
f 1//1 2//1 3//1
f 2//2 4//2 3//2
`)

	// Vertices 2 and 3 (1-based) are shared and take the second face's normal.
	if mesh.Vertices[0].Normal != math3d.V3(1, 0, 0) {
		t.Errorf("vertex 0 normal = %v", mesh.Vertices[0].Normal)
	}
	for _, i := range []int{1, 2, 3} {
		if mesh.Vertices[i].Normal != math3d.V3(0, 1, 0) {
			t.Errorf("vertex %d normal = %v, want last writer (0,1,0)", i, mesh.Vertices[i].Normal)
		}
	}
	if len(mesh.Vertices) != 4 {
		t.Errorf("vertices were duplicated: %d", len(mesh.Vertices))
	}
}

func TestParseSynthesizesNormals(t *testing.T) {
	mesh := parse(t, `
v 0 0 0
v 1 0 0
v 0 1 0
f 1 2 3
`)
	for i, v := range mesh.Vertices {
		if math.Abs(v.Normal.Z-1) > 1e-12 {
			t.Errorf("vertex %d normal = %v, want (0,0,1)", i, v.Normal)
		}
	}
}

func TestParseSkipsNoise(t *testing.T) {
	mesh := parse(t, "#comment\n\nv\no thing\ng group\ns off\nvp 0.5 0.5\nusemtl m\nv 0 0 0\nv 1 0 0\nv 0 1 0\nf 1 2 3\n")
	if mesh.VertexCount() != 3 || mesh.TriangleCount() != 1 {
		t.Errorf("got %d vertices, %d triangles", mesh.VertexCount(), mesh.TriangleCount())
	}
}

func TestParseNegativeIndices(t *testing.T) {
	mesh := parse(t, `
v 0 0 0
v 1 0 0
v 0 1 0
f -3 -2 -1
`)
	if want := []uint32{0, 1, 2}; !reflect.DeepEqual(mesh.Indices, want) {
		t.Errorf("indices = %v, want %v", mesh.Indices, want)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		line int
		want error
	}{
		{"non-numeric position", "v 0 zero 0\n", 1, ErrMalformed},
		{"short position", "v 0 0\n", 1, ErrMalformed},
		{"short normal", "vn 0 1\n", 1, ErrMalformed},
		{"non-numeric uv", "vt a b\n", 1, ErrMalformed},
		{"bad face vertex", "v 0 0 0\nv 1 0 0\nv 0 1 0\nf 1 two 3\n", 4, ErrMalformed},
		{"missing face normal", "v 0 0 0\nv 1 0 0\nv 0 1 0\nvn 0 0 1\nf 1/1/ 2//1 3//1\n", 5, ErrMalformed},
		{"two reference face", "v 0 0 0\nv 1 0 0\nf 1 2\n", 3, ErrMalformed},
		{"index past end", "v 0 0 0\nv 1 0 0\nv 0 1 0\nf 1 2 4\n", 4, ErrIndexRange},
		{"zero index", "v 0 0 0\nv 1 0 0\nv 0 1 0\nf 0 1 2\n", 4, ErrIndexRange},
		{"position after first face", "v 0 0 0\nv 1 0 0\nv 0 1 0\nf 1 2 3\nv 1 1 0\nf 2 4 3\n", 6, ErrIndexRange},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseOBJ(strings.NewReader(tc.src))
			if err == nil {
				t.Fatal("expected error")
			}
			if !errors.Is(err, tc.want) {
				t.Errorf("error %v does not wrap %v", err, tc.want)
			}
			var pe *ParseError
			if !errors.As(err, &pe) {
				t.Fatalf("error %T is not a *ParseError", err)
			}
			if pe.Line != tc.line {
				t.Errorf("line = %d, want %d", pe.Line, tc.line)
			}
		})
	}
}

func TestExtendLatePositions(t *testing.T) {
	src := "v 0 0 0\nv 1 0 0\nv 0 1 0\nf 1 2 3\nv 1 1 0\nf 2 4 3\n"
	l := NewOBJLoader()
	l.ExtendLatePositions = true

	mesh, err := l.Parse(strings.NewReader(src), "")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if mesh.VertexCount() != 4 || mesh.TriangleCount() != 2 {
		t.Errorf("got %d vertices, %d triangles; want 4, 2", mesh.VertexCount(), mesh.TriangleCount())
	}
}

func TestLoadOBJFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tri.obj")
	if err := os.WriteFile(path, []byte("v 0 0 0\r\nv 1 0 0\r\nv 0 1 0\r\nf 1 2 3\r\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	mesh, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if mesh.Name != "tri.obj" {
		t.Errorf("name = %q, want tri.obj", mesh.Name)
	}
	if mesh.TriangleCount() != 1 {
		t.Errorf("TriangleCount = %d, want 1", mesh.TriangleCount())
	}
}

func TestLoadErrors(t *testing.T) {
	if _, err := LoadOBJ("/nonexistent/path.obj"); err == nil {
		t.Error("expected error for nonexistent file")
	}
	if _, err := Load("model.stl"); !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("Load(.stl) error = %v, want ErrUnsupportedFormat", err)
	}

	path := filepath.Join(t.TempDir(), "bad.obj")
	if err := os.WriteFile(path, []byte("v 1 2 three\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err := LoadOBJ(path)
	var pe *ParseError
	if !errors.As(err, &pe) || pe.Path != path {
		t.Errorf("error = %v, want ParseError for %s", err, path)
	}
}
